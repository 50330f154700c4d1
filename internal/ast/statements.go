package ast

import "github.com/quillscript/quill/internal/span"

// BlockStmt is a braced statement list opening a nested scope.
type BlockStmt struct {
	Stmts []Statement
	Span  span.Span
}

func (s *BlockStmt) GetSpan() span.Span { return s.Span }
func (s *BlockStmt) statementNode()     {}

// VarDeclStmt declares a local variable, optionally with an initializer.
type VarDeclStmt struct {
	Name    string
	Type    TypeRef
	IsConst bool
	Init    Expression
	Span    span.Span
}

func (s *VarDeclStmt) GetSpan() span.Span { return s.Span }
func (s *VarDeclStmt) statementNode()     {}

// ExprStmt evaluates an expression and discards its value.
type ExprStmt struct {
	Expr Expression
	Span span.Span
}

func (s *ExprStmt) GetSpan() span.Span { return s.Span }
func (s *ExprStmt) statementNode()     {}

// IfStmt is a conditional with an optional else branch.
type IfStmt struct {
	Cond Expression
	Then *BlockStmt
	Else Statement // *BlockStmt or *IfStmt, nil when absent
	Span span.Span
}

func (s *IfStmt) GetSpan() span.Span { return s.Span }
func (s *IfStmt) statementNode()     {}

// WhileStmt is a pre-tested loop.
type WhileStmt struct {
	Cond Expression
	Body *BlockStmt
	Span span.Span
}

func (s *WhileStmt) GetSpan() span.Span { return s.Span }
func (s *WhileStmt) statementNode()     {}

// BreakStmt exits the innermost loop.
type BreakStmt struct {
	Span span.Span
}

func (s *BreakStmt) GetSpan() span.Span { return s.Span }
func (s *BreakStmt) statementNode()     {}

// ContinueStmt jumps to the innermost loop's continue target.
type ContinueStmt struct {
	Span span.Span
}

func (s *ContinueStmt) GetSpan() span.Span { return s.Span }
func (s *ContinueStmt) statementNode()     {}

// ReturnStmt returns from the enclosing function, optionally with a value.
type ReturnStmt struct {
	Value Expression // nil for bare return
	Span  span.Span
}

func (s *ReturnStmt) GetSpan() span.Span { return s.Span }
func (s *ReturnStmt) statementNode()     {}
