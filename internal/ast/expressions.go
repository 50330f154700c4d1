package ast

import "github.com/quillscript/quill/internal/span"

// IntLit is a signed integer literal.
type IntLit struct {
	Value int64
	Span  span.Span
}

func (e *IntLit) GetSpan() span.Span { return e.Span }
func (e *IntLit) expressionNode()    {}

// FloatLit is a floating point literal.
type FloatLit struct {
	Value float64
	Span  span.Span
}

func (e *FloatLit) GetSpan() span.Span { return e.Span }
func (e *FloatLit) expressionNode()    {}

// StringLit is a string literal.
type StringLit struct {
	Value string
	Span  span.Span
}

func (e *StringLit) GetSpan() span.Span { return e.Span }
func (e *StringLit) expressionNode()    {}

// BoolLit is true or false.
type BoolLit struct {
	Value bool
	Span  span.Span
}

func (e *BoolLit) GetSpan() span.Span { return e.Span }
func (e *BoolLit) expressionNode()    {}

// NullLit is the null handle literal.
type NullLit struct {
	Span span.Span
}

func (e *NullLit) GetSpan() span.Span { return e.Span }
func (e *NullLit) expressionNode()    {}

// Ident references a named variable, capture or global.
type Ident struct {
	Name string
	Span span.Span
}

func (e *Ident) GetSpan() span.Span { return e.Span }
func (e *Ident) expressionNode()    {}

// CallExpr calls a named function, or constructs a value when the name
// resolves to a type. Generic calls carry explicit type arguments:
// name<T, ...>(args).
type CallExpr struct {
	Name     string
	TypeArgs []TypeRef
	Args     []Expression
	Span     span.Span
}

func (e *CallExpr) GetSpan() span.Span { return e.Span }
func (e *CallExpr) expressionNode()    {}

// MethodCallExpr calls a method on a receiver expression.
type MethodCallExpr struct {
	Recv Expression
	Name string
	Args []Expression
	Span span.Span
}

func (e *MethodCallExpr) GetSpan() span.Span { return e.Span }
func (e *MethodCallExpr) expressionNode()    {}

// BinaryExpr is an infix operation.
type BinaryExpr struct {
	Op    string
	Left  Expression
	Right Expression
	Span  span.Span
}

func (e *BinaryExpr) GetSpan() span.Span { return e.Span }
func (e *BinaryExpr) expressionNode()    {}

// UnaryExpr is a prefix operation.
type UnaryExpr struct {
	Op      string
	Operand Expression
	Span    span.Span
}

func (e *UnaryExpr) GetSpan() span.Span { return e.Span }
func (e *UnaryExpr) expressionNode()    {}

// AssignExpr assigns a value to a named variable.
type AssignExpr struct {
	Target *Ident
	Value  Expression
	Span   span.Span
}

func (e *AssignExpr) GetSpan() span.Span { return e.Span }
func (e *AssignExpr) expressionNode()    {}

// CastExpr converts a value to an explicitly named type.
type CastExpr struct {
	Type  TypeRef
	Value Expression
	Span  span.Span
}

func (e *CastExpr) GetSpan() span.Span { return e.Span }
func (e *CastExpr) expressionNode()    {}

// LambdaExpr is an anonymous function body. Free variables referencing the
// enclosing function become captures; a lambda with captures compiles to a
// closure, one without compiles to a plain function.
type LambdaExpr struct {
	Params []*ParamDecl
	Return TypeRef
	Body   *BlockStmt
	Span   span.Span
}

func (e *LambdaExpr) GetSpan() span.Span { return e.Span }
func (e *LambdaExpr) expressionNode()    {}
