// Package ast defines the syntax tree the compiler core consumes.
//
// The surface parser (an external collaborator) produces these nodes. Type
// references are carried textually and resolved against the catalogs during
// compilation, so the tree itself never holds identities.
package ast

import "github.com/quillscript/quill/internal/span"

// Node is the base interface for all syntax tree nodes.
type Node interface {
	GetSpan() span.Span
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
}

// Unit is the root of one compilation unit.
type Unit struct {
	File    string
	Classes []*ClassDecl
	Funcs   []*FuncDecl
}

// TypeRef is a textual type reference, e.g. "int", "const string",
// "array<int>", "Player@". Resolved during compilation.
type TypeRef struct {
	Name string
	Span span.Span
}

// IsVoid reports whether the reference is absent (void return).
func (t TypeRef) IsVoid() bool { return t.Name == "" || t.Name == "void" }

// FuncKind distinguishes the callable declarations a class or unit carries.
type FuncKind int

const (
	FuncGlobal FuncKind = iota
	FuncMethod
	FuncConstructor
	FuncOperator
)

// ParamDecl is one declared parameter.
type ParamDecl struct {
	Name    string
	Type    TypeRef
	IsConst bool
	Span    span.Span
}

// FuncDecl declares a function, method, constructor or operator.
type FuncDecl struct {
	Name    string
	Kind    FuncKind
	Params  []*ParamDecl
	Return  TypeRef
	IsConst bool
	Body    *BlockStmt
	Span    span.Span
}

func (f *FuncDecl) GetSpan() span.Span { return f.Span }

// FieldDecl is one member field of a class declaration.
type FieldDecl struct {
	Name    string
	Type    TypeRef
	IsConst bool
	Span    span.Span
}

// ClassDecl declares a script type, optionally generic.
type ClassDecl struct {
	Name           string
	TemplateParams []string
	Fields         []*FieldDecl
	Methods        []*FuncDecl
	Ctors          []*FuncDecl
	Operators      []*FuncDecl
	Span           span.Span
}

func (c *ClassDecl) GetSpan() span.Span { return c.Span }
