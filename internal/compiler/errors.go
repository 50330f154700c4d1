// Package compiler lowers syntax trees into bytecode chunks, tracking local
// scopes and closure captures along the way. One Compiler instance compiles
// one function body; the Unit driver in unit.go runs the per-unit passes.
package compiler

import (
	"fmt"

	"github.com/quillscript/quill/internal/span"
)

// Error is a compile diagnostic carrying a source location. The wrapped
// error is one of the structured kinds below or a catalog/template error.
type Error struct {
	Span span.Span
	Err  error
}

func (e *Error) Error() string {
	if e.Span.IsZero() {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Span, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// errAt wraps an error with a source location.
func errAt(s span.Span, err error) *Error {
	return &Error{Span: s, Err: err}
}

// RedeclarationError reports a name declared twice at the same scope depth.
type RedeclarationError struct {
	Name  string
	First span.Span
}

func (e *RedeclarationError) Error() string {
	return fmt.Sprintf("redeclaration of %q (first declared at %s)", e.Name, e.First)
}

// UseBeforeInitError reports a local read before it was initialized.
type UseBeforeInitError struct {
	Name string
}

func (e *UseBeforeInitError) Error() string {
	return fmt.Sprintf("variable %q used before initialization", e.Name)
}

// ConstViolationError reports an assignment to a const variable or capture.
type ConstViolationError struct {
	Name string
}

func (e *ConstViolationError) Error() string {
	return fmt.Sprintf("cannot assign to const %q", e.Name)
}

// ControlFlowError reports break/continue outside any loop.
type ControlFlowError struct {
	Keyword string
}

func (e *ControlFlowError) Error() string {
	return fmt.Sprintf("%s outside of loop", e.Keyword)
}

// MismatchError reports a value of the wrong type in a typed position.
type MismatchError struct {
	Want string
	Got  string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, got %s", e.Want, e.Got)
}

// LimitError reports a per-function code generation limit being exceeded:
// the operand no longer fits its encoded width.
type LimitError struct {
	What string
	Max  int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("too many %s in function (max %d)", e.What, e.Max)
}

// MissingReturnError reports a non-void function whose body can fall off
// the end.
type MissingReturnError struct {
	Name string
}

func (e *MissingReturnError) Error() string {
	return fmt.Sprintf("function %q is missing a return statement", e.Name)
}
