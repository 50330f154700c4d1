// Package span provides source positions for diagnostics.
package span

import "fmt"

// Span is a source location attached to AST nodes and errors.
type Span struct {
	Line int
	Col  int
}

// New creates a span from a line and column.
func New(line, col int) Span {
	return Span{Line: line, Col: col}
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.Col)
}

// IsZero reports whether the span carries no position information.
func (s Span) IsZero() bool {
	return s.Line == 0 && s.Col == 0
}
