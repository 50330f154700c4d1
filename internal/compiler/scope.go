package compiler

import (
	"github.com/quillscript/quill/internal/span"
	"github.com/quillscript/quill/internal/types"
)

// LocalVar is one declared local variable during function compilation.
type LocalVar struct {
	Name        string
	Type        types.DataType
	Slot        int
	Depth       int
	IsConst     bool
	Initialized bool
	Span        span.Span
}

// CaptureVar is a nested function's reference to a variable owned by an
// enclosing function. The enclosing scope keeps its variable untouched.
type CaptureVar struct {
	Name    string
	Type    types.DataType
	Index   int
	IsLocal bool // true: captures an enclosing local slot; false: re-captures an enclosing capture
	Slot    int  // slot (IsLocal) or capture index (!IsLocal) in the enclosing scope
	IsConst bool
}

// shadowEntry saves a variable displaced by shadowing, tagged with the
// depth at which the shadowing occurred so PopScope knows when to restore.
type shadowEntry struct {
	depth int
	name  string
	saved LocalVar
}

// Slot and capture operands encode in one byte, as does a closure's
// capture count.
const (
	maxLocals   = 256
	maxCaptures = 255
)

// LocalScope tracks the locals of one function body: slot allocation,
// nested block scopes with shadowing, and closure captures. Nested function
// scopes form a chain through parent; captures resolve by recursive
// delegation up that chain, never by flattening.
type LocalScope struct {
	vars     map[string]LocalVar
	shadowed []shadowEntry
	depth    int
	nextSlot int
	maxSlot  int
	captures []CaptureVar
	parent   *LocalScope
}

// NewLocalScope creates the scope for a top-level function.
func NewLocalScope() *LocalScope {
	return &LocalScope{vars: make(map[string]LocalVar)}
}

// Nested creates the scope for a function nested inside parent (a lambda).
func Nested(parent *LocalScope) *LocalScope {
	s := NewLocalScope()
	s.parent = parent
	return s
}

// PushScope enters a nested block scope.
func (s *LocalScope) PushScope() {
	s.depth++
}

// PopScope exits the current block scope: every variable declared at this
// depth is dropped and any variable it shadowed is restored. Slots become
// reusable but the historical maximum is retained for frame sizing.
func (s *LocalScope) PopScope() {
	freed := 0
	for name, v := range s.vars {
		if v.Depth >= s.depth {
			delete(s.vars, name)
			freed++
		}
	}
	for len(s.shadowed) > 0 {
		last := s.shadowed[len(s.shadowed)-1]
		if last.depth != s.depth {
			break
		}
		s.vars[last.name] = last.saved
		s.shadowed = s.shadowed[:len(s.shadowed)-1]
	}
	s.nextSlot -= freed
	s.depth--
}

// Depth returns the current scope depth (0 = function scope).
func (s *LocalScope) Depth() int { return s.depth }

// Declare registers a new local at the current depth and allocates its
// stack slot. Declaring a name that already exists at the current depth is
// a RedeclarationError; at a shallower depth it shadows, and the shadowed
// record is restored when this depth is popped.
func (s *LocalScope) Declare(name string, t types.DataType, isConst bool, at span.Span) (int, error) {
	if existing, ok := s.vars[name]; ok {
		if existing.Depth == s.depth {
			return 0, &RedeclarationError{Name: name, First: existing.Span}
		}
		s.shadowed = append(s.shadowed, shadowEntry{depth: s.depth, name: name, saved: existing})
	}

	slot, err := s.allocateSlot()
	if err != nil {
		return 0, err
	}
	s.vars[name] = LocalVar{
		Name:    name,
		Type:    t,
		Slot:    slot,
		Depth:   s.depth,
		IsConst: isConst,
		Span:    at,
	}
	return slot, nil
}

// DeclareParam registers a function parameter: depth 0, already
// initialized.
func (s *LocalScope) DeclareParam(name string, t types.DataType, isConst bool, at span.Span) (int, error) {
	if existing, ok := s.vars[name]; ok {
		return 0, &RedeclarationError{Name: name, First: existing.Span}
	}
	slot, err := s.allocateSlot()
	if err != nil {
		return 0, err
	}
	s.vars[name] = LocalVar{
		Name:        name,
		Type:        t,
		Slot:        slot,
		Depth:       0,
		IsConst:     isConst,
		Initialized: true,
		Span:        at,
	}
	return slot, nil
}

func (s *LocalScope) allocateSlot() (int, error) {
	if s.nextSlot >= maxLocals {
		return 0, &LimitError{What: "local variables", Max: maxLocals}
	}
	slot := s.nextSlot
	s.nextSlot++
	if s.nextSlot > s.maxSlot {
		s.maxSlot = s.nextSlot
	}
	return slot, nil
}

// MarkInitialized flags a local as initialized, making it readable.
func (s *LocalScope) MarkInitialized(name string) {
	if v, ok := s.vars[name]; ok {
		v.Initialized = true
		s.vars[name] = v
	}
}

// Get looks a name up among this function's own locals only.
func (s *LocalScope) Get(name string) (LocalVar, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Lookup is the result of ResolveOrCapture.
type Lookup struct {
	Local   *LocalVar
	Capture *CaptureVar
}

// ResolveOrCapture resolves a name against this scope chain: own locals
// first, then already recorded captures, then the enclosing scope
// recursively. A hit in an enclosing scope appends a new capture record to
// this scope — a direct capture of the enclosing local's slot, or a
// transitive re-capture of the enclosing scope's own capture entry.
// Requesting the same name twice never creates a second record.
func (s *LocalScope) ResolveOrCapture(name string) (Lookup, bool) {
	if v, ok := s.vars[name]; ok {
		return Lookup{Local: &v}, true
	}
	for i := range s.captures {
		if s.captures[i].Name == name {
			return Lookup{Capture: &s.captures[i]}, true
		}
	}
	if s.parent == nil {
		return Lookup{}, false
	}

	parentHit, ok := s.parent.ResolveOrCapture(name)
	if !ok {
		return Lookup{}, false
	}

	var cap CaptureVar
	if parentHit.Local != nil {
		cap = CaptureVar{
			Name:    name,
			Type:    parentHit.Local.Type,
			Index:   len(s.captures),
			IsLocal: true,
			Slot:    parentHit.Local.Slot,
			IsConst: parentHit.Local.IsConst,
		}
	} else {
		cap = CaptureVar{
			Name:    name,
			Type:    parentHit.Capture.Type,
			Index:   len(s.captures),
			IsLocal: false,
			Slot:    parentHit.Capture.Index,
			IsConst: parentHit.Capture.IsConst,
		}
	}
	s.captures = append(s.captures, cap)
	return Lookup{Capture: &s.captures[len(s.captures)-1]}, true
}

// Captures returns this scope's capture list in capture-index order.
func (s *LocalScope) Captures() []CaptureVar { return s.captures }

// HasCaptures reports whether this function must be represented as a
// closure.
func (s *LocalScope) HasCaptures() bool { return len(s.captures) > 0 }

// FrameSize returns the maximum number of simultaneously live slots, which
// sizes the function's stack frame.
func (s *LocalScope) FrameSize() int { return s.maxSlot }
