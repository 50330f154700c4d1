// Package catalog stores declarations under their identity values and
// resolves names against the combined native and script tables.
//
// The native catalog is built once from the host's registrations and frozen;
// after Finalize it is safe to share read-only across concurrent
// compilations. The script catalog belongs to a single compilation unit.
package catalog

import (
	"fmt"

	"github.com/quillscript/quill/internal/ident"
	"github.com/quillscript/quill/internal/types"
)

// table is the identity-keyed storage both catalogs share the shape of:
// primary maps keyed by identity, plus name-keyed secondary indexes.
type table struct {
	types       map[ident.ID]*types.TypeDecl
	funcs       map[ident.ID]*types.FuncDecl
	typeNames   map[string]ident.ID
	funcsByName map[string][]ident.ID
	globals     map[ident.ID]*types.GlobalDecl
	globalNames map[string]ident.ID
}

func newTable() table {
	return table{
		types:       make(map[ident.ID]*types.TypeDecl),
		funcs:       make(map[ident.ID]*types.FuncDecl),
		typeNames:   make(map[string]ident.ID),
		funcsByName: make(map[string][]ident.ID),
		globals:     make(map[ident.ID]*types.GlobalDecl),
		globalNames: make(map[string]ident.ID),
	}
}

// insertType stores a type and indexes its members under their identities.
func (t *table) insertType(decl *types.TypeDecl) {
	t.types[decl.ID] = decl
	t.typeNames[decl.Name] = decl.ID
	for _, m := range decl.Methods {
		t.funcs[m.ID] = m
	}
	for _, c := range decl.Constructors {
		t.funcs[c.ID] = c
	}
	for _, o := range decl.Operators {
		t.funcs[o.ID] = o
	}
}

func (t *table) insertFunc(decl *types.FuncDecl) {
	t.funcs[decl.ID] = decl
	t.funcsByName[decl.Name] = append(t.funcsByName[decl.Name], decl.ID)
}

// NativeCatalog is the immutable table of host-supplied declarations.
// Construct one through Builder; it accepts no writes after Finalize.
type NativeCatalog struct {
	table
}

// GetType returns the native type declaration for an identity.
func (n *NativeCatalog) GetType(id ident.ID) (*types.TypeDecl, bool) {
	d, ok := n.types[id]
	return d, ok
}

// GetFunction returns the native callable declaration for an identity.
func (n *NativeCatalog) GetFunction(id ident.ID) (*types.FuncDecl, bool) {
	d, ok := n.funcs[id]
	return d, ok
}

// FunctionsNamed returns the native overload group for a function name.
func (n *NativeCatalog) FunctionsNamed(name string) []ident.ID {
	return n.funcsByName[name]
}

// GetGlobal returns the native global declaration for an identity.
func (n *NativeCatalog) GetGlobal(id ident.ID) (*types.GlobalDecl, bool) {
	d, ok := n.globals[id]
	return d, ok
}

// Fingerprint folds every claimed identity into one order-independent
// value. Two hosts exposing the same declaration set fingerprint equally,
// which keys cached compilation artifacts.
func (n *NativeCatalog) Fingerprint() uint64 {
	var fp uint64
	n.identities(func(id ident.ID) {
		fp ^= uint64(id)
	})
	return fp
}

// identities calls fn for every identity the catalog claims.
func (n *NativeCatalog) identities(fn func(ident.ID)) {
	for id := range n.types {
		fn(id)
	}
	for id := range n.funcs {
		fn(id)
	}
	for id := range n.globals {
		fn(id)
	}
}

// Builder accumulates host declarations for a NativeCatalog. Identities are
// computed from each declaration's structure, so registration order never
// matters and forward references between declarations are fine.
type Builder struct {
	t    table
	errs []error
	done bool
}

// NewBuilder creates an empty native catalog builder.
func NewBuilder() *Builder {
	return &Builder{t: newTable()}
}

func (b *Builder) fail(err error) {
	b.errs = append(b.errs, err)
}

// AddType registers a host type with all its members. Member identities are
// computed here if not already set.
func (b *Builder) AddType(decl *types.TypeDecl) *Builder {
	if b.done {
		b.fail(fmt.Errorf("AddType(%q) after Finalize", decl.Name))
		return b
	}
	if decl.ID.IsEmpty() {
		decl.ComputeID()
	}
	if _, exists := b.t.types[decl.ID]; exists {
		b.fail(&DuplicateError{Name: decl.Name, Domain: types.DomainType})
		return b
	}
	for _, members := range [][]*types.FuncDecl{decl.Methods, decl.Constructors, decl.Operators} {
		for _, m := range members {
			m.Owner = decl.ID
			if m.ID.IsEmpty() {
				m.ComputeID()
			}
			if _, exists := b.t.funcs[m.ID]; exists {
				b.fail(&DuplicateError{Name: decl.Name + "::" + m.Name, Domain: m.Domain})
			}
		}
	}
	b.t.insertType(decl)
	return b
}

// AddFunction registers a global host function.
func (b *Builder) AddFunction(decl *types.FuncDecl) *Builder {
	if b.done {
		b.fail(fmt.Errorf("AddFunction(%q) after Finalize", decl.Name))
		return b
	}
	decl.Domain = types.DomainFunction
	if decl.ID.IsEmpty() {
		decl.ComputeID()
	}
	if _, exists := b.t.funcs[decl.ID]; exists {
		b.fail(&DuplicateError{Name: decl.Name, Domain: types.DomainFunction})
		return b
	}
	b.t.insertFunc(decl)
	return b
}

// AddGlobal registers a host-exposed global value declaration. Only the
// declaration lives here; the value belongs to an external GlobalStore.
func (b *Builder) AddGlobal(decl *types.GlobalDecl) *Builder {
	if b.done {
		b.fail(fmt.Errorf("AddGlobal(%q) after Finalize", decl.Name))
		return b
	}
	if decl.ID.IsEmpty() {
		decl.ComputeID()
	}
	if _, exists := b.t.globals[decl.ID]; exists {
		b.fail(&DuplicateError{Name: decl.Name, Domain: types.DomainType})
		return b
	}
	b.t.globals[decl.ID] = decl
	b.t.globalNames[decl.Name] = decl.ID
	return b
}

// Finalize freezes the catalog. Any registration problem collected along
// the way is reported here; a catalog with errors is unusable.
func (b *Builder) Finalize() (*NativeCatalog, error) {
	if b.done {
		return nil, fmt.Errorf("Finalize called twice")
	}
	b.done = true
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("native catalog build failed: %w (and %d more)", b.errs[0], len(b.errs)-1)
	}
	return &NativeCatalog{table: b.t}, nil
}
