package catalog

import (
	"github.com/quillscript/quill/internal/ident"
	"github.com/quillscript/quill/internal/types"
)

// Resolver composes the native and script catalogs behind one lookup
// surface. Lookups try native first: primitives and standard-library types
// dominate, so this ordering minimizes average cost without a routing flag.
//
// A combined shadow set of every registered identity, seeded from the
// native catalog at construction, makes native/script collisions a single
// set probe at registration time.
type Resolver struct {
	native *NativeCatalog
	script *ScriptCatalog

	// ext is the append-only extension holding instantiations of native
	// generics; the frozen native catalog itself is never written.
	ext table

	shadow map[ident.ID]struct{}

	// Instantiate is the template instantiation hook used when a textual
	// type name carries generic arguments. Wired by the engine; nil means
	// generic names resolve purely to their structural identity.
	Instantiate func(generic ident.ID, args []types.DataType) (ident.ID, error)
}

// NewResolver creates a resolution context over a finalized native catalog
// and a fresh script catalog.
func NewResolver(native *NativeCatalog) *Resolver {
	r := &Resolver{
		native: native,
		script: NewScriptCatalog(),
		ext:    newTable(),
		shadow: make(map[ident.ID]struct{}),
	}
	native.identities(func(id ident.ID) {
		r.shadow[id] = struct{}{}
	})
	return r
}

// Script returns the unit's script catalog.
func (r *Resolver) Script() *ScriptCatalog { return r.script }

// Known reports whether an identity is registered in either catalog.
func (r *Resolver) Known(id ident.ID) bool {
	_, ok := r.shadow[id]
	return ok
}

// GetType resolves a type identity: native, then native extensions, then
// script. A miss is a normal lookup result, not an error — forward
// references store identities before their declarations exist.
func (r *Resolver) GetType(id ident.ID) (*types.TypeDecl, bool) {
	if d, ok := r.native.GetType(id); ok {
		return d, true
	}
	if d, ok := r.ext.types[id]; ok {
		return d, true
	}
	return r.script.GetType(id)
}

// GetFunction resolves a callable identity through both catalogs.
func (r *Resolver) GetFunction(id ident.ID) (*types.FuncDecl, bool) {
	if d, ok := r.native.GetFunction(id); ok {
		return d, true
	}
	if d, ok := r.ext.funcs[id]; ok {
		return d, true
	}
	return r.script.GetFunction(id)
}

// TypeByName computes the identity of a type name and resolves it.
func (r *Resolver) TypeByName(name string) (*types.TypeDecl, bool) {
	return r.GetType(ident.FromName(name))
}

// FunctionsNamed returns the overload group for a function name, merged
// across both catalogs.
func (r *Resolver) FunctionsNamed(name string) []ident.ID {
	var out []ident.ID
	out = append(out, r.native.FunctionsNamed(name)...)
	out = append(out, r.ext.funcsByName[name]...)
	out = append(out, r.script.FunctionsNamed(name)...)
	return out
}

// GlobalByName resolves a host-exposed global declaration by name.
func (r *Resolver) GlobalByName(name string) (*types.GlobalDecl, bool) {
	id, ok := r.native.globalNames[name]
	if !ok {
		return nil, false
	}
	return r.native.GetGlobal(id)
}

// RegisterScriptType registers a script type declaration, failing with a
// DuplicateError if its identity is already claimed by either catalog.
func (r *Resolver) RegisterScriptType(decl *types.TypeDecl) error {
	if decl.ID.IsEmpty() {
		decl.ComputeID()
	}
	if r.Known(decl.ID) {
		return &DuplicateError{Name: decl.Name, Domain: types.DomainType}
	}
	for _, members := range [][]*types.FuncDecl{decl.Methods, decl.Constructors, decl.Operators} {
		for _, m := range members {
			m.Owner = decl.ID
			if m.ID.IsEmpty() {
				m.ComputeID()
			}
			if r.Known(m.ID) {
				return &DuplicateError{Name: decl.Name + "::" + m.Name, Domain: m.Domain}
			}
		}
	}
	r.script.insertTypeDecl(decl)
	r.claimType(decl)
	return nil
}

// RegisterScriptFunction registers a script global function.
func (r *Resolver) RegisterScriptFunction(decl *types.FuncDecl) error {
	decl.Domain = types.DomainFunction
	if decl.ID.IsEmpty() {
		decl.ComputeID()
	}
	if r.Known(decl.ID) {
		return &DuplicateError{Name: decl.Name, Domain: types.DomainFunction}
	}
	r.script.insertFuncDecl(decl)
	r.shadow[decl.ID] = struct{}{}
	return nil
}

// RegisterInstance registers a template instantiation into whichever side
// owns the generic declaration: instances of native generics go to the
// append-only extension, script generics to the script catalog.
func (r *Resolver) RegisterInstance(generic ident.ID, decl *types.TypeDecl) error {
	if r.Known(decl.ID) {
		return &DuplicateError{Name: decl.Name, Domain: types.DomainType}
	}
	if _, nativeOwned := r.native.GetType(generic); nativeOwned {
		r.ext.insertType(decl)
	} else {
		r.script.insertTypeDecl(decl)
	}
	r.claimType(decl)
	return nil
}

func (r *Resolver) claimType(decl *types.TypeDecl) {
	r.shadow[decl.ID] = struct{}{}
	for _, members := range [][]*types.FuncDecl{decl.Methods, decl.Constructors, decl.Operators} {
		for _, m := range members {
			r.shadow[m.ID] = struct{}{}
		}
	}
}

// NameOf renders an identity for diagnostics: the declared name when the
// identity is known, the raw hash otherwise.
func (r *Resolver) NameOf(id ident.ID) string {
	if d, ok := r.GetType(id); ok {
		return d.Name
	}
	if d, ok := r.GetFunction(id); ok {
		return d.Name
	}
	return id.String()
}
