package catalog

import (
	"sort"

	"github.com/quillscript/quill/internal/ident"
	"github.com/quillscript/quill/internal/types"
)

// ScriptCatalog holds the declarations of one compilation unit. It starts
// empty and grows as the unit's declarations are analyzed; it is discarded
// with the unit. Duplicate detection happens in the Resolver, which sees
// both catalogs.
type ScriptCatalog struct {
	table
}

// NewScriptCatalog creates an empty script catalog.
func NewScriptCatalog() *ScriptCatalog {
	return &ScriptCatalog{table: newTable()}
}

// GetType returns the script type declaration for an identity.
func (s *ScriptCatalog) GetType(id ident.ID) (*types.TypeDecl, bool) {
	d, ok := s.types[id]
	return d, ok
}

// GetFunction returns the script callable declaration for an identity.
func (s *ScriptCatalog) GetFunction(id ident.ID) (*types.FuncDecl, bool) {
	d, ok := s.funcs[id]
	return d, ok
}

// FunctionsNamed returns the script overload group for a function name.
func (s *ScriptCatalog) FunctionsNamed(name string) []ident.ID {
	return s.funcsByName[name]
}

// Types returns every script type declaration, sorted by name.
func (s *ScriptCatalog) Types() []*types.TypeDecl {
	out := make([]*types.TypeDecl, 0, len(s.types))
	for _, d := range s.types {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Functions returns every script callable declaration, members included,
// sorted by name then identity.
func (s *ScriptCatalog) Functions() []*types.FuncDecl {
	out := make([]*types.FuncDecl, 0, len(s.funcs))
	for _, d := range s.funcs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *ScriptCatalog) insertTypeDecl(decl *types.TypeDecl) {
	s.insertType(decl)
}

func (s *ScriptCatalog) insertFuncDecl(decl *types.FuncDecl) {
	s.insertFunc(decl)
}
