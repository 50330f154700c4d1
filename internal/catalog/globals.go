package catalog

import (
	"github.com/quillscript/quill/internal/ident"
)

// GlobalStore holds the mutable runtime values of host-exposed globals,
// keyed by the same identity scheme as the catalogs. It is deliberately
// separate from the native catalog so the catalog can stay immutable after
// build; an execution context owns one store per run.
type GlobalStore struct {
	values map[ident.ID]any
}

// NewGlobalStore creates an empty store.
func NewGlobalStore() *GlobalStore {
	return &GlobalStore{values: make(map[ident.ID]any)}
}

// Set stores the value for a global identity.
func (g *GlobalStore) Set(id ident.ID, value any) {
	g.values[id] = value
}

// Get returns the value for a global identity.
func (g *GlobalStore) Get(id ident.ID) (any, bool) {
	v, ok := g.values[id]
	return v, ok
}

// Len returns the number of stored values.
func (g *GlobalStore) Len() int {
	return len(g.values)
}
