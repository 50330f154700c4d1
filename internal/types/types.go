// Package types defines the declaration records stored in the catalogs:
// type declarations, callable declarations (functions, methods,
// constructors, operators) and the DataType references between them.
package types

import (
	"strings"

	"github.com/quillscript/quill/internal/ident"
)

// Domain is the category of a declaration. It selects the identity domain
// so that, e.g., a type and a function with the same name never collide.
type Domain int

const (
	DomainType Domain = iota
	DomainFunction
	DomainMethod
	DomainConstructor
	DomainOperator
)

func (d Domain) String() string {
	switch d {
	case DomainType:
		return "type"
	case DomainFunction:
		return "function"
	case DomainMethod:
		return "method"
	case DomainConstructor:
		return "constructor"
	case DomainOperator:
		return "operator"
	}
	return "unknown"
}

// TypeKind distinguishes value types (stack-allocated, copied) from
// reference types (handle-addressed).
type TypeKind int

const (
	KindValue TypeKind = iota
	KindReference
)

// DataType references a type by identity plus qualifiers.
type DataType struct {
	ID       ident.ID
	IsConst  bool
	IsHandle bool
}

// Simple builds an unqualified DataType for a type identity.
func Simple(id ident.ID) DataType {
	return DataType{ID: id}
}

// Const returns a const-qualified copy.
func (dt DataType) Const() DataType {
	dt.IsConst = true
	return dt
}

// Handle returns a handle-qualified copy.
func (dt DataType) Handle() DataType {
	dt.IsHandle = true
	return dt
}

// Param is one parameter of a callable declaration.
type Param struct {
	Name string
	Type DataType
}

// ParamIDs extracts the ordered parameter type identities, the form the
// identity hasher and overload resolution work with.
func ParamIDs(params []Param) []ident.ID {
	if len(params) == 0 {
		return nil
	}
	ids := make([]ident.ID, len(params))
	for i, p := range params {
		ids[i] = p.Type.ID
	}
	return ids
}

// FuncDecl describes one callable: a global function, a method, a
// constructor or an operator. Owner is Empty for global functions.
type FuncDecl struct {
	ID     ident.ID
	Name   string
	Domain Domain
	Owner  ident.ID
	Params []Param
	Return DataType

	// IsConst marks a const method (callable on const objects).
	IsConst bool
}

// ComputeID computes the declaration's identity from its structure and
// stores it. Safe to call before the parameter types are registered.
func (f *FuncDecl) ComputeID() ident.ID {
	params := ParamIDs(f.Params)
	switch f.Domain {
	case DomainFunction:
		f.ID = ident.FromFunction(f.Name, params)
	case DomainMethod:
		f.ID = ident.FromMethod(f.Owner, f.Name, params, f.IsConst, f.Return.IsConst)
	case DomainConstructor:
		f.ID = ident.FromConstructor(f.Owner, params)
	case DomainOperator:
		f.ID = ident.FromOperator(f.Owner, f.Name, params, f.IsConst, f.Return.IsConst)
	}
	return f.ID
}

// Arity returns the number of declared parameters.
func (f *FuncDecl) Arity() int { return len(f.Params) }

// Signature renders a human-readable signature for diagnostics.
func (f *FuncDecl) Signature(lookupName func(ident.ID) string) string {
	var sb strings.Builder
	sb.WriteString(f.Name)
	sb.WriteByte('(')
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(lookupName(p.Type.ID))
	}
	sb.WriteByte(')')
	return sb.String()
}

// Field is one member field of a type declaration.
type Field struct {
	Name    string
	Type    DataType
	IsConst bool
}

// TypeDecl describes one type: a primitive, a host-registered class or a
// script class. A non-empty TemplateParams list marks a generic (template)
// declaration whose members reference parameter placeholder identities.
type TypeDecl struct {
	ID   ident.ID
	Name string
	Kind TypeKind

	// TemplateParams holds the generic parameter names, in order.
	TemplateParams []string

	Fields       []Field
	Methods      []*FuncDecl
	Constructors []*FuncDecl
	Operators    []*FuncDecl
}

// ComputeID computes and stores the type's identity from its name.
func (t *TypeDecl) ComputeID() ident.ID {
	t.ID = ident.FromName(t.Name)
	return t.ID
}

// IsTemplate reports whether this is a generic declaration.
func (t *TypeDecl) IsTemplate() bool { return len(t.TemplateParams) > 0 }

// TemplateParamID returns the placeholder identity a generic member uses to
// reference the i-th template parameter.
func (t *TypeDecl) TemplateParamID(i int) ident.ID {
	return ident.FromIdent(t.TemplateParams[i])
}

// FindMethods returns the identities of all methods with the given name.
func (t *TypeDecl) FindMethods(name string) []ident.ID {
	var out []ident.ID
	for _, m := range t.Methods {
		if m.Name == name {
			out = append(out, m.ID)
		}
	}
	return out
}

// FindOperators returns the identities of all operators with the given name.
func (t *TypeDecl) FindOperators(name string) []ident.ID {
	var out []ident.ID
	for _, m := range t.Operators {
		if m.Name == name {
			out = append(out, m.ID)
		}
	}
	return out
}

// ConstructorIDs returns the identities of all constructors.
func (t *TypeDecl) ConstructorIDs() []ident.ID {
	var out []ident.ID
	for _, c := range t.Constructors {
		out = append(out, c.ID)
	}
	return out
}

// GlobalDecl describes a host-exposed global value. Globals live in a
// separate mutable store, not in either catalog; the declaration here only
// carries the name, identity and type for resolution.
type GlobalDecl struct {
	ID      ident.ID
	Name    string
	Type    DataType
	IsConst bool
}

// ComputeID computes and stores the global's identity from its name.
func (g *GlobalDecl) ComputeID() ident.ID {
	g.ID = ident.FromIdent(g.Name)
	return g.ID
}
