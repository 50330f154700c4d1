// Package template instantiates generic declarations with concrete type
// arguments. Instantiation is idempotent: the concrete identity is computed
// structurally, so asking for the same generic with the same arguments
// twice yields the same identity and no duplicate record.
package template

import (
	"fmt"
	"strings"

	"github.com/quillscript/quill/internal/catalog"
	"github.com/quillscript/quill/internal/ident"
	"github.com/quillscript/quill/internal/types"
)

// ValidateFunc inspects a proposed argument list for a generic and may
// reject it with a descriptive reason (e.g. "type is not hashable").
type ValidateFunc func(args []types.DataType) error

// InvalidArgumentError reports a validation hook rejecting an argument
// list for a template instantiation.
type InvalidArgumentError struct {
	Template string
	Reason   string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument for template %s: %s", e.Template, e.Reason)
}

// NotTemplateError reports instantiation of a non-generic declaration.
type NotTemplateError struct {
	Name string
}

func (e *NotTemplateError) Error() string {
	return fmt.Sprintf("%s is not a template", e.Name)
}

// ArgCountError reports an argument list whose length does not match the
// generic's parameter list.
type ArgCountError struct {
	Template string
	Want     int
	Got      int
}

func (e *ArgCountError) Error() string {
	return fmt.Sprintf("template %s expects %d arguments, got %d", e.Template, e.Want, e.Got)
}

// Instantiator materializes concrete declarations from generics,
// registering them into whichever catalog side owns the generic.
type Instantiator struct {
	resolver   *catalog.Resolver
	validators map[ident.ID]ValidateFunc

	// materialized caches (generic, args) -> instance, keyed by the
	// structural instance identity since that identity already encodes both.
	materialized map[ident.ID]struct{}
}

// NewInstantiator creates an instantiator over a resolution context.
func NewInstantiator(resolver *catalog.Resolver) *Instantiator {
	return &Instantiator{
		resolver:     resolver,
		validators:   make(map[ident.ID]ValidateFunc),
		materialized: make(map[ident.ID]struct{}),
	}
}

// RegisterValidator installs a validation hook for one generic declaration.
func (in *Instantiator) RegisterValidator(generic ident.ID, fn ValidateFunc) {
	in.validators[generic] = fn
}

// Instantiate computes (or reuses) the concrete instantiation of a generic
// for the given ordered argument types, returning its identity.
func (in *Instantiator) Instantiate(generic ident.ID, args []types.DataType) (ident.ID, error) {
	argIDs := make([]ident.ID, len(args))
	for i, a := range args {
		argIDs[i] = a.ID
	}
	instance := ident.FromInstance(generic, argIDs)

	// Reuse: already materialized here, or already known to either catalog
	// (e.g. a host-registered specialization).
	if _, done := in.materialized[instance]; done {
		return instance, nil
	}
	if in.resolver.Known(instance) {
		in.materialized[instance] = struct{}{}
		return instance, nil
	}

	decl, ok := in.resolver.GetType(generic)
	if !ok {
		return ident.Empty, &catalog.UnknownError{Name: in.resolver.NameOf(generic)}
	}
	if !decl.IsTemplate() {
		return ident.Empty, &NotTemplateError{Name: decl.Name}
	}
	if len(args) != len(decl.TemplateParams) {
		return ident.Empty, &ArgCountError{Template: decl.Name, Want: len(decl.TemplateParams), Got: len(args)}
	}

	// Validation runs before any materialization work.
	if validate, ok := in.validators[generic]; ok {
		if err := validate(args); err != nil {
			return ident.Empty, &InvalidArgumentError{Template: decl.Name, Reason: err.Error()}
		}
	}

	concrete := in.materialize(decl, instance, args)
	if err := in.resolver.RegisterInstance(generic, concrete); err != nil {
		return ident.Empty, err
	}
	in.materialized[instance] = struct{}{}
	return instance, nil
}

// materialize substitutes each template parameter placeholder in the
// generic's members with the corresponding argument, producing a concrete
// declaration whose identity is the structural instance identity.
func (in *Instantiator) materialize(decl *types.TypeDecl, instance ident.ID, args []types.DataType) *types.TypeDecl {
	subst := make(map[ident.ID]types.DataType, len(args))
	for i := range decl.TemplateParams {
		subst[decl.TemplateParamID(i)] = args[i]
	}

	concrete := &types.TypeDecl{
		ID:   instance,
		Name: in.instanceName(decl.Name, args),
		Kind: decl.Kind,
	}

	for _, f := range decl.Fields {
		concrete.Fields = append(concrete.Fields, types.Field{
			Name:    f.Name,
			Type:    substituteType(f.Type, subst),
			IsConst: f.IsConst,
		})
	}
	concrete.Methods = in.substituteFuncs(decl.Methods, instance, subst)
	concrete.Constructors = in.substituteFuncs(decl.Constructors, instance, subst)
	concrete.Operators = in.substituteFuncs(decl.Operators, instance, subst)
	return concrete
}

func (in *Instantiator) substituteFuncs(members []*types.FuncDecl, owner ident.ID, subst map[ident.ID]types.DataType) []*types.FuncDecl {
	if len(members) == 0 {
		return nil
	}
	out := make([]*types.FuncDecl, len(members))
	for i, m := range members {
		c := &types.FuncDecl{
			Name:    m.Name,
			Domain:  m.Domain,
			Owner:   owner,
			Return:  substituteType(m.Return, subst),
			IsConst: m.IsConst,
		}
		for _, p := range m.Params {
			c.Params = append(c.Params, types.Param{Name: p.Name, Type: substituteType(p.Type, subst)})
		}
		c.ComputeID()
		out[i] = c
	}
	return out
}

// substituteType replaces a parameter placeholder with its argument,
// keeping qualifiers from both sides.
func substituteType(dt types.DataType, subst map[ident.ID]types.DataType) types.DataType {
	if arg, ok := subst[dt.ID]; ok {
		return types.DataType{
			ID:       arg.ID,
			IsConst:  dt.IsConst || arg.IsConst,
			IsHandle: dt.IsHandle || arg.IsHandle,
		}
	}
	return dt
}

// instanceName renders the concrete name, e.g. "array<int>".
func (in *Instantiator) instanceName(base string, args []types.DataType) string {
	var sb strings.Builder
	sb.WriteString(base)
	sb.WriteByte('<')
	for i, a := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(in.resolver.NameOf(a.ID))
	}
	sb.WriteByte('>')
	return sb.String()
}
