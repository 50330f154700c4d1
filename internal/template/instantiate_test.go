package template

import (
	"errors"
	"fmt"
	"testing"

	"github.com/quillscript/quill/internal/catalog"
	"github.com/quillscript/quill/internal/ident"
	"github.com/quillscript/quill/internal/types"
)

// arrayTemplate builds a generic array<T> with a representative member set.
func arrayTemplate() *types.TypeDecl {
	d := &types.TypeDecl{
		Name:           "array",
		Kind:           types.KindReference,
		TemplateParams: []string{"T"},
	}
	d.ComputeID()
	elem := types.Simple(d.TemplateParamID(0))

	d.Constructors = []*types.FuncDecl{
		{Domain: types.DomainConstructor},
		{Domain: types.DomainConstructor, Params: []types.Param{{Name: "length", Type: types.Simple(ident.UInt)}}},
	}
	d.Methods = []*types.FuncDecl{
		{Name: "length", Domain: types.DomainMethod, Return: types.Simple(ident.UInt), IsConst: true},
		{Name: "push", Domain: types.DomainMethod, Params: []types.Param{{Name: "value", Type: elem}}},
		{Name: "get", Domain: types.DomainMethod, Params: []types.Param{{Name: "index", Type: types.Simple(ident.UInt)}}, Return: elem, IsConst: true},
	}
	d.Operators = []*types.FuncDecl{
		{Name: "opIndex", Domain: types.DomainOperator, Params: []types.Param{{Name: "index", Type: types.Simple(ident.UInt)}}, Return: elem},
	}
	return d
}

func newResolver(t *testing.T, extra ...*types.TypeDecl) *catalog.Resolver {
	t.Helper()
	b := catalog.NewBuilder()
	for _, name := range []string{"int", "uint", "float", "string"} {
		d := &types.TypeDecl{Name: name, Kind: types.KindValue}
		d.ComputeID()
		b.AddType(d)
	}
	for _, d := range extra {
		b.AddType(d)
	}
	native, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return catalog.NewResolver(native)
}

func TestInstantiateIdempotent(t *testing.T) {
	tmpl := arrayTemplate()
	r := newResolver(t, tmpl)
	in := NewInstantiator(r)

	intArg := []types.DataType{types.Simple(ident.Int)}

	first, err := in.Instantiate(tmpl.ID, intArg)
	if err != nil {
		t.Fatalf("first Instantiate: %v", err)
	}
	second, err := in.Instantiate(tmpl.ID, intArg)
	if err != nil {
		t.Fatalf("second Instantiate: %v", err)
	}
	if first != second {
		t.Errorf("instantiation not idempotent: %v != %v", first, second)
	}
	if first != ident.FromInstance(tmpl.ID, []ident.ID{ident.Int}) {
		t.Errorf("instance identity not structural")
	}
}

func TestInstantiateMaterializesConcreteMembers(t *testing.T) {
	tmpl := arrayTemplate()
	r := newResolver(t, tmpl)
	in := NewInstantiator(r)

	id, err := in.Instantiate(tmpl.ID, []types.DataType{types.Simple(ident.Int)})
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}

	decl, ok := r.GetType(id)
	if !ok {
		t.Fatalf("instance not registered")
	}
	if decl.Name != "array<int>" {
		t.Errorf("instance name = %q", decl.Name)
	}
	if decl.IsTemplate() {
		t.Errorf("instance still marked as template")
	}

	// push(T) became push(int).
	push, err := r.ResolveMethodCall(id, "push", []ident.ID{ident.Int})
	if err != nil {
		t.Fatalf("push(int) did not resolve: %v", err)
	}
	if push.Owner != id {
		t.Errorf("substituted method owner = %v, want %v", push.Owner, id)
	}

	// get's return type became int.
	get, err := r.ResolveMethodCall(id, "get", []ident.ID{ident.UInt})
	if err != nil {
		t.Fatalf("get(uint) did not resolve: %v", err)
	}
	if get.Return.ID != ident.Int {
		t.Errorf("get return = %v, want int", get.Return.ID)
	}

	// Constructors and operators came through too.
	if _, err := r.ResolveConstructor(id, nil); err != nil {
		t.Errorf("default constructor missing: %v", err)
	}
	if _, err := r.ResolveOperator(id, "opIndex", []ident.ID{ident.UInt}); err != nil {
		t.Errorf("opIndex missing: %v", err)
	}
}

func TestDistinctArgumentsDistinctInstances(t *testing.T) {
	tmpl := arrayTemplate()
	r := newResolver(t, tmpl)
	in := NewInstantiator(r)

	a, err := in.Instantiate(tmpl.ID, []types.DataType{types.Simple(ident.Int)})
	if err != nil {
		t.Fatal(err)
	}
	b, err := in.Instantiate(tmpl.ID, []types.DataType{types.Simple(ident.Float)})
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Errorf("array<int> and array<float> share identity")
	}
}

func TestValidatorRejectsWithReason(t *testing.T) {
	tmpl := arrayTemplate()
	r := newResolver(t, tmpl)
	in := NewInstantiator(r)
	in.RegisterValidator(tmpl.ID, func(args []types.DataType) error {
		if args[0].ID == ident.Void {
			return fmt.Errorf("void is not a storable element type")
		}
		return nil
	})

	_, err := in.Instantiate(tmpl.ID, []types.DataType{types.Simple(ident.Void)})
	var invalid *InvalidArgumentError
	if !errors.As(err, &invalid) {
		t.Fatalf("got %v, want InvalidArgumentError", err)
	}
	if invalid.Reason != "void is not a storable element type" {
		t.Errorf("reason = %q", invalid.Reason)
	}

	// A rejected instantiation must not register anything.
	if r.Known(ident.FromInstance(tmpl.ID, []ident.ID{ident.Void})) {
		t.Errorf("rejected instance was registered")
	}

	// Valid arguments still work.
	if _, err := in.Instantiate(tmpl.ID, []types.DataType{types.Simple(ident.Int)}); err != nil {
		t.Errorf("valid instantiation failed: %v", err)
	}
}

func TestInstantiateErrors(t *testing.T) {
	tmpl := arrayTemplate()
	r := newResolver(t, tmpl)
	in := NewInstantiator(r)

	// Unknown generic.
	_, err := in.Instantiate(ident.FromName("ghost"), []types.DataType{types.Simple(ident.Int)})
	var unknown *catalog.UnknownError
	if !errors.As(err, &unknown) {
		t.Errorf("unknown generic: got %v", err)
	}

	// Non-template type.
	_, err = in.Instantiate(ident.Int, []types.DataType{types.Simple(ident.Int)})
	var notTmpl *NotTemplateError
	if !errors.As(err, &notTmpl) {
		t.Errorf("non-template: got %v", err)
	}

	// Wrong argument count.
	_, err = in.Instantiate(tmpl.ID, []types.DataType{types.Simple(ident.Int), types.Simple(ident.Int)})
	var count *ArgCountError
	if !errors.As(err, &count) {
		t.Errorf("arg count: got %v", err)
	}
}

func TestScriptGenericInstantiatesIntoScriptCatalog(t *testing.T) {
	r := newResolver(t)
	in := NewInstantiator(r)

	box := &types.TypeDecl{Name: "Box", TemplateParams: []string{"T"}}
	box.ComputeID()
	box.Fields = []types.Field{{Name: "value", Type: types.Simple(box.TemplateParamID(0))}}
	if err := r.RegisterScriptType(box); err != nil {
		t.Fatalf("RegisterScriptType: %v", err)
	}

	id, err := in.Instantiate(box.ID, []types.DataType{types.Simple(ident.String)})
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	if _, ok := r.Script().GetType(id); !ok {
		t.Errorf("script generic instance not in script catalog")
	}
	decl, _ := r.GetType(id)
	if decl.Fields[0].Type.ID != ident.String {
		t.Errorf("field type not substituted: %v", decl.Fields[0].Type.ID)
	}
}

func TestResolveTypeNameTriggersInstantiation(t *testing.T) {
	tmpl := arrayTemplate()
	r := newResolver(t, tmpl)
	in := NewInstantiator(r)
	r.Instantiate = in.Instantiate

	dt, err := r.ResolveTypeName("array<int>")
	if err != nil {
		t.Fatalf("ResolveTypeName: %v", err)
	}
	if _, ok := r.GetType(dt.ID); !ok {
		t.Errorf("array<int> not materialized through ResolveTypeName")
	}

	// Nested generics materialize inner instances first.
	dt2, err := r.ResolveTypeName("array<array<int>>")
	if err != nil {
		t.Fatalf("ResolveTypeName nested: %v", err)
	}
	inner := ident.FromInstance(tmpl.ID, []ident.ID{ident.Int})
	if dt2.ID != ident.FromInstance(tmpl.ID, []ident.ID{inner}) {
		t.Errorf("nested instance identity mismatch")
	}
}
