package compiler

import (
	"github.com/quillscript/quill/internal/ast"
	"github.com/quillscript/quill/internal/bytecode"
	"github.com/quillscript/quill/internal/catalog"
	"github.com/quillscript/quill/internal/ident"
	"github.com/quillscript/quill/internal/types"
)

// UnitResult is the outcome of compiling one unit: the compiled function
// bodies (lambdas included), the unit's shared constant pool, the resolver
// that now holds the unit's script declarations, and every diagnostic
// collected along the way. A function that failed to compile contributes
// no chunk; its siblings still do.
type UnitResult struct {
	File      string
	Functions []*CompiledFunction
	Pool      *bytecode.ConstantPool
	Resolver  *catalog.Resolver
	Errors    []error
}

// Ok reports whether the unit compiled without diagnostics.
func (r *UnitResult) Ok() bool { return len(r.Errors) == 0 }

// Function returns the compiled body for an identity, if present.
func (r *UnitResult) Function(id ident.ID) (*CompiledFunction, bool) {
	for _, f := range r.Functions {
		if f.ID == id {
			return f, true
		}
	}
	return nil, false
}

// compileJob pairs a registered declaration with the syntax of its body.
type compileJob struct {
	decl *types.FuncDecl
	fn   *ast.FuncDecl
}

// CompileUnit compiles one unit in two passes. The first pass registers
// every class and function declaration in the script catalog, so bodies
// may reference siblings declared later in the file. The second pass
// compiles each body. Template classes register their generic declaration
// only; their members are materialized at instantiation.
func CompileUnit(resolver *catalog.Resolver, unit *ast.Unit) *UnitResult {
	res := &UnitResult{File: unit.File, Resolver: resolver}
	state := &unitState{pool: bytecode.NewConstantPool()}
	res.Pool = state.pool

	var jobs []compileJob

	for _, cls := range unit.Classes {
		classJobs, err := registerClass(resolver, cls)
		if err != nil {
			res.Errors = append(res.Errors, err)
			continue
		}
		jobs = append(jobs, classJobs...)
	}
	for _, fn := range unit.Funcs {
		decl, err := registerFunction(resolver, fn)
		if err != nil {
			res.Errors = append(res.Errors, err)
			continue
		}
		jobs = append(jobs, compileJob{decl: decl, fn: fn})
	}

	for _, job := range jobs {
		mark := len(state.lambdas)
		c := newCompiler(resolver, state, job.decl, nil)
		compiled, err := c.compileFunction(job.fn)
		if err != nil {
			// Lambdas hoisted out of a body that failed to compile
			// must not survive as orphan chunks.
			state.lambdas = state.lambdas[:mark]
			res.Errors = append(res.Errors, err)
			continue
		}
		res.Functions = append(res.Functions, compiled)
	}

	res.Functions = append(res.Functions, state.lambdas...)
	return res
}

// registerFunction builds and registers the catalog declaration for a
// free function.
func registerFunction(resolver *catalog.Resolver, fn *ast.FuncDecl) (*types.FuncDecl, error) {
	decl := &types.FuncDecl{Name: fn.Name, Domain: types.DomainFunction}
	if err := fillSignature(resolver, decl, fn); err != nil {
		return nil, err
	}
	if err := resolver.RegisterScriptFunction(decl); err != nil {
		return nil, errAt(fn.Span, err)
	}
	return decl, nil
}

// registerClass builds and registers the catalog declaration for a script
// class and returns the member bodies to compile. A generic class
// registers with placeholder member identities and compiles no bodies
// here; instantiation materializes and the instance's bodies are compiled
// against the concrete member declarations.
func registerClass(resolver *catalog.Resolver, cls *ast.ClassDecl) ([]compileJob, error) {
	decl := &types.TypeDecl{
		Name:           cls.Name,
		Kind:           types.KindReference,
		TemplateParams: cls.TemplateParams,
	}
	decl.ComputeID()

	tmpl := make(map[string]ident.ID, len(cls.TemplateParams))
	for i, name := range cls.TemplateParams {
		tmpl[name] = decl.TemplateParamID(i)
	}
	memberType := func(ref ast.TypeRef) (types.DataType, error) {
		if id, ok := tmpl[ref.Name]; ok {
			return types.Simple(id), nil
		}
		if ref.IsVoid() {
			return types.Simple(ident.Void), nil
		}
		dt, err := resolver.ResolveTypeName(ref.Name)
		if err != nil {
			return types.DataType{}, errAt(ref.Span, err)
		}
		return dt, nil
	}

	for _, f := range cls.Fields {
		dt, err := memberType(f.Type)
		if err != nil {
			return nil, err
		}
		dt.IsConst = dt.IsConst || f.IsConst
		decl.Fields = append(decl.Fields, types.Field{Name: f.Name, Type: dt, IsConst: f.IsConst})
	}

	var jobs []compileJob
	member := func(fn *ast.FuncDecl, domain types.Domain) (*types.FuncDecl, error) {
		m := &types.FuncDecl{
			Name:    fn.Name,
			Domain:  domain,
			Owner:   decl.ID,
			IsConst: fn.IsConst,
		}
		if err := fillSignatureWith(m, fn, memberType); err != nil {
			return nil, err
		}
		if !decl.IsTemplate() {
			jobs = append(jobs, compileJob{decl: m, fn: fn})
		}
		return m, nil
	}

	for _, fn := range cls.Ctors {
		m, err := member(fn, types.DomainConstructor)
		if err != nil {
			return nil, err
		}
		decl.Constructors = append(decl.Constructors, m)
	}
	for _, fn := range cls.Methods {
		m, err := member(fn, types.DomainMethod)
		if err != nil {
			return nil, err
		}
		decl.Methods = append(decl.Methods, m)
	}
	for _, fn := range cls.Operators {
		m, err := member(fn, types.DomainOperator)
		if err != nil {
			return nil, err
		}
		decl.Operators = append(decl.Operators, m)
	}

	if err := resolver.RegisterScriptType(decl); err != nil {
		return nil, errAt(cls.Span, err)
	}
	return jobs, nil
}

// fillSignature resolves a declaration's parameter and return types
// through the resolver and computes its identity.
func fillSignature(resolver *catalog.Resolver, decl *types.FuncDecl, fn *ast.FuncDecl) error {
	resolve := func(ref ast.TypeRef) (types.DataType, error) {
		if ref.IsVoid() {
			return types.Simple(ident.Void), nil
		}
		dt, err := resolver.ResolveTypeName(ref.Name)
		if err != nil {
			return types.DataType{}, errAt(ref.Span, err)
		}
		return dt, nil
	}
	return fillSignatureWith(decl, fn, resolve)
}

func fillSignatureWith(decl *types.FuncDecl, fn *ast.FuncDecl, resolve func(ast.TypeRef) (types.DataType, error)) error {
	for _, p := range fn.Params {
		dt, err := resolve(p.Type)
		if err != nil {
			return err
		}
		if p.IsConst {
			dt.IsConst = true
		}
		decl.Params = append(decl.Params, types.Param{Name: p.Name, Type: dt})
	}
	ret, err := resolve(fn.Return)
	if err != nil {
		return err
	}
	decl.Return = ret
	decl.ComputeID()
	return nil
}
