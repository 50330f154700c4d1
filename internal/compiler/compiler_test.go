package compiler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/quillscript/quill/internal/ast"
	"github.com/quillscript/quill/internal/bytecode"
	"github.com/quillscript/quill/internal/catalog"
	"github.com/quillscript/quill/internal/ident"
	"github.com/quillscript/quill/internal/span"
	"github.com/quillscript/quill/internal/types"
)

// newTestResolver registers the primitive types plus any extra host
// declarations the test needs.
func newTestResolver(t *testing.T, build func(*catalog.Builder)) *catalog.Resolver {
	t.Helper()
	b := catalog.NewBuilder()
	for _, name := range []string{"void", "bool", "int", "int64", "uint", "float", "double", "string", "any"} {
		d := &types.TypeDecl{Name: name, Kind: types.KindValue}
		d.ComputeID()
		b.AddType(d)
	}
	if build != nil {
		build(b)
	}
	native, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return catalog.NewResolver(native)
}

func typeRef(name string, line int) ast.TypeRef {
	return ast.TypeRef{Name: name, Span: span.New(line, 1)}
}

func fnDecl(name string, body ...ast.Statement) *ast.FuncDecl {
	return &ast.FuncDecl{
		Name: name,
		Kind: ast.FuncGlobal,
		Body: &ast.BlockStmt{Stmts: body, Span: at(1)},
		Span: at(1),
	}
}

func compileOne(t *testing.T, r *catalog.Resolver, fns ...*ast.FuncDecl) *UnitResult {
	t.Helper()
	return CompileUnit(r, &ast.Unit{File: "test.qs", Funcs: fns})
}

// decode walks a chunk and returns the opcode sequence, skipping operands.
func decode(t *testing.T, c *bytecode.Chunk) []bytecode.Opcode {
	t.Helper()
	var ops []bytecode.Opcode
	for off := 0; off < c.Len(); {
		op := bytecode.Opcode(c.Code[off])
		ops = append(ops, op)
		off++
		switch op {
		case bytecode.OP_CONST, bytecode.OP_POP_N, bytecode.OP_GET_LOCAL, bytecode.OP_SET_LOCAL,
			bytecode.OP_GET_CAPTURE, bytecode.OP_SET_CAPTURE, bytecode.OP_CALL_VALUE:
			off++
		case bytecode.OP_CONST_W, bytecode.OP_GET_GLOBAL, bytecode.OP_SET_GLOBAL,
			bytecode.OP_JUMP, bytecode.OP_JUMP_IF_FALSE, bytecode.OP_LOOP,
			bytecode.OP_CAST, bytecode.OP_INSTANCE_OF:
			off += 2
		case bytecode.OP_CALL, bytecode.OP_CALL_METHOD, bytecode.OP_CONSTRUCT:
			off += 3
		case bytecode.OP_CLOSURE:
			count := int(c.Code[off+2])
			off += 3 + 2*count
		}
	}
	return ops
}

func TestCompileCallByIdentity(t *testing.T) {
	f := &types.FuncDecl{
		Name:   "f",
		Params: []types.Param{{Name: "x", Type: types.Simple(ident.Int)}},
		Return: types.Simple(ident.Int),
	}
	r := newTestResolver(t, func(b *catalog.Builder) { b.AddFunction(f) })

	res := compileOne(t, r, fnDecl("main",
		&ast.ExprStmt{
			Expr: &ast.CallExpr{Name: "f", Args: []ast.Expression{&ast.IntLit{Value: 5, Span: at(2)}}, Span: at(2)},
			Span: at(2),
		},
	))
	if !res.Ok() {
		t.Fatalf("errors: %v", res.Errors)
	}

	main, ok := res.Function(ident.FromFunction("main", nil))
	if !ok {
		t.Fatal("main not compiled")
	}
	want := []bytecode.Opcode{bytecode.OP_CONST, bytecode.OP_CALL, bytecode.OP_POP, bytecode.OP_RETURN_VOID}
	got := decode(t, main.Chunk)
	if len(got) != len(want) {
		t.Fatalf("ops = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ops = %v, want %v", got, want)
		}
	}

	// The literal 5 is pooled; the call operand is f's identity.
	c5, ok := res.Pool.Get(int(main.Chunk.Code[1]))
	if !ok || c5.Kind != bytecode.ConstInt || c5.Int != 5 {
		t.Errorf("operand constant = %+v", c5)
	}
	callIdx := int(main.Chunk.ReadU16(3))
	target, ok := res.Pool.Get(callIdx)
	if !ok || target.Kind != bytecode.ConstIdent || target.ID != f.ID {
		t.Errorf("call target = %+v, want identity of f", target)
	}
	if argc := main.Chunk.Code[5]; argc != 1 {
		t.Errorf("argc = %d, want 1", argc)
	}
}

func TestCompileLiteralDeduplication(t *testing.T) {
	r := newTestResolver(t, nil)
	res := compileOne(t, r, fnDecl("main",
		&ast.VarDeclStmt{Name: "a", Type: typeRef("int", 1), Init: &ast.IntLit{Value: 42, Span: at(1)}, Span: at(1)},
		&ast.VarDeclStmt{Name: "b", Type: typeRef("int", 2), Init: &ast.IntLit{Value: 42, Span: at(2)}, Span: at(2)},
	))
	if !res.Ok() {
		t.Fatalf("errors: %v", res.Errors)
	}
	ints := 0
	for _, c := range res.Pool.Constants() {
		if c.Kind == bytecode.ConstInt {
			ints++
		}
	}
	if ints != 1 {
		t.Errorf("pooled int constants = %d, want 1", ints)
	}
}

func TestCompileSmallIntFastPaths(t *testing.T) {
	r := newTestResolver(t, nil)
	res := compileOne(t, r, fnDecl("main",
		&ast.ExprStmt{Expr: &ast.IntLit{Value: 0, Span: at(1)}, Span: at(1)},
		&ast.ExprStmt{Expr: &ast.IntLit{Value: 1, Span: at(2)}, Span: at(2)},
	))
	if !res.Ok() {
		t.Fatalf("errors: %v", res.Errors)
	}
	if res.Pool.Len() != 0 {
		t.Errorf("pool has %d entries, want 0 (0 and 1 use dedicated opcodes)", res.Pool.Len())
	}
}

func TestCompileBreakOutsideLoop(t *testing.T) {
	r := newTestResolver(t, nil)
	res := compileOne(t, r, fnDecl("main", &ast.BreakStmt{Span: at(1)}))
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", res.Errors)
	}
	var cf *ControlFlowError
	if !errors.As(res.Errors[0], &cf) || cf.Keyword != "break" {
		t.Errorf("err = %v, want ControlFlowError for break", res.Errors[0])
	}
}

func TestCompileWhileWithBreak(t *testing.T) {
	r := newTestResolver(t, nil)
	res := compileOne(t, r, fnDecl("main",
		&ast.WhileStmt{
			Cond: &ast.BoolLit{Value: true, Span: at(1)},
			Body: &ast.BlockStmt{Stmts: []ast.Statement{&ast.BreakStmt{Span: at(2)}}, Span: at(1)},
			Span: at(1),
		},
	))
	if !res.Ok() {
		t.Fatalf("errors: %v", res.Errors)
	}
	main, _ := res.Function(ident.FromFunction("main", nil))
	chunk := main.Chunk

	// The break's forward jump must land past the loop's trailing POP.
	ops := decode(t, chunk)
	sawLoop := false
	for _, op := range ops {
		if op == bytecode.OP_LOOP {
			sawLoop = true
		}
	}
	if !sawLoop {
		t.Error("no backward jump emitted for while")
	}

	// break is the JUMP at offset 5 (TRUE, JUMP_IF_FALSE with u16, POP).
	breakOff := 5
	if bytecode.Opcode(chunk.Code[breakOff]) != bytecode.OP_JUMP {
		t.Fatalf("opcode at %d = %s, want JUMP", breakOff, bytecode.Opcode(chunk.Code[breakOff]).Name())
	}
	target := breakOff + 3 + int(chunk.ReadU16(breakOff+1))
	if target != chunk.Len()-1 {
		t.Errorf("break jumps to %d, want %d (after loop's trailing POP)", target, chunk.Len()-1)
	}
}

func TestCompileMissingReturn(t *testing.T) {
	r := newTestResolver(t, nil)
	fn := fnDecl("f")
	fn.Return = typeRef("int", 1)
	res := compileOne(t, r, fn)
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", res.Errors)
	}
	var mr *MissingReturnError
	if !errors.As(res.Errors[0], &mr) {
		t.Errorf("err = %v, want MissingReturnError", res.Errors[0])
	}
}

func TestCompileIfElseReturnCoverage(t *testing.T) {
	r := newTestResolver(t, nil)
	fn := fnDecl("f",
		&ast.IfStmt{
			Cond: &ast.BoolLit{Value: true, Span: at(1)},
			Then: &ast.BlockStmt{Stmts: []ast.Statement{&ast.ReturnStmt{Value: &ast.IntLit{Value: 1, Span: at(2)}, Span: at(2)}}, Span: at(1)},
			Else: &ast.BlockStmt{Stmts: []ast.Statement{&ast.ReturnStmt{Value: &ast.IntLit{Value: 0, Span: at(3)}, Span: at(3)}}, Span: at(3)},
			Span: at(1),
		},
	)
	fn.Return = typeRef("int", 1)
	res := compileOne(t, r, fn)
	if !res.Ok() {
		t.Fatalf("errors: %v", res.Errors)
	}
}

func TestCompileUseBeforeInit(t *testing.T) {
	r := newTestResolver(t, nil)
	res := compileOne(t, r, fnDecl("main",
		&ast.VarDeclStmt{Name: "x", Type: typeRef("int", 1), Span: at(1)},
		&ast.ExprStmt{Expr: &ast.Ident{Name: "x", Span: at(2)}, Span: at(2)},
	))
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", res.Errors)
	}
	var ub *UseBeforeInitError
	if !errors.As(res.Errors[0], &ub) || ub.Name != "x" {
		t.Errorf("err = %v, want UseBeforeInitError for x", res.Errors[0])
	}
}

func TestCompileLocalSlotLimit(t *testing.T) {
	// Slot operands are a single byte; a 257th local must be a compile
	// error, not a wrapped slot aliasing an earlier variable.
	r := newTestResolver(t, nil)
	var body []ast.Statement
	for i := 0; i < 300; i++ {
		body = append(body, &ast.VarDeclStmt{
			Name: fmt.Sprintf("v%d", i),
			Type: typeRef("int", i+1),
			Init: &ast.IntLit{Value: int64(i), Span: at(i + 1)},
			Span: at(i + 1),
		})
	}
	res := compileOne(t, r, fnDecl("main", body...))
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", res.Errors)
	}
	var le *LimitError
	if !errors.As(res.Errors[0], &le) || le.What != "local variables" {
		t.Fatalf("err = %v, want LimitError for local variables", res.Errors[0])
	}
	if _, ok := res.Function(ident.FromFunction("main", nil)); ok {
		t.Error("function over the local limit must not produce a chunk")
	}
}

func TestCompileArgumentCountLimit(t *testing.T) {
	r := newTestResolver(t, nil)
	args := make([]ast.Expression, 300)
	for i := range args {
		args[i] = &ast.IntLit{Value: 1, Span: at(1)}
	}
	res := compileOne(t, r, fnDecl("main",
		&ast.ExprStmt{Expr: &ast.CallExpr{Name: "f", Args: args, Span: at(1)}, Span: at(1)},
	))
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", res.Errors)
	}
	var le *LimitError
	if !errors.As(res.Errors[0], &le) || le.What != "call arguments" {
		t.Fatalf("err = %v, want LimitError for call arguments", res.Errors[0])
	}
}

func TestCompileConstAssignment(t *testing.T) {
	r := newTestResolver(t, nil)
	res := compileOne(t, r, fnDecl("main",
		&ast.VarDeclStmt{Name: "x", Type: typeRef("int", 1), IsConst: true, Init: &ast.IntLit{Value: 3, Span: at(1)}, Span: at(1)},
		&ast.ExprStmt{
			Expr: &ast.AssignExpr{Target: &ast.Ident{Name: "x", Span: at(2)}, Value: &ast.IntLit{Value: 4, Span: at(2)}, Span: at(2)},
			Span: at(2),
		},
	))
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", res.Errors)
	}
	var cv *ConstViolationError
	if !errors.As(res.Errors[0], &cv) {
		t.Errorf("err = %v, want ConstViolationError", res.Errors[0])
	}
}

func TestCompileForwardReference(t *testing.T) {
	r := newTestResolver(t, nil)
	res := compileOne(t, r,
		fnDecl("main", &ast.ExprStmt{Expr: &ast.CallExpr{Name: "later", Span: at(1)}, Span: at(1)}),
		fnDecl("later"),
	)
	if !res.Ok() {
		t.Fatalf("forward reference failed: %v", res.Errors)
	}
}

func TestCompileErrorIsolatedToFunction(t *testing.T) {
	r := newTestResolver(t, nil)
	res := compileOne(t, r,
		fnDecl("bad", &ast.BreakStmt{Span: at(1)}),
		fnDecl("good"),
	)
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", res.Errors)
	}
	if _, ok := res.Function(ident.FromFunction("good", nil)); !ok {
		t.Error("sibling of erroring function was not compiled")
	}
	if _, ok := res.Function(ident.FromFunction("bad", nil)); ok {
		t.Error("erroring function produced a chunk")
	}
}

func TestCompileLambdaCapture(t *testing.T) {
	r := newTestResolver(t, nil)
	lambda := &ast.LambdaExpr{
		Return: typeRef("int", 2),
		Body: &ast.BlockStmt{
			Stmts: []ast.Statement{&ast.ReturnStmt{Value: &ast.Ident{Name: "x", Span: at(2)}, Span: at(2)}},
			Span:  at(2),
		},
		Span: at(2),
	}
	res := compileOne(t, r, fnDecl("outer",
		&ast.VarDeclStmt{Name: "x", Type: typeRef("int", 1), Init: &ast.IntLit{Value: 7, Span: at(1)}, Span: at(1)},
		&ast.ExprStmt{Expr: lambda, Span: at(2)},
	))
	if !res.Ok() {
		t.Fatalf("errors: %v", res.Errors)
	}

	var compiled *CompiledFunction
	for _, f := range res.Functions {
		if f.Name == "$lambda0" {
			compiled = f
		}
	}
	if compiled == nil {
		t.Fatal("lambda body not collected")
	}
	if !compiled.IsClosure || len(compiled.Captures) != 1 {
		t.Fatalf("lambda = closure:%v captures:%d, want closure with 1 capture", compiled.IsClosure, len(compiled.Captures))
	}
	if !compiled.Captures[0].IsLocal || compiled.Captures[0].Name != "x" {
		t.Errorf("capture = %+v, want direct capture of x", compiled.Captures[0])
	}

	outer, _ := res.Function(ident.FromFunction("outer", nil))
	sawClosure := false
	for _, op := range decode(t, outer.Chunk) {
		if op == bytecode.OP_CLOSURE {
			sawClosure = true
		}
	}
	if !sawClosure {
		t.Error("outer did not emit closure construction")
	}
}

func TestCompileLambdaDiscardedWithFailingBody(t *testing.T) {
	// The lambda itself is fine, but the enclosing body errors after it.
	// The unit must not keep the hoisted lambda chunk of a function that
	// produced no chunk of its own.
	r := newTestResolver(t, nil)
	lambda := &ast.LambdaExpr{
		Return: typeRef("int", 1),
		Body: &ast.BlockStmt{
			Stmts: []ast.Statement{&ast.ReturnStmt{Value: &ast.IntLit{Value: 1, Span: at(1)}, Span: at(1)}},
			Span:  at(1),
		},
		Span: at(1),
	}
	res := compileOne(t, r, fnDecl("outer",
		&ast.ExprStmt{Expr: lambda, Span: at(1)},
		&ast.BreakStmt{Span: at(2)},
	))
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", res.Errors)
	}
	for _, f := range res.Functions {
		if f.Name == "$lambda0" {
			t.Error("lambda of a failed body survived in the unit")
		}
	}
}

func TestCompileLambdaWithoutCaptures(t *testing.T) {
	r := newTestResolver(t, nil)
	lambda := &ast.LambdaExpr{
		Return: typeRef("int", 1),
		Body: &ast.BlockStmt{
			Stmts: []ast.Statement{&ast.ReturnStmt{Value: &ast.IntLit{Value: 9, Span: at(1)}, Span: at(1)}},
			Span:  at(1),
		},
		Span: at(1),
	}
	res := compileOne(t, r, fnDecl("main", &ast.ExprStmt{Expr: lambda, Span: at(1)}))
	if !res.Ok() {
		t.Fatalf("errors: %v", res.Errors)
	}
	for _, f := range res.Functions {
		if f.Name == "$lambda0" && f.IsClosure {
			t.Error("capture-free lambda marked as closure")
		}
	}
}

func TestCompileMethodCall(t *testing.T) {
	player := &types.TypeDecl{Name: "Player", Kind: types.KindReference}
	player.ComputeID()
	player.Methods = []*types.FuncDecl{
		{Name: "heal", Domain: types.DomainMethod, Params: []types.Param{{Name: "amount", Type: types.Simple(ident.Int)}}, Return: types.Simple(ident.Void)},
	}
	player.Constructors = []*types.FuncDecl{{Domain: types.DomainConstructor}}
	r := newTestResolver(t, func(b *catalog.Builder) { b.AddType(player) })

	res := compileOne(t, r, fnDecl("main",
		&ast.VarDeclStmt{
			Name: "p", Type: typeRef("Player", 1),
			Init: &ast.CallExpr{Name: "Player", Span: at(1)},
			Span: at(1),
		},
		&ast.ExprStmt{
			Expr: &ast.MethodCallExpr{
				Recv: &ast.Ident{Name: "p", Span: at(2)},
				Name: "heal",
				Args: []ast.Expression{&ast.IntLit{Value: 20, Span: at(2)}},
				Span: at(2),
			},
			Span: at(2),
		},
	))
	if !res.Ok() {
		t.Fatalf("errors: %v", res.Errors)
	}

	main, _ := res.Function(ident.FromFunction("main", nil))
	ops := decode(t, main.Chunk)
	sawConstruct, sawMethod := false, false
	for _, op := range ops {
		switch op {
		case bytecode.OP_CONSTRUCT:
			sawConstruct = true
		case bytecode.OP_CALL_METHOD:
			sawMethod = true
		}
	}
	if !sawConstruct || !sawMethod {
		t.Errorf("ops = %v, want CONSTRUCT and CALL_METHOD", ops)
	}
}

func TestCompileOverloadPicksExact(t *testing.T) {
	fInt := &types.FuncDecl{Name: "f", Params: []types.Param{{Name: "x", Type: types.Simple(ident.Int)}}, Return: types.Simple(ident.Void)}
	fDouble := &types.FuncDecl{Name: "f", Params: []types.Param{{Name: "x", Type: types.Simple(ident.Double)}}, Return: types.Simple(ident.Void)}
	r := newTestResolver(t, func(b *catalog.Builder) { b.AddFunction(fInt).AddFunction(fDouble) })

	res := compileOne(t, r, fnDecl("main",
		&ast.ExprStmt{
			Expr: &ast.CallExpr{Name: "f", Args: []ast.Expression{&ast.IntLit{Value: 5, Span: at(1)}}, Span: at(1)},
			Span: at(1),
		},
	))
	if !res.Ok() {
		t.Fatalf("errors: %v", res.Errors)
	}
	main, _ := res.Function(ident.FromFunction("main", nil))
	callIdx := int(main.Chunk.ReadU16(3))
	target, _ := res.Pool.Get(callIdx)
	if target.ID != fInt.ID {
		t.Errorf("call bound to %v, want the int overload", target.ID)
	}
}

func TestCompileScriptClassRegistration(t *testing.T) {
	r := newTestResolver(t, nil)
	cls := &ast.ClassDecl{
		Name: "Counter",
		Fields: []*ast.FieldDecl{
			{Name: "count", Type: typeRef("int", 2), Span: at(2)},
		},
		Methods: []*ast.FuncDecl{
			{
				Name: "bump", Kind: ast.FuncMethod,
				Body: &ast.BlockStmt{Span: at(3)},
				Span: at(3),
			},
		},
		Span: at(1),
	}
	res := CompileUnit(r, &ast.Unit{File: "counter.qs", Classes: []*ast.ClassDecl{cls}})
	if !res.Ok() {
		t.Fatalf("errors: %v", res.Errors)
	}

	decl, ok := r.TypeByName("Counter")
	if !ok {
		t.Fatal("Counter not registered")
	}
	if len(decl.FindMethods("bump")) != 1 {
		t.Error("bump not indexed on Counter")
	}
	bump := decl.Methods[0]
	if _, ok := res.Function(bump.ID); !ok {
		t.Error("bump body not compiled")
	}
}

func TestCompileScriptShadowingNativeFails(t *testing.T) {
	f := &types.FuncDecl{Name: "spawn", Return: types.Simple(ident.Void)}
	r := newTestResolver(t, func(b *catalog.Builder) { b.AddFunction(f) })

	res := compileOne(t, r, fnDecl("spawn"))
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", res.Errors)
	}
	var dup *catalog.DuplicateError
	if !errors.As(res.Errors[0], &dup) {
		t.Errorf("err = %v, want DuplicateError", res.Errors[0])
	}
}
