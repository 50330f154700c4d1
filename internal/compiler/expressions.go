package compiler

import (
	"fmt"

	"github.com/quillscript/quill/internal/ast"
	"github.com/quillscript/quill/internal/bytecode"
	"github.com/quillscript/quill/internal/catalog"
	"github.com/quillscript/quill/internal/ident"
	"github.com/quillscript/quill/internal/span"
	"github.com/quillscript/quill/internal/types"
)

// compileExpression lowers one expression and returns its static type.
// Every expression leaves exactly one value on the stack; callers that
// discard the result emit the POP themselves.
func (c *Compiler) compileExpression(e ast.Expression) (types.DataType, error) {
	switch ex := e.(type) {
	case *ast.IntLit:
		return c.compileIntLit(ex)
	case *ast.FloatLit:
		idx := c.pool.AddFloat(ex.Value)
		if err := c.emitConstIndex(idx, ex.Span); err != nil {
			return types.DataType{}, err
		}
		return types.Simple(ident.Double), nil
	case *ast.StringLit:
		idx := c.pool.AddString(ex.Value)
		if err := c.emitConstIndex(idx, ex.Span); err != nil {
			return types.DataType{}, err
		}
		return types.Simple(ident.String), nil
	case *ast.BoolLit:
		if ex.Value {
			c.emit(bytecode.OP_TRUE, ex.Span.Line)
		} else {
			c.emit(bytecode.OP_FALSE, ex.Span.Line)
		}
		return types.Simple(ident.Bool), nil
	case *ast.NullLit:
		c.emit(bytecode.OP_NULL, ex.Span.Line)
		return types.Simple(ident.Null), nil
	case *ast.Ident:
		return c.compileIdent(ex)
	case *ast.AssignExpr:
		return c.compileAssign(ex)
	case *ast.BinaryExpr:
		return c.compileBinary(ex)
	case *ast.UnaryExpr:
		return c.compileUnary(ex)
	case *ast.CallExpr:
		return c.compileCall(ex)
	case *ast.MethodCallExpr:
		return c.compileMethodCall(ex)
	case *ast.CastExpr:
		return c.compileCast(ex)
	case *ast.LambdaExpr:
		return c.compileLambda(ex)
	}
	return types.DataType{}, errAt(e.GetSpan(), fmt.Errorf("unsupported expression %T", e))
}

func (c *Compiler) compileIntLit(ex *ast.IntLit) (types.DataType, error) {
	switch ex.Value {
	case 0:
		c.emit(bytecode.OP_ZERO, ex.Span.Line)
	case 1:
		c.emit(bytecode.OP_ONE, ex.Span.Line)
	default:
		idx := c.pool.AddInt(ex.Value)
		if err := c.emitConstIndex(idx, ex.Span); err != nil {
			return types.DataType{}, err
		}
	}
	return types.Simple(ident.Int), nil
}

// compileIdent loads a name: own local, then capture from an enclosing
// function, then registered global.
func (c *Compiler) compileIdent(ex *ast.Ident) (types.DataType, error) {
	if v, ok := c.scope.Get(ex.Name); ok {
		if !v.Initialized {
			return types.DataType{}, errAt(ex.Span, &UseBeforeInitError{Name: ex.Name})
		}
		c.emit(bytecode.OP_GET_LOCAL, ex.Span.Line)
		c.chunk.Write(byte(v.Slot), ex.Span.Line)
		return v.Type, nil
	}
	if lk, ok := c.scope.ResolveOrCapture(ex.Name); ok {
		if err := c.emitCapture(bytecode.OP_GET_CAPTURE, lk.Capture, ex.Span); err != nil {
			return types.DataType{}, err
		}
		return lk.Capture.Type, nil
	}
	if g, ok := c.resolver.GlobalByName(ex.Name); ok {
		if err := c.emitIdentOp(bytecode.OP_GET_GLOBAL, g.ID, ex.Span); err != nil {
			return types.DataType{}, err
		}
		return g.Type, nil
	}
	return types.DataType{}, errAt(ex.Span, &catalog.UnknownError{Name: ex.Name})
}

// compileAssign stores into a local, capture or global. The assigned value
// stays on the stack, so an assignment can be used as an expression.
func (c *Compiler) compileAssign(ex *ast.AssignExpr) (types.DataType, error) {
	got, err := c.compileExpression(ex.Value)
	if err != nil {
		return types.DataType{}, err
	}
	name := ex.Target.Name

	if v, ok := c.scope.Get(name); ok {
		if v.IsConst && v.Initialized {
			return types.DataType{}, errAt(ex.Span, &ConstViolationError{Name: name})
		}
		if err := c.checkConvertible(got.ID, v.Type.ID, ex.Value.GetSpan()); err != nil {
			return types.DataType{}, err
		}
		c.scope.MarkInitialized(name)
		c.emit(bytecode.OP_SET_LOCAL, ex.Span.Line)
		c.chunk.Write(byte(v.Slot), ex.Span.Line)
		return v.Type, nil
	}
	if lk, ok := c.scope.ResolveOrCapture(name); ok {
		if lk.Capture.IsConst {
			return types.DataType{}, errAt(ex.Span, &ConstViolationError{Name: name})
		}
		if err := c.checkConvertible(got.ID, lk.Capture.Type.ID, ex.Value.GetSpan()); err != nil {
			return types.DataType{}, err
		}
		if err := c.emitCapture(bytecode.OP_SET_CAPTURE, lk.Capture, ex.Span); err != nil {
			return types.DataType{}, err
		}
		return lk.Capture.Type, nil
	}
	if g, ok := c.resolver.GlobalByName(name); ok {
		if g.IsConst {
			return types.DataType{}, errAt(ex.Span, &ConstViolationError{Name: name})
		}
		if err := c.checkConvertible(got.ID, g.Type.ID, ex.Value.GetSpan()); err != nil {
			return types.DataType{}, err
		}
		if err := c.emitIdentOp(bytecode.OP_SET_GLOBAL, g.ID, ex.Span); err != nil {
			return types.DataType{}, err
		}
		return g.Type, nil
	}
	return types.DataType{}, errAt(ex.Span, &catalog.UnknownError{Name: name})
}

// binaryOperatorName maps an infix token to the operator method name an
// object type registers for it.
var binaryOperatorName = map[string]string{
	"+": "opAdd",
	"-": "opSub",
	"*": "opMul",
	"/": "opDiv",
	"%": "opMod",
}

func (c *Compiler) compileBinary(ex *ast.BinaryExpr) (types.DataType, error) {
	switch ex.Op {
	case "&&":
		return c.compileLogicalAnd(ex)
	case "||":
		return c.compileLogicalOr(ex)
	case "is":
		return c.compileInstanceOf(ex)
	}

	lt, err := c.compileExpression(ex.Left)
	if err != nil {
		return types.DataType{}, err
	}
	rt, err := c.compileExpression(ex.Right)
	if err != nil {
		return types.DataType{}, err
	}

	if isObjectType(lt.ID) {
		return c.compileOperatorCall(ex, lt, rt)
	}

	switch ex.Op {
	case "+", "-", "*", "/", "%":
		if ex.Op == "+" && lt.ID == ident.String {
			if rt.ID != ident.String {
				return types.DataType{}, errAt(ex.Span, &MismatchError{Want: "string", Got: c.resolver.NameOf(rt.ID)})
			}
			c.emit(bytecode.OP_ADD, ex.Span.Line)
			return types.Simple(ident.String), nil
		}
		if err := c.checkNumericPair(lt.ID, rt.ID, ex.Span); err != nil {
			return types.DataType{}, err
		}
		c.emit(arithmeticOpcode(ex.Op), ex.Span.Line)
		return types.Simple(widerNumeric(lt.ID, rt.ID)), nil
	case "==", "!=":
		if err := c.checkComparable(lt.ID, rt.ID, ex.Span); err != nil {
			return types.DataType{}, err
		}
		if ex.Op == "==" {
			c.emit(bytecode.OP_EQ, ex.Span.Line)
		} else {
			c.emit(bytecode.OP_NE, ex.Span.Line)
		}
		return types.Simple(ident.Bool), nil
	case "<", "<=", ">", ">=":
		if lt.ID == ident.String && rt.ID == ident.String {
			c.emit(orderingOpcode(ex.Op), ex.Span.Line)
			return types.Simple(ident.Bool), nil
		}
		if err := c.checkNumericPair(lt.ID, rt.ID, ex.Span); err != nil {
			return types.DataType{}, err
		}
		c.emit(orderingOpcode(ex.Op), ex.Span.Line)
		return types.Simple(ident.Bool), nil
	}
	return types.DataType{}, errAt(ex.Span, fmt.Errorf("unsupported operator %q", ex.Op))
}

// compileOperatorCall dispatches an infix operator on an object left
// operand to the type's registered operator method. != lowers to opEquals
// followed by NOT.
func (c *Compiler) compileOperatorCall(ex *ast.BinaryExpr, lt, rt types.DataType) (types.DataType, error) {
	opName, negate := binaryOperatorName[ex.Op], false
	switch ex.Op {
	case "==":
		opName = "opEquals"
	case "!=":
		opName, negate = "opEquals", true
	}
	if opName == "" {
		return types.DataType{}, errAt(ex.Span, fmt.Errorf("unsupported operator %q on %s", ex.Op, c.resolver.NameOf(lt.ID)))
	}

	op, err := c.resolver.ResolveOperator(lt.ID, opName, []ident.ID{rt.ID})
	if err != nil {
		return types.DataType{}, errAt(ex.Span, err)
	}
	if err := c.emitIdentOp(bytecode.OP_CALL_METHOD, op.ID, ex.Span); err != nil {
		return types.DataType{}, err
	}
	c.chunk.Write(1, ex.Span.Line)
	if negate {
		c.emit(bytecode.OP_NOT, ex.Span.Line)
		return types.Simple(ident.Bool), nil
	}
	return op.Return, nil
}

// compileLogicalAnd short-circuits: the right operand is skipped when the
// left is false, which stays on the stack as the result.
func (c *Compiler) compileLogicalAnd(ex *ast.BinaryExpr) (types.DataType, error) {
	lt, err := c.compileExpression(ex.Left)
	if err != nil {
		return types.DataType{}, err
	}
	if err := c.checkBool(lt.ID, ex.Left.GetSpan()); err != nil {
		return types.DataType{}, err
	}

	endJump := c.emitJump(bytecode.OP_JUMP_IF_FALSE, ex.Span.Line)
	c.emit(bytecode.OP_POP, ex.Span.Line)
	rt, err := c.compileExpression(ex.Right)
	if err != nil {
		return types.DataType{}, err
	}
	if err := c.checkBool(rt.ID, ex.Right.GetSpan()); err != nil {
		return types.DataType{}, err
	}
	if err := c.patchJump(endJump, ex.Span); err != nil {
		return types.DataType{}, err
	}
	return types.Simple(ident.Bool), nil
}

func (c *Compiler) compileLogicalOr(ex *ast.BinaryExpr) (types.DataType, error) {
	lt, err := c.compileExpression(ex.Left)
	if err != nil {
		return types.DataType{}, err
	}
	if err := c.checkBool(lt.ID, ex.Left.GetSpan()); err != nil {
		return types.DataType{}, err
	}

	elseJump := c.emitJump(bytecode.OP_JUMP_IF_FALSE, ex.Span.Line)
	endJump := c.emitJump(bytecode.OP_JUMP, ex.Span.Line)
	if err := c.patchJump(elseJump, ex.Span); err != nil {
		return types.DataType{}, err
	}
	c.emit(bytecode.OP_POP, ex.Span.Line)
	rt, err := c.compileExpression(ex.Right)
	if err != nil {
		return types.DataType{}, err
	}
	if err := c.checkBool(rt.ID, ex.Right.GetSpan()); err != nil {
		return types.DataType{}, err
	}
	if err := c.patchJump(endJump, ex.Span); err != nil {
		return types.DataType{}, err
	}
	return types.Simple(ident.Bool), nil
}

// compileInstanceOf lowers `expr is TypeName` to a runtime type check
// addressed by the named type's identity.
func (c *Compiler) compileInstanceOf(ex *ast.BinaryExpr) (types.DataType, error) {
	name, ok := ex.Right.(*ast.Ident)
	if !ok {
		return types.DataType{}, errAt(ex.Right.GetSpan(), fmt.Errorf("right operand of is must be a type name"))
	}
	td, ok := c.resolver.TypeByName(name.Name)
	if !ok {
		return types.DataType{}, errAt(name.Span, &catalog.UnknownError{Name: name.Name})
	}
	if _, err := c.compileExpression(ex.Left); err != nil {
		return types.DataType{}, err
	}
	if err := c.emitIdentOp(bytecode.OP_INSTANCE_OF, td.ID, ex.Span); err != nil {
		return types.DataType{}, err
	}
	return types.Simple(ident.Bool), nil
}

func (c *Compiler) compileUnary(ex *ast.UnaryExpr) (types.DataType, error) {
	ot, err := c.compileExpression(ex.Operand)
	if err != nil {
		return types.DataType{}, err
	}
	switch ex.Op {
	case "-":
		if !isNumeric(ot.ID) {
			return types.DataType{}, errAt(ex.Span, &MismatchError{Want: "numeric", Got: c.resolver.NameOf(ot.ID)})
		}
		c.emit(bytecode.OP_NEG, ex.Span.Line)
		return ot, nil
	case "!":
		if err := c.checkBool(ot.ID, ex.Operand.GetSpan()); err != nil {
			return types.DataType{}, err
		}
		c.emit(bytecode.OP_NOT, ex.Span.Line)
		return types.Simple(ident.Bool), nil
	}
	return types.DataType{}, errAt(ex.Span, fmt.Errorf("unsupported operator %q", ex.Op))
}

// compileCall lowers a named call. The name is tried as a callable local
// or capture first, then as a type (construction), then as a function
// overload group. A call with explicit type arguments instantiates the
// named template and constructs the instance.
func (c *Compiler) compileCall(ex *ast.CallExpr) (types.DataType, error) {
	if len(ex.TypeArgs) > 0 {
		return c.compileGenericConstruct(ex)
	}

	if v, ok := c.scope.Get(ex.Name); ok {
		if !v.Initialized {
			return types.DataType{}, errAt(ex.Span, &UseBeforeInitError{Name: ex.Name})
		}
		c.emit(bytecode.OP_GET_LOCAL, ex.Span.Line)
		c.chunk.Write(byte(v.Slot), ex.Span.Line)
		return c.compileValueCall(ex)
	}
	if lk, ok := c.scope.ResolveOrCapture(ex.Name); ok {
		if err := c.emitCapture(bytecode.OP_GET_CAPTURE, lk.Capture, ex.Span); err != nil {
			return types.DataType{}, err
		}
		return c.compileValueCall(ex)
	}

	if td, ok := c.resolver.TypeByName(ex.Name); ok {
		return c.compileConstruct(td.ID, ex.Args, ex.Span)
	}

	if err := c.checkArgc(len(ex.Args), ex.Span); err != nil {
		return types.DataType{}, err
	}
	argIDs, err := c.compileArgs(ex.Args)
	if err != nil {
		return types.DataType{}, err
	}
	fn, err := c.resolver.ResolveCall(ex.Name, argIDs)
	if err != nil {
		return types.DataType{}, errAt(ex.Span, err)
	}
	if err := c.emitIdentOp(bytecode.OP_CALL, fn.ID, ex.Span); err != nil {
		return types.DataType{}, err
	}
	c.chunk.Write(byte(len(ex.Args)), ex.Span.Line)
	return fn.Return, nil
}

// compileValueCall finishes a call through a callable value already on the
// stack. The static signature of such values is not tracked, so the result
// types to any.
func (c *Compiler) compileValueCall(ex *ast.CallExpr) (types.DataType, error) {
	if err := c.checkArgc(len(ex.Args), ex.Span); err != nil {
		return types.DataType{}, err
	}
	if _, err := c.compileArgs(ex.Args); err != nil {
		return types.DataType{}, err
	}
	c.emit(bytecode.OP_CALL_VALUE, ex.Span.Line)
	c.chunk.Write(byte(len(ex.Args)), ex.Span.Line)
	return types.Simple(ident.Any), nil
}

// compileGenericConstruct instantiates name<args> and constructs the
// resulting instance type.
func (c *Compiler) compileGenericConstruct(ex *ast.CallExpr) (types.DataType, error) {
	if c.resolver.Instantiate == nil {
		return types.DataType{}, errAt(ex.Span, fmt.Errorf("no template instantiation available for %s", ex.Name))
	}
	typeArgs := make([]types.DataType, len(ex.TypeArgs))
	for i, ref := range ex.TypeArgs {
		dt, err := c.resolveTypeRef(ref)
		if err != nil {
			return types.DataType{}, err
		}
		typeArgs[i] = dt
	}
	instance, err := c.resolver.Instantiate(ident.FromName(ex.Name), typeArgs)
	if err != nil {
		return types.DataType{}, errAt(ex.Span, err)
	}
	return c.compileConstruct(instance, ex.Args, ex.Span)
}

// compileConstruct compiles constructor arguments and emits construction
// addressed by the selected constructor's identity.
func (c *Compiler) compileConstruct(owner ident.ID, args []ast.Expression, at span.Span) (types.DataType, error) {
	if err := c.checkArgc(len(args), at); err != nil {
		return types.DataType{}, err
	}
	argIDs, err := c.compileArgs(args)
	if err != nil {
		return types.DataType{}, err
	}
	ctor, err := c.resolver.ResolveConstructor(owner, argIDs)
	if err != nil {
		return types.DataType{}, errAt(at, err)
	}
	if err := c.emitIdentOp(bytecode.OP_CONSTRUCT, ctor.ID, at); err != nil {
		return types.DataType{}, err
	}
	c.chunk.Write(byte(len(args)), at.Line)
	return types.Simple(owner), nil
}

func (c *Compiler) compileMethodCall(ex *ast.MethodCallExpr) (types.DataType, error) {
	if err := c.checkArgc(len(ex.Args), ex.Span); err != nil {
		return types.DataType{}, err
	}
	recv, err := c.compileExpression(ex.Recv)
	if err != nil {
		return types.DataType{}, err
	}
	argIDs, err := c.compileArgs(ex.Args)
	if err != nil {
		return types.DataType{}, err
	}
	m, err := c.resolver.ResolveMethodCall(recv.ID, ex.Name, argIDs)
	if err != nil {
		return types.DataType{}, errAt(ex.Span, err)
	}
	if recv.IsConst && !m.IsConst {
		return types.DataType{}, errAt(ex.Span, &ConstViolationError{Name: ex.Name})
	}
	if err := c.emitIdentOp(bytecode.OP_CALL_METHOD, m.ID, ex.Span); err != nil {
		return types.DataType{}, err
	}
	c.chunk.Write(byte(len(ex.Args)), ex.Span.Line)
	return m.Return, nil
}

func (c *Compiler) compileCast(ex *ast.CastExpr) (types.DataType, error) {
	dt, err := c.resolveTypeRef(ex.Type)
	if err != nil {
		return types.DataType{}, err
	}
	if _, err := c.compileExpression(ex.Value); err != nil {
		return types.DataType{}, err
	}
	if err := c.emitIdentOp(bytecode.OP_CAST, dt.ID, ex.Span); err != nil {
		return types.DataType{}, err
	}
	return dt, nil
}

// compileLambda compiles a nested function body with its own Compiler
// linked to this one, registers it under a synthesized unit-unique name,
// and emits closure construction carrying the capture transfer list.
func (c *Compiler) compileLambda(ex *ast.LambdaExpr) (types.DataType, error) {
	name := fmt.Sprintf("$lambda%d", c.unit.lambdaSeq)
	c.unit.lambdaSeq++

	params := make([]types.Param, len(ex.Params))
	for i, p := range ex.Params {
		dt, err := c.resolveTypeRef(p.Type)
		if err != nil {
			return types.DataType{}, err
		}
		params[i] = types.Param{Name: p.Name, Type: dt}
	}
	ret := types.Simple(ident.Void)
	if !ex.Return.IsVoid() {
		dt, err := c.resolveTypeRef(ex.Return)
		if err != nil {
			return types.DataType{}, err
		}
		ret = dt
	}

	decl := &types.FuncDecl{
		Name:   name,
		Domain: types.DomainFunction,
		Params: params,
		Return: ret,
	}
	if err := c.resolver.RegisterScriptFunction(decl); err != nil {
		return types.DataType{}, errAt(ex.Span, err)
	}

	sub := newCompiler(c.resolver, c.unit, decl, c)
	fn := &ast.FuncDecl{
		Name:   name,
		Kind:   ast.FuncGlobal,
		Params: ex.Params,
		Return: ex.Return,
		Body:   ex.Body,
		Span:   ex.Span,
	}
	compiled, err := sub.compileFunction(fn)
	if err != nil {
		return types.DataType{}, err
	}
	c.unit.lambdas = append(c.unit.lambdas, compiled)

	if len(compiled.Captures) > maxCaptures {
		return types.DataType{}, errAt(ex.Span, &LimitError{What: "captured variables", Max: maxCaptures})
	}
	if err := c.emitIdentOp(bytecode.OP_CLOSURE, decl.ID, ex.Span); err != nil {
		return types.DataType{}, err
	}
	c.chunk.Write(byte(len(compiled.Captures)), ex.Span.Line)
	for _, cv := range compiled.Captures {
		if cv.Slot > 0xff {
			return types.DataType{}, errAt(ex.Span, &LimitError{What: "captured variables", Max: maxCaptures})
		}
		isLocal := byte(0)
		if cv.IsLocal {
			isLocal = 1
		}
		c.chunk.Write(isLocal, ex.Span.Line)
		c.chunk.Write(byte(cv.Slot), ex.Span.Line)
	}
	return types.Simple(ident.Any), nil
}

// compileArgs compiles call arguments left to right and collects their
// static type identities for overload resolution.
func (c *Compiler) compileArgs(args []ast.Expression) ([]ident.ID, error) {
	ids := make([]ident.ID, len(args))
	for i, a := range args {
		dt, err := c.compileExpression(a)
		if err != nil {
			return nil, err
		}
		ids[i] = dt.ID
	}
	return ids, nil
}

// type checks

func (c *Compiler) checkBool(id ident.ID, at span.Span) error {
	if id == ident.Bool || id == ident.Any {
		return nil
	}
	return errAt(at, &MismatchError{Want: "bool", Got: c.resolver.NameOf(id)})
}

func (c *Compiler) checkConvertible(got, want ident.ID, at span.Span) error {
	if catalog.Convertible(got, want) {
		return nil
	}
	return errAt(at, &MismatchError{Want: c.resolver.NameOf(want), Got: c.resolver.NameOf(got)})
}

func (c *Compiler) checkNumericPair(l, r ident.ID, at span.Span) error {
	if !isNumeric(l) {
		return errAt(at, &MismatchError{Want: "numeric", Got: c.resolver.NameOf(l)})
	}
	if !isNumeric(r) {
		return errAt(at, &MismatchError{Want: "numeric", Got: c.resolver.NameOf(r)})
	}
	return nil
}

func (c *Compiler) checkComparable(l, r ident.ID, at span.Span) error {
	if isNumeric(l) && isNumeric(r) {
		return nil
	}
	if l == r && (l == ident.String || l == ident.Bool) {
		return nil
	}
	if l == ident.Null || r == ident.Null {
		return nil
	}
	return errAt(at, &MismatchError{Want: c.resolver.NameOf(l), Got: c.resolver.NameOf(r)})
}

func isNumeric(id ident.ID) bool {
	return ident.IsPrimitive(id) && id != ident.Bool && id != ident.Void
}

// isObjectType reports whether infix operators on a value of this type
// dispatch to registered operator methods instead of opcodes.
func isObjectType(id ident.ID) bool {
	if ident.IsPrimitive(id) {
		return false
	}
	switch id {
	case ident.String, ident.Bool, ident.Any, ident.Null:
		return false
	}
	return true
}

// numericRank orders the numeric primitives for result widening; a higher
// rank absorbs a lower one.
var numericRank = map[ident.ID]int{
	ident.Int8:   1,
	ident.UInt8:  1,
	ident.Int16:  2,
	ident.UInt16: 2,
	ident.Int:    3,
	ident.UInt:   3,
	ident.Int64:  4,
	ident.UInt64: 4,
	ident.Float:  5,
	ident.Double: 6,
}

// widerNumeric picks the result type of mixed numeric arithmetic,
// preferring the left operand on equal rank.
func widerNumeric(l, r ident.ID) ident.ID {
	if numericRank[r] > numericRank[l] {
		return r
	}
	return l
}

func arithmeticOpcode(op string) bytecode.Opcode {
	switch op {
	case "+":
		return bytecode.OP_ADD
	case "-":
		return bytecode.OP_SUB
	case "*":
		return bytecode.OP_MUL
	case "/":
		return bytecode.OP_DIV
	}
	return bytecode.OP_MOD
}

func orderingOpcode(op string) bytecode.Opcode {
	switch op {
	case "<":
		return bytecode.OP_LT
	case "<=":
		return bytecode.OP_LE
	case ">":
		return bytecode.OP_GT
	}
	return bytecode.OP_GE
}
