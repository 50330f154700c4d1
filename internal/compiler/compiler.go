package compiler

import (
	"github.com/quillscript/quill/internal/ast"
	"github.com/quillscript/quill/internal/bytecode"
	"github.com/quillscript/quill/internal/catalog"
	"github.com/quillscript/quill/internal/ident"
	"github.com/quillscript/quill/internal/span"
	"github.com/quillscript/quill/internal/types"
)

// CompiledFunction is the finished artifact for one function body.
type CompiledFunction struct {
	ID        ident.ID
	Name      string
	Chunk     *bytecode.Chunk
	FrameSize int
	Captures  []CaptureVar
	IsClosure bool
}

// loopContext tracks the innermost loop during compilation: the backward
// jump target for continue and the pending forward break jumps, patched to
// the position immediately following the loop when the context exits.
type loopContext struct {
	continueTarget int
	breakJumps     []int
}

// Compiler compiles one function body. Nested lambdas get their own
// Compiler linked through enclosing, mirroring the scope chain.
type Compiler struct {
	resolver *catalog.Resolver
	pool     *bytecode.ConstantPool
	chunk    *bytecode.Chunk
	scope    *LocalScope
	loops    []loopContext

	decl      *types.FuncDecl
	enclosing *Compiler
	unit      *unitState
}

// unitState is shared by every Compiler of one unit: the constant pool and
// bookkeeping for lambda naming and collection.
type unitState struct {
	pool      *bytecode.ConstantPool
	lambdaSeq int
	lambdas   []*CompiledFunction
}

// newCompiler prepares compilation of one function body.
func newCompiler(resolver *catalog.Resolver, unit *unitState, decl *types.FuncDecl, enclosing *Compiler) *Compiler {
	c := &Compiler{
		resolver:  resolver,
		pool:      unit.pool,
		chunk:     bytecode.NewChunk(),
		decl:      decl,
		enclosing: enclosing,
		unit:      unit,
	}
	if enclosing != nil {
		c.scope = Nested(enclosing.scope)
	} else {
		c.scope = NewLocalScope()
	}
	return c
}

// compileFunction compiles the declaration's body into a chunk. Parameters
// are declared at depth 0, already initialized.
func (c *Compiler) compileFunction(fn *ast.FuncDecl) (*CompiledFunction, error) {
	if !c.decl.Owner.IsEmpty() {
		// Members get the receiver in slot 0, const on const methods.
		recv := types.Simple(c.decl.Owner)
		recv.IsConst = c.decl.IsConst
		if _, err := c.scope.DeclareParam("this", recv, c.decl.IsConst, fn.Span); err != nil {
			return nil, errAt(fn.Span, err)
		}
	}
	for _, p := range fn.Params {
		dt, err := c.resolveTypeRef(p.Type)
		if err != nil {
			return nil, err
		}
		if _, err := c.scope.DeclareParam(p.Name, dt, p.IsConst, p.Span); err != nil {
			return nil, errAt(p.Span, err)
		}
	}

	if err := c.compileBlockStmtBody(fn.Body); err != nil {
		return nil, err
	}

	if !c.decl.Return.ID.IsEmpty() && c.decl.Return.ID != ident.Void {
		if !blockAlwaysReturns(fn.Body) {
			return nil, errAt(fn.Span, &MissingReturnError{Name: c.decl.Name})
		}
	}
	c.chunk.WriteOp(bytecode.OP_RETURN_VOID, lastLine(fn))

	return &CompiledFunction{
		ID:        c.decl.ID,
		Name:      c.decl.Name,
		Chunk:     c.chunk,
		FrameSize: c.scope.FrameSize(),
		Captures:  c.scope.Captures(),
		IsClosure: c.scope.HasCaptures(),
	}, nil
}

// resolveTypeRef resolves a textual type reference and verifies the named
// type is actually registered.
func (c *Compiler) resolveTypeRef(ref ast.TypeRef) (types.DataType, error) {
	if ref.IsVoid() {
		return types.Simple(ident.Void), nil
	}
	dt, err := c.resolver.ResolveTypeName(ref.Name)
	if err != nil {
		return types.DataType{}, errAt(ref.Span, err)
	}
	if _, ok := c.resolver.GetType(dt.ID); !ok {
		return types.DataType{}, errAt(ref.Span, &catalog.UnknownError{Name: ref.Name})
	}
	return dt, nil
}

// emit helpers

func (c *Compiler) emit(op bytecode.Opcode, line int) {
	c.chunk.WriteOp(op, line)
}

func (c *Compiler) emitConstIndex(index int, at span.Span) error {
	if err := c.chunk.WriteConst(index, at.Line); err != nil {
		return errAt(at, err)
	}
	return nil
}

// emitIdentOp emits an opcode whose operand is an identity routed through
// the constant pool (calls, casts, construction, globals). The operand is
// a 16-bit pool index; a pool grown past that is a compile error, like
// Chunk.WriteConst past the 8-bit form.
func (c *Compiler) emitIdentOp(op bytecode.Opcode, id ident.ID, at span.Span) error {
	idx := c.pool.AddIdent(id)
	if idx > 0xffff {
		return errAt(at, &LimitError{What: "constants", Max: 0x10000})
	}
	c.emit(op, at.Line)
	c.chunk.WriteU16(uint16(idx), at.Line)
	return nil
}

// emitCapture emits a capture load/store. Capture indices encode in one
// byte.
func (c *Compiler) emitCapture(op bytecode.Opcode, cv *CaptureVar, at span.Span) error {
	if cv.Index >= maxCaptures {
		return errAt(at, &LimitError{What: "captured variables", Max: maxCaptures})
	}
	c.emit(op, at.Line)
	c.chunk.Write(byte(cv.Index), at.Line)
	return nil
}

// checkArgc bounds a call's argument count to its one-byte operand.
func (c *Compiler) checkArgc(n int, at span.Span) error {
	if n > 0xff {
		return errAt(at, &LimitError{What: "call arguments", Max: 0xff})
	}
	return nil
}

func (c *Compiler) emitJump(op bytecode.Opcode, line int) int {
	return c.chunk.EmitJump(op, line)
}

func (c *Compiler) patchJump(label int, at span.Span) error {
	if err := c.chunk.PatchJump(label); err != nil {
		return errAt(at, err)
	}
	return nil
}

// loop context management

func (c *Compiler) pushLoop(continueTarget int) {
	c.loops = append(c.loops, loopContext{continueTarget: continueTarget})
}

// popLoop exits the innermost loop context and patches every pending break
// to the current position.
func (c *Compiler) popLoop(at span.Span) error {
	ctx := c.loops[len(c.loops)-1]
	c.loops = c.loops[:len(c.loops)-1]
	for _, label := range ctx.breakJumps {
		if err := c.patchJump(label, at); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) innerLoop() *loopContext {
	if len(c.loops) == 0 {
		return nil
	}
	return &c.loops[len(c.loops)-1]
}

// blockAlwaysReturns approximates return coverage: a block returns when its
// last reachable statement is a return, or an if/else whose branches both
// return.
func blockAlwaysReturns(b *ast.BlockStmt) bool {
	if b == nil || len(b.Stmts) == 0 {
		return false
	}
	return stmtAlwaysReturns(b.Stmts[len(b.Stmts)-1])
}

func stmtAlwaysReturns(s ast.Statement) bool {
	switch st := s.(type) {
	case *ast.ReturnStmt:
		return true
	case *ast.IfStmt:
		if st.Else == nil {
			return false
		}
		elseReturns := false
		switch e := st.Else.(type) {
		case *ast.BlockStmt:
			elseReturns = blockAlwaysReturns(e)
		case *ast.IfStmt:
			elseReturns = stmtAlwaysReturns(e)
		}
		return blockAlwaysReturns(st.Then) && elseReturns
	case *ast.BlockStmt:
		return blockAlwaysReturns(st)
	}
	return false
}

func lastLine(fn *ast.FuncDecl) int {
	if fn.Body != nil && len(fn.Body.Stmts) > 0 {
		return fn.Body.Stmts[len(fn.Body.Stmts)-1].GetSpan().Line
	}
	return fn.Span.Line
}
