package compiler

import (
	"fmt"

	"github.com/quillscript/quill/internal/ast"
	"github.com/quillscript/quill/internal/bytecode"
	"github.com/quillscript/quill/internal/ident"
)

func (c *Compiler) compileStatement(s ast.Statement) error {
	switch st := s.(type) {
	case *ast.BlockStmt:
		return c.compileBlockStmt(st)
	case *ast.VarDeclStmt:
		return c.compileVarDecl(st)
	case *ast.ExprStmt:
		return c.compileExprStmt(st)
	case *ast.IfStmt:
		return c.compileIf(st)
	case *ast.WhileStmt:
		return c.compileWhile(st)
	case *ast.BreakStmt:
		return c.compileBreak(st)
	case *ast.ContinueStmt:
		return c.compileContinue(st)
	case *ast.ReturnStmt:
		return c.compileReturn(st)
	}
	return errAt(s.GetSpan(), fmt.Errorf("unsupported statement %T", s))
}

// compileBlockStmt opens a nested scope for the block.
func (c *Compiler) compileBlockStmt(b *ast.BlockStmt) error {
	c.scope.PushScope()
	err := c.compileBlockStmtBody(b)
	c.scope.PopScope()
	return err
}

// compileBlockStmtBody compiles the statements without opening a scope;
// function bodies share depth 0 with their parameters.
func (c *Compiler) compileBlockStmtBody(b *ast.BlockStmt) error {
	if b == nil {
		return nil
	}
	for _, s := range b.Stmts {
		if err := c.compileStatement(s); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) compileVarDecl(st *ast.VarDeclStmt) error {
	dt, err := c.resolveTypeRef(st.Type)
	if err != nil {
		return err
	}
	if st.IsConst {
		dt.IsConst = true
	}

	slot, err := c.scope.Declare(st.Name, dt, st.IsConst, st.Span)
	if err != nil {
		return errAt(st.Span, err)
	}

	if st.Init == nil {
		// Uninitialized: reading before an assignment is a compile error,
		// enforced in compileIdent.
		return nil
	}

	got, err := c.compileExpression(st.Init)
	if err != nil {
		return err
	}
	if err := c.checkConvertible(got.ID, dt.ID, st.Init.GetSpan()); err != nil {
		return err
	}
	c.scope.MarkInitialized(st.Name)
	c.emit(bytecode.OP_SET_LOCAL, st.Span.Line)
	c.chunk.Write(byte(slot), st.Span.Line)
	c.emit(bytecode.OP_POP, st.Span.Line)
	return nil
}

func (c *Compiler) compileExprStmt(st *ast.ExprStmt) error {
	if _, err := c.compileExpression(st.Expr); err != nil {
		return err
	}
	c.emit(bytecode.OP_POP, st.Span.Line)
	return nil
}

func (c *Compiler) compileIf(st *ast.IfStmt) error {
	condType, err := c.compileExpression(st.Cond)
	if err != nil {
		return err
	}
	if err := c.checkBool(condType.ID, st.Cond.GetSpan()); err != nil {
		return err
	}

	elseJump := c.emitJump(bytecode.OP_JUMP_IF_FALSE, st.Span.Line)
	c.emit(bytecode.OP_POP, st.Span.Line)
	if err := c.compileBlockStmt(st.Then); err != nil {
		return err
	}
	endJump := c.emitJump(bytecode.OP_JUMP, st.Span.Line)

	if err := c.patchJump(elseJump, st.Span); err != nil {
		return err
	}
	c.emit(bytecode.OP_POP, st.Span.Line)
	if st.Else != nil {
		if err := c.compileStatement(st.Else); err != nil {
			return err
		}
	}
	return c.patchJump(endJump, st.Span)
}

// compileWhile compiles a pre-tested loop. The loop context's continue
// target is the condition start; pending breaks are patched to the
// position immediately following the loop.
func (c *Compiler) compileWhile(st *ast.WhileStmt) error {
	loopStart := c.chunk.Len()
	c.pushLoop(loopStart)

	condType, err := c.compileExpression(st.Cond)
	if err != nil {
		return err
	}
	if err := c.checkBool(condType.ID, st.Cond.GetSpan()); err != nil {
		return err
	}

	exitJump := c.emitJump(bytecode.OP_JUMP_IF_FALSE, st.Span.Line)
	c.emit(bytecode.OP_POP, st.Span.Line)

	if err := c.compileBlockStmt(st.Body); err != nil {
		return err
	}
	if err := c.chunk.EmitLoop(loopStart, st.Span.Line); err != nil {
		return errAt(st.Span, err)
	}

	if err := c.patchJump(exitJump, st.Span); err != nil {
		return err
	}
	c.emit(bytecode.OP_POP, st.Span.Line)

	return c.popLoop(st.Span)
}

func (c *Compiler) compileBreak(st *ast.BreakStmt) error {
	loop := c.innerLoop()
	if loop == nil {
		return errAt(st.Span, &ControlFlowError{Keyword: "break"})
	}
	label := c.emitJump(bytecode.OP_JUMP, st.Span.Line)
	loop.breakJumps = append(loop.breakJumps, label)
	return nil
}

func (c *Compiler) compileContinue(st *ast.ContinueStmt) error {
	loop := c.innerLoop()
	if loop == nil {
		return errAt(st.Span, &ControlFlowError{Keyword: "continue"})
	}
	if err := c.chunk.EmitLoop(loop.continueTarget, st.Span.Line); err != nil {
		return errAt(st.Span, err)
	}
	return nil
}

func (c *Compiler) compileReturn(st *ast.ReturnStmt) error {
	want := c.decl.Return.ID
	if st.Value == nil {
		if !want.IsEmpty() && want != ident.Void {
			return errAt(st.Span, &MismatchError{Want: c.resolver.NameOf(want), Got: "void"})
		}
		c.emit(bytecode.OP_RETURN_VOID, st.Span.Line)
		return nil
	}

	got, err := c.compileExpression(st.Value)
	if err != nil {
		return err
	}
	if want.IsEmpty() || want == ident.Void {
		return errAt(st.Span, &MismatchError{Want: "void", Got: c.resolver.NameOf(got.ID)})
	}
	if err := c.checkConvertible(got.ID, want, st.Value.GetSpan()); err != nil {
		return err
	}
	c.emit(bytecode.OP_RETURN, st.Span.Line)
	return nil
}
