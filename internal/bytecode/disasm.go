package bytecode

import (
	"fmt"
	"io"
)

// Disassemble writes a human-readable listing of a chunk.
func Disassemble(w io.Writer, name string, c *Chunk, pool *ConstantPool) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for offset := 0; offset < c.Len(); {
		offset = DisassembleInstruction(w, c, pool, offset)
	}
}

// DisassembleInstruction writes one instruction and returns the offset of
// the next one.
func DisassembleInstruction(w io.Writer, c *Chunk, pool *ConstantPool, offset int) int {
	fmt.Fprintf(w, "%04d ", offset)
	if offset > 0 && c.LineAt(offset) == c.LineAt(offset-1) {
		fmt.Fprintf(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", c.LineAt(offset))
	}

	op := Opcode(c.Code[offset])
	switch op {
	case OP_CONST:
		return constInstruction(w, c, pool, offset)
	case OP_CONST_W, OP_GET_GLOBAL, OP_SET_GLOBAL, OP_CAST, OP_INSTANCE_OF:
		return constWideInstruction(w, op, c, pool, offset)
	case OP_POP_N, OP_GET_LOCAL, OP_SET_LOCAL, OP_GET_CAPTURE, OP_SET_CAPTURE, OP_CALL_VALUE:
		return byteInstruction(w, op, c, offset)
	case OP_JUMP, OP_JUMP_IF_FALSE:
		return jumpInstruction(w, op, 1, c, offset)
	case OP_LOOP:
		return jumpInstruction(w, op, -1, c, offset)
	case OP_CALL, OP_CALL_METHOD, OP_CONSTRUCT:
		return callInstruction(w, op, c, pool, offset)
	case OP_CLOSURE:
		return closureInstruction(w, c, pool, offset)
	default:
		fmt.Fprintf(w, "%s\n", op.Name())
		return offset + 1
	}
}

func constInstruction(w io.Writer, c *Chunk, pool *ConstantPool, offset int) int {
	idx := int(c.Code[offset+1])
	fmt.Fprintf(w, "%-16s %4d %s\n", "CONST", idx, poolValue(pool, idx))
	return offset + 2
}

func constWideInstruction(w io.Writer, op Opcode, c *Chunk, pool *ConstantPool, offset int) int {
	idx := int(c.ReadU16(offset + 1))
	fmt.Fprintf(w, "%-16s %4d %s\n", op.Name(), idx, poolValue(pool, idx))
	return offset + 3
}

func byteInstruction(w io.Writer, op Opcode, c *Chunk, offset int) int {
	fmt.Fprintf(w, "%-16s %4d\n", op.Name(), c.Code[offset+1])
	return offset + 2
}

func jumpInstruction(w io.Writer, op Opcode, sign int, c *Chunk, offset int) int {
	jump := int(c.ReadU16(offset + 1))
	fmt.Fprintf(w, "%-16s %4d -> %d\n", op.Name(), offset, offset+3+sign*jump)
	return offset + 3
}

func callInstruction(w io.Writer, op Opcode, c *Chunk, pool *ConstantPool, offset int) int {
	idx := int(c.ReadU16(offset + 1))
	argc := c.Code[offset+3]
	fmt.Fprintf(w, "%-16s %4d %s (%d args)\n", op.Name(), idx, poolValue(pool, idx), argc)
	return offset + 4
}

func closureInstruction(w io.Writer, c *Chunk, pool *ConstantPool, offset int) int {
	idx := int(c.ReadU16(offset + 1))
	count := int(c.Code[offset+3])
	fmt.Fprintf(w, "%-16s %4d %s (%d captures)\n", "CLOSURE", idx, poolValue(pool, idx), count)
	offset += 4
	for i := 0; i < count; i++ {
		isLocal := c.Code[offset] == 1
		index := c.Code[offset+1]
		kind := "capture"
		if isLocal {
			kind = "local"
		}
		fmt.Fprintf(w, "%04d    |                      %s %d\n", offset, kind, index)
		offset += 2
	}
	return offset
}

func poolValue(pool *ConstantPool, idx int) string {
	if pool == nil {
		return "?"
	}
	c, ok := pool.Get(idx)
	if !ok {
		return "<bad index>"
	}
	return c.String()
}
