package bytecode

import "fmt"

// Chunk holds the compiled bytecode for a single function, with a parallel
// line table for diagnostics. Constants live in the unit's shared
// ConstantPool, not in the chunk.
type Chunk struct {
	// Code is the bytecode instruction stream.
	Code []byte

	// Lines maps each byte in Code to its source line.
	Lines []int
}

// NewChunk creates a new empty chunk.
func NewChunk() *Chunk {
	return &Chunk{
		Code:  make([]byte, 0, 256),
		Lines: make([]int, 0, 256),
	}
}

// Write adds a byte to the chunk with line info.
func (c *Chunk) Write(b byte, line int) {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
}

// WriteOp writes an opcode to the chunk.
func (c *Chunk) WriteOp(op Opcode, line int) {
	c.Write(byte(op), line)
}

// WriteU16 writes a 16-bit operand (big-endian).
func (c *Chunk) WriteU16(v uint16, line int) {
	c.Write(byte(v>>8), line)
	c.Write(byte(v), line)
}

// ReadU16 reads a 16-bit operand at offset.
func (c *Chunk) ReadU16(offset int) uint16 {
	return uint16(c.Code[offset])<<8 | uint16(c.Code[offset+1])
}

// Len returns the number of bytes in the chunk.
func (c *Chunk) Len() int {
	return len(c.Code)
}

// WriteConst emits the narrowest constant-load instruction for the given
// pool index: OP_CONST with an 8-bit index while the pool is small,
// OP_CONST_W with a 16-bit index beyond that.
func (c *Chunk) WriteConst(index int, line int) error {
	switch {
	case index < 256:
		c.WriteOp(OP_CONST, line)
		c.Write(byte(index), line)
	case index < 65536:
		c.WriteOp(OP_CONST_W, line)
		c.WriteU16(uint16(index), line)
	default:
		return fmt.Errorf("constant pool overflow: index %d", index)
	}
	return nil
}

// EmitJump emits a forward jump with a placeholder offset and returns the
// label to patch once the target position is known.
func (c *Chunk) EmitJump(op Opcode, line int) int {
	c.WriteOp(op, line)
	c.Write(0xff, line)
	c.Write(0xff, line)
	return c.Len() - 2
}

// PatchJump points the jump at the given label to the current position.
func (c *Chunk) PatchJump(label int) error {
	jump := c.Len() - label - 2
	if jump > 0xffff {
		return fmt.Errorf("jump of %d bytes exceeds 16-bit offset", jump)
	}
	c.Code[label] = byte(jump >> 8)
	c.Code[label+1] = byte(jump)
	return nil
}

// EmitLoop emits a backward jump to loopStart. The target is already known,
// so no patching is needed.
func (c *Chunk) EmitLoop(loopStart int, line int) error {
	c.WriteOp(OP_LOOP, line)
	offset := c.Len() - loopStart + 2
	if offset > 0xffff {
		return fmt.Errorf("loop body of %d bytes exceeds 16-bit offset", offset)
	}
	c.WriteU16(uint16(offset), line)
	return nil
}

// LineAt returns the source line for the byte at offset, or 0 when out of
// range.
func (c *Chunk) LineAt(offset int) int {
	if offset < 0 || offset >= len(c.Lines) {
		return 0
	}
	return c.Lines[offset]
}
