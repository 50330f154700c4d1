// Package bytecode defines the instruction set, per-function chunks and the
// unit-shared constant pool produced by the compiler.
package bytecode

// Opcode represents a single instruction. The machine is stack-based; most
// operations pop operands from the stack and push results back.
type Opcode byte

const (
	// Constants
	OP_CONST   Opcode = iota // Push constant from pool (u8 index)
	OP_CONST_W               // Push constant from pool (u16 index)
	OP_NULL                  // Push null handle
	OP_TRUE                  // Push true
	OP_FALSE                 // Push false
	OP_ZERO                  // Push integer 0 (fast path, no pool entry)
	OP_ONE                   // Push integer 1 (fast path, no pool entry)

	// Stack manipulation
	OP_POP   // Discard top of stack
	OP_POP_N // Discard N values (u8 count)
	OP_DUP   // Duplicate top of stack

	// Arithmetic
	OP_ADD
	OP_SUB
	OP_MUL
	OP_DIV
	OP_MOD
	OP_NEG // Unary minus

	// Comparison
	OP_EQ
	OP_NE
	OP_LT
	OP_LE
	OP_GT
	OP_GE

	// Logic
	OP_NOT

	// Variables
	OP_GET_LOCAL   // Load local (u8 slot)
	OP_SET_LOCAL   // Store local (u8 slot)
	OP_GET_CAPTURE // Load captured variable (u8 capture index)
	OP_SET_CAPTURE // Store captured variable (u8 capture index)
	OP_GET_GLOBAL  // Load global by identity (u16 pool index)
	OP_SET_GLOBAL  // Store global by identity (u16 pool index)

	// Control flow
	OP_JUMP          // Unconditional forward jump (u16 offset)
	OP_JUMP_IF_FALSE // Forward jump when top of stack is false (u16 offset)
	OP_LOOP          // Backward jump (u16 offset)

	// Calls — all addressed by identity through the constant pool, never by
	// name. Resolution has already happened by the time code is emitted.
	OP_CALL        // Call function (u16 pool index of identity, u8 argc)
	OP_CALL_METHOD // Call method on receiver (u16 pool index, u8 argc)
	OP_CONSTRUCT   // Construct object (u16 pool index, u8 argc)
	OP_CALL_VALUE  // Call callable value on stack (u8 argc)
	OP_CAST        // Convert top of stack to type (u16 pool index)
	OP_INSTANCE_OF // Type check, push bool (u16 pool index)

	// Closures
	OP_CLOSURE // Build closure (u16 pool index of function identity,
	//             u8 capture count, then per capture: u8 isLocal, u8 index)

	OP_RETURN      // Return value from function
	OP_RETURN_VOID // Return without a value

	OP_HALT // Stop execution
)

// opcodeNames maps opcodes to their mnemonic (for the disassembler).
var opcodeNames = map[Opcode]string{
	OP_CONST:   "CONST",
	OP_CONST_W: "CONST_W",
	OP_NULL:    "NULL",
	OP_TRUE:    "TRUE",
	OP_FALSE:   "FALSE",
	OP_ZERO:    "ZERO",
	OP_ONE:     "ONE",

	OP_POP:   "POP",
	OP_POP_N: "POP_N",
	OP_DUP:   "DUP",

	OP_ADD: "ADD",
	OP_SUB: "SUB",
	OP_MUL: "MUL",
	OP_DIV: "DIV",
	OP_MOD: "MOD",
	OP_NEG: "NEG",

	OP_EQ: "EQ",
	OP_NE: "NE",
	OP_LT: "LT",
	OP_LE: "LE",
	OP_GT: "GT",
	OP_GE: "GE",

	OP_NOT: "NOT",

	OP_GET_LOCAL:   "GET_LOCAL",
	OP_SET_LOCAL:   "SET_LOCAL",
	OP_GET_CAPTURE: "GET_CAPTURE",
	OP_SET_CAPTURE: "SET_CAPTURE",
	OP_GET_GLOBAL:  "GET_GLOBAL",
	OP_SET_GLOBAL:  "SET_GLOBAL",

	OP_JUMP:          "JUMP",
	OP_JUMP_IF_FALSE: "JUMP_IF_FALSE",
	OP_LOOP:          "LOOP",

	OP_CALL:        "CALL",
	OP_CALL_METHOD: "CALL_METHOD",
	OP_CONSTRUCT:   "CONSTRUCT",
	OP_CALL_VALUE:  "CALL_VALUE",
	OP_CAST:        "CAST",
	OP_INSTANCE_OF: "INSTANCE_OF",

	OP_CLOSURE: "CLOSURE",

	OP_RETURN:      "RETURN",
	OP_RETURN_VOID: "RETURN_VOID",

	OP_HALT: "HALT",
}

// Name returns the opcode's mnemonic.
func (op Opcode) Name() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}
