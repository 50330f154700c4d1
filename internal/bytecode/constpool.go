package bytecode

import (
	"fmt"
	"math"
	"strconv"

	"github.com/quillscript/quill/internal/ident"
)

// ConstKind tags the kind of a pooled constant.
type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstUInt
	ConstFloat
	ConstString
	ConstIdent
)

// Constant is one pooled literal value. Identity constants address call
// targets, cast targets and globals.
type Constant struct {
	Kind  ConstKind
	Int   int64
	UInt  uint64
	Float float64
	Str   string
	ID    ident.ID
}

func (c Constant) String() string {
	switch c.Kind {
	case ConstInt:
		return strconv.FormatInt(c.Int, 10)
	case ConstUInt:
		return strconv.FormatUint(c.UInt, 10) + "u"
	case ConstFloat:
		return strconv.FormatFloat(c.Float, 'g', -1, 64)
	case ConstString:
		return strconv.Quote(c.Str)
	case ConstIdent:
		return c.ID.String()
	}
	return fmt.Sprintf("const(kind=%d)", c.Kind)
}

// constKey is the hashable dedup key for a constant. Floats are keyed by
// bit pattern so that, e.g., 0.0 and -0.0 stay distinct.
type constKey struct {
	kind ConstKind
	bits uint64
	str  string
}

// ConstantPool is the deduplicated, insertion-ordered literal store shared
// by every chunk of one compilation unit.
type ConstantPool struct {
	constants []Constant
	index     map[constKey]int
}

// NewConstantPool creates an empty pool.
func NewConstantPool() *ConstantPool {
	return &ConstantPool{
		constants: make([]Constant, 0, 64),
		index:     make(map[constKey]int),
	}
}

func (p *ConstantPool) add(key constKey, c Constant) int {
	if idx, ok := p.index[key]; ok {
		return idx
	}
	idx := len(p.constants)
	p.constants = append(p.constants, c)
	p.index[key] = idx
	return idx
}

// AddInt adds a signed integer constant, returning its pool index.
func (p *ConstantPool) AddInt(v int64) int {
	return p.add(constKey{kind: ConstInt, bits: uint64(v)}, Constant{Kind: ConstInt, Int: v})
}

// AddUInt adds an unsigned integer constant.
func (p *ConstantPool) AddUInt(v uint64) int {
	return p.add(constKey{kind: ConstUInt, bits: v}, Constant{Kind: ConstUInt, UInt: v})
}

// AddFloat adds a floating point constant.
func (p *ConstantPool) AddFloat(v float64) int {
	return p.add(constKey{kind: ConstFloat, bits: math.Float64bits(v)}, Constant{Kind: ConstFloat, Float: v})
}

// AddString adds a string constant.
func (p *ConstantPool) AddString(s string) int {
	return p.add(constKey{kind: ConstString, str: s}, Constant{Kind: ConstString, Str: s})
}

// AddIdent adds an identity constant (a call/cast/construct target).
func (p *ConstantPool) AddIdent(id ident.ID) int {
	return p.add(constKey{kind: ConstIdent, bits: uint64(id)}, Constant{Kind: ConstIdent, ID: id})
}

// PoolFromConstants rebuilds a pool from a serialized constant list,
// preserving the original indices.
func PoolFromConstants(constants []Constant) *ConstantPool {
	p := NewConstantPool()
	for _, c := range constants {
		switch c.Kind {
		case ConstInt:
			p.AddInt(c.Int)
		case ConstUInt:
			p.AddUInt(c.UInt)
		case ConstFloat:
			p.AddFloat(c.Float)
		case ConstString:
			p.AddString(c.Str)
		case ConstIdent:
			p.AddIdent(c.ID)
		}
	}
	return p
}

// Get returns the constant at index.
func (p *ConstantPool) Get(index int) (Constant, bool) {
	if index < 0 || index >= len(p.constants) {
		return Constant{}, false
	}
	return p.constants[index], true
}

// Constants returns the pool contents in insertion order.
func (p *ConstantPool) Constants() []Constant {
	return p.constants
}

// Len returns the number of pooled constants.
func (p *ConstantPool) Len() int {
	return len(p.constants)
}
