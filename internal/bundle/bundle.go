// Package bundle defines the serialized artifact of a compiled unit: the
// function chunks keyed by identity, the unit's constant pool, and build
// metadata. Bundles are what the cache stores and what the disassembler
// reads back.
package bundle

import (
	"encoding/gob"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quillscript/quill/internal/bytecode"
	"github.com/quillscript/quill/internal/catalog"
	"github.com/quillscript/quill/internal/compiler"
	"github.com/quillscript/quill/internal/ident"
)

// Capture is one entry of a closure's capture transfer list.
type Capture struct {
	Name    string
	IsLocal bool
	Slot    int
}

// Function is one compiled body.
type Function struct {
	ID        ident.ID
	Name      string
	Code      []byte
	Lines     []int
	FrameSize int
	IsClosure bool
	Captures  []Capture
}

// Chunk reconstitutes the function's bytecode chunk.
func (f *Function) Chunk() *bytecode.Chunk {
	return &bytecode.Chunk{Code: f.Code, Lines: f.Lines}
}

// ExportedType is a declaration-index record for a script type the unit
// declares. Hosts use the index to address a bundle's symbols without
// recompiling the source.
type ExportedType struct {
	ID   ident.ID
	Name string
}

// ExportedFunc is a declaration-index record for a script callable the
// unit declares. Owner is zero for free functions.
type ExportedFunc struct {
	ID     ident.ID
	Name   string
	Owner  ident.ID
	Params []ident.ID
	Return ident.ID
}

// Bundle is the complete artifact of one compiled unit.
type Bundle struct {
	BuildID   string
	Source    string
	CreatedAt time.Time
	Constants []bytecode.Constant
	Functions []Function
	Types     []ExportedType
	Exports   []ExportedFunc
}

// FromUnit packages a successful compilation result. The build ID is a
// fresh UUID; cache keys come from source fingerprints, not from it.
func FromUnit(res *compiler.UnitResult, source string) (*Bundle, error) {
	if !res.Ok() {
		return nil, fmt.Errorf("bundling %s: unit has %d errors", source, len(res.Errors))
	}
	b := &Bundle{
		BuildID:   uuid.NewString(),
		Source:    source,
		CreatedAt: time.Now().UTC(),
		Constants: res.Pool.Constants(),
	}
	for _, fn := range res.Functions {
		bf := Function{
			ID:        fn.ID,
			Name:      fn.Name,
			Code:      fn.Chunk.Code,
			Lines:     fn.Chunk.Lines,
			FrameSize: fn.FrameSize,
			IsClosure: fn.IsClosure,
		}
		for _, cv := range fn.Captures {
			bf.Captures = append(bf.Captures, Capture{Name: cv.Name, IsLocal: cv.IsLocal, Slot: cv.Slot})
		}
		b.Functions = append(b.Functions, bf)
	}
	if res.Resolver != nil {
		indexDeclarations(b, res.Resolver.Script())
	}
	return b, nil
}

// indexDeclarations records the unit's script declarations so hosts can
// address the bundle's symbols by name and identity. Synthesized lambda
// declarations carry a "$" name prefix and stay out of the index.
func indexDeclarations(b *Bundle, script *catalog.ScriptCatalog) {
	for _, d := range script.Types() {
		b.Types = append(b.Types, ExportedType{ID: d.ID, Name: d.Name})
	}
	for _, f := range script.Functions() {
		if strings.HasPrefix(f.Name, "$") {
			continue
		}
		ef := ExportedFunc{
			ID:     f.ID,
			Name:   f.Name,
			Owner:  f.Owner,
			Return: f.Return.ID,
		}
		for _, p := range f.Params {
			ef.Params = append(ef.Params, p.Type.ID)
		}
		b.Exports = append(b.Exports, ef)
	}
}

// Function returns the compiled body for an identity.
func (b *Bundle) Function(id ident.ID) (*Function, bool) {
	for i := range b.Functions {
		if b.Functions[i].ID == id {
			return &b.Functions[i], true
		}
	}
	return nil, false
}

// Pool reconstitutes the bundle's constant pool.
func (b *Bundle) Pool() *bytecode.ConstantPool {
	return bytecode.PoolFromConstants(b.Constants)
}

// Encode writes the bundle in gob form.
func (b *Bundle) Encode(w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(b); err != nil {
		return fmt.Errorf("encoding bundle %s: %w", b.Source, err)
	}
	return nil
}

// Decode reads a gob-encoded bundle.
func Decode(r io.Reader) (*Bundle, error) {
	var b Bundle
	if err := gob.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("decoding bundle: %w", err)
	}
	return &b, nil
}
