// Package engine is the embedding surface: a host builds a native catalog
// of its types and functions, constructs an Engine around it, and compiles
// script units against that registration set.
package engine

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/quillscript/quill/internal/ast"
	"github.com/quillscript/quill/internal/bundle"
	"github.com/quillscript/quill/internal/cache"
	"github.com/quillscript/quill/internal/catalog"
	"github.com/quillscript/quill/internal/compiler"
	"github.com/quillscript/quill/internal/config"
	"github.com/quillscript/quill/internal/ident"
	"github.com/quillscript/quill/internal/template"
	"github.com/quillscript/quill/internal/types"
)

// Engine owns a frozen native catalog and compiles script units against
// it. Each compiled unit gets its own resolver and script catalog; the
// native side is shared, so one Engine serves concurrent compilations of
// independent units.
type Engine struct {
	native  *catalog.NativeCatalog
	globals *catalog.GlobalStore
	cfg     *config.Config

	validators map[ident.ID]template.ValidateFunc
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig supplies a loaded configuration; without it the defaults
// apply.
func WithConfig(cfg *config.Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// New creates an Engine over a finalized native catalog.
func New(native *catalog.NativeCatalog, opts ...Option) *Engine {
	e := &Engine{
		native:     native,
		globals:    catalog.NewGlobalStore(),
		cfg:        config.Default(),
		validators: make(map[ident.ID]template.ValidateFunc),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Globals is the mutable store of host-exposed global values.
func (e *Engine) Globals() *catalog.GlobalStore { return e.globals }

// Fingerprint identifies the engine's registration set for cache keying.
func (e *Engine) Fingerprint() uint64 { return e.native.Fingerprint() }

// RegisterValidator installs an instantiation validator for a generic
// native type, applied in every subsequent compilation.
func (e *Engine) RegisterValidator(generic ident.ID, fn template.ValidateFunc) {
	e.validators[generic] = fn
}

// SetGlobal stores a host global value under its declared identity.
func (e *Engine) SetGlobal(name string, value any) {
	e.globals.Set(ident.FromIdent(name), value)
}

// newResolver wires a fresh per-unit resolution context: resolver,
// instantiator and validators.
func (e *Engine) newResolver() *catalog.Resolver {
	r := catalog.NewResolver(e.native)
	in := template.NewInstantiator(r)
	for generic, fn := range e.validators {
		in.RegisterValidator(generic, fn)
	}
	r.Instantiate = in.Instantiate
	return r
}

// CompileUnit compiles one unit against the engine's registrations. The
// result carries the compiled chunks, the unit's constant pool and every
// collected diagnostic, truncated at the configured error limit.
func (e *Engine) CompileUnit(unit *ast.Unit) *compiler.UnitResult {
	res := compiler.CompileUnit(e.newResolver(), unit)
	if max := e.cfg.Limits.MaxErrors; len(res.Errors) > max {
		res.Errors = res.Errors[:max]
	}
	return res
}

// Bundle compiles a unit and packages the result. The source text is
// hashed for cache keying by CompileCached; here it only labels the
// artifact.
func (e *Engine) Bundle(unit *ast.Unit) (*bundle.Bundle, error) {
	res := e.CompileUnit(unit)
	if !res.Ok() {
		return nil, &CompileError{File: unit.File, Errors: res.Errors}
	}
	return bundle.FromUnit(res, unit.File)
}

// CompileCached compiles a unit through the bundle cache: a hit on
// (source fingerprint, engine fingerprint) skips compilation entirely.
func (e *Engine) CompileCached(c *cache.Cache, unit *ast.Unit, source []byte) (*bundle.Bundle, error) {
	sourceFP := cache.Fingerprint(source)
	engineFP := e.Fingerprint()

	if b, err := c.Get(sourceFP, engineFP); err == nil {
		return b, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		return nil, err
	}

	b, err := e.Bundle(unit)
	if err != nil {
		return nil, err
	}
	if err := c.Put(sourceFP, engineFP, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ResolveTypeName computes the identity of a textual type name against the
// native catalog, instantiating generics as needed.
func (e *Engine) ResolveTypeName(text string) (types.DataType, error) {
	return e.newResolver().ResolveTypeName(text)
}

// CompileError aggregates a unit's diagnostics into one error value.
type CompileError struct {
	File   string
	Errors []error
}

func (e *CompileError) Error() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s: %d compile errors", e.File, len(e.Errors))
	for i, err := range e.Errors {
		if i == 5 {
			fmt.Fprintf(&buf, "\n\t... and %d more", len(e.Errors)-i)
			break
		}
		fmt.Fprintf(&buf, "\n\t%s", err)
	}
	return buf.String()
}

// Unwrap exposes the individual diagnostics to errors.Is/As.
func (e *CompileError) Unwrap() []error { return e.Errors }
