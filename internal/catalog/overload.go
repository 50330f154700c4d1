package catalog

import (
	"github.com/quillscript/quill/internal/ident"
	"github.com/quillscript/quill/internal/types"
)

// Conversion costs for overload ranking. Exact identity matches cost
// nothing; an allowed implicit conversion costs one. Lower total wins.
const (
	costExact    = 0
	costImplicit = 1
)

// widenings lists the implicit numeric conversions overload resolution may
// assume, keyed by source then target identity.
var widenings = map[ident.ID]map[ident.ID]bool{}

func init() {
	allow := func(from ident.ID, to ...ident.ID) {
		m := make(map[ident.ID]bool, len(to))
		for _, t := range to {
			m[t] = true
		}
		widenings[from] = m
	}
	allow(ident.Int8, ident.Int16, ident.Int, ident.Int64)
	allow(ident.Int16, ident.Int, ident.Int64)
	allow(ident.Int, ident.Int64, ident.Float, ident.Double)
	allow(ident.UInt8, ident.UInt16, ident.UInt, ident.UInt64)
	allow(ident.UInt16, ident.UInt, ident.UInt64)
	allow(ident.UInt, ident.UInt64)
	allow(ident.Float, ident.Double)
}

// conversionCost returns the cost of passing an argument of type from to a
// parameter of type to, or ok=false when no implicit conversion exists.
func conversionCost(from, to ident.ID) (int, bool) {
	if from == to {
		return costExact, true
	}
	if to == ident.Any {
		return costImplicit, true
	}
	if from == ident.Null {
		// null converts to any handle type; cost as implicit.
		return costImplicit, true
	}
	if targets, ok := widenings[from]; ok && targets[to] {
		return costImplicit, true
	}
	return 0, false
}

// Convertible reports whether a value of type from may implicitly convert
// to type to (including the identity conversion).
func Convertible(from, to ident.ID) bool {
	_, ok := conversionCost(from, to)
	return ok
}

// overloadMatch is one viable candidate with its ranking.
type overloadMatch struct {
	fn    *types.FuncDecl
	cost  int
	exact int
}

// ResolveOverload selects the best callable from an overload group for the
// given argument type identities.
//
// Candidates are filtered by arity, then by per-argument convertibility,
// then ranked by total conversion cost with exact-match count as the tie
// breaker. A remaining tie is an AmbiguousError; a group with no viable
// candidate is a NoMatchError; an empty group is an UnknownError.
func (r *Resolver) ResolveOverload(name string, group []ident.ID, args []ident.ID) (*types.FuncDecl, error) {
	if len(group) == 0 {
		return nil, &UnknownError{Name: name}
	}

	var viable []overloadMatch
	for _, id := range group {
		fn, ok := r.GetFunction(id)
		if !ok || fn.Arity() != len(args) {
			continue
		}
		total, exact, feasible := 0, 0, true
		for i, arg := range args {
			cost, ok := conversionCost(arg, fn.Params[i].Type.ID)
			if !ok {
				feasible = false
				break
			}
			total += cost
			if cost == costExact {
				exact++
			}
		}
		if feasible {
			viable = append(viable, overloadMatch{fn: fn, cost: total, exact: exact})
		}
	}

	switch len(viable) {
	case 0:
		return nil, &NoMatchError{Name: name, Candidates: r.signatures(group)}
	case 1:
		return viable[0].fn, nil
	}

	best := viable[0]
	ambiguous := false
	for _, m := range viable[1:] {
		switch {
		case m.cost < best.cost:
			best, ambiguous = m, false
		case m.cost == best.cost && m.exact > best.exact:
			best, ambiguous = m, false
		case m.cost == best.cost && m.exact == best.exact:
			ambiguous = true
		}
	}
	if ambiguous {
		return nil, &AmbiguousError{Name: name, Candidates: r.signatures(group)}
	}
	return best.fn, nil
}

// ResolveCall resolves a call site: fetches the merged overload group for
// the name and selects against the argument types.
func (r *Resolver) ResolveCall(name string, args []ident.ID) (*types.FuncDecl, error) {
	return r.ResolveOverload(name, r.FunctionsNamed(name), args)
}

// ResolveMethodCall resolves a method call on a receiver type.
func (r *Resolver) ResolveMethodCall(owner ident.ID, name string, args []ident.ID) (*types.FuncDecl, error) {
	decl, ok := r.GetType(owner)
	if !ok {
		return nil, &UnknownError{Name: r.NameOf(owner)}
	}
	return r.ResolveOverload(decl.Name+"::"+name, decl.FindMethods(name), args)
}

// ResolveConstructor resolves a construction of the given type.
func (r *Resolver) ResolveConstructor(owner ident.ID, args []ident.ID) (*types.FuncDecl, error) {
	decl, ok := r.GetType(owner)
	if !ok {
		return nil, &UnknownError{Name: r.NameOf(owner)}
	}
	return r.ResolveOverload(decl.Name, decl.ConstructorIDs(), args)
}

// ResolveOperator resolves an operator method on the left operand's type.
func (r *Resolver) ResolveOperator(owner ident.ID, opName string, args []ident.ID) (*types.FuncDecl, error) {
	decl, ok := r.GetType(owner)
	if !ok {
		return nil, &UnknownError{Name: r.NameOf(owner)}
	}
	return r.ResolveOverload(decl.Name+"::"+opName, decl.FindOperators(opName), args)
}

func (r *Resolver) signatures(group []ident.ID) []string {
	var out []string
	for _, id := range group {
		if fn, ok := r.GetFunction(id); ok {
			out = append(out, fn.Signature(r.NameOf))
		}
	}
	return out
}
