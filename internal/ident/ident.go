// Package ident implements deterministic hash-based identity for types,
// functions, methods, constructors and operators.
//
// Identity values are 64-bit hashes computed from names and signatures,
// never from registration order. The same structural input always produces
// the same identity, which makes forward references representable: an
// identity can be stored before the declaration it names exists.
//
// Collisions between categories are prevented by domain mixing constants:
// a type named "foo" and a function named "foo" never share an identity.
package ident

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ID is a deterministic 64-bit identity for a type, function, method,
// constructor or operator. The zero value means "no identity".
type ID uint64

// Empty is the reserved "no identity" value.
const Empty ID = 0

// Domain mixing constants. Each declaration category XORs a distinct
// constant into the base name hash so categories never collide.
const (
	sepConst         uint64 = 0x4bc94d6bd06053ad
	typeConst        uint64 = 0x2fac10b63a6cc57c
	functionConst    uint64 = 0x5ea77ffbcdf5f302
	methodConst      uint64 = 0x7d3c8b4a92e15f6d
	operatorConst    uint64 = 0x3e9f5d2a8c7b1403
	constructorConst uint64 = 0x9a7f3d5e2b8c4601
	identConst       uint64 = 0x1a095090689d4647
)

// paramMarkers gives each parameter position a distinct mixing constant so
// that argument order matters: f(int, float) != f(float, int).
var paramMarkers = [32]uint64{
	0x9e3779b97f4a7c15,
	0xbf58476d1ce4e5b9,
	0x94d049bb133111eb,
	0xd6e8feb86659fd93,
	0xe7037ed1a0b428db,
	0xc6a4a7935bd1e995,
	0x8648dbbc94d49b8d,
	0xa2b48b2c69e0d657,
	0x7c3e9f2a5b8d1403,
	0x5d8c7b4a3e9f2106,
	0x3f1e9d8c7b5a4203,
	0x1a2b3c4d5e6f7089,
	0x9f8e7d6c5b4a3210,
	0x2468ace013579bdf,
	0xfdb97531eca86420,
	0x123456789abcdef0,
	0xfedcba9876543210,
	0x0f1e2d3c4b5a6978,
	0x89abcdef01234567,
	0x76543210fedcba98,
	0xabcdef0123456789,
	0x3210fedcba987654,
	0xcdef0123456789ab,
	0x6789abcdef012345,
	0x456789abcdef0123,
	0xef0123456789abcd,
	0x23456789abcdef01,
	0xba9876543210fedc,
	0xdcba9876543210fe,
	0x10fedcba98765432,
	0x5432dcba98761fed,
	0x98761fedcba54320,
}

func positionMarker(i int) uint64 {
	if i < len(paramMarkers) {
		return paramMarkers[i]
	}
	return paramMarkers[0] + uint64(i)
}

// foldParams mixes an ordered parameter list into a running hash.
// Multiplication by the separator constant makes the fold non-commutative,
// so parameter order is significant.
func foldParams(hash uint64, params []ID) uint64 {
	for i, p := range params {
		hash = hash*sepConst + (positionMarker(i) ^ uint64(p))
	}
	return hash
}

// FromName computes the identity of a type from its qualified name.
func FromName(name string) ID {
	return ID(typeConst ^ xxhash.Sum64String(name))
}

// FromIdent computes the identity of a plain identifier (global property
// names, template parameter names). A different domain than FromName, so a
// global named like a type does not collide with it.
func FromIdent(name string) ID {
	return ID(identConst ^ xxhash.Sum64String(name))
}

// FromFunction computes the identity of a global function from its name and
// ordered parameter identities.
func FromFunction(name string, params []ID) ID {
	hash := functionConst ^ xxhash.Sum64String(name)
	return ID(foldParams(hash, params))
}

// constModifier encodes method constness into the initial hash: bit 0 for a
// const method, bit 1 for a const return.
func constModifier(isConst, returnIsConst bool) uint64 {
	var m uint64
	if isConst {
		m |= 0x1
	}
	if returnIsConst {
		m |= 0x2
	}
	return m
}

// FromMethod computes the identity of an instance method from its owner
// type, name, ordered parameter identities and const qualifiers.
func FromMethod(owner ID, name string, params []ID, isConst, returnIsConst bool) ID {
	hash := methodConst ^ uint64(owner) ^ xxhash.Sum64String(name) ^ constModifier(isConst, returnIsConst)
	return ID(foldParams(hash, params))
}

// FromConstructor computes the identity of a constructor. Constructors have
// no name of their own; they are identified by owner and parameters.
func FromConstructor(owner ID, params []ID) ID {
	hash := constructorConst ^ uint64(owner)
	return ID(foldParams(hash, params))
}

// FromOperator computes the identity of an operator method. Operators use
// their own domain constant, so "opAdd" the operator and "opAdd" a regular
// method never collide.
func FromOperator(owner ID, name string, params []ID, isConst, returnIsConst bool) ID {
	hash := operatorConst ^ uint64(owner) ^ xxhash.Sum64String(name) ^ constModifier(isConst, returnIsConst)
	return ID(foldParams(hash, params))
}

// FromInstance computes the identity of a generic instantiation from the
// generic declaration's identity and ordered argument identities.
// dict<int, string> and dict<string, int> produce different identities.
func FromInstance(generic ID, args []ID) ID {
	return ID(foldParams(uint64(generic), args))
}

// IsEmpty reports whether this is the reserved empty identity.
func (id ID) IsEmpty() bool { return id == Empty }

func (id ID) String() string {
	return fmt.Sprintf("%#016x", uint64(id))
}
