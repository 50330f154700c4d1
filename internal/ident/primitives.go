package ident

// Precomputed identities for primitive types and sentinels, so hot-path
// comparisons don't re-hash the names.
var (
	Void   = FromName("void")
	Bool   = FromName("bool")
	Int8   = FromName("int8")
	Int16  = FromName("int16")
	Int    = FromName("int")
	Int64  = FromName("int64")
	UInt8  = FromName("uint8")
	UInt16 = FromName("uint16")
	UInt   = FromName("uint")
	UInt64 = FromName("uint64")
	Float  = FromName("float")
	Double = FromName("double")
	String = FromName("string")
	Any    = FromName("any")
	Null   = FromName("null")
)

// IsPrimitive reports whether id names one of the built-in primitive types.
func IsPrimitive(id ID) bool {
	switch id {
	case Void, Bool, Int8, Int16, Int, Int64, UInt8, UInt16, UInt, UInt64, Float, Double:
		return true
	}
	return false
}
