// Package types defines the static type representation shared by the parser,
// the type inference pass and the code generator. A Type is a small tagged
// union over the primitive numeric kinds, Bool, String, Unit, user-defined
// Custom types (records and enums) and first-class Function signatures.
//
// Every Expression in the ast package carries an AssociatedType slot holding
// one of these values, set to Pending by the parser and overwritten with a
// concrete Type by the inference pass. A Pending type must never survive
// past inference.
package types

import "fmt"

// Kind identifies which case of the Type tagged union is populated.
type Kind uint8

const (
	Pending Kind = iota // not yet inferred; illegal after the inference pass

	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	F32
	F64
	Bool
	String
	Unit

	Custom
	Function
)

var kindNames = [...]string{
	Pending:  "pending",
	I8:       "I8",
	I16:      "I16",
	I32:      "I32",
	I64:      "I64",
	U8:       "U8",
	U16:      "U16",
	U32:      "U32",
	U64:      "U64",
	F32:      "F32",
	F64:      "F64",
	Bool:     "Bool",
	String:   "String",
	Unit:     "Unit",
	Custom:   "Custom",
	Function: "Function",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Type is a value type of the tagged union described in spec §3. The zero
// Type has Kind Pending.
type Type struct {
	kind Kind

	// populated only when kind == Custom
	customName string
	customArgs []string // generic parameter names, in source order

	// populated only when kind == Function
	sig *Signature
}

// Kind returns the tagged union's discriminant.
func (t Type) Kind() Kind { return t.kind }

// IsPending reports whether t is the "unknown" sentinel that must not survive
// past the inference pass.
func (t Type) IsPending() bool { return t.kind == Pending }

// IsInteger reports whether t is one of the signed or unsigned integer kinds.
func (t Type) IsInteger() bool { return t.kind >= I8 && t.kind <= U64 }

// IsSigned reports whether t is one of the signed integer kinds.
func (t Type) IsSigned() bool { return t.kind >= I8 && t.kind <= I64 }

// IsFloat reports whether t is F32 or F64.
func (t Type) IsFloat() bool { return t.kind == F32 || t.kind == F64 }

// IsNumeric reports whether t is an integer or floating-point kind.
func (t Type) IsNumeric() bool { return t.IsInteger() || t.IsFloat() }

// CustomName returns the name of a Custom type. Panics if Kind() != Custom.
func (t Type) CustomName() string {
	if t.kind != Custom {
		panic("types: CustomName of non-Custom type")
	}
	return t.customName
}

// CustomArgs returns the generic parameter names of a Custom type, in source
// order. Panics if Kind() != Custom.
func (t Type) CustomArgs() []string {
	if t.kind != Custom {
		panic("types: CustomArgs of non-Custom type")
	}
	return t.customArgs
}

// Signature returns the function signature of a Function type. Panics if
// Kind() != Function.
func (t Type) Signature() *Signature {
	if t.kind != Function {
		panic("types: Signature of non-Function type")
	}
	return t.sig
}

// NewCustom builds a Custom type referring to the user-defined type named
// name, with the given generic parameter names (possibly empty).
func NewCustom(name string, generics []string) Type {
	return Type{kind: Custom, customName: name, customArgs: generics}
}

// NewFunction builds a Function type wrapping the given signature.
func NewFunction(sig *Signature) Type {
	return Type{kind: Function, sig: sig}
}

var (
	TI8     = Type{kind: I8}
	TI16    = Type{kind: I16}
	TI32    = Type{kind: I32}
	TI64    = Type{kind: I64}
	TU8     = Type{kind: U8}
	TU16    = Type{kind: U16}
	TU32    = Type{kind: U32}
	TU64    = Type{kind: U64}
	TF32    = Type{kind: F32}
	TF64    = Type{kind: F64}
	TBool   = Type{kind: Bool}
	TString = Type{kind: String}
	TUnit   = Type{kind: Unit}
)

// primitiveSizes maps each fixed-width primitive Kind to its byte size. Custom,
// Function and String are pointer/word-sized and are not listed here; see
// Type.Size.
var primitiveSizes = map[Kind]int{
	I8: 1, U8: 1, Bool: 1,
	I16: 2, U16: 2,
	I32: 4, U32: 4, F32: 4,
	I64: 8, U64: 8, F64: 8,
	Unit: 0,
}

// Size returns the byte size of t when materialized in memory. ptrSize is the
// target's pointer width in bytes (queried from the backend facade), used for
// String, Custom and Function, which are word-sized per spec §3.
func (t Type) Size(ptrSize int) int {
	if sz, ok := primitiveSizes[t.kind]; ok {
		return sz
	}
	switch t.kind {
	case String, Custom, Function:
		return ptrSize
	default:
		panic(fmt.Sprintf("types: Size of %s type", t.kind))
	}
}

// Equal reports whether t and other denote the same type. Custom types are
// equal iff they name the same type (generic arguments are not instantiated,
// per spec §1 non-goals, so name identity is sufficient). Function types are
// equal iff their signatures are equal.
func (t Type) Equal(other Type) bool {
	if t.kind != other.kind {
		return false
	}
	switch t.kind {
	case Custom:
		return t.customName == other.customName
	case Function:
		return t.sig.Equal(other.sig)
	default:
		return true
	}
}

func (t Type) String() string {
	switch t.kind {
	case Custom:
		return t.customName
	case Function:
		return t.sig.String()
	default:
		return t.kind.String()
	}
}
