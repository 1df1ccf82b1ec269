package backend

// Value identifies one SSA-style result produced by an instruction or a
// block parameter, scoped to the Function that produced it.
type Value int

const noValue Value = -1

// Var is a declare_var/def_var/use_var handle, per spec §6's capability
// surface. Unlike a real Cranelift-style frontend, this facade does not
// reconstruct SSA with dominance-based phi insertion: a Var simply holds
// whatever Value was most recently def_var'd, which is sufficient only where
// a Var is read back within the straight-line code that defined it;
// lang/codegen's match join therefore goes through a stack slot instead.
type Var int

// IntWidth identifies the bit width of an integer instruction's operands and
// result, used by Iconst/Iadd/etc. to size their encoded immediate/operand.
type IntWidth uint8

const (
	W8 IntWidth = 8
	W16 IntWidth = 16
	W32 IntWidth = 32
	W64 IntWidth = 64
)

// FloatWidth identifies the bit width of a float instruction.
type FloatWidth uint8

const (
	FW32 FloatWidth = 32
	FW64 FloatWidth = 64
)
