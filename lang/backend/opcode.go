// Package backend is the stand-in "external code-generation service" of
// spec §6: an object module, function builder and SSA-style instruction set
// exposing exactly the capability surface spec §6 lists (block creation and
// sealing, parameter appending, use_var/declare_var/def_var, the named SSA
// instructions, stack-slot allocation, IR verification, and serialization to
// object bytes). No Cranelift/LLVM binding exists in the retrieved corpus,
// so this package plays that external role in-module; lang/codegen is its
// only caller, exactly as the driver would call a real backend crate.
//
// Opcode and its stack/argument bookkeeping are grounded on the teacher's
// lang/compiler Opcode table (an enum plus a String method plus an
// arg-presence cutoff), adapted from a stack-bytecode instruction set to a
// register/SSA-style one.
package backend

import "fmt"

// Opcode identifies one SSA-style instruction, per spec §6's capability
// surface.
type Opcode uint8

const ( //nolint:revive
	Iadd Opcode = iota
	Isub
	Imul
	Band
	Bor
	Bxor

	// Icmp carries a Predicate immediate selecting which comparison it
	// performs; Eq/NotEq are the only ones spec.md §4.3 implements, Lt/Gt/
	// Le/Ge are the supplemented ordered comparisons.
	Icmp

	Iconst
	F32const
	F64const

	Call
	Return

	StackAddr
	StackStore
	Load

	// Sdiv/Udiv/Srem/Urem are the supplemented Div/Mod path: signed vs.
	// unsigned dispatch is decided by the operand type at emission time.
	Sdiv
	Udiv
	Srem
	Urem

	// Jump and Brif give lang/codegen's match lowering the conditional
	// control flow spec §4.3/§9 describes (each arm a conditional branch
	// block, all arms jumping to one join block); they are this facade's
	// addition to the instruction list spec §6 names, needed to express
	// that join at all.
	Jump
	Brif

	// Fadd/Fsub/Fmul/Fdiv/Fcmp are this facade's second addition: spec §6's
	// capability list only names f32const/f64const for floats and never an
	// arithmetic or comparison opcode, yet spec §4.2's BinaryOp typing rule
	// accepts float operands unconditionally. Without these, a well-typed
	// float BinaryOp would have nowhere to lower to.
	Fadd
	Fsub
	Fmul
	Fdiv
	Fcmp
)

var opcodeNames = [...]string{
	Iadd: "iadd", Isub: "isub", Imul: "imul",
	Band: "band", Bor: "bor", Bxor: "bxor",
	Icmp:       "icmp",
	Iconst:     "iconst",
	F32const:   "f32const",
	F64const:   "f64const",
	Call:       "call",
	Return:     "return",
	StackAddr:  "stack_addr",
	StackStore: "stack_store",
	Load:       "load",
	Sdiv:       "sdiv", Udiv: "udiv", Srem: "srem", Urem: "urem",
	Jump: "jump", Brif: "brif",
	Fadd: "fadd", Fsub: "fsub", Fmul: "fmul", Fdiv: "fdiv", Fcmp: "fcmp",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return fmt.Sprintf("illegal op (%d)", op)
}

// Predicate selects an Icmp comparison kind.
type Predicate uint8

const (
	Eq Predicate = iota
	NotEq
	Lt
	Gt
	Le
	Ge
)

var predicateNames = [...]string{
	Eq: "eq", NotEq: "ne", Lt: "lt", Gt: "gt", Le: "le", Ge: "ge",
}

func (p Predicate) String() string {
	if int(p) < len(predicateNames) {
		return predicateNames[p]
	}
	return fmt.Sprintf("illegal predicate (%d)", p)
}

// isTerminator reports whether op ends a block.
func isTerminator(op Opcode) bool {
	return op == Return || op == Jump || op == Brif
}
