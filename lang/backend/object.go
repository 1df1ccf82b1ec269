package backend

import (
	"encoding/binary"
	"math"
)

// Object serialization is this facade's half of spec §6's "serialization of
// the module to object bytes". Per SPEC_FULL's Backend Facade note, no real
// ELF/Mach-O/COFF writer exists anywhere in the retrieved corpus (ELF is
// only ever read, via debug/elf-shaped types, nowhere in the pack), so this
// package defines its own minimal container instead of forging a byte-exact
// platform format: a magic header, a symbol table (name, linkage, code
// offset/length), and the concatenated per-function code. The varint
// instruction encoding is grounded on the teacher's compiler/compiler.go
// addUint32/encodeInsn pair, generalized from one bytecode argument to an
// SSA instruction's several operand kinds.
const objectMagic = "ELK1"

func encodeObject(m *Module) []byte {
	var code []byte
	type symbol struct {
		name    string
		linkage Linkage
		offset  int
		length  int
	}
	var symbols []symbol

	for _, f := range m.funcs {
		start := len(code)
		code = append(code, encodeFunction(f)...)
		symbols = append(symbols, symbol{name: f.Name, linkage: f.Linkage, offset: start, length: len(code) - start})
	}

	buf := make([]byte, 0, len(code)+256)
	buf = append(buf, objectMagic...)
	buf = appendUvarint(buf, uint64(m.PointerSize))
	buf = appendUvarint(buf, uint64(len(symbols)))
	for _, s := range symbols {
		buf = appendUvarint(buf, uint64(len(s.name)))
		buf = append(buf, s.name...)
		buf = append(buf, byte(s.linkage))
		buf = appendUvarint(buf, uint64(s.offset))
		buf = appendUvarint(buf, uint64(s.length))
	}
	buf = appendUvarint(buf, uint64(len(code)))
	buf = append(buf, code...)
	return buf
}

func encodeFunction(f *Function) []byte {
	var buf []byte
	buf = appendUvarint(buf, uint64(len(f.stackSlots)))
	for _, s := range f.stackSlots {
		buf = appendUvarint(buf, uint64(s.Size))
	}
	buf = appendUvarint(buf, uint64(len(f.blocks)))
	for _, b := range f.blocks {
		buf = appendUvarint(buf, uint64(len(b.instrs)))
		for _, instr := range b.instrs {
			buf = encodeInstr(buf, instr)
		}
	}
	return buf
}

func encodeInstr(buf []byte, instr Instr) []byte {
	buf = append(buf, byte(instr.Op))
	buf = appendUvarint(buf, uint64(len(instr.Args)))
	for _, a := range instr.Args {
		buf = appendUvarint(buf, uint64(a))
	}
	switch instr.Op {
	case Iconst:
		buf = append(buf, byte(instr.IntWidth))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(instr.ImmInt))
	case F32const, F64const:
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(instr.ImmFloat))
	case Icmp:
		buf = append(buf, byte(instr.IntWidth), byte(instr.Predicate))
	case Iadd, Isub, Imul, Band, Bor, Bxor, Sdiv, Udiv, Srem, Urem:
		buf = append(buf, byte(instr.IntWidth))
	case Fadd, Fsub, Fmul, Fdiv:
		buf = append(buf, byte(instr.FloatWidth))
	case Fcmp:
		buf = append(buf, byte(instr.FloatWidth), byte(instr.Predicate))
	case Call:
		buf = appendUvarint(buf, uint64(len(instr.Callee)))
		buf = append(buf, instr.Callee...)
	case StackAddr:
		buf = appendUvarint(buf, uint64(instr.Slot))
	case StackStore:
		buf = appendUvarint(buf, uint64(instr.ImmInt))
	case Load:
		buf = appendUvarint(buf, uint64(instr.ImmInt))
		buf = append(buf, byte(instr.IntWidth))
	}
	return buf
}

func appendUvarint(buf []byte, x uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], x)
	return append(buf, tmp[:n]...)
}
