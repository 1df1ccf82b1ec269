package codegen

import "github.com/mna/elk/lang/ast"

// recordLayout computes a record's canonical field offsets, per spec §4.3's
// "Record: bytes laid out sequentially in the canonical field order ...
// field offsets are the prefix sum of field sizes". ct.Fields is already
// sorted by name (spec §3's record-definition invariant), so no further
// sorting happens here. Returns the per-field byte offset and the record's
// total size.
func recordLayout(ct *ast.CustomType, ptrSize int) (map[string]int, int) {
	offsets := make(map[string]int, len(ct.Fields))
	cursor := 0
	for _, f := range ct.Fields {
		offsets[f.Name] = cursor
		cursor += f.Type.Size(ptrSize)
	}
	return offsets, cursor
}

// enumPayloadLayout computes the supplemented enum payload layout: a flat
// concatenation of every variant's payload fields, each variant starting at
// a fixed offset rounded up to its first payload field's natural alignment,
// per SPEC_FULL's §4.3 resolution of spec.md's open enum-payload question.
// Byte 0 is reserved for the discriminant (spec §4.3), so the first
// variant's payload never starts before offset 1. Returns, per variant
// name, the offset of each payload field in source order, and the total
// stack-slot size (the conservative "sum over all variants of sum of
// payload sizes" upper bound from spec §4.3, plus the discriminant byte and
// any alignment padding inserted before a variant's payload).
func enumPayloadLayout(ct *ast.CustomType, ptrSize int) (map[string][]int, int) {
	offsets := make(map[string][]int, len(ct.Variants))
	cursor := 1
	for _, v := range ct.Variants {
		if len(v.Payload) == 0 {
			offsets[v.Name] = nil
			continue
		}
		base := alignUp(cursor, v.Payload[0].Size(ptrSize))
		fieldOffsets := make([]int, len(v.Payload))
		off := base
		for i, pt := range v.Payload {
			fieldOffsets[i] = off
			off += pt.Size(ptrSize)
		}
		offsets[v.Name] = fieldOffsets
		cursor = off
	}
	return offsets, cursor
}

func alignUp(off, align int) int {
	if align <= 1 {
		return off
	}
	return (off + align - 1) / align * align
}
