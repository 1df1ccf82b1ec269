package backend_test

import (
	"testing"

	"github.com/mna/elk/lang/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunctionBuilderArithmetic(t *testing.T) {
	m := backend.NewModule(8)
	f := m.DeclareFunction("add_one", backend.LinkageExport, []int{1}, 1)
	p := f.AppendParam()
	b := f.CreateBlock()
	f.SetCurrentBlock(b)
	one := f.Iconst(backend.W8, 1)
	sum := f.Iadd(backend.W8, p, one)
	f.Return(sum)
	f.SealBlock(b)

	name, detail, ok := m.Verify()
	require.True(t, ok, "function %s: %s", name, detail)

	out := m.Serialize()
	assert.NotEmpty(t, out)
	assert.Equal(t, out, m.Serialize(), "serialization must be deterministic")
}

func TestFunctionBuilderBranching(t *testing.T) {
	m := backend.NewModule(8)
	f := m.DeclareFunction("choose", backend.LinkageLocal, []int{1}, 1)
	cond := f.AppendParam()

	entry := f.CreateBlock()
	thenBlk := f.CreateBlock()
	elseBlk := f.CreateBlock()

	f.SetCurrentBlock(entry)
	f.Brif(cond, thenBlk, elseBlk)
	f.SealBlock(entry)

	f.SetCurrentBlock(thenBlk)
	f.Return(f.Iconst(backend.W8, 1))
	f.SealBlock(thenBlk)

	f.SetCurrentBlock(elseBlk)
	f.Return(f.Iconst(backend.W8, 0))
	f.SealBlock(elseBlk)

	_, _, ok := m.Verify()
	assert.True(t, ok)
}

func TestVerifyRejectsMissingTerminator(t *testing.T) {
	m := backend.NewModule(8)
	f := m.DeclareFunction("broken", backend.LinkageLocal, nil, 1)
	b := f.CreateBlock()
	f.SetCurrentBlock(b)
	f.Iconst(backend.W8, 1)

	name, detail, ok := m.Verify()
	assert.False(t, ok)
	assert.Equal(t, "broken", name)
	assert.NotEmpty(t, detail)
}

func TestVerifyRejectsOutOfRangeStackSlot(t *testing.T) {
	m := backend.NewModule(8)
	f := m.DeclareFunction("bad_slot", backend.LinkageLocal, nil, 8)
	b := f.CreateBlock()
	f.SetCurrentBlock(b)
	addr := f.StackAddr(0) // no slots allocated: index 0 is out of range
	f.Return(addr)

	_, detail, ok := m.Verify()
	assert.False(t, ok)
	assert.Contains(t, detail, "stack slot")
}

func TestVarDeclareDefUse(t *testing.T) {
	m := backend.NewModule(8)
	f := m.DeclareFunction("with_var", backend.LinkageLocal, nil, 1)
	v := f.DeclareVar(1)
	b := f.CreateBlock()
	f.SetCurrentBlock(b)

	_, ok := f.UseVar(v)
	assert.False(t, ok, "var must be unbound before DefVar")

	one := f.Iconst(backend.W8, 1)
	f.DefVar(v, one)
	got, ok := f.UseVar(v)
	require.True(t, ok)
	assert.Equal(t, one, got)

	f.Return(got)
}

func TestStackSlotRoundTrip(t *testing.T) {
	m := backend.NewModule(8)
	f := m.DeclareFunction("record_ctor", backend.LinkageExport, []int{1, 1}, 8)
	a, b2 := f.AppendParam(), f.AppendParam()
	blk := f.CreateBlock()
	f.SetCurrentBlock(blk)

	slot := f.AllocStackSlot(2)
	addr := f.StackAddr(slot)
	f.StackStore(addr, a, 0)
	f.StackStore(addr, b2, 1)
	f.Return(addr)
	f.SealBlock(blk)

	_, detail, ok := m.Verify()
	require.True(t, ok, detail)
}
