package codegen

import (
	"testing"

	"github.com/mna/elk/lang/ast"
	"github.com/mna/elk/lang/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScopeStackMonotonicity exercises spec §8's round-trip law: entering a
// scope seeds its variable counter strictly greater than the parent's, per
// "seeded from the parent frame + 1 on entry".
func TestScopeStackMonotonicity(t *testing.T) {
	s := newScopeStack()
	before := s.top().nextVarIndex
	s.enter()
	assert.Greater(t, s.top().nextVarIndex, before)
	s.exit()
}

// TestScopeStackDefineLookupSameHandle exercises spec §8's "declaring then
// looking up a name in the scope stack within the same frame returns the
// same handle".
func TestScopeStackDefineLookupSameHandle(t *testing.T) {
	s := newScopeStack()
	v := Var{size: 1}
	s.defineVar("x", v, types.TU8)

	got, ok := s.lookupVar("x")
	require.True(t, ok)
	assert.Equal(t, v, got.v)
	assert.Equal(t, types.TU8, got.t)
}

func TestScopeStackInnerShadowsOuter(t *testing.T) {
	s := newScopeStack()
	s.defineVar("x", Var{size: 1}, types.TU8)

	s.enter()
	s.defineVar("x", Var{size: 8}, types.TU64)
	inner, ok := s.lookupVar("x")
	require.True(t, ok)
	assert.Equal(t, types.TU64, inner.t)
	s.exit()

	outer, ok := s.lookupVar("x")
	require.True(t, ok)
	assert.Equal(t, types.TU8, outer.t)
}

func TestScopeStackScopedPopsOnPanic(t *testing.T) {
	s := newScopeStack()
	depthBefore := len(s.frames)

	func() {
		defer func() { recover() }()
		_ = s.scoped(func() error {
			panic("boom")
		})
	}()

	assert.Equal(t, depthBefore, len(s.frames))
}

func TestScopeStackGlobalFrameNeverPops(t *testing.T) {
	s := newScopeStack()
	assert.Panics(t, func() { s.exit() })
}

func TestScopeStackTypeLookup(t *testing.T) {
	s := newScopeStack()
	ct := &ast.CustomType{Name: "Point", Kind: ast.RecordType}
	s.defineType(ct)

	got, ok := s.lookupType("Point")
	require.True(t, ok)
	assert.Same(t, ct, got)

	_, ok = s.lookupType("Missing")
	assert.False(t, ok)
}
