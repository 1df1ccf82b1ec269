package codegen

import (
	"github.com/dolthub/swiss"
	"github.com/mna/elk/lang/ast"
	"github.com/mna/elk/lang/backend"
	"github.com/mna/elk/lang/types"
)

// varBinding is what a scope frame's variable table maps a name to, per spec
// §4.3's scope stack shape: "name -> (backend variable handle, AST type)".
type varBinding struct {
	v Var
	t types.Type
}

// Var is the codegen-level variable handle threaded through a scope frame.
// It wraps a backend.Var together with the byte size codegen needs to
// declare it, so callers never have to recompute a type's size to read it
// back.
type Var struct {
	backend backend.Var
	size    int
}

// funcBinding is a scope frame's function-table entry: name -> (backend
// function id, signature), per spec §4.3.
type funcBinding struct {
	fn  *backend.Function
	sig *types.Signature
}

// frame is one level of the scope stack of spec §4.3.
type frame struct {
	vars  *swiss.Map[string, varBinding]
	funcs *swiss.Map[string, funcBinding]
	types []*ast.CustomType

	nextVarIndex int
}

func newFrame(seed int) *frame {
	return &frame{
		vars:         swiss.NewMap[string, varBinding](8),
		funcs:        swiss.NewMap[string, funcBinding](8),
		nextVarIndex: seed,
	}
}

// scopeStack is the spec §4.3 scope stack: frames searched innermost
// outward, with the global (index 0) frame never popped.
type scopeStack struct {
	frames []*frame
}

func newScopeStack() *scopeStack {
	return &scopeStack{frames: []*frame{newFrame(0)}}
}

// enter pushes a new frame whose variable-index counter is seeded from the
// parent frame's counter plus one, per spec §4.3.
func (s *scopeStack) enter() {
	parent := s.frames[len(s.frames)-1]
	s.frames = append(s.frames, newFrame(parent.nextVarIndex+1))
}

// exit pops the innermost frame. The global frame (index 0) is never
// popped; calling exit with only the global frame left is a caller bug.
func (s *scopeStack) exit() {
	if len(s.frames) <= 1 {
		panic("codegen: exit called with only the global scope left")
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// scoped runs fn with a freshly entered frame, guaranteeing exit on every
// path including a panic, per spec §5's "scoped-execution helper that
// guarantees pop-on-panic".
func (s *scopeStack) scoped(fn func() error) error {
	s.enter()
	defer s.exit()
	return fn()
}

func (s *scopeStack) top() *frame { return s.frames[len(s.frames)-1] }

func (s *scopeStack) defineVar(name string, v Var, t types.Type) {
	top := s.top()
	top.vars.Put(name, varBinding{v: v, t: t})
	top.nextVarIndex++
}

func (s *scopeStack) lookupVar(name string) (varBinding, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if b, ok := s.frames[i].vars.Get(name); ok {
			return b, true
		}
	}
	return varBinding{}, false
}

func (s *scopeStack) defineFunc(name string, fn *backend.Function, sig *types.Signature) {
	s.frames[0].funcs.Put(name, funcBinding{fn: fn, sig: sig})
}

func (s *scopeStack) lookupFunc(name string) (funcBinding, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if b, ok := s.frames[i].funcs.Get(name); ok {
			return b, true
		}
	}
	return funcBinding{}, false
}

func (s *scopeStack) defineType(ct *ast.CustomType) {
	top := s.frames[0]
	top.types = append(top.types, ct)
}

func (s *scopeStack) lookupType(name string) (*ast.CustomType, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		for _, ct := range s.frames[i].types {
			if ct.Name == name {
				return ct, true
			}
		}
	}
	return nil, false
}
