package infer

import (
	"github.com/dolthub/swiss"
	"github.com/mna/elk/lang/types"
)

// env is one frame of the variable environment of spec §4.2: a name table
// mapping bound identifiers to their inferred type, chained to its enclosing
// frame. Frames are pushed for each match arm (so arm-local pattern
// bindings don't leak into sibling arms) and for each function body.
type env struct {
	vars   *swiss.Map[string, types.Type]
	parent *env
}

func newEnv(parent *env) *env {
	return &env{vars: swiss.NewMap[string, types.Type](8), parent: parent}
}

func (e *env) define(name string, t types.Type) { e.vars.Put(name, t) }

func (e *env) lookup(name string) (types.Type, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if t, ok := cur.vars.Get(name); ok {
			return t, true
		}
	}
	return types.Type{}, false
}
