package types

import "strings"

// Signature is an ordered list of argument types plus a single return type,
// per spec §3. Surface syntax "A -> B -> C" desugars, via a right-associative
// fold, to Args=[A,B] Return=C.
type Signature struct {
	Args   []Type
	Return Type
}

// SignatureFromArrowChain builds a Signature from the flat list of types
// parsed from an "A -> B -> ... -> Z" chain: every type but the last becomes
// an argument, in order, and the last type is the return type. A chain of a
// single type (no "->" at all) is not a valid signature and is rejected by
// the parser before this helper is reached.
func SignatureFromArrowChain(chain []Type) *Signature {
	if len(chain) < 2 {
		panic("types: arrow chain must have at least 2 types")
	}
	args := make([]Type, len(chain)-1)
	copy(args, chain[:len(chain)-1])
	return &Signature{Args: args, Return: chain[len(chain)-1]}
}

// Arity returns the number of arguments the signature declares.
func (s *Signature) Arity() int { return len(s.Args) }

// Equal reports whether s and other declare the same argument types, in the
// same order, and the same return type.
func (s *Signature) Equal(other *Signature) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil || len(s.Args) != len(other.Args) {
		return false
	}
	for i, a := range s.Args {
		if !a.Equal(other.Args[i]) {
			return false
		}
	}
	return s.Return.Equal(other.Return)
}

func (s *Signature) String() string {
	var b strings.Builder
	for _, a := range s.Args {
		b.WriteString(a.String())
		b.WriteString(" -> ")
	}
	b.WriteString(s.Return.String())
	return b.String()
}
