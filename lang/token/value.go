package token

// Value carries the decoded payload of a token produced by the scanner, plus
// its starting position and raw source text. Only the field matching the
// associated Token is meaningful: INT populates Int, FLOAT populates Float,
// STRING populates Str, IDENT populates Str (the identifier text).
type Value struct {
	Pos   Pos
	Raw   string // exact source text of the token
	Int   uint64 // uninterpreted bit pattern, per spec §3 Literal.Integer
	Float float64
	Str   string
}

// Literal returns the human-readable literal form of the value for a token of
// kind tok, or "" if tok carries no literal payload (e.g. punctuation).
func (v Value) Literal(tok Token) string {
	switch tok {
	case IDENT, STRING:
		return v.Str
	case INT, FLOAT:
		return v.Raw
	default:
		return ""
	}
}
