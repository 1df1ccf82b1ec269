package ast

import (
	"fmt"

	"github.com/mna/elk/lang/token"
	"github.com/mna/elk/lang/types"
)

// typed is embedded by every Expr to provide the AssociatedType slot of
// spec §3: Pending until the infer pass assigns a concrete Type.
type typed struct {
	Pos            token.Pos
	AssociatedType types.Type
}

func (t *typed) Span() token.Pos { return t.Pos }

// Type returns the expression's associated type, Pending until inference
// assigns a concrete one.
func (t *typed) Type() types.Type { return t.AssociatedType }

// SetType overwrites the associated type. Called only by the infer pass.
func (t *typed) SetType(tp types.Type) { t.AssociatedType = tp }

// IdentExpr references a bound variable or function name.
type IdentExpr struct {
	typed
	Name string
}

func (n *IdentExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "ident "+n.Name, nil) }
func (n *IdentExpr) Walk(v Visitor)                {}
func (*IdentExpr) expr()                           {}

// LiteralKind discriminates the Literal cases of spec §3.
type LiteralKind int

const (
	IntegerLit LiteralKind = iota
	FloatLit
	BoolLit
	StringLit
)

// LiteralExpr is a Literal value, per spec §3. Int holds the uninterpreted
// u64 bit pattern of an Integer literal; Float, Bool and Str hold the other
// payload kinds.
type LiteralExpr struct {
	typed
	Kind LiteralKind
	Int  uint64
	Float float64
	Bool bool
	Str  string
}

func (n *LiteralExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "literal", nil) }
func (n *LiteralExpr) Walk(v Visitor)                {}
func (*LiteralExpr) expr()                           {}

// UnitExpr is the Unit value.
type UnitExpr struct {
	typed
}

func (n *UnitExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "unit", nil) }
func (n *UnitExpr) Walk(v Visitor)                {}
func (*UnitExpr) expr()                           {}

// EnumArg is one constructor argument supplied to NewEnumInstance.
type EnumArg = Expr

// NewEnumInstanceExpr constructs an enum value: Type.Variant(args...), per
// spec §4.1's "UpperIdent '.' UpperIdent" production.
type NewEnumInstanceExpr struct {
	typed
	TypeName    string
	VariantName string
	Args        []Expr
}

func (n *NewEnumInstanceExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, fmt.Sprintf("new %s.%s", n.TypeName, n.VariantName), map[string]int{"args": len(n.Args)})
}
func (n *NewEnumInstanceExpr) Walk(v Visitor) {
	for _, a := range n.Args {
		Walk(v, a)
	}
}
func (*NewEnumInstanceExpr) expr() {}

// RecordFieldInit is one field initializer of a NewRecordInstance, e.g.
// `x: 3` in `Point{x: 3, y: 4}`.
type RecordFieldInit struct {
	Pos   token.Pos
	Name  string
	Value Expr
}

// NewRecordInstanceExpr constructs a record value: Type{field: value, ...},
// per spec §4.1's "UpperIdent '{' fields '}'" production. Fields are kept in
// source order here; the record's canonical field order (sorted by name) is
// a property of the CustomType definition, not of this constructor.
type NewRecordInstanceExpr struct {
	typed
	TypeName string
	Fields   []RecordFieldInit
}

func (n *NewRecordInstanceExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "new "+n.TypeName, map[string]int{"fields": len(n.Fields)})
}
func (n *NewRecordInstanceExpr) Walk(v Visitor) {
	for _, fld := range n.Fields {
		Walk(v, fld.Value)
	}
}
func (*NewRecordInstanceExpr) expr() {}

// RecordAccessExpr reads a field off a record-typed variable: `var.field`,
// per spec §4.1. It never chains (spec §4.1 notes nested access is a future
// extension): Var is always a bare identifier, never another RecordAccess.
type RecordAccessExpr struct {
	typed
	Var   string
	Field string
}

func (n *RecordAccessExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, fmt.Sprintf("access %s.%s", n.Var, n.Field), nil)
}
func (n *RecordAccessExpr) Walk(v Visitor) {}
func (*RecordAccessExpr) expr()            {}

// FunctionCallExpr calls a declared function by name with positional
// arguments, per spec §4.1's juxtaposition-application rule.
type FunctionCallExpr struct {
	typed
	Name string
	Args []Expr
}

func (n *FunctionCallExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "call "+n.Name, map[string]int{"args": len(n.Args)})
}
func (n *FunctionCallExpr) Walk(v Visitor) {
	for _, a := range n.Args {
		Walk(v, a)
	}
}
func (*FunctionCallExpr) expr() {}

// PatternKind discriminates the restricted expression forms allowed as a
// match-arm pattern, per spec §4.1.
type PatternKind int

const (
	LiteralPattern PatternKind = iota
	IdentPattern               // includes "_" wildcard
	EnumPattern
)

// Pattern is a match-arm pattern: a literal, an identifier (or "_"
// wildcard), or a qualified enum constructor, per spec §4.1.
type Pattern struct {
	Pos     token.Pos
	Kind    PatternKind
	Literal *LiteralExpr // populated iff Kind == LiteralPattern
	Ident   string       // populated iff Kind == IdentPattern ("_" for wildcard)

	// populated iff Kind == EnumPattern
	TypeName    string
	VariantName string
	Binds       []string // identifiers bound to the variant's payload, positional
}

// MatchArm is one `pattern -> body` arm of a Match expression.
type MatchArm struct {
	Pattern Pattern
	Body    Expr
}

// MatchExpr evaluates Scrutinee and dispatches to the first matching arm's
// Body, per spec §3/§4.2/§4.3. All arm bodies must share one common type
// (spec §4.2), which becomes the match expression's type.
type MatchExpr struct {
	typed
	Scrutinee Expr
	Arms      []MatchArm
}

func (n *MatchExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "match", map[string]int{"arms": len(n.Arms)})
}
func (n *MatchExpr) Walk(v Visitor) {
	Walk(v, n.Scrutinee)
	for _, a := range n.Arms {
		Walk(v, a.Body)
	}
}
func (*MatchExpr) expr() {}

// BinaryOp identifies a BinaryOp expression's operator.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpXor
	OpEq
	OpNotEq
	OpLt
	OpGt
	OpLe
	OpGe
)

// BinaryOpExpr is a binary operator application, per spec §4.1/§4.3. Operator
// precedence/associativity is not implemented (spec §4.1/§9): parsing is
// strictly `left op right` with no precedence climbing.
type BinaryOpExpr struct {
	typed
	Op       BinaryOp
	Lhs, Rhs Expr
}

func (n *BinaryOpExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "binop", nil) }
func (n *BinaryOpExpr) Walk(v Visitor) {
	Walk(v, n.Lhs)
	Walk(v, n.Rhs)
}
func (*BinaryOpExpr) expr() {}

// UnaryOp identifies a UnaryOp expression's operator.
type UnaryOp int

const (
	OpNeg UnaryOp = iota // unary '-'
	OpNot                // unary logical/bitwise complement
)

// UnaryOpExpr is a unary operator application, per spec §3/§4.3.
type UnaryOpExpr struct {
	typed
	Op      UnaryOp
	Operand Expr
}

func (n *UnaryOpExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "unaryop", nil) }
func (n *UnaryOpExpr) Walk(v Visitor)                { Walk(v, n.Operand) }
func (*UnaryOpExpr) expr()                           {}
