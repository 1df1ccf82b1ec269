package ast

import (
	"fmt"

	"github.com/mna/elk/lang/token"
	"github.com/mna/elk/lang/types"
)

// Program is the root of the AST: type definitions, function declarations,
// function implementations and exactly one entry-point block, per spec §3.
type Program struct {
	Types     []*CustomType
	FnDecls   []*FunctionDeclaration
	FnImpls   []*FunctionImplementation
	Main      *EntryPoint
	Name      string // source filename, for diagnostics
}

func (n *Program) Format(f fmt.State, verb rune) {
	format(f, verb, n, "program", map[string]int{
		"types": len(n.Types), "decls": len(n.FnDecls), "impls": len(n.FnImpls),
	})
}
func (n *Program) Span() token.Pos {
	if len(n.Types) > 0 {
		return n.Types[0].Span()
	}
	if len(n.FnDecls) > 0 {
		return n.FnDecls[0].Span()
	}
	if n.Main != nil {
		return n.Main.Span()
	}
	return token.NoPos
}
func (n *Program) Walk(v Visitor) {
	for _, t := range n.Types {
		Walk(v, t)
	}
	for _, d := range n.FnDecls {
		Walk(v, d)
	}
	for _, i := range n.FnImpls {
		Walk(v, i)
	}
	if n.Main != nil {
		Walk(v, n.Main)
	}
}

// CustomTypeKind discriminates the three CustomType contents of spec §3.
type CustomTypeKind int

const (
	EmptyType CustomTypeKind = iota
	EnumType
	RecordType
)

// EnumVariant is one case of an Enum CustomType: a name, its sequentially
// assigned discriminant (source order, starting at 0) and its payload types.
type EnumVariant struct {
	Pos         token.Pos
	Name        string
	Discriminant uint8
	Payload     []types.Type
}

// RecordField is one field of a Record CustomType.
type RecordField struct {
	Pos  token.Pos
	Name string
	Type types.Type
}

// CustomType is a user-defined type: an Enum, a Record, or an Empty marker,
// per spec §3.
type CustomType struct {
	Pos      token.Pos
	Name     string
	Generics []string // generic parameter names, parsed but never instantiated (spec §1 non-goal)

	Kind     CustomTypeKind
	Variants []*EnumVariant // populated iff Kind == EnumType, in source order
	Fields   []*RecordField // populated iff Kind == RecordType, sorted by Name (spec §3)
}

func (n *CustomType) Format(f fmt.State, verb rune) { format(f, verb, n, "type "+n.Name, nil) }
func (n *CustomType) Span() token.Pos                { return n.Pos }
func (n *CustomType) Walk(v Visitor)                 {}

// FunctionDeclaration declares a function's name and signature, per spec §3.
type FunctionDeclaration struct {
	Pos       token.Pos
	Name      string
	Signature *types.Signature
}

func (n *FunctionDeclaration) Format(f fmt.State, verb rune) {
	format(f, verb, n, "declare "+n.Name, nil)
}
func (n *FunctionDeclaration) Span() token.Pos { return n.Pos }
func (n *FunctionDeclaration) Walk(v Visitor)  {}

// FunctionImplementation provides a function's argument names and body, per
// spec §3. Its argument count must equal the matching declaration's arity;
// bindings are positional.
type FunctionImplementation struct {
	Pos     token.Pos
	Name    string
	Args    []string
	Body    *Block
}

func (n *FunctionImplementation) Format(f fmt.State, verb rune) {
	format(f, verb, n, "implement "+n.Name, map[string]int{"args": len(n.Args)})
}
func (n *FunctionImplementation) Span() token.Pos { return n.Pos }
func (n *FunctionImplementation) Walk(v Visitor)  { Walk(v, n.Body) }

// EntryPoint is the unnamed "main" block, compiled as the exported symbol
// "main", per spec §3/§6.
type EntryPoint struct {
	Pos  token.Pos
	Body *Block
}

func (n *EntryPoint) Format(f fmt.State, verb rune) { format(f, verb, n, "main", nil) }
func (n *EntryPoint) Span() token.Pos               { return n.Pos }
func (n *EntryPoint) Walk(v Visitor)                { Walk(v, n.Body) }

// Block is an ordered sequence of statements plus a final return expression,
// per spec §3. A block with no trailing expression has a synthesized Unit
// final expression (spec §8 boundary behavior).
type Block struct {
	Pos   token.Pos
	Stmts []Stmt
	Final Expr // never nil; Unit{} when the source had no trailing expression
}

func (n *Block) Format(f fmt.State, verb rune) {
	format(f, verb, n, "block", map[string]int{"stmts": len(n.Stmts)})
}
func (n *Block) Span() token.Pos { return n.Pos }
func (n *Block) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
	Walk(v, n.Final)
}
