package ast

import (
	"fmt"

	"github.com/mna/elk/lang/token"
)

// AssignStmt binds name to the value of Right in the enclosing block, per
// spec §3. A second assignment to the same name re-types the binding to the
// latest right-hand side's type (spec §8).
type AssignStmt struct {
	Pos   token.Pos
	Name  string
	Right Expr
}

func (n *AssignStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "assign "+n.Name, nil) }
func (n *AssignStmt) Span() token.Pos               { return n.Pos }
func (n *AssignStmt) Walk(v Visitor)                { Walk(v, n.Right) }
func (*AssignStmt) stmt()                            {}

// ReturnStmt is a 'return' statement. Per SPEC_FULL §4.2 it is illegal inside
// the entry-point block (the infer pass rejects it there with
// errs.EntryPointReturn) but is otherwise a normal function-body statement.
type ReturnStmt struct {
	Pos   token.Pos
	Value Expr
}

func (n *ReturnStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "return", nil) }
func (n *ReturnStmt) Span() token.Pos               { return n.Pos }
func (n *ReturnStmt) Walk(v Visitor)                { Walk(v, n.Value) }
func (*ReturnStmt) stmt()                            {}
