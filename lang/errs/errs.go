// Package errs defines the fatal, structured error kinds of spec §7. Every
// compiler phase (parser, inference, codegen) returns one of these as a plain
// Go error; callers that need to distinguish a kind use errors.As. There is
// no recovery and no multi-error batching in any phase, the scanner
// included (it reports lexical errors as a single *ParseError): the first
// error a phase produces aborts that phase.
package errs

import (
	"fmt"

	"github.com/mna/elk/lang/token"
)

// Positioned is implemented by every error kind in this package, letting a
// caller such as the CLI driver format a source position alongside the
// message without a type switch on every kind.
type Positioned interface {
	error
	Position() token.Pos
}

// ParseError reports malformed syntax at a byte/line-col offset.
type ParseError struct {
	Pos      token.Pos
	Expected string
	Got      string
}

func (e *ParseError) Position() token.Pos { return e.Pos }
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: expected %s, got %s", e.Expected, e.Got)
}

// NoEntryPoint reports a program with zero "main" blocks.
type NoEntryPoint struct{}

func (e *NoEntryPoint) Position() token.Pos { return 0 }
func (e *NoEntryPoint) Error() string       { return "program has no entry point (missing 'main' block)" }

// MultipleEntryPoints reports a program with more than one "main" block.
type MultipleEntryPoints struct {
	First, Second token.Pos
}

func (e *MultipleEntryPoints) Position() token.Pos { return e.Second }
func (e *MultipleEntryPoints) Error() string {
	return "program has more than one entry point ('main' block)"
}

// DuplicateName reports a redeclared type, function declaration or function
// implementation name, violating the uniqueness invariant of spec §3.
type DuplicateName struct {
	Pos      token.Pos
	Name     string
	Category string // "type", "function declaration", "function implementation"
}

func (e *DuplicateName) Position() token.Pos { return e.Pos }
func (e *DuplicateName) Error() string {
	return fmt.Sprintf("duplicate %s name: %s", e.Category, e.Name)
}

// MissingImplementation reports a function declaration with no matching
// implementation, violating spec §3's Program invariant.
type MissingImplementation struct {
	Name string
}

func (e *MissingImplementation) Position() token.Pos { return 0 }
func (e *MissingImplementation) Error() string {
	return fmt.Sprintf("function %s declared but not implemented", e.Name)
}

// MissingDeclaration reports a function implementation with no matching
// declaration, violating spec §3's Program invariant.
type MissingDeclaration struct {
	Pos  token.Pos
	Name string
}

func (e *MissingDeclaration) Position() token.Pos { return e.Pos }
func (e *MissingDeclaration) Error() string {
	return fmt.Sprintf("function %s implemented but not declared", e.Name)
}

// ArityMismatch reports a function implementation or call whose argument
// count disagrees with the declared signature's arity.
type ArityMismatch struct {
	Pos      token.Pos
	Name     string
	Expected int
	Got      int
}

func (e *ArityMismatch) Position() token.Pos { return e.Pos }
func (e *ArityMismatch) Error() string {
	return fmt.Sprintf("%s: expected %d argument(s), got %d", e.Name, e.Expected, e.Got)
}

// UnboundName reports a variable, function or type name referenced but not
// declared in the applicable environment.
type UnboundName struct {
	Pos  token.Pos
	Name string
}

func (e *UnboundName) Position() token.Pos { return e.Pos }
func (e *UnboundName) Error() string       { return fmt.Sprintf("unbound name: %s", e.Name) }

// NotARecord reports a RecordAccess or record constructor on a Custom type
// that is not a Record.
type NotARecord struct {
	Pos  token.Pos
	Type string
}

func (e *NotARecord) Position() token.Pos { return e.Pos }
func (e *NotARecord) Error() string       { return fmt.Sprintf("%s is not a record type", e.Type) }

// NotAnEnum reports an enum constructor naming a Custom type that is not an
// Enum.
type NotAnEnum struct {
	Pos  token.Pos
	Type string
}

func (e *NotAnEnum) Position() token.Pos { return e.Pos }
func (e *NotAnEnum) Error() string       { return fmt.Sprintf("%s is not an enum type", e.Type) }

// FieldNotFound reports a record access or record constructor field that does
// not exist on the named record type.
type FieldNotFound struct {
	Pos   token.Pos
	Type  string
	Field string
}

func (e *FieldNotFound) Position() token.Pos { return e.Pos }
func (e *FieldNotFound) Error() string {
	return fmt.Sprintf("record %s has no field named %s", e.Type, e.Field)
}

// VariantNotFound reports an enum constructor naming a variant that does not
// exist on the named enum type.
type VariantNotFound struct {
	Pos     token.Pos
	Type    string
	Variant string
}

func (e *VariantNotFound) Position() token.Pos { return e.Pos }
func (e *VariantNotFound) Error() string {
	return fmt.Sprintf("enum %s has no variant named %s", e.Type, e.Variant)
}

// TypeMismatch reports two types that were required to agree but did not:
// a binary operator's operands, a match expression's arms, or an
// assignment's declared-vs-inferred type.
type TypeMismatch struct {
	Pos      token.Pos
	Expected string
	Actual   string
	Context  string
}

func (e *TypeMismatch) Position() token.Pos { return e.Pos }
func (e *TypeMismatch) Error() string {
	return fmt.Sprintf("%s: expected type %s, got %s", e.Context, e.Expected, e.Actual)
}

// EntryPointReturn reports a 'return' statement inside the entry-point block,
// resolved as illegal in SPEC_FULL §4.2 (the open question spec §9 left
// unresolved).
type EntryPointReturn struct {
	Pos token.Pos
}

func (e *EntryPointReturn) Position() token.Pos { return e.Pos }
func (e *EntryPointReturn) Error() string {
	return "'return' is not allowed in the entry-point block"
}

// InternalVerifierError indicates emitted IR failed the backend's verifier, a
// compiler bug rather than a fault in the input program.
type InternalVerifierError struct {
	Function string
	Detail   string
}

func (e *InternalVerifierError) Position() token.Pos { return 0 }
func (e *InternalVerifierError) Error() string {
	return fmt.Sprintf("internal error: function %s failed IR verification: %s", e.Function, e.Detail)
}

// IOError wraps a failure at the driver boundary (reading source, writing the
// object file).
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Position() token.Pos { return 0 }
func (e *IOError) Error() string       { return fmt.Sprintf("%s: %s", e.Path, e.Err) }
func (e *IOError) Unwrap() error       { return e.Err }
