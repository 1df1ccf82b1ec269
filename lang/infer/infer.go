// Package infer implements the type inference and checking pass of spec
// §4.2: it walks an untyped *ast.Program in source order, assigning a
// concrete types.Type to every expression, and rejects a program whose types
// disagree.
//
// All function declarations and all custom type definitions are loaded into
// the inferer's tables before any body is walked, so forward references
// within the program (a function calling one declared later, a record
// naming a type defined later) are legal, per spec §4.2.
package infer

import (
	"fmt"

	"github.com/dolthub/swiss"
	"github.com/mna/elk/lang/ast"
	"github.com/mna/elk/lang/errs"
	"github.com/mna/elk/lang/token"
	"github.com/mna/elk/lang/types"
)

type inferer struct {
	fset        *token.FileSet
	funcs       *swiss.Map[string, *ast.FunctionDeclaration]
	customTypes *swiss.Map[string, *ast.CustomType]
}

// Infer annotates every expression in prog with a concrete type, or returns
// the first type error encountered. fset is used only to enrich future
// diagnostics; the pass itself works entirely in byte-offset Pos terms.
func Infer(fset *token.FileSet, prog *ast.Program) error {
	inf := &inferer{
		fset:        fset,
		funcs:       swiss.NewMap[string, *ast.FunctionDeclaration](uint32(len(prog.FnDecls) + 1)),
		customTypes: swiss.NewMap[string, *ast.CustomType](uint32(len(prog.Types) + 1)),
	}
	for _, d := range prog.FnDecls {
		inf.funcs.Put(d.Name, d)
	}
	for _, t := range prog.Types {
		inf.customTypes.Put(t.Name, t)
	}

	for _, impl := range prog.FnImpls {
		if err := inf.inferFunctionImpl(impl); err != nil {
			return err
		}
	}
	return inf.inferEntryPoint(prog.Main)
}

// returnContext carries the constraints a ReturnStmt must satisfy inside the
// block currently being walked.
type returnContext struct {
	forbidden bool // true inside the entry-point block, per SPEC_FULL §4.2
	expected  types.Type
}

func (inf *inferer) inferFunctionImpl(impl *ast.FunctionImplementation) error {
	// The parser's Program invariant check guarantees a matching declaration
	// exists with the same arity.
	decl, _ := inf.funcs.Get(impl.Name)

	e := newEnv(nil)
	for i, argName := range impl.Args {
		e.define(argName, decl.Signature.Args[i])
	}

	bodyType, err := inf.inferBlock(impl.Body, e, returnContext{expected: decl.Signature.Return})
	if err != nil {
		return err
	}
	// A body whose last statement is an explicit return already had its value
	// checked against the declared return type in inferBlock; the block's
	// trailing Final is then a synthesized, unreachable Unit and must not be
	// compared against the signature.
	if blockEndsInReturn(impl.Body) {
		return nil
	}
	if !bodyType.Equal(decl.Signature.Return) {
		return &errs.TypeMismatch{
			Pos: impl.Body.Span(), Expected: decl.Signature.Return.String(), Actual: bodyType.String(),
			Context: fmt.Sprintf("body of function %s", impl.Name),
		}
	}
	return nil
}

func blockEndsInReturn(b *ast.Block) bool {
	if len(b.Stmts) == 0 {
		return false
	}
	_, ok := b.Stmts[len(b.Stmts)-1].(*ast.ReturnStmt)
	return ok
}

func (inf *inferer) inferEntryPoint(ep *ast.EntryPoint) error {
	e := newEnv(nil)
	_, err := inf.inferBlock(ep.Body, e, returnContext{forbidden: true})
	return err
}

// inferBlock infers every statement and the trailing final expression of b,
// returning the final expression's type (the block's type, per spec §3).
func (inf *inferer) inferBlock(b *ast.Block, e *env, ret returnContext) (types.Type, error) {
	for _, stmt := range b.Stmts {
		switch s := stmt.(type) {
		case *ast.AssignStmt:
			t, err := inf.inferExpr(s.Right, e)
			if err != nil {
				return types.Type{}, err
			}
			// A second assignment to the same name re-types the binding to the
			// latest RHS type, per spec §8: define() simply overwrites.
			e.define(s.Name, t)

		case *ast.ReturnStmt:
			if ret.forbidden {
				return types.Type{}, &errs.EntryPointReturn{Pos: s.Pos}
			}
			t, err := inf.inferExpr(s.Value, e)
			if err != nil {
				return types.Type{}, err
			}
			if !t.Equal(ret.expected) {
				return types.Type{}, &errs.TypeMismatch{
					Pos: s.Pos, Expected: ret.expected.String(), Actual: t.String(), Context: "return statement",
				}
			}

		default:
			panic(fmt.Sprintf("infer: unexpected stmt %T", stmt))
		}
	}
	return inf.inferExpr(b.Final, e)
}

// inferExpr infers expr's type in environment e, sets it as expr's
// AssociatedType, and returns it.
func (inf *inferer) inferExpr(expr ast.Expr, e *env) (types.Type, error) {
	var (
		t   types.Type
		err error
	)
	switch n := expr.(type) {
	case *ast.LiteralExpr:
		t, err = inf.inferLiteral(n)
	case *ast.IdentExpr:
		t, err = inf.inferIdent(n, e)
	case *ast.UnitExpr:
		t = types.TUnit
	case *ast.BinaryOpExpr:
		t, err = inf.inferBinaryOp(n, e)
	case *ast.UnaryOpExpr:
		t, err = inf.inferUnaryOp(n, e)
	case *ast.FunctionCallExpr:
		t, err = inf.inferFunctionCall(n, e)
	case *ast.MatchExpr:
		t, err = inf.inferMatch(n, e)
	case *ast.NewRecordInstanceExpr:
		t, err = inf.inferNewRecord(n, e)
	case *ast.NewEnumInstanceExpr:
		t, err = inf.inferNewEnum(n, e)
	case *ast.RecordAccessExpr:
		t, err = inf.inferRecordAccess(n, e)
	default:
		panic(fmt.Sprintf("infer: unexpected expr %T", expr))
	}
	if err != nil {
		return types.Type{}, err
	}
	expr.SetType(t)
	return t, nil
}

// Literal: Integer ⇒ U8, Float ⇒ F64, Bool ⇒ Bool, String ⇒ String, per
// spec §4.2 (literal widths are defaulted rather than inferred from
// context, per the §9 open question resolved in SPEC_FULL).
func (inf *inferer) inferLiteral(n *ast.LiteralExpr) (types.Type, error) {
	switch n.Kind {
	case ast.IntegerLit:
		return types.DefaultIntegerType, nil
	case ast.FloatLit:
		return types.DefaultFloatType, nil
	case ast.BoolLit:
		return types.DefaultBoolType, nil
	case ast.StringLit:
		return types.DefaultStringType, nil
	default:
		panic(fmt.Sprintf("infer: unexpected literal kind %d", n.Kind))
	}
}

func (inf *inferer) inferIdent(n *ast.IdentExpr, e *env) (types.Type, error) {
	t, ok := e.lookup(n.Name)
	if !ok {
		return types.Type{}, &errs.UnboundName{Pos: n.Pos, Name: n.Name}
	}
	return t, nil
}

// BinaryOp: infer both sides, they must be equal, result is that common
// type. Per SPEC_FULL's resolution of the §9 open question, comparison
// operators propagate the operand type rather than always yielding Bool —
// the inconsistency the source left unresolved is preserved deliberately.
func (inf *inferer) inferBinaryOp(n *ast.BinaryOpExpr, e *env) (types.Type, error) {
	lhs, err := inf.inferExpr(n.Lhs, e)
	if err != nil {
		return types.Type{}, err
	}
	rhs, err := inf.inferExpr(n.Rhs, e)
	if err != nil {
		return types.Type{}, err
	}
	if !lhs.Equal(rhs) {
		return types.Type{}, &errs.TypeMismatch{
			Pos: n.Pos, Expected: lhs.String(), Actual: rhs.String(), Context: "binary operator operands",
		}
	}
	return lhs, nil
}

func (inf *inferer) inferUnaryOp(n *ast.UnaryOpExpr, e *env) (types.Type, error) {
	return inf.inferExpr(n.Operand, e)
}

// FunctionCall: return type taken from the function signature. Argument
// arity and pairwise type agreement against the signature are checked here;
// spec §4.2 flags this as unimplemented in the source ("implementers adding
// this must compare arity and pairwise equality") -- the supplemented
// behavior this module adds.
func (inf *inferer) inferFunctionCall(n *ast.FunctionCallExpr, e *env) (types.Type, error) {
	decl, ok := inf.funcs.Get(n.Name)
	if !ok {
		return types.Type{}, &errs.UnboundName{Pos: n.Pos, Name: n.Name}
	}
	sig := decl.Signature
	if len(n.Args) != sig.Arity() {
		return types.Type{}, &errs.ArityMismatch{
			Pos: n.Pos, Name: n.Name, Expected: sig.Arity(), Got: len(n.Args),
		}
	}
	for i, a := range n.Args {
		t, err := inf.inferExpr(a, e)
		if err != nil {
			return types.Type{}, err
		}
		if !t.Equal(sig.Args[i]) {
			return types.Type{}, &errs.TypeMismatch{
				Pos: a.Span(), Expected: sig.Args[i].String(), Actual: t.String(),
				Context: fmt.Sprintf("argument %d of %s", i+1, n.Name),
			}
		}
	}
	return sig.Return, nil
}

// Match: infer the scrutinee, infer each arm's body type in a child scope
// seeded with the arm's pattern bindings; all arm types must agree, and
// that common type is the match's type, per spec §4.2.
func (inf *inferer) inferMatch(n *ast.MatchExpr, e *env) (types.Type, error) {
	scrutType, err := inf.inferExpr(n.Scrutinee, e)
	if err != nil {
		return types.Type{}, err
	}

	var common types.Type
	for i, arm := range n.Arms {
		armEnv := newEnv(e)
		if err := inf.bindPattern(arm.Pattern, scrutType, armEnv); err != nil {
			return types.Type{}, err
		}
		bodyType, err := inf.inferExpr(arm.Body, armEnv)
		if err != nil {
			return types.Type{}, err
		}
		if i == 0 {
			common = bodyType
			continue
		}
		if !bodyType.Equal(common) {
			return types.Type{}, &errs.TypeMismatch{
				Pos: arm.Body.Span(), Expected: common.String(), Actual: bodyType.String(), Context: "match arm",
			}
		}
	}
	if len(n.Arms) == 0 {
		return types.TUnit, nil
	}
	return common, nil
}

// bindPattern defines the names a pattern binds in armEnv. The pattern
// itself is typed only via structure, per spec §4.2: a literal pattern's
// value is not checked against scrutType, matching the source's behavior.
func (inf *inferer) bindPattern(pat ast.Pattern, scrutType types.Type, armEnv *env) error {
	switch pat.Kind {
	case ast.LiteralPattern:
		return nil

	case ast.IdentPattern:
		if pat.Ident != "_" {
			armEnv.define(pat.Ident, scrutType)
		}
		return nil

	case ast.EnumPattern:
		ct, ok := inf.customTypes.Get(pat.TypeName)
		if !ok {
			return &errs.UnboundName{Pos: pat.Pos, Name: pat.TypeName}
		}
		if ct.Kind != ast.EnumType {
			return &errs.NotAnEnum{Pos: pat.Pos, Type: pat.TypeName}
		}
		variant := findVariant(ct, pat.VariantName)
		if variant == nil {
			return &errs.VariantNotFound{Pos: pat.Pos, Type: pat.TypeName, Variant: pat.VariantName}
		}
		if len(pat.Binds) != len(variant.Payload) {
			return &errs.ArityMismatch{
				Pos: pat.Pos, Name: pat.TypeName + "." + pat.VariantName,
				Expected: len(variant.Payload), Got: len(pat.Binds),
			}
		}
		for i, bind := range pat.Binds {
			armEnv.define(bind, variant.Payload[i])
		}
		return nil

	default:
		panic(fmt.Sprintf("infer: unexpected pattern kind %d", pat.Kind))
	}
}

func findVariant(ct *ast.CustomType, name string) *ast.EnumVariant {
	for _, v := range ct.Variants {
		if v.Name == name {
			return v
		}
	}
	return nil
}

func findField(ct *ast.CustomType, name string) *ast.RecordField {
	for _, f := range ct.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// NewRecordInstance: the result type is Custom(record_name). For each
// supplied field, the declared field type is looked up and propagated onto
// the value sub-expression -- the single place inference writes into a
// sub-expression beyond the top-level AssociatedType, per spec §4.2.
func (inf *inferer) inferNewRecord(n *ast.NewRecordInstanceExpr, e *env) (types.Type, error) {
	ct, ok := inf.customTypes.Get(n.TypeName)
	if !ok {
		return types.Type{}, &errs.UnboundName{Pos: n.Pos, Name: n.TypeName}
	}
	if ct.Kind != ast.RecordType {
		return types.Type{}, &errs.NotARecord{Pos: n.Pos, Type: n.TypeName}
	}

	for i := range n.Fields {
		fld := &n.Fields[i]
		field := findField(ct, fld.Name)
		if field == nil {
			return types.Type{}, &errs.FieldNotFound{Pos: fld.Pos, Type: n.TypeName, Field: fld.Name}
		}
		valType, err := inf.inferExpr(fld.Value, e)
		if err != nil {
			return types.Type{}, err
		}
		if lit, ok := fld.Value.(*ast.LiteralExpr); ok && lit.Kind == ast.IntegerLit && field.Type.IsNumeric() {
			fld.Value.SetType(field.Type)
			continue
		}
		if !valType.Equal(field.Type) {
			return types.Type{}, &errs.TypeMismatch{
				Pos: fld.Value.Span(), Expected: field.Type.String(), Actual: valType.String(),
				Context: fmt.Sprintf("field %s of %s", fld.Name, n.TypeName),
			}
		}
	}
	return types.NewCustom(n.TypeName, nil), nil
}

// NewEnumInstance: the result type is Custom(enum_name); payload arguments
// are checked against the variant's declared payload types (supplemented:
// spec §4.2 does not specify this, but §4.3's aggregate layout section
// requires variant payloads to have known, checked types).
func (inf *inferer) inferNewEnum(n *ast.NewEnumInstanceExpr, e *env) (types.Type, error) {
	ct, ok := inf.customTypes.Get(n.TypeName)
	if !ok {
		return types.Type{}, &errs.UnboundName{Pos: n.Pos, Name: n.TypeName}
	}
	if ct.Kind != ast.EnumType {
		return types.Type{}, &errs.NotAnEnum{Pos: n.Pos, Type: n.TypeName}
	}
	variant := findVariant(ct, n.VariantName)
	if variant == nil {
		return types.Type{}, &errs.VariantNotFound{Pos: n.Pos, Type: n.TypeName, Variant: n.VariantName}
	}
	if len(n.Args) != len(variant.Payload) {
		return types.Type{}, &errs.ArityMismatch{
			Pos: n.Pos, Name: n.TypeName + "." + n.VariantName,
			Expected: len(variant.Payload), Got: len(n.Args),
		}
	}
	for i, a := range n.Args {
		t, err := inf.inferExpr(a, e)
		if err != nil {
			return types.Type{}, err
		}
		if !t.Equal(variant.Payload[i]) {
			return types.Type{}, &errs.TypeMismatch{
				Pos: a.Span(), Expected: variant.Payload[i].String(), Actual: t.String(),
				Context: fmt.Sprintf("payload %d of %s.%s", i+1, n.TypeName, n.VariantName),
			}
		}
	}
	return types.NewCustom(n.TypeName, nil), nil
}

// RecordAccess(var, field): var must resolve to a Custom record type; the
// field's declared type is the result, per spec §4.2.
func (inf *inferer) inferRecordAccess(n *ast.RecordAccessExpr, e *env) (types.Type, error) {
	varType, ok := e.lookup(n.Var)
	if !ok {
		return types.Type{}, &errs.UnboundName{Pos: n.Pos, Name: n.Var}
	}
	if varType.Kind() != types.Custom {
		return types.Type{}, &errs.NotARecord{Pos: n.Pos, Type: varType.String()}
	}
	ct, ok := inf.customTypes.Get(varType.CustomName())
	if !ok {
		return types.Type{}, &errs.UnboundName{Pos: n.Pos, Name: varType.CustomName()}
	}
	if ct.Kind != ast.RecordType {
		return types.Type{}, &errs.NotARecord{Pos: n.Pos, Type: varType.CustomName()}
	}
	field := findField(ct, n.Field)
	if field == nil {
		return types.Type{}, &errs.FieldNotFound{Pos: n.Pos, Type: varType.CustomName(), Field: n.Field}
	}
	return field.Type, nil
}
