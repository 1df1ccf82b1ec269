package codegen

import (
	"fmt"

	"github.com/mna/elk/lang/ast"
	"github.com/mna/elk/lang/backend"
	"github.com/mna/elk/lang/errs"
	"github.com/mna/elk/lang/types"
)

// emitFunctionLikeBody emits a function or entry-point body's statements and
// trailing expression into fn's current block, per spec §4.3's Statement
// emission rules, terminating the block with a Return. If the block's last
// statement is an explicit return, that statement's Return already
// terminates the block and the (unreachable) trailing Final is never
// emitted, mirroring lang/infer's blockEndsInReturn handling.
func (cg *Codegen) emitFunctionLikeBody(fn *backend.Function, b *ast.Block) error {
	for _, stmt := range b.Stmts {
		switch s := stmt.(type) {
		case *ast.AssignStmt:
			val, err := cg.emitExpr(fn, s.Right)
			if err != nil {
				return err
			}
			t := s.Right.Type()
			v := fn.DeclareVar(t.Size(cg.ptrSize))
			fn.DefVar(v, val)
			cg.scope.defineVar(s.Name, Var{backend: v, size: t.Size(cg.ptrSize)}, t)

		case *ast.ReturnStmt:
			val, err := cg.emitExpr(fn, s.Value)
			if err != nil {
				return err
			}
			fn.Return(val)
			return nil

		default:
			panic(fmt.Sprintf("codegen: unexpected stmt %T", stmt))
		}
	}
	val, err := cg.emitExpr(fn, b.Final)
	if err != nil {
		return err
	}
	fn.Return(val)
	return nil
}

func (cg *Codegen) emitExpr(fn *backend.Function, e ast.Expr) (backend.Value, error) {
	switch n := e.(type) {
	case *ast.LiteralExpr:
		return cg.emitLiteral(fn, n), nil
	case *ast.IdentExpr:
		return cg.emitIdent(fn, n)
	case *ast.UnitExpr:
		return cg.emitUnit(fn), nil
	case *ast.BinaryOpExpr:
		return cg.emitBinaryOp(fn, n)
	case *ast.UnaryOpExpr:
		return cg.emitUnaryOp(fn, n)
	case *ast.FunctionCallExpr:
		return cg.emitFunctionCall(fn, n)
	case *ast.MatchExpr:
		return cg.emitMatch(fn, n)
	case *ast.NewRecordInstanceExpr:
		return cg.emitNewRecord(fn, n)
	case *ast.NewEnumInstanceExpr:
		return cg.emitNewEnum(fn, n)
	case *ast.RecordAccessExpr:
		return cg.emitRecordAccess(fn, n)
	default:
		panic(fmt.Sprintf("codegen: unexpected expr %T", e))
	}
}

// emitUnit materializes spec §4.3's "Unit is not materialized; an expression
// of type Unit emits a 32-bit zero constant as a stand-in".
func (cg *Codegen) emitUnit(fn *backend.Function) backend.Value {
	return fn.Iconst(backend.W32, 0)
}

func (cg *Codegen) emitLiteral(fn *backend.Function, n *ast.LiteralExpr) backend.Value {
	t := n.Type()
	switch n.Kind {
	case ast.IntegerLit:
		return fn.Iconst(intWidthOf(t, cg.ptrSize), int64(n.Int))
	case ast.FloatLit:
		if t.Kind() == types.F32 {
			return fn.F32const(n.Float)
		}
		return fn.F64const(n.Float)
	case ast.BoolLit:
		var iv int64
		if n.Bool {
			iv = 1
		}
		return fn.Iconst(backend.W8, iv)
	case ast.StringLit:
		// No string-constant SSA instruction exists anywhere in spec §6's
		// capability surface (only f32const/f64const name a constant-
		// materializing op). A zero pointer is used as a structural stand-in,
		// the same treatment spec §4.3 gives Unit; string content is never
		// read back by anything this facade emits.
		return fn.Iconst(backend.IntWidth(cg.ptrSize*8), 0)
	default:
		panic(fmt.Sprintf("codegen: unexpected literal kind %d", n.Kind))
	}
}

func (cg *Codegen) emitIdent(fn *backend.Function, n *ast.IdentExpr) (backend.Value, error) {
	b, ok := cg.scope.lookupVar(n.Name)
	if !ok {
		return 0, &errs.UnboundName{Pos: n.Pos, Name: n.Name}
	}
	val, _ := fn.UseVar(b.v.backend)
	return val, nil
}

// emitBinaryOp recurses on both operands then emits the SSA instruction
// spec §4.3's table names, plus the supplemented Div/Mod/ordered-comparison
// path (dispatched on the operand type's signedness) and the facade's float
// arithmetic addition (see backend.Opcode's doc).
func (cg *Codegen) emitBinaryOp(fn *backend.Function, n *ast.BinaryOpExpr) (backend.Value, error) {
	lhs, err := cg.emitExpr(fn, n.Lhs)
	if err != nil {
		return 0, err
	}
	rhs, err := cg.emitExpr(fn, n.Rhs)
	if err != nil {
		return 0, err
	}

	opType := n.Lhs.Type() // n.Rhs.Type() is the same type, per lang/infer's BinaryOp rule.
	if opType.IsFloat() {
		w := floatWidthOf(opType)
		switch n.Op {
		case ast.OpAdd:
			return fn.Fadd(w, lhs, rhs), nil
		case ast.OpSub:
			return fn.Fsub(w, lhs, rhs), nil
		case ast.OpMul:
			return fn.Fmul(w, lhs, rhs), nil
		case ast.OpDiv:
			return fn.Fdiv(w, lhs, rhs), nil
		case ast.OpEq:
			return fn.Fcmp(backend.Eq, w, lhs, rhs), nil
		case ast.OpNotEq:
			return fn.Fcmp(backend.NotEq, w, lhs, rhs), nil
		case ast.OpLt:
			return fn.Fcmp(backend.Lt, w, lhs, rhs), nil
		case ast.OpGt:
			return fn.Fcmp(backend.Gt, w, lhs, rhs), nil
		case ast.OpLe:
			return fn.Fcmp(backend.Le, w, lhs, rhs), nil
		case ast.OpGe:
			return fn.Fcmp(backend.Ge, w, lhs, rhs), nil
		default:
			panic(fmt.Sprintf("codegen: unsupported float binary op %d", n.Op))
		}
	}

	w := intWidthOf(opType, cg.ptrSize)
	signed := opType.IsSigned()
	switch n.Op {
	case ast.OpAdd:
		return fn.Iadd(w, lhs, rhs), nil
	case ast.OpSub:
		return fn.Isub(w, lhs, rhs), nil
	case ast.OpMul:
		return fn.Imul(w, lhs, rhs), nil
	case ast.OpAnd:
		return fn.Band(w, lhs, rhs), nil
	case ast.OpOr:
		return fn.Bor(w, lhs, rhs), nil
	case ast.OpXor:
		return fn.Bxor(w, lhs, rhs), nil
	case ast.OpDiv:
		if signed {
			return fn.Sdiv(w, lhs, rhs), nil
		}
		return fn.Udiv(w, lhs, rhs), nil
	case ast.OpMod:
		if signed {
			return fn.Srem(w, lhs, rhs), nil
		}
		return fn.Urem(w, lhs, rhs), nil
	case ast.OpEq:
		return fn.Icmp(backend.Eq, w, lhs, rhs), nil
	case ast.OpNotEq:
		return fn.Icmp(backend.NotEq, w, lhs, rhs), nil
	case ast.OpLt:
		return fn.Icmp(backend.Lt, w, lhs, rhs), nil
	case ast.OpGt:
		return fn.Icmp(backend.Gt, w, lhs, rhs), nil
	case ast.OpLe:
		return fn.Icmp(backend.Le, w, lhs, rhs), nil
	case ast.OpGe:
		return fn.Icmp(backend.Ge, w, lhs, rhs), nil
	default:
		panic(fmt.Sprintf("codegen: unexpected binary op %d", n.Op))
	}
}

func (cg *Codegen) emitUnaryOp(fn *backend.Function, n *ast.UnaryOpExpr) (backend.Value, error) {
	val, err := cg.emitExpr(fn, n.Operand)
	if err != nil {
		return 0, err
	}
	t := n.Operand.Type()

	switch n.Op {
	case ast.OpNeg:
		if t.IsFloat() {
			w := floatWidthOf(t)
			var zero backend.Value
			if w == backend.FW32 {
				zero = fn.F32const(0)
			} else {
				zero = fn.F64const(0)
			}
			return fn.Fsub(w, zero, val), nil
		}
		w := intWidthOf(t, cg.ptrSize)
		return fn.Isub(w, fn.Iconst(w, 0), val), nil

	case ast.OpNot:
		w := intWidthOf(t, cg.ptrSize)
		return fn.Bxor(w, val, fn.Iconst(w, -1)), nil

	default:
		panic(fmt.Sprintf("codegen: unexpected unary op %d", n.Op))
	}
}

// emitFunctionCall recurses on each argument and emits a call, per spec
// §4.3. Every callee was already declared module-wide in emission-order
// step 2, so this facade's Call instruction (which names its callee
// directly, see backend.Instr) needs no further per-function declaration
// the way a real reference-counted import table would.
func (cg *Codegen) emitFunctionCall(fn *backend.Function, n *ast.FunctionCallExpr) (backend.Value, error) {
	args := make([]backend.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := cg.emitExpr(fn, a)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}
	return fn.Call(n.Name, args), nil
}

// emitNewRecord allocates a stack slot sized for the record, stores each
// field at its canonical offset, and hands back the slot's address, per
// spec §4.3's "the record value handed to the caller is the stack-slot
// address".
func (cg *Codegen) emitNewRecord(fn *backend.Function, n *ast.NewRecordInstanceExpr) (backend.Value, error) {
	size := cg.recordSizes[n.TypeName]
	offsets := cg.recordOffsets[n.TypeName]
	slot := fn.AllocStackSlot(size)
	addr := fn.StackAddr(slot)
	for _, fld := range n.Fields {
		val, err := cg.emitExpr(fn, fld.Value)
		if err != nil {
			return 0, err
		}
		fn.StackStore(addr, val, offsets[fld.Name])
	}
	return addr, nil
}

func (cg *Codegen) emitRecordAccess(fn *backend.Function, n *ast.RecordAccessExpr) (backend.Value, error) {
	b, ok := cg.scope.lookupVar(n.Var)
	if !ok {
		return 0, &errs.UnboundName{Pos: n.Pos, Name: n.Var}
	}
	addr, _ := fn.UseVar(b.v.backend)

	typeName := b.t.CustomName()
	ct, _ := cg.scope.lookupType(typeName)
	field := findRecordField(ct, n.Field)
	offset := cg.recordOffsets[typeName][n.Field]
	return fn.Load(addr, offset, field.Type.Size(cg.ptrSize)), nil
}

// emitNewEnum allocates a stack slot sized for the enum's conservative
// upper-bound layout, stores the discriminant at byte 0, then stores each
// payload argument at its variant's fixed offset, per spec §4.3 and the
// supplemented enumPayloadLayout.
func (cg *Codegen) emitNewEnum(fn *backend.Function, n *ast.NewEnumInstanceExpr) (backend.Value, error) {
	ct, _ := cg.scope.lookupType(n.TypeName)
	variant := findEnumVariant(ct, n.VariantName)

	size := cg.enumSizes[n.TypeName]
	offsets := cg.enumOffsets[n.TypeName][n.VariantName]

	slot := fn.AllocStackSlot(size)
	addr := fn.StackAddr(slot)
	fn.StackStore(addr, fn.Iconst(backend.W8, int64(variant.Discriminant)), 0)

	for i, arg := range n.Args {
		val, err := cg.emitExpr(fn, arg)
		if err != nil {
			return 0, err
		}
		fn.StackStore(addr, val, offsets[i])
	}
	return addr, nil
}

// emitMatch implements spec §9's minimal match-compilation design: compile
// the scrutinee once, lower each arm as a discriminant- or value-equality-
// keyed conditional branch block, and join the arms' results through one
// shared stack slot. The last arm is unconditional (this language has no
// exhaustiveness check, so the last arm is always taken as the default),
// avoiding a final Brif with no "else" target.
//
// The join deliberately does not use a backend Var for the result: this
// facade's DefVar/UseVar (function.go) is a flat per-function map with no
// block-local resolution or phi/block-parameter construction, so a Var
// written by more than one predecessor block resolves to whichever DefVar
// call happened to run last during emission, not the value produced by the
// arm actually taken at runtime. A stack slot has no such ambiguity: each
// arm stores its value before jumping to the join block, which then loads
// it back — the same memory-mediated pattern emitNewRecord/emitNewEnum
// already use to hand a value across instruction boundaries.
func (cg *Codegen) emitMatch(fn *backend.Function, n *ast.MatchExpr) (backend.Value, error) {
	if len(n.Arms) == 0 {
		return cg.emitUnit(fn), nil
	}

	scrutVal, err := cg.emitExpr(fn, n.Scrutinee)
	if err != nil {
		return 0, err
	}
	scrutType := n.Scrutinee.Type()

	resultSize := n.Type().Size(cg.ptrSize)
	resultSlot := fn.AllocStackSlot(resultSize)
	joinBlock := fn.CreateBlock()

	cur := fn.CurrentBlock()
	for i, arm := range n.Arms {
		isLast := i == len(n.Arms)-1

		var bodyBlock, nextBlock *backend.Block
		if isLast {
			bodyBlock = cur
		} else {
			fn.SetCurrentBlock(cur)
			cond, err := cg.emitPatternCond(fn, arm.Pattern, scrutVal, scrutType)
			if err != nil {
				return 0, err
			}
			bodyBlock = fn.CreateBlock()
			nextBlock = fn.CreateBlock()
			fn.Brif(cond, bodyBlock, nextBlock)
			fn.SealBlock(cur)
		}

		if err := cg.scope.scoped(func() error {
			fn.SetCurrentBlock(bodyBlock)
			cg.bindPatternVars(fn, arm.Pattern, scrutVal, scrutType)
			val, err := cg.emitExpr(fn, arm.Body)
			if err != nil {
				return err
			}
			fn.StackStore(fn.StackAddr(resultSlot), val, 0)
			fn.Jump(joinBlock)
			return nil
		}); err != nil {
			return 0, err
		}
		fn.SealBlock(bodyBlock)

		cur = nextBlock
	}

	fn.SealBlock(joinBlock)
	fn.SetCurrentBlock(joinBlock)
	return fn.Load(fn.StackAddr(resultSlot), 0, resultSize), nil
}

func (cg *Codegen) emitPatternCond(fn *backend.Function, pat ast.Pattern, scrutVal backend.Value, scrutType types.Type) (backend.Value, error) {
	switch pat.Kind {
	case ast.IdentPattern:
		return fn.Iconst(backend.W8, 1), nil

	case ast.LiteralPattern:
		return cg.emitLiteralPatternCond(fn, pat.Literal, scrutVal, scrutType), nil

	case ast.EnumPattern:
		ct, ok := cg.scope.lookupType(scrutType.CustomName())
		if !ok {
			return 0, &errs.UnboundName{Pos: pat.Pos, Name: scrutType.CustomName()}
		}
		variant := findEnumVariant(ct, pat.VariantName)
		if variant == nil {
			return 0, &errs.VariantNotFound{Pos: pat.Pos, Type: scrutType.CustomName(), Variant: pat.VariantName}
		}
		disc := fn.Load(scrutVal, 0, 1)
		want := fn.Iconst(backend.W8, int64(variant.Discriminant))
		return fn.Icmp(backend.Eq, backend.W8, disc, want), nil

	default:
		panic(fmt.Sprintf("codegen: unexpected pattern kind %d", pat.Kind))
	}
}

// emitLiteralPatternCond compares the scrutinee against a literal pattern's
// payload, interpreted under scrutType (the literal's own AssociatedType is
// never set, per lang/infer's bindPattern: "a literal pattern's value is not
// checked against scrutType"). A String-typed scrutinee is an accepted
// limitation: the backend capability surface exposes no string constant or
// comparison instruction, so a String literal pattern never matches.
func (cg *Codegen) emitLiteralPatternCond(fn *backend.Function, lit *ast.LiteralExpr, scrutVal backend.Value, scrutType types.Type) backend.Value {
	switch {
	case scrutType.IsInteger():
		w := intWidthOf(scrutType, cg.ptrSize)
		return fn.Icmp(backend.Eq, w, scrutVal, fn.Iconst(w, int64(lit.Int)))

	case scrutType.Kind() == types.Bool:
		var iv int64
		if lit.Bool {
			iv = 1
		}
		return fn.Icmp(backend.Eq, backend.W8, scrutVal, fn.Iconst(backend.W8, iv))

	case scrutType.IsFloat():
		w := floatWidthOf(scrutType)
		var want backend.Value
		if w == backend.FW32 {
			want = fn.F32const(lit.Float)
		} else {
			want = fn.F64const(lit.Float)
		}
		return fn.Fcmp(backend.Eq, w, scrutVal, want)

	default:
		return fn.Iconst(backend.W8, 0)
	}
}

func (cg *Codegen) bindPatternVars(fn *backend.Function, pat ast.Pattern, scrutVal backend.Value, scrutType types.Type) {
	switch pat.Kind {
	case ast.IdentPattern:
		if pat.Ident == "_" {
			return
		}
		v := fn.DeclareVar(scrutType.Size(cg.ptrSize))
		fn.DefVar(v, scrutVal)
		cg.scope.defineVar(pat.Ident, Var{backend: v, size: scrutType.Size(cg.ptrSize)}, scrutType)

	case ast.EnumPattern:
		ct, _ := cg.scope.lookupType(scrutType.CustomName())
		variant := findEnumVariant(ct, pat.VariantName)
		offsets := cg.enumOffsets[ct.Name][pat.VariantName]
		for i, bind := range pat.Binds {
			if bind == "_" {
				continue
			}
			pt := variant.Payload[i]
			size := pt.Size(cg.ptrSize)
			val := fn.Load(scrutVal, offsets[i], size)
			v := fn.DeclareVar(size)
			fn.DefVar(v, val)
			cg.scope.defineVar(bind, Var{backend: v, size: size}, pt)
		}

	case ast.LiteralPattern:
		// Nothing to bind.
	}
}

func findEnumVariant(ct *ast.CustomType, name string) *ast.EnumVariant {
	for _, v := range ct.Variants {
		if v.Name == name {
			return v
		}
	}
	return nil
}

func findRecordField(ct *ast.CustomType, name string) *ast.RecordField {
	for _, f := range ct.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}
