package backend

import "fmt"

// StackSlot identifies one stack-allocated region of a Function's activation
// record, per spec §4.3's aggregate-materialization rule and spec §6's
// "stack-slot allocation with an explicit size" capability.
type StackSlot struct {
	Size int
}

// Function builds one function's instructions, per spec §6's "function
// builder" capability. It is owned exclusively by its Module's codegen
// caller, matching spec §5's single-ownership requirement (the builder
// holds the only mutable reference to the function under construction).
type Function struct {
	Name       string
	Linkage    Linkage
	ParamSizes []int
	ReturnSize int

	blocks     []*Block
	cur        *Block
	params     []Value
	nextValue  Value
	stackSlots []StackSlot
	varSizes   map[Var]int
	varVals    map[Var]Value
	nextVar    Var
	finished   bool
}

func newFunction(name string, linkage Linkage, paramSizes []int, returnSize int) *Function {
	return &Function{
		Name: name, Linkage: linkage, ParamSizes: paramSizes, ReturnSize: returnSize,
		varSizes: make(map[Var]int), varVals: make(map[Var]Value),
	}
}

// CreateBlock appends a new, unsealed block to the function.
func (f *Function) CreateBlock() *Block {
	b := &Block{id: len(f.blocks)}
	f.blocks = append(f.blocks, b)
	return b
}

// SealBlock marks b as having all its predecessors known, per spec §6. Once
// sealed, the block accepts no further incoming-jump registration (tracked
// here purely as a flag; this facade does no reachability analysis beyond
// what Verify performs).
func (f *Function) SealBlock(b *Block) { b.sealed = true }

// SetCurrentBlock points subsequent instruction-emitting calls at b.
func (f *Function) SetCurrentBlock(b *Block) { f.cur = b }

// CurrentBlock returns the block instructions are currently appended to.
func (f *Function) CurrentBlock() *Block { return f.cur }

// AppendParam appends one function parameter and returns its Value, per
// spec §6's "parameter appending".
func (f *Function) AppendParam() Value {
	v := f.allocValue()
	f.params = append(f.params, v)
	return v
}

// Params returns the function's parameter values, in declaration order.
func (f *Function) Params() []Value { return f.params }

func (f *Function) allocValue() Value {
	v := f.nextValue
	f.nextValue++
	return v
}

// DeclareVar allocates a fresh Var of the given byte size, per spec §6's
// "declare_var".
func (f *Function) DeclareVar(size int) Var {
	v := f.nextVar
	f.nextVar++
	f.varSizes[v] = size
	return v
}

// DefVar binds var to val, per spec §6's "def_var". Per the Var doc comment,
// this simply overwrites the variable's current binding.
func (f *Function) DefVar(v Var, val Value) { f.varVals[v] = val }

// UseVar reads var's current binding, per spec §6's "use_var".
func (f *Function) UseVar(v Var) (Value, bool) {
	val, ok := f.varVals[v]
	return val, ok
}

// AllocStackSlot reserves a stack-allocated region of the given byte size
// and returns its handle, per spec §4.3's aggregate layout rule and spec
// §6's "stack-slot allocation with an explicit size".
func (f *Function) AllocStackSlot(size int) int {
	f.stackSlots = append(f.stackSlots, StackSlot{Size: size})
	return len(f.stackSlots) - 1
}

func (f *Function) emit(instr Instr) Value {
	instr.Result = noValue
	if f.cur == nil {
		panic(fmt.Sprintf("backend: function %s: no current block", f.Name))
	}
	if f.cur.terminated() {
		panic(fmt.Sprintf("backend: function %s: block %d already terminated", f.Name, f.cur.id))
	}
	f.cur.instrs = append(f.cur.instrs, instr)
	return noValue
}

func (f *Function) emitResult(instr Instr) Value {
	v := f.allocValue()
	instr.Result = v
	if f.cur == nil {
		panic(fmt.Sprintf("backend: function %s: no current block", f.Name))
	}
	if f.cur.terminated() {
		panic(fmt.Sprintf("backend: function %s: block %d already terminated", f.Name, f.cur.id))
	}
	f.cur.instrs = append(f.cur.instrs, instr)
	return v
}

// Iadd/Isub/Imul/Band/Bor/Bxor emit the named binary integer SSA
// instruction over lhs and rhs, per spec §4.3's BinaryOp emission table.
func (f *Function) Iadd(w IntWidth, lhs, rhs Value) Value { return f.binInt(Iadd, w, lhs, rhs) }
func (f *Function) Isub(w IntWidth, lhs, rhs Value) Value { return f.binInt(Isub, w, lhs, rhs) }
func (f *Function) Imul(w IntWidth, lhs, rhs Value) Value { return f.binInt(Imul, w, lhs, rhs) }
func (f *Function) Band(w IntWidth, lhs, rhs Value) Value { return f.binInt(Band, w, lhs, rhs) }
func (f *Function) Bor(w IntWidth, lhs, rhs Value) Value  { return f.binInt(Bor, w, lhs, rhs) }
func (f *Function) Bxor(w IntWidth, lhs, rhs Value) Value { return f.binInt(Bxor, w, lhs, rhs) }

// Sdiv/Udiv/Srem/Urem are the supplemented signed/unsigned Div and Mod path.
func (f *Function) Sdiv(w IntWidth, lhs, rhs Value) Value { return f.binInt(Sdiv, w, lhs, rhs) }
func (f *Function) Udiv(w IntWidth, lhs, rhs Value) Value { return f.binInt(Udiv, w, lhs, rhs) }
func (f *Function) Srem(w IntWidth, lhs, rhs Value) Value { return f.binInt(Srem, w, lhs, rhs) }
func (f *Function) Urem(w IntWidth, lhs, rhs Value) Value { return f.binInt(Urem, w, lhs, rhs) }

func (f *Function) binInt(op Opcode, w IntWidth, lhs, rhs Value) Value {
	return f.emitResult(Instr{Op: op, Args: []Value{lhs, rhs}, IntWidth: w})
}

// Icmp emits an integer comparison under the given predicate, per spec
// §4.3's Eq/NotEq pair and the supplemented ordered predicates.
func (f *Function) Icmp(pred Predicate, w IntWidth, lhs, rhs Value) Value {
	return f.emitResult(Instr{Op: Icmp, Args: []Value{lhs, rhs}, IntWidth: w, Predicate: pred})
}

// Iconst emits an integer constant of the given width, per spec §4.3's
// Literal Integer emission rule.
func (f *Function) Iconst(w IntWidth, imm int64) Value {
	return f.emitResult(Instr{Op: Iconst, IntWidth: w, ImmInt: imm})
}

// F32const/F64const emit a floating-point constant, per spec §4.3's Literal
// Float emission rule.
func (f *Function) F32const(imm float64) Value {
	return f.emitResult(Instr{Op: F32const, FloatWidth: FW32, ImmFloat: imm})
}
func (f *Function) F64const(imm float64) Value {
	return f.emitResult(Instr{Op: F64const, FloatWidth: FW64, ImmFloat: imm})
}

// Fadd/Fsub/Fmul/Fdiv emit the named binary floating-point SSA instruction,
// the facade's addition covering the float BinaryOp case spec §6's
// capability list omits (see the Opcode doc).
func (f *Function) Fadd(w FloatWidth, lhs, rhs Value) Value { return f.binFloat(Fadd, w, lhs, rhs) }
func (f *Function) Fsub(w FloatWidth, lhs, rhs Value) Value { return f.binFloat(Fsub, w, lhs, rhs) }
func (f *Function) Fmul(w FloatWidth, lhs, rhs Value) Value { return f.binFloat(Fmul, w, lhs, rhs) }
func (f *Function) Fdiv(w FloatWidth, lhs, rhs Value) Value { return f.binFloat(Fdiv, w, lhs, rhs) }

func (f *Function) binFloat(op Opcode, w FloatWidth, lhs, rhs Value) Value {
	return f.emitResult(Instr{Op: op, Args: []Value{lhs, rhs}, FloatWidth: w})
}

// Fcmp emits a floating-point comparison under the given predicate.
func (f *Function) Fcmp(pred Predicate, w FloatWidth, lhs, rhs Value) Value {
	return f.emitResult(Instr{Op: Fcmp, Args: []Value{lhs, rhs}, FloatWidth: w, Predicate: pred})
}

// Call emits a call to callee with args, returning its single result value,
// per spec §4.3's FunctionCall emission rule.
func (f *Function) Call(callee string, args []Value) Value {
	return f.emitResult(Instr{Op: Call, Args: args, Callee: callee})
}

// Return terminates the current block, returning val.
func (f *Function) Return(val Value) {
	f.emit(Instr{Op: Return, Args: []Value{val}})
}

// StackAddr returns the address of stack slot, per spec §4.3's record/enum
// aggregate layout rule ("the record value handed to the caller is the
// stack-slot address").
func (f *Function) StackAddr(slot int) Value {
	return f.emitResult(Instr{Op: StackAddr, Slot: slot})
}

// StackStore stores val at byte offset off from addr (a StackAddr result),
// per spec §4.3's "constructors emit a stack_store per field".
func (f *Function) StackStore(addr, val Value, off int) {
	f.emit(Instr{Op: StackStore, Args: []Value{addr, val}, ImmInt: int64(off)})
}

// Load reads size bytes at byte offset off from addr.
func (f *Function) Load(addr Value, off, size int) Value {
	return f.emitResult(Instr{Op: Load, Args: []Value{addr}, ImmInt: int64(off), IntWidth: IntWidth(size * 8)})
}

// Jump terminates the current block with an unconditional branch to target.
func (f *Function) Jump(target *Block) {
	f.emit(Instr{Op: Jump, Target: target})
}

// Brif terminates the current block, branching to thenBlk if cond is
// nonzero, elseBlk otherwise — the facade's addition (see Opcode doc)
// realizing spec §9's match-compilation design.
func (f *Function) Brif(cond Value, thenBlk, elseBlk *Block) {
	f.emit(Instr{Op: Brif, Args: []Value{cond}, Target: thenBlk, ElseTarget: elseBlk})
}
