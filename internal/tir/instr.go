package tir

import (
	"fmt"

	"github.com/joos1w/jcc1/internal/arena"
)

// InstKind is the closed instruction-variant tag from spec.md §5.
type InstKind int

const (
	InstKindAlloca InstKind = iota
	InstKindLoad
	InstKindStore
	InstKindBinary
	InstKindCompare
	InstKindICast
	InstKindGEP
	InstKindCall
	InstKindBr
	InstKindCondBr
	InstKindRet
	InstKindPhi
)

func (k InstKind) String() string {
	return [...]string{"alloca", "load", "store", "binary", "compare", "icast", "gep", "call", "br", "condbr", "ret", "phi"}[k]
}

// Instruction is the common surface every concrete instruction
// implements: it is both a Value (its SSA result, void-typed for
// store/br/condbr/ret) and a User (its operand list), plus the
// intrusive doubly-linked list pointers that let a BasicBlock splice
// instructions in O(1) without a backing slice.
type Instruction interface {
	Value
	arena.User
	Kind() InstKind
	Block() *BasicBlock
	Prev() Instruction
	Next() Instruction

	setBlock(*BasicBlock)
	setPrev(Instruction)
	setNext(Instruction)
}

// InstBase is embedded by every concrete instruction for the shared
// list-pointer, block-membership, and result-type bookkeeping.
type InstBase struct {
	arena.UserBase
	id         int
	kind       InstKind
	block      *BasicBlock
	prev, next Instruction
	resultType Type
	Name       string // optional SSA name, used only for textual dumps
}

func (b *InstBase) ValueID() int          { return b.id }
func (b *InstBase) Kind() InstKind        { return b.kind }
func (b *InstBase) Type() Type            { return b.resultType }
func (b *InstBase) Block() *BasicBlock    { return b.block }
func (b *InstBase) Prev() Instruction     { return b.prev }
func (b *InstBase) Next() Instruction     { return b.next }
func (b *InstBase) setBlock(bb *BasicBlock) { b.block = bb }
func (b *InstBase) setPrev(i Instruction)   { b.prev = i }
func (b *InstBase) setNext(i Instruction)   { b.next = i }

func (b *InstBase) String() string {
	if b.Name != "" {
		return "%" + b.Name
	}
	return fmt.Sprintf("%%t%d", b.id)
}

// arg is a small typed-operand convenience shared by every instruction's
// accessor methods, since arena.User.Operand returns arena.Value.
func arg(i Instruction, idx int) Value {
	v := i.Operand(idx)
	if v == nil {
		return nil
	}
	return v.(Value)
}

// AllocaInst reserves stack storage for one value of Elem, producing a
// pointer.
type AllocaInst struct {
	InstBase
	Elem Type
}

// Every instruction constructor below follows the same shape: allocate
// from the arena, call UserBase.Init(self), append operands, then
// assign ID/kind/result type.

func NewAlloca(ctx *Context, elem Type) *AllocaInst {
	i := arena.Track(ctx.arena, &AllocaInst{Elem: elem}, 48)
	i.UserBase.Init(i)
	i.id = ctx.nextValueID()
	i.kind = InstKindAlloca
	i.resultType = ctx.PointerType()
	return i
}

// LoadInst loads the value at Ptr.
type LoadInst struct{ InstBase }

func (l *LoadInst) Ptr() Value { return arg(l, 0) }

func NewLoad(ctx *Context, ptr Value, loadedType Type) *LoadInst {
	i := arena.Track(ctx.arena, &LoadInst{}, 40)
	i.UserBase.Init(i)
	i.AppendOperand(ptr)
	i.id = ctx.nextValueID()
	i.kind = InstKindLoad
	i.resultType = loadedType
	return i
}

// StoreInst stores Val at Ptr; it has no SSA result (void type).
type StoreInst struct{ InstBase }

func (s *StoreInst) Val() Value { return arg(s, 0) }
func (s *StoreInst) Ptr() Value { return arg(s, 1) }

func NewStore(ctx *Context, val, ptr Value) *StoreInst {
	i := arena.Track(ctx.arena, &StoreInst{}, 40)
	i.UserBase.Init(i)
	i.AppendOperand(val)
	i.AppendOperand(ptr)
	i.id = ctx.nextValueID()
	i.kind = InstKindStore
	i.resultType = ctx.VoidType()
	return i
}

// BinOp enumerates TIR's integer binary operators.
type BinOp int

const (
	BinAdd BinOp = iota
	BinSub
	BinMul
	BinDiv
	BinRem
	BinAnd
	BinOr
	BinXor
)

func (op BinOp) String() string {
	return [...]string{"add", "sub", "mul", "div", "rem", "and", "or", "xor"}[op]
}

// BinaryInst is a two-operand integer arithmetic/bitwise operator.
type BinaryInst struct {
	InstBase
	Op BinOp
}

func (b *BinaryInst) LHS() Value { return arg(b, 0) }
func (b *BinaryInst) RHS() Value { return arg(b, 1) }

func NewBinary(ctx *Context, op BinOp, lhs, rhs Value) *BinaryInst {
	i := arena.Track(ctx.arena, &BinaryInst{Op: op}, 48)
	i.UserBase.Init(i)
	i.AppendOperand(lhs)
	i.AppendOperand(rhs)
	i.id = ctx.nextValueID()
	i.kind = InstKindBinary
	i.resultType = lhs.Type()
	return i
}

// CmpOp enumerates TIR's integer comparison predicates.
type CmpOp int

const (
	CmpEq CmpOp = iota
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

func (op CmpOp) String() string {
	return [...]string{"eq", "ne", "lt", "le", "gt", "ge"}[op]
}

// CompareInst compares two operands, producing an i1 boolean.
type CompareInst struct {
	InstBase
	Op CmpOp
}

func (c *CompareInst) LHS() Value { return arg(c, 0) }
func (c *CompareInst) RHS() Value { return arg(c, 1) }

func NewCompare(ctx *Context, op CmpOp, lhs, rhs Value) *CompareInst {
	i := arena.Track(ctx.arena, &CompareInst{Op: op}, 48)
	i.UserBase.Init(i)
	i.AppendOperand(lhs)
	i.AppendOperand(rhs)
	i.id = ctx.nextValueID()
	i.kind = InstKindCompare
	i.resultType = ctx.IntType(1)
	return i
}

// ICastKind enumerates integer/pointer conversion casts.
type ICastKind int

const (
	ICastTrunc ICastKind = iota
	ICastZExt
	ICastSExt
	ICastPtrToInt
	ICastIntToPtr
	ICastBitcast
)

// ICastInst converts Val to To.
type ICastInst struct {
	InstBase
	CastKind ICastKind
}

func (c *ICastInst) Val() Value { return arg(c, 0) }

func NewICast(ctx *Context, kind ICastKind, val Value, to Type) *ICastInst {
	i := arena.Track(ctx.arena, &ICastInst{CastKind: kind}, 40)
	i.UserBase.Init(i)
	i.AppendOperand(val)
	i.id = ctx.nextValueID()
	i.kind = InstKindICast
	i.resultType = to
	return i
}

// GEPInst computes a derived pointer from Base plus Indices, the
// standard LLVM-style "address of a sub-object" primitive used to lower
// field access and array indexing.
type GEPInst struct {
	InstBase
	numIndices int
}

func (g *GEPInst) Base() Value { return arg(g, 0) }
func (g *GEPInst) Index(i int) Value { return arg(g, i+1) }
func (g *GEPInst) NumIndices() int   { return g.numIndices }

func NewGEP(ctx *Context, base Value, indices []Value) *GEPInst {
	i := arena.Track(ctx.arena, &GEPInst{numIndices: len(indices)}, 48)
	i.UserBase.Init(i)
	i.AppendOperand(base)
	for _, idx := range indices {
		i.AppendOperand(idx)
	}
	i.id = ctx.nextValueID()
	i.kind = InstKindGEP
	i.resultType = ctx.PointerType()
	return i
}

// CallInst calls Callee with Args, producing RetType (which may be
// void).
type CallInst struct {
	InstBase
	numArgs int
}

func (c *CallInst) Callee() Value      { return arg(c, 0) }
func (c *CallInst) Arg(i int) Value    { return arg(c, i+1) }
func (c *CallInst) NumArgs() int       { return c.numArgs }

func NewCall(ctx *Context, callee Value, args []Value, retType Type) *CallInst {
	i := arena.Track(ctx.arena, &CallInst{numArgs: len(args)}, 48)
	i.UserBase.Init(i)
	i.AppendOperand(callee)
	for _, a := range args {
		i.AppendOperand(a)
	}
	i.id = ctx.nextValueID()
	i.kind = InstKindCall
	i.resultType = retType
	return i
}

// BrInst is an unconditional or conditional branch. Cond is nil for an
// unconditional branch, in which case only TrueTarget() is meaningful.
type BrInst struct {
	InstBase
	conditional bool
}

func (b *BrInst) IsConditional() bool { return b.conditional }
func (b *BrInst) Cond() Value {
	if !b.conditional {
		return nil
	}
	return arg(b, 0)
}
func (b *BrInst) TrueTarget() *BasicBlock {
	if b.conditional {
		return arg(b, 1).(*BasicBlock)
	}
	return arg(b, 0).(*BasicBlock)
}
func (b *BrInst) FalseTarget() *BasicBlock {
	if !b.conditional {
		return nil
	}
	return arg(b, 2).(*BasicBlock)
}

func NewBr(ctx *Context, target *BasicBlock) *BrInst {
	i := arena.Track(ctx.arena, &BrInst{}, 32)
	i.UserBase.Init(i)
	i.AppendOperand(target)
	i.id = ctx.nextValueID()
	i.kind = InstKindBr
	i.resultType = ctx.VoidType()
	return i
}

func NewCondBr(ctx *Context, cond Value, t, f *BasicBlock) *BrInst {
	i := arena.Track(ctx.arena, &BrInst{conditional: true}, 40)
	i.UserBase.Init(i)
	i.AppendOperand(cond)
	i.AppendOperand(t)
	i.AppendOperand(f)
	i.id = ctx.nextValueID()
	i.kind = InstKindCondBr
	i.resultType = ctx.VoidType()
	return i
}

// RetInst returns Val (nil for a void return).
type RetInst struct {
	InstBase
	hasVal bool
}

func (r *RetInst) Val() Value {
	if !r.hasVal {
		return nil
	}
	return arg(r, 0)
}

func NewRet(ctx *Context, val Value) *RetInst {
	i := arena.Track(ctx.arena, &RetInst{hasVal: val != nil}, 32)
	i.UserBase.Init(i)
	if val != nil {
		i.AppendOperand(val)
	}
	i.id = ctx.nextValueID()
	i.kind = InstKindRet
	i.resultType = ctx.VoidType()
	return i
}

// PhiInst selects among IncomingValue(i) based on which predecessor
// block control flowed from, produced by mem2reg (internal/transform).
// Operands alternate [block0, value0, block1, value1, ...] so a single
// use-list serves both the incoming blocks and the incoming values.
type PhiInst struct{ InstBase }

func NewPhi(ctx *Context, ty Type) *PhiInst {
	i := arena.Track(ctx.arena, &PhiInst{}, 40)
	i.UserBase.Init(i)
	i.id = ctx.nextValueID()
	i.kind = InstKindPhi
	i.resultType = ty
	return i
}

// AddIncoming appends one (predecessor, value) pair.
func (p *PhiInst) AddIncoming(pred *BasicBlock, val Value) {
	p.AppendOperand(pred)
	p.AppendOperand(val)
}

func (p *PhiInst) NumIncoming() int { return p.NumOperands() / 2 }

func (p *PhiInst) IncomingBlock(i int) *BasicBlock { return arg(p, 2*i).(*BasicBlock) }
func (p *PhiInst) IncomingValue(i int) Value       { return arg(p, 2*i+1) }

// SetIncomingValue replaces the value half of the i-th incoming pair.
// mem2reg fills its phis with AddIncoming and does not call this.
func (p *PhiInst) SetIncomingValue(i int, val Value) {
	p.SetOperand(2*i+1, val)
}
