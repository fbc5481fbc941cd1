package tir

// Builder holds an explicit insertion cursor: a target block plus an
// optional "insert before this instruction" mark. A nil mark means
// "append at the after-last position", matching the before-first/
// after-last iterator pair BasicBlock exposes.
type Builder struct {
	ctx    *Context
	block  *BasicBlock
	before Instruction
}

func NewBuilder(ctx *Context) *Builder { return &Builder{ctx: ctx} }

// SetInsertPoint moves the cursor to the after-last position of b.
func (b *Builder) SetInsertPoint(bb *BasicBlock) {
	b.block = bb
	b.before = nil
}

// SetInsertPointBefore moves the cursor to just before mark, within
// mark's own block.
func (b *Builder) SetInsertPointBefore(mark Instruction) {
	b.block = mark.Block()
	b.before = mark
}

func (b *Builder) insert(i Instruction) {
	if b.before != nil {
		b.block.InsertBefore(b.before, i)
	} else {
		b.block.Append(i)
	}
}

func (b *Builder) Alloca(elem Type) *AllocaInst {
	i := NewAlloca(b.ctx, elem)
	b.insert(i)
	return i
}

func (b *Builder) Load(ptr Value, loadedType Type) *LoadInst {
	i := NewLoad(b.ctx, ptr, loadedType)
	b.insert(i)
	return i
}

func (b *Builder) Store(val, ptr Value) *StoreInst {
	i := NewStore(b.ctx, val, ptr)
	b.insert(i)
	return i
}

func (b *Builder) Binary(op BinOp, lhs, rhs Value) *BinaryInst {
	i := NewBinary(b.ctx, op, lhs, rhs)
	b.insert(i)
	return i
}

func (b *Builder) Compare(op CmpOp, lhs, rhs Value) *CompareInst {
	i := NewCompare(b.ctx, op, lhs, rhs)
	b.insert(i)
	return i
}

func (b *Builder) ICast(kind ICastKind, val Value, to Type) *ICastInst {
	i := NewICast(b.ctx, kind, val, to)
	b.insert(i)
	return i
}

func (b *Builder) GEP(base Value, indices []Value) *GEPInst {
	i := NewGEP(b.ctx, base, indices)
	b.insert(i)
	return i
}

func (b *Builder) Call(callee Value, args []Value, retType Type) *CallInst {
	i := NewCall(b.ctx, callee, args, retType)
	b.insert(i)
	return i
}

func (b *Builder) Br(target *BasicBlock) *BrInst {
	i := NewBr(b.ctx, target)
	b.insert(i)
	return i
}

func (b *Builder) CondBr(cond Value, t, f *BasicBlock) *BrInst {
	i := NewCondBr(b.ctx, cond, t, f)
	b.insert(i)
	return i
}

func (b *Builder) Ret(val Value) *RetInst {
	i := NewRet(b.ctx, val)
	b.insert(i)
	return i
}

func (b *Builder) Phi(ty Type) *PhiInst {
	i := NewPhi(b.ctx, ty)
	b.insert(i)
	return i
}
