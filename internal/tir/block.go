package tir

// BasicBlock is a straight-line instruction sequence with a single
// entry and, once terminated, a single terminator instruction (br,
// condbr, or ret) as its last instruction. It is itself a Value (typed
// LabelType) so branch/phi operands can reference it directly through
// the same Use/User graph as every other TIR node.
type BasicBlock struct {
	valueBase
	Fn    *Function
	Name  string
	head  Instruction
	tail  Instruction
	Preds []*BasicBlock
	Succs []*BasicBlock
}

func (b *BasicBlock) Type() Type     { return &LabelType{} }
func (b *BasicBlock) String() string { return "%" + b.Name }

func newBasicBlock(ctx *Context, fn *Function, name string) *BasicBlock {
	b := &BasicBlock{Fn: fn, Name: name}
	b.id = ctx.nextValueID()
	return b
}

// First/Last expose the before-first/after-last sentinel positions: a
// nil First() means the block is empty; Last() is the terminator once
// one has been appended.
func (b *BasicBlock) First() Instruction { return b.head }
func (b *BasicBlock) Last() Instruction  { return b.tail }

// Instructions returns a snapshot slice in execution order, for callers
// that want random access instead of walking Next() pointers (transform
// passes that mutate the list while iterating use the pointer walk
// instead, per the Design Notes on iteration-during-mutation in
// internal/arena).
func (b *BasicBlock) Instructions() []Instruction {
	var out []Instruction
	for i := b.head; i != nil; i = i.Next() {
		out = append(out, i)
	}
	return out
}

// Append adds i at the after-last cursor position.
func (b *BasicBlock) Append(i Instruction) {
	i.setBlock(b)
	if b.tail == nil {
		b.head, b.tail = i, i
		return
	}
	b.tail.setNext(i)
	i.setPrev(b.tail)
	b.tail = i
}

// InsertBefore splices i immediately before mark, which must already be
// a member of b.
func (b *BasicBlock) InsertBefore(mark, i Instruction) {
	i.setBlock(b)
	prev := mark.Prev()
	i.setPrev(prev)
	i.setNext(mark)
	mark.setPrev(i)
	if prev == nil {
		b.head = i
	} else {
		prev.setNext(i)
	}
}

// Remove unlinks i from b's instruction list without destroying it;
// callers that also want to drop its operand use-edges call
// RemoveOperand themselves first (global DCE does this, per
// internal/transform).
func (b *BasicBlock) Remove(i Instruction) {
	prev, next := i.Prev(), i.Next()
	if prev != nil {
		prev.setNext(next)
	} else {
		b.head = next
	}
	if next != nil {
		next.setPrev(prev)
	} else {
		b.tail = prev
	}
	i.setPrev(nil)
	i.setNext(nil)
	i.setBlock(nil)
}

// Terminator returns the block's terminator instruction, or nil if the
// block has not been terminated yet (a builder invariant violation past
// the construction phase).
func (b *BasicBlock) Terminator() Instruction {
	if b.tail == nil {
		return nil
	}
	switch b.tail.Kind() {
	case InstKindBr, InstKindCondBr, InstKindRet:
		return b.tail
	default:
		return nil
	}
}

// addEdge maintains the Preds/Succs lists; SimplifyCFG
// (internal/transform) rebuilds these from scratch after each rewrite
// rather than patching them incrementally.
func addEdge(from, to *BasicBlock) {
	from.Succs = append(from.Succs, to)
	to.Preds = append(to.Preds, from)
}

// RebuildCFGEdges recomputes Preds/Succs for every block in fn from its
// terminators, discarding whatever edge lists were there before.
func RebuildCFGEdges(fn *Function) {
	for _, b := range fn.Blocks {
		b.Preds = nil
		b.Succs = nil
	}
	for _, b := range fn.Blocks {
		term := b.Terminator()
		if term == nil {
			continue
		}
		switch t := term.(type) {
		case *BrInst:
			if t.IsConditional() {
				addEdge(b, t.TrueTarget())
				addEdge(b, t.FalseTarget())
			} else {
				addEdge(b, t.TrueTarget())
			}
		}
	}
}
