package transform

import (
	"github.com/joos1w/jcc1/internal/arena"
	"github.com/joos1w/jcc1/internal/tir"
)

// PromoteAllocas runs mem2reg over every promotable alloca in fn's entry
// block: phi placement via the dominance-frontier worklist, then a
// single dominator-tree-order renaming pass with a per-variable value
// stack. It returns whether anything was promoted.
//
// Grounded on the original jcc1 passes/transform/MemToReg.cc:
// canAllocaBeReplaced's three-case use check, the same worklist shape
// for iterated-dominance-frontier phi placement, and dominator-tree-order
// renaming. Each recursive call gets its own copy of the value-stack
// slice header, so a block's pushes vanish when its call returns,
// without explicit pops.
func PromoteAllocas(ctx *tir.Context, fn *tir.Function) bool {
	tir.RebuildCFGEdges(fn)
	entry := fn.Entry()
	if entry == nil {
		return false
	}
	dt := BuildDominatorTree(fn)

	var candidates []*tir.AllocaInst
	for _, i := range entry.Instructions() {
		if al, ok := i.(*tir.AllocaInst); ok && canAllocaBeReplaced(al) {
			candidates = append(candidates, al)
		}
	}
	if len(candidates) == 0 {
		return false
	}
	for _, al := range candidates {
		promoteOne(ctx, fn, dt, al)
	}
	return true
}

// canAllocaBeReplaced reports whether every use of al is a load or store
// through it (never the alloca's address itself escaping into another
// value, e.g. as a stored value, a call argument, or a GEP base).
func canAllocaBeReplaced(al *tir.AllocaInst) bool {
	for _, u := range al.Uses() {
		switch inst := u.User().(type) {
		case *tir.LoadInst:
			if inst.Ptr() != tir.Value(al) {
				return false
			}
		case *tir.StoreInst:
			if inst.Ptr() != tir.Value(al) || inst.Val() == tir.Value(al) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func promoteOne(ctx *tir.Context, fn *tir.Function, dt *DomTree, al *tir.AllocaInst) {
	defBlocks := map[*tir.BasicBlock]bool{}
	for _, u := range al.Uses() {
		if st, ok := u.User().(*tir.StoreInst); ok {
			defBlocks[st.Block()] = true
		}
	}

	phis := placePhis(ctx, fn, dt, al, defBlocks)
	// Every promotable alloca dominates all of its own uses, so its
	// undef seed is pushed once here and never explicitly popped: a
	// load reached before any dominating store resolves to it instead
	// of being left pointing at an alloca that promoteOne deletes below.
	renameAlloca(al, dt, fn.Entry(), phis, []tir.Value{ctx.UndefOf(al.Elem)})

	clearOperands(al)
	al.Block().Remove(al)
}

// placePhis inserts a placeholder phi of al's element type at the start
// of every block in the iterated dominance frontier of defBlocks.
func placePhis(ctx *tir.Context, fn *tir.Function, dt *DomTree, al *tir.AllocaInst, defBlocks map[*tir.BasicBlock]bool) map[*tir.BasicBlock]*tir.PhiInst {
	phis := map[*tir.BasicBlock]*tir.PhiInst{}
	worklist := make([]*tir.BasicBlock, 0, len(defBlocks))
	for b := range defBlocks {
		worklist = append(worklist, b)
	}
	for len(worklist) > 0 {
		b := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for _, f := range dt.Frontier(b) {
			if _, ok := phis[f]; ok {
				continue
			}
			phi := tir.NewPhi(ctx, al.Elem)
			if first := f.First(); first != nil {
				f.InsertBefore(first, phi)
			} else {
				f.Append(phi)
			}
			phis[f] = phi
			worklist = append(worklist, f)
		}
	}
	return phis
}

// renameAlloca walks the dominator tree from b, maintaining stack as the
// value stack for al's variable; stack is passed by value, so values
// pushed in b are seen by b's dominator-tree children but not by b's
// caller or siblings.
func renameAlloca(al *tir.AllocaInst, dt *DomTree, b *tir.BasicBlock, phis map[*tir.BasicBlock]*tir.PhiInst, stack []tir.Value) {
	if phi, ok := phis[b]; ok {
		stack = append(stack, phi)
	}

	var toRemove []tir.Instruction
	for _, inst := range b.Instructions() {
		switch v := inst.(type) {
		case *tir.StoreInst:
			if v.Ptr() == tir.Value(al) {
				stack = append(stack, v.Val())
				toRemove = append(toRemove, inst)
			}
		case *tir.LoadInst:
			if v.Ptr() == tir.Value(al) && len(stack) > 0 {
				cur := stack[len(stack)-1]
				arena.ReplaceAllUsesWith(v, cur)
				toRemove = append(toRemove, inst)
			}
		}
	}
	for _, inst := range toRemove {
		clearOperands(inst)
		b.Remove(inst)
	}

	if len(stack) > 0 {
		cur := stack[len(stack)-1]
		for _, s := range b.Succs {
			if phi, ok := phis[s]; ok {
				phi.AddIncoming(b, cur)
			}
		}
	}

	for _, child := range dt.Children(b) {
		renameAlloca(al, dt, child, phis, stack)
	}
}
