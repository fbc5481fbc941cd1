// Package transform implements the TIR-to-TIR passes of spec.md §5.3:
// CFG simplification to a fixed point, global dead-code elimination,
// dominator-tree construction, and mem2reg SSA construction.
//
// Grounded on the teacher's internal/bytecode/optimizer.go (peephole
// fixed-point loop over one function) for the driving shape, and on
// the original jcc1 C++ implementation's
// passes/transform/SimplifyCFG.cc, passes/transform/GlobalDCE.cc,
// passes/analysis/DominatorTree.cc (Cooper-Harvey-Kennedy), and
// passes/transform/MemToReg.cc (Cytron et al. SSA construction) for the
// exact worklist shapes where spec.md is silent on a detail.
package transform

import (
	"github.com/joos1w/jcc1/internal/tir"
)

// SimplifyCFG runs every local CFG-simplification rule to a fixed point:
// dead/post-terminator instruction removal, single-pred/single-succ
// block merging, one-branch jump threading, and unreachable-block
// removal. It returns whether anything changed.
func SimplifyCFG(fn *tir.Function) bool {
	changed := false
	for {
		tir.RebuildCFGEdges(fn)
		round := false
		round = trimPostTerminator(fn) || round
		tir.RebuildCFGEdges(fn)
		round = mergeStraightLineBlocks(fn) || round
		tir.RebuildCFGEdges(fn)
		round = threadEmptyJumpBlocks(fn) || round
		tir.RebuildCFGEdges(fn)
		round = removeUnreachableBlocks(fn) || round
		if !round {
			break
		}
		changed = true
	}
	return changed
}

// trimPostTerminator deletes any instruction appearing after a block's
// first terminator (dead by construction; a well-formed builder never
// produces this, but a rewrite pass earlier in the pipeline might leave
// one behind).
func trimPostTerminator(fn *tir.Function) bool {
	changed := false
	for _, b := range fn.Blocks {
		seenTerm := false
		var toRemove []tir.Instruction
		for _, i := range b.Instructions() {
			if seenTerm {
				toRemove = append(toRemove, i)
				continue
			}
			if isTerminator(i) {
				seenTerm = true
			}
		}
		for _, i := range toRemove {
			clearOperands(i)
			b.Remove(i)
			changed = true
		}
	}
	return changed
}

func isTerminator(i tir.Instruction) bool {
	switch i.Kind() {
	case tir.InstKindBr, tir.InstKindCondBr, tir.InstKindRet:
		return true
	default:
		return false
	}
}

// clearOperands drops an instruction's own use edges before it is
// unlinked, so the values it used don't retain a dangling Use pointing
// at an instruction no longer in any block.
func clearOperands(i tir.Instruction) {
	for j := i.NumOperands() - 1; j >= 0; j-- {
		i.RemoveOperand(j)
	}
}

// mergeStraightLineBlocks folds b's unique successor s into b when s has
// exactly one predecessor (b), by
// deleting b's terminator and splicing s's instructions onto the end of
// b, then removing s.
func mergeStraightLineBlocks(fn *tir.Function) bool {
	changed := false
	for _, b := range fn.Blocks {
		if len(b.Succs) != 1 {
			continue
		}
		s := b.Succs[0]
		if s == b || s == fn.Entry() || len(s.Preds) != 1 {
			continue
		}
		term := b.Terminator()
		if term == nil || term.Kind() != tir.InstKindBr {
			continue
		}
		clearOperands(term)
		b.Remove(term)
		for _, i := range s.Instructions() {
			s.Remove(i)
			b.Append(i)
		}
		retargetPhisAwayFrom(fn, s, b)
		fn.RemoveBlock(s)
		changed = true
	}
	return changed
}

// threadEmptyJumpBlocks removes a block whose only content is an
// unconditional branch to target, redirecting every predecessor's
// branch operand to target directly.
func threadEmptyJumpBlocks(fn *tir.Function) bool {
	changed := false
	for _, b := range fn.Blocks {
		if b == fn.Entry() {
			continue
		}
		insts := b.Instructions()
		if len(insts) != 1 || insts[0].Kind() != tir.InstKindBr {
			continue
		}
		br := insts[0].(*tir.BrInst)
		if br.IsConditional() {
			continue
		}
		target := br.TrueTarget()
		if target == b {
			continue
		}
		for _, pred := range append([]*tir.BasicBlock(nil), b.Preds...) {
			redirectBranch(pred, b, target)
		}
		retargetPhisAwayFrom(fn, b, target)
		changed = true
	}
	return changed
}

// redirectBranch rewrites every operand of pred's terminator that
// points at oldTarget to point at newTarget instead.
func redirectBranch(pred, oldTarget, newTarget *tir.BasicBlock) {
	term := pred.Terminator()
	if term == nil {
		return
	}
	br, ok := term.(*tir.BrInst)
	if !ok {
		return
	}
	if !br.IsConditional() {
		if br.TrueTarget() == oldTarget {
			br.SetOperand(0, newTarget)
		}
		return
	}
	if br.TrueTarget() == oldTarget {
		br.SetOperand(1, newTarget)
	}
	if br.FalseTarget() == oldTarget {
		br.SetOperand(2, newTarget)
	}
}

// retargetPhisAwayFrom rewrites any phi in fn whose incoming-block
// operand is old to instead name new, used when old's instructions (and
// its identity as a predecessor) are being absorbed into new.
func retargetPhisAwayFrom(fn *tir.Function, old, repl *tir.BasicBlock) {
	for _, b := range fn.Blocks {
		for _, i := range b.Instructions() {
			phi, ok := i.(*tir.PhiInst)
			if !ok {
				continue
			}
			for j := 0; j < phi.NumIncoming(); j++ {
				if phi.IncomingBlock(j) == old {
					phi.SetOperand(2*j, repl)
				}
			}
		}
	}
}

// removeUnreachableBlocks deletes every block not reachable from the
// entry block by a forward DFS over Succs, clearing operand use-edges
// first so live blocks' use-lists don't retain dangling references.
func removeUnreachableBlocks(fn *tir.Function) bool {
	reachable := map[*tir.BasicBlock]bool{}
	var walk func(*tir.BasicBlock)
	walk = func(b *tir.BasicBlock) {
		if reachable[b] {
			return
		}
		reachable[b] = true
		for _, s := range b.Succs {
			walk(s)
		}
	}
	if fn.Entry() != nil {
		walk(fn.Entry())
	}

	var dead []*tir.BasicBlock
	for _, b := range fn.Blocks {
		if !reachable[b] {
			dead = append(dead, b)
		}
	}
	for _, b := range dead {
		for _, i := range b.Instructions() {
			clearOperands(i)
			b.Remove(i)
		}
		fn.RemoveBlock(b)
	}
	return len(dead) > 0
}
