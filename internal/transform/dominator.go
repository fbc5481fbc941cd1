package transform

import "github.com/joos1w/jcc1/internal/tir"

// DomTree is the immediate-dominator relation for one function's CFG,
// built with the Cooper-Harvey-Kennedy iterative algorithm (grounded on
// the original jcc1 passes/analysis/DominatorTree.cc), plus dominance
// frontiers computed from it for mem2reg's phi-placement worklist.
type DomTree struct {
	entry    *tir.BasicBlock
	postNum  map[*tir.BasicBlock]int
	idom     map[*tir.BasicBlock]*tir.BasicBlock
	children map[*tir.BasicBlock][]*tir.BasicBlock
	frontier map[*tir.BasicBlock][]*tir.BasicBlock
}

// BuildDominatorTree computes the dominator tree of fn's CFG; callers
// must call tir.RebuildCFGEdges(fn) first so Preds/Succs are current.
func BuildDominatorTree(fn *tir.Function) *DomTree {
	entry := fn.Entry()
	t := &DomTree{
		entry:    entry,
		postNum:  map[*tir.BasicBlock]int{},
		idom:     map[*tir.BasicBlock]*tir.BasicBlock{},
		children: map[*tir.BasicBlock][]*tir.BasicBlock{},
		frontier: map[*tir.BasicBlock][]*tir.BasicBlock{},
	}
	if entry == nil {
		return t
	}

	postorder := computePostorder(entry)
	for i, b := range postorder {
		t.postNum[b] = i
	}
	// Reverse postorder: highest postNum (the entry) first.
	rpo := make([]*tir.BasicBlock, len(postorder))
	for i, b := range postorder {
		rpo[len(postorder)-1-i] = b
	}

	t.idom[entry] = entry
	changed := true
	for changed {
		changed = false
		for _, b := range rpo {
			if b == entry {
				continue
			}
			var newIdom *tir.BasicBlock
			for _, p := range b.Preds {
				if _, ok := t.idom[p]; !ok {
					continue
				}
				if newIdom == nil {
					newIdom = p
					continue
				}
				newIdom = t.intersect(newIdom, p)
			}
			if newIdom == nil {
				continue
			}
			if t.idom[b] != newIdom {
				t.idom[b] = newIdom
				changed = true
			}
		}
	}

	for b, id := range t.idom {
		if b == entry {
			continue
		}
		t.children[id] = append(t.children[id], b)
	}
	t.computeDominanceFrontiers(fn)
	return t
}

func computePostorder(entry *tir.BasicBlock) []*tir.BasicBlock {
	var order []*tir.BasicBlock
	visited := map[*tir.BasicBlock]bool{}
	var visit func(*tir.BasicBlock)
	visit = func(b *tir.BasicBlock) {
		if visited[b] {
			return
		}
		visited[b] = true
		for _, s := range b.Succs {
			visit(s)
		}
		order = append(order, b)
	}
	visit(entry)
	return order
}

func (t *DomTree) intersect(b1, b2 *tir.BasicBlock) *tir.BasicBlock {
	for b1 != b2 {
		for t.postNum[b1] < t.postNum[b2] {
			b1 = t.idom[b1]
		}
		for t.postNum[b2] < t.postNum[b1] {
			b2 = t.idom[b2]
		}
	}
	return b1
}

// IDom returns b's immediate dominator; for the entry block it returns
// the entry block itself, per the Cooper-Harvey-Kennedy convention.
func (t *DomTree) IDom(b *tir.BasicBlock) *tir.BasicBlock { return t.idom[b] }

// Dominates reports whether a dominates b (a == b counts as dominating).
func (t *DomTree) Dominates(a, b *tir.BasicBlock) bool {
	for cur := b; ; {
		if cur == a {
			return true
		}
		id := t.idom[cur]
		if id == cur {
			return cur == a
		}
		cur = id
	}
}

// Children returns b's immediate-dominator-tree children.
func (t *DomTree) Children(b *tir.BasicBlock) []*tir.BasicBlock { return t.children[b] }

// Frontier returns b's dominance frontier: every block b dominates a
// predecessor of but does not strictly dominate itself.
func (t *DomTree) Frontier(b *tir.BasicBlock) []*tir.BasicBlock { return t.frontier[b] }

func (t *DomTree) computeDominanceFrontiers(fn *tir.Function) {
	for _, b := range fn.Blocks {
		if len(b.Preds) < 2 {
			continue
		}
		for _, p := range b.Preds {
			runner := p
			for runner != t.idom[b] {
				t.frontier[runner] = appendUnique(t.frontier[runner], b)
				if runner == t.idom[runner] {
					break
				}
				runner = t.idom[runner]
			}
		}
	}
}

func appendUnique(list []*tir.BasicBlock, b *tir.BasicBlock) []*tir.BasicBlock {
	for _, x := range list {
		if x == b {
			return list
		}
	}
	return append(list, b)
}
