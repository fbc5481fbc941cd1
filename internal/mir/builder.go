package mir

import "github.com/joos1w/jcc1/internal/tir"

// Build lowers one TIR function with a body into its MCFunction, per
// spec.md §4.7. wordBits is the target's pointer width (64 for
// x86-64). The caller must have called tir.RebuildCFGEdges(fn) so
// Preds/Succs are current before calling Build.
func Build(fn *tir.Function, wordBits int) *MCFunction {
	b := &dagBuilder{
		mcf:       newMCFunction(fn, wordBits),
		instMap:   map[tir.Value]*Node{},
		vregMap:   map[tir.Value]int{},
		allocaMap: map[*tir.AllocaInst]StackSlot{},
		bbMap:     map[*tir.BasicBlock]*Node{},
	}
	b.run()
	return b.mcf
}

type dagBuilder struct {
	mcf   *MCFunction
	curBB *tir.BasicBlock

	instMap   map[tir.Value]*Node
	vregMap   map[tir.Value]int
	allocaMap map[*tir.AllocaInst]StackSlot
	bbMap     map[*tir.BasicBlock]*Node

	highestVReg int
	highestSlot int
}

func (b *dagBuilder) run() {
	fn := b.mcf.Fn

	// One Entry leaf per block, visited in reverse postorder so a
	// block's Entry always exists before any predecessor references it
	// as a branch target.
	for _, bb := range reversePostOrder(fn) {
		entry := CreateLeaf(b.mcf, KindEntry)
		b.bbMap[bb] = entry
		b.mcf.addSubgraph(bb, entry)
	}

	// Translate every instruction, in source (layout) order.
	for _, bb := range fn.Blocks {
		b.curBB = bb
		var last *Node
		for _, inst := range bb.Instructions() {
			n := b.buildInst(inst)
			if n != nil {
				last = n
			}
		}
		if last != nil {
			b.bbMap[bb].AddChild(last)
		}
	}

	// Cross-BB uses become a virtual register plus a LoadToReg node
	// chained onto the defining block's Entry.
	for v, idx := range b.vregMap {
		instNode := b.instMap[v]
		bits := sizeBits(v.Type(), b.mcf.WordBits)
		vreg := CreateRegister(b.mcf, bits, idx)
		ltr := Create(b.mcf, KindLoadToReg, 0, []*Node{vreg, instNode})
		defBB := v.(tir.Instruction).Block()
		b.bbMap[defBB].AddChild(ltr)
	}

	b.rearrange()
}

// rearrange moves every child of each block's Entry node onto that
// block's terminator, per spec.md §4.7's closing paragraph: the
// terminator becomes the subgraph's new root and Entry is reduced to
// that single child.
func (b *dagBuilder) rearrange() {
	for _, sg := range b.mcf.Subgraphs {
		entry := sg.Root
		var term *Node
		for _, c := range entry.children {
			if isTerminatorKind(c.kind) {
				term = c
				break
			}
		}
		if term == nil {
			continue // empty block reached only via an unterminated stub in a test
		}
		for _, c := range entry.children {
			if c != term {
				term.AddChild(c)
			}
		}
		entry.ClearChains()
		entry.AddChild(term)
		sg.Root = term

		// Cosmetic: drop chain edges on term to nodes that already have
		// another user, since they don't need the ordering edge to stay
		// reachable.
		for i := term.NumChildren() - 1; i >= term.Arity(); i-- {
			if term.children[i].NumUsers() > 1 {
				term.RemoveChild(i)
			}
		}
	}
}

func sizeBits(t tir.Type, wordBits int) int {
	switch v := t.(type) {
	case *tir.IntType:
		return v.Width
	case *tir.PointerType:
		return wordBits
	default:
		return 0
	}
}

func hasSideEffects(i tir.Instruction) bool {
	switch i.Kind() {
	case tir.InstKindStore, tir.InstKindCall:
		return true
	default:
		return false
	}
}

func reversePostOrder(fn *tir.Function) []*tir.BasicBlock {
	entry := fn.Entry()
	if entry == nil {
		return nil
	}
	var post []*tir.BasicBlock
	visited := map[*tir.BasicBlock]bool{}
	var visit func(*tir.BasicBlock)
	visit = func(bb *tir.BasicBlock) {
		if visited[bb] {
			return
		}
		visited[bb] = true
		for _, s := range bb.Succs {
			visit(s)
		}
		post = append(post, bb)
	}
	visit(entry)
	rpo := make([]*tir.BasicBlock, len(post))
	for i, bb := range post {
		rpo[len(post)-1-i] = bb
	}
	return rpo
}
