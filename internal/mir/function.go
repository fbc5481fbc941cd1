package mir

import "github.com/joos1w/jcc1/internal/tir"

// Subgraph is one basic block's DAG: Root starts out as the block's
// Entry leaf and is replaced, after MIRBuilder's rearrangement pass,
// by the block's single terminator node (BR/BR_CC/RETURN/Unreachable)
// with everything else hanging off it.
type Subgraph struct {
	Block *tir.BasicBlock
	Root  *Node

	// Entry is the head of the scheduled instruction list, set by
	// Schedule. Nil until scheduling has run.
	Entry *Node
}

// MCFunction is the ordered collection of per-basic-block DAGs lowered
// from one tir.Function, plus the node-ID allocator they share.
type MCFunction struct {
	Fn        *tir.Function
	WordBits  int // target pointer width, e.g. 64 for x86-64
	Subgraphs []*Subgraph

	nextNodeID int
}

func newMCFunction(fn *tir.Function, wordBits int) *MCFunction {
	return &MCFunction{Fn: fn, WordBits: wordBits}
}

func (f *MCFunction) nextID() int {
	id := f.nextNodeID
	f.nextNodeID++
	return id
}

func (f *MCFunction) addSubgraph(bb *tir.BasicBlock, root *Node) {
	f.Subgraphs = append(f.Subgraphs, &Subgraph{Block: bb, Root: root})
}

// SubgraphFor returns bb's subgraph, or nil if bb isn't part of f.
func (f *MCFunction) SubgraphFor(bb *tir.BasicBlock) *Subgraph {
	for _, s := range f.Subgraphs {
		if s.Block == bb {
			return s
		}
	}
	return nil
}
