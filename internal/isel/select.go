package isel

import (
	"fmt"

	"github.com/joos1w/jcc1/internal/mir"
	"github.com/joos1w/jcc1/internal/target"
)

// Select tiles every subgraph of mcf with td's patterns, per spec.md
// §4.8's replacement step and the worklist shape of InstSelect.cc's
// Run/selectInstructions. It mutates mcf's nodes in place.
func Select(mcf *mir.MCFunction, provider *Provider, td target.Description) {
	for _, sg := range mcf.Subgraphs {
		sg.Root = selectSubgraph(mcf, sg.Root, provider, td)
	}
}

func selectSubgraph(mcf *mir.MCFunction, root *mir.Node, provider *Provider, td target.Description) *mir.Node {
	visited := map[*mir.Node]bool{}
	queue := []*mir.Node{root}
	newRoot := root
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if visited[n] {
			continue
		}
		visited[n] = true

		if n.Arity() > 0 && n.Kind() != mir.KindMachineInstr {
			replaced := matchAndReplace(mcf, n, provider, td)
			if n == root {
				newRoot = replaced
			}
			n = replaced
		}
		// A BasicBlock wrapper's one child is the target block's own
		// Entry/terminator: stop here rather than wander into a
		// neighboring subgraph this call isn't responsible for.
		if n.Kind() == mir.KindBasicBlock {
			continue
		}
		for i := 0; i < n.NumChildren(); i++ {
			queue = append(queue, n.Child(i))
		}
	}
	return newRoot
}

// matchAndReplace finds the first pattern definition (in selection
// order) whose tape matches node and tiles it: a MachineInstr node is
// allocated carrying the matched operands as children and the winning
// definition as payload, every consumed node's chain edges are unioned
// onto it, and node's uses are redirected to it.
func matchAndReplace(mcf *mir.MCFunction, node *mir.Node, provider *Provider, td target.Description) *mir.Node {
	for _, def := range provider.PatternsFor(node.Kind()) {
		for _, pat := range def.Patterns {
			m, ok := tryMatch(def, pat, node, td)
			if !ok {
				continue
			}
			instr := mir.Create(mcf, mir.KindMachineInstr, node.Bits(), m.Operands)
			instr.SetDefinition(&mir.Definition{Inst: def.Inst, Variant: def.Variant})
			for _, c := range m.Consumed {
				instr.AdoptChains(c)
			}
			instr.AdoptChains(node)
			node.ReplaceAllUsesWith(instr)
			return instr
		}
	}
	panic(fmt.Sprintf("isel: no pattern matches node kind %s", node.Kind()))
}
