package isel

import (
	"github.com/joos1w/jcc1/internal/mir"
	"github.com/joos1w/jcc1/internal/target"
)

// Match is the outcome of a successful Pat against a candidate root:
// the matched operands in declared-input order, and every node the
// tape descended into (via Push), which Select must fold into the
// replacement MachineInstr's chain edges before destroying them.
type Match struct {
	Operands []*mir.Node
	Consumed []*mir.Node
}

type frame struct {
	childIdx int
	node     *mir.Node
}

// tryMatch runs one tape against root, per spec.md §4.8 step 2.
// Grounded line-for-line on lib/mc/Patterns.cc's Pattern::matches: a
// stack of (childIdx, node) frames where Push descends to the current
// node's child at the current cursor and remembers it, Pop discards
// the top frame and resumes the parent one block past the child it
// consumed, CheckNodeType inspects the current node without advancing
// the cursor, and CheckOperandType consumes the current node's next
// child against a declared input descriptor.
func tryMatch(def *PatDef, pat Pat, root *mir.Node, td target.Description) (Match, bool) {
	if !outputCompatible(def, root, td) {
		return Match{}, false
	}

	operands := make([]*mir.Node, len(def.Inputs))
	isSet := make([]bool, len(def.Inputs))
	var consumed []*mir.Node

	stack := []frame{{childIdx: 0, node: root}}
	node := root
	childIdx := 0

	for _, bc := range pat.Tape {
		if bc.Kind != Pop && childIdx >= node.Arity() {
			return Match{}, false
		}
		switch bc.Kind {
		case Push:
			child := node.Child(childIdx)
			stack = append(stack, frame{childIdx: childIdx, node: child})
			consumed = append(consumed, child)
			node = child
			childIdx = 0
		case Pop:
			popped := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			childIdx = popped.childIdx + 1
			node = stack[len(stack)-1].node
		case CheckNodeType:
			if node.Kind() != mir.NodeKind(bc.Data) {
				return Match{}, false
			}
		case CheckOperandType:
			child := node.Child(childIdx)
			childIdx++
			idx := bc.Data
			matched, ok := matchOperand(def.Inputs[idx], child, td)
			if !ok {
				return Match{}, false
			}
			if isSet[idx] {
				if !nodesEqual(operands[idx], matched) {
					return Match{}, false
				}
			} else {
				operands[idx] = matched
				isSet[idx] = true
			}
		}
	}
	return Match{Operands: operands, Consumed: consumed}, true
}

func outputCompatible(def *PatDef, root *mir.Node, td target.Description) bool {
	switch len(def.Outputs) {
	case 0:
		return root.Bits() == 0
	case 1:
		out := def.Outputs[0]
		if out.Kind == Register {
			return td.IsRegisterClass(out.Data, root.Bits())
		}
		return true
	default:
		return false
	}
}

// matchOperand validates child against desc, returning the node that
// should be recorded as the matched operand (for Fragment, this is
// child itself; the fragment's own bound sub-operands are the
// target's concern at emission time, not the tape's).
func matchOperand(desc Operand, child *mir.Node, td target.Description) (*mir.Node, bool) {
	switch desc.Kind {
	case Immediate:
		if child.Kind() != mir.KindConstant {
			return nil, false
		}
		if desc.Data != 0 && child.Imm().Bits != desc.Data {
			return nil, false
		}
		return child, true
	case Register:
		// child need not already be a resolved leaf: an unselected
		// computational node (still arity > 0) is a valid register
		// operand too, since the worklist in Select will tile it into
		// its own MachineInstr later and mir.Node.ReplaceAllUsesWith
		// backpatches this parent's child slot when that happens.
		if !td.IsRegisterClass(desc.Data, child.Bits()) {
			return nil, false
		}
		return child, true
	case Fragment:
		if _, ok := td.MatchFragment(desc.Data, child); !ok {
			return nil, false
		}
		return child, true
	case Label:
		if child.Kind() != mir.KindBasicBlock {
			return nil, false
		}
		return child, true
	case PredicateOperand:
		if child.Kind() != mir.KindPredicate {
			return nil, false
		}
		return child, true
	default:
		return nil, false
	}
}

// nodesEqual implements spec.md §3's DAG-node equality rule: leaves
// compare by payload, non-leaves by pointer identity.
func nodesEqual(a, b *mir.Node) bool {
	if a == b {
		return true
	}
	if a.Arity() != 0 || b.Arity() != 0 {
		return false
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case mir.KindConstant:
		return a.Imm() == b.Imm()
	case mir.KindRegister, mir.KindArgument:
		return a.VReg() == b.VReg()
	case mir.KindFrameIndex:
		return a.StackSlot() == b.StackSlot()
	case mir.KindGlobalAddress:
		return a.Global() == b.Global()
	default:
		return false
	}
}
