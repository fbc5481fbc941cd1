// Package mir implements the per-basic-block instruction-selection DAG
// of spec.md §5/§4.7: InstSelectNode, MCFunction, and the TIR->MIR
// builder. Grounded on the original jcc1
// passes/mc/InstSelectNode.h/.cc and passes/mc/MIRBuilder.cc, recast
// from a BumpAllocator-backed C++ node graph into Go values owned by a
// single MCFunction (no separate arena: a DAG this size amortizes fine
// on the garbage collector, and every node's lifetime already matches
// the enclosing MCFunction's).
package mir

import (
	"fmt"

	"github.com/joos1w/jcc1/internal/tir"
)

// NodeKind is the closed instruction-selection node variant from
// spec.md §3's MIR DAG entities list.
type NodeKind int

const (
	KindEntry NodeKind = iota
	KindArgument
	KindRegister
	KindConstant
	KindGlobalAddress
	KindFrameIndex
	KindBasicBlock
	KindPredicate
	KindMachineInstr
	KindLoadToReg
	KindPhi
	KindUnreachable
	KindLoad
	KindStore
	KindAnd
	KindOr
	KindXor
	KindAdd
	KindSub
	KindMul
	KindSDiv
	KindSRem
	KindSignExtend
	KindZeroExtend
	KindTruncate
	KindSetCC
	KindCall
	KindBr
	KindBrCC
	KindReturn
)

var nodeKindNames = [...]string{
	"Entry", "Argument", "Register", "Constant", "GlobalAddress",
	"FrameIndex", "BasicBlock", "Predicate", "MachineInstr", "LoadToReg",
	"PHI", "Unreachable", "Load", "Store", "And", "Or", "Xor", "Add",
	"Sub", "Mul", "SDiv", "SRem", "SignExtend", "ZeroExtend", "Truncate",
	"SetCC", "Call", "Br", "BrCC", "Return",
}

func (k NodeKind) String() string { return nodeKindNames[k] }

// isTerminatorKind reports whether k is one of the node kinds the
// MIRBuilder rearrangement step (spec.md §4.7 last paragraph) looks
// for as "the" terminator of a basic block's subgraph.
func isTerminatorKind(k NodeKind) bool {
	switch k {
	case KindBr, KindBrCC, KindReturn, KindUnreachable:
		return true
	default:
		return false
	}
}

// StackSlot identifies a contiguous run of stack-frame storage
// allocated for one promotable-to-memory alloca.
type StackSlot struct {
	Index uint16
	Count uint16
}

// VReg names a virtual register, either a cross-BB instruction result
// (built by buildVReg) or a function argument (Argument leaves reuse
// the same payload shape for their parameter index).
type VReg struct{ Index int }

// Imm is a sized immediate operand.
type Imm struct {
	Bits  int
	Value int64
}

// Node is InstSelectNode: one DAG node in a per-function MIR graph.
// Leaves (Arity() == 0) carry their identity in one of the payload
// fields below; non-leaves are compared by pointer identity, matching
// the equality rule spec.md §3 states for this type.
type Node struct {
	id   int
	kind NodeKind
	bits int // result bit width; 0 for node kinds with no value result

	// Payload: exactly one of these is meaningful, selected by kind.
	slot  StackSlot
	vreg  VReg
	imm   Imm
	pred  tir.CmpOp
	glob  tir.Value   // GlobalAddress identity
	instr *Definition // set only once instruction selection replaces this node

	arity    int // operand-child count; children[arity:] are chain edges
	children []*Node
	users    []*Node

	// topoIndex/liveRangeEnd are populated by Schedule (spec.md §4.9); both
	// read as -1 ("unscheduled") until then. prev/next splice this node
	// into its subgraph's scheduled instruction list.
	topoIndex    int
	liveRangeEnd int
	prev, next   *Node
}

// Definition is the payload a MachineInstr node carries after
// instruction selection: the pattern that matched plus whatever the
// target wants attached for emission. internal/isel populates this.
type Definition struct {
	Inst    string // target mnemonic, e.g. "ADD"
	Variant string // instruction form, e.g. "RR"
}

// TopoIndex returns the position Schedule assigned this node in its
// subgraph's root-to-leaf topological numbering, or -1 if unscheduled.
func (n *Node) TopoIndex() int { return n.topoIndex }

// LiveRangeEnd returns the lowest topological index among the users
// Schedule has attributed to this node, or -1 if unscheduled.
func (n *Node) LiveRangeEnd() int { return n.liveRangeEnd }

// Prev and Next walk the scheduled instruction list Schedule built;
// both are nil until scheduling has run.
func (n *Node) Prev() *Node { return n.prev }
func (n *Node) Next() *Node { return n.next }

func (n *Node) ID() int           { return n.id }
func (n *Node) Kind() NodeKind    { return n.kind }
func (n *Node) Bits() int         { return n.bits }
func (n *Node) Arity() int        { return n.arity }
func (n *Node) NumChildren() int  { return len(n.children) }
func (n *Node) Child(i int) *Node { return n.children[i] }
func (n *Node) NumUsers() int     { return len(n.users) }

// Chains returns the ordering-only edges, i.e. children beyond arity.
func (n *Node) Chains() []*Node { return n.children[n.arity:] }

func (n *Node) StackSlot() StackSlot  { return n.slot }
func (n *Node) VReg() VReg            { return n.vreg }
func (n *Node) Imm() Imm              { return n.imm }
func (n *Node) Predicate() tir.CmpOp  { return n.pred }
func (n *Node) Global() tir.Value     { return n.glob }
func (n *Node) Definition() *Definition { return n.instr }
func (n *Node) SetDefinition(d *Definition) { n.instr = d }

// AddChild appends c to the children and records the reverse use edge.
// It does not change arity: a child appended at an index below arity
// (as Create does for its operands) is an operand, and one appended
// past arity is a chain edge.
func (n *Node) AddChild(c *Node) {
	n.children = append(n.children, c)
	c.users = append(c.users, n)
}

// ClearChains drops every child beyond arity, used by the MIRBuilder
// rearrangement step once Entry's children have been reparented onto
// the block's terminator.
func (n *Node) ClearChains() {
	for _, c := range n.children[n.arity:] {
		c.removeUser(n)
	}
	n.children = n.children[:n.arity]
}

// RemoveChild deletes the child at index i (which must be >= arity, a
// chain edge) and its reverse use edge.
func (n *Node) RemoveChild(i int) {
	n.children[i].removeUser(n)
	n.children = append(n.children[:i], n.children[i+1:]...)
}

func (n *Node) removeUser(u *Node) {
	for i, x := range n.users {
		if x == u {
			n.users = append(n.users[:i], n.users[i+1:]...)
			return
		}
	}
}

// Users returns the nodes that reference n as a child, a defensive
// copy so callers can mutate n's edges while iterating.
func (n *Node) Users() []*Node {
	out := make([]*Node, len(n.users))
	copy(out, n.users)
	return out
}

// ReplaceAllUsesWith rewrites every user's reference to n into a
// reference to repl, matching spec.md §4.8's replacement step: once a
// pattern match is tiled into a MachineInstr, the match root's uses
// must all point at the new node instead.
func (n *Node) ReplaceAllUsesWith(repl *Node) {
	for _, u := range n.Users() {
		for i, c := range u.children {
			if c == n {
				u.children[i] = repl
				repl.users = append(repl.users, u)
			}
		}
	}
	n.users = nil
}

// AdoptChains moves every chain edge (children beyond arity) from src
// onto n, used when a match consumes several nodes and their ordering
// edges must survive on the replacement MachineInstr.
func (n *Node) AdoptChains(src *Node) {
	for _, c := range src.Chains() {
		n.AddChild(c)
	}
}

func (n *Node) String() string {
	switch n.kind {
	case KindConstant:
		return fmt.Sprintf("imm%d(%d)", n.imm.Bits, n.imm.Value)
	case KindRegister, KindArgument:
		return fmt.Sprintf("%%v%d", n.vreg.Index)
	case KindFrameIndex:
		return fmt.Sprintf("fi<%d:%d>", n.slot.Index, n.slot.Count)
	case KindGlobalAddress:
		return n.glob.String()
	default:
		return fmt.Sprintf("%s.%d", n.kind, n.id)
	}
}

func newNode(mcf *MCFunction, kind NodeKind, bits int) *Node {
	n := &Node{id: mcf.nextID(), kind: kind, bits: bits, topoIndex: -1, liveRangeEnd: -1}
	return n
}

// CreateLeaf allocates an arity-0 node with no value-bearing payload
// (Entry, BasicBlock wrappers before their child is attached, and
// Unreachable).
func CreateLeaf(mcf *MCFunction, kind NodeKind) *Node {
	return newNode(mcf, kind, 0)
}

// CreateImm allocates a Constant leaf.
func CreateImm(mcf *MCFunction, bits int, value int64) *Node {
	n := newNode(mcf, KindConstant, bits)
	n.imm = Imm{Bits: bits, Value: value}
	return n
}

// CreateRegister allocates a Register leaf naming a virtual register.
func CreateRegister(mcf *MCFunction, bits int, vreg int) *Node {
	n := newNode(mcf, KindRegister, bits)
	n.vreg = VReg{Index: vreg}
	return n
}

// CreateArgument allocates an Argument leaf naming a parameter index.
func CreateArgument(mcf *MCFunction, bits int, idx int) *Node {
	n := newNode(mcf, KindArgument, bits)
	n.vreg = VReg{Index: idx}
	return n
}

// CreateFrameIndex allocates a FrameIndex leaf naming a stack slot.
func CreateFrameIndex(mcf *MCFunction, bits int, slot StackSlot) *Node {
	n := newNode(mcf, KindFrameIndex, bits)
	n.slot = slot
	return n
}

// CreateGlobalAddress allocates a GlobalAddress leaf naming a function
// or global-variable constant.
func CreateGlobalAddress(mcf *MCFunction, bits int, g tir.Value) *Node {
	n := newNode(mcf, KindGlobalAddress, bits)
	n.glob = g
	return n
}

// CreatePredicate allocates a Predicate leaf carrying a comparison op.
func CreatePredicate(mcf *MCFunction, pred tir.CmpOp) *Node {
	n := newNode(mcf, KindPredicate, 0)
	n.pred = pred
	return n
}

// Create allocates a non-leaf node whose first len(children) children
// are all operands (arity == len(children)); chain edges are added
// afterward via AddChild.
func Create(mcf *MCFunction, kind NodeKind, bits int, children []*Node) *Node {
	n := newNode(mcf, kind, bits)
	n.arity = len(children)
	for _, c := range children {
		n.AddChild(c)
	}
	return n
}
