package isel

import "github.com/joos1w/jcc1/internal/mir"

// Elem is one node of a pattern tree before tape flattening: either a
// node-kind shape (N) with nested children, or a reference to the
// enclosing PatDef's i-th declared input (In). Grounded on Patterns.h's
// Pat<TD> initializer-list constructor.
type Elem interface {
	tapeLen() int
	emit(tape *[]Operand)
}

type kindElem struct {
	kind     mir.NodeKind
	children []Elem
}

func (e kindElem) tapeLen() int {
	n := 1
	for _, c := range e.children {
		n += childTapeLen(c)
	}
	return n
}

func (e kindElem) emit(tape *[]Operand) {
	*tape = append(*tape, Operand{Kind: CheckNodeType, Data: int(e.kind)})
	for _, c := range e.children {
		emitChild(c, tape)
	}
}

type inputElem struct{ index int }

func (inputElem) tapeLen() int { return 1 }

func (e inputElem) emit(tape *[]Operand) {
	*tape = append(*tape, Operand{Kind: CheckOperandType, Data: e.index})
}

// childTapeLen accounts for the Push/Pop wrapper a child with more
// than one tape entry gets, so a parent's tapeLen matches what emit
// will actually produce.
func childTapeLen(c Elem) int {
	if n := c.tapeLen(); n > 1 {
		return n + 2
	}
	return 1
}

// emitChild wraps c in Push/Pop when it flattens to more than one tape
// entry (a nested node-kind shape); a bare single-entry child is spliced
// in directly without descending. For an input reference that means
// CheckOperandType consumes the enclosing node's next child; for a leaf
// node-kind check (N with no children) it means CheckNodeType tests the
// enclosing node's own kind, not a child's. This is the central
// subtlety of Patterns.h's Pat constructor: Push/Pop is only emitted
// when "the current node" itself has to shift.
func emitChild(c Elem, tape *[]Operand) {
	if c.tapeLen() > 1 {
		*tape = append(*tape, Operand{Kind: Push})
		c.emit(tape)
		*tape = append(*tape, Operand{Kind: Pop})
		return
	}
	c.emit(tape)
}

// N builds a pattern-tree node matching kind, recursing into children.
func N(kind mir.NodeKind, children ...Elem) Elem {
	return kindElem{kind: kind, children: children}
}

// In refers to the enclosing PatDef's i-th declared input operand.
func In(index int) Elem {
	return inputElem{index: index}
}

// Pat is one fully flattened alternative pattern shape for a PatDef.
type Pat struct {
	Tape []Operand
}

// Pattern flattens root (which must describe the matched node's own
// kind, i.e. built with N) into a tape. The root itself is never
// Push/Pop wrapped: matching starts with "the current node" already
// being the DAG node under consideration.
func Pattern(root Elem) Pat {
	var tape []Operand
	root.emit(&tape)
	return Pat{Tape: tape}
}
