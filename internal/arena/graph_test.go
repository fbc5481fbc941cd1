package arena

import "testing"

// leaf is a minimal Value with no operands, for use-list tests.
type leaf struct {
	ValueBase
	name string
}

// node is a minimal User with a fixed-size operand list, for use-list
// tests exercising AppendOperand/SetOperand/RemoveOperand.
type node struct {
	UserBase
	name string
}

func newNode(name string) *node {
	n := &node{name: name}
	n.Init(n)
	return n
}

func TestUseInvariant_EveryEdgeRecordedOnBothSides(t *testing.T) {
	a := &leaf{name: "a"}
	b := &leaf{name: "b"}
	n1 := newNode("n1")
	n1.AppendOperand(a)
	n1.AppendOperand(b)
	n2 := newNode("n2")
	n2.AppendOperand(a)

	if len(a.Uses()) != 2 {
		t.Fatalf("expected a to have 2 uses, got %d", len(a.Uses()))
	}
	if len(b.Uses()) != 1 {
		t.Fatalf("expected b to have 1 use, got %d", len(b.Uses()))
	}
	for _, u := range a.Uses() {
		if u.User().Operand(u.Index()) != Value(a) {
			t.Fatalf("use %v does not round-trip to a", u)
		}
	}
}

func TestReplaceAllUsesWith_EmptiesSourceAndPreservesCardinality(t *testing.T) {
	a := &leaf{name: "a"}
	w := &leaf{name: "w"}
	n1 := newNode("n1")
	n1.AppendOperand(a)
	n1.AppendOperand(a)
	n2 := newNode("n2")
	n2.AppendOperand(a)

	totalBefore := len(a.Uses())

	ReplaceAllUsesWith(a, w)

	if got := len(a.Uses()); got != 0 {
		t.Fatalf("expected a.Uses() empty after replace, got %d", got)
	}
	if got := len(w.Uses()); got != totalBefore {
		t.Fatalf("expected w to gain %d uses, got %d", totalBefore, got)
	}
	if n1.Operand(0) != Value(w) || n1.Operand(1) != Value(w) {
		t.Fatalf("n1 operands not redirected to w")
	}
	if n2.Operand(0) != Value(w) {
		t.Fatalf("n2 operand not redirected to w")
	}
}

func TestRemoveOperand_RenumbersUseIndices(t *testing.T) {
	a := &leaf{name: "a"}
	b := &leaf{name: "b"}
	c := &leaf{name: "c"}
	n := newNode("n")
	n.AppendOperand(a)
	n.AppendOperand(b)
	n.AppendOperand(c)

	n.RemoveOperand(0)

	if n.NumOperands() != 2 {
		t.Fatalf("expected 2 operands after remove, got %d", n.NumOperands())
	}
	if n.Operand(0) != Value(b) || n.Operand(1) != Value(c) {
		t.Fatalf("operands not shifted correctly")
	}
	bUse := b.Uses()[0]
	if bUse.Index() != 0 {
		t.Fatalf("expected b's use index renumbered to 0, got %d", bUse.Index())
	}
	cUse := c.Uses()[0]
	if cUse.Index() != 1 {
		t.Fatalf("expected c's use index renumbered to 1, got %d", cUse.Index())
	}
}
