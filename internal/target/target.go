// Package target defines the target-description contract of spec.md
// §6: internal/isel drives instruction selection purely against this
// interface, and a concrete backend (internal/target/x86) supplies
// register-class membership, fragment matching, and naming without
// isel ever importing a concrete target.
package target

import "github.com/joos1w/jcc1/internal/mir"

// Description is what a backend hands internal/isel. The pattern and
// fragment tables themselves live with the backend (as
// []*isel.PatDef), not on this interface, so this package never needs
// to import isel.
type Description interface {
	Name() string
	WordBits() int
	StackAlignBytes() int

	RegClassName(classIdx int) string
	FragmentName(fragID int) string

	// IsRegisterClass reports whether a value of the given bit width
	// can live in register class classIdx.
	IsRegisterClass(classIdx int, bits int) bool

	// MatchFragment implements one fragment predicate (spec.md §4.8's
	// "fragment dispatches to target predicate"): it decides whether
	// node's subtree has the shape fragID names (e.g. a memory
	// addressing mode) and, on success, returns the leaf nodes bound
	// to the fragment's declared sub-operands in declaration order.
	MatchFragment(fragID int, node *mir.Node) (operands []*mir.Node, ok bool)
}
