// Package isel implements the maximal-munch instruction selector of
// spec.md §4.8: a compile-time-shaped pattern DSL flattened to a
// byte-coded tape, and a stack-machine matcher that tiles a
// internal/mir DAG with it. Grounded throughout on the original jcc1's
// passes/mc/InstSelect.cc (the worklist driver), include/mc/Patterns.h
// (the `<<`-composed PatDef/Pat template machinery), and
// lib/mc/Patterns.cc (Pattern::matches, the tape interpreter). The
// source's consteval-built constant arrays become PatDef tables built
// by chained builder calls (Define/WithInputs/WithOutputs/WithPattern)
// inside a target's pattern function (x86.Patterns, which
// x86.NewProvider calls). The tapes are therefore flattened at run time,
// each time that function runs, before any matching; they are not
// constant data, and matching itself never flattens a pattern.
package isel

import "github.com/joos1w/jcc1/internal/mir"

// OperandKind is the tagged-union discriminant for an operand
// descriptor or tape entry, matching Patterns.h's Operand::Type.
type OperandKind int

const (
	// Declared-operand descriptor kinds (appear in PatDef.Inputs/Outputs).
	// spec.md §4.8 names Immediate/Register/Fragment explicitly; Label
	// and PredicateOperand are this port's small, documented extension
	// for control-flow operands (a branch target, a comparison
	// predicate leaf) that don't fit any of the three — see DESIGN.md.
	Immediate OperandKind = iota
	Register
	Fragment
	Label
	PredicateOperand

	// Tape-entry-only kinds (appear in Pat.Tape, never in Inputs/Outputs).
	Push
	Pop
	CheckNodeType
	CheckOperandType
)

// Operand is one descriptor slot or tape entry: a kind plus a single
// integer payload (bit width for Immediate, register-class index for
// Register, fragment id for Fragment, mir.NodeKind for CheckNodeType,
// declared-input index for CheckOperandType). Push/Pop carry no data.
type Operand struct {
	Kind OperandKind
	Data int
}

// Imm declares an immediate input/output operand of the given bit width.
func Imm(bits int) Operand { return Operand{Kind: Immediate, Data: bits} }

// Reg declares a register-class input/output operand.
func Reg(class int) Operand { return Operand{Kind: Register, Data: class} }

// Frag declares a fragment input operand (e.g. a memory addressing mode).
func Frag(fragID int) Operand { return Operand{Kind: Fragment, Data: fragID} }

// LabelOperand declares a branch-target (BasicBlock-leaf) input operand.
func LabelOperand() Operand { return Operand{Kind: Label} }

// CondOperand declares a comparison-predicate-leaf input operand.
func CondOperand() Operand { return Operand{Kind: PredicateOperand} }
