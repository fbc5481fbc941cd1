package isel

import "github.com/joos1w/jcc1/internal/mir"

// PatDef is one target instruction's matchable definition: the
// `define{inst,variant} << inputs{...} << outputs{...} << pattern{...}`
// composition of spec.md §4.8, expressed as builder methods instead of
// the source's `<<` operator chain (Go has no consteval or operator
// overloading to do this at compile time, so these run whenever a
// target's pattern function is called; see the package doc comment).
type PatDef struct {
	RootKind mir.NodeKind // bucket key: the node kind a pattern's root can replace
	Inst     string
	Variant  string
	Inputs   []Operand
	Outputs  []Operand
	Patterns []Pat
}

// Define starts a new pattern definition for instructions whose DAG
// root is of kind rootKind.
func Define(rootKind mir.NodeKind, inst, variant string) *PatDef {
	return &PatDef{RootKind: rootKind, Inst: inst, Variant: variant}
}

func (d *PatDef) WithInputs(in ...Operand) *PatDef {
	d.Inputs = in
	return d
}

func (d *PatDef) WithOutputs(out ...Operand) *PatDef {
	d.Outputs = out
	return d
}

// WithPattern appends one alternative DAG shape this definition
// matches, built from N/In. root's own kind must equal d.RootKind.
func (d *PatDef) WithPattern(root Elem) *PatDef {
	d.Patterns = append(d.Patterns, Pattern(root))
	return d
}

func (d *PatDef) numRegisterInputs() int {
	n := 0
	for _, in := range d.Inputs {
		if in.Kind == Register {
			n++
		}
	}
	return n
}
