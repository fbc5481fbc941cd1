// Package tir implements the typed three-address IR of spec.md §5: an
// SSA-capable basic-block IR with a type pool, a builder with an
// explicit insertion cursor, and the instruction/value graph built on
// internal/arena's Use/User edges.
//
// Grounded on the teacher's internal/bytecode/instruction.go (closed
// instruction-kind enum, one struct per variant) and
// internal/bytecode/vm_core.go (a single Context owning all interned
// types and constants for one compilation), generalized from a flat
// stack-VM bytecode array to a basic-block graph.
package tir

import "fmt"

// Type is the closed set of TIR type variants from spec.md §5: integers
// of a fixed bit width, one opaque pointer type (Joos1W has no typed
// pointer arithmetic), functions, fixed-length arrays, structs, labels
// (a basic block's own type, for branch-target operands), and void.
type Type interface {
	String() string
	isTIRType()
}

// IntType is an integer of a given bit width (1 for booleans, 8/16/32
// for Joos1W's byte/short/char/int after lowering).
type IntType struct{ Width int }

func (*IntType) isTIRType()        {}
func (t *IntType) String() string  { return fmt.Sprintf("i%d", t.Width) }

// PointerType is the single opaque pointer type; TIR never tracks
// pointee types past lowering, matching the loosely-typed opaque
// pointer convention spec.md §5 calls out.
type PointerType struct{}

func (*PointerType) isTIRType()       {}
func (*PointerType) String() string   { return "ptr" }

// VoidType is the function-return-only void sentinel.
type VoidType struct{}

func (*VoidType) isTIRType()      {}
func (*VoidType) String() string  { return "void" }

// LabelType is a basic block's own type, letting a block be used
// directly as a branch-target operand in the use/user graph.
type LabelType struct{}

func (*LabelType) isTIRType()     {}
func (*LabelType) String() string { return "label" }

// FuncType is a function's signature: return type plus ordered
// parameter types.
type FuncType struct {
	Ret    Type
	Params []Type
}

func (*FuncType) isTIRType() {}
func (t *FuncType) String() string {
	s := t.Ret.String() + "("
	for i, p := range t.Params {
		if i > 0 {
			s += ","
		}
		s += p.String()
	}
	return s + ")"
}

// ArrayType is a fixed-length, statically-sized array of elem, used for
// stack-allocated array storage before it decays to a pointer.
type ArrayType struct {
	Elem Type
	Len  int
}

func (*ArrayType) isTIRType() {}
func (t *ArrayType) String() string {
	return fmt.Sprintf("[%d x %s]", t.Len, t.Elem.String())
}

// StructType is a named aggregate of ordered fields, used to lower a
// Joos1W object's instance-field layout (vtable pointer + fields).
type StructType struct {
	Name   string
	Fields []Type
}

func (*StructType) isTIRType()       {}
func (t *StructType) String() string { return "%" + t.Name }
