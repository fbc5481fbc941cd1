// Package x86 is the example target of spec.md §6's closing paragraph:
// 64-bit pointers, 8-byte stack alignment, an x86-like GPR8/16/32/64
// register-class set, ADD/SUB/AND/OR/XOR in the RR/RI forms and MOV in
// the RM/RR/RI/MI/MR forms, and one addressing-mode fragment (MemFrag)
// with base/index/scale/displacement sub-operands. Grounded on
// original_source/include/target/TargetDesc.h for the interface shape
// and include/mc/Patterns.h's PatternBuilderContext for how a target
// assembles its pattern table (define/inputs/outputs/pattern, here as
// the isel package's builder methods instead of `<<` composition).
package x86

import (
	"fmt"

	"github.com/joos1w/jcc1/internal/isel"
	"github.com/joos1w/jcc1/internal/mir"
)

// Register classes, narrowest to widest in byte count.
const (
	GPR8 = iota
	GPR16
	GPR32
	GPR64
)

var regClassBits = map[int]int{GPR8: 8, GPR16: 16, GPR32: 32, GPR64: 64}
var regClassNames = map[int]string{GPR8: "GPR8", GPR16: "GPR16", GPR32: "GPR32", GPR64: "GPR64"}

// MemFrag is the sole addressing-mode fragment: base + index*scale + disp.
const MemFrag = 0

// Target implements target.Description for 64-bit x86.
type Target struct{}

func New() *Target { return &Target{} }

func (*Target) Name() string            { return "x86-64" }
func (*Target) WordBits() int           { return 64 }
func (*Target) StackAlignBytes() int    { return 8 }
func (*Target) RegClassName(c int) string {
	if n, ok := regClassNames[c]; ok {
		return n
	}
	return fmt.Sprintf("reg-class-%d", c)
}
func (*Target) FragmentName(id int) string {
	if id == MemFrag {
		return "MemFrag"
	}
	return fmt.Sprintf("frag-%d", id)
}

// IsRegisterClass mirrors real x86 sub-addressability: GPR64 is the
// physical register file itself and accepts any value narrow enough
// to live in its low bits (a 32-bit int in %eax is still %rax), while
// the narrower classes require an exact width match. Pattern
// definitions in this target declare GPR64 uniformly so one pattern
// table serves both pointer-width and int-width (Joos1W's 32-bit int)
// values without duplicating every definition per width.
func (*Target) IsRegisterClass(classIdx, bits int) bool {
	if classIdx == GPR64 {
		switch bits {
		case 8, 16, 32, 64:
			return true
		default:
			return false
		}
	}
	width, ok := regClassBits[classIdx]
	return ok && width == bits
}

// MatchFragment implements MemFrag: base, an optional scaled index
// (index*scale folded in by internal/mir's GEP lowering as a Mul), and
// an optional constant displacement. See matchMemFrag for the shapes
// recognized.
func (*Target) MatchFragment(fragID int, node *mir.Node) ([]*mir.Node, bool) {
	if fragID != MemFrag {
		return nil, false
	}
	return matchMemFrag(node)
}

func matchMemFrag(node *mir.Node) ([]*mir.Node, bool) {
	var disp, index, scale *mir.Node
	cur := node

	if cur.Kind() == mir.KindAdd && cur.Arity() == 2 && cur.Child(1).Kind() == mir.KindConstant {
		disp = cur.Child(1)
		cur = cur.Child(0)
	}
	if cur.Kind() == mir.KindAdd && cur.Arity() == 2 && cur.Child(1).Kind() == mir.KindMul {
		mul := cur.Child(1)
		if mul.Arity() == 2 && mul.Child(1).Kind() == mir.KindConstant {
			index = mul.Child(0)
			scale = mul.Child(1)
			cur = cur.Child(0)
		}
	}

	var base *mir.Node
	switch cur.Kind() {
	case mir.KindFrameIndex, mir.KindGlobalAddress, mir.KindRegister, mir.KindArgument:
		base = cur
	}
	if base == nil && index == nil && disp == nil {
		return nil, false
	}
	return []*mir.Node{base, index, scale, disp}, true
}

var aluKinds = map[string]mir.NodeKind{
	"ADD": mir.KindAdd,
	"SUB": mir.KindSub,
	"AND": mir.KindAnd,
	"OR":  mir.KindOr,
	"XOR": mir.KindXor,
}

// Patterns builds this target's full PatDef table, in the shape
// spec.md §4.8 describes as compile-time `define << inputs << outputs
// << pattern` composition.
func Patterns() []*isel.PatDef {
	var defs []*isel.PatDef

	// ALU ops fold an immediate right-hand side (RI) but otherwise take
	// two already-materialized values (RR); a memory right-hand side is
	// not folded into the ALU op itself (that would consume the Load
	// node out of the graph while another use of the same load result
	// could still reference it) — instead the standalone MOV.RM pattern
	// below lowers the Load independently and the ALU op just sees its
	// result as an ordinary register-class operand.
	for _, name := range []string{"ADD", "SUB", "AND", "OR", "XOR"} {
		kind := aluKinds[name]
		defs = append(defs,
			isel.Define(kind, name, "RR").
				WithInputs(isel.Reg(GPR64), isel.Reg(GPR64)).
				WithOutputs(isel.Reg(GPR64)).
				WithPattern(isel.N(kind, isel.In(0), isel.In(1))),
			isel.Define(kind, name, "RI").
				WithInputs(isel.Reg(GPR64), isel.Imm(0)).
				WithOutputs(isel.Reg(GPR64)).
				WithPattern(isel.N(kind, isel.In(0), isel.In(1))),
		)
	}

	defs = append(defs,
		isel.Define(mir.KindLoad, "MOV", "RM").
			WithInputs(isel.Frag(MemFrag)).
			WithOutputs(isel.Reg(GPR64)).
			WithPattern(isel.N(mir.KindLoad, isel.In(0))),
		isel.Define(mir.KindLoadToReg, "MOV", "RR").
			WithInputs(isel.Reg(GPR64), isel.Reg(GPR64)).
			WithPattern(isel.N(mir.KindLoadToReg, isel.In(0), isel.In(1))),
		isel.Define(mir.KindLoadToReg, "MOV", "RI").
			WithInputs(isel.Reg(GPR64), isel.Imm(0)).
			WithPattern(isel.N(mir.KindLoadToReg, isel.In(0), isel.In(1))),
		isel.Define(mir.KindStore, "MOV", "MI").
			WithInputs(isel.Imm(0), isel.Frag(MemFrag)).
			WithPattern(isel.N(mir.KindStore, isel.In(0), isel.In(1))),
		isel.Define(mir.KindStore, "MOV", "MR").
			WithInputs(isel.Reg(GPR64), isel.Frag(MemFrag)).
			WithPattern(isel.N(mir.KindStore, isel.In(0), isel.In(1))),

		isel.Define(mir.KindReturn, "RET", "R").
			WithInputs(isel.Reg(GPR64)).
			WithPattern(isel.N(mir.KindReturn, isel.In(0))),

		isel.Define(mir.KindBr, "JMP", "L").
			WithInputs(isel.LabelOperand()).
			WithPattern(isel.N(mir.KindBr, isel.In(0))),

		isel.Define(mir.KindBrCC, "JCC", "RR").
			WithInputs(isel.CondOperand(), isel.Reg(GPR64), isel.Reg(GPR64), isel.LabelOperand(), isel.LabelOperand()).
			WithPattern(isel.N(mir.KindBrCC, isel.In(0), isel.In(1), isel.In(2), isel.In(3), isel.In(4))),
		isel.Define(mir.KindBrCC, "JCC", "RI").
			WithInputs(isel.CondOperand(), isel.Reg(GPR64), isel.Imm(0), isel.LabelOperand(), isel.LabelOperand()).
			WithPattern(isel.N(mir.KindBrCC, isel.In(0), isel.In(1), isel.In(2), isel.In(3), isel.In(4))),
	)

	return defs
}

// NewProvider builds a Provider preloaded with this target's patterns.
func NewProvider() *isel.Provider {
	return isel.NewProvider(Patterns()...)
}
