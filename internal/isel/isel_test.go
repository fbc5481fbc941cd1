package isel

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joos1w/jcc1/internal/mir"
)

func TestPattern_FlattenWrapsOnlyMultiEntryChildren(t *testing.T) {
	// ADD(in0, MUL(in1, in2)): in0 is a bare input ref (1 tape entry,
	// spliced directly); the MUL subtree has 3 entries so it gets
	// wrapped in Push/Pop.
	pat := Pattern(N(mir.KindAdd, In(0), N(mir.KindMul, In(1), In(2))))

	want := []Operand{
		{Kind: CheckNodeType, Data: int(mir.KindAdd)},
		{Kind: CheckOperandType, Data: 0},
		{Kind: Push},
		{Kind: CheckNodeType, Data: int(mir.KindMul)},
		{Kind: CheckOperandType, Data: 1},
		{Kind: CheckOperandType, Data: 2},
		{Kind: Pop},
	}
	require.Equal(t, want, pat.Tape)
}

// stubTarget is a minimal target.Description for isel-only tests,
// independent of internal/target/x86.
type stubTarget struct{}

func (stubTarget) Name() string         { return "stub" }
func (stubTarget) WordBits() int        { return 64 }
func (stubTarget) StackAlignBytes() int { return 8 }
func (stubTarget) RegClassName(int) string  { return "GPR" }
func (stubTarget) FragmentName(int) string  { return "frag" }
func (stubTarget) IsRegisterClass(_ int, bits int) bool { return bits == 32 || bits == 64 }
func (stubTarget) MatchFragment(int, *mir.Node) ([]*mir.Node, bool) { return nil, false }

func TestTryMatch_AddOfTwoRegistersMatchesRRPattern(t *testing.T) {
	mcf := &mir.MCFunction{WordBits: 64}
	lhs := mir.CreateRegister(mcf, 32, 1)
	rhs := mir.CreateRegister(mcf, 32, 2)
	add := mir.Create(mcf, mir.KindAdd, 32, []*mir.Node{lhs, rhs})

	def := Define(mir.KindAdd, "ADD", "RR").
		WithInputs(Reg(0), Reg(0)).
		WithOutputs(Reg(0))
	def.WithPattern(N(mir.KindAdd, In(0), In(1)))

	m, ok := tryMatch(def, def.Patterns[0], add, stubTarget{})
	require.True(t, ok)
	require.Equal(t, []*mir.Node{lhs, rhs}, m.Operands)
}

func TestTryMatch_RepeatedOperandRequiresEquality(t *testing.T) {
	mcf := &mir.MCFunction{WordBits: 64}
	reg := mir.CreateRegister(mcf, 32, 1)
	other := mir.CreateRegister(mcf, 32, 2)
	add := mir.Create(mcf, mir.KindAdd, 32, []*mir.Node{reg, other})

	// Pattern requiring both operands to be the *same* declared input
	// (a self-add idiom): must fail since the two children differ.
	def := Define(mir.KindAdd, "ADD", "SELF").WithInputs(Reg(0)).WithOutputs(Reg(0))
	def.WithPattern(N(mir.KindAdd, In(0), In(0)))

	_, ok := tryMatch(def, def.Patterns[0], add, stubTarget{})
	require.False(t, ok)

	same := mir.Create(mcf, mir.KindAdd, 32, []*mir.Node{reg, reg})
	m, ok := tryMatch(def, def.Patterns[0], same, stubTarget{})
	require.True(t, ok)
	require.Equal(t, reg, m.Operands[0])
}

func TestTryMatch_ImmediateWidthMustMatchDeclared(t *testing.T) {
	mcf := &mir.MCFunction{WordBits: 64}
	reg := mir.CreateRegister(mcf, 32, 1)
	imm16 := mir.CreateImm(mcf, 16, 5)
	add := mir.Create(mcf, mir.KindAdd, 32, []*mir.Node{reg, imm16})

	def := Define(mir.KindAdd, "ADD", "RI32").WithInputs(Reg(0), Imm(32)).WithOutputs(Reg(0))
	def.WithPattern(N(mir.KindAdd, In(0), In(1)))

	_, ok := tryMatch(def, def.Patterns[0], add, stubTarget{})
	require.False(t, ok, "a 16-bit immediate must not satisfy a declared 32-bit operand")
}

func TestProvider_SortsMoreInputsFirstThenFewerRegisters(t *testing.T) {
	rr := Define(mir.KindAdd, "ADD", "RR").WithInputs(Reg(0), Reg(0))
	ri := Define(mir.KindAdd, "ADD", "RI").WithInputs(Reg(0), Imm(0))
	unary := Define(mir.KindAdd, "ADD", "INC").WithInputs(Reg(0))

	p := NewProvider(unary, rr, ri)
	got := p.PatternsFor(mir.KindAdd)
	require.Len(t, got, 3)
	require.Equal(t, "INC", got[2].Variant) // fewest inputs sorts last
	// Between rr and ri (both 2 inputs), ri has fewer register inputs.
	require.Equal(t, "RI", got[0].Variant)
	require.Equal(t, "RR", got[1].Variant)
}
