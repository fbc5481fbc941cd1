package x86

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joos1w/jcc1/internal/isel"
	"github.com/joos1w/jcc1/internal/mir"
	"github.com/joos1w/jcc1/internal/tir"
)

func buildAddOne(ctx *tir.Context) *tir.Function {
	i32 := ctx.IntType(32)
	fn := tir.NewFunction(ctx, "addOne", []tir.Type{i32}, []string{"x"}, i32)
	entry := fn.AddBlock(ctx, "entry")

	b := tir.NewBuilder(ctx)
	b.SetInsertPoint(entry)
	slot := b.Alloca(i32)
	b.Store(fn.Params[0], slot)
	loaded := b.Load(slot, i32)
	sum := b.Binary(tir.BinAdd, loaded, ctx.ConstInt(32, 1))
	b.Ret(sum)
	return fn
}

func TestSelect_AddOneLowersEntirelyToMachineInstrs(t *testing.T) {
	ctx := tir.NewContext()
	fn := buildAddOne(ctx)
	tir.RebuildCFGEdges(fn)
	mcf := mir.Build(fn, 64)

	isel.Select(mcf, NewProvider(), New())

	root := mcf.Subgraphs[0].Root
	require.Equal(t, mir.KindMachineInstr, root.Kind())
	require.Equal(t, "RET", root.Definition().Inst)

	add := root.Child(0)
	require.Equal(t, mir.KindMachineInstr, add.Kind())
	require.Equal(t, "ADD", add.Definition().Inst)
	require.Equal(t, "RI", add.Definition().Variant)

	load := add.Child(0)
	require.Equal(t, mir.KindMachineInstr, load.Kind())
	require.Equal(t, "MOV", load.Definition().Inst)
	require.Equal(t, "RM", load.Definition().Variant)

	imm := add.Child(1)
	require.Equal(t, mir.KindConstant, imm.Kind())
	require.Equal(t, int64(1), imm.Imm().Value)

	// The load's fragment operand is the stack slot itself (no base
	// register chain), and it carries forward the store's ordering edge.
	require.Equal(t, mir.KindFrameIndex, load.Child(0).Kind())
	var foundStore bool
	for _, c := range load.Chains() {
		if c.Kind() == mir.KindMachineInstr && c.Definition().Inst == "MOV" && c.Definition().Variant == "MR" {
			foundStore = true
		}
	}
	require.True(t, foundStore)
}

func TestMatchFragment_PlainFrameIndexBindsBaseOnly(t *testing.T) {
	mcf := &mir.MCFunction{WordBits: 64}
	fi := mir.CreateFrameIndex(mcf, 64, mir.StackSlot{Index: 1, Count: 1})

	ops, ok := New().MatchFragment(MemFrag, fi)
	require.True(t, ok)
	require.Equal(t, fi, ops[0])
	require.Nil(t, ops[1])
	require.Nil(t, ops[2])
	require.Nil(t, ops[3])
}

func TestMatchFragment_BaseIndexScaleDisp(t *testing.T) {
	mcf := &mir.MCFunction{WordBits: 64}
	base := mir.CreateFrameIndex(mcf, 64, mir.StackSlot{Index: 1, Count: 1})
	index := mir.CreateRegister(mcf, 64, 3)
	scale := mir.CreateImm(mcf, 64, 8)
	mul := mir.Create(mcf, mir.KindMul, 64, []*mir.Node{index, scale})
	addIdx := mir.Create(mcf, mir.KindAdd, 64, []*mir.Node{base, mul})
	disp := mir.CreateImm(mcf, 64, 16)
	full := mir.Create(mcf, mir.KindAdd, 64, []*mir.Node{addIdx, disp})

	ops, ok := New().MatchFragment(MemFrag, full)
	require.True(t, ok)
	require.Equal(t, base, ops[0])
	require.Equal(t, index, ops[1])
	require.Equal(t, scale, ops[2])
	require.Equal(t, disp, ops[3])
}
