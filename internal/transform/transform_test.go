package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joos1w/jcc1/internal/tir"
)

// buildDiamond builds:
//
//	entry: x = alloca i32; store 1, x; condbr cond, then, els
//	then:  store 2, x; br join
//	els:   store 3, x; br join
//	join:  v = load x; ret v
func buildDiamond(ctx *tir.Context, cond tir.Value) *tir.Function {
	i32 := ctx.IntType(32)
	fn := tir.NewFunction(ctx, "diamond", nil, nil, i32)
	entry := fn.AddBlock(ctx, "entry")
	then := fn.AddBlock(ctx, "then")
	els := fn.AddBlock(ctx, "else")
	join := fn.AddBlock(ctx, "join")

	b := tir.NewBuilder(ctx)
	b.SetInsertPoint(entry)
	x := b.Alloca(i32)
	b.Store(ctx.ConstInt(32, 1), x)
	b.CondBr(cond, then, els)

	b.SetInsertPoint(then)
	b.Store(ctx.ConstInt(32, 2), x)
	b.Br(join)

	b.SetInsertPoint(els)
	b.Store(ctx.ConstInt(32, 3), x)
	b.Br(join)

	b.SetInsertPoint(join)
	v := b.Load(x, i32)
	b.Ret(v)

	return fn
}

func TestDominatorTree_DiamondIDoms(t *testing.T) {
	ctx := tir.NewContext()
	fn := buildDiamond(ctx, ctx.ConstInt(1, 1))
	tir.RebuildCFGEdges(fn)
	dt := BuildDominatorTree(fn)

	entry, then, els, join := fn.Blocks[0], fn.Blocks[1], fn.Blocks[2], fn.Blocks[3]
	require.Equal(t, entry, dt.IDom(then))
	require.Equal(t, entry, dt.IDom(els))
	require.Equal(t, entry, dt.IDom(join))
	require.True(t, dt.Dominates(entry, join))
	require.False(t, dt.Dominates(then, join))
}

func TestDominatorTree_DominanceFrontierOfBranchArmsIsJoin(t *testing.T) {
	ctx := tir.NewContext()
	fn := buildDiamond(ctx, ctx.ConstInt(1, 1))
	tir.RebuildCFGEdges(fn)
	dt := BuildDominatorTree(fn)

	then, els, join := fn.Blocks[1], fn.Blocks[2], fn.Blocks[3]
	require.ElementsMatch(t, []*tir.BasicBlock{join}, dt.Frontier(then))
	require.ElementsMatch(t, []*tir.BasicBlock{join}, dt.Frontier(els))
}

func TestPromoteAllocas_DiamondInsertsSinglePhi(t *testing.T) {
	ctx := tir.NewContext()
	fn := buildDiamond(ctx, ctx.ConstInt(1, 1))

	changed := PromoteAllocas(ctx, fn)
	require.True(t, changed)

	join := fn.Blocks[3]
	insts := join.Instructions()
	require.Len(t, insts, 2) // phi, ret
	phi, ok := insts[0].(*tir.PhiInst)
	require.True(t, ok)
	require.Equal(t, 2, phi.NumIncoming())

	// No more loads/stores/allocas anywhere in the function.
	for _, b := range fn.Blocks {
		for _, i := range b.Instructions() {
			require.NotContains(t, []tir.InstKind{tir.InstKindAlloca, tir.InstKindLoad, tir.InstKindStore}, i.Kind())
		}
	}
}

func TestGlobalDCE_RemovesUnusedPureInstruction(t *testing.T) {
	ctx := tir.NewContext()
	i32 := ctx.IntType(32)
	fn := tir.NewFunction(ctx, "f", nil, nil, i32)
	entry := fn.AddBlock(ctx, "entry")
	b := tir.NewBuilder(ctx)
	b.SetInsertPoint(entry)
	dead := b.Binary(tir.BinAdd, ctx.ConstInt(32, 1), ctx.ConstInt(32, 2))
	_ = dead
	b.Ret(ctx.ConstInt(32, 0))

	changed := GlobalDCE(fn)
	require.True(t, changed)
	require.Len(t, entry.Instructions(), 1)
}

func TestSimplifyCFG_ThreadsEmptyJumpBlock(t *testing.T) {
	ctx := tir.NewContext()
	i32 := ctx.IntType(32)
	fn := tir.NewFunction(ctx, "f", nil, nil, i32)
	entry := fn.AddBlock(ctx, "entry")
	mid := fn.AddBlock(ctx, "mid")
	exit := fn.AddBlock(ctx, "exit")

	b := tir.NewBuilder(ctx)
	b.SetInsertPoint(entry)
	b.Br(mid)
	b.SetInsertPoint(mid)
	b.Br(exit)
	b.SetInsertPoint(exit)
	b.Ret(ctx.ConstInt(32, 0))

	SimplifyCFG(fn)
	require.Len(t, fn.Blocks, 1)
}
