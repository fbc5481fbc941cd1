package mir

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joos1w/jcc1/internal/tir"
)

// buildAddOne mirrors internal/tir's own addOne fixture: alloca a
// param, store it, load it back, add one, return.
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

func TestBuild_AddOneHasSingleSubgraphRootedAtReturn(t *testing.T) {
	ctx := tir.NewContext()
	fn := buildAddOne(ctx)
	tir.RebuildCFGEdges(fn)

	mcf := Build(fn, 64)
	require.Len(t, mcf.Subgraphs, 1)

	root := mcf.Subgraphs[0].Root
	require.Equal(t, KindReturn, root.Kind())
	require.Equal(t, 1, root.Arity())
	require.Equal(t, KindAdd, root.Child(0).Kind())
}

func TestBuild_AllocaBecomesFrameIndexNotANode(t *testing.T) {
	ctx := tir.NewContext()
	fn := buildAddOne(ctx)
	tir.RebuildCFGEdges(fn)

	mcf := Build(fn, 64)
	root := mcf.Subgraphs[0].Root
	add := root.Child(0)
	load := add.Child(0)
	require.Equal(t, KindLoad, load.Kind())
	require.Equal(t, KindFrameIndex, load.Child(0).Kind())
	require.Equal(t, StackSlot{Index: 1, Count: 1}, load.Child(0).StackSlot())
}

func TestBuild_CrossBlockUseBecomesLoadToReg(t *testing.T) {
	ctx := tir.NewContext()
	i32 := ctx.IntType(32)
	fn := tir.NewFunction(ctx, "maxOf", []tir.Type{i32, i32}, []string{"a", "b"}, i32)
	entry := fn.AddBlock(ctx, "entry")
	then := fn.AddBlock(ctx, "then")
	join := fn.AddBlock(ctx, "join")

	b := tir.NewBuilder(ctx)
	b.SetInsertPoint(entry)
	cmp := b.Compare(tir.CmpGt, fn.Params[0], fn.Params[1])
	b.CondBr(cmp, then, join)

	b.SetInsertPoint(then)
	defInThen := b.Binary(tir.BinAdd, fn.Params[0], ctx.ConstInt(32, 0))
	b.Br(join)

	b.SetInsertPoint(join)
	b.Ret(defInThen) // used from a different block than its definition

	tir.RebuildCFGEdges(fn)
	mcf := Build(fn, 64)

	joinSubgraph := mcf.SubgraphFor(join)
	require.Equal(t, KindReturn, joinSubgraph.Root.Kind())
	require.Equal(t, KindRegister, joinSubgraph.Root.Child(0).Kind())

	// The then-block's subgraph (the value's definition site) gained a
	// LoadToReg chained onto it, materializing the value for cross-BB
	// consumers.
	thenSubgraph := mcf.SubgraphFor(then)
	var foundLoadToReg bool
	for _, c := range thenSubgraph.Root.Chains() {
		if c.Kind() == KindLoadToReg {
			foundLoadToReg = true
		}
	}
	require.True(t, foundLoadToReg)
}

func TestBuild_BranchOnCompareProducesBrCCWithInlinedPredicate(t *testing.T) {
	ctx := tir.NewContext()
	i32 := ctx.IntType(32)
	fn := tir.NewFunction(ctx, "f", []tir.Type{i32}, []string{"x"}, i32)
	entry := fn.AddBlock(ctx, "entry")
	a := fn.AddBlock(ctx, "a")
	c := fn.AddBlock(ctx, "c")

	b := tir.NewBuilder(ctx)
	b.SetInsertPoint(entry)
	cmp := b.Compare(tir.CmpEq, fn.Params[0], ctx.ConstInt(32, 0))
	b.CondBr(cmp, a, c)
	b.SetInsertPoint(a)
	b.Ret(ctx.ConstInt(32, 1))
	b.SetInsertPoint(c)
	b.Ret(ctx.ConstInt(32, 2))

	tir.RebuildCFGEdges(fn)
	mcf := Build(fn, 64)

	entrySubgraph := mcf.SubgraphFor(entry)
	require.Equal(t, KindBrCC, entrySubgraph.Root.Kind())
	require.Equal(t, 5, entrySubgraph.Root.Arity())
	require.Equal(t, KindPredicate, entrySubgraph.Root.Child(0).Kind())
	require.Equal(t, tir.CmpEq, entrySubgraph.Root.Child(0).Predicate())
}

func TestBuild_RootOperandRecordsItsUser(t *testing.T) {
	ctx := tir.NewContext()
	fn := buildAddOne(ctx)
	tir.RebuildCFGEdges(fn)
	mcf := Build(fn, 64)

	root := mcf.Subgraphs[0].Root
	before := root.Child(0).NumUsers()
	require.GreaterOrEqual(t, before, 1)
}
