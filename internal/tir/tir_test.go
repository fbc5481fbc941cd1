package tir

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"
)

func buildAddOne(ctx *Context) *Function {
	i32 := ctx.IntType(32)
	fn := NewFunction(ctx, "addOne", []Type{i32}, []string{"x"}, i32)
	entry := fn.AddBlock(ctx, "entry")

	b := NewBuilder(ctx)
	b.SetInsertPoint(entry)
	slot := b.Alloca(i32)
	b.Store(fn.Params[0], slot)
	loaded := b.Load(slot, i32)
	sum := b.Binary(BinAdd, loaded, ctx.ConstInt(32, 1))
	b.Ret(sum)
	return fn
}

func TestBuilder_ProducesWellFormedFunction(t *testing.T) {
	ctx := NewContext()
	fn := buildAddOne(ctx)

	require.Len(t, fn.Blocks, 1)
	entry := fn.Entry()
	require.NotNil(t, entry.Terminator())
	require.Equal(t, InstKindRet, entry.Terminator().Kind())

	insts := entry.Instructions()
	require.Len(t, insts, 5)
	require.Equal(t, InstKindAlloca, insts[0].Kind())
	require.Equal(t, InstKindStore, insts[1].Kind())
	require.Equal(t, InstKindLoad, insts[2].Kind())
	require.Equal(t, InstKindBinary, insts[3].Kind())
}

func TestAllocaUseList_TracksStoreAndLoad(t *testing.T) {
	ctx := NewContext()
	fn := buildAddOne(ctx)
	entry := fn.Entry()
	alloca := entry.First().(*AllocaInst)

	// Two uses: the store's pointer operand and the load's pointer
	// operand.
	require.Len(t, alloca.Uses(), 2)
}

func TestBasicBlock_RemoveUnlinksFromList(t *testing.T) {
	ctx := NewContext()
	fn := buildAddOne(ctx)
	entry := fn.Entry()
	loaded := entry.First().Next().Next() // load

	entry.Remove(loaded)
	insts := entry.Instructions()
	require.Len(t, insts, 3)
	for _, i := range insts {
		require.NotEqual(t, InstKindLoad, i.Kind())
	}
}

func TestContext_IntTypeIsInterned(t *testing.T) {
	ctx := NewContext()
	a := ctx.IntType(32)
	b := ctx.IntType(32)
	require.Same(t, a, b)
	require.NotSame(t, a, ctx.IntType(8))
}

func TestDump_AddOneSnapshot(t *testing.T) {
	ctx := NewContext()
	fn := buildAddOne(ctx)
	out := Dump(fn)
	require.True(t, strings.HasPrefix(out, "define i32 @addOne("))
	snaps.MatchSnapshot(t, out)
}
