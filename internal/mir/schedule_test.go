package mir

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joos1w/jcc1/internal/tir"
)

func TestSchedule_AddOneOrdersStoreLoadAddReturn(t *testing.T) {
	ctx := tir.NewContext()
	fn := buildAddOne(ctx)
	tir.RebuildCFGEdges(fn)
	mcf := Build(fn, 64)

	Schedule(mcf)

	sg := mcf.Subgraphs[0]
	require.Equal(t, KindReturn, sg.Root.Kind())

	ret := sg.Root
	add := ret.Child(0)
	load := add.Child(0)
	store := load.Chains()[0]

	// The scheduled list runs store -> load -> add -> return: the
	// value must be written to the stack slot, then read back, before
	// it can be summed and returned.
	require.Equal(t, store, sg.Entry)
	require.Equal(t, load, store.Next())
	require.Equal(t, add, load.Next())
	require.Equal(t, ret, add.Next())
	require.Nil(t, ret.Next())
	require.Nil(t, store.Prev())
	require.Equal(t, store, load.Prev())

	// Topological index decreases top-to-bottom of the scheduled list.
	require.Equal(t, 0, ret.TopoIndex())
	require.Equal(t, 1, add.TopoIndex())
	require.Equal(t, 2, load.TopoIndex())
	require.Equal(t, 3, store.TopoIndex())

	// Each operand-consumed node's live range extends down to its last
	// (lowest-indexed) consumer; the store's only reference from load
	// is a chain edge, which doesn't extend a live range.
	require.Equal(t, 0, add.LiveRangeEnd())
	require.Equal(t, 1, load.LiveRangeEnd())
	require.Equal(t, 3, store.LiveRangeEnd())
}

func TestSchedule_UnreachedSubgraphLeavesNodesUnscheduled(t *testing.T) {
	ctx := tir.NewContext()
	fn := buildAddOne(ctx)
	tir.RebuildCFGEdges(fn)
	mcf := Build(fn, 64)

	leaf := CreateImm(mcf, 32, 7)
	Schedule(mcf)
	require.Equal(t, -1, leaf.TopoIndex())
	require.Equal(t, -1, leaf.LiveRangeEnd())
}
