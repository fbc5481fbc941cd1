// Package arena implements bump allocation and the use/user graph-node
// primitive shared by the AST, TIR, and MIR data models.
//
// Nodes allocated from an Arena are never individually freed; the arena
// is the unit of lifetime. Multiple arenas with distinct lifetimes can
// coexist (a permanent context arena, a per-pass temporary arena, a
// per-function managed arena); a pass declares which arena it uses by
// holding a reference to it.
package arena

// Arena is a bump-allocated region of node storage. Go already gives
// per-object heap allocation, so the "bump" here is purely bookkeeping:
// Arena tracks every node handed out from it so passes can assert on
// population counts and so a whole arena's nodes can be iterated without
// a separate registry.
type Arena struct {
	name  string
	nodes []any
	bytes int
}

// New creates an empty arena. name is used only for diagnostics/Stats.
func New(name string) *Arena {
	return &Arena{name: name}
}

// Name returns the arena's diagnostic name.
func (a *Arena) Name() string { return a.name }

// track records a freshly allocated node for Stats(). Callers pass the
// node and an approximate size in bytes; size does not need to be exact.
func track[T any](a *Arena, v T, size int) T {
	a.nodes = append(a.nodes, v)
	a.bytes += size
	return v
}

// Track registers a node with the arena, returning it unchanged so call
// sites can wrap an allocation expression: `return arena.Track(a, &Foo{...}, sizeOfFoo)`.
func Track[T any](a *Arena, v T, size int) T {
	return track(a, v, size)
}

// Stats reports the number of nodes and approximate bytes handed out by
// this arena, used by the CLI's --dump=arena-stats flag.
type Stats struct {
	Name  string
	Count int
	Bytes int
}

func (a *Arena) Stats() Stats {
	return Stats{Name: a.name, Count: len(a.nodes), Bytes: a.bytes}
}
