package tir

import "strconv"

// Function is a lowered method/constructor: its signature, its ordered
// formal parameters (as Values with no defining instruction), and its
// basic blocks in layout order (Blocks[0] is always the entry block).
type Function struct {
	valueBase
	Name   string
	Ty     *FuncType
	Params []*Param
	Blocks []*BasicBlock

	blockNameSeq int
}

func (f *Function) Type() Type     { return f.Ty }
func (f *Function) String() string { return "@" + f.Name }

// NewFunction allocates a function with its parameter list already
// materialized as Values; the caller still needs to add at least an
// entry block via AddBlock before building into it.
func NewFunction(ctx *Context, name string, paramTypes []Type, paramNames []string, ret Type) *Function {
	fn := &Function{Name: name, Ty: ctx.FuncType(ret, paramTypes)}
	fn.id = ctx.nextValueID()
	for i, pt := range paramTypes {
		n := ""
		if i < len(paramNames) {
			n = paramNames[i]
		}
		fn.Params = append(fn.Params, newParam(ctx, fn, i, n, pt))
	}
	return fn
}

// AddBlock appends a new, empty basic block to fn and returns it. name
// is deduplicated with a numeric suffix if it collides with an existing
// block's name, matching the teacher's label-uniquing convention in
// internal/bytecode's jump-target table.
func (f *Function) AddBlock(ctx *Context, name string) *BasicBlock {
	used := make(map[string]bool, len(f.Blocks))
	for _, b := range f.Blocks {
		used[b.Name] = true
	}
	unique := name
	for used[unique] {
		f.blockNameSeq++
		unique = name + ".b" + strconv.Itoa(f.blockNameSeq)
	}
	b := newBasicBlock(ctx, f, unique)
	f.Blocks = append(f.Blocks, b)
	return b
}

func (f *Function) Entry() *BasicBlock {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[0]
}

// RemoveBlock deletes b from fn's block list; the caller is responsible
// for having already cleared b's instructions' use edges (SimplifyCFG's
// block merging and unreachable-block removal do this).
func (f *Function) RemoveBlock(b *BasicBlock) {
	for i, bb := range f.Blocks {
		if bb == b {
			f.Blocks = append(f.Blocks[:i], f.Blocks[i+1:]...)
			return
		}
	}
}
