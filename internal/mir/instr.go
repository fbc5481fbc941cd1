package mir

import "github.com/joos1w/jcc1/internal/tir"

// findOrAllocVirtReg returns v's virtual-register index, assigning the
// next one if v hasn't been seen as a cross-BB value before.
func (b *dagBuilder) findOrAllocVirtReg(v tir.Value) int {
	if idx, ok := b.vregMap[v]; ok {
		return idx
	}
	b.highestVReg++
	b.vregMap[v] = b.highestVReg
	return b.highestVReg
}

// findOrAllocStackSlot returns al's stack slot, allocating one sized
// to its element's byte width rounded up to a word, on first use.
func (b *dagBuilder) findOrAllocStackSlot(al *tir.AllocaInst) StackSlot {
	if s, ok := b.allocaMap[al]; ok {
		return s
	}
	b.highestSlot++
	bytes := (sizeBits(al.Elem, b.mcf.WordBits) + 7) / 8
	wordBytes := b.mcf.WordBits / 8
	slots := (bytes + wordBytes - 1) / wordBytes
	if slots == 0 {
		slots = 1
	}
	s := StackSlot{Index: uint16(b.highestSlot), Count: uint16(slots)}
	b.allocaMap[al] = s
	return s
}

func (b *dagBuilder) buildVReg(inst tir.Instruction) *Node {
	idx := b.findOrAllocVirtReg(inst)
	return CreateRegister(b.mcf, sizeBits(inst.Type(), b.mcf.WordBits), idx)
}

// findValue resolves any TIR value to the DAG node that represents it
// from the current block's perspective: a same-block instruction
// reuses its already-built node, a cross-block one becomes a virtual
// register, an alloca becomes a frame index, and so on.
func (b *dagBuilder) findValue(v tir.Value) *Node {
	switch val := v.(type) {
	case *tir.BasicBlock:
		wrapper := CreateLeaf(b.mcf, KindBasicBlock)
		wrapper.AddChild(b.bbMap[val])
		return wrapper
	case *tir.AllocaInst:
		return CreateFrameIndex(b.mcf, b.mcf.WordBits, b.findOrAllocStackSlot(val))
	case tir.Instruction:
		if val.Block() != b.curBB {
			return b.buildVReg(val)
		}
		if n, ok := b.instMap[val]; ok {
			return n
		}
		panic("mir: instruction does not dominate all uses")
	case *tir.Param:
		return CreateArgument(b.mcf, sizeBits(val.Ty, b.mcf.WordBits), val.Idx)
	case *tir.Function:
		return CreateGlobalAddress(b.mcf, b.mcf.WordBits, val)
	case *tir.Global:
		return CreateGlobalAddress(b.mcf, b.mcf.WordBits, val)
	case *tir.ConstInt:
		return CreateImm(b.mcf, sizeBits(val.Ty, b.mcf.WordBits), val.Val)
	case *tir.ConstNull:
		return CreateImm(b.mcf, b.mcf.WordBits, 0)
	case *tir.Undef:
		return CreateImm(b.mcf, sizeBits(val.Ty, b.mcf.WordBits), 0)
	default:
		panic("mir: unknown value kind")
	}
}

func (b *dagBuilder) buildCC(pred tir.CmpOp) *Node {
	return CreatePredicate(b.mcf, pred)
}

// tryChainToPrev adds a chain edge from node to the DAG node of inst's
// previous instruction, unless that previous instruction is already a
// data dependency of inst (in which case the data edge already
// enforces the ordering). Returns whether a chain was added.
func (b *dagBuilder) tryChainToPrev(inst tir.Instruction, node *Node) bool {
	prev := inst.Prev()
	if prev == nil {
		return false
	}
	for _, u := range prev.Uses() {
		if u.User() == inst {
			return false
		}
	}
	node.AddChild(b.findValue(prev))
	return true
}

func (b *dagBuilder) chainToPrevOrEntry(inst tir.Instruction, node *Node) {
	if b.tryChainToPrev(inst, node) {
		return
	}
	b.bbMap[b.curBB].AddChild(node)
}

// createChainIfNeeded implements spec.md §4.7's chain-edge rule: loads
// always chain to the previous instruction (or Entry), and any
// instruction following a side-effecting one does too.
func (b *dagBuilder) createChainIfNeeded(inst tir.Instruction, node *Node) {
	if inst.Kind() == tir.InstKindLoad {
		b.chainToPrevOrEntry(inst, node)
		return
	}
	if prev := inst.Prev(); prev != nil && hasSideEffects(prev) {
		b.chainToPrevOrEntry(inst, node)
	}
}

// buildInst translates one TIR instruction into its DAG node (nil for
// alloca, which only reserves a stack slot) and records it in instMap.
func (b *dagBuilder) buildInst(inst tir.Instruction) *Node {
	var node *Node
	bits := sizeBits(inst.Type(), b.mcf.WordBits)

	switch v := inst.(type) {
	case *tir.AllocaInst:
		b.findOrAllocStackSlot(v)
		return nil

	case *tir.BrInst:
		if !v.IsConditional() {
			node = Create(b.mcf, KindBr, 0, []*Node{b.findValue(v.TrueTarget())})
			break
		}
		cond := v.Cond()
		if cmp, ok := cond.(*tir.CompareInst); ok {
			cc := b.buildCC(cmp.Op)
			lhs := b.findValue(cmp.LHS())
			rhs := b.findValue(cmp.RHS())
			node = Create(b.mcf, KindBrCC, 0, []*Node{
				cc, lhs, rhs, b.findValue(v.TrueTarget()), b.findValue(v.FalseTarget()),
			})
		} else {
			cc := b.buildCC(tir.CmpNe)
			zero := CreateImm(b.mcf, sizeBits(cond.Type(), b.mcf.WordBits), 0)
			lhs := b.findValue(cond)
			node = Create(b.mcf, KindBrCC, 0, []*Node{
				cc, lhs, zero, b.findValue(v.TrueTarget()), b.findValue(v.FalseTarget()),
			})
		}

	case *tir.RetInst:
		if val := v.Val(); val != nil {
			node = Create(b.mcf, KindReturn, 0, []*Node{b.findValue(val)})
		} else {
			node = Create(b.mcf, KindReturn, 0, nil)
		}

	case *tir.StoreInst:
		node = Create(b.mcf, KindStore, 0, []*Node{b.findValue(v.Val()), b.findValue(v.Ptr())})

	case *tir.LoadInst:
		node = Create(b.mcf, KindLoad, bits, []*Node{b.findValue(v.Ptr())})

	case *tir.BinaryInst:
		node = Create(b.mcf, binOpKind(v.Op), bits, []*Node{b.findValue(v.LHS()), b.findValue(v.RHS())})

	case *tir.CompareInst:
		cc := b.buildCC(v.Op)
		node = Create(b.mcf, KindSetCC, bits, []*Node{cc, b.findValue(v.LHS()), b.findValue(v.RHS())})

	case *tir.ICastInst:
		src := b.findValue(v.Val())
		switch v.CastKind {
		case tir.ICastTrunc:
			node = Create(b.mcf, KindTruncate, bits, []*Node{src})
		case tir.ICastZExt:
			node = Create(b.mcf, KindZeroExtend, bits, []*Node{src})
		case tir.ICastSExt:
			node = Create(b.mcf, KindSignExtend, bits, []*Node{src})
		default:
			// PtrToInt/IntToPtr/Bitcast: TIR's opaque pointer type carries
			// no reinterpretation semantics of its own, so these are
			// no-op reuses of the source node rather than a new machine
			// node (unlike the original jcc1's typed-pointer GEP, which
			// needs none of these casts at all).
			b.instMap[inst] = src
			return src
		}

	case *tir.GEPInst:
		node = b.buildGEP(v)

	case *tir.CallInst:
		args := make([]*Node, 0, v.NumArgs()+1)
		args = append(args, b.findValue(v.Callee()))
		for i := 0; i < v.NumArgs(); i++ {
			args = append(args, b.findValue(v.Arg(i)))
		}
		node = Create(b.mcf, KindCall, bits, args)

	case *tir.PhiInst:
		node = Create(b.mcf, KindPhi, bits, nil)
		for i := 0; i < v.NumIncoming(); i++ {
			node.AddChild(b.findValue(v.IncomingValue(i)))
			node.AddChild(b.findValue(v.IncomingBlock(i)))
		}

	default:
		panic("mir: instruction selection does not support this instruction")
	}

	b.createChainIfNeeded(inst, node)
	b.instMap[inst] = node
	return node
}

func binOpKind(op tir.BinOp) NodeKind {
	switch op {
	case tir.BinAdd:
		return KindAdd
	case tir.BinSub:
		return KindSub
	case tir.BinMul:
		return KindMul
	case tir.BinDiv:
		return KindSDiv
	case tir.BinRem:
		return KindSRem
	case tir.BinAnd:
		return KindAnd
	case tir.BinOr:
		return KindOr
	case tir.BinXor:
		return KindXor
	default:
		panic("mir: unknown binop")
	}
}

// buildGEP lowers a getelementptr sequentially: TIR's opaque pointer
// type erases struct-vs-array shape past the IR boundary (see
// tir.PointerType's doc comment), so every index here is treated as a
// dynamic element offset at word granularity, unlike the original
// jcc1's GEP which folds constant struct-field indices into immediate
// byte offsets using the pointee's still-known StructType.
func (b *dagBuilder) buildGEP(g *tir.GEPInst) *Node {
	base := b.findValue(g.Base())
	stride := CreateImm(b.mcf, b.mcf.WordBits, int64(b.mcf.WordBits/8))
	for i := 0; i < g.NumIndices(); i++ {
		idx := b.findValue(g.Index(i))
		offset := Create(b.mcf, KindMul, b.mcf.WordBits, []*Node{idx, stride})
		base = Create(b.mcf, KindAdd, b.mcf.WordBits, []*Node{base, offset})
	}
	return base
}
