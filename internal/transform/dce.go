package transform

import "github.com/joos1w/jcc1/internal/tir"

// GlobalDCE repeatedly removes pure instructions with no remaining uses
// until a fixed point, across every block of fn. Terminators, stores,
// and calls are never eligible (calls may have side effects the
// language's Non-goals don't let this pass reason about; spec.md §5.3
// scopes "global DCE" to dead pure-value instructions only).
func GlobalDCE(fn *tir.Function) bool {
	changed := false
	for {
		round := false
		for _, b := range fn.Blocks {
			for _, i := range b.Instructions() {
				if !isDCECandidate(i) {
					continue
				}
				if len(i.Uses()) > 0 {
					continue
				}
				clearOperands(i)
				b.Remove(i)
				round = true
			}
		}
		if !round {
			break
		}
		changed = true
	}
	return changed
}

func isDCECandidate(i tir.Instruction) bool {
	switch i.Kind() {
	case tir.InstKindAlloca, tir.InstKindLoad, tir.InstKindBinary,
		tir.InstKindCompare, tir.InstKindICast, tir.InstKindGEP, tir.InstKindPhi:
		return true
	default:
		return false
	}
}
