package isel

import (
	"sort"

	"github.com/joos1w/jcc1/internal/mir"
)

// Provider buckets every registered PatDef by the node kind it can
// replace and sorts each bucket once, per spec.md §4.8's "Selection
// ordering": more inputs first, ties broken by fewer register inputs
// (favouring memory/immediate folds over register-register forms).
// Grounded on PatternProvider<TD,PP> in Patterns.h.
type Provider struct {
	buckets map[mir.NodeKind][]*PatDef
	sorted  bool
}

func NewProvider(defs ...*PatDef) *Provider {
	p := &Provider{buckets: map[mir.NodeKind][]*PatDef{}}
	for _, d := range defs {
		p.Register(d)
	}
	return p
}

func (p *Provider) Register(d *PatDef) {
	p.buckets[d.RootKind] = append(p.buckets[d.RootKind], d)
	p.sorted = false
}

func (p *Provider) sort() {
	if p.sorted {
		return
	}
	for k, defs := range p.buckets {
		sorted := make([]*PatDef, len(defs))
		copy(sorted, defs)
		sort.SliceStable(sorted, func(i, j int) bool {
			a, b := sorted[i], sorted[j]
			if len(a.Inputs) != len(b.Inputs) {
				return len(a.Inputs) > len(b.Inputs)
			}
			return a.numRegisterInputs() < b.numRegisterInputs()
		})
		p.buckets[k] = sorted
	}
	p.sorted = true
}

// PatternsFor returns kind's pattern definitions, sorted.
func (p *Provider) PatternsFor(kind mir.NodeKind) []*PatDef {
	p.sort()
	return p.buckets[kind]
}
