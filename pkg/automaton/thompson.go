package automaton

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/ha1tch/automata-toolkit/pkg/finiteset"
	"github.com/ha1tch/automata-toolkit/pkg/naming"
	"github.com/ha1tch/automata-toolkit/pkg/regex"
)

// FromRegex builds an ε-NFA for r over alphabet by Thompson's construction.
// Every node of r gets its own fresh states from ctx, including repeated
// occurrences of a shared subtree. Symbols of r must belong to alphabet.
func FromRegex(ctx *naming.Context, r *regex.Regex, alphabet *finiteset.Set[rune]) (*EpsilonNFA[naming.Name], error) {
	for _, a := range r.Symbols() {
		if !alphabet.Contains(a) {
			return nil, fmt.Errorf("regex to ε-NFA: %w", unknownSymbol(a))
		}
	}
	b := &thompson{ctx: ctx, alphabet: alphabet, k: alphabet.Len()}
	f := regex.Fold[fragment](r, b)
	return b.build(alphabet, f), nil
}

// fragment is the part of the machine built for one regex node.
type fragment struct {
	start   int
	accepts []int
}

type thompson struct {
	ctx      *naming.Context
	alphabet *finiteset.Set[rune]
	k        int

	names []naming.Name
	delta [][]int // delta[q*k+a]
	eps   [][]int
}

func (b *thompson) fresh() int {
	b.names = append(b.names, b.ctx.Fresh("q"))
	b.delta = append(b.delta, make([][]int, b.k)...)
	b.eps = append(b.eps, nil)
	return len(b.names) - 1
}

func (b *thompson) VisitEmpty() fragment {
	return fragment{start: b.fresh()}
}

func (b *thompson) VisitEmptyString() fragment {
	s := b.fresh()
	return fragment{start: s, accepts: []int{s}}
}

func (b *thompson) VisitSymbol(c rune) fragment {
	s, t := b.fresh(), b.fresh()
	j := b.alphabet.Index(c)
	b.delta[s*b.k+j] = append(b.delta[s*b.k+j], t)
	return fragment{start: s, accepts: []int{t}}
}

func (b *thompson) VisitConcat(_, _ *regex.Regex, f1, f2 fragment) fragment {
	for _, q := range f1.accepts {
		b.eps[q] = append(b.eps[q], f2.start)
	}
	return fragment{start: f1.start, accepts: f2.accepts}
}

func (b *thompson) VisitUnion(_, _ *regex.Regex, f1, f2 fragment) fragment {
	s := b.fresh()
	b.eps[s] = append(b.eps[s], f1.start, f2.start)
	accepts := append(append([]int(nil), f1.accepts...), f2.accepts...)
	return fragment{start: s, accepts: accepts}
}

func (b *thompson) VisitStar(_ *regex.Regex, f fragment) fragment {
	s := b.fresh()
	b.eps[s] = append(b.eps[s], f.start)
	for _, q := range f.accepts {
		b.eps[q] = append(b.eps[q], s)
	}
	return fragment{start: s, accepts: []int{s}}
}

func (b *thompson) build(alphabet *finiteset.Set[rune], f fragment) *EpsilonNFA[naming.Name] {
	n := len(b.names)
	accept := bitset.New(uint(n))
	for _, q := range f.accepts {
		accept.Set(uint(q))
	}
	// ε-lists may hold duplicates; keep them sorted and distinct like every
	// other table.
	for i, moves := range b.eps {
		b.eps[i] = dedupe(moves, n)
	}
	for i, moves := range b.delta {
		b.delta[i] = dedupe(moves, n)
	}
	return &EpsilonNFA[naming.Name]{
		shape: shape[naming.Name]{
			states:   finiteset.FromDistinct(finiteset.Comparable[naming.Name](), b.names),
			alphabet: alphabet,
			symbols:  symbolIndex(alphabet),
			start:    f.start,
			accept:   accept,
		},
		delta: b.delta,
		eps:   b.eps,
	}
}

func dedupe(xs []int, n int) []int {
	if len(xs) < 2 {
		return xs
	}
	bs := bitset.New(uint(n))
	for _, x := range xs {
		bs.Set(uint(x))
	}
	return members(bs)
}
