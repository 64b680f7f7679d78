package automaton

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/ha1tch/automata-toolkit/pkg/finiteset"
)

// SetFunc is a nondeterministic transition function. A nil result means no
// successor.
type SetFunc[S any] func(q S, a rune) *finiteset.Set[S]

// NFA is a nondeterministic finite automaton without ε-moves.
type NFA[S any] struct {
	shape[S]
	delta [][]int // delta[q*|Σ|+a] lists successor indices in state order
}

// NewNFA builds an NFA, evaluating delta on every state and symbol.
func NewNFA[S any](states *finiteset.Set[S], alphabet *finiteset.Set[rune], delta SetFunc[S], start S, accept *finiteset.Set[S]) (*NFA[S], error) {
	sh, err := newShape(states, alphabet, start, accept)
	if err != nil {
		return nil, fmt.Errorf("new NFA: %w", err)
	}
	table, err := sh.setTable(delta)
	if err != nil {
		return nil, fmt.Errorf("new NFA: %w", err)
	}
	return &NFA[S]{shape: sh, delta: table}, nil
}

func (sh shape[S]) setTable(delta SetFunc[S]) ([][]int, error) {
	k := sh.alphabet.Len()
	table := make([][]int, sh.states.Len()*k)
	for i, q := range sh.states.Elems() {
		for j, a := range sh.alphabet.Elems() {
			bs, err := sh.indices(delta(q, a), fmt.Sprintf("successor of (%v, %q)", q, a))
			if err != nil {
				return nil, err
			}
			table[i*k+j] = members(bs)
		}
	}
	return table, nil
}

// move returns the union of δ(q, a) over q ∈ from.
func move(delta [][]int, k int, from *bitset.BitSet, j int, n int) *bitset.BitSet {
	to := bitset.New(uint(n))
	for i, ok := from.NextSet(0); ok; i, ok = from.NextSet(i + 1) {
		for _, t := range delta[int(i)*k+j] {
			to.Set(uint(t))
		}
	}
	return to
}

func (m *NFA[S]) single(i int) *bitset.BitSet {
	return bitset.New(uint(m.states.Len())).Set(uint(i))
}

// Transition returns δ(q, a).
func (m *NFA[S]) Transition(q S, a rune) (*finiteset.Set[S], error) {
	i, err := m.stateIndex(q)
	if err != nil {
		return nil, err
	}
	j, err := m.symIndex(a)
	if err != nil {
		return nil, err
	}
	return m.subset(move(m.delta, m.alphabet.Len(), m.single(i), j, m.states.Len())), nil
}

// ExtendedTransition returns the set of states reachable from q reading w.
func (m *NFA[S]) ExtendedTransition(q S, w string) (*finiteset.Set[S], error) {
	i, err := m.stateIndex(q)
	if err != nil {
		return nil, err
	}
	syms, err := m.word(w)
	if err != nil {
		return nil, err
	}
	return m.subset(m.run(m.single(i), syms)), nil
}

func (m *NFA[S]) run(cur *bitset.BitSet, syms []int) *bitset.BitSet {
	k, n := m.alphabet.Len(), m.states.Len()
	for _, j := range syms {
		cur = move(m.delta, k, cur, j, n)
		if cur.None() {
			break
		}
	}
	return cur
}

// Accepts reports whether some run on w ends in an accepting state.
func (m *NFA[S]) Accepts(w string) bool {
	syms, err := m.word(w)
	if err != nil {
		return false
	}
	return m.run(m.single(m.start), syms).IntersectionCardinality(m.accept) > 0
}

// AsEpsilonNFA views m as an ε-NFA without ε-moves.
func (m *NFA[S]) AsEpsilonNFA() *EpsilonNFA[S] {
	return &EpsilonNFA[S]{shape: m.shape, delta: m.delta, eps: make([][]int, m.states.Len())}
}

func (m *NFA[S]) String() string { return m.describe("NFA") }
