package automaton

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/ha1tch/automata-toolkit/pkg/finiteset"
)

// MoveFunc gives the ε-successors of a state. A nil result means none.
type MoveFunc[S any] func(q S) *finiteset.Set[S]

// EpsilonNFA is an NFA with ε-moves.
type EpsilonNFA[S any] struct {
	shape[S]
	delta [][]int
	eps   [][]int
}

// NewEpsilonNFA builds an ε-NFA, evaluating delta on every state and symbol
// and eps on every state.
func NewEpsilonNFA[S any](states *finiteset.Set[S], alphabet *finiteset.Set[rune], delta SetFunc[S], eps MoveFunc[S], start S, accept *finiteset.Set[S]) (*EpsilonNFA[S], error) {
	sh, err := newShape(states, alphabet, start, accept)
	if err != nil {
		return nil, fmt.Errorf("new ε-NFA: %w", err)
	}
	table, err := sh.setTable(delta)
	if err != nil {
		return nil, fmt.Errorf("new ε-NFA: %w", err)
	}
	moves := make([][]int, states.Len())
	for i, q := range states.Elems() {
		bs, err := sh.indices(eps(q), fmt.Sprintf("ε-successor of %v", q))
		if err != nil {
			return nil, fmt.Errorf("new ε-NFA: %w", err)
		}
		moves[i] = members(bs)
	}
	return &EpsilonNFA[S]{shape: sh, delta: table, eps: moves}, nil
}

// closure extends set in place with everything reachable by ε-moves.
func closure(eps [][]int, set *bitset.BitSet) *bitset.BitSet {
	queue := members(set)
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		for _, t := range eps[i] {
			if !set.Test(uint(t)) {
				set.Set(uint(t))
				queue = append(queue, t)
			}
		}
	}
	return set
}

// EpsilonMoves returns the direct ε-successors of q.
func (m *EpsilonNFA[S]) EpsilonMoves(q S) (*finiteset.Set[S], error) {
	i, err := m.stateIndex(q)
	if err != nil {
		return nil, err
	}
	bs := bitset.New(uint(m.states.Len()))
	for _, t := range m.eps[i] {
		bs.Set(uint(t))
	}
	return m.subset(bs), nil
}

// EpsilonClosure returns every state reachable from q by zero or more
// ε-moves.
func (m *EpsilonNFA[S]) EpsilonClosure(q S) (*finiteset.Set[S], error) {
	i, err := m.stateIndex(q)
	if err != nil {
		return nil, err
	}
	return m.subset(closure(m.eps, m.single(i))), nil
}

func (m *EpsilonNFA[S]) single(i int) *bitset.BitSet {
	return bitset.New(uint(m.states.Len())).Set(uint(i))
}

// Transition returns δ(q, a) without taking any ε-moves.
func (m *EpsilonNFA[S]) Transition(q S, a rune) (*finiteset.Set[S], error) {
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

// ExtendedTransition returns the states reachable from q reading w, taking
// ε-closures before and after every symbol.
func (m *EpsilonNFA[S]) ExtendedTransition(q S, w string) (*finiteset.Set[S], error) {
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

func (m *EpsilonNFA[S]) run(cur *bitset.BitSet, syms []int) *bitset.BitSet {
	k, n := m.alphabet.Len(), m.states.Len()
	cur = closure(m.eps, cur)
	for _, j := range syms {
		cur = closure(m.eps, move(m.delta, k, cur, j, n))
		if cur.None() {
			break
		}
	}
	return cur
}

// Accepts reports whether some run on w ends in an accepting state.
func (m *EpsilonNFA[S]) Accepts(w string) bool {
	syms, err := m.word(w)
	if err != nil {
		return false
	}
	return m.run(m.single(m.start), syms).IntersectionCardinality(m.accept) > 0
}

func (m *EpsilonNFA[S]) String() string { return m.describe("ε-NFA") }
