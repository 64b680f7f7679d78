package automaton

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/ha1tch/automata-toolkit/pkg/finiteset"
)

// TransitionFunc is a DFA transition function. It returns false when the
// transition is undefined.
type TransitionFunc[S any] func(q S, a rune) (S, bool)

// Table turns a nested map into a TransitionFunc.
func Table[S comparable](m map[S]map[rune]S) TransitionFunc[S] {
	return func(q S, a rune) (S, bool) {
		next, ok := m[q][a]
		return next, ok
	}
}

// DFA is a deterministic finite automaton with a total transition function.
type DFA[S any] struct {
	shape[S]
	delta []int // delta[q*|Σ|+a]
}

// NewDFA builds a DFA, evaluating delta on every state and symbol. It fails
// with an *UndefinedTransitionError if delta is not total over the states.
func NewDFA[S any](states *finiteset.Set[S], alphabet *finiteset.Set[rune], delta TransitionFunc[S], start S, accept *finiteset.Set[S]) (*DFA[S], error) {
	sh, err := newShape(states, alphabet, start, accept)
	if err != nil {
		return nil, fmt.Errorf("new DFA: %w", err)
	}
	k := alphabet.Len()
	table := make([]int, states.Len()*k)
	for i, q := range states.Elems() {
		for j, a := range alphabet.Elems() {
			next, ok := delta(q, a)
			if !ok {
				return nil, &UndefinedTransitionError{State: fmt.Sprint(q), Symbol: a}
			}
			t := states.Index(next)
			if t < 0 {
				return nil, &UndefinedTransitionError{State: fmt.Sprint(q), Symbol: a, Target: fmt.Sprint(next)}
			}
			table[i*k+j] = t
		}
	}
	return &DFA[S]{shape: sh, delta: table}, nil
}

func (m *DFA[S]) step(i, j int) int { return m.delta[i*m.alphabet.Len()+j] }

// Transition returns δ(q, a).
func (m *DFA[S]) Transition(q S, a rune) (S, error) {
	var zero S
	i, err := m.stateIndex(q)
	if err != nil {
		return zero, err
	}
	j, err := m.symIndex(a)
	if err != nil {
		return zero, err
	}
	return m.states.At(m.step(i, j)), nil
}

// ExtendedTransition returns δ*(q, w), reading w left to right.
func (m *DFA[S]) ExtendedTransition(q S, w string) (S, error) {
	var zero S
	i, err := m.stateIndex(q)
	if err != nil {
		return zero, err
	}
	syms, err := m.word(w)
	if err != nil {
		return zero, err
	}
	return m.states.At(m.run(i, syms)), nil
}

func (m *DFA[S]) run(i int, syms []int) int {
	for _, j := range syms {
		i = m.step(i, j)
	}
	return i
}

// Accepts reports whether δ*(start, w) is accepting. A word containing a
// symbol outside the alphabet is rejected.
func (m *DFA[S]) Accepts(w string) bool {
	syms, err := m.word(w)
	if err != nil {
		return false
	}
	return m.accept.Test(uint(m.run(m.start, syms)))
}

// Complement returns the DFA over the same states accepting exactly the
// words m rejects.
func (m *DFA[S]) Complement() *DFA[S] {
	sh := m.shape
	// every accept bitset is sized to the state count
	sh.accept = m.accept.Complement()
	return &DFA[S]{shape: sh, delta: m.delta}
}

// RemoveUnreachable drops every state not reachable from the start state.
func (m *DFA[S]) RemoveUnreachable() *DFA[S] {
	n, k := m.states.Len(), m.alphabet.Len()
	seen := bitset.New(uint(n))
	seen.Set(uint(m.start))
	queue := []int{m.start}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		for j := 0; j < k; j++ {
			t := m.step(i, j)
			if !seen.Test(uint(t)) {
				seen.Set(uint(t))
				queue = append(queue, t)
			}
		}
	}
	if seen.Count() == uint(n) {
		return m
	}

	keep := members(seen)
	renumber := make(map[int]int, len(keep))
	for newIdx, old := range keep {
		renumber[old] = newIdx
	}
	accept := bitset.New(uint(len(keep)))
	table := make([]int, len(keep)*k)
	for newIdx, old := range keep {
		if m.accept.Test(uint(old)) {
			accept.Set(uint(newIdx))
		}
		for j := 0; j < k; j++ {
			table[newIdx*k+j] = renumber[m.step(old, j)]
		}
	}
	sh := m.shape
	sh.states = m.subset(seen)
	sh.start = renumber[m.start]
	sh.accept = accept
	return &DFA[S]{shape: sh, delta: table}
}

// AsNFA views m as an NFA whose transitions are singletons.
func (m *DFA[S]) AsNFA() *NFA[S] {
	table := make([][]int, len(m.delta))
	for i, t := range m.delta {
		table[i] = []int{t}
	}
	return &NFA[S]{shape: m.shape, delta: table}
}

func (m *DFA[S]) String() string { return m.describe("DFA") }
