package automaton

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/ha1tch/automata-toolkit/pkg/finiteset"
)

// AcceptPredicate decides whether a product state is accepting, given
// whether each component is accepting in its own machine.
type AcceptPredicate func(accept1, accept2 bool) bool

// Combine builds the product of m1 and m2: states are pairs, transitions act
// componentwise and pred picks the accepting pairs. Both machines must have
// equal alphabets.
func Combine[S, T any](m1 *DFA[S], m2 *DFA[T], pred AcceptPredicate) (*DFA[finiteset.Pair[S, T]], error) {
	same, err := m1.alphabet.Equals(m2.alphabet)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAlphabetMismatch, err)
	}
	if !same {
		return nil, fmt.Errorf("%w: %s and %s", ErrAlphabetMismatch, runeSet(m1.alphabet), runeSet(m2.alphabet))
	}

	n1, n2, k := m1.states.Len(), m2.states.Len(), m1.alphabet.Len()
	// symbol j of m1 is symbol perm[j] of m2
	perm := make([]int, k)
	for j, a := range m1.alphabet.Elems() {
		perm[j], _ = m2.symIndex(a)
	}

	table := make([]int, n1*n2*k)
	accept := bitset.New(uint(n1 * n2))
	for i1 := 0; i1 < n1; i1++ {
		for i2 := 0; i2 < n2; i2++ {
			p := i1*n2 + i2
			if pred(m1.accept.Test(uint(i1)), m2.accept.Test(uint(i2))) {
				accept.Set(uint(p))
			}
			for j := 0; j < k; j++ {
				table[p*k+j] = m1.step(i1, j)*n2 + m2.step(i2, perm[j])
			}
		}
	}

	states := finiteset.Cross(m1.states, m2.states)
	return &DFA[finiteset.Pair[S, T]]{
		shape: shape[finiteset.Pair[S, T]]{
			states:   states,
			alphabet: m1.alphabet,
			symbols:  m1.symbols,
			start:    m1.start*n2 + m2.start,
			accept:   accept,
		},
		delta: table,
	}, nil
}

// Union accepts the words accepted by m1 or m2.
func Union[S, T any](m1 *DFA[S], m2 *DFA[T]) (*DFA[finiteset.Pair[S, T]], error) {
	return Combine(m1, m2, func(a1, a2 bool) bool { return a1 || a2 })
}

// Intersection accepts the words accepted by both m1 and m2.
func Intersection[S, T any](m1 *DFA[S], m2 *DFA[T]) (*DFA[finiteset.Pair[S, T]], error) {
	return Combine(m1, m2, func(a1, a2 bool) bool { return a1 && a2 })
}

// Difference accepts the words accepted by m1 but not m2.
func Difference[S, T any](m1 *DFA[S], m2 *DFA[T]) (*DFA[finiteset.Pair[S, T]], error) {
	return Combine(m1, m2, func(a1, a2 bool) bool { return a1 && !a2 })
}

// SymmetricDifference accepts the words accepted by exactly one of m1 and m2.
func SymmetricDifference[S, T any](m1 *DFA[S], m2 *DFA[T]) (*DFA[finiteset.Pair[S, T]], error) {
	return Combine(m1, m2, func(a1, a2 bool) bool { return a1 != a2 })
}
