package automaton

import (
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/ha1tch/automata-toolkit/pkg/finiteset"
)

// Minimize merges equivalent states by Moore partition refinement after
// removing unreachable ones. The states of the result are the equivalence
// classes, each a set of states of m.
func Minimize[S any](m *DFA[S]) *DFA[*finiteset.Set[S]] {
	m = m.RemoveUnreachable()
	n, k := m.states.Len(), m.alphabet.Len()

	block := make([]int, n)
	for i := range block {
		if m.accept.Test(uint(i)) {
			block[i] = 1
		}
	}
	count := renumber(block)

	for {
		// A state's signature is its block plus the blocks it moves to.
		sig := make(map[string]int)
		next := make([]int, n)
		var sb strings.Builder
		for i := 0; i < n; i++ {
			sb.Reset()
			sb.WriteString(strconv.Itoa(block[i]))
			for j := 0; j < k; j++ {
				sb.WriteByte(',')
				sb.WriteString(strconv.Itoa(block[m.step(i, j)]))
			}
			id, ok := sig[sb.String()]
			if !ok {
				id = len(sig)
				sig[sb.String()] = id
			}
			next[i] = id
		}
		block = next
		if len(sig) == count {
			break
		}
		count = len(sig)
	}

	classBits := make([]*bitset.BitSet, count)
	rep := make([]int, count)
	for i := n - 1; i >= 0; i-- {
		b := block[i]
		if classBits[b] == nil {
			classBits[b] = bitset.New(uint(n))
		}
		classBits[b].Set(uint(i))
		rep[b] = i
	}

	classes := make([]*finiteset.Set[S], count)
	table := make([]int, count*k)
	accept := bitset.New(uint(count))
	for b := 0; b < count; b++ {
		classes[b] = m.subset(classBits[b])
		if m.accept.Test(uint(rep[b])) {
			accept.Set(uint(b))
		}
		for j := 0; j < k; j++ {
			table[b*k+j] = block[m.step(rep[b], j)]
		}
	}

	return &DFA[*finiteset.Set[S]]{
		shape: shape[*finiteset.Set[S]]{
			states:   finiteset.FromDistinct(finiteset.SetEquality(m.states.Equality()), classes),
			alphabet: m.alphabet,
			symbols:  m.symbols,
			start:    block[m.start],
			accept:   accept,
		},
		delta: table,
	}
}

// renumber relabels block ids in order of first appearance and returns how
// many there are.
func renumber(block []int) int {
	ids := make(map[int]int)
	for i, b := range block {
		id, ok := ids[b]
		if !ok {
			id = len(ids)
			ids[b] = id
		}
		block[i] = id
	}
	return len(ids)
}
