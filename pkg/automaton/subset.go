package automaton

import (
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/ha1tch/automata-toolkit/pkg/finiteset"
)

// NFAToDFA determinizes n by the subset construction. Only subsets reachable
// from {start} are built, in breadth-first order; the empty subset appears as
// an ordinary dead state when some move reaches it.
func NFAToDFA[S any](n *NFA[S]) *DFA[*finiteset.Set[S]] {
	return determinize(n.shape, n.delta, nil)
}

// EpsilonNFAToDFA determinizes n, taking ε-closures of the start subset and
// after every move.
func EpsilonNFAToDFA[S any](n *EpsilonNFA[S]) *DFA[*finiteset.Set[S]] {
	return determinize(n.shape, n.delta, n.eps)
}

// subsetKey names a subset by its sorted member indices.
func subsetKey(bs *bitset.BitSet) string {
	var sb strings.Builder
	for i, ok := bs.NextSet(0); ok; i, ok = bs.NextSet(i + 1) {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(uint64(i), 10))
	}
	return sb.String()
}

func determinize[S any](sh shape[S], delta [][]int, eps [][]int) *DFA[*finiteset.Set[S]] {
	n, k := sh.states.Len(), sh.alphabet.Len()

	startSet := bitset.New(uint(n)).Set(uint(sh.start))
	if eps != nil {
		startSet = closure(eps, startSet)
	}

	// Track which subsets we've seen and their DFA state index
	index := map[string]int{subsetKey(startSet): 0}
	subsets := []*bitset.BitSet{startSet}
	var table []int
	for next := 0; next < len(subsets); next++ {
		cur := subsets[next]
		for j := 0; j < k; j++ {
			to := move(delta, k, cur, j, n)
			if eps != nil {
				to = closure(eps, to)
			}
			key := subsetKey(to)
			t, ok := index[key]
			if !ok {
				t = len(subsets)
				index[key] = t
				subsets = append(subsets, to)
			}
			table = append(table, t)
		}
	}

	states := make([]*finiteset.Set[S], len(subsets))
	accept := bitset.New(uint(len(subsets)))
	for i, bs := range subsets {
		states[i] = sh.subset(bs)
		if bs.IntersectionCardinality(sh.accept) > 0 {
			accept.Set(uint(i))
		}
	}

	return &DFA[*finiteset.Set[S]]{
		shape: shape[*finiteset.Set[S]]{
			states:   finiteset.FromDistinct(finiteset.SetEquality(sh.states.Equality()), states),
			alphabet: sh.alphabet,
			symbols:  sh.symbols,
			start:    0,
			accept:   accept,
		},
		delta: table,
	}
}
