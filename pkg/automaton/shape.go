// Package automaton implements DFAs, NFAs, ε-NFAs and GNFAs over finite sets
// of states, and the classical conversions between them and regular
// expressions.
//
// Every machine is immutable. Constructors evaluate the supplied transition
// function once for every (state, symbol) pair and keep the result as an
// index table, so a badly supplied function is reported at construction and
// later queries never call back into user code.
package automaton

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/ha1tch/automata-toolkit/pkg/finiteset"
)

// shape holds what every machine has: states, alphabet, start and accepting
// states. States and symbols are addressed by their insertion index.
type shape[S any] struct {
	states   *finiteset.Set[S]
	alphabet *finiteset.Set[rune]
	symbols  map[rune]int
	start    int
	accept   *bitset.BitSet
}

func newShape[S any](states *finiteset.Set[S], alphabet *finiteset.Set[rune], start S, accept *finiteset.Set[S]) (shape[S], error) {
	sh := shape[S]{
		states:   states,
		alphabet: alphabet,
		symbols:  symbolIndex(alphabet),
		accept:   bitset.New(uint(states.Len())),
	}
	sh.start = states.Index(start)
	if sh.start < 0 {
		return sh, unknownState("start state", start)
	}
	for _, q := range accept.Elems() {
		i := states.Index(q)
		if i < 0 {
			return sh, unknownState("accepting state", q)
		}
		sh.accept.Set(uint(i))
	}
	return sh, nil
}

func symbolIndex(alphabet *finiteset.Set[rune]) map[rune]int {
	m := make(map[rune]int, alphabet.Len())
	for i, a := range alphabet.Elems() {
		m[a] = i
	}
	return m
}

// States returns the state set.
func (sh shape[S]) States() *finiteset.Set[S] { return sh.states }

// Alphabet returns the input alphabet.
func (sh shape[S]) Alphabet() *finiteset.Set[rune] { return sh.alphabet }

// Start returns the start state.
func (sh shape[S]) Start() S { return sh.states.At(sh.start) }

// Accept returns the accepting states in state order.
func (sh shape[S]) Accept() *finiteset.Set[S] { return sh.subset(sh.accept) }

// IsAccepting reports whether q is an accepting state of the machine.
func (sh shape[S]) IsAccepting(q S) bool {
	i := sh.states.Index(q)
	return i >= 0 && sh.accept.Test(uint(i))
}

func (sh shape[S]) stateIndex(q S) (int, error) {
	i := sh.states.Index(q)
	if i < 0 {
		return 0, unknownState("state", q)
	}
	return i, nil
}

func (sh shape[S]) symIndex(a rune) (int, error) {
	if j, ok := sh.symbols[a]; ok {
		return j, nil
	}
	if j := sh.alphabet.Index(a); j >= 0 {
		return j, nil
	}
	return 0, unknownSymbol(a)
}

// word maps w to symbol indices.
func (sh shape[S]) word(w string) ([]int, error) {
	out := make([]int, 0, len(w))
	for _, a := range w {
		j, err := sh.symIndex(a)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, nil
}

// subset turns a set of state indices back into a set of states.
func (sh shape[S]) subset(bs *bitset.BitSet) *finiteset.Set[S] {
	elems := make([]S, 0, bs.Count())
	for i, ok := bs.NextSet(0); ok; i, ok = bs.NextSet(i + 1) {
		elems = append(elems, sh.states.At(int(i)))
	}
	return finiteset.FromDistinct(sh.states.Equality(), elems)
}

// indices resolves every element of set against the state set.
func (sh shape[S]) indices(set *finiteset.Set[S], role string) (*bitset.BitSet, error) {
	bs := bitset.New(uint(sh.states.Len()))
	if set == nil {
		return bs, nil
	}
	for _, q := range set.Elems() {
		i := sh.states.Index(q)
		if i < 0 {
			return nil, unknownState(role, q)
		}
		bs.Set(uint(i))
	}
	return bs, nil
}

func (sh shape[S]) describe(kind string) string {
	return fmt.Sprintf("%s{states: %v, alphabet: %v, start: %v, accept: %v}",
		kind, sh.states, runeSet(sh.alphabet), sh.Start(), sh.Accept())
}

func runeSet(s *finiteset.Set[rune]) string {
	out := "{"
	for i, a := range s.Elems() {
		if i > 0 {
			out += ","
		}
		out += string(a)
	}
	return out + "}"
}

// members lists the indices set in bs.
func members(bs *bitset.BitSet) []int {
	out := make([]int, 0, bs.Count())
	for i, ok := bs.NextSet(0); ok; i, ok = bs.NextSet(i + 1) {
		out = append(out, int(i))
	}
	return out
}
