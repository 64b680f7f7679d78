package automaton

import (
	"strconv"

	"github.com/ha1tch/automata-toolkit/pkg/finiteset"
)

// Sample machines used by the CLI and tests.

func stringSet(xs ...string) *finiteset.Set[string] {
	return finiteset.New(finiteset.Comparable[string](), xs...)
}

func runes(xs ...rune) *finiteset.Set[rune] {
	return finiteset.New(finiteset.Comparable[rune](), xs...)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Binary is the alphabet {0,1}.
func Binary() *finiteset.Set[rune] { return runes('0', '1') }

// BinaryDivBy accepts binary numerals, most significant bit first, whose
// value is divisible by k. State q is the value read so far modulo k.
func BinaryDivBy(k int) *DFA[int] {
	if k < 1 {
		panic("automaton: BinaryDivBy needs k >= 1, got " + strconv.Itoa(k))
	}
	qs := make([]int, k)
	for i := range qs {
		qs[i] = i
	}
	states := finiteset.FromDistinct(finiteset.Comparable[int](), qs)
	delta := func(q int, a rune) (int, bool) {
		return (2*q + int(a-'0')) % k, a == '0' || a == '1'
	}
	return must(NewDFA(states, Binary(), delta, 0, finiteset.New(finiteset.Comparable[int](), 0)))
}

// Even0Odd1 accepts strings over {0,1} with an even number of 0s and an odd
// number of 1s. A state names the parity of 0s then 1s read so far.
func Even0Odd1() *DFA[string] {
	delta := Table(map[string]map[rune]string{
		"ee": {'0': "oe", '1': "eo"},
		"eo": {'0': "oo", '1': "ee"},
		"oe": {'0': "ee", '1': "oo"},
		"oo": {'0': "eo", '1': "oe"},
	})
	return must(NewDFA(stringSet("ee", "eo", "oe", "oo"), Binary(), delta, "ee", stringSet("eo")))
}

// AllStrings accepts every string over {a,b,c} with a single state.
func AllStrings() *DFA[string] {
	delta := func(string, rune) (string, bool) { return "q", true }
	return must(NewDFA(stringSet("q"), runes('a', 'b', 'c'), delta, "q", stringSet("q")))
}

// ExampleNFA is a four-state NFA over {a,b} with a self-loop and a branch:
//
//	q0 -a-> q1, q0 -b-> q2, q1 -b-> q3, q2 -a-> q1,
//	q3 -a-> {q2, q3}, q3 -b-> q1
//
// with q1 and q3 accepting.
func ExampleNFA() *NFA[string] {
	moves := map[string]map[rune][]string{
		"q0": {'a': {"q1"}, 'b': {"q2"}},
		"q1": {'b': {"q3"}},
		"q2": {'a': {"q1"}},
		"q3": {'a': {"q3", "q2"}, 'b': {"q1"}},
	}
	delta := func(q string, a rune) *finiteset.Set[string] {
		return stringSet(moves[q][a]...)
	}
	return must(NewNFA(stringSet("q0", "q1", "q2", "q3"), runes('a', 'b'), delta, "q0", stringSet("q1", "q3")))
}
