package fsm

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"

	"github.com/ha1tch/automata-toolkit/pkg/automaton"
	"github.com/ha1tch/automata-toolkit/pkg/finiteset"
	"github.com/ha1tch/automata-toolkit/pkg/naming"
	"github.com/ha1tch/automata-toolkit/pkg/regex"
)

func TestDFA(t *testing.T) {
	m, err := abDFA().DFA()
	require.NoError(t, err)
	assert.True(t, m.Accepts("ba"))
	assert.False(t, m.Accepts("ab"))
	assert.Equal(t, 2, m.States().Len())
}

func TestDFARejectsIncomplete(t *testing.T) {
	f := abDFA()
	f.Transitions = f.Transitions[:3]
	_, err := f.DFA()
	require.Error(t, err)
	assert.ErrorIs(t, err, automaton.ErrUndefinedTransition)
}

func TestDFARejectsNondeterministic(t *testing.T) {
	f := abDFA()
	f.AddTransition("s0", Input("a"), []string{"s0"})
	_, err := f.DFA()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "nondeterministic")
}

func TestNFARejectsEpsilon(t *testing.T) {
	f := abDFA()
	f.Type = TypeENFA
	f.AddTransition("s0", nil, []string{"s1"})
	_, err := f.NFA()
	assert.ErrorIs(t, err, ErrInvalid)

	m, err := f.EpsilonNFA()
	require.NoError(t, err)
	assert.True(t, m.Accepts(""))
}

func TestFromDFA(t *testing.T) {
	f := FromDFA(automaton.Even0Odd1(), Identity)
	require.NoError(t, f.Validate())
	assert.Equal(t, TypeDFA, f.Type)
	assert.Equal(t, []string{"ee", "eo", "oe", "oo"}, f.States)
	assert.Equal(t, []string{"0", "1"}, f.Alphabet)
	assert.Equal(t, "ee", f.Initial)
	assert.Equal(t, []string{"eo"}, f.Accepting)
	assert.Len(t, f.Transitions, 8)
	assert.Empty(t, f.Analyse())

	for w, want := range map[string]bool{"1": true, "01": false, "001": true, "": false} {
		got, err := f.Accepts(w)
		require.NoError(t, err)
		assert.Equal(t, want, got, "w=%q", w)
	}
}

func TestFromNFA(t *testing.T) {
	f := FromNFA(automaton.ExampleNFA(), Identity)
	require.NoError(t, f.Validate())
	assert.Equal(t, TypeNFA, f.Type)
	assert.Equal(t, []string{"q2", "q3"}, f.Targets("q3", Input("a")))

	n, err := f.NFA()
	require.NoError(t, err)
	for _, w := range []string{"a", "ab", "ba", "abab", "bb", ""} {
		assert.Equal(t, automaton.ExampleNFA().Accepts(w), n.Accepts(w), "w=%q", w)
	}
}

func TestLabelCollisions(t *testing.T) {
	f := FromDFA(automaton.BinaryDivBy(3), func(int) string { return "q" })
	assert.Equal(t, []string{"q", "q_2", "q_3"}, f.States)
	assert.NoError(t, f.Validate())
}

func TestLabelCollisionsWithSuffixedNames(t *testing.T) {
	names := map[int]string{0: "a", 1: "a", 2: "a_2"}
	f := FromDFA(automaton.BinaryDivBy(3), func(q int) string { return names[q] })
	assert.Equal(t, []string{"a", "a_2", "a_2_2"}, f.States)
	assert.NoError(t, f.Validate())

	names = map[int]string{0: "a_2", 1: "a", 2: "a"}
	f = FromDFA(automaton.BinaryDivBy(3), func(q int) string { return names[q] })
	assert.Equal(t, []string{"a_2", "a", "a_3"}, f.States)
	assert.NoError(t, f.Validate())
}

func TestLabelCollisionsFromSetLabel(t *testing.T) {
	eq := finiteset.Comparable[string]()
	states := finiteset.New(finiteset.SetEquality(eq),
		finiteset.New(eq, "a,b"),
		finiteset.New(eq, "a", "b"),
	)
	got := newLabeller(SetLabel(Identity)).names(states)
	assert.Equal(t, []string{"{a,b}", "{a,b}_2"}, got)
}

// accentDFA accepts words ending in "é", with both symbols written
// decomposed.
func accentDFA() *FSM {
	f := &FSM{
		Type:      TypeDFA,
		States:    []string{"q0", "q1"},
		Alphabet:  []string{"e\u0301", "e\u0300"},
		Initial:   "q0",
		Accepting: []string{"q1"},
	}
	f.Transitions = []Transition{
		{From: "q0", Input: Input("e\u0301"), To: []string{"q1"}},
		{From: "q0", Input: Input("e\u0300"), To: []string{"q0"}},
		{From: "q1", Input: Input("e\u0301"), To: []string{"q1"}},
		{From: "q1", Input: Input("e\u0300"), To: []string{"q0"}},
	}
	return f
}

func TestDecomposedSymbols(t *testing.T) {
	f := accentDFA()
	require.NoError(t, f.Validate())

	m, err := f.DFA()
	require.NoError(t, err)
	assert.Equal(t, []rune{'\u00e9', '\u00e8'}, m.Alphabet().Elems())

	for _, w := range []string{"\u00e9", "e\u0301", "\u00e9\u00e8\u00e9"} {
		ok, err := f.Accepts(w)
		require.NoError(t, err)
		assert.True(t, ok, w)
		assert.True(t, m.Accepts(norm.NFC.String(w)), w)
	}
	for _, w := range []string{"", "e", "\u00e8", "\u00e9\u00e8"} {
		ok, err := f.Accepts(w)
		require.NoError(t, err)
		assert.False(t, ok, w)
	}

	r, err := NewRunner(f)
	require.NoError(t, err)
	require.NoError(t, r.RunString("e\u0301e\u0300e\u0301"))
	assert.True(t, r.IsAccepting())
	assert.Equal(t, []string{"q1"}, r.CurrentStates())
}

// nfaAB is s0 -a-> {s1,s2}, s1 -b-> s3, s2 -b-> s3 with s3 accepting.
func nfaAB() *FSM {
	f := &FSM{
		Type:      TypeNFA,
		States:    []string{"s0", "s1", "s2", "s3"},
		Alphabet:  []string{"a", "b"},
		Initial:   "s0",
		Accepting: []string{"s3"},
	}
	f.Transitions = []Transition{
		{From: "s0", Input: Input("a"), To: []string{"s1", "s2"}},
		{From: "s1", Input: Input("b"), To: []string{"s3"}},
		{From: "s2", Input: Input("b"), To: []string{"s3"}},
	}
	return f
}

func TestToDFA(t *testing.T) {
	d, err := nfaAB().ToDFA()
	require.NoError(t, err)
	assert.Equal(t, TypeDFA, d.Type)
	// discovered breadth first; the empty subset is kept as a dead state
	assert.Equal(t, []string{"{s0}", "{s1,s2}", "{}", "{s3}"}, d.States)
	assert.Equal(t, "{s0}", d.Initial)
	assert.Equal(t, []string{"{s3}"}, d.Accepting)

	m, err := d.DFA()
	require.NoError(t, err)
	assert.True(t, m.Accepts("ab"))
	assert.False(t, m.Accepts("a"))
	assert.False(t, m.Accepts("abb"))
}

func TestToDFAWithEpsilon(t *testing.T) {
	f := &FSM{
		Type:      TypeENFA,
		States:    []string{"s0", "s1", "s2"},
		Alphabet:  []string{"a"},
		Initial:   "s0",
		Accepting: []string{"s2"},
	}
	f.Transitions = []Transition{
		{From: "s0", Input: nil, To: []string{"s1"}},
		{From: "s1", Input: Input("a"), To: []string{"s2"}},
	}

	d, err := f.ToDFA()
	require.NoError(t, err)
	assert.Equal(t, "{s0,s1}", d.Initial)

	runner, err := NewRunner(d)
	require.NoError(t, err)
	require.NoError(t, runner.Step("a"))
	assert.True(t, runner.IsAccepting())
}

func TestToDFAOnCompleteDFAIsCopy(t *testing.T) {
	f := abDFA()
	d, err := f.ToDFA()
	require.NoError(t, err)
	assert.Equal(t, f.States, d.States)
	assert.Equal(t, f.Transitions, d.Transitions)
	assert.NotSame(t, f, d)
}

func TestToDFACompletesPartialDFA(t *testing.T) {
	f := abDFA()
	f.Transitions = f.Transitions[:1]
	d, err := f.ToDFA()
	require.NoError(t, err)
	assert.Contains(t, d.States, "{}")
	_, err = d.DFA()
	assert.NoError(t, err)
}

// redundant has two equivalent accepting sinks B and C.
func redundant() *FSM {
	f := New(TypeDFA)
	f.States = []string{"A", "B", "C"}
	f.Alphabet = []string{"a", "b"}
	f.Initial = "A"
	f.Accepting = []string{"B", "C"}
	f.AddTransition("A", Input("a"), []string{"B"})
	f.AddTransition("A", Input("b"), []string{"C"})
	for _, s := range []string{"B", "C"} {
		f.AddTransition(s, Input("a"), []string{s})
		f.AddTransition(s, Input("b"), []string{s})
	}
	return f
}

func TestMinimize(t *testing.T) {
	m, err := redundant().Minimize()
	require.NoError(t, err)
	assert.Equal(t, []string{"{A}", "{B,C}"}, m.States)
	assert.Equal(t, "{A}", m.Initial)
	assert.Equal(t, []string{"{B,C}"}, m.Accepting)

	for w, want := range map[string]bool{"": false, "a": true, "ba": true} {
		got, err := m.Accepts(w)
		require.NoError(t, err)
		assert.Equal(t, want, got, "w=%q", w)
	}
}

func TestComplement(t *testing.T) {
	c, err := redundant().Complement()
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, c.Accepting)

	got, err := c.Accepts("")
	require.NoError(t, err)
	assert.True(t, got)
	got, err = c.Accepts("ab")
	require.NoError(t, err)
	assert.False(t, got)
}

func TestRemoveUnreachable(t *testing.T) {
	f := abDFA()
	f.AddState("island")
	f.AddTransition("island", Input("a"), []string{"s0"})
	f.AddTransition("island", Input("b"), []string{"s0"})

	g, err := f.RemoveUnreachable()
	require.NoError(t, err)
	assert.Equal(t, []string{"s0", "s1"}, g.States)
}

func TestCombine(t *testing.T) {
	parity := FromDFA(automaton.Even0Odd1(), Identity)
	even := FromDFA(automaton.BinaryDivBy(2), strconv.Itoa)

	tests := []struct {
		op   Operation
		want map[string]bool
	}{
		{OpIntersection, map[string]bool{"100": true, "1": false, "10": false}},
		{OpUnion, map[string]bool{"1": true, "10": true, "11": false}},
		{OpDifference, map[string]bool{"1": true, "100": false, "10": false}},
		{OpSymmetricDifference, map[string]bool{"1": true, "10": true, "100": false}},
	}
	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			p, err := Combine(parity, even, tt.op)
			require.NoError(t, err)
			assert.Len(t, p.States, 8)
			assert.Equal(t, "(ee,0)", p.Initial)
			for w, want := range tt.want {
				got, err := p.Accepts(w)
				require.NoError(t, err)
				assert.Equal(t, want, got, "w=%q", w)
			}
		})
	}
}

func TestCombineErrors(t *testing.T) {
	_, err := Combine(abDFA(), abDFA(), "xor")
	assert.Error(t, err)

	_, err = Combine(abDFA(), FromDFA(automaton.Even0Odd1(), Identity), OpUnion)
	assert.ErrorIs(t, err, automaton.ErrAlphabetMismatch)
}

func TestFromRegexToRegexRoundTrip(t *testing.T) {
	r := regex.MustParse("(a+b)*abb")
	f, err := FromRegex(naming.New(), r, nil)
	require.NoError(t, err)
	require.NoError(t, f.Validate())
	assert.Equal(t, TypeENFA, f.Type)
	assert.Equal(t, []string{"a", "b"}, f.Alphabet)
	assert.Equal(t, "(a+b)*abb", f.Name)

	back, err := f.ToRegex(naming.New())
	require.NoError(t, err)
	for _, w := range []string{"", "abb", "aabb", "babb", "ab", "abba", "bbb"} {
		got, err := f.Accepts(w)
		require.NoError(t, err)
		assert.Equal(t, r.Matches(w), got, "snapshot, w=%q", w)
		assert.Equal(t, r.Matches(w), back.Matches(w), "regex, w=%q", w)
	}
}

func TestFromRegexUnknownSymbol(t *testing.T) {
	_, err := FromRegex(naming.New(), regex.MustParse("ab"), []rune{'a'})
	assert.ErrorIs(t, err, automaton.ErrUnknownSymbol)
}

func TestToRegexByType(t *testing.T) {
	partial := abDFA()
	partial.Transitions = partial.Transitions[:1]

	for name, f := range map[string]*FSM{"dfa": abDFA(), "partial dfa": partial, "nfa": nfaAB()} {
		t.Run(name, func(t *testing.T) {
			r, err := f.ToRegex(naming.New())
			require.NoError(t, err)
			for _, w := range []string{"", "a", "ab", "ba", "aba", "bb"} {
				got, err := f.Accepts(w)
				require.NoError(t, err)
				assert.Equal(t, got, r.Matches(w), "w=%q", w)
			}
		})
	}
}

func TestSetLabel(t *testing.T) {
	d := automaton.NFAToDFA(automaton.ExampleNFA())
	label := SetLabel(Identity)
	assert.Equal(t, "{q0}", label(d.Start()))
}
