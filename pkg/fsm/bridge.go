package fsm

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ha1tch/automata-toolkit/pkg/automaton"
	"github.com/ha1tch/automata-toolkit/pkg/finiteset"
	"github.com/ha1tch/automata-toolkit/pkg/regex"
)

// parts returns the finite sets shared by every machine built from f.
func (f *FSM) parts() (states *finiteset.Set[string], alphabet *finiteset.Set[rune], accept *finiteset.Set[string], err error) {
	if err := f.Validate(); err != nil {
		return nil, nil, nil, err
	}
	eq := finiteset.Comparable[string]()
	states = finiteset.FromDistinct(eq, f.States)
	accept = finiteset.New(eq, f.Accepting...)

	syms := make([]rune, len(f.Alphabet))
	for i, a := range f.Alphabet {
		if syms[i], err = regex.SymbolRune(a); err != nil {
			return nil, nil, nil, err
		}
	}
	alphabet = finiteset.FromDistinct(finiteset.Comparable[rune](), syms)
	return states, alphabet, accept, nil
}

// cells indexes the symbol transitions of f by state and normalised
// symbol. f must be valid.
func (f *FSM) cells() map[string]map[rune][]string {
	cells := make(map[string]map[rune][]string, len(f.States))
	for _, s := range f.States {
		cells[s] = make(map[rune][]string)
	}
	for _, t := range f.Transitions {
		if t.Input == nil {
			continue
		}
		a, err := regex.SymbolRune(*t.Input)
		if err != nil {
			continue
		}
		row := cells[t.From]
		for _, to := range t.To {
			if !slices.Contains(row[a], to) {
				row[a] = append(row[a], to)
			}
		}
	}
	return cells
}

func (f *FSM) hasEpsilon() bool {
	for _, t := range f.Transitions {
		if t.Input == nil {
			return true
		}
	}
	return false
}

// DFA builds the automaton the snapshot describes. Every cell must hold
// exactly one target state.
func (f *FSM) DFA() (*automaton.DFA[string], error) {
	states, alphabet, accept, err := f.parts()
	if err != nil {
		return nil, err
	}
	if f.Type == TypeENFA && f.hasEpsilon() {
		return nil, invalidf("cannot build a DFA from an FSM with epsilon transitions")
	}
	cells := f.cells()
	for _, s := range f.States {
		for a, to := range cells[s] {
			if len(to) > 1 {
				return nil, invalidf("state %q is nondeterministic on %q: %v", s, string(a), to)
			}
		}
	}
	delta := func(q string, a rune) (string, bool) {
		to := cells[q][a]
		if len(to) == 0 {
			return "", false
		}
		return to[0], true
	}
	m, err := automaton.NewDFA(states, alphabet, delta, f.Initial, accept)
	if err != nil {
		return nil, fmt.Errorf("build DFA: %w", err)
	}
	return m, nil
}

// NFA builds the NFA the snapshot describes. Missing cells are empty.
func (f *FSM) NFA() (*automaton.NFA[string], error) {
	states, alphabet, accept, err := f.parts()
	if err != nil {
		return nil, err
	}
	if f.hasEpsilon() {
		return nil, invalidf("cannot build an NFA from an FSM with epsilon transitions")
	}
	cells := f.cells()
	eq := states.Equality()
	delta := func(q string, a rune) *finiteset.Set[string] {
		return finiteset.New(eq, cells[q][a]...)
	}
	m, err := automaton.NewNFA(states, alphabet, delta, f.Initial, accept)
	if err != nil {
		return nil, fmt.Errorf("build NFA: %w", err)
	}
	return m, nil
}

// EpsilonNFA builds an ε-NFA from a snapshot of any type.
func (f *FSM) EpsilonNFA() (*automaton.EpsilonNFA[string], error) {
	states, alphabet, accept, err := f.parts()
	if err != nil {
		return nil, err
	}
	cells := f.cells()
	eq := states.Equality()
	delta := func(q string, a rune) *finiteset.Set[string] {
		return finiteset.New(eq, cells[q][a]...)
	}
	eps := func(q string) *finiteset.Set[string] {
		return finiteset.New(eq, f.Targets(q, nil)...)
	}
	m, err := automaton.NewEpsilonNFA(states, alphabet, delta, eps, f.Initial, accept)
	if err != nil {
		return nil, fmt.Errorf("build ε-NFA: %w", err)
	}
	return m, nil
}

// Accepts reports whether the machine the snapshot describes accepts w.
func (f *FSM) Accepts(w string) (bool, error) {
	m, err := f.EpsilonNFA()
	if err != nil {
		return false, err
	}
	return m.Accepts(norm.NFC.String(w)), nil
}

// labeller assigns each state a unique display name, appending a counter
// when a name is already taken.
type labeller[S any] struct {
	label func(S) string
	taken map[string]bool
	next  map[string]int
}

func newLabeller[S any](label func(S) string) *labeller[S] {
	return &labeller[S]{label: label, taken: make(map[string]bool), next: make(map[string]int)}
}

func (l *labeller[S]) names(states *finiteset.Set[S]) []string {
	out := make([]string, states.Len())
	for i, q := range states.Elems() {
		base := l.label(q)
		name := base
		for l.taken[name] {
			l.next[base]++
			name = base + "_" + strconv.Itoa(l.next[base]+1)
		}
		l.taken[name] = true
		out[i] = name
	}
	return out
}

// machine is the read-only surface shared by the automaton types.
type machine[S any] interface {
	States() *finiteset.Set[S]
	Alphabet() *finiteset.Set[rune]
	Start() S
	IsAccepting(q S) bool
}

func snapshot[S any](t Type, m machine[S], label func(S) string) (*FSM, []string) {
	f := New(t)
	states := m.States()
	f.States = newLabeller(label).names(states)
	f.Initial = f.States[states.Index(m.Start())]
	for i, q := range states.Elems() {
		if m.IsAccepting(q) {
			f.Accepting = append(f.Accepting, f.States[i])
		}
	}
	for _, a := range m.Alphabet().Elems() {
		f.Alphabet = append(f.Alphabet, string(a))
	}
	return f, f.States
}

// FromDFA converts m to a snapshot, naming states with label.
func FromDFA[S any](m *automaton.DFA[S], label func(S) string) *FSM {
	f, names := snapshot[S](TypeDFA, m, label)
	states := m.States()
	for i, q := range states.Elems() {
		for _, a := range m.Alphabet().Elems() {
			to, err := m.Transition(q, a)
			if err != nil {
				continue
			}
			f.AddTransition(names[i], Input(string(a)), []string{names[states.Index(to)]})
		}
	}
	return f
}

// FromNFA converts m to a snapshot, naming states with label. Empty cells
// produce no transition.
func FromNFA[S any](m *automaton.NFA[S], label func(S) string) *FSM {
	f, names := snapshot[S](TypeNFA, m, label)
	states := m.States()
	for i, q := range states.Elems() {
		for _, a := range m.Alphabet().Elems() {
			to, err := m.Transition(q, a)
			if err != nil || to.IsEmpty() {
				continue
			}
			f.AddTransition(names[i], Input(string(a)), targetNames(states, names, to))
		}
	}
	return f
}

// FromEpsilonNFA converts m to a snapshot, naming states with label.
func FromEpsilonNFA[S any](m *automaton.EpsilonNFA[S], label func(S) string) *FSM {
	f, names := snapshot[S](TypeENFA, m, label)
	states := m.States()
	for i, q := range states.Elems() {
		if to, err := m.EpsilonMoves(q); err == nil && !to.IsEmpty() {
			f.AddTransition(names[i], nil, targetNames(states, names, to))
		}
	}
	for i, q := range states.Elems() {
		for _, a := range m.Alphabet().Elems() {
			to, err := m.Transition(q, a)
			if err != nil || to.IsEmpty() {
				continue
			}
			f.AddTransition(names[i], Input(string(a)), targetNames(states, names, to))
		}
	}
	return f
}

func targetNames[S any](states *finiteset.Set[S], names []string, to *finiteset.Set[S]) []string {
	out := make([]string, 0, to.Len())
	for _, q := range to.Elems() {
		out = append(out, names[states.Index(q)])
	}
	return out
}

// SetLabel names a subset state "{a,b}" from the labels of its members.
func SetLabel[S any](label func(S) string) func(*finiteset.Set[S]) string {
	return func(s *finiteset.Set[S]) string {
		parts := make([]string, 0, s.Len())
		for _, q := range s.Elems() {
			parts = append(parts, label(q))
		}
		return "{" + strings.Join(parts, ",") + "}"
	}
}

// Identity labels string states with themselves.
func Identity(s string) string { return s }
