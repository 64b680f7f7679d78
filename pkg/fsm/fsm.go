// Package fsm provides the automaton snapshot: a plain, serialisable
// description of a DFA, NFA or ε-NFA that files, editors and the CLI pass
// around, plus bridging to the immutable machines in package automaton.
package fsm

import (
	"fmt"
	"strings"

	"github.com/ha1tch/automata-toolkit/pkg/regex"
)

// Type represents the kind of machine a snapshot describes.
type Type string

const (
	TypeDFA  Type = "dfa"
	TypeNFA  Type = "nfa"
	TypeENFA Type = "enfa"
)

// Transition represents a state transition.
type Transition struct {
	From  string   `json:"from" yaml:"from"`
	Input *string  `json:"input" yaml:"input"` // nil for epsilon
	To    []string `json:"to" yaml:"to"`       // single element for DFA, multiple for NFA
}

// FSM is an automaton snapshot. States and alphabet are ordered; every
// alphabet symbol is a single character.
type FSM struct {
	Type        Type         `json:"type" yaml:"type"`
	Name        string       `json:"name,omitempty" yaml:"name,omitempty"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	States      []string     `json:"states" yaml:"states"`
	Alphabet    []string     `json:"alphabet" yaml:"alphabet"`
	Initial     string       `json:"initial" yaml:"initial"`
	Accepting   []string     `json:"accepting" yaml:"accepting"`
	Transitions []Transition `json:"transitions" yaml:"transitions"`
}

// New creates an empty snapshot of the given type.
func New(t Type) *FSM {
	return &FSM{
		Type:        t,
		States:      make([]string, 0),
		Alphabet:    make([]string, 0),
		Accepting:   make([]string, 0),
		Transitions: make([]Transition, 0),
	}
}

// AddState adds a state to the FSM.
func (f *FSM) AddState(name string) {
	if f.StateIndex(name) < 0 {
		f.States = append(f.States, name)
	}
}

// AddInput adds an input symbol to the alphabet.
func (f *FSM) AddInput(symbol string) {
	if f.InputIndex(symbol) < 0 {
		f.Alphabet = append(f.Alphabet, symbol)
	}
}

// AddTransition adds a transition to the FSM.
func (f *FSM) AddTransition(from string, input *string, to []string) {
	f.Transitions = append(f.Transitions, Transition{From: from, Input: input, To: to})
}

// SetInitial sets the initial state.
func (f *FSM) SetInitial(state string) {
	f.Initial = state
}

// SetAccepting sets the accepting states.
func (f *FSM) SetAccepting(states []string) {
	f.Accepting = states
}

// Validate checks that the snapshot is well-formed. It does not require a
// DFA to be complete or deterministic; Analyse reports those.
func (f *FSM) Validate() error {
	switch f.Type {
	case TypeDFA, TypeNFA, TypeENFA:
	default:
		return invalidf("unknown FSM type %q", f.Type)
	}

	if len(f.States) == 0 {
		return invalidf("FSM has no states")
	}
	seen := make(map[string]bool, len(f.States))
	for _, s := range f.States {
		if seen[s] {
			return invalidf("duplicate state %q", s)
		}
		seen[s] = true
	}

	if f.Initial == "" {
		return invalidf("FSM has no initial state")
	}
	if !seen[f.Initial] {
		return invalidf("initial state %q not in states", f.Initial)
	}

	for _, acc := range f.Accepting {
		if !seen[acc] {
			return invalidf("accepting state %q not in states", acc)
		}
	}

	// Symbols compare after NFC normalisation.
	symbols := make(map[rune]string, len(f.Alphabet))
	for _, a := range f.Alphabet {
		c, err := regex.SymbolRune(a)
		if err != nil {
			return invalidf("alphabet: %v", err)
		}
		if prev, ok := symbols[c]; ok {
			if prev == a {
				return invalidf("duplicate input %q", a)
			}
			return invalidf("inputs %q and %q are the same symbol", prev, a)
		}
		symbols[c] = a
	}

	// Check transitions reference valid states and inputs
	for i, t := range f.Transitions {
		if !seen[t.From] {
			return invalidf("transition %d: from state %q not in states", i, t.From)
		}
		for _, to := range t.To {
			if !seen[to] {
				return invalidf("transition %d: to state %q not in states", i, to)
			}
		}
		if t.Input == nil {
			if f.Type != TypeENFA {
				return invalidf("transition %d: epsilon transition in %s", i, f.Type)
			}
			continue
		}
		c, err := regex.SymbolRune(*t.Input)
		if err != nil {
			return invalidf("transition %d: %v", i, err)
		}
		if _, ok := symbols[c]; !ok {
			return invalidf("transition %d: input %q not in alphabet", i, *t.Input)
		}
	}

	return nil
}

// StateIndex returns the index of a state, or -1 if not found.
func (f *FSM) StateIndex(state string) int {
	for i, s := range f.States {
		if s == state {
			return i
		}
	}
	return -1
}

// InputIndex returns the index of an input, or -1 if not found.
func (f *FSM) InputIndex(input string) int {
	for i, a := range f.Alphabet {
		if a == input {
			return i
		}
	}
	return -1
}

// IsAccepting returns true if the state is an accepting state.
func (f *FSM) IsAccepting(state string) bool {
	for _, acc := range f.Accepting {
		if acc == state {
			return true
		}
	}
	return false
}

// GetTransitions returns all transitions from a state on a given input.
// A nil input selects epsilon transitions.
func (f *FSM) GetTransitions(from string, input *string) []Transition {
	var result []Transition
	for _, t := range f.Transitions {
		if t.From != from {
			continue
		}
		// Match input (nil matches nil for epsilon)
		if (t.Input == nil && input == nil) ||
			(t.Input != nil && input != nil && *t.Input == *input) {
			result = append(result, t)
		}
	}
	return result
}

// GetEpsilonTransitions returns all epsilon transitions from a state.
func (f *FSM) GetEpsilonTransitions(from string) []Transition {
	return f.GetTransitions(from, nil)
}

// Targets returns the distinct states reached from a state on a given input,
// in order of first mention. This is one cell of the transition table.
func (f *FSM) Targets(from string, input *string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, t := range f.GetTransitions(from, input) {
		for _, to := range t.To {
			if !seen[to] {
				seen[to] = true
				out = append(out, to)
			}
		}
	}
	return out
}

// Copy creates a deep copy of the FSM.
func (f *FSM) Copy() *FSM {
	c := &FSM{
		Type:        f.Type,
		Name:        f.Name,
		Description: f.Description,
		States:      append([]string{}, f.States...),
		Alphabet:    append([]string{}, f.Alphabet...),
		Initial:     f.Initial,
		Accepting:   append([]string{}, f.Accepting...),
		Transitions: make([]Transition, len(f.Transitions)),
	}
	for i, t := range f.Transitions {
		c.Transitions[i] = Transition{From: t.From, To: append([]string{}, t.To...)}
		if t.Input != nil {
			inp := *t.Input
			c.Transitions[i].Input = &inp
		}
	}
	return c
}

// String returns a string representation of the FSM.
func (f *FSM) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("FSM[%s]: %s\n", f.Type, f.Name))
	sb.WriteString(fmt.Sprintf("  States: %v\n", f.States))
	sb.WriteString(fmt.Sprintf("  Alphabet: %v\n", f.Alphabet))
	sb.WriteString(fmt.Sprintf("  Initial: %s\n", f.Initial))
	sb.WriteString(fmt.Sprintf("  Accepting: %v\n", f.Accepting))
	sb.WriteString(fmt.Sprintf("  Transitions: %d\n", len(f.Transitions)))
	return sb.String()
}

// Input returns a pointer to s, for building transitions.
func Input(s string) *string { return &s }
