// Package editor applies structural edits to automaton snapshots. Every edit
// returns a new snapshot that still satisfies the snapshot's invariants, or
// fails with ErrRejected and leaves the input untouched.
package editor

import (
	"errors"
	"fmt"

	"github.com/ha1tch/automata-toolkit/pkg/fsm"
	"github.com/ha1tch/automata-toolkit/pkg/regex"
)

// ErrRejected is returned when an edit would break the snapshot.
var ErrRejected = errors.New("edit rejected")

func rejectf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRejected, fmt.Sprintf(format, args...))
}

// Op is one edit. It must not modify its argument.
type Op func(f *fsm.FSM) (*fsm.FSM, error)

// Apply runs op on f and checks the result. A snapshot that was a complete
// DFA before the edit must still be one afterwards.
func Apply(f *fsm.FSM, op Op) (*fsm.FSM, error) {
	g, err := op(f)
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRejected, err)
	}
	if g.Type == fsm.TypeDFA {
		if _, err := f.DFA(); err == nil {
			if _, err := g.DFA(); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrRejected, err)
			}
		}
	}
	return g, nil
}

// AddState adds a state. In a DFA the new state loops to itself on every
// symbol.
func AddState(name string) Op {
	return func(f *fsm.FSM) (*fsm.FSM, error) {
		if name == "" {
			return nil, rejectf("state name is empty")
		}
		if f.StateIndex(name) >= 0 {
			return nil, rejectf("state %q already exists", name)
		}
		g := f.Copy()
		g.AddState(name)
		if g.Type == fsm.TypeDFA {
			for _, a := range g.Alphabet {
				g.AddTransition(name, fsm.Input(a), []string{name})
			}
		}
		return g, nil
	}
}

// RemoveState removes a state and every transition from it. The start state
// cannot be removed, nor can a DFA state that another state moves to.
// In an NFA the state is dropped from every target list.
func RemoveState(name string) Op {
	return func(f *fsm.FSM) (*fsm.FSM, error) {
		if f.StateIndex(name) < 0 {
			return nil, rejectf("unknown state %q", name)
		}
		if f.Initial == name {
			return nil, rejectf("cannot remove the start state %q", name)
		}
		if f.Type == fsm.TypeDFA {
			for _, t := range f.Transitions {
				if t.From == name {
					continue
				}
				for _, to := range t.To {
					if to == name {
						return nil, rejectf("state %q is the target of %s on %s", name, t.From, inputName(t.Input))
					}
				}
			}
		}

		g := f.Copy()
		g.States = without(g.States, name)
		g.Accepting = without(g.Accepting, name)
		kept := g.Transitions[:0]
		for _, t := range g.Transitions {
			if t.From == name {
				continue
			}
			t.To = without(t.To, name)
			if len(t.To) > 0 {
				kept = append(kept, t)
			}
		}
		g.Transitions = kept
		return g, nil
	}
}

// AddSymbol extends the alphabet with a single character. In a DFA every
// state loops to itself on the new symbol.
func AddSymbol(sym string) Op {
	return func(f *fsm.FSM) (*fsm.FSM, error) {
		if _, err := regex.SymbolRune(sym); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRejected, err)
		}
		if f.InputIndex(sym) >= 0 {
			return nil, rejectf("symbol %q already in the alphabet", sym)
		}
		g := f.Copy()
		g.AddInput(sym)
		if g.Type == fsm.TypeDFA {
			for _, s := range g.States {
				g.AddTransition(s, fsm.Input(sym), []string{s})
			}
		}
		return g, nil
	}
}

// RemoveSymbol removes a symbol and every transition on it.
func RemoveSymbol(sym string) Op {
	return func(f *fsm.FSM) (*fsm.FSM, error) {
		if f.InputIndex(sym) < 0 {
			return nil, rejectf("unknown symbol %q", sym)
		}
		g := f.Copy()
		g.Alphabet = without(g.Alphabet, sym)
		kept := g.Transitions[:0]
		for _, t := range g.Transitions {
			if t.Input == nil || *t.Input != sym {
				kept = append(kept, t)
			}
		}
		g.Transitions = kept
		return g, nil
	}
}

// ToggleAccept flips whether a state is accepting.
func ToggleAccept(name string) Op {
	return func(f *fsm.FSM) (*fsm.FSM, error) {
		if f.StateIndex(name) < 0 {
			return nil, rejectf("unknown state %q", name)
		}
		g := f.Copy()
		if g.IsAccepting(name) {
			g.Accepting = without(g.Accepting, name)
			return g, nil
		}
		// keep accepting states in state order
		var acc []string
		for _, s := range g.States {
			if s == name || g.IsAccepting(s) {
				acc = append(acc, s)
			}
		}
		g.Accepting = acc
		return g, nil
	}
}

// SetStart makes name the start state.
func SetStart(name string) Op {
	return func(f *fsm.FSM) (*fsm.FSM, error) {
		if f.StateIndex(name) < 0 {
			return nil, rejectf("unknown state %q", name)
		}
		g := f.Copy()
		g.SetInitial(name)
		return g, nil
	}
}

// SetCell replaces the transitions from a state on one input. A nil input
// is an ε-move and needs an ε-NFA. A DFA cell takes exactly one target; an
// NFA cell may be emptied.
func SetCell(from string, input *string, to []string) Op {
	return func(f *fsm.FSM) (*fsm.FSM, error) {
		if f.StateIndex(from) < 0 {
			return nil, rejectf("unknown state %q", from)
		}
		if input == nil && f.Type != fsm.TypeENFA {
			return nil, rejectf("epsilon moves need an enfa, not a %s", f.Type)
		}
		if input != nil && f.InputIndex(*input) < 0 {
			return nil, rejectf("unknown symbol %q", *input)
		}
		for _, q := range to {
			if f.StateIndex(q) < 0 {
				return nil, rejectf("unknown state %q", q)
			}
		}
		if f.Type == fsm.TypeDFA && len(to) != 1 {
			return nil, rejectf("a DFA cell needs exactly one target, got %d", len(to))
		}

		g := f.Copy()
		kept := g.Transitions[:0]
		for _, t := range g.Transitions {
			if t.From == from && sameInput(t.Input, input) {
				continue
			}
			kept = append(kept, t)
		}
		g.Transitions = kept
		if len(to) > 0 {
			var in *string
			if input != nil {
				in = fsm.Input(*input)
			}
			g.AddTransition(from, in, append([]string{}, to...))
		}
		return g, nil
	}
}

func sameInput(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func inputName(in *string) string {
	if in == nil {
		return "ε"
	}
	return *in
}

func without(xs []string, x string) []string {
	out := make([]string, 0, len(xs))
	for _, y := range xs {
		if y != x {
			out = append(out, y)
		}
	}
	return out
}
