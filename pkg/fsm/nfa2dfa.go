package fsm

import (
	"fmt"

	"github.com/ha1tch/automata-toolkit/pkg/automaton"
	"github.com/ha1tch/automata-toolkit/pkg/finiteset"
	"github.com/ha1tch/automata-toolkit/pkg/naming"
	"github.com/ha1tch/automata-toolkit/pkg/regex"
)

// ToDFA converts the snapshot to an equivalent DFA using the subset
// construction. A complete DFA snapshot is returned as a copy. Subset states
// are named "{q0,q1}" after their members; the empty subset becomes "{}".
func (f *FSM) ToDFA() (*FSM, error) {
	if f.Type == TypeDFA {
		if _, err := f.DFA(); err == nil {
			return f.Copy(), nil
		}
	}
	n, err := f.EpsilonNFA()
	if err != nil {
		return nil, err
	}
	return f.derived(FromDFA(automaton.EpsilonNFAToDFA(n), SetLabel(Identity))), nil
}

// deterministic returns the snapshot's DFA, determinizing first when needed.
func (f *FSM) deterministic() (*automaton.DFA[string], error) {
	d, err := f.ToDFA()
	if err != nil {
		return nil, err
	}
	return d.DFA()
}

// Minimize returns the minimal DFA for the snapshot's language. States are
// named after the classes of equivalent states they merge.
func (f *FSM) Minimize() (*FSM, error) {
	d, err := f.deterministic()
	if err != nil {
		return nil, err
	}
	return f.derived(FromDFA(automaton.Minimize(d), SetLabel(Identity))), nil
}

// Complement returns a DFA accepting exactly the strings the snapshot
// rejects.
func (f *FSM) Complement() (*FSM, error) {
	d, err := f.deterministic()
	if err != nil {
		return nil, err
	}
	return f.derived(FromDFA(d.Complement(), Identity)), nil
}

// RemoveUnreachable drops DFA states not reachable from the initial state.
func (f *FSM) RemoveUnreachable() (*FSM, error) {
	d, err := f.deterministic()
	if err != nil {
		return nil, err
	}
	return f.derived(FromDFA(d.RemoveUnreachable(), Identity)), nil
}

func (f *FSM) derived(g *FSM) *FSM {
	g.Name = f.Name
	g.Description = f.Description
	return g
}

// Operation names a product construction.
type Operation string

const (
	OpUnion               Operation = "union"
	OpIntersection        Operation = "intersection"
	OpDifference          Operation = "difference"
	OpSymmetricDifference Operation = "symdiff"
)

var predicates = map[Operation]automaton.AcceptPredicate{
	OpUnion:               func(a, b bool) bool { return a || b },
	OpIntersection:        func(a, b bool) bool { return a && b },
	OpDifference:          func(a, b bool) bool { return a && !b },
	OpSymmetricDifference: func(a, b bool) bool { return a != b },
}

// Combine builds the product of a and b under op. Both are determinized
// first and must share an alphabet. States are named "(p,q)".
func Combine(a, b *FSM, op Operation) (*FSM, error) {
	pred, ok := predicates[op]
	if !ok {
		return nil, fmt.Errorf("unknown operation %q", op)
	}
	m1, err := a.deterministic()
	if err != nil {
		return nil, fmt.Errorf("left operand: %w", err)
	}
	m2, err := b.deterministic()
	if err != nil {
		return nil, fmt.Errorf("right operand: %w", err)
	}
	p, err := automaton.Combine(m1, m2, pred)
	if err != nil {
		return nil, err
	}
	g := FromDFA(p, finiteset.Pair[string, string].String)
	g.Name = fmt.Sprintf("%s %s %s", a.Name, op, b.Name)
	return g, nil
}

// FromRegex builds an ε-NFA snapshot for r by Thompson's construction.
// A nil alphabet means the symbols of r in order of appearance.
func FromRegex(ctx *naming.Context, r *regex.Regex, alphabet []rune) (*FSM, error) {
	if alphabet == nil {
		alphabet = r.Symbols()
	}
	sigma := finiteset.New(finiteset.Comparable[rune](), alphabet...)
	n, err := automaton.FromRegex(ctx, r, sigma)
	if err != nil {
		return nil, err
	}
	f := FromEpsilonNFA(n, naming.Name.String)
	f.Name = r.String()
	return f, nil
}

// ToRegex converts the snapshot to a regular expression by state
// elimination.
func (f *FSM) ToRegex(ctx *naming.Context) (*regex.Regex, error) {
	switch f.Type {
	case TypeDFA:
		if m, err := f.DFA(); err == nil {
			return automaton.DFAToRegex(ctx, m), nil
		}
		fallthrough
	case TypeNFA:
		m, err := f.NFA()
		if err != nil {
			return nil, err
		}
		return automaton.NFAToRegex(ctx, m), nil
	default:
		m, err := f.EpsilonNFA()
		if err != nil {
			return nil, err
		}
		return automaton.EpsilonNFAToRegex(ctx, m), nil
	}
}
