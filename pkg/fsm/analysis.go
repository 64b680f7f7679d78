package fsm

import (
	"fmt"
	"strings"
)

// Warning types reported by Analyse.
const (
	WarnUnreachable      = "unreachable"
	WarnDead             = "dead"
	WarnNondeterministic = "nondeterministic"
	WarnIncomplete       = "incomplete"
	WarnUnusedInput      = "unused_input"
)

// Warning is a structural issue that does not make the FSM invalid.
type Warning struct {
	Type    string
	Message string
	States  []string
	Symbols []string
}

func (w Warning) String() string {
	return w.Type + ": " + w.Message
}

// Analyse reports unreachable, dead, nondeterministic and incomplete states
// and unused inputs. Nondeterminism and incompleteness are only reported
// for DFAs.
func (f *FSM) Analyse() []Warning {
	var warnings []Warning

	if s := f.UnreachableStates(); len(s) > 0 {
		warnings = append(warnings, Warning{
			Type:    WarnUnreachable,
			Message: fmt.Sprintf("states not reachable from %s: %s", f.Initial, strings.Join(s, ", ")),
			States:  s,
		})
	}
	if s := f.DeadStates(); len(s) > 0 {
		warnings = append(warnings, Warning{
			Type:    WarnDead,
			Message: fmt.Sprintf("states that cannot reach an accepting state: %s", strings.Join(s, ", ")),
			States:  s,
		})
	}
	if f.Type == TypeDFA {
		if s := f.NonDeterministicStates(); len(s) > 0 {
			warnings = append(warnings, Warning{
				Type:    WarnNondeterministic,
				Message: fmt.Sprintf("states with several targets for one input: %s", strings.Join(s, ", ")),
				States:  s,
			})
		}
		if s := f.IncompleteStates(); len(s) > 0 {
			warnings = append(warnings, Warning{
				Type:    WarnIncomplete,
				Message: fmt.Sprintf("states missing a transition for some input: %s", strings.Join(s, ", ")),
				States:  s,
			})
		}
	}
	if syms := f.UnusedInputs(); len(syms) > 0 {
		warnings = append(warnings, Warning{
			Type:    WarnUnusedInput,
			Message: fmt.Sprintf("inputs used by no transition: %s", strings.Join(syms, ", ")),
			Symbols: syms,
		})
	}
	return warnings
}

// edges returns the successor list of every state, ε-moves included.
func (f *FSM) edges(reverse bool) map[string][]string {
	adj := make(map[string][]string, len(f.States))
	for _, t := range f.Transitions {
		for _, to := range t.To {
			if reverse {
				adj[to] = append(adj[to], t.From)
			} else {
				adj[t.From] = append(adj[t.From], to)
			}
		}
	}
	return adj
}

func search(adj map[string][]string, roots []string) map[string]bool {
	seen := make(map[string]bool)
	queue := make([]string, 0, len(roots))
	for _, r := range roots {
		if !seen[r] {
			seen[r] = true
			queue = append(queue, r)
		}
	}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, to := range adj[s] {
			if !seen[to] {
				seen[to] = true
				queue = append(queue, to)
			}
		}
	}
	return seen
}

// UnreachableStates returns states with no path from the initial state.
func (f *FSM) UnreachableStates() []string {
	var roots []string
	if f.Initial != "" {
		roots = append(roots, f.Initial)
	}
	reached := search(f.edges(false), roots)
	var out []string
	for _, s := range f.States {
		if !reached[s] {
			out = append(out, s)
		}
	}
	return out
}

// DeadStates returns states from which no accepting state can be reached.
func (f *FSM) DeadStates() []string {
	live := search(f.edges(true), f.Accepting)
	var out []string
	for _, s := range f.States {
		if !live[s] {
			out = append(out, s)
		}
	}
	return out
}

// NonDeterministicStates returns states with more than one target for some
// input.
func (f *FSM) NonDeterministicStates() []string {
	var out []string
	for _, s := range f.States {
		for _, a := range f.Alphabet {
			if len(f.Targets(s, &a)) > 1 {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// IncompleteStates returns states with no target for some input.
func (f *FSM) IncompleteStates() []string {
	var out []string
	for _, s := range f.States {
		for _, a := range f.Alphabet {
			if len(f.Targets(s, &a)) == 0 {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// UnusedInputs returns alphabet symbols that label no transition.
func (f *FSM) UnusedInputs() []string {
	used := make(map[string]bool)
	for _, t := range f.Transitions {
		if t.Input != nil {
			used[*t.Input] = true
		}
	}
	var out []string
	for _, a := range f.Alphabet {
		if !used[a] {
			out = append(out, a)
		}
	}
	return out
}
