package fsm

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ha1tch/automata-toolkit/pkg/automaton"
	"github.com/ha1tch/automata-toolkit/pkg/finiteset"
	"github.com/ha1tch/automata-toolkit/pkg/regex"
)

// Runner executes an FSM interactively.
// It tracks all possible current states simultaneously, taking ε-closures
// after every step, so one runner serves DFAs, NFAs and ε-NFAs.
type Runner struct {
	fsm     *FSM
	m       *automaton.EpsilonNFA[string]
	current *finiteset.Set[string]
	history []Step
}

// Step records one step of execution.
type Step struct {
	FromState  string // single state, or "{a, b}" for several
	FromStates []string
	Input      string
	ToState    string
	ToStates   []string
}

// NewRunner creates a runner for the given FSM.
func NewRunner(f *FSM) (*Runner, error) {
	m, err := f.EpsilonNFA()
	if err != nil {
		return nil, fmt.Errorf("invalid FSM: %w", err)
	}
	r := &Runner{fsm: f, m: m}
	r.Reset()
	return r, nil
}

// closure extends set with every state reachable by ε-moves.
func (r *Runner) closure(set *finiteset.Set[string]) *finiteset.Set[string] {
	out, err := set.BigUnion(func(q string) *finiteset.Set[string] {
		c, _ := r.m.EpsilonClosure(q)
		return c
	})
	if err != nil {
		// every set here shares the runner's state relation
		panic(err)
	}
	return out
}

// CurrentState returns the current state(s) as a string.
func (r *Runner) CurrentState() string {
	return formatStateSet(r.CurrentStates())
}

// CurrentStates returns the current states in state order.
func (r *Runner) CurrentStates() []string {
	return r.current.Elems()
}

// IsAccepting returns true if any current state is accepting.
func (r *Runner) IsAccepting() bool {
	for _, state := range r.current.Elems() {
		if r.m.IsAccepting(state) {
			return true
		}
	}
	return false
}

// AvailableInputs returns the inputs with a transition from some current
// state, in alphabet order.
func (r *Runner) AvailableInputs() []string {
	var inputs []string
	for _, a := range r.m.Alphabet().Elems() {
		for _, state := range r.current.Elems() {
			if to, _ := r.m.Transition(state, a); to != nil && !to.IsEmpty() {
				inputs = append(inputs, string(a))
				break
			}
		}
	}
	return inputs
}

// Step processes one input symbol.
// Returns an error if no valid transition exists from any current state;
// the current states are then left unchanged.
func (r *Runner) Step(input string) error {
	a, err := regex.SymbolRune(input)
	if err != nil {
		return err
	}
	if !r.m.Alphabet().Contains(a) {
		return fmt.Errorf("input %q not in alphabet", input)
	}
	next, err := r.current.BigUnion(func(q string) *finiteset.Set[string] {
		to, _ := r.m.Transition(q, a)
		return to
	})
	if err != nil {
		return err
	}
	if next.IsEmpty() {
		return fmt.Errorf("no transition from state %s on input %q", r.CurrentState(), input)
	}

	fromStates := r.CurrentStates()
	r.current = r.closure(next)
	toStates := r.CurrentStates()

	r.history = append(r.history, Step{
		FromState:  formatStateSet(fromStates),
		FromStates: fromStates,
		Input:      input,
		ToState:    formatStateSet(toStates),
		ToStates:   toStates,
	})
	return nil
}

// formatStateSet formats a slice of states as a string.
func formatStateSet(states []string) string {
	if len(states) == 1 {
		return states[0]
	}
	return "{" + strings.Join(states, ", ") + "}"
}

// Reset returns the runner to the initial state.
func (r *Runner) Reset() {
	start := finiteset.New(r.m.States().Equality(), r.m.Start())
	r.current = r.closure(start)
	r.history = make([]Step, 0)
}

// History returns the execution history.
func (r *Runner) History() []Step {
	return r.history
}

// Run processes a sequence of inputs, stopping at the first one with no
// transition.
func (r *Runner) Run(inputs []string) error {
	for _, input := range inputs {
		if err := r.Step(input); err != nil {
			return err
		}
	}
	return nil
}

// RunString processes a sequence of single-character inputs.
func (r *Runner) RunString(input string) error {
	var inputs []string
	for _, c := range norm.NFC.String(input) {
		inputs = append(inputs, string(c))
	}
	return r.Run(inputs)
}

// Status returns a status string for the current state.
func (r *Runner) Status() string {
	status := fmt.Sprintf("State: %s", r.CurrentState())
	if r.IsAccepting() {
		status += " [accepting]"
	}
	return status
}
