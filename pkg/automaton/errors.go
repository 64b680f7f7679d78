package automaton

import (
	"errors"
	"fmt"
)

var (
	ErrAlphabetMismatch    = errors.New("alphabet mismatch")
	ErrGNFAInvariant       = errors.New("GNFA invariant violated")
	ErrUndefinedTransition = errors.New("undefined transition")
	ErrUnknownState        = errors.New("unknown state")
	ErrUnknownSymbol       = errors.New("unknown symbol")
)

// UndefinedTransitionError reports a (state, symbol) pair for which a DFA
// transition function produced no state, or produced one outside the state
// set.
type UndefinedTransitionError struct {
	State  string
	Symbol rune
	// Target is set when the function returned a state that is not part of
	// the machine.
	Target string
}

func (e *UndefinedTransitionError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("transition δ(%s, %q) = %s is not a state", e.State, e.Symbol, e.Target)
	}
	return fmt.Sprintf("transition δ(%s, %q) is undefined", e.State, e.Symbol)
}

func (e *UndefinedTransitionError) Is(target error) bool {
	return target == ErrUndefinedTransition
}

func unknownState(role string, q any) error {
	return fmt.Errorf("%w: %s %v", ErrUnknownState, role, q)
}

func unknownSymbol(a rune) error {
	return fmt.Errorf("%w: %q", ErrUnknownSymbol, a)
}
