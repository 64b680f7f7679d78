package fsm

import (
	"errors"
	"fmt"
)

// ErrInvalid is returned for snapshots that fail validation or cannot be
// turned into the machine they claim to describe.
var ErrInvalid = errors.New("invalid FSM")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
