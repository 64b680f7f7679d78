package finiteset

import (
	"errors"
	"fmt"
)

// ErrIncompatibleEquality is returned when two sets built under different
// equality relations are combined.
var ErrIncompatibleEquality = errors.New("incompatible equality relations")

// IncompatibleEqualityError names the operation and the two relations involved.
type IncompatibleEqualityError struct {
	Op    string
	Left  string
	Right string
}

func (e *IncompatibleEqualityError) Error() string {
	return fmt.Sprintf("finiteset: cannot %s sets under %q and %q", e.Op, e.Left, e.Right)
}

func (e *IncompatibleEqualityError) Is(target error) bool {
	return target == ErrIncompatibleEquality
}
