package regex

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRegex is matched by every *SyntaxError.
	ErrMalformedRegex = errors.New("malformed regular expression")
	// ErrInvalidSymbol is matched by every *InvalidSymbolError.
	ErrInvalidSymbol = errors.New("invalid symbol")
)

// SyntaxError reports a parse failure. Pos counts runes from the start of the
// normalised input.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("regex: %s at position %d", e.Msg, e.Pos)
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrMalformedRegex
}

// InvalidSymbolError reports a symbol that is not exactly one character.
type InvalidSymbolError struct {
	Value string
}

func (e *InvalidSymbolError) Error() string {
	return fmt.Sprintf("regex: symbol %q is not a single character", e.Value)
}

func (e *InvalidSymbolError) Is(target error) bool {
	return target == ErrInvalidSymbol
}
