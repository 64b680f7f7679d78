package editor

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Script is a sequence of edit commands, one per statement:
//
//	add state q3
//	remove symbol c
//	accept q1          // toggles acceptance
//	start q0
//	set q0 a -> q1, q2
//	set q0 eps -> q1
//	set q2 a -> {}     // empties the cell
//	undo
//
// Names that clash with keywords or are not identifiers can be quoted.
type Script struct {
	Commands []*Command `parser:"(@@ ';'?)*"`
}

// Command is one statement of a Script.
type Command struct {
	Pos lexer.Position

	Add    *Target `parser:"  'add' @@"`
	Remove *Target `parser:"| 'remove' @@"`
	Accept *string `parser:"| 'accept' @(Ident | String | Int)"`
	Start  *string `parser:"| 'start' @(Ident | String | Int)"`
	Set    *Cell   `parser:"| 'set' @@"`
	Undo   bool    `parser:"| @'undo'"`
	Redo   bool    `parser:"| @'redo'"`
}

// Target names the state or symbol an add or remove applies to.
type Target struct {
	State  *string `parser:"  'state' @(Ident | String | Int)"`
	Symbol *string `parser:"| 'symbol' @(Ident | String | Char | Int)"`
}

// Cell is the left and right side of a set command.
type Cell struct {
	From    string   `parser:"@(Ident | String | Int)"`
	Epsilon bool     `parser:"( @('eps' | 'ε')"`
	Symbol  *string  `parser:"| @(Ident | String | Char | Int) )"`
	To      []string `parser:"'-' '>' ( '{' '}' | @(Ident | String | Int) (',' @(Ident | String | Int))* )"`
}

var scriptParser = participle.MustBuild[Script](
	participle.Unquote("String", "Char"),
)

// ParseScript parses an edit script. name is used in error positions.
func ParseScript(name, src string) (*Script, error) {
	return scriptParser.ParseString(name, src)
}

// Op returns the edit a command performs. Undo and redo have no Op.
func (c *Command) Op() Op {
	switch {
	case c.Add != nil && c.Add.State != nil:
		return AddState(*c.Add.State)
	case c.Add != nil && c.Add.Symbol != nil:
		return AddSymbol(*c.Add.Symbol)
	case c.Remove != nil && c.Remove.State != nil:
		return RemoveState(*c.Remove.State)
	case c.Remove != nil && c.Remove.Symbol != nil:
		return RemoveSymbol(*c.Remove.Symbol)
	case c.Accept != nil:
		return ToggleAccept(*c.Accept)
	case c.Start != nil:
		return SetStart(*c.Start)
	case c.Set != nil:
		var input *string
		if !c.Set.Epsilon {
			input = c.Set.Symbol
		}
		return SetCell(c.Set.From, input, c.Set.To)
	}
	return nil
}

// Run applies every command to s in order and stops at the first rejected
// one, reporting its position.
func (sc *Script) Run(s *Session) error {
	for _, c := range sc.Commands {
		switch {
		case c.Undo:
			if !s.Undo() {
				return fmt.Errorf("%s: %w: nothing to undo", c.Pos, ErrRejected)
			}
		case c.Redo:
			if !s.Redo() {
				return fmt.Errorf("%s: %w: nothing to redo", c.Pos, ErrRejected)
			}
		default:
			if err := s.Apply(c.Op()); err != nil {
				return fmt.Errorf("%s: %w", c.Pos, err)
			}
		}
	}
	return nil
}
