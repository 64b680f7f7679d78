package regex

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Parse reads a regular expression:
//
//	expr   := term ('+' term)*
//	term   := factor factor*
//	factor := base '*'*
//	base   := '(' expr ')' | 'ε' | '∅' | '\' any | any other character
//
// Concatenation binds tighter than union and star binds tightest; both binary
// operators associate to the right. The input is NFC-normalised first, and a
// failure is reported as a *SyntaxError whose position counts runes. Groups
// are kept on an explicit stack, so nesting depth is bounded only by memory.
func Parse(s string) (*Regex, error) {
	p := &parser{in: []rune(norm.NFC.String(s))}
	return p.parse()
}

// MustParse is like Parse but panics on error. It is meant for fixed
// expressions in tests and sample machines.
func MustParse(s string) *Regex {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}

type parser struct {
	in  []rune
	pos int
}

// group is an expression being read: the terms already closed by '+' and
// the factors of the current term.
type group struct {
	open    int // position of '(', or -1 at top level
	terms   []*Regex
	factors []*Regex
}

func (g *group) close() *Regex {
	return UnionAll(append(g.terms, ConcatAll(g.factors...))...)
}

func (p *parser) eof() bool  { return p.pos >= len(p.in) }
func (p *parser) peek() rune { return p.in[p.pos] }

func (p *parser) errorf(pos int, format string, args ...any) error {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) parse() (*Regex, error) {
	groups := []*group{{open: -1}}
	for {
		g := groups[len(groups)-1]
		if p.eof() {
			switch {
			case len(g.factors) == 0:
				return nil, p.errorf(p.pos, "unexpected end of input")
			case len(groups) > 1:
				return nil, p.errorf(g.open, "unmatched parenthesis")
			}
			return g.close(), nil
		}

		start := p.pos
		c := p.peek()
		switch c {
		case '(':
			p.pos++
			groups = append(groups, &group{open: start})
		case ')':
			if len(g.factors) == 0 {
				return nil, p.errorf(start, "unexpected %q", c)
			}
			if len(groups) == 1 {
				return nil, p.errorf(start, "unmatched parenthesis")
			}
			p.pos++
			groups = groups[:len(groups)-1]
			outer := groups[len(groups)-1]
			outer.factors = append(outer.factors, p.stars(g.close()))
		case '+':
			if len(g.factors) == 0 {
				return nil, p.errorf(start, "unexpected %q", c)
			}
			p.pos++
			g.terms = append(g.terms, ConcatAll(g.factors...))
			g.factors = nil
		case '*':
			return nil, p.errorf(start, "unexpected %q", c)
		default:
			b, err := p.atom()
			if err != nil {
				return nil, err
			}
			g.factors = append(g.factors, p.stars(b))
		}
	}
}

// stars applies every '*' that follows a base.
func (p *parser) stars(b *Regex) *Regex {
	for !p.eof() && p.peek() == '*' {
		p.pos++
		b = Star(b)
	}
	return b
}

// atom reads a base that is not a group.
func (p *parser) atom() (*Regex, error) {
	start := p.pos
	c := p.peek()
	p.pos++
	switch c {
	case 'ε':
		return emptyString, nil
	case '∅':
		return empty, nil
	case '\\':
		if p.eof() {
			return nil, p.errorf(start, "dangling escape")
		}
		c = p.peek()
		p.pos++
	}
	return Symbol(c), nil
}
