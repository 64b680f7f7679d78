// Package regex implements regular expressions over single-character symbols
// with union, concatenation, Kleene star, ε and ∅.
//
// A *Regex is an immutable syntax tree. The semantic operations on it
// (simplification, sampling, matching) are written as a Fold over a Visitor,
// so adding a variant means adding a Visitor method and the compiler points
// at most places that have to handle it. Printing and parsing work on
// explicit stacks.
package regex

import (
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Kind tags the variant of a Regex.
type Kind int

const (
	KindEmpty Kind = iota
	KindEmptyString
	KindSymbol
	KindConcat
	KindUnion
	KindStar
)

var kindNames = [...]string{"empty", "epsilon", "symbol", "concat", "union", "star"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Regex is one node of a regular expression. The zero value is not usable;
// build values with the constructors below.
type Regex struct {
	kind Kind
	sym  rune
	r1   *Regex
	r2   *Regex
}

var (
	empty       = &Regex{kind: KindEmpty}
	emptyString = &Regex{kind: KindEmptyString}
)

// Empty returns ∅, the regex matching nothing.
func Empty() *Regex { return empty }

// EmptyString returns ε, the regex matching only the empty string.
func EmptyString() *Regex { return emptyString }

// Symbol returns the regex matching the single character c. It panics with an
// *InvalidSymbolError if c is not a valid Unicode code point; use NewSymbol
// for input that has not been checked.
func Symbol(c rune) *Regex {
	if !utf8.ValidRune(c) {
		panic(&InvalidSymbolError{Value: string(c)})
	}
	return &Regex{kind: KindSymbol, sym: c}
}

// NewSymbol validates that s is exactly one character after NFC
// normalisation and returns the matching regex.
func NewSymbol(s string) (*Regex, error) {
	c, err := SymbolRune(s)
	if err != nil {
		return nil, err
	}
	return &Regex{kind: KindSymbol, sym: c}, nil
}

// SymbolRune returns the single character s consists of.
func SymbolRune(s string) (rune, error) {
	s = norm.NFC.String(s)
	c, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) || c == utf8.RuneError {
		return 0, &InvalidSymbolError{Value: s}
	}
	return c, nil
}

func Concat(r1, r2 *Regex) *Regex {
	mustNotNil(r1, r2)
	return &Regex{kind: KindConcat, r1: r1, r2: r2}
}

func Union(r1, r2 *Regex) *Regex {
	mustNotNil(r1, r2)
	return &Regex{kind: KindUnion, r1: r1, r2: r2}
}

func Star(r *Regex) *Regex {
	mustNotNil(r)
	return &Regex{kind: KindStar, r1: r}
}

// ConcatAll right-folds rs into a concatenation; no operands yields ε.
func ConcatAll(rs ...*Regex) *Regex {
	if len(rs) == 0 {
		return emptyString
	}
	acc := rs[len(rs)-1]
	for i := len(rs) - 2; i >= 0; i-- {
		acc = Concat(rs[i], acc)
	}
	return acc
}

// UnionAll right-folds rs into a union; no operands yields ∅.
func UnionAll(rs ...*Regex) *Regex {
	if len(rs) == 0 {
		return empty
	}
	acc := rs[len(rs)-1]
	for i := len(rs) - 2; i >= 0; i-- {
		acc = Union(rs[i], acc)
	}
	return acc
}

func mustNotNil(rs ...*Regex) {
	for _, r := range rs {
		if r == nil {
			panic("regex: nil operand")
		}
	}
}

func (r *Regex) Kind() Kind { return r.kind }

// Sym returns the character of a symbol node.
func (r *Regex) Sym() rune { return r.sym }

// Left returns the first operand of a concat or union, or the operand of a star.
func (r *Regex) Left() *Regex { return r.r1 }

// Right returns the second operand of a concat or union.
func (r *Regex) Right() *Regex { return r.r2 }

// Equal reports structural equality.
func (r *Regex) Equal(other *Regex) bool {
	type pair struct{ a, b *Regex }
	stack := []pair{{r, other}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p.a == p.b {
			continue
		}
		if p.a == nil || p.b == nil || p.a.kind != p.b.kind {
			return false
		}
		switch p.a.kind {
		case KindSymbol:
			if p.a.sym != p.b.sym {
				return false
			}
		case KindConcat, KindUnion:
			stack = append(stack, pair{p.a.r1, p.b.r1}, pair{p.a.r2, p.b.r2})
		case KindStar:
			stack = append(stack, pair{p.a.r1, p.b.r1})
		}
	}
	return true
}

// Symbols returns the distinct characters used by r in order of first
// appearance.
func (r *Regex) Symbols() []rune {
	var out []rune
	seen := make(map[rune]bool)
	stack := []*Regex{r}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch n.kind {
		case KindSymbol:
			if !seen[n.sym] {
				seen[n.sym] = true
				out = append(out, n.sym)
			}
		case KindConcat, KindUnion:
			stack = append(stack, n.r2, n.r1)
		case KindStar:
			stack = append(stack, n.r1)
		}
	}
	return out
}

// Size returns the number of nodes in r.
func (r *Regex) Size() int {
	return Fold[int](r, sizer{})
}

type sizer struct{}

func (sizer) VisitEmpty() int                         { return 1 }
func (sizer) VisitEmptyString() int                   { return 1 }
func (sizer) VisitSymbol(rune) int                    { return 1 }
func (sizer) VisitConcat(_, _ *Regex, x1, x2 int) int { return 1 + x1 + x2 }
func (sizer) VisitUnion(_, _ *Regex, x1, x2 int) int  { return 1 + x1 + x2 }
func (sizer) VisitStar(_ *Regex, x int) int           { return 1 + x }
