package regex

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	a = Symbol('a')
	b = Symbol('b')
	c = Symbol('c')
)

func TestString(t *testing.T) {
	tests := []struct {
		name string
		r    *Regex
		want string
	}{
		{"empty", Empty(), "∅"},
		{"epsilon", EmptyString(), "ε"},
		{"union of concat", Union(a, Concat(b, Star(c))), "a+bc*"},
		{"concat of union", Concat(Union(a, b), c), "(a+b)c"},
		{"star of concat", Star(Concat(a, b)), "(ab)*"},
		{"star of union", Star(Union(a, b)), "(a+b)*"},
		{"star of star", Star(Star(a)), "a**"},
		{"left nested concat", Concat(Concat(a, b), c), "abc"},
		{"left nested union", Union(Union(a, b), c), "a+b+c"},
		{"reserved", ConcatAll(Symbol('*'), Symbol('+'), Symbol('ε'), Symbol('∅'), Symbol('('), Symbol(')'), Symbol('\\')), `\*\+\ε\∅\(\)\\`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.String())
		})
	}
}

func TestStringLarge(t *testing.T) {
	const n = 50000
	syms := make([]*Regex, 0, 2*n)
	for i := 0; i < n; i++ {
		syms = append(syms, a, b)
	}
	assert.Equal(t, strings.Repeat("ab", n), ConcatAll(syms...).String())

	left := a
	for i := 1; i < n; i++ {
		left = Union(left, a)
	}
	assert.Equal(t, strings.Repeat("a+", n-1)+"a", left.String())

	nested := Star(Union(a, b))
	for i := 0; i < 1000; i++ {
		nested = Star(Concat(nested, c))
	}
	want := strings.Repeat("(", 1000) + "(a+b)*" + strings.Repeat("c)*", 1000)
	assert.Equal(t, want, nested.String())
}

func TestSimplify(t *testing.T) {
	tests := []struct {
		in   *Regex
		want *Regex
	}{
		{Concat(Empty(), a), Empty()},
		{Concat(a, Empty()), Empty()},
		{Concat(EmptyString(), a), a},
		{Concat(a, EmptyString()), a},
		{Union(Empty(), a), a},
		{Union(a, Empty()), a},
		{Star(Empty()), EmptyString()},
		{Star(EmptyString()), EmptyString()},
		{Star(Concat(EmptyString(), Empty())), EmptyString()},
		{Union(Concat(a, Star(Empty())), Concat(Empty(), b)), a},
		{Union(a, a), Union(a, a)},
		{Star(Star(a)), Star(Star(a))},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			got := tt.in.Simplify()
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func randomRegex(rng *rand.Rand, depth int) *Regex {
	if depth == 0 {
		switch rng.IntN(4) {
		case 0:
			return Empty()
		case 1:
			return EmptyString()
		default:
			return Symbol(rune('a' + rng.IntN(2)))
		}
	}
	switch rng.IntN(5) {
	case 0:
		return Concat(randomRegex(rng, depth-1), randomRegex(rng, depth-1))
	case 1:
		return Union(randomRegex(rng, depth-1), randomRegex(rng, depth-1))
	case 2:
		return Star(randomRegex(rng, depth-1))
	default:
		return randomRegex(rng, 0)
	}
}

func TestSimplifyIdempotent(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		r := randomRegex(rng, 5)
		once := r.Simplify()
		assert.True(t, once.Equal(once.Simplify()), "simplify not idempotent on %s", r)
	}
}

func TestSimplifyPreservesLanguage(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	words := allWords("ab", 4)
	for i := 0; i < 200; i++ {
		r := randomRegex(rng, 4)
		s := r.Simplify()
		for _, w := range words {
			require.Equal(t, r.Matches(w), s.Matches(w), "%s vs %s on %q", r, s, w)
		}
	}
}

// allWords lists every string over sigma of length at most n.
func allWords(sigma string, n int) []string {
	words := []string{""}
	frontier := []string{""}
	for i := 0; i < n; i++ {
		var next []string
		for _, w := range frontier {
			for _, c := range sigma {
				next = append(next, w+string(c))
			}
		}
		words = append(words, next...)
		frontier = next
	}
	return words
}

func TestMatches(t *testing.T) {
	r := MustParse("(a+b)*abb")
	for _, w := range []string{"abb", "aabb", "babb", "ababb"} {
		assert.True(t, r.Matches(w), w)
	}
	for _, w := range []string{"", "aab", "abba", "ab", "c"} {
		assert.False(t, r.Matches(w), w)
	}
	assert.False(t, Empty().Matches(""))
	assert.True(t, EmptyString().Matches(""))
	assert.True(t, Star(Empty()).Matches(""))
}

func TestNullable(t *testing.T) {
	assert.True(t, MustParse("a*").Nullable())
	assert.True(t, MustParse("a+ε").Nullable())
	assert.False(t, MustParse("ab*").Nullable())
	assert.False(t, Empty().Nullable())
}

func TestExamples(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	for _, src := range []string{"(a+b)*abb", "a*b*", "ab+ba", "(a+b)(a+b)(a+b)(a+b)", "ε", "(ab)*"} {
		r := MustParse(src)
		ex := r.ExamplesFrom(10, rng)
		assert.LessOrEqual(t, len(ex), 10, src)
		assert.NotEmpty(t, ex, src)
		seen := make(map[string]bool)
		for _, w := range ex {
			assert.False(t, seen[w], "duplicate example %q for %s", w, src)
			seen[w] = true
			assert.True(t, r.Matches(w), "example %q not in %s", w, src)
		}
	}
}

func TestExamplesSmallIsExhaustive(t *testing.T) {
	ex := MustParse("(a+b)(a+b)").ExamplesFrom(10, rand.New(rand.NewPCG(1, 1)))
	assert.ElementsMatch(t, []string{"aa", "ab", "ba", "bb"}, ex)
}

func TestExamplesEdgeCases(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	assert.Empty(t, Empty().ExamplesFrom(5, rng))
	assert.Equal(t, []string{""}, EmptyString().ExamplesFrom(5, rng))
	assert.Equal(t, []string{""}, Star(Empty()).ExamplesFrom(5, rng))
	assert.Nil(t, a.ExamplesFrom(0, rng))
	assert.Empty(t, Concat(a, Empty()).ExamplesFrom(5, rng))
}

func TestExamplesReproducible(t *testing.T) {
	r := MustParse("(a+b+c)*(ab+ba)*")
	x := r.ExamplesFrom(8, rand.New(rand.NewPCG(42, 0)))
	y := r.ExamplesFrom(8, rand.New(rand.NewPCG(42, 0)))
	assert.Equal(t, x, y)
}

func TestLanguage(t *testing.T) {
	assert.Equal(t, "{xy | x ∈ {a}, y ∈ {b}}", MustParse("ab").Language())
	assert.Equal(t, "{a} ∪ {ε}", MustParse("a+ε").Language())
	assert.Equal(t, "{x1x2...xn | xi ∈ ∅}", MustParse("∅*").Language())
}

func TestNewSymbol(t *testing.T) {
	r, err := NewSymbol("x")
	require.NoError(t, err)
	assert.Equal(t, 'x', r.Sym())

	r, err = NewSymbol("é")
	require.NoError(t, err)
	assert.Equal(t, 'é', r.Sym())

	for _, bad := range []string{"", "ab", "\xff"} {
		_, err := NewSymbol(bad)
		assert.True(t, errors.Is(err, ErrInvalidSymbol), "%q", bad)
		var typed *InvalidSymbolError
		assert.True(t, errors.As(err, &typed))
	}
}

func TestSymbolPanicsOnInvalidRune(t *testing.T) {
	assert.Panics(t, func() { Symbol(0xD800) })
}

func TestDeepTrees(t *testing.T) {
	const depth = 10000
	r := a
	for i := 0; i < depth; i++ {
		r = Concat(b, r)
	}
	assert.Equal(t, 2*depth+1, r.Size())
	assert.Equal(t, strings.Repeat("b", depth)+"a", r.String())
	assert.True(t, r.Equal(r.Simplify()))

	s := a
	for i := 0; i < depth; i++ {
		s = Star(s)
	}
	assert.True(t, strings.HasPrefix(s.String(), "a***"))
}

func TestSymbols(t *testing.T) {
	assert.Equal(t, []rune{'b', 'a', 'c'}, MustParse("b(a+b)*c").Symbols())
	assert.Empty(t, MustParse("ε+∅").Symbols())
}
