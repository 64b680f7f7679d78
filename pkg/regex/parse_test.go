package regex

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want *Regex
	}{
		{"a", a},
		{"ε", EmptyString()},
		{"∅", Empty()},
		{"ab", Concat(a, b)},
		{"a+b", Union(a, b)},
		{"abc", Concat(a, Concat(b, c))},
		{"a+b+c", Union(a, Union(b, c))},
		{"ab+c", Union(Concat(a, b), c)},
		{"a(b+c)", Concat(a, Union(b, c))},
		{"ab*", Concat(a, Star(b))},
		{"(ab)*", Star(Concat(a, b))},
		{"a**", Star(Star(a))},
		{"(a+b)*abb", Concat(Star(Union(a, b)), Concat(a, Concat(b, b)))},
		{`\*\+`, Concat(Symbol('*'), Symbol('+'))},
		{`\ε`, Symbol('ε')},
		{`\\`, Symbol('\\')},
		{"é", Symbol('é')},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		in  string
		pos int
		msg string
	}{
		{"", 0, "unexpected end of input"},
		{"a+", 2, "unexpected end of input"},
		{"(a", 0, "unmatched parenthesis"},
		{"a(b(c)", 1, "unmatched parenthesis"},
		{"a)", 1, "unmatched parenthesis"},
		{`ab\`, 2, "dangling escape"},
		{"+a", 0, `unexpected '+'`},
		{"*", 0, `unexpected '*'`},
		{"()", 1, `unexpected ')'`},
		{"εε+*", 3, `unexpected '*'`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := Parse(tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedRegex))
			var se *SyntaxError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.pos, se.Pos)
			assert.Equal(t, tt.msg, se.Msg)
		})
	}
}

func TestPrintParseRoundTrip(t *testing.T) {
	for _, src := range []string{"(a+b)*abb", "a**", `\(\)+ε`, "(ab)*(a+∅)", "a(b+c)*d+ε", "((a))"} {
		r := MustParse(src)
		back, err := Parse(r.String())
		require.NoError(t, err, src)
		assert.True(t, r.Equal(back), "%s printed as %s", src, r.String())
	}
}

func TestParseDeepNesting(t *testing.T) {
	const n = 100000
	r, err := Parse(strings.Repeat("(", n) + "a" + strings.Repeat(")", n))
	require.NoError(t, err)
	assert.True(t, a.Equal(r))

	r, err = Parse(strings.Repeat("(", n) + "a" + strings.Repeat(")*", n))
	require.NoError(t, err)
	want := a
	for i := 0; i < n; i++ {
		want = Star(want)
	}
	assert.True(t, want.Equal(r))
	assert.Equal(t, "a"+strings.Repeat("*", n), r.String())

	_, err = Parse(strings.Repeat("(", n) + "a" + strings.Repeat(")", n-1))
	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 0, se.Pos)
	assert.Equal(t, "unmatched parenthesis", se.Msg)
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("(") })
}

func FuzzParse(f *testing.F) {
	for _, seed := range []string{"(a+b)*abb", "a**", `\**`, "ε+∅", "((a)", "+", `\`, "ab)c"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, in string) {
		r, err := Parse(in)
		if err != nil {
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("Parse(%q) returned %T, want *SyntaxError", in, err)
			}
			return
		}
		printed := r.String()
		if !norm.NFC.IsNormalString(printed) {
			t.Skip("printed form composes under NFC")
		}
		back, err := Parse(printed)
		if err != nil {
			t.Fatalf("Parse(%q) = %v; printed from %q", printed, err, in)
		}
		if again := back.String(); again != printed {
			t.Fatalf("print/parse not stable: %q -> %q", printed, again)
		}
	})
}
