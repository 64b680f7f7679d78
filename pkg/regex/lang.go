package regex

// Language describes the language of r in set-builder notation, e.g.
// {xy | x ∈ {a}, y ∈ {b}} ∪ {ε}.
func (r *Regex) Language() string {
	return Fold[string](r, Funcs[string]{
		Empty:       func() string { return "∅" },
		EmptyString: func() string { return "{ε}" },
		Symbol:      func(c rune) string { return "{" + string(c) + "}" },
		Concat: func(_, _ *Regex, x1, x2 string) string {
			return "{xy | x ∈ " + x1 + ", y ∈ " + x2 + "}"
		},
		Union: func(_, _ *Regex, x1, x2 string) string {
			return x1 + " ∪ " + x2
		},
		Star: func(_ *Regex, x string) string {
			return "{x1x2...xn | xi ∈ " + x + "}"
		},
	})
}
