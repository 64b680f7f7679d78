package regex

// Nullable reports whether r matches the empty string.
func (r *Regex) Nullable() bool {
	return Fold[bool](r, Funcs[bool]{
		Empty:       func() bool { return false },
		EmptyString: func() bool { return true },
		Symbol:      func(rune) bool { return false },
		Concat:      func(_, _ *Regex, x1, x2 bool) bool { return x1 && x2 },
		Union:       func(_, _ *Regex, x1, x2 bool) bool { return x1 || x2 },
		Star:        func(*Regex, bool) bool { return true },
	})
}

// Derivative returns the regex matching { w | c·w ∈ L(r) }.
func (r *Regex) Derivative(c rune) *Regex {
	return Fold[derived](r, deriver{c: c}).d
}

// Matches reports whether w is in the language of r. It works directly on
// the syntax tree by taking one derivative per character, independently of
// any automaton construction.
func (r *Regex) Matches(w string) bool {
	cur := r
	for _, c := range w {
		cur = cur.Derivative(c)
		if cur.kind == KindEmpty {
			return false
		}
	}
	return cur.Nullable()
}

type derived struct {
	nullable bool
	d        *Regex
}

type deriver struct{ c rune }

func (deriver) VisitEmpty() derived { return derived{false, empty} }

func (deriver) VisitEmptyString() derived { return derived{true, empty} }

func (v deriver) VisitSymbol(c rune) derived {
	if c == v.c {
		return derived{false, emptyString}
	}
	return derived{false, empty}
}

func (deriver) VisitConcat(_, r2 *Regex, x1, x2 derived) derived {
	d := smartConcat(x1.d, r2)
	if x1.nullable {
		d = smartUnion(d, x2.d)
	}
	return derived{x1.nullable && x2.nullable, d}
}

func (deriver) VisitUnion(_, _ *Regex, x1, x2 derived) derived {
	return derived{x1.nullable || x2.nullable, smartUnion(x1.d, x2.d)}
}

func (deriver) VisitStar(r *Regex, x derived) derived {
	return derived{true, smartConcat(x.d, Star(r))}
}

// smartConcat and smartUnion keep derivatives from growing without bound.
func smartConcat(r1, r2 *Regex) *Regex {
	switch {
	case r1.kind == KindEmpty || r2.kind == KindEmpty:
		return empty
	case r1.kind == KindEmptyString:
		return r2
	case r2.kind == KindEmptyString:
		return r1
	}
	return Concat(r1, r2)
}

// smartUnion flattens nested unions and drops repeated alternatives.
func smartUnion(r1, r2 *Regex) *Regex {
	var alts []*Regex
	stack := []*Regex{r2, r1}
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch r.kind {
		case KindEmpty:
			continue
		case KindUnion:
			stack = append(stack, r.r2, r.r1)
			continue
		}
		dup := false
		for _, a := range alts {
			if a.Equal(r) {
				dup = true
				break
			}
		}
		if !dup {
			alts = append(alts, r)
		}
	}
	return UnionAll(alts...)
}
