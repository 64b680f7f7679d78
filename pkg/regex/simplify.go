package regex

// Simplify rewrites r in one bottom-up pass:
//
//	∅r = r∅ = ∅    εr = rε = r    ∅+r = r+∅ = r    ∅* = ε* = ε
//
// Children are simplified before their parent, so a single pass already
// reaches a normal form and Simplify is idempotent.
func (r *Regex) Simplify() *Regex {
	return Fold[*Regex](r, simplifier{})
}

type simplifier struct{}

func (simplifier) VisitEmpty() *Regex { return empty }

func (simplifier) VisitEmptyString() *Regex { return emptyString }

func (simplifier) VisitSymbol(c rune) *Regex { return &Regex{kind: KindSymbol, sym: c} }

func (simplifier) VisitConcat(_, _ *Regex, x1, x2 *Regex) *Regex {
	switch {
	case x1.kind == KindEmpty || x2.kind == KindEmpty:
		return empty
	case x1.kind == KindEmptyString:
		return x2
	case x2.kind == KindEmptyString:
		return x1
	}
	return Concat(x1, x2)
}

func (simplifier) VisitUnion(_, _ *Regex, x1, x2 *Regex) *Regex {
	switch {
	case x1.kind == KindEmpty:
		return x2
	case x2.kind == KindEmpty:
		return x1
	}
	return Union(x1, x2)
}

func (simplifier) VisitStar(_ *Regex, x *Regex) *Regex {
	if x.kind == KindEmpty || x.kind == KindEmptyString {
		return emptyString
	}
	return Star(x)
}
