package regex

// Visitor handles each variant of a Regex during a Fold. Composite variants
// receive their operands alongside the already folded results for them.
type Visitor[T any] interface {
	VisitEmpty() T
	VisitEmptyString() T
	VisitSymbol(c rune) T
	VisitConcat(r1, r2 *Regex, x1, x2 T) T
	VisitUnion(r1, r2 *Regex, x1, x2 T) T
	VisitStar(r *Regex, x T) T
}

type foldFrame struct {
	r        *Regex
	expanded bool
}

// Fold evaluates v bottom-up over r, left operand first. It uses an explicit
// stack, so arbitrarily deep trees are fine. Shared subtrees are visited once
// per occurrence.
func Fold[T any](r *Regex, v Visitor[T]) T {
	stack := []foldFrame{{r: r}}
	var vals []T
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !f.expanded {
			switch f.r.kind {
			case KindConcat, KindUnion:
				stack = append(stack, foldFrame{r: f.r, expanded: true}, foldFrame{r: f.r.r2}, foldFrame{r: f.r.r1})
				continue
			case KindStar:
				stack = append(stack, foldFrame{r: f.r, expanded: true}, foldFrame{r: f.r.r1})
				continue
			}
		}

		n := len(vals)
		switch f.r.kind {
		case KindEmpty:
			vals = append(vals, v.VisitEmpty())
		case KindEmptyString:
			vals = append(vals, v.VisitEmptyString())
		case KindSymbol:
			vals = append(vals, v.VisitSymbol(f.r.sym))
		case KindConcat:
			x := v.VisitConcat(f.r.r1, f.r.r2, vals[n-2], vals[n-1])
			vals = append(vals[:n-2], x)
		case KindUnion:
			x := v.VisitUnion(f.r.r1, f.r.r2, vals[n-2], vals[n-1])
			vals = append(vals[:n-2], x)
		case KindStar:
			vals[n-1] = v.VisitStar(f.r.r1, vals[n-1])
		}
	}
	return vals[0]
}

// Funcs adapts a set of functions to a Visitor. Every field must be set.
type Funcs[T any] struct {
	Empty       func() T
	EmptyString func() T
	Symbol      func(c rune) T
	Concat      func(r1, r2 *Regex, x1, x2 T) T
	Union       func(r1, r2 *Regex, x1, x2 T) T
	Star        func(r *Regex, x T) T
}

func (f Funcs[T]) VisitEmpty() T                         { return f.Empty() }
func (f Funcs[T]) VisitEmptyString() T                   { return f.EmptyString() }
func (f Funcs[T]) VisitSymbol(c rune) T                  { return f.Symbol(c) }
func (f Funcs[T]) VisitConcat(r1, r2 *Regex, x1, x2 T) T { return f.Concat(r1, r2, x1, x2) }
func (f Funcs[T]) VisitUnion(r1, r2 *Regex, x1, x2 T) T  { return f.Union(r1, r2, x1, x2) }
func (f Funcs[T]) VisitStar(r *Regex, x T) T             { return f.Star(r, x) }
