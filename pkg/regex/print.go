package regex

import "strings"

// Operator precedence levels; a lower number binds tighter.
const (
	precAtom   = 0
	precStar   = 1
	precConcat = 2
	precUnion  = 3
	precTop    = 5
)

// reserved characters are escaped with a backslash when used as symbols.
const reserved = `ε∅*+()\`

func (r *Regex) prec() int {
	switch r.kind {
	case KindConcat:
		return precConcat
	case KindUnion:
		return precUnion
	case KindStar:
		return precStar
	}
	return precAtom
}

// emitFrame is either a node to print in a context or literal text.
type emitFrame struct {
	r    *Regex
	ctx  int
	text string
}

// String prints r with the minimum parentheses needed for Parse to read it
// back as the same language.
func (r *Regex) String() string {
	var sb strings.Builder
	stack := []emitFrame{{r: r, ctx: precTop}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.r == nil {
			sb.WriteString(f.text)
			continue
		}

		n := f.r
		if n.prec() > f.ctx {
			stack = append(stack, emitFrame{text: ")"}, emitFrame{r: n, ctx: precTop}, emitFrame{text: "("})
			continue
		}
		switch n.kind {
		case KindEmpty:
			sb.WriteString("∅")
		case KindEmptyString:
			sb.WriteString("ε")
		case KindSymbol:
			if strings.ContainsRune(reserved, n.sym) {
				sb.WriteByte('\\')
			}
			sb.WriteRune(n.sym)
		case KindConcat:
			stack = append(stack, emitFrame{r: n.r2, ctx: precConcat}, emitFrame{r: n.r1, ctx: precConcat})
		case KindUnion:
			stack = append(stack, emitFrame{r: n.r2, ctx: precUnion}, emitFrame{text: "+"}, emitFrame{r: n.r1, ctx: precUnion})
		case KindStar:
			stack = append(stack, emitFrame{text: "*"}, emitFrame{r: n.r1, ctx: precStar})
		}
	}
	return sb.String()
}
