package automaton

import (
	"fmt"

	"github.com/ha1tch/automata-toolkit/pkg/finiteset"
	"github.com/ha1tch/automata-toolkit/pkg/naming"
	"github.com/ha1tch/automata-toolkit/pkg/regex"
)

// LabelFunc labels the GNFA edge from p to q. A nil result means ∅.
type LabelFunc[S any] func(p, q S) *regex.Regex

// GNFA is a generalized NFA whose edges carry regular expressions. The start
// state has no incoming edges, the accept state has no outgoing edges and
// the two are distinct.
type GNFA[S any] struct {
	states   *finiteset.Set[S]
	alphabet *finiteset.Set[rune]
	label    [][]*regex.Regex // label[p][q]
	start    int
	accept   int
}

// NewGNFA builds a GNFA, evaluating label on every pair of states and
// checking the start/accept invariants.
func NewGNFA[S any](states *finiteset.Set[S], alphabet *finiteset.Set[rune], label LabelFunc[S], start, accept S) (*GNFA[S], error) {
	g := &GNFA[S]{states: states, alphabet: alphabet}
	if g.start = states.Index(start); g.start < 0 {
		return nil, fmt.Errorf("new GNFA: %w", unknownState("start state", start))
	}
	if g.accept = states.Index(accept); g.accept < 0 {
		return nil, fmt.Errorf("new GNFA: %w", unknownState("accept state", accept))
	}
	if g.start == g.accept {
		return nil, fmt.Errorf("%w: start and accept are both %v", ErrGNFAInvariant, start)
	}
	elems := states.Elems()
	g.label = make([][]*regex.Regex, len(elems))
	for i, p := range elems {
		g.label[i] = make([]*regex.Regex, len(elems))
		for j, q := range elems {
			r := label(p, q)
			if r == nil {
				r = regex.Empty()
			}
			g.label[i][j] = r
		}
	}
	for i, q := range elems {
		if !isEmpty(g.label[i][g.start]) {
			return nil, fmt.Errorf("%w: edge %v → start %v labelled %s", ErrGNFAInvariant, q, start, g.label[i][g.start])
		}
		if !isEmpty(g.label[g.accept][i]) {
			return nil, fmt.Errorf("%w: edge accept %v → %v labelled %s", ErrGNFAInvariant, accept, q, g.label[g.accept][i])
		}
	}
	return g, nil
}

func isEmpty(r *regex.Regex) bool {
	return r.Simplify().Kind() == regex.KindEmpty
}

func (g *GNFA[S]) States() *finiteset.Set[S]      { return g.states }
func (g *GNFA[S]) Alphabet() *finiteset.Set[rune] { return g.alphabet }
func (g *GNFA[S]) Start() S                       { return g.states.At(g.start) }
func (g *GNFA[S]) Accept() S                      { return g.states.At(g.accept) }

// Transition returns the label of the edge from p to q.
func (g *GNFA[S]) Transition(p, q S) (*regex.Regex, error) {
	i, j := g.states.Index(p), g.states.Index(q)
	if i < 0 {
		return nil, unknownState("state", p)
	}
	if j < 0 {
		return nil, unknownState("state", q)
	}
	return g.label[i][j], nil
}

// Edge is one non-∅ GNFA edge.
type Edge[S any] struct {
	From, To S
	Label    *regex.Regex
}

// Edges lists every edge whose label is not ∅, in state order.
func (g *GNFA[S]) Edges() []Edge[S] {
	var out []Edge[S]
	for i, row := range g.label {
		for j, r := range row {
			if r.Kind() == regex.KindEmpty {
				continue
			}
			out = append(out, Edge[S]{From: g.states.At(i), To: g.states.At(j), Label: r})
		}
	}
	return out
}

// Eliminate removes the first state in state order that is neither start
// nor accept, rerouting every path through it. It returns false when only
// start and accept are left.
func (g *GNFA[S]) Eliminate() (*GNFA[S], bool) {
	inner, err := g.states.Minus(finiteset.New(g.states.Equality(), g.Start(), g.Accept()))
	if err != nil {
		// both operands share the state relation
		panic(err)
	}
	q, ok := inner.Choose()
	if !ok {
		return g, false
	}
	rip := g.states.Index(q)

	loop := regex.Star(g.label[rip][rip])
	keep := make([]int, 0, len(g.label)-1)
	for i := range g.label {
		if i != rip {
			keep = append(keep, i)
		}
	}
	label := make([][]*regex.Regex, len(keep))
	for a, p := range keep {
		label[a] = make([]*regex.Regex, len(keep))
		in := g.label[p][rip]
		for b, q := range keep {
			old, out := g.label[p][q], g.label[rip][q]
			if in.Kind() == regex.KindEmpty || out.Kind() == regex.KindEmpty {
				label[a][b] = old
				continue
			}
			label[a][b] = regex.Union(old, regex.Concat(regex.Concat(in, loop), out)).Simplify()
		}
	}

	shift := func(i int) int {
		if i > rip {
			return i - 1
		}
		return i
	}
	return &GNFA[S]{
		states:   g.states.Without(g.states.At(rip)),
		alphabet: g.alphabet,
		label:    label,
		start:    shift(g.start),
		accept:   shift(g.accept),
	}, true
}

// ToRegex eliminates states until only start and accept remain and returns
// the label between them.
func (g *GNFA[S]) ToRegex() *regex.Regex {
	for more := true; more; {
		g, more = g.Eliminate()
	}
	return g.label[g.start][g.accept]
}

func (g *GNFA[S]) String() string {
	return fmt.Sprintf("GNFA{states: %v, start: %v, accept: %v, edges: %d}", g.states, g.Start(), g.Accept(), len(g.Edges()))
}

// GStateKind distinguishes the two states a GNFA adds from the original ones.
type GStateKind int

const (
	GOriginal GStateKind = iota
	GStart
	GAccept
)

// GState is a state of a GNFA built from an NFA: either one of the NFA's
// states or a freshly named start or accept state.
type GState[S any] struct {
	Kind GStateKind
	Name naming.Name
	Orig S
}

func (s GState[S]) String() string {
	if s.Kind == GOriginal {
		return fmt.Sprint(s.Orig)
	}
	return s.Name.String()
}

// gstateEquality compares original states under eq and added states by name.
func gstateEquality[S any](eq *finiteset.Equality[S]) *finiteset.Equality[GState[S]] {
	return finiteset.NewEquality("gnfa states over "+eq.String(), func(a, b GState[S]) bool {
		if a.Kind != b.Kind {
			return false
		}
		if a.Kind == GOriginal {
			return eq.Equal(a.Orig, b.Orig)
		}
		return a.Name == b.Name
	})
}

// GNFAFromNFA wraps n in a GNFA with fresh start and accept states from ctx:
// start has an ε-edge to n's start, every accepting state has an ε-edge to
// accept, and the edge between two original states is the union of the
// symbols leading from one to the other.
func GNFAFromNFA[S any](ctx *naming.Context, n *NFA[S]) *GNFA[GState[S]] {
	return gnfaFrom(ctx, n.shape, n.delta, nil)
}

// GNFAFromEpsilonNFA is GNFAFromNFA for an ε-NFA; each ε-move adds ε to the
// label of its edge.
func GNFAFromEpsilonNFA[S any](ctx *naming.Context, n *EpsilonNFA[S]) *GNFA[GState[S]] {
	return gnfaFrom(ctx, n.shape, n.delta, n.eps)
}

func gnfaFrom[S any](ctx *naming.Context, sh shape[S], delta [][]int, eps [][]int) *GNFA[GState[S]] {
	n, k := sh.states.Len(), sh.alphabet.Len()
	start := GState[S]{Kind: GStart, Name: ctx.Fresh("start")}
	accept := GState[S]{Kind: GAccept, Name: ctx.Fresh("accept")}

	// state order: start, the original states, accept
	elems := make([]GState[S], 0, n+2)
	elems = append(elems, start)
	for _, q := range sh.states.Elems() {
		elems = append(elems, GState[S]{Kind: GOriginal, Orig: q})
	}
	elems = append(elems, accept)
	last := n + 1

	label := make([][]*regex.Regex, n+2)
	for i := range label {
		label[i] = make([]*regex.Regex, n+2)
		for j := range label[i] {
			label[i][j] = regex.Empty()
		}
	}
	label[0][sh.start+1] = regex.EmptyString()
	for p := 0; p < n; p++ {
		alts := make([][]*regex.Regex, n)
		if eps != nil {
			for _, q := range eps[p] {
				alts[q] = append(alts[q], regex.EmptyString())
			}
		}
		for j, a := range sh.alphabet.Elems() {
			for _, q := range delta[p*k+j] {
				alts[q] = append(alts[q], regex.Symbol(a))
			}
		}
		for q, rs := range alts {
			if len(rs) > 0 {
				label[p+1][q+1] = regex.UnionAll(rs...)
			}
		}
		if sh.accept.Test(uint(p)) {
			label[p+1][last] = regex.EmptyString()
		}
	}

	return &GNFA[GState[S]]{
		states:   finiteset.FromDistinct(gstateEquality(sh.states.Equality()), elems),
		alphabet: sh.alphabet,
		label:    label,
		start:    0,
		accept:   last,
	}
}

// NFAToRegex converts n to an equivalent regular expression by state
// elimination.
func NFAToRegex[S any](ctx *naming.Context, n *NFA[S]) *regex.Regex {
	return GNFAFromNFA(ctx, n).ToRegex()
}

// EpsilonNFAToRegex converts n to an equivalent regular expression by state
// elimination.
func EpsilonNFAToRegex[S any](ctx *naming.Context, n *EpsilonNFA[S]) *regex.Regex {
	return GNFAFromEpsilonNFA(ctx, n).ToRegex()
}

// DFAToRegex converts m to an equivalent regular expression by state
// elimination.
func DFAToRegex[S any](ctx *naming.Context, m *DFA[S]) *regex.Regex {
	return NFAToRegex(ctx, m.AsNFA())
}
