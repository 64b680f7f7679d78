package regex

import "math/rand/v2"

// Examples returns up to n distinct strings in the language of r, sampled
// with a randomly seeded source.
func (r *Regex) Examples(n int) []string {
	return r.ExamplesFrom(n, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// ExamplesFrom is Examples drawing its random choices from rng.
//
// Concatenations and unions enumerate their children's samples exhaustively
// while the combination fits in n and otherwise pick from them with
// replacement; a star joins up to n-1 picks. The result is best-effort
// coverage of the language with no guarantees about its distribution.
func (r *Regex) ExamplesFrom(n int, rng *rand.Rand) []string {
	if n <= 0 {
		return nil
	}
	return Fold[[]string](r, sampler{n: n, rng: rng})
}

type sampler struct {
	n   int
	rng *rand.Rand
}

func (s sampler) pick(e []string) string { return e[s.rng.IntN(len(e))] }

func (sampler) VisitEmpty() []string { return nil }

func (sampler) VisitEmptyString() []string { return []string{""} }

func (sampler) VisitSymbol(c rune) []string { return []string{string(c)} }

func (s sampler) VisitConcat(_, _ *Regex, e1, e2 []string) []string {
	out := newStringSet()
	if len(e1)*len(e2) <= s.n {
		for _, x := range e1 {
			for _, y := range e2 {
				out.add(x + y)
			}
		}
		return out.list
	}
	for i := 0; i < s.n; i++ {
		out.add(s.pick(e1) + s.pick(e2))
	}
	return out.list
}

func (s sampler) VisitUnion(_, _ *Regex, e1, e2 []string) []string {
	out := newStringSet()
	half := s.n / 2
	switch {
	case len(e1)+len(e2) <= s.n:
		out.add(e1...)
		out.add(e2...)
	case len(e1) <= half:
		out.add(e1...)
		for i := len(e1); i < s.n; i++ {
			out.add(s.pick(e2))
		}
	case len(e2) <= half:
		out.add(e2...)
		for i := len(e2); i < s.n; i++ {
			out.add(s.pick(e1))
		}
	default:
		for i := 0; i < half; i++ {
			out.add(s.pick(e1))
		}
		for i := half; i < s.n; i++ {
			out.add(s.pick(e2))
		}
	}
	return out.list
}

func (s sampler) VisitStar(_ *Regex, e []string) []string {
	if len(e) == 0 {
		return []string{""}
	}
	out := newStringSet()
	for i := 0; i < s.n; i++ {
		var b []byte
		for j := 0; j < i; j++ {
			b = append(b, s.pick(e)...)
		}
		out.add(string(b))
	}
	return out.list
}

// stringSet keeps first-seen order.
type stringSet struct {
	seen map[string]bool
	list []string
}

func newStringSet() *stringSet { return &stringSet{seen: make(map[string]bool)} }

func (s *stringSet) add(xs ...string) {
	for _, x := range xs {
		if !s.seen[x] {
			s.seen[x] = true
			s.list = append(s.list, x)
		}
	}
}
