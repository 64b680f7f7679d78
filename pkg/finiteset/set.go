// Package finiteset provides immutable finite sets over an explicit equality
// relation.
//
// Elements need not be comparable with ==: a set of states, a set of sets of
// states and a set of pairs are all expressed the same way, each carrying the
// relation its elements are compared under. Combining two sets requires both
// to carry the same relation.
package finiteset

import (
	"fmt"
	"strings"

	"github.com/benbjohnson/immutable"
)

// Set is an immutable, insertion-ordered collection of elements that are
// pairwise distinct under its equality relation.
type Set[T any] struct {
	eq    *Equality[T]
	elems *immutable.List[T]
}

// New builds a set from elems, dropping later duplicates.
func New[T any](eq *Equality[T], elems ...T) *Set[T] {
	if eq == nil {
		panic("finiteset: nil equality")
	}
	b := immutable.NewListBuilder[T]()
	kept := make([]T, 0, len(elems))
	for _, x := range elems {
		if indexIn(eq, kept, x) >= 0 {
			continue
		}
		kept = append(kept, x)
		b.Append(x)
	}
	return &Set[T]{eq: eq, elems: b.List()}
}

// FromDistinct builds a set from elements the caller already knows to be
// pairwise distinct under eq. No duplicate check is performed.
func FromDistinct[T any](eq *Equality[T], elems []T) *Set[T] {
	if eq == nil {
		panic("finiteset: nil equality")
	}
	return &Set[T]{eq: eq, elems: immutable.NewList(elems...)}
}

// Empty returns the empty set under eq.
func Empty[T any](eq *Equality[T]) *Set[T] {
	return &Set[T]{eq: eq, elems: immutable.NewList[T]()}
}

// Equality returns the relation the set was built with.
func (s *Set[T]) Equality() *Equality[T] { return s.eq }

func (s *Set[T]) Len() int { return s.elems.Len() }

func (s *Set[T]) IsEmpty() bool { return s.elems.Len() == 0 }

// At returns the i'th element in insertion order.
func (s *Set[T]) At(i int) T { return s.elems.Get(i) }

// Index returns the insertion position of x, or -1.
func (s *Set[T]) Index(x T) int {
	for i := 0; i < s.elems.Len(); i++ {
		if s.eq.eq(s.elems.Get(i), x) {
			return i
		}
	}
	return -1
}

func (s *Set[T]) Contains(x T) bool { return s.Index(x) >= 0 }

// Elems returns a copy of the elements in insertion order.
func (s *Set[T]) Elems() []T {
	out := make([]T, 0, s.elems.Len())
	itr := s.elems.Iterator()
	for !itr.Done() {
		_, v := itr.Next()
		out = append(out, v)
	}
	return out
}

// Choose returns the first element in insertion order.
func (s *Set[T]) Choose() (T, bool) {
	if s.IsEmpty() {
		var zero T
		return zero, false
	}
	return s.elems.Get(0), true
}

// With returns s plus any of xs not already present.
func (s *Set[T]) With(xs ...T) *Set[T] {
	l := s.elems
	for _, x := range xs {
		if s.Contains(x) || containsList(s.eq, l, s.elems.Len(), x) {
			continue
		}
		l = l.Append(x)
	}
	if l == s.elems {
		return s
	}
	return &Set[T]{eq: s.eq, elems: l}
}

// Without returns s with x removed.
func (s *Set[T]) Without(x T) *Set[T] {
	return s.SuchThat(func(y T) bool { return !s.eq.eq(x, y) })
}

// SuchThat returns { x ∈ s | keep(x) } under the same relation.
func (s *Set[T]) SuchThat(keep func(T) bool) *Set[T] {
	b := immutable.NewListBuilder[T]()
	itr := s.elems.Iterator()
	for !itr.Done() {
		_, v := itr.Next()
		if keep(v) {
			b.Append(v)
		}
	}
	return &Set[T]{eq: s.eq, elems: b.List()}
}

func (s *Set[T]) compatible(op string, other *Set[T]) error {
	if s.eq != other.eq {
		return &IncompatibleEqualityError{Op: op, Left: s.eq.name, Right: other.eq.name}
	}
	return nil
}

// Union returns the elements of s followed by the elements of other not in s.
func (s *Set[T]) Union(other *Set[T]) (*Set[T], error) {
	if err := s.compatible("union", other); err != nil {
		return nil, err
	}
	return s.With(other.Elems()...), nil
}

func (s *Set[T]) Intersect(other *Set[T]) (*Set[T], error) {
	if err := s.compatible("intersect", other); err != nil {
		return nil, err
	}
	return s.SuchThat(other.Contains), nil
}

func (s *Set[T]) Minus(other *Set[T]) (*Set[T], error) {
	if err := s.compatible("minus", other); err != nil {
		return nil, err
	}
	return s.SuchThat(func(x T) bool { return !other.Contains(x) }), nil
}

// SymmetricDifference returns (s − other) ∪ (other − s).
func (s *Set[T]) SymmetricDifference(other *Set[T]) (*Set[T], error) {
	if err := s.compatible("symmetric difference", other); err != nil {
		return nil, err
	}
	left := s.SuchThat(func(x T) bool { return !other.Contains(x) })
	right := other.SuchThat(func(x T) bool { return !s.Contains(x) })
	return left.With(right.Elems()...), nil
}

// SubsetOf reports whether every element of s is in other.
func (s *Set[T]) SubsetOf(other *Set[T]) (bool, error) {
	if err := s.compatible("subset", other); err != nil {
		return false, err
	}
	return s.subsetOf(other), nil
}

// Equals reports mutual containment.
func (s *Set[T]) Equals(other *Set[T]) (bool, error) {
	if err := s.compatible("equals", other); err != nil {
		return false, err
	}
	return s.Len() == other.Len() && s.subsetOf(other), nil
}

func (s *Set[T]) subsetOf(other *Set[T]) bool {
	itr := s.elems.Iterator()
	for !itr.Done() {
		_, v := itr.Next()
		if !other.Contains(v) {
			return false
		}
	}
	return true
}

// BigUnion returns the union of f(x) over every x in s. An empty receiver is
// returned as is, so the result always carries a known relation.
func (s *Set[T]) BigUnion(f func(T) *Set[T]) (*Set[T], error) {
	if s.IsEmpty() {
		return s, nil
	}
	var acc *Set[T]
	itr := s.elems.Iterator()
	for !itr.Done() {
		_, v := itr.Next()
		part := f(v)
		if acc == nil {
			acc = part
			continue
		}
		var err error
		if acc, err = acc.Union(part); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// FlatMap is BigUnion for a result type different from the element type. The
// result relation must be named up front since an empty receiver has nothing
// to inherit it from; every f(x) must carry that relation.
func FlatMap[T, U any](s *Set[T], eq *Equality[U], f func(T) *Set[U]) (*Set[U], error) {
	acc := Empty(eq)
	for _, x := range s.Elems() {
		var err error
		if acc, err = acc.Union(f(x)); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// Cross returns the Cartesian product a × b in row-major order, compared
// componentwise.
func Cross[T, U any](a *Set[T], b *Set[U]) *Set[Pair[T, U]] {
	out := make([]Pair[T, U], 0, a.Len()*b.Len())
	right := b.Elems()
	for _, x := range a.Elems() {
		for _, y := range right {
			out = append(out, Pair[T, U]{First: x, Second: y})
		}
	}
	return FromDistinct(PairEquality(a.eq, b.eq), out)
}

// PowerSet returns every subset of s under SetEquality. The result has 2^n
// elements; it is meant for small sets and tests, never for materialising
// the state space of a subset construction.
func PowerSet[T any](s *Set[T]) *Set[*Set[T]] {
	subsets := []*Set[T]{Empty(s.eq)}
	for _, x := range s.Elems() {
		n := len(subsets)
		for i := 0; i < n; i++ {
			subsets = append(subsets, subsets[i].With(x))
		}
	}
	return FromDistinct(SetEquality(s.eq), subsets)
}

// String formats the set as {a,b,c}.
func (s *Set[T]) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, x := range s.Elems() {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprint(&sb, x)
	}
	sb.WriteByte('}')
	return sb.String()
}

func indexIn[T any](eq *Equality[T], xs []T, x T) int {
	for i, y := range xs {
		if eq.eq(x, y) {
			return i
		}
	}
	return -1
}

// containsList checks the elements appended to l after position from.
func containsList[T any](eq *Equality[T], l *immutable.List[T], from int, x T) bool {
	for i := from; i < l.Len(); i++ {
		if eq.eq(l.Get(i), x) {
			return true
		}
	}
	return false
}
