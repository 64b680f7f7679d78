package finiteset

import (
	"fmt"
	"reflect"
	"sync"
)

// Equality is a named equivalence relation over T.
//
// Relations are compared by identity: two sets are compatible only when they
// were built with the same *Equality value. Derived relations (subset
// equality, pair equality) are cached on their base relation so that every
// caller deriving from the same bases gets the same value back.
type Equality[T any] struct {
	name string
	eq   func(a, b T) bool

	mu      sync.Mutex
	derived map[any]any
}

// NewEquality returns a fresh relation. The name only shows up in error
// messages and String output.
func NewEquality[T any](name string, eq func(a, b T) bool) *Equality[T] {
	if eq == nil {
		panic("finiteset: nil equality function")
	}
	return &Equality[T]{name: name, eq: eq}
}

// Equal reports whether a and b are related.
func (e *Equality[T]) Equal(a, b T) bool {
	return e.eq(a, b)
}

func (e *Equality[T]) String() string {
	return e.name
}

// derive returns the cached relation stored under key, building it on first use.
func (e *Equality[T]) derive(key any, build func() any) any {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.derived == nil {
		e.derived = make(map[any]any)
	}
	if v, ok := e.derived[key]; ok {
		return v
	}
	v := build()
	e.derived[key] = v
	return v
}

var primitives sync.Map // reflect.Type -> *Equality[T]

// Comparable returns the canonical == relation for T. Every call with the same
// type argument returns the same value.
func Comparable[T comparable]() *Equality[T] {
	key := reflect.TypeOf((*T)(nil)).Elem()
	if v, ok := primitives.Load(key); ok {
		return v.(*Equality[T])
	}
	e := NewEquality(fmt.Sprintf("==(%v)", key), func(a, b T) bool { return a == b })
	v, _ := primitives.LoadOrStore(key, e)
	return v.(*Equality[T])
}

type subsetKey struct{}

// SetEquality returns the relation on sets of T under which two sets are equal
// iff each is a subset of the other. Sets carrying a different element
// relation than e are never equal under it.
func SetEquality[T any](e *Equality[T]) *Equality[*Set[T]] {
	return e.derive(subsetKey{}, func() any {
		return NewEquality("sets of "+e.name, func(a, b *Set[T]) bool {
			if a.eq != e || b.eq != e {
				return false
			}
			return a.Len() == b.Len() && a.subsetOf(b)
		})
	}).(*Equality[*Set[T]])
}

// Pair is an ordered pair, the element type of a Cartesian product.
type Pair[T, U any] struct {
	First  T
	Second U
}

func (p Pair[T, U]) String() string {
	return fmt.Sprintf("(%v,%v)", p.First, p.Second)
}

// PairEquality derives componentwise equality from a and b.
func PairEquality[T, U any](a *Equality[T], b *Equality[U]) *Equality[Pair[T, U]] {
	return a.derive(b, func() any {
		return NewEquality(fmt.Sprintf("pairs of %s×%s", a.name, b.name), func(p, q Pair[T, U]) bool {
			return a.eq(p.First, q.First) && b.eq(p.Second, q.Second)
		})
	}).(*Equality[Pair[T, U]])
}
