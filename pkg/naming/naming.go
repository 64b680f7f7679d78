// Package naming mints fresh state names for automaton constructions.
//
// A Context is threaded explicitly through every construction that needs
// fresh states, so two constructions sharing a context never produce the same
// name and tests can start from a known counter.
package naming

import "strconv"

// Name identifies a state minted by a Context. Names are comparable; two
// names are equal iff they were minted by the same Fresh call.
type Name struct {
	ID   int
	Hint string
}

func (n Name) String() string {
	if n.Hint == "" {
		return "q" + strconv.Itoa(n.ID)
	}
	return n.Hint + strconv.Itoa(n.ID)
}

// Context hands out monotonically increasing IDs. It is not safe for
// concurrent use; a context has a single writer.
type Context struct {
	next int
}

// New returns a context whose first name has ID 0.
func New() *Context { return &Context{} }

// StartingAt returns a context whose first name has ID n.
func StartingAt(n int) *Context { return &Context{next: n} }

// Fresh returns a name never returned before by this context.
func (c *Context) Fresh(hint string) Name {
	n := Name{ID: c.next, Hint: hint}
	c.next++
	return n
}

// Next reports the ID the next Fresh call will use.
func (c *Context) Next() int { return c.next }

// Fork returns an independent copy continuing from the same counter.
func (c *Context) Fork() *Context { return &Context{next: c.next} }

// Reset rewinds the counter to zero.
func (c *Context) Reset() { c.next = 0 }
