package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFreshIsUnique(t *testing.T) {
	ctx := New()
	seen := make(map[Name]bool)
	for i := 0; i < 100; i++ {
		n := ctx.Fresh("s")
		assert.False(t, seen[n], "duplicate name %v", n)
		seen[n] = true
	}
	assert.Equal(t, 100, ctx.Next())
}

func TestForkAndReset(t *testing.T) {
	ctx := StartingAt(5)
	fork := ctx.Fork()
	assert.Equal(t, ctx.Fresh("a"), fork.Fresh("a"))

	ctx.Reset()
	assert.Equal(t, Name{ID: 0, Hint: "x"}, ctx.Fresh("x"))
	assert.Equal(t, 6, fork.Next())
}

func TestString(t *testing.T) {
	assert.Equal(t, "q3", Name{ID: 3}.String())
	assert.Equal(t, "start7", Name{ID: 7, Hint: "start"}.String())
}
