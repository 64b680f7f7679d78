package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/automata-toolkit/pkg/fsm"
)

func TestParseScript(t *testing.T) {
	sc, err := ParseScript("test", `
		add state s2
		add symbol 'c'
		remove symbol "c"
		accept s2; start s1
		set s0 a -> s2
		set s0 eps -> s1, s2
		set "weird name" ε -> {}
		undo redo
	`)
	require.NoError(t, err)
	require.Len(t, sc.Commands, 10)

	assert.Equal(t, "s2", *sc.Commands[0].Add.State)
	assert.Equal(t, "c", *sc.Commands[1].Add.Symbol)
	assert.Equal(t, "c", *sc.Commands[2].Remove.Symbol)
	assert.Equal(t, "s2", *sc.Commands[3].Accept)
	assert.Equal(t, "s1", *sc.Commands[4].Start)

	set := sc.Commands[5].Set
	assert.Equal(t, "s0", set.From)
	assert.False(t, set.Epsilon)
	assert.Equal(t, "a", *set.Symbol)
	assert.Equal(t, []string{"s2"}, set.To)

	eps := sc.Commands[6].Set
	assert.True(t, eps.Epsilon)
	assert.Equal(t, []string{"s1", "s2"}, eps.To)

	empty := sc.Commands[7].Set
	assert.Equal(t, "weird name", empty.From)
	assert.True(t, empty.Epsilon)
	assert.Empty(t, empty.To)

	assert.True(t, sc.Commands[8].Undo)
	assert.True(t, sc.Commands[9].Redo)
	assert.Equal(t, 2, sc.Commands[0].Pos.Line)
}

func TestParseScriptErrors(t *testing.T) {
	for _, src := range []string{
		"add",
		"add transition x",
		"set s0 a s1",
		"set s0 a -> s1 s2",
		"set s0 a ->",
		"frobnicate",
	} {
		_, err := ParseScript("bad", src)
		assert.Error(t, err, src)
	}
}

func TestScriptRun(t *testing.T) {
	sc, err := ParseScript("build", `
		add state s2
		accept s2
		set s1 b -> s2
		add symbol c
	`)
	require.NoError(t, err)

	s := NewSession(endsInA())
	require.NoError(t, sc.Run(s))

	f := s.Current()
	assert.Equal(t, []string{"s0", "s1", "s2"}, f.States)
	assert.Equal(t, []string{"s1", "s2"}, f.Accepting)
	assert.Equal(t, []string{"s2"}, f.Targets("s1", fsm.Input("b")))
	assert.Equal(t, []string{"a", "b", "c"}, f.Alphabet)

	ok, err := f.Accepts("ab")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestScriptRunStopsAtRejectedCommand(t *testing.T) {
	sc, err := ParseScript("partial", "add state s2\nremove state s0\nadd state s3")
	require.NoError(t, err)

	s := NewSession(endsInA())
	err = sc.Run(s)
	require.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "partial:2:")
	assert.Equal(t, []string{"s0", "s1", "s2"}, s.Current().States)
}

func TestScriptUndo(t *testing.T) {
	sc, err := ParseScript("u", "add state s2 undo undo")
	require.NoError(t, err)
	err = sc.Run(NewSession(endsInA()))
	assert.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "nothing to undo")
}
