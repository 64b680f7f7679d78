package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerMultipleTargets(t *testing.T) {
	f := &FSM{
		Type:      TypeNFA,
		States:    []string{"s0", "s1", "s2"},
		Alphabet:  []string{"a", "b"},
		Initial:   "s0",
		Accepting: []string{"s2"},
	}
	f.Transitions = []Transition{
		{From: "s0", Input: Input("a"), To: []string{"s1", "s2"}},
	}

	runner, err := NewRunner(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"s0"}, runner.CurrentStates())

	require.NoError(t, runner.Step("a"))
	assert.Equal(t, []string{"s1", "s2"}, runner.CurrentStates())
	assert.Equal(t, "{s1, s2}", runner.CurrentState())
	assert.True(t, runner.IsAccepting())
}

func TestRunnerEpsilonClosure(t *testing.T) {
	f := &FSM{
		Type:      TypeENFA,
		States:    []string{"s0", "s1", "s2"},
		Alphabet:  []string{"a"},
		Initial:   "s0",
		Accepting: []string{"s2"},
	}
	f.Transitions = []Transition{
		{From: "s0", Input: nil, To: []string{"s1"}},
		{From: "s1", Input: Input("a"), To: []string{"s2"}},
	}

	runner, err := NewRunner(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"s0", "s1"}, runner.CurrentStates())

	require.NoError(t, runner.Step("a"))
	assert.True(t, runner.IsAccepting())
	assert.Equal(t, "State: s2 [accepting]", runner.Status())
}

func TestRunnerStuckStepKeepsState(t *testing.T) {
	runner, err := NewRunner(abDFA())
	require.NoError(t, err)
	require.NoError(t, runner.RunString("ab"))
	assert.Equal(t, "s0", runner.CurrentState())

	f := abDFA()
	f.Transitions = f.Transitions[:1] // only s0 -a-> s1
	runner, err = NewRunner(f)
	require.NoError(t, err)
	require.NoError(t, runner.Step("a"))

	err = runner.Step("a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no transition")
	assert.Equal(t, "s1", runner.CurrentState())
	assert.Len(t, runner.History(), 1)
}

func TestRunnerRejectsBadInput(t *testing.T) {
	runner, err := NewRunner(abDFA())
	require.NoError(t, err)
	assert.Error(t, runner.Step("c"))
	assert.Error(t, runner.Step("ab"))
	assert.Empty(t, runner.History())
}

func TestRunnerHistoryAndReset(t *testing.T) {
	runner, err := NewRunner(abDFA())
	require.NoError(t, err)
	require.NoError(t, runner.Run([]string{"a", "b", "a"}))

	h := runner.History()
	require.Len(t, h, 3)
	assert.Equal(t, Step{FromState: "s0", FromStates: []string{"s0"}, Input: "a", ToState: "s1", ToStates: []string{"s1"}}, h[0])
	assert.Equal(t, "s1", h[2].ToState)
	assert.Equal(t, "State: s1 [accepting]", runner.Status())

	runner.Reset()
	assert.Equal(t, "s0", runner.CurrentState())
	assert.Empty(t, runner.History())
	assert.Equal(t, "State: s0", runner.Status())
}

func TestRunnerAvailableInputs(t *testing.T) {
	f := &FSM{
		Type:     TypeNFA,
		States:   []string{"s0", "s1", "s2"},
		Alphabet: []string{"a", "b", "c"},
		Initial:  "s0",
	}
	f.Transitions = []Transition{
		{From: "s0", Input: Input("a"), To: []string{"s1", "s2"}},
		{From: "s1", Input: Input("b"), To: []string{"s0"}},
		{From: "s2", Input: Input("c"), To: []string{"s0"}},
	}

	runner, err := NewRunner(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, runner.AvailableInputs())

	require.NoError(t, runner.Step("a"))
	assert.Equal(t, []string{"b", "c"}, runner.AvailableInputs())
}

func TestNewRunnerRejectsInvalidFSM(t *testing.T) {
	f := abDFA()
	f.Initial = ""
	_, err := NewRunner(f)
	assert.ErrorIs(t, err, ErrInvalid)
}
