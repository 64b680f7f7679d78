package fsmfile

import (
	"encoding/json"
	"fmt"

	"github.com/ha1tch/automata-toolkit/pkg/fsm"
)

// jsonFSM is the JSON representation of an FSM.
type jsonFSM struct {
	Type        string           `json:"type"`
	Name        string           `json:"name,omitempty"`
	Description string           `json:"description,omitempty"`
	States      []string         `json:"states"`
	Alphabet    []string         `json:"alphabet"`
	Initial     string           `json:"initial"`
	Accepting   []string         `json:"accepting"`
	Transitions []jsonTransition `json:"transitions"`
}

type jsonTransition struct {
	From  string  `json:"from"`
	Input *string `json:"input"`
	To    targets `json:"to"`
}

// targets is a target list written as a bare string when it has one
// element.
type targets []string

func (t targets) MarshalJSON() ([]byte, error) {
	if len(t) == 1 {
		return json.Marshal(t[0])
	}
	return json.Marshal([]string(t))
}

func (t *targets) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*t = targets{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("to: want a state or a list of states: %w", err)
	}
	*t = many
	return nil
}

// ParseJSON parses an FSM from JSON.
func ParseJSON(data []byte) (*fsm.FSM, error) {
	var j jsonFSM
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, err
	}

	f := fsm.New(fsm.Type(j.Type))
	f.Name = j.Name
	f.Description = j.Description
	f.States = nonNil(j.States)
	f.Alphabet = nonNil(j.Alphabet)
	f.Initial = j.Initial
	f.Accepting = nonNil(j.Accepting)

	for _, jt := range j.Transitions {
		f.AddTransition(jt.From, jt.Input, []string(jt.To))
	}
	return f, nil
}

// ToJSON converts an FSM to JSON.
func ToJSON(f *fsm.FSM, pretty bool) ([]byte, error) {
	j := jsonFSM{
		Type:        string(f.Type),
		Name:        f.Name,
		Description: f.Description,
		States:      nonNil(f.States),
		Alphabet:    nonNil(f.Alphabet),
		Initial:     f.Initial,
		Accepting:   nonNil(f.Accepting),
		Transitions: make([]jsonTransition, 0, len(f.Transitions)),
	}
	for _, t := range f.Transitions {
		j.Transitions = append(j.Transitions, jsonTransition{From: t.From, Input: t.Input, To: t.To})
	}

	if pretty {
		return json.MarshalIndent(j, "", "  ")
	}
	return json.Marshal(j)
}

func nonNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
