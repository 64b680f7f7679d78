package fsmfile

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/ha1tch/automata-toolkit/pkg/fsm"
)

// ParseYAML parses an FSM from YAML. The layout matches the JSON form; an
// ε-move has a null or missing input.
func ParseYAML(data []byte) (*fsm.FSM, error) {
	var f fsm.FSM
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}
	f.States = nonNil(f.States)
	f.Alphabet = nonNil(f.Alphabet)
	f.Accepting = nonNil(f.Accepting)
	if f.Transitions == nil {
		f.Transitions = []fsm.Transition{}
	}
	return &f, nil
}

// ToYAML converts an FSM to YAML.
func ToYAML(f *fsm.FSM) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
