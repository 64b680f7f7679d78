// Package fsmfile reads and writes automaton snapshots: JSON, YAML, the
// .fsm archive (machine.hex plus labels.yaml), Graphviz DOT and PNG.
package fsmfile

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/ha1tch/automata-toolkit/pkg/fsm"
)

// Record types. 0x0001 is reserved.
const (
	TypeTransition  uint16 = 0x0000
	TypeStateDecl   uint16 = 0x0002
	TypeMultiTarget uint16 = 0x0003
	TypeInputDecl   uint16 = 0x0004
)

// State declaration flags.
const (
	FlagInitial   uint16 = 0x1
	FlagAccepting uint16 = 0x2
)

// Special values
const (
	EpsilonInput uint16 = 0xFFFF
	maxIndex            = 0xFFFE
)

// ErrMalformed is returned for hex text or records that do not describe a
// machine.
var ErrMalformed = errors.New("malformed machine.hex")

// Record represents a single hex record.
type Record struct {
	Type   uint16
	Field1 uint16 // Source state, state ID or input ID
	Field2 uint16 // Input or flags
	Field3 uint16 // Target state
	Field4 uint16 // Continuation
}

// FormatRecord formats a record as "TYPE SSSS:IIII TTTT:CCCC".
func FormatRecord(r Record) string {
	return fmt.Sprintf("%04X %04X:%04X %04X:%04X",
		r.Type, r.Field1, r.Field2, r.Field3, r.Field4)
}

// ParseRecord parses a record from "TYPE SSSS:IIII TTTT:CCCC" format.
func ParseRecord(s string) (Record, error) {
	clean := strings.ReplaceAll(s, " ", "")
	clean = strings.ReplaceAll(clean, ":", "")

	if len(clean) != 20 {
		return Record{}, fmt.Errorf("%w: record length %d", ErrMalformed, len(clean))
	}

	var fields [5]uint16
	for i := range fields {
		v, err := strconv.ParseUint(clean[i*4:i*4+4], 16, 16)
		if err != nil {
			return Record{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		fields[i] = uint16(v)
	}
	return Record{fields[0], fields[1], fields[2], fields[3], fields[4]}, nil
}

var recordPattern = regexp.MustCompile(`([0-9A-Fa-f]{4})\s*([0-9A-Fa-f]{4}):([0-9A-Fa-f]{4})\s*([0-9A-Fa-f]{4}):([0-9A-Fa-f]{4})`)

// ParseHex parses hex records from text. Lines starting with # are
// comments.
func ParseHex(text string) ([]Record, error) {
	var cleanLines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cleanLines = append(cleanLines, line)
	}
	text = strings.Join(cleanLines, " ")

	var records []Record
	for _, m := range recordPattern.FindAllStringSubmatch(text, -1) {
		r, err := ParseRecord(fmt.Sprintf("%s %s:%s %s:%s", m[1], m[2], m[3], m[4], m[5]))
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if len(records) == 0 && strings.TrimSpace(text) != "" {
		return nil, fmt.Errorf("%w: no records found", ErrMalformed)
	}
	return records, nil
}

// FormatHex formats records as text, width records per line.
func FormatHex(records []Record, width int) string {
	if width < 1 {
		width = 1
	}
	var lines []string
	for i := 0; i < len(records); i += width {
		end := min(i+width, len(records))
		var row []string
		for _, r := range records[i:end] {
			row = append(row, FormatRecord(r))
		}
		lines = append(lines, strings.Join(row, "   "))
	}
	return strings.Join(lines, "\n")
}

// FSMToRecords converts a valid FSM to hex records and the labels that map
// record indices back to names. Every state and input is declared, so
// isolated states and unused inputs survive a round trip.
func FSMToRecords(f *fsm.FSM) ([]Record, *Labels, error) {
	if err := f.Validate(); err != nil {
		return nil, nil, err
	}
	if len(f.States) > maxIndex || len(f.Alphabet) > maxIndex {
		return nil, nil, fmt.Errorf("%w: too many states or inputs", ErrMalformed)
	}

	labels := &Labels{
		FSM:    FSMMeta{Version: 1, Type: string(f.Type), Name: f.Name, Description: f.Description},
		States: make(map[int]string, len(f.States)),
		Inputs: make(map[int]string, len(f.Alphabet)),
	}

	var records []Record
	for i, a := range f.Alphabet {
		labels.Inputs[i] = a
		records = append(records, Record{Type: TypeInputDecl, Field1: uint16(i)})
	}
	for i, s := range f.States {
		labels.States[i] = s
		var flags uint16
		if s == f.Initial {
			flags |= FlagInitial
		}
		if f.IsAccepting(s) {
			flags |= FlagAccepting
		}
		records = append(records, Record{Type: TypeStateDecl, Field1: uint16(i), Field2: flags})
	}

	for _, t := range f.Transitions {
		src := uint16(f.StateIndex(t.From))
		inp := EpsilonInput
		if t.Input != nil {
			inp = uint16(f.InputIndex(*t.Input))
		}

		switch len(t.To) {
		case 0:
		case 1:
			records = append(records, Record{
				Type:   TypeTransition,
				Field1: src,
				Field2: inp,
				Field3: uint16(f.StateIndex(t.To[0])),
			})
		default:
			for i, to := range t.To {
				var cont uint16
				if i < len(t.To)-1 {
					cont = 1
				}
				records = append(records, Record{
					Type:   TypeMultiTarget,
					Field1: src,
					Field2: inp,
					Field3: uint16(f.StateIndex(to)),
					Field4: cont,
				})
			}
		}
	}
	return records, labels, nil
}

type hexTransition struct {
	from  int
	input int // -1 for epsilon
	to    []int
}

// RecordsToFSM converts hex records to an FSM. Names come from labels when
// present and default to S<n> and to consecutive letters from a otherwise. Without a type label the
// type is inferred: ε-moves make an enfa, multi-target records an nfa.
func RecordsToFSM(records []Record, labels *Labels) (*fsm.FSM, error) {
	stateIDs := make(map[int]bool)
	inputIDs := make(map[int]bool)
	initial := -1
	accepting := make(map[int]bool)

	var transitions []hexTransition
	var pending *hexTransition
	var hasMulti, hasEpsilon bool

	input := func(v uint16) int {
		if v == EpsilonInput {
			hasEpsilon = true
			return -1
		}
		inputIDs[int(v)] = true
		return int(v)
	}

	for _, r := range records {
		if pending != nil && r.Type != TypeMultiTarget {
			return nil, fmt.Errorf("%w: unterminated multi-target transition", ErrMalformed)
		}
		switch r.Type {
		case TypeInputDecl:
			if r.Field1 == EpsilonInput {
				return nil, fmt.Errorf("%w: input %04X is reserved", ErrMalformed, r.Field1)
			}
			inputIDs[int(r.Field1)] = true

		case TypeStateDecl:
			id := int(r.Field1)
			stateIDs[id] = true
			if r.Field2&FlagInitial != 0 {
				if initial >= 0 && initial != id {
					return nil, fmt.Errorf("%w: more than one initial state", ErrMalformed)
				}
				initial = id
			}
			if r.Field2&FlagAccepting != 0 {
				accepting[id] = true
			}

		case TypeTransition:
			src, tgt := int(r.Field1), int(r.Field3)
			stateIDs[src] = true
			stateIDs[tgt] = true
			transitions = append(transitions, hexTransition{from: src, input: input(r.Field2), to: []int{tgt}})

		case TypeMultiTarget:
			hasMulti = true
			src, tgt := int(r.Field1), int(r.Field3)
			stateIDs[src] = true
			stateIDs[tgt] = true
			inp := input(r.Field2)

			if pending == nil {
				pending = &hexTransition{from: src, input: inp}
			} else if pending.from != src || pending.input != inp {
				return nil, fmt.Errorf("%w: multi-target transition changes source mid-group", ErrMalformed)
			}
			pending.to = append(pending.to, tgt)
			if r.Field4 == 0 {
				transitions = append(transitions, *pending)
				pending = nil
			}

		default:
			return nil, fmt.Errorf("%w: unknown record type %04X", ErrMalformed, r.Type)
		}
	}
	if pending != nil {
		return nil, fmt.Errorf("%w: unterminated multi-target transition", ErrMalformed)
	}

	var fsmType fsm.Type
	if labels != nil {
		fsmType = fsm.Type(labels.FSM.Type)
	}
	if fsmType == "" {
		switch {
		case hasEpsilon:
			fsmType = fsm.TypeENFA
		case hasMulti:
			fsmType = fsm.TypeNFA
		default:
			fsmType = fsm.TypeDFA
		}
	}

	stateName := func(i int) string {
		if labels != nil {
			if n, ok := labels.States[i]; ok {
				return n
			}
		}
		return fmt.Sprintf("S%d", i)
	}
	inputName := func(i int) string {
		if labels != nil {
			if n, ok := labels.Inputs[i]; ok {
				return n
			}
		}
		return defaultInput(i)
	}

	f := fsm.New(fsmType)
	if labels != nil {
		f.Name = labels.FSM.Name
		f.Description = labels.FSM.Description
	}

	for _, i := range sortedIDs(stateIDs) {
		f.AddState(stateName(i))
		if accepting[i] {
			f.Accepting = append(f.Accepting, stateName(i))
		}
	}
	for _, i := range sortedIDs(inputIDs) {
		f.AddInput(inputName(i))
	}
	if initial >= 0 {
		f.SetInitial(stateName(initial))
	}

	for _, t := range transitions {
		var inputPtr *string
		if t.input >= 0 {
			inputPtr = fsm.Input(inputName(t.input))
		}
		to := make([]string, len(t.to))
		for i, s := range t.to {
			to[i] = stateName(s)
		}
		f.AddTransition(stateName(t.from), inputPtr, to)
	}
	return f, nil
}

// defaultInput names an unlabelled input with a single character, skipping
// the surrogate range.
func defaultInput(i int) string {
	r := rune('a' + i)
	if r >= 0xD800 {
		r += 0x800
	}
	return string(r)
}

func sortedIDs(m map[int]bool) []int {
	ids := make([]int, 0, len(m))
	for k := range m {
		ids = append(ids, k)
	}
	slices.Sort(ids)
	return ids
}
