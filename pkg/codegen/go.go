// Package codegen generates dependency-free Go matchers from automaton
// snapshots.
package codegen

import (
	"fmt"
	"go/format"
	"strings"
	"unicode"

	"github.com/ha1tch/automata-toolkit/pkg/fsm"
)

// Options controls generated code.
type Options struct {
	// Package is the package clause; "fsm" when empty.
	Package string
	// Type is the matcher type name; derived from the machine name when
	// empty.
	Type string
}

// GenerateGo generates a Go matcher for f. Nondeterministic machines are
// determinized first. A missing transition sends the matcher to a sticky
// dead state, so the output works for incomplete DFAs too.
//
// The generated code needs nothing but the language, so it builds under
// TinyGo as well.
func GenerateGo(f *fsm.FSM, opts Options) (string, error) {
	d, err := f.ToDFA()
	if err != nil {
		return "", err
	}

	typeName := opts.Type
	if typeName == "" {
		typeName = toPascalCase(d.Name)
	}
	if !isIdent(typeName) {
		return "", fmt.Errorf("invalid type name %q", typeName)
	}
	pkg := opts.Package
	if pkg == "" {
		pkg = "fsm"
	}
	if !isIdent(pkg) {
		return "", fmt.Errorf("invalid package name %q", pkg)
	}
	rs := []rune(typeName)
	lower := string(unicode.ToLower(rs[0])) + string(rs[1:])

	var sb strings.Builder
	w := func(format string, args ...any) { fmt.Fprintf(&sb, format, args...) }

	w("// Code generated by fsm codegen. DO NOT EDIT.\n")
	if d.Name != "" {
		w("// Machine: %s\n", oneLine(d.Name))
	}
	w("\npackage %s\n\n", pkg)

	w("// %sState is a state of the %s matcher. Negative values are the dead state.\n", typeName, typeName)
	w("type %sState int\n\n", typeName)
	w("const (\n")
	w("\t%sDead %sState = -1\n", typeName, typeName)
	w("\t%sStart %sState = %d\n", typeName, typeName, d.StateIndex(d.Initial))
	w(")\n\n")

	w("var %sStateNames = [...]string{\n", lower)
	for _, s := range d.States {
		w("\t%q,\n", s)
	}
	w("}\n\n")

	w("func (s %sState) String() string {\n", typeName)
	w("\tif s >= 0 && int(s) < len(%sStateNames) {\n", lower)
	w("\t\treturn %sStateNames[s]\n", lower)
	w("\t}\n\treturn \"dead\"\n}\n\n")

	w("var %sAccepting = [...]bool{", lower)
	for i, s := range d.States {
		if i > 0 {
			w(", ")
		}
		w("%t", d.IsAccepting(s))
	}
	w("}\n\n")

	w("func %sNext(s %sState, r rune) %sState {\n", lower, typeName, typeName)
	w("\tswitch s {\n")
	for i, s := range d.States {
		var cases []string
		for _, a := range d.Alphabet {
			to := d.Targets(s, fsm.Input(a))
			if len(to) == 0 {
				continue
			}
			r := []rune(a)[0]
			cases = append(cases, fmt.Sprintf("\t\tcase %q:\n\t\t\treturn %d\n", r, d.StateIndex(to[0])))
		}
		if len(cases) == 0 {
			continue
		}
		w("\tcase %d:\n\t\tswitch r {\n%s\t\t}\n", i, strings.Join(cases, ""))
	}
	w("\t}\n\treturn %sDead\n}\n\n", typeName)

	w("// %s is a deterministic matcher.\n", typeName)
	w("type %s struct {\n\tstate %sState\n}\n\n", typeName, typeName)

	w("// New%s creates a matcher in its start state.\n", typeName)
	w("func New%s() *%s {\n\treturn &%s{state: %sStart}\n}\n\n", typeName, typeName, typeName, typeName)

	w("// State returns the current state.\n")
	w("func (m *%s) State() %sState {\n\treturn m.state\n}\n\n", typeName, typeName)

	w("// Step consumes one symbol. It returns false once the matcher is dead.\n")
	w("func (m *%s) Step(r rune) bool {\n", typeName)
	w("\tif m.state != %sDead {\n\t\tm.state = %sNext(m.state, r)\n\t}\n", typeName, lower)
	w("\treturn m.state != %sDead\n}\n\n", typeName)

	w("// CanStep reports whether r has a transition from the current state.\n")
	w("func (m *%s) CanStep(r rune) bool {\n", typeName)
	w("\treturn m.state != %sDead && %sNext(m.state, r) != %sDead\n}\n\n", typeName, lower, typeName)

	w("// IsAccepting reports whether the input so far is accepted.\n")
	w("func (m *%s) IsAccepting() bool {\n", typeName)
	w("\treturn m.state != %sDead && %sAccepting[m.state]\n}\n\n", typeName, lower)

	w("// Reset returns the matcher to its start state.\n")
	w("func (m *%s) Reset() {\n\tm.state = %sStart\n}\n\n", typeName, typeName)

	w("// Match%s reports whether the matcher accepts s.\n", typeName)
	w("func Match%s(s string) bool {\n", typeName)
	w("\tm := New%s()\n", typeName)
	w("\tfor _, r := range s {\n\t\tif !m.Step(r) {\n\t\t\treturn false\n\t\t}\n\t}\n")
	w("\treturn m.IsAccepting()\n}\n")

	src, err := format.Source([]byte(sb.String()))
	if err != nil {
		return "", fmt.Errorf("format generated code: %w", err)
	}
	return string(src), nil
}

// toPascalCase turns an arbitrary machine name into an exported
// identifier. Anything that is not a letter or digit separates words.
func toPascalCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var result strings.Builder
	for _, word := range words {
		rs := []rune(word)
		result.WriteRune(unicode.ToUpper(rs[0]))
		result.WriteString(string(rs[1:]))
	}
	name := result.String()
	if name == "" {
		return "Machine"
	}
	if r := []rune(name)[0]; !unicode.IsLetter(r) || !unicode.IsUpper(r) {
		name = "Machine" + name
	}
	return name
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if !unicode.IsLetter(r) && r != '_' && (i == 0 || !unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
