package fsmfile

import (
	"fmt"
	"strings"

	"github.com/ha1tch/automata-toolkit/pkg/fsm"
)

// GenerateDOT converts an FSM to Graphviz DOT format. Parallel edges are
// merged into one edge whose label lists the symbols; edges appear in the
// order their first transition does.
func GenerateDOT(f *fsm.FSM, title string) string {
	var sb strings.Builder

	sb.WriteString("digraph FSM {\n")
	sb.WriteString("    rankdir=LR;\n")
	sb.WriteString("    node [fontname=\"Helvetica\", fontsize=11];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=10];\n")
	sb.WriteString("\n")

	if title != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		fmt.Fprintf(&sb, "    label=\"%s\";\n", escapeDOT(title))
		sb.WriteString("\n")
	}

	// Invisible start node
	if f.Initial != "" {
		sb.WriteString("    __start [shape=none, label=\"\", width=0, height=0];\n")
		fmt.Fprintf(&sb, "    __start -> \"%s\";\n", escapeDOT(f.Initial))
		sb.WriteString("\n")
	}

	for _, state := range f.States {
		shape := "circle"
		if f.IsAccepting(state) {
			shape = "doublecircle"
		}
		fmt.Fprintf(&sb, "    \"%s\" [shape=%s];\n", escapeDOT(state), shape)
	}
	sb.WriteString("\n")

	for _, e := range edges(f) {
		fmt.Fprintf(&sb, "    \"%s\" -> \"%s\" [label=\"%s\"];\n",
			escapeDOT(e.from), escapeDOT(e.to), escapeDOT(strings.Join(e.labels, ", ")))
	}

	sb.WriteString("}\n")
	return sb.String()
}

// edge is every transition between one ordered pair of states.
type edge struct {
	from, to string
	labels   []string
}

// edges groups transitions by (from, to), keeping first-mention order and
// dropping repeated labels.
func edges(f *fsm.FSM) []*edge {
	var out []*edge
	byKey := make(map[[2]string]*edge)

	for _, t := range f.Transitions {
		label := "ε"
		if t.Input != nil {
			label = *t.Input
		}
		for _, to := range t.To {
			key := [2]string{t.From, to}
			e, ok := byKey[key]
			if !ok {
				e = &edge{from: t.From, to: to}
				byKey[key] = e
				out = append(out, e)
			}
			if !contains(e.labels, label) {
				e.labels = append(e.labels, label)
			}
		}
	}
	return out
}

func contains(xs []string, x string) bool {
	for _, y := range xs {
		if y == x {
			return true
		}
	}
	return false
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}
