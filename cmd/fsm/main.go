// Command fsm is a CLI tool for working with finite automata and regular
// expressions.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ha1tch/automata-toolkit/pkg/config"
)

const usage = `fsm - finite automata and regular expression toolkit

Usage:
  fsm <command> [options]

Commands:
  convert      Convert between formats (json, yaml, fsm, hex)
  dot          Generate Graphviz DOT output
  png          Render a diagram as PNG
  info         Show a machine's transition table and warnings
  validate     Validate a machine file
  run          Run a machine on a word, or interactively
  accepts      Check which words a machine accepts
  regex        Parse a regex and show its forms and examples
  compile      Build an automaton from a regex
  determinize  Convert to a DFA by the subset construction
  minimize     Minimize a machine
  complement   Complement a machine
  combine      Union, intersection or difference of two machines
  toregex      Convert a machine to a regex by state elimination
  edit         Apply an edit script to a machine
  codegen      Generate a Go matcher

Examples:
  fsm compile '(a+b)*abb' --min -o abb.json
  fsm accepts abb.json abb aabb ab
  fsm convert abb.json -o abb.fsm
  fsm dot abb.fsm | dot -Tpng -o abb.png
  fsm toregex abb.json
  fsm run abb.json

Environment:
  FSM_LOG_LEVEL, FSM_LOG_FORMAT, FSM_EXAMPLES, FSM_SEED,
  FSM_PNG_WIDTH, FSM_PNG_HEIGHT, FSM_MAX_ELIMINATION_STATES
  (also read from .env)
`

// errUsage marks errors that should be followed by the usage text.
var errUsage = errors.New("usage")

// app carries what every command needs.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	stdin  io.ReadCloser
	stdout io.Writer
}

type command func(a *app, args []string) error

var commands = map[string]command{
	"convert":     (*app).convert,
	"dot":         (*app).dot,
	"png":         (*app).png,
	"info":        (*app).info,
	"validate":    (*app).validate,
	"run":         (*app).run,
	"accepts":     (*app).accepts,
	"regex":       (*app).regex,
	"compile":     (*app).compile,
	"determinize": (*app).determinize,
	"minimize":    (*app).minimize,
	"complement":  (*app).complement,
	"combine":     (*app).combine,
	"toregex":     (*app).toregex,
	"edit":        (*app).edit,
	"codegen":     (*app).codegen,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	a := &app{cfg: cfg, log: cfg.Logger(os.Stderr), stdin: os.Stdin, stdout: os.Stdout}
	os.Exit(a.main(os.Args[1:]))
}

// main dispatches one command and returns the exit status.
func (a *app) main(args []string) int {
	if len(args) < 1 {
		fmt.Fprint(a.stdout, usage)
		return 1
	}

	name, rest := args[0], args[1:]
	switch name {
	case "-h", "--help", "help":
		fmt.Fprint(a.stdout, usage)
		return 0
	}

	cmd, ok := commands[name]
	if !ok {
		a.log.Error("unknown command", "command", name)
		fmt.Fprint(a.stdout, usage)
		return 1
	}

	start := time.Now()
	if err := cmd(a, rest); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(a.stdout, strings.TrimPrefix(err.Error(), errUsage.Error()+": "))
		} else {
			a.log.Error("command failed", "command", name, "error", err)
		}
		return 1
	}
	a.log.Debug("command done", "command", name, "elapsed", time.Since(start))
	return 0
}

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: Usage: fsm "+format, append([]any{errUsage}, args...)...)
}
