package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ha1tch/automata-toolkit/pkg/fsm"
)

func (a *app) run(args []string) error {
	opts, err := parseOptions(args, flagSpec{
		values: []string{"word"},
		short:  map[string]string{"w": "word"},
	})
	if err != nil || len(opts.positional) != 1 {
		return usageError("run <input> [-w word]")
	}

	f, err := a.load(opts.positional[0])
	if err != nil {
		return err
	}
	runner, err := fsm.NewRunner(f)
	if err != nil {
		return err
	}

	if word, ok := opts.values["word"]; ok {
		return a.trace(runner, word)
	}
	return a.interactive(runner, f)
}

// trace runs word to completion and prints every step.
func (a *app) trace(runner *fsm.Runner, word string) error {
	runErr := runner.RunString(word)
	for i, step := range runner.History() {
		fmt.Fprintf(a.stdout, "  %d: %s --%s--> %s\n", i+1, step.FromState, step.Input, step.ToState)
	}
	if runErr != nil {
		fmt.Fprintf(a.stdout, "stuck: %v\n", runErr)
		fmt.Fprintf(a.stdout, "%q: rejected\n", word)
		return nil
	}
	fmt.Fprintln(a.stdout, runner.Status())
	fmt.Fprintf(a.stdout, "%q: %s\n", word, verdict(runner.IsAccepting()))
	return nil
}

func verdict(ok bool) string {
	if ok {
		return "accepted"
	}
	return "rejected"
}

var (
	styleInfo = promptui.Styler(promptui.FGCyan)
	styleOK   = promptui.Styler(promptui.FGGreen)
	styleBad  = promptui.Styler(promptui.FGRed)
)

// interactive reads symbols and commands until quit or end of input.
func (a *app) interactive(runner *fsm.Runner, f *fsm.FSM) error {
	fmt.Fprintf(a.stdout, "FSM: %s (%s)\n", f.Name, f.Type)
	fmt.Fprintln(a.stdout, "Commands: <symbols>, reset, status, history, inputs, quit")
	fmt.Fprintln(a.stdout)
	a.printStatus(runner)

	prompt := promptui.Prompt{Label: "input", Stdin: a.stdin}
	for {
		line, err := prompt.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		if err != nil {
			return err
		}

		cmd := strings.TrimSpace(line)
		switch cmd {
		case "":
		case "quit", "exit", "q":
			return nil
		case "reset":
			runner.Reset()
			fmt.Fprintln(a.stdout, "Reset to initial state")
			a.printStatus(runner)
		case "status":
			a.printStatus(runner)
		case "history":
			a.printHistory(runner)
		case "inputs":
			if inputs := runner.AvailableInputs(); len(inputs) == 0 {
				fmt.Fprintln(a.stdout, "No inputs available from current state")
			} else {
				fmt.Fprintf(a.stdout, "Available inputs: %s\n", strings.Join(inputs, " "))
			}
		case "help", "?":
			fmt.Fprintln(a.stdout, "Commands:")
			fmt.Fprintln(a.stdout, "  <symbols>  - Feed symbols to the machine, one step each")
			fmt.Fprintln(a.stdout, "  reset      - Reset to initial state")
			fmt.Fprintln(a.stdout, "  status     - Show current status")
			fmt.Fprintln(a.stdout, "  history    - Show execution history")
			fmt.Fprintln(a.stdout, "  inputs     - Show available inputs")
			fmt.Fprintln(a.stdout, "  quit       - Exit")
		default:
			if err := runner.RunString(cmd); err != nil {
				fmt.Fprintln(a.stdout, styleBad("Error: "+err.Error()))
			}
			a.printStatus(runner)
		}
	}
}

func (a *app) printStatus(r *fsm.Runner) {
	fmt.Fprintln(a.stdout, styleInfo(r.Status()))
}

func (a *app) printHistory(r *fsm.Runner) {
	history := r.History()
	if len(history) == 0 {
		fmt.Fprintln(a.stdout, "No history yet")
		return
	}
	fmt.Fprintln(a.stdout, "History:")
	for i, step := range history {
		fmt.Fprintf(a.stdout, "  %d: %s --%s--> %s\n", i+1, step.FromState, step.Input, step.ToState)
	}
}

func (a *app) accepts(args []string) error {
	opts, err := parseOptions(args, flagSpec{switches: []string{"color"}})
	if err != nil || len(opts.positional) < 2 {
		return usageError("accepts <input> <word>... [--color]")
	}

	f, err := a.load(opts.positional[0])
	if err != nil {
		return err
	}
	for _, word := range opts.positional[1:] {
		ok, err := f.Accepts(word)
		if err != nil {
			return err
		}
		v := verdict(ok)
		if opts.on("color") {
			if ok {
				v = styleOK(v)
			} else {
				v = styleBad(v)
			}
		}
		fmt.Fprintf(a.stdout, "%q: %s\n", word, v)
	}
	return nil
}
