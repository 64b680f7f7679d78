package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/ha1tch/automata-toolkit/pkg/codegen"
	"github.com/ha1tch/automata-toolkit/pkg/editor"
	"github.com/ha1tch/automata-toolkit/pkg/fsm"
	"github.com/ha1tch/automata-toolkit/pkg/fsmfile"
)

func (a *app) convert(args []string) error {
	opts, err := parseOptions(args, flagSpec{
		values:   []string{"output"},
		switches: []string{"pretty", "no-labels"},
		short:    map[string]string{"o": "output"},
	})
	if err != nil || len(opts.positional) != 1 {
		return usageError("convert <input> [-o output] [--pretty] [--no-labels]")
	}

	input := opts.positional[0]
	f, err := a.load(input)
	if err != nil {
		return err
	}

	output := opts.get("output")
	if output == "" {
		output = swapExt(input)
	}

	format, err := fsmfile.FormatOf(output)
	if err != nil {
		return err
	}
	switch format {
	case fsmfile.FormatArchive:
		err = fsmfile.WriteFSMFile(output, f, !opts.on("no-labels"))
	case fsmfile.FormatJSON:
		var data []byte
		if data, err = fsmfile.ToJSON(f, opts.on("pretty")); err == nil {
			err = os.WriteFile(output, data, 0o644)
		}
	default:
		err = fsmfile.Save(output, f)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	fmt.Fprintf(a.stdout, "Written: %s\n", output)
	return nil
}

func (a *app) dot(args []string) error {
	opts, err := parseOptions(args, flagSpec{
		values: []string{"output", "title"},
		short:  map[string]string{"o": "output", "t": "title"},
	})
	if err != nil || len(opts.positional) != 1 {
		return usageError("dot <input> [-o output] [-t title]")
	}

	f, err := a.load(opts.positional[0])
	if err != nil {
		return err
	}
	return a.writeText(fsmfile.GenerateDOT(f, title(f, opts.get("title"))), opts.get("output"))
}

func title(f *fsm.FSM, t string) string {
	switch {
	case t != "":
		return t
	case f.Name != "":
		return f.Name
	}
	return fmt.Sprintf("%s: %d states", strings.ToUpper(string(f.Type)), len(f.States))
}

func (a *app) png(args []string) error {
	opts, err := parseOptions(args, flagSpec{
		values: []string{"output", "title", "run", "width", "height"},
		short:  map[string]string{"o": "output", "t": "title"},
	})
	if err != nil || len(opts.positional) != 1 {
		return usageError("png <input> [-o output.png] [-t title] [--run word] [--width n] [--height n]")
	}

	input := opts.positional[0]
	f, err := a.load(input)
	if err != nil {
		return err
	}

	po := fsmfile.DefaultPNGOptions()
	po.Title = title(f, opts.get("title"))
	if po.Width, err = opts.number("width", a.cfg.PNGWidth); err != nil {
		return err
	}
	if po.Height, err = opts.number("height", a.cfg.PNGHeight); err != nil {
		return err
	}
	if word, ok := opts.values["run"]; ok {
		r, err := fsm.NewRunner(f)
		if err != nil {
			return err
		}
		if err := r.RunString(word); err != nil {
			return err
		}
		po.Highlight = r.CurrentStates()
	}

	output := opts.get("output")
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".png"
	}
	out, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := fsmfile.RenderPNG(f, out, po); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	a.log.Info("wrote diagram", "file", output, "width", po.Width, "height", po.Height)
	fmt.Fprintf(a.stdout, "Written: %s\n", output)
	return nil
}

func (a *app) info(args []string) error {
	opts, err := parseOptions(args, flagSpec{})
	if err != nil || len(opts.positional) != 1 {
		return usageError("info <input>")
	}

	f, err := a.load(opts.positional[0])
	if err != nil {
		return err
	}

	w := a.stdout
	fmt.Fprintf(w, "Type:        %s\n", f.Type)
	if f.Name != "" {
		fmt.Fprintf(w, "Name:        %s\n", f.Name)
	}
	if f.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", f.Description)
	}
	fmt.Fprintf(w, "States:      %d\n", len(f.States))
	fmt.Fprintf(w, "Inputs:      %d\n", len(f.Alphabet))
	fmt.Fprintf(w, "Transitions: %d\n", len(f.Transitions))
	fmt.Fprintf(w, "Initial:     %s\n", f.Initial)
	if len(f.Accepting) > 0 {
		fmt.Fprintf(w, "Accepting:   %s\n", strings.Join(f.Accepting, ", "))
	}
	fmt.Fprintln(w)

	transitionTable(w, f)

	if warnings := f.Analyse(); len(warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range warnings {
			fmt.Fprintf(w, "  %s\n", warn)
		}
	}
	return nil
}

// transitionTable prints one row per state and one column per symbol, plus
// an ε column for ε-NFAs. "->" marks the initial state, "*" accepting ones.
func transitionTable(w io.Writer, f *fsm.FSM) {
	header := append([]string{"", "State"}, f.Alphabet...)
	if f.Type == fsm.TypeENFA {
		header = append(header, "ε")
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	for _, s := range f.States {
		mark := ""
		if s == f.Initial {
			mark = "->"
		}
		if f.IsAccepting(s) {
			mark += "*"
		}
		row := []string{mark, s}
		for _, in := range f.Alphabet {
			row = append(row, cell(f.Targets(s, fsm.Input(in))))
		}
		if f.Type == fsm.TypeENFA {
			row = append(row, cell(f.Targets(s, nil)))
		}
		table.Append(row)
	}
	table.Render()
}

func cell(targets []string) string {
	switch len(targets) {
	case 0:
		return "-"
	case 1:
		return targets[0]
	}
	return "{" + strings.Join(targets, ", ") + "}"
}

func (a *app) validate(args []string) error {
	opts, err := parseOptions(args, flagSpec{switches: []string{"strict"}})
	if err != nil || len(opts.positional) != 1 {
		return usageError("validate <input> [--strict]")
	}

	input := opts.positional[0]
	f, err := a.load(input)
	if err != nil {
		return err
	}

	warnings := f.Analyse()
	for _, warn := range warnings {
		fmt.Fprintf(a.stdout, "warning: %s\n", warn)
	}
	if opts.on("strict") && len(warnings) > 0 {
		return fmt.Errorf("%s: %d warnings", input, len(warnings))
	}

	fmt.Fprintf(a.stdout, "%s: valid %s with %d states, %d transitions\n",
		input, f.Type, len(f.States), len(f.Transitions))
	return nil
}

// transform runs a one-input, one-output machine operation.
func (a *app) transform(name string, args []string, op func(*fsm.FSM) (*fsm.FSM, error)) error {
	opts, err := parseOptions(args, flagSpec{
		values: []string{"output"},
		short:  map[string]string{"o": "output"},
	})
	if err != nil || len(opts.positional) != 1 {
		return usageError("%s <input> [-o output]", name)
	}

	f, err := a.load(opts.positional[0])
	if err != nil {
		return err
	}
	g, err := op(f)
	if err != nil {
		return err
	}
	a.log.Debug(name, "states_before", len(f.States), "states_after", len(g.States))
	return a.emit(g, opts.get("output"))
}

func (a *app) determinize(args []string) error {
	return a.transform("determinize", args, (*fsm.FSM).ToDFA)
}

func (a *app) minimize(args []string) error {
	return a.transform("minimize", args, (*fsm.FSM).Minimize)
}

func (a *app) complement(args []string) error {
	return a.transform("complement", args, (*fsm.FSM).Complement)
}

func (a *app) combine(args []string) error {
	opts, err := parseOptions(args, flagSpec{
		values: []string{"output", "op"},
		short:  map[string]string{"o": "output"},
	})
	if err != nil || len(opts.positional) != 2 {
		return usageError("combine <a> <b> [--op union|intersection|difference|symdiff] [-o output]")
	}

	left, err := a.load(opts.positional[0])
	if err != nil {
		return err
	}
	right, err := a.load(opts.positional[1])
	if err != nil {
		return err
	}

	op := fsm.Operation(opts.get("op"))
	if op == "" {
		op = fsm.OpUnion
	}
	g, err := fsm.Combine(left, right, op)
	if err != nil {
		return err
	}
	return a.emit(g, opts.get("output"))
}

func (a *app) edit(args []string) error {
	opts, err := parseOptions(args, flagSpec{
		values: []string{"output", "script", "expr"},
		short:  map[string]string{"o": "output", "f": "script", "e": "expr"},
	})
	if err != nil || len(opts.positional) != 1 || (opts.get("script") == "") == (opts.get("expr") == "") {
		return usageError("edit <input> (-f script | -e 'commands') [-o output]")
	}

	input := opts.positional[0]
	f, err := a.load(input)
	if err != nil {
		return err
	}

	name, src := "-e", opts.get("expr")
	if path := opts.get("script"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		name, src = path, string(data)
	}
	script, err := editor.ParseScript(name, src)
	if err != nil {
		return err
	}

	session := editor.NewSession(f)
	if err := script.Run(session); err != nil {
		return err
	}
	a.log.Debug("applied script", "commands", len(script.Commands), "changed", session.Dirty())

	output := opts.get("output")
	if output == "" {
		output = input
	}
	return a.emit(session.Current(), output)
}

func (a *app) codegen(args []string) error {
	opts, err := parseOptions(args, flagSpec{
		values: []string{"output", "package", "type"},
		short:  map[string]string{"o": "output", "p": "package"},
	})
	if err != nil || len(opts.positional) != 1 {
		return usageError("codegen <input> [-o output.go] [-p package] [--type Name]")
	}

	f, err := a.load(opts.positional[0])
	if err != nil {
		return err
	}
	src, err := codegen.GenerateGo(f, codegen.Options{Package: opts.get("package"), Type: opts.get("type")})
	if err != nil {
		return err
	}
	return a.writeText(src, opts.get("output"))
}
