package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/ha1tch/automata-toolkit/pkg/fsm"
	"github.com/ha1tch/automata-toolkit/pkg/naming"
	"github.com/ha1tch/automata-toolkit/pkg/regex"
)

// examples samples n strings from r, reproducibly when FSM_SEED is set.
func (a *app) examples(r *regex.Regex, n int) []string {
	if a.cfg.Seed == 0 {
		return r.Examples(n)
	}
	return r.ExamplesFrom(n, rand.New(rand.NewPCG(a.cfg.Seed, a.cfg.Seed)))
}

func (a *app) regex(args []string) error {
	opts, err := parseOptions(args, flagSpec{
		values: []string{"examples", "match"},
		short:  map[string]string{"n": "examples", "m": "match"},
	})
	if err != nil || len(opts.positional) != 1 {
		return usageError("regex <expr> [-n examples] [-m word]")
	}

	r, err := regex.Parse(opts.positional[0])
	if err != nil {
		return err
	}
	n, err := opts.number("examples", a.cfg.Examples)
	if err != nil {
		return err
	}

	s := r.Simplify()
	fmt.Fprintf(a.stdout, "Regex:      %s\n", r)
	fmt.Fprintf(a.stdout, "Simplified: %s\n", s)
	fmt.Fprintf(a.stdout, "Language:   %s\n", s.Language())
	fmt.Fprintf(a.stdout, "Nullable:   %t\n", r.Nullable())
	if word, ok := opts.values["match"]; ok {
		fmt.Fprintf(a.stdout, "%q: %s\n", word, verdict(r.Matches(word)))
	}
	if n > 0 {
		fmt.Fprintln(a.stdout, "Examples:")
		for _, w := range a.examples(s, n) {
			if w == "" {
				w = "ε"
			}
			fmt.Fprintf(a.stdout, "  %s\n", w)
		}
	}
	return nil
}

func (a *app) compile(args []string) error {
	opts, err := parseOptions(args, flagSpec{
		values:   []string{"output", "alphabet"},
		switches: []string{"dfa", "min"},
		short:    map[string]string{"o": "output", "a": "alphabet"},
	})
	if err != nil || len(opts.positional) != 1 {
		return usageError("compile <expr> [--alphabet chars] [--dfa | --min] [-o output]")
	}

	r, err := regex.Parse(opts.positional[0])
	if err != nil {
		return err
	}

	var alphabet []rune
	if chars, ok := opts.values["alphabet"]; ok {
		alphabet = []rune(chars)
	}
	f, err := fsm.FromRegex(naming.New(), r, alphabet)
	if err != nil {
		return err
	}
	a.log.Debug("thompson construction", "regex", r.String(), "states", len(f.States))

	switch {
	case opts.on("min"):
		f, err = f.Minimize()
	case opts.on("dfa"):
		f, err = f.ToDFA()
	}
	if err != nil {
		return err
	}
	return a.emit(f, opts.get("output"))
}

func (a *app) toregex(args []string) error {
	opts, err := parseOptions(args, flagSpec{
		switches: []string{"raw"},
		values:   []string{"examples"},
		short:    map[string]string{"n": "examples"},
	})
	if err != nil || len(opts.positional) != 1 {
		return usageError("toregex <input> [--raw] [-n examples]")
	}

	f, err := a.load(opts.positional[0])
	if err != nil {
		return err
	}
	if len(f.States) > a.cfg.MaxEliminationStates {
		return fmt.Errorf("%d states exceed FSM_MAX_ELIMINATION_STATES=%d", len(f.States), a.cfg.MaxEliminationStates)
	}
	n, err := opts.number("examples", 0)
	if err != nil {
		return err
	}

	r, err := f.ToRegex(naming.New())
	if err != nil {
		return err
	}
	a.log.Debug("state elimination", "states", len(f.States), "size", r.Size())
	if !opts.on("raw") {
		r = r.Simplify()
	}

	fmt.Fprintln(a.stdout, r)
	for _, w := range a.examples(r, n) {
		if w == "" {
			w = "ε"
		}
		fmt.Fprintf(a.stdout, "  %s\n", w)
	}
	return nil
}
