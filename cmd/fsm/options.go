package main

import (
	"fmt"
	"strconv"
	"strings"
)

// options is a hand-parsed command line: positional arguments plus flags.
// A flag has a short and a long spelling, e.g. "-o" and "--output".
type options struct {
	positional []string
	values     map[string]string
	switches   map[string]bool
}

// flagSpec lists the flags a command understands. Names are the long form
// without dashes; short forms map to them.
type flagSpec struct {
	values   []string
	switches []string
	short    map[string]string
}

func parseOptions(args []string, spec flagSpec) (*options, error) {
	o := &options{values: make(map[string]string), switches: make(map[string]bool)}

	isValue := make(map[string]bool)
	for _, v := range spec.values {
		isValue[v] = true
	}
	isSwitch := make(map[string]bool)
	for _, s := range spec.switches {
		isSwitch[s] = true
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			o.positional = append(o.positional, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			o.positional = append(o.positional, arg)
			continue
		}

		name := strings.TrimLeft(arg, "-")
		if !strings.HasPrefix(arg, "--") {
			if long, ok := spec.short[name]; ok {
				name = long
			}
		}
		switch {
		case isSwitch[name]:
			o.switches[name] = true
		case isValue[name]:
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s needs a value", arg)
			}
			o.values[name] = args[i+1]
			i++
		default:
			return nil, fmt.Errorf("unknown flag %s", arg)
		}
	}
	return o, nil
}

func (o *options) get(name string) string { return o.values[name] }
func (o *options) on(name string) bool    { return o.switches[name] }

// number returns a numeric flag, or def when it is absent.
func (o *options) number(name string, def int) (int, error) {
	v, ok := o.values[name]
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("--%s: %w", name, err)
	}
	return n, nil
}
