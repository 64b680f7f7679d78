package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ha1tch/automata-toolkit/pkg/fsm"
	"github.com/ha1tch/automata-toolkit/pkg/fsmfile"
)

// load reads and validates a machine file.
func (a *app) load(path string) (*fsm.FSM, error) {
	f, err := fsmfile.Load(path)
	if err != nil {
		return nil, err
	}
	a.log.Debug("loaded machine", "file", path, "type", f.Type, "states", len(f.States), "transitions", len(f.Transitions))
	return f, nil
}

// emit writes a machine to output in the format its extension names, or as
// JSON on stdout when output is empty.
func (a *app) emit(f *fsm.FSM, output string) error {
	if output == "" {
		data, err := fsmfile.ToJSON(f, true)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(a.stdout, string(data))
		return err
	}
	if err := fsmfile.Save(output, f); err != nil {
		return err
	}
	a.log.Info("wrote machine", "file", output, "type", f.Type, "states", len(f.States))
	return nil
}

// writeText writes s to output, or to stdout when output is empty.
func (a *app) writeText(s, output string) error {
	if output == "" {
		_, err := fmt.Fprint(a.stdout, s)
		return err
	}
	if err := os.WriteFile(output, []byte(s), 0o644); err != nil {
		return err
	}
	a.log.Info("wrote file", "file", output, "bytes", len(s))
	return nil
}

// swapExt derives a default output path for convert.
func swapExt(input string) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	if strings.EqualFold(ext, ".json") {
		return base + ".fsm"
	}
	return base + ".json"
}
