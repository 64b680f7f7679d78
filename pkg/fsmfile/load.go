package fsmfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ha1tch/automata-toolkit/pkg/fsm"
)

// Format is a snapshot file format.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatArchive Format = "fsm"
	FormatRecords Format = "hex"
)

// FormatOf picks a format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".fsm":
		return FormatArchive, nil
	case ".hex":
		return FormatRecords, nil
	}
	return "", fmt.Errorf("unsupported file type %q (want .json, .yaml, .fsm or .hex)", filepath.Ext(path))
}

// Load reads a snapshot in the format its extension names and validates
// it.
func Load(path string) (*fsm.FSM, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	var f *fsm.FSM
	if format == FormatArchive {
		f, err = ReadFSMFile(path)
	} else {
		var data []byte
		if data, err = os.ReadFile(path); err != nil {
			return nil, err
		}
		f, err = Decode(format, data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Decode parses snapshot bytes in the given format.
func Decode(format Format, data []byte) (*fsm.FSM, error) {
	switch format {
	case FormatJSON:
		return ParseJSON(data)
	case FormatYAML:
		return ParseYAML(data)
	case FormatArchive:
		return ReadFSMBytes(data)
	case FormatRecords:
		records, err := ParseHex(string(data))
		if err != nil {
			return nil, err
		}
		return RecordsToFSM(records, nil)
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

// Encode serialises a snapshot. Archives always carry labels; bare hex
// records carry none, so names do not survive.
func Encode(format Format, f *fsm.FSM) ([]byte, error) {
	switch format {
	case FormatJSON:
		return ToJSON(f, true)
	case FormatYAML:
		return ToYAML(f)
	case FormatArchive:
		var buf bytes.Buffer
		if err := WriteFSM(&buf, f, true); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatRecords:
		records, _, err := FSMToRecords(f)
		if err != nil {
			return nil, err
		}
		return []byte(FormatHex(records, 4) + "\n"), nil
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

// Save writes a snapshot in the format its extension names.
func Save(path string, f *fsm.FSM) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Encode(format, f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
