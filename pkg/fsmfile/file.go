package fsmfile

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zip"
	"gopkg.in/yaml.v3"

	"github.com/ha1tch/automata-toolkit/pkg/fsm"
)

// Archive member names.
const (
	MachineEntry = "machine.hex"
	LabelsEntry  = "labels.yaml"
)

// Labels represents the labels.yaml content.
type Labels struct {
	FSM    FSMMeta        `yaml:"fsm"`
	States map[int]string `yaml:"states,omitempty"`
	Inputs map[int]string `yaml:"inputs,omitempty"`
}

// FSMMeta contains FSM metadata.
type FSMMeta struct {
	Version     int    `yaml:"version"`
	Type        string `yaml:"type"`
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// ParseLabels parses labels.yaml content.
func ParseLabels(data []byte) (*Labels, error) {
	var labels Labels
	if err := yaml.Unmarshal(data, &labels); err != nil {
		return nil, fmt.Errorf("%s: %w", LabelsEntry, err)
	}
	return &labels, nil
}

// WriteFSMFile writes an FSM to a .fsm file.
func WriteFSMFile(path string, f *fsm.FSM, includeLabels bool) error {
	var buf bytes.Buffer
	if err := WriteFSM(&buf, f, includeLabels); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// WriteFSM writes an FSM to a writer in .fsm format. Without labels the
// archive holds only the structure; names are lost.
func WriteFSM(w io.Writer, f *fsm.FSM, includeLabels bool) error {
	records, labels, err := FSMToRecords(f)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)

	hw, err := zw.Create(MachineEntry)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(hw, FormatHex(records, 4)+"\n"); err != nil {
		return err
	}

	if includeLabels {
		data, err := yaml.Marshal(labels)
		if err != nil {
			return err
		}
		lw, err := zw.Create(LabelsEntry)
		if err != nil {
			return err
		}
		if _, err := lw.Write(data); err != nil {
			return err
		}
	}

	return zw.Close()
}

// ReadFSMFile reads an FSM from a .fsm file.
func ReadFSMFile(path string) (*fsm.FSM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ReadFSMBytes(data)
}

// ReadFSM reads an FSM from a reader containing .fsm format.
func ReadFSM(r io.ReaderAt, size int64) (*fsm.FSM, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}

	var hexContent, labelsContent []byte
	for _, zf := range zr.File {
		if zf.Name != MachineEntry && zf.Name != LabelsEntry {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		if zf.Name == MachineEntry {
			hexContent = data
		} else {
			labelsContent = data
		}
	}

	if hexContent == nil {
		return nil, fmt.Errorf("%s not found in archive", MachineEntry)
	}

	records, err := ParseHex(string(hexContent))
	if err != nil {
		return nil, err
	}

	var labels *Labels
	if labelsContent != nil {
		if labels, err = ParseLabels(labelsContent); err != nil {
			return nil, err
		}
	}
	return RecordsToFSM(records, labels)
}

// ReadFSMBytes reads an FSM from bytes in .fsm format.
func ReadFSMBytes(data []byte) (*fsm.FSM, error) {
	return ReadFSM(bytes.NewReader(data), int64(len(data)))
}
