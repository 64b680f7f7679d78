// Command fsmedit is a terminal editor for automaton transition tables.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/automata-toolkit/pkg/config"
	"github.com/ha1tch/automata-toolkit/pkg/editor"
	"github.com/ha1tch/automata-toolkit/pkg/fsm"
	"github.com/ha1tch/automata-toolkit/pkg/fsmfile"
)

// Editor holds all editor state
type Editor struct {
	screen   tcell.Screen
	session  *editor.Session
	filename string
	mode     Mode
	log      *slog.Logger

	// Cursor over the table body. Column 0 is the first symbol; the ε
	// column of an ε-NFA comes last.
	row, col int

	message           string
	messageType       MessageType
	messageFlashStart int64

	// Line input
	inputPrompt string
	inputBuffer string
	inputAction func(string)

	// quitArmed is set after a quit request with unsaved changes.
	quitArmed bool
}

// Mode represents editor mode
type Mode int

const (
	ModeTable Mode = iota
	ModeInput
	ModeHelp
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo    MessageType = iota // Informative, no flash
	MsgError                      // Errors, flash
	MsgSuccess                    // State changes, flash
	MsgWarning                    // Warnings, flash
)

const usage = "Usage: fsmedit <file> [dfa|nfa|enfa]"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log := cfg.Logger(os.Stderr)

	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}
	typ := fsm.TypeDFA
	if len(os.Args) == 3 {
		typ = fsm.Type(os.Args[2])
	}

	ed, err := openEditor(os.Args[1], typ, log)
	if err != nil {
		log.Error("open failed", "file", os.Args[1], "error", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Error("creating screen", "error", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		log.Error("initializing screen", "error", err)
		os.Exit(1)
	}
	ed.screen = screen

	ed.run()

	screen.Fini()
	if ed.session.Dirty() {
		log.Warn("quit with unsaved changes", "file", ed.filename)
	}
}

// openEditor loads path, or starts a one-state machine of type typ when
// path does not exist yet.
func openEditor(path string, typ fsm.Type, log *slog.Logger) (*Editor, error) {
	f, err := fsmfile.Load(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		f = fsm.New(typ)
		f.AddState("q0")
		f.SetInitial("q0")
		if err := f.Validate(); err != nil {
			return nil, err
		}
		log.Info("new machine", "file", path, "type", typ)
	case err != nil:
		return nil, err
	default:
		log.Debug("loaded machine", "file", path, "states", len(f.States))
	}
	return &Editor{
		session:  editor.NewSession(f),
		filename: path,
		log:      log,
	}, nil
}

func (ed *Editor) run() {
	// Refresh while a message is flashing.
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			if ed.message != "" && ed.messageFlashStart > 0 {
				if elapsed := time.Now().UnixMilli() - ed.messageFlashStart; elapsed >= 0 && elapsed < flashPeriod+200 {
					ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
				}
			}
		}
	}()

	for {
		ed.draw()
		ed.screen.Show()

		switch ev := ed.screen.PollEvent().(type) {
		case *tcell.EventResize:
			ed.screen.Sync()
		case *tcell.EventKey:
			if ed.handleKey(ev) {
				return
			}
		case nil:
			return
		}
	}
}

// handleKey processes one key and reports whether the editor should exit.
func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlS:
		ed.save()
		return false
	case tcell.KeyCtrlZ:
		ed.undo()
		return false
	case tcell.KeyCtrlY:
		ed.redo()
		return false
	}

	switch ed.mode {
	case ModeInput:
		return ed.handleInputKey(ev)
	case ModeHelp:
		ed.mode = ModeTable
		return false
	}
	return ed.handleTableKey(ev)
}

func (ed *Editor) handleTableKey(ev *tcell.EventKey) bool {
	if ev.Key() != tcell.KeyRune || ev.Rune() != 'q' {
		ed.quitArmed = false
	}

	switch ev.Key() {
	case tcell.KeyUp:
		ed.moveCursor(-1, 0)
	case tcell.KeyDown:
		ed.moveCursor(1, 0)
	case tcell.KeyLeft:
		ed.moveCursor(0, -1)
	case tcell.KeyRight, tcell.KeyTab:
		ed.moveCursor(0, 1)
	case tcell.KeyEnter:
		ed.editCell()
	case tcell.KeyEscape:
		return ed.quit()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return ed.quit()
		case 'e':
			ed.editCell()
		case 'a':
			ed.prompt("New state", func(name string) {
				ed.apply(editor.AddState(name), "Added state "+name)
			})
		case 'A':
			ed.prompt("New symbol", func(sym string) {
				ed.apply(editor.AddSymbol(sym), "Added symbol "+sym)
			})
		case 'd':
			if s, ok := ed.cursorState(); ok {
				ed.apply(editor.RemoveState(s), "Removed state "+s)
			}
		case 'D':
			if in, ok := ed.cursorInput(); ok && in != nil {
				ed.apply(editor.RemoveSymbol(*in), "Removed symbol "+*in)
			}
		case 'f':
			if s, ok := ed.cursorState(); ok {
				ed.apply(editor.ToggleAccept(s), "Toggled accepting "+s)
			}
		case 's':
			if s, ok := ed.cursorState(); ok {
				ed.apply(editor.SetStart(s), "Start state "+s)
			}
		case ':':
			ed.prompt("Command", ed.runScript)
		case 'u':
			ed.undo()
		case 'r':
			ed.redo()
		case 'v':
			ed.validate()
		case 'w':
			ed.save()
		case '?':
			ed.mode = ModeHelp
		}
	}
	return false
}

func (ed *Editor) handleInputKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		ed.mode = ModeTable
		ed.inputBuffer = ""
	case tcell.KeyEnter:
		ed.mode = ModeTable
		text := ed.inputBuffer
		ed.inputBuffer = ""
		if ed.inputAction != nil {
			ed.inputAction(strings.TrimSpace(text))
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if r := []rune(ed.inputBuffer); len(r) > 0 {
			ed.inputBuffer = string(r[:len(r)-1])
		}
	case tcell.KeyRune:
		ed.inputBuffer += string(ev.Rune())
	}
	return false
}

// columns returns the table's input columns in display order. A nil entry
// is the ε column.
func (ed *Editor) columns() []*string {
	f := ed.session.Current()
	cols := make([]*string, 0, len(f.Alphabet)+1)
	for _, a := range f.Alphabet {
		cols = append(cols, fsm.Input(a))
	}
	if f.Type == fsm.TypeENFA {
		cols = append(cols, nil)
	}
	return cols
}

func (ed *Editor) moveCursor(dr, dc int) {
	ed.row += dr
	ed.col += dc
	ed.clampCursor()
}

// clampCursor keeps the cursor inside the table after edits shrink it.
func (ed *Editor) clampCursor() {
	rows, cols := len(ed.session.Current().States), len(ed.columns())
	ed.row = max(0, min(ed.row, rows-1))
	ed.col = max(0, min(ed.col, cols-1))
}

func (ed *Editor) cursorState() (string, bool) {
	states := ed.session.Current().States
	if ed.row < 0 || ed.row >= len(states) {
		return "", false
	}
	return states[ed.row], true
}

func (ed *Editor) cursorInput() (*string, bool) {
	cols := ed.columns()
	if ed.col < 0 || ed.col >= len(cols) {
		return nil, false
	}
	return cols[ed.col], true
}

func (ed *Editor) editCell() {
	s, ok := ed.cursorState()
	if !ok {
		return
	}
	in, ok := ed.cursorInput()
	if !ok {
		ed.showMessage("No symbols yet: press A to add one", MsgWarning)
		return
	}
	label := "ε"
	if in != nil {
		label = *in
	}
	current := strings.Join(ed.session.Current().Targets(s, in), ", ")
	ed.prompt(fmt.Sprintf("%s --%s-->", s, label), func(text string) {
		ed.apply(editor.SetCell(s, in, splitTargets(text)), "Updated "+s+" on "+label)
	})
	ed.inputBuffer = current
}

// splitTargets parses a comma or space separated list of state names.
func splitTargets(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '{' || r == '}'
	})
}

func (ed *Editor) prompt(label string, action func(string)) {
	ed.mode = ModeInput
	ed.inputPrompt = label
	ed.inputBuffer = ""
	ed.inputAction = action
}

func (ed *Editor) apply(op editor.Op, done string) {
	if err := ed.session.Apply(op); err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	ed.clampCursor()
	ed.showMessage(done, MsgSuccess)
}

// runScript applies a line of edit script commands.
func (ed *Editor) runScript(src string) {
	if src == "" {
		return
	}
	script, err := editor.ParseScript("command", src)
	if err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	if err := script.Run(ed.session); err != nil {
		ed.showMessage(err.Error(), MsgError)
	} else {
		ed.showMessage(fmt.Sprintf("Applied %d commands", len(script.Commands)), MsgSuccess)
	}
	ed.clampCursor()
}

func (ed *Editor) undo() {
	if !ed.session.Undo() {
		ed.showMessage("Nothing to undo", MsgWarning)
		return
	}
	ed.clampCursor()
	ed.showMessage("Undone", MsgSuccess)
}

func (ed *Editor) redo() {
	if !ed.session.Redo() {
		ed.showMessage("Nothing to redo", MsgWarning)
		return
	}
	ed.clampCursor()
	ed.showMessage("Redone", MsgSuccess)
}

func (ed *Editor) validate() {
	f := ed.session.Current()
	if err := f.Validate(); err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	warnings := f.Analyse()
	if len(warnings) == 0 {
		ed.showMessage(fmt.Sprintf("Valid %s, no warnings", f.Type), MsgSuccess)
		return
	}
	ed.showMessage(fmt.Sprintf("%d warnings: %s", len(warnings), warnings[0]), MsgWarning)
}

func (ed *Editor) save() {
	if err := fsmfile.Save(ed.filename, ed.session.Current()); err != nil {
		ed.showMessage("Save failed: "+err.Error(), MsgError)
		return
	}
	ed.session.MarkSaved()
	ed.log.Debug("saved", "file", ed.filename)
	ed.showMessage("Saved "+ed.filename, MsgSuccess)
}

// quit exits unless there are unsaved changes, in which case it asks for a
// second quit.
func (ed *Editor) quit() bool {
	if !ed.session.Dirty() || ed.quitArmed {
		return true
	}
	ed.quitArmed = true
	ed.showMessage("Unsaved changes: press q again to quit, Ctrl+S to save", MsgWarning)
	return false
}

func (ed *Editor) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
	ed.messageFlashStart = time.Now().UnixMilli()
	if ed.screen != nil {
		ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}
