package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/ha1tch/automata-toolkit/pkg/fsm"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleTitle      = tcell.StyleDefault.Bold(true).Foreground(tcell.ColorWhite)
	styleHeader     = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleState      = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleStateInit  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStateAcc   = tcell.StyleDefault.Foreground(tcell.ColorPurple)
	styleCell       = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleEmpty      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleCursor     = tcell.StyleDefault.Background(tcell.ColorDarkGray).Foreground(tcell.ColorWhite)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgWarning = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleInput      = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// maxCellWidth caps a column; longer cells are truncated with an ellipsis.
const maxCellWidth = 24

// flashPeriod is how long, in milliseconds, a new message flashes.
const flashPeriod = 500

// flashInverted reports whether a message elapsed milliseconds old is
// drawn inverted: normal, inverted, normal, inverted in 125ms phases.
func flashInverted(elapsed int64) bool {
	if elapsed < 0 || elapsed >= flashPeriod {
		return false
	}
	phase := elapsed / 125
	return phase == 1 || phase == 3
}

// flashes reports whether messages of a type flash when shown.
func flashes(t MessageType) bool {
	return t != MsgInfo
}

func (ed *Editor) draw() {
	ed.screen.Clear()
	w, h := ed.screen.Size()

	ed.drawTitle(w)
	ed.drawTable(w, h-3)

	switch ed.mode {
	case ModeInput:
		ed.drawInputLine(w, h-2)
	case ModeHelp:
		ed.drawHelp(w, h)
	default:
		ed.drawString(0, h-2, truncate("?:help  enter:edit cell  a/A:add state/symbol  d/D:remove  f:accept  s:start  ::command  u/r:undo/redo  w:save  q:quit", w), styleHelp)
	}

	ed.drawStatusBar(w, h)
}

func (ed *Editor) drawTitle(w int) {
	f := ed.session.Current()
	title := fmt.Sprintf("fsmedit: %s [%s]", filepath.Base(ed.filename), f.Type)
	if f.Name != "" {
		title += " " + f.Name
	}
	if ed.session.Dirty() {
		title += " *"
	}
	ed.drawString(0, 0, truncate(title, w), styleTitle)
}

// layout returns the width of the state column and of every input column.
func (ed *Editor) layout() (int, []int) {
	f := ed.session.Current()
	stateW := runewidth.StringWidth("State")
	for _, s := range f.States {
		stateW = max(stateW, runewidth.StringWidth(s))
	}
	stateW = min(stateW, maxCellWidth)

	cols := ed.columns()
	widths := make([]int, len(cols))
	for i, in := range cols {
		widths[i] = runewidth.StringWidth(columnLabel(in))
		for _, s := range f.States {
			widths[i] = max(widths[i], runewidth.StringWidth(cellText(f.Targets(s, in))))
		}
		widths[i] = min(widths[i], maxCellWidth)
	}
	return stateW, widths
}

func columnLabel(in *string) string {
	if in == nil {
		return "ε"
	}
	return *in
}

// cellText renders a cell the way fsm info does.
func cellText(targets []string) string {
	switch len(targets) {
	case 0:
		return "-"
	case 1:
		return targets[0]
	}
	return "{" + strings.Join(targets, ", ") + "}"
}

// drawTable draws the transition table from row 2 down to bottom,
// scrolling so the cursor row stays visible.
func (ed *Editor) drawTable(w, bottom int) {
	f := ed.session.Current()
	stateW, widths := ed.layout()
	cols := ed.columns()

	const markW = 3
	y := 2
	x := markW
	ed.drawString(x, y, pad("State", stateW), styleHeader)
	x += stateW + 1
	for i, in := range cols {
		ed.screen.SetContent(x, y, '│', nil, styleBorder)
		ed.drawString(x+2, y, pad(columnLabel(in), widths[i]), styleHeader)
		x += widths[i] + 3
	}
	ed.drawHLine(0, y+1, min(x, w), styleBorder)

	visible := bottom - (y + 2)
	if visible < 1 {
		return
	}
	first := 0
	if ed.row >= visible {
		first = ed.row - visible + 1
	}

	for i := first; i < len(f.States) && i-first < visible; i++ {
		s := f.States[i]
		y := y + 2 + i - first

		mark := ""
		if s == f.Initial {
			mark = "->"
		}
		if f.IsAccepting(s) {
			mark += "*"
		}
		ed.drawString(0, y, mark, styleStateInit)

		ed.drawString(markW, y, pad(truncate(s, stateW), stateW), stateStyle(f, s))

		x := markW + stateW + 1
		for j, in := range cols {
			ed.screen.SetContent(x, y, '│', nil, styleBorder)
			text := cellText(f.Targets(s, in))
			style := styleCell
			if text == "-" {
				style = styleEmpty
			}
			if i == ed.row && j == ed.col && ed.mode != ModeHelp {
				style = styleCursor
			}
			ed.drawString(x+1, y, " "+pad(truncate(text, widths[j]), widths[j])+" ", style)
			x += widths[j] + 3
		}
	}
}

func (ed *Editor) drawInputLine(w, y int) {
	line := ed.inputPrompt + " " + ed.inputBuffer
	ed.drawString(0, y, pad(line, w), styleInput)
	cx := runewidth.StringWidth(line)
	if cx < w {
		ed.screen.ShowCursor(cx, y)
	}
}

var helpLines = []string{
	"Table",
	"  arrows, tab     move between cells",
	"  enter, e        edit the cell: targets separated by commas, empty to clear",
	"  a / A           add a state / a symbol",
	"  d / D           remove the state / the symbol under the cursor",
	"  f               toggle accepting",
	"  s               make the state the start state",
	"",
	"Session",
	"  :               run edit commands, e.g. set q0 a -> q1; accept q1",
	"  u, Ctrl+Z       undo",
	"  r, Ctrl+Y       redo",
	"  v               validate and analyse",
	"  w, Ctrl+S       save",
	"  q, Esc          quit (twice with unsaved changes)",
	"",
	"Press any key to return",
}

func (ed *Editor) drawHelp(w, h int) {
	boxW := 4
	for _, l := range helpLines {
		boxW = max(boxW, runewidth.StringWidth(l)+4)
	}
	boxW = min(boxW, w)
	boxH := min(len(helpLines)+2, h)
	x0, y0 := (w-boxW)/2, (h-boxH)/2

	ed.drawBox(x0, y0, boxW, boxH, "help")
	for i, l := range helpLines {
		if i+1 >= boxH-1 {
			break
		}
		ed.drawString(x0+2, y0+1+i, truncate(l, boxW-4), styleDefault)
	}
}

func (ed *Editor) drawBox(x, y, w, h int, title string) {
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			r := ' '
			switch {
			case row == 0 && col == 0:
				r = '┌'
			case row == 0 && col == w-1:
				r = '┐'
			case row == h-1 && col == 0:
				r = '└'
			case row == h-1 && col == w-1:
				r = '┘'
			case row == 0 || row == h-1:
				r = '─'
			case col == 0 || col == w-1:
				r = '│'
			}
			ed.screen.SetContent(x+col, y+row, r, nil, styleBorder)
		}
	}
	if title != "" && w > len(title)+4 {
		ed.drawString(x+(w-len(title)-2)/2, y, " "+title+" ", styleHeader)
	}
}

func (ed *Editor) drawStatusBar(w, h int) {
	f := ed.session.Current()
	status := fmt.Sprintf(" %d states  %d symbols  %d transitions ", len(f.States), len(f.Alphabet), len(f.Transitions))

	style := styleMsgInfo
	switch ed.messageType {
	case MsgError:
		style = styleMsgError
	case MsgSuccess:
		style = styleMsgSuccess
	case MsgWarning:
		style = styleMsgWarning
	}
	if flashes(ed.messageType) && flashInverted(time.Now().UnixMilli()-ed.messageFlashStart) {
		style = style.Reverse(true)
	}

	ed.drawString(0, h-1, pad(status, w), styleStatus)
	if ed.message != "" {
		x := runewidth.StringWidth(status) + 1
		if x < w {
			ed.drawString(x, h-1, truncate(ed.message, w-x), style)
		}
	}
}

func (ed *Editor) drawHLine(x, y, w int, style tcell.Style) {
	for i := 0; i < w; i++ {
		ed.screen.SetContent(x+i, y, '─', nil, style)
	}
}

// drawString draws s at x, y and returns the column after it. Wide runes
// take two cells.
func (ed *Editor) drawString(x, y int, s string, style tcell.Style) int {
	for _, r := range s {
		ed.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
	return x
}

// pad right-pads s with spaces to display width w.
func pad(s string, w int) string {
	return runewidth.FillRight(s, w)
}

// truncate cuts s to display width w, marking the cut with an ellipsis.
func truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	return runewidth.Truncate(s, w, "…")
}

func stateStyle(f *fsm.FSM, s string) tcell.Style {
	switch {
	case s == f.Initial:
		return styleStateInit
	case f.IsAccepting(s):
		return styleStateAcc
	}
	return styleState
}
