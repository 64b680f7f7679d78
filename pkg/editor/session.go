package editor

import (
	"github.com/ha1tch/automata-toolkit/pkg/fsm"
)

// MaxUndoLevels bounds the undo history of a Session.
const MaxUndoLevels = 50

// Session is an editing session over one snapshot with undo and redo.
// Snapshots held by a session are never modified in place.
type Session struct {
	current   *fsm.FSM
	undoStack []*fsm.FSM
	redoStack []*fsm.FSM
	dirty     bool
}

// NewSession starts a session on a copy of f.
func NewSession(f *fsm.FSM) *Session {
	return &Session{current: f.Copy()}
}

// Current returns the current snapshot. Callers must not modify it.
func (s *Session) Current() *fsm.FSM { return s.current }

// Dirty reports whether the snapshot changed since the last MarkSaved.
func (s *Session) Dirty() bool { return s.dirty }

// MarkSaved clears the dirty flag.
func (s *Session) MarkSaved() { s.dirty = false }

// Apply runs op on the current snapshot. On success the previous snapshot
// is pushed to the undo stack and the redo stack is cleared; on failure the
// session is unchanged.
func (s *Session) Apply(op Op) error {
	next, err := Apply(s.current, op)
	if err != nil {
		return err
	}
	s.undoStack = append(s.undoStack, s.current)
	if len(s.undoStack) > MaxUndoLevels {
		s.undoStack = s.undoStack[1:]
	}
	s.redoStack = nil
	s.current = next
	s.dirty = true
	return nil
}

func (s *Session) CanUndo() bool { return len(s.undoStack) > 0 }
func (s *Session) CanRedo() bool { return len(s.redoStack) > 0 }

// Undo restores the previous snapshot. It returns false if there is
// nothing to undo.
func (s *Session) Undo() bool {
	if len(s.undoStack) == 0 {
		return false
	}
	s.redoStack = append(s.redoStack, s.current)
	s.current = s.undoStack[len(s.undoStack)-1]
	s.undoStack = s.undoStack[:len(s.undoStack)-1]
	s.dirty = true
	return true
}

// Redo reapplies the last undone edit. It returns false if there is
// nothing to redo.
func (s *Session) Redo() bool {
	if len(s.redoStack) == 0 {
		return false
	}
	s.undoStack = append(s.undoStack, s.current)
	s.current = s.redoStack[len(s.redoStack)-1]
	s.redoStack = s.redoStack[:len(s.redoStack)-1]
	s.dirty = true
	return true
}
