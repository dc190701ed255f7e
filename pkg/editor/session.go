package editor

import (
	"sync"

	"site-content-be/pkg/lexical"
)

// State tells whether a session holds changes that were not saved yet.
type State string

const (
	StateClean State = "clean"
	StateDirty State = "dirty"
)

const DefaultMaxHistory = 100

// entry is one immutable step of the session history.
type entry struct {
	doc lexical.Document
	sel Selection
	rev uint64
}

// Session is the editing state of one document. Commands run one at a
// time; undo and redo move between snapshots of earlier states.
type Session struct {
	mu sync.Mutex

	id         string
	current    entry
	undo       []entry
	redo       []entry
	maxHistory int
	lastRev    uint64
	savedRev   uint64
}

type Option func(*Session)

// WithMaxHistory caps the undo stack. Oldest steps are dropped first.
func WithMaxHistory(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxHistory = n
		}
	}
}

// NewSession starts a clean session on doc with an empty selection.
func NewSession(id string, doc lexical.Document, opts ...Option) *Session {
	s := &Session{
		id:         id,
		current:    entry{doc: doc.Clone()},
		maxHistory: DefaultMaxHistory,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) ID() string {
	return s.id
}

// Execute applies cmd to the current document. A rejected or no-op command
// leaves the session untouched and records no history.
func (s *Session) Execute(cmd Command) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(cmd, s.current.sel)
}

// ExecuteAt applies cmd at sel. The selection is checked and the command run
// under one lock, so a rejected selection or command changes nothing. After
// a no-op command the session keeps sel.
func (s *Session) ExecuteAt(cmd Command, sel Selection) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ValidateSelection(s.current.doc, sel); err != nil {
		return false, err
	}
	changed, err := s.apply(cmd, sel.Clone())
	if err == nil && !changed {
		s.current.sel = sel.Clone()
	}
	return changed, err
}

func (s *Session) apply(cmd Command, sel Selection) (bool, error) {
	next, nextSel, changed, err := cmd.Apply(s.current.doc, sel)
	if err != nil || !changed {
		return false, err
	}

	s.undo = append(s.undo, s.current)
	if over := len(s.undo) - s.maxHistory; over > 0 {
		s.undo = append([]entry(nil), s.undo[over:]...)
	}
	s.redo = nil

	s.lastRev++
	s.current = entry{doc: next, sel: nextSel, rev: s.lastRev}
	return true, nil
}

// Undo restores the state before the last command. It reports false when
// there is nothing to undo.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.undo) == 0 {
		return false
	}
	prev := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, s.current)
	s.current = prev
	return true
}

// Redo reapplies the last undone command.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.redo) == 0 {
		return false
	}
	next := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, s.current)
	s.current = next
	return true
}

// SetSelection replaces the selection after checking it against the
// current document. Selection changes are not part of the history.
func (s *Session) SetSelection(sel Selection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ValidateSelection(s.current.doc, sel); err != nil {
		return err
	}
	s.current.sel = sel.Clone()
	return nil
}

// MarkSaved records that the document at revision rev was persisted.
func (s *Session) MarkSaved(rev uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savedRev = rev
}

// Snapshot is a consistent, caller-owned view of a session.
type Snapshot struct {
	ID        string
	Document  lexical.Document
	Selection Selection
	State     State
	Revision  uint64
	CanUndo   bool
	CanRedo   bool
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := StateClean
	if s.current.rev != s.savedRev {
		state = StateDirty
	}
	return Snapshot{
		ID:        s.id,
		Document:  s.current.doc.Clone(),
		Selection: s.current.sel.Clone(),
		State:     state,
		Revision:  s.current.rev,
		CanUndo:   len(s.undo) > 0,
		CanRedo:   len(s.redo) > 0,
	}
}

// Document returns a copy of the current document.
func (s *Session) Document() lexical.Document {
	return s.Snapshot().Document
}

// State reports whether the current document differs from the last save.
func (s *Session) State() State {
	return s.Snapshot().State
}
