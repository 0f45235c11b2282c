// Package track is one editable note collection: the free notes, the
// selected notes and the history that can undo and replay every change made
// to either.
//
// All mutation goes through command values (the Action types in this
// package). A single dispatcher applies a command, records the completed
// record it returns, and redo re-applies that record through the same code.
package track

import (
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"go-pianoroll/debug"
	"go-pianoroll/history"
	"go-pianoroll/note"
	"go-pianoroll/scale"
	"go-pianoroll/store"
)

// Selection is the store of selected notes plus the marquee being drawn.
// Square is in musical coordinates and drives hit testing. DirectSquare is
// in grid coordinates and is only for drawing feedback.
type Selection struct {
	Notes        *store.Store
	Square       *note.Rect
	DirectSquare *note.Rect
}

type Track struct {
	ID   uuid.UUID
	Meta Meta

	ids     *store.IDSource
	main    *store.Store
	sel     Selection
	scale   scale.Scale
	history history.Stack[Action]
	gesture *gesture
	head    float64

	onRecord func(Action)
}

// New creates an empty track.
func New(name string, sc scale.Scale) *Track {
	ids := &store.IDSource{}
	return &Track{
		ID:    uuid.New(),
		Meta:  Meta{Name: name, BPM: DefaultBPM},
		ids:   ids,
		main:  store.New(ids),
		sel:   Selection{Notes: store.New(ids)},
		scale: sc,
		head:  note.MinPosition,
	}
}

// DefaultNotes seed a new track so there is something to edit.
var DefaultNotes = []note.Note{
	note.New(1.0, 2.5, 53),
	note.New(2.0, 3.5, 55),
	note.New(3.0, 4.5, 53),
}

// NewDefault creates a track holding DefaultNotes. The seed notes are not
// part of the history.
func NewDefault(name string, sc scale.Scale) *Track {
	t := New(name, sc)
	for _, n := range DefaultNotes {
		t.main.Insert(n)
	}
	return t
}

// Main returns the store of unselected notes. Changing it directly bypasses
// the history.
func (t *Track) Main() *store.Store { return t.main }

// Selected returns the store of selected notes. Changing it directly
// bypasses the history.
func (t *Track) Selected() *store.Store { return t.sel.Notes }

func (t *Track) Selection() Selection { return t.sel }

func (t *Track) Scale() scale.Scale { return t.scale }

// SetScale changes the scale used by later drags. Committed drags keep the
// scale they were made with.
func (t *Track) SetScale(sc scale.Scale) { t.scale = sc }

// Len counts every note of the track.
func (t *Track) Len() int {
	return t.main.Len() + t.sel.Notes.Len()
}

// Lookup finds a note in either store.
func (t *Track) Lookup(id store.ID) (n note.Note, selected, ok bool) {
	if n, ok := t.sel.Notes.Lookup(id); ok {
		return n, true, true
	}
	n, ok = t.main.Lookup(id)
	return n, false, ok
}

// NoteAt hit-tests the selection first, then the free notes.
func (t *Track) NoteAt(pt note.Point, edgeWidth float64) (hit store.Hit, selected, ok bool) {
	if hit, ok := t.sel.Notes.NoteAt(pt, edgeWidth); ok {
		return hit, true, true
	}
	hit, ok = t.main.NoteAt(pt, edgeWidth)
	return hit, false, ok
}

// StartTime is the first playable beat.
func (t *Track) StartTime() float64 {
	return note.MinPosition
}

// EndTime is the end of the last note, and at least beat 5.
func (t *Track) EndTime() float64 {
	end := 5.0
	for _, s := range []*store.Store{t.main, t.sel.Notes} {
		if b, ok := s.Bounds(); ok {
			end = note.Max(end, b.MaxEnd)
		}
	}
	return end
}

// PlayerHead is the beat playback would start from. Paste anchors there.
func (t *Track) PlayerHead() float64 { return t.head }

// SetPlayerHead moves the player head, never before beat 0.
func (t *Track) SetPlayerHead(beat float64) {
	t.head = note.Max(beat, 0)
}

// OnRecord registers fn to be told about every substantive action recorded
// by a forward command. Replays are not reported.
func (t *Track) OnRecord(fn func(Action)) { t.onRecord = fn }

func (t *Track) CanUndo() bool { return t.history.CanUndo() }
func (t *Track) CanRedo() bool { return t.history.CanRedo() }

// HistoryLen is the number of recorded actions, undone ones included.
func (t *Track) HistoryLen() int { return t.history.Len() }

func (t *Track) logger() *log.Logger {
	return debug.For("track").With("track", t.Meta.Name)
}

// dispatch applies a forward command and records what it did.
func (t *Track) dispatch(a Action) bool {
	rec, ok := a.apply(t)
	if !ok {
		return false
	}
	t.history.Add(rec)
	t.logger().Debug("apply", "action", rec.Kind(), "main", t.main.Len(), "selected", t.sel.Notes.Len())
	if t.onRecord != nil && rec.Kind().Substantive() {
		t.onRecord(rec)
	}
	return true
}

// Undo reverses the latest substantive action together with the selection
// changes recorded around it: those after it, and the ones directly before it
// that set it up. It returns false at the start of the history.
func (t *Track) Undo() bool {
	t.settle()
	changed, undone := false, false
	for {
		a, ok := t.history.PeekUndo()
		if !ok || (undone && a.Kind().Substantive()) {
			break
		}
		t.history.Undo()
		a.revert(t)
		changed = true
		t.logger().Debug("undo", "action", a.Kind())
		if a.Kind().Substantive() {
			undone = true
		}
	}
	return changed
}

// Redo replays selection changes up to and including the next substantive
// action. It returns false at the end of the history.
func (t *Track) Redo() bool {
	t.settle()
	changed := false
	for {
		a, ok := t.history.Redo()
		if !ok {
			break
		}
		rec, applied := a.apply(t)
		if !applied {
			panic("track: replayed " + a.Kind().String() + " changed nothing")
		}
		t.history.Replace(rec)
		changed = true
		t.logger().Debug("redo", "action", a.Kind())
		if a.Kind().Substantive() {
			break
		}
	}
	return changed
}

// Settle commits a drag or resize still in progress. Every command settles
// first; callers keeping their own log of recorded actions settle before
// reading it.
func (t *Track) Settle() { t.settle() }

func (t *Track) settle() {
	if t.gesture == nil {
		return
	}
	switch t.gesture.kind {
	case KindDrag:
		t.FinishDrag()
	case KindResize:
		t.FinishResize()
	}
}

// Move is one note carried between the stores.
type Move struct {
	ToSelected bool
	Added      store.AddedNote
}

func (t *Track) ends(toSelected bool) (src, dst *store.Store) {
	if toSelected {
		return t.main, t.sel.Notes
	}
	return t.sel.Notes, t.main
}

func (t *Track) moveNote(id store.ID, toSelected bool) Move {
	src, dst := t.ends(toSelected)
	n := src.Remove(id)
	return Move{ToSelected: toSelected, Added: dst.Place(id, n)}
}

func (t *Track) drain(toSelected bool) []Move {
	src, dst := t.ends(toSelected)
	added := src.Drain(dst)
	moves := make([]Move, len(added))
	for i, a := range added {
		moves[i] = Move{ToSelected: toSelected, Added: a}
	}
	return moves
}

// unmove reverses moves, newest first.
func (t *Track) unmove(moves []Move) {
	for i := len(moves) - 1; i >= 0; i-- {
		m := moves[i]
		src, dst := t.ends(m.ToSelected)
		dst.Remove(m.Added.ID)
		m.Added.Conflicts.Revert(dst)
		src.Restore(m.Added.ID, m.Added.Note)
	}
}
