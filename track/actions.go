package track

import (
	"fmt"

	"go-pianoroll/note"
	"go-pianoroll/scale"
	"go-pianoroll/store"
)

// Kind names the type of a recorded action.
type Kind uint8

const (
	KindAddNote Kind = iota
	KindAddMany
	KindRemoveOne
	KindRemoveSelected
	KindDrag
	KindResize
	KindSelection
)

var kindNames = [...]string{"add-note", "add-many", "remove-one", "remove-selected", "drag", "resize", "selection"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Substantive is false for selection changes, which are never an undo step
// of their own.
func (k Kind) Substantive() bool {
	return k != KindSelection
}

// Action is a command and, once applied, the record of what it did. apply
// runs the command against the track and returns the completed record, or
// false when nothing changed. revert reverses a completed record. Replaying
// a record through apply yields the same state as the first run.
type Action interface {
	Kind() Kind
	apply(t *Track) (Action, bool)
	revert(t *Track)
}

// AddMode decides what happens to the current selection when a note is added.
type AddMode uint8

const (
	// AddDrain deselects everything; only the new note ends up selected.
	AddDrain AddMode = iota
	// AddKeep adds the new note to the current selection.
	AddKeep
)

// AddNote inserts one note into the selection. The note wins over every
// note it overlaps in either store.
type AddNote struct {
	ID   store.ID
	Note note.Note
	Mode AddMode

	Drained []Move
	Main    store.ConflictHistory
	Added   store.AddedNote
}

func (a AddNote) Kind() Kind { return KindAddNote }

func (a AddNote) apply(t *Track) (Action, bool) {
	a.Drained = nil
	if a.Mode == AddDrain {
		a.Drained = t.drain(false)
	}
	a.Main = t.main.ResolveConflicts(a.Note)
	a.Added = t.sel.Notes.Place(a.ID, a.Note)
	return a, true
}

func (a AddNote) revert(t *Track) {
	t.sel.Notes.Remove(a.ID)
	a.Added.Conflicts.Revert(t.sel.Notes)
	a.Main.Revert(t.main)
	t.unmove(a.Drained)
}

// AddMany pastes notes as the new selection.
type AddMany struct {
	Notes []store.Placement

	Drained []Move
	Main    []store.ConflictHistory
	Added   []store.AddedNote
}

func (a AddMany) Kind() Kind { return KindAddMany }

func (a AddMany) apply(t *Track) (Action, bool) {
	if len(a.Notes) == 0 {
		return nil, false
	}
	a.Drained = t.drain(false)
	a.Main = make([]store.ConflictHistory, len(a.Notes))
	a.Added = make([]store.AddedNote, len(a.Notes))
	for i, p := range a.Notes {
		a.Main[i] = t.main.ResolveConflicts(p.Note)
		a.Added[i] = t.sel.Notes.Place(p.ID, p.Note)
	}
	return a, true
}

func (a AddMany) revert(t *Track) {
	for i := len(a.Added) - 1; i >= 0; i-- {
		t.sel.Notes.Remove(a.Added[i].ID)
		a.Added[i].Conflicts.Revert(t.sel.Notes)
		a.Main[i].Revert(t.main)
	}
	t.unmove(a.Drained)
}

// RemoveOne deletes a single note from whichever store holds it.
type RemoveOne struct {
	ID store.ID

	Selected bool
	Note     note.Note
}

func (a RemoveOne) Kind() Kind { return KindRemoveOne }

func (a RemoveOne) apply(t *Track) (Action, bool) {
	a.Selected = t.sel.Notes.Contains(a.ID)
	if a.Selected {
		a.Note = t.sel.Notes.Remove(a.ID)
	} else {
		a.Note = t.main.Remove(a.ID)
	}
	return a, true
}

func (a RemoveOne) revert(t *Track) {
	if a.Selected {
		t.sel.Notes.Restore(a.ID, a.Note)
	} else {
		t.main.Restore(a.ID, a.Note)
	}
}

// RemoveSelected deletes the whole selection.
type RemoveSelected struct {
	Removed []store.Placement
}

func (a RemoveSelected) Kind() Kind { return KindRemoveSelected }

func (a RemoveSelected) apply(t *Track) (Action, bool) {
	a.Removed = t.sel.Notes.Clear()
	return a, len(a.Removed) > 0
}

func (a RemoveSelected) revert(t *Track) {
	for _, p := range a.Removed {
		t.sel.Notes.Restore(p.ID, p.Note)
	}
}

// Drag commits a move of the selection that started from Before.
type Drag struct {
	Before []store.Placement
	Delta  store.Delta
	Scale  scale.Scale

	Self store.ConflictHistory
	Main store.ConflictHistory
}

func (a Drag) Kind() Kind { return KindDrag }

func (a Drag) apply(t *Track) (Action, bool) {
	t.sel.Notes.Reset(a.Before)
	t.sel.Notes.Shift(a.Delta, a.Scale)
	a.Self = t.sel.Notes.ResolveSelfResizeConflicts()
	a.Main = t.main.ResolveConflictsWith(t.sel.Notes)
	return a, true
}

func (a Drag) revert(t *Track) {
	a.Main.Revert(t.main)
	t.sel.Notes.Reset(a.Before)
}

// Resize commits an edge move of the selection that started from Before.
type Resize struct {
	Before []store.Placement
	Edge   note.Edge
	Delta  float64

	Self store.ConflictHistory
	Main store.ConflictHistory
}

func (a Resize) Kind() Kind { return KindResize }

func (a Resize) apply(t *Track) (Action, bool) {
	t.sel.Notes.Reset(a.Before)
	t.sel.Notes.ResizeAll(a.Edge, a.Delta)
	a.Self = t.sel.Notes.ResolveSelfResizeConflicts()
	a.Main = t.main.ResolveConflictsWith(t.sel.Notes)
	return a, true
}

func (a Resize) revert(t *Track) {
	a.Main.Revert(t.main)
	t.sel.Notes.Reset(a.Before)
}

// SelectionChange records a selection transition and the moves it made.
type SelectionChange struct {
	Transition Transition

	Moves []Move
}

func (a SelectionChange) Kind() Kind { return KindSelection }

func (a SelectionChange) apply(t *Track) (Action, bool) {
	a.Moves = a.Transition.run(t)
	return a, len(a.Moves) > 0
}

func (a SelectionChange) revert(t *Track) {
	t.unmove(a.Moves)
}

// AddNote inserts n. See AddMode for what happens to the selection.
func (t *Track) AddNote(n note.Note, mode AddMode) store.ID {
	t.settle()
	id := t.ids.Next()
	t.dispatch(AddNote{ID: id, Note: n, Mode: mode})
	return id
}

// AddNotes pastes notes as the new selection and returns their IDs.
func (t *Track) AddNotes(notes []note.Note) []store.ID {
	t.settle()
	if len(notes) == 0 {
		return nil
	}
	ps := make([]store.Placement, len(notes))
	ids := make([]store.ID, len(notes))
	for i, n := range notes {
		ids[i] = t.ids.Next()
		ps[i] = store.Placement{ID: ids[i], Note: n}
	}
	t.dispatch(AddMany{Notes: ps})
	return ids
}

// Remove deletes one note. It panics when id names no note of the track.
func (t *Track) Remove(id store.ID) note.Note {
	t.settle()
	n, _, ok := t.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("track: unknown note id %d", id))
	}
	t.dispatch(RemoveOne{ID: id})
	return n
}

// RemoveSelected deletes the selection. It reports false when it was empty.
func (t *Track) RemoveSelected() bool {
	t.settle()
	return t.dispatch(RemoveSelected{})
}
