package track

import (
	"fmt"

	"go-pianoroll/note"
	"go-pianoroll/store"
)

// Transition is a named way of moving notes between the free store and the
// selection. run performs the moves and returns them in order.
type Transition interface {
	fmt.Stringer
	run(t *Track) []Move
}

// DrainSelect moves every selected note back to the free store.
type DrainSelect struct{}

// SelectAll moves every free note into the selection.
type SelectAll struct{}

// AddOneToSelected selects one more note, keeping the selection.
type AddOneToSelected struct{ ID store.ID }

// UnselectOne moves one selected note back.
type UnselectOne struct{ ID store.ID }

// SelectOne replaces the selection with one note.
type SelectOne struct{ ID store.ID }

// UnselectAllButOne keeps only the given note selected.
type UnselectAllButOne struct{ ID store.ID }

// SelectMany adds a batch of free notes to the selection.
type SelectMany struct{ IDs []store.ID }

func (DrainSelect) String() string         { return "drain-select" }
func (SelectAll) String() string           { return "select-all" }
func (tr AddOneToSelected) String() string { return fmt.Sprintf("add-one-to-selected(%d)", tr.ID) }
func (tr UnselectOne) String() string      { return fmt.Sprintf("unselect-one(%d)", tr.ID) }
func (tr SelectOne) String() string        { return fmt.Sprintf("select-one(%d)", tr.ID) }
func (tr UnselectAllButOne) String() string {
	return fmt.Sprintf("unselect-all-but-one(%d)", tr.ID)
}
func (tr SelectMany) String() string { return fmt.Sprintf("select-many(%d notes)", len(tr.IDs)) }

func (DrainSelect) run(t *Track) []Move {
	return t.drain(false)
}

func (SelectAll) run(t *Track) []Move {
	return t.drain(true)
}

func (tr AddOneToSelected) run(t *Track) []Move {
	if t.sel.Notes.Contains(tr.ID) {
		return nil
	}
	t.mustFree(tr.ID)
	return []Move{t.moveNote(tr.ID, true)}
}

func (tr UnselectOne) run(t *Track) []Move {
	t.mustSelected(tr.ID)
	return []Move{t.moveNote(tr.ID, false)}
}

func (tr SelectOne) run(t *Track) []Move {
	if t.sel.Notes.Contains(tr.ID) {
		return UnselectAllButOne(tr).run(t)
	}
	t.mustFree(tr.ID)
	moves := t.drain(false)
	return append(moves, t.moveNote(tr.ID, true))
}

func (tr UnselectAllButOne) run(t *Track) []Move {
	t.mustSelected(tr.ID)
	var moves []Move
	for _, id := range t.sel.Notes.IDs() {
		if id != tr.ID {
			moves = append(moves, t.moveNote(id, false))
		}
	}
	return moves
}

func (tr SelectMany) run(t *Track) []Move {
	var free []store.ID
	seen := make(map[store.ID]bool, len(tr.IDs))
	for _, id := range tr.IDs {
		if seen[id] || t.sel.Notes.Contains(id) {
			continue
		}
		seen[id] = true
		t.mustFree(id)
		free = append(free, id)
	}
	if len(free) == 0 {
		return nil
	}
	removed := t.main.RemoveMany(free)
	added := removed.Drain(t.sel.Notes)
	moves := make([]Move, len(added))
	for i, a := range added {
		moves[i] = Move{ToSelected: true, Added: a}
	}
	return moves
}

func (t *Track) mustFree(id store.ID) {
	if !t.main.Contains(id) {
		panic(fmt.Sprintf("track: note %d is not a free note", id))
	}
}

func (t *Track) mustSelected(id store.ID) {
	if !t.sel.Notes.Contains(id) {
		panic(fmt.Sprintf("track: note %d is not selected", id))
	}
}

// ChangeSelection applies a transition. It reports false, recording
// nothing, when no note moved.
func (t *Track) ChangeSelection(tr Transition) bool {
	t.settle()
	return t.dispatch(SelectionChange{Transition: tr})
}

// SetSelectingSquare updates the marquee being drawn.
func (t *Track) SetSelectingSquare(music, direct note.Rect) {
	t.sel.Square = &music
	t.sel.DirectSquare = &direct
}

// FinishSelecting selects the free notes under the marquee and clears it.
// Unless additive, the previous selection is dropped first.
func (t *Track) FinishSelecting(additive bool) bool {
	if t.sel.Square == nil {
		return false
	}
	r := *t.sel.Square
	t.sel.Square, t.sel.DirectSquare = nil, nil

	changed := false
	if !additive {
		changed = t.ChangeSelection(DrainSelect{})
	}
	if ids := t.main.QueryRect(r); len(ids) > 0 {
		changed = t.ChangeSelection(SelectMany{IDs: ids}) || changed
	}
	return changed
}

// CancelSelecting drops the marquee without selecting anything.
func (t *Track) CancelSelecting() {
	t.sel.Square, t.sel.DirectSquare = nil, nil
}
