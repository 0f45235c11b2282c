package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-pianoroll/note"
	"go-pianoroll/scale"
)

func n(start, end float64, pitch int) note.Note {
	return note.New(start, end, note.MustPitch(pitch))
}

// requireConsistent checks every lane is sorted and free of overlaps.
func requireConsistent(t require.TestingT, s *Store) {
	count := 0
	for p := 0; p < note.NumPitches; p++ {
		lane := s.Lane(note.Pitch(p))
		count += len(lane)
		for i := 1; i < len(lane); i++ {
			a, b := lane[i-1].Note, lane[i].Note
			require.LessOrEqual(t, a.Start, b.Start, "lane %d unsorted", p)
			require.LessOrEqual(t, a.End, b.Start, "lane %d overlaps", p)
		}
	}
	require.Equal(t, s.Len(), count)
}

func TestInsertTruncatesLeftNeighbour(t *testing.T) {
	assert := assert.New(t)
	s := New(nil)

	a := s.Insert(n(1, 2.5, 53))
	b := s.Insert(n(2, 3.5, 53))

	assert.Equal(n(1, 2, 53), s.Get(a.ID))
	assert.Equal(n(2, 3.5, 53), s.Get(b.ID))
	require.Len(t, b.Conflicts.Resized(), 1)
	assert.Empty(b.Conflicts.Deleted())

	c := b.Conflicts.Resized()[0]
	assert.Equal(a.ID, c.ID)
	assert.Equal(note.EdgeEnd, c.Edge)
	assert.Equal(-0.5, c.Delta)
	assert.Equal(Index{Pitch: 53, Pos: 1}, b.Index)

	s.Remove(b.ID)
	b.Conflicts.Revert(s)
	assert.Equal(n(1, 2.5, 53), s.Get(a.ID))
	assert.False(s.Contains(b.ID))
	assert.Equal(1, s.Len())
}

func TestInsertInsideExistingNote(t *testing.T) {
	assert := assert.New(t)
	s := New(nil)

	a := s.Insert(n(1, 5, 60))
	b := s.Insert(n(2, 3, 60))

	assert.Equal(n(1, 2, 60), s.Get(a.ID))
	assert.Equal(n(2, 3, 60), s.Get(b.ID))
	assert.Equal(1, b.Conflicts.Len())
	requireConsistent(t, s)

	s.Remove(b.ID)
	b.Conflicts.Revert(s)
	assert.Equal([]Placement{{ID: a.ID, Note: n(1, 5, 60)}}, s.Snapshot())
}

func TestInsertDeletesContainedNotes(t *testing.T) {
	assert := assert.New(t)
	s := New(nil)
	m1 := s.Insert(n(2, 3, 60))
	m2 := s.Insert(n(3, 4, 60))
	tail := s.Insert(n(4, 6, 60))
	before := s.Snapshot()

	big := s.Insert(n(1.5, 5, 60))

	assert.Equal(n(1.5, 5, 60), s.Get(big.ID), "the new note is never shortened")
	assert.False(s.Contains(m1.ID))
	assert.False(s.Contains(m2.ID))
	assert.Equal(n(5, 6, 60), s.Get(tail.ID))
	assert.Len(big.Conflicts.Deleted(), 2)
	assert.Len(big.Conflicts.Resized(), 1)
	requireConsistent(t, s)

	s.Remove(big.ID)
	big.Conflicts.Revert(s)
	assert.Equal(before, s.Snapshot())
}

func TestTouchingNotesDoNotConflict(t *testing.T) {
	s := New(nil)
	s.Insert(n(1, 2, 60))
	added := s.Insert(n(2, 3, 60))
	assert.True(t, added.Conflicts.IsEmpty())
	assert.Equal(t, 2, s.Len())
}

func TestInsertSameStartTruncatesFront(t *testing.T) {
	assert := assert.New(t)
	s := New(nil)
	a := s.Insert(n(1, 3, 60))
	b := s.Insert(n(1, 2, 60))

	assert.Equal(n(2, 3, 60), s.Get(a.ID))
	assert.Equal([]ID{b.ID, a.ID}, s.IDs())
	requireConsistent(t, s)
}

func TestLanesAreIndependent(t *testing.T) {
	s := New(nil)
	s.Insert(n(1, 4, 60))
	added := s.Insert(n(1, 4, 61))
	assert.True(t, added.Conflicts.IsEmpty())
	assert.Equal(t, 2, s.Len())
}

func TestFindTimeIndex(t *testing.T) {
	s := FromNotes(nil, n(1, 2, 60), n(3, 4, 60), n(5, 6, 60))
	assert := assert.New(t)
	assert.Equal(0, s.FindTimeIndex(n(0.5, 0.75, 60)))
	assert.Equal(1, s.FindTimeIndex(n(3, 3.5, 60)))
	assert.Equal(2, s.FindTimeIndex(n(4.5, 5, 60)))
	assert.Equal(3, s.FindTimeIndex(n(7, 8, 60)))
	assert.Equal(0, s.FindTimeIndex(n(7, 8, 61)))
}

func TestRemoveManyKeepsIDs(t *testing.T) {
	assert := assert.New(t)
	s := New(nil)
	a := s.Insert(n(1, 2, 60))
	b := s.Insert(n(2, 3, 60))
	c := s.Insert(n(3, 4, 60))
	d := s.Insert(n(1, 2, 64))

	removed := s.RemoveMany([]ID{a.ID, c.ID, d.ID})

	assert.Equal([]ID{b.ID}, s.IDs())
	assert.Equal([]ID{a.ID, c.ID, d.ID}, removed.IDs())
	assert.Same(s.IDSource(), removed.IDSource())
	pos, ok := s.Position(b.ID)
	assert.True(ok)
	assert.Equal(Index{Pitch: 60, Pos: 0}, pos)
}

func TestRemoveManyRejectsRepeatedID(t *testing.T) {
	s := New(nil)
	a := s.Insert(n(1, 2, 60))
	s.Insert(n(2, 3, 60))
	assert.Panics(t, func() { s.RemoveMany([]ID{a.ID, a.ID}) })
}

func TestRemoveUnknownPanics(t *testing.T) {
	s := New(nil)
	added := s.Insert(n(1, 2, 60))
	s.Remove(added.ID)
	assert.Panics(t, func() { s.Remove(added.ID) })
	assert.Panics(t, func() { s.Get(added.ID) })
}

func TestDrainResolvesInDestination(t *testing.T) {
	assert := assert.New(t)
	ids := &IDSource{}
	main := New(ids)
	sel := New(ids)
	m := main.Insert(n(1, 3, 60))
	moved := sel.Insert(n(2, 4, 60))

	added := sel.Drain(main)

	assert.True(sel.IsEmpty())
	require.Len(t, added, 1)
	assert.Equal(moved.ID, added[0].ID)
	assert.Equal(n(1, 2, 60), main.Get(m.ID))
	assert.Equal(1, added[0].Conflicts.Len())
	requireConsistent(t, main)
}

func TestResolveConflictsWithOtherStore(t *testing.T) {
	assert := assert.New(t)
	ids := &IDSource{}
	main := FromNotes(ids, n(1, 3, 60), n(3, 5, 60), n(1, 2, 61))
	sel := FromNotes(ids, n(2, 4, 60), n(0.5, 3, 61))
	before := main.Snapshot()

	h := main.ResolveConflictsWith(sel)

	assert.Equal([]note.Note{n(1, 2, 60), n(4, 5, 60)}, laneNotes(main, 60))
	assert.Empty(laneNotes(main, 61))
	assert.Len(h.Deleted(), 1)

	h.Revert(main)
	assert.Equal(before, main.Snapshot())
}

func TestResolveSelfResizeConflicts(t *testing.T) {
	assert := assert.New(t)
	s := New(nil)
	s.Reset([]Placement{
		{ID: 1, Note: n(1, 2.5, 60)},
		{ID: 2, Note: n(2, 3, 60)},
		{ID: 3, Note: n(4, 5, 62)},
		{ID: 4, Note: n(4, 6, 62)},
	})
	before := s.Snapshot()

	h := s.ResolveSelfResizeConflicts()

	assert.Equal(n(1, 2, 60), s.Get(1))
	assert.False(s.Contains(3), "equal starts keep the later note")
	assert.Equal(n(4, 6, 62), s.Get(4))
	assert.Len(h.Resized(), 1)
	assert.Len(h.Deleted(), 1)
	requireConsistent(t, s)

	h.Revert(s)
	assert.Equal(before, s.Snapshot())
}

func TestQueryRect(t *testing.T) {
	assert := assert.New(t)
	s := New(nil)
	a := s.Insert(n(1, 2, 60))
	b := s.Insert(n(3, 4, 60))
	s.Insert(n(1, 2, 62))
	s.Insert(n(4, 5, 60))

	r := note.Rect{Time: 1.5, Pitch: 60, Width: 1.7, Height: 1}
	assert.Equal([]ID{a.ID, b.ID}, s.QueryRect(r))

	flipped := note.RectBetween(note.Point{Time: 3.2, Pitch: 61}, note.Point{Time: 1.5, Pitch: 60})
	assert.Equal([]ID{a.ID, b.ID}, s.QueryRect(flipped))

	assert.Nil(s.QueryRect(note.Rect{Time: 1, Pitch: 60, Width: 0, Height: 3}))
}

func TestNoteAt(t *testing.T) {
	assert := assert.New(t)
	s := New(nil)
	a := s.Insert(n(1, 3, 60))

	hit, ok := s.NoteAt(note.Point{Time: 1.05, Pitch: 60.5}, 0.1)
	assert.True(ok)
	assert.Equal(Hit{ID: a.ID, Edge: note.EdgeStart}, hit)

	hit, _ = s.NoteAt(note.Point{Time: 2.95, Pitch: 60.2}, 0.1)
	assert.Equal(note.EdgeEnd, hit.Edge)

	hit, _ = s.NoteAt(note.Point{Time: 2, Pitch: 60.9}, 0.1)
	assert.Equal(note.EdgeNone, hit.Edge)

	_, ok = s.NoteAt(note.Point{Time: 3, Pitch: 60}, 0.1)
	assert.False(ok, "end is exclusive")
	_, ok = s.NoteAt(note.Point{Time: 2, Pitch: 61}, 0.1)
	assert.False(ok)
	_, ok = s.NoteAt(note.Point{Time: 2, Pitch: -1}, 0.1)
	assert.False(ok)
}

func TestDragAllClampsToMinPosition(t *testing.T) {
	assert := assert.New(t)
	s := FromNotes(nil, n(2, 3, 62), n(4, 5, 65))

	d := s.DragAll(Delta{Time: -1e9}, scale.New(scale.Chromatic, 0))

	assert.Equal(-1.0, d.Time)
	b, _ := s.Bounds()
	assert.Equal(1.0, b.MinStart)
	assert.Equal([]note.Note{n(1, 2, 62), n(3, 4, 65)}, s.Notes())
}

func TestDragAllClampsPitchToScale(t *testing.T) {
	assert := assert.New(t)
	chromatic := scale.New(scale.Chromatic, 0)
	s := FromNotes(nil, n(2, 3, 62), n(4, 5, 65))

	d := s.DragAll(Delta{Pitch: 1000}, chromatic)
	assert.Equal(62, d.Pitch)
	b, _ := s.Bounds()
	assert.Equal(note.MaxPitch, b.Highest)

	d = s.DragAll(Delta{Pitch: -1000}, chromatic)
	assert.Equal(-124, d.Pitch)
	b, _ = s.Bounds()
	assert.Equal(note.MinPitch, b.Lowest)
}

func TestDragAllWalksScaleSteps(t *testing.T) {
	assert := assert.New(t)
	cMajor := scale.New(scale.Major, 0)
	s := FromNotes(nil, n(2, 3, 60), n(2, 3, 61))

	s.DragAll(Delta{Time: 1}, cMajor)
	assert.Equal([]note.Note{n(3, 4, 60), n(3, 4, 61)}, s.Notes(), "no pitch steps keeps off-scale pitches")

	s.DragAll(Delta{Pitch: 1}, cMajor)
	assert.Equal([]note.Note{n(3, 4, 62), n(3, 4, 62)}, s.Notes())
}

func TestResizeAllClamps(t *testing.T) {
	assert := assert.New(t)
	s := FromNotes(nil, n(2, 3, 60), n(3, 5, 61))

	dt := s.ResizeAll(note.EdgeEnd, -10)
	assert.Equal(note.MinDuration-1, dt)
	assert.Equal([]note.Note{n(2, 2+note.MinDuration, 60), n(3, 4+note.MinDuration, 61)}, s.Notes())

	s = FromNotes(nil, n(2, 3, 60), n(3, 5, 61))
	dt = s.ResizeAll(note.EdgeStart, -5)
	assert.Equal(-1.0, dt)
	assert.Equal([]note.Note{n(1, 3, 60), n(2, 5, 61)}, s.Notes())

	dt = s.ResizeAll(note.EdgeStart, 10)
	assert.Equal(2-note.MinDuration, dt)

	assert.Zero(s.ResizeAll(note.EdgeNone, 1))
	assert.Zero(New(nil).ResizeAll(note.EdgeEnd, 1))
}

func laneNotes(s *Store, p int) []note.Note {
	var out []note.Note
	for _, pl := range s.Lane(note.Pitch(p)) {
		out = append(out, pl.Note)
	}
	return out
}
