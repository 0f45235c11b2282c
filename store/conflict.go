package store

import (
	"fmt"

	"go-pianoroll/note"
)

// ConflictKind tells whether a conflicting note was shortened or removed.
type ConflictKind uint8

const (
	Resized ConflictKind = iota
	Deleted
)

func (k ConflictKind) String() string {
	if k == Deleted {
		return "deleted"
	}
	return "resized"
}

// Conflict is one change made to an existing note so that another note fits.
// Before is the shape the note had right before the change and Index its
// lane position at that moment.
type Conflict struct {
	Kind   ConflictKind
	ID     ID
	Index  Index
	Edge   note.Edge
	Delta  float64
	Before note.Note
}

// ConflictHistory lists conflicts in the order they were produced.
type ConflictHistory struct {
	Entries []Conflict
}

func (h ConflictHistory) Len() int      { return len(h.Entries) }
func (h ConflictHistory) IsEmpty() bool { return len(h.Entries) == 0 }

func (h ConflictHistory) Resized() []Conflict { return h.filter(Resized) }
func (h ConflictHistory) Deleted() []Conflict { return h.filter(Deleted) }

func (h ConflictHistory) filter(k ConflictKind) []Conflict {
	var out []Conflict
	for _, c := range h.Entries {
		if c.Kind == k {
			out = append(out, c)
		}
	}
	return out
}

func (h *ConflictHistory) Append(o ConflictHistory) {
	h.Entries = append(h.Entries, o.Entries...)
}

func (h *ConflictHistory) resized(id ID, pos int, edge note.Edge, delta float64, before note.Note) {
	h.Entries = append(h.Entries, Conflict{
		Kind: Resized, ID: id, Index: Index{Pitch: before.Pitch, Pos: pos},
		Edge: edge, Delta: delta, Before: before,
	})
}

func (h *ConflictHistory) deleted(id ID, pos int, before note.Note) {
	h.Entries = append(h.Entries, Conflict{
		Kind: Deleted, ID: id, Index: Index{Pitch: before.Pitch, Pos: pos}, Before: before,
	})
}

// Revert undoes the recorded conflicts on s, newest first. The notes that
// caused them must already be gone from s, so every lane is back in the
// state it had right after the conflicts were made.
func (h ConflictHistory) Revert(s *Store) {
	for i := len(h.Entries) - 1; i >= 0; i-- {
		c := h.Entries[i]
		switch c.Kind {
		case Resized:
			if !s.Contains(c.ID) {
				panic(fmt.Sprintf("store: cannot revert resize of missing note %d", c.ID))
			}
			s.notes[c.ID] = c.Before
		case Deleted:
			s.insertAt(c.Index.Pitch, c.Index.Pos, c.ID, c.Before)
		}
	}
}

// resolve makes room for n in its lane and returns the position n belongs at.
// The new note always wins: an earlier note overlapping n loses its tail, a
// later one sticking out past n loses its head and anything n covers is
// deleted.
func (s *Store) resolve(n note.Note, h *ConflictHistory) int {
	p := n.Pitch
	pos := s.FindTimeIndex(n)

	if pos > 0 {
		id := s.lanes[p][pos-1]
		left := s.notes[id]
		if left.End > n.Start {
			before := left
			left.End = n.Start
			s.notes[id] = left
			h.resized(id, pos-1, note.EdgeEnd, n.Start-before.End, before)
		}
	}

	for pos < len(s.lanes[p]) {
		id := s.lanes[p][pos]
		right := s.notes[id]
		if right.Start >= n.End {
			break
		}
		if right.End > n.End {
			before := right
			right.Start = n.End
			s.notes[id] = right
			h.resized(id, pos, note.EdgeStart, n.End-before.Start, before)
			break
		}
		s.removeAt(p, pos)
		h.deleted(id, pos, right)
	}
	return pos
}

// ResolveConflicts makes room for n without inserting it.
func (s *Store) ResolveConflicts(n note.Note) ConflictHistory {
	var h ConflictHistory
	s.resolve(n, &h)
	return h
}

// ResolveConflictsWith makes room for every note of other, which all win.
func (s *Store) ResolveConflictsWith(other *Store) ConflictHistory {
	var h ConflictHistory
	other.Each(func(_ ID, n note.Note) {
		s.resolve(n, &h)
	})
	return h
}

// ResolveSelfResizeConflicts removes overlaps between neighbours of the same
// lane, keeping the later-starting note intact. A note left without length
// is deleted.
func (s *Store) ResolveSelfResizeConflicts() ConflictHistory {
	var h ConflictHistory
	for p := range s.lanes {
		pitch := note.Pitch(p)
		i := 0
		for i+1 < len(s.lanes[p]) {
			id, nextID := s.lanes[p][i], s.lanes[p][i+1]
			cur, next := s.notes[id], s.notes[nextID]
			if cur.End <= next.Start {
				i++
				continue
			}
			if next.Start > cur.Start {
				before := cur
				cur.End = next.Start
				s.notes[id] = cur
				h.resized(id, i, note.EdgeEnd, next.Start-before.End, before)
				i++
				continue
			}
			s.removeAt(pitch, i)
			h.deleted(id, i, cur)
		}
	}
	return h
}
