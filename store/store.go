// Package store keeps notes in 128 pitch lanes, each sorted by start time,
// and resolves overlaps so that the most recently inserted note always wins.
//
// Notes are addressed by ID. An ID is issued once, survives moves between
// stores that share an IDSource, and is never reused, so a stale ID fails
// loudly instead of silently naming a different note.
package store

import (
	"fmt"
	"sort"

	"go-pianoroll/note"
)

// ID is a stable note handle. The zero ID is never issued.
type ID uint64

// IDSource issues IDs. Stores that exchange notes must share one.
type IDSource struct {
	next ID
}

func (s *IDSource) Next() ID {
	s.next++
	return s.next
}

// Index is the position of a note inside its lane. It is only valid until
// the lane next changes.
type Index struct {
	Pitch note.Pitch
	Pos   int
}

// Placement pairs a note with its ID.
type Placement struct {
	ID   ID        `json:"id"`
	Note note.Note `json:"note"`
}

// AddedNote is the result of every insertion.
type AddedNote struct {
	ID        ID
	Index     Index
	Note      note.Note
	Conflicts ConflictHistory
}

// Store is a set of notes with no overlaps inside a lane once conflict
// resolution has run.
type Store struct {
	ids   *IDSource
	lanes [note.NumPitches][]ID
	notes map[ID]note.Note
}

// New creates an empty store. A nil source gets a private one.
func New(ids *IDSource) *Store {
	if ids == nil {
		ids = &IDSource{}
	}
	return &Store{ids: ids, notes: make(map[ID]note.Note)}
}

// FromNotes creates a store and inserts notes in order.
func FromNotes(ids *IDSource, notes ...note.Note) *Store {
	s := New(ids)
	for _, n := range notes {
		s.Insert(n)
	}
	return s
}

func (s *Store) IDSource() *IDSource { return s.ids }

func (s *Store) Len() int      { return len(s.notes) }
func (s *Store) IsEmpty() bool { return len(s.notes) == 0 }

// Get returns the note with the given ID. It panics on an unknown ID.
func (s *Store) Get(id ID) note.Note {
	n, ok := s.notes[id]
	if !ok {
		panic(fmt.Sprintf("store: unknown note id %d", id))
	}
	return n
}

func (s *Store) Lookup(id ID) (note.Note, bool) {
	n, ok := s.notes[id]
	return n, ok
}

func (s *Store) Contains(id ID) bool {
	_, ok := s.notes[id]
	return ok
}

// Position returns the current lane position of id.
func (s *Store) Position(id ID) (Index, bool) {
	if !s.Contains(id) {
		return Index{}, false
	}
	p, pos := s.locate(id)
	return Index{Pitch: p, Pos: pos}, true
}

// Lane returns a copy of one lane in order.
func (s *Store) Lane(p note.Pitch) []Placement {
	lane := s.lanes[p]
	out := make([]Placement, len(lane))
	for i, id := range lane {
		out[i] = Placement{ID: id, Note: s.notes[id]}
	}
	return out
}

// Each visits notes by ascending pitch, then ascending start.
func (s *Store) Each(fn func(id ID, n note.Note)) {
	for p := range s.lanes {
		for _, id := range s.lanes[p] {
			fn(id, s.notes[id])
		}
	}
}

// Snapshot returns every note in Each order.
func (s *Store) Snapshot() []Placement {
	out := make([]Placement, 0, len(s.notes))
	s.Each(func(id ID, n note.Note) {
		out = append(out, Placement{ID: id, Note: n})
	})
	return out
}

func (s *Store) IDs() []ID {
	out := make([]ID, 0, len(s.notes))
	s.Each(func(id ID, _ note.Note) { out = append(out, id) })
	return out
}

func (s *Store) Notes() []note.Note {
	out := make([]note.Note, 0, len(s.notes))
	s.Each(func(_ ID, n note.Note) { out = append(out, n) })
	return out
}

// Clear removes every note and returns them.
func (s *Store) Clear() []Placement {
	out := s.Snapshot()
	s.lanes = [note.NumPitches][]ID{}
	s.notes = make(map[ID]note.Note)
	return out
}

// Reset replaces the contents with ps without resolving conflicts.
func (s *Store) Reset(ps []Placement) {
	s.Clear()
	for _, p := range ps {
		s.Restore(p.ID, p.Note)
	}
}

// FindTimeIndex returns the first lane position whose start is not before
// n.Start.
func (s *Store) FindTimeIndex(n note.Note) int {
	lane := s.lanes[n.Pitch]
	return sort.Search(len(lane), func(i int) bool {
		return s.notes[lane[i]].Start >= n.Start
	})
}

// Insert adds n under a fresh ID, resolving conflicts in its lane.
func (s *Store) Insert(n note.Note) AddedNote {
	return s.Place(s.ids.Next(), n)
}

// Place adds n under an existing ID, resolving conflicts in its lane.
func (s *Store) Place(id ID, n note.Note) AddedNote {
	if s.Contains(id) {
		panic(fmt.Sprintf("store: note id %d already present", id))
	}
	var h ConflictHistory
	pos := s.resolve(n, &h)
	s.insertAt(n.Pitch, pos, id, n)
	return AddedNote{ID: id, Index: Index{Pitch: n.Pitch, Pos: pos}, Note: n, Conflicts: h}
}

// Restore puts a note back exactly as given, after any notes with the same
// start. Undo uses it to reverse removals.
func (s *Store) Restore(id ID, n note.Note) Index {
	if s.Contains(id) {
		panic(fmt.Sprintf("store: note id %d already present", id))
	}
	lane := s.lanes[n.Pitch]
	pos := sort.Search(len(lane), func(i int) bool {
		return s.notes[lane[i]].Start > n.Start
	})
	s.insertAt(n.Pitch, pos, id, n)
	return Index{Pitch: n.Pitch, Pos: pos}
}

// Remove deletes id and returns its note.
func (s *Store) Remove(id ID) note.Note {
	n := s.Get(id)
	p, pos := s.locate(id)
	s.removeAt(p, pos)
	return n
}

// RemoveMany deletes ids and returns them in a detached store sharing this
// store's IDSource. Each lane is emptied from its highest position down.
// It panics when an ID is missing or repeated.
func (s *Store) RemoveMany(ids []ID) *Store {
	byLane := make(map[note.Pitch][]int)
	seen := make(map[ID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			panic(fmt.Sprintf("store: note %d listed twice", id))
		}
		seen[id] = true
		p, pos := s.locate(id)
		byLane[p] = append(byLane[p], pos)
	}

	out := New(s.ids)
	for p, positions := range byLane {
		sort.Sort(sort.Reverse(sort.IntSlice(positions)))
		for _, pos := range positions {
			id := s.lanes[p][pos]
			n := s.notes[id]
			s.removeAt(p, pos)
			out.Restore(id, n)
		}
	}
	return out
}

// Drain moves every note into dst, resolving conflicts there.
func (s *Store) Drain(dst *Store) []AddedNote {
	moved := s.Clear()
	added := make([]AddedNote, 0, len(moved))
	for _, p := range moved {
		added = append(added, dst.Place(p.ID, p.Note))
	}
	return added
}

// Bounds summarizes the extent of the store.
type Bounds struct {
	MinStart float64
	MaxEnd   float64
	Lowest   note.Pitch
	Highest  note.Pitch
}

// Bounds scans every note. It returns false for an empty store.
func (s *Store) Bounds() (Bounds, bool) {
	if s.IsEmpty() {
		return Bounds{}, false
	}
	first := true
	var b Bounds
	s.Each(func(_ ID, n note.Note) {
		if first {
			b = Bounds{MinStart: n.Start, MaxEnd: n.End, Lowest: n.Pitch, Highest: n.Pitch}
			first = false
			return
		}
		b.MinStart = note.Min(b.MinStart, n.Start)
		b.MaxEnd = note.Max(b.MaxEnd, n.End)
		b.Lowest = note.Min(b.Lowest, n.Pitch)
		b.Highest = note.Max(b.Highest, n.Pitch)
	})
	return b, true
}

func (s *Store) insertAt(p note.Pitch, pos int, id ID, n note.Note) {
	lane := s.lanes[p]
	lane = append(lane, 0)
	copy(lane[pos+1:], lane[pos:])
	lane[pos] = id
	s.lanes[p] = lane
	s.notes[id] = n
}

func (s *Store) removeAt(p note.Pitch, pos int) {
	lane := s.lanes[p]
	id := lane[pos]
	s.lanes[p] = append(lane[:pos], lane[pos+1:]...)
	delete(s.notes, id)
}

func (s *Store) locate(id ID) (note.Pitch, int) {
	n := s.Get(id)
	lane := s.lanes[n.Pitch]
	i := sort.Search(len(lane), func(i int) bool {
		return s.notes[lane[i]].Start >= n.Start
	})
	for ; i < len(lane) && s.notes[lane[i]].Start == n.Start; i++ {
		if lane[i] == id {
			return n.Pitch, i
		}
	}
	panic(fmt.Sprintf("store: note id %d missing from lane %d", id, n.Pitch))
}
