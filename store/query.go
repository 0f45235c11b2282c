package store

import (
	"sort"

	"go-pianoroll/note"
)

// QueryRect returns the notes sharing area with r, by pitch then start.
func (s *Store) QueryRect(r note.Rect) []ID {
	if r.Empty() {
		return nil
	}
	lo, hi := r.TimeRange()
	plo, phi := r.Lanes()

	var out []ID
	for p := plo; p < phi; p++ {
		for _, id := range s.lanes[p] {
			n := s.notes[id]
			if n.Start >= hi {
				break
			}
			if n.End > lo {
				out = append(out, id)
			}
		}
	}
	return out
}

// Hit is a note found under a point, with the part of it that was hit.
type Hit struct {
	ID   ID
	Edge note.Edge
}

// NoteAt finds the note containing pt. Points within edgeWidth beats of
// either end report that edge, the start edge winning on short notes.
func (s *Store) NoteAt(pt note.Point, edgeWidth float64) (Hit, bool) {
	p, ok := pt.Lane()
	if !ok {
		return Hit{}, false
	}
	lane := s.lanes[p]
	i := sort.Search(len(lane), func(i int) bool {
		return s.notes[lane[i]].Start > pt.Time
	}) - 1
	if i < 0 {
		return Hit{}, false
	}

	id := lane[i]
	n := s.notes[id]
	if !n.Contains(pt.Time) {
		return Hit{}, false
	}

	edge := note.EdgeNone
	switch {
	case pt.Time < n.Start+edgeWidth:
		edge = note.EdgeStart
	case pt.Time >= n.End-edgeWidth:
		edge = note.EdgeEnd
	}
	return Hit{ID: id, Edge: edge}, true
}
