package store

import "go-pianoroll/note"

// Scale maps pitches to scale rows and back.
type Scale interface {
	ScaleIndex(p note.Pitch) int
	PitchAt(i int) note.Pitch
	Len() int
}

// Delta is a drag offset: beats in time, scale steps in pitch.
type Delta struct {
	Time  float64
	Pitch int
}

func (d Delta) IsZero() bool {
	return d.Time == 0 && d.Pitch == 0
}

// DragAll moves every note by the same clamped delta and returns it. The
// earliest start stays at or after note.MinPosition and every pitch stays
// inside the scale. Conflicts are not resolved.
func (s *Store) DragAll(d Delta, sc Scale) Delta {
	b, ok := s.Bounds()
	if !ok {
		return Delta{}
	}

	floor := note.Min(note.MinPosition, b.MinStart)
	if b.MinStart+d.Time < floor {
		d.Time = floor - b.MinStart
	}
	lo, hi := sc.ScaleIndex(b.Lowest), sc.ScaleIndex(b.Highest)
	d.Pitch = note.Clamp(d.Pitch, -lo, sc.Len()-1-hi)

	s.Shift(d, sc)
	return d
}

// Shift moves every note by d without clamping. Pitch steps walk the scale;
// with no pitch steps a note keeps its pitch even when it is off the scale.
func (s *Store) Shift(d Delta, sc Scale) {
	if d.IsZero() {
		return
	}
	moved := s.Snapshot()
	for i, p := range moved {
		pitch := p.Note.Pitch
		if d.Pitch != 0 {
			pitch = sc.PitchAt(sc.ScaleIndex(pitch) + d.Pitch)
		}
		moved[i].Note = p.Note.Reposition(d.Time, pitch)
	}
	s.Reset(moved)
}

// ResizeAll moves one edge of every note by the same clamped amount and
// returns it. Starts stay at or after note.MinPosition and every note keeps
// at least note.MinDuration. Conflicts are not resolved.
func (s *Store) ResizeAll(edge note.Edge, dt float64) float64 {
	if s.IsEmpty() || edge == note.EdgeNone {
		return 0
	}

	first := true
	var lo, hi float64
	s.Each(func(_ ID, n note.Note) {
		var nlo, nhi float64
		switch edge {
		case note.EdgeStart:
			nlo = note.Min(note.MinPosition, n.Start) - n.Start
			nhi = n.End - note.MinDuration - n.Start
		case note.EdgeEnd:
			nlo = n.Start + note.MinDuration - n.End
			nhi = dt
		}
		if first {
			lo, hi, first = nlo, nhi, false
			return
		}
		lo, hi = note.Max(lo, nlo), note.Min(hi, nhi)
	})
	dt = note.Clamp(dt, lo, note.Max(hi, lo))
	if dt == 0 {
		return 0
	}

	resized := s.Snapshot()
	for i, p := range resized {
		resized[i].Note = p.Note.Resize(edge, dt)
	}
	s.Reset(resized)
	return dt
}
