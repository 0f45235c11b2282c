// Package note holds the value types shared by the editor: pitches, notes and
// the musical-coordinate geometry used for hit testing.
package note

import "fmt"

const (
	// MinPosition is the earliest beat a note may be dragged or resized to.
	MinPosition = 1.0
	// MinDuration is the shortest length a resize can produce.
	MinDuration = 1.0 / 64
)

// Edge names a part of a note under the pointer.
type Edge uint8

const (
	EdgeNone Edge = iota // note body
	EdgeStart
	EdgeEnd
)

func (e Edge) String() string {
	switch e {
	case EdgeStart:
		return "start"
	case EdgeEnd:
		return "end"
	default:
		return "body"
	}
}

// Note occupies the half-open interval [Start, End) on its pitch lane.
type Note struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Pitch Pitch   `json:"pitch"`
}

// New creates a note. It panics when end <= start or the pitch is invalid.
func New(start, end float64, pitch Pitch) Note {
	n := Note{Start: start, End: end, Pitch: pitch}
	n.mustValid()
	return n
}

func (n Note) mustValid() {
	if !(n.End > n.Start) {
		panic(fmt.Sprintf("note: non-positive length %v", n))
	}
	if !n.Pitch.Valid() {
		panic(fmt.Sprintf("note: invalid pitch %d", n.Pitch))
	}
}

func (n Note) Duration() float64 {
	return n.End - n.Start
}

// Contains reports whether beat t falls inside the note.
func (n Note) Contains(t float64) bool {
	return n.Start <= t && t < n.End
}

// Overlaps reports whether two notes share a lane and some time.
// Notes that only touch do not overlap.
func (n Note) Overlaps(o Note) bool {
	return n.Pitch == o.Pitch && n.Start < o.End && o.Start < n.End
}

// Resize moves one edge by dt. The start never passes MinPosition (unless it
// already lies before it) and the note keeps at least MinDuration.
func (n Note) Resize(edge Edge, dt float64) Note {
	switch edge {
	case EdgeStart:
		floor := Min(MinPosition, n.Start)
		n.Start = Clamp(n.Start+dt, floor, n.End-MinDuration)
	case EdgeEnd:
		n.End = Max(n.End+dt, n.Start+MinDuration)
	}
	return n
}

// Reposition shifts the note in time by dt and moves it to pitch p.
func (n Note) Reposition(dt float64, p Pitch) Note {
	moved := Note{Start: n.Start + dt, End: n.End + dt, Pitch: p}
	moved.mustValid()
	return moved
}

func (n Note) String() string {
	return fmt.Sprintf("%s[%g,%g)", n.Pitch, n.Start, n.End)
}
