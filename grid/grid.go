// Package grid maps a cell cursor onto musical coordinates. Columns are
// steps of one beat fraction, rows are the pitches of the current scale
// counted from the lowest.
package grid

import (
	"math"

	"go-pianoroll/note"
	"go-pianoroll/scale"
	"go-pianoroll/store"
)

// DefaultEdgeWidth is 5 pixels at 60 pixels per beat.
const DefaultEdgeWidth = 5.0 / 60.0

// Fractions are the beat fractions the grid steps through when zooming.
var Fractions = []float64{1.0 / 16, 1.0 / 8, 1.0 / 4, 1.0 / 2, 1, 2}

type Cell struct {
	Col int
	Row int
}

type Grid struct {
	Scale        scale.Scale
	BeatFraction float64
	Snap         bool
	EdgeWidth    float64
}

func New(sc scale.Scale, fraction float64) Grid {
	if fraction <= 0 {
		fraction = 0.25
	}
	return Grid{Scale: sc, BeatFraction: fraction, Snap: true, EdgeWidth: DefaultEdgeWidth}
}

// Rows is the number of pitches the scale spans.
func (g Grid) Rows() int { return g.Scale.Len() }

// Time is the beat where column col begins.
func (g Grid) Time(col int) float64 {
	return float64(col) * g.BeatFraction
}

// Column is the column containing beat t.
func (g Grid) Column(t float64) int {
	return int(math.Floor(t / g.BeatFraction))
}

func (g Grid) Pitch(row int) note.Pitch { return g.Scale.PitchAt(row) }

// Row is the row of p, or of the scale pitch just below it.
func (g Grid) Row(p note.Pitch) int { return g.Scale.ScaleIndex(p) }

// Clamp keeps c inside the grid. Columns have no upper bound.
func (g Grid) Clamp(c Cell) Cell {
	return Cell{Col: note.Max(c.Col, 0), Row: note.Clamp(c.Row, 0, g.Rows()-1)}
}

// Point is the middle of cell c, clear of any edge zone narrower than half
// a column.
func (g Grid) Point(c Cell) note.Point {
	return note.Point{
		Time:  g.Time(c.Col) + g.BeatFraction/2,
		Pitch: float64(g.Pitch(c.Row)) + 0.5,
	}
}

// SnapTime floors t to the beat fraction when snapping is on.
func (g Grid) SnapTime(t float64) float64 {
	if !g.Snap {
		return t
	}
	return math.Floor(t/g.BeatFraction) * g.BeatFraction
}

// NoteAt is the note write mode creates at c: one beat fraction long,
// starting on the snapped column time.
func (g Grid) NoteAt(c Cell) note.Note {
	start := g.SnapTime(g.Time(c.Col))
	return note.New(start, start+g.BeatFraction, g.Pitch(c.Row))
}

// Rect is the marquee covering both cells and everything between them.
func (g Grid) Rect(a, b Cell) note.Rect {
	lo := Cell{Col: note.Min(a.Col, b.Col), Row: note.Min(a.Row, b.Row)}
	hi := Cell{Col: note.Max(a.Col, b.Col), Row: note.Max(a.Row, b.Row)}
	plo := float64(g.Pitch(lo.Row))
	phi := float64(g.Pitch(hi.Row)) + 1
	return note.Rect{
		Time:   g.Time(lo.Col),
		Pitch:  plo,
		Width:  g.Time(hi.Col+1) - g.Time(lo.Col),
		Height: phi - plo,
	}
}

// Delta converts a cursor movement into a drag delta. Rows are scale steps.
func (g Grid) Delta(cols, rows int) store.Delta {
	return store.Delta{Time: g.Time(cols), Pitch: rows}
}

// Span returns the first and last columns n covers.
func (g Grid) Span(n note.Note) (first, last int) {
	first = g.Column(n.Start)
	last = int(math.Ceil(n.End/g.BeatFraction)) - 1
	return first, note.Max(first, last)
}

// Zoom steps the beat fraction through Fractions, finer for negative dir.
func (g Grid) Zoom(dir int) Grid {
	i := 0
	for j, f := range Fractions {
		if f <= g.BeatFraction {
			i = j
		}
	}
	g.BeatFraction = Fractions[note.Clamp(i+dir, 0, len(Fractions)-1)]
	return g
}
