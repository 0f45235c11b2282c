package note

import "math"

// Point is a position in musical coordinates. Pitch is fractional so a point
// can sit anywhere inside a lane.
type Point struct {
	Time  float64 `json:"time"`
	Pitch float64 `json:"pitch"`
}

// Lane returns the pitch lane the point falls in, or false when it lies
// outside 0-127.
func (p Point) Lane() (Pitch, bool) {
	lane := math.Floor(p.Pitch)
	if lane < 0 || lane > float64(MaxPitch) {
		return 0, false
	}
	return Pitch(lane), true
}

// Rect is an axis-aligned box anchored at one corner. Width and Height may be
// negative while a marquee is dragged up or left.
type Rect struct {
	Time   float64 `json:"time"`
	Pitch  float64 `json:"pitch"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectBetween builds the rectangle spanned by two corners.
func RectBetween(a, b Point) Rect {
	return Rect{Time: a.Time, Pitch: a.Pitch, Width: b.Time - a.Time, Height: b.Pitch - a.Pitch}
}

// Normalize returns the same box with non-negative extents.
func (r Rect) Normalize() Rect {
	if r.Width < 0 {
		r.Time += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Pitch += r.Height
		r.Height = -r.Height
	}
	return r
}

func (r Rect) TimeRange() (lo, hi float64) {
	n := r.Normalize()
	return n.Time, n.Time + n.Width
}

// Lanes returns the half-open lane range [lo, hi) touched by the box.
func (r Rect) Lanes() (lo, hi int) {
	n := r.Normalize()
	lo = int(math.Floor(n.Pitch))
	hi = int(math.Ceil(n.Pitch + n.Height))
	return Clamp(lo, 0, NumPitches), Clamp(hi, 0, NumPitches)
}

func (r Rect) Empty() bool {
	return r.Width == 0 || r.Height == 0
}

// Intersects reports whether the note shares area with the box.
func (r Rect) Intersects(n Note) bool {
	lo, hi := r.TimeRange()
	plo, phi := r.Lanes()
	return n.Start < hi && n.End > lo && int(n.Pitch) >= plo && int(n.Pitch) < phi
}
