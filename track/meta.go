package track

import "time"

// DefaultBPM is the tempo of a new track.
const DefaultBPM = 120.0

// Meta describes a track.
type Meta struct {
	Name string  `json:"name"`
	BPM  float64 `json:"bpm"`
}

// Timing converts beats to wall-clock time for one tempo.
type Timing struct {
	BPM float64
}

func (m Meta) Timing() Timing {
	return Timing{BPM: m.BPM}
}

// BeatsPerSecond is BPM / 60.
func (ti Timing) BeatsPerSecond() float64 {
	return ti.BPM / 60
}

func (ti Timing) ToSeconds(beats float64) float64 {
	return beats / ti.BeatsPerSecond()
}

func (ti Timing) ToDuration(beats float64) time.Duration {
	return time.Duration(ti.ToSeconds(beats) * float64(time.Second))
}

// ToBeats converts seconds back to beats.
func (ti Timing) ToBeats(seconds float64) float64 {
	return seconds * ti.BeatsPerSecond()
}
