package note

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

// Pitch is a MIDI note number. Valid pitches are 0-127.
type Pitch uint8

const (
	MinPitch Pitch = 0
	MaxPitch Pitch = 127

	// NumPitches is the number of pitch lanes.
	NumPitches = 128
)

// Labels are the pitch class names, C first.
var Labels = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// MustPitch converts an int to a Pitch, panicking when it is out of range.
func MustPitch(v int) Pitch {
	if v < int(MinPitch) || v > int(MaxPitch) {
		panic(fmt.Sprintf("note: pitch %d out of range", v))
	}
	return Pitch(v)
}

// Valid reports whether p is a MIDI pitch.
func (p Pitch) Valid() bool {
	return p <= MaxPitch
}

// Class returns the pitch class 0-11.
func (p Pitch) Class() int {
	return int(p) % 12
}

// Octave uses the convention where pitch 60 is in octave 3.
func (p Pitch) Octave() int {
	return int(p)/12 - 2
}

func (p Pitch) Name() string {
	return Labels[p.Class()]
}

// IsBlack reports whether p falls on a black piano key.
func (p Pitch) IsBlack() bool {
	return strings.HasSuffix(p.Name(), "#")
}

func (p Pitch) String() string {
	return p.Name() + strconv.Itoa(p.Octave())
}

// ParsePitch parses names such as "C3", "F#-1" and "Db4".
func ParsePitch(s string) (Pitch, error) {
	name := strings.TrimSpace(s)
	if name == "" {
		return 0, invalidPitch(s, "empty pitch name")
	}

	class, ok := classOf(name[0])
	if !ok {
		return 0, invalidPitch(s, "unknown note letter")
	}
	rest := name[1:]
	if len(rest) > 0 {
		switch rest[0] {
		case '#':
			class++
			rest = rest[1:]
		case 'b':
			class--
			rest = rest[1:]
		}
	}

	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fault.Wrap(err,
			ftag.With(ftag.InvalidArgument),
			fmsg.WithDesc("parse octave", fmt.Sprintf("%q has no valid octave", s)))
	}

	v := class + (octave+2)*12
	if v < int(MinPitch) || v > int(MaxPitch) {
		return 0, invalidPitch(s, "pitch out of MIDI range")
	}
	return Pitch(v), nil
}

func classOf(letter byte) (int, bool) {
	switch letter {
	case 'C', 'c':
		return 0, true
	case 'D', 'd':
		return 2, true
	case 'E', 'e':
		return 4, true
	case 'F', 'f':
		return 5, true
	case 'G', 'g':
		return 7, true
	case 'A', 'a':
		return 9, true
	case 'B', 'b':
		return 11, true
	}
	return 0, false
}

func invalidPitch(s, reason string) error {
	return fault.New(reason,
		ftag.With(ftag.InvalidArgument),
		fmsg.WithDesc(reason, fmt.Sprintf("%q is not a valid pitch", s)))
}
