// Package scale maps chromatic MIDI pitches to scale-relative rows and back.
package scale

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"

	"go-pianoroll/note"
)

// Type identifies a family of intervals.
type Type string

const (
	Major      Type = "major"
	Minor      Type = "minor"
	Pentatonic Type = "pentatonic"
	Blues      Type = "blues"
	Chromatic  Type = "chromatic"
	Custom     Type = "custom"
)

// Types lists the built-in scale types in display order.
var Types = []Type{Major, Minor, Pentatonic, Blues, Chromatic}

var intervals = map[Type][]int{
	Major:      {0, 2, 4, 5, 7, 9, 11},
	Minor:      {0, 2, 3, 5, 7, 8, 10},
	Pentatonic: {0, 2, 4, 7, 9},
	Blues:      {0, 3, 5, 6, 7, 10},
	Chromatic:  {0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
}

// ParseType accepts a built-in type name, case-insensitively.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := intervals[t]; !ok {
		return "", fault.New("unknown scale type",
			ftag.With(ftag.InvalidArgument),
			fmsg.WithDesc("unknown scale type "+s, fmt.Sprintf("%q is not a scale, try one of %v", s, Types)))
	}
	return t, nil
}

// Scale is immutable once built. The zero value has no pitches and must not
// be used.
type Scale struct {
	typ     Type
	root    int
	classes []int
	pitches []note.Pitch
}

func New(t Type, root int) Scale {
	iv, ok := intervals[t]
	if !ok {
		panic(fmt.Sprintf("scale: unknown type %q", t))
	}
	return build(t, iv, root)
}

// NewCustom builds a scale from intervals above the root.
func NewCustom(iv []int, root int) Scale {
	if len(iv) == 0 {
		panic("scale: custom scale needs at least one interval")
	}
	return build(Custom, iv, root)
}

// Default is D minor.
func Default() Scale {
	return New(Minor, 2)
}

func build(t Type, iv []int, root int) Scale {
	root = ((root % 12) + 12) % 12
	seen := make(map[int]bool, len(iv))
	var classes []int
	for _, x := range iv {
		c := ((x+root)%12 + 12) % 12
		if !seen[c] {
			seen[c] = true
			classes = append(classes, c)
		}
	}
	sort.Ints(classes)

	var pitches []note.Pitch
	for p := 0; p < note.NumPitches; p++ {
		if seen[p%12] {
			pitches = append(pitches, note.Pitch(p))
		}
	}
	return Scale{typ: t, root: root, classes: classes, pitches: pitches}
}

func (s Scale) Type() Type { return s.typ }
func (s Scale) Root() int  { return s.root }

// Size is the number of degrees per octave.
func (s Scale) Size() int {
	return len(s.classes)
}

// Len is the number of MIDI pitches in the scale.
func (s Scale) Len() int {
	return len(s.pitches)
}

func (s Scale) Contains(p note.Pitch) bool {
	i := sort.Search(len(s.pitches), func(i int) bool { return s.pitches[i] >= p })
	return i < len(s.pitches) && s.pitches[i] == p
}

// ScaleIndex returns the row of the highest scale pitch at or below p.
// Pitches below the lowest scale pitch map to row 0.
func (s Scale) ScaleIndex(p note.Pitch) int {
	i := sort.Search(len(s.pitches), func(i int) bool { return s.pitches[i] > p }) - 1
	if i < 0 {
		return 0
	}
	return i
}

// PitchAt returns the pitch of row i, clamped to the scale range.
func (s Scale) PitchAt(i int) note.Pitch {
	if len(s.pitches) == 0 {
		panic("scale: empty scale")
	}
	return s.pitches[note.Clamp(i, 0, len(s.pitches)-1)]
}

// Range returns the scale pitches in [start, start+size).
func (s Scale) Range(start note.Pitch, size int) []note.Pitch {
	var out []note.Pitch
	for _, p := range s.pitches {
		if int(p) >= int(start) && int(p) < int(start)+size {
			out = append(out, p)
		}
	}
	return out
}

// Toggle switches between chromatic and other. It returns chromatic unless s
// already is chromatic.
func (s Scale) Toggle(other Scale) Scale {
	if s.typ == Chromatic {
		return other
	}
	return New(Chromatic, s.root)
}

func (s Scale) String() string {
	return fmt.Sprintf("%s %s", note.Labels[s.root], s.typ)
}

// ParseRoot accepts a pitch class name such as "D" or "F#", or a number
// 0-11.
func ParseRoot(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 11 {
			return 0, fault.New("root out of range",
				ftag.With(ftag.InvalidArgument),
				fmsg.WithDesc("root out of range", fmt.Sprintf("Root %d must be 0-11", n)))
		}
		return n, nil
	}
	p, err := note.ParsePitch(s + "4")
	if err != nil {
		return 0, fault.Wrap(err, fmsg.WithDesc("parse root", fmt.Sprintf("%q is not a note name", s)))
	}
	return p.Class(), nil
}
