package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// Empty cells
	Cell     rune // · inside the track
	Beat     rune // ┊ first column of a beat
	Beyond   rune // - past track end
	Playhead rune // ▏ player head column

	// Note cells
	NoteStart rune // ▐ first column of a note
	NoteBody  rune // █ covered column
	Cursor    rune // ○ cursor on empty

	Marquee rune // ░ inside the selecting square
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Cell:     '·',
			Beat:     '┊',
			Beyond:   '-',
			Playhead: '▏',

			NoteStart: '▐',
			NoteBody:  '█',
			Cursor:    '○',

			Marquee: '░',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG       = 0.0  // deep purple
	RoleSurface  = 0.1  // black keys
	RoleMuted    = 0.2  // grid dots
	RoleFG       = 0.4  // labels
	RoleNote     = 0.5  // unselected notes
	RoleCursor   = 0.6  // cursor
	RoleSelected = 0.8  // selected notes
	RoleWarning  = 0.9  // errors
	RoleMarquee  = 1.0  // selecting square
)

func (t *Theme) BG() lipgloss.Color       { return t.Color(RoleBG) }
func (t *Theme) Surface() lipgloss.Color  { return t.Color(RoleSurface) }
func (t *Theme) FG() lipgloss.Color       { return t.Color(RoleFG) }
func (t *Theme) Muted() lipgloss.Color    { return t.Color(RoleMuted) }
func (t *Theme) Note() lipgloss.Color     { return t.Color(RoleNote) }
func (t *Theme) Selected() lipgloss.Color { return t.Color(RoleSelected) }
func (t *Theme) Cursor() lipgloss.Color   { return t.Color(RoleCursor) }
func (t *Theme) Warning() lipgloss.Color  { return t.Color(RoleWarning) }
func (t *Theme) Marquee() lipgloss.Color  { return t.Color(RoleMarquee) }

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return Hex(t.Palette.Lookup(norm))
}

func Hex(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
