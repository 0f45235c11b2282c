package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/charmbracelet/lipgloss"

	"go-pianoroll/grid"
	"go-pianoroll/note"
	"go-pianoroll/store"
	"go-pianoroll/track"
	"go-pianoroll/widgets"
)

const (
	labelWidth  = 5
	gridTop     = 2 // header and ruler lines
	gridLeft    = labelWidth + 1
	footerLines = 3 // info, status and short help
)

func (m Model) cellAt(x, y int) (grid.Cell, bool) {
	r, c := y-gridTop, x-gridLeft
	if r < 0 || r >= m.rows || c < 0 || c >= m.cols {
		return grid.Cell{}, false
	}
	row := m.top - r
	if row < 0 {
		return grid.Cell{}, false
	}
	return grid.Cell{Col: m.left + c, Row: row}, true
}

type cellStyles struct {
	empty, black, note, selected, cursor, marquee, dim lipgloss.Style
}

func (m Model) styles() cellStyles {
	th := m.Theme
	base := lipgloss.NewStyle()
	return cellStyles{
		empty:    base.Foreground(th.Muted()),
		black:    base.Foreground(th.Muted()).Background(th.Surface()),
		note:     base.Foreground(th.Note()),
		selected: base.Foreground(th.Selected()),
		cursor:   base.Foreground(th.BG()).Background(th.Cursor()),
		marquee:  base.Foreground(th.BG()).Background(th.Marquee()),
		dim:      base.Foreground(th.FG()),
	}
}

// occupant is the note covering a cell.
type occupant struct {
	note     note.Note
	selected bool
}

// cover finds the note in lane covering [t0, t1), selected notes first.
func cover(tr *track.Track, p note.Pitch, t0, t1 float64) (occupant, bool) {
	for _, s := range []struct {
		st  *store.Store
		sel bool
	}{{tr.Selected(), true}, {tr.Main(), false}} {
		for _, pl := range s.st.Lane(p) {
			if pl.Note.Start >= t1 {
				break
			}
			if pl.Note.End > t0 {
				return occupant{note: pl.Note, selected: s.sel}, true
			}
		}
	}
	return occupant{}, false
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	tr := m.active()
	var out strings.Builder
	out.WriteString(m.header(tr))
	out.WriteString("\n")
	if tr == nil {
		out.WriteString("no tracks, press n to add one\n")
		return out.String()
	}
	out.WriteString(m.ruler())
	out.WriteString("\n")
	out.WriteString(m.roll(tr))
	out.WriteString(m.footer(tr))
	return out.String()
}

func (m Model) header(tr *track.Track) string {
	style := lipgloss.NewStyle().Foreground(m.Theme.Note()).Bold(true)
	if tr == nil {
		return style.Render("go-pianoroll")
	}
	g := m.view()
	sel := tr.Selected().Len()
	return style.Render(fmt.Sprintf("go-pianoroll  %s (%d/%d)  %s  grid %s  head %.2f  %gbpm  notes %d (%d sel)",
		tr.Meta.Name, m.Editor.ActiveIndex()+1, len(m.Editor.Tracks()),
		g.Scale, fraction(g.BeatFraction), tr.PlayerHead(), tr.Meta.BPM, tr.Len(), sel))
}

func fraction(f float64) string {
	if f >= 1 {
		return fmt.Sprintf("%g", f)
	}
	return fmt.Sprintf("1/%d", int(math.Round(1/f)))
}

// ruler numbers the first column of each beat.
func (m Model) ruler() string {
	g := m.view()
	line := []rune(strings.Repeat(" ", gridLeft+m.cols))
	for c := 0; c < m.cols; c++ {
		t := g.Time(m.left + c)
		if t != math.Floor(t) {
			continue
		}
		for i, r := range fmt.Sprintf("%d", int(t)) {
			if gridLeft+c+i < len(line) {
				line[gridLeft+c+i] = r
			}
		}
	}
	return lipgloss.NewStyle().Foreground(m.Theme.FG()).Render(string(line))
}

func (m Model) roll(tr *track.Track) string {
	g := m.view()
	st := m.styles()
	sym := m.Theme.Symbols
	end := tr.EndTime()
	headCol := g.Column(tr.PlayerHead())

	var lo, hi grid.Cell
	if m.anchor != nil {
		a, c := *m.anchor, m.cursor
		lo = grid.Cell{Col: note.Min(a.Col, c.Col), Row: note.Min(a.Row, c.Row)}
		hi = grid.Cell{Col: note.Max(a.Col, c.Col), Row: note.Max(a.Row, c.Row)}
	}

	var out strings.Builder
	for r := 0; r < m.rows; r++ {
		row := m.top - r
		if row < 0 {
			break
		}
		p := g.Pitch(row)
		out.WriteString(widgets.RenderPitchLabel(p, labelWidth, m.Theme.FG(), m.Theme.Surface()))
		out.WriteString(" ")

		for c := 0; c < m.cols; c++ {
			col := m.left + c
			t0, t1 := g.Time(col), g.Time(col+1)
			cell := grid.Cell{Col: col, Row: row}

			ch, style := sym.Cell, st.empty
			if p.IsBlack() {
				style = st.black
			}
			switch {
			case t0 >= end:
				ch = sym.Beyond
			case col == headCol:
				ch = sym.Playhead
			case t0 == math.Floor(t0):
				ch = sym.Beat
			}

			if occ, ok := cover(tr, p, t0, t1); ok {
				ch = sym.NoteBody
				if occ.note.Start >= t0 {
					ch = sym.NoteStart
				}
				style = st.note
				if occ.selected {
					style = st.selected
				}
			}

			inMarquee := m.anchor != nil && col >= lo.Col && col <= hi.Col && row >= lo.Row && row <= hi.Row
			switch {
			case cell == m.cursor:
				if ch == sym.Cell || ch == sym.Beat || ch == sym.Beyond {
					ch = sym.Cursor
				}
				style = st.cursor
			case inMarquee:
				if ch == sym.Cell || ch == sym.Beat {
					ch = sym.Marquee
				}
				style = st.marquee
			}
			out.WriteString(style.Render(string(ch)))
		}
		out.WriteString("\n")
	}
	return out.String()
}

func (m Model) footer(tr *track.Track) string {
	var out strings.Builder
	dim := lipgloss.NewStyle().Foreground(m.Theme.FG())

	g := m.view()
	info := fmt.Sprintf("%s  beat %.2f", g.Pitch(m.cursor.Row), g.Time(m.cursor.Col))
	if d := m.describe(m.cursor); d != "" {
		info += "  [" + d + "]"
	}
	if tr.Gesturing() {
		info += "  editing, enter to commit, esc to cancel"
	}
	if m.anchor != nil {
		info += "  selecting"
	}
	out.WriteString(dim.Render(info))
	out.WriteString("\n")

	switch {
	case m.err != nil:
		errStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())
		msg := fmsg.GetIssue(m.err)
		if msg == "" {
			msg = fault.Flatten(m.err)[0].Message
		}
		out.WriteString(errStyle.Render("ERROR: " + msg))
	case m.status != "":
		out.WriteString(dim.Render(m.status))
	case m.tooltip != "":
		out.WriteString(dim.Render(m.tooltip))
	}
	out.WriteString("\n")

	if m.showHelp {
		out.WriteString(widgets.RenderKeyHelp(m.keys.sections()))
	} else {
		out.WriteString(m.help.View(m.keys))
	}
	return out.String()
}
