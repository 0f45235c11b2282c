package tui

import (
	"fmt"
	"runtime"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"go-pianoroll/debug"
	"go-pianoroll/editor"
	"go-pianoroll/grid"
	"go-pianoroll/midi"
	"go-pianoroll/note"
	"go-pianoroll/store"
	"go-pianoroll/theme"
	"go-pianoroll/track"
)

// Auditioner sounds a note until released.
type Auditioner interface {
	Play(note.Pitch) error
	Release(note.Pitch) error
	Length() time.Duration
}

type Options struct {
	Grid    grid.Grid
	Rows    int
	Cols    int
	Preview Auditioner        // nil disables audition
	Input   <-chan midi.Event // notes played on a MIDI keyboard, may be nil
}

type Model struct {
	Editor *editor.Editor
	Theme  *theme.Theme

	grid     grid.Grid
	keys     keyMap
	help     help.Model
	showHelp bool

	preview Auditioner
	input   <-chan midi.Event

	cursor     grid.Cell
	top, left  int // highest visible row, first visible column
	rows, cols int
	anchor     *grid.Cell // marquee corner while selecting

	err      error
	status   string
	tooltip  string
	quitting bool
}

type releaseMsg struct{ pitch note.Pitch }

type inputMsg midi.Event

func NewModel(ed *editor.Editor, th *theme.Theme, opts Options) Model {
	m := Model{
		Editor:  ed,
		Theme:   th,
		grid:    opts.Grid,
		keys:    defaultKeys(),
		help:    help.New(),
		preview: opts.Preview,
		input:   opts.Input,
		rows:    note.Max(opts.Rows, 1),
		cols:    note.Max(opts.Cols, 1),
	}
	g := m.view()
	m.cursor = g.Clamp(grid.Cell{Col: g.Column(note.MinPosition), Row: g.Row(note.MustPitch(60))})
	m.top = note.Min(m.cursor.Row+m.rows/2, g.Rows()-1)
	m.follow()
	return m
}

func listenInput(ch <-chan midi.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return inputMsg(ev)
	}
}

func (m Model) Init() tea.Cmd {
	return listenInput(m.input)
}

// view is the grid laid over the active track's scale.
func (m Model) view() grid.Grid {
	g := m.grid
	g.Scale = m.Editor.Scale()
	return g
}

func (m Model) active() *track.Track { return m.Editor.Active() }

func (m Model) Update(msg tea.Msg) (rModel tea.Model, rCmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)
			debug.For("tui").Error("update panic", "panic", r, "stack", string(stack[:n]))
			m.err = fault.New(fmt.Sprintf("caught update panic: %v", r),
				ftag.With(ftag.Internal),
				fmsg.WithDesc(fmt.Sprint(r), "Internal error, see the debug log"))
			rModel, rCmd = m, nil
		}
	}()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.reflow(msg.Width, msg.Height)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case releaseMsg:
		if err := m.preview.Release(msg.pitch); err != nil {
			m.err = err
		}

	case inputMsg:
		m.record(midi.Event(msg))
		return m, listenInput(m.input)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	tr := m.active()
	g := m.view()
	k := m.keys
	m.err, m.status = nil, ""

	if tr == nil {
		switch {
		case key.Matches(msg, k.Quit):
			m.quitting = true
			return tea.Quit
		case key.Matches(msg, k.NewTrack):
			m.Editor.AddTrack("")
		}
		return nil
	}

	switch {
	case key.Matches(msg, k.DragLeft):
		m.drag(tr, g.Delta(-1, 0))
		return nil
	case key.Matches(msg, k.DragRight):
		m.drag(tr, g.Delta(1, 0))
		return nil
	case key.Matches(msg, k.DragUp):
		m.drag(tr, g.Delta(0, 1))
		return nil
	case key.Matches(msg, k.DragDown):
		m.drag(tr, g.Delta(0, -1))
		return nil
	case key.Matches(msg, k.EndShorter):
		m.resize(tr, note.EdgeEnd, -g.BeatFraction)
		return nil
	case key.Matches(msg, k.EndLonger):
		m.resize(tr, note.EdgeEnd, g.BeatFraction)
		return nil
	case key.Matches(msg, k.StartEarlier):
		m.resize(tr, note.EdgeStart, -g.BeatFraction)
		return nil
	case key.Matches(msg, k.StartLater):
		m.resize(tr, note.EdgeStart, g.BeatFraction)
		return nil
	}

	if tr.Gesturing() {
		if key.Matches(msg, k.Drain) {
			tr.CancelGesture()
			return nil
		}
		tr.FinishDrag()
		tr.FinishResize()
		if key.Matches(msg, k.Commit) {
			return nil
		}
	}

	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		return tea.Quit

	case key.Matches(msg, k.Left):
		m.moveCursor(-1, 0)
	case key.Matches(msg, k.Right):
		m.moveCursor(1, 0)
	case key.Matches(msg, k.Up):
		m.moveCursor(0, 1)
	case key.Matches(msg, k.Down):
		m.moveCursor(0, -1)

	case key.Matches(msg, k.Add):
		return m.add(tr, g.NoteAt(m.cursor), track.AddDrain)
	case key.Matches(msg, k.AddKeep):
		return m.add(tr, g.NoteAt(m.cursor), track.AddKeep)

	case key.Matches(msg, k.Select):
		if hit, _, ok := tr.NoteAt(g.Point(m.cursor), g.EdgeWidth); ok {
			tr.ChangeSelection(track.SelectOne{ID: hit.ID})
		}
	case key.Matches(msg, k.Toggle):
		if hit, selected, ok := tr.NoteAt(g.Point(m.cursor), g.EdgeWidth); ok {
			if selected {
				tr.ChangeSelection(track.UnselectOne{ID: hit.ID})
			} else {
				tr.ChangeSelection(track.AddOneToSelected{ID: hit.ID})
			}
		}

	case key.Matches(msg, k.Marquee), key.Matches(msg, k.MarqueeAdd):
		if m.anchor == nil {
			c := m.cursor
			m.anchor = &c
			m.updateMarquee()
		} else {
			tr.FinishSelecting(key.Matches(msg, k.MarqueeAdd))
			m.anchor = nil
		}
	case key.Matches(msg, k.SelectAll):
		tr.ChangeSelection(track.SelectAll{})
	case key.Matches(msg, k.Drain):
		if m.anchor != nil {
			tr.CancelSelecting()
			m.anchor = nil
		} else {
			tr.ChangeSelection(track.DrainSelect{})
		}

	case key.Matches(msg, k.Delete):
		if hit, _, ok := tr.NoteAt(g.Point(m.cursor), g.EdgeWidth); ok {
			tr.Remove(hit.ID)
		} else if !tr.RemoveSelected() {
			m.status = "nothing to delete"
		}

	case key.Matches(msg, k.Undo):
		m.anchor = nil
		if !m.Editor.Undo() {
			m.status = "nothing to undo"
		}
	case key.Matches(msg, k.Redo):
		m.anchor = nil
		if !m.Editor.Redo() {
			m.status = "nothing to redo"
		}

	case key.Matches(msg, k.Copy):
		if m.Editor.Copy() {
			m.status = fmt.Sprintf("copied %d notes", len(m.Editor.Clipboard().Notes))
		} else {
			m.status = "nothing selected"
		}
	case key.Matches(msg, k.Paste):
		if ids := m.Editor.Paste(); len(ids) > 0 {
			m.status = fmt.Sprintf("pasted %d notes", len(ids))
		}
	case key.Matches(msg, k.Head):
		tr.SetPlayerHead(g.Time(m.cursor.Col))

	case key.Matches(msg, k.ZoomIn):
		m.zoom(-1)
	case key.Matches(msg, k.ZoomOut):
		m.zoom(1)
	case key.Matches(msg, k.ScaleToggle):
		pitch := g.Pitch(m.cursor.Row)
		m.Editor.ToggleScale()
		m.retarget(pitch)
	case key.Matches(msg, k.NextTrack):
		pitch := g.Pitch(m.cursor.Row)
		m.anchor = nil
		m.Editor.Cycle(1)
		m.retarget(pitch)
	case key.Matches(msg, k.NewTrack):
		m.anchor = nil
		m.Editor.AddTrack("")
	case key.Matches(msg, k.Help):
		m.showHelp = !m.showHelp
	}
	return nil
}

func (m *Model) drag(tr *track.Track, d store.Delta) {
	if !tr.BeginDrag() {
		m.status = "nothing selected"
		return
	}
	moved := tr.DragBy(d)
	debug.LogEvery(10, "tui", "drag preview %+v", moved)
}

func (m *Model) resize(tr *track.Track, edge note.Edge, dt float64) {
	if !tr.BeginResize(edge) {
		m.status = "nothing selected"
		return
	}
	moved := tr.ResizeBy(edge, dt)
	debug.LogEvery(10, "tui", "resize preview edge=%v by %g", edge, moved)
}

func (m *Model) add(tr *track.Track, n note.Note, mode track.AddMode) tea.Cmd {
	tr.AddNote(n, mode)
	return m.audition(n.Pitch)
}

// audition plays pitch and schedules its release.
func (m *Model) audition(p note.Pitch) tea.Cmd {
	if m.preview == nil {
		return nil
	}
	if err := m.preview.Play(p); err != nil {
		m.err = err
		return nil
	}
	return tea.Tick(m.preview.Length(), func(time.Time) tea.Msg {
		return releaseMsg{pitch: p}
	})
}

// record enters a note played on the MIDI keyboard at the cursor and steps
// the cursor forward.
func (m *Model) record(ev midi.Event) {
	tr := m.active()
	if tr == nil {
		return
	}
	g := m.view()
	start := g.SnapTime(g.Time(m.cursor.Col))
	tr.AddNote(note.New(start, start+g.BeatFraction, ev.Note), track.AddDrain)
	m.cursor = g.Clamp(grid.Cell{Col: m.cursor.Col + 1, Row: g.Row(ev.Note)})
	m.follow()
}

func (m *Model) moveCursor(dc, dr int) {
	m.cursor = m.view().Clamp(grid.Cell{Col: m.cursor.Col + dc, Row: m.cursor.Row + dr})
	m.follow()
	m.updateMarquee()
}

func (m *Model) updateMarquee() {
	tr := m.active()
	if m.anchor == nil || tr == nil {
		return
	}
	a, c := *m.anchor, m.cursor
	direct := note.Rect{
		Time:   float64(a.Col),
		Pitch:  float64(a.Row),
		Width:  float64(c.Col - a.Col),
		Height: float64(c.Row - a.Row),
	}
	tr.SetSelectingSquare(m.view().Rect(a, c), direct)
}

// retarget keeps the cursor on pitch after the row layout changed.
func (m *Model) retarget(p note.Pitch) {
	g := m.view()
	m.cursor = g.Clamp(grid.Cell{Col: m.cursor.Col, Row: g.Row(p)})
	m.top = note.Min(m.cursor.Row+m.rows/2, g.Rows()-1)
	m.follow()
}

func (m *Model) zoom(dir int) {
	t := m.grid.Time(m.cursor.Col)
	m.grid = m.grid.Zoom(dir)
	m.cursor.Col = m.grid.Column(t)
	m.left = m.grid.Column(m.grid.Time(m.left))
	m.follow()
	m.anchor = nil
	if tr := m.active(); tr != nil {
		tr.CancelSelecting()
	}
}

// reflow fits the grid to a terminal of width by height cells.
func (m *Model) reflow(width, height int) {
	m.cols = note.Max(width-gridLeft, 1)
	m.rows = note.Max(height-gridTop-footerLines, 1)
	m.top = note.Min(m.top, m.view().Rows()-1)
	m.follow()
}

// follow scrolls so the cursor is visible.
func (m *Model) follow() {
	if m.cursor.Row > m.top {
		m.top = m.cursor.Row
	}
	if m.cursor.Row < m.top-m.rows+1 {
		m.top = m.cursor.Row + m.rows - 1
	}
	if m.cursor.Col < m.left {
		m.left = m.cursor.Col
	}
	if m.cursor.Col >= m.left+m.cols {
		m.left = m.cursor.Col - m.cols + 1
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	c, ok := m.cellAt(msg.X, msg.Y)
	if !ok {
		m.tooltip = ""
		return
	}
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		m.cursor = c
		m.updateMarquee()
	}
	m.tooltip = m.describe(c)
}

// describe names the note in cell c.
func (m Model) describe(c grid.Cell) string {
	tr := m.active()
	if tr == nil {
		return ""
	}
	g := m.view()
	hit, selected, ok := tr.NoteAt(g.Point(c), g.EdgeWidth)
	if !ok {
		return ""
	}
	n, _, _ := tr.Lookup(hit.ID)
	s := fmt.Sprintf("%s  %.2f-%.2f", n.Pitch, n.Start, n.End)
	if selected {
		s += "  selected"
	}
	return s
}
