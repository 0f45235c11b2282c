// Package editor holds the tracks of a session and the history shared
// between them.
package editor

import (
	"fmt"

	"github.com/google/uuid"

	"go-pianoroll/debug"
	"go-pianoroll/history"
	"go-pianoroll/note"
	"go-pianoroll/scale"
	"go-pianoroll/store"
	"go-pianoroll/track"
)

// Editor owns every track. Each substantive action a track records is
// logged here against the track's ID so that Undo and Redo walk edits in
// the order they were made, whichever track they touched.
type Editor struct {
	tracks []*track.Track
	byID   map[uuid.UUID]*track.Track
	active int
	log    history.Stack[uuid.UUID]
	clip   *Clipboard
	scale  scale.Scale
}

// New creates an editor with no tracks. sc is the scale new tracks use and
// the one ToggleScale returns to from chromatic.
func New(sc scale.Scale) *Editor {
	return &Editor{byID: make(map[uuid.UUID]*track.Track), scale: sc}
}

// NewDefault creates an editor holding one seeded track.
func NewDefault(sc scale.Scale) *Editor {
	e := New(sc)
	e.adopt(track.NewDefault("Track 1", sc))
	return e
}

// AddTrack appends an empty track and makes it active.
func (e *Editor) AddTrack(name string) *track.Track {
	if name == "" {
		name = fmt.Sprintf("Track %d", len(e.tracks)+1)
	}
	sc := e.scale
	if cur := e.Active(); cur != nil {
		sc = cur.Scale()
	}
	t := track.New(name, sc)
	e.adopt(t)
	e.active = len(e.tracks) - 1
	return t
}

func (e *Editor) adopt(t *track.Track) {
	e.tracks = append(e.tracks, t)
	e.byID[t.ID] = t
	t.OnRecord(func(a track.Action) {
		e.log.Add(t.ID)
		debug.Log("editor", "track=%s recorded %s (log head=%d)", t.Meta.Name, a.Kind(), e.log.Head())
	})
}

func (e *Editor) Tracks() []*track.Track { return e.tracks }

func (e *Editor) Track(id uuid.UUID) (*track.Track, bool) {
	t, ok := e.byID[id]
	return t, ok
}

// Active returns the track being edited, or nil when there are none.
func (e *Editor) Active() *track.Track {
	if len(e.tracks) == 0 {
		return nil
	}
	return e.tracks[e.active]
}

func (e *Editor) ActiveIndex() int { return e.active }

// SetActive focuses track i, ignoring out-of-range indices.
func (e *Editor) SetActive(i int) {
	if i < 0 || i >= len(e.tracks) {
		return
	}
	if cur := e.Active(); cur != nil {
		cur.CancelSelecting()
		cur.FinishDrag()
		cur.FinishResize()
	}
	e.active = i
}

// Cycle moves focus by step tracks, wrapping around.
func (e *Editor) Cycle(step int) {
	if len(e.tracks) == 0 {
		return
	}
	n := len(e.tracks)
	e.SetActive(((e.active+step)%n + n) % n)
}

// settle commits open gestures so their records land in the log before it
// is walked.
func (e *Editor) settle() {
	for _, t := range e.tracks {
		t.Settle()
	}
}

// Undo reverses the latest edit of any track.
func (e *Editor) Undo() bool {
	e.settle()
	id, ok := e.log.Undo()
	if !ok {
		return false
	}
	t := e.byID[id]
	debug.Log("editor", "undo on track=%s", t.Meta.Name)
	return t.Undo()
}

// Redo replays the next undone edit of any track.
func (e *Editor) Redo() bool {
	e.settle()
	id, ok := e.log.Redo()
	if !ok {
		return false
	}
	t := e.byID[id]
	debug.Log("editor", "redo on track=%s", t.Meta.Name)
	return t.Redo()
}

func (e *Editor) CanUndo() bool { return e.log.CanUndo() }
func (e *Editor) CanRedo() bool { return e.log.CanRedo() }

// ToggleScale flips every track between chromatic and the editor scale.
func (e *Editor) ToggleScale() {
	for _, t := range e.tracks {
		t.SetScale(t.Scale().Toggle(e.scale))
	}
}

// Scale is the scale of the active track, or the editor scale.
func (e *Editor) Scale() scale.Scale {
	if t := e.Active(); t != nil {
		return t.Scale()
	}
	return e.scale
}

// Clipboard holds copied notes and where the player head was when they were
// copied.
type Clipboard struct {
	Notes      []note.Note
	PlayerHead float64
}

func (e *Editor) Clipboard() *Clipboard { return e.clip }

// Copy puts the active selection on the clipboard. It reports false when
// nothing is selected.
func (e *Editor) Copy() bool {
	t := e.Active()
	if t == nil || t.Selected().IsEmpty() {
		return false
	}
	e.clip = &Clipboard{Notes: t.Selected().Notes(), PlayerHead: t.PlayerHead()}
	return true
}

// Paste adds the clipboard to the active track, keeping each note's offset
// from the player head. The paste is shifted later if it would start before
// note.MinPosition.
func (e *Editor) Paste() []store.ID {
	t := e.Active()
	if t == nil || e.clip == nil || len(e.clip.Notes) == 0 {
		return nil
	}
	offset := t.PlayerHead() - e.clip.PlayerHead
	earliest := e.clip.Notes[0].Start
	for _, n := range e.clip.Notes {
		earliest = note.Min(earliest, n.Start)
	}
	if earliest+offset < note.MinPosition {
		offset = note.MinPosition - earliest
	}

	notes := make([]note.Note, len(e.clip.Notes))
	for i, n := range e.clip.Notes {
		notes[i] = n.Reposition(offset, n.Pitch)
	}
	return t.AddNotes(notes)
}
