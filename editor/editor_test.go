package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-pianoroll/note"
	"go-pianoroll/scale"
	"go-pianoroll/store"
	"go-pianoroll/track"
)

func n(start, end float64, pitch int) note.Note {
	return note.New(start, end, note.MustPitch(pitch))
}

func TestUndoFollowsTrackOrder(t *testing.T) {
	assert := assert.New(t)
	e := NewDefault(scale.New(scale.Chromatic, 0))
	first := e.Active()
	second := e.AddTrack("")
	assert.Equal("Track 2", second.Meta.Name)
	assert.Same(second, e.Active())

	first.AddNote(n(8, 9, 60), track.AddDrain)
	second.AddNote(n(1, 2, 60), track.AddDrain)
	first.ChangeSelection(track.DrainSelect{})
	first.AddNote(n(10, 11, 60), track.AddDrain)

	require.True(t, e.Undo())
	assert.Equal(4, first.Len())
	assert.Equal(1, second.Len())

	require.True(t, e.Undo())
	assert.Zero(second.Len())

	require.True(t, e.Undo())
	assert.Equal(3, first.Len())
	assert.False(e.Undo())

	require.True(t, e.Redo())
	require.True(t, e.Redo())
	assert.Equal(4, first.Len())
	assert.Equal(1, second.Len())
	assert.True(e.CanRedo())
}

func TestActiveTrackSwitching(t *testing.T) {
	assert := assert.New(t)
	e := New(scale.Default())
	assert.Nil(e.Active())
	e.Cycle(1)

	a := e.AddTrack("a")
	b := e.AddTrack("b")
	e.Cycle(1)
	assert.Same(a, e.Active())
	e.Cycle(-1)
	assert.Same(b, e.Active())
	e.SetActive(7)
	assert.Same(b, e.Active())

	got, ok := e.Track(a.ID)
	assert.True(ok)
	assert.Same(a, got)
	assert.Len(e.Tracks(), 2)
}

func TestToggleScale(t *testing.T) {
	e := NewDefault(scale.Default())
	assert.Equal(t, scale.Minor, e.Scale().Type())
	e.ToggleScale()
	assert.Equal(t, scale.Chromatic, e.Scale().Type())
	e.ToggleScale()
	assert.Equal(t, scale.Minor, e.Scale().Type())
}

func TestCopyPasteFollowsPlayerHead(t *testing.T) {
	assert := assert.New(t)
	e := NewDefault(scale.New(scale.Chromatic, 0))
	tr := e.Active()

	assert.False(e.Copy())
	assert.Nil(e.Paste())

	tr.ChangeSelection(track.SelectAll{})
	tr.SetPlayerHead(1)
	require.True(t, e.Copy())

	tr.SetPlayerHead(9)
	ids := e.Paste()
	require.Len(t, ids, 3)
	assert.Equal(6, tr.Len())
	assert.Equal([]note.Note{n(9, 10.5, 53), n(11, 12.5, 53), n(10, 11.5, 55)}, tr.Selected().Notes())

	require.True(t, e.Undo())
	assert.Equal(3, tr.Len())
}

func TestPasteNeverStartsBeforeMinPosition(t *testing.T) {
	e := NewDefault(scale.New(scale.Chromatic, 0))
	tr := e.Active()
	tr.ChangeSelection(track.SelectAll{})
	tr.SetPlayerHead(4)
	require.True(t, e.Copy())

	tr.SetPlayerHead(0)
	ids := e.Paste()

	first := tr.Selected().Get(ids[0])
	assert.Equal(t, note.MinPosition, first.Start)
}

func TestUndoCommitsOpenDrag(t *testing.T) {
	assert := assert.New(t)
	e := NewDefault(scale.New(scale.Chromatic, 0))
	tr := e.Active()
	tr.AddNote(n(8, 9, 60), track.AddDrain)
	tr.DragTo(store.Delta{Time: 1})

	require.True(t, e.Undo())
	assert.Equal([]note.Note{n(8, 9, 60)}, tr.Selected().Notes())
	assert.True(e.CanRedo())

	require.True(t, e.Redo())
	assert.Equal([]note.Note{n(9, 10, 60)}, tr.Selected().Notes())
	assert.False(e.CanRedo())
}

func TestRedoCommitsOpenDrag(t *testing.T) {
	assert := assert.New(t)
	e := NewDefault(scale.New(scale.Chromatic, 0))
	tr := e.Active()
	tr.AddNote(n(8, 9, 60), track.AddDrain)
	require.True(t, e.Undo())
	assert.True(e.CanRedo())

	tr.AddNote(n(12, 13, 62), track.AddDrain)
	tr.DragTo(store.Delta{Time: 1})
	assert.False(e.Redo(), "the committed drag discards the redo branch")
	assert.Equal([]note.Note{n(13, 14, 62)}, tr.Selected().Notes())

	require.True(t, e.Undo())
	assert.Equal([]note.Note{n(12, 13, 62)}, tr.Selected().Notes())
}
