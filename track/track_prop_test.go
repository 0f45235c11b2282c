package track

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"go-pianoroll/note"
	"go-pianoroll/scale"
	"go-pianoroll/store"
)

func genNote() *rapid.Generator[note.Note] {
	return rapid.Custom(func(t *rapid.T) note.Note {
		start := float64(rapid.IntRange(4, 40).Draw(t, "start")) / 4
		length := float64(rapid.IntRange(1, 12).Draw(t, "len")) / 4
		return n(start, start+length, rapid.IntRange(59, 64).Draw(t, "pitch"))
	})
}

func requireConsistent(t require.TestingT, tr *Track) {
	for _, s := range []*store.Store{tr.Main(), tr.Selected()} {
		for p := 0; p < note.NumPitches; p++ {
			lane := s.Lane(note.Pitch(p))
			for i := 1; i < len(lane); i++ {
				require.LessOrEqual(t, lane[i-1].Note.End, lane[i].Note.Start, "lane %d overlaps", p)
			}
		}
	}
	tr.Main().Each(func(_ store.ID, m note.Note) {
		tr.Selected().Each(func(_ store.ID, x note.Note) {
			require.False(t, m.Overlaps(x), "%v overlaps selected %v", m, x)
		})
	})
}

func anyID(t *rapid.T, s *store.Store) (store.ID, bool) {
	ids := s.IDs()
	if len(ids) == 0 {
		return 0, false
	}
	return rapid.SampledFrom(ids).Draw(t, "id"), true
}

// step performs one random user command.
func step(t *rapid.T, tr *Track) {
	total := tr.Len()
	switch rapid.IntRange(0, 9).Draw(t, "op") {
	case 0:
		mode := AddMode(rapid.IntRange(0, 1).Draw(t, "mode"))
		tr.AddNote(genNote().Draw(t, "note"), mode)
	case 1:
		tr.AddNotes(rapid.SliceOfN(genNote(), 0, 4).Draw(t, "paste"))
	case 2:
		if id, ok := anyID(t, tr.Main()); ok {
			tr.Remove(id)
		} else if id, ok := anyID(t, tr.Selected()); ok {
			tr.Remove(id)
		}
	case 3:
		tr.RemoveSelected()
	case 4:
		tr.DragTo(store.Delta{
			Time:  float64(rapid.IntRange(-16, 16).Draw(t, "dt")) / 4,
			Pitch: rapid.IntRange(-2, 2).Draw(t, "dp"),
		})
		tr.FinishDrag()
	case 5:
		edge := rapid.SampledFrom([]note.Edge{note.EdgeStart, note.EdgeEnd}).Draw(t, "edge")
		tr.ResizeTo(edge, float64(rapid.IntRange(-8, 8).Draw(t, "dt"))/4)
		tr.FinishResize()
	case 6:
		start := genNote().Draw(t, "corner")
		r := note.Rect{Time: start.Start, Pitch: float64(start.Pitch), Width: 3, Height: 2}
		tr.SetSelectingSquare(r, r)
		tr.FinishSelecting(rapid.Bool().Draw(t, "additive"))
		require.Equal(t, total, tr.Len())
	default:
		var trans Transition
		switch rapid.IntRange(0, 6).Draw(t, "transition") {
		case 0:
			trans = DrainSelect{}
		case 1:
			trans = SelectAll{}
		case 2, 3:
			if id, ok := anyID(t, tr.Main()); ok {
				if rapid.Bool().Draw(t, "replace") {
					trans = SelectOne{ID: id}
				} else {
					trans = AddOneToSelected{ID: id}
				}
			}
		case 4:
			if id, ok := anyID(t, tr.Selected()); ok {
				trans = UnselectOne{ID: id}
			}
		case 5:
			if id, ok := anyID(t, tr.Selected()); ok {
				trans = UnselectAllButOne{ID: id}
			}
		case 6:
			trans = SelectMany{IDs: tr.Main().IDs()}
		}
		if trans != nil {
			tr.ChangeSelection(trans)
			require.Equal(t, total, tr.Len(), "transition %v changed the note count", trans)
		}
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tr := NewDefault("prop", scale.New(scale.Major, 0))
		seed := stateOf(tr)

		steps := rapid.IntRange(1, 25).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			step(t, tr)
			requireConsistent(t, tr)
		}
		final := stateOf(tr)

		for tr.Undo() {
			requireConsistent(t, tr)
		}
		require.Equal(t, seed, stateOf(tr))

		for tr.Redo() {
			requireConsistent(t, tr)
		}
		require.Equal(t, final, stateOf(tr))
	})
}

func TestUndoThenNewEditDropsRedo(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tr := NewDefault("prop", scale.New(scale.Chromatic, 0))
		for i := 0; i < 5; i++ {
			step(t, tr)
		}
		tr.Undo()
		tr.AddNote(genNote().Draw(t, "fresh"), AddDrain)
		require.False(t, tr.CanRedo())
		requireConsistent(t, tr)
	})
}
