package track

import (
	"go-pianoroll/note"
	"go-pianoroll/store"
)

// gesture is a drag or resize of the selection that has not been committed.
// Each frame is computed from before, so frames never accumulate error.
type gesture struct {
	kind   Kind
	before []store.Placement
	edge   note.Edge
	delta  store.Delta
	dt     float64
}

// Gesturing reports whether a drag or resize is in progress.
func (t *Track) Gesturing() bool { return t.gesture != nil }

func (t *Track) begin(kind Kind, edge note.Edge) bool {
	if t.gesture != nil && t.gesture.kind == kind && t.gesture.edge == edge {
		return true
	}
	t.settle()
	if t.sel.Notes.IsEmpty() {
		return false
	}
	t.gesture = &gesture{kind: kind, before: t.sel.Notes.Snapshot(), edge: edge}
	return true
}

// BeginDrag starts dragging the selection. It reports false when nothing is
// selected.
func (t *Track) BeginDrag() bool {
	return t.begin(KindDrag, note.EdgeNone)
}

// DragTo previews the selection moved by d from where the drag began and
// returns the delta actually applied. Conflicts are left for FinishDrag.
func (t *Track) DragTo(d store.Delta) store.Delta {
	if !t.BeginDrag() {
		return store.Delta{}
	}
	t.sel.Notes.Reset(t.gesture.before)
	t.gesture.delta = t.sel.Notes.DragAll(d, t.scale)
	return t.gesture.delta
}

// DragBy previews a further move relative to the current preview.
func (t *Track) DragBy(d store.Delta) store.Delta {
	if !t.BeginDrag() {
		return store.Delta{}
	}
	cur := t.gesture.delta
	return t.DragTo(store.Delta{Time: cur.Time + d.Time, Pitch: cur.Pitch + d.Pitch})
}

// FinishDrag commits the drag, resolving conflicts against the free notes.
// A drag that ended where it began records nothing.
func (t *Track) FinishDrag() bool {
	g := t.gesture
	if g == nil || g.kind != KindDrag {
		return false
	}
	t.gesture = nil
	if g.delta.IsZero() {
		t.sel.Notes.Reset(g.before)
		return false
	}
	return t.dispatch(Drag{Before: g.before, Delta: g.delta, Scale: t.scale})
}

// BeginResize starts resizing one edge of every selected note.
func (t *Track) BeginResize(edge note.Edge) bool {
	if edge == note.EdgeNone {
		return false
	}
	return t.begin(KindResize, edge)
}

// ResizeTo previews the edge moved by dt from where the resize began and
// returns the amount actually applied.
func (t *Track) ResizeTo(edge note.Edge, dt float64) float64 {
	if !t.BeginResize(edge) {
		return 0
	}
	t.sel.Notes.Reset(t.gesture.before)
	t.gesture.dt = t.sel.Notes.ResizeAll(edge, dt)
	return t.gesture.dt
}

// ResizeBy previews a further edge move relative to the current preview.
func (t *Track) ResizeBy(edge note.Edge, dt float64) float64 {
	if !t.BeginResize(edge) {
		return 0
	}
	return t.ResizeTo(edge, t.gesture.dt+dt)
}

// FinishResize commits the resize, trimming overlaps between selected notes
// and then against the free notes.
func (t *Track) FinishResize() bool {
	g := t.gesture
	if g == nil || g.kind != KindResize {
		return false
	}
	t.gesture = nil
	if g.dt == 0 {
		t.sel.Notes.Reset(g.before)
		return false
	}
	return t.dispatch(Resize{Before: g.before, Edge: g.edge, Delta: g.dt})
}

// CancelGesture abandons a drag or resize, putting the selection back.
func (t *Track) CancelGesture() {
	if t.gesture == nil {
		return
	}
	t.sel.Notes.Reset(t.gesture.before)
	t.gesture = nil
}
