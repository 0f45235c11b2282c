package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUndoRedo(t *testing.T) {
	assert := assert.New(t)
	var s Stack[string]

	_, ok := s.Undo()
	assert.False(ok)
	_, ok = s.Redo()
	assert.False(ok)

	s.Add("a")
	s.Add("b")
	assert.Equal(2, s.Head())

	got, ok := s.Undo()
	assert.True(ok)
	assert.Equal("b", got)
	assert.True(s.CanRedo())

	got, ok = s.Redo()
	assert.True(ok)
	assert.Equal("b", got)
	assert.False(s.CanRedo())
}

func TestAddTruncatesRedoBranch(t *testing.T) {
	assert := assert.New(t)
	var s Stack[int]
	s.Add(1)
	s.Add(2)
	s.Add(3)
	s.Undo()
	s.Undo()

	s.Add(4)

	assert.Equal(2, s.Len())
	assert.False(s.CanRedo())
	got, _ := s.Undo()
	assert.Equal(4, got)
	got, _ = s.Undo()
	assert.Equal(1, got)
	assert.False(s.CanUndo())
}

func TestReplaceAndPeek(t *testing.T) {
	assert := assert.New(t)
	var s Stack[int]
	assert.Panics(func() { s.Replace(1) })

	s.Add(1)
	s.Add(2)
	s.Undo()
	next, ok := s.PeekRedo()
	assert.True(ok)
	assert.Equal(2, next)

	s.Redo()
	s.Replace(20)
	prev, _ := s.PeekUndo()
	assert.Equal(20, prev)

	s.Clear()
	assert.Zero(s.Len())
	_, ok = s.PeekUndo()
	assert.False(ok)
}
