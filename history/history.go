// Package history is a linear undo/redo log. Adding an entry discards
// anything that had been undone.
package history

// Stack holds entries in order with a head marking how many are applied.
type Stack[T any] struct {
	seq  []T
	head int
}

// Add truncates at head, appends a and advances head.
func (s *Stack[T]) Add(a T) {
	clear(s.seq[s.head:])
	s.seq = append(s.seq[:s.head], a)
	s.head++
}

// Undo steps head back and returns the entry to reverse.
func (s *Stack[T]) Undo() (T, bool) {
	var zero T
	if s.head == 0 {
		return zero, false
	}
	s.head--
	return s.seq[s.head], true
}

// Redo returns the entry at head for replay and advances head.
func (s *Stack[T]) Redo() (T, bool) {
	var zero T
	if s.head >= len(s.seq) {
		return zero, false
	}
	a := s.seq[s.head]
	s.head++
	return a, true
}

// Replace swaps the entry most recently redone, or added, for a.
func (s *Stack[T]) Replace(a T) {
	if s.head == 0 {
		panic("history: nothing to replace")
	}
	s.seq[s.head-1] = a
}

// PeekUndo returns the entry the next Undo would return.
func (s *Stack[T]) PeekUndo() (T, bool) {
	var zero T
	if s.head == 0 {
		return zero, false
	}
	return s.seq[s.head-1], true
}

// PeekRedo returns the entry the next Redo would return.
func (s *Stack[T]) PeekRedo() (T, bool) {
	var zero T
	if s.head >= len(s.seq) {
		return zero, false
	}
	return s.seq[s.head], true
}

func (s *Stack[T]) CanUndo() bool { return s.head > 0 }
func (s *Stack[T]) CanRedo() bool { return s.head < len(s.seq) }
func (s *Stack[T]) Len() int      { return len(s.seq) }
func (s *Stack[T]) Head() int     { return s.head }

// Clear drops every entry.
func (s *Stack[T]) Clear() {
	s.seq = nil
	s.head = 0
}
