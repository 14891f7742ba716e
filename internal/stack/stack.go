// Package stack is the bounded frame stack the streaming decoders use to
// track open containers.
package stack

import (
	"errors"
	"fmt"
	"slices"
)

// ErrTooDeep is returned by Push once the stack holds its limit.
var ErrTooDeep = errors.New("nesting too deep")

// Unbounded disables the depth limit.
const Unbounded = 0

type Stack[T any] struct {
	items []T
	limit int
}

// New returns a stack that refuses to grow past limit items. Unbounded
// disables the check.
func New[T any](limit int) *Stack[T] {
	return &Stack[T]{limit: max(limit, 0)}
}

// NewWithCapacity reduces allocations when the usual depth is known.
func NewWithCapacity[T any](limit int, capacity int) *Stack[T] {
	return &Stack[T]{
		items: make([]T, 0, capacity),
		limit: max(limit, 0),
	}
}

// Push adds an element on top.
func (s *Stack[T]) Push(item T) error {
	if s.limit != Unbounded && len(s.items) >= s.limit {
		return fmt.Errorf("%w: limit is %d", ErrTooDeep, s.limit)
	}
	s.items = append(s.items, item)
	return nil
}

func (s *Stack[T]) Pop() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}

	index := len(s.items) - 1
	item := s.items[index]
	var zero T
	s.items[index] = zero
	s.items = s.items[:index]
	return item, true
}

// PeekRef allows modifying the top element in place. Nil when empty.
func (s *Stack[T]) PeekRef() *T {
	if len(s.items) == 0 {
		return nil
	}

	return &s.items[len(s.items)-1]
}

func (s *Stack[T]) IsEmpty() bool {
	return len(s.items) == 0
}

func (s *Stack[T]) Size() int {
	return len(s.items)
}

// ToSlice orders from bottom to top of the stack.
func (s *Stack[T]) ToSlice() []T {
	return slices.Clone(s.items)
}
