package stack

import (
	"errors"
	"testing"
)

func TestStack_New(t *testing.T) {
	s := New[int](Unbounded)

	if !s.IsEmpty() {
		t.Error("New() stack should be empty")
	}

	if s.Size() != 0 {
		t.Errorf("New() stack size = %d, want 0", s.Size())
	}
}

func TestStack_NewWithCapacity(t *testing.T) {
	s := NewWithCapacity[string](Unbounded, 10)

	if !s.IsEmpty() {
		t.Error("NewWithCapacity() stack should be empty")
	}
}

func TestStack_PushAndPop(t *testing.T) {
	s := New[int](Unbounded)

	for _, v := range []int{1, 2, 3} {
		if err := s.Push(v); err != nil {
			t.Fatalf("Push(%d) error = %v", v, err)
		}
	}

	if s.Size() != 3 {
		t.Errorf("Push() stack size = %d, want 3", s.Size())
	}

	// LIFO order
	for _, want := range []int{3, 2, 1} {
		val, ok := s.Pop()
		if !ok || val != want {
			t.Errorf("Pop() = %d, %t, want %d, true", val, ok, want)
		}
	}

	val, ok := s.Pop()
	if ok || val != 0 {
		t.Errorf("Pop() from empty stack = %d, %t, want 0, false", val, ok)
	}
}

func TestStack_Limit(t *testing.T) {
	s := New[string](2)

	if err := s.Push("a"); err != nil {
		t.Fatalf("Push(a) error = %v", err)
	}
	if err := s.Push("b"); err != nil {
		t.Fatalf("Push(b) error = %v", err)
	}
	if err := s.Push("c"); !errors.Is(err, ErrTooDeep) {
		t.Fatalf("Push(c) error = %v, want %v", err, ErrTooDeep)
	}

	if s.Size() != 2 {
		t.Errorf("Size() after refused push = %d, want 2", s.Size())
	}

	s.Pop()
	if err := s.Push("c"); err != nil {
		t.Errorf("Push(c) after Pop() error = %v", err)
	}
}

func TestStack_PeekRef(t *testing.T) {
	s := New[int](Unbounded)

	if s.PeekRef() != nil {
		t.Error("PeekRef() on empty stack should be nil")
	}

	_ = s.Push(1)
	*s.PeekRef() = 42

	val, _ := s.Pop()
	if val != 42 {
		t.Errorf("Pop() after PeekRef() write = %d, want 42", val)
	}
}

func TestStack_ToSlice(t *testing.T) {
	s := New[int](Unbounded)
	_ = s.Push(1)
	_ = s.Push(2)

	got := s.ToSlice()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("ToSlice() = %v, want [1 2]", got)
	}

	got[0] = 99
	if top := s.ToSlice()[0]; top != 1 {
		t.Errorf("ToSlice() shares storage, bottom = %d", top)
	}
}
