package testing

import (
	"fmt"
	"slices"

	"github.com/go-drift/delegapter/pkg/errors"
)

// Slot is one position of a Shadow.
type Slot[T any] struct {
	// Value is the old item occupying the slot. It is the zero value for
	// inserted slots.
	Value    T
	Inserted bool
	Changed  bool
	Payloads []any
}

// Shadow mirrors a list by applying notifications to a copy of its old
// contents. The first invalid notification is kept as the Shadow's error and
// later ones are ignored.
type Shadow[T any] struct {
	slots []Slot[T]
	err   error
}

// NewShadow creates a shadow of old.
func NewShadow[T any](old []T) *Shadow[T] {
	s := &Shadow[T]{slots: make([]Slot[T], len(old))}
	for i, v := range old {
		s.slots[i].Value = v
	}
	return s
}

func (s *Shadow[T]) fail(err error) bool {
	if s.err == nil {
		s.err = err
	}
	return false
}

func (s *Shadow[T]) check(op string, position, count int, inclusive bool) bool {
	if s.err != nil {
		return false
	}
	if count <= 0 {
		return s.fail(errors.Argument(op, "count %d at %d", count, position))
	}
	size := len(s.slots)
	if inclusive {
		if position < 0 || position > size {
			return s.fail(&errors.IndexError{Op: op, Index: position, Size: size, Inclusive: true})
		}
		return true
	}
	if position < 0 || position+count > size {
		return s.fail(&errors.IndexError{Op: op, Index: position + count - 1, Size: size})
	}
	return true
}

func (s *Shadow[T]) OnInserted(position, count int) {
	if !s.check("shadow.OnInserted", position, count, true) {
		return
	}
	s.slots = slices.Insert(s.slots, position, make([]Slot[T], count)...)
	for i := position; i < position+count; i++ {
		s.slots[i].Inserted = true
	}
}

func (s *Shadow[T]) OnRemoved(position, count int) {
	if !s.check("shadow.OnRemoved", position, count, false) {
		return
	}
	s.slots = slices.Delete(s.slots, position, position+count)
}

func (s *Shadow[T]) OnMoved(fromPosition, toPosition int) {
	if !s.check("shadow.OnMoved", fromPosition, 1, false) || !s.check("shadow.OnMoved", toPosition, 1, false) {
		return
	}
	slot := s.slots[fromPosition]
	s.slots = slices.Delete(s.slots, fromPosition, fromPosition+1)
	s.slots = slices.Insert(s.slots, toPosition, slot)
}

func (s *Shadow[T]) OnChanged(position, count int, payload any) {
	if !s.check("shadow.OnChanged", position, count, false) {
		return
	}
	for i := position; i < position+count; i++ {
		s.slots[i].Changed = true
		s.slots[i].Payloads = append(s.slots[i].Payloads, payload)
	}
}

// Err returns the first invalid notification, if any.
func (s *Shadow[T]) Err() error {
	return s.err
}

// Len returns the current number of slots.
func (s *Shadow[T]) Len() int {
	return len(s.slots)
}

// Slots returns the current slots.
func (s *Shadow[T]) Slots() []Slot[T] {
	return s.slots
}

// Verify checks that the notifications turned the old list into want: the
// lengths agree, and every slot that was neither inserted nor changed holds
// an old item equal to the new item at its position.
func (s *Shadow[T]) Verify(want []T, equal func(old, new T) bool) error {
	if s.err != nil {
		return s.err
	}
	if len(s.slots) != len(want) {
		return fmt.Errorf("shadow has %d slots, want %d", len(s.slots), len(want))
	}
	for i, slot := range s.slots {
		if slot.Inserted || slot.Changed {
			continue
		}
		if !equal(slot.Value, want[i]) {
			return fmt.Errorf("slot %d holds %v, want %v", i, slot.Value, want[i])
		}
	}
	return nil
}
