package abc

import (
	"iter"

	"github.com/wippyai/swf-abc/errors"
)

// Table is a constant-pool style table where index 0 is a reserved
// sentinel and stored entries occupy indices 1..N.
type Table[T any] struct {
	name     string
	sentinel T
	entries  []T
}

func newTable[T any](name string, sentinel T, capacity int) Table[T] {
	return Table[T]{name: name, sentinel: sentinel, entries: make([]T, 0, capacity)}
}

func (t *Table[T]) add(v T) {
	t.entries = append(t.entries, v)
}

// Len returns the number of addressable indices, including the sentinel.
// Valid indices are 0..Len()-1.
func (t Table[T]) Len() int {
	return len(t.entries) + 1
}

// Count returns the number of stored entries (excluding the sentinel).
func (t Table[T]) Count() int {
	return len(t.entries)
}

// Valid reports whether i addresses the sentinel or a stored entry.
func (t Table[T]) Valid(i uint32) bool {
	return uint64(i) <= uint64(len(t.entries))
}

// Get resolves index i: 0 yields the sentinel, 1..N the stored entries.
func (t Table[T]) Get(i uint32) (T, error) {
	if i == 0 {
		return t.sentinel, nil
	}
	if !t.Valid(i) {
		var zero T
		return zero, errors.OutOfBounds(errors.PhaseQuery, []string{t.name}, int(i), t.Len())
	}
	return t.entries[i-1], nil
}

// Sentinel returns the value index 0 resolves to.
func (t Table[T]) Sentinel() T {
	return t.sentinel
}

// All iterates the stored entries with their pool indices, starting at 1.
func (t Table[T]) All() iter.Seq2[uint32, T] {
	return func(yield func(uint32, T) bool) {
		for i, v := range t.entries {
			if !yield(uint32(i+1), v) {
				return
			}
		}
	}
}

// check returns a validation error when i is out of range.
func (t Table[T]) check(i uint32, path ...string) error {
	if t.Valid(i) {
		return nil
	}
	return errors.New(errors.PhaseValidate, errors.KindOutOfBounds).
		Path(path...).
		Value(i).
		Detail("%s index %d out of bounds (length %d)", t.name, i, t.Len()).
		Build()
}
