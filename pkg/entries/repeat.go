package entries

import "slices"

// Repeat is a read-only view of N logical copies of one value. Inserting it
// into a slice grows the destination once and fills the gap in place, so a
// bulk add under one kind never materializes an intermediate N-slot slice.
type Repeat[T any] struct {
	elem T
	n    int
}

// RepeatOf returns a view of n copies of elem.
func RepeatOf[T any](elem T, n int) Repeat[T] {
	return Repeat[T]{elem: elem, n: max(n, 0)}
}

// Len returns the number of logical copies.
func (r Repeat[T]) Len() int {
	return r.n
}

// At returns the element for any i in [0, Len).
func (r Repeat[T]) At(i int) T {
	if i < 0 || i >= r.n {
		panic(indexError("Repeat.At", i, r.n))
	}
	return r.elem
}

// InsertInto inserts the copies into dst at position at and returns the
// updated slice. at must be in [0, len(dst)].
func (r Repeat[T]) InsertInto(dst []T, at int) []T {
	if r.n == 0 {
		return dst
	}
	oldLen := len(dst)
	dst = slices.Grow(dst, r.n)[:oldLen+r.n]
	copy(dst[at+r.n:], dst[at:oldLen])
	for i := at; i < at+r.n; i++ {
		dst[i] = r.elem
	}
	return dst
}
