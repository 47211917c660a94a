package scalarindex

import "cmp"

// Entry pairs a value with the row it came from.
type Entry[T cmp.Ordered] struct {
	Value    T
	Position uint64
}

// Compare orders entries by value only. Entries with equal values compare
// equal whatever their positions.
func (e Entry[T]) Compare(other Entry[T]) int {
	return cmp.Compare(e.Value, other.Value)
}

// compareEntries is the sort order: value, then position.
func compareEntries[T cmp.Ordered](a, b Entry[T]) int {
	if c := cmp.Compare(a.Value, b.Value); c != 0 {
		return c
	}
	return cmp.Compare(a.Position, b.Position)
}
