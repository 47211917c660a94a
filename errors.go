package scalarindex

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when an index with no rows has to be sorted,
	// queried or serialized.
	ErrEmptyInput = errors.New("scalarindex: empty input")

	// ErrCorruptIndex is returned when a blob set cannot be loaded: a blob is
	// missing, has the wrong size, carries an invalid name, or fails
	// verification.
	ErrCorruptIndex = errors.New("scalarindex: corrupt index")

	// ErrSealed is returned by Build and Load on an index that already holds rows.
	ErrSealed = errors.New("scalarindex: index already populated")

	// ErrValueTypeMismatch is returned when a persisted index was written for a
	// different value type than the one it is opened as.
	ErrValueTypeMismatch = errors.New("scalarindex: value type mismatch")
)

// ErrUnsupportedOperator indicates a single-sided range operator the index
// does not understand.
type ErrUnsupportedOperator struct {
	Operator Operator
}

func (e *ErrUnsupportedOperator) Error() string {
	return fmt.Sprintf("scalarindex: unsupported operator %q", string(e.Operator))
}

// ErrInvariantViolation reports a binary-search match whose value disagrees
// with the query value. It means the sorted order is broken, usually because
// a loaded blob set was not produced by Serialize.
//
// The query that hit it is aborted; no partial bitmap is returned.
type ErrInvariantViolation struct {
	// Op is the query kind ("in" or "not_in").
	Op string
	// Query is the value that was searched for.
	Query any
	// Found is the value stored at Offset.
	Found any
	// Offset is the index into the sorted entries.
	Offset int
	// Position is the row position stored at Offset.
	Position uint64
}

func (e *ErrInvariantViolation) Error() string {
	return fmt.Sprintf("scalarindex: invariant violation in %s: query %v matched %v at offset %d (position %d)",
		e.Op, e.Query, e.Found, e.Offset, e.Position)
}

// Is reports ErrInvariantViolation as a kind of ErrCorruptIndex.
func (e *ErrInvariantViolation) Is(target error) bool {
	return target == ErrCorruptIndex
}

func corruptf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptIndex, fmt.Sprintf(format, args...))
}
