package scalarindex

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/hupe1980/scalarindex/bitmap"
)

// State is where an index is in its lifecycle.
type State uint8

const (
	// StateEmpty holds no rows. Build and Load are allowed.
	StateEmpty State = iota
	// StateUnsorted holds rows in input order. The next query, Seal or
	// Serialize sorts them.
	StateUnsorted
	// StateSorted is terminal. Queries are read-only and safe for concurrent use.
	StateSorted
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateUnsorted:
		return "unsorted"
	case StateSorted:
		return "sorted"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Query kinds reported to loggers and metrics collectors.
const (
	queryIn           = "in"
	queryNotIn        = "not_in"
	queryRange        = "range"
	queryRangeBetween = "range_between"
)

// Stats summarizes the indexed column.
type Stats[T cmp.Ordered] struct {
	Rows     int
	Min      T
	Max      T
	Distinct int
}

// sortedIndex is the engine shared by FixedWidthIndex and StringIndex:
// (value, position) entries sorted by value and searched by binary search.
//
// There is no internal locking. Build or Load must happen-before any query;
// once sorted, every query only reads.
type sortedIndex[T cmp.Ordered] struct {
	entries []Entry[T]
	state   State
	opts    options
	log     *Logger
}

func newSortedIndex[T cmp.Ordered](valueType string, optFns []Option) sortedIndex[T] {
	o := applyOptions(optFns)
	return sortedIndex[T]{
		opts: o,
		log:  o.logger.WithValueType(valueType),
	}
}

// Build assigns values[i] the position i. It does not sort; the index stays
// unsorted until the first query, Seal or Serialize.
//
// Building from zero values succeeds and leaves the index empty; the
// following query reports ErrEmptyInput.
func (x *sortedIndex[T]) Build(values []T) error {
	start := time.Now()
	err := x.build(values)
	x.observeBuild(len(values), start, err)
	return err
}

func (x *sortedIndex[T]) build(values []T) error {
	if x.state != StateEmpty {
		return ErrSealed
	}
	entries := make([]Entry[T], len(values))
	for i, v := range values {
		entries[i] = Entry[T]{Value: v, Position: uint64(i)}
	}
	x.entries = entries
	if len(entries) > 0 {
		x.state = StateUnsorted
	}
	return nil
}

// Seal sorts the entries if they are not sorted yet. It is idempotent and
// fails with ErrEmptyInput when there is nothing to sort.
func (x *sortedIndex[T]) Seal() error {
	if x.state == StateSorted {
		return nil
	}
	start := time.Now()
	err := x.seal()
	x.log.LogSeal(context.Background(), len(x.entries), time.Since(start), err)
	return err
}

func (x *sortedIndex[T]) seal() error {
	if len(x.entries) == 0 {
		return ErrEmptyInput
	}
	// Position breaks ties so equal input always serializes to equal bytes.
	slices.SortFunc(x.entries, compareEntries[T])
	x.state = StateSorted
	return nil
}

// lowerBound returns the first offset whose value is >= v.
func (x *sortedIndex[T]) lowerBound(v T) int {
	return sort.Search(len(x.entries), func(i int) bool {
		return cmp.Compare(x.entries[i].Value, v) >= 0
	})
}

// upperBound returns the first offset whose value is > v.
func (x *sortedIndex[T]) upperBound(v T) int {
	return sort.Search(len(x.entries), func(i int) bool {
		return cmp.Compare(x.entries[i].Value, v) > 0
	})
}

func (x *sortedIndex[T]) newBitmap() *bitmap.Bitmap {
	return bitmap.New(uint64(len(x.entries)))
}

// In returns the rows whose value equals any of values.
func (x *sortedIndex[T]) In(values ...T) (*bitmap.Bitmap, error) {
	start := time.Now()
	bm, err := x.in(values)
	x.observeQuery(queryIn, bm, start, err)
	return bm, err
}

func (x *sortedIndex[T]) in(values []T) (*bitmap.Bitmap, error) {
	if err := x.Seal(); err != nil {
		return nil, err
	}
	bm := x.newBitmap()
	for _, v := range values {
		lo, hi := x.lowerBound(v), x.upperBound(v)
		for i := lo; i < hi; i++ {
			e := x.entries[i]
			if cmp.Compare(e.Value, v) != 0 {
				return nil, x.violation(queryIn, v, i)
			}
			bm.Set(e.Position)
		}
	}
	return bm, nil
}

// NotIn returns the rows whose value equals none of values.
func (x *sortedIndex[T]) NotIn(values ...T) (*bitmap.Bitmap, error) {
	start := time.Now()
	bm, err := x.notIn(values)
	x.observeQuery(queryNotIn, bm, start, err)
	return bm, err
}

func (x *sortedIndex[T]) notIn(values []T) (*bitmap.Bitmap, error) {
	if err := x.Seal(); err != nil {
		return nil, err
	}
	bm := x.newBitmap()
	bm.SetAll()
	for _, v := range values {
		lo, hi := x.lowerBound(v), x.upperBound(v)
		for i := lo; i < hi; i++ {
			e := x.entries[i]
			if cmp.Compare(e.Value, v) != 0 {
				return nil, x.violation(queryNotIn, v, i)
			}
			bm.Reset(e.Position)
		}
	}
	return bm, nil
}

func (x *sortedIndex[T]) violation(op string, query T, offset int) error {
	e := x.entries[offset]
	return &ErrInvariantViolation{
		Op:       op,
		Query:    query,
		Found:    e.Value,
		Offset:   offset,
		Position: e.Position,
	}
}

// Range returns the rows on one side of value.
//
//	OpLessThan     value <  v
//	OpLessEqual    value <= v
//	OpGreaterThan  value >  v
//	OpGreaterEqual value >= v
//
// Any other operator fails with *ErrUnsupportedOperator before the index is
// sorted.
func (x *sortedIndex[T]) Range(value T, op Operator) (*bitmap.Bitmap, error) {
	start := time.Now()
	bm, err := x.rangeOp(value, op)
	x.observeQuery(queryRange, bm, start, err)
	return bm, err
}

func (x *sortedIndex[T]) rangeOp(value T, op Operator) (*bitmap.Bitmap, error) {
	if !op.Valid() {
		return nil, &ErrUnsupportedOperator{Operator: op}
	}
	if err := x.Seal(); err != nil {
		return nil, err
	}

	lo, hi := 0, len(x.entries)
	switch op {
	case OpLessThan:
		hi = x.lowerBound(value)
	case OpLessEqual:
		hi = x.upperBound(value)
	case OpGreaterThan:
		lo = x.upperBound(value)
	case OpGreaterEqual:
		lo = x.lowerBound(value)
	}
	return x.span(lo, hi), nil
}

// RangeBetween returns the rows between lower and upper. Each bound is
// inclusive or exclusive on its own. Reversed bounds are swapped together
// with their inclusiveness, so callers need not order them.
func (x *sortedIndex[T]) RangeBetween(lower T, lowerInclusive bool, upper T, upperInclusive bool) (*bitmap.Bitmap, error) {
	start := time.Now()
	bm, err := x.rangeBetween(lower, lowerInclusive, upper, upperInclusive)
	x.observeQuery(queryRangeBetween, bm, start, err)
	return bm, err
}

func (x *sortedIndex[T]) rangeBetween(lower T, lowerInclusive bool, upper T, upperInclusive bool) (*bitmap.Bitmap, error) {
	if err := x.Seal(); err != nil {
		return nil, err
	}
	if cmp.Compare(lower, upper) > 0 {
		lower, upper = upper, lower
		lowerInclusive, upperInclusive = upperInclusive, lowerInclusive
	}

	var lo, hi int
	if lowerInclusive {
		lo = x.lowerBound(lower)
	} else {
		lo = x.upperBound(lower)
	}
	if upperInclusive {
		hi = x.upperBound(upper)
	} else {
		hi = x.lowerBound(upper)
	}
	return x.span(lo, hi), nil
}

// span sets the positions of entries[lo:hi]. An inverted span is empty.
func (x *sortedIndex[T]) span(lo, hi int) *bitmap.Bitmap {
	bm := x.newBitmap()
	if lo >= hi {
		return bm
	}
	positions := make([]uint64, 0, hi-lo)
	for _, e := range x.entries[lo:hi] {
		positions = append(positions, e.Position)
	}
	bm.SetMany(positions)
	return bm
}

// Len returns the number of indexed rows.
func (x *sortedIndex[T]) Len() int {
	return len(x.entries)
}

// State returns the lifecycle state.
func (x *sortedIndex[T]) State() State {
	return x.state
}

// Entries returns a copy of the entries in their current order: input order
// before the index is sealed, sorted order after.
func (x *sortedIndex[T]) Entries() []Entry[T] {
	return slices.Clone(x.entries)
}

// Stats seals the index and summarizes it.
func (x *sortedIndex[T]) Stats() (Stats[T], error) {
	if err := x.Seal(); err != nil {
		return Stats[T]{}, err
	}
	s := Stats[T]{
		Rows: len(x.entries),
		Min:  x.entries[0].Value,
		Max:  x.entries[len(x.entries)-1].Value,
	}
	for i, e := range x.entries {
		if i == 0 || cmp.Compare(x.entries[i-1].Value, e.Value) != 0 {
			s.Distinct++
		}
	}
	return s, nil
}

func (x *sortedIndex[T]) observeBuild(rows int, start time.Time, err error) {
	d := time.Since(start)
	x.opts.metricsCollector.RecordBuild(rows, d, err)
	x.log.LogBuild(context.Background(), rows, d, err)
}

func (x *sortedIndex[T]) observeQuery(kind string, bm *bitmap.Bitmap, start time.Time, err error) {
	var matches uint64
	if bm != nil {
		matches = bm.Count()
	}
	x.opts.metricsCollector.RecordQuery(kind, matches, time.Since(start), err)
	x.log.LogQuery(context.Background(), kind, matches, err)
}
