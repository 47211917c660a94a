package scalarindex

import (
	"cmp"

	"github.com/hupe1980/scalarindex/binaryset"
	"github.com/hupe1980/scalarindex/bitmap"
	"github.com/hupe1980/scalarindex/dataset"
)

// Kind names the on-disk encoding of an index.
type Kind string

const (
	// KindFixedWidth is the two-blob numeric encoding.
	KindFixedWidth Kind = "fixed-width"
	// KindString is the blob-per-row string encoding.
	KindString Kind = "string"
)

// Index is the capability set shared by FixedWidthIndex and StringIndex.
// Callers that only query or persist should depend on it rather than on a
// concrete type.
type Index[T cmp.Ordered] interface {
	Build(values []T) error
	BuildDataset(ds *dataset.Dataset) error
	Seal() error

	In(values ...T) (*bitmap.Bitmap, error)
	NotIn(values ...T) (*bitmap.Bitmap, error)
	Range(value T, op Operator) (*bitmap.Bitmap, error)
	RangeBetween(lower T, lowerInclusive bool, upper T, upperInclusive bool) (*bitmap.Bitmap, error)

	Serialize() (*binaryset.BinarySet, error)
	Load(bs *binaryset.BinarySet) error

	Len() int
	State() State
}

// Serializer is what Save needs from an index.
type Serializer interface {
	Serialize() (*binaryset.BinarySet, error)
	Len() int
	Kind() Kind
	ValueType() string
}

var (
	_ Index[int64]   = (*FixedWidthIndex[int64])(nil)
	_ Index[float32] = (*FixedWidthIndex[float32])(nil)
	_ Index[string]  = (*StringIndex)(nil)
	_ Serializer     = (*FixedWidthIndex[uint8])(nil)
	_ Serializer     = (*StringIndex)(nil)
)
