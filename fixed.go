package scalarindex

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/hupe1980/scalarindex/binaryset"
	"github.com/hupe1980/scalarindex/dataset"
	"github.com/hupe1980/scalarindex/internal/conv"
	"github.com/hupe1980/scalarindex/internal/scalar"
)

// Numeric is the set of value types FixedWidthIndex accepts: every Go
// integer and floating-point kind. int and uint are stored as 8 bytes.
type Numeric = scalar.Numeric

// Blob names written by FixedWidthIndex.Serialize.
const (
	// BlobIndexLength holds the row count as a little-endian uint64.
	BlobIndexLength = "index_length"
	// BlobIndexData holds the sorted records back to back.
	BlobIndexData = "index_data"
)

const positionWidth = 8

// FixedWidthIndex indexes a numeric column.
//
// Serialize writes two blobs: BlobIndexLength and BlobIndexData. Each record
// in BlobIndexData is the value in little-endian followed by its row position
// as a little-endian uint64.
type FixedWidthIndex[T Numeric] struct {
	sortedIndex[T]
	codec scalar.Codec[T]
}

// NewFixedWidth creates an empty numeric index.
func NewFixedWidth[T Numeric](optFns ...Option) *FixedWidthIndex[T] {
	c := scalar.NewCodec[T]()
	return &FixedWidthIndex[T]{
		sortedIndex: newSortedIndex[T](c.Name(), optFns),
		codec:       c,
	}
}

// Kind reports KindFixedWidth.
func (x *FixedWidthIndex[T]) Kind() Kind { return KindFixedWidth }

// ValueType returns the encoded value type name ("int32", "float64", ...).
func (x *FixedWidthIndex[T]) ValueType() string { return x.codec.Name() }

// RecordWidth returns the size of one serialized record in bytes.
func (x *FixedWidthIndex[T]) RecordWidth() int { return x.codec.Width() + positionWidth }

// BuildDataset decodes a fixed-width dataset and builds from it.
func (x *FixedWidthIndex[T]) BuildDataset(ds *dataset.Dataset) error {
	values, err := dataset.Values[T](ds)
	if err != nil {
		x.observeBuild(0, time.Now(), err)
		return err
	}
	return x.Build(values)
}

// Serialize seals the index and encodes it as a two-blob set.
func (x *FixedWidthIndex[T]) Serialize() (*binaryset.BinarySet, error) {
	start := time.Now()
	bs, err := x.serialize()
	x.observeSerialize(bs, start, err)
	return bs, err
}

func (x *FixedWidthIndex[T]) serialize() (*binaryset.BinarySet, error) {
	if err := x.Seal(); err != nil {
		return nil, err
	}

	w, rw := x.codec.Width(), x.RecordWidth()
	data := make([]byte, len(x.entries)*rw)
	for i, e := range x.entries {
		rec := data[i*rw : (i+1)*rw]
		x.codec.Put(rec, e.Value)
		binary.LittleEndian.PutUint64(rec[w:], e.Position)
	}

	bs := binaryset.New()
	bs.Append(BlobIndexLength, binary.LittleEndian.AppendUint64(nil, uint64(len(x.entries))))
	bs.Append(BlobIndexData, data)
	return bs, nil
}

// Load decodes a blob set written by Serialize. The records are taken as
// sorted; enable WithVerifyOnLoad to check order and positions instead of
// trusting them.
func (x *FixedWidthIndex[T]) Load(bs *binaryset.BinarySet) error {
	start := time.Now()
	err := x.load(bs)
	x.observeLoad(start, err)
	return err
}

func (x *FixedWidthIndex[T]) load(bs *binaryset.BinarySet) error {
	if x.state != StateEmpty {
		return ErrSealed
	}

	lengthBlob, ok := bs.GetByName(BlobIndexLength)
	if !ok {
		return corruptf("missing %q blob", BlobIndexLength)
	}
	if len(lengthBlob) != 8 {
		return corruptf("%q blob is %d bytes, want 8", BlobIndexLength, len(lengthBlob))
	}
	data, ok := bs.GetByName(BlobIndexData)
	if !ok {
		return corruptf("missing %q blob", BlobIndexData)
	}

	rows, err := conv.ToInt(binary.LittleEndian.Uint64(lengthBlob))
	if err != nil {
		return corruptf("row count: %v", err)
	}
	if rows == 0 {
		return ErrEmptyInput
	}
	rw := x.RecordWidth()
	if len(data)%rw != 0 || len(data)/rw != rows {
		return corruptf("%q blob is %d bytes, want %d records of %d bytes",
			BlobIndexData, len(data), rows, rw)
	}

	w := x.codec.Width()
	entries := make([]Entry[T], rows)
	for i := range entries {
		rec := data[i*rw : (i+1)*rw]
		entries[i] = Entry[T]{
			Value:    x.codec.Get(rec),
			Position: binary.LittleEndian.Uint64(rec[w:]),
		}
	}

	if x.opts.verifyOnLoad {
		if err := verifyEntries(entries); err != nil {
			return err
		}
	}

	x.entries = entries
	x.state = StateSorted
	return nil
}

// verifyEntries checks that entries are sorted by value and that their
// positions are a permutation of 0..len-1.
func verifyEntries[T Numeric](entries []Entry[T]) error {
	seen := make([]bool, len(entries))
	for i, e := range entries {
		if i > 0 && entries[i-1].Compare(e) > 0 {
			return corruptf("record %d is out of order", i)
		}
		if e.Position >= uint64(len(entries)) {
			return corruptf("record %d has position %d, want < %d", i, e.Position, len(entries))
		}
		if seen[e.Position] {
			return corruptf("position %d appears twice", e.Position)
		}
		seen[e.Position] = true
	}
	return nil
}

func (x *sortedIndex[T]) observeSerialize(bs *binaryset.BinarySet, start time.Time, err error) {
	var (
		blobs int
		size  int64
	)
	if bs != nil {
		blobs, size = bs.Len(), bs.Size()
	}
	x.opts.metricsCollector.RecordSerialize(blobs, size, time.Since(start), err)
	x.log.LogSerialize(context.Background(), blobs, size, err)
}

func (x *sortedIndex[T]) observeLoad(start time.Time, err error) {
	x.opts.metricsCollector.RecordLoad(len(x.entries), time.Since(start), err)
	x.log.LogLoad(context.Background(), len(x.entries), err)
}
