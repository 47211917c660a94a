package scalarindex

import (
	"strconv"
	"time"

	"github.com/hupe1980/scalarindex/binaryset"
	"github.com/hupe1980/scalarindex/dataset"
)

// StringIndex indexes a string column. Strings compare bytewise.
//
// Serialize writes one blob per row in sorted order. The blob name is the
// row position in decimal and the content is the raw string.
type StringIndex struct {
	sortedIndex[string]
}

// NewString creates an empty string index.
func NewString(optFns ...Option) *StringIndex {
	return &StringIndex{
		sortedIndex: newSortedIndex[string](valueTypeString, optFns),
	}
}

const valueTypeString = "string"

// Kind reports KindString.
func (x *StringIndex) Kind() Kind { return KindString }

// ValueType returns "string".
func (x *StringIndex) ValueType() string { return valueTypeString }

// BuildDataset decodes a string-array dataset and builds from it.
func (x *StringIndex) BuildDataset(ds *dataset.Dataset) error {
	values, err := dataset.Strings(ds)
	if err != nil {
		x.observeBuild(0, time.Now(), err)
		return err
	}
	return x.Build(values)
}

// Serialize seals the index and writes one blob per row.
func (x *StringIndex) Serialize() (*binaryset.BinarySet, error) {
	start := time.Now()
	bs, err := x.serialize()
	x.observeSerialize(bs, start, err)
	return bs, err
}

func (x *StringIndex) serialize() (*binaryset.BinarySet, error) {
	if err := x.Seal(); err != nil {
		return nil, err
	}
	bs := binaryset.New()
	for _, e := range x.entries {
		bs.Append(strconv.FormatUint(e.Position, 10), []byte(e.Value))
	}
	return bs, nil
}

// Load rebuilds the index from a blob set written by Serialize. Blob order
// does not matter: each blob name gives the row position of its string. The
// names must be exactly the decimal numbers 0..n-1.
func (x *StringIndex) Load(bs *binaryset.BinarySet) error {
	start := time.Now()
	err := x.load(bs)
	x.observeLoad(start, err)
	return err
}

func (x *StringIndex) load(bs *binaryset.BinarySet) error {
	if x.state != StateEmpty {
		return ErrSealed
	}
	n := bs.Len()
	if n == 0 {
		return ErrEmptyInput
	}

	values := make([]string, n)
	seen := make([]bool, n)
	for name, data := range bs.All() {
		pos, err := strconv.ParseUint(name, 10, 64)
		if err != nil || strconv.FormatUint(pos, 10) != name {
			return corruptf("blob name %q is not a row position", name)
		}
		if pos >= uint64(n) {
			return corruptf("row position %d out of range for %d rows", pos, n)
		}
		if seen[pos] {
			return corruptf("row position %d appears twice", pos)
		}
		seen[pos] = true
		values[pos] = string(data)
	}

	if err := x.build(values); err != nil {
		return err
	}
	return x.seal()
}
