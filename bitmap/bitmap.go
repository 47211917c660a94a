package bitmap

import (
	"io"
	"iter"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// Bitmap is a fixed-length bit vector over row positions, backed by a
// 64-bit Roaring Bitmap.
//
// The length is fixed at construction to the number of indexed rows.
// Indices at or beyond Len() are ignored by Set and Reset.
type Bitmap struct {
	rb  *roaring64.Bitmap
	len uint64
}

// New creates a bitmap of length n with every bit cleared.
func New(n uint64) *Bitmap {
	return &Bitmap{
		rb:  roaring64.New(),
		len: n,
	}
}

// NewFull creates a bitmap of length n with every bit set.
func NewFull(n uint64) *Bitmap {
	b := New(n)
	b.SetAll()
	return b
}

// Len returns the fixed length of the bitmap in bits.
func (b *Bitmap) Len() uint64 {
	return b.len
}

// Set sets the bit at position i.
func (b *Bitmap) Set(i uint64) {
	if i >= b.len {
		return
	}
	b.rb.Add(i)
}

// SetMany sets every position in ids.
func (b *Bitmap) SetMany(ids []uint64) {
	for _, id := range ids {
		b.Set(id)
	}
}

// Reset clears the bit at position i.
func (b *Bitmap) Reset(i uint64) {
	if i >= b.len {
		return
	}
	b.rb.Remove(i)
}

// SetAll sets every bit in [0, Len()).
func (b *Bitmap) SetAll() {
	if b.len == 0 {
		return
	}
	b.rb.AddRange(0, b.len)
}

// Clear resets every bit.
func (b *Bitmap) Clear() {
	b.rb.Clear()
}

// Contains reports whether the bit at position i is set.
func (b *Bitmap) Contains(i uint64) bool {
	return b.rb.Contains(i)
}

// Count returns the number of set bits.
func (b *Bitmap) Count() uint64 {
	return b.rb.GetCardinality()
}

// IsEmpty returns true if no bit is set.
func (b *Bitmap) IsEmpty() bool {
	return b.rb.IsEmpty()
}

// Iterator returns the set positions in ascending order.
func (b *Bitmap) Iterator() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		it := b.rb.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// ToArray returns the set positions in ascending order.
func (b *Bitmap) ToArray() []uint64 {
	return b.rb.ToArray()
}

// Clone returns a deep copy of the bitmap.
func (b *Bitmap) Clone() *Bitmap {
	return &Bitmap{
		rb:  b.rb.Clone(),
		len: b.len,
	}
}

// And computes the intersection of two bitmaps in place.
func (b *Bitmap) And(other *Bitmap) {
	b.rb.And(other.rb)
}

// Or computes the union of two bitmaps in place.
// Bits of other beyond b.Len() are dropped.
func (b *Bitmap) Or(other *Bitmap) {
	b.rb.Or(other.rb)
	if other.len > b.len {
		b.rb.RemoveRange(b.len, other.len)
	}
}

// AndNot removes every bit of other from b.
func (b *Bitmap) AndNot(other *Bitmap) {
	b.rb.AndNot(other.rb)
}

// Equals reports whether both bitmaps have the same length and bits.
func (b *Bitmap) Equals(other *Bitmap) bool {
	if other == nil {
		return false
	}
	return b.len == other.len && b.rb.Equals(other.rb)
}

// RunOptimize compresses runs of set bits.
// Worth calling on long-lived results such as NotIn complements.
func (b *Bitmap) RunOptimize() {
	b.rb.RunOptimize()
}

// SerializedSizeInBytes returns the number of bytes WriteTo will produce.
func (b *Bitmap) SerializedSizeInBytes() uint64 {
	return b.rb.GetSerializedSizeInBytes()
}

// WriteTo writes the set bits to an io.Writer in the portable roaring format.
// The length is not written; callers persist it alongside.
func (b *Bitmap) WriteTo(w io.Writer) (int64, error) {
	return b.rb.WriteTo(w)
}

// ReadFrom replaces the set bits with those read from an io.Reader.
// Positions at or beyond Len() are dropped.
func (b *Bitmap) ReadFrom(r io.Reader) (int64, error) {
	n, err := b.rb.ReadFrom(r)
	if err != nil {
		return n, err
	}
	if !b.rb.IsEmpty() {
		if hi := b.rb.Maximum(); hi >= b.len {
			b.rb.RemoveRange(b.len, hi+1)
		}
	}
	return n, nil
}
