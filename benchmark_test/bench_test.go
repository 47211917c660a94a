package benchmark_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/hupe1980/scalarindex"
	"github.com/hupe1980/scalarindex/binaryset"
	"github.com/hupe1980/scalarindex/blobstore"
	"github.com/hupe1980/scalarindex/testutil"
)

var sizes = []int{10_000, 1_000_000}

func sealedInt64(b *testing.B, n int) (*scalarindex.FixedWidthIndex[int64], []int64) {
	b.Helper()
	values := testutil.Column[int64](testutil.NewRNG(42), n, n/10)
	idx := scalarindex.NewFixedWidth[int64]()
	if err := idx.Build(values); err != nil {
		b.Fatal(err)
	}
	if err := idx.Seal(); err != nil {
		b.Fatal(err)
	}
	return idx, values
}

// BenchmarkSeal measures the lazy sort on the first query.
func BenchmarkSeal(b *testing.B) {
	for _, n := range sizes {
		values := testutil.Column[int64](testutil.NewRNG(42), n, n/10)
		b.Run(fmt.Sprintf("rows=%d", n), func(b *testing.B) {
			for b.Loop() {
				idx := scalarindex.NewFixedWidth[int64]()
				if err := idx.Build(values); err != nil {
					b.Fatal(err)
				}
				if err := idx.Seal(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkQuery(b *testing.B) {
	for _, n := range sizes {
		idx, values := sealedInt64(b, n)
		pivot := values[len(values)/2]

		b.Run(fmt.Sprintf("In/rows=%d", n), func(b *testing.B) {
			for b.Loop() {
				if _, err := idx.In(pivot); err != nil {
					b.Fatal(err)
				}
			}
		})
		b.Run(fmt.Sprintf("NotIn/rows=%d", n), func(b *testing.B) {
			for b.Loop() {
				if _, err := idx.NotIn(pivot); err != nil {
					b.Fatal(err)
				}
			}
		})
		b.Run(fmt.Sprintf("RangeLT/rows=%d", n), func(b *testing.B) {
			for b.Loop() {
				if _, err := idx.Range(pivot, scalarindex.OpLessThan); err != nil {
					b.Fatal(err)
				}
			}
		})
		b.Run(fmt.Sprintf("RangeBetween/rows=%d", n), func(b *testing.B) {
			for b.Loop() {
				if _, err := idx.RangeBetween(pivot-10, true, pivot+10, false); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkStringIn(b *testing.B) {
	values := testutil.NewRNG(7).Strings(100_000, 1000, 12)
	idx := scalarindex.NewString()
	if err := idx.Build(values); err != nil {
		b.Fatal(err)
	}
	if err := idx.Seal(); err != nil {
		b.Fatal(err)
	}
	for b.Loop() {
		if _, err := idx.In(values[0], values[1]); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSaveOpen(b *testing.B) {
	ctx := context.Background()
	idx, _ := sealedInt64(b, 100_000)

	for _, c := range []binaryset.Compression{binaryset.CompressionNone, binaryset.CompressionLZ4, binaryset.CompressionZSTD} {
		store := blobstore.NewMemoryStore()
		b.Run("Save/"+c.String(), func(b *testing.B) {
			for b.Loop() {
				if _, err := scalarindex.Save(ctx, store, "bench", idx, scalarindex.WithCompression(c)); err != nil {
					b.Fatal(err)
				}
			}
		})
		b.Run("Open/"+c.String(), func(b *testing.B) {
			for b.Loop() {
				if _, err := scalarindex.OpenFixedWidth[int64](ctx, store, "bench"); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
