// Package testutil provides testing utilities for scalarindex.
//
// This package is intended for use in tests and benchmarks only.
// It provides seeded generators for columns with a controlled number of
// distinct values, and a brute-force scan used as ground truth.
//
// # Column Generation
//
//	rng := testutil.NewRNG(seed)
//	ints := testutil.Column[int64](rng, 10_000, 500) // 500 distinct values
//	names := rng.Strings(10_000, 50, 8)
//
// # Ground Truth
//
//	want := testutil.Scan(ints, func(v int64) bool { return v < 42 })
package testutil
