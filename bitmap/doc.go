// Package bitmap provides the result type of every scalar index query.
//
// A Bitmap has one bit per row of the indexed column; a set bit means the
// row at that position satisfies the predicate. It is compressed with
// Roaring Bitmaps, so sparse equality matches and dense range matches both
// stay small.
//
// Every query allocates a fresh Bitmap and hands ownership to the caller.
// Bitmaps are not safe for concurrent mutation.
package bitmap
