// Package scalarindex provides sorted scalar column indexes for filter
// evaluation inside a search engine.
//
// An index holds one (value, row position) entry per row, sorted by value.
// Equality and range predicates are answered by binary search in
// O(log n + matches) and return a bitmap over the original row positions.
//
// # Quick Start
//
//	idx := scalarindex.NewFixedWidth[int64]()
//	_ = idx.Build([]int64{5, 3, 3, 8, 1})
//
//	bm, _ := idx.In(3)                                      // rows {1, 2}
//	bm, _ = idx.Range(3, scalarindex.OpLessEqual)           // rows {1, 2, 4}
//	bm, _ = idx.RangeBetween(3, true, 8, false)             // rows {0, 1, 2}
//
// Strings work the same way with NewString and compare bytewise.
//
// # Lifecycle
//
// An index is Empty until Build or Load. Build leaves it Unsorted; the first
// query, Seal or Serialize sorts it once and it stays Sorted. There is no
// insert or delete after that. The index holds no locks: Build or Load must
// finish before queries start, and once Sorted all queries may run
// concurrently. Each query returns a new bitmap owned by the caller.
//
// # Persistence
//
// Serialize produces a binaryset.BinarySet. Numeric indexes write two blobs,
// "index_length" and "index_data"; string indexes write one blob per row named
// after its position. Load reverses it.
//
// Save and the Open functions move an index to and from a blobstore.BlobStore:
//
//	store := blobstore.NewLocalStore("./indexes")
//	_, _ = scalarindex.Save(ctx, store, "orders/price", idx)
//	idx, _ = scalarindex.OpenFixedWidth[int64](ctx, store, "orders/price")
//
// # Observability
//
// Logging (log/slog via Logger) and metrics (MetricsCollector) are off by
// default and enabled with WithLogger and WithMetricsCollector.
package scalarindex
