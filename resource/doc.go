// Package resource bounds what persisting and opening indexes may consume.
//
// A Controller tracks three budgets:
//
//   - Memory: packed index bytes held while an index is being opened and
//     decoded (AcquireMemory / ReleaseMemory, non-blocking).
//   - Background workers: how many columns SaveColumns writes in parallel
//     (AcquireBackground / ReleaseBackground, blocking).
//   - IO: blob store throughput in bytes per second (AcquireIO, blocking).
//
// Share one Controller across the Save, SaveColumns and Open calls that
// should respect the same limits. A nil *Controller is valid and unlimited.
package resource
