// Package scalar defines the numeric value types a fixed-width index can
// hold and their explicit little-endian encoding.
//
// The encoding never depends on in-memory struct layout: each value is
// written field by field with a fixed width chosen from its kind.
package scalar
