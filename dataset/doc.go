// Package dataset is the input side of a scalar index: one column of
// values together with its row count.
//
// Numeric columns are a contiguous little-endian buffer of fixed-width
// values. String columns use a length-prefixed string array, which is the
// protobuf wire encoding of
//
//	message StringArray { repeated string data = 1; }
//
// so buffers produced by other protobuf-speaking components decode as is.
package dataset
