// Package binaryset provides the named-blob container that scalar indexes
// serialize into and load from.
//
// A BinarySet keeps blobs in insertion order and looks them up by name.
// Numeric indexes produce two blobs ("index_length", "index_data"); string
// indexes produce one blob per row, named by the row's decimal position.
//
// # Packing
//
// Marshal/Pack frame a whole set into one byte stream so it can be stored
// as a single object:
//
//	[magic "SIBS"][version][compression][reserved]
//	[block header][entry table, optionally LZ4 or ZSTD compressed]
//	[CRC32C trailer]
//
// Unmarshal/Unpack verify the checksum before decoding anything and return
// ErrCorrupt for any malformed input.
package binaryset
