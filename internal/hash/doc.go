// Package hash provides the CRC32C checksum that protects persisted indexes.
//
// Packed blob sets end with a little-endian CRC32C trailer, manifests record
// the checksum of the whole index.bin, and the S3 store sends the same sum
// in its upload headers so the service verifies the body too.
package hash
