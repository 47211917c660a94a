// Package blobstore provides the storage abstraction persisted indexes are
// written to and opened from.
//
// BlobStore is the interface for reading and writing data blobs (packed
// index blob sets, manifests). Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, for tests and ephemeral indexes
//   - LocalStore: local filesystem with mmap reads and atomic rename writes
//   - minio.Store: MinIO and other S3-compatible services
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//
// # Custom Implementations
//
// Implement the BlobStore interface to support custom storage backends:
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Missing blobs must satisfy errors.Is(err, ErrNotFound). Blobs that can
// expose their content without copying implement Mappable; ReadAll uses it
// when present and falls back to parallel range reads otherwise.
package blobstore
