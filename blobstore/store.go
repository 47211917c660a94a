package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// DefaultChunkSize is the range size ReadAll requests per call.
const DefaultChunkSize = 4 << 20

// BlobStore is an abstraction for reading and writing immutable index blobs.
// Implementations must be safe for concurrent use.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Put writes a blob atomically, replacing any previous content.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the sorted names of all blobs starting with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	// ReadAt reads len(p) bytes at off. It returns io.EOF when fewer bytes
	// are available.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	io.Closer
	// Size returns the size of the blob in bytes.
	Size() int64
}

// Mappable is an optional interface for Blobs that support memory mapping.
type Mappable interface {
	// Bytes returns the underlying byte slice.
	// The slice is valid until the Blob is closed.
	// This is a zero-copy operation if supported.
	Bytes() ([]byte, error)
}

// ReadAll reads the whole blob into a new slice.
//
// Mappable blobs are copied directly. Other blobs are fetched in chunkSize
// ranges, up to concurrency requests at a time (chunkSize <= 0 selects
// DefaultChunkSize, concurrency <= 0 means one request at a time).
func ReadAll(ctx context.Context, b Blob, chunkSize int64, concurrency int) ([]byte, error) {
	size := b.Size()
	if size < 0 {
		return nil, fmt.Errorf("blobstore: negative blob size %d", size)
	}
	if size == 0 {
		return []byte{}, nil
	}

	if m, ok := b.(Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			return nil, err
		}
		if int64(len(data)) == size {
			return append([]byte(nil), data...), nil
		}
	}

	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	out := make([]byte, size)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for off := int64(0); off < size; off += chunkSize {
		end := min(off+chunkSize, size)
		g.Go(func() error {
			buf := out[off:end]
			n, err := b.ReadAt(gctx, buf, off)
			if err != nil && !(errors.Is(err, io.EOF) && n == len(buf)) {
				return fmt.Errorf("blobstore: read [%d,%d): %w", off, end, err)
			}
			if n != len(buf) {
				return fmt.Errorf("blobstore: short read at %d: %d of %d bytes", off, n, len(buf))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
