package scalarindex

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/scalarindex/binaryset"
	"github.com/hupe1980/scalarindex/blobstore"
	"github.com/hupe1980/scalarindex/internal/conv"
	"github.com/hupe1980/scalarindex/internal/hash"
	"golang.org/x/sync/errgroup"
)

// Blob names below an index prefix.
const (
	// ManifestName describes the index and is written last.
	ManifestName = "MANIFEST.json"
	// DataName holds the packed blob set.
	DataName = "index.bin"
)

// ManifestVersion is the manifest layout written by Save.
const ManifestVersion = 1

// Manifest describes a saved index. An index prefix without a manifest is
// incomplete and is ignored by ListIndexes.
type Manifest struct {
	Version     int       `json:"version"`
	Kind        Kind      `json:"kind"`
	ValueType   string    `json:"value_type"`
	Rows        uint64    `json:"rows"`
	Blobs       int       `json:"blobs"`
	Compression string    `json:"compression"`
	Size        int64     `json:"size"`
	Checksum    uint32    `json:"checksum"`
	CreatedAt   time.Time `json:"created_at"`
}

// Save serializes idx, writes the packed blob set to <prefix>/index.bin and
// then the manifest to <prefix>/MANIFEST.json.
func Save(ctx context.Context, store blobstore.BlobStore, prefix string, idx Serializer, optFns ...Option) (*Manifest, error) {
	o := applyOptions(optFns)

	var size int
	m, err := save(ctx, store, prefix, idx, o, &size)
	o.logger.LogSave(ctx, prefix, size, err)
	return m, err
}

func save(ctx context.Context, store blobstore.BlobStore, prefix string, idx Serializer, o options, size *int) (*Manifest, error) {
	bs, err := idx.Serialize()
	if err != nil {
		return nil, err
	}
	data, err := binaryset.Marshal(bs, o.compression)
	if err != nil {
		return nil, err
	}
	*size = len(data)

	if err := o.acquireIO(ctx, len(data)); err != nil {
		return nil, err
	}
	if err := store.Put(ctx, path.Join(prefix, DataName), data); err != nil {
		return nil, fmt.Errorf("scalarindex: write %s: %w", DataName, err)
	}

	rows, err := conv.IntToUint64(idx.Len())
	if err != nil {
		return nil, err
	}
	m := &Manifest{
		Version:     ManifestVersion,
		Kind:        idx.Kind(),
		ValueType:   idx.ValueType(),
		Rows:        rows,
		Blobs:       bs.Len(),
		Compression: o.compression.String(),
		Size:        int64(len(data)),
		Checksum:    hash.CRC32C(data),
		CreatedAt:   time.Now().UTC(),
	}
	mdata, err := o.codec.Marshal(m)
	if err != nil {
		return nil, err
	}
	if err := o.acquireIO(ctx, len(mdata)); err != nil {
		return nil, err
	}
	if err := store.Put(ctx, path.Join(prefix, ManifestName), mdata); err != nil {
		return nil, fmt.Errorf("scalarindex: write %s: %w", ManifestName, err)
	}
	return m, nil
}

// SaveColumns saves several indexes below prefix, one per column name, in
// parallel. The resource controller's background slots bound how many run at
// once; without one, every column is saved concurrently. With
// WithNonBlocking, a column that finds no free slot fails with
// resource.ErrBusy.
func SaveColumns(ctx context.Context, store blobstore.BlobStore, prefix string, columns map[string]Serializer, optFns ...Option) (map[string]*Manifest, error) {
	o := applyOptions(optFns)

	var (
		mu        sync.Mutex
		manifests = make(map[string]*Manifest, len(columns))
	)

	g, gctx := errgroup.WithContext(ctx)
	for name, idx := range columns {
		g.Go(func() error {
			if err := o.acquireBackground(gctx); err != nil {
				return err
			}
			defer o.resources.ReleaseBackground()

			m, err := Save(gctx, store, path.Join(prefix, name), idx, optFns...)
			if err != nil {
				return fmt.Errorf("column %q: %w", name, err)
			}
			mu.Lock()
			manifests[name] = m
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return manifests, nil
}

// ReadManifest reads and decodes <prefix>/MANIFEST.json.
func ReadManifest(ctx context.Context, store blobstore.BlobStore, prefix string, optFns ...Option) (*Manifest, error) {
	o := applyOptions(optFns)
	return readManifest(ctx, store, prefix, o)
}

func readManifest(ctx context.Context, store blobstore.BlobStore, prefix string, o options) (*Manifest, error) {
	data, err := readBlob(ctx, store, path.Join(prefix, ManifestName), o)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := o.codec.Unmarshal(data, &m); err != nil {
		return nil, corruptf("decode manifest: %v", err)
	}
	if m.Version != ManifestVersion {
		return nil, corruptf("unsupported manifest version %d", m.Version)
	}
	return &m, nil
}

func readBlob(ctx context.Context, store blobstore.BlobStore, name string, o options) ([]byte, error) {
	b, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	if err := o.acquireIO(ctx, int(b.Size())); err != nil {
		return nil, err
	}
	return blobstore.ReadAll(ctx, b, o.readChunkSize, o.readConcurrency)
}

// readBlobSet reads, verifies and unpacks <prefix>/index.bin, then hands the
// set to load. The packed bytes count against the memory budget until load
// returns.
func readBlobSet(ctx context.Context, store blobstore.BlobStore, prefix string, m *Manifest, o options, load func(*binaryset.BinarySet) error) error {
	if err := o.resources.AcquireMemory(m.Size); err != nil {
		return err
	}
	defer o.resources.ReleaseMemory(m.Size)

	data, err := readBlob(ctx, store, path.Join(prefix, DataName), o)
	if err != nil {
		return err
	}
	if int64(len(data)) != m.Size {
		return corruptf("%s is %d bytes, manifest says %d", DataName, len(data), m.Size)
	}
	if sum := hash.CRC32C(data); sum != m.Checksum {
		return corruptf("%s checksum %08x, manifest says %08x", DataName, sum, m.Checksum)
	}

	bs, _, err := binaryset.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptIndex, err)
	}
	if bs.Len() != m.Blobs {
		return corruptf("%d blobs, manifest says %d", bs.Len(), m.Blobs)
	}
	return load(bs)
}

func checkManifest(m *Manifest, kind Kind, valueType string) error {
	if m.Kind != kind || m.ValueType != valueType {
		return fmt.Errorf("%w: saved as %s/%s, opened as %s/%s",
			ErrValueTypeMismatch, m.Kind, m.ValueType, kind, valueType)
	}
	return nil
}

func checkRows(m *Manifest, rows int) error {
	if uint64(rows) != m.Rows {
		return corruptf("loaded %d rows, manifest says %d", rows, m.Rows)
	}
	return nil
}

// OpenFixedWidth opens a numeric index saved below prefix. The saved value
// type must match T.
func OpenFixedWidth[T Numeric](ctx context.Context, store blobstore.BlobStore, prefix string, optFns ...Option) (*FixedWidthIndex[T], error) {
	o := applyOptions(optFns)
	idx := NewFixedWidth[T](optFns...)

	err := func() error {
		m, err := readManifest(ctx, store, prefix, o)
		if err != nil {
			return err
		}
		if err := checkManifest(m, KindFixedWidth, idx.ValueType()); err != nil {
			return err
		}
		if err := readBlobSet(ctx, store, prefix, m, o, idx.Load); err != nil {
			return err
		}
		return checkRows(m, idx.Len())
	}()
	o.logger.LogOpen(ctx, prefix, idx.Len(), err)
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// OpenString opens a string index saved below prefix.
func OpenString(ctx context.Context, store blobstore.BlobStore, prefix string, optFns ...Option) (*StringIndex, error) {
	o := applyOptions(optFns)
	idx := NewString(optFns...)

	err := func() error {
		m, err := readManifest(ctx, store, prefix, o)
		if err != nil {
			return err
		}
		if err := checkManifest(m, KindString, idx.ValueType()); err != nil {
			return err
		}
		if err := readBlobSet(ctx, store, prefix, m, o, idx.Load); err != nil {
			return err
		}
		return checkRows(m, idx.Len())
	}()
	o.logger.LogOpen(ctx, prefix, idx.Len(), err)
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// ListIndexes returns the prefixes below root that hold a saved index.
func ListIndexes(ctx context.Context, store blobstore.BlobStore, root string) ([]string, error) {
	names, err := store.List(ctx, root)
	if err != nil {
		return nil, err
	}
	var prefixes []string
	for _, name := range names {
		if name == ManifestName {
			prefixes = append(prefixes, "")
			continue
		}
		if p, ok := strings.CutSuffix(name, "/"+ManifestName); ok {
			prefixes = append(prefixes, p)
		}
	}
	return prefixes, nil
}

// Delete removes a saved index. The manifest goes first so a partially
// deleted index is never listed.
func Delete(ctx context.Context, store blobstore.BlobStore, prefix string) error {
	if err := store.Delete(ctx, path.Join(prefix, ManifestName)); err != nil && !errors.Is(err, blobstore.ErrNotFound) {
		return err
	}
	if err := store.Delete(ctx, path.Join(prefix, DataName)); err != nil && !errors.Is(err, blobstore.ErrNotFound) {
		return err
	}
	return nil
}
