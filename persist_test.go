package scalarindex

import (
	"context"
	"path"
	"testing"

	"github.com/hupe1980/scalarindex/binaryset"
	"github.com/hupe1980/scalarindex/blobstore"
	"github.com/hupe1980/scalarindex/codec"
	"github.com/hupe1980/scalarindex/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]blobstore.BlobStore {
	return map[string]blobstore.BlobStore{
		"memory": blobstore.NewMemoryStore(),
		"local":  blobstore.NewLocalStore(t.TempDir()),
	}
}

func TestSaveOpenFixedWidth(t *testing.T) {
	ctx := context.Background()
	values := []float64{2.5, -1, 2.5, 10, 0}

	for storeName, store := range stores(t) {
		for _, c := range []binaryset.Compression{binaryset.CompressionNone, binaryset.CompressionLZ4, binaryset.CompressionZSTD} {
			t.Run(storeName+"/"+c.String(), func(t *testing.T) {
				prefix := "cols/price/" + c.String()

				src := NewFixedWidth[float64]()
				require.NoError(t, src.Build(values))

				m, err := Save(ctx, store, prefix, src, WithCompression(c))
				require.NoError(t, err)
				assert.Equal(t, KindFixedWidth, m.Kind)
				assert.Equal(t, "float64", m.ValueType)
				assert.Equal(t, uint64(5), m.Rows)
				assert.Equal(t, 2, m.Blobs)
				assert.Equal(t, c.String(), m.Compression)

				read, err := ReadManifest(ctx, store, prefix)
				require.NoError(t, err)
				assert.Equal(t, m.Checksum, read.Checksum)
				assert.Equal(t, m.Size, read.Size)

				dst, err := OpenFixedWidth[float64](ctx, store, prefix, WithVerifyOnLoad(true))
				require.NoError(t, err)
				assert.Equal(t, src.Entries(), dst.Entries())

				bm, err := dst.Range(2.5, OpGreaterEqual)
				require.NoError(t, err)
				assert.Equal(t, []uint64{0, 2, 3}, positions(bm))
			})
		}
	}
}

func TestSaveOpenString(t *testing.T) {
	ctx := context.Background()
	values := []string{"red", "green", "blue", "green"}

	for storeName, store := range stores(t) {
		t.Run(storeName, func(t *testing.T) {
			src := NewString()
			require.NoError(t, src.Build(values))

			m, err := Save(ctx, store, "cols/color", src, WithCodec(codec.JSON{}))
			require.NoError(t, err)
			assert.Equal(t, KindString, m.Kind)
			assert.Equal(t, 4, m.Blobs)

			// Manifests written by either JSON codec read back with the default.
			dst, err := OpenString(ctx, store, "cols/color")
			require.NoError(t, err)

			bm, err := dst.In("green")
			require.NoError(t, err)
			assert.Equal(t, []uint64{1, 3}, positions(bm))
		})
	}
}

func TestOpenValueTypeMismatch(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	idx := NewFixedWidth[int32]()
	require.NoError(t, idx.Build([]int32{1, 2}))
	_, err := Save(ctx, store, "a", idx)
	require.NoError(t, err)

	_, err = OpenFixedWidth[int64](ctx, store, "a")
	assert.ErrorIs(t, err, ErrValueTypeMismatch)

	_, err = OpenString(ctx, store, "a")
	assert.ErrorIs(t, err, ErrValueTypeMismatch)

	_, err = OpenFixedWidth[int32](ctx, store, "a")
	assert.NoError(t, err)
}

func TestOpenMissing(t *testing.T) {
	_, err := OpenString(context.Background(), blobstore.NewMemoryStore(), "nope")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestOpenDetectsCorruption(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	idx := NewFixedWidth[int64]()
	require.NoError(t, idx.Build([]int64{3, 1, 2}))
	_, err := Save(ctx, store, "x", idx, WithCompression(binaryset.CompressionNone))
	require.NoError(t, err)

	blob, err := store.Open(ctx, path.Join("x", DataName))
	require.NoError(t, err)
	data, err := blobstore.ReadAll(ctx, blob, 0, 0)
	require.NoError(t, err)

	data[len(data)/2] ^= 0xff
	require.NoError(t, store.Put(ctx, path.Join("x", DataName), data))

	_, err = OpenFixedWidth[int64](ctx, store, "x")
	assert.ErrorIs(t, err, ErrCorruptIndex)

	require.NoError(t, store.Put(ctx, path.Join("x", ManifestName), []byte("{not json")))
	_, err = OpenFixedWidth[int64](ctx, store, "x")
	assert.ErrorIs(t, err, ErrCorruptIndex)

	require.NoError(t, store.Put(ctx, path.Join("x", ManifestName), []byte(`{"version":99}`)))
	_, err = ReadManifest(ctx, store, "x")
	assert.ErrorIs(t, err, ErrCorruptIndex)
}

func TestSaveEmptyIndex(t *testing.T) {
	store := blobstore.NewMemoryStore()
	_, err := Save(context.Background(), store, "e", NewString())
	assert.ErrorIs(t, err, ErrEmptyInput)

	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestSaveColumnsListAndDelete(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewLocalStore(t.TempDir())
	rc := resource.NewController(resource.Config{
		MaxBackgroundWorkers: 2,
		MemoryLimitBytes:     1 << 20,
		IOLimitBytesPerSec:   64 << 20,
	})

	price := NewFixedWidth[float32]()
	require.NoError(t, price.Build([]float32{9.99, 1.5, 3}))
	qty := NewFixedWidth[uint32]()
	require.NoError(t, qty.Build([]uint32{1, 1, 7}))
	sku := NewString()
	require.NoError(t, sku.Build([]string{"a-1", "b-2", "c-3"}))

	manifests, err := SaveColumns(ctx, store, "orders", map[string]Serializer{
		"price": price,
		"qty":   qty,
		"sku":   sku,
	}, WithResourceController(rc))
	require.NoError(t, err)
	assert.Len(t, manifests, 3)
	assert.Equal(t, "uint32", manifests["qty"].ValueType)

	prefixes, err := ListIndexes(ctx, store, "orders/")
	require.NoError(t, err)
	assert.Equal(t, []string{"orders/price", "orders/qty", "orders/sku"}, prefixes)

	openedQty, err := OpenFixedWidth[uint32](ctx, store, "orders/qty", WithResourceController(rc))
	require.NoError(t, err)
	bm, err := openedQty.In(1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 1}, positions(bm))
	assert.Zero(t, rc.MemoryUsage())

	require.NoError(t, Delete(ctx, store, "orders/qty"))
	require.NoError(t, Delete(ctx, store, "orders/qty"))
	prefixes, err = ListIndexes(ctx, store, "orders/")
	require.NoError(t, err)
	assert.Equal(t, []string{"orders/price", "orders/sku"}, prefixes)
}

func TestSaveColumnsNonBlocking(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	rc := resource.NewController(resource.Config{MaxBackgroundWorkers: 1})

	qty := NewFixedWidth[uint32]()
	require.NoError(t, qty.Build([]uint32{4, 2, 4}))
	columns := map[string]Serializer{"qty": qty}

	// Every slot is taken, so the column fails instead of waiting.
	require.NoError(t, rc.AcquireBackground(ctx))
	_, err := SaveColumns(ctx, store, "orders", columns, WithResourceController(rc), WithNonBlocking(true))
	require.ErrorIs(t, err, resource.ErrBusy)

	prefixes, err := ListIndexes(ctx, store, "orders/")
	require.NoError(t, err)
	assert.Empty(t, prefixes)

	rc.ReleaseBackground()
	manifests, err := SaveColumns(ctx, store, "orders", columns, WithResourceController(rc), WithNonBlocking(true))
	require.NoError(t, err)
	assert.Equal(t, uint64(3), manifests["qty"].Rows)
}

func TestSaveNonBlockingIOBudget(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	idx := NewFixedWidth[int64]()
	require.NoError(t, idx.Build([]int64{1, 2, 3}))

	// The packed frame alone exceeds one second of a 16 B/s budget.
	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 16})
	_, err := Save(ctx, store, "tiny", idx, WithResourceController(rc), WithNonBlocking(true))
	require.ErrorIs(t, err, resource.ErrBusy)

	_, err = store.Open(ctx, "tiny/"+DataName)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestOpenRespectsMemoryLimit(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	idx := NewFixedWidth[int64]()
	values := make([]int64, 1000)
	for i := range values {
		values[i] = int64(i * 31 % 97)
	}
	require.NoError(t, idx.Build(values))
	_, err := Save(ctx, store, "big", idx, WithCompression(binaryset.CompressionNone))
	require.NoError(t, err)

	rc := resource.NewController(resource.Config{MemoryLimitBytes: 64})
	_, err = OpenFixedWidth[int64](ctx, store, "big", WithResourceController(rc))
	assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
}

func TestOpenWithChunkedReads(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	idx := NewString()
	require.NoError(t, idx.Build([]string{"x", "y", "z", "x"}))
	_, err := Save(ctx, store, "s", idx)
	require.NoError(t, err)

	opened, err := OpenString(ctx, store, "s", WithReadConcurrency(3, 7))
	require.NoError(t, err)
	bm, err := opened.In("x")
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 3}, positions(bm))
}
