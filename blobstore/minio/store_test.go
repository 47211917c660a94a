package minio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/hupe1980/scalarindex/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, endpoint string, secure bool) *minio.Client {
	t.Helper()
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: secure,
		Region: "us-east-1",
	})
	require.NoError(t, err)
	return client
}

func TestStore_OpenMissingMapsToNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	store := NewStore(newTestClient(t, u.Host, false), "bucket", "root")

	_, err = store.Open(context.Background(), "missing")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestStore_Key(t *testing.T) {
	store := NewStore(nil, "bucket", "indexes/")
	assert.Equal(t, "indexes/orders/price/index.bin", store.key("orders/price/index.bin"))

	store = NewStore(nil, "bucket", "")
	assert.Equal(t, "a", store.key("a"))
}

func TestStore_Options(t *testing.T) {
	store := NewStore(nil, "bucket", "", WithStorageClass("REDUCED_REDUNDANCY"), WithPartSize(16<<20))
	assert.Equal(t, "REDUCED_REDUNDANCY", store.put.StorageClass)
	assert.Equal(t, uint64(16<<20), store.put.PartSize)
	assert.True(t, store.put.SendContentMd5)
	assert.Equal(t, "application/octet-stream", store.put.ContentType)
}

// TestMinioStore_Integration requires a running MinIO instance.
// Set SCALARINDEX_MINIO_ENDPOINT (e.g. localhost:9000) to enable it.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := os.Getenv("SCALARINDEX_MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("SCALARINDEX_MINIO_ENDPOINT not set")
	}
	bucket := "test-scalarindex"

	client := newTestClient(t, endpoint, false)
	ctx := context.Background()

	// Ensure bucket exists
	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, "test-prefix/")

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "col/index.bin", data))

	blob, err := store.Open(ctx, "col/index.bin")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	got, err := blobstore.ReadAll(ctx, blob, 4, 3)
	require.NoError(t, err)
	require.Equal(t, data, got)

	names, err := store.List(ctx, "col/")
	require.NoError(t, err)
	require.Contains(t, names, "col/index.bin")

	require.NoError(t, store.Delete(ctx, "col/index.bin"))
	_, err = store.Open(ctx, "col/index.bin")
	require.ErrorIs(t, err, blobstore.ErrNotFound)
}
