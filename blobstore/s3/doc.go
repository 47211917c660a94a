// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	client := awss3.NewFromConfig(cfg)
//	store := s3.NewStore(client, "my-bucket", "indexes/")
//
// # Features
//
//   - Range reads for parallel fetches via blobstore.ReadAll
//   - Single-request uploads with CRC32C checksums for small blobs
//   - Multipart uploads for blobs of at least one part
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
