// Package blobstore provides storage abstraction for coil-set snapshots.
//
// Optimization runs archive the coil geometries they evaluate; other
// workers and later analysis jobs read them back. A BlobStore is where
// those immutable snapshot blobs live.
//
// # Built-in Implementations
//
//   - MemoryStore: in-memory, for tests
//   - LocalStore: local filesystem with mmap reads
//   - s3.Store: Amazon S3 with range reads and streaming uploads
//   - minio.Store: MinIO and other S3-compatible clusters
//
// Implementations must be safe for concurrent use.
package blobstore
