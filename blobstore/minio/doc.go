// Package minio implements blobstore.BlobStore for MinIO and other
// S3-compatible object stores.
//
// Lab clusters often archive coil-set snapshots on a local MinIO instance
// rather than AWS; this backend speaks the same BlobStore contract through
// the native MinIO client.
package minio
