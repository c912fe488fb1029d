// Package s3 implements blobstore.BlobStore on Amazon S3.
//
// Snapshot payloads are streamed to S3 through the upload manager and read
// back with ranged GETs. CommitIndex adds the compare-and-swap semantics S3
// lacks: it tracks the current coil-set snapshot in a DynamoDB table with
// conditional writes, so several optimizer workers can publish concurrently
// without losing a commit.
package s3
