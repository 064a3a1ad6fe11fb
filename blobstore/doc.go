// Package blobstore provides storage abstraction for parameter documents.
//
// BlobStore is the interface for reading and writing document blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process store backing mem:// sources and tests
//   - LocalStore: local filesystem with atomic rename-on-close writes
//   - s3.Store: Amazon S3 with range reads and managed downloads
//   - minio.Store: MinIO and other S3-compatible storage
//   - CachingStore: block cache in front of any remote store
//
// # Custom Implementations
//
// Implement the BlobStore interface to support custom storage backends:
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Create(ctx, name) (WritableBlob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
