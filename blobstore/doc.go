// Package blobstore provides the storage abstraction used to persist pair exports.
//
// Store is the interface for reading and writing named blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, used in tests
//   - LocalStore: local filesystem with atomic rename on close
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: any S3-compatible endpoint through minio-go
//
// # Custom Implementations
//
// Implement the Store interface to support custom storage backends:
//
//	type Store interface {
//	    Open(ctx, name) (Blob, error)             // Open for reading
//	    Create(ctx, name) (WritableBlob, error)   // Create for writing
//	    Put(ctx, name, data) error                // Whole-blob write
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
