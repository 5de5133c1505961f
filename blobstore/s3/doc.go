// Package s3 provides an Amazon S3 implementation of the blobstore.Store interface.
//
// # Usage
//
//	store, err := s3.NewStoreFromConfig(ctx, "my-bucket", "exports/",
//	    config.WithRegion("us-east-1"),
//	)
//
//	err = pairio.Write(ctx, store, "run-1.pairs", res)
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart uploads through the SDK upload manager
//   - CRC32C checksums on uploads
//   - Automatic pagination for listing
package s3
