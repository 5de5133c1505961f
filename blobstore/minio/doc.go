// Package minio provides a blobstore.Store implementation using the MinIO client.
//
// It works with MinIO and other S3-compatible systems such as Ceph, SeaweedFS, and Garage.
//
// # Basic Usage
//
//	store, err := minio.Dial(minio.Endpoint{
//	    Address:   "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	}, "my-bucket", "exports/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = pairio.Write(ctx, store, "run-1.pairs", res)
//
// Use NewStore to wrap a client configured elsewhere.
package minio
