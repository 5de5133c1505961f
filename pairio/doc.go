// Package pairio exports pair results to a blobstore.Store and reads them back.
//
// A file records its codec and compression in a small header, so Read needs
// no options:
//
//	err := pairio.Write(ctx, store, "run-1.pairs", res,
//	    pairio.WithCompression(pairio.CompressionLZ4),
//	)
//	back, err := pairio.Read(ctx, store, "run-1.pairs")
//
// Payloads are checksummed with CRC32C. Compression falls back to none when
// it does not shrink the payload.
package pairio
