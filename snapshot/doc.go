// Package snapshot persists coil sets (collections of point clouds) as
// self-describing blobs.
//
// A snapshot records the codec and compression by name in its header, so
// archives written with one configuration remain readable after defaults
// change. The payload is the concatenated little-endian float64 coordinate
// data of all clouds, compressed as a single block.
//
//	err := snapshot.Write(ctx, store, "coilset-0042", clouds,
//	    snapshot.WithCompression("zstd"))
//	clouds, err := snapshot.Read(ctx, store, "coilset-0042")
package snapshot
