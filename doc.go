// Package coilprox detects near-collisions between discretized coil curves.
//
// Given a set of point clouds (coil centerlines sampled along their length)
// and a distance threshold, it returns every pair of clouds that contain two
// points closer than the threshold — without comparing every point of every
// cloud against every other. A spatial-hash broad phase discards provably
// distant pairs with a cheap cell-set intersection; only the survivors go
// through the exact pairwise narrow phase, which removes all false
// positives. The result is exact: no pair is missed and none is spurious.
//
// The detector is built for optimization loops that re-evaluate coil
// geometry thousands of times: calls are stateless, CPU-bound, and fan out
// across cores.
//
// # Quick Start
//
//	det := coilprox.NewDetector()
//	pairs, err := det.CloseCandidates(ctx, clouds, 0.1, numBaseCurves)
//	if err != nil {
//	    return err
//	}
//	for _, p := range pairs {
//	    fmt.Printf("coils %d and %d closer than threshold\n", p.I, p.J)
//	}
//
// numBaseCurves restricts the search to pairs touching the first
// numBaseCurves clouds. Stellarator coil sets consist of a few unique base
// coils plus symmetry copies; pairs between two copies are rotations of
// base pairs and need no separate check.
//
// # Persistence
//
// The snapshot and blobstore packages archive coil sets to local disk, S3
// or MinIO for later analysis; they are optional and the detector never
// touches storage itself.
package coilprox
