// Package geometry defines points, point clouds and the exact distance
// kernels used by the proximity pipeline.
//
// A PointCloud is a discretized curve: an ordered sequence of 3D points
// sampled along, for example, a magnetic-coil centerline. Clouds are
// caller-owned and read-only for the lifetime of a detection call.
//
//	cloud, err := geometry.FromFlat(buf) // row-major N×3 buffer
//	hit := geometry.CloudsWithin(a, b, threshold*threshold)
package geometry
