// Package util provides deterministic coil-geometry generators for tests,
// examples and benchmarks.
package util

import (
	"math"
	"math/rand"

	"github.com/hupe1980/coilprox/geometry"
)

// RNG struct encapsulates the random number generator and seed.
type RNG struct {
	rand *rand.Rand
	seed int64
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// RandomCloud generates a cloud of n points uniformly distributed in the
// cube [-extent, extent]^3.
func (r *RNG) RandomCloud(n int, extent float64) geometry.PointCloud {
	cloud := make(geometry.PointCloud, n)
	for i := range cloud {
		cloud[i] = geometry.Point{
			(2*r.rand.Float64() - 1) * extent,
			(2*r.rand.Float64() - 1) * extent,
			(2*r.rand.Float64() - 1) * extent,
		}
	}
	return cloud
}

// CircularCoil discretizes a planar circular coil into n points.
// center is the coil center, normal the (non-zero) coil axis, radius the
// coil radius.
func CircularCoil(center geometry.Point, normal [3]float64, radius float64, n int) geometry.PointCloud {
	// Build an orthonormal frame (u, v) spanning the coil plane.
	u, v := planeBasis(normal)

	cloud := make(geometry.PointCloud, n)
	for i := range cloud {
		phi := 2 * math.Pi * float64(i) / float64(n)
		c, s := math.Cos(phi), math.Sin(phi)
		for axis := 0; axis < 3; axis++ {
			cloud[i][axis] = center[axis] + radius*(c*u[axis]+s*v[axis])
		}
	}
	return cloud
}

// RotateZ returns a copy of the cloud rotated by angle radians about the
// z-axis. Stellarator coil sets are built from a few base coils plus
// field-period rotations of them; the rotated copies are what the
// numBaseCurves restriction exploits.
func RotateZ(cloud geometry.PointCloud, angle float64) geometry.PointCloud {
	c, s := math.Cos(angle), math.Sin(angle)
	out := make(geometry.PointCloud, len(cloud))
	for i, p := range cloud {
		out[i] = geometry.Point{
			c*p[0] - s*p[1],
			s*p[0] + c*p[1],
			p[2],
		}
	}
	return out
}

// planeBasis returns two unit vectors orthogonal to n and to each other.
func planeBasis(n [3]float64) (u, v [3]float64) {
	// Pick the axis least aligned with n to avoid degeneracy.
	ref := [3]float64{1, 0, 0}
	if math.Abs(n[0]) >= math.Abs(n[1]) && math.Abs(n[0]) >= math.Abs(n[2]) {
		ref = [3]float64{0, 1, 0}
	}

	u = cross(n, ref)
	u = normalize(u)
	v = cross(n, u)
	v = normalize(v)
	return u, v
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func normalize(a [3]float64) [3]float64 {
	norm := math.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])
	return [3]float64{a[0] / norm, a[1] / norm, a[2] / norm}
}
