package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/coilprox/geometry"
)

func TestRandomCloudDeterministic(t *testing.T) {
	a := NewRNG(42).RandomCloud(50, 3.0)
	b := NewRNG(42).RandomCloud(50, 3.0)
	assert.Equal(t, a, b)

	for _, p := range a {
		for _, v := range p {
			assert.LessOrEqual(t, math.Abs(v), 3.0)
		}
	}
}

func TestCircularCoil(t *testing.T) {
	center := geometry.Point{1, 2, 3}
	coil := CircularCoil(center, [3]float64{0, 0, 1}, 2.0, 64)
	require.Len(t, coil, 64)

	for _, p := range coil {
		// Every point sits on the circle: distance 2 from center, in plane.
		assert.InDelta(t, 4.0, geometry.SquaredDistance(p, center), 1e-9)
		assert.InDelta(t, 3.0, p[2], 1e-9)
	}
}

func TestCircularCoilTiltedAxis(t *testing.T) {
	center := geometry.Point{0, 0, 0}
	coil := CircularCoil(center, [3]float64{1, 1, 0}, 1.5, 32)
	require.Len(t, coil, 32)

	for _, p := range coil {
		assert.InDelta(t, 2.25, geometry.SquaredDistance(p, center), 1e-9)
		// In the plane through the origin orthogonal to (1,1,0): x + y == 0.
		assert.InDelta(t, 0.0, p[0]+p[1], 1e-9)
	}
}

func TestRotateZ(t *testing.T) {
	cloud := geometry.PointCloud{{1, 0, 5}, {0, 2, -1}}
	got := RotateZ(cloud, math.Pi/2)

	assert.InDelta(t, 0.0, got[0][0], 1e-12)
	assert.InDelta(t, 1.0, got[0][1], 1e-12)
	assert.InDelta(t, 5.0, got[0][2], 1e-12)

	assert.InDelta(t, -2.0, got[1][0], 1e-12)
	assert.InDelta(t, 0.0, got[1][1], 1e-12)

	// Rotation preserves pairwise distances.
	assert.InDelta(t,
		geometry.SquaredDistance(cloud[0], cloud[1]),
		geometry.SquaredDistance(got[0], got[1]), 1e-12)
}
