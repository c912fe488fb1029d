package geometry

import (
	"fmt"
	"math"
)

// Point is a single 3D sample point.
type Point [3]float64

// PointCloud is an ordered sequence of 3D points representing a discretized
// curve. The ordering carries no meaning for proximity checks but is
// preserved for callers that round-trip clouds through snapshots.
type PointCloud []Point

// FromFlat builds a PointCloud from a flat row-major N×3 coordinate buffer.
// The buffer is copied; the caller keeps ownership of data.
func FromFlat(data []float64) (PointCloud, error) {
	if len(data)%3 != 0 {
		return nil, &ErrMalformedCloud{Len: len(data)}
	}
	cloud := make(PointCloud, len(data)/3)
	for i := range cloud {
		cloud[i] = Point{data[3*i], data[3*i+1], data[3*i+2]}
	}
	return cloud, nil
}

// Flat returns the cloud as a flat row-major N×3 coordinate buffer.
func (c PointCloud) Flat() []float64 {
	out := make([]float64, 0, 3*len(c))
	for _, p := range c {
		out = append(out, p[0], p[1], p[2])
	}
	return out
}

// Validate checks that every coordinate is a finite number.
// NaN coordinates would make every distance comparison false and silently
// drop pairs, so they are rejected up front.
func (c PointCloud) Validate() error {
	for i, p := range c {
		for axis, v := range p {
			if math.IsNaN(v) {
				return fmt.Errorf("point[%d] axis %d is NaN", i, axis)
			}
			if math.IsInf(v, 0) {
				return fmt.Errorf("point[%d] axis %d is Inf", i, axis)
			}
		}
	}
	return nil
}

// SquaredDistance returns the squared Euclidean distance between a and b.
func SquaredDistance(a, b Point) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	dz := a[2] - b[2]
	return dx*dx + dy*dy + dz*dz
}

// CloudsWithin reports whether any point of a is strictly closer than
// sqrt(d2) to any point of b. It returns on the first such pair; existence
// is all the narrow phase needs.
func CloudsWithin(a, b PointCloud, d2 float64) bool {
	for _, pa := range a {
		for _, pb := range b {
			if SquaredDistance(pa, pb) < d2 {
				return true
			}
		}
	}
	return false
}

// ErrMalformedCloud indicates a flat buffer whose length is not a multiple
// of three and therefore cannot be interpreted as an N×3 point array.
type ErrMalformedCloud struct {
	Len int
}

func (e *ErrMalformedCloud) Error() string {
	return fmt.Sprintf("malformed cloud: buffer length %d is not a multiple of 3", e.Len)
}
