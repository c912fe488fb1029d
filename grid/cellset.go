package grid

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/coilprox/geometry"
)

// Set is an unordered set of grid cells backed by a 64-bit Roaring bitmap
// over packed cell keys.
type Set struct {
	b *roaring64.Bitmap
}

// NewSet creates an empty cell set.
func NewSet() *Set {
	return &Set{b: roaring64.New()}
}

// Add inserts the cell into the set.
func (s *Set) Add(c Cell) {
	s.b.Add(c.pack())
}

// AddNeighborhood inserts the cell together with its 26 axis-aligned and
// diagonal neighbors (the full 3x3x3 stencil).
func (s *Set) AddNeighborhood(c Cell) {
	for di := int32(-1); di <= 1; di++ {
		for dj := int32(-1); dj <= 1; dj++ {
			for dk := int32(-1); dk <= 1; dk++ {
				s.Add(Cell{I: c.I + di, J: c.J + dj, K: c.K + dk})
			}
		}
	}
}

// Contains reports whether the cell is in the set.
func (s *Set) Contains(c Cell) bool {
	return s.b.Contains(c.pack())
}

// Len returns the number of cells in the set.
func (s *Set) Len() int {
	return int(s.b.GetCardinality())
}

// Intersects reports whether the two sets share at least one cell.
// Roaring bitmaps intersect container-by-container over sorted keys, so
// this is the linear short-circuiting scan the broad phase depends on.
func (s *Set) Intersects(o *Set) bool {
	return s.b.Intersects(o.b)
}

// Sets holds the two per-cloud cell sets the broad phase consumes.
// Expanded is always a superset of Exact.
type Sets struct {
	Exact    *Set
	Expanded *Set
}

// Build hashes every point of the cloud and constructs its exact and
// expanded cell sets. Building is a pure function of the cloud and
// threshold; calls for different clouds share no state and may run
// concurrently.
//
// An empty cloud yields two empty sets. A point hashing outside the
// packable cell range fails the build with *ErrCellRange.
func Build(cloud geometry.PointCloud, threshold float64) (Sets, error) {
	sets := Sets{Exact: NewSet(), Expanded: NewSet()}
	for _, p := range cloud {
		c := CellOf(p, threshold)
		if !c.inRange() {
			return Sets{}, &ErrCellRange{Cell: c, Threshold: threshold}
		}
		sets.Exact.Add(c)
		sets.Expanded.AddNeighborhood(c)
	}
	return sets, nil
}
