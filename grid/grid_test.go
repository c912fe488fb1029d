package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/coilprox/geometry"
)

func TestCellOf(t *testing.T) {
	tests := []struct {
		name      string
		p         geometry.Point
		threshold float64
		want      Cell
	}{
		{"Origin", geometry.Point{0, 0, 0}, 1.0, Cell{0, 0, 0}},
		{"Positive", geometry.Point{1.5, 2.5, 3.5}, 1.0, Cell{1, 2, 3}},
		{"NegativeFloors", geometry.Point{-0.5, -1.0, -1.5}, 1.0, Cell{-1, -1, -2}},
		{"ExactEdge", geometry.Point{1.0, 2.0, -3.0}, 1.0, Cell{1, 2, -3}},
		{"Scaled", geometry.Point{0.9, 0.9, 0.9}, 0.3, Cell{2, 2, 2}}, // 0.9/0.3 may round either side of 3
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CellOf(tt.p, tt.threshold)
			if tt.name == "Scaled" {
				// Floating division of 0.9/0.3 lands at 2.999... or 3.0
				// depending on rounding; both floor into adjacent cells and
				// both are covered by the expanded stencil. Only sanity-check.
				assert.InDelta(t, 3, got.I, 1)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCellOfOutOfRangeIsDeterministic(t *testing.T) {
	// Coordinates whose floored index exceeds the packable range must land
	// on the same sentinel everywhere. Converting an out-of-range float64
	// to int32 directly would be implementation-defined across
	// architectures, so the check happens before the conversion.
	points := []geometry.Point{
		{1e18, 0, 0},
		{-1e18, 0, 0},
		{0, float64(MaxCellIndex) + 1.5, 0},
		{0, 0, math.Inf(1)},
		{0, 0, math.Inf(-1)},
	}
	for _, p := range points {
		c := CellOf(p, 1.0)
		assert.False(t, c.inRange(), "point %v must hash out of range", p)
		for _, axis := range []int32{c.I, c.J, c.K} {
			if axis != 0 {
				assert.Equal(t, int32(MaxCellIndex+1), axis)
			}
		}
	}
}

func TestPackUnique(t *testing.T) {
	cells := []Cell{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1},
		{-1, 0, 0}, {0, -1, 0}, {0, 0, -1},
		{MaxCellIndex, MaxCellIndex, MaxCellIndex},
		{-MaxCellIndex, -MaxCellIndex, -MaxCellIndex},
		{MaxCellIndex, -MaxCellIndex, 0},
	}
	seen := make(map[uint64]Cell, len(cells))
	for _, c := range cells {
		key := c.pack()
		prev, dup := seen[key]
		require.False(t, dup, "cells %v and %v pack to the same key", prev, c)
		seen[key] = c
	}
}

func TestSetAddContains(t *testing.T) {
	s := NewSet()
	assert.Equal(t, 0, s.Len())

	s.Add(Cell{1, 2, 3})
	s.Add(Cell{1, 2, 3})
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Contains(Cell{1, 2, 3}))
	assert.False(t, s.Contains(Cell{3, 2, 1}))
}

func TestAddNeighborhood(t *testing.T) {
	s := NewSet()
	s.AddNeighborhood(Cell{0, 0, 0})
	assert.Equal(t, 27, s.Len())

	for di := int32(-1); di <= 1; di++ {
		for dj := int32(-1); dj <= 1; dj++ {
			for dk := int32(-1); dk <= 1; dk++ {
				assert.True(t, s.Contains(Cell{di, dj, dk}))
			}
		}
	}
	assert.False(t, s.Contains(Cell{2, 0, 0}))
}

func TestSetIntersects(t *testing.T) {
	a := NewSet()
	b := NewSet()
	assert.False(t, a.Intersects(b))

	a.Add(Cell{0, 0, 0})
	b.Add(Cell{5, 5, 5})
	assert.False(t, a.Intersects(b))
	assert.False(t, b.Intersects(a))

	b.Add(Cell{0, 0, 0})
	assert.True(t, a.Intersects(b))
	assert.True(t, b.Intersects(a))
}

func TestBuild(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		sets, err := Build(nil, 1.0)
		require.NoError(t, err)
		assert.Equal(t, 0, sets.Exact.Len())
		assert.Equal(t, 0, sets.Expanded.Len())
	})

	t.Run("SinglePoint", func(t *testing.T) {
		sets, err := Build(geometry.PointCloud{{0.5, 0.5, 0.5}}, 1.0)
		require.NoError(t, err)
		assert.Equal(t, 1, sets.Exact.Len())
		assert.Equal(t, 27, sets.Expanded.Len())
		assert.True(t, sets.Exact.Contains(Cell{0, 0, 0}))
	})

	t.Run("ExpandedSupersetOfExact", func(t *testing.T) {
		cloud := geometry.PointCloud{
			{0, 0, 0}, {2.5, 0, 0}, {-3.1, 4.2, 0.7}, {10, 10, 10},
		}
		sets, err := Build(cloud, 0.8)
		require.NoError(t, err)
		for _, p := range cloud {
			c := CellOf(p, 0.8)
			assert.True(t, sets.Exact.Contains(c))
			assert.True(t, sets.Expanded.Contains(c))
		}
		assert.GreaterOrEqual(t, sets.Expanded.Len(), sets.Exact.Len())
	})

	t.Run("OutOfRange", func(t *testing.T) {
		// A tiny threshold pushes the cell index past the packable range.
		_, err := Build(geometry.PointCloud{{1e9, 0, 0}}, 1e-6)
		var cr *ErrCellRange
		require.ErrorAs(t, err, &cr)
	})
}

// TestStencilCoversThreshold verifies the geometric assumption behind the
// broad phase: with cell size equal to the threshold, any two points closer
// than the threshold occupy either the same cell or cells within one step
// of each other on every axis, including points sitting exactly on cell
// edges.
func TestStencilCoversThreshold(t *testing.T) {
	const threshold = 1.0

	// Offsets inside a cell, including both exact edges.
	inCell := []float64{0, 1e-9, 0.25, 0.5, 0.999999, 1.0}
	// Displacement magnitudes strictly below the threshold.
	steps := []float64{0, 1e-9, 0.3, 0.7, 0.999999}

	for _, ox := range inCell {
		for _, oy := range inCell {
			base := geometry.Point{ox, oy, 0.5}
			expanded := NewSet()
			expanded.AddNeighborhood(CellOf(base, threshold))

			for _, dx := range steps {
				for _, dy := range steps {
					if dx*dx+dy*dy >= threshold*threshold {
						continue
					}
					for _, sx := range []float64{-1, 1} {
						for _, sy := range []float64{-1, 1} {
							q := geometry.Point{base[0] + sx*dx, base[1] + sy*dy, base[2]}
							require.True(t, expanded.Contains(CellOf(q, threshold)),
								"point %v escapes stencil of %v", q, base)
						}
					}
				}
			}
		}
	}
}

func BenchmarkBuild(b *testing.B) {
	cloud := make(geometry.PointCloud, 1000)
	for i := range cloud {
		f := float64(i) * 0.01
		cloud[i] = geometry.Point{f, f * 0.5, -f}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := Build(cloud, 0.1)
		if err != nil {
			b.Fatal(err)
		}
	}
}
