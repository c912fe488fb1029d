package grid

import (
	"fmt"
	"math"

	"github.com/hupe1980/coilprox/geometry"
)

// cellBits is the number of bits per axis in a packed cell key.
// Three biased 21-bit axes fit a uint64 with a bit to spare.
const cellBits = 21

// cellBias shifts signed cell indices into the unsigned packable range.
const cellBias = 1 << (cellBits - 1)

// MaxCellIndex is the largest absolute cell index a point may hash to.
// One step is reserved so the 26-neighbor expansion of a boundary cell
// still packs without wrapping.
const MaxCellIndex = cellBias - 2

// Cell identifies a cubic grid cell of side length equal to the detection
// threshold, anchored at the origin.
type Cell struct {
	I, J, K int32
}

// CellOf returns the cell containing p for the given threshold.
// threshold > 0 is a precondition enforced by the caller.
func CellOf(p geometry.Point, threshold float64) Cell {
	return Cell{
		I: axisIndex(p[0] / threshold),
		J: axisIndex(p[1] / threshold),
		K: axisIndex(p[2] / threshold),
	}
}

// axisIndex floors a scaled coordinate to its cell index. The range check
// happens on the float, before conversion: converting an out-of-range
// float64 to int32 is implementation-defined, so indices beyond the
// packable range (including NaN) map to a fixed sentinel that inRange
// rejects on every platform.
func axisIndex(v float64) int32 {
	f := math.Floor(v)
	if !(f >= -MaxCellIndex && f <= MaxCellIndex) {
		return MaxCellIndex + 1
	}
	return int32(f)
}

// inRange reports whether every axis index is packable, leaving room for
// the neighbor stencil.
func (c Cell) inRange() bool {
	return c.I >= -MaxCellIndex && c.I <= MaxCellIndex &&
		c.J >= -MaxCellIndex && c.J <= MaxCellIndex &&
		c.K >= -MaxCellIndex && c.K <= MaxCellIndex
}

// pack encodes the cell as a single uint64 key. Packed keys preserve no
// particular geometric order; they only need to be unique and cheap to
// compare, which is all the bitmap sets require.
func (c Cell) pack() uint64 {
	i := uint64(uint32(c.I+cellBias)) & (1<<cellBits - 1)
	j := uint64(uint32(c.J+cellBias)) & (1<<cellBits - 1)
	k := uint64(uint32(c.K+cellBias)) & (1<<cellBits - 1)
	return i<<(2*cellBits) | j<<cellBits | k
}

// ErrCellRange indicates a point whose cell index exceeds the packable
// range. Wrapping the key instead would alias distant cells and could drop
// genuinely close pairs, so the whole call is rejected.
type ErrCellRange struct {
	Cell      Cell
	Threshold float64
}

func (e *ErrCellRange) Error() string {
	return fmt.Sprintf("cell (%d,%d,%d) outside packable range ±%d for threshold %g",
		e.Cell.I, e.Cell.J, e.Cell.K, MaxCellIndex, e.Threshold)
}
