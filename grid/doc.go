// Package grid implements the spatial-hash side of the proximity pipeline.
//
// Points are hashed into cubic cells of side length equal to the detection
// threshold. For each cloud two cell sets are built: the exact set of
// occupied cells and an expanded set that additionally contains the 26
// neighbors of every occupied cell. Two clouds can only contain a point
// pair closer than the threshold if the expanded set of one intersects the
// exact set of the other, which turns an O(n·m) point comparison into a
// set-intersection test.
//
// Cell sets are Roaring 64-bit bitmaps over packed cell keys. Roaring
// containers are sorted runs, so the intersection test is the linear
// merge-style scan the broad phase requires.
package grid
