package mesh

import "math"

// Periodic index arithmetic. Every place that touches the mesh (deposit,
// gather, differencing, projection) goes through these helpers so the
// wrap and flattening conventions cannot drift apart.

// WrapIndex maps an axis index onto [0, n) with Euclidean modulo, so
// negative indices wrap to the far side of the box.
func WrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// WrapCoord maps a coordinate onto [0, period).
func WrapCoord(x, period float64) float64 {
	x = math.Mod(x, period)
	if x < 0 {
		x += period
	}
	return x
}

// CellIndex flattens wrapped 3D cell coordinates into a row-major linear
// index: (i*n + j)*n + k.
func CellIndex(i, j, k, n int) int {
	return (WrapIndex(i, n)*n+WrapIndex(j, n))*n + WrapIndex(k, n)
}

// CellIndex2D flattens wrapped 2D cell coordinates into a row-major linear
// index: i*n + j.
func CellIndex2D(i, j, n int) int {
	return WrapIndex(i, n)*n + WrapIndex(j, n)
}

// Unravel inverts CellIndex for an in-range linear index.
func Unravel(idx, n int) (i, j, k int) {
	k = idx % n
	j = (idx / n) % n
	i = idx / (n * n)
	return i, j, k
}

// CICOffsets lists the 8 cell corners, matching the weight order returned
// by CICWeights.
var CICOffsets = [8][3]int{
	{0, 0, 0},
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
	{1, 1, 0},
	{1, 0, 1},
	{0, 1, 1},
	{1, 1, 1},
}

// CICWeights returns the trilinear cloud-in-cell weights for fractional
// offsets in [0,1). The 8 weights sum to exactly 1.
func CICWeights(dx, dy, dz float64) [8]float64 {
	tx, ty, tz := 1-dx, 1-dy, 1-dz
	return [8]float64{
		tx * ty * tz,
		dx * ty * tz,
		tx * dy * tz,
		tx * ty * dz,
		dx * dy * tz,
		dx * ty * dz,
		tx * dy * dz,
		dx * dy * dz,
	}
}

// CICOffsets2D lists the 4 cell corners for the planar projection deposit,
// matching CICWeights2D.
var CICOffsets2D = [4][2]int{
	{0, 0},
	{1, 0},
	{0, 1},
	{1, 1},
}

// CICWeights2D returns the bilinear cloud-in-cell weights for fractional
// offsets in [0,1). The 4 weights sum to exactly 1.
func CICWeights2D(dx, dy float64) [4]float64 {
	tx, ty := 1-dx, 1-dy
	return [4]float64{
		tx * ty,
		dx * ty,
		tx * dy,
		dx * dy,
	}
}

// SplitCoord converts one position component into its base cell index and
// fractional offset given the inverse cell size.
func SplitCoord(x, invCellSize float64) (base int, frac float64) {
	g := x * invCellSize
	f := math.Floor(g)
	return int(f), g - f
}
