// Package mesh provides the spatial grid for the particle-mesh gravity
// solver: flattened N^3 fields plus the periodic index arithmetic shared by
// mass deposit, force interpolation and projection.
package mesh

// Grid holds the flattened 3D fields defined over an N^3 mesh covering a
// periodic cubic box. Buffers are allocated once and overwritten in place
// every step.
type Grid struct {
	// Resolution is the number of cells along one axis.
	Resolution int
	// BoxSize is the side length of the simulation cube.
	BoxSize float64
	// DensityContrast stores (rho - meanRho) / meanRho per cell, row-major.
	DensityContrast []float64
	// Potential stores the gravitational potential per cell, row-major.
	Potential []float64
}

// NewGrid allocates a grid at the given resolution.
func NewGrid(resolution int, boxSize float64) *Grid {
	cells := resolution * resolution * resolution
	return &Grid{
		Resolution:      resolution,
		BoxSize:         boxSize,
		DensityContrast: make([]float64, cells),
		Potential:       make([]float64, cells),
	}
}

// CellSize returns the side length of one grid cell.
func (g *Grid) CellSize() float64 {
	return g.BoxSize / float64(g.Resolution)
}

// TotalCells returns Resolution^3.
func (g *Grid) TotalCells() int {
	return g.Resolution * g.Resolution * g.Resolution
}

// ClearDensity zeroes the density-contrast field. Called at the start of
// every step before deposit.
func (g *Grid) ClearDensity() {
	for i := range g.DensityContrast {
		g.DensityContrast[i] = 0
	}
}
