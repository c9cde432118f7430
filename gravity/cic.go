// Package gravity implements the mesh side of the particle-mesh method:
// cloud-in-cell mass deposit, force differentiation, force interpolation and
// the 2D surface-density projection.
package gravity

import (
	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/darkmesh/body"
	"github.com/pthm-cable/darkmesh/mesh"
)

// meanDensityEpsilon guards the contrast normalization: below this the raw
// field stays zero instead of dividing by a vanishing mean.
const meanDensityEpsilon = 1e-12

// AssignMassCIC deposits every particle's mass onto the grid with the
// trilinear cloud-in-cell scheme, then normalizes the field to density
// contrast (rho - mean)/mean. The grid must have been cleared first.
func AssignMassCIC(ps *body.ParticleSet, g *mesh.Grid) {
	depositRange(ps, g, g.DensityContrast, 0, len(ps.Particles))
	normalizeContrast(g, ps.TotalMass())
}

// depositRange deposits particles [lo, hi) into field. Separated out so the
// parallel deposit can aim workers at private partial grids.
func depositRange(ps *body.ParticleSet, g *mesh.Grid, field []float64, lo, hi int) {
	n := g.Resolution
	invCell := 1 / g.CellSize()

	for pi := lo; pi < hi; pi++ {
		p := &ps.Particles[pi]

		i, dx := mesh.SplitCoord(p.Pos[0], invCell)
		j, dy := mesh.SplitCoord(p.Pos[1], invCell)
		k, dz := mesh.SplitCoord(p.Pos[2], invCell)

		w := mesh.CICWeights(dx, dy, dz)
		for c, off := range mesh.CICOffsets {
			idx := mesh.CellIndex(i+off[0], j+off[1], k+off[2], n)
			field[idx] += p.Mass * w[c]
		}
	}
}

// normalizeContrast converts raw deposited mass to density contrast in
// place. A near-zero mean density leaves the field untouched (all zeros for
// an empty or massless set) rather than blowing up the division.
func normalizeContrast(g *mesh.Grid, totalMass float64) {
	meanDensity := totalMass / float64(g.TotalCells())
	if meanDensity <= meanDensityEpsilon {
		return
	}
	floats.Scale(1/meanDensity, g.DensityContrast)
	floats.AddConst(-1, g.DensityContrast)
}
