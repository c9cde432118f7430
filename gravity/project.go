package gravity

import (
	"github.com/pthm-cable/darkmesh/body"
	"github.com/pthm-cable/darkmesh/mesh"
)

// ProjectToPlane deposits particle mass onto an R x R grid using only the
// (x, y) components, a surface-density proxy for the box seen down the z
// axis. Bilinear cloud-in-cell weights with periodic wrap on both axes.
// The result is row-major with length R^2.
func ProjectToPlane(ps *body.ParticleSet, resolution int) []float64 {
	out := make([]float64, resolution*resolution)
	projectRange(ps, out, resolution, 0, len(ps.Particles))
	return out
}

// projectRange deposits particles [lo, hi) into a flattened R x R field.
func projectRange(ps *body.ParticleSet, field []float64, resolution, lo, hi int) {
	invCell := float64(resolution) / ps.BoxSize

	for pi := lo; pi < hi; pi++ {
		p := &ps.Particles[pi]

		i, dx := mesh.SplitCoord(p.Pos[0], invCell)
		j, dy := mesh.SplitCoord(p.Pos[1], invCell)

		w := mesh.CICWeights2D(dx, dy)
		for c, off := range mesh.CICOffsets2D {
			idx := mesh.CellIndex2D(i+off[0], j+off[1], resolution)
			field[idx] += p.Mass * w[c]
		}
	}
}
