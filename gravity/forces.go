package gravity

import (
	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/darkmesh/body"
	"github.com/pthm-cable/darkmesh/mesh"
)

// ForceField holds the three per-axis force meshes derived from the
// potential. Buffers are allocated once per run and overwritten in place.
type ForceField struct {
	resolution int
	fx, fy, fz []float64
}

// NewForceField allocates force meshes for an N^3 grid.
func NewForceField(resolution int) *ForceField {
	cells := resolution * resolution * resolution
	return &ForceField{
		resolution: resolution,
		fx:         make([]float64, cells),
		fy:         make([]float64, cells),
		fz:         make([]float64, cells),
	}
}

// FromPotential differentiates g.Potential into the three force meshes
// using second-order central differences with periodic neighbor wrap:
// F = -(phi[+] - phi[-]) / (2*cellSize).
func (f *ForceField) FromPotential(g *mesh.Grid) {
	n := g.Resolution
	inv2h := 0.5 / g.CellSize()
	phi := g.Potential

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				idx := mesh.CellIndex(i, j, k, n)

				f.fx[idx] = -(phi[mesh.CellIndex(i+1, j, k, n)] - phi[mesh.CellIndex(i-1, j, k, n)]) * inv2h
				f.fy[idx] = -(phi[mesh.CellIndex(i, j+1, k, n)] - phi[mesh.CellIndex(i, j-1, k, n)]) * inv2h
				f.fz[idx] = -(phi[mesh.CellIndex(i, j, k+1, n)] - phi[mesh.CellIndex(i, j, k-1, n)]) * inv2h
			}
		}
	}
}

// Scale multiplies all three force meshes by gain. Used for the optional
// growth-factor amplification; a gain of 1 is a no-op.
func (f *ForceField) Scale(gain float64) {
	if gain == 1 {
		return
	}
	floats.Scale(gain, f.fx)
	floats.Scale(gain, f.fy)
	floats.Scale(gain, f.fz)
}

// Gather interpolates the force meshes onto particles [lo, hi) with the
// same cloud-in-cell weights used for deposit; using the identical scheme
// on both sides keeps the particle-mesh self-force bias down. Reads are
// mesh-only, so disjoint ranges are safe to gather concurrently.
func (f *ForceField) Gather(ps *body.ParticleSet, g *mesh.Grid, lo, hi int) {
	n := g.Resolution
	invCell := 1 / g.CellSize()

	for pi := lo; pi < hi; pi++ {
		p := &ps.Particles[pi]

		i, dx := mesh.SplitCoord(p.Pos[0], invCell)
		j, dy := mesh.SplitCoord(p.Pos[1], invCell)
		k, dz := mesh.SplitCoord(p.Pos[2], invCell)

		w := mesh.CICWeights(dx, dy, dz)
		var fx, fy, fz float64
		for c, off := range mesh.CICOffsets {
			idx := mesh.CellIndex(i+off[0], j+off[1], k+off[2], n)
			fx += w[c] * f.fx[idx]
			fy += w[c] * f.fy[idx]
			fz += w[c] * f.fz[idx]
		}
		p.Force[0] = fx
		p.Force[1] = fy
		p.Force[2] = fz
	}
}

// GatherAll interpolates forces onto every particle serially.
func (f *ForceField) GatherAll(ps *body.ParticleSet, g *mesh.Grid) {
	f.Gather(ps, g, 0, len(ps.Particles))
}
