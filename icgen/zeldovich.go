package icgen

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pthm-cable/darkmesh/body"
	"github.com/pthm-cable/darkmesh/config"
	"github.com/pthm-cable/darkmesh/mesh"
	"github.com/pthm-cable/darkmesh/spectral"
)

const (
	// spectralTilt weights the white-noise field by |k|^spectralTilt,
	// a toy stand-in for CDM-like clustering.
	spectralTilt = -1.5

	// displacementFrac caps the maximum displacement at this fraction of
	// the box size.
	displacementFrac = 0.05

	// velocityScale relates peculiar velocity to displacement in the
	// linearized approximation. No growth-factor term.
	velocityScale = 1.0
)

// Zeldovich generates initial conditions with the Zel'dovich approximation:
// one particle per lattice cell, displaced by the gradient field of a
// spectrally weighted Gaussian random density. Requires
// numParticles == gridResolution^3.
func Zeldovich(rng *rand.Rand, numParticles, gridResolution int, boxSize float64) (*body.ParticleSet, error) {
	if err := validateCommon(numParticles, boxSize); err != nil {
		return nil, err
	}
	n := gridResolution
	if n <= 0 {
		return nil, fmt.Errorf("%w: grid resolution must be > 0, got %d", config.ErrInvalidConfig, n)
	}
	if numParticles != n*n*n {
		return nil, fmt.Errorf("%w: zeldovich requires one particle per lattice cell: particles %d != %d^3",
			config.ErrInvalidConfig, numParticles, n)
	}

	fft, err := spectral.NewFFT3D(n)
	if err != nil {
		return nil, fmt.Errorf("icgen: planning displacement transform: %w", err)
	}

	cells := n * n * n
	delta := make([]complex128, cells)
	for i := range delta {
		delta[i] = complex(rng.NormFloat64(), 0)
	}
	fft.Forward(delta)

	// Shape the white noise into delta(k) with the power-law tilt. The
	// k=0 mode is the field mean and is explicitly zeroed.
	kFund := 2 * math.Pi / boxSize
	delta[0] = 0
	for i := 1; i < cells; i++ {
		kx, ky, kz := spectral.WaveVector(i, n, kFund)
		kMag := math.Sqrt(kx*kx + ky*ky + kz*kz)
		delta[i] *= complex(math.Pow(kMag, spectralTilt), 0)
	}

	// Displacement field per axis: Psi_i(k) = -i * k_i * delta(k) / k^2,
	// inverse-transformed back to real space.
	psi := [3][]float64{
		make([]float64, cells),
		make([]float64, cells),
		make([]float64, cells),
	}
	psiK := make([]complex128, cells)
	norm := 1 / float64(cells)
	for axis := 0; axis < 3; axis++ {
		psiK[0] = 0
		for i := 1; i < cells; i++ {
			kx, ky, kz := spectral.WaveVector(i, n, kFund)
			k2 := kx*kx + ky*ky + kz*kz
			kAxis := [3]float64{kx, ky, kz}[axis]
			psiK[i] = delta[i] * complex(0, -kAxis/k2)
		}
		fft.Inverse(psiK)
		for i := range psi[axis] {
			psi[axis][i] = real(psiK[i]) * norm
		}
	}

	// Rescale so the largest displacement component spans the target
	// fraction of the box.
	maxAbs := 0.0
	for axis := 0; axis < 3; axis++ {
		for _, v := range psi[axis] {
			if a := math.Abs(v); a > maxAbs {
				maxAbs = a
			}
		}
	}
	scale := 0.0
	if maxAbs > 0 {
		scale = displacementFrac * boxSize / maxAbs
	}

	ps := body.NewParticleSet(numParticles, boxSize)
	cellSize := boxSize / float64(n)
	for idx := 0; idx < cells; idx++ {
		i, j, k := mesh.Unravel(idx, n)
		p := &ps.Particles[idx]

		// Lagrangian lattice position: the cell center.
		q := [3]float64{
			(float64(i) + 0.5) * cellSize,
			(float64(j) + 0.5) * cellSize,
			(float64(k) + 0.5) * cellSize,
		}
		for axis := 0; axis < 3; axis++ {
			d := scale * psi[axis][idx]
			p.Pos[axis] = mesh.WrapCoord(q[axis]+d, boxSize)
			p.Vel[axis] = velocityScale * d
		}
		p.Mass = 1
	}
	return ps, nil
}
