package spectral

import (
	"fmt"
	"math"

	"github.com/pthm-cable/darkmesh/mesh"
)

// PoissonSolver turns a density-contrast field into a gravitational
// potential by applying the -1/k^2 Green's function in Fourier space. It is
// bound to one resolution and reusable across steps: the transform plans and
// the complex scratch buffer are allocated once.
type PoissonSolver struct {
	n         int
	boxSize   float64
	transform Transform3D
	buf       []complex128
}

// NewPoissonSolver plans a solver for the given mesh resolution and box
// size. Plan construction failure is a configuration error surfaced here,
// before any simulation work starts.
func NewPoissonSolver(resolution int, boxSize float64) (*PoissonSolver, error) {
	if boxSize <= 0 {
		return nil, fmt.Errorf("spectral: box size must be positive, got %g", boxSize)
	}
	fft, err := NewFFT3D(resolution)
	if err != nil {
		return nil, fmt.Errorf("spectral: planning poisson transform: %w", err)
	}
	return &PoissonSolver{
		n:         resolution,
		boxSize:   boxSize,
		transform: fft,
		buf:       make([]complex128, resolution*resolution*resolution),
	}, nil
}

// SolvePotential computes g.Potential from g.DensityContrast.
//
// Pipeline: copy the contrast into the complex scratch buffer, forward
// transform, multiply each mode by -1/k^2 with the k=0 mode forced to
// exactly zero, inverse transform, and store the real part divided by N^3
// to undo the unnormalized transform convention.
func (s *PoissonSolver) SolvePotential(g *mesh.Grid) error {
	if g.Resolution != s.n {
		return fmt.Errorf("spectral: grid resolution %d does not match solver resolution %d", g.Resolution, s.n)
	}

	for i, d := range g.DensityContrast {
		s.buf[i] = complex(d, 0)
	}

	s.transform.Forward(s.buf)

	kFund := 2 * math.Pi / s.boxSize
	for i := range s.buf {
		if i == 0 {
			// DC mode: the mean potential offset has no dynamical
			// effect and 1/k^2 is undefined there.
			s.buf[0] = 0
			continue
		}
		kx, ky, kz := WaveVector(i, s.n, kFund)
		k2 := kx*kx + ky*ky + kz*kz
		s.buf[i] /= complex(-k2, 0)
	}

	s.transform.Inverse(s.buf)

	norm := 1 / float64(g.TotalCells())
	for i := range g.Potential {
		g.Potential[i] = real(s.buf[i]) * norm
	}
	return nil
}
