// Package icgen builds initial particle distributions. The three generators
// are independent and mutually exclusive; each returns a fully populated
// particle set ready for the first step.
package icgen

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/darkmesh/body"
	"github.com/pthm-cable/darkmesh/config"
)

func validateCommon(numParticles int, boxSize float64) error {
	if numParticles <= 0 {
		return fmt.Errorf("%w: particle count must be > 0, got %d", config.ErrInvalidConfig, numParticles)
	}
	if boxSize <= 0 {
		return fmt.Errorf("%w: box size must be > 0, got %g", config.ErrInvalidConfig, boxSize)
	}
	return nil
}

// Uniform places every particle at an independently uniform position in
// [0, boxSize)^3 with zero velocity and unit mass.
func Uniform(rng *rand.Rand, numParticles int, boxSize float64) (*body.ParticleSet, error) {
	if err := validateCommon(numParticles, boxSize); err != nil {
		return nil, err
	}

	ps := body.NewParticleSet(numParticles, boxSize)
	for i := range ps.Particles {
		p := &ps.Particles[i]
		p.Pos[0] = rng.Float64() * boxSize
		p.Pos[1] = rng.Float64() * boxSize
		p.Pos[2] = rng.Float64() * boxSize
		p.Mass = 1
	}
	return ps, nil
}
