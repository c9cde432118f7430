// Package body holds the particle data model and the leapfrog position and
// velocity updates.
package body

import "github.com/go-gl/mathgl/mgl64"

// Particle is one tracer mass. Force is transient: it is recomputed from
// the mesh every step and carries no meaning between steps.
type Particle struct {
	Pos   mgl64.Vec3
	Vel   mgl64.Vec3
	Force mgl64.Vec3
	Mass  float64
}

// ParticleSet owns every particle in a run plus the box size. The particle
// count is fixed after initialization; indices stay stable within a step so
// gathered forces apply to the particle they were computed for.
type ParticleSet struct {
	Particles []Particle
	BoxSize   float64
}

// NewParticleSet allocates a set of n zero-valued particles.
func NewParticleSet(n int, boxSize float64) *ParticleSet {
	return &ParticleSet{
		Particles: make([]Particle, n),
		BoxSize:   boxSize,
	}
}

// TotalMass sums the particle masses. Invariant across every step: the
// simulation never creates, destroys or exchanges mass.
func (ps *ParticleSet) TotalMass() float64 {
	var total float64
	for i := range ps.Particles {
		total += ps.Particles[i].Mass
	}
	return total
}

// KineticEnergy returns sum over particles of 0.5*m*v^2.
func (ps *ParticleSet) KineticEnergy() float64 {
	var total float64
	for i := range ps.Particles {
		p := &ps.Particles[i]
		total += 0.5 * p.Mass * p.Vel.LenSqr()
	}
	return total
}
