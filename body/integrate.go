package body

import "github.com/pthm-cable/darkmesh/mesh"

// Leapfrog kick-drift-kick. The driver brackets one Drift with two
// HalfKick calls, re-solving forces at the drifted positions in between.

// HalfKick advances every velocity by half a step using the currently
// stored forces. Acceleration is force/mass unconditionally; mass=1
// generators must not mask a missing divisor.
func (ps *ParticleSet) HalfKick(dt float64) {
	for i := range ps.Particles {
		p := &ps.Particles[i]
		accel := p.Force.Mul(1 / p.Mass)
		p.Vel = p.Vel.Add(accel.Mul(0.5 * dt))
	}
}

// Drift advances every position by a full step and wraps it back into
// [0, BoxSize) on each axis.
func (ps *ParticleSet) Drift(dt float64) {
	for i := range ps.Particles {
		p := &ps.Particles[i]
		p.Pos = p.Pos.Add(p.Vel.Mul(dt))
		p.Pos[0] = mesh.WrapCoord(p.Pos[0], ps.BoxSize)
		p.Pos[1] = mesh.WrapCoord(p.Pos[1], ps.BoxSize)
		p.Pos[2] = mesh.WrapCoord(p.Pos[2], ps.BoxSize)
	}
}
