package icgen

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/darkmesh/body"
)

const (
	// modeScales x orientationsPerScale discrete plane waves are
	// superposed to build the target density field.
	modeScales           = 8
	orientationsPerScale = 3

	// densityFloor keeps the sampled field positive so it can act as an
	// acceptance probability.
	densityFloor = 0.01

	// rhoMaxSamples points estimate the field maximum; the safety margin
	// covers peaks the sampling missed.
	rhoMaxSamples   = 1000
	rhoMaxSafety    = 1.2
	attemptsPerGoal = 100

	// velocityJitterFrac sets the uniform velocity jitter as a fraction
	// of the box size.
	velocityJitterFrac = 0.005
)

// planeWave is one sinusoidal density mode.
type planeWave struct {
	k     mgl64.Vec3
	amp   float64
	phase float64
}

// densityField is a superposition of plane waves over a mean of 1.
type densityField struct {
	modes []planeWave
}

// newDensityField draws modeScales wavelengths, each with
// orientationsPerScale random orientations and phases. Amplitudes follow
// the k^-0.5 power law, a stand-in for a clustering power spectrum.
func newDensityField(rng *rand.Rand, boxSize, amplitude float64) *densityField {
	f := &densityField{modes: make([]planeWave, 0, modeScales*orientationsPerScale)}
	for scale := 1; scale <= modeScales; scale++ {
		kMag := 2 * math.Pi * float64(scale) / boxSize
		amp := amplitude * math.Pow(kMag, -0.5)
		for o := 0; o < orientationsPerScale; o++ {
			f.modes = append(f.modes, planeWave{
				k:     randomUnitVector(rng).Mul(kMag),
				amp:   amp,
				phase: rng.Float64() * 2 * math.Pi,
			})
		}
	}
	return f
}

// at evaluates the density at a point, clamped to the positive floor.
func (f *densityField) at(pos mgl64.Vec3) float64 {
	rho := 1.0
	for i := range f.modes {
		m := &f.modes[i]
		rho += m.amp * math.Sin(m.k.Dot(pos)+m.phase)
	}
	if rho < densityFloor {
		return densityFloor
	}
	return rho
}

// maxEstimate samples the field at random points and applies the safety
// margin. An underestimate only skews acceptance rates, never correctness.
func (f *densityField) maxEstimate(rng *rand.Rand, boxSize float64) float64 {
	max := densityFloor
	for i := 0; i < rhoMaxSamples; i++ {
		rho := f.at(randomBoxPoint(rng, boxSize))
		if rho > max {
			max = rho
		}
	}
	return max * rhoMaxSafety
}

// Perturbed rejection-samples particle positions from a multi-mode plane
// wave density field. The attempt budget is bounded: however extreme the
// density contrast, any shortfall is filled with uniform placement so
// generation never blocks. Velocities get a small uniform jitter; mass is 1.
func Perturbed(rng *rand.Rand, numParticles int, boxSize, amplitude float64) (*body.ParticleSet, error) {
	if err := validateCommon(numParticles, boxSize); err != nil {
		return nil, err
	}

	field := newDensityField(rng, boxSize, amplitude)
	rhoMax := field.maxEstimate(rng, boxSize)

	ps := body.NewParticleSet(numParticles, boxSize)
	placed := 0
	for attempts := 0; placed < numParticles && attempts < attemptsPerGoal*numParticles; attempts++ {
		pos := randomBoxPoint(rng, boxSize)
		if rng.Float64()*rhoMax <= field.at(pos) {
			ps.Particles[placed].Pos = pos
			placed++
		}
	}
	// Uniform fallback for any shortfall.
	for ; placed < numParticles; placed++ {
		ps.Particles[placed].Pos = randomBoxPoint(rng, boxSize)
	}

	jitter := velocityJitterFrac * boxSize
	for i := range ps.Particles {
		p := &ps.Particles[i]
		p.Vel[0] = (rng.Float64()*2 - 1) * jitter
		p.Vel[1] = (rng.Float64()*2 - 1) * jitter
		p.Vel[2] = (rng.Float64()*2 - 1) * jitter
		p.Mass = 1
	}
	return ps, nil
}

// randomBoxPoint returns a uniform point in [0, boxSize)^3.
func randomBoxPoint(rng *rand.Rand, boxSize float64) mgl64.Vec3 {
	return mgl64.Vec3{
		rng.Float64() * boxSize,
		rng.Float64() * boxSize,
		rng.Float64() * boxSize,
	}
}

// randomUnitVector draws an isotropic direction.
func randomUnitVector(rng *rand.Rand) mgl64.Vec3 {
	z := rng.Float64()*2 - 1
	theta := rng.Float64() * 2 * math.Pi
	r := math.Sqrt(1 - z*z)
	return mgl64.Vec3{r * math.Cos(theta), r * math.Sin(theta), z}
}
