// Package sim orchestrates the particle-mesh simulation: initial
// conditions, the per-step deposit/solve/force/integrate pipeline, and the
// final 2D projection.
package sim

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/darkmesh/body"
	"github.com/pthm-cable/darkmesh/config"
	"github.com/pthm-cable/darkmesh/gravity"
	"github.com/pthm-cable/darkmesh/icgen"
	"github.com/pthm-cable/darkmesh/mesh"
	"github.com/pthm-cable/darkmesh/spectral"
	"github.com/pthm-cable/darkmesh/telemetry"
)

// Driver owns the grid, solver and particle set for one run. Steps are
// strictly sequential; nothing mutates the particle set mid-step except the
// driver's own deposit and integrate calls.
type Driver struct {
	cfg *config.Config
	rng *rand.Rand

	particles *body.ParticleSet
	grid      *mesh.Grid
	solver    *spectral.PoissonSolver
	forces    *gravity.ForceField
	depositor *gravity.Depositor

	collector *telemetry.Collector
	workers   int
	step      int
}

// NewDriver validates the configuration, builds the initial particle
// distribution and plans the solver. Every configuration failure surfaces
// here, before any simulation work.
func NewDriver(cfg *config.Config, seed int64) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &cfg.Simulation
	rng := rand.New(rand.NewSource(seed))

	var (
		ps  *body.ParticleSet
		err error
	)
	switch cfg.Initial.Mode {
	case config.ModeUniform:
		ps, err = icgen.Uniform(rng, s.Particles, s.BoxSize)
	case config.ModePerturbed:
		ps, err = icgen.Perturbed(rng, s.Particles, s.BoxSize, cfg.Initial.PerturbationAmplitude)
	case config.ModeZeldovich:
		ps, err = icgen.Zeldovich(rng, s.Particles, s.GridResolution, s.BoxSize)
	default:
		err = fmt.Errorf("%w: unknown initial mode %q", config.ErrInvalidConfig, cfg.Initial.Mode)
	}
	if err != nil {
		return nil, fmt.Errorf("sim: building initial conditions: %w", err)
	}

	solver, err := spectral.NewPoissonSolver(s.GridResolution, s.BoxSize)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	workers := gravity.Workers(cfg.Runtime.Workers)
	return &Driver{
		cfg:       cfg,
		rng:       rng,
		particles: ps,
		grid:      mesh.NewGrid(s.GridResolution, s.BoxSize),
		solver:    solver,
		forces:    gravity.NewForceField(s.GridResolution),
		depositor: gravity.NewDepositor(s.GridResolution, workers),
		collector: telemetry.NewCollector(),
		workers:   workers,
	}, nil
}

// Particles exposes the particle set for persistence collaborators. Callers
// must not mutate it mid-step.
func (d *Driver) Particles() *body.ParticleSet {
	return d.particles
}

// Collector returns the telemetry collector for this run.
func (d *Driver) Collector() *telemetry.Collector {
	return d.collector
}

// CurrentStep returns the number of completed steps.
func (d *Driver) CurrentStep() int {
	return d.step
}

// solveForces runs the mesh pipeline at the current particle positions:
// clear density, deposit mass, solve the potential, differentiate and
// gather forces onto particles.
func (d *Driver) solveForces() (depositDur, solveDur, forceDur time.Duration, err error) {
	start := time.Now()
	d.grid.ClearDensity()
	d.depositor.Deposit(d.particles, d.grid)
	depositDur = time.Since(start)

	start = time.Now()
	if err := d.solver.SolvePotential(d.grid); err != nil {
		return depositDur, 0, 0, err
	}
	solveDur = time.Since(start)

	start = time.Now()
	d.forces.FromPotential(d.grid)
	d.forces.Scale(d.cfg.Physics.GrowthFactor)
	d.forces.GatherParallel(d.particles, d.grid, d.workers)
	forceDur = time.Since(start)

	return depositDur, solveDur, forceDur, nil
}

// Step advances the simulation by one kick-drift-kick leapfrog step. Forces
// are re-solved at the drifted positions before the closing half-kick.
func (d *Driver) Step() error {
	dt := d.cfg.Simulation.TimeStep
	stepStart := time.Now()

	depositDur, solveDur, forceDur, err := d.solveForces()
	if err != nil {
		return fmt.Errorf("sim: step %d: %w", d.step, err)
	}

	d.particles.HalfKick(dt)
	d.particles.Drift(dt)

	dep2, sol2, frc2, err := d.solveForces()
	if err != nil {
		return fmt.Errorf("sim: step %d: %w", d.step, err)
	}
	depositDur += dep2
	solveDur += sol2
	forceDur += frc2

	d.particles.HalfKick(dt)
	d.step++

	if d.cfg.Telemetry.Enabled {
		minC, maxC := telemetry.FieldRange(d.grid.DensityContrast)
		d.collector.Record(telemetry.StepRecord{
			Step:          d.step,
			KineticEnergy: d.particles.KineticEnergy(),
			MinContrast:   minC,
			MaxContrast:   maxC,
			DepositMs:     depositDur.Seconds() * 1000,
			SolveMs:       solveDur.Seconds() * 1000,
			ForceMs:       forceDur.Seconds() * 1000,
			StepMs:        time.Since(stepStart).Seconds() * 1000,
		})
	}

	slog.Debug("step complete",
		"step", d.step,
		"deposit_ms", depositDur.Seconds()*1000,
		"solve_ms", solveDur.Seconds()*1000,
		"force_ms", forceDur.Seconds()*1000,
	)
	return nil
}

// Project deposits the current particle distribution onto the configured
// projection grid and returns the row-major surface-density map.
func (d *Driver) Project() []float64 {
	return gravity.ProjectToPlane(d.particles, d.cfg.Simulation.ProjectionResolution)
}

// Run executes the configured number of steps and returns the projection of
// the final state. With zero steps the initial distribution is projected
// unchanged.
func (d *Driver) Run() ([]float64, error) {
	for i := 0; i < d.cfg.Simulation.Steps; i++ {
		if err := d.Step(); err != nil {
			return nil, err
		}
	}
	return d.Project(), nil
}

// Run is the primary entry contract: build a driver from cfg, run every
// step and return the final projected map.
func Run(cfg *config.Config, seed int64) ([]float64, error) {
	d, err := NewDriver(cfg, seed)
	if err != nil {
		return nil, err
	}
	return d.Run()
}
