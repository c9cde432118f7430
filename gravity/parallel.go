package gravity

import (
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/darkmesh/body"
	"github.com/pthm-cable/darkmesh/mesh"
)

// ParallelThreshold is the minimum particle count to use parallel deposit
// and gather. Below this, single-threaded is faster due to goroutine and
// partial-grid merge overhead.
const ParallelThreshold = 4096

// Workers normalizes a configured worker count: zero or negative means one
// worker per available CPU.
func Workers(configured int) int {
	if configured > 0 {
		return configured
	}
	return runtime.GOMAXPROCS(0)
}

// depositScratch holds the per-worker partial grids reused across steps.
type depositScratch struct {
	partials [][]float64
}

// Depositor performs mass deposit, switching between serial and
// partial-grid parallel accumulation. Concurrent workers never write the
// shared field: each accumulates into a private partial grid and the
// partials are merged by elementwise summation afterwards.
type Depositor struct {
	workers int
	scratch depositScratch
}

// NewDepositor builds a depositor with per-worker partial grids for an
// N^3 mesh.
func NewDepositor(resolution, workers int) *Depositor {
	workers = Workers(workers)
	cells := resolution * resolution * resolution
	partials := make([][]float64, workers)
	for i := range partials {
		partials[i] = make([]float64, cells)
	}
	return &Depositor{
		workers: workers,
		scratch: depositScratch{partials: partials},
	}
}

// Deposit runs AssignMassCIC, in parallel when the particle count warrants
// it. The grid must have been cleared first.
func (d *Depositor) Deposit(ps *body.ParticleSet, g *mesh.Grid) {
	n := len(ps.Particles)
	if d.workers < 2 || n < ParallelThreshold {
		AssignMassCIC(ps, g)
		return
	}

	var wg sync.WaitGroup
	for w := 0; w < d.workers; w++ {
		lo, hi := chunkRange(n, d.workers, w)
		if lo >= hi {
			continue
		}
		partial := d.scratch.partials[w]
		for i := range partial {
			partial[i] = 0
		}
		wg.Add(1)
		go func(partial []float64, lo, hi int) {
			defer wg.Done()
			depositRange(ps, g, partial, lo, hi)
		}(partial, lo, hi)
	}
	wg.Wait()

	for _, partial := range d.scratch.partials {
		floats.Add(g.DensityContrast, partial)
	}
	normalizeContrast(g, ps.TotalMass())
}

// GatherParallel interpolates forces onto all particles using the worker
// pool. The gather is read-only over the mesh, so chunks are independent.
func (f *ForceField) GatherParallel(ps *body.ParticleSet, g *mesh.Grid, workers int) {
	n := len(ps.Particles)
	workers = Workers(workers)
	if workers < 2 || n < ParallelThreshold {
		f.GatherAll(ps, g)
		return
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo, hi := chunkRange(n, workers, w)
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			f.Gather(ps, g, lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}

// chunkRange splits n items into `workers` contiguous chunks and returns
// the half-open range for chunk w.
func chunkRange(n, workers, w int) (lo, hi int) {
	size := (n + workers - 1) / workers
	lo = w * size
	hi = lo + size
	if hi > n {
		hi = n
	}
	if lo > n {
		lo = n
	}
	return lo, hi
}
