package spectral

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/darkmesh/mesh"
)

func TestSolvePotentialZeroMean(t *testing.T) {
	// The DC mode is forced to zero, so the solved potential must have
	// zero spatial mean whatever the input field looks like.
	const (
		n       = 16
		boxSize = 50.0
	)
	g := mesh.NewGrid(n, boxSize)
	rng := rand.New(rand.NewSource(17))
	for i := range g.DensityContrast {
		g.DensityContrast[i] = rng.NormFloat64()
	}

	solver, err := NewPoissonSolver(n, boxSize)
	if err != nil {
		t.Fatalf("NewPoissonSolver: %v", err)
	}
	if err := solver.SolvePotential(g); err != nil {
		t.Fatalf("SolvePotential: %v", err)
	}

	sum := 0.0
	for _, v := range g.Potential {
		sum += v
	}
	if math.Abs(sum/float64(g.TotalCells())) > 1e-12 {
		t.Errorf("potential mean = %v, want 0", sum/float64(g.TotalCells()))
	}
}

func TestSolvePotentialSingleMode(t *testing.T) {
	// For delta(x) = sin(k*x) with k the fundamental mode, the discrete
	// Poisson solve gives phi(x) = -sin(k*x)/k^2 exactly: a pure Fourier
	// mode picks up only the -1/k^2 multiplier.
	const (
		n       = 16
		boxSize = 20.0
	)
	g := mesh.NewGrid(n, boxSize)
	k := 2 * math.Pi / boxSize
	h := g.CellSize()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for kk := 0; kk < n; kk++ {
				g.DensityContrast[mesh.CellIndex(i, j, kk, n)] = math.Sin(k * float64(i) * h)
			}
		}
	}

	solver, err := NewPoissonSolver(n, boxSize)
	if err != nil {
		t.Fatalf("NewPoissonSolver: %v", err)
	}
	if err := solver.SolvePotential(g); err != nil {
		t.Fatalf("SolvePotential: %v", err)
	}

	for i := 0; i < n; i++ {
		want := -math.Sin(k*float64(i)*h) / (k * k)
		got := g.Potential[mesh.CellIndex(i, 0, 0, n)]
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("potential at cell %d = %v, want %v", i, got, want)
		}
	}
}

func TestSolvePotentialUniformFieldIsZero(t *testing.T) {
	// A uniform contrast is pure DC: zeroing that mode leaves no source
	// at all, so the potential is identically zero, not NaN.
	const n = 8
	g := mesh.NewGrid(n, 10)
	for i := range g.DensityContrast {
		g.DensityContrast[i] = 3.5
	}

	solver, err := NewPoissonSolver(n, 10)
	if err != nil {
		t.Fatalf("NewPoissonSolver: %v", err)
	}
	if err := solver.SolvePotential(g); err != nil {
		t.Fatalf("SolvePotential: %v", err)
	}

	for i, v := range g.Potential {
		if math.Abs(v) > 1e-12 {
			t.Errorf("potential[%d] = %v, want 0", i, v)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("potential[%d] is not finite: %v", i, v)
		}
	}
}

func TestSolvePotentialResolutionMismatch(t *testing.T) {
	solver, err := NewPoissonSolver(8, 10)
	if err != nil {
		t.Fatalf("NewPoissonSolver: %v", err)
	}
	if err := solver.SolvePotential(mesh.NewGrid(16, 10)); err == nil {
		t.Error("SolvePotential accepted mismatched grid, want error")
	}
}
