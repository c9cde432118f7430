package mesh

import (
	"math"
	"math/rand"
	"testing"
)

func TestWrapIndex(t *testing.T) {
	tests := []struct {
		name string
		i, n int
		want int
	}{
		{"in range", 3, 8, 3},
		{"zero", 0, 8, 0},
		{"at n", 8, 8, 0},
		{"above n", 11, 8, 3},
		{"negative", -1, 8, 7},
		{"far negative", -17, 8, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WrapIndex(tt.i, tt.n); got != tt.want {
				t.Errorf("WrapIndex(%d, %d) = %d, want %d", tt.i, tt.n, got, tt.want)
			}
		})
	}
}

func TestWrapCoord(t *testing.T) {
	tests := []struct {
		name   string
		x, box float64
		want   float64
	}{
		{"in range", 3.5, 10, 3.5},
		{"at box", 10, 10, 0},
		{"above box", 12.5, 10, 2.5},
		{"negative", -0.5, 10, 9.5},
		{"far negative", -20.25, 10, 9.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapCoord(tt.x, tt.box)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("WrapCoord(%v, %v) = %v, want %v", tt.x, tt.box, got, tt.want)
			}
			if got < 0 || got >= tt.box {
				t.Errorf("WrapCoord(%v, %v) = %v, outside [0, %v)", tt.x, tt.box, got, tt.box)
			}
		})
	}
}

func TestCellIndexUnravelRoundTrip(t *testing.T) {
	const n = 5
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				idx := CellIndex(i, j, k, n)
				gi, gj, gk := Unravel(idx, n)
				if gi != i || gj != j || gk != k {
					t.Fatalf("Unravel(CellIndex(%d,%d,%d)) = (%d,%d,%d)", i, j, k, gi, gj, gk)
				}
			}
		}
	}
}

func TestCellIndexWraps(t *testing.T) {
	const n = 4
	if got, want := CellIndex(-1, 0, 0, n), CellIndex(n-1, 0, 0, n); got != want {
		t.Errorf("CellIndex(-1,0,0) = %d, want %d", got, want)
	}
	if got, want := CellIndex(0, n, 0, n), CellIndex(0, 0, 0, n); got != want {
		t.Errorf("CellIndex(0,n,0) = %d, want %d", got, want)
	}
	if got, want := CellIndex(n+2, -3, 2*n, n), CellIndex(2, 1, 0, n); got != want {
		t.Errorf("CellIndex(n+2,-3,2n) = %d, want %d", got, want)
	}
}

func TestCICWeightsSumToOne(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	offsets := [][3]float64{
		{0, 0, 0},
		{0.5, 0.5, 0.5},
		{0.999999, 0.999999, 0.999999},
		{0.25, 0.75, 0.1},
	}
	for i := 0; i < 100; i++ {
		offsets = append(offsets, [3]float64{rng.Float64(), rng.Float64(), rng.Float64()})
	}

	for _, off := range offsets {
		w := CICWeights(off[0], off[1], off[2])
		sum := 0.0
		for _, v := range w {
			sum += v
			if v < 0 {
				t.Fatalf("negative weight %v for offsets %v", v, off)
			}
		}
		if math.Abs(sum-1) > 1e-12 {
			t.Errorf("weights for %v sum to %v, want 1", off, sum)
		}
	}
}

func TestCICWeightsDegenerate(t *testing.T) {
	// Zero fractional offset is the nearest-grid-point case: all mass in
	// the base corner.
	w := CICWeights(0, 0, 0)
	if w[0] != 1 {
		t.Errorf("base corner weight = %v, want 1", w[0])
	}
	for c := 1; c < len(w); c++ {
		if w[c] != 0 {
			t.Errorf("corner %d weight = %v, want 0", c, w[c])
		}
	}
}

func TestCICWeights2DSumToOne(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 100; i++ {
		dx, dy := rng.Float64(), rng.Float64()
		w := CICWeights2D(dx, dy)
		sum := 0.0
		for _, v := range w {
			sum += v
		}
		if math.Abs(sum-1) > 1e-12 {
			t.Errorf("weights for (%v,%v) sum to %v, want 1", dx, dy, sum)
		}
	}
}

func TestSplitCoord(t *testing.T) {
	tests := []struct {
		name     string
		x, inv   float64
		wantBase int
		wantFrac float64
	}{
		{"origin", 0, 1, 0, 0},
		{"mid cell", 2.5, 1, 2, 0.5},
		{"scaled", 7.5, 0.5, 3, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, frac := SplitCoord(tt.x, tt.inv)
			if base != tt.wantBase || math.Abs(frac-tt.wantFrac) > 1e-12 {
				t.Errorf("SplitCoord(%v, %v) = (%d, %v), want (%d, %v)",
					tt.x, tt.inv, base, frac, tt.wantBase, tt.wantFrac)
			}
		})
	}
}
