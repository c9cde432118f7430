package output

import (
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/darkmesh/body"
)

func TestFrameStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.db")
	store, err := OpenFrameStore(path)
	if err != nil {
		t.Fatalf("OpenFrameStore: %v", err)
	}
	defer store.Close()

	ps := body.NewParticleSet(4, 10)
	for i := range ps.Particles {
		ps.Particles[i].Pos = mgl64.Vec3{float64(i), float64(i) + 0.5, 9 - float64(i)}
		ps.Particles[i].Mass = 1
	}

	if err := store.WriteFrame(3, ps); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	rows, err := store.ReadFrame(3)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("row count = %d, want 4", len(rows))
	}
	for i, r := range rows {
		if r.ID != i {
			t.Errorf("row %d id = %d, want %d", i, r.ID, i)
		}
		if r.X != float64(i) || r.Y != float64(i)+0.5 || r.Z != 9-float64(i) {
			t.Errorf("row %d position = (%v, %v, %v)", i, r.X, r.Y, r.Z)
		}
	}

	// A missing frame is empty, not an error.
	rows, err = store.ReadFrame(99)
	if err != nil {
		t.Fatalf("ReadFrame missing: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("missing frame returned %d rows", len(rows))
	}
}
