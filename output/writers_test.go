package output

import (
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/darkmesh/body"
)

func TestWriteMapText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.txt")
	m := []float64{1, 2.5, -3e-4, 0}

	if err := WriteMapText(path, m, 2); err != nil {
		t.Fatalf("WriteMapText: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("row count = %d, want 2", len(lines))
	}
	for row, line := range lines {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			t.Fatalf("row %d has %d columns, want 2", row, len(fields))
		}
		for col, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				t.Fatalf("row %d col %d: %v", row, col, err)
			}
			if math.Abs(v-m[row*2+col]) > 1e-9 {
				t.Errorf("map[%d][%d] = %v, want %v", row, col, v, m[row*2+col])
			}
		}
	}
}

func TestWriteMapTextLengthMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.txt")
	if err := WriteMapText(path, make([]float64, 3), 2); err == nil {
		t.Error("WriteMapText accepted mismatched length, want error")
	}
}

func TestWriteMapBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.f32")
	m := []float64{0, 1, -2.5}

	if err := WriteMapBinary(path, m); err != nil {
		t.Fatalf("WriteMapBinary: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 4*len(m) {
		t.Fatalf("file size = %d, want %d", len(data), 4*len(m))
	}
}

func TestWriteParticleCSV(t *testing.T) {
	ps := body.NewParticleSet(2, 10)
	ps.Particles[0].Pos = mgl64.Vec3{1, 2, 3}
	ps.Particles[1].Pos = mgl64.Vec3{4.5, 6, 7.25}

	path := filepath.Join(t.TempDir(), "particles.csv")
	if err := WriteParticleCSV(path, ps); err != nil {
		t.Fatalf("WriteParticleCSV: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("line count = %d, want 3 (header + 2 rows)", len(lines))
	}
	if lines[0] != "x,y,z" {
		t.Errorf("header = %q, want x,y,z", lines[0])
	}
	if !strings.HasPrefix(lines[1], "1,2,3") {
		t.Errorf("row 1 = %q, want 1,2,3", lines[1])
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	ps := body.NewParticleSet(3, 25)
	for i := range ps.Particles {
		ps.Particles[i].Pos = mgl64.Vec3{float64(i), float64(i) * 2, float64(i) * 3}
		ps.Particles[i].Vel = mgl64.Vec3{0.1, -0.2, 0.3}
		ps.Particles[i].Mass = 1
	}

	path := filepath.Join(t.TempDir(), "snap.gob.z")
	snap := &Snapshot{
		Version:   SnapshotVersion,
		Seed:      42,
		Step:      7,
		BoxSize:   25,
		Particles: ps.Particles,
	}
	if err := WriteSnapshot(path, snap); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}

	got, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if got.Seed != 42 || got.Step != 7 || got.BoxSize != 25 {
		t.Errorf("snapshot header = %+v", got)
	}
	if len(got.Particles) != 3 {
		t.Fatalf("particle count = %d, want 3", len(got.Particles))
	}
	for i := range got.Particles {
		if got.Particles[i] != ps.Particles[i] {
			t.Errorf("particle %d = %+v, want %+v", i, got.Particles[i], ps.Particles[i])
		}
	}
}

func TestSnapshotVersionCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.gob.z")
	snap := &Snapshot{Version: SnapshotVersion + 1}
	if err := WriteSnapshot(path, snap); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	if _, err := ReadSnapshot(path); err == nil {
		t.Error("ReadSnapshot accepted wrong version, want error")
	}
}
