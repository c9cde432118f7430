package output

import (
	"compress/zlib"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/pthm-cable/darkmesh/body"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the complete particle state for replay or restart.
type Snapshot struct {
	Version int
	Seed    int64
	Step    int
	BoxSize float64

	Particles []body.Particle
}

// WriteSnapshot gob-encodes the snapshot through zlib. Positions and
// velocities dominate the payload; zlib keeps large runs manageable on
// disk.
func WriteSnapshot(path string, snap *Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	defer f.Close()

	zw := zlib.NewWriter(f)
	if err := gob.NewEncoder(zw).Encode(snap); err != nil {
		zw.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flushing snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a snapshot written by WriteSnapshot.
func ReadSnapshot(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	zr, err := zlib.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	defer zr.Close()

	snap := &Snapshot{}
	if err := gob.NewDecoder(zr).Decode(snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d unsupported (want %d)", snap.Version, SnapshotVersion)
	}
	return snap, nil
}
