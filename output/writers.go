// Package output persists simulation products: projected maps, particle
// positions, replay snapshots and an optional sqlite frame store. It
// consumes the core's output and imposes nothing on it beyond the stable
// row-major map layout.
package output

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/darkmesh/body"
)

// WriteMapText writes a row-major map as plain text, one row per line with
// space-separated %.6e values.
func WriteMapText(path string, m []float64, resolution int) error {
	if len(m) != resolution*resolution {
		return fmt.Errorf("output: map length %d does not match resolution %d^2", len(m), resolution)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating map file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for row := 0; row < resolution; row++ {
		for col := 0; col < resolution; col++ {
			if col > 0 {
				if err := w.WriteByte(' '); err != nil {
					return fmt.Errorf("writing map file: %w", err)
				}
			}
			if _, err := fmt.Fprintf(w, "%.6e", m[row*resolution+col]); err != nil {
				return fmt.Errorf("writing map file: %w", err)
			}
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing map file: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing map file: %w", err)
	}
	return nil
}

// WriteMapBinary writes the map as little-endian float32 values in row-major
// order, the layout downstream tensor consumers read directly.
func WriteMapBinary(path string, m []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating map file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	var scratch [4]byte
	for _, v := range m {
		binary.LittleEndian.PutUint32(scratch[:], math.Float32bits(float32(v)))
		if _, err := w.Write(scratch[:]); err != nil {
			return fmt.Errorf("writing map file: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing map file: %w", err)
	}
	return nil
}

// particleRow is the CSV layout for one particle position.
type particleRow struct {
	X float64 `csv:"x"`
	Y float64 `csv:"y"`
	Z float64 `csv:"z"`
}

// WriteParticleCSV writes every particle's position with an x,y,z header.
func WriteParticleCSV(path string, ps *body.ParticleSet) error {
	rows := make([]particleRow, len(ps.Particles))
	for i := range ps.Particles {
		p := &ps.Particles[i]
		rows[i] = particleRow{X: p.Pos[0], Y: p.Pos[1], Z: p.Pos[2]}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating particle csv: %w", err)
	}
	defer f.Close()

	if err := gocsv.Marshal(rows, f); err != nil {
		return fmt.Errorf("writing particle csv: %w", err)
	}
	return nil
}
