// Package telemetry collects per-step simulation statistics and writes them
// to CSV for offline analysis.
package telemetry

import (
	"gonum.org/v1/gonum/stat"
)

// StepRecord holds one step's statistics.
type StepRecord struct {
	Step          int     `csv:"step"`
	KineticEnergy float64 `csv:"kinetic_energy"`
	MinContrast   float64 `csv:"min_contrast"`
	MaxContrast   float64 `csv:"max_contrast"`
	DepositMs     float64 `csv:"deposit_ms"`
	SolveMs       float64 `csv:"solve_ms"`
	ForceMs       float64 `csv:"force_ms"`
	StepMs        float64 `csv:"step_ms"`
}

// Collector accumulates step records for a run.
type Collector struct {
	records []StepRecord
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{records: make([]StepRecord, 0, 64)}
}

// Record appends one step's statistics.
func (c *Collector) Record(r StepRecord) {
	c.records = append(c.records, r)
}

// Records returns all collected step records in order.
func (c *Collector) Records() []StepRecord {
	return c.records
}

// FieldRange returns the minimum and maximum of a field.
func FieldRange(field []float64) (min, max float64) {
	if len(field) == 0 {
		return 0, 0
	}
	min, max = field[0], field[0]
	for _, v := range field[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// MapStats returns the mean and standard deviation of a projected map.
func MapStats(m []float64) (mean, stddev float64) {
	if len(m) == 0 {
		return 0, 0
	}
	mean = stat.Mean(m, nil)
	stddev = stat.StdDev(m, nil)
	return mean, stddev
}
