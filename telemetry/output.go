package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir       string
	stepsFile *os.File

	headerWritten bool
}

// NewOutputManager creates a new output manager and initializes the output
// directory. Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "steps.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating steps.csv: %w", err)
	}

	return &OutputManager{dir: dir, stepsFile: f}, nil
}

// Dir returns the output directory.
func (om *OutputManager) Dir() string {
	return om.dir
}

// WriteSteps appends step records to steps.csv, writing the header only
// once.
func (om *OutputManager) WriteSteps(records []StepRecord) error {
	if om == nil || len(records) == 0 {
		return nil
	}
	if !om.headerWritten {
		if err := gocsv.Marshal(records, om.stepsFile); err != nil {
			return fmt.Errorf("writing step records: %w", err)
		}
		om.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.stepsFile); err != nil {
		return fmt.Errorf("writing step records: %w", err)
	}
	return nil
}

// Close flushes and closes the output files.
func (om *OutputManager) Close() error {
	if om == nil || om.stepsFile == nil {
		return nil
	}
	err := om.stepsFile.Close()
	om.stepsFile = nil
	return err
}
