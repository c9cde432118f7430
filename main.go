package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pthm-cable/darkmesh/config"
	"github.com/pthm-cable/darkmesh/output"
	"github.com/pthm-cable/darkmesh/sim"
	"github.com/pthm-cable/darkmesh/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	outputDir := flag.String("output-dir", "out", "Output directory for the map, CSV logs and config snapshot")
	dbPath := flag.String("db", "", "Path to a sqlite frame store (empty = disabled)")
	steps := flag.Int("steps", -1, "Override configured step count (-1 = use config)")
	particleCSV := flag.Bool("particle-csv", false, "Also write final particle positions as CSV")
	binaryMap := flag.Bool("binary-map", false, "Also write the map as raw little-endian float32")
	verbose := flag.Bool("v", false, "Enable debug logging")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *steps >= 0 {
		cfg.Simulation.Steps = *steps
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	om, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to initialize output", "error", err)
		os.Exit(1)
	}
	defer om.Close()

	var store *output.FrameStore
	if *dbPath != "" {
		store, err = output.OpenFrameStore(*dbPath)
		if err != nil {
			slog.Error("failed to open frame store", "error", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	driver, err := sim.NewDriver(cfg, rngSeed)
	if err != nil {
		slog.Error("failed to initialize simulation", "error", err)
		os.Exit(1)
	}

	slog.Info("starting simulation",
		"seed", rngSeed,
		"particles", cfg.Simulation.Particles,
		"grid", cfg.Simulation.GridResolution,
		"box_size", cfg.Simulation.BoxSize,
		"steps", cfg.Simulation.Steps,
		"mode", cfg.Initial.Mode,
	)
	runStart := time.Now()

	for i := 0; i < cfg.Simulation.Steps; i++ {
		if err := driver.Step(); err != nil {
			slog.Error("simulation step failed", "step", i, "error", err)
			os.Exit(1)
		}
		if interval := cfg.Output.FrameInterval; store != nil && interval > 0 && driver.CurrentStep()%interval == 0 {
			if err := store.WriteFrame(driver.CurrentStep(), driver.Particles()); err != nil {
				slog.Error("failed to write frame", "step", driver.CurrentStep(), "error", err)
				os.Exit(1)
			}
		}
		if interval := cfg.Output.SnapshotInterval; om != nil && interval > 0 && driver.CurrentStep()%interval == 0 {
			path := filepath.Join(om.Dir(), snapshotName(driver.CurrentStep()))
			snap := &output.Snapshot{
				Version:   output.SnapshotVersion,
				Seed:      rngSeed,
				Step:      driver.CurrentStep(),
				BoxSize:   driver.Particles().BoxSize,
				Particles: driver.Particles().Particles,
			}
			if err := output.WriteSnapshot(path, snap); err != nil {
				slog.Error("failed to write snapshot", "step", driver.CurrentStep(), "error", err)
				os.Exit(1)
			}
		}
	}

	m := driver.Project()

	if err := om.WriteSteps(driver.Collector().Records()); err != nil {
		slog.Error("failed to write telemetry", "error", err)
		os.Exit(1)
	}

	if om != nil {
		res := cfg.Simulation.ProjectionResolution
		mapPath := filepath.Join(om.Dir(), "map.txt")
		if err := output.WriteMapText(mapPath, m, res); err != nil {
			slog.Error("failed to write map", "error", err)
			os.Exit(1)
		}
		if *binaryMap {
			if err := output.WriteMapBinary(filepath.Join(om.Dir(), "map.f32"), m); err != nil {
				slog.Error("failed to write binary map", "error", err)
				os.Exit(1)
			}
		}
		if *particleCSV {
			if err := output.WriteParticleCSV(filepath.Join(om.Dir(), "particles.csv"), driver.Particles()); err != nil {
				slog.Error("failed to write particle csv", "error", err)
				os.Exit(1)
			}
		}
		if err := cfg.WriteYAML(filepath.Join(om.Dir(), "config.yaml")); err != nil {
			slog.Error("failed to write config snapshot", "error", err)
			os.Exit(1)
		}
	}

	mean, stddev := telemetry.MapStats(m)
	slog.Info("simulation complete",
		"steps", driver.CurrentStep(),
		"elapsed", time.Since(runStart).String(),
		"map_mean", mean,
		"map_std", stddev,
	)
}

func snapshotName(step int) string {
	return fmt.Sprintf("snapshot_%06d.gob.z", step)
}
