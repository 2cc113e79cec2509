package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/partsim/partsim/internal/bench"
	"github.com/partsim/partsim/internal/config"
	"github.com/partsim/partsim/internal/core/event"
	"github.com/partsim/partsim/internal/scenario"
	"github.com/partsim/partsim/internal/sim"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		cfgPath   = flag.String("config", "", "TOML config file (defaults apply when empty; $PARTSIM_CONFIG overrides)")
		scenarioF = flag.String("scenario", "", "preset to run")
		tableF    = flag.String("scenarios", "", "YAML preset file (empty uses the built-in table)")
		seedF     = flag.Int64("seed", 0, "base random seed")
		workersF  = flag.Int("workers", 0, "worker goroutines (0 = one per CPU)")
		csvF      = flag.String("csv", "", "append per-wave results to this CSV file")
		listF     = flag.Bool("list", false, "list available presets and exit")
	)
	flag.Parse()

	// 1. Config: defaults, then file, then explicit flags on top.
	if *cfgPath == "" {
		*cfgPath = os.Getenv("PARTSIM_CONFIG")
	}
	cfg := config.Defaults()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scenario":
			cfg.Engine.Scenario = *scenarioF
		case "scenarios":
			cfg.Engine.ScenarioFile = *tableF
		case "seed":
			cfg.Engine.Seed = *seedF
		case "workers":
			cfg.Engine.Workers = *workersF
		case "csv":
			cfg.Results.CSV = *csvF
		}
	})

	// 2. Logger.
	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. Scenario table.
	table := scenario.Builtin()
	if cfg.Engine.ScenarioFile != "" {
		table, err = scenario.LoadTable(cfg.Engine.ScenarioFile)
		if err != nil {
			return fmt.Errorf("load scenarios: %w", err)
		}
	}
	if *listF {
		for _, name := range table.Names() {
			fmt.Println(name)
		}
		return nil
	}
	preset := table.Get(cfg.Engine.Scenario)
	if preset == nil {
		return fmt.Errorf("unknown scenario %q (have: %s)",
			cfg.Engine.Scenario, strings.Join(table.Names(), ", "))
	}

	// 4. Engine.
	eng, err := sim.New(sim.Options{
		Preset:  preset,
		Seed:    cfg.Engine.Seed,
		Workers: cfg.Engine.Workers,
		Logger:  log,
	})
	if err != nil {
		return err
	}
	defer eng.Close()

	recorder := bench.NewRecorder(preset.Name)
	event.Subscribe(eng.Bus(), func(ev event.WaveEnded) {
		recorder.Record(ev.Wave, ev.Target, ev.Frames, ev.Elapsed)
	})

	log.Info("run starting",
		zap.String("scenario", preset.Name),
		zap.String("pipeline", string(preset.Pipeline)),
		zap.Int("particles", preset.Spawn.Count),
		zap.Int("extra_waves", preset.Waves),
		zap.Int("workers", eng.Workers()),
		zap.Int64("seed", cfg.Engine.Seed))

	// 5. Run until the wave budget is spent or a signal lands.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	start := time.Now()
loop:
	for eng.Step() {
		select {
		case sig := <-sigCh:
			log.Warn("interrupted", zap.String("signal", sig.String()))
			break loop
		default:
		}
	}
	eng.FlushEvents()
	elapsed := time.Since(start)

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	log.Info("run complete",
		zap.Int("frames", eng.FrameCount()),
		zap.Duration("elapsed", elapsed),
		zap.Float64("frames_per_sec", float64(eng.FrameCount())/elapsed.Seconds()),
		zap.Uint64("heap_mb", mem.HeapAlloc>>20),
		zap.Uint32("gc_cycles", mem.NumGC))

	// 6. Persist per-wave results.
	if path := cfg.Results.CSV; path != "" && len(recorder.Results()) > 0 {
		if err := recorder.WriteCSV(path); err != nil {
			return fmt.Errorf("write results: %w", err)
		}
		log.Info("results written",
			zap.String("path", path),
			zap.Int("waves", len(recorder.Results())))
	}
	return nil
}
