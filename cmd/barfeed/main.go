package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/barfeed/internal/bar"
	"codeberg.org/mutker/barfeed/internal/config"
	"codeberg.org/mutker/barfeed/internal/logger"
	"codeberg.org/mutker/barfeed/internal/pid"
	"codeberg.org/mutker/barfeed/internal/scheduler"
	"codeberg.org/mutker/barfeed/internal/sensors"
	"codeberg.org/mutker/barfeed/internal/state"
	"codeberg.org/mutker/barfeed/internal/telemetry"
	"codeberg.org/mutker/barfeed/internal/watcher"
)

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	if !cfg.Debug && !cfg.Verbose {
		switch config.LogLevel(cfg.LogLevel) {
		case config.LogLevelDebug:
			logger.SetLogLevel(logger.DebugLevel)
		case config.LogLevelInfo:
			logger.SetLogLevel(logger.InfoLevel)
		case config.LogLevelError:
			logger.SetLogLevel(logger.ErrorLevel)
		case config.LogLevelWarning:
		}
	}
	logger.Debug().Msg("Config loaded")
}

func main() {
	if err := pid.Write(); err != nil {
		logger.Fatal().Err(err).Msg("failed to write PID file")
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Error().Err(err).Msg("failed to remove PID file")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := run(ctx); err != nil {
		logger.Error().Err(err).Msg("error in main loop")
	}
	logger.Info().Msg("Exiting...")
}

func run(ctx context.Context) error {
	runner := sensors.NewRunner()
	sysfs := sensors.NewSysfs()

	// The watcher may fail its first query on a sinkless system; the
	// bar then starts at zero and corrects on the first real event.
	initialVolume, err := sensors.Volume(runner)
	if err != nil {
		logger.Warn().Err(err).Msg("initial volume query failed")
		initialVolume = 0
	}
	cell := state.NewVolumeCell(initialVolume)

	collector, err := telemetry.NewService(telemetry.Config{
		DBPath:  cfg.TelemetryDB,
		Enabled: cfg.Telemetry,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := collector.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close telemetry")
		}
	}()

	sched, err := scheduler.New(cfg, cell, bar.NewWriter(os.Stdout), collector, runner, sysfs)
	if err != nil {
		return err
	}
	defer sched.Shutdown()

	// The watcher degrading to silence is acceptable; the scheduler
	// keeps its timeout cadence regardless.
	w := watcher.New(watcher.NewPactlFeed(), runner, cell)
	go func() {
		if err := w.Run(ctx); err != nil {
			logger.Warn().Err(err).Msg("volume watcher stopped")
		}
	}()

	return sched.Run(ctx)
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
