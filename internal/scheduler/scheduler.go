// Package scheduler owns the snapshot loop: it wakes on a volume
// change or a fixed tick, whichever comes first, rebuilds the full
// status line from current state and writes it to the bar.
package scheduler

import (
	"context"
	"time"

	"codeberg.org/mutker/barfeed/internal/bar"
	"codeberg.org/mutker/barfeed/internal/config"
	"codeberg.org/mutker/barfeed/internal/errors"
	"codeberg.org/mutker/barfeed/internal/logger"
	"codeberg.org/mutker/barfeed/internal/sensors"
	"codeberg.org/mutker/barfeed/internal/state"
	"codeberg.org/mutker/barfeed/internal/telemetry"
)

type Scheduler struct {
	cfg       *config.Config
	cell      *state.VolumeCell
	writer    *bar.Writer
	collector telemetry.Collector
	runner    sensors.Runner
	sysfs     *sensors.Sysfs
	gpu       *sensors.GPU
	net       *rateTracker
	builders  []buildFunc
	interval  time.Duration
	loadavg   string
	log       logger.Logger
	now       func() time.Time
}

func New(
	cfg *config.Config,
	cell *state.VolumeCell,
	writer *bar.Writer,
	collector telemetry.Collector,
	runner sensors.Runner,
	sysfs *sensors.Sysfs,
) (*Scheduler, error) {
	errFactory := errors.New()

	if cfg.Interval <= 0 {
		return nil, errFactory.WithData(errors.ErrInvalidInterval, cfg.Interval)
	}

	s := &Scheduler{
		cfg:       cfg,
		cell:      cell,
		writer:    writer,
		collector: collector,
		runner:    runner,
		sysfs:     sysfs,
		net:       &rateTracker{},
		interval:  time.Duration(cfg.Interval) * time.Second,
		loadavg:   loadavgPath,
		log:       logger.Default(),
		now:       time.Now,
	}

	if err := s.resolveBuilders(cfg.Blocks); err != nil {
		return nil, err
	}

	if enabled(cfg.Blocks, "gpu") {
		gpu, err := sensors.NewGPU()
		if err != nil {
			s.log.Info().Err(err).Msg("GPU sensor unavailable, block will be omitted")
		} else {
			s.gpu = gpu
		}
	}

	return s, nil
}

func enabled(blocks []string, name string) bool {
	for _, b := range blocks {
		if b == name {
			return true
		}
	}

	return false
}

// Run writes the protocol header, emits one immediate snapshot, then
// loops until the context is canceled. A wake signal and a tick firing
// together still produce a single build per loop iteration.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.writer.WriteHeader(); err != nil {
		return err
	}

	if err := s.build(ctx, telemetry.CauseStartup); err != nil {
		return err
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.cell.Wake():
			if err := s.build(ctx, telemetry.CauseVolume); err != nil {
				return err
			}
		case <-ticker.C:
			if err := s.build(ctx, telemetry.CauseTimer); err != nil {
				return err
			}
		}
	}
}

// build assembles and writes one snapshot. Sensor failures only omit
// their own blocks; a write failure is fatal because the output stream
// is the entire point of the process.
func (s *Scheduler) build(ctx context.Context, cause telemetry.Cause) error {
	now := s.now()
	volume := s.cell.Get()

	snapshot := make(bar.Snapshot, 0, len(s.builders))
	for _, builder := range s.builders {
		blocks, err := builder(now, volume)
		if err != nil {
			s.log.Debug().Err(err).Msg("block omitted")
			continue
		}
		snapshot = append(snapshot, blocks...)
	}

	if err := s.writer.WriteSnapshot(snapshot); err != nil {
		return err
	}

	record := &telemetry.Snapshot{
		Timestamp:  now,
		Volume:     volume,
		BlockCount: len(snapshot),
		Cause:      cause,
	}
	if err := s.collector.Record(ctx, record); err != nil {
		s.log.Warn().Err(err).Msg("failed to record snapshot telemetry")
	}

	return nil
}

// Shutdown releases sensor handles held by the scheduler.
func (s *Scheduler) Shutdown() {
	if s.gpu != nil {
		if err := s.gpu.Shutdown(); err != nil {
			s.log.Error().Err(err).Msg("failed to shut down GPU sensor")
		}
	}
}
