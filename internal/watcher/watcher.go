// Package watcher follows the audio server's event feed and publishes
// volume changes into the shared cell. It is the sole writer of that
// cell.
package watcher

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"strings"

	"codeberg.org/mutker/barfeed/internal/errors"
	"codeberg.org/mutker/barfeed/internal/logger"
	"codeberg.org/mutker/barfeed/internal/sensors"
	"codeberg.org/mutker/barfeed/internal/state"
)

const sinkChangeMarker = "Event 'change' on sink"

// Feed is a long-running line-oriented event stream. The production
// implementation wraps `pactl subscribe`; tests substitute a pipe.
type Feed interface {
	Start(ctx context.Context) (io.ReadCloser, error)
}

type pactlFeed struct{}

func (pactlFeed) Start(ctx context.Context) (io.ReadCloser, error) {
	errFactory := errors.New()

	cmd := exec.CommandContext(ctx, "pactl", "subscribe")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrWatcherStart, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, errFactory.Wrap(errors.ErrWatcherStart, err)
	}

	// Reap the subprocess once the stream is done.
	go func() {
		if err := cmd.Wait(); err != nil && ctx.Err() == nil {
			logger.Debug().Err(err).Msg("pactl subscribe exited")
		}
	}()

	return stdout, nil
}

// NewPactlFeed returns the production event feed.
func NewPactlFeed() Feed {
	return pactlFeed{}
}

// Watcher re-queries the volume on relevant feed events and stores
// real changes in the cell, which raises the scheduler's wake signal.
type Watcher struct {
	feed   Feed
	runner sensors.Runner
	cell   *state.VolumeCell
	log    logger.Logger
}

func New(feed Feed, runner sensors.Runner, cell *state.VolumeCell) *Watcher {
	return &Watcher{
		feed:   feed,
		runner: runner,
		cell:   cell,
		log:    logger.Default(),
	}
}

// Run consumes the feed until it ends or the context is canceled.
// A dead feed leaves the watcher stopped for the rest of the process
// lifetime; the scheduler keeps emitting on its timeout path. That
// degraded mode is deliberate, the watcher is not restarted.
func (w *Watcher) Run(ctx context.Context) error {
	stream, err := w.feed.Start(ctx)
	if err != nil {
		return err
	}
	defer stream.Close()

	// Close the stream on cancellation so the blocked scanner returns.
	go func() {
		<-ctx.Done()
		stream.Close()
	}()

	scanner := bufio.NewScanner(stream)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, sinkChangeMarker) {
			continue
		}

		volume, err := sensors.Volume(w.runner)
		if err != nil {
			w.log.Debug().Err(err).Msg("volume query failed after sink event")
			continue
		}

		if w.cell.Set(volume) {
			w.log.Debug().Int("volume", volume).Msg("volume changed")
		}
	}

	if ctx.Err() != nil {
		return nil
	}
	if err := scanner.Err(); err != nil {
		return errors.New().Wrap(errors.ErrWatcherFeed, err)
	}

	return errors.New().New(errors.ErrWatcherFeed)
}
