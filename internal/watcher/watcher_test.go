package watcher_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"codeberg.org/mutker/barfeed/internal/errors"
	"codeberg.org/mutker/barfeed/internal/state"
	"codeberg.org/mutker/barfeed/internal/watcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticFeed struct {
	stream io.ReadCloser
}

func (f staticFeed) Start(_ context.Context) (io.ReadCloser, error) {
	return f.stream, nil
}

type failingFeed struct{}

func (failingFeed) Start(_ context.Context) (io.ReadCloser, error) {
	return nil, errors.New().New(errors.ErrWatcherStart)
}

type scriptedRunner struct {
	volumes []string
	calls   int
}

func (r *scriptedRunner) Output(name string, _ ...string) ([]byte, error) {
	if name != "pactl" {
		return nil, fmt.Errorf("unexpected command: %s", name)
	}
	if r.calls < len(r.volumes) {
		r.calls++
		return []byte(r.volumes[r.calls-1]), nil
	}

	return []byte(r.volumes[len(r.volumes)-1]), nil
}

func volumeLine(pct int) string {
	return fmt.Sprintf("Volume: front-left: 1000 /  %d%% / -10.0 dB", pct)
}

func TestWatcherPublishesRealChange(t *testing.T) {
	feed := staticFeed{stream: io.NopCloser(strings.NewReader(
		"Event 'change' on sink #1\n",
	))}
	runner := &scriptedRunner{volumes: []string{volumeLine(55)}}
	cell := state.NewVolumeCell(42)

	w := watcher.New(feed, runner, cell)
	err := w.Run(context.Background())
	require.Error(t, err) // feed EOF is the degraded-mode error

	assert.Equal(t, 55, cell.Get())
	select {
	case <-cell.Wake():
	default:
		t.Fatal("expected wake after a real change")
	}
}

func TestWatcherIgnoresUnchangedValue(t *testing.T) {
	// Two change events for the same underlying value: no wake.
	feed := staticFeed{stream: io.NopCloser(strings.NewReader(
		"Event 'change' on sink #1\nEvent 'change' on sink #1\n",
	))}
	runner := &scriptedRunner{volumes: []string{volumeLine(42), volumeLine(42)}}
	cell := state.NewVolumeCell(42)

	w := watcher.New(feed, runner, cell)
	_ = w.Run(context.Background())

	assert.Equal(t, 2, runner.calls, "every sink event re-queries the volume")
	select {
	case <-cell.Wake():
		t.Fatal("wake raised with no actual change")
	default:
	}
}

func TestWatcherSkipsIrrelevantLines(t *testing.T) {
	feed := staticFeed{stream: io.NopCloser(strings.NewReader(
		"Event 'change' on source #2\n" +
			"garbage line that is not an event\n" +
			"Event 'new' on sink-input #7\n",
	))}
	runner := &scriptedRunner{volumes: []string{volumeLine(99)}}
	cell := state.NewVolumeCell(42)

	w := watcher.New(feed, runner, cell)
	_ = w.Run(context.Background())

	assert.Zero(t, runner.calls, "no sink change events, no volume queries")
	assert.Equal(t, 42, cell.Get())
}

func TestWatcherToleratesFailedQuery(t *testing.T) {
	feed := staticFeed{stream: io.NopCloser(strings.NewReader(
		"Event 'change' on sink #1\n",
	))}
	runner := &scriptedRunner{volumes: []string{"no sink available"}}
	cell := state.NewVolumeCell(42)

	w := watcher.New(feed, runner, cell)
	_ = w.Run(context.Background())

	assert.Equal(t, 42, cell.Get())
}

func TestWatcherStartFailure(t *testing.T) {
	cell := state.NewVolumeCell(0)
	w := watcher.New(failingFeed{}, &scriptedRunner{volumes: []string{volumeLine(1)}}, cell)

	err := w.Run(context.Background())
	require.Error(t, err)
}

func TestWatcherStopsOnCancel(t *testing.T) {
	pr, pw := io.Pipe()
	feed := staticFeed{stream: pr}
	cell := state.NewVolumeCell(0)
	w := watcher.New(feed, &scriptedRunner{volumes: []string{volumeLine(1)}}, cell)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx)
	}()

	cancel()
	pw.CloseWithError(io.ErrClosedPipe)

	select {
	case err := <-done:
		assert.NoError(t, err, "cancellation is a clean stop")
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on cancellation")
	}
}
