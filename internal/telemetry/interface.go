package telemetry

import (
	"context"
	"time"
)

// Collector defines the core domain interface
type Collector interface {
	Record(ctx context.Context, snapshot *Snapshot) error
	Close() error
}

// Cause identifies what triggered a snapshot.
type Cause string

const (
	CauseStartup Cause = "startup"
	CauseTimer   Cause = "timer"
	CauseVolume  Cause = "volume"
)

// Snapshot is one telemetry row: what the bar emitted and why.
type Snapshot struct {
	Timestamp  time.Time
	Volume     int
	BlockCount int
	Cause      Cause
}
