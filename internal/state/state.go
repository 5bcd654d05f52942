// Package state holds the single piece of mutable state shared between
// the volume watcher and the snapshot scheduler: the last observed
// output volume plus its change signal.
package state

import "sync"

// VolumeCell is jointly owned by the watcher (sole writer) and the
// scheduler (reader). Updating the value and raising the wake signal
// happen inside one critical section, so the scheduler can never
// observe a raised signal without also seeing the value that caused it.
//
// The wake channel has capacity one: a signal raised while the
// scheduler is not waiting is retained, and concurrent signals collapse
// into a single pending wakeup. The cell is a coalesced value, not a
// log of changes.
type VolumeCell struct {
	mu     sync.Mutex
	volume int
	wake   chan struct{}
}

func NewVolumeCell(initial int) *VolumeCell {
	return &VolumeCell{
		volume: initial,
		wake:   make(chan struct{}, 1),
	}
}

// Set stores a newly observed volume. It raises the wake signal only
// when the value actually changed and reports whether it did.
func (c *VolumeCell) Set(volume int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.volume == volume {
		return false
	}
	c.volume = volume

	select {
	case c.wake <- struct{}{}:
	default:
		// A wakeup is already pending; it covers this change too.
	}

	return true
}

// Get returns the most recently stored volume.
func (c *VolumeCell) Get() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.volume
}

// Wake returns the channel the scheduler selects on. Exactly one
// receiver is supported.
func (c *VolumeCell) Wake() <-chan struct{} {
	return c.wake
}
