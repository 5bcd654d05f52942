package state_test

import (
	"sync"
	"testing"
	"time"

	"codeberg.org/mutker/barfeed/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetChangedRaisesWake(t *testing.T) {
	cell := state.NewVolumeCell(42)

	assert.True(t, cell.Set(55))
	assert.Equal(t, 55, cell.Get())

	select {
	case <-cell.Wake():
	default:
		t.Fatal("expected a pending wake signal")
	}
}

func TestSetUnchangedIsSilent(t *testing.T) {
	cell := state.NewVolumeCell(42)

	// N identical readings: no wake event, no value change
	for i := 0; i < 10; i++ {
		assert.False(t, cell.Set(42))
	}
	assert.Equal(t, 42, cell.Get())

	select {
	case <-cell.Wake():
		t.Fatal("wake raised for unchanged value")
	default:
	}
}

func TestWakeIsRetainedWhileNotWaiting(t *testing.T) {
	cell := state.NewVolumeCell(0)

	// Raised before anyone waits; must not be lost
	require.True(t, cell.Set(30))

	select {
	case <-cell.Wake():
	case <-time.After(time.Second):
		t.Fatal("wake signal was lost")
	}
	assert.Equal(t, 30, cell.Get())
}

func TestConcurrentChangesCoalesce(t *testing.T) {
	cell := state.NewVolumeCell(0)

	cell.Set(10)
	cell.Set(20)
	cell.Set(30)

	// Multiple changes collapse into a single pending wakeup carrying
	// the latest value.
	<-cell.Wake()
	assert.Equal(t, 30, cell.Get())

	select {
	case <-cell.Wake():
		t.Fatal("expected exactly one pending wake")
	default:
	}
}

func TestValueVisibleAfterWake(t *testing.T) {
	cell := state.NewVolumeCell(0)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		cell.Set(77)
	}()

	select {
	case <-cell.Wake():
		assert.Equal(t, 77, cell.Get())
	case <-time.After(time.Second):
		t.Fatal("no wake received")
	}
	wg.Wait()
}
