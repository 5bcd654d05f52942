// Package bar implements the i3bar streaming JSON protocol on an
// output writer. The stream is a `{"version":1}` header, an opening
// `[`, then one JSON array of blocks per snapshot with a trailing
// comma. The outer array is intentionally never closed; the consumer
// reads it incrementally.
package bar

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"

	"codeberg.org/mutker/barfeed/internal/errors"
)

// Block is one renderable segment of the bar. Blocks are values:
// built fresh for every snapshot and discarded after serialization.
type Block struct {
	FullText string `json:"full_text"`
	Color    string `json:"color,omitempty"`
	Name     string `json:"name"`
}

// Snapshot is an ordered sequence of blocks; order defines the
// left-to-right bar layout.
type Snapshot []Block

// Writer emits the protocol stream. Safe for use from a single
// goroutine; the scheduler is the only writer.
type Writer struct {
	w          *bufio.Writer
	mu         sync.Mutex
	headerDone bool
	errFactory errors.Factory
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w:          bufio.NewWriter(w),
		errFactory: errors.New(),
	}
}

// WriteHeader writes the protocol preamble. It is idempotent: the
// header must appear exactly once before any snapshot.
func (w *Writer) WriteHeader() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.headerDone {
		return nil
	}

	if _, err := w.w.WriteString("{\"version\": 1}\n[\n"); err != nil {
		return w.errFactory.Wrap(errors.ErrWriteSnapshot, err)
	}
	if err := w.w.Flush(); err != nil {
		return w.errFactory.Wrap(errors.ErrWriteSnapshot, err)
	}
	w.headerDone = true

	return nil
}

// WriteSnapshot serializes one snapshot as a single line with the
// trailing comma the bar protocol expects.
func (w *Writer) WriteSnapshot(s Snapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if s == nil {
		s = Snapshot{}
	}

	data, err := json.Marshal(s)
	if err != nil {
		return w.errFactory.Wrap(errors.ErrEncodeSnapshot, err)
	}

	if _, err := w.w.Write(data); err != nil {
		return w.errFactory.Wrap(errors.ErrWriteSnapshot, err)
	}
	if _, err := w.w.WriteString(",\n"); err != nil {
		return w.errFactory.Wrap(errors.ErrWriteSnapshot, err)
	}
	if err := w.w.Flush(); err != nil {
		return w.errFactory.Wrap(errors.ErrWriteSnapshot, err)
	}

	return nil
}
