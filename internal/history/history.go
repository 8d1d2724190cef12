// Package history writes a session's rounds to a JSON file for later
// replay and inspection. Records buffer in memory and flush atomically,
// so a partially written file is never observed.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/blackjacklab/internal/fileutil"
	"github.com/lox/blackjacklab/internal/game"
)

// Record is one settled round with the bankroll after it.
type Record struct {
	Seq       int          `json:"seq"`
	Timestamp time.Time    `json:"timestamp"`
	Bankroll  float64      `json:"bankroll"`
	Result    *game.Result `json:"result"`
}

// File is the on-disk layout.
type File struct {
	SessionID string    `json:"session_id"`
	Strategy  string    `json:"strategy"`
	StartedAt time.Time `json:"started_at"`
	Records   []Record  `json:"records"`
}

// defaultFlushEvery bounds how many rounds can be lost on a crash.
const defaultFlushEvery = 100

// Writer accumulates records and rewrites the file atomically, every
// flushEvery rounds and on Flush.
type Writer struct {
	path       string
	clock      quartz.Clock
	flushEvery int
	file       File
	dirty      int
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithClock overrides the timestamp source, for tests.
func WithClock(clock quartz.Clock) WriterOption {
	return func(w *Writer) { w.clock = clock }
}

// WithFlushEvery sets how many records may buffer before an automatic
// flush. Values below 1 flush on every record.
func WithFlushEvery(n int) WriterOption {
	return func(w *Writer) { w.flushEvery = n }
}

// NewWriter creates a history writer for one session.
func NewWriter(path, sessionID, strategy string, opts ...WriterOption) *Writer {
	w := &Writer{
		path:       path,
		clock:      quartz.NewReal(),
		flushEvery: defaultFlushEvery,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.file = File{
		SessionID: sessionID,
		Strategy:  strategy,
		StartedAt: w.clock.Now("history", "start"),
	}
	return w
}

// RecordRound appends one settled round, implementing the session sink.
func (w *Writer) RecordRound(_ context.Context, res *game.Result, bankroll float64) error {
	w.file.Records = append(w.file.Records, Record{
		Seq:       len(w.file.Records) + 1,
		Timestamp: w.clock.Now("history", "record"),
		Bankroll:  bankroll,
		Result:    res,
	})
	w.dirty++
	if w.dirty >= w.flushEvery || w.flushEvery < 1 {
		return w.Flush()
	}
	return nil
}

// Flush rewrites the file with everything recorded so far.
func (w *Writer) Flush() error {
	if err := fileutil.WriteJSONAtomic(w.path, &w.file, 0o644); err != nil {
		return fmt.Errorf("flushing history: %w", err)
	}
	w.dirty = 0
	return nil
}

// Len returns the number of records written so far.
func (w *Writer) Len() int { return len(w.file.Records) }

// Load reads a history file back.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding history %s: %w", path, err)
	}
	return &f, nil
}
