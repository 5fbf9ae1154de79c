// Package syncer coalesces workspace changes into delayed snapshot saves.
//
// Each change replaces the pending snapshot and re-arms a timer; when the
// timer fires the latest snapshot is written to storage. A failed save keeps
// the snapshot pending so a later Flush (or the retry scheduler) can try
// again. In-memory state is never rolled back on failure.
package syncer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/khaja/internal/models"
	"github.com/mmynk/khaja/internal/storage"
)

// Recorder receives one call per save attempt.
type Recorder interface {
	SyncFlush(err error)
}

// Status describes the persistence state of one workspace.
type Status struct {
	Dirty        bool      // a snapshot is waiting to be saved
	LastError    string    // message of the last failed save, cleared on success
	LastSyncedAt time.Time // zero until the first successful save
}

// Syncer owns the pending write of one owner's snapshot.
type Syncer struct {
	store    storage.Store
	ownerID  string
	delay    time.Duration
	timeout  time.Duration
	logger   *slog.Logger
	recorder Recorder

	mu      sync.Mutex
	pending *models.Snapshot
	version uint64 // incremented by Schedule; lets Flush detect newer changes
	timer   *time.Timer
	status  Status
	closed  bool

	// flushMu serializes saves so an older snapshot never overwrites a newer one.
	flushMu sync.Mutex
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Syncer) { s.logger = logger }
}

// WithRecorder sets the save recorder, usually *metrics.Metrics.
func WithRecorder(r Recorder) Option {
	return func(s *Syncer) { s.recorder = r }
}

// WithSaveTimeout bounds each timer-triggered save. Defaults to 10s.
func WithSaveTimeout(d time.Duration) Option {
	return func(s *Syncer) { s.timeout = d }
}

// New creates a syncer saving ownerID's snapshots to store, delay after the
// last change.
func New(store storage.Store, ownerID string, delay time.Duration, opts ...Option) *Syncer {
	s := &Syncer{
		store:   store,
		ownerID: ownerID,
		delay:   delay,
		timeout: 10 * time.Second,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Schedule replaces the pending snapshot and restarts the delay.
func (s *Syncer) Schedule(snapshot models.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.pending = &snapshot
	s.version++
	s.status.Dirty = true

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.flushFromTimer)
}

func (s *Syncer) flushFromTimer() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.Flush(ctx); err != nil {
		s.logger.Warn("Snapshot sync failed, will retry", "owner_id", s.ownerID, "error", err)
	}
}

// Flush saves the pending snapshot now, if any. On failure the snapshot stays
// pending and the error is returned and recorded in the status.
func (s *Syncer) Flush(ctx context.Context) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.Lock()
	if s.pending == nil {
		s.mu.Unlock()
		return nil
	}
	snapshot := *s.pending
	version := s.version
	s.mu.Unlock()

	err := s.store.SaveSnapshot(ctx, s.ownerID, snapshot)
	if s.recorder != nil {
		s.recorder.SyncFlush(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.status.LastError = err.Error()
		return err
	}

	s.status.LastError = ""
	s.status.LastSyncedAt = time.Now()
	// A Schedule during the save leaves the newer snapshot pending.
	if s.version == version {
		s.pending = nil
		s.status.Dirty = false
	}
	s.logger.Debug("Snapshot synced", "owner_id", s.ownerID)
	return nil
}

// Status returns the current persistence state.
func (s *Syncer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Close cancels the scheduled save and flushes whatever is pending.
// Later Schedule calls are ignored.
func (s *Syncer) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	return s.Flush(ctx)
}
