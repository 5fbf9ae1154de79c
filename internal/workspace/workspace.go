// Package workspace keeps one ledger per signed-in identity and connects it
// to storage.
//
// A workspace is loaded lazily on first use. Identified workspaces push every
// change through a syncer; the anonymous workspace (empty user id) stays in
// memory only.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/khaja/internal/ledger"
	"github.com/mmynk/khaja/internal/metrics"
	"github.com/mmynk/khaja/internal/models"
	"github.com/mmynk/khaja/internal/storage"
	"github.com/mmynk/khaja/internal/syncer"
)

// Workspace is one identity's ledger and its persistence state.
type Workspace struct {
	UserID string
	Ledger *ledger.Ledger

	syncer *syncer.Syncer // nil for the anonymous workspace
}

// SyncStatus reports whether changes are waiting to be saved and the last
// save outcome. The anonymous workspace is never dirty.
func (w *Workspace) SyncStatus() syncer.Status {
	if w.syncer == nil {
		return syncer.Status{}
	}
	return w.syncer.Status()
}

// Flush saves pending changes now.
func (w *Workspace) Flush(ctx context.Context) error {
	if w.syncer == nil {
		return nil
	}
	return w.syncer.Flush(ctx)
}

type entry struct {
	ready chan struct{}
	ws    *Workspace
	err   error
}

// Registry loads and caches workspaces.
type Registry struct {
	store   storage.Store
	delay   time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithMetrics records ledger mutations, sync flushes and the workspace count.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// WithClock overrides the time source passed to new ledgers.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// NewRegistry creates a registry saving snapshots to store, delay after the
// last change of each workspace.
func NewRegistry(store storage.Store, delay time.Duration, opts ...Option) *Registry {
	r := &Registry{
		store:   store,
		delay:   delay,
		logger:  slog.Default(),
		now:     time.Now,
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Get returns the workspace of userID, loading it from storage on first use.
// Concurrent callers for the same user share a single load. A failed load is
// not cached.
func (r *Registry) Get(ctx context.Context, userID string) (*Workspace, error) {
	r.mu.Lock()
	e, ok := r.entries[userID]
	if !ok {
		e = &entry{ready: make(chan struct{})}
		r.entries[userID] = e
	}
	r.mu.Unlock()

	if ok {
		select {
		case <-e.ready:
			return e.ws, e.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	e.ws, e.err = r.load(ctx, userID)
	if e.err != nil {
		r.mu.Lock()
		delete(r.entries, userID)
		r.mu.Unlock()
	}
	close(e.ready)

	r.mu.Lock()
	r.metrics.SetWorkspaces(r.countLoaded())
	r.mu.Unlock()
	return e.ws, e.err
}

func (r *Registry) load(ctx context.Context, userID string) (*Workspace, error) {
	ledgerOpts := []ledger.Option{
		ledger.WithClock(r.now),
		ledger.WithLogger(r.logger),
		ledger.WithRecorder(r.metrics),
	}

	if userID == "" {
		return &Workspace{Ledger: ledger.New(models.Snapshot{}, ledgerOpts...)}, nil
	}

	snapshot, bootstrap, err := r.loadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	s := syncer.New(r.store, userID, r.delay,
		syncer.WithLogger(r.logger),
		syncer.WithRecorder(r.metrics),
	)
	ws := &Workspace{
		UserID: userID,
		Ledger: ledger.New(snapshot, append(ledgerOpts, ledger.WithOnChange(s.Schedule))...),
		syncer: s,
	}

	if bootstrap {
		s.Schedule(ws.Ledger.Snapshot())
		if err := s.Flush(ctx); err != nil {
			r.logger.Warn("Failed to persist new workspace, will retry", "user_id", userID, "error", err)
		}
	}

	r.logger.Info("Workspace loaded", "user_id", userID,
		"members", len(snapshot.Members),
		"records", len(snapshot.Records),
		"payments", len(snapshot.Payments),
		"new", bootstrap,
	)
	return ws, nil
}

// loadSnapshot returns the stored snapshot, or an empty one and true when
// the user has none yet.
func (r *Registry) loadSnapshot(ctx context.Context, userID string) (models.Snapshot, bool, error) {
	snapshot, err := r.store.LoadSnapshot(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Snapshot{}, true, nil
	}
	if err != nil {
		return models.Snapshot{}, false, fmt.Errorf("failed to load workspace: %w", err)
	}
	return snapshot.Normalize(r.now()), false, nil
}

// countLoaded must be called with r.mu held.
func (r *Registry) countLoaded() int {
	n := 0
	for _, e := range r.entries {
		select {
		case <-e.ready:
			if e.err == nil {
				n++
			}
		default:
		}
	}
	return n
}

// loaded returns the workspaces whose load has completed.
func (r *Registry) loaded() []*Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Workspace, 0, len(r.entries))
	for _, e := range r.entries {
		select {
		case <-e.ready:
			if e.err == nil {
				out = append(out, e.ws)
			}
		default:
		}
	}
	return out
}

// FlushDirty saves every workspace with pending changes and returns the
// joined save errors.
func (r *Registry) FlushDirty(ctx context.Context) error {
	var errs []error
	for _, ws := range r.loaded() {
		if !ws.SyncStatus().Dirty {
			continue
		}
		if err := ws.Flush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("user %s: %w", ws.UserID, err))
		}
	}
	return errors.Join(errs...)
}

// Close stops all pending timers and saves outstanding changes.
func (r *Registry) Close(ctx context.Context) error {
	var errs []error
	for _, ws := range r.loaded() {
		if ws.syncer == nil {
			continue
		}
		if err := ws.syncer.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("user %s: %w", ws.UserID, err))
		}
	}
	return errors.Join(errs...)
}
