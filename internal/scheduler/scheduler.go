package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Flusher saves workspaces whose changes have not reached storage yet.
type Flusher interface {
	FlushDirty(ctx context.Context) error
}

// Scheduler periodically retries failed workspace saves.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	flusher  Flusher
	timeout  time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that runs the retry job on the given cron
// schedule (standard 5-field expression or descriptors such as "@every 1m").
func NewScheduler(schedule string, flusher Flusher, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		cron:     cron.New(),
		schedule: schedule,
		flusher:  flusher,
		timeout:  30 * time.Second,
		logger:   logger,
	}
}

// Start registers the retry job and starts the cron loop.
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler", "schedule", s.schedule)

	if _, err := s.cron.AddFunc(s.schedule, s.retryDirty); err != nil {
		return fmt.Errorf("failed to schedule sync retry: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) retryDirty() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.flusher.FlushDirty(ctx); err != nil {
		s.logger.Warn("Sync retry failed", "error", err)
		return
	}
	s.logger.Debug("Sync retry completed")
}
