package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper deletes expired records from a Store on a cron schedule.
type Sweeper struct {
	store    Store
	schedule string
	window   time.Duration
	now      func() time.Time
	logger   *slog.Logger

	// OnSweep, if set, receives the number of records deleted by each run.
	OnSweep func(deleted int)

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// NewSweeper creates a sweeper for store. Records are expired relative to window.
//
// Common schedules:
//   - "@every 1h"   - Hourly from start
//   - "0 3 * * *"   - Daily at 3 AM
func NewSweeper(store Store, schedule string, window time.Duration, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		store:    store,
		schedule: schedule,
		window:   window,
		now:      time.Now,
		logger:   logger.With("component", "limits.sweeper"),
		cron:     cron.New(),
	}
}

// Start schedules sweeping. An empty schedule disables the sweeper.
// The sweeper stops when ctx is cancelled or Stop is called.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("sweep schedule not configured, skipping sweeper")
		return nil
	}
	if s.running {
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}
	if _, err := s.cron.AddFunc(s.schedule, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("rate limit sweeper started", "schedule", s.schedule, "window", s.window)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// RunOnce performs a single sweep and returns the number of records deleted.
func (s *Sweeper) RunOnce(ctx context.Context) int {
	deleted, err := s.store.Sweep(ctx, s.now(), s.window)
	if err != nil {
		s.logger.Error("rate limit sweep failed", "error", err)
		return 0
	}

	if deleted > 0 {
		s.logger.Info("rate limit sweep completed", "deleted_count", deleted)
	} else {
		s.logger.Debug("rate limit sweep completed, no records deleted")
	}
	if s.OnSweep != nil {
		s.OnSweep(deleted)
	}
	return deleted
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		<-s.cron.Stop().Done()
		s.running = false
		s.logger.Info("rate limit sweeper stopped")
	}
}

// IsRunning reports whether the schedule is active.
func (s *Sweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled sweep, or nil when not scheduled.
func (s *Sweeper) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
