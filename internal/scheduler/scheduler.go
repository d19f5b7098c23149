// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic maintenance jobs.
package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/iotcentral/internal/store"
)

// PurgeSchedule runs the event purge once a day at 03:00.
const PurgeSchedule = "0 3 * * *"

// Scheduler purges system events older than the retention window.
type Scheduler struct {
	db        *sql.DB
	cron      *cron.Cron
	logger    *slog.Logger
	retention time.Duration
	now       func() time.Time
}

// New creates a new scheduler instance keeping retentionDays of events.
func New(db *sql.DB, retentionDays int, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		db:        db,
		cron:      cron.New(),
		logger:    logger,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		now:       time.Now,
	}
}

// Start registers the purge job and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(PurgeSchedule, func() {
		if _, err := s.PurgeEvents(context.Background()); err != nil {
			s.logger.Error("failed to purge system events", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("adding purge job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()), "retention", s.retention)
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// NextRun returns when the purge job fires next, or the zero time before Start.
func (s *Scheduler) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// PurgeEvents deletes events created before now minus the retention window.
func (s *Scheduler) PurgeEvents(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.retention)
	n, err := store.New(s.db).DeleteEventsBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting events before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	if n > 0 {
		s.logger.Info("purged system events", "count", n, "cutoff", cutoff)
	}
	return n, nil
}
