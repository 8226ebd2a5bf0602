package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs a full refresh of the dataset on a cron schedule
type Scheduler struct {
	updater *Updater
	cron    *cron.Cron
	spec    string
	timeout time.Duration
	logger  *log.Logger
}

// NewScheduler creates a scheduler evaluating the cron expression in the given timezone
func NewScheduler(updater *Updater, cfg ScheduleConfig, logger *log.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", cfg.Timezone, err)
	}

	if _, err := cron.ParseStandard(cfg.Cron); err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", cfg.Cron, err)
	}

	return &Scheduler{
		updater: updater,
		cron:    cron.New(cron.WithLocation(loc)),
		spec:    cfg.Cron,
		timeout: 10 * time.Minute,
		logger:  logger,
	}, nil
}

// Start registers the refresh job and starts the cron loop
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.refresh); err != nil {
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}

	s.cron.Start()
	s.logger.Printf("[Scheduler] Scheduler started - full refresh at %q", s.spec)
	return nil
}

func (s *Scheduler) refresh() {
	s.logger.Println("[Scheduler] Starting scheduled refresh...")

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	summary, err := s.updater.RefreshAll(ctx)
	if err != nil {
		s.logger.Printf("[Scheduler] Refresh failed: %v", err)
		return
	}
	s.logger.Printf("[Scheduler] Refresh completed in %v: %s", time.Since(start), summary)
}

// Next returns when the refresh runs next, zero before Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Stop gracefully stops the scheduler, waiting for a running refresh
func (s *Scheduler) Stop() {
	s.logger.Println("[Scheduler] Stopping scheduler...")
	<-s.cron.Stop().Done()
	s.logger.Println("[Scheduler] Scheduler stopped")
}
