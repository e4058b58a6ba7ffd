// Package scheduler provides cron-based scheduling for the recurring
// planned item rollover.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// RolloverService is the part of the planning service the scheduler
// drives.
type RolloverService interface {
	RollRecurring(ctx context.Context) (int, error)
}

// Config holds the scheduler configuration
type Config struct {
	// Schedule is a standard 5-field cron expression (e.g. "0 3 * * *"
	// for daily at 03:00)
	Schedule string
	// Timeout is the maximum duration for one rollover cycle
	Timeout time.Duration
	// Enabled determines if the scheduler should run
	Enabled bool
}

// DefaultConfig returns the default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Schedule: "0 3 * * *",
		Timeout:  time.Minute,
		Enabled:  true,
	}
}

// Scheduler manages the scheduled rollover job
type Scheduler struct {
	cron     *cron.Cron
	planning RolloverService
	config   Config
	logger   *slog.Logger
	entryID  cron.EntryID
}

// New creates a new Scheduler instance
func New(cfg Config, planning RolloverService, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		planning: planning,
		config:   cfg,
		logger:   logger,
	}
}

// Start begins the scheduler
func (s *Scheduler) Start() error {
	if !s.config.Enabled {
		s.logger.Info("Scheduler is disabled, skipping start")
		return nil
	}

	// Convert standard cron (5 fields) to cron with seconds (6 fields)
	schedule := "0 " + s.config.Schedule

	entryID, err := s.cron.AddFunc(schedule, func() {
		s.runRolloverJob()
	})
	if err != nil {
		return err
	}

	s.entryID = entryID
	s.cron.Start()

	s.logger.Info("Scheduler started",
		slog.String("schedule", s.config.Schedule),
		slog.Duration("timeout", s.config.Timeout),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("Stopping scheduler...")
	return s.cron.Stop()
}

// RunNow triggers an immediate rollover (useful for manual triggers)
func (s *Scheduler) RunNow() {
	go s.runRolloverJob()
}

// runRolloverJob executes one rollover cycle
func (s *Scheduler) runRolloverJob() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Timeout)
	defer cancel()

	startTime := time.Now()
	s.logger.Info("Starting recurring rollover job")

	count, err := s.planning.RollRecurring(ctx)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Rollover job failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", duration),
		)
		return
	}

	s.logger.Info("Rollover job completed",
		slog.Int("items_rolled", count),
		slog.Duration("duration", duration),
	)
}

// GetNextRunTime returns the next scheduled run time
func (s *Scheduler) GetNextRunTime() time.Time {
	if s.entryID == 0 {
		return time.Time{}
	}
	entry := s.cron.Entry(s.entryID)
	return entry.Next
}

// IsRunning returns true if the scheduler is running
func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
