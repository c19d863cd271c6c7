package jobs

import (
	"fmt"
	"log/slog"
	"time"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	dispatchJob *DispatchJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes the dispatch engine and its tick interval to wire up the
// reconciliation schedule.
func NewJobManager(engine Ticker, tickInterval time.Duration, logger *slog.Logger) *JobManager {
	return &JobManager{
		dispatchJob: NewDispatchJob(engine, tickInterval, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.dispatchJob.Start(); err != nil {
		return fmt.Errorf("failed to start dispatch job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully, waiting for in-flight work.
func (jm *JobManager) StopAll() {
	jm.dispatchJob.Stop()
}
