// Package jobs provides scheduled background tasks for the dispatch service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to drive the periodic work the fuel-delivery platform depends on.
//
// # Available Jobs
//
// 1. DispatchJob - Runs the dispatch engine's reconciliation tick on a
// configurable interval: expiring stale couriers, reminding tardy
// acceptances, and applying new assignments.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with the dispatch engine
//	jobManager := jobs.NewJobManager(engine, tickInterval, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The dispatch job uses an @every descriptor built from the configured tick
// interval. The schedule is wrapped with cron.SkipIfStillRunning, so a tick
// that outlasts its interval causes the next firing to be skipped rather
// than run concurrently; skips surface in the log.
//
// # Error Handling
//
// A failed tick is logged and the schedule keeps running; tick failures are
// operational conditions, never fatal to the process.
package jobs
