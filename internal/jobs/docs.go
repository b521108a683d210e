// Package jobs provides scheduled background tasks for the fleet dispatch
// system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the dispatch service.
//
// # Available Jobs
//
// 1. VehicleReleaseJob - Runs every minute to release vehicles still bound
// to deliveries that already reached a terminal state
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(releaseHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// The release sweep tolerates per-vehicle failures: the handler joins them
// into one error and still reports how many vehicles it released. The job
// logs that error and keeps its schedule.
package jobs
