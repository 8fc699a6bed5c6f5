// Package jobs provides scheduled background tasks for the fulfillment system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle the periodic operations the order lifecycle depends on.
//
// # Available Jobs
//
// 1. ReservationSweepJob - Runs every 30 seconds to release expired stock
// reservations and expire the unpaid orders behind them
// 2. RouteAssignmentJob - Runs every 15 seconds to bundle paid orders into
// delivery routes for the courier board
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(expireHandler, assignHandler, batchLimit, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Concurrency
//
// The sweep reads expired reservations with SKIP LOCKED, so overlapping runs
// (or multiple service replicas) divide the backlog instead of deadlocking.
// The assignment job commits nothing when the ready pool is empty.
//
// # Error Handling
//
// - Both jobs log failures and wait for the next tick; no retries in between
// - Failed job starts will stop any already running jobs
package jobs
