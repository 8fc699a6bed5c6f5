package jobs

import (
	"fmt"
	"log/slog"

	"marketplace/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	reservationSweepJob *ReservationSweepJob
	routeAssignmentJob  *RouteAssignmentJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	expireHandler commands.ExpireReservationsCommandHandler,
	assignHandler commands.AssignRoutesCommandHandler,
	sweepBatchLimit int,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		reservationSweepJob: NewReservationSweepJob(expireHandler, sweepBatchLimit, logger),
		routeAssignmentJob:  NewRouteAssignmentJob(assignHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.reservationSweepJob.Start(); err != nil {
		return fmt.Errorf("failed to start reservation sweep job: %w", err)
	}

	if err := jm.routeAssignmentJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.reservationSweepJob.Stop()
		return fmt.Errorf("failed to start route assignment job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.reservationSweepJob.Stop()
	jm.routeAssignmentJob.Stop()
}
