package jobs

import (
	"context"
	"log/slog"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/metrics"

	"github.com/robfig/cron/v3"
)

// RouteAssignmentJob periodically bundles paid orders into delivery routes.
// Runs every 15 seconds so a freshly paid order waits at most one tick
// before landing on the courier board.
type RouteAssignmentJob struct {
	handler commands.AssignRoutesCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewRouteAssignmentJob creates the assignment job over the given handler.
func NewRouteAssignmentJob(
	handler commands.AssignRoutesCommandHandler,
	logger *slog.Logger,
) *RouteAssignmentJob {
	return &RouteAssignmentJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:  logger.With("component", "route_assignment_job"),
	}
}

// Start schedules the assignment to run every 15 seconds.
func (j *RouteAssignmentJob) Start() error {
	_, err := j.cron.AddFunc("*/15 * * * * *", func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewAssignRoutesCommand()
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Failed to build assignment command", "error", cmdErr)
			return
		}

		result, handleErr := j.handler.Handle(ctx, cmd)
		if handleErr != nil {
			j.logger.ErrorContext(ctx, "Route assignment failed", "error", handleErr)
			return
		}

		if result.RoutesCreated > 0 || result.OrdersFlagged > 0 {
			metrics.RoutesCreatedTotal.Add(float64(result.RoutesCreated))
			metrics.OrdersFlaggedTotal.Add(float64(result.OrdersFlagged))
			j.logger.InfoContext(ctx, "Route assignment completed",
				"routes_created", result.RoutesCreated,
				"orders_assigned", result.OrdersAssigned,
				"orders_flagged", result.OrdersFlagged)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Route assignment job started (running every 15 seconds)")
	return nil
}

// Stop stops the assignment job.
func (j *RouteAssignmentJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Route assignment job stopped")
}
