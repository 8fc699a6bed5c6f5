package jobs

import (
	"context"
	"log/slog"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/metrics"

	"github.com/robfig/cron/v3"
)

// ReservationSweepJob periodically releases expired stock reservations and
// expires the unpaid orders behind them. Runs every 30 seconds with a bounded
// batch so one run never holds row locks for long.
type ReservationSweepJob struct {
	handler    commands.ExpireReservationsCommandHandler
	batchLimit int
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewReservationSweepJob creates the sweep job over the given handler.
func NewReservationSweepJob(
	handler commands.ExpireReservationsCommandHandler,
	batchLimit int,
	logger *slog.Logger,
) *ReservationSweepJob {
	return &ReservationSweepJob{
		handler:    handler,
		batchLimit: batchLimit,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "reservation_sweep_job"),
	}
}

// Start schedules the sweep to run every 30 seconds.
func (j *ReservationSweepJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewExpireReservationsCommand(j.batchLimit)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Failed to build sweep command", "error", cmdErr)
			return
		}

		result, handleErr := j.handler.Handle(ctx, cmd)
		if handleErr != nil {
			j.logger.ErrorContext(ctx, "Reservation sweep failed", "error", handleErr)
			return
		}

		if result.ReleasedReservations > 0 {
			metrics.ReservationsReleasedTotal.Add(float64(result.ReleasedReservations))
			metrics.OrdersExpiredTotal.Add(float64(result.ExpiredOrders))
			j.logger.InfoContext(ctx, "Reservation sweep released expired holds",
				"released", result.ReleasedReservations,
				"expired_orders", result.ExpiredOrders)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Reservation sweep job started (running every 30 seconds)")
	return nil
}

// Stop stops the sweep job.
func (j *ReservationSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Reservation sweep job stopped")
}
