package jobs

import (
	"context"
	"log/slog"

	"fleet/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// VehicleReleaseJob manages the scheduled sweep for orphaned vehicles.
// Runs every minute to release vehicles whose delivery already reached a
// terminal state.
type VehicleReleaseJob struct {
	handler *commands.ReleaseOrphanedVehiclesCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewVehicleReleaseJob creates a new job for releasing orphaned vehicles.
// Uses ReleaseOrphanedVehiclesCommandHandler to process the sweep every minute.
func NewVehicleReleaseJob(handler *commands.ReleaseOrphanedVehiclesCommandHandler, logger *slog.Logger) *VehicleReleaseJob {
	return &VehicleReleaseJob{
		handler: handler,
		cron:    cron.New(),
		logger:  logger.With("component", "vehicle_release_job"),
	}
}

// Start begins the vehicle release job to run every minute.
func (j *VehicleReleaseJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()
		cmd, err := commands.NewReleaseOrphanedVehiclesCommand()
		if err != nil {
			j.logger.ErrorContext(ctx, "Vehicle release job misconfigured", "error", err)
			return
		}

		released, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			// The handler joins per-vehicle errors; a partial sweep still
			// reports how far it got.
			j.logger.ErrorContext(ctx, "Vehicle release job failed", "released", released, "error", err)
			return
		}

		if released > 0 {
			j.logger.InfoContext(ctx, "Vehicle release job finished", "released", released)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Vehicle release job started (running every minute)")
	return nil
}

// Stop stops the vehicle release job.
func (j *VehicleReleaseJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Vehicle release job stopped")
}
