package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DispatchJob manages the scheduled hand-out of packed orders to delivery
// partners. Each tick assigns the oldest packed order to an available partner
// through the dispatch command.
type DispatchJob struct {
	handler  commands.DispatchOrderCommandHandler
	cron     *cron.Cron
	interval time.Duration
	logger   *slog.Logger
}

// NewDispatchJob creates a new job for dispatching packed orders.
// Uses DispatchOrderCommandHandler to run the order-partner matching on the
// given interval.
func NewDispatchJob(
	handler commands.DispatchOrderCommandHandler,
	interval time.Duration,
	logger *slog.Logger,
) *DispatchJob {
	return &DispatchJob{
		handler:  handler,
		cron:     cron.New(cron.WithSeconds()),
		interval: interval,
		logger:   logger.With("component", "dispatch_job"),
	}
}

// Start begins the dispatch job on its configured interval.
func (j *DispatchJob) Start() error {
	_, err := j.cron.AddFunc(fmt.Sprintf("@every %s", j.interval), func() {
		ctx := context.Background()
		cmd := commands.NewDispatchOrderCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			// An empty packed queue and a fully busy fleet are routine ticks.
			if !errors.Is(err, commands.ErrNoPackedOrderFound) &&
				!errors.Is(err, commands.ErrNoAvailablePartnersFound) {
				j.logger.ErrorContext(ctx, "Order dispatch job failed", "error", err)
			}
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Order dispatch job started", "interval", j.interval.String())
	return nil
}

// Stop stops the dispatch job.
func (j *DispatchJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Order dispatch job stopped")
}
