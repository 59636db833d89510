package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
)

// JobManager owns the lifecycle of the background workers. Start and stop are
// all-or-nothing so the service never runs with a partial worker set.
type JobManager struct {
	dispatchJob *DispatchJob
}

// NewJobManager builds the worker set. Handlers come in as dependencies so
// the workers drive the same command path the HTTP adapter does.
func NewJobManager(
	dispatchHandler commands.DispatchOrderCommandHandler,
	dispatchInterval time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		dispatchJob: NewDispatchJob(dispatchHandler, dispatchInterval, logger),
	}
}

// StartAll launches every worker, failing on the first that cannot start.
func (jm *JobManager) StartAll() error {
	if err := jm.dispatchJob.Start(); err != nil {
		return fmt.Errorf("failed to start order dispatch job: %w", err)
	}

	return nil
}

// StopAll winds every worker down.
func (jm *JobManager) StopAll() {
	jm.dispatchJob.Stop()
}
