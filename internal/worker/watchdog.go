package worker

import (
	"context"
	"time"

	"forgefit/coach-engine/internal/config"
	"forgefit/coach-engine/internal/repository"
	"forgefit/coach-engine/internal/service"
)

// Watchdog periodically fails jobs stuck in processing beyond the wall-clock
// ceiling, so a crashed worker can never leave a job unrecoverable.
type Watchdog struct {
	jobRepo  repository.GenerationJobRepository
	interval time.Duration
	ceiling  time.Duration
}

// NewWatchdog creates a watchdog from the worker configuration.
func NewWatchdog(jobRepo repository.GenerationJobRepository, cfg config.WorkerConfig) *Watchdog {
	interval := cfg.WatchdogInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ceiling := cfg.ProcessingCeiling
	if ceiling <= 0 {
		ceiling = 5 * time.Minute
	}
	return &Watchdog{
		jobRepo:  jobRepo,
		interval: interval,
		ceiling:  ceiling,
	}
}

// Start runs the scan loop until the context is cancelled.
func (w *Watchdog) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			service.FailStaleJobs(ctx, w.jobRepo, w.ceiling)
		}
	}
}
