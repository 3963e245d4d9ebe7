package core

// janitor.go provides background pruning of finished import jobs.
//
// Completed jobs stay queryable for a retention window so clients can
// fetch results after the fact. The janitor runs periodically, removing
// jobs whose terminal phase is older than the window. It is long-running
// and context-aware for graceful shutdown.

import (
	"context"
	"log/slog"
	"time"
)

// JanitorConfig holds configuration for the job janitor.
// Zero values take defaults.
type JanitorConfig struct {
	Retention     time.Duration // how long finished jobs stay queryable (default: 10m)
	CheckInterval time.Duration // how often to sweep (default: 1m)
}

const (
	defaultJobRetention  = 10 * time.Minute
	defaultSweepInterval = time.Minute
)

// StartJanitor starts a background goroutine that periodically prunes
// finished jobs. It stops when the context is cancelled.
func (s *Service) StartJanitor(ctx context.Context, cfg JanitorConfig) {
	if cfg.Retention <= 0 {
		cfg.Retention = defaultJobRetention
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = defaultSweepInterval
	}

	go func() {
		slog.Info("job janitor started",
			"retention", cfg.Retention.String(),
			"check_interval", cfg.CheckInterval.String(),
		)

		ticker := time.NewTicker(cfg.CheckInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.Info("job janitor stopped")
				return
			case <-ticker.C:
				if pruned := s.pruneFinishedJobs(cfg.Retention); pruned > 0 {
					slog.Debug("pruned finished jobs", "count", pruned)
				}
			}
		}
	}()
}

// pruneFinishedJobs removes jobs that finished more than retention ago.
// Returns the number removed.
func (s *Service) pruneFinishedJobs(retention time.Duration) int {
	cutoff := time.Now().Add(-retention)

	s.mu.Lock()
	defer s.mu.Unlock()

	pruned := 0
	for id, job := range s.jobs {
		job.mu.Lock()
		expired := !job.finishedAt.IsZero() && job.finishedAt.Before(cutoff)
		job.mu.Unlock()

		if expired {
			delete(s.jobs, id)
			pruned++
		}
	}
	return pruned
}
