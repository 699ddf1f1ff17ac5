package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/session"
)

// ══════════════════════════════════════════════════════════════════════════════
// PRUNE SESSIONS JOB
// ══════════════════════════════════════════════════════════════════════════════

// PruneSessionsJob removes long-dead session rows from the durable store.
// Sessions never expire on their own, so ended ones accumulate until this
// job sweeps them. Only inactive rows are touched; an idle but active
// session survives any retention window.
type PruneSessionsJob struct {
	store  session.Store
	logger *slog.Logger
	config PruneSessionsConfig

	// State
	totalPruned atomic.Int64
}

// PruneSessionsConfig contains configuration for the prune job.
type PruneSessionsConfig struct {
	// Retention is how long inactive sessions are kept before deletion.
	Retention time.Duration

	// Timeout bounds one sweep.
	Timeout time.Duration
}

// DefaultPruneSessionsConfig returns sensible defaults.
func DefaultPruneSessionsConfig() PruneSessionsConfig {
	return PruneSessionsConfig{
		Retention: 30 * 24 * time.Hour,
		Timeout:   30 * time.Second,
	}
}

// NewPruneSessionsJob creates a new PruneSessionsJob.
func NewPruneSessionsJob(store session.Store, config PruneSessionsConfig, logger *slog.Logger) *PruneSessionsJob {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Retention <= 0 {
		config.Retention = DefaultPruneSessionsConfig().Retention
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultPruneSessionsConfig().Timeout
	}

	return &PruneSessionsJob{
		store:  store,
		logger: logger.With("job", "prune_sessions"),
		config: config,
	}
}

// Name returns the unique name of the job.
func (j *PruneSessionsJob) Name() string {
	return "prune_sessions"
}

// Description returns a human-readable description of the job.
func (j *PruneSessionsJob) Description() string {
	return "Deletes inactive sessions past the retention window"
}

// Run executes one sweep.
func (j *PruneSessionsJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	start := time.Now()

	pruned, err := j.store.PruneInactive(ctx, j.config.Retention)
	if err != nil {
		j.logger.Error("session prune failed", "error", err)
		return fmt.Errorf("prune sessions: %w", err)
	}

	j.totalPruned.Add(int64(pruned))

	if pruned > 0 {
		j.logger.Info("sessions pruned",
			"count", pruned,
			"retention", j.config.Retention,
			"duration", time.Since(start),
		)
	}

	return nil
}

// TotalPruned returns the number of sessions removed since start.
func (j *PruneSessionsJob) TotalPruned() int64 {
	return j.totalPruned.Load()
}
