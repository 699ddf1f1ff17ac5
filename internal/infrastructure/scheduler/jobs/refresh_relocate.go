// Package jobs contains implementations of scheduled jobs for ThriveRemote Hub.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// REFRESH RELOCATE JOB
// ══════════════════════════════════════════════════════════════════════════════

// RelocateRefresher is the slice of the relocation service this job needs.
type RelocateRefresher interface {
	Refresh(ctx context.Context) error
}

// RefreshRelocateJob keeps the relocation dataset cache warm so interactive
// requests almost never pay the provider round-trip. The provider is a demo
// service with unpredictable latency; refreshing in the background keeps the
// dashboard snappy even when the provider degrades.
type RefreshRelocateJob struct {
	refresher RelocateRefresher
	logger    *slog.Logger
	config    RefreshRelocateConfig

	// State
	runCount  atomic.Int64
	failCount atomic.Int64
	lastRunAt atomic.Value // time.Time
}

// RefreshRelocateConfig contains configuration for the refresh job.
type RefreshRelocateConfig struct {
	// Timeout bounds one refresh attempt end to end.
	Timeout time.Duration
}

// DefaultRefreshRelocateConfig returns sensible defaults.
func DefaultRefreshRelocateConfig() RefreshRelocateConfig {
	return RefreshRelocateConfig{
		Timeout: 45 * time.Second,
	}
}

// NewRefreshRelocateJob creates a new RefreshRelocateJob.
func NewRefreshRelocateJob(refresher RelocateRefresher, config RefreshRelocateConfig, logger *slog.Logger) *RefreshRelocateJob {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultRefreshRelocateConfig().Timeout
	}

	return &RefreshRelocateJob{
		refresher: refresher,
		logger:    logger.With("job", "refresh_relocate"),
		config:    config,
	}
}

// Name returns the unique name of the job.
func (j *RefreshRelocateJob) Name() string {
	return "refresh_relocate"
}

// Description returns a human-readable description of the job.
func (j *RefreshRelocateJob) Description() string {
	return "Refreshes the cached relocation dataset from the external provider"
}

// Run executes one refresh cycle.
func (j *RefreshRelocateJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	start := time.Now()
	j.runCount.Add(1)
	j.lastRunAt.Store(start)

	if err := j.refresher.Refresh(ctx); err != nil {
		j.failCount.Add(1)
		j.logger.Warn("relocation cache refresh failed",
			"duration", time.Since(start),
			"error", err,
		)
		return fmt.Errorf("refresh relocate cache: %w", err)
	}

	j.logger.Info("relocation cache refreshed", "duration", time.Since(start))
	return nil
}

// Stats returns run counters for health reporting.
func (j *RefreshRelocateJob) Stats() (runs, failures int64) {
	return j.runCount.Load(), j.failCount.Load()
}
