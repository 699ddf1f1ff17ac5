package command

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/progression"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// REFRESH JOBS COMMAND
// Refreshing the job listings is a small award with no achievement
// attached; the listing fetch itself happens on the interface side.
// ══════════════════════════════════════════════════════════════════════════════

// RefreshJobsCommand records a job listing refresh.
type RefreshJobsCommand struct {
	// UserID is the internal ID of the user.
	UserID string

	// JobsFound is the number of listings returned, stored as metadata.
	JobsFound int
}

// Validate validates the command.
func (c RefreshJobsCommand) Validate() error {
	if c.UserID == "" {
		return user.ErrUserNotFound
	}
	return nil
}

// RefreshJobsResult contains the result of recording a refresh.
type RefreshJobsResult struct {
	// User is the user after the award.
	User *user.User

	// PointsEarned is the award for the refresh.
	PointsEarned int

	// RefreshedAt is when the refresh was recorded.
	RefreshedAt time.Time
}

// RefreshJobsHandler handles the RefreshJobsCommand.
type RefreshJobsHandler struct {
	deps ProgressionDeps
}

// NewRefreshJobsHandler creates a new RefreshJobsHandler.
func NewRefreshJobsHandler(deps ProgressionDeps) *RefreshJobsHandler {
	return &RefreshJobsHandler{deps: deps}
}

// Handle executes the refresh jobs command.
func (h *RefreshJobsHandler) Handle(ctx context.Context, cmd RefreshJobsCommand) (*RefreshJobsResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	usr, err := h.deps.loadUser(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("refresh_jobs: %w", err)
	}

	metadata := map[string]string{"jobs_found": strconv.Itoa(cmd.JobsFound)}

	outcome, err := h.deps.award(ctx, usr, progression.ActionRefreshJobs, nil, metadata)
	if err != nil {
		return nil, fmt.Errorf("refresh_jobs: %w", err)
	}

	return &RefreshJobsResult{
		User:         usr,
		PointsEarned: outcome.Event.Points,
		RefreshedAt:  outcome.Event.OccurredAt,
	}, nil
}
