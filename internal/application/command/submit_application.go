package command

import (
	"context"
	"fmt"
	"time"

	"github.com/Darkprophet2323/thriveremote-hub/internal/application/saga"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/achievement"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/progression"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMIT APPLICATION COMMAND
// Records a job application. The first application ever unlocks the
// First Steps achievement.
// ══════════════════════════════════════════════════════════════════════════════

// SubmitApplicationCommand records a job application for the user.
type SubmitApplicationCommand struct {
	// UserID is the internal ID of the user.
	UserID string

	// JobTitle and Company are optional ledger metadata.
	JobTitle string
	Company  string
}

// Validate validates the command.
func (c SubmitApplicationCommand) Validate() error {
	if c.UserID == "" {
		return user.ErrUserNotFound
	}
	return nil
}

// SubmitApplicationResult contains the result of recording an application.
type SubmitApplicationResult struct {
	// User is the user after the award.
	User *user.User

	// PointsEarned is the base award (bonus excluded).
	PointsEarned int

	// Achievements holds any achievements unlocked by this application.
	Achievements *saga.AchievementFlowResult

	// SubmittedAt is when the application was recorded.
	SubmittedAt time.Time
}

// SubmitApplicationHandler handles the SubmitApplicationCommand.
type SubmitApplicationHandler struct {
	deps ProgressionDeps
}

// NewSubmitApplicationHandler creates a new SubmitApplicationHandler.
func NewSubmitApplicationHandler(deps ProgressionDeps) *SubmitApplicationHandler {
	return &SubmitApplicationHandler{deps: deps}
}

// Handle executes the submit application command.
func (h *SubmitApplicationHandler) Handle(ctx context.Context, cmd SubmitApplicationCommand) (*SubmitApplicationResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	usr, err := h.deps.loadUser(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("submit_application: %w", err)
	}

	usr.SubmitApplication()

	var metadata map[string]string
	if cmd.JobTitle != "" || cmd.Company != "" {
		metadata = map[string]string{}
		if cmd.JobTitle != "" {
			metadata["job_title"] = cmd.JobTitle
		}
		if cmd.Company != "" {
			metadata["company"] = cmd.Company
		}
	}

	outcome, err := h.deps.award(ctx, usr, progression.ActionJobApplication,
		[]achievement.Type{achievement.TypeFirstJobApply}, metadata)
	if err != nil {
		return nil, fmt.Errorf("submit_application: %w", err)
	}

	return &SubmitApplicationResult{
		User:         usr,
		PointsEarned: outcome.Event.Points,
		Achievements: outcome.Achievements,
		SubmittedAt:  outcome.Event.OccurredAt,
	}, nil
}
