package command

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Darkprophet2323/thriveremote-hub/internal/application/saga"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/achievement"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/progression"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/shared"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE SAVINGS COMMAND
// Sets the current savings amount and optionally the goal, then checks
// both savings milestones. A single large deposit can cross 25% and 50%
// at once and unlocks both in the same pass.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateSavingsCommand sets the user's savings state.
type UpdateSavingsCommand struct {
	// UserID is the internal ID of the user.
	UserID string

	// Amount is the new current savings value.
	Amount float64

	// Goal replaces the savings goal when positive; zero keeps the
	// existing goal.
	Goal float64
}

// Validate validates the command.
func (c UpdateSavingsCommand) Validate() error {
	if c.UserID == "" {
		return user.ErrUserNotFound
	}
	if c.Amount < 0 {
		return user.ErrInvalidSavings
	}
	if c.Goal < 0 {
		return user.ErrInvalidSavings
	}
	return nil
}

// UpdateSavingsResult contains the result of a savings update.
type UpdateSavingsResult struct {
	// User is the user after the award.
	User *user.User

	// PointsEarned is the base award (bonus excluded).
	PointsEarned int

	// SavingsPercent is the progress toward the goal after the update.
	SavingsPercent float64

	// Achievements holds milestone achievements unlocked by this update.
	Achievements *saga.AchievementFlowResult

	// UpdatedAt is when the update was recorded.
	UpdatedAt time.Time
}

// UpdateSavingsHandler handles the UpdateSavingsCommand.
type UpdateSavingsHandler struct {
	deps ProgressionDeps
}

// NewUpdateSavingsHandler creates a new UpdateSavingsHandler.
func NewUpdateSavingsHandler(deps ProgressionDeps) *UpdateSavingsHandler {
	return &UpdateSavingsHandler{deps: deps}
}

// Handle executes the savings update command.
func (h *UpdateSavingsHandler) Handle(ctx context.Context, cmd UpdateSavingsCommand) (*UpdateSavingsResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	usr, err := h.deps.loadUser(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("update_savings: %w", err)
	}

	if cmd.Goal > 0 {
		if err := usr.SetSavingsGoal(cmd.Goal); err != nil {
			return nil, fmt.Errorf("update_savings: %w", err)
		}
	}
	if err := usr.UpdateSavings(cmd.Amount); err != nil {
		return nil, fmt.Errorf("update_savings: %w", err)
	}

	metadata := map[string]string{
		"amount": strconv.FormatFloat(cmd.Amount, 'f', 2, 64),
	}

	outcome, err := h.deps.award(ctx, usr, progression.ActionSavingsUpdate,
		[]achievement.Type{achievement.TypeSavingsMilestone25, achievement.TypeSavingsMilestone50},
		metadata)
	if err != nil {
		return nil, fmt.Errorf("update_savings: %w", err)
	}

	if h.deps.EventPublisher != nil {
		_ = h.deps.EventPublisher.Publish(shared.NewSavingsUpdatedEvent(
			usr.ID, usr.CurrentSavings, usr.SavingsGoal, usr.SavingsPercent()))
	}

	return &UpdateSavingsResult{
		User:           usr,
		PointsEarned:   outcome.Event.Points,
		SavingsPercent: usr.SavingsPercent(),
		Achievements:   outcome.Achievements,
		UpdatedAt:      outcome.Event.OccurredAt,
	}, nil
}
