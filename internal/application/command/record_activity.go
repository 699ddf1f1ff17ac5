package command

import (
	"context"
	"fmt"
	"time"

	"github.com/Darkprophet2323/thriveremote-hub/internal/application/saga"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/achievement"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/shared"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD ACTIVITY COMMAND
// An explicit daily touchpoint. It fires the streak rule, which is
// idempotent within a calendar day (UTC), and checks the weekly streak
// achievement. No points are awarded for merely showing up.
// ══════════════════════════════════════════════════════════════════════════════

// RecordActivityCommand marks the user as active today.
type RecordActivityCommand struct {
	// UserID is the internal ID of the user.
	UserID string

	// At is when the activity happened (defaults to now if zero).
	At time.Time
}

// Validate validates the command.
func (c RecordActivityCommand) Validate() error {
	if c.UserID == "" {
		return user.ErrUserNotFound
	}
	return nil
}

// RecordActivityResult contains the result of a daily touchpoint.
type RecordActivityResult struct {
	// User is the user after the streak rule was applied.
	User *user.User

	// Streak describes the streak transition.
	Streak user.StreakTransition

	// Achievements holds any streak achievement unlocked by this touch.
	Achievements *saga.AchievementFlowResult

	// RecordedAt is the touchpoint time.
	RecordedAt time.Time
}

// RecordActivityHandler handles the RecordActivityCommand.
type RecordActivityHandler struct {
	deps ProgressionDeps
}

// NewRecordActivityHandler creates a new RecordActivityHandler.
func NewRecordActivityHandler(deps ProgressionDeps) *RecordActivityHandler {
	return &RecordActivityHandler{deps: deps}
}

// Handle executes the daily touchpoint command.
func (h *RecordActivityHandler) Handle(ctx context.Context, cmd RecordActivityCommand) (*RecordActivityResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	at := cmd.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	usr, err := h.deps.loadUser(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("record_activity: %w", err)
	}

	transition := usr.TouchStreak(at)
	usr.Touch()

	result := &RecordActivityResult{
		User:       usr,
		Streak:     transition,
		RecordedAt: at,
	}

	if transition.Fired && h.deps.AchievementFlow != nil {
		flowResult, err := h.deps.AchievementFlow.Execute(ctx, saga.AchievementCheckInput{
			User:       usr,
			Candidates: []achievement.Type{achievement.TypeStreakWeek},
		})
		if err != nil {
			return nil, fmt.Errorf("record_activity: achievement flow: %w", err)
		}
		result.Achievements = flowResult
	}

	if err := h.deps.UserRepo.Update(ctx, usr); err != nil {
		return nil, fmt.Errorf("record_activity: update user: %w", err)
	}

	if h.deps.EventPublisher != nil && transition.Fired {
		if transition.Reset && transition.PreviousStreak > 1 {
			_ = h.deps.EventPublisher.Publish(shared.NewStreakBrokenEvent(usr.ID, transition.PreviousStreak, transition.DaysMissed))
		}
		_ = h.deps.EventPublisher.Publish(shared.NewStreakUpdatedEvent(usr.ID, usr.DailyStreak, usr.TotalSessions, transition.Extended))
	}

	return result, nil
}
