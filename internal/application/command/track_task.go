package command

import (
	"context"
	"fmt"
	"time"

	"github.com/Darkprophet2323/thriveremote-hub/internal/application/saga"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/achievement"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/progression"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/shared"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// TASK TRACKING COMMANDS
// Creating a task and completing a task both award points; completion
// also feeds the Task Master achievement. Importing an external task
// list is a single flat-rate award regardless of list size.
// ══════════════════════════════════════════════════════════════════════════════

// TrackTaskCommand records a task lifecycle step for the user.
type TrackTaskCommand struct {
	// UserID is the internal ID of the user.
	UserID string

	// Action is the task action: created, completed or imported.
	Action progression.Action

	// TaskTitle is optional and stored as ledger metadata.
	TaskTitle string
}

// Validate validates the command.
func (c TrackTaskCommand) Validate() error {
	if c.UserID == "" {
		return user.ErrUserNotFound
	}
	switch c.Action {
	case progression.ActionTaskCreated, progression.ActionTaskCompleted, progression.ActionTasksImported:
		return nil
	default:
		return fmt.Errorf("track_task: %w: %s", progression.ErrUnknownAction, c.Action)
	}
}

// TrackTaskResult contains the result of a task tracking command.
type TrackTaskResult struct {
	// User is the user after the award.
	User *user.User

	// PointsEarned is the base award for this action (bonus excluded).
	PointsEarned int

	// Achievements holds any achievements unlocked by this action.
	Achievements *saga.AchievementFlowResult

	// TrackedAt is when the action was recorded.
	TrackedAt time.Time
}

// TrackTaskHandler handles the TrackTaskCommand.
type TrackTaskHandler struct {
	deps ProgressionDeps
}

// NewTrackTaskHandler creates a new TrackTaskHandler.
func NewTrackTaskHandler(deps ProgressionDeps) *TrackTaskHandler {
	return &TrackTaskHandler{deps: deps}
}

// Handle executes the task tracking command.
func (h *TrackTaskHandler) Handle(ctx context.Context, cmd TrackTaskCommand) (*TrackTaskResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	usr, err := h.deps.loadUser(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("track_task: %w", err)
	}

	var candidates []achievement.Type
	switch cmd.Action {
	case progression.ActionTaskCreated:
		usr.CreateTask()
	case progression.ActionTaskCompleted:
		usr.CompleteTask()
		candidates = []achievement.Type{achievement.TypeTaskMaster}
	case progression.ActionTasksImported:
		// No counter: imported tasks are not completed tasks.
	}

	var metadata map[string]string
	if cmd.TaskTitle != "" {
		metadata = map[string]string{"task_title": cmd.TaskTitle}
	}

	outcome, err := h.deps.award(ctx, usr, cmd.Action, candidates, metadata)
	if err != nil {
		return nil, fmt.Errorf("track_task: %w", err)
	}

	if h.deps.EventPublisher != nil && cmd.Action == progression.ActionTaskCompleted {
		_ = h.deps.EventPublisher.Publish(shared.NewTaskCompletedEvent(usr.ID, usr.TasksCompleted, outcome.Event.Points))
	}

	return &TrackTaskResult{
		User:         usr,
		PointsEarned: outcome.Event.Points,
		Achievements: outcome.Achievements,
		TrackedAt:    outcome.Event.OccurredAt,
	}, nil
}
