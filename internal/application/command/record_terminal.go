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
// TERMINAL COMMANDS
// Every executed terminal command earns a small award and counts toward
// Terminal Ninja. Easter eggs found through the terminal are a separate
// command with a bigger award; the Konami code is the most valuable
// single easter egg.
// ══════════════════════════════════════════════════════════════════════════════

// RecordTerminalCommand records one executed terminal command.
type RecordTerminalCommand struct {
	// UserID is the internal ID of the user.
	UserID string

	// CommandName is the executed command, stored as ledger metadata.
	CommandName string
}

// Validate validates the command.
func (c RecordTerminalCommand) Validate() error {
	if c.UserID == "" {
		return user.ErrUserNotFound
	}
	return nil
}

// RecordTerminalResult contains the result of recording a terminal command.
type RecordTerminalResult struct {
	// User is the user after the award.
	User *user.User

	// PointsEarned is the base award (bonus excluded).
	PointsEarned int

	// Achievements holds any achievements unlocked by this command.
	Achievements *saga.AchievementFlowResult

	// RecordedAt is when the command was recorded.
	RecordedAt time.Time
}

// RecordTerminalHandler handles the RecordTerminalCommand.
type RecordTerminalHandler struct {
	deps ProgressionDeps
}

// NewRecordTerminalHandler creates a new RecordTerminalHandler.
func NewRecordTerminalHandler(deps ProgressionDeps) *RecordTerminalHandler {
	return &RecordTerminalHandler{deps: deps}
}

// Handle executes the terminal command recording.
func (h *RecordTerminalHandler) Handle(ctx context.Context, cmd RecordTerminalCommand) (*RecordTerminalResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	usr, err := h.deps.loadUser(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("record_terminal: %w", err)
	}

	usr.RecordCommand()

	var metadata map[string]string
	if cmd.CommandName != "" {
		metadata = map[string]string{"command": cmd.CommandName}
	}

	outcome, err := h.deps.award(ctx, usr, progression.ActionTerminalCommand,
		[]achievement.Type{achievement.TypeTerminalNinja}, metadata)
	if err != nil {
		return nil, fmt.Errorf("record_terminal: %w", err)
	}

	return &RecordTerminalResult{
		User:         usr,
		PointsEarned: outcome.Event.Points,
		Achievements: outcome.Achievements,
		RecordedAt:   outcome.Event.OccurredAt,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// EASTER EGG COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// RecordEasterEggCommand records a discovered easter egg.
type RecordEasterEggCommand struct {
	// UserID is the internal ID of the user.
	UserID string

	// EggName identifies the easter egg, stored as ledger metadata.
	EggName string

	// Konami marks the Konami code, which has its own award rate.
	Konami bool
}

// Validate validates the command.
func (c RecordEasterEggCommand) Validate() error {
	if c.UserID == "" {
		return user.ErrUserNotFound
	}
	return nil
}

// RecordEasterEggResult contains the result of recording an easter egg.
type RecordEasterEggResult struct {
	// User is the user after the award.
	User *user.User

	// PointsEarned is the base award (bonus excluded).
	PointsEarned int

	// Achievements holds any achievements unlocked by this discovery.
	Achievements *saga.AchievementFlowResult

	// RecordedAt is when the easter egg was recorded.
	RecordedAt time.Time
}

// RecordEasterEggHandler handles the RecordEasterEggCommand.
type RecordEasterEggHandler struct {
	deps ProgressionDeps
}

// NewRecordEasterEggHandler creates a new RecordEasterEggHandler.
func NewRecordEasterEggHandler(deps ProgressionDeps) *RecordEasterEggHandler {
	return &RecordEasterEggHandler{deps: deps}
}

// Handle executes the easter egg recording.
func (h *RecordEasterEggHandler) Handle(ctx context.Context, cmd RecordEasterEggCommand) (*RecordEasterEggResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	usr, err := h.deps.loadUser(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("record_easter_egg: %w", err)
	}

	usr.RecordEasterEgg()

	action := progression.ActionEasterEgg
	if cmd.Konami {
		action = progression.ActionKonamiCode
	}

	var metadata map[string]string
	if cmd.EggName != "" {
		metadata = map[string]string{"egg": cmd.EggName}
	}

	outcome, err := h.deps.award(ctx, usr, action,
		[]achievement.Type{achievement.TypeEasterHunter}, metadata)
	if err != nil {
		return nil, fmt.Errorf("record_easter_egg: %w", err)
	}

	return &RecordEasterEggResult{
		User:         usr,
		PointsEarned: outcome.Event.Points,
		Achievements: outcome.Achievements,
		RecordedAt:   outcome.Event.OccurredAt,
	}, nil
}
