package command

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Darkprophet2323/thriveremote-hub/internal/application/saga"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/achievement"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/progression"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD PONG SCORE COMMAND
// The high score is a high-water mark: only a score strictly above the
// stored record earns points and can unlock Pong Champion. Lower scores
// are accepted silently and change nothing.
// ══════════════════════════════════════════════════════════════════════════════

// RecordPongScoreCommand submits a finished Pong game score.
type RecordPongScoreCommand struct {
	// UserID is the internal ID of the user.
	UserID string

	// Score is the final game score.
	Score int
}

// Validate validates the command.
func (c RecordPongScoreCommand) Validate() error {
	if c.UserID == "" {
		return user.ErrUserNotFound
	}
	if c.Score < 0 {
		return user.ErrInvalidScore
	}
	return nil
}

// RecordPongScoreResult contains the result of a score submission.
type RecordPongScoreResult struct {
	// User is the user after the submission.
	User *user.User

	// NewRecord is true when the submitted score beat the stored record.
	NewRecord bool

	// HighScore is the stored record after the submission.
	HighScore int

	// PointsEarned is the base award; zero when the record stood.
	PointsEarned int

	// Achievements holds any achievements unlocked by a new record.
	Achievements *saga.AchievementFlowResult

	// RecordedAt is when the score was processed.
	RecordedAt time.Time
}

// RecordPongScoreHandler handles the RecordPongScoreCommand.
type RecordPongScoreHandler struct {
	deps ProgressionDeps
}

// NewRecordPongScoreHandler creates a new RecordPongScoreHandler.
func NewRecordPongScoreHandler(deps ProgressionDeps) *RecordPongScoreHandler {
	return &RecordPongScoreHandler{deps: deps}
}

// Handle executes the score submission.
func (h *RecordPongScoreHandler) Handle(ctx context.Context, cmd RecordPongScoreCommand) (*RecordPongScoreResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	usr, err := h.deps.loadUser(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("record_pong_score: %w", err)
	}

	now := time.Now().UTC()
	if !usr.RecordPongScore(cmd.Score) {
		return &RecordPongScoreResult{
			User:       usr,
			HighScore:  usr.PongHighScore,
			RecordedAt: now,
		}, nil
	}

	metadata := map[string]string{"score": strconv.Itoa(cmd.Score)}

	outcome, err := h.deps.award(ctx, usr, progression.ActionPongHighScore,
		[]achievement.Type{achievement.TypePongChampion}, metadata)
	if err != nil {
		return nil, fmt.Errorf("record_pong_score: %w", err)
	}

	return &RecordPongScoreResult{
		User:         usr,
		NewRecord:    true,
		HighScore:    usr.PongHighScore,
		PointsEarned: outcome.Event.Points,
		Achievements: outcome.Achievements,
		RecordedAt:   outcome.Event.OccurredAt,
	}, nil
}
