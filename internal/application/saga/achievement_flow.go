// Package saga contains complex business processes that orchestrate
// multiple domain operations in a coordinated manner.
package saga

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/achievement"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/progression"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/shared"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACHIEVEMENT FLOW SAGA
// Complex business process: achievement unlocking with score bonus.
// Flow: Check Thresholds → CAS Unlock → Award Bonus → Update Counter →
//
//	Publish Events
//
// The unlock is a conditional update in storage; under concurrent checks
// exactly one caller wins the transition and only the winner appends the
// bonus ledger entry. Losing the race is a normal outcome, not an error.
// ══════════════════════════════════════════════════════════════════════════════

// AchievementCheckInput contains data needed to evaluate achievements.
type AchievementCheckInput struct {
	// User - the user to evaluate, with counters already mutated by the
	// triggering command.
	User *user.User

	// Candidates - achievement types worth re-checking after the trigger.
	// Empty means evaluate the whole catalog.
	Candidates []achievement.Type

	// TriggerAction - the ledger action that triggered this check.
	TriggerAction progression.Action
}

// Validate checks if the input is valid.
func (i AchievementCheckInput) Validate() error {
	if i.User == nil {
		return errors.New("achievement_flow: user is required")
	}
	for _, t := range i.Candidates {
		if !t.IsValid() {
			return fmt.Errorf("achievement_flow: unknown achievement type %q", t)
		}
	}
	return nil
}

// UnlockedAchievement describes one achievement unlocked by this run.
type UnlockedAchievement struct {
	Definition  achievement.Definition
	BonusPoints int
	UnlockedAt  time.Time
}

// AchievementFlowResult contains the result of achievement processing.
type AchievementFlowResult struct {
	// UserID - the user who was evaluated.
	UserID string

	// Unlocked - achievements unlocked by this run only. Achievements
	// already unlocked earlier (or lost to a concurrent run) are absent.
	Unlocked []UnlockedAchievement

	// TotalBonus - score bonus awarded by this run.
	TotalBonus int

	// ProcessedAt - when the flow completed.
	ProcessedAt time.Time
}

// HasNewAchievements returns true if any achievements were unlocked.
func (r *AchievementFlowResult) HasNewAchievements() bool {
	return len(r.Unlocked) > 0
}

// AchievementFlowStep represents a step in the achievement flow.
type AchievementFlowStep string

const (
	StepCheckThresholds     AchievementFlowStep = "check_thresholds"
	StepUnlockAchievements  AchievementFlowStep = "unlock_achievements"
	StepAwardBonus          AchievementFlowStep = "award_bonus"
	StepUpdateCounter       AchievementFlowStep = "update_counter"
	StepPublishAchievEvents AchievementFlowStep = "publish_events"
	StepAchievementComplete AchievementFlowStep = "complete"
)

// AchievementFlowState tracks the current state of the achievement flow saga.
type AchievementFlowState struct {
	CurrentStep AchievementFlowStep
	Input       AchievementCheckInput
	Eligible    []achievement.Definition
	Unlocked    []UnlockedAchievement
	TotalBonus  int
	StartedAt   time.Time
	CompletedAt *time.Time
	Error       error
	FailedStep  AchievementFlowStep
}

// ══════════════════════════════════════════════════════════════════════════════
// SAGA
// ══════════════════════════════════════════════════════════════════════════════

// AchievementFlowSaga orchestrates achievement unlocking.
type AchievementFlowSaga struct {
	achievementRepo achievement.Repository
	ledger          progression.Ledger
	eventPublisher  shared.EventPublisher
	config          AchievementFlowConfig
}

// AchievementFlowConfig contains configuration for the saga.
type AchievementFlowConfig struct {
	// AwardBonus enables the score bonus for unlocked achievements.
	AwardBonus bool

	// PublishEvents enables domain event publishing.
	PublishEvents bool
}

// DefaultAchievementFlowConfig returns sensible defaults.
func DefaultAchievementFlowConfig() AchievementFlowConfig {
	return AchievementFlowConfig{
		AwardBonus:    true,
		PublishEvents: true,
	}
}

// NewAchievementFlowSaga creates a new AchievementFlowSaga.
func NewAchievementFlowSaga(
	achievementRepo achievement.Repository,
	ledger progression.Ledger,
	eventPublisher shared.EventPublisher,
	config AchievementFlowConfig,
) *AchievementFlowSaga {
	return &AchievementFlowSaga{
		achievementRepo: achievementRepo,
		ledger:          ledger,
		eventPublisher:  eventPublisher,
		config:          config,
	}
}

// Execute runs the achievement flow for the given input.
// The input user's in-memory score and achievement counter are advanced
// for every unlock won, so callers can persist and report fresh totals.
func (s *AchievementFlowSaga) Execute(ctx context.Context, input AchievementCheckInput) (*AchievementFlowResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	state := &AchievementFlowState{
		CurrentStep: StepCheckThresholds,
		Input:       input,
		StartedAt:   time.Now().UTC(),
	}

	steps := []struct {
		step AchievementFlowStep
		fn   func(context.Context, *AchievementFlowState) error
	}{
		{StepCheckThresholds, s.stepCheckThresholds},
		{StepUnlockAchievements, s.stepUnlockAchievements},
		{StepAwardBonus, s.stepAwardBonus},
		{StepUpdateCounter, s.stepUpdateCounter},
		{StepPublishAchievEvents, s.stepPublishEvents},
	}

	for _, st := range steps {
		state.CurrentStep = st.step
		if err := st.fn(ctx, state); err != nil {
			state.Error = err
			state.FailedStep = st.step
			return nil, s.wrapError(state, err)
		}
	}

	now := time.Now().UTC()
	state.CurrentStep = StepAchievementComplete
	state.CompletedAt = &now

	return &AchievementFlowResult{
		UserID:      input.User.ID,
		Unlocked:    state.Unlocked,
		TotalBonus:  state.TotalBonus,
		ProcessedAt: now,
	}, nil
}

// stepCheckThresholds finds candidates whose thresholds the user now meets.
func (s *AchievementFlowSaga) stepCheckThresholds(_ context.Context, state *AchievementFlowState) error {
	candidates := state.Input.Candidates
	if len(candidates) == 0 {
		for _, def := range achievement.Catalog() {
			candidates = append(candidates, def.Type)
		}
	}

	for _, t := range candidates {
		def, ok := achievement.GetDefinition(t)
		if !ok {
			continue
		}
		if thresholdMet(state.Input.User, t) {
			state.Eligible = append(state.Eligible, def)
		}
	}

	return nil
}

// stepUnlockAchievements attempts the locked -> unlocked transition for
// every eligible achievement. TryUnlock returning false means another run
// already unlocked it; that one is silently skipped.
func (s *AchievementFlowSaga) stepUnlockAchievements(ctx context.Context, state *AchievementFlowState) error {
	for _, def := range state.Eligible {
		won, err := s.achievementRepo.TryUnlock(ctx, state.Input.User.ID, def.Type)
		if err != nil {
			return fmt.Errorf("unlock %s: %w", def.Type, err)
		}
		if !won {
			continue
		}

		state.Unlocked = append(state.Unlocked, UnlockedAchievement{
			Definition:  def,
			BonusPoints: achievement.BonusPoints,
			UnlockedAt:  time.Now().UTC(),
		})
	}

	return nil
}

// stepAwardBonus appends one bonus ledger entry per won unlock.
// Only the CAS winner reaches this step for a given achievement, so the
// bonus is awarded exactly once per achievement per user.
func (s *AchievementFlowSaga) stepAwardBonus(ctx context.Context, state *AchievementFlowState) error {
	if !s.config.AwardBonus {
		return nil
	}

	for i := range state.Unlocked {
		unlocked := &state.Unlocked[i]

		event, err := progression.NewEvent(uuid.NewString(), state.Input.User.ID, progression.ActionAchievementUnlocked)
		if err != nil {
			return fmt.Errorf("bonus event: %w", err)
		}
		event.WithMetadata("achievement", unlocked.Definition.Type.String())
		if state.Input.TriggerAction != "" {
			event.WithMetadata("trigger", state.Input.TriggerAction.String())
		}

		if err := s.ledger.Append(ctx, event); err != nil {
			return fmt.Errorf("append bonus for %s: %w", unlocked.Definition.Type, err)
		}

		state.TotalBonus += event.Points
		if err := state.Input.User.ApplyScoreDelta(event.Points); err != nil {
			return err
		}
	}

	return nil
}

// stepUpdateCounter advances the user's in-memory unlock counter.
// The caller persists the user afterwards.
func (s *AchievementFlowSaga) stepUpdateCounter(_ context.Context, state *AchievementFlowState) error {
	for range state.Unlocked {
		state.Input.User.CountUnlockedAchievement()
	}
	return nil
}

// stepPublishEvents publishes one domain event per unlock.
func (s *AchievementFlowSaga) stepPublishEvents(_ context.Context, state *AchievementFlowState) error {
	if !s.config.PublishEvents || s.eventPublisher == nil {
		return nil
	}

	for _, unlocked := range state.Unlocked {
		event := shared.NewAchievementUnlockedEvent(
			state.Input.User.ID,
			unlocked.Definition.Type.String(),
			unlocked.Definition.Title,
			unlocked.Definition.Icon,
			unlocked.BonusPoints,
		)
		if err := s.eventPublisher.Publish(event); err != nil {
			// Publication is best effort; the unlock itself is durable.
			continue
		}
	}

	return nil
}

// thresholdMet reports whether the user's counters satisfy the
// achievement's unlock condition.
func thresholdMet(u *user.User, t achievement.Type) bool {
	switch t {
	case achievement.TypeFirstJobApply:
		return u.ApplicationsSubmitted >= 1
	case achievement.TypeSavingsMilestone25:
		return u.SavingsPercent() >= achievement.SavingsMilestone25Percent
	case achievement.TypeSavingsMilestone50:
		return u.SavingsPercent() >= achievement.SavingsMilestone50Percent
	case achievement.TypeTaskMaster:
		return u.TasksCompleted >= achievement.TaskMasterThreshold
	case achievement.TypeTerminalNinja:
		return u.CommandsExecuted >= achievement.TerminalNinjaThreshold
	case achievement.TypePongChampion:
		return u.PongHighScore >= achievement.PongChampionThreshold
	case achievement.TypeEasterHunter:
		return u.EasterEggsFound >= achievement.EasterHunterThreshold
	case achievement.TypeStreakWeek:
		return u.DailyStreak >= achievement.StreakWeekThreshold
	case achievement.TypeRelocationExplorer:
		return u.RelocationViewed
	default:
		return false
	}
}

// wrapError wraps a step error with flow context.
func (s *AchievementFlowSaga) wrapError(state *AchievementFlowState, err error) error {
	return &AchievementFlowError{
		Step:   state.FailedStep,
		UserID: state.Input.User.ID,
		Err:    err,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// AchievementFlowError describes a failure inside the achievement flow.
type AchievementFlowError struct {
	Step   AchievementFlowStep
	UserID string
	Err    error
}

func (e *AchievementFlowError) Error() string {
	return fmt.Sprintf("achievement flow failed at %s for user %s: %v", e.Step, e.UserID, e.Err)
}

// Unwrap returns the underlying error.
func (e *AchievementFlowError) Unwrap() error {
	return e.Err
}

// ══════════════════════════════════════════════════════════════════════════════
// BUILDER
// ══════════════════════════════════════════════════════════════════════════════

// AchievementFlowSagaBuilder provides fluent construction of the saga.
type AchievementFlowSagaBuilder struct {
	achievementRepo achievement.Repository
	ledger          progression.Ledger
	eventPublisher  shared.EventPublisher
	config          AchievementFlowConfig
}

// NewAchievementFlowSagaBuilder creates a new builder.
func NewAchievementFlowSagaBuilder() *AchievementFlowSagaBuilder {
	return &AchievementFlowSagaBuilder{
		config: DefaultAchievementFlowConfig(),
	}
}

// WithAchievementRepo sets the achievement repository.
func (b *AchievementFlowSagaBuilder) WithAchievementRepo(repo achievement.Repository) *AchievementFlowSagaBuilder {
	b.achievementRepo = repo
	return b
}

// WithLedger sets the progression ledger.
func (b *AchievementFlowSagaBuilder) WithLedger(ledger progression.Ledger) *AchievementFlowSagaBuilder {
	b.ledger = ledger
	return b
}

// WithEventPublisher sets the event publisher.
func (b *AchievementFlowSagaBuilder) WithEventPublisher(pub shared.EventPublisher) *AchievementFlowSagaBuilder {
	b.eventPublisher = pub
	return b
}

// WithConfig sets the configuration.
func (b *AchievementFlowSagaBuilder) WithConfig(config AchievementFlowConfig) *AchievementFlowSagaBuilder {
	b.config = config
	return b
}

// Build creates the saga.
func (b *AchievementFlowSagaBuilder) Build() (*AchievementFlowSaga, error) {
	if b.achievementRepo == nil {
		return nil, errors.New("achievement_flow: achievement repository is required")
	}
	if b.ledger == nil {
		return nil, errors.New("achievement_flow: ledger is required")
	}

	return NewAchievementFlowSaga(b.achievementRepo, b.ledger, b.eventPublisher, b.config), nil
}
