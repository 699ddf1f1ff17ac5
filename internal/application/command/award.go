package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Darkprophet2323/thriveremote-hub/internal/application/saga"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/achievement"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/progression"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/shared"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// SHARED AWARD FLOW
// Every scoring command runs the same sequence:
//   1. fire the daily streak touchpoint (idempotent within a UTC day);
//   2. append a ledger event (atomically increments the stored score);
//   3. mirror the delta on the in-memory user;
//   4. run the achievement flow over the candidate types;
//   5. persist the user;
//   6. publish the points and streak events.
// Any scoring action counts as daily activity, so a long-lived session
// or the guest account keeps its streak without ever logging in.
// The ledger append is the source of truth for the score, so the user
// update that follows never writes the score column itself.
// ══════════════════════════════════════════════════════════════════════════════

// ProgressionDeps bundles the dependencies every scoring handler needs.
type ProgressionDeps struct {
	UserRepo        user.Repository
	Ledger          progression.Ledger
	AchievementFlow *saga.AchievementFlowSaga
	EventPublisher  shared.EventPublisher
}

// awardOutcome describes what a single award pass produced.
type awardOutcome struct {
	// Event is the appended ledger event.
	Event *progression.Event

	// Achievements is the achievement flow result, nil when no candidate
	// types were supplied.
	Achievements *saga.AchievementFlowResult

	// Streak is the streak transition applied by this award.
	Streak user.StreakTransition
}

// award fires the streak touchpoint, appends a ledger event for action,
// runs the achievement flow over candidates, persists usr and publishes
// the points and streak events. The metadata map is copied onto the
// ledger event verbatim.
func (d ProgressionDeps) award(
	ctx context.Context,
	usr *user.User,
	action progression.Action,
	candidates []achievement.Type,
	metadata map[string]string,
) (*awardOutcome, error) {
	streak := usr.TouchStreak(time.Now().UTC())
	if streak.Fired {
		candidates = append(candidates, achievement.TypeStreakWeek)
	}

	event, err := progression.NewEvent(uuid.NewString(), usr.ID, action)
	if err != nil {
		return nil, fmt.Errorf("award %s: %w", action, err)
	}
	for k, v := range metadata {
		event.WithMetadata(k, v)
	}

	if err := d.Ledger.Append(ctx, event); err != nil {
		return nil, fmt.Errorf("award %s: append ledger: %w", action, err)
	}
	if err := usr.ApplyScoreDelta(event.Points); err != nil {
		return nil, fmt.Errorf("award %s: %w", action, err)
	}

	outcome := &awardOutcome{Event: event, Streak: streak}

	if len(candidates) > 0 && d.AchievementFlow != nil {
		flowResult, err := d.AchievementFlow.Execute(ctx, saga.AchievementCheckInput{
			User:          usr,
			Candidates:    candidates,
			TriggerAction: action,
		})
		if err != nil {
			return nil, fmt.Errorf("award %s: achievement flow: %w", action, err)
		}
		outcome.Achievements = flowResult
	}

	if err := d.UserRepo.Update(ctx, usr); err != nil {
		return nil, fmt.Errorf("award %s: update user: %w", action, err)
	}

	if d.EventPublisher != nil {
		if event.Points != 0 {
			_ = d.EventPublisher.Publish(shared.NewPointsAwardedEvent(
				usr.ID,
				string(action),
				event.Points,
				int(usr.ProductivityScore),
			))
		}
		if streak.Fired {
			if streak.Reset && streak.PreviousStreak > 1 {
				_ = d.EventPublisher.Publish(shared.NewStreakBrokenEvent(usr.ID, streak.PreviousStreak, streak.DaysMissed))
			}
			_ = d.EventPublisher.Publish(shared.NewStreakUpdatedEvent(usr.ID, usr.DailyStreak, usr.TotalSessions, streak.Extended))
		}
	}

	return outcome, nil
}

// loadUser fetches the user for a scoring command.
func (d ProgressionDeps) loadUser(ctx context.Context, userID string) (*user.User, error) {
	if userID == "" {
		return nil, user.ErrUserNotFound
	}
	return d.UserRepo.GetByID(ctx, userID)
}
