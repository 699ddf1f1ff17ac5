package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/achievement"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/progression"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

func TestUpdateSavings_AwardsBasePoints(t *testing.T) {
	d := newTestDeps()
	ctx := context.Background()
	usr := d.seedUser(ctx, "user-1", "remote_worker")

	handler := NewUpdateSavingsHandler(d.deps)

	result, err := handler.Handle(ctx, UpdateSavingsCommand{
		UserID: usr.ID,
		Amount: 100,
		Goal:   10000,
	})
	require.NoError(t, err)

	assert.Equal(t, progression.PointsFor(progression.ActionSavingsUpdate), result.PointsEarned)
	assert.InDelta(t, 1.0, result.SavingsPercent, 0.001)
	assert.False(t, result.Achievements.HasNewAchievements())

	event := d.ledger.lastEvent()
	require.NotNil(t, event)
	assert.Equal(t, progression.ActionSavingsUpdate, event.Action)
	assert.Equal(t, "100.00", event.Metadata["amount"])
}

func TestUpdateSavings_CrossingBothMilestonesUnlocksBoth(t *testing.T) {
	d := newTestDeps()
	ctx := context.Background()
	usr := d.seedUser(ctx, "user-1", "remote_worker")

	handler := NewUpdateSavingsHandler(d.deps)

	// Один крупный вклад пересекает 25% и 50% одновременно.
	result, err := handler.Handle(ctx, UpdateSavingsCommand{
		UserID: usr.ID,
		Amount: 600,
		Goal:   1000,
	})
	require.NoError(t, err)

	require.NotNil(t, result.Achievements)
	assert.Len(t, result.Achievements.Unlocked, 2)
	assert.Equal(t, 2*achievement.BonusPoints, result.Achievements.TotalBonus)

	// База + два бонуса.
	expected := progression.PointsFor(progression.ActionSavingsUpdate) + 2*achievement.BonusPoints
	assert.Equal(t, user.Score(expected), result.User.ProductivityScore)
	assert.Equal(t, 2, result.User.AchievementsUnlocked)

	// Повторное обновление бонусы не дублирует.
	result, err = handler.Handle(ctx, UpdateSavingsCommand{UserID: usr.ID, Amount: 700})
	require.NoError(t, err)
	assert.False(t, result.Achievements.HasNewAchievements())
}

func TestUpdateSavings_Validation(t *testing.T) {
	d := newTestDeps()
	handler := NewUpdateSavingsHandler(d.deps)

	_, err := handler.Handle(context.Background(), UpdateSavingsCommand{UserID: "", Amount: 10})
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	_, err = handler.Handle(context.Background(), UpdateSavingsCommand{UserID: "user-1", Amount: -5})
	assert.ErrorIs(t, err, user.ErrInvalidSavings)

	_, err = handler.Handle(context.Background(), UpdateSavingsCommand{UserID: "missing", Amount: 10})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
