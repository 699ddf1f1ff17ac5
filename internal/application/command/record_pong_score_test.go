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

func TestRecordPongScore_NewRecord(t *testing.T) {
	d := newTestDeps()
	ctx := context.Background()
	usr := d.seedUser(ctx, "user-1", "remote_worker")

	handler := NewRecordPongScoreHandler(d.deps)

	result, err := handler.Handle(ctx, RecordPongScoreCommand{UserID: usr.ID, Score: 42})
	require.NoError(t, err)

	assert.True(t, result.NewRecord)
	assert.Equal(t, 42, result.HighScore)
	assert.Equal(t, progression.PointsFor(progression.ActionPongHighScore), result.PointsEarned)

	event := d.ledger.lastEvent()
	require.NotNil(t, event)
	assert.Equal(t, progression.ActionPongHighScore, event.Action)
	assert.Equal(t, "42", event.Metadata["score"])
}

func TestRecordPongScore_BelowRecordIsSilent(t *testing.T) {
	d := newTestDeps()
	ctx := context.Background()
	usr := d.seedUser(ctx, "user-1", "remote_worker")

	handler := NewRecordPongScoreHandler(d.deps)

	_, err := handler.Handle(ctx, RecordPongScoreCommand{UserID: usr.ID, Score: 42})
	require.NoError(t, err)
	appended := len(d.ledger.events)

	// Неулучшенный результат: рекорд стоит, очки не начисляются.
	result, err := handler.Handle(ctx, RecordPongScoreCommand{UserID: usr.ID, Score: 42})
	require.NoError(t, err)

	assert.False(t, result.NewRecord)
	assert.Equal(t, 42, result.HighScore)
	assert.Zero(t, result.PointsEarned)
	assert.Nil(t, result.Achievements)
	assert.Len(t, d.ledger.events, appended)
}

func TestRecordPongScore_ChampionThreshold(t *testing.T) {
	d := newTestDeps()
	ctx := context.Background()
	usr := d.seedUser(ctx, "user-1", "remote_worker")

	handler := NewRecordPongScoreHandler(d.deps)

	result, err := handler.Handle(ctx, RecordPongScoreCommand{
		UserID: usr.ID,
		Score:  achievement.PongChampionThreshold,
	})
	require.NoError(t, err)

	require.NotNil(t, result.Achievements)
	require.Len(t, result.Achievements.Unlocked, 1)
	assert.Equal(t, achievement.TypePongChampion, result.Achievements.Unlocked[0].Definition.Type)

	expected := progression.PointsFor(progression.ActionPongHighScore) + achievement.BonusPoints
	assert.Equal(t, user.Score(expected), result.User.ProductivityScore)
}

func TestRecordPongScore_Validation(t *testing.T) {
	d := newTestDeps()
	handler := NewRecordPongScoreHandler(d.deps)

	_, err := handler.Handle(context.Background(), RecordPongScoreCommand{UserID: "", Score: 10})
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	_, err = handler.Handle(context.Background(), RecordPongScoreCommand{UserID: "user-1", Score: -1})
	assert.ErrorIs(t, err, user.ErrInvalidScore)
}
