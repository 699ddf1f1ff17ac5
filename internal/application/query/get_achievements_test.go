package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/achievement"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

func TestGetAchievements_JoinsCatalogWithState(t *testing.T) {
	unlockedAt := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	repo := &stubAchievementRepo{
		records: []*achievement.UserAchievement{
			{UserID: "user-1", Type: achievement.TypeTaskMaster, Unlocked: true, UnlockedAt: unlockedAt},
		},
	}

	handler := NewGetAchievementsHandler(repo)

	result, err := handler.Handle(context.Background(), GetAchievementsQuery{UserID: "user-1"})
	require.NoError(t, err)

	// Выдача всегда содержит весь каталог в его порядке.
	catalog := achievement.Catalog()
	require.Len(t, result.Achievements, len(catalog))
	assert.Equal(t, len(catalog), result.TotalCount)
	assert.Equal(t, 1, result.UnlockedCount)

	for i, dto := range result.Achievements {
		assert.Equal(t, catalog[i].Type.String(), dto.Type)

		if dto.Type == achievement.TypeTaskMaster.String() {
			assert.True(t, dto.Unlocked)
			require.NotNil(t, dto.UnlockedAt)
			assert.Equal(t, unlockedAt, *dto.UnlockedAt)
		} else {
			assert.False(t, dto.Unlocked)
			assert.Nil(t, dto.UnlockedAt)
		}
	}
}

func TestGetAchievements_MissingRecordsMeanLocked(t *testing.T) {
	// Репозиторий пуст: у пользователя ещё нет ни одной записи.
	handler := NewGetAchievementsHandler(&stubAchievementRepo{})

	result, err := handler.Handle(context.Background(), GetAchievementsQuery{UserID: "user-1"})
	require.NoError(t, err)

	assert.Len(t, result.Achievements, len(achievement.Catalog()))
	assert.Zero(t, result.UnlockedCount)
}

func TestGetAchievements_OnlyUnlocked(t *testing.T) {
	repo := &stubAchievementRepo{
		records: []*achievement.UserAchievement{
			{UserID: "user-1", Type: achievement.TypeFirstJobApply, Unlocked: true, UnlockedAt: time.Now().UTC()},
			{UserID: "user-1", Type: achievement.TypeTaskMaster, Unlocked: false},
		},
	}

	handler := NewGetAchievementsHandler(repo)

	result, err := handler.Handle(context.Background(), GetAchievementsQuery{UserID: "user-1", OnlyUnlocked: true})
	require.NoError(t, err)

	require.Len(t, result.Achievements, 1)
	assert.Equal(t, achievement.TypeFirstJobApply.String(), result.Achievements[0].Type)
	assert.Equal(t, 1, result.UnlockedCount)
	assert.Equal(t, len(achievement.Catalog()), result.TotalCount)
}

func TestGetAchievements_RequiresUserID(t *testing.T) {
	handler := NewGetAchievementsHandler(&stubAchievementRepo{})

	_, err := handler.Handle(context.Background(), GetAchievementsQuery{})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
