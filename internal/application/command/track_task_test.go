package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/achievement"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/progression"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/shared"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

func TestTrackTask_CreatedAndCompleted(t *testing.T) {
	d := newTestDeps()
	ctx := context.Background()
	usr := d.seedUser(ctx, "user-1", "remote_worker")

	handler := NewTrackTaskHandler(d.deps)

	result, err := handler.Handle(ctx, TrackTaskCommand{
		UserID:    usr.ID,
		Action:    progression.ActionTaskCreated,
		TaskTitle: "write weekly report",
	})
	require.NoError(t, err)
	assert.Equal(t, progression.PointsFor(progression.ActionTaskCreated), result.PointsEarned)
	assert.Equal(t, 1, result.User.TasksCreated)
	assert.Equal(t, "write weekly report", d.ledger.lastEvent().Metadata["task_title"])

	result, err = handler.Handle(ctx, TrackTaskCommand{
		UserID: usr.ID,
		Action: progression.ActionTaskCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, progression.PointsFor(progression.ActionTaskCompleted), result.PointsEarned)
	assert.Equal(t, 1, result.User.TasksCompleted)

	completed := d.pub.byType(shared.EventTaskCompleted)
	assert.Len(t, completed, 1)
}

func TestTrackTask_TaskMasterUnlock(t *testing.T) {
	d := newTestDeps()
	ctx := context.Background()
	usr := d.seedUser(ctx, "user-1", "remote_worker")

	handler := NewTrackTaskHandler(d.deps)

	var last *TrackTaskResult
	for i := 0; i < achievement.TaskMasterThreshold; i++ {
		var err error
		last, err = handler.Handle(ctx, TrackTaskCommand{
			UserID: usr.ID,
			Action: progression.ActionTaskCompleted,
		})
		require.NoError(t, err)
	}

	// Десятое завершение открывает Task Master ровно один раз.
	require.NotNil(t, last.Achievements)
	require.Len(t, last.Achievements.Unlocked, 1)
	assert.Equal(t, achievement.TypeTaskMaster, last.Achievements.Unlocked[0].Definition.Type)

	expected := achievement.TaskMasterThreshold*progression.PointsFor(progression.ActionTaskCompleted) + achievement.BonusPoints
	assert.Equal(t, user.Score(expected), last.User.ProductivityScore)

	bonuses, err := d.ledger.CountByAction(ctx, usr.ID, progression.ActionAchievementUnlocked)
	require.NoError(t, err)
	assert.Equal(t, 1, bonuses)
}

func TestTrackTask_ImportIsFlatRate(t *testing.T) {
	d := newTestDeps()
	ctx := context.Background()
	usr := d.seedUser(ctx, "user-1", "remote_worker")

	handler := NewTrackTaskHandler(d.deps)

	result, err := handler.Handle(ctx, TrackTaskCommand{
		UserID: usr.ID,
		Action: progression.ActionTasksImported,
	})
	require.NoError(t, err)

	assert.Equal(t, progression.PointsFor(progression.ActionTasksImported), result.PointsEarned)
	// Импорт не считается завершением задач.
	assert.Zero(t, result.User.TasksCompleted)
}

func TestTrackTask_FirstActionOfDayExtendsStreak(t *testing.T) {
	d := newTestDeps()
	ctx := context.Background()
	usr := d.seedUser(ctx, "user-1", "remote_worker")
	usr.DailyStreak = 3
	usr.TotalSessions = 3
	usr.LastStreakDate = time.Now().UTC().AddDate(0, 0, -1)

	handler := NewTrackTaskHandler(d.deps)

	// Первое действие нового дня продолжает серию без явного логина.
	result, err := handler.Handle(ctx, TrackTaskCommand{
		UserID: usr.ID,
		Action: progression.ActionTaskCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, result.User.DailyStreak)
	assert.Equal(t, 4, result.User.TotalSessions)
	assert.Len(t, d.pub.byType(shared.EventStreakUpdated), 1)

	// Повторное действие в тот же день серию не трогает.
	result, err = handler.Handle(ctx, TrackTaskCommand{
		UserID: usr.ID,
		Action: progression.ActionTaskCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, result.User.DailyStreak)
	assert.Equal(t, 4, result.User.TotalSessions)
	assert.Len(t, d.pub.byType(shared.EventStreakUpdated), 1)
}

func TestTrackTask_SeventhDayUnlocksWeeklyStreak(t *testing.T) {
	d := newTestDeps()
	ctx := context.Background()
	usr := d.seedUser(ctx, "user-1", "remote_worker")
	usr.DailyStreak = 6
	usr.LastStreakDate = time.Now().UTC().AddDate(0, 0, -1)

	handler := NewTrackTaskHandler(d.deps)

	result, err := handler.Handle(ctx, TrackTaskCommand{
		UserID: usr.ID,
		Action: progression.ActionTaskCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, result.User.DailyStreak)

	require.NotNil(t, result.Achievements)
	require.Len(t, result.Achievements.Unlocked, 1)
	assert.Equal(t, achievement.TypeStreakWeek, result.Achievements.Unlocked[0].Definition.Type)
}

func TestTrackTask_UnknownAction(t *testing.T) {
	d := newTestDeps()
	handler := NewTrackTaskHandler(d.deps)

	_, err := handler.Handle(context.Background(), TrackTaskCommand{
		UserID: "user-1",
		Action: progression.Action("task_deleted"),
	})
	assert.ErrorIs(t, err, progression.ErrUnknownAction)
}
