package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(t *testing.T) *User {
	t.Helper()

	u, err := NewUser(NewUserParams{
		ID:       "user-1",
		Username: "remote_worker",
	})
	require.NoError(t, err)
	return u
}

func TestTouchStreak_FirstActivity(t *testing.T) {
	u := newTestUser(t)
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	tr := u.TouchStreak(now)

	assert.True(t, tr.Fired)
	assert.True(t, tr.Reset)
	assert.False(t, tr.Extended)
	assert.Equal(t, 1, tr.Streak)
	assert.Equal(t, 1, u.DailyStreak)
	assert.Equal(t, 1, u.TotalSessions)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), u.LastStreakDate)
}

func TestTouchStreak_SameDayIsNoop(t *testing.T) {
	u := newTestUser(t)
	morning := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)

	u.TouchStreak(morning)
	tr := u.TouchStreak(evening)

	assert.False(t, tr.Fired)
	assert.Equal(t, 1, tr.Streak)
	assert.Equal(t, 1, u.DailyStreak)
	assert.Equal(t, 1, u.TotalSessions)
}

func TestTouchStreak_NextDayExtends(t *testing.T) {
	u := newTestUser(t)
	day1 := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 11, 1, 0, 0, 0, time.UTC)

	u.TouchStreak(day1)
	tr := u.TouchStreak(day2)

	assert.True(t, tr.Fired)
	assert.True(t, tr.Extended)
	assert.False(t, tr.Reset)
	assert.Equal(t, 1, tr.PreviousStreak)
	assert.Equal(t, 2, tr.Streak)
	assert.Equal(t, 2, u.TotalSessions)
}

func TestTouchStreak_GapResets(t *testing.T) {
	u := newTestUser(t)
	day1 := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	day5 := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	u.TouchStreak(day1)
	u.TouchStreak(day2)
	tr := u.TouchStreak(day5)

	assert.True(t, tr.Fired)
	assert.True(t, tr.Reset)
	assert.Equal(t, 2, tr.PreviousStreak)
	assert.Equal(t, 1, tr.Streak)
	assert.Equal(t, 2, tr.DaysMissed)
	assert.Equal(t, 1, u.DailyStreak)
	assert.Equal(t, 3, u.TotalSessions)
}

func TestTouchStreak_SevenDayRun(t *testing.T) {
	u := newTestUser(t)
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for day := 0; day < 7; day++ {
		u.TouchStreak(start.AddDate(0, 0, day))
	}

	assert.Equal(t, 7, u.DailyStreak)
	assert.Equal(t, 7, u.TotalSessions)
}

func TestTouchStreak_FutureDateResets(t *testing.T) {
	u := newTestUser(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// LastStreakDate завтра относительно now (сдвиг часов): это сброс,
	// а не продолжение "со вчера".
	u.DailyStreak = 5
	u.TotalSessions = 5
	u.LastStreakDate = time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	tr := u.TouchStreak(now)

	assert.True(t, tr.Fired)
	assert.True(t, tr.Reset)
	assert.False(t, tr.Extended)
	assert.Equal(t, 1, u.DailyStreak)
	assert.Equal(t, 0, tr.DaysMissed)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), u.LastStreakDate)
}

func TestStreakAtRisk(t *testing.T) {
	u := newTestUser(t)
	day1 := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// Без активности серия ничем не рискует.
	assert.False(t, u.StreakAtRisk(day1))

	u.TouchStreak(day1)
	assert.False(t, u.StreakAtRisk(day1))
	assert.True(t, u.StreakAtRisk(day1.AddDate(0, 0, 1)))

	// Дата серии из будущего не считается "вчерашней".
	assert.False(t, u.StreakAtRisk(day1.AddDate(0, 0, -1)))
}
