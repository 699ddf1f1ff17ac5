package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser_Defaults(t *testing.T) {
	u, err := NewUser(NewUserParams{
		ID:       "user-1",
		Username: "Remote_Worker",
		Email:    " worker@example.com ",
	})
	require.NoError(t, err)

	assert.Equal(t, Username("remote_worker"), u.Username, "username is normalized to lower case")
	assert.Equal(t, "worker@example.com", u.Email)
	assert.Equal(t, Score(0), u.ProductivityScore)
	assert.Equal(t, 0, u.DailyStreak)
	assert.True(t, u.LastStreakDate.IsZero())
	assert.Equal(t, DefaultSavingsGoal, u.SavingsGoal)
	assert.False(t, u.IsGuest)
}

func TestNewUser_Validation(t *testing.T) {
	_, err := NewUser(NewUserParams{Username: "remote_worker"})
	assert.Error(t, err, "id is required")

	_, err = NewUser(NewUserParams{ID: "user-1", Username: "ab"})
	assert.ErrorIs(t, err, ErrInvalidUsername)

	_, err = NewUser(NewUserParams{ID: "user-1", Username: "has space"})
	assert.ErrorIs(t, err, ErrInvalidUsername)

	_, err = NewUser(NewUserParams{ID: "user-1", Username: "remote_worker", Email: "not-an-email"})
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestNewGuestUser(t *testing.T) {
	u := NewGuestUser("guest-1")

	assert.Equal(t, Username(GuestUsername), u.Username)
	assert.Empty(t, u.PasswordHash)
	assert.True(t, u.IsGuest)
	assert.Equal(t, DefaultSavingsGoal, u.SavingsGoal)
}

func TestApplyScoreDelta(t *testing.T) {
	u := NewGuestUser("guest-1")

	require.NoError(t, u.ApplyScoreDelta(20))
	require.NoError(t, u.ApplyScoreDelta(50))
	assert.Equal(t, Score(70), u.ProductivityScore)

	// Счёт не может уйти в минус.
	err := u.ApplyScoreDelta(-100)
	assert.ErrorIs(t, err, ErrInvalidScore)
	assert.Equal(t, Score(70), u.ProductivityScore)
}

func TestCalculateLevel(t *testing.T) {
	assert.Equal(t, ProductivityLevel(1), CalculateLevel(0))
	assert.Equal(t, ProductivityLevel(1), CalculateLevel(99))
	assert.Equal(t, ProductivityLevel(2), CalculateLevel(100))
	assert.Equal(t, ProductivityLevel(5), CalculateLevel(450))
}

func TestRecordPongScore_HighWaterMark(t *testing.T) {
	u := NewGuestUser("guest-1")

	assert.True(t, u.RecordPongScore(120))
	assert.Equal(t, 120, u.PongHighScore)

	// Меньший или равный счёт рекорд не обновляет.
	assert.False(t, u.RecordPongScore(80))
	assert.False(t, u.RecordPongScore(120))
	assert.Equal(t, 120, u.PongHighScore)

	assert.True(t, u.RecordPongScore(121))
	assert.Equal(t, 121, u.PongHighScore)
}

func TestSavings(t *testing.T) {
	u := NewGuestUser("guest-1")

	require.NoError(t, u.SetSavingsGoal(4000))
	require.NoError(t, u.UpdateSavings(1000))
	assert.InDelta(t, 25.0, u.SavingsPercent(), 0.001)

	assert.ErrorIs(t, u.UpdateSavings(-1), ErrInvalidSavings)
	assert.ErrorIs(t, u.SetSavingsGoal(0), ErrInvalidSavings)
}

func TestMarkRelocationViewed_FirstViewOnly(t *testing.T) {
	u := NewGuestUser("guest-1")

	assert.True(t, u.MarkRelocationViewed())
	assert.False(t, u.MarkRelocationViewed())
	assert.True(t, u.RelocationViewed)
}

func TestClone(t *testing.T) {
	u := NewGuestUser("guest-1")
	u.TasksCompleted = 3

	clone := u.Clone()
	clone.TasksCompleted = 10

	assert.Equal(t, 3, u.TasksCompleted)

	var nilUser *User
	assert.Nil(t, nilUser.Clone())
}
