package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/credential"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/shared"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

func TestRegisterUser_Success(t *testing.T) {
	d := newTestDeps()
	sessions := newMemSessionManager()
	handler := NewRegisterUserHandler(d.userRepo, d.achRepo, credential.NewHasher(), sessions, d.pub)

	result, err := handler.Handle(context.Background(), RegisterUserCommand{
		Username: "Remote_Worker",
		Password: "hunter22",
		Email:    "worker@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, user.Username("remote_worker"), result.User.Username)
	assert.NotEqual(t, "hunter22", result.User.PasswordHash)

	// Регистрация - первый активный день.
	assert.Equal(t, 1, result.User.DailyStreak)
	assert.Equal(t, 1, result.User.TotalSessions)

	// Набор достижений засеян, сессия активна.
	assert.Equal(t, []string{result.User.ID}, d.achRepo.seeded)
	require.NotNil(t, result.Session)
	assert.True(t, result.Session.IsActive())

	assert.Len(t, d.pub.byType(shared.EventUserRegistered), 1)
	assert.Len(t, d.pub.byType(shared.EventSessionStarted), 1)
}

func TestRegisterUser_DuplicateUsername(t *testing.T) {
	d := newTestDeps()
	sessions := newMemSessionManager()
	handler := NewRegisterUserHandler(d.userRepo, d.achRepo, credential.NewHasher(), sessions, d.pub)

	_, err := handler.Handle(context.Background(), RegisterUserCommand{
		Username: "remote_worker",
		Password: "hunter22",
	})
	require.NoError(t, err)

	// Регистр не спасает от коллизии имён.
	_, err = handler.Handle(context.Background(), RegisterUserCommand{
		Username: "REMOTE_WORKER",
		Password: "different9",
	})
	assert.ErrorIs(t, err, user.ErrUserAlreadyExists)
}

func TestRegisterUser_RacingInsert(t *testing.T) {
	d := newTestDeps()
	sessions := newMemSessionManager()
	handler := NewRegisterUserHandler(d.userRepo, d.achRepo, credential.NewHasher(), sessions, d.pub)

	// Проверка существования прошла, но вставку выиграл конкурент.
	d.userRepo.createErr = user.ErrUserAlreadyExists

	_, err := handler.Handle(context.Background(), RegisterUserCommand{
		Username: "remote_worker",
		Password: "hunter22",
	})
	assert.ErrorIs(t, err, user.ErrUserAlreadyExists)
}

func TestRegisterUser_Validation(t *testing.T) {
	d := newTestDeps()
	handler := NewRegisterUserHandler(d.userRepo, d.achRepo, credential.NewHasher(), newMemSessionManager(), d.pub)

	_, err := handler.Handle(context.Background(), RegisterUserCommand{Username: "ab", Password: "hunter22"})
	assert.ErrorIs(t, err, user.ErrInvalidUsername)

	_, err = handler.Handle(context.Background(), RegisterUserCommand{Username: "valid_name", Password: "short"})
	assert.ErrorIs(t, err, user.ErrInvalidPassword)
}
