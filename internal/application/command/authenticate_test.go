package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/credential"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

func registerTestUser(t *testing.T, d *testDeps, sessions *memSessionManager, hasher *credential.Hasher) *user.User {
	t.Helper()

	register := NewRegisterUserHandler(d.userRepo, d.achRepo, hasher, sessions, d.pub)
	result, err := register.Handle(context.Background(), RegisterUserCommand{
		Username: "Remote_Worker",
		Password: "hunter22",
	})
	require.NoError(t, err)
	return result.User
}

func TestAuthenticate_Success(t *testing.T) {
	d := newTestDeps()
	sessions := newMemSessionManager()
	hasher := credential.NewHasher()
	registerTestUser(t, d, sessions, hasher)

	handler := NewAuthenticateHandler(d.userRepo, hasher, sessions, d.pub)

	// Имя нормализуется к нижнему регистру при поиске.
	result, err := handler.Handle(context.Background(), AuthenticateCommand{
		Username: "REMOTE_WORKER",
		Password: "hunter22",
	})
	require.NoError(t, err)

	assert.Equal(t, user.Username("remote_worker"), result.User.Username)
	require.NotNil(t, result.Session)
	assert.True(t, result.Session.IsActive())

	// Сессия разрешается по выданному токену.
	sess, err := sessions.Resolve(context.Background(), result.Session.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, sess.UserID)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	d := newTestDeps()
	sessions := newMemSessionManager()
	hasher := credential.NewHasher()
	registerTestUser(t, d, sessions, hasher)

	handler := NewAuthenticateHandler(d.userRepo, hasher, sessions, d.pub)

	_, err := handler.Handle(context.Background(), AuthenticateCommand{
		Username: "remote_worker",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, credential.ErrInvalidCredential)
}

func TestAuthenticate_UnknownUserSameError(t *testing.T) {
	d := newTestDeps()
	handler := NewAuthenticateHandler(d.userRepo, credential.NewHasher(), newMemSessionManager(), d.pub)

	// Несуществующий аккаунт неотличим от неверного пароля.
	_, err := handler.Handle(context.Background(), AuthenticateCommand{
		Username: "nobody_here",
		Password: "whatever1",
	})
	assert.ErrorIs(t, err, credential.ErrInvalidCredential)
}

func TestAuthenticate_EmptyCredentials(t *testing.T) {
	d := newTestDeps()
	handler := NewAuthenticateHandler(d.userRepo, credential.NewHasher(), newMemSessionManager(), d.pub)

	_, err := handler.Handle(context.Background(), AuthenticateCommand{Username: "", Password: "x"})
	assert.ErrorIs(t, err, credential.ErrInvalidCredential)

	_, err = handler.Handle(context.Background(), AuthenticateCommand{Username: "x", Password: ""})
	assert.ErrorIs(t, err, credential.ErrInvalidCredential)
}

func TestAuthenticate_TouchesStreak(t *testing.T) {
	d := newTestDeps()
	sessions := newMemSessionManager()
	hasher := credential.NewHasher()
	registerTestUser(t, d, sessions, hasher)

	handler := NewAuthenticateHandler(d.userRepo, hasher, sessions, d.pub)

	// Регистрация уже засчитала сегодняшний день: логин в тот же день
	// серию не меняет.
	result, err := handler.Handle(context.Background(), AuthenticateCommand{
		Username: "remote_worker",
		Password: "hunter22",
	})
	require.NoError(t, err)

	assert.False(t, result.Streak.Fired)
	assert.Equal(t, 1, result.User.DailyStreak)
}
