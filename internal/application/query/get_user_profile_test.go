package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

func newProfileUser(t *testing.T) *user.User {
	t.Helper()

	usr, err := user.NewUser(user.NewUserParams{
		ID:           "user-1",
		Username:     "remote_worker",
		Email:        "worker@example.com",
		PasswordHash: "stub",
	})
	require.NoError(t, err)
	return usr
}

func TestGetUserProfile_ByID(t *testing.T) {
	usr := newProfileUser(t)
	handler := NewGetUserProfileHandler(newStubUserRepo(usr), nil)

	profile, err := handler.Handle(context.Background(), GetUserProfileQuery{UserID: "user-1"})
	require.NoError(t, err)

	assert.Equal(t, "user-1", profile.ID)
	assert.Equal(t, "remote_worker", profile.Username)
	assert.Equal(t, 1, profile.Level)
	assert.False(t, profile.IsGuest)
}

func TestGetUserProfile_ByUsernameNormalizes(t *testing.T) {
	usr := newProfileUser(t)
	handler := NewGetUserProfileHandler(newStubUserRepo(usr), nil)

	profile, err := handler.Handle(context.Background(), GetUserProfileQuery{Username: "REMOTE_WORKER"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", profile.ID)
}

func TestGetUserProfile_CacheAside(t *testing.T) {
	usr := newProfileUser(t)
	repo := newStubUserRepo(usr)
	cache := newStubUserCache()
	handler := NewGetUserProfileHandler(repo, cache)

	// Промах: база, затем заполнение кеша.
	_, err := handler.Handle(context.Background(), GetUserProfileQuery{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.gets)
	assert.Equal(t, 1, cache.sets)

	// Попадание: база больше не нужна.
	_, err = handler.Handle(context.Background(), GetUserProfileQuery{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.gets)
}

func TestGetUserProfile_NotFound(t *testing.T) {
	handler := NewGetUserProfileHandler(newStubUserRepo(), newStubUserCache())

	_, err := handler.Handle(context.Background(), GetUserProfileQuery{UserID: "missing"})
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	_, err = handler.Handle(context.Background(), GetUserProfileQuery{})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
