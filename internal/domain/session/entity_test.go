package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken()
	require.NoError(t, err)

	// 32 байта в base64 URL-safe без набивки = 43 символа.
	assert.Len(t, token, 43)
	assert.False(t, strings.ContainsAny(token, "+/="), "token must be URL-safe")

	other, err := GenerateToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestNewSession(t *testing.T) {
	sess, err := NewSession("user-1", "remote_worker")
	require.NoError(t, err)

	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "user-1", sess.UserID)
	assert.Equal(t, "remote_worker", sess.Username)
	assert.True(t, sess.IsActive())
	assert.False(t, sess.CreatedAt.IsZero())
	assert.Equal(t, sess.CreatedAt, sess.LastUsedAt)
}

func TestNewSession_RequiresUserID(t *testing.T) {
	_, err := NewSession("", "remote_worker")
	assert.Error(t, err)
}

func TestSession_Invalidate(t *testing.T) {
	sess, err := NewSession("user-1", "remote_worker")
	require.NoError(t, err)

	sess.Invalidate()
	assert.False(t, sess.IsActive())

	// Повторная инвалидация - no-op.
	sess.Invalidate()
	assert.False(t, sess.IsActive())
}

func TestSession_IsActive_NilSafe(t *testing.T) {
	var sess *Session
	assert.False(t, sess.IsActive())
}
