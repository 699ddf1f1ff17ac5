package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Darkprophet2323/thriveremote-hub/internal/application/command"
	"github.com/Darkprophet2323/thriveremote-hub/internal/application/query"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/achievement"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/session"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// FAKES
// ══════════════════════════════════════════════════════════════════════════════

type stubUserRepo struct {
	users map[string]*user.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*user.User)}
}

func (r *stubUserRepo) Create(ctx context.Context, u *user.User) error {
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return user.ErrUserAlreadyExists
		}
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound
}

func (r *stubUserRepo) GetByUsername(ctx context.Context, username user.Username) (*user.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *stubUserRepo) Update(ctx context.Context, u *user.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) GetAll(ctx context.Context, opts user.ListOptions) ([]*user.User, error) {
	return nil, nil
}

func (r *stubUserRepo) Count(ctx context.Context) (int, error) { return len(r.users), nil }

func (r *stubUserRepo) GetTopByScore(ctx context.Context, limit int) ([]*user.User, error) {
	return nil, nil
}

func (r *stubUserRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := r.users[id]
	return ok, nil
}

func (r *stubUserRepo) ExistsByUsername(ctx context.Context, username user.Username) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

type stubAchievementRepo struct{}

func (stubAchievementRepo) InitForUser(ctx context.Context, userID string) error { return nil }

func (stubAchievementRepo) GetForUser(ctx context.Context, userID string) ([]*achievement.UserAchievement, error) {
	return nil, nil
}

func (stubAchievementRepo) Get(ctx context.Context, userID string, t achievement.Type) (*achievement.UserAchievement, error) {
	return nil, achievement.ErrNotFound
}

func (stubAchievementRepo) TryUnlock(ctx context.Context, userID string, t achievement.Type) (bool, error) {
	return false, nil
}

func (stubAchievementRepo) CountUnlocked(ctx context.Context, userID string) (int, error) {
	return 0, nil
}

type stubSessionManager struct {
	sessions map[string]*session.Session
}

func newStubSessionManager() *stubSessionManager {
	return &stubSessionManager{sessions: make(map[string]*session.Session)}
}

func (m *stubSessionManager) Start(ctx context.Context, userID, username string) (*session.Session, error) {
	sess, err := session.NewSession(userID, username)
	if err != nil {
		return nil, err
	}
	m.sessions[sess.Token] = sess
	return sess, nil
}

func (m *stubSessionManager) Resolve(ctx context.Context, token string) (*session.Session, error) {
	if sess, ok := m.sessions[token]; ok && sess.IsActive() {
		return sess, nil
	}
	return nil, session.ErrSessionNotFound
}

func (m *stubSessionManager) Invalidate(ctx context.Context, token string) error {
	if sess, ok := m.sessions[token]; ok {
		sess.Invalidate()
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// TEST SERVER
// ══════════════════════════════════════════════════════════════════════════════

type testServer struct {
	server   *Server
	userRepo *stubUserRepo
	sessions *stubSessionManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	userRepo := newStubUserRepo()
	sessions := newStubSessionManager()

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0

	srv := NewServer(cfg, Dependencies{
		ProvisionGuestHandler: command.NewProvisionGuestHandler(userRepo, stubAchievementRepo{}),
		GetUserProfileHandler: query.NewGetUserProfileHandler(userRepo, nil),
		Sessions:              sessions,
	})

	return &testServer{server: srv, userRepo: userRepo, sessions: sessions}
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.server.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) JSONResponse {
	t.Helper()
	var resp JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// ══════════════════════════════════════════════════════════════════════════════
// TESTS
// ══════════════════════════════════════════════════════════════════════════════

func TestWithUser_NoTokenFallsBackToGuest(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)

	profile := resp.Data.(map[string]interface{})
	assert.Equal(t, user.GuestUsername, profile["username"])
	assert.Equal(t, true, profile["is_guest"])
}

func TestWithUser_InvalidTokenIsRejectedNotGuest(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer bogus-token")

	rec := ts.do(req)
	require.Equal(t, http.StatusNotFound, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "session_not_found", resp.Error.Code)
}

func TestWithUser_ValidTokenResolvesOwner(t *testing.T) {
	ts := newTestServer(t)

	usr, err := user.NewUser(user.NewUserParams{
		ID:           "user-1",
		Username:     "remote_worker",
		PasswordHash: "stub",
	})
	require.NoError(t, err)
	require.NoError(t, ts.userRepo.Create(context.Background(), usr))

	sess, err := ts.sessions.Start(context.Background(), usr.ID, "remote_worker")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("X-Session-Token", sess.Token)

	rec := ts.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	profile := decodeResponse(t, rec).Data.(map[string]interface{})
	assert.Equal(t, "remote_worker", profile["username"])
}

func TestWithUser_InvalidatedTokenIsRejected(t *testing.T) {
	ts := newTestServer(t)

	sess, err := ts.sessions.Start(context.Background(), "user-1", "remote_worker")
	require.NoError(t, err)
	require.NoError(t, ts.sessions.Invalidate(context.Background(), sess.Token))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("X-Session-Token", sess.Token)

	rec := ts.do(req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExtractToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, extractToken(req))

	req.Header.Set("Authorization", "Bearer abc123")
	assert.Equal(t, "abc123", extractToken(req))

	// Заголовок Authorization имеет приоритет над X-Session-Token.
	req.Header.Set("X-Session-Token", "xyz789")
	assert.Equal(t, "abc123", extractToken(req))

	req.Header.Del("Authorization")
	assert.Equal(t, "xyz789", extractToken(req))
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"))
	}
	assert.False(t, rl.Allow("10.0.0.1"))

	// Другой клиент лимитируется независимо.
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestHandleRoot(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/no/such/path", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
