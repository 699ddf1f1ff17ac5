package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/session"
	"github.com/Darkprophet2323/thriveremote-hub/internal/infrastructure/persistence/memory"
)

// fakeSessionStore - надёжный ярус в памяти для тестов.
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
	creates  int
	gets     int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*session.Session)}
}

func (s *fakeSessionStore) Create(ctx context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	s.sessions[sess.Token] = sess.Clone()
	return nil
}

func (s *fakeSessionStore) GetByToken(ctx context.Context, token string) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++

	sess, ok := s.sessions[token]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	return sess.Clone(), nil
}

func (s *fakeSessionStore) TouchUsed(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[token]; ok {
		sess.LastUsedAt = time.Now().UTC()
	}
	return nil
}

func (s *fakeSessionStore) Deactivate(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[token]; ok {
		sess.Invalidate()
	}
	return nil
}

func (s *fakeSessionStore) DeactivateAllForUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sess := range s.sessions {
		if sess.UserID == userID {
			sess.Invalidate()
		}
	}
	return nil
}

func (s *fakeSessionStore) PruneInactive(ctx context.Context, olderThan time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pruned := 0
	for token, sess := range s.sessions {
		if !sess.Active {
			delete(s.sessions, token)
			pruned++
		}
	}
	return pruned, nil
}

func (s *fakeSessionStore) CountActive(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, sess := range s.sessions {
		if sess.Active {
			n++
		}
	}
	return n, nil
}

func newManagerUnderTest() (*SessionManager, *fakeSessionStore, *memory.SessionCache) {
	store := newFakeSessionStore()
	cache := memory.NewSessionCache()
	return NewSessionManager(store, cache, nil), store, cache
}

func TestSessionManager_StartWritesBothTiers(t *testing.T) {
	m, store, cache := newManagerUnderTest()

	sess, err := m.Start(context.Background(), "user-1", "remote_worker")
	require.NoError(t, err)

	assert.Len(t, sess.Token, 43)
	assert.Equal(t, 1, store.creates)
	assert.Equal(t, 1, cache.Len())
}

func TestSessionManager_ResolveHitsCacheFirst(t *testing.T) {
	m, store, _ := newManagerUnderTest()

	sess, err := m.Start(context.Background(), "user-1", "remote_worker")
	require.NoError(t, err)

	resolved, err := m.Resolve(context.Background(), sess.Token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", resolved.UserID)
	// Попадание в быстрый ярус не обращается к хранилищу за чтением.
	assert.Zero(t, store.gets)
}

func TestSessionManager_ResolveMissFallsThrough(t *testing.T) {
	m, store, cache := newManagerUnderTest()

	sess, err := m.Start(context.Background(), "user-1", "remote_worker")
	require.NoError(t, err)

	// Имитация рестарта процесса: быстрый ярус пуст, хранилище живо.
	cache.Evict(sess.Token)
	require.Zero(t, cache.Len())

	resolved, err := m.Resolve(context.Background(), sess.Token)
	require.NoError(t, err)

	assert.Equal(t, sess.Token, resolved.Token)
	assert.Equal(t, 1, store.gets)
	// Промах репопулировал кеш.
	assert.Equal(t, 1, cache.Len())
}

func TestSessionManager_ResolveUnknownToken(t *testing.T) {
	m, _, _ := newManagerUnderTest()

	_, err := m.Resolve(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	_, err = m.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestSessionManager_ResolveAfterInvalidate(t *testing.T) {
	m, _, _ := newManagerUnderTest()

	sess, err := m.Start(context.Background(), "user-1", "remote_worker")
	require.NoError(t, err)

	require.NoError(t, m.Invalidate(context.Background(), sess.Token))

	// Завершённая сессия неотличима от несуществующей.
	_, err = m.Resolve(context.Background(), sess.Token)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	// Повторная инвалидация - no-op.
	assert.NoError(t, m.Invalidate(context.Background(), sess.Token))
	assert.NoError(t, m.Invalidate(context.Background(), "no-such-token"))
}

func TestSessionManager_StaleCacheEntryEvicted(t *testing.T) {
	m, store, cache := newManagerUnderTest()

	sess, err := m.Start(context.Background(), "user-1", "remote_worker")
	require.NoError(t, err)

	// Деактивация мимо менеджера оставляет в кеше протухшую запись.
	require.NoError(t, store.Deactivate(context.Background(), sess.Token))
	stale := sess.Clone()
	stale.Invalidate()
	cache.Put(stale)

	_, err = m.Resolve(context.Background(), sess.Token)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	assert.Zero(t, cache.Len())
}
