package service

import (
	"context"
	"errors"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/session"
	"github.com/Darkprophet2323/thriveremote-hub/pkg/logger"
)

// SessionManager implements session.Manager over the two storage tiers:
// the in-process fast cache and the durable Postgres store. Reads follow
// the cache-aside pattern; a miss falls through to the store and, if the
// session is still active, repopulates the cache.
type SessionManager struct {
	store session.Store
	cache session.FastCache
	log   *logger.Logger
}

// NewSessionManager creates a new SessionManager.
func NewSessionManager(store session.Store, cache session.FastCache, log *logger.Logger) *SessionManager {
	if log == nil {
		log = logger.Default()
	}
	return &SessionManager{
		store: store,
		cache: cache,
		log:   log.With(logger.String("component", "session_manager")),
	}
}

// Start creates a new session for the user in both tiers.
// The durable store is written first; a session that only exists in the
// cache would vanish on restart and look like a forced logout.
func (m *SessionManager) Start(ctx context.Context, userID, username string) (*session.Session, error) {
	sess, err := session.NewSession(userID, username)
	if err != nil {
		return nil, err
	}

	if err := m.store.Create(ctx, sess); err != nil {
		return nil, err
	}
	m.cache.Put(sess)

	m.log.Info("session started",
		logger.String("user_id", userID),
		logger.String("username", username),
	)

	return sess, nil
}

// Resolve resolves a token into its active session and touches the
// last-used timestamp in both tiers. Unknown and deactivated tokens both
// return session.ErrSessionNotFound; a caller can not distinguish the two.
func (m *SessionManager) Resolve(ctx context.Context, token string) (*session.Session, error) {
	if token == "" {
		return nil, session.ErrSessionNotFound
	}

	// Fast tier first.
	if sess, ok := m.cache.Get(token); ok {
		if !sess.IsActive() {
			// Stale cache entry for an ended session.
			m.cache.Evict(token)
			return nil, session.ErrSessionNotFound
		}

		m.cache.TouchUsed(token)
		if err := m.store.TouchUsed(ctx, token); err != nil && !errors.Is(err, session.ErrSessionNotFound) {
			m.log.Warn("durable last-used update failed", logger.Err(err))
		}

		sess.TouchUsed()
		return sess, nil
	}

	// Miss: fall through to the durable store.
	sess, err := m.store.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !sess.IsActive() {
		return nil, session.ErrSessionNotFound
	}

	if err := m.store.TouchUsed(ctx, token); err != nil && !errors.Is(err, session.ErrSessionNotFound) {
		m.log.Warn("durable last-used update failed", logger.Err(err))
	}
	sess.TouchUsed()

	// Repopulate the fast tier with the touched copy.
	m.cache.Put(sess)

	return sess, nil
}

// Invalidate ends a session: deactivates it in the durable store and
// evicts it from the fast cache. Idempotent; invalidating an unknown or
// already-ended token is a no-op.
func (m *SessionManager) Invalidate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := m.store.Deactivate(ctx, token); err != nil {
		return err
	}
	m.cache.Evict(token)

	m.log.Info("session invalidated")
	return nil
}
