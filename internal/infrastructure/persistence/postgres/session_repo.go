// Package postgres implements the PostgreSQL persistence layer for the
// ThriveRemote session & progression engine.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/session"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// SESSION STORE IMPLEMENTATION (durable tier)
// ══════════════════════════════════════════════════════════════════════════════

// SessionStore implements session.Store for PostgreSQL.
type SessionStore struct {
	conn *Connection
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(conn *Connection) *SessionStore {
	return &SessionStore{conn: conn}
}

// Create saves a new session.
func (s *SessionStore) Create(ctx context.Context, sess *session.Session) error {
	query := `
		INSERT INTO sessions (token, user_id, username, created_at, last_used_at, active)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.conn.Exec(ctx, query,
		sess.Token,
		sess.UserID,
		sess.Username,
		sess.CreatedAt,
		sess.LastUsedAt,
		sess.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetByToken returns a session by token, including inactive ones.
// Callers decide what an inactive row means.
func (s *SessionStore) GetByToken(ctx context.Context, token string) (*session.Session, error) {
	query := `
		SELECT token, user_id, username, created_at, last_used_at, active
		FROM sessions
		WHERE token = $1
	`

	row := s.conn.QueryRow(ctx, query, token)
	return s.scanSession(row)
}

// TouchUsed updates the last-used timestamp.
func (s *SessionStore) TouchUsed(ctx context.Context, token string) error {
	query := `UPDATE sessions SET last_used_at = $1 WHERE token = $2`

	result, err := s.conn.Exec(ctx, query, time.Now().UTC(), token)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return session.ErrSessionNotFound
	}

	return nil
}

// Deactivate marks a session inactive. Deactivating an already inactive
// or unknown session is not an error: invalidation is idempotent.
func (s *SessionStore) Deactivate(ctx context.Context, token string) error {
	query := `UPDATE sessions SET active = FALSE WHERE token = $1`

	if _, err := s.conn.Exec(ctx, query, token); err != nil {
		return fmt.Errorf("failed to deactivate session: %w", err)
	}

	return nil
}

// DeactivateAllForUser marks all of a user's sessions inactive.
func (s *SessionStore) DeactivateAllForUser(ctx context.Context, userID string) error {
	query := `UPDATE sessions SET active = FALSE WHERE user_id = $1 AND active = TRUE`

	if _, err := s.conn.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to deactivate user sessions: %w", err)
	}

	return nil
}

// PruneInactive deletes inactive sessions whose last use is older than
// the cutoff. Returns the number of rows removed.
func (s *SessionStore) PruneInactive(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	query := `DELETE FROM sessions WHERE active = FALSE AND last_used_at < $1`

	result, err := s.conn.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}

	return int(result.RowsAffected()), nil
}

// CountActive returns the number of active sessions.
func (s *SessionStore) CountActive(ctx context.Context) (int, error) {
	var count int
	err := s.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM sessions WHERE active = TRUE`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active sessions: %w", err)
	}
	return count, nil
}

// scanSession scans a single session row.
func (s *SessionStore) scanSession(row pgx.Row) (*session.Session, error) {
	var sess session.Session

	err := row.Scan(
		&sess.Token,
		&sess.UserID,
		&sess.Username,
		&sess.CreatedAt,
		&sess.LastUsedAt,
		&sess.Active,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, session.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}

	return &sess, nil
}
