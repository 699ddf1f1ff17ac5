// Package postgres implements the PostgreSQL persistence layer for the
// ThriveRemote session & progression engine.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/achievement"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACHIEVEMENT REPOSITORY IMPLEMENTATION
// The locked -> unlocked transition is a conditional UPDATE: under a
// race exactly one caller sees RowsAffected == 1 and wins; everyone
// else observes an already-unlocked row.
// ══════════════════════════════════════════════════════════════════════════════

// AchievementRepository implements achievement.Repository for PostgreSQL.
type AchievementRepository struct {
	conn *Connection
}

// NewAchievementRepository creates a new AchievementRepository.
func NewAchievementRepository(conn *Connection) *AchievementRepository {
	return &AchievementRepository{conn: conn}
}

// InitForUser seeds locked rows for every catalog achievement.
// Existing rows are left untouched, so re-running is safe.
func (r *AchievementRepository) InitForUser(ctx context.Context, userID string) error {
	query := `
		INSERT INTO achievements (user_id, achievement_type, unlocked)
		VALUES ($1, $2, FALSE)
		ON CONFLICT (user_id, achievement_type) DO NOTHING
	`

	for _, def := range achievement.Catalog() {
		if _, err := r.conn.Exec(ctx, query, userID, string(def.Type)); err != nil {
			return fmt.Errorf("failed to seed achievement %s: %w", def.Type, err)
		}
	}

	return nil
}

// GetForUser returns all achievement rows of a user, in catalog order.
func (r *AchievementRepository) GetForUser(ctx context.Context, userID string) ([]*achievement.UserAchievement, error) {
	query := `
		SELECT user_id, achievement_type, unlocked, unlocked_at
		FROM achievements
		WHERE user_id = $1
	`

	rows, err := r.conn.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievements: %w", err)
	}
	defer rows.Close()

	byType := make(map[achievement.Type]*achievement.UserAchievement)
	for rows.Next() {
		var (
			a          achievement.UserAchievement
			aType      string
			unlockedAt *time.Time
		)

		if err := rows.Scan(&a.UserID, &aType, &a.Unlocked, &unlockedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}

		a.Type = achievement.Type(aType)
		if unlockedAt != nil {
			a.UnlockedAt = *unlockedAt
		}
		byType[a.Type] = &a
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Stable catalog order for presentation.
	result := make([]*achievement.UserAchievement, 0, len(byType))
	for _, def := range achievement.Catalog() {
		if a, ok := byType[def.Type]; ok {
			result = append(result, a)
		}
	}

	return result, nil
}

// Get returns a single achievement row.
func (r *AchievementRepository) Get(ctx context.Context, userID string, t achievement.Type) (*achievement.UserAchievement, error) {
	query := `
		SELECT user_id, achievement_type, unlocked, unlocked_at
		FROM achievements
		WHERE user_id = $1 AND achievement_type = $2
	`

	var (
		a          achievement.UserAchievement
		aType      string
		unlockedAt *time.Time
	)

	err := r.conn.QueryRow(ctx, query, userID, string(t)).Scan(
		&a.UserID, &aType, &a.Unlocked, &unlockedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, achievement.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan achievement: %w", err)
	}

	a.Type = achievement.Type(aType)
	if unlockedAt != nil {
		a.UnlockedAt = *unlockedAt
	}

	return &a, nil
}

// TryUnlock performs the compare-and-set unlock. Returns true when this
// call won the transition, false when the achievement was already
// unlocked (which is not an error). The winner's transaction also bumps
// users.achievements_unlocked, so the counter follows the CAS instead
// of an entity snapshot.
func (r *AchievementRepository) TryUnlock(ctx context.Context, userID string, t achievement.Type) (bool, error) {
	var won bool
	err := r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		query := `
			UPDATE achievements
			SET unlocked = TRUE, unlocked_at = $1
			WHERE user_id = $2 AND achievement_type = $3 AND unlocked = FALSE
		`

		result, err := tx.Exec(ctx, query, time.Now().UTC(), userID, string(t))
		if err != nil {
			return fmt.Errorf("failed to unlock achievement: %w", err)
		}
		if result.RowsAffected() != 1 {
			return nil
		}

		if _, err := tx.Exec(ctx,
			`UPDATE users SET achievements_unlocked = achievements_unlocked + 1, updated_at = $1 WHERE id = $2`,
			time.Now().UTC(), userID,
		); err != nil {
			return fmt.Errorf("failed to bump unlocked counter: %w", err)
		}

		won = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if won {
		return true, nil
	}

	// Either the row is already unlocked or was never seeded.
	// Distinguish the two: a missing row is a real error.
	var exists bool
	err = r.conn.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM achievements WHERE user_id = $1 AND achievement_type = $2)`,
		userID, string(t),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check achievement existence: %w", err)
	}
	if !exists {
		return false, achievement.ErrNotFound
	}

	return false, nil
}

// CountUnlocked returns the number of unlocked achievements of a user.
func (r *AchievementRepository) CountUnlocked(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM achievements WHERE user_id = $1 AND unlocked = TRUE`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unlocked achievements: %w", err)
	}
	return count, nil
}
