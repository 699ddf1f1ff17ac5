// Package postgres implements the PostgreSQL persistence layer for the
// ThriveRemote session & progression engine.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/progression"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESSION LEDGER IMPLEMENTATION
// The ledger is append-only. Append runs the event INSERT and the score
// UPDATE in one transaction so that users.productivity_score always
// equals SUM(points) per user. The action's activity counter is bumped
// in the same statement, so concurrent awards never lose an increment
// to a stale read-modify-write of the user row.
// ══════════════════════════════════════════════════════════════════════════════

// actionCounters maps ledger actions to the user counter column they
// advance. Actions без счётчика (savings, pong, relocation) отсутствуют:
// их состояние пишет UserRepository.Update.
var actionCounters = map[progression.Action]string{
	progression.ActionTaskCreated:     "tasks_created",
	progression.ActionTaskCompleted:   "tasks_completed",
	progression.ActionJobApplication:  "applications_submitted",
	progression.ActionTerminalCommand: "commands_executed",
	progression.ActionEasterEgg:       "easter_eggs_found",
	progression.ActionKonamiCode:      "easter_eggs_found",
}

// ProgressionRepository implements progression.Ledger for PostgreSQL.
type ProgressionRepository struct {
	conn *Connection
}

// NewProgressionRepository creates a new ProgressionRepository.
func NewProgressionRepository(conn *Connection) *ProgressionRepository {
	return &ProgressionRepository{conn: conn}
}

// Append inserts a ledger event and increments the owner's score
// atomically. Either both happen or neither does.
func (r *ProgressionRepository) Append(ctx context.Context, event *progression.Event) error {
	if event.UserID == "" {
		return progression.ErrEmptyUserID
	}

	var metadataJSON []byte
	if len(event.Metadata) > 0 {
		var err error
		metadataJSON, err = json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal event metadata: %w", err)
		}
	}

	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		insertQuery := `
			INSERT INTO progression_events (id, user_id, action, points, metadata, occurred_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		if _, err := tx.Exec(ctx, insertQuery,
			event.ID,
			event.UserID,
			string(event.Action),
			event.Points,
			metadataJSON,
			event.OccurredAt,
		); err != nil {
			return fmt.Errorf("failed to insert ledger event: %w", err)
		}

		updateQuery := `
			UPDATE users
			SET productivity_score = productivity_score + $1, updated_at = $2
		`
		if counter, ok := actionCounters[event.Action]; ok {
			updateQuery += `, ` + counter + ` = ` + counter + ` + 1`
		}
		updateQuery += ` WHERE id = $3`

		result, err := tx.Exec(ctx, updateQuery,
			event.Points,
			time.Now().UTC(),
			event.UserID,
		)
		if err != nil {
			return fmt.Errorf("failed to apply score delta: %w", err)
		}

		if result.RowsAffected() == 0 {
			return user.ErrUserNotFound
		}

		return nil
	})
}

// GetRecent returns the user's most recent ledger events, newest first.
func (r *ProgressionRepository) GetRecent(ctx context.Context, userID string, limit int) ([]*progression.Event, error) {
	query := `
		SELECT id, user_id, action, points, metadata, occurred_at
		FROM progression_events
		WHERE user_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2
	`

	rows, err := r.conn.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger events: %w", err)
	}
	defer rows.Close()

	return r.scanEvents(rows)
}

// GetByRange returns the user's ledger events within a period.
func (r *ProgressionRepository) GetByRange(ctx context.Context, userID string, from, to time.Time) ([]*progression.Event, error) {
	query := `
		SELECT id, user_id, action, points, metadata, occurred_at
		FROM progression_events
		WHERE user_id = $1 AND occurred_at >= $2 AND occurred_at <= $3
		ORDER BY occurred_at DESC
	`

	rows, err := r.conn.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger events: %w", err)
	}
	defer rows.Close()

	return r.scanEvents(rows)
}

// SumPoints returns the sum of the user's point deltas.
func (r *ProgressionRepository) SumPoints(ctx context.Context, userID string) (int, error) {
	var sum int
	err := r.conn.QueryRow(ctx,
		`SELECT COALESCE(SUM(points), 0) FROM progression_events WHERE user_id = $1`,
		userID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum ledger points: %w", err)
	}
	return sum, nil
}

// CountByAction returns how many events with the given action the user has.
func (r *ProgressionRepository) CountByAction(ctx context.Context, userID string, action progression.Action) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM progression_events WHERE user_id = $1 AND action = $2`,
		userID, string(action),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count ledger events: %w", err)
	}
	return count, nil
}

// scanEvents scans multiple ledger event rows.
func (r *ProgressionRepository) scanEvents(rows pgx.Rows) ([]*progression.Event, error) {
	var events []*progression.Event

	for rows.Next() {
		var (
			e            progression.Event
			action       string
			metadataJSON []byte
		)

		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&action,
			&e.Points,
			&metadataJSON,
			&e.OccurredAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger event: %w", err)
		}

		e.Action = progression.Action(action)
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &e.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal event metadata: %w", err)
			}
		}

		events = append(events, &e)
	}

	return events, rows.Err()
}
