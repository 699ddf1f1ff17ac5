// Package postgres implements the PostgreSQL persistence layer for the
// ThriveRemote session & progression engine.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// userColumns lists the columns scanned by scanUser, in order.
const userColumns = `
	id, username, email, password_hash, productivity_score,
	daily_streak, last_streak_date, total_sessions,
	tasks_completed, tasks_created, applications_submitted,
	commands_executed, easter_eggs_found, pong_high_score,
	savings_goal, current_savings, achievements_unlocked,
	relocation_viewed, is_guest, last_active_at, created_at, updated_at
`

// UserRepository implements user.Repository for PostgreSQL.
type UserRepository struct {
	conn *Connection
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{conn: conn}
}

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create creates a new user.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (
			id, username, email, password_hash, productivity_score,
			daily_streak, last_streak_date, total_sessions,
			tasks_completed, tasks_created, applications_submitted,
			commands_executed, easter_eggs_found, pong_high_score,
			savings_goal, current_savings, achievements_unlocked,
			relocation_viewed, is_guest, last_active_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22
		)
	`

	_, err := r.conn.Exec(ctx, query,
		u.ID,
		string(u.Username),
		nullString(u.Email),
		u.PasswordHash,
		int(u.ProductivityScore),
		u.DailyStreak,
		nullDate(u.LastStreakDate),
		u.TotalSessions,
		u.TasksCompleted,
		u.TasksCreated,
		u.ApplicationsSubmitted,
		u.CommandsExecuted,
		u.EasterEggsFound,
		u.PongHighScore,
		u.SavingsGoal,
		u.CurrentSavings,
		u.AchievementsUnlocked,
		u.RelocationViewed,
		u.IsGuest,
		u.LastActiveAt,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return user.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID returns a user by internal ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanUser(row)
}

// GetByUsername returns a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username user.Username) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	row := r.conn.QueryRow(ctx, query, string(username.Normalize()))
	return r.scanUser(row)
}

// Update updates a user. The productivity score and the activity
// counters are intentionally NOT written here: the score and per-action
// counters change only through ledger transactions, and
// achievements_unlocked changes only through the unlock CAS. Writing
// them from an entity snapshot would lose concurrent increments.
// The pong high score is a high-water mark, so GREATEST keeps a
// concurrent higher record from being overwritten by a lower one.
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users SET
			email = $1,
			password_hash = $2,
			daily_streak = $3,
			last_streak_date = $4,
			total_sessions = $5,
			pong_high_score = GREATEST(pong_high_score, $6),
			savings_goal = $7,
			current_savings = $8,
			relocation_viewed = $9,
			last_active_at = $10,
			updated_at = $11
		WHERE id = $12
	`

	result, err := r.conn.Exec(ctx, query,
		nullString(u.Email),
		u.PasswordHash,
		u.DailyStreak,
		nullDate(u.LastStreakDate),
		u.TotalSessions,
		u.PongHighScore,
		u.SavingsGoal,
		u.CurrentSavings,
		u.RelocationViewed,
		u.LastActiveAt,
		time.Now().UTC(),
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Bulk Operations
// ─────────────────────────────────────────────────────────────────────────────

// GetAll returns all users with pagination.
func (r *UserRepository) GetAll(ctx context.Context, opts user.ListOptions) ([]*user.User, error) {
	sortBy := sanitizeUserSortField(opts.SortBy)
	direction := "ASC"
	if opts.SortDesc {
		direction = "DESC"
	}

	query := fmt.Sprintf(
		`SELECT %s FROM users ORDER BY %s %s LIMIT $1 OFFSET $2`,
		userColumns, sortBy, direction,
	)

	rows, err := r.conn.Query(ctx, query, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	return r.scanUsers(rows)
}

// Count returns the total number of users.
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// GetTopByScore returns users ordered by productivity score.
func (r *UserRepository) GetTopByScore(ctx context.Context, limit int) ([]*user.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE is_guest = FALSE
		ORDER BY productivity_score DESC
		LIMIT $1`

	rows, err := r.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top users: %w", err)
	}
	defer rows.Close()

	return r.scanUsers(rows)
}

// ─────────────────────────────────────────────────────────────────────────────
// Existence Checks
// ─────────────────────────────────────────────────────────────────────────────

// Exists checks whether a user exists by ID.
func (r *UserRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

// ExistsByUsername checks whether a username is taken.
func (r *UserRepository) ExistsByUsername(ctx context.Context, username user.Username) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`,
		string(username.Normalize()),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return exists, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan Helpers
// ─────────────────────────────────────────────────────────────────────────────

// scanUser scans a single user row.
func (r *UserRepository) scanUser(row pgx.Row) (*user.User, error) {
	var (
		u              user.User
		username       string
		email          *string
		lastStreakDate *time.Time
	)

	err := row.Scan(
		&u.ID,
		&username,
		&email,
		&u.PasswordHash,
		(*int)(&u.ProductivityScore),
		&u.DailyStreak,
		&lastStreakDate,
		&u.TotalSessions,
		&u.TasksCompleted,
		&u.TasksCreated,
		&u.ApplicationsSubmitted,
		&u.CommandsExecuted,
		&u.EasterEggsFound,
		&u.PongHighScore,
		&u.SavingsGoal,
		&u.CurrentSavings,
		&u.AchievementsUnlocked,
		&u.RelocationViewed,
		&u.IsGuest,
		&u.LastActiveAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	u.Username = user.Username(username)
	if email != nil {
		u.Email = *email
	}
	if lastStreakDate != nil {
		u.LastStreakDate = *lastStreakDate
	}

	return &u, nil
}

// scanUsers scans multiple user rows.
func (r *UserRepository) scanUsers(rows pgx.Rows) ([]*user.User, error) {
	var users []*user.User

	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// sanitizeUserSortField whitelists sortable columns.
func sanitizeUserSortField(field string) string {
	switch field {
	case "username", "productivity_score", "daily_streak",
		"total_sessions", "created_at", "last_active_at":
		return field
	default:
		return "productivity_score"
	}
}

// nullString maps an empty string to NULL.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// nullDate maps a zero time to NULL.
func nullDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
