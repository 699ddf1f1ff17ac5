// Package postgres implements the PostgreSQL persistence layer for the
// ThriveRemote session & progression engine.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE USERS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create users table
-- Version: 001

-- Main users table. productivity_score is maintained exclusively by the
-- progression ledger: every change goes through a ledger transaction.
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    username VARCHAR(32) NOT NULL UNIQUE,
    email VARCHAR(255),
    password_hash TEXT NOT NULL DEFAULT '',
    productivity_score INTEGER NOT NULL DEFAULT 0,
    daily_streak INTEGER NOT NULL DEFAULT 0,
    last_streak_date DATE,
    total_sessions INTEGER NOT NULL DEFAULT 0,
    tasks_completed INTEGER NOT NULL DEFAULT 0,
    tasks_created INTEGER NOT NULL DEFAULT 0,
    applications_submitted INTEGER NOT NULL DEFAULT 0,
    commands_executed INTEGER NOT NULL DEFAULT 0,
    easter_eggs_found INTEGER NOT NULL DEFAULT 0,
    pong_high_score INTEGER NOT NULL DEFAULT 0,
    savings_goal DECIMAL(12,2) NOT NULL DEFAULT 5000.00,
    current_savings DECIMAL(12,2) NOT NULL DEFAULT 0.00,
    achievements_unlocked INTEGER NOT NULL DEFAULT 0,
    relocation_viewed BOOLEAN NOT NULL DEFAULT FALSE,
    is_guest BOOLEAN NOT NULL DEFAULT FALSE,
    last_active_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    -- Constraints for data integrity
    CONSTRAINT valid_score CHECK (productivity_score >= 0),
    CONSTRAINT valid_streak CHECK (daily_streak >= 0),
    CONSTRAINT valid_sessions CHECK (total_sessions >= 0),
    CONSTRAINT valid_counters CHECK (
        tasks_completed >= 0 AND tasks_created >= 0 AND
        applications_submitted >= 0 AND commands_executed >= 0 AND
        easter_eggs_found >= 0 AND pong_high_score >= 0
    ),
    CONSTRAINT valid_savings CHECK (savings_goal >= 0 AND current_savings >= 0)
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
CREATE INDEX IF NOT EXISTS idx_users_score ON users(productivity_score DESC);
CREATE INDEX IF NOT EXISTS idx_users_last_active_at ON users(last_active_at);
`

const migration001Down = `
DROP TABLE IF EXISTS users CASCADE;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE SESSIONS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create sessions table
-- Version: 002

-- Durable session tier. Invalidation flips active to FALSE; rows stay
-- for auditing. No expiry column: session lifetime is unbounded.
CREATE TABLE IF NOT EXISTS sessions (
    token TEXT PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    username VARCHAR(32) NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    last_used_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);
CREATE INDEX IF NOT EXISTS idx_sessions_active ON sessions(user_id) WHERE active = TRUE;
CREATE INDEX IF NOT EXISTS idx_sessions_last_used_at ON sessions(last_used_at DESC);
`

const migration002Down = `
DROP TABLE IF EXISTS sessions CASCADE;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE PROGRESSION LEDGER
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create progression ledger
-- Version: 003

-- Append-only ledger of point deltas. Rows are never updated or deleted;
-- users.productivity_score must equal SUM(points) per user at all times.
CREATE TABLE IF NOT EXISTS progression_events (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    action VARCHAR(50) NOT NULL,
    points INTEGER NOT NULL,
    metadata JSONB,
    occurred_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_progression_events_user_id ON progression_events(user_id);
CREATE INDEX IF NOT EXISTS idx_progression_events_occurred_at ON progression_events(occurred_at DESC);
CREATE INDEX IF NOT EXISTS idx_progression_events_user_date ON progression_events(user_id, occurred_at DESC);
CREATE INDEX IF NOT EXISTS idx_progression_events_user_action ON progression_events(user_id, action);
`

const migration003Down = `
DROP TABLE IF EXISTS progression_events CASCADE;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 004: CREATE ACHIEVEMENTS
// ══════════════════════════════════════════════════════════════════════════════

const migration004Up = `
-- Migration: Create achievements table
-- Version: 004

-- Per-user achievement state. Rows are seeded locked at registration.
-- The locked -> unlocked transition is a conditional UPDATE
-- (WHERE unlocked = FALSE) so that exactly one caller wins a race.
CREATE TABLE IF NOT EXISTS achievements (
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    achievement_type VARCHAR(50) NOT NULL,
    unlocked BOOLEAN NOT NULL DEFAULT FALSE,
    unlocked_at TIMESTAMP WITH TIME ZONE,

    PRIMARY KEY (user_id, achievement_type)
);

CREATE INDEX IF NOT EXISTS idx_achievements_user_id ON achievements(user_id);
CREATE INDEX IF NOT EXISTS idx_achievements_unlocked ON achievements(user_id) WHERE unlocked = TRUE;
`

const migration004Down = `
DROP TABLE IF EXISTS achievements CASCADE;
`
