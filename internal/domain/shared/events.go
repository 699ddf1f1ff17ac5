// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"encoding/json"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types - these drive the event-driven architecture.
// Each event represents something significant that happened in the domain.
const (
	// User events
	EventUserRegistered    EventType = "user.registered"
	EventUserAuthenticated EventType = "user.authenticated"
	EventGuestProvisioned  EventType = "user.guest_provisioned"

	// Session events
	EventSessionStarted     EventType = "session.started"
	EventSessionEnded       EventType = "session.ended"
	EventSessionInvalidated EventType = "session.invalidated"

	// Progression events
	EventPointsAwarded EventType = "progression.points_awarded"
	EventTaskCompleted EventType = "progression.task_completed"
	EventStreakUpdated EventType = "progression.streak_updated"
	EventStreakBroken  EventType = "progression.streak_broken"

	// Achievement events
	EventAchievementUnlocked EventType = "achievement.unlocked"
	EventBonusAwarded        EventType = "achievement.bonus_awarded"

	// Savings events
	EventSavingsUpdated EventType = "savings.updated"

	// System events
	EventRelocateRefreshed EventType = "system.relocate_refreshed"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	Version       int       `json:"version"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// User Events
// ═══════════════════════════════════════════════════════════════════════════

// UserRegisteredEvent is emitted when a new user registers.
type UserRegisteredEvent struct {
	BaseEvent
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Payload implements Event interface.
func (e UserRegisteredEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"username": e.Username,
		"email":    e.Email,
	}
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent.
func NewUserRegisteredEvent(userID, username, email string) UserRegisteredEvent {
	return UserRegisteredEvent{
		BaseEvent: NewBaseEvent(EventUserRegistered, userID),
		Username:  username,
		Email:     email,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Session Events
// ═══════════════════════════════════════════════════════════════════════════

// SessionStartedEvent is emitted when a session is created for a user.
type SessionStartedEvent struct {
	BaseEvent
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Payload implements Event interface.
func (e SessionStartedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":  e.UserID,
		"username": e.Username,
	}
}

// NewSessionStartedEvent creates a new SessionStartedEvent.
// The aggregate is the user; the token itself never appears in events.
func NewSessionStartedEvent(userID, username string) SessionStartedEvent {
	return SessionStartedEvent{
		BaseEvent: NewBaseEvent(EventSessionStarted, userID),
		UserID:    userID,
		Username:  username,
	}
}

// SessionEndedEvent is emitted when a session is invalidated.
type SessionEndedEvent struct {
	BaseEvent
	UserID string `json:"user_id"`
}

// Payload implements Event interface.
func (e SessionEndedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id": e.UserID,
	}
}

// NewSessionEndedEvent creates a new SessionEndedEvent.
func NewSessionEndedEvent(userID string) SessionEndedEvent {
	return SessionEndedEvent{
		BaseEvent: NewBaseEvent(EventSessionEnded, userID),
		UserID:    userID,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Progression Events
// ═══════════════════════════════════════════════════════════════════════════

// PointsAwardedEvent is emitted when the ledger credits points to a user.
type PointsAwardedEvent struct {
	BaseEvent
	UserID   string `json:"user_id"`
	Action   string `json:"action"` // e.g., "task_completed", "savings_update"
	Points   int    `json:"points"`
	NewTotal int    `json:"new_total"`
}

// Payload implements Event interface.
func (e PointsAwardedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":   e.UserID,
		"action":    e.Action,
		"points":    e.Points,
		"new_total": e.NewTotal,
	}
}

// NewPointsAwardedEvent creates a new PointsAwardedEvent.
func NewPointsAwardedEvent(userID, action string, points, newTotal int) PointsAwardedEvent {
	return PointsAwardedEvent{
		BaseEvent: NewBaseEvent(EventPointsAwarded, userID),
		UserID:    userID,
		Action:    action,
		Points:    points,
		NewTotal:  newTotal,
	}
}

// TaskCompletedEvent is emitted when a user completes a task.
type TaskCompletedEvent struct {
	BaseEvent
	UserID         string `json:"user_id"`
	TasksCompleted int    `json:"tasks_completed"`
	PointsEarned   int    `json:"points_earned"`
}

// Payload implements Event interface.
func (e TaskCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":         e.UserID,
		"tasks_completed": e.TasksCompleted,
		"points_earned":   e.PointsEarned,
	}
}

// NewTaskCompletedEvent creates a new TaskCompletedEvent.
func NewTaskCompletedEvent(userID string, tasksCompleted, pointsEarned int) TaskCompletedEvent {
	return TaskCompletedEvent{
		BaseEvent:      NewBaseEvent(EventTaskCompleted, userID),
		UserID:         userID,
		TasksCompleted: tasksCompleted,
		PointsEarned:   pointsEarned,
	}
}

// StreakUpdatedEvent is emitted when a user's daily streak fires.
type StreakUpdatedEvent struct {
	BaseEvent
	UserID        string `json:"user_id"`
	Streak        int    `json:"streak"`
	TotalSessions int    `json:"total_sessions"`
	Extended      bool   `json:"extended"` // false means the streak was reset to 1
}

// Payload implements Event interface.
func (e StreakUpdatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":        e.UserID,
		"streak":         e.Streak,
		"total_sessions": e.TotalSessions,
		"extended":       e.Extended,
	}
}

// NewStreakUpdatedEvent creates a new StreakUpdatedEvent.
func NewStreakUpdatedEvent(userID string, streak, totalSessions int, extended bool) StreakUpdatedEvent {
	return StreakUpdatedEvent{
		BaseEvent:     NewBaseEvent(EventStreakUpdated, userID),
		UserID:        userID,
		Streak:        streak,
		TotalSessions: totalSessions,
		Extended:      extended,
	}
}

// StreakBrokenEvent is emitted when a missed day resets a streak.
type StreakBrokenEvent struct {
	BaseEvent
	UserID         string `json:"user_id"`
	PreviousStreak int    `json:"previous_streak"`
	DaysMissed     int    `json:"days_missed"`
}

// Payload implements Event interface.
func (e StreakBrokenEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":         e.UserID,
		"previous_streak": e.PreviousStreak,
		"days_missed":     e.DaysMissed,
	}
}

// NewStreakBrokenEvent creates a new StreakBrokenEvent.
func NewStreakBrokenEvent(userID string, previousStreak, daysMissed int) StreakBrokenEvent {
	return StreakBrokenEvent{
		BaseEvent:      NewBaseEvent(EventStreakBroken, userID),
		UserID:         userID,
		PreviousStreak: previousStreak,
		DaysMissed:     daysMissed,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Achievement Events
// ═══════════════════════════════════════════════════════════════════════════

// AchievementUnlockedEvent is emitted when a CAS unlock wins.
type AchievementUnlockedEvent struct {
	BaseEvent
	UserID        string `json:"user_id"`
	AchievementID string `json:"achievement_id"`
	Title         string `json:"title"`
	Icon          string `json:"icon"`
	BonusPoints   int    `json:"bonus_points"`
}

// Payload implements Event interface.
func (e AchievementUnlockedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":        e.UserID,
		"achievement_id": e.AchievementID,
		"title":          e.Title,
		"icon":           e.Icon,
		"bonus_points":   e.BonusPoints,
	}
}

// NewAchievementUnlockedEvent creates a new AchievementUnlockedEvent.
func NewAchievementUnlockedEvent(userID, achievementID, title, icon string, bonusPoints int) AchievementUnlockedEvent {
	return AchievementUnlockedEvent{
		BaseEvent:     NewBaseEvent(EventAchievementUnlocked, userID),
		UserID:        userID,
		AchievementID: achievementID,
		Title:         title,
		Icon:          icon,
		BonusPoints:   bonusPoints,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Savings Events
// ═══════════════════════════════════════════════════════════════════════════

// SavingsUpdatedEvent is emitted when a user records savings progress.
type SavingsUpdatedEvent struct {
	BaseEvent
	UserID          string  `json:"user_id"`
	CurrentSavings  float64 `json:"current_savings"`
	SavingsGoal     float64 `json:"savings_goal"`
	ProgressPercent float64 `json:"progress_percent"`
}

// Payload implements Event interface.
func (e SavingsUpdatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":          e.UserID,
		"current_savings":  e.CurrentSavings,
		"savings_goal":     e.SavingsGoal,
		"progress_percent": e.ProgressPercent,
	}
}

// NewSavingsUpdatedEvent creates a new SavingsUpdatedEvent.
func NewSavingsUpdatedEvent(userID string, current, goal, percent float64) SavingsUpdatedEvent {
	return SavingsUpdatedEvent{
		BaseEvent:       NewBaseEvent(EventSavingsUpdated, userID),
		UserID:          userID,
		CurrentSavings:  current,
		SavingsGoal:     goal,
		ProgressPercent: percent,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Envelope (for serialization and transport)
// ═══════════════════════════════════════════════════════════════════════════

// EventEnvelope wraps an event for transport/storage.
type EventEnvelope struct {
	ID            string          `json:"id"`
	Type          EventType       `json:"type"`
	AggregateID   string          `json:"aggregate_id"`
	Timestamp     time.Time       `json:"timestamp"`
	Version       int             `json:"version"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
