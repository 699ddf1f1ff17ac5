// Package notification содержит доменную модель уведомлений ThriveRemote Hub.
// Уведомления — лёгкая лента событий прогресса: разблокированные достижения,
// продление серии, новые рекорды. Философия: уведомления должны мотивировать,
// а не раздражать; лента короткая и живёт в кеше, не в базе.
package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION TYPE
// ══════════════════════════════════════════════════════════════════════════════

// Type определяет тип уведомления.
type Type string

const (
	// TypeAchievementUnlocked - разблокировано достижение.
	// "🏆 Task Master! Completed 10 tasks"
	TypeAchievementUnlocked Type = "achievement_unlocked"

	// TypeStreakExtended - серия активности продлена.
	// "🔥 7 days in a row!"
	TypeStreakExtended Type = "streak_extended"

	// TypeStreakBroken - серия прервана, начата заново.
	TypeStreakBroken Type = "streak_broken"

	// TypePongRecord - новый рекорд в Pong.
	TypePongRecord Type = "pong_record"

	// TypeSavingsMilestone - достигнут рубеж накоплений.
	TypeSavingsMilestone Type = "savings_milestone"

	// TypeSystem - системное сообщение.
	TypeSystem Type = "system"
)

// IsValid проверяет, что тип уведомления известен.
func (t Type) IsValid() bool {
	switch t {
	case TypeAchievementUnlocked, TypeStreakExtended, TypeStreakBroken,
		TypePongRecord, TypeSavingsMilestone, TypeSystem:
		return true
	}
	return false
}

// ══════════════════════════════════════════════════════════════════════════════
// ОШИБКИ
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidType - неизвестный тип уведомления.
	ErrInvalidType = errors.New("notification: invalid type")

	// ErrEmptyRecipient - не указан получатель.
	ErrEmptyRecipient = errors.New("notification: empty recipient")

	// ErrEmptyTitle - не указан заголовок.
	ErrEmptyTitle = errors.New("notification: empty title")
)

// ══════════════════════════════════════════════════════════════════════════════
// СУЩНОСТЬ
// ══════════════════════════════════════════════════════════════════════════════

// Notification - одно уведомление в ленте пользователя.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      Type      `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
}

// New создаёт уведомление с валидацией полей.
func New(userID string, typ Type, title, message, icon string) (*Notification, error) {
	if userID == "" {
		return nil, ErrEmptyRecipient
	}
	if !typ.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, typ)
	}
	if title == "" {
		return nil, ErrEmptyTitle
	}

	return &Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		Icon:      icon,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ПОРТ ЛЕНТЫ
// ══════════════════════════════════════════════════════════════════════════════

// FeedMaxLength - максимальная длина ленты на пользователя.
const FeedMaxLength = 50

// Feed - лента уведомлений пользователя (обычно Redis-список с TTL).
type Feed interface {
	// Push добавляет уведомление в начало ленты и обрезает хвост.
	Push(ctx context.Context, n *Notification) error

	// Recent возвращает последние limit уведомлений, новые первыми.
	Recent(ctx context.Context, userID string, limit int) ([]*Notification, error)

	// Clear очищает ленту пользователя.
	Clear(ctx context.Context, userID string) error
}
