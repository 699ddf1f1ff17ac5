package eventhandler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/notification"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/shared"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON STREAK UPDATED HANDLER
// Обрабатывает срабатывание серии активных дней.
//
// Ключевые функции:
// 1. Инвалидация кеша профиля — серия и счётчик дней изменились
// 2. Уведомления о вехах серии (3, 7, 14, 30 дней)
// 3. Уведомление о сломанной серии — мягкое, без укора
//
// Отдельный обработчик регистрируется и на streak_updated, и на
// streak_broken: оба события меняют одни и те же поля профиля.
// ═══════════════════════════════════════════════════════════════════════════

// streakMilestones - вехи серии, о которых сообщаем пользователю.
var streakMilestones = map[int]string{
	3:  "Three days in a row. Momentum is building!",
	7:  "A full week of activity. Weekly Warrior territory!",
	14: "Two weeks straight. Impressive discipline!",
	30: "Thirty days. You are unstoppable!",
}

// OnStreakUpdatedHandler обрабатывает события серии.
type OnStreakUpdatedHandler struct {
	userCache user.Cache
	feed      notification.Feed
	logger    *slog.Logger
}

// NewOnStreakUpdatedHandler создаёт новый обработчик.
func NewOnStreakUpdatedHandler(
	userCache user.Cache,
	feed notification.Feed,
	logger *slog.Logger,
) *OnStreakUpdatedHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &OnStreakUpdatedHandler{
		userCache: userCache,
		feed:      feed,
		logger:    logger,
	}
}

// Handle обрабатывает событие серии.
// Реализует интерфейс shared.EventHandler.
func (h *OnStreakUpdatedHandler) Handle(event shared.Event) error {
	ctx := context.Background()

	switch e := event.(type) {
	case shared.StreakUpdatedEvent:
		h.invalidate(ctx, e.UserID)
		if e.Extended {
			h.notifyMilestone(ctx, e)
		}
	case shared.StreakBrokenEvent:
		h.invalidate(ctx, e.UserID)
		h.notifyBroken(ctx, e)
	default:
		h.logger.Warn("received unexpected event",
			"event_type", event.EventType(),
		)
	}

	return nil
}

func (h *OnStreakUpdatedHandler) invalidate(ctx context.Context, userID string) {
	if h.userCache == nil {
		return
	}
	if err := h.userCache.Invalidate(ctx, userID); err != nil {
		h.logger.Error("failed to invalidate user cache",
			"user_id", userID,
			"error", err,
		)
	}
}

func (h *OnStreakUpdatedHandler) notifyMilestone(ctx context.Context, event shared.StreakUpdatedEvent) {
	message, ok := streakMilestones[event.Streak]
	if !ok || h.feed == nil {
		return
	}

	notif, err := notification.New(
		event.UserID,
		notification.TypeStreakExtended,
		fmt.Sprintf("%d-day streak!", event.Streak),
		message,
		"🔥",
	)
	if err != nil {
		h.logger.Error("failed to build streak notification",
			"user_id", event.UserID,
			"error", err,
		)
		return
	}

	if err := h.feed.Push(ctx, notif); err != nil {
		h.logger.Error("failed to push streak notification",
			"user_id", event.UserID,
			"error", err,
		)
	}
}

func (h *OnStreakUpdatedHandler) notifyBroken(ctx context.Context, event shared.StreakBrokenEvent) {
	if h.feed == nil || event.PreviousStreak < 3 {
		// Короткие серии ломаются без церемоний.
		return
	}

	notif, err := notification.New(
		event.UserID,
		notification.TypeStreakBroken,
		"Streak reset",
		fmt.Sprintf("Your %d-day streak ended. Today is a fresh start.", event.PreviousStreak),
		"🌱",
	)
	if err != nil {
		h.logger.Error("failed to build streak broken notification",
			"user_id", event.UserID,
			"error", err,
		)
		return
	}

	if err := h.feed.Push(ctx, notif); err != nil {
		h.logger.Error("failed to push streak broken notification",
			"user_id", event.UserID,
			"error", err,
		)
	}
}
