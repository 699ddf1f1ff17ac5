// Package eventhandler содержит обработчики доменных событий.
package eventhandler

import (
	"context"
	"log/slog"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/notification"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/shared"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON ACHIEVEMENT UNLOCKED HANDLER
// Обрабатывает разблокировку достижения.
//
// Ключевые функции:
// 1. Инвалидация кеша профиля — счёт и счётчик достижений изменились
// 2. Публикация уведомления в ленту пользователя
//
// Обработчик никогда не возвращает ошибку наружу: разблокировка уже
// произошла и зафиксирована в хранилище, побочные эффекты вторичны.
// ═══════════════════════════════════════════════════════════════════════════

// OnAchievementUnlockedHandler обрабатывает событие разблокировки.
type OnAchievementUnlockedHandler struct {
	userCache user.Cache
	feed      notification.Feed
	logger    *slog.Logger
}

// NewOnAchievementUnlockedHandler создаёт новый обработчик.
func NewOnAchievementUnlockedHandler(
	userCache user.Cache,
	feed notification.Feed,
	logger *slog.Logger,
) *OnAchievementUnlockedHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &OnAchievementUnlockedHandler{
		userCache: userCache,
		feed:      feed,
		logger:    logger,
	}
}

// Handle обрабатывает событие разблокировки достижения.
// Реализует интерфейс shared.EventHandler.
func (h *OnAchievementUnlockedHandler) Handle(event shared.Event) error {
	ctx := context.Background()

	unlockEvent, ok := event.(shared.AchievementUnlockedEvent)
	if !ok {
		h.logger.Warn("received non-AchievementUnlockedEvent",
			"event_type", event.EventType(),
		)
		return nil
	}

	h.logger.Info("processing achievement unlocked event",
		"user_id", unlockEvent.UserID,
		"achievement", unlockEvent.AchievementID,
		"bonus", unlockEvent.BonusPoints,
	)

	// 1. Инвалидируем кеш профиля — следующий запрос увидит новый счёт
	if h.userCache != nil {
		if err := h.userCache.Invalidate(ctx, unlockEvent.UserID); err != nil {
			h.logger.Error("failed to invalidate user cache",
				"user_id", unlockEvent.UserID,
				"error", err,
			)
		}
	}

	// 2. Публикуем уведомление в ленту
	if h.feed != nil {
		h.pushNotification(ctx, unlockEvent)
	}

	return nil
}

func (h *OnAchievementUnlockedHandler) pushNotification(ctx context.Context, event shared.AchievementUnlockedEvent) {
	notif, err := notification.New(
		event.UserID,
		notification.TypeAchievementUnlocked,
		"Achievement unlocked: "+event.Title,
		achievementMessage(event),
		event.Icon,
	)
	if err != nil {
		h.logger.Error("failed to build achievement notification",
			"user_id", event.UserID,
			"error", err,
		)
		return
	}

	if err := h.feed.Push(ctx, notif); err != nil {
		h.logger.Error("failed to push achievement notification",
			"user_id", event.UserID,
			"error", err,
		)
	}
}

func achievementMessage(event shared.AchievementUnlockedEvent) string {
	if event.BonusPoints > 0 {
		return "You earned a bonus for unlocking this achievement."
	}
	return "New achievement unlocked."
}
