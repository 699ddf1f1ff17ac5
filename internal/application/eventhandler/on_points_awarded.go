package eventhandler

import (
	"context"
	"log/slog"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/notification"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/progression"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/shared"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON POINTS AWARDED HANDLER
// Обрабатывает начисление очков.
//
// Ключевые функции:
// 1. Инвалидация кеша профиля — счёт изменился
// 2. Уведомление о новом рекорде в Pong
//
// Частые действия (команды терминала) проходят этот обработчик десятками,
// поэтому он должен оставаться дешёвым: один вызов кеша и изредка лента.
// ═══════════════════════════════════════════════════════════════════════════

// OnPointsAwardedHandler обрабатывает событие начисления очков.
type OnPointsAwardedHandler struct {
	userCache user.Cache
	feed      notification.Feed
	logger    *slog.Logger
}

// NewOnPointsAwardedHandler создаёт новый обработчик.
func NewOnPointsAwardedHandler(
	userCache user.Cache,
	feed notification.Feed,
	logger *slog.Logger,
) *OnPointsAwardedHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &OnPointsAwardedHandler{
		userCache: userCache,
		feed:      feed,
		logger:    logger,
	}
}

// Handle обрабатывает событие начисления очков.
// Реализует интерфейс shared.EventHandler.
func (h *OnPointsAwardedHandler) Handle(event shared.Event) error {
	ctx := context.Background()

	pointsEvent, ok := event.(shared.PointsAwardedEvent)
	if !ok {
		h.logger.Warn("received non-PointsAwardedEvent",
			"event_type", event.EventType(),
		)
		return nil
	}

	h.logger.Debug("processing points awarded event",
		"user_id", pointsEvent.UserID,
		"action", pointsEvent.Action,
		"points", pointsEvent.Points,
		"new_total", pointsEvent.NewTotal,
	)

	// 1. Инвалидируем кеш профиля
	if h.userCache != nil {
		if err := h.userCache.Invalidate(ctx, pointsEvent.UserID); err != nil {
			h.logger.Error("failed to invalidate user cache",
				"user_id", pointsEvent.UserID,
				"error", err,
			)
		}
	}

	// 2. Новый рекорд в Pong попадает в ленту
	if h.feed != nil && pointsEvent.Action == string(progression.ActionPongHighScore) {
		h.pushPongRecord(ctx, pointsEvent)
	}

	return nil
}

func (h *OnPointsAwardedHandler) pushPongRecord(ctx context.Context, event shared.PointsAwardedEvent) {
	notif, err := notification.New(
		event.UserID,
		notification.TypePongRecord,
		"New Pong record!",
		"You beat your previous high score.",
		"🏓",
	)
	if err != nil {
		h.logger.Error("failed to build pong notification",
			"user_id", event.UserID,
			"error", err,
		)
		return
	}

	if err := h.feed.Push(ctx, notif); err != nil {
		h.logger.Error("failed to push pong notification",
			"user_id", event.UserID,
			"error", err,
		)
	}
}
