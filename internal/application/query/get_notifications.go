package query

import (
	"context"
	"fmt"
	"time"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/notification"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET NOTIFICATIONS QUERY
// Лента уведомлений пользователя из быстрого хранилища. Лента - побочный
// продукт доменных событий и не хранится в базе: пустой ответ для нового
// пользователя нормален.
// ══════════════════════════════════════════════════════════════════════════════

// GetNotificationsQuery содержит параметры запроса ленты.
type GetNotificationsQuery struct {
	// UserID - внутренний ID пользователя.
	UserID string

	// Limit - максимум уведомлений (по умолчанию вся лента).
	Limit int
}

// Validate проверяет и нормализует параметры.
func (q *GetNotificationsQuery) Validate() error {
	if q.UserID == "" {
		return user.ErrUserNotFound
	}
	if q.Limit <= 0 || q.Limit > notification.FeedMaxLength {
		q.Limit = notification.FeedMaxLength
	}
	return nil
}

// NotificationDTO - одно уведомление для выдачи наружу.
type NotificationDTO struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Icon      string    `json:"icon,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationListDTO - лента уведомлений.
type NotificationListDTO struct {
	Notifications []NotificationDTO `json:"notifications"`
	Count         int               `json:"count"`
}

// GetNotificationsHandler обрабатывает запрос ленты.
type GetNotificationsHandler struct {
	feed notification.Feed
}

// NewGetNotificationsHandler создаёт новый GetNotificationsHandler.
func NewGetNotificationsHandler(feed notification.Feed) *GetNotificationsHandler {
	return &GetNotificationsHandler{feed: feed}
}

// Handle выполняет запрос ленты.
func (h *GetNotificationsHandler) Handle(ctx context.Context, q GetNotificationsQuery) (*NotificationListDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	items, err := h.feed.Recent(ctx, q.UserID, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("get_notifications: %w", err)
	}

	dtos := make([]NotificationDTO, 0, len(items))
	for _, n := range items {
		dtos = append(dtos, NotificationDTO{
			ID:        n.ID,
			Type:      string(n.Type),
			Title:     n.Title,
			Message:   n.Message,
			Icon:      n.Icon,
			CreatedAt: n.CreatedAt,
		})
	}

	return &NotificationListDTO{
		Notifications: dtos,
		Count:         len(dtos),
	}, nil
}
