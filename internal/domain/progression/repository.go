package progression

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEDGER INTERFACE
// Контракт журнала начислений. Реализация в infrastructure/persistence
// обязана выполнять Append атомарно: вставка записи и инкремент счёта
// пользователя происходят в одной транзакции.
// ══════════════════════════════════════════════════════════════════════════════

// Ledger определяет операции журнала начислений.
type Ledger interface {
	// Append добавляет запись и атомарно увеличивает счёт пользователя
	// на event.Points. Либо происходит и то и другое, либо ничего.
	Append(ctx context.Context, event *Event) error

	// GetRecent возвращает последние записи пользователя (новые первыми).
	GetRecent(ctx context.Context, userID string, limit int) ([]*Event, error)

	// GetByRange возвращает записи пользователя за период.
	GetByRange(ctx context.Context, userID string, from, to time.Time) ([]*Event, error)

	// SumPoints возвращает сумму дельт пользователя.
	// Используется для аудита инварианта score == SUM(points).
	SumPoints(ctx context.Context, userID string) (int, error)

	// CountByAction возвращает количество записей пользователя
	// с указанным действием.
	CountByAction(ctx context.Context, userID string, action Action) (int, error)
}
