package achievement

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Реализация в infrastructure/persistence. Ключевое требование -
// TryUnlock: условное обновление "WHERE unlocked = false", при гонке
// побеждает ровно один вызов.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции хранения достижений пользователей.
type Repository interface {
	// InitForUser создаёт заблокированные записи всех достижений
	// каталога для нового пользователя. Идемпотентна: существующие
	// записи не трогаются.
	InitForUser(ctx context.Context, userID string) error

	// GetForUser возвращает все записи достижений пользователя.
	GetForUser(ctx context.Context, userID string) ([]*UserAchievement, error)

	// Get возвращает одну запись.
	// Возвращает ErrNotFound, если записи нет.
	Get(ctx context.Context, userID string, t Type) (*UserAchievement, error)

	// TryUnlock выполняет compare-and-set переход locked -> unlocked.
	// Возвращает true, если именно этот вызов разблокировал достижение,
	// и false, если оно уже было разблокировано (это не ошибка).
	TryUnlock(ctx context.Context, userID string, t Type) (bool, error)

	// CountUnlocked возвращает количество разблокированных достижений
	// пользователя.
	CountUnlocked(ctx context.Context, userID string) (int, error)
}
