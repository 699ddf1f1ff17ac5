package session

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Сессии живут в двух ярусах: надёжное хранилище (Postgres) и быстрый
// кеш в памяти процесса. Контракты обоих ярусов определены здесь,
// реализации - в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Store определяет операции надёжного яруса хранения сессий.
type Store interface {
	// Create сохраняет новую сессию.
	Create(ctx context.Context, sess *Session) error

	// GetByToken возвращает сессию по токену (включая неактивные).
	// Возвращает ErrSessionNotFound, если записи нет.
	GetByToken(ctx context.Context, token string) (*Session, error)

	// TouchUsed обновляет время последнего использования.
	TouchUsed(ctx context.Context, token string) error

	// Deactivate помечает сессию неактивной. Идемпотентна:
	// повторная деактивация не является ошибкой.
	Deactivate(ctx context.Context, token string) error

	// DeactivateAllForUser помечает все сессии пользователя неактивными.
	DeactivateAllForUser(ctx context.Context, userID string) error

	// PruneInactive удаляет неактивные сессии старше указанного срока.
	// Возвращает количество удалённых записей.
	PruneInactive(ctx context.Context, olderThan time.Duration) (int, error)

	// CountActive возвращает количество активных сессий.
	CountActive(ctx context.Context) (int, error)
}

// FastCache определяет быстрый ярус поиска сессий.
// Реализация - шардированная конкурентная карта в памяти процесса
// с блокировкой на уровне шарда.
type FastCache interface {
	// Get возвращает сессию из кеша. Второе значение false при промахе.
	Get(token string) (*Session, bool)

	// Put кладёт сессию в кеш.
	Put(sess *Session)

	// TouchUsed обновляет время последнего использования в кеше.
	TouchUsed(token string)

	// Evict удаляет сессию из кеша. Идемпотентна.
	Evict(token string)

	// Len возвращает количество закешированных сессий.
	Len() int
}

// Manager определяет высокоуровневые операции движка сессий.
// Реализация объединяет оба яруса по схеме cache-aside.
type Manager interface {
	// Start создаёт новую сессию для пользователя в обоих ярусах.
	Start(ctx context.Context, userID, username string) (*Session, error)

	// Resolve разрешает токен в сессию и обновляет время последнего
	// использования в обоих ярусах. Неизвестный или неактивный токен
	// возвращает ErrSessionNotFound.
	Resolve(ctx context.Context, token string) (*Session, error)

	// Invalidate завершает сессию: деактивирует в хранилище и убирает
	// из кеша. Идемпотентна - повторный вызов это no-op.
	Invalidate(ctx context.Context, token string) error
}
