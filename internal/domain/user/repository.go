package user

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Эти интерфейсы определяют контракт для работы с хранилищем данных.
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет основные операции CRUD для пользователей.
type Repository interface {
	// ─────────────────────────────────────────────────────────────────────────
	// CRUD Operations
	// ─────────────────────────────────────────────────────────────────────────

	// Create создаёт нового пользователя.
	// Возвращает ErrUserAlreadyExists, если имя пользователя занято.
	Create(ctx context.Context, user *User) error

	// GetByID возвращает пользователя по внутреннему ID.
	// Возвращает ErrUserNotFound, если пользователь не найден.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByUsername возвращает пользователя по имени.
	// Возвращает ErrUserNotFound, если пользователь не найден.
	GetByUsername(ctx context.Context, username Username) (*User, error)

	// Update обновляет данные пользователя.
	// Возвращает ErrUserNotFound, если пользователь не найден.
	Update(ctx context.Context, user *User) error

	// ─────────────────────────────────────────────────────────────────────────
	// Bulk Operations
	// ─────────────────────────────────────────────────────────────────────────

	// GetAll возвращает всех пользователей с пагинацией.
	GetAll(ctx context.Context, opts ListOptions) ([]*User, error)

	// Count возвращает общее количество пользователей.
	Count(ctx context.Context) (int, error)

	// GetTopByScore возвращает пользователей с наибольшим счётом.
	GetTopByScore(ctx context.Context, limit int) ([]*User, error)

	// ─────────────────────────────────────────────────────────────────────────
	// Existence Checks
	// ─────────────────────────────────────────────────────────────────────────

	// Exists проверяет существование пользователя по ID.
	Exists(ctx context.Context, id string) (bool, error)

	// ExistsByUsername проверяет, занято ли имя пользователя.
	ExistsByUsername(ctx context.Context, username Username) (bool, error)
}

// ListOptions содержит параметры для пагинации и сортировки.
type ListOptions struct {
	// Offset - смещение (для пагинации).
	Offset int

	// Limit - максимальное количество записей.
	Limit int

	// SortBy - поле для сортировки.
	SortBy string

	// SortDesc - сортировка по убыванию.
	SortDesc bool
}

// DefaultListOptions возвращает параметры по умолчанию.
func DefaultListOptions() ListOptions {
	return ListOptions{
		Offset:   0,
		Limit:    50,
		SortBy:   "productivity_score",
		SortDesc: true,
	}
}

// WithOffset устанавливает смещение.
func (o ListOptions) WithOffset(offset int) ListOptions {
	o.Offset = offset
	return o
}

// WithLimit устанавливает лимит.
func (o ListOptions) WithLimit(limit int) ListOptions {
	o.Limit = limit
	return o
}

// WithSort устанавливает сортировку.
func (o ListOptions) WithSort(field string, desc bool) ListOptions {
	o.SortBy = field
	o.SortDesc = desc
	return o
}

// ══════════════════════════════════════════════════════════════════════════════
// CACHE INTERFACE
// Для кеширования часто запрашиваемых профилей (обычно через Redis).
// ══════════════════════════════════════════════════════════════════════════════

// Cache определяет операции кеширования данных пользователей.
type Cache interface {
	// Get получает пользователя из кеша.
	Get(ctx context.Context, userID string) (*User, error)

	// Set сохраняет пользователя в кеш.
	Set(ctx context.Context, user *User, ttl time.Duration) error

	// Delete удаляет пользователя из кеша.
	Delete(ctx context.Context, userID string) error

	// GetByUsername получает пользователя из кеша по имени.
	GetByUsername(ctx context.Context, username Username) (*User, error)

	// SetByUsername сохраняет пользователя в кеш с ключом по имени.
	SetByUsername(ctx context.Context, user *User, ttl time.Duration) error

	// Invalidate инвалидирует все записи пользователя в кеше.
	Invalidate(ctx context.Context, userID string) error
}
