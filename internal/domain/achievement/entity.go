package achievement

import (
	"errors"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrNotFound - запись достижения не найдена.
	ErrNotFound = errors.New("achievement not found")

	// ErrAlreadyUnlocked - достижение уже разблокировано.
	// Повторная разблокировка - идемпотентный no-op.
	ErrAlreadyUnlocked = errors.New("achievement already unlocked")

	// ErrUnknownType - тип отсутствует в каталоге.
	ErrUnknownType = errors.New("achievement type not in catalog")
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: USER ACHIEVEMENT
// ══════════════════════════════════════════════════════════════════════════════

// UserAchievement - состояние одного достижения у одного пользователя.
// Записи создаются заблокированными при регистрации, переход
// locked -> unlocked выполняется через compare-and-set в хранилище
// и происходит не более одного раза.
type UserAchievement struct {
	// UserID - владелец записи.
	UserID string

	// Type - идентификатор достижения из каталога.
	Type Type

	// Unlocked - разблокировано ли достижение.
	Unlocked bool

	// UnlockedAt - время разблокировки (нулевое для заблокированных).
	UnlockedAt time.Time
}

// NewLockedSet создаёт полный набор заблокированных достижений
// для нового пользователя - по одной записи на каждый элемент каталога.
func NewLockedSet(userID string) []*UserAchievement {
	defs := Catalog()
	set := make([]*UserAchievement, 0, len(defs))

	for _, def := range defs {
		set = append(set, &UserAchievement{
			UserID: userID,
			Type:   def.Type,
		})
	}

	return set
}

// Definition возвращает определение достижения из каталога.
func (a *UserAchievement) Definition() (Definition, bool) {
	return GetDefinition(a.Type)
}
