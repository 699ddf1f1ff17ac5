// Package progression содержит журнал начислений очков продуктивности.
// Журнал append-only: каждое значимое действие пользователя добавляет
// событие с дельтой очков, а счёт пользователя всегда равен сумме дельт.
package progression

import (
	"errors"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACTIONS & POINT SCHEDULE
// Фиксированная таблица начислений. Новые действия добавляются здесь.
// ══════════════════════════════════════════════════════════════════════════════

// Action представляет тип действия, за которое начисляются очки.
type Action string

const (
	// ActionTaskCreated - создана задача.
	ActionTaskCreated Action = "task_created"
	// ActionTaskCompleted - выполнена задача.
	ActionTaskCompleted Action = "task_completed"
	// ActionTasksImported - импортированы задачи из внешнего списка.
	ActionTasksImported Action = "tasks_imported"
	// ActionJobApplication - отправлен отклик на вакансию.
	ActionJobApplication Action = "job_application"
	// ActionSavingsUpdate - обновлены накопления.
	ActionSavingsUpdate Action = "savings_update"
	// ActionRefreshJobs - обновлён список вакансий.
	ActionRefreshJobs Action = "refresh_jobs"
	// ActionTerminalCommand - выполнена команда терминала.
	ActionTerminalCommand Action = "terminal_command"
	// ActionEasterEgg - найдена пасхалка.
	ActionEasterEgg Action = "easter_egg"
	// ActionKonamiCode - найдена особая пасхалка (Konami).
	ActionKonamiCode Action = "konami_code"
	// ActionPongHighScore - установлен новый рекорд в Pong.
	ActionPongHighScore Action = "pong_high_score"
	// ActionRelocationView - просмотр данных о релокации.
	ActionRelocationView Action = "relocation_view"
	// ActionAchievementUnlocked - бонус за разблокировку достижения.
	ActionAchievementUnlocked Action = "achievement_unlocked"
)

// pointSchedule - таблица начислений по действиям.
var pointSchedule = map[Action]int{
	ActionTaskCreated:         5,
	ActionTaskCompleted:       20,
	ActionTasksImported:       15,
	ActionJobApplication:      15,
	ActionSavingsUpdate:       10,
	ActionRefreshJobs:         5,
	ActionTerminalCommand:     2,
	ActionEasterEgg:           10,
	ActionKonamiCode:          50,
	ActionPongHighScore:       15,
	ActionRelocationView:      0,
	ActionAchievementUnlocked: 50,
}

// IsValid проверяет, что действие известно журналу.
func (a Action) IsValid() bool {
	_, ok := pointSchedule[a]
	return ok
}

// String возвращает строковое представление действия.
func (a Action) String() string {
	return string(a)
}

// PointsFor возвращает количество очков за действие.
// Неизвестное действие стоит 0 очков.
func PointsFor(action Action) int {
	return pointSchedule[action]
}

// AchievementBonus - бонус за разблокировку достижения.
const AchievementBonus = 50

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrUnknownAction - действие отсутствует в таблице начислений.
	ErrUnknownAction = errors.New("unknown ledger action")

	// ErrEmptyUserID - событие без владельца.
	ErrEmptyUserID = errors.New("ledger event requires user id")
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: LEDGER EVENT
// ══════════════════════════════════════════════════════════════════════════════

// Event - одна запись журнала начислений. Записи никогда не меняются
// и не удаляются.
type Event struct {
	// ID - уникальный идентификатор записи (UUID).
	ID string

	// UserID - владелец записи.
	UserID string

	// Action - тип действия.
	Action Action

	// Points - дельта очков (может быть нулевой, например relocation_view).
	Points int

	// Metadata - дополнительный контекст действия.
	Metadata map[string]string

	// OccurredAt - время действия.
	OccurredAt time.Time
}

// NewEvent создаёт запись журнала для действия по таблице начислений.
func NewEvent(id, userID string, action Action) (*Event, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	if !action.IsValid() {
		return nil, ErrUnknownAction
	}

	return &Event{
		ID:         id,
		UserID:     userID,
		Action:     action,
		Points:     PointsFor(action),
		OccurredAt: time.Now().UTC(),
	}, nil
}

// WithMetadata добавляет контекст к записи.
func (e *Event) WithMetadata(key, value string) *Event {
	if e.Metadata == nil {
		e.Metadata = make(map[string]string)
	}
	e.Metadata[key] = value
	return e
}
