// Package achievement содержит каталог достижений и правила их
// разблокировки. Каталог фиксирован: ровно девять достижений,
// определённых в коде, без загрузки из конфигурации.
package achievement

// ══════════════════════════════════════════════════════════════════════════════
// ACHIEVEMENT CATALOG
// ══════════════════════════════════════════════════════════════════════════════

// Type представляет идентификатор достижения в каталоге.
type Type string

const (
	// TypeFirstJobApply - первый отклик на вакансию.
	TypeFirstJobApply Type = "first_job_apply"
	// TypeSavingsMilestone25 - накоплено 25% цели.
	TypeSavingsMilestone25 Type = "savings_milestone_25"
	// TypeSavingsMilestone50 - накоплено 50% цели.
	TypeSavingsMilestone50 Type = "savings_milestone_50"
	// TypeTaskMaster - выполнено 10 задач.
	TypeTaskMaster Type = "task_master"
	// TypeTerminalNinja - выполнено 50 команд терминала.
	TypeTerminalNinja Type = "terminal_ninja"
	// TypePongChampion - счёт в Pong не меньше 200.
	TypePongChampion Type = "pong_champion"
	// TypeEasterHunter - найдено 5 пасхалок.
	TypeEasterHunter Type = "easter_hunter"
	// TypeStreakWeek - серия 7 дней подряд.
	TypeStreakWeek Type = "streak_week"
	// TypeRelocationExplorer - просмотрены данные о релокации.
	TypeRelocationExplorer Type = "relocation_explorer"
)

// Definition описывает достижение каталога.
type Definition struct {
	Type        Type
	Title       string
	Description string
	Icon        string
	BonusPoints int
}

// Catalog возвращает все девять определений достижений.
// Порядок стабилен и используется при выводе.
func Catalog() []Definition {
	return []Definition{
		{TypeFirstJobApply, "First Step", "Подана первая заявка на вакансию", "🎯", BonusPoints},
		{TypeSavingsMilestone25, "Quarter Way There", "Накоплено 25% цели", "💰", BonusPoints},
		{TypeSavingsMilestone50, "Halfway Hero", "Накоплено 50% цели", "💎", BonusPoints},
		{TypeTaskMaster, "Task Master", "Выполнено 10 задач", "✅", BonusPoints},
		{TypeTerminalNinja, "Terminal Ninja", "Выполнено 50 команд терминала", "⚡", BonusPoints},
		{TypePongChampion, "Pong Champion", "Счёт в Pong не меньше 200", "🏆", BonusPoints},
		{TypeEasterHunter, "Easter Egg Hunter", "Найдено 5 пасхалок", "🥚", BonusPoints},
		{TypeStreakWeek, "Weekly Warrior", "7 дней активности подряд", "🔥", BonusPoints},
		{TypeRelocationExplorer, "Relocation Explorer", "Изучены данные о релокации", "🏡", BonusPoints},
	}
}

// BonusPoints - бонус очков за разблокировку любого достижения.
// Начисляется через журнал ровно один раз.
const BonusPoints = 50

// GetDefinition возвращает определение достижения по типу.
func GetDefinition(t Type) (Definition, bool) {
	for _, def := range Catalog() {
		if def.Type == t {
			return def, true
		}
	}
	return Definition{}, false
}

// IsValid проверяет, что тип присутствует в каталоге.
func (t Type) IsValid() bool {
	_, ok := GetDefinition(t)
	return ok
}

// String возвращает строковое представление типа.
func (t Type) String() string {
	return string(t)
}

// ══════════════════════════════════════════════════════════════════════════════
// THRESHOLDS
// Пороговые значения проверяются вызывающим действием, а не фоновым
// сканером: действие меняет счётчик и сразу оценивает условие.
// ══════════════════════════════════════════════════════════════════════════════

const (
	// TaskMasterThreshold - задач для Task Master.
	TaskMasterThreshold = 10
	// TerminalNinjaThreshold - команд для Terminal Ninja.
	TerminalNinjaThreshold = 50
	// PongChampionThreshold - минимальный счёт для Pong Champion.
	PongChampionThreshold = 200
	// EasterHunterThreshold - пасхалок для Easter Egg Hunter.
	EasterHunterThreshold = 5
	// StreakWeekThreshold - дней серии для Weekly Warrior.
	StreakWeekThreshold = 7
	// SavingsMilestone25Percent - процент цели для первой вехи.
	SavingsMilestone25Percent = 25.0
	// SavingsMilestone50Percent - процент цели для второй вехи.
	SavingsMilestone50Percent = 50.0
)
