package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/progression"
)

// Счётчики активности двигаются только внутри транзакции журнала, по
// колонке на действие. Потерянная здесь привязка означает потерянные
// инкременты под конкурентной нагрузкой.
func TestActionCounters(t *testing.T) {
	assert.Equal(t, "tasks_created", actionCounters[progression.ActionTaskCreated])
	assert.Equal(t, "tasks_completed", actionCounters[progression.ActionTaskCompleted])
	assert.Equal(t, "applications_submitted", actionCounters[progression.ActionJobApplication])
	assert.Equal(t, "commands_executed", actionCounters[progression.ActionTerminalCommand])
	assert.Equal(t, "easter_eggs_found", actionCounters[progression.ActionEasterEgg])
	assert.Equal(t, "easter_eggs_found", actionCounters[progression.ActionKonamiCode])
}

func TestActionCounters_StateActionsHaveNoCounter(t *testing.T) {
	// Состояние без счётчика (накопления, рекорд Pong, просмотр
	// релокации) пишет UserRepository.Update; бонусное событие
	// достижения не двигает achievements_unlocked - это делает
	// выигравшая CAS-транзакция разблокировки.
	for _, action := range []progression.Action{
		progression.ActionSavingsUpdate,
		progression.ActionRefreshJobs,
		progression.ActionPongHighScore,
		progression.ActionRelocationView,
		progression.ActionTasksImported,
		progression.ActionAchievementUnlocked,
	} {
		_, ok := actionCounters[action]
		assert.False(t, ok, string(action))
	}
}
