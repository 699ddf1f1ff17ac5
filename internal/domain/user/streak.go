package user

import (
	"time"

	"github.com/Darkprophet2323/thriveremote-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// STREAK (Серия активных дней)
// Правила перехода:
//   - тот же день, что и LastStreakDate - ничего не меняется;
//   - LastStreakDate был вчера - серия продолжается (+1);
//   - иначе (пропуск или первая активность) - серия сбрасывается до 1.
// При каждом срабатывании (не тот же день) TotalSessions увеличивается
// ровно на единицу и LastStreakDate устанавливается на сегодня.
// ══════════════════════════════════════════════════════════════════════════════

// StreakTransition описывает результат одного касания серии.
type StreakTransition struct {
	// Fired - правило сработало (день отличался от LastStreakDate).
	Fired bool

	// Extended - серия продолжена (вчерашний день).
	Extended bool

	// Reset - серия сброшена до 1 (пропуск дней или первая активность).
	Reset bool

	// PreviousStreak - серия до перехода.
	PreviousStreak int

	// Streak - серия после перехода.
	Streak int

	// DaysMissed - сколько дней пропущено при сбросе (0 при продолжении).
	DaysMissed int
}

// TouchStreak применяет правило серии к пользователю на дату now.
// Повторное касание в тот же день - no-op: ни серия, ни TotalSessions
// не меняются.
func (u *User) TouchStreak(now time.Time) StreakTransition {
	today := timeutil.StartOfDay(now)
	prev := u.DailyStreak

	// Первая активность пользователя
	if u.LastStreakDate.IsZero() {
		u.DailyStreak = 1
		u.TotalSessions++
		u.LastStreakDate = today
		u.Touch()

		return StreakTransition{
			Fired:          true,
			Reset:          true,
			PreviousStreak: prev,
			Streak:         1,
		}
	}

	// Знаковая разница: LastStreakDate в будущем (сдвиг часов) попадает
	// в ветку сброса, а не засчитывается как "вчера".
	daysDiff := timeutil.DaysDiff(u.LastStreakDate, today)

	switch daysDiff {
	case 0:
		// Тот же день - ничего не меняем
		return StreakTransition{
			PreviousStreak: prev,
			Streak:         prev,
		}
	case 1:
		// Следующий день - продолжаем серию
		u.DailyStreak++
		u.TotalSessions++
		u.LastStreakDate = today
		u.Touch()

		return StreakTransition{
			Fired:          true,
			Extended:       true,
			PreviousStreak: prev,
			Streak:         u.DailyStreak,
		}
	default:
		// Пропущены дни (или дата из будущего) - сбрасываем серию
		missed := daysDiff - 1
		if missed < 0 {
			missed = 0
		}

		u.DailyStreak = 1
		u.TotalSessions++
		u.LastStreakDate = today
		u.Touch()

		return StreakTransition{
			Fired:          true,
			Reset:          true,
			PreviousStreak: prev,
			Streak:         1,
			DaysMissed:     missed,
		}
	}
}

// StreakAtRisk проверяет, сгорит ли серия без активности сегодня.
func (u *User) StreakAtRisk(now time.Time) bool {
	if u.LastStreakDate.IsZero() || u.DailyStreak == 0 {
		return false
	}

	return timeutil.DaysDiff(u.LastStreakDate, now) == 1
}
