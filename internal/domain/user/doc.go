// Package user содержит доменную модель пользователя ThriveRemote.
//
// Это ядро бизнес-логики движка сессий и прогрессии. Пакет определяет:
//
//   - Сущности (Entities): User
//   - Value Objects: Username, Score, ProductivityLevel, StreakTransition
//   - Правила серии активных дней (TouchStreak)
//   - Интерфейсы репозиториев: Repository, Cache
//
// # Архитектурные принципы
//
// Пакет следует принципам Clean Architecture и DDD:
//
//  1. Нулевые внешние зависимости - только стандартная библиотека Go
//  2. Dependency Inversion - определяет интерфейсы, которые реализуются в infrastructure
//  3. Rich Domain Model - бизнес-логика инкапсулирована в сущностях
//
// # Основные инварианты
//
// Очки продуктивности меняются только через журнал начислений:
// ProductivityScore всегда равен сумме дельт журнала. Методы сущности
// меняют счётчики действий, а само начисление очков выполняет
// application-слой атомарно вместе с записью в журнал.
//
// Серия активных дней подчиняется трём правилам:
//
//	transition := user.TouchStreak(time.Now())
//	// тот же день   -> no-op
//	// вчера         -> серия+1
//	// пропуск дней  -> серия = 1
//
// При каждом срабатывании TotalSessions увеличивается ровно на единицу.
//
// # Гостевой доступ
//
// Запросы без токена сессии разрешаются в фиксированную гостевую
// идентичность GuestUsername ("demo_user"), которая создаётся
// автоматически при первом обращении:
//
//	guest := NewGuestUser(uuid.New().String())
package user
