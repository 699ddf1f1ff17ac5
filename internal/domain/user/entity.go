// Package user содержит доменную модель пользователя ThriveRemote.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package user

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Username представляет уникальное имя пользователя для входа.
type Username string

// IsValid проверяет корректность имени пользователя.
func (u Username) IsValid() bool {
	s := string(u)
	return len(s) >= 3 && len(s) <= 32 && !strings.ContainsAny(s, " \t\n\r")
}

// String возвращает строковое представление имени.
func (u Username) String() string {
	return string(u)
}

// Normalize возвращает имя в нижнем регистре.
func (u Username) Normalize() Username {
	return Username(strings.ToLower(string(u)))
}

// Score представляет очки продуктивности пользователя.
// Значение всегда равно сумме дельт в журнале начислений.
type Score int

// IsValid проверяет, что счёт неотрицательный.
func (s Score) IsValid() bool {
	return s >= 0
}

// Add складывает очки.
func (s Score) Add(delta int) Score {
	return Score(int(s) + delta)
}

// ProductivityLevel представляет уровень продуктивности, вычисляемый из очков.
type ProductivityLevel int

// CalculateLevel вычисляет уровень на основе очков.
// Формула: каждые 100 очков = 1 уровень, минимум 1.
func CalculateLevel(score Score) ProductivityLevel {
	if score < 0 {
		return 1
	}
	return ProductivityLevel(int(score)/100 + 1)
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: USER
// ══════════════════════════════════════════════════════════════════════════════

// DefaultSavingsGoal - цель накоплений по умолчанию для новых пользователей.
const DefaultSavingsGoal = 5000.0

// GuestUsername - фиксированное имя гостевого пользователя.
// Запросы без токена сессии разрешаются в эту идентичность.
const GuestUsername = "demo_user"

// User - центральная сущность системы: пользователь трекера продуктивности.
type User struct {
	// ID - внутренний уникальный идентификатор (UUID в строковом формате).
	ID string

	// Username - имя пользователя для входа (уникальное).
	Username Username

	// Email - адрес электронной почты (необязательный).
	Email string

	// PasswordHash - хеш пароля в формате "hex(hash):hex(salt)".
	// Пустая строка у гостевого пользователя.
	PasswordHash string

	// ProductivityScore - текущие очки продуктивности.
	// Инвариант: равно сумме дельт журнала начислений.
	ProductivityScore Score

	// DailyStreak - текущая серия активных дней.
	DailyStreak int

	// LastStreakDate - дата последнего срабатывания серии (без времени, UTC).
	LastStreakDate time.Time

	// TotalSessions - количество дней, в которые была активность.
	TotalSessions int

	// TasksCompleted - счётчик выполненных задач.
	TasksCompleted int

	// TasksCreated - счётчик созданных задач.
	TasksCreated int

	// ApplicationsSubmitted - счётчик отправленных откликов на вакансии.
	ApplicationsSubmitted int

	// CommandsExecuted - счётчик выполненных команд терминала.
	CommandsExecuted int

	// EasterEggsFound - счётчик найденных пасхалок.
	EasterEggsFound int

	// PongHighScore - рекорд в мини-игре Pong.
	PongHighScore int

	// SavingsGoal - цель накоплений.
	SavingsGoal float64

	// CurrentSavings - текущие накопления.
	CurrentSavings float64

	// AchievementsUnlocked - количество разблокированных достижений.
	AchievementsUnlocked int

	// RelocationViewed - просматривал ли пользователь данные о релокации.
	RelocationViewed bool

	// IsGuest - является ли пользователь гостевым (demo_user).
	IsGuest bool

	// LastActiveAt - время последней активности.
	LastActiveAt time.Time

	// CreatedAt - время создания записи.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidUsername - невалидное имя пользователя.
	ErrInvalidUsername = errors.New("invalid username: must be 3-32 chars without whitespace")

	// ErrInvalidPassword - невалидный пароль.
	ErrInvalidPassword = errors.New("invalid password: must be at least 6 chars")

	// ErrInvalidEmail - невалидный email.
	ErrInvalidEmail = errors.New("invalid email")

	// ErrInvalidSavings - невалидная сумма накоплений.
	ErrInvalidSavings = errors.New("invalid savings: must be non-negative")

	// ErrInvalidScore - невалидное значение очков.
	ErrInvalidScore = errors.New("invalid score: must be non-negative")

	// ErrUserNotFound - пользователь не найден.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists - пользователь уже существует.
	ErrUserAlreadyExists = errors.New("user already exists")
)

// MinPasswordLength - минимальная длина пароля.
const MinPasswordLength = 6

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewUserParams содержит параметры для создания нового пользователя.
type NewUserParams struct {
	ID           string
	Username     Username
	Email        string
	PasswordHash string
}

// NewUser создаёт нового пользователя с валидацией всех полей.
// Все счётчики обнулены, очки продуктивности равны нулю.
func NewUser(params NewUserParams) (*User, error) {
	if params.ID == "" {
		return nil, errors.New("user id is required")
	}

	if !params.Username.IsValid() {
		return nil, ErrInvalidUsername
	}

	email := strings.TrimSpace(params.Email)
	if email != "" && !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}

	now := time.Now().UTC()

	return &User{
		ID:                params.ID,
		Username:          params.Username.Normalize(),
		Email:             email,
		PasswordHash:      params.PasswordHash,
		ProductivityScore: 0,
		DailyStreak:       0,
		LastStreakDate:    time.Time{},
		TotalSessions:     0,
		SavingsGoal:       DefaultSavingsGoal,
		CurrentSavings:    0,
		LastActiveAt:      now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// NewGuestUser создаёт гостевого пользователя (demo_user).
// У гостя нет пароля и он создаётся автоматически при первом запросе без токена.
func NewGuestUser(id string) *User {
	now := time.Now().UTC()

	return &User{
		ID:           id,
		Username:     GuestUsername,
		PasswordHash: "",
		SavingsGoal:  DefaultSavingsGoal,
		IsGuest:      true,
		LastActiveAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS (Business Logic)
// ══════════════════════════════════════════════════════════════════════════════

// Level возвращает текущий уровень продуктивности.
func (u *User) Level() ProductivityLevel {
	return CalculateLevel(u.ProductivityScore)
}

// ApplyScoreDelta применяет дельту очков из журнала начислений.
// Сам счёт меняется только через журнал - прямых присваиваний нет.
func (u *User) ApplyScoreDelta(delta int) error {
	newScore := u.ProductivityScore.Add(delta)
	if !newScore.IsValid() {
		return ErrInvalidScore
	}

	u.ProductivityScore = newScore
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// Touch обновляет время последней активности.
func (u *User) Touch() {
	u.LastActiveAt = time.Now().UTC()
	u.UpdatedAt = u.LastActiveAt
}

// CompleteTask увеличивает счётчик выполненных задач.
func (u *User) CompleteTask() {
	u.TasksCompleted++
	u.Touch()
}

// CreateTask увеличивает счётчик созданных задач.
func (u *User) CreateTask() {
	u.TasksCreated++
	u.Touch()
}

// SubmitApplication увеличивает счётчик откликов на вакансии.
func (u *User) SubmitApplication() {
	u.ApplicationsSubmitted++
	u.Touch()
}

// RecordCommand увеличивает счётчик команд терминала.
func (u *User) RecordCommand() {
	u.CommandsExecuted++
	u.Touch()
}

// RecordEasterEgg увеличивает счётчик найденных пасхалок.
func (u *User) RecordEasterEgg() {
	u.EasterEggsFound++
	u.Touch()
}

// UpdateSavings устанавливает текущие накопления.
func (u *User) UpdateSavings(amount float64) error {
	if amount < 0 {
		return ErrInvalidSavings
	}

	u.CurrentSavings = amount
	u.Touch()
	return nil
}

// SetSavingsGoal устанавливает цель накоплений.
func (u *User) SetSavingsGoal(goal float64) error {
	if goal <= 0 {
		return ErrInvalidSavings
	}

	u.SavingsGoal = goal
	u.Touch()
	return nil
}

// SavingsPercent возвращает прогресс накоплений в процентах (0-100+).
func (u *User) SavingsPercent() float64 {
	if u.SavingsGoal <= 0 {
		return 0
	}
	return u.CurrentSavings / u.SavingsGoal * 100
}

// RecordPongScore записывает результат игры и возвращает true,
// если это новый рекорд.
func (u *User) RecordPongScore(score int) bool {
	u.Touch()

	if score <= u.PongHighScore {
		return false
	}

	u.PongHighScore = score
	return true
}

// MarkRelocationViewed отмечает просмотр данных о релокации.
// Возвращает true при первом просмотре.
func (u *User) MarkRelocationViewed() bool {
	u.Touch()

	if u.RelocationViewed {
		return false
	}

	u.RelocationViewed = true
	return true
}

// CountUnlockedAchievement увеличивает счётчик разблокированных достижений.
func (u *User) CountUnlockedAchievement() {
	u.AchievementsUnlocked++
	u.UpdatedAt = time.Now().UTC()
}

// String возвращает строковое представление пользователя для логирования.
func (u *User) String() string {
	return fmt.Sprintf(
		"User{ID: %s, Username: %s, Score: %d, Streak: %d, Sessions: %d}",
		u.ID, u.Username, u.ProductivityScore, u.DailyStreak, u.TotalSessions,
	)
}

// Clone создаёт глубокую копию пользователя.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}

	clone := *u
	return &clone
}
