// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET USER PROFILE QUERY
// Возвращает профиль пользователя по схеме cache-aside: сначала кеш,
// при промахе - база с последующим заполнением кеша. Любая ошибка кеша
// трактуется как промах: профиль важнее, чем кеш.
// ══════════════════════════════════════════════════════════════════════════════

// ProfileCacheTTL - время жизни профиля в кеше.
const ProfileCacheTTL = 10 * time.Minute

// GetUserProfileQuery содержит параметры запроса профиля.
type GetUserProfileQuery struct {
	// UserID - внутренний ID пользователя.
	UserID string

	// Username - альтернативная идентификация по имени.
	Username string
}

// Validate проверяет корректность параметров.
func (q GetUserProfileQuery) Validate() error {
	if q.UserID == "" && q.Username == "" {
		return user.ErrUserNotFound
	}
	return nil
}

// UserProfileDTO - профиль пользователя для выдачи наружу.
type UserProfileDTO struct {
	ID                    string    `json:"id"`
	Username              string    `json:"username"`
	Email                 string    `json:"email,omitempty"`
	ProductivityScore     int       `json:"productivity_score"`
	Level                 int       `json:"level"`
	DailyStreak           int       `json:"daily_streak"`
	TotalSessions         int       `json:"total_sessions"`
	TasksCompleted        int       `json:"tasks_completed"`
	TasksCreated          int       `json:"tasks_created"`
	ApplicationsSubmitted int       `json:"applications_submitted"`
	CommandsExecuted      int       `json:"commands_executed"`
	EasterEggsFound       int       `json:"easter_eggs_found"`
	PongHighScore         int       `json:"pong_high_score"`
	SavingsGoal           float64   `json:"savings_goal"`
	CurrentSavings        float64   `json:"current_savings"`
	SavingsPercent        float64   `json:"savings_percent"`
	AchievementsUnlocked  int       `json:"achievements_unlocked"`
	RelocationViewed      bool      `json:"relocation_viewed"`
	IsGuest               bool      `json:"is_guest"`
	LastActiveAt          time.Time `json:"last_active_at"`
	CreatedAt             time.Time `json:"created_at"`
}

// NewUserProfileDTO собирает DTO из доменной сущности.
func NewUserProfileDTO(u *user.User) *UserProfileDTO {
	return &UserProfileDTO{
		ID:                    u.ID,
		Username:              u.Username.String(),
		Email:                 u.Email,
		ProductivityScore:     int(u.ProductivityScore),
		Level:                 int(u.Level()),
		DailyStreak:           u.DailyStreak,
		TotalSessions:         u.TotalSessions,
		TasksCompleted:        u.TasksCompleted,
		TasksCreated:          u.TasksCreated,
		ApplicationsSubmitted: u.ApplicationsSubmitted,
		CommandsExecuted:      u.CommandsExecuted,
		EasterEggsFound:       u.EasterEggsFound,
		PongHighScore:         u.PongHighScore,
		SavingsGoal:           u.SavingsGoal,
		CurrentSavings:        u.CurrentSavings,
		SavingsPercent:        u.SavingsPercent(),
		AchievementsUnlocked:  u.AchievementsUnlocked,
		RelocationViewed:      u.RelocationViewed,
		IsGuest:               u.IsGuest,
		LastActiveAt:          u.LastActiveAt,
		CreatedAt:             u.CreatedAt,
	}
}

// GetUserProfileHandler обрабатывает запрос профиля.
type GetUserProfileHandler struct {
	userRepo user.Repository
	cache    user.Cache
}

// NewGetUserProfileHandler создаёт новый GetUserProfileHandler.
func NewGetUserProfileHandler(userRepo user.Repository, cache user.Cache) *GetUserProfileHandler {
	return &GetUserProfileHandler{
		userRepo: userRepo,
		cache:    cache,
	}
}

// Handle выполняет запрос профиля.
func (h *GetUserProfileHandler) Handle(ctx context.Context, q GetUserProfileQuery) (*UserProfileDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	usr, err := h.load(ctx, q)
	if err != nil {
		return nil, err
	}

	return NewUserProfileDTO(usr), nil
}

func (h *GetUserProfileHandler) load(ctx context.Context, q GetUserProfileQuery) (*user.User, error) {
	if q.UserID != "" {
		if h.cache != nil {
			if cached, err := h.cache.Get(ctx, q.UserID); err == nil {
				return cached, nil
			}
		}

		usr, err := h.userRepo.GetByID(ctx, q.UserID)
		if err != nil {
			return nil, fmt.Errorf("get_user_profile: %w", err)
		}
		h.fill(ctx, usr)
		return usr, nil
	}

	username := user.Username(q.Username).Normalize()

	if h.cache != nil {
		if cached, err := h.cache.GetByUsername(ctx, username); err == nil {
			return cached, nil
		}
	}

	usr, err := h.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get_user_profile: %w", err)
	}
	h.fill(ctx, usr)
	return usr, nil
}

// fill заполняет кеш после промаха; ошибки кеша не влияют на ответ.
func (h *GetUserProfileHandler) fill(ctx context.Context, usr *user.User) {
	if h.cache == nil {
		return
	}
	_ = h.cache.Set(ctx, usr, ProfileCacheTTL)
	_ = h.cache.SetByUsername(ctx, usr, ProfileCacheTTL)
}
