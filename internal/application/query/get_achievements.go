package query

import (
	"context"
	"fmt"
	"time"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/achievement"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET ACHIEVEMENTS QUERY
// Соединяет каталог достижений с состоянием пользователя. Выдача всегда
// содержит все девять достижений в порядке каталога, даже если записи
// пользователя ещё не созданы.
// ══════════════════════════════════════════════════════════════════════════════

// GetAchievementsQuery содержит параметры запроса достижений.
type GetAchievementsQuery struct {
	// UserID - внутренний ID пользователя.
	UserID string

	// OnlyUnlocked - вернуть только разблокированные.
	OnlyUnlocked bool
}

// Validate проверяет корректность параметров.
func (q GetAchievementsQuery) Validate() error {
	if q.UserID == "" {
		return user.ErrUserNotFound
	}
	return nil
}

// AchievementDTO - одно достижение с состоянием пользователя.
type AchievementDTO struct {
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	BonusPoints int        `json:"bonus_points"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}

// AchievementListDTO - полная выдача достижений пользователя.
type AchievementListDTO struct {
	Achievements  []AchievementDTO `json:"achievements"`
	UnlockedCount int              `json:"unlocked_count"`
	TotalCount    int              `json:"total_count"`
}

// GetAchievementsHandler обрабатывает запрос достижений.
type GetAchievementsHandler struct {
	achievementRepo achievement.Repository
}

// NewGetAchievementsHandler создаёт новый GetAchievementsHandler.
func NewGetAchievementsHandler(achievementRepo achievement.Repository) *GetAchievementsHandler {
	return &GetAchievementsHandler{achievementRepo: achievementRepo}
}

// Handle выполняет запрос достижений.
func (h *GetAchievementsHandler) Handle(ctx context.Context, q GetAchievementsQuery) (*AchievementListDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	records, err := h.achievementRepo.GetForUser(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("get_achievements: %w", err)
	}

	// Состояние по типу; отсутствующая запись означает "заблокировано".
	state := make(map[achievement.Type]*achievement.UserAchievement, len(records))
	for _, rec := range records {
		state[rec.Type] = rec
	}

	catalog := achievement.Catalog()
	result := &AchievementListDTO{
		Achievements: make([]AchievementDTO, 0, len(catalog)),
		TotalCount:   len(catalog),
	}

	for _, def := range catalog {
		dto := AchievementDTO{
			Type:        def.Type.String(),
			Title:       def.Title,
			Description: def.Description,
			Icon:        def.Icon,
			BonusPoints: def.BonusPoints,
		}

		if rec, ok := state[def.Type]; ok && rec.Unlocked {
			dto.Unlocked = true
			unlockedAt := rec.UnlockedAt
			dto.UnlockedAt = &unlockedAt
			result.UnlockedCount++
		}

		if q.OnlyUnlocked && !dto.Unlocked {
			continue
		}

		result.Achievements = append(result.Achievements, dto)
	}

	return result, nil
}
