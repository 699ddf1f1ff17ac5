package query

import (
	"context"
	"fmt"
	"time"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/achievement"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/progression"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET DASHBOARD STATS QUERY
// Сводка для главного экрана: профиль, последние начисления и прогресс
// по достижениям одним запросом.
// ══════════════════════════════════════════════════════════════════════════════

// DashboardRecentLimit - сколько последних начислений включать в сводку.
const DashboardRecentLimit = 10

// GetDashboardStatsQuery содержит параметры запроса сводки.
type GetDashboardStatsQuery struct {
	// UserID - внутренний ID пользователя.
	UserID string
}

// Validate проверяет корректность параметров.
func (q GetDashboardStatsQuery) Validate() error {
	if q.UserID == "" {
		return user.ErrUserNotFound
	}
	return nil
}

// LedgerEntryDTO - одна запись журнала начислений для выдачи наружу.
type LedgerEntryDTO struct {
	Action     string            `json:"action"`
	Points     int               `json:"points"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// DashboardStatsDTO - сводка главного экрана.
type DashboardStatsDTO struct {
	// Profile - профиль пользователя.
	Profile *UserProfileDTO `json:"profile"`

	// RecentActivity - последние записи журнала, новые первыми.
	RecentActivity []LedgerEntryDTO `json:"recent_activity"`

	// AchievementsUnlocked - разблокировано достижений.
	AchievementsUnlocked int `json:"achievements_unlocked"`

	// AchievementsTotal - всего достижений в каталоге.
	AchievementsTotal int `json:"achievements_total"`

	// GeneratedAt - время сборки сводки.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetDashboardStatsHandler обрабатывает запрос сводки.
type GetDashboardStatsHandler struct {
	userRepo        user.Repository
	ledger          progression.Ledger
	achievementRepo achievement.Repository
}

// NewGetDashboardStatsHandler создаёт новый GetDashboardStatsHandler.
func NewGetDashboardStatsHandler(
	userRepo user.Repository,
	ledger progression.Ledger,
	achievementRepo achievement.Repository,
) *GetDashboardStatsHandler {
	return &GetDashboardStatsHandler{
		userRepo:        userRepo,
		ledger:          ledger,
		achievementRepo: achievementRepo,
	}
}

// Handle выполняет запрос сводки.
func (h *GetDashboardStatsHandler) Handle(ctx context.Context, q GetDashboardStatsQuery) (*DashboardStatsDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	usr, err := h.userRepo.GetByID(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("get_dashboard_stats: %w", err)
	}

	recent, err := h.ledger.GetRecent(ctx, q.UserID, DashboardRecentLimit)
	if err != nil {
		return nil, fmt.Errorf("get_dashboard_stats: recent activity: %w", err)
	}

	unlocked, err := h.achievementRepo.CountUnlocked(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("get_dashboard_stats: achievements: %w", err)
	}

	entries := make([]LedgerEntryDTO, 0, len(recent))
	for _, e := range recent {
		entries = append(entries, LedgerEntryDTO{
			Action:     string(e.Action),
			Points:     e.Points,
			Metadata:   e.Metadata,
			OccurredAt: e.OccurredAt,
		})
	}

	return &DashboardStatsDTO{
		Profile:              NewUserProfileDTO(usr),
		RecentActivity:       entries,
		AchievementsUnlocked: unlocked,
		AchievementsTotal:    len(achievement.Catalog()),
		GeneratedAt:          time.Now().UTC(),
	}, nil
}
