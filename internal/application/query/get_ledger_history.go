package query

import (
	"context"
	"fmt"
	"time"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/progression"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEDGER HISTORY QUERY
// История начислений пользователя: последние N записей либо записи за
// период. Дополнительно возвращает сумму дельт - она обязана совпадать
// с текущим счётом пользователя.
// ══════════════════════════════════════════════════════════════════════════════

const (
	// DefaultHistoryLimit - лимит записей по умолчанию.
	DefaultHistoryLimit = 50

	// MaxHistoryLimit - максимальный лимит записей.
	MaxHistoryLimit = 200
)

// GetLedgerHistoryQuery содержит параметры запроса истории.
type GetLedgerHistoryQuery struct {
	// UserID - внутренний ID пользователя.
	UserID string

	// Limit - максимум записей (по умолчанию DefaultHistoryLimit).
	Limit int

	// From, To - период; заполненный период имеет приоритет над Limit.
	From time.Time
	To   time.Time
}

// Validate проверяет и нормализует параметры.
func (q *GetLedgerHistoryQuery) Validate() error {
	if q.UserID == "" {
		return user.ErrUserNotFound
	}
	if q.Limit <= 0 {
		q.Limit = DefaultHistoryLimit
	}
	if q.Limit > MaxHistoryLimit {
		q.Limit = MaxHistoryLimit
	}
	return nil
}

// LedgerHistoryDTO - выдача истории начислений.
type LedgerHistoryDTO struct {
	// Entries - записи журнала, новые первыми.
	Entries []LedgerEntryDTO `json:"entries"`

	// TotalPoints - сумма всех дельт пользователя за всё время.
	TotalPoints int `json:"total_points"`
}

// GetLedgerHistoryHandler обрабатывает запрос истории.
type GetLedgerHistoryHandler struct {
	ledger progression.Ledger
}

// NewGetLedgerHistoryHandler создаёт новый GetLedgerHistoryHandler.
func NewGetLedgerHistoryHandler(ledger progression.Ledger) *GetLedgerHistoryHandler {
	return &GetLedgerHistoryHandler{ledger: ledger}
}

// Handle выполняет запрос истории.
func (h *GetLedgerHistoryHandler) Handle(ctx context.Context, q GetLedgerHistoryQuery) (*LedgerHistoryDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	var (
		events []*progression.Event
		err    error
	)

	if !q.From.IsZero() && !q.To.IsZero() {
		events, err = h.ledger.GetByRange(ctx, q.UserID, q.From, q.To)
	} else {
		events, err = h.ledger.GetRecent(ctx, q.UserID, q.Limit)
	}
	if err != nil {
		return nil, fmt.Errorf("get_ledger_history: %w", err)
	}

	total, err := h.ledger.SumPoints(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("get_ledger_history: sum points: %w", err)
	}

	entries := make([]LedgerEntryDTO, 0, len(events))
	for _, e := range events {
		entries = append(entries, LedgerEntryDTO{
			Action:     string(e.Action),
			Points:     e.Points,
			Metadata:   e.Metadata,
			OccurredAt: e.OccurredAt,
		})
	}

	return &LedgerHistoryDTO{
		Entries:     entries,
		TotalPoints: total,
	}, nil
}
