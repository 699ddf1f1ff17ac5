// Package relocate содержит модель данных о релокации: объявления
// о недвижимости, сравнение стоимости жизни и советы по переезду.
// Данные поступают из внешнего источника и кешируются; при недоступности
// источника используется встроенный статический набор.
package relocate

import (
	"context"
	"errors"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// ОШИБКИ
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrDatasetUnavailable - данные недоступны ни из источника, ни из кеша.
	ErrDatasetUnavailable = errors.New("relocate: dataset unavailable")

	// ErrEmptyDataset - источник вернул пустой набор данных.
	ErrEmptyDataset = errors.New("relocate: empty dataset")
)

// ══════════════════════════════════════════════════════════════════════════════
// МОДЕЛЬ ДАННЫХ
// ══════════════════════════════════════════════════════════════════════════════

// Property - объявление о недвижимости в целевом регионе.
type Property struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Price       string   `json:"price"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   int      `json:"bathrooms"`
	Features    []string `json:"features"`
}

// CostComparison - сравнение стоимости жизни между текущим и целевым регионом.
type CostComparison struct {
	HousingCostDifference string `json:"housing_cost_difference"`
	LivingCosts           string `json:"living_costs"`
	TransportSavings      string `json:"transport_savings"`
	Healthcare            string `json:"healthcare"`
	Education             string `json:"education"`
}

// MovingCosts - ориентировочные расходы на переезд.
type MovingCosts struct {
	InternationalShipping  string `json:"international_shipping"`
	VisaCosts              string `json:"visa_costs"`
	TemporaryAccommodation string `json:"temporary_accommodation"`
	LegalFees              string `json:"legal_fees"`
}

// TipGroup - группа советов по переезду (документы, логистика, интеграция).
type TipGroup struct {
	Category string   `json:"category"`
	Tips     []string `json:"tips"`
}

// Dataset - полный набор данных о релокации.
type Dataset struct {
	Properties  []Property     `json:"properties"`
	Costs       CostComparison `json:"cost_analysis"`
	MovingCosts MovingCosts    `json:"moving_costs"`
	MovingTips  []TipGroup     `json:"moving_tips"`

	// Source - откуда получены данные ("live" или "fallback").
	Source string `json:"source"`

	// FetchedAt - время получения данных.
	FetchedAt time.Time `json:"fetched_at"`
}

// IsEmpty сообщает, содержит ли набор хоть одно объявление.
func (d *Dataset) IsEmpty() bool {
	return d == nil || len(d.Properties) == 0
}

// ══════════════════════════════════════════════════════════════════════════════
// ПОРТЫ
// ══════════════════════════════════════════════════════════════════════════════

// Source - внешний источник данных о релокации.
// Реализация находится в infrastructure/external/relocate.
type Source interface {
	// FetchDataset получает актуальный набор данных.
	// При недоступности источника возвращает встроенный набор с Source="fallback".
	FetchDataset(ctx context.Context) (*Dataset, error)
}

// Cache - кеш наборов данных (обычно Redis с TTL в один час).
type Cache interface {
	// Get возвращает закешированный набор.
	Get(ctx context.Context) (*Dataset, error)

	// Set сохраняет набор в кеш.
	Set(ctx context.Context, dataset *Dataset, ttl time.Duration) error

	// Invalidate удаляет закешированный набор.
	Invalidate(ctx context.Context) error
}
