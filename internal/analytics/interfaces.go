package analytics

import (
	"context"

	"lifeline-store/internal/kafka"
)

// ProductStats - накопленные счетчики корзины по товару
type ProductStats struct {
	ProductID string `json:"productId"`
	Category  string `json:"category"`
	Adds      int    `json:"adds"`
	Removals  int    `json:"removals"`
	Purchases int    `json:"purchases"`
	UnitsSold int    `json:"unitsSold"`
}

// StatsDelta - приращение счетчиков одного товара
type StatsDelta struct {
	Category  string
	Adds      int
	Removals  int
	Purchases int
	UnitsSold int
}

// AnalyticsRepo — интерфейс хранилища счетчиков по товарам.
type AnalyticsRepo interface {
	IncrementStats(ctx context.Context, deltas map[string]StatsDelta) error
	GetProductStats(ctx context.Context, productID string) (*ProductStats, error)
	GetTopProducts(ctx context.Context, limit int) ([]ProductStats, error)
}

// AnalyticsService — интерфейс сервиса аналитики.
type AnalyticsService interface {
	ProcessEvent(ctx context.Context, event kafka.Event) error
	GetProductStats(ctx context.Context, productID string) (*ProductStats, error)
	GetTopProducts(ctx context.Context, limit int) ([]ProductStats, error)
}
