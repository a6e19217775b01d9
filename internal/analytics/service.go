package analytics

import (
	"context"

	"go.uber.org/zap"

	"lifeline-store/internal/kafka"
)

type Service struct {
	repo   AnalyticsRepo
	logger *zap.SugaredLogger
}

func NewService(repo AnalyticsRepo, logger *zap.SugaredLogger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ProcessEvent переводит событие корзины в приращения счетчиков.
// Изменение количества и очистка корзины на счетчики не влияют
func (s *Service) ProcessEvent(ctx context.Context, event kafka.Event) error {
	deltas := make(map[string]StatsDelta)

	switch event.Type {
	case kafka.EventTypeAddToCart:
		if event.ProductID == "" {
			return nil
		}
		d := deltas[event.ProductID]
		d.Adds++
		if len(event.Items) > 0 {
			d.Category = event.Items[0].Category
		}
		deltas[event.ProductID] = d
	case kafka.EventTypeRemoveFromCart:
		if event.ProductID == "" {
			return nil
		}
		d := deltas[event.ProductID]
		d.Removals++
		deltas[event.ProductID] = d
	case kafka.EventTypePurchase:
		for _, item := range event.Items {
			d := deltas[item.ProductID]
			d.Category = item.Category
			d.Purchases++
			d.UnitsSold += item.Quantity
			deltas[item.ProductID] = d
		}
	}

	if len(deltas) == 0 {
		return nil
	}

	return s.repo.IncrementStats(ctx, deltas)
}

func (s *Service) GetProductStats(ctx context.Context, productID string) (*ProductStats, error) {
	return s.repo.GetProductStats(ctx, productID)
}

func (s *Service) GetTopProducts(ctx context.Context, limit int) ([]ProductStats, error) {
	return s.repo.GetTopProducts(ctx, limit)
}
