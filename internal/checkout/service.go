package checkout

import (
	"context"
	"time"

	"go.uber.org/zap"

	"lifeline-store/internal/cart"
	"lifeline-store/internal/kafka"
	myErr "lifeline-store/internal/types/errors"
)

type Service struct {
	Orders   OrderPlacer
	Producer kafka.EventProducer
	Logger   *zap.SugaredLogger
}

func NewService(orders OrderPlacer, producer kafka.EventProducer, logger *zap.SugaredLogger) *Service {
	return &Service{
		Orders:   orders,
		Producer: producer,
		Logger:   logger,
	}
}

// Checkout оформляет заказ из корзины. Корзина очищается только после
// успешного ответа бэкенда, при ошибке остается нетронутой
func (s *Service) Checkout(ctx context.Context, store *cart.Store, info ShippingInfo) (string, error) {
	lines := store.Lines()
	if len(lines) == 0 {
		return "", myErr.ErrEmptyCart
	}

	res, err := s.Orders.PlaceOrder(ctx, NewOrderRequest(lines, info))
	if err != nil {
		return "", err
	}

	store.ClearCart(ctx)

	if s.Producer != nil {
		items := make([]kafka.EventItem, 0, len(lines))
		for _, l := range lines {
			items = append(items, kafka.ItemFromLine(l))
		}
		event := kafka.Event{
			CartID:    store.ID(),
			Type:      kafka.EventTypePurchase,
			Quantity:  cart.TotalItems(lines),
			Items:     items,
			Timestamp: time.Now(),
		}
		if err := s.Producer.SendEvent(ctx, event); err != nil {
			s.Logger.Warnf("failed to send purchase event for cart %s: %v", store.ID(), err)
		}
	}

	s.Logger.Infow("order placed", "cartID", store.ID(), "orderID", res.OrderID, "items", len(lines))

	return res.OrderID, nil
}
