package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"lifeline-store/internal/cart"
)

var opEvents = map[cart.Op]EventType{
	cart.OpAdd:    EventTypeAddToCart,
	cart.OpUpdate: EventTypeUpdateQuantity,
	cart.OpRemove: EventTypeRemoveFromCart,
	cart.OpClear:  EventTypeClearCart,
}

// CartListener публикует мутации корзины в Kafka. Флаг панели не публикуется.
// Ошибка отправки только логируется: корзина от брокера не зависит
func CartListener(producer EventProducer, logger *zap.SugaredLogger) cart.Listener {
	return func(ctx context.Context, ch cart.Change) {
		eventType, ok := opEvents[ch.Op]
		if !ok {
			return
		}

		event := Event{
			CartID:    ch.CartID,
			Type:      eventType,
			ProductID: ch.ProductID,
			Quantity:  ch.Quantity,
			Timestamp: time.Now(),
		}
		if ch.Op == cart.OpAdd {
			for _, l := range ch.Lines {
				if l.Product.ID == ch.ProductID {
					event.Items = []EventItem{ItemFromLine(l)}
					break
				}
			}
		}

		if err := producer.SendEvent(ctx, event); err != nil {
			logger.Warnf("failed to send %s event for cart %s: %v", eventType, ch.CartID, err)
		}
	}
}

// ItemFromLine переводит строку корзины в строку события
func ItemFromLine(l cart.Line) EventItem {
	return EventItem{
		ProductID: l.Product.ID,
		Category:  l.Product.Category,
		Quantity:  l.Quantity,
		Price:     l.Product.Price,
	}
}
