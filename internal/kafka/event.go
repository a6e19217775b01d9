package kafka

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidEvent - событие без корзины или с неизвестным типом
var ErrInvalidEvent = errors.New("invalid cart event")

type EventType string

const (
	EventTypeAddToCart      EventType = "addToCart"
	EventTypeUpdateQuantity EventType = "updateQuantity"
	EventTypeRemoveFromCart EventType = "removeFromCart"
	EventTypeClearCart      EventType = "clearCart"
	EventTypePurchase       EventType = "purchase"
)

// EventItem - строка корзины в событии
type EventItem struct {
	ProductID string          `json:"product_id"`
	Category  string          `json:"category,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Event - событие корзины. Для purchase в Items весь заказ
type Event struct {
	CartID    string      `json:"cart_id"`
	Type      EventType   `json:"type"`
	ProductID string      `json:"product_id,omitempty"`
	Quantity  int         `json:"quantity,omitempty"`
	Items     []EventItem `json:"items,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Validate проверяет обязательные поля события
func (e Event) Validate() error {
	if e.CartID == "" {
		return fmt.Errorf("%w: empty cart_id", ErrInvalidEvent)
	}

	switch e.Type {
	case EventTypeAddToCart, EventTypeUpdateQuantity, EventTypeRemoveFromCart:
		if e.ProductID == "" {
			return fmt.Errorf("%w: %s without product_id", ErrInvalidEvent, e.Type)
		}
	case EventTypeClearCart, EventTypePurchase:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, e.Type)
	}

	return nil
}
