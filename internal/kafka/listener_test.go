package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"lifeline-store/internal/cart"
	"lifeline-store/internal/types/product"
)

// recordingProducer копит отправленные события
type recordingProducer struct {
	events []Event
	err    error
}

func (r *recordingProducer) SendEvent(_ context.Context, e Event) error {
	r.events = append(r.events, e)
	return r.err
}

func (r *recordingProducer) Close() error {
	return nil
}

func TestCartListener_PublishesMutations(t *testing.T) {
	producer := &recordingProducer{}
	logger := zaptest.NewLogger(t).Sugar()
	store := cart.NewStore("cart-1", nil, nil, logger)
	store.Subscribe(CartListener(producer, logger))
	ctx := context.Background()

	p := product.Product{ID: "2", Category: "Electronics", Price: decimal.RequireFromString("348")}
	store.AddToCart(ctx, p)
	store.AddToCart(ctx, p)
	store.SetCartOpen(ctx, true)
	store.UpdateQuantity(ctx, "2", 5)
	store.RemoveFromCart(ctx, "2")
	store.ClearCart(ctx)

	require.Len(t, producer.events, 5)
	types := make([]EventType, 0, len(producer.events))
	for _, e := range producer.events {
		types = append(types, e.Type)
		assert.Equal(t, "cart-1", e.CartID)
	}
	assert.Equal(t, []EventType{
		EventTypeAddToCart,
		EventTypeAddToCart,
		EventTypeUpdateQuantity,
		EventTypeRemoveFromCart,
		EventTypeClearCart,
	}, types)

	second := producer.events[1]
	assert.Equal(t, 2, second.Quantity)
	require.Len(t, second.Items, 1)
	assert.Equal(t, "Electronics", second.Items[0].Category)
	assert.Equal(t, 5, producer.events[2].Quantity)
}

func TestCartListener_SendErrorDoesNotBreakCart(t *testing.T) {
	producer := &recordingProducer{err: errors.New("broker down")}
	logger := zaptest.NewLogger(t).Sugar()
	store := cart.NewStore("cart-1", nil, nil, logger)
	store.Subscribe(CartListener(producer, logger))

	store.AddToCart(context.Background(), product.Product{ID: "1"})

	assert.Equal(t, 1, store.TotalItems())
	assert.Len(t, producer.events, 1)
}
