package analytics

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"lifeline-store/internal/kafka"
)

// fakeRepo нужен для «подмены» AnalyticsRepo в тестах.
type fakeRepo struct {
	called     bool
	lastDeltas map[string]StatsDelta
	returnErr  error
}

func (f *fakeRepo) IncrementStats(ctx context.Context, deltas map[string]StatsDelta) error {
	f.called = true
	// копируем map, чтобы избежать мутирования извне
	f.lastDeltas = make(map[string]StatsDelta)
	for k, v := range deltas {
		f.lastDeltas[k] = v
	}
	return f.returnErr
}

func (f *fakeRepo) GetProductStats(ctx context.Context, productID string) (*ProductStats, error) {
	return nil, nil
}

func (f *fakeRepo) GetTopProducts(ctx context.Context, limit int) ([]ProductStats, error) {
	return nil, nil
}

func TestService_ProcessEvent(t *testing.T) {
	tests := []struct {
		name     string
		event    kafka.Event
		expected map[string]StatsDelta
	}{
		{
			name: "add to cart",
			event: kafka.Event{
				CartID:    "c-1",
				Type:      kafka.EventTypeAddToCart,
				ProductID: "1",
				Items:     []kafka.EventItem{{ProductID: "1", Category: "Electronics", Quantity: 1}},
			},
			expected: map[string]StatsDelta{"1": {Category: "Electronics", Adds: 1}},
		},
		{
			name:     "remove from cart",
			event:    kafka.Event{Type: kafka.EventTypeRemoveFromCart, ProductID: "2"},
			expected: map[string]StatsDelta{"2": {Removals: 1}},
		},
		{
			name: "purchase",
			event: kafka.Event{
				Type: kafka.EventTypePurchase,
				Items: []kafka.EventItem{
					{ProductID: "1", Category: "Electronics", Quantity: 5},
					{ProductID: "3", Category: "Books", Quantity: 1},
				},
			},
			expected: map[string]StatsDelta{
				"1": {Category: "Electronics", Purchases: 1, UnitsSold: 5},
				"3": {Category: "Books", Purchases: 1, UnitsSold: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			service := NewService(repo, zapTestLogger(t))

			if err := service.ProcessEvent(context.Background(), tt.event); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !repo.called {
				t.Fatalf("expected repo.IncrementStats to be called")
			}
			if !reflect.DeepEqual(repo.lastDeltas, tt.expected) {
				t.Errorf("expected deltas %v, got %v", tt.expected, repo.lastDeltas)
			}
		})
	}
}

func TestService_ProcessEvent_Ignored(t *testing.T) {
	events := []kafka.Event{
		{Type: kafka.EventTypeUpdateQuantity, ProductID: "1", Quantity: 4},
		{Type: kafka.EventTypeClearCart},
		{Type: kafka.EventTypeAddToCart},
		{Type: kafka.EventTypePurchase},
	}

	for _, evt := range events {
		repo := &fakeRepo{}
		service := NewService(repo, zapTestLogger(t))

		if err := service.ProcessEvent(context.Background(), evt); err != nil {
			t.Errorf("unexpected error for %s: %v", evt.Type, err)
		}
		if repo.called {
			t.Errorf("expected repo.IncrementStats NOT to be called for %s", evt.Type)
		}
	}
}

func TestService_ProcessEvent_RepoError(t *testing.T) {
	repo := &fakeRepo{returnErr: errors.New("db error")}
	service := NewService(repo, zapTestLogger(t))

	evt := kafka.Event{Type: kafka.EventTypeRemoveFromCart, ProductID: "2"}

	if err := service.ProcessEvent(context.Background(), evt); err == nil {
		t.Errorf("expected error from repo, got nil")
	}
}
