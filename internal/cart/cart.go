package cart

import (
	"context"

	"lifeline-store/internal/types/product"
)

// SnapshotKey - фиксированный ключ, под которым хранится снапшот корзины
const SnapshotKey = "lifeline-cart"

// SnapshotKeyFor возвращает ключ снапшота корзины конкретной сессии
func SnapshotKeyFor(cartID string) string {
	return SnapshotKey + ":" + cartID
}

// Line - строка корзины: снапшот товара и его количество (всегда >= 1)
type Line struct {
	Product  product.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Op - тип изменения состояния корзины
type Op string

const (
	OpAdd    Op = "addToCart"
	OpUpdate Op = "updateQuantity"
	OpRemove Op = "removeFromCart"
	OpClear  Op = "clearCart"
	OpPanel  Op = "togglePanel"
)

// Change - уведомление подписчикам об изменении корзины.
// Quantity - новое количество в строке, 0 если строка удалена
type Change struct {
	CartID     string
	Op         Op
	ProductID  string
	Quantity   int
	Lines      []Line
	IsCartOpen bool
}

// Listener получает изменения синхронно, в порядке применения операций
type Listener func(ctx context.Context, ch Change)

// Storage - key-value хранилище снапшотов корзины
//
//go:generate mockgen -source=cart.go -destination=../mocks/mock_cart_storage.go -package=mocks
type Storage interface {
	// Get возвращает сохраненное значение или errors.ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)
	// Set перезаписывает значение по ключу
	Set(ctx context.Context, key string, value []byte) error
}

// Committer - шаг фиксации состояния после каждой мутации
type Committer interface {
	Commit(ctx context.Context, lines []Line) error
}
