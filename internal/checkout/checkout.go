package checkout

import (
	"context"

	"github.com/shopspring/decimal"

	"lifeline-store/internal/cart"
)

// ShippingInfo - адрес доставки, как его ждет бэкенд заказов
type ShippingInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
}

// OrderItem - строка заказа с ценой на момент добавления в корзину
type OrderItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type OrderRequest struct {
	ShippingInfo ShippingInfo `json:"shippingInfo"`
	Items        []OrderItem  `json:"items"`
}

type OrderResponse struct {
	OrderID string `json:"orderId"`
}

// OrderPlacer - бэкенд заказов
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req OrderRequest) (*OrderResponse, error)
}

// NewOrderRequest собирает заказ из строк корзины
func NewOrderRequest(lines []cart.Line, info ShippingInfo) OrderRequest {
	items := make([]OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, OrderItem{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Image:     l.Product.Image,
			Price:     l.Product.Price,
			Quantity:  l.Quantity,
		})
	}

	return OrderRequest{
		ShippingInfo: info,
		Items:        items,
	}
}
