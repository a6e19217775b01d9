package product

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Product - товар витрины, для корзины только для чтения
type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Image         string           `json:"image"`
	Rating        float64          `json:"rating"`
	ReviewCount   int              `json:"reviewCount"`
	Category      string           `json:"category"`
	IsPrime       bool             `json:"isPrime,omitempty"`
	InStock       bool             `json:"inStock"`
	Badge         string           `json:"badge,omitempty"`
}

// Category - категория каталога
type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Image        string `json:"image"`
	ProductCount int    `json:"productCount"`
}

// Discount - скидка в целых процентах относительно OriginalPrice
// Возвращает 0, если старой цены нет или она не больше текущей
func (p Product) Discount() int {
	if p.OriginalPrice == nil || !p.OriginalPrice.GreaterThan(p.Price) {
		return 0
	}

	off := p.OriginalPrice.Sub(p.Price).Div(*p.OriginalPrice).Mul(hundred)

	return int(off.Round(0).IntPart())
}
