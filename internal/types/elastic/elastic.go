package elastic

import "github.com/shopspring/decimal"

// ElasticDoc - документ товара в поисковом индексе
type ElasticDoc struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Rating      float64         `json:"rating"`
}
