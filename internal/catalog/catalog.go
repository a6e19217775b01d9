package catalog

import (
	"lifeline-store/internal/types/product"
)

// Sort - порядок выдачи каталога
type Sort string

const (
	SortFeatured  Sort = "featured"
	SortPriceLow  Sort = "price-low"
	SortPriceHigh Sort = "price-high"
	SortRating    Sort = "rating"
	SortReviews   Sort = "reviews"
)

// Filter - параметры выборки товаров. Пустые поля не фильтруют
type Filter struct {
	// Category - слаг категории: "home-&-kitchen"
	Category string
	// Query - подстрока в имени, описании или категории
	Query string
	// PriceRange - "min-max" или "min-", например "100-500"
	PriceRange string
	Sort       Sort
}

// CatalogRepo - источник товаров для корзины и витрины
//
//go:generate mockgen -source=catalog.go -destination=../mocks/mock_catalog_repo.go -package=mocks
type CatalogRepo interface {
	GetByID(id string) (*product.Product, error)
	List(f Filter) ([]product.Product, error)
	Categories() []product.Category
}
