package catalog

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	myErr "lifeline-store/internal/types/errors"
	"lifeline-store/internal/types/product"
)

// StaticCatalogRepository - статический каталог в памяти. Корзина его не меняет
type StaticCatalogRepository struct {
	Logger *zap.SugaredLogger

	products   []product.Product
	categories []product.Category
	byID       map[string]int
}

// NewStaticCatalogRepository - пустые списки заменяются встроенным каталогом
func NewStaticCatalogRepository(logger *zap.SugaredLogger, products []product.Product, categories []product.Category) *StaticCatalogRepository {
	if products == nil {
		products = defaultProducts()
	}
	if categories == nil {
		categories = defaultCategories()
	}

	byID := make(map[string]int, len(products))
	for i, p := range products {
		byID[p.ID] = i
	}

	return &StaticCatalogRepository{
		Logger:     logger,
		products:   products,
		categories: categories,
		byID:       byID,
	}
}

// GetByID возвращает копию товара
func (r *StaticCatalogRepository) GetByID(id string) (*product.Product, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, myErr.ErrProductNotFound
	}

	p := r.products[i]

	return &p, nil
}

// List - выборка с фильтром и сортировкой
func (r *StaticCatalogRepository) List(f Filter) ([]product.Product, error) {
	res, err := Apply(r.products, f)
	if err != nil {
		r.Logger.Infof("bad catalog filter %+v: %v", f, err)
		return nil, err
	}

	return res, nil
}

// Categories возвращает категории витрины
func (r *StaticCatalogRepository) Categories() []product.Category {
	out := make([]product.Category, len(r.categories))
	copy(out, r.categories)

	return out
}

// Deals - товары с бейджем Deal или Limited Deal
func Deals(products []product.Product) []product.Product {
	out := make([]product.Product, 0)
	for _, p := range products {
		if p.Badge == "Deal" || p.Badge == "Limited Deal" {
			out = append(out, p)
		}
	}

	return out
}

// BestSellers - товары с бейджем Best Seller
func BestSellers(products []product.Product) []product.Product {
	out := make([]product.Product, 0)
	for _, p := range products {
		if p.Badge == "Best Seller" {
			out = append(out, p)
		}
	}

	return out
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func defaultCategories() []product.Category {
	return []product.Category{
		{ID: "1", Name: "Electronics", Image: "https://images.unsplash.com/photo-1498049794561-7780e7231661?w=400", ProductCount: 2450},
		{ID: "2", Name: "Fashion", Image: "https://images.unsplash.com/photo-1445205170230-053b83016050?w=400", ProductCount: 5230},
		{ID: "3", Name: "Home & Kitchen", Image: "https://images.unsplash.com/photo-1556909114-f6e7ad7d3136?w=400", ProductCount: 3120},
		{ID: "4", Name: "Sports", Image: "https://images.unsplash.com/photo-1461896836934?w=400", ProductCount: 1890},
		{ID: "5", Name: "Books", Image: "https://images.unsplash.com/photo-1495446815901-a7297e633e8d?w=400", ProductCount: 8900},
		{ID: "6", Name: "Toys & Games", Image: "https://images.unsplash.com/photo-1558060370-d644479cb6f7?w=400", ProductCount: 2100},
	}
}

func defaultProducts() []product.Product {
	return []product.Product{
		{
			ID:            "1",
			Name:          "Apple MacBook Pro 14\" M3 Pro",
			Description:   "Supercharged by M3 Pro chip for exceptional performance",
			Price:         *price("1999.00"),
			OriginalPrice: price("2199.00"),
			Image:         "https://images.unsplash.com/photo-1517336714731-489689fd1ca8?w=500",
			Rating:        4.8,
			ReviewCount:   2847,
			Category:      "Electronics",
			IsPrime:       true,
			InStock:       true,
			Badge:         "Best Seller",
		},
		{
			ID:            "2",
			Name:          "Sony WH-1000XM5 Wireless Headphones",
			Description:   "Industry-leading noise cancellation with exceptional sound",
			Price:         *price("348.00"),
			OriginalPrice: price("399.99"),
			Image:         "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=500",
			Rating:        4.7,
			ReviewCount:   15234,
			Category:      "Electronics",
			IsPrime:       true,
			InStock:       true,
			Badge:         "Deal",
		},
		{
			ID:          "3",
			Name:        "Apple Watch Series 9 GPS 45mm",
			Description: "Advanced health features and the brightest display ever",
			Price:       *price("429.00"),
			Image:       "https://images.unsplash.com/photo-1546868871-7041f2a55e12?w=500",
			Rating:      4.6,
			ReviewCount: 8923,
			Category:    "Electronics",
			IsPrime:     true,
			InStock:     true,
		},
		{
			ID:            "4",
			Name:          "Samsung 65\" OLED 4K Smart TV",
			Description:   "Quantum HDR OLED+ with Neural Quantum Processor",
			Price:         *price("1797.99"),
			OriginalPrice: price("2199.99"),
			Image:         "https://images.unsplash.com/photo-1593359677879-a4bb92f829d1?w=500",
			Rating:        4.5,
			ReviewCount:   3421,
			Category:      "Electronics",
			IsPrime:       true,
			InStock:       true,
			Badge:         "Limited Deal",
		},
		{
			ID:          "5",
			Name:        "Nike Air Max 270 Running Shoes",
			Description: "Maximum cushioning for your running adventures",
			Price:       *price("150.00"),
			Image:       "https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=500",
			Rating:      4.4,
			ReviewCount: 12456,
			Category:    "Fashion",
			IsPrime:     true,
			InStock:     true,
		},
		{
			ID:            "6",
			Name:          "Instant Pot Duo 7-in-1 Electric Cooker",
			Description:   "Pressure cooker, slow cooker, rice cooker and more",
			Price:         *price("89.95"),
			OriginalPrice: price("119.95"),
			Image:         "https://images.unsplash.com/photo-1585515320310-259814833e62?w=500",
			Rating:        4.7,
			ReviewCount:   45678,
			Category:      "Home & Kitchen",
			IsPrime:       true,
			InStock:       true,
			Badge:         "Best Seller",
		},
		{
			ID:          "7",
			Name:        "Kindle Paperwhite 11th Gen",
			Description: "6.8\" display, adjustable warm light, 16GB",
			Price:       *price("139.99"),
			Image:       "https://images.unsplash.com/photo-1611532736597-de2d4265fba3?w=500",
			Rating:      4.6,
			ReviewCount: 28934,
			Category:    "Electronics",
			IsPrime:     true,
			InStock:     true,
		},
		{
			ID:            "8",
			Name:          "Dyson V15 Detect Cordless Vacuum",
			Description:   "Laser reveals microscopic dust. LCD shows what's been sucked up.",
			Price:         *price("749.99"),
			OriginalPrice: price("849.99"),
			Image:         "https://images.unsplash.com/photo-1558618666-fcd25c85cd64?w=500",
			Rating:        4.5,
			ReviewCount:   5678,
			Category:      "Home & Kitchen",
			IsPrime:       true,
			InStock:       true,
			Badge:         "Deal",
		},
	}
}
