package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	myErr "lifeline-store/internal/types/errors"
	"lifeline-store/internal/types/product"
)

// Slug приводит название категории к виду из URL
func Slug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// Apply фильтрует и сортирует копию списка
func Apply(products []product.Product, f Filter) ([]product.Product, error) {
	minPrice, maxPrice, err := parsePriceRange(f.PriceRange)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(f.Query)
	category := strings.ToLower(f.Category)

	out := make([]product.Product, 0, len(products))
	for _, p := range products {
		if category != "" && Slug(p.Category) != category {
			continue
		}
		if query != "" && !matches(p, query) {
			continue
		}
		if minPrice != nil && p.Price.LessThan(*minPrice) {
			continue
		}
		if maxPrice != nil && p.Price.GreaterThan(*maxPrice) {
			continue
		}
		out = append(out, p)
	}

	sortProducts(out, f.Sort)

	return out, nil
}

func matches(p product.Product, query string) bool {
	return strings.Contains(strings.ToLower(p.Name), query) ||
		strings.Contains(strings.ToLower(p.Description), query) ||
		strings.Contains(strings.ToLower(p.Category), query)
}

func sortProducts(products []product.Product, s Sort) {
	var less func(a, b product.Product) bool
	switch s {
	case SortPriceLow:
		less = func(a, b product.Product) bool { return a.Price.LessThan(b.Price) }
	case SortPriceHigh:
		less = func(a, b product.Product) bool { return a.Price.GreaterThan(b.Price) }
	case SortRating:
		less = func(a, b product.Product) bool { return a.Rating > b.Rating }
	case SortReviews:
		less = func(a, b product.Product) bool { return a.ReviewCount > b.ReviewCount }
	default:
		return
	}

	sort.SliceStable(products, func(i, j int) bool {
		return less(products[i], products[j])
	})
}

// parsePriceRange разбирает "min-max"; "all" и пустая строка - без ограничений
func parsePriceRange(r string) (*decimal.Decimal, *decimal.Decimal, error) {
	if r == "" || r == "all" {
		return nil, nil, nil
	}

	lo, hi, ok := strings.Cut(r, "-")
	if !ok {
		return nil, nil, myErr.ErrBadPriceRange
	}

	var minPrice, maxPrice *decimal.Decimal
	if lo != "" {
		v, err := decimal.NewFromString(lo)
		if err != nil {
			return nil, nil, myErr.ErrBadPriceRange
		}
		minPrice = &v
	}
	if hi != "" {
		v, err := decimal.NewFromString(hi)
		if err != nil {
			return nil, nil, myErr.ErrBadPriceRange
		}
		maxPrice = &v
	}

	return minPrice, maxPrice, nil
}
