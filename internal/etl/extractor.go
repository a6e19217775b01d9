package etl

import (
	"context"

	"go.uber.org/zap"

	"lifeline-store/internal/catalog"
	"lifeline-store/internal/types/product"
)

type CatalogExtractor struct {
	Catalog catalog.CatalogRepo
	Logger  *zap.SugaredLogger
}

func NewCatalogExtractor(repo catalog.CatalogRepo, logger *zap.SugaredLogger) *CatalogExtractor {
	return &CatalogExtractor{
		Catalog: repo,
		Logger:  logger,
	}
}

// ExtractAll - достает все товары каталога
func (e *CatalogExtractor) ExtractAll(ctx context.Context) ([]product.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	products, err := e.Catalog.List(catalog.Filter{})
	if err != nil {
		e.Logger.Errorw("Failed to list catalog", zap.Error(err))

		return nil, err
	}

	return products, nil
}
