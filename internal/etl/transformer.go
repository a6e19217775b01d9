package etl

import (
	"go.uber.org/zap"

	"lifeline-store/internal/types/elastic"
	"lifeline-store/internal/types/product"
)

type Transformer struct {
	Logger *zap.SugaredLogger
}

func NewTransformer(logger *zap.SugaredLogger) *Transformer {
	return &Transformer{
		Logger: logger,
	}
}

// Transform - переводит товары каталога в ElasticDoc для хранения в ES
func (t *Transformer) Transform(input []product.Product) []elastic.ElasticDoc {
	docs := make([]elastic.ElasticDoc, 0, len(input))
	for _, p := range input {
		docs = append(docs, elastic.ElasticDoc{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
			Price:       p.Price,
			Rating:      p.Rating,
		})
	}

	t.Logger.Debugf("Transformed %d docs", len(input))

	return docs
}
