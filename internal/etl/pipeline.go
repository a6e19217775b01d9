package etl

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Pipeline struct {
	extractor   *CatalogExtractor
	transformer *Transformer
	loader      *ElasticLoader
	logger      *zap.SugaredLogger
	interval    time.Duration
}

func NewPipeline(
	extractor *CatalogExtractor,
	transformer *Transformer,
	loader *ElasticLoader,
	logger *zap.SugaredLogger,
	interval time.Duration,
) *Pipeline {
	return &Pipeline{
		extractor:   extractor,
		transformer: transformer,
		loader:      loader,
		logger:      logger,
		interval:    interval,
	}
}

// RunOnce - одна итерация extract -> transform -> load
func (p *Pipeline) RunOnce(ctx context.Context) (int, error) {
	// EXTRACT
	products, err := p.extractor.ExtractAll(ctx)
	if err != nil {
		return 0, err
	}

	// TRANSFORM
	docs := p.transformer.Transform(products)

	// LOAD
	return p.loader.Load(ctx, docs)
}

// Run сразу индексирует каталог, затем повторяет с интервалом до отмены ctx
func (p *Pipeline) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Infow("ETL pipeline started")

	for {
		n, err := p.RunOnce(ctx)
		if err != nil {
			p.logger.Errorw("ETL iteration failed", zap.Error(err))
		} else if n > 0 {
			p.logger.Infof("ETL pipeline completed, successfully loaded %d docs", n)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
