package etl

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"lifeline-store/internal/types/elastic"
)

// Indexer - часть ElasticService, нужная загрузчику
type Indexer interface {
	BulkIndex(ctx context.Context, docs []elastic.ElasticDoc) error
}

// ElasticLoader загружает в индекс только новые и изменившиеся документы
type ElasticLoader struct {
	Service Indexer
	Logger  *zap.SugaredLogger

	mu     sync.Mutex
	loaded map[string]string
}

func NewElasticLoader(service Indexer, logger *zap.SugaredLogger) *ElasticLoader {
	return &ElasticLoader{
		Service: service,
		Logger:  logger,
		loaded:  make(map[string]string),
	}
}

// Load - загружает подготовленные ElasticDoc в индекс ElasticSearch.
// Возвращает число отправленных документов
func (l *ElasticLoader) Load(ctx context.Context, docs []elastic.ElasticDoc) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pending := make([]elastic.ElasticDoc, 0, len(docs))
	fingerprints := make(map[string]string, len(docs))
	for _, doc := range docs {
		data, err := json.Marshal(doc)
		if err != nil {
			l.Logger.Errorw("Failed to marshal doc", zap.Error(err), "doc_id", doc.ID)
			return 0, err
		}
		if l.loaded[doc.ID] == string(data) {
			continue
		}
		pending = append(pending, doc)
		fingerprints[doc.ID] = string(data)
	}

	if len(pending) == 0 {
		l.Logger.Debugw("No documents to load")
		return 0, nil
	}

	l.Logger.Infow("Loading documents to Elasticsearch", "count", len(pending))
	if err := l.Service.BulkIndex(ctx, pending); err != nil {
		l.Logger.Errorw("Failed to bulk index documents", zap.Error(err))
		return 0, err
	}

	for id, fp := range fingerprints {
		l.loaded[id] = fp
	}

	return len(pending), nil
}
