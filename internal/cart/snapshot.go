package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	myErr "lifeline-store/internal/types/errors"
	"lifeline-store/internal/types/product"
)

// snapshotProduct пишет цены JSON-числами, остальные поля берутся из product.Product
type snapshotProduct struct {
	product.Product
	Price         json.Number  `json:"price"`
	OriginalPrice *json.Number `json:"originalPrice,omitempty"`
}

type snapshotLine struct {
	Product  snapshotProduct `json:"product"`
	Quantity int             `json:"quantity"`
}

// EncodeSnapshot сериализует строки в JSON-массив {product, quantity}
func EncodeSnapshot(lines []Line) ([]byte, error) {
	out := make([]snapshotLine, 0, len(lines))
	for _, l := range lines {
		sp := snapshotProduct{
			Product: l.Product,
			Price:   json.Number(l.Product.Price.String()),
		}
		if l.Product.OriginalPrice != nil {
			op := json.Number(l.Product.OriginalPrice.String())
			sp.OriginalPrice = &op
		}
		out = append(out, snapshotLine{Product: sp, Quantity: l.Quantity})
	}

	return json.Marshal(out)
}

// DecodeSnapshot разбирает снапшот и проверяет инварианты строк.
// Незнакомые поля игнорируются
func DecodeSnapshot(data []byte) ([]Line, error) {
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("%w: %v", myErr.ErrSnapshotInvalid, err)
	}

	seen := make(map[string]struct{}, len(lines))
	for i, l := range lines {
		switch {
		case l.Product.ID == "":
			return nil, fmt.Errorf("%w: line %d has no product id", myErr.ErrSnapshotInvalid, i)
		case l.Quantity < 1:
			return nil, fmt.Errorf("%w: line %d has quantity %d", myErr.ErrSnapshotInvalid, i, l.Quantity)
		case l.Product.Price.IsNegative():
			return nil, fmt.Errorf("%w: line %d has negative price", myErr.ErrSnapshotInvalid, i)
		}

		if _, ok := seen[l.Product.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate product %s", myErr.ErrSnapshotInvalid, l.Product.ID)
		}
		seen[l.Product.ID] = struct{}{}
	}

	return lines, nil
}

// LoadSnapshot читает снапшот по ключу. Отсутствующий ключ, битый JSON
// и несовпадение схемы дают пустую корзину без ошибки.
// Ошибка чтения хранилища возвращается: пустая корзина затерла бы сохраненную
func LoadSnapshot(ctx context.Context, storage Storage, key string, logger *zap.SugaredLogger) ([]Line, error) {
	data, err := storage.Get(ctx, key)
	if err != nil {
		if errors.Is(err, myErr.ErrNotFound) {
			return nil, nil
		}
		logger.Warnw("failed to read cart snapshot", "key", key, "err", err)
		return nil, fmt.Errorf("%w: %v", myErr.ErrCartUnavailable, err)
	}

	lines, err := DecodeSnapshot(data)
	if err != nil {
		logger.Warnw("discarding cart snapshot", "key", key, "err", err)
		return nil, nil
	}

	return lines, nil
}

// SnapshotCommitter пишет полный список строк под одним ключом
type SnapshotCommitter struct {
	Storage Storage
	Key     string
}

func NewSnapshotCommitter(storage Storage, key string) *SnapshotCommitter {
	return &SnapshotCommitter{
		Storage: storage,
		Key:     key,
	}
}

func (c *SnapshotCommitter) Commit(ctx context.Context, lines []Line) error {
	data, err := EncodeSnapshot(lines)
	if err != nil {
		return fmt.Errorf("failed to encode cart snapshot: %w", err)
	}

	return c.Storage.Set(ctx, c.Key, data)
}

// NopCommitter отключает сохранение (тесты, корзины без хранилища)
type NopCommitter struct{}

func (NopCommitter) Commit(context.Context, []Line) error {
	return nil
}
