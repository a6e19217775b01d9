package analytics

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	myErr "lifeline-store/internal/types/errors"
)

type Repository struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

func NewRepository(db *sql.DB, logger *zap.SugaredLogger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// IncrementStats применяет все приращения одной транзакцией
func (r *Repository) IncrementStats(ctx context.Context, deltas map[string]StatsDelta) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for productID, d := range deltas {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cart_product_stats (product_id, category, adds, removals, purchases, units_sold)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (product_id)
			DO UPDATE SET
				category = COALESCE(NULLIF(EXCLUDED.category, ''), cart_product_stats.category),
				adds = cart_product_stats.adds + EXCLUDED.adds,
				removals = cart_product_stats.removals + EXCLUDED.removals,
				purchases = cart_product_stats.purchases + EXCLUDED.purchases,
				units_sold = cart_product_stats.units_sold + EXCLUDED.units_sold
		`, productID, d.Category, d.Adds, d.Removals, d.Purchases, d.UnitsSold)

		if err != nil {
			r.logger.Errorf("не удалось обновить статистику товара %s: %v", productID, err)
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) GetProductStats(ctx context.Context, productID string) (*ProductStats, error) {
	var s ProductStats
	err := r.db.QueryRowContext(ctx, `
		SELECT product_id, category, adds, removals, purchases, units_sold
		FROM cart_product_stats
		WHERE product_id = $1
	`, productID).Scan(&s.ProductID, &s.Category, &s.Adds, &s.Removals, &s.Purchases, &s.UnitsSold)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, myErr.ErrNotFound
	}
	if err != nil {
		r.logger.Errorf("ошибка чтения статистики товара %s: %v", productID, err)
		return nil, myErr.ErrDBInternal
	}

	return &s, nil
}

func (r *Repository) GetTopProducts(ctx context.Context, limit int) ([]ProductStats, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, category, adds, removals, purchases, units_sold
		FROM cart_product_stats
		ORDER BY units_sold DESC, adds DESC
		LIMIT $1
	`, limit)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []ProductStats
	for rows.Next() {
		var s ProductStats
		if err := rows.Scan(&s.ProductID, &s.Category, &s.Adds, &s.Removals, &s.Purchases, &s.UnitsSold); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}
