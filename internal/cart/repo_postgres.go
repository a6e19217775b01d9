package cart

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	myErr "lifeline-store/internal/types/errors"
)

// PostgresSnapshotRepository хранит снапшоты корзин в таблице cart_snapshot
type PostgresSnapshotRepository struct {
	DB     *sql.DB
	Logger *zap.SugaredLogger
}

func NewPostgresSnapshotRepository(db *sql.DB, logger *zap.SugaredLogger) *PostgresSnapshotRepository {
	return &PostgresSnapshotRepository{
		DB:     db,
		Logger: logger,
	}
}

// Get получает снапшот по ключу
func (pr *PostgresSnapshotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	query := `
	SELECT payload FROM cart_snapshot
	WHERE cart_key = $1
`
	var payload []byte
	err := pr.DB.QueryRowContext(ctx, query, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, myErr.ErrNotFound
		}

		pr.Logger.Errorf("Ошибка при получении снапшота корзины %v: %v", key, err)
		return nil, myErr.ErrDBInternal
	}

	return payload, nil
}

// Set перезаписывает снапшот, last-write-wins
func (pr *PostgresSnapshotRepository) Set(ctx context.Context, key string, value []byte) error {
	query := `
	INSERT INTO cart_snapshot(cart_key, payload, updated_at)
	VALUES ($1, $2, NOW()) ON CONFLICT (cart_key)
	DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
`
	_, err := pr.DB.ExecContext(ctx, query, key, value)
	if err != nil {
		pr.Logger.Errorf("Ошибка при сохранении снапшота корзины %v: %v", key, err)
		return myErr.ErrDBInternal
	}

	return nil
}
