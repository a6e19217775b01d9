package cart

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	myErr "lifeline-store/internal/types/errors"
)

// RedisSnapshotRepository хранит снапшоты корзин в Redis
type RedisSnapshotRepository struct {
	RedisClient *redis.Client
	Logger      *zap.SugaredLogger
	ttl         time.Duration
}

// NewRedisSnapshotRepository - ttl == 0 хранит ключи без срока жизни
func NewRedisSnapshotRepository(client *redis.Client, logger *zap.SugaredLogger, ttl time.Duration) *RedisSnapshotRepository {
	return &RedisSnapshotRepository{
		RedisClient: client,
		Logger:      logger,
		ttl:         ttl,
	}
}

func (r *RedisSnapshotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.RedisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, myErr.ErrNotFound
		}

		r.Logger.Error(
			"Failed get cart snapshot from Redis",
			zap.Error(err),
			zap.String("key", key),
		)

		return nil, err
	}

	return data, nil
}

func (r *RedisSnapshotRepository) Set(ctx context.Context, key string, value []byte) error {
	if err := r.RedisClient.Set(ctx, key, value, r.ttl).Err(); err != nil {
		r.Logger.Error(
			"Failed save cart snapshot to Redis",
			zap.Error(err),
			zap.String("key", key),
		)

		return err
	}

	return nil
}
