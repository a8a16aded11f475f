package repositories

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type CacheRepositoryInterface interface {
	// ClaimOnce returns true the first time key is claimed within the
	// window, false for every repeat while the key lives.
	ClaimOnce(ctx context.Context, key string, window time.Duration) (bool, error)
}

type RedisCacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisCacheRepository(client *redis.Client, logger *zap.Logger) CacheRepositoryInterface {
	return &RedisCacheRepository{client: client, logger: logger}
}

func (r *RedisCacheRepository) ClaimOnce(ctx context.Context, key string, window time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, 1, window).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}
