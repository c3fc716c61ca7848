package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Checker-Finance/market-snapshot/pkg/model"
)

const redisKeyPrefix = "snapshot:"

// Redis is a redis-backed snapshot cache for multi-instance deployments.
// Expiry is delegated to redis key TTLs, which gives the same observable
// contract as the in-memory backend: fresh within TTL, miss after.
type Redis struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedis connects and pings the redis instance at addr.
func NewRedis(addr string, db int, password string, ttl time.Duration, logger *zap.Logger) (*Redis, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		DB:       db,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Redis{rdb: rdb, ttl: ttl, logger: logger}, nil
}

func (c *Redis) Get(ctx context.Context, key Key) (*model.MarketSnapshot, bool) {
	data, err := c.rdb.Get(ctx, redisKeyPrefix+key.String()).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache.redis_get_failed", zap.String("key", key.String()), zap.Error(err))
		}
		return nil, false
	}
	var snap model.MarketSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		c.logger.Warn("cache.redis_decode_failed", zap.String("key", key.String()), zap.Error(err))
		return nil, false
	}
	return &snap, true
}

func (c *Redis) Put(ctx context.Context, key Key, snap *model.MarketSnapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		c.logger.Warn("cache.redis_encode_failed", zap.String("key", key.String()), zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, redisKeyPrefix+key.String(), data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache.redis_set_failed", zap.String("key", key.String()), zap.Error(err))
	}
}

func (c *Redis) Close() error {
	return c.rdb.Close()
}
