package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"smsguard/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ResultCache stores classification outcomes in Redis keyed by a hash of the
// message text, so repeated texts skip the model call. Cache failures are
// treated as misses; Redis being down must never fail a request.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewResultCache(redisURL string, ttl time.Duration, logger *zap.Logger) (*ResultCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &ResultCache{client: client, ttl: ttl, logger: logger}, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "smsguard:prediction:" + hex.EncodeToString(sum[:])
}

func (c *ResultCache) Get(ctx context.Context, text string) (models.Label, bool) {
	value, err := c.client.Get(ctx, cacheKey(text)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Cache lookup failed", zap.Error(err))
		}
		return "", false
	}

	label := models.Label(value)
	if !label.Valid() {
		return "", false
	}
	return label, true
}

func (c *ResultCache) Set(ctx context.Context, text string, label models.Label) {
	if err := c.client.Set(ctx, cacheKey(text), string(label), c.ttl).Err(); err != nil {
		c.logger.Warn("Cache store failed", zap.Error(err))
	}
}

// Close closes the Redis client.
func (c *ResultCache) Close() error {
	return c.client.Close()
}
