package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"leadtime-prediction-api/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrCacheDisabled = errors.New("redis cache disabled")

const pingAttempts = 10

// CacheService wraps Redis for prediction caching and the live event
// channel. A CacheService without a client is disabled: reads miss, writes
// and publishes are dropped.
type CacheService struct {
	client *redis.Client
}

// NewCacheService connects to Redis, retrying the ping for slow sidecars.
// On failure it returns a disabled service alongside the error so callers
// may continue without caching.
func NewCacheService(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) (*CacheService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	var lastErr error
	for i := 0; i < pingAttempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		lastErr = client.Ping(pingCtx).Err()
		cancel()
		if lastErr == nil {
			return &CacheService{client: client}, nil
		}
		log.Warn("redis ping failed",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", pingAttempts),
			zap.Error(lastErr))

		select {
		case <-ctx.Done():
			_ = client.Close()
			return NewDisabledCache(), ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}

	_ = client.Close()
	return NewDisabledCache(), fmt.Errorf("redis ping failed after %d attempts: %w", pingAttempts, lastErr)
}

func NewCacheServiceFromClient(client *redis.Client) *CacheService {
	return &CacheService{client: client}
}

func NewDisabledCache() *CacheService {
	return &CacheService{}
}

func (s *CacheService) Client() *redis.Client {
	return s.client
}

func (s *CacheService) Available() bool {
	return s.client != nil
}

func (s *CacheService) Ping(ctx context.Context) error {
	if s.client == nil {
		return ErrCacheDisabled
	}
	return s.client.Ping(ctx).Err()
}

// Get decodes the value at key into dest. found is false on a miss.
func (s *CacheService) Get(ctx context.Context, key string, dest any) (bool, error) {
	if s.client == nil {
		return false, nil
	}
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (s *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if s.client == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Publish(ctx context.Context, channel string, message any) error {
	if s.client == nil {
		return nil
	}
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, channel, data).Err()
}

// Subscribe returns nil when the cache is disabled.
func (s *CacheService) Subscribe(ctx context.Context, channel string) *redis.PubSub {
	if s.client == nil {
		return nil
	}
	return s.client.Subscribe(ctx, channel)
}

func (s *CacheService) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
