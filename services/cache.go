package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"model-health-api/config"
	"model-health-api/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// ReportCacheKey holds the last usable failure-risk report for a short
	// window so repeated dashboard submissions don't hammer upstream.
	ReportCacheKey = "mlhealth:failure-risk"
	// ReportCacheTTL bounds how stale a relayed report may be.
	ReportCacheTTL = 30 * time.Second
	// VerdictChannel carries verdict events to live dashboard connections.
	VerdictChannel = "mlhealth:verdicts"
)

// CacheService wraps Redis for report caching and verdict fan-out. Redis is
// optional: with no client every operation degrades to a no-op and the
// dashboard still works, just without caching or live updates.
type CacheService struct {
	client *redis.Client
}

func NewCacheService(cfg config.RedisConfig) (*CacheService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	var lastErr error
	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		lastErr = client.Ping(ctx).Err()
		cancel()
		if lastErr == nil {
			return &CacheService{client: client}, nil
		}
		logger.Log.Warn("redis ping failed",
			zap.Int("attempt", i+1),
			zap.Error(lastErr))
		time.Sleep(2 * time.Second)
	}

	return &CacheService{client: nil}, fmt.Errorf("redis ping failed after 5 attempts: %w", lastErr)
}

// NewDisabledCacheService returns a CacheService with no backing Redis.
// Used when Redis is unreachable and in tests.
func NewDisabledCacheService() *CacheService {
	return &CacheService{}
}

func (s *CacheService) Available() bool {
	return s.client != nil
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	if s.client == nil {
		return redis.Nil
	}
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.client == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Publish(ctx context.Context, channel string, message interface{}) error {
	if s.client == nil {
		return nil
	}
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, channel, data).Err()
}

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
