package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// Service is the fixed-window rate limiter guarding the gateway's abuse
// surface: login attempts, visitor contact/chat submissions, and overall
// request volume per client IP.
type Service interface {
	// Allow counts one hit against key and reports whether the count stays
	// within limit for the window.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Block(ctx context.Context, key string, duration time.Duration) error
	IsBlocked(ctx context.Context, key string) (bool, error)
}

// Config selects the backing store. When disabled, a permissive no-op
// service is returned so callers need no branching.
type Config struct {
	Enabled  bool
	RedisURL string
}

func New(cfg Config, logger *logrus.Logger) (Service, error) {
	if !cfg.Enabled {
		logger.Info("rate limiting disabled")
		return noopService{}, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("rate limiting service initialized")
	return &redisService{client: client, logger: logger}, nil
}

type redisService struct {
	client *redis.Client
	logger *logrus.Logger
}

func (s *redisService) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	pipe := s.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to count rate limit hit: %w", err)
	}

	count := incr.Val()
	if count > int64(limit) {
		s.logger.WithFields(logrus.Fields{
			"key":   key,
			"count": count,
			"limit": limit,
		}).Warn("rate limit exceeded")
		return false, nil
	}
	return true, nil
}

func (s *redisService) Block(ctx context.Context, key string, duration time.Duration) error {
	blockKey := "blocked:" + key
	if err := s.client.Set(ctx, blockKey, time.Now().Unix(), duration).Err(); err != nil {
		return fmt.Errorf("failed to block key: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"key": key, "duration": duration}).Warn("key blocked")
	return nil
}

func (s *redisService) IsBlocked(ctx context.Context, key string) (bool, error) {
	exists, err := s.client.Exists(ctx, "blocked:"+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check block status: %w", err)
	}
	return exists > 0, nil
}

type noopService struct{}

func (noopService) Allow(context.Context, string, int, time.Duration) (bool, error) {
	return true, nil
}

func (noopService) Block(context.Context, string, time.Duration) error {
	return nil
}

func (noopService) IsBlocked(context.Context, string) (bool, error) {
	return false, nil
}
