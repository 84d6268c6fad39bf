package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/patrimonia/portal/pkg/backend"
)

// Store keeps session storage in Redis so portal instances can be restarted
// (or scaled out) without logging every visitor out.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(redisURL string, ttl time.Duration) (*Store, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{client: client, ttl: ttl}, nil
}

func (s *Store) Namespace(sessionID string) backend.Storage {
	return &namespace{store: s, sessionID: sessionID}
}

func (s *Store) Close() error {
	return s.client.Close()
}

type namespace struct {
	store     *Store
	sessionID string
}

func (n *namespace) key(k string) string {
	return fmt.Sprintf("session:%s:%s", n.sessionID, k)
}

func (n *namespace) GetItem(ctx context.Context, key string) (string, error) {
	value, err := n.store.client.Get(ctx, n.key(key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session key %q: %w", key, err)
	}
	return value, nil
}

func (n *namespace) SetItem(ctx context.Context, key, value string) error {
	if err := n.store.client.Set(ctx, n.key(key), value, n.store.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write session key %q: %w", key, err)
	}
	return nil
}

func (n *namespace) RemoveItem(ctx context.Context, key string) error {
	if err := n.store.client.Del(ctx, n.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to remove session key %q: %w", key, err)
	}
	return nil
}
