// Package idempotency remembers which external events were already handled.
package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = 72 * time.Hour

type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func New(redisURL, prefix string) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewWithClient(client, prefix), nil
}

func NewWithClient(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix, ttl: defaultTTL}
}

func (s *Store) key(id string) string { return s.prefix + id }

// Claim marks id as seen and reports whether the caller is the first to see
// it. A nil Store claims everything.
func (s *Store) Claim(ctx context.Context, id string) (bool, error) {
	if s == nil {
		return true, nil
	}
	ok, err := s.client.SetNX(ctx, s.key(id), time.Now().UTC().Format(time.RFC3339), s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim %s: %w", id, err)
	}
	return ok, nil
}

// Release forgets id so a redelivery is processed again. Used when handling
// failed after a successful Claim.
func (s *Store) Release(ctx context.Context, id string) error {
	if s == nil {
		return nil
	}
	return s.client.Del(ctx, s.key(id)).Err()
}

func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.client.Close()
}
