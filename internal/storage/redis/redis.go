// Package redis stores short code mappings in Redis through a go-redis
// client pool. Keys are short codes and values are original URLs.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goRedis "github.com/redis/go-redis/v9"

	"github.com/velox/url-shortener/internal/storage"
)

// Options configures the connection pool.
type Options struct {
	URL         string
	PoolSize    int
	MaxIdle     int
	IdleTimeout time.Duration
	DialTimeout time.Duration
}

// Storage implements storage.Store on top of a go-redis client.
type Storage struct {
	client *goRedis.Client
}

// NewStorage creates a pooled Redis storage. Connections are dialed lazily,
// so an unreachable server is reported by the first operation, not here.
func NewStorage(opts Options) (*Storage, error) {
	if opts.URL == "" {
		return nil, errors.New("redis URL is empty")
	}

	clientOpts, err := goRedis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	if opts.PoolSize > 0 {
		clientOpts.PoolSize = opts.PoolSize
	}
	if opts.MaxIdle > 0 {
		clientOpts.MaxIdleConns = opts.MaxIdle
	}
	if opts.IdleTimeout > 0 {
		clientOpts.ConnMaxIdleTime = opts.IdleTimeout
	}
	if opts.DialTimeout > 0 {
		clientOpts.DialTimeout = opts.DialTimeout
		clientOpts.PoolTimeout = opts.DialTimeout
	}

	return &Storage{client: goRedis.NewClient(clientOpts)}, nil
}

func (s *Storage) Put(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return classify("put", err)
	}
	return nil
}

func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, goRedis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, classify("get", err)
	}
	return value, true, nil
}

// Ping checks that a pooled connection answers.
func (s *Storage) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return storage.Unavailable("ping", err)
	}
	return nil
}

// Close releases all pooled connections.
func (s *Storage) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("close redis client: %w", err)
	}
	return nil
}

// classify separates error replies sent by the server from failures to reach it.
func classify(op string, err error) error {
	var reply goRedis.Error
	if errors.As(err, &reply) {
		return storage.Query(op, err)
	}
	return storage.Unavailable(op, err)
}
