// Package credstore provides credential-store drivers persisting the current
// session under a single fixed key. Drivers replace the stored value
// atomically so that a concurrent reader never observes a partial write.
package credstore

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kedikian/admin-gateway/internal/core/ports"
)

// Driver identifies a credential-store backend.
type Driver string

const (
	DriverMemory Driver = "memory"
	DriverFile   Driver = "file"
	DriverRedis  Driver = "redis"
)

// Option configures the store factory.
type Option func(*config)

type config struct {
	filePath    string
	redisClient *redis.Client
	redisTTL    time.Duration
}

// WithFilePath sets the path used by the file driver.
func WithFilePath(path string) Option {
	return func(c *config) { c.filePath = path }
}

// WithRedisClient sets the Redis client for the redis driver.
func WithRedisClient(client *redis.Client) Option {
	return func(c *config) { c.redisClient = client }
}

// WithRedisTTL sets the expiry applied to the stored session key.
func WithRedisTTL(ttl time.Duration) Option {
	return func(c *config) { c.redisTTL = ttl }
}

// New builds a credential store for the given driver.
func New(driver Driver, opts ...Option) (ports.CredentialStore, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	switch driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverFile:
		if cfg.filePath == "" {
			return nil, fmt.Errorf("credstore: file driver requires a path")
		}
		return NewFileStore(cfg.filePath), nil
	case DriverRedis:
		if cfg.redisClient == nil {
			return nil, fmt.Errorf("credstore: redis driver requires a client")
		}
		ttl := cfg.redisTTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		return NewRedisStore(cfg.redisClient, ttl), nil
	default:
		return nil, fmt.Errorf("credstore: unknown driver %q", driver)
	}
}
