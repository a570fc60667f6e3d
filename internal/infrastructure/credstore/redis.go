package credstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kedikian/admin-gateway/internal/core/domain"
)

const redisKey = "session:current"

// RedisStore keeps the session under a single Redis key so the credential
// store can be shared across gateway replicas. SET/GET/DEL on one key give
// the atomic replace the store contract requires.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Load implements ports.CredentialStore.
func (s *RedisStore) Load(ctx context.Context) (*domain.Session, error) {
	val, err := s.client.Get(ctx, redisKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("credstore: redis get: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		_ = s.client.Del(ctx, redisKey).Err()
		return nil, domain.ErrCorruptCredentials
	}
	return &session, nil
}

// Save implements ports.CredentialStore.
func (s *RedisStore) Save(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("credstore: marshal session: %w", err)
	}
	if err := s.client.Set(ctx, redisKey, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("credstore: redis set: %w", err)
	}
	return nil
}

// Clear implements ports.CredentialStore.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, redisKey).Err(); err != nil {
		return fmt.Errorf("credstore: redis del: %w", err)
	}
	return nil
}
