package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "lumio:editor:session:"

// RedisSessionStore keeps sessions as JSON values with a TTL, so any API
// instance can serve any session
type RedisSessionStore struct {
	client redis.UniversalClient
}

// NewRedisSessionStore creates a store on an existing client
func NewRedisSessionStore(client redis.UniversalClient) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Save(ctx context.Context, sess *Session, ttl time.Duration) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode editor session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+sess.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store editor session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Load(ctx context.Context, id string) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load editor session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode editor session: %w", err)
	}
	return &sess, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete editor session: %w", err)
	}
	return nil
}

var _ SessionStore = (*RedisSessionStore)(nil)
