package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRevoker invalidates tokens before they expire: single tokens on
// logout and every token of a user when their role changes or they are
// removed
type TokenRevoker interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// RevokeUser invalidates every token issued to userID up to now
	RevokeUser(ctx context.Context, userID string, ttl time.Duration) error
	IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

const revocationPrefix = "lumio:auth:revoked:"

// RedisTokenRevoker stores revocations in Redis with the token's remaining
// lifetime as TTL
type RedisTokenRevoker struct {
	client redis.UniversalClient
}

// NewRedisTokenRevoker wraps an existing client
func NewRedisTokenRevoker(client redis.UniversalClient) *RedisTokenRevoker {
	return &RedisTokenRevoker{client: client}
}

func (r *RedisTokenRevoker) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if err := r.client.Set(ctx, revocationPrefix+"jti:"+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *RedisTokenRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, revocationPrefix+"jti:"+jti).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

func (r *RedisTokenRevoker) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	if err := r.client.Set(ctx, revocationPrefix+"user:"+userID, time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}
	return nil
}

// IsUserRevoked reports whether issuedAt is at or before the user's
// revocation time. JWT timestamps have second precision.
func (r *RedisTokenRevoker) IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	raw, err := r.client.Get(ctx, revocationPrefix+"user:"+userID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user revocation: %w", err)
	}
	at, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("failed to parse revocation timestamp: %w", err)
	}
	return issuedAt.Unix() <= at, nil
}

// InMemoryTokenRevoker is the single-instance fallback when Redis is not
// configured
type InMemoryTokenRevoker struct {
	mu     sync.Mutex
	tokens map[string]time.Time // jti -> expiry
	users  map[string]time.Time // user id -> revoked at
	now    func() time.Time
}

// NewInMemoryTokenRevoker creates an empty revoker
func NewInMemoryTokenRevoker() *InMemoryTokenRevoker {
	return &InMemoryTokenRevoker{
		tokens: make(map[string]time.Time),
		users:  make(map[string]time.Time),
		now:    time.Now,
	}
}

func (r *InMemoryTokenRevoker) RevokeToken(_ context.Context, jti string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[jti] = r.now().Add(ttl)
	return nil
}

func (r *InMemoryTokenRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.tokens[jti]
	if !ok {
		return false, nil
	}
	if r.now().After(exp) {
		delete(r.tokens, jti)
		return false, nil
	}
	return true, nil
}

func (r *InMemoryTokenRevoker) RevokeUser(_ context.Context, userID string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[userID] = r.now()
	return nil
}

func (r *InMemoryTokenRevoker) IsUserRevoked(_ context.Context, userID string, issuedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	at, ok := r.users[userID]
	if !ok {
		return false, nil
	}
	return issuedAt.Unix() <= at.Unix(), nil
}

var (
	_ TokenRevoker = (*RedisTokenRevoker)(nil)
	_ TokenRevoker = (*InMemoryTokenRevoker)(nil)
)
