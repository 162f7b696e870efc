package cache

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewSessionStore returns a Redis store when a client is available and the
// in-memory store otherwise
func NewSessionStore(client redis.UniversalClient, logger *zap.Logger) SessionStore {
	if client != nil {
		logger.Info("Using Redis editor session store")
		return NewRedisSessionStore(client)
	}
	logger.Warn("Redis not configured, editor sessions are kept in memory and lost on restart")
	return NewInMemorySessionStore()
}
