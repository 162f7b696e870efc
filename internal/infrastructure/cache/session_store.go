package cache

import (
	"context"
	"time"

	"github.com/lumio/backend/internal/domain/editor"
	"github.com/lumio/backend/internal/domain/shared"
)

// ErrSessionNotFound is returned for unknown or expired editor sessions
var ErrSessionNotFound = shared.NewDomainError("EDITOR_SESSION_NOT_FOUND", "Editor session not found or expired")

// Session is a stored editor session
type Session struct {
	ID           string       `json:"id"`
	SubAccountID string       `json:"subAccountId"`
	FunnelPageID string       `json:"funnelPageId"`
	State        editor.State `json:"state"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// SessionStore persists editor sessions with a sliding TTL. Writes are
// last-writer-wins.
type SessionStore interface {
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Load(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
