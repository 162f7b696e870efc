// Package editor runs server-side page editor sessions: a page document is
// loaded into reducer state, edited action by action and written back.
package editor

import (
	"context"
	"time"

	"github.com/google/uuid"
	funnelapp "github.com/lumio/backend/internal/application/funnel"
	"github.com/lumio/backend/internal/domain/editor"
	"github.com/lumio/backend/internal/domain/funnel"
	"github.com/lumio/backend/internal/infrastructure/cache"
	"go.uber.org/zap"
)

// DefaultSessionTTL is used when no TTL is configured
const DefaultSessionTTL = 2 * time.Hour

// PageStore reads and writes funnel pages of a sub-account
type PageStore interface {
	PageInSubAccount(ctx context.Context, subAccountID, pageID uuid.UUID) (*funnel.Page, error)
	SaveContent(ctx context.Context, subAccountID, pageID uuid.UUID, elements []editor.Element) error
}

// SessionConfig tunes sessions
type SessionConfig struct {
	TTL          time.Duration
	HistoryLimit int
}

// SessionService manages editor sessions. Every call refreshes the TTL.
type SessionService struct {
	pages     PageStore
	store     cache.SessionStore
	validator funnelapp.ContentValidator
	reducer   editor.Reducer
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewSessionService creates a SessionService
func NewSessionService(pages PageStore, store cache.SessionStore, validator funnelapp.ContentValidator, cfg SessionConfig, logger *zap.Logger) *SessionService {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionService{
		pages:     pages,
		store:     store,
		validator: validator,
		reducer:   editor.Reducer{HistoryLimit: cfg.HistoryLimit},
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
	}
}

// Open loads a funnel page into a new session
func (s *SessionService) Open(ctx context.Context, subAccountID, pageID uuid.UUID) (*cache.Session, error) {
	page, err := s.pages.PageInSubAccount(ctx, subAccountID, pageID)
	if err != nil {
		return nil, err
	}
	elements, err := funnelapp.DecodeContent(s.validator, page.Content)
	if err != nil {
		s.logger.Warn("Stored page content is invalid",
			zap.String("page_id", pageID.String()),
			zap.Error(err))
		return nil, err
	}

	state := editor.NewState("")
	if state, err = s.reducer.Reduce(state, editor.LoadData(elements, false)); err != nil {
		return nil, err
	}
	if state, err = s.reducer.Reduce(state, editor.SetFunnelPageID(pageID.String())); err != nil {
		return nil, err
	}

	sess := &cache.Session{
		ID:           uuid.NewString(),
		SubAccountID: subAccountID.String(),
		FunnelPageID: pageID.String(),
		State:        state,
	}
	if err := s.persist(ctx, sess); err != nil {
		return nil, err
	}
	s.logger.Debug("Editor session opened",
		zap.String("session_id", sess.ID),
		zap.String("page_id", sess.FunnelPageID))
	return sess, nil
}

// Get returns the session
func (s *SessionService) Get(ctx context.Context, subAccountID uuid.UUID, sessionID string) (*cache.Session, error) {
	sess, err := s.load(ctx, subAccountID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Dispatch applies action. A rejected action leaves the session unchanged.
func (s *SessionService) Dispatch(ctx context.Context, subAccountID uuid.UUID, sessionID string, action editor.Action) (*cache.Session, error) {
	sess, err := s.load(ctx, subAccountID, sessionID)
	if err != nil {
		return nil, err
	}
	next, err := s.reducer.Reduce(sess.State, action)
	if err != nil {
		return nil, err
	}
	sess.State = next
	if err := s.persist(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Undo steps back one snapshot
func (s *SessionService) Undo(ctx context.Context, subAccountID uuid.UUID, sessionID string) (*cache.Session, error) {
	return s.Dispatch(ctx, subAccountID, sessionID, editor.Undo())
}

// Redo steps forward one snapshot
func (s *SessionService) Redo(ctx context.Context, subAccountID uuid.UUID, sessionID string) (*cache.Session, error) {
	return s.Dispatch(ctx, subAccountID, sessionID, editor.Redo())
}

// Save writes the current document back to the funnel page. The session
// stays open.
func (s *SessionService) Save(ctx context.Context, subAccountID uuid.UUID, sessionID string) (*cache.Session, error) {
	sess, err := s.load(ctx, subAccountID, sessionID)
	if err != nil {
		return nil, err
	}
	pageID, err := uuid.Parse(sess.FunnelPageID)
	if err != nil {
		return nil, cache.ErrSessionNotFound
	}
	if err := s.pages.SaveContent(ctx, subAccountID, pageID, sess.State.Editor.Elements); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, sess); err != nil {
		return nil, err
	}
	s.logger.Info("Editor session saved",
		zap.String("session_id", sess.ID),
		zap.String("page_id", sess.FunnelPageID))
	return sess, nil
}

// Close discards the session without saving
func (s *SessionService) Close(ctx context.Context, subAccountID uuid.UUID, sessionID string) error {
	if _, err := s.load(ctx, subAccountID, sessionID); err != nil {
		return err
	}
	return s.store.Delete(ctx, sessionID)
}

// load fetches a session and hides sessions of other sub-accounts
func (s *SessionService) load(ctx context.Context, subAccountID uuid.UUID, sessionID string) (*cache.Session, error) {
	sess, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.SubAccountID != subAccountID.String() {
		return nil, cache.ErrSessionNotFound
	}
	return sess, nil
}

func (s *SessionService) persist(ctx context.Context, sess *cache.Session) error {
	sess.UpdatedAt = s.now().UTC()
	return s.store.Save(ctx, sess, s.ttl)
}
