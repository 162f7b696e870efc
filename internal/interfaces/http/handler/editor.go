package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	editorapp "github.com/lumio/backend/internal/application/editor"
	"github.com/lumio/backend/internal/domain/editor"
	"github.com/lumio/backend/internal/infrastructure/cache"
)

// EditorHandler drives page editor sessions of the gated sub-account
type EditorHandler struct {
	BaseHandler
	sessions *editorapp.SessionService
}

// NewEditorHandler creates an EditorHandler
func NewEditorHandler(sessions *editorapp.SessionService) *EditorHandler {
	return &EditorHandler{sessions: sessions}
}

// OpenSessionRequest opens the editor on a funnel page
type OpenSessionRequest struct {
	FunnelPageID uuid.UUID `json:"funnelPageId" binding:"required"`
}

// Open loads a page into a new session
func (h *EditorHandler) Open(c *gin.Context) {
	var req OpenSessionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sess, err := h.sessions.Open(c.Request.Context(), subAccountID(c), req.FunnelPageID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sess)
}

// Get returns the session state
func (h *EditorHandler) Get(c *gin.Context) {
	h.respond(c, func(subID uuid.UUID, id string) (*cache.Session, error) {
		return h.sessions.Get(c.Request.Context(), subID, id)
	})
}

// Dispatch applies one editor action
func (h *EditorHandler) Dispatch(c *gin.Context) {
	var action editor.Action
	if !h.bindJSON(c, &action) {
		return
	}
	h.respond(c, func(subID uuid.UUID, id string) (*cache.Session, error) {
		return h.sessions.Dispatch(c.Request.Context(), subID, id, action)
	})
}

// Undo steps back in history
func (h *EditorHandler) Undo(c *gin.Context) {
	h.respond(c, func(subID uuid.UUID, id string) (*cache.Session, error) {
		return h.sessions.Undo(c.Request.Context(), subID, id)
	})
}

// Redo steps forward in history
func (h *EditorHandler) Redo(c *gin.Context) {
	h.respond(c, func(subID uuid.UUID, id string) (*cache.Session, error) {
		return h.sessions.Redo(c.Request.Context(), subID, id)
	})
}

// Save writes the session's elements back to the page
func (h *EditorHandler) Save(c *gin.Context) {
	h.respond(c, func(subID uuid.UUID, id string) (*cache.Session, error) {
		return h.sessions.Save(c.Request.Context(), subID, id)
	})
}

// Close discards the session
func (h *EditorHandler) Close(c *gin.Context) {
	if err := h.sessions.Close(c.Request.Context(), subAccountID(c), c.Param("sessionId")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *EditorHandler) respond(c *gin.Context, op func(subID uuid.UUID, sessionID string) (*cache.Session, error)) {
	sess, err := op(subAccountID(c), c.Param("sessionId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sess)
}
