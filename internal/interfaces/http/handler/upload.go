package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	agencyapp "github.com/lumio/backend/internal/application/agency"
)

// UploadHandler hands out presigned logo uploads
type UploadHandler struct {
	BaseHandler
	uploads *agencyapp.UploadService
}

// NewUploadHandler creates an UploadHandler
func NewUploadHandler(uploads *agencyapp.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// PresignRequest asks for a logo upload target
type PresignRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=agency subaccount"`
	ContentType string `json:"content_type" binding:"required"`
}

// PresignResponse is where to PUT the file and where it will be served from
type PresignResponse struct {
	UploadURL string    `json:"upload_url"`
	PublicURL string    `json:"public_url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Presign returns a one-shot upload URL
func (h *UploadHandler) Presign(c *gin.Context) {
	actorID, ok := h.actorID(c)
	if !ok {
		return
	}
	var req PresignRequest
	if !h.bindJSON(c, &req) {
		return
	}
	up, err := h.uploads.PresignLogo(c.Request.Context(), actorID, agencyapp.PresignLogoInput{
		Kind:        req.Kind,
		ContentType: req.ContentType,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, PresignResponse{
		UploadURL: up.UploadURL,
		PublicURL: up.PublicURL,
		Key:       up.Key,
		ExpiresAt: up.ExpiresAt,
	})
}
