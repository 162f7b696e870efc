package handler

import (
	"github.com/gin-gonic/gin"
	funnelapp "github.com/lumio/backend/internal/application/funnel"
)

// SiteHandler serves published funnel pages to visitors
type SiteHandler struct {
	BaseHandler
	funnels *funnelapp.Service
}

// NewSiteHandler creates a SiteHandler
func NewSiteHandler(funnels *funnelapp.Service) *SiteHandler {
	return &SiteHandler{funnels: funnels}
}

// PublishedPage returns the page at path of the funnel published under
// subDomain and counts the visit
func (h *SiteHandler) PublishedPage(c *gin.Context) {
	f, p, err := h.funnels.GetPublishedPage(c.Request.Context(), c.Param("subDomain"), c.Param("path"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, PublishedPageResponse{
		FunnelID:   f.ID,
		FunnelName: f.Name,
		Favicon:    f.Favicon,
		Page:       toPageResponse(p, true),
	})
}
