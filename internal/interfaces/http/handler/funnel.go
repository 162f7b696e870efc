package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	funnelapp "github.com/lumio/backend/internal/application/funnel"
	"github.com/lumio/backend/internal/domain/funnel"
)

// FunnelHandler serves funnels and pages of the gated sub-account
type FunnelHandler struct {
	BaseHandler
	funnels *funnelapp.Service
}

// NewFunnelHandler creates a FunnelHandler
func NewFunnelHandler(funnels *funnelapp.Service) *FunnelHandler {
	return &FunnelHandler{funnels: funnels}
}

// List lists the sub-account's funnels
func (h *FunnelHandler) List(c *gin.Context) {
	fs, err := h.funnels.ListFunnels(c.Request.Context(), subAccountID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]FunnelResponse, len(fs))
	for i, f := range fs {
		out[i] = toFunnelResponse(f)
	}
	h.SuccessList(c, out, len(out))
}

// Get returns a funnel with its pages
func (h *FunnelHandler) Get(c *gin.Context) {
	funnelID, ok := h.uuidParam(c, "funnelId")
	if !ok {
		return
	}
	f, err := h.funnels.GetFunnel(c.Request.Context(), subAccountID(c), funnelID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toFunnelResponse(f))
}

// Create adds a funnel
func (h *FunnelHandler) Create(c *gin.Context) {
	f, ok := h.upsert(c, uuid.Nil)
	if ok {
		h.Created(c, toFunnelResponse(f))
	}
}

// Update saves funnel settings
func (h *FunnelHandler) Update(c *gin.Context) {
	funnelID, ok := h.uuidParam(c, "funnelId")
	if !ok {
		return
	}
	if f, ok := h.upsert(c, funnelID); ok {
		h.Success(c, toFunnelResponse(f))
	}
}

func (h *FunnelHandler) upsert(c *gin.Context, funnelID uuid.UUID) (*funnel.Funnel, bool) {
	actorID, ok := h.actorID(c)
	if !ok {
		return nil, false
	}
	var req UpsertFunnelRequest
	if !h.bindJSON(c, &req) {
		return nil, false
	}
	f, err := h.funnels.UpsertFunnel(c.Request.Context(), actorID, subAccountID(c), funnelapp.UpsertFunnelInput{
		ID: funnelID,
		Details: funnel.Details{
			Name:          req.Name,
			Description:   req.Description,
			SubDomainName: req.SubDomainName,
			Favicon:       req.Favicon,
		},
		LiveProducts: req.LiveProducts,
		Published:    req.Published,
	})
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	return f, true
}

// Delete removes a funnel and its pages
func (h *FunnelHandler) Delete(c *gin.Context) {
	actorID, ok := h.actorID(c)
	if !ok {
		return
	}
	funnelID, ok := h.uuidParam(c, "funnelId")
	if !ok {
		return
	}
	if err := h.funnels.DeleteFunnel(c.Request.Context(), actorID, subAccountID(c), funnelID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UpsertPage creates or updates a page
func (h *FunnelHandler) UpsertPage(c *gin.Context) {
	actorID, ok := h.actorID(c)
	if !ok {
		return
	}
	funnelID, ok := h.uuidParam(c, "funnelId")
	if !ok {
		return
	}
	var req UpsertPageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	in := funnelapp.UpsertPageInput{
		ID:           req.ID,
		Name:         req.Name,
		PathName:     req.PathName,
		Order:        req.Order,
		PreviewImage: req.PreviewImage,
	}
	if len(req.Content) > 0 && string(req.Content) != "null" {
		content := string(req.Content)
		in.Content = &content
	}
	p, err := h.funnels.UpsertPage(c.Request.Context(), actorID, subAccountID(c), funnelID, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toPageResponse(p, true))
}

// GetPage returns a page with its content
func (h *FunnelHandler) GetPage(c *gin.Context) {
	funnelID, pageID, ok := h.pageParams(c)
	if !ok {
		return
	}
	p, err := h.funnels.GetPage(c.Request.Context(), subAccountID(c), funnelID, pageID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toPageResponse(p, true))
}

// DeletePage removes a page
func (h *FunnelHandler) DeletePage(c *gin.Context) {
	actorID, ok := h.actorID(c)
	if !ok {
		return
	}
	funnelID, pageID, ok := h.pageParams(c)
	if !ok {
		return
	}
	if err := h.funnels.DeletePage(c.Request.Context(), actorID, subAccountID(c), funnelID, pageID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *FunnelHandler) pageParams(c *gin.Context) (funnelID, pageID uuid.UUID, ok bool) {
	if funnelID, ok = h.uuidParam(c, "funnelId"); !ok {
		return
	}
	pageID, ok = h.uuidParam(c, "pageId")
	return
}
