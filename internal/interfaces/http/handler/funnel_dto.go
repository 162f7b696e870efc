package handler

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/funnel"
)

// UpsertFunnelRequest creates (POST) or updates (PUT) a funnel
type UpsertFunnelRequest struct {
	Name          string  `json:"name" binding:"required,max=255"`
	Description   string  `json:"description"`
	SubDomainName string  `json:"sub_domain_name" binding:"omitempty,max=63"`
	Favicon       string  `json:"favicon"`
	LiveProducts  *string `json:"live_products"`
	Published     *bool   `json:"published"`
}

// UpsertPageRequest creates or updates a funnel page. Content is the page
// document as JSON; omitted content is left as is.
type UpsertPageRequest struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name" binding:"required,max=255"`
	PathName     string          `json:"path_name"`
	Order        int             `json:"order" binding:"gte=0"`
	PreviewImage string          `json:"preview_image"`
	Content      json.RawMessage `json:"content"`
}

// PageResponse is a funnel page
type PageResponse struct {
	ID           uuid.UUID       `json:"id"`
	FunnelID     uuid.UUID       `json:"funnel_id"`
	Name         string          `json:"name"`
	PathName     string          `json:"path_name"`
	Order        int             `json:"order"`
	Visits       int             `json:"visits"`
	PreviewImage string          `json:"preview_image,omitempty"`
	Content      json.RawMessage `json:"content,omitempty"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// FunnelResponse is a funnel with its pages in order
type FunnelResponse struct {
	ID            uuid.UUID      `json:"id"`
	SubAccountID  uuid.UUID      `json:"sub_account_id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Published     bool           `json:"published"`
	SubDomainName string         `json:"sub_domain_name,omitempty"`
	Favicon       string         `json:"favicon,omitempty"`
	LiveProducts  string         `json:"live_products"`
	Pages         []PageResponse `json:"pages"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// PublishedPageResponse is a live page with the funnel chrome it renders in
type PublishedPageResponse struct {
	FunnelID   uuid.UUID    `json:"funnel_id"`
	FunnelName string       `json:"funnel_name"`
	Favicon    string       `json:"favicon,omitempty"`
	Page       PageResponse `json:"page"`
}

func toPageResponse(p *funnel.Page, withContent bool) PageResponse {
	resp := PageResponse{
		ID:           p.ID,
		FunnelID:     p.FunnelID,
		Name:         p.Name,
		PathName:     p.PathName,
		Order:        p.Order,
		Visits:       p.Visits,
		PreviewImage: p.PreviewImage,
		UpdatedAt:    p.UpdatedAt,
	}
	if withContent && p.Content != "" {
		resp.Content = json.RawMessage(p.Content)
	}
	return resp
}

func toFunnelResponse(f *funnel.Funnel) FunnelResponse {
	pages := make([]PageResponse, len(f.Pages))
	for i, p := range f.Pages {
		pages[i] = toPageResponse(p, false)
	}
	return FunnelResponse{
		ID:            f.ID,
		SubAccountID:  f.SubAccountID,
		Name:          f.Name,
		Description:   f.Description,
		Published:     f.Published,
		SubDomainName: f.SubDomainName,
		Favicon:       f.Favicon,
		LiveProducts:  f.LiveProducts,
		Pages:         pages,
		UpdatedAt:     f.UpdatedAt,
	}
}
