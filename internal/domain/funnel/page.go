package funnel

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/shared"
)

// Page is one funnel step. Content holds the editor element tree as JSON
// and is empty until the page is first saved from the editor.
type Page struct {
	shared.BaseEntity
	FunnelID     uuid.UUID
	Name         string
	PathName     string
	Visits       int
	Content      string
	Order        int
	PreviewImage string
}

// NewPage creates a page at position order
func NewPage(funnelID uuid.UUID, name, pathName string, order int) (*Page, error) {
	if funnelID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_FUNNEL", "Page must belong to a funnel")
	}
	p := &Page{
		BaseEntity: shared.NewBaseEntity(),
		FunnelID:   funnelID,
	}
	if err := p.Update(name, pathName, order); err != nil {
		return nil, err
	}
	return p, nil
}

// Update sets name, path and order
func (p *Page) Update(name, pathName string, order int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Page name cannot be empty")
	}
	if order < 0 {
		return shared.NewDomainError("INVALID_ORDER", "Order cannot be negative")
	}
	p.Name = name
	p.PathName = NormalizePath(pathName)
	p.Order = order
	p.Touch()
	return nil
}

// SetContent replaces the stored element tree JSON
func (p *Page) SetContent(content string) {
	p.Content = content
	p.Touch()
}

// SetPreviewImage sets the preview thumbnail URL
func (p *Page) SetPreviewImage(url string) {
	p.PreviewImage = strings.TrimSpace(url)
	p.Touch()
}

// RecordVisit increments the visit counter
func (p *Page) RecordVisit() {
	p.Visits++
}

// NormalizePath trims slashes and whitespace and lowercases a path segment.
// The first page of a funnel conventionally has the empty path.
func NormalizePath(path string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(path), "/"))
}
