package funnel

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/shared"
)

var subDomainRegex = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?$`)

// Funnel is an ordered set of marketing pages published under a sub-domain
type Funnel struct {
	shared.BaseAggregateRoot
	SubAccountID  uuid.UUID
	Name          string
	Description   string
	Published     bool
	SubDomainName string
	Favicon       string
	LiveProducts  string // JSON array of price ids
	Pages         []*Page
}

// Details is the editable part of a funnel
type Details struct {
	Name          string
	Description   string
	SubDomainName string
	Favicon       string
}

func (d Details) normalize() (Details, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	d.SubDomainName = strings.ToLower(strings.TrimSpace(d.SubDomainName))
	if d.Name == "" {
		return d, shared.NewDomainError("INVALID_NAME", "Funnel name cannot be empty")
	}
	if len(d.Name) > 200 {
		return d, shared.NewDomainError("INVALID_NAME", "Funnel name cannot exceed 200 characters")
	}
	if d.SubDomainName != "" && !subDomainRegex.MatchString(d.SubDomainName) {
		return d, shared.NewDomainError("INVALID_SUBDOMAIN", "Sub domain may only contain lowercase letters, numbers and hyphens")
	}
	return d, nil
}

// NewFunnel creates an unpublished funnel in a sub-account
func NewFunnel(subAccountID uuid.UUID, d Details) (*Funnel, error) {
	if subAccountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUBACCOUNT", "Funnel must belong to a sub account")
	}
	d, err := d.normalize()
	if err != nil {
		return nil, err
	}
	return &Funnel{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SubAccountID:      subAccountID,
		Name:              d.Name,
		Description:       d.Description,
		SubDomainName:     d.SubDomainName,
		Favicon:           d.Favicon,
		LiveProducts:      "[]",
		Pages:             make([]*Page, 0),
	}, nil
}

// Update replaces the editable details
func (f *Funnel) Update(d Details) error {
	d, err := d.normalize()
	if err != nil {
		return err
	}
	f.Name = d.Name
	f.Description = d.Description
	f.SubDomainName = d.SubDomainName
	f.Favicon = d.Favicon
	f.IncrementVersion()
	return nil
}

// SetPublished publishes or unpublishes the funnel. Publishing requires a
// sub-domain to serve from.
func (f *Funnel) SetPublished(published bool) error {
	if published && f.SubDomainName == "" {
		return shared.NewDomainError("SUBDOMAIN_REQUIRED", "Set a sub domain before publishing")
	}
	f.Published = published
	f.IncrementVersion()
	return nil
}

// SetLiveProducts stores the JSON array of price ids sold by the funnel
func (f *Funnel) SetLiveProducts(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = "[]"
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return shared.NewDomainError("INVALID_LIVE_PRODUCTS", "Live products must be a JSON array of strings")
	}
	f.LiveProducts = raw
	f.IncrementVersion()
	return nil
}
