package funnel

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for funnel persistence
type Repository interface {
	Save(ctx context.Context, f *Funnel) error

	// FindByID loads a funnel with its pages ordered by Order
	FindByID(ctx context.Context, id uuid.UUID) (*Funnel, error)

	// FindBySubAccount lists a sub-account's funnels with their pages
	FindBySubAccount(ctx context.Context, subAccountID uuid.UUID) ([]*Funnel, error)

	// ExistsBySubDomain reports whether another funnel uses the sub-domain
	ExistsBySubDomain(ctx context.Context, subDomain string, excludeID uuid.UUID) (bool, error)

	// FindPublishedBySubDomain loads the published funnel served under
	// subDomain with its pages
	FindPublishedBySubDomain(ctx context.Context, subDomain string) (*Funnel, error)

	Delete(ctx context.Context, id uuid.UUID) error
}

// PageRepository defines the interface for funnel page persistence
type PageRepository interface {
	Save(ctx context.Context, p *Page) error
	FindByID(ctx context.Context, id uuid.UUID) (*Page, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// UpdateContent writes only the content column
	UpdateContent(ctx context.Context, id uuid.UUID, content string) error

	// IncrementVisits bumps the visit counter atomically
	IncrementVisits(ctx context.Context, id uuid.UUID) error
}
