// Package funnel manages funnels, their pages and page content.
package funnel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	identityapp "github.com/lumio/backend/internal/application/identity"
	"github.com/lumio/backend/internal/application/notification"
	"github.com/lumio/backend/internal/domain/editor"
	"github.com/lumio/backend/internal/domain/funnel"
	"github.com/lumio/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrSubDomainTaken is returned when another funnel already serves the sub-domain
var ErrSubDomainTaken = shared.NewDomainError("ALREADY_EXISTS", "Sub domain is already in use")

// ContentValidator checks raw page documents before they are decoded
type ContentValidator interface {
	Validate(raw string) error
}

// UpsertFunnelInput is the funnel form. A nil ID creates a funnel.
type UpsertFunnelInput struct {
	ID           uuid.UUID
	Details      funnel.Details
	LiveProducts *string
	Published    *bool
}

// UpsertPageInput is the funnel page form. A nil ID creates a page. Content
// is left untouched when nil.
type UpsertPageInput struct {
	ID           uuid.UUID
	Name         string
	PathName     string
	Order        int
	PreviewImage string
	Content      *string
}

// Service manages the funnels of gated sub-accounts. Every method takes the
// sub-account the caller was authorized for and refuses to touch funnels of
// any other.
type Service struct {
	funnels   funnel.Repository
	pages     funnel.PageRepository
	validator ContentValidator
	activity  identityapp.ActivityLogger
	logger    *zap.Logger
}

// NewService creates a funnel Service
func NewService(funnels funnel.Repository, pages funnel.PageRepository, validator ContentValidator, activity identityapp.ActivityLogger, logger *zap.Logger) *Service {
	return &Service{
		funnels:   funnels,
		pages:     pages,
		validator: validator,
		activity:  activity,
		logger:    logger,
	}
}

// ListFunnels lists the sub-account's funnels with their pages
func (s *Service) ListFunnels(ctx context.Context, subAccountID uuid.UUID) ([]*funnel.Funnel, error) {
	return s.funnels.FindBySubAccount(ctx, subAccountID)
}

// GetFunnel loads a funnel of the sub-account
func (s *Service) GetFunnel(ctx context.Context, subAccountID, funnelID uuid.UUID) (*funnel.Funnel, error) {
	f, err := s.funnels.FindByID(ctx, funnelID)
	if err != nil {
		return nil, err
	}
	if f.SubAccountID != subAccountID {
		return nil, shared.ErrNotFound
	}
	return f, nil
}

// UpsertFunnel creates or updates a funnel
func (s *Service) UpsertFunnel(ctx context.Context, actorID, subAccountID uuid.UUID, in UpsertFunnelInput) (*funnel.Funnel, error) {
	var (
		f   *funnel.Funnel
		err error
	)
	if in.ID == uuid.Nil {
		if f, err = funnel.NewFunnel(subAccountID, in.Details); err != nil {
			return nil, err
		}
	} else {
		if f, err = s.GetFunnel(ctx, subAccountID, in.ID); err != nil {
			return nil, err
		}
		if err := f.Update(in.Details); err != nil {
			return nil, err
		}
	}
	if in.LiveProducts != nil {
		if err := f.SetLiveProducts(*in.LiveProducts); err != nil {
			return nil, err
		}
	}
	if in.Published != nil {
		if err := f.SetPublished(*in.Published); err != nil {
			return nil, err
		}
	}

	if f.SubDomainName != "" {
		taken, err := s.funnels.ExistsBySubDomain(ctx, f.SubDomainName, f.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrSubDomainTaken
		}
	}
	if err := s.funnels.Save(ctx, f); err != nil {
		return nil, err
	}

	s.logActivity(ctx, actorID, subAccountID, "Update funnel | "+f.Name)
	return f, nil
}

// DeleteFunnel removes a funnel and its pages
func (s *Service) DeleteFunnel(ctx context.Context, actorID, subAccountID, funnelID uuid.UUID) error {
	f, err := s.GetFunnel(ctx, subAccountID, funnelID)
	if err != nil {
		return err
	}
	if err := s.funnels.Delete(ctx, f.ID); err != nil {
		return err
	}
	s.logActivity(ctx, actorID, subAccountID, "Deleted a funnel | "+f.Name)
	return nil
}

// GetPage loads a page of one of the sub-account's funnels
func (s *Service) GetPage(ctx context.Context, subAccountID, funnelID, pageID uuid.UUID) (*funnel.Page, error) {
	if _, err := s.GetFunnel(ctx, subAccountID, funnelID); err != nil {
		return nil, err
	}
	p, err := s.pages.FindByID(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if p.FunnelID != funnelID {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

// PageInSubAccount loads a page by id alone, checking that its funnel
// belongs to the sub-account
func (s *Service) PageInSubAccount(ctx context.Context, subAccountID, pageID uuid.UUID) (*funnel.Page, error) {
	p, err := s.pages.FindByID(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetFunnel(ctx, subAccountID, p.FunnelID); err != nil {
		return nil, err
	}
	return p, nil
}

// UpsertPage creates or updates a funnel page. New pages start with a blank
// body unless content is given.
func (s *Service) UpsertPage(ctx context.Context, actorID, subAccountID, funnelID uuid.UUID, in UpsertPageInput) (*funnel.Page, error) {
	var (
		p   *funnel.Page
		err error
	)
	if in.ID == uuid.Nil {
		if _, err = s.GetFunnel(ctx, subAccountID, funnelID); err != nil {
			return nil, err
		}
		if p, err = funnel.NewPage(funnelID, in.Name, in.PathName, in.Order); err != nil {
			return nil, err
		}
		p.SetContent(BlankPageContent())
	} else {
		if p, err = s.GetPage(ctx, subAccountID, funnelID, in.ID); err != nil {
			return nil, err
		}
		if err := p.Update(in.Name, in.PathName, in.Order); err != nil {
			return nil, err
		}
	}
	if in.PreviewImage != "" {
		p.SetPreviewImage(in.PreviewImage)
	}
	if in.Content != nil {
		if _, err := DecodeContent(s.validator, *in.Content); err != nil {
			return nil, err
		}
		p.SetContent(*in.Content)
	}

	if err := s.pages.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logActivity(ctx, actorID, subAccountID, "Updated a funnel page | "+p.Name)
	return p, nil
}

// DeletePage removes a page
func (s *Service) DeletePage(ctx context.Context, actorID, subAccountID, funnelID, pageID uuid.UUID) error {
	p, err := s.GetPage(ctx, subAccountID, funnelID, pageID)
	if err != nil {
		return err
	}
	if err := s.pages.Delete(ctx, p.ID); err != nil {
		return err
	}
	s.logActivity(ctx, actorID, subAccountID, "Deleted a funnel page | "+p.Name)
	return nil
}

// SaveContent validates and stores a page document produced by the editor
func (s *Service) SaveContent(ctx context.Context, subAccountID, pageID uuid.UUID, elements []editor.Element) error {
	if err := editor.ValidateTree(elements); err != nil {
		return err
	}
	raw, err := json.Marshal(elements)
	if err != nil {
		return fmt.Errorf("encode page content: %w", err)
	}
	if s.validator != nil {
		if err := s.validator.Validate(string(raw)); err != nil {
			return err
		}
	}
	if _, err := s.PageInSubAccount(ctx, subAccountID, pageID); err != nil {
		return err
	}
	return s.pages.UpdateContent(ctx, pageID, string(raw))
}

// GetPublishedPage serves a page of a published funnel and counts the visit.
// The empty path is the funnel's first page.
func (s *Service) GetPublishedPage(ctx context.Context, subDomain, path string) (*funnel.Funnel, *funnel.Page, error) {
	f, err := s.funnels.FindPublishedBySubDomain(ctx, subDomain)
	if err != nil {
		return nil, nil, err
	}
	path = funnel.NormalizePath(path)
	var page *funnel.Page
	for _, p := range f.Pages {
		if p.PathName == path {
			page = p
			break
		}
	}
	if page == nil && path == "" && len(f.Pages) > 0 {
		page = f.Pages[0]
	}
	if page == nil {
		return nil, nil, shared.ErrNotFound
	}

	if err := s.pages.IncrementVisits(ctx, page.ID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, err
		}
		s.logger.Warn("Failed to count page visit",
			zap.String("page_id", page.ID.String()),
			zap.Error(err))
	} else {
		page.RecordVisit()
	}
	return f, page, nil
}

func (s *Service) logActivity(ctx context.Context, actorID, subAccountID uuid.UUID, description string) {
	if s.activity == nil {
		return
	}
	if _, err := s.activity.SaveActivityLog(ctx, notification.ActivityInput{
		ActorID:      &actorID,
		SubAccountID: &subAccountID,
		Description:  description,
	}); err != nil {
		s.logger.Warn("Failed to save activity log",
			zap.String("description", description),
			zap.Error(err))
	}
}

// BlankPageContent is the document of a new page: a white body
func BlankPageContent() string {
	body := editor.NewBody()
	body.Styles["backgroundColor"] = "white"
	raw, _ := json.Marshal([]editor.Element{body})
	return string(raw)
}

// DecodeContent validates raw against the element schema and the tree rules
// and decodes it. Blank content is a blank page.
func DecodeContent(validator ContentValidator, raw string) ([]editor.Element, error) {
	if validator != nil {
		if err := validator.Validate(raw); err != nil {
			return nil, err
		}
	}
	elements, err := editor.ParseElements(raw)
	if err != nil {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, err.Error())
	}
	if err := editor.ValidateTree(elements); err != nil {
		return nil, err
	}
	return elements, nil
}
