package testutil

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/agency"
	"github.com/lumio/backend/internal/domain/funnel"
	"github.com/lumio/backend/internal/domain/identity"
	"github.com/lumio/backend/internal/domain/notification"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByAgency(ctx context.Context, agencyID uuid.UUID) ([]*identity.User, error) {
	args := m.Called(ctx, agencyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAgencyOwner(ctx context.Context, agencyID uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, agencyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

// MockPermissionRepository is a mock implementation of identity.PermissionRepository
type MockPermissionRepository struct {
	mock.Mock
}

func (m *MockPermissionRepository) Upsert(ctx context.Context, p *identity.Permission) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPermissionRepository) FindByEmail(ctx context.Context, email string) ([]identity.Permission, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.Permission), args.Error(1)
}

func (m *MockPermissionRepository) FindByEmailAndSubAccount(ctx context.Context, email string, subAccountID uuid.UUID) (*identity.Permission, error) {
	args := m.Called(ctx, email, subAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Permission), args.Error(1)
}

func (m *MockPermissionRepository) DeleteBySubAccount(ctx context.Context, subAccountID uuid.UUID) error {
	return m.Called(ctx, subAccountID).Error(0)
}

// MockInvitationRepository is a mock implementation of identity.InvitationRepository
type MockInvitationRepository struct {
	mock.Mock
}

func (m *MockInvitationRepository) Create(ctx context.Context, inv *identity.Invitation) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockInvitationRepository) Update(ctx context.Context, inv *identity.Invitation) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockInvitationRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Invitation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) FindPendingByEmail(ctx context.Context, email string) (*identity.Invitation, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) FindByAgency(ctx context.Context, agencyID uuid.UUID) ([]*identity.Invitation, error) {
	args := m.Called(ctx, agencyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) FindPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]*identity.Invitation, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.Invitation), args.Error(1)
}

// MockAgencyRepository is a mock implementation of agency.AgencyRepository
type MockAgencyRepository struct {
	mock.Mock
}

func (m *MockAgencyRepository) Save(ctx context.Context, a *agency.Agency) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAgencyRepository) FindByID(ctx context.Context, id uuid.UUID) (*agency.Agency, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agency.Agency), args.Error(1)
}

func (m *MockAgencyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockSubAccountRepository is a mock implementation of agency.SubAccountRepository
type MockSubAccountRepository struct {
	mock.Mock
}

func (m *MockSubAccountRepository) Save(ctx context.Context, s *agency.SubAccount) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSubAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*agency.SubAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agency.SubAccount), args.Error(1)
}

func (m *MockSubAccountRepository) FindByAgency(ctx context.Context, agencyID uuid.UUID) ([]*agency.SubAccount, error) {
	args := m.Called(ctx, agencyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*agency.SubAccount), args.Error(1)
}

func (m *MockSubAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockNotificationRepository is a mock implementation of notification.Repository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotificationRepository) FindByAgencyWithAuthor(ctx context.Context, agencyID uuid.UUID) ([]*notification.Notification, error) {
	args := m.Called(ctx, agencyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notification.Notification), args.Error(1)
}

// MockFunnelRepository is a mock implementation of funnel.Repository
type MockFunnelRepository struct {
	mock.Mock
}

func (m *MockFunnelRepository) Save(ctx context.Context, f *funnel.Funnel) error {
	return m.Called(ctx, f).Error(0)
}

func (m *MockFunnelRepository) FindByID(ctx context.Context, id uuid.UUID) (*funnel.Funnel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*funnel.Funnel), args.Error(1)
}

func (m *MockFunnelRepository) FindBySubAccount(ctx context.Context, subAccountID uuid.UUID) ([]*funnel.Funnel, error) {
	args := m.Called(ctx, subAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*funnel.Funnel), args.Error(1)
}

func (m *MockFunnelRepository) ExistsBySubDomain(ctx context.Context, subDomain string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, subDomain, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFunnelRepository) FindPublishedBySubDomain(ctx context.Context, subDomain string) (*funnel.Funnel, error) {
	args := m.Called(ctx, subDomain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*funnel.Funnel), args.Error(1)
}

func (m *MockFunnelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockPageRepository is a mock implementation of funnel.PageRepository
type MockPageRepository struct {
	mock.Mock
}

func (m *MockPageRepository) Save(ctx context.Context, p *funnel.Page) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPageRepository) FindByID(ctx context.Context, id uuid.UUID) (*funnel.Page, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*funnel.Page), args.Error(1)
}

func (m *MockPageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPageRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	return m.Called(ctx, id, content).Error(0)
}

func (m *MockPageRepository) IncrementVisits(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

var (
	_ identity.UserRepository       = (*MockUserRepository)(nil)
	_ identity.PermissionRepository = (*MockPermissionRepository)(nil)
	_ identity.InvitationRepository = (*MockInvitationRepository)(nil)
	_ agency.AgencyRepository       = (*MockAgencyRepository)(nil)
	_ agency.SubAccountRepository   = (*MockSubAccountRepository)(nil)
	_ notification.Repository       = (*MockNotificationRepository)(nil)
	_ funnel.Repository             = (*MockFunnelRepository)(nil)
	_ funnel.PageRepository         = (*MockPageRepository)(nil)
)
