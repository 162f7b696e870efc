package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/agency"
	"github.com/lumio/backend/internal/domain/identity"
	"github.com/lumio/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Store bundles GORM repositories over a private sqlite database
type Store struct {
	DB            *gorm.DB
	Users         *persistence.GormUserRepository
	Permissions   *persistence.GormPermissionRepository
	Invitations   *persistence.GormInvitationRepository
	Agencies      *persistence.GormAgencyRepository
	SubAccounts   *persistence.GormSubAccountRepository
	Notifications *persistence.GormNotificationRepository
	Funnels       *persistence.GormFunnelRepository
	Pages         *persistence.GormPageRepository
}

// NewStore opens a migrated sqlite database and its repositories
func NewStore(t *testing.T) *Store {
	t.Helper()
	db := NewSQLiteDB(t)
	return &Store{
		DB:            db,
		Users:         persistence.NewGormUserRepository(db),
		Permissions:   persistence.NewGormPermissionRepository(db),
		Invitations:   persistence.NewGormInvitationRepository(db),
		Agencies:      persistence.NewGormAgencyRepository(db),
		SubAccounts:   persistence.NewGormSubAccountRepository(db),
		Notifications: persistence.NewGormNotificationRepository(db),
		Funnels:       persistence.NewGormFunnelRepository(db),
		Pages:         persistence.NewGormPageRepository(db),
	}
}

// ProfileInput returns a complete business profile named name
func ProfileInput(name string) agency.ProfileInput {
	return agency.ProfileInput{
		Name:         name,
		Logo:         "https://cdn.example.com/logo.png",
		CompanyEmail: "hello@example.com",
		CompanyPhone: "+1 555 0100",
		Address:      "1 Main St",
		City:         "Springfield",
		ZipCode:      "12345",
		State:        "IL",
		Country:      "US",
	}
}

// CreateUser stores a user. agencyID may be nil.
func (s *Store) CreateUser(t *testing.T, name, email string, role identity.Role, agencyID *uuid.UUID) *identity.User {
	t.Helper()
	u, err := identity.NewUser(name, email, role)
	require.NoError(t, err)
	if agencyID != nil {
		require.NoError(t, u.JoinAgency(*agencyID))
	}
	u.ClearDomainEvents()
	require.NoError(t, s.Users.Create(context.Background(), u))
	return u
}

// CreateAgency stores an agency and its owner
func (s *Store) CreateAgency(t *testing.T, name string) (*agency.Agency, *identity.User) {
	t.Helper()
	profile, err := ProfileInput(name).Build("Agency")
	require.NoError(t, err)
	a, err := agency.NewAgency(uuid.New(), "cus_"+name, profile, false)
	require.NoError(t, err)
	a.ClearDomainEvents()
	require.NoError(t, s.Agencies.Save(context.Background(), a))

	owner := s.CreateUser(t, name+" Owner", "owner@"+slug(name)+".test", identity.RoleAgencyOwner, &a.ID)
	return a, owner
}

// CreateSubAccount stores a sub-account under agencyID
func (s *Store) CreateSubAccount(t *testing.T, agencyID uuid.UUID, name string) *agency.SubAccount {
	t.Helper()
	profile, err := ProfileInput(name).Build("Sub account")
	require.NoError(t, err)
	sub, err := agency.NewSubAccount(agencyID, profile)
	require.NoError(t, err)
	sub.ClearDomainEvents()
	require.NoError(t, s.SubAccounts.Save(context.Background(), sub))
	return sub
}

// Grant stores a permission for email on subAccountID
func (s *Store) Grant(t *testing.T, email string, subAccountID uuid.UUID, access bool) {
	t.Helper()
	p, err := identity.NewPermission(email, subAccountID, access)
	require.NoError(t, err)
	require.NoError(t, s.Permissions.Upsert(context.Background(), p))
}

func slug(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+'a'-'A')
		}
	}
	return string(out)
}
