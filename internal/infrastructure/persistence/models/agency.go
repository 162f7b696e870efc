package models

import (
	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/agency"
	"github.com/lumio/backend/internal/domain/shared/valueobject"
)

// ProfileColumns are the contact and address columns shared by agencies
// and sub-accounts
type ProfileColumns struct {
	Name         string `gorm:"type:varchar(200);not null"`
	Logo         string `gorm:"type:text;not null;default:''"`
	CompanyEmail string `gorm:"type:varchar(200);not null;default:''"`
	CompanyPhone string `gorm:"type:varchar(50);not null;default:''"`
	Address      string `gorm:"type:varchar(300);not null;default:''"`
	City         string `gorm:"type:varchar(100);not null;default:''"`
	ZipCode      string `gorm:"type:varchar(20);not null;default:''"`
	State        string `gorm:"type:varchar(100);not null;default:''"`
	Country      string `gorm:"type:varchar(100);not null;default:''"`
}

func profileColumns(p agency.Profile) ProfileColumns {
	return ProfileColumns{
		Name:         p.Name,
		Logo:         p.Logo,
		CompanyEmail: p.CompanyEmail,
		CompanyPhone: p.CompanyPhone,
		Address:      p.Address.Line1(),
		City:         p.Address.City(),
		ZipCode:      p.Address.PostalCode(),
		State:        p.Address.State(),
		Country:      p.Address.Country(),
	}
}

func (c ProfileColumns) toProfile() agency.Profile {
	return agency.Profile{
		Name:         c.Name,
		Logo:         c.Logo,
		CompanyEmail: c.CompanyEmail,
		CompanyPhone: c.CompanyPhone,
		Address:      valueobject.UnvalidatedAddress(c.Address, c.City, c.State, c.ZipCode, c.Country),
	}
}

// AgencyModel maps the agencies table
type AgencyModel struct {
	AggregateModel
	ProfileColumns
	ConnectAccountID string `gorm:"type:varchar(100);not null;default:''"`
	CustomerID       string `gorm:"type:varchar(100);not null;default:''"`
	WhiteLabel       bool   `gorm:"not null;default:true"`
	Goal             int    `gorm:"not null;default:5"`
}

// TableName returns the table name for GORM
func (AgencyModel) TableName() string {
	return "agencies"
}

// ToDomain converts the model to an Agency
func (m *AgencyModel) ToDomain() *agency.Agency {
	return &agency.Agency{
		BaseAggregateRoot: m.AggregateModel.ToAggregateRoot(),
		Profile:           m.ProfileColumns.toProfile(),
		ConnectAccountID:  m.ConnectAccountID,
		CustomerID:        m.CustomerID,
		WhiteLabel:        m.WhiteLabel,
		Goal:              m.Goal,
	}
}

// AgencyModelFromDomain converts an Agency to its model
func AgencyModelFromDomain(a *agency.Agency) *AgencyModel {
	m := &AgencyModel{
		ProfileColumns:   profileColumns(a.Profile),
		ConnectAccountID: a.ConnectAccountID,
		CustomerID:       a.CustomerID,
		WhiteLabel:       a.WhiteLabel,
		Goal:             a.Goal,
	}
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	return m
}

// SubAccountModel maps the sub_accounts table
type SubAccountModel struct {
	AgencyScopedModel
	ProfileColumns
	ConnectAccountID string `gorm:"type:varchar(100);not null;default:''"`
	Goal             int    `gorm:"not null;default:5"`
}

// TableName returns the table name for GORM
func (SubAccountModel) TableName() string {
	return "sub_accounts"
}

// ToDomain converts the model to a SubAccount
func (m *SubAccountModel) ToDomain() *agency.SubAccount {
	return &agency.SubAccount{
		AgencyScopedRoot: m.AgencyScopedModel.ToAgencyScopedRoot(),
		Profile:          m.ProfileColumns.toProfile(),
		ConnectAccountID: m.ConnectAccountID,
		Goal:             m.Goal,
	}
}

// SubAccountModelFromDomain converts a SubAccount to its model
func SubAccountModelFromDomain(s *agency.SubAccount) *SubAccountModel {
	m := &SubAccountModel{
		ProfileColumns:   profileColumns(s.Profile),
		ConnectAccountID: s.ConnectAccountID,
		Goal:             s.Goal,
	}
	m.FromDomainAgencyScopedRoot(s.AgencyScopedRoot)
	return m
}

// SubAccountIDs extracts ids from sub-account models
func SubAccountIDs(ms []SubAccountModel) []uuid.UUID {
	ids := make([]uuid.UUID, len(ms))
	for i := range ms {
		ids[i] = ms[i].ID
	}
	return ids
}
