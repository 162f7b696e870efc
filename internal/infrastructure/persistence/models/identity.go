package models

import (
	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/identity"
)

// UserModel maps the users table
type UserModel struct {
	AggregateModel
	Name         string            `gorm:"type:varchar(200);not null"`
	Email        string            `gorm:"type:varchar(200);not null;uniqueIndex"`
	AvatarURL    string            `gorm:"type:text;not null;default:''"`
	Role         string            `gorm:"type:varchar(30);not null;default:''"`
	AgencyID     *uuid.UUID        `gorm:"type:uuid;index"`
	PasswordHash string            `gorm:"type:varchar(100);not null;default:''"`
	Permissions  []PermissionModel `gorm:"foreignKey:Email;references:Email"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a User, permissions included when loaded
func (m *UserModel) ToDomain() *identity.User {
	u := &identity.User{
		BaseAggregateRoot: m.AggregateModel.ToAggregateRoot(),
		Name:              m.Name,
		Email:             m.Email,
		AvatarURL:         m.AvatarURL,
		Role:              identity.Role(m.Role),
		AgencyID:          m.AgencyID,
		PasswordHash:      m.PasswordHash,
	}
	if len(m.Permissions) > 0 {
		u.Permissions = make([]identity.Permission, len(m.Permissions))
		for i := range m.Permissions {
			u.Permissions[i] = *m.Permissions[i].ToDomain()
		}
	}
	return u
}

// UserModelFromDomain converts a User to its model. Permissions are
// persisted separately.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Name:         u.Name,
		Email:        u.Email,
		AvatarURL:    u.AvatarURL,
		Role:         string(u.Role),
		AgencyID:     u.AgencyID,
		PasswordHash: u.PasswordHash,
	}
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	return m
}

// PermissionModel maps the permissions table
type PermissionModel struct {
	BaseModel
	Email        string    `gorm:"type:varchar(200);not null;uniqueIndex:idx_permissions_email_sub_account"`
	SubAccountID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_permissions_email_sub_account"`
	Access       bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (PermissionModel) TableName() string {
	return "permissions"
}

// ToDomain converts the model to a Permission
func (m *PermissionModel) ToDomain() *identity.Permission {
	return &identity.Permission{
		BaseEntity:   m.BaseModel.ToDomain(),
		Email:        m.Email,
		SubAccountID: m.SubAccountID,
		Access:       m.Access,
	}
}

// PermissionModelFromDomain converts a Permission to its model
func PermissionModelFromDomain(p *identity.Permission) *PermissionModel {
	m := &PermissionModel{Email: p.Email, SubAccountID: p.SubAccountID, Access: p.Access}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}

// InvitationModel maps the invitations table
type InvitationModel struct {
	AgencyScopedModel
	Email  string `gorm:"type:varchar(200);not null;index"`
	Role   string `gorm:"type:varchar(30);not null"`
	Status string `gorm:"type:varchar(20);not null;default:'PENDING';index"`
}

// TableName returns the table name for GORM
func (InvitationModel) TableName() string {
	return "invitations"
}

// ToDomain converts the model to an Invitation
func (m *InvitationModel) ToDomain() *identity.Invitation {
	return &identity.Invitation{
		AgencyScopedRoot: m.AgencyScopedModel.ToAgencyScopedRoot(),
		Email:            m.Email,
		Role:             identity.Role(m.Role),
		Status:           identity.InvitationStatus(m.Status),
	}
}

// InvitationModelFromDomain converts an Invitation to its model
func InvitationModelFromDomain(i *identity.Invitation) *InvitationModel {
	m := &InvitationModel{Email: i.Email, Role: string(i.Role), Status: string(i.Status)}
	m.FromDomainAgencyScopedRoot(i.AgencyScopedRoot)
	return m
}

