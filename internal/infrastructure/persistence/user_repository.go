package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/identity"
	"github.com/lumio/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts a new user; a taken email yields shared.ErrAlreadyExists
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	return translateError(r.db.WithContext(ctx).Omit("Permissions").Create(models.UserModelFromDomain(user)).Error)
}

// Update writes every user column. Permissions are managed by
// GormPermissionRepository.
func (r *GormUserRepository) Update(ctx context.Context, user *identity.User) error {
	user.Touch()
	result := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("id = ?", user.ID).
		Select("name", "email", "avatar_url", "role", "agency_id", "password_hash", "version", "updated_at").
		Updates(models.UserModelFromDomain(user))
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound)
	}
	return nil
}

// Delete deletes a user by ID
func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.UserModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound)
	}
	return nil
}

// FindByID finds a user with permissions
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).Preload("Permissions").First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a user by normalized email with permissions
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Preload("Permissions").
		Where("email = ?", identity.NormalizeEmail(email)).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByAgency lists the team ordered by name
func (r *GormUserRepository) FindByAgency(ctx context.Context, agencyID uuid.UUID) ([]*identity.User, error) {
	var rows []models.UserModel
	if err := r.db.WithContext(ctx).
		Preload("Permissions").
		Where("agency_id = ?", agencyID).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*identity.User, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// FindAgencyOwner returns the agency's AGENCY_OWNER
func (r *GormUserRepository) FindAgencyOwner(ctx context.Context, agencyID uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Where("agency_id = ? AND role = ?", agencyID, string(identity.RoleAgencyOwner)).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// GormPermissionRepository implements identity.PermissionRepository using GORM
type GormPermissionRepository struct {
	db *gorm.DB
}

// NewGormPermissionRepository creates a new GormPermissionRepository
func NewGormPermissionRepository(db *gorm.DB) *GormPermissionRepository {
	return &GormPermissionRepository{db: db}
}

// Upsert inserts the permission or flips access on the existing
// (email, sub_account_id) row
func (r *GormPermissionRepository) Upsert(ctx context.Context, p *identity.Permission) error {
	model := models.PermissionModelFromDomain(p)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}, {Name: "sub_account_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"access", "updated_at"}),
	}).Create(model).Error
}

// FindByEmail lists every permission held by email
func (r *GormPermissionRepository) FindByEmail(ctx context.Context, email string) ([]identity.Permission, error) {
	var rows []models.PermissionModel
	if err := r.db.WithContext(ctx).
		Where("email = ?", identity.NormalizeEmail(email)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]identity.Permission, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// FindByEmailAndSubAccount finds a single permission
func (r *GormPermissionRepository) FindByEmailAndSubAccount(ctx context.Context, email string, subAccountID uuid.UUID) (*identity.Permission, error) {
	var model models.PermissionModel
	if err := r.db.WithContext(ctx).
		Where("email = ? AND sub_account_id = ?", identity.NormalizeEmail(email), subAccountID).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// DeleteBySubAccount drops every permission on a sub-account
func (r *GormPermissionRepository) DeleteBySubAccount(ctx context.Context, subAccountID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("sub_account_id = ?", subAccountID).Delete(&models.PermissionModel{}).Error
}

// GormInvitationRepository implements identity.InvitationRepository using GORM
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewGormInvitationRepository creates a new GormInvitationRepository
func NewGormInvitationRepository(db *gorm.DB) *GormInvitationRepository {
	return &GormInvitationRepository{db: db}
}

func (r *GormInvitationRepository) Create(ctx context.Context, inv *identity.Invitation) error {
	return translateError(r.db.WithContext(ctx).Create(models.InvitationModelFromDomain(inv)).Error)
}

func (r *GormInvitationRepository) Update(ctx context.Context, inv *identity.Invitation) error {
	inv.Touch()
	result := r.db.WithContext(ctx).
		Model(&models.InvitationModel{}).
		Where("id = ?", inv.ID).
		Updates(map[string]any{
			"role":       string(inv.Role),
			"status":     string(inv.Status),
			"version":    inv.Version,
			"updated_at": inv.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *GormInvitationRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Invitation, error) {
	var model models.InvitationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindPendingByEmail returns the newest pending invitation for email
func (r *GormInvitationRepository) FindPendingByEmail(ctx context.Context, email string) (*identity.Invitation, error) {
	var model models.InvitationModel
	if err := r.db.WithContext(ctx).
		Where("email = ? AND status = ?", identity.NormalizeEmail(email), string(identity.InvitationStatusPending)).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func (r *GormInvitationRepository) FindByAgency(ctx context.Context, agencyID uuid.UUID) ([]*identity.Invitation, error) {
	var rows []models.InvitationModel
	if err := r.db.WithContext(ctx).
		Where("agency_id = ?", agencyID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return invitationsToDomain(rows), nil
}

func (r *GormInvitationRepository) FindPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]*identity.Invitation, error) {
	var rows []models.InvitationModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", string(identity.InvitationStatusPending), cutoff).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return invitationsToDomain(rows), nil
}

func invitationsToDomain(rows []models.InvitationModel) []*identity.Invitation {
	out := make([]*identity.Invitation, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}
