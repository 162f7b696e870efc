package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/agency"
	"github.com/lumio/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAgencyRepository implements agency.AgencyRepository using GORM
type GormAgencyRepository struct {
	db *gorm.DB
}

// NewGormAgencyRepository creates a new GormAgencyRepository
func NewGormAgencyRepository(db *gorm.DB) *GormAgencyRepository {
	return &GormAgencyRepository{db: db}
}

// Save creates the agency or updates every column when it exists
func (r *GormAgencyRepository) Save(ctx context.Context, a *agency.Agency) error {
	return translateError(r.db.WithContext(ctx).Save(models.AgencyModelFromDomain(a)).Error)
}

// FindByID finds an agency by its ID
func (r *GormAgencyRepository) FindByID(ctx context.Context, id uuid.UUID) (*agency.Agency, error) {
	var model models.AgencyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Delete removes the agency, its sub-accounts and their permissions in one
// transaction
func (r *GormAgencyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subAccounts := tx.Model(&models.SubAccountModel{}).Select("id").Where("agency_id = ?", id)
		if err := tx.Where("sub_account_id IN (?)", subAccounts).Delete(&models.PermissionModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("agency_id = ?", id).Delete(&models.SubAccountModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.AgencyModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return translateError(gorm.ErrRecordNotFound)
		}
		return nil
	})
}

// GormSubAccountRepository implements agency.SubAccountRepository using GORM
type GormSubAccountRepository struct {
	db *gorm.DB
}

// NewGormSubAccountRepository creates a new GormSubAccountRepository
func NewGormSubAccountRepository(db *gorm.DB) *GormSubAccountRepository {
	return &GormSubAccountRepository{db: db}
}

func (r *GormSubAccountRepository) Save(ctx context.Context, s *agency.SubAccount) error {
	return translateError(r.db.WithContext(ctx).Save(models.SubAccountModelFromDomain(s)).Error)
}

func (r *GormSubAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*agency.SubAccount, error) {
	var model models.SubAccountModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByAgency lists the agency's sub-accounts ordered by name
func (r *GormSubAccountRepository) FindByAgency(ctx context.Context, agencyID uuid.UUID) ([]*agency.SubAccount, error) {
	var rows []models.SubAccountModel
	if err := r.db.WithContext(ctx).
		Where("agency_id = ?", agencyID).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*agency.SubAccount, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// Delete removes the sub-account and the permissions that point at it
func (r *GormSubAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sub_account_id = ?", id).Delete(&models.PermissionModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.SubAccountModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return translateError(gorm.ErrRecordNotFound)
		}
		return nil
	})
}
