package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/funnel"
	"github.com/lumio/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormFunnelRepository implements funnel.Repository using GORM
type GormFunnelRepository struct {
	db *gorm.DB
}

// NewGormFunnelRepository creates a new GormFunnelRepository
func NewGormFunnelRepository(db *gorm.DB) *GormFunnelRepository {
	return &GormFunnelRepository{db: db}
}

func orderedPages(db *gorm.DB) *gorm.DB {
	return db.Order(`"order" ASC`)
}

// Save upserts the funnel row; pages are saved through the page repository
func (r *GormFunnelRepository) Save(ctx context.Context, f *funnel.Funnel) error {
	return translateError(r.db.WithContext(ctx).Omit("Pages").Save(models.FunnelModelFromDomain(f)).Error)
}

// FindByID loads a funnel with its pages in order
func (r *GormFunnelRepository) FindByID(ctx context.Context, id uuid.UUID) (*funnel.Funnel, error) {
	var model models.FunnelModel
	if err := r.db.WithContext(ctx).Preload("Pages", orderedPages).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindBySubAccount lists a sub-account's funnels, oldest first
func (r *GormFunnelRepository) FindBySubAccount(ctx context.Context, subAccountID uuid.UUID) ([]*funnel.Funnel, error) {
	var rows []models.FunnelModel
	if err := r.db.WithContext(ctx).
		Preload("Pages", orderedPages).
		Where("sub_account_id = ?", subAccountID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*funnel.Funnel, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// ExistsBySubDomain reports whether a funnel other than excludeID already
// uses subDomain
func (r *GormFunnelRepository) ExistsBySubDomain(ctx context.Context, subDomain string, excludeID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.FunnelModel{}).
		Where("sub_domain_name = ? AND id <> ?", subDomain, excludeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindPublishedBySubDomain loads a published funnel by sub-domain
func (r *GormFunnelRepository) FindPublishedBySubDomain(ctx context.Context, subDomain string) (*funnel.Funnel, error) {
	var model models.FunnelModel
	if err := r.db.WithContext(ctx).
		Preload("Pages", orderedPages).
		Where("sub_domain_name = ? AND published = ?", subDomain, true).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Delete removes the funnel and its pages
func (r *GormFunnelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("funnel_id = ?", id).Delete(&models.FunnelPageModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.FunnelModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return translateError(gorm.ErrRecordNotFound)
		}
		return nil
	})
}

// GormPageRepository implements funnel.PageRepository using GORM
type GormPageRepository struct {
	db *gorm.DB
}

// NewGormPageRepository creates a new GormPageRepository
func NewGormPageRepository(db *gorm.DB) *GormPageRepository {
	return &GormPageRepository{db: db}
}

func (r *GormPageRepository) Save(ctx context.Context, p *funnel.Page) error {
	return translateError(r.db.WithContext(ctx).Save(models.FunnelPageModelFromDomain(p)).Error)
}

func (r *GormPageRepository) FindByID(ctx context.Context, id uuid.UUID) (*funnel.Page, error) {
	var model models.FunnelPageModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func (r *GormPageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.FunnelPageModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound)
	}
	return nil
}

// UpdateContent writes the serialized element tree without touching the
// other columns
func (r *GormPageRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	result := r.db.WithContext(ctx).
		Model(&models.FunnelPageModel{}).
		Where("id = ?", id).
		Update("content", content)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound)
	}
	return nil
}

// IncrementVisits bumps the counter in SQL so concurrent visits are not lost
func (r *GormPageRepository) IncrementVisits(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.FunnelPageModel{}).
		Where("id = ?", id).
		UpdateColumn("visits", gorm.Expr("visits + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound)
	}
	return nil
}
