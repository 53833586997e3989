package taxrates

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ekomart/ekomart-backend/pkg/db/models"
	"github.com/ekomart/ekomart-backend/pkg/pagination"
)

// Repository exposes persistence helpers for tax rates.
type Repository interface {
	Create(ctx context.Context, rate *models.TaxRate) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.TaxRate, error)
	List(ctx context.Context, params pagination.Params) ([]models.TaxRate, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	FindActiveForLocation(ctx context.Context, country, state, zip string) ([]models.TaxRate, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a tax rates repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Create(ctx context.Context, rate *models.TaxRate) error {
	return r.db.WithContext(ctx).Create(rate).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.TaxRate, error) {
	var rate models.TaxRate
	if err := r.db.WithContext(ctx).First(&rate, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *repositoryImpl) List(ctx context.Context, params pagination.Params) ([]models.TaxRate, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.TaxRate{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	normalized := pagination.Normalize(params)
	var rates []models.TaxRate
	err := query.
		Order("country ASC, priority DESC, created_at DESC").
		Offset(normalized.Offset()).
		Limit(normalized.Limit).
		Find(&rates).Error
	if err != nil {
		return nil, 0, err
	}
	return rates, total, nil
}

func (r *repositoryImpl) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.TaxRate{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.TaxRate{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindActiveForLocation returns all active rates whose scope contains the
// location: country matches and state/zip are either unset or equal.
func (r *repositoryImpl) FindActiveForLocation(ctx context.Context, country, state, zip string) ([]models.TaxRate, error) {
	var rates []models.TaxRate
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Where("lower(country) = lower(?)", country).
		Where("state IS NULL OR lower(state) = lower(?)", state).
		Where("zip IS NULL OR zip = ?", zip).
		Find(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}
