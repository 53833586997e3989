package activity

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ekomart/ekomart-backend/pkg/db/models"
	"github.com/ekomart/ekomart-backend/pkg/enums"
	"github.com/ekomart/ekomart-backend/pkg/pagination"
)

// Repository exposes persistence helpers for the activity audit trail.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.ActivityLog, int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ListFilters narrows the admin activity listing.
type ListFilters struct {
	Action *enums.ActivityAction
	Entity *enums.ActivityEntity
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an activity repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, entry *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repositoryImpl) List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.ActivityLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ActivityLog{})
	if filters.Action != nil {
		query = query.Where("action = ?", *filters.Action)
	}
	if filters.Entity != nil {
		query = query.Where("entity = ?", *filters.Entity)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	normalized := pagination.Normalize(params)
	var rows []models.ActivityLog
	err := query.
		Order("created_at DESC, id DESC").
		Offset(normalized.Offset()).
		Limit(normalized.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repositoryImpl) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.ActivityLog{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
