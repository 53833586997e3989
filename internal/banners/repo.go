package banners

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ekomart/ekomart-backend/pkg/db/models"
	"github.com/ekomart/ekomart-backend/pkg/enums"
)

// Repository defines persistence operations for banners.
type Repository interface {
	Create(ctx context.Context, banner *models.Banner) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Banner, error)
	ListActive(ctx context.Context, position *enums.BannerPosition, now time.Time) ([]models.Banner, error)
	ListAll(ctx context.Context) ([]models.Banner, error)
	Update(ctx context.Context, banner *models.Banner) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	IncrementClicks(ctx context.Context, id uuid.UUID) (int64, error)
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a banner repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, banner *models.Banner) error {
	return r.db.WithContext(ctx).Create(banner).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Banner, error) {
	var banner models.Banner
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&banner).Error
	if err != nil {
		return nil, err
	}
	return &banner, nil
}

// ListActive filters to banners inside their date window; open-ended windows
// always match.
func (r *repository) ListActive(ctx context.Context, position *enums.BannerPosition, now time.Time) ([]models.Banner, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Banner{}).
		Where("active = ?", true).
		Where("starts_at IS NULL OR starts_at <= ?", now).
		Where("ends_at IS NULL OR ends_at >= ?", now)
	if position != nil {
		query = query.Where("position = ?", *position)
	}

	var banners []models.Banner
	err := query.Order("sort_order ASC, created_at DESC").Find(&banners).Error
	if err != nil {
		return nil, err
	}
	return banners, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.Banner, error) {
	var banners []models.Banner
	err := r.db.WithContext(ctx).
		Order("position ASC, sort_order ASC").
		Find(&banners).Error
	if err != nil {
		return nil, err
	}
	return banners, nil
}

func (r *repository) Update(ctx context.Context, banner *models.Banner) error {
	return r.db.WithContext(ctx).Save(banner).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Banner{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IncrementClicks bumps the counter in place without a read-modify-write.
func (r *repository) IncrementClicks(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Banner{}).
		Where("id = ?", id).
		UpdateColumn("clicks", gorm.Expr("clicks + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeactivateExpired flips active off for banners whose window has closed.
func (r *repository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Banner{}).
		Where("active = ? AND ends_at IS NOT NULL AND ends_at < ?", true, now).
		UpdateColumn("active", false)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
