package wishlist

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ekomart/ekomart-backend/pkg/db/models"
	"github.com/ekomart/ekomart-backend/pkg/pagination"
)

// Repository encapsulates wishlist persistence.
type Repository interface {
	Add(ctx context.Context, userID, productID uuid.UUID, maxItems int) (bool, error)
	Exists(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]Entry, int64, error)
	Count(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Entry is a wishlist row joined with its product summary.
type Entry struct {
	ProductID    uuid.UUID        `json:"product_id"`
	Slug         string           `json:"slug"`
	Name         string           `json:"name"`
	Price        decimal.Decimal  `json:"price"`
	SalePrice    *decimal.Decimal `json:"sale_price,omitempty"`
	ImageURL     *string          `json:"image_url,omitempty"`
	Active       bool             `json:"active"`
	WishlistedAt time.Time        `json:"wishlisted_at"`
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a wishlist repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Add inserts the entry only while the user sits under the cap; the unique
// (user_id, product_id) index swallows duplicates. Cap and duplicate both
// come back as zero rows affected, so callers disambiguate via Exists.
func (r *repository) Add(ctx context.Context, userID, productID uuid.UUID, maxItems int) (bool, error) {
	result := r.db.WithContext(ctx).Exec(`
INSERT INTO wishlist_items (id, user_id, product_id)
SELECT ?, ?, ?
WHERE (SELECT COUNT(*) FROM wishlist_items WHERE user_id = ?) < ?
ON CONFLICT (user_id, product_id) DO NOTHING`,
		uuid.New(), userID, productID, userID, maxItems)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) Exists(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Remove(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) List(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]Entry, int64, error) {
	total, err := r.Count(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	normalized := pagination.Normalize(params)
	var entries []Entry
	err = r.db.WithContext(ctx).Raw(`
SELECT wi.product_id, wi.created_at AS wishlisted_at,
       p.slug, p.name, p.price, p.sale_price, p.image_url, p.active
FROM wishlist_items wi
JOIN products p ON p.id = wi.product_id
WHERE wi.user_id = ?
ORDER BY wi.created_at DESC, wi.id DESC
LIMIT ? OFFSET ?`,
		userID, normalized.Limit, normalized.Offset()).
		Scan(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *repository) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
