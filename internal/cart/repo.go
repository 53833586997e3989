package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ekomart/ekomart-backend/pkg/db/models"
)

// Repository exposes persistence helpers for the server-side cart.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	UpsertItem(ctx context.Context, item *models.CartItem) error
	UpdateItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) (int64, error)
	RemoveItem(ctx context.Context, cartID, productID uuid.UUID) (bool, error)
	ClearItems(ctx context.Context, cartID uuid.UUID) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a cart repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) FindOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart := &models.Cart{UserID: userID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(cart).Error
	if err != nil {
		return nil, err
	}
	return r.FindByUser(ctx, userID)
}

func (r *repositoryImpl) FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpsertItem inserts the line or bumps its quantity in a single statement, so
// concurrent adds of the same product never lose an increment.
func (r *repositoryImpl) UpsertItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("cart_items.quantity + ?", item.Quantity),
				"unit_price": item.UnitPrice,
				"updated_at": gorm.Expr("now()"),
			}),
		}).
		Create(item).Error
}

func (r *repositoryImpl) UpdateItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		UpdateColumn("quantity", quantity)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repositoryImpl) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) ClearItems(ctx context.Context, cartID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
