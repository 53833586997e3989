package orders

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ekomart/ekomart-backend/pkg/db/models"
	"github.com/ekomart/ekomart-backend/pkg/enums"
	"github.com/ekomart/ekomart-backend/pkg/pagination"
)

// Repository defines persistence operations for orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, userID *uuid.UUID, params pagination.Params, filters ListFilters) ([]models.Order, int64, error)
	CountByStatus(ctx context.Context, userID uuid.UUID, status enums.OrderStatus) (int64, error)
	SumSpent(ctx context.Context, userID uuid.UUID) (string, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus) (int64, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, from, to enums.PaymentStatus) (int64, error)
	DecrementStock(ctx context.Context, productID uuid.UUID, qty int) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIDForUser folds ownership into the query filter so a foreign order is
// indistinguishable from a missing one.
func (r *repository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns a page of orders. A nil userID lists across all users (admin).
func (r *repository) List(ctx context.Context, userID *uuid.UUID, params pagination.Params, filters ListFilters) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Query != "" {
		pattern := "%" + strings.ToLower(filters.Query) + "%"
		query = query.Where(
			"LOWER(order_number) LIKE ? OR EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = orders.id AND LOWER(oi.name) LIKE ?)",
			pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	normalized := pagination.Normalize(params)
	var orders []models.Order
	err := query.
		Preload("Items").
		Order("created_at DESC, id DESC").
		Offset(normalized.Offset()).
		Limit(normalized.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *repository) CountByStatus(ctx context.Context, userID uuid.UUID, status enums.OrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ? AND status = ?", userID, status).
		Count(&count).Error
	return count, err
}

// SumSpent totals everything the user paid across non-cancelled orders.
func (r *repository) SumSpent(ctx context.Context, userID uuid.UUID) (string, error) {
	var sum *string
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("SUM(total)").
		Where("user_id = ? AND status <> ?", userID, enums.OrderStatusCancelled).
		Scan(&sum).Error
	if err != nil {
		return "0", err
	}
	if sum == nil {
		return "0", nil
	}
	return *sum, nil
}

// UpdateStatus advances the order only when it still sits in the expected
// source state, so concurrent admins cannot double-apply a transition.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		UpdateColumn("status", to)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DecrementStock takes qty units off the shelf only while enough remain, so
// two concurrent checkouts cannot oversell the same product.
func (r *repository) DecrementStock(ctx context.Context, productID uuid.UUID, qty int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, from, to enums.PaymentStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", id, from).
		UpdateColumn("payment_status", to)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
