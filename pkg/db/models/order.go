package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ekomart/ekomart-backend/pkg/enums"
	"github.com/ekomart/ekomart-backend/pkg/types"
)

// Order is a placed storefront order. UserID is nil for guest orders.
type Order struct {
	ID              uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber     string              `gorm:"type:text;not null;uniqueIndex" json:"order_number"`
	UserID          *uuid.UUID          `gorm:"type:uuid;index" json:"user_id,omitempty"`
	GuestEmail      *string             `gorm:"type:text" json:"guest_email,omitempty"`
	Status          enums.OrderStatus   `gorm:"type:order_status;not null;default:'pending'" json:"status"`
	PaymentStatus   enums.PaymentStatus `gorm:"type:payment_status;not null;default:'pending'" json:"payment_status"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID" json:"items"`
	Subtotal        decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	Tax             decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"tax"`
	ShippingFee     decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"shipping_fee"`
	Total           decimal.Decimal     `gorm:"type:numeric(12,2);not null;check:total >= 0" json:"total"`
	ShippingAddress types.Address       `gorm:"type:jsonb" json:"shipping_address"`
	BillingAddress  types.Address       `gorm:"type:jsonb" json:"billing_address"`
	CreatedAt       time.Time           `gorm:"type:timestamptz;default:now();index" json:"created_at"`
	UpdatedAt       time.Time           `gorm:"type:timestamptz;default:now()" json:"updated_at"`
}

// OrderItem snapshots a purchased product line.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	Name      string          `gorm:"type:text;not null" json:"name"`
	Variant   *string         `gorm:"type:text" json:"variant,omitempty"`
	Quantity  int             `gorm:"not null;check:quantity >= 1" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null;check:unit_price >= 0" json:"unit_price"`
	LineTotal decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"line_total"`
	CreatedAt time.Time       `gorm:"type:timestamptz;default:now()" json:"created_at"`
}
