package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is the single server-side cart per registered user.
type Cart struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Items     []CartItem `gorm:"foreignKey:CartID" json:"items"`
	CreatedAt time.Time  `gorm:"type:timestamptz;default:now()" json:"created_at"`
	UpdatedAt time.Time  `gorm:"type:timestamptz;default:now()" json:"updated_at"`
}

// CartItem holds one product line with a price snapshot taken at add time.
type CartItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CartID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_cart_product,unique" json:"cart_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index:idx_cart_product,unique" json:"product_id"`
	Variant   *string         `gorm:"type:text" json:"variant,omitempty"`
	Quantity  int             `gorm:"not null;check:quantity >= 1" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null;check:unit_price >= 0" json:"unit_price"`
	CreatedAt time.Time       `gorm:"type:timestamptz;default:now()" json:"created_at"`
	UpdatedAt time.Time       `gorm:"type:timestamptz;default:now()" json:"updated_at"`
}
