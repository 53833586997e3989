package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a storefront catalog entry.
type Product struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Slug        string           `gorm:"type:text;not null;uniqueIndex" json:"slug"`
	Name        string           `gorm:"type:text;not null" json:"name"`
	Description string           `gorm:"type:text" json:"description"`
	CategoryID  *uuid.UUID       `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Category    *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Price       decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"price"`
	SalePrice   *decimal.Decimal `gorm:"type:numeric(12,2)" json:"sale_price,omitempty"`
	Stock       int              `gorm:"not null;default:0" json:"stock"`
	ImageURL    *string          `gorm:"type:text" json:"image_url,omitempty"`
	Active      bool             `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time        `gorm:"type:timestamptz;default:now()" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"type:timestamptz;default:now()" json:"updated_at"`
}

// EffectivePrice returns the sale price when one is set.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice != nil && p.SalePrice.IsPositive() {
		return *p.SalePrice
	}
	return p.Price
}
