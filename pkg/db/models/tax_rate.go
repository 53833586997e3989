package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ekomart/ekomart-backend/pkg/enums"
)

// TaxRate scopes a percentage or fixed tax to a country/state/zip. The most
// specific active match wins, then the highest priority.
type TaxRate struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Country   string            `gorm:"type:text;not null;index" json:"country"`
	State     *string           `gorm:"type:text" json:"state,omitempty"`
	Zip       *string           `gorm:"type:text" json:"zip,omitempty"`
	Rate      decimal.Decimal   `gorm:"type:numeric(8,4);not null" json:"rate"`
	Kind      enums.TaxRateKind `gorm:"type:tax_rate_kind;not null;default:'percentage'" json:"kind"`
	Priority  int               `gorm:"not null;default:0" json:"priority"`
	Active    bool              `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time         `gorm:"type:timestamptz;default:now()" json:"created_at"`
	UpdatedAt time.Time         `gorm:"type:timestamptz;default:now()" json:"updated_at"`
}
