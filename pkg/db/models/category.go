package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products in the storefront catalog.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Slug      string    `gorm:"type:text;not null;uniqueIndex" json:"slug"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"updated_at"`
}
