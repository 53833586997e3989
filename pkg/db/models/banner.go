package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ekomart/ekomart-backend/pkg/enums"
)

// Banner is a promotional slot rendered by the storefront.
type Banner struct {
	ID        uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Position  enums.BannerPosition `gorm:"type:banner_position;not null;index" json:"position"`
	Title     string               `gorm:"type:text;not null" json:"title"`
	ImageURL  string               `gorm:"type:text;not null" json:"image_url"`
	LinkURL   *string              `gorm:"type:text" json:"link_url,omitempty"`
	Active    bool                 `gorm:"not null;default:true" json:"active"`
	SortOrder int                  `gorm:"not null;default:0" json:"sort_order"`
	Clicks    int64                `gorm:"not null;default:0" json:"clicks"`
	StartsAt  *time.Time           `gorm:"type:timestamptz" json:"starts_at,omitempty"`
	EndsAt    *time.Time           `gorm:"type:timestamptz" json:"ends_at,omitempty"`
	CreatedAt time.Time            `gorm:"type:timestamptz;default:now()" json:"created_at"`
	UpdatedAt time.Time            `gorm:"type:timestamptz;default:now()" json:"updated_at"`
}
