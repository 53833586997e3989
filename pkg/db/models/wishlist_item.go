package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem links a user to a liked product. The (user, product) pair is
// unique and the per-user count is capped in the repository.
type WishlistItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_wishlist_user_product,unique" json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index:idx_wishlist_user_product,unique" json:"product_id"`
	CreatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"created_at"`
}
