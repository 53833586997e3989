package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ekomart/ekomart-backend/pkg/enums"
)

// User is a registered customer or back-office admin.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string         `gorm:"type:text;not null;uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"type:text;not null" json:"-"`
	Name         string         `gorm:"type:text;not null" json:"name"`
	Role         enums.UserRole `gorm:"type:user_role;not null;default:'customer'" json:"role"`
	CreatedAt    time.Time      `gorm:"type:timestamptz;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"type:timestamptz;default:now()" json:"updated_at"`
}
