package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ekomart/ekomart-backend/pkg/enums"
	"github.com/ekomart/ekomart-backend/pkg/types"
)

// ActivityLog is an append-only record of admin mutations. Rows past the
// retention window are removed by the cleanup cron job.
type ActivityLog struct {
	ID          uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID            `gorm:"type:uuid;not null;index" json:"user_id"`
	Action      enums.ActivityAction `gorm:"type:activity_action;not null" json:"action"`
	Entity      enums.ActivityEntity `gorm:"type:activity_entity;not null;index" json:"entity"`
	EntityID    *uuid.UUID           `gorm:"type:uuid" json:"entity_id,omitempty"`
	Description string               `gorm:"type:text;not null" json:"description"`
	Before      types.JSONMap        `gorm:"type:jsonb" json:"before,omitempty"`
	After       types.JSONMap        `gorm:"type:jsonb" json:"after,omitempty"`
	CreatedAt   time.Time            `gorm:"type:timestamptz;default:now();index" json:"created_at"`
}
