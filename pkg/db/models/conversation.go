package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ekomart/ekomart-backend/pkg/enums"
)

// Conversation is a two-party support thread between one customer and the
// admin team. Unread counters are maintained per side.
type Conversation struct {
	ID                  uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID          uuid.UUID                `gorm:"type:uuid;not null;index" json:"customer_id"`
	Subject             string                   `gorm:"type:text;not null" json:"subject"`
	Status              enums.ConversationStatus `gorm:"type:conversation_status;not null;default:'open'" json:"status"`
	UnreadAdminCount    int                      `gorm:"not null;default:0" json:"unread_admin_count"`
	UnreadCustomerCount int                      `gorm:"not null;default:0" json:"unread_customer_count"`
	LastMessageAt       *time.Time               `gorm:"type:timestamptz" json:"last_message_at,omitempty"`
	Messages            []ChatMessage            `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`
	CreatedAt           time.Time                `gorm:"type:timestamptz;default:now()" json:"created_at"`
	UpdatedAt           time.Time                `gorm:"type:timestamptz;default:now()" json:"updated_at"`
}

// ChatMessage is one message within a conversation.
type ChatMessage struct {
	ID             uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ConversationID uuid.UUID        `gorm:"type:uuid;not null;index" json:"conversation_id"`
	Sender         enums.ChatSender `gorm:"type:chat_sender;not null" json:"sender"`
	SenderID       uuid.UUID        `gorm:"type:uuid;not null" json:"sender_id"`
	Body           string           `gorm:"type:text;not null" json:"body"`
	ReadAt         *time.Time       `gorm:"type:timestamptz" json:"read_at,omitempty"`
	CreatedAt      time.Time        `gorm:"type:timestamptz;default:now();index" json:"created_at"`
}
