package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ekomart/ekomart-backend/pkg/db/models"
	"github.com/ekomart/ekomart-backend/pkg/enums"
	"github.com/ekomart/ekomart-backend/pkg/pagination"
)

// Repository defines persistence operations for support conversations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, conversation *models.Conversation) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	FindByIDWithMessages(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.Conversation, int64, error)
	ListAll(ctx context.Context, params pagination.Params, status *enums.ConversationStatus) ([]models.Conversation, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.ConversationStatus) (int64, error)
	CreateMessage(ctx context.Context, message *models.ChatMessage) error
	BumpUnread(ctx context.Context, conversationID uuid.UUID, recipient enums.ChatSender, at time.Time) error
	MarkMessagesRead(ctx context.Context, conversationID uuid.UUID, author enums.ChatSender, now time.Time) (int64, error)
	ResetUnread(ctx context.Context, conversationID uuid.UUID, reader enums.ChatSender) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a chat repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, conversation *models.Conversation) error {
	return r.db.WithContext(ctx).Create(conversation).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&conversation).Error
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (r *repository) FindByIDWithMessages(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("id = ?", id).
		First(&conversation).Error
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (r *repository) ListForCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.Conversation, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Conversation{}).Where("customer_id = ?", customerID)
	return r.page(query, params)
}

func (r *repository) ListAll(ctx context.Context, params pagination.Params, status *enums.ConversationStatus) ([]models.Conversation, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Conversation{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	return r.page(query, params)
}

func (r *repository) page(query *gorm.DB, params pagination.Params) ([]models.Conversation, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	normalized := pagination.Normalize(params)
	var conversations []models.Conversation
	err := query.
		Order("COALESCE(last_message_at, created_at) DESC, id DESC").
		Offset(normalized.Offset()).
		Limit(normalized.Limit).
		Find(&conversations).Error
	if err != nil {
		return nil, 0, err
	}
	return conversations, total, nil
}

// UpdateStatus moves the conversation only when it still sits in the expected
// source state, so concurrent closes touch one row at most.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.ConversationStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ? AND status = ?", id, from).
		UpdateColumn("status", to)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repository) CreateMessage(ctx context.Context, message *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// BumpUnread increments the recipient side's unread counter and stamps the
// conversation in one statement.
func (r *repository) BumpUnread(ctx context.Context, conversationID uuid.UUID, recipient enums.ChatSender, at time.Time) error {
	column := "unread_customer_count"
	if recipient == enums.ChatSenderAdmin {
		column = "unread_admin_count"
	}
	return r.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		Updates(map[string]any{
			column:            gorm.Expr(column+" + 1"),
			"last_message_at": at,
			"updated_at":      at,
		}).Error
}

// MarkMessagesRead flips read_at on the author side's unread messages only,
// so a repeat call touches zero rows.
func (r *repository) MarkMessagesRead(ctx context.Context, conversationID uuid.UUID, author enums.ChatSender, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ChatMessage{}).
		Where("conversation_id = ? AND sender = ? AND read_at IS NULL", conversationID, author).
		UpdateColumn("read_at", now)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repository) ResetUnread(ctx context.Context, conversationID uuid.UUID, reader enums.ChatSender) error {
	column := "unread_customer_count"
	if reader == enums.ChatSenderAdmin {
		column = "unread_admin_count"
	}
	return r.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		UpdateColumn(column, 0).Error
}
