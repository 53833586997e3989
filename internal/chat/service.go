package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ekomart/ekomart-backend/internal/notifications"
	"github.com/ekomart/ekomart-backend/pkg/db"
	"github.com/ekomart/ekomart-backend/pkg/db/models"
	"github.com/ekomart/ekomart-backend/pkg/enums"
	pkgerrors "github.com/ekomart/ekomart-backend/pkg/errors"
	"github.com/ekomart/ekomart-backend/pkg/pagination"
)

const maxMessageLength = 4000

// Caller identifies who is acting on a conversation.
type Caller struct {
	UserID uuid.UUID
	Admin  bool
}

// Sender returns the chat side the caller writes as.
func (c Caller) Sender() enums.ChatSender {
	if c.Admin {
		return enums.ChatSenderAdmin
	}
	return enums.ChatSenderCustomer
}

// CreateConversationRequest opens a new support thread.
type CreateConversationRequest struct {
	Subject string `json:"subject" validate:"required,min=2,max=200"`
	Body    string `json:"body" validate:"omitempty,max=4000"`
}

// PostMessageRequest appends one message to a conversation.
type PostMessageRequest struct {
	Body string `json:"body" validate:"required,max=4000"`
}

// ListResult is one page of conversations.
type ListResult struct {
	Items      []models.Conversation `json:"items"`
	Pagination pagination.Meta       `json:"pagination"`
}

// ServiceParams groups dependencies for the chat service.
type ServiceParams struct {
	Repo          Repository
	Notifications notifications.Service
	Tx            db.TxRunner
}

// Service exposes the support-chat flows.
type Service interface {
	Create(ctx context.Context, customerID uuid.UUID, req CreateConversationRequest) (*models.Conversation, error)
	ListMine(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*ListResult, error)
	ListAll(ctx context.Context, params pagination.Params, status *enums.ConversationStatus) (*ListResult, error)
	Get(ctx context.Context, caller Caller, conversationID uuid.UUID) (*models.Conversation, error)
	PostMessage(ctx context.Context, caller Caller, conversationID uuid.UUID, req PostMessageRequest) (*models.ChatMessage, error)
	MarkRead(ctx context.Context, caller Caller, conversationID uuid.UUID) error
	Close(ctx context.Context, caller Caller, conversationID uuid.UUID) (*models.Conversation, error)
}

type service struct {
	repo          Repository
	notifications notifications.Service
	tx            db.TxRunner
}

// NewService builds a chat service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "chat repo is required")
	}
	if params.Notifications == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notifications service is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	return &service{
		repo:          params.Repo,
		notifications: params.Notifications,
		tx:            params.Tx,
	}, nil
}

func (s *service) Create(ctx context.Context, customerID uuid.UUID, req CreateConversationRequest) (*models.Conversation, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subject is required")
	}

	conversation := &models.Conversation{
		CustomerID: customerID,
		Subject:    subject,
		Status:     enums.ConversationStatusOpen,
	}
	body := strings.TrimSpace(req.Body)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, conversation); err != nil {
			return err
		}
		if body == "" {
			return nil
		}
		now := time.Now().UTC()
		message := &models.ChatMessage{
			ConversationID: conversation.ID,
			Sender:         enums.ChatSenderCustomer,
			SenderID:       customerID,
			Body:           body,
			CreatedAt:      now,
		}
		if err := repo.CreateMessage(ctx, message); err != nil {
			return err
		}
		return repo.BumpUnread(ctx, conversation.ID, enums.ChatSenderAdmin, now)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create conversation")
	}
	return s.Get(ctx, Caller{UserID: customerID}, conversation.ID)
}

func (s *service) ListMine(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*ListResult, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	conversations, total, err := s.repo.ListForCustomer(ctx, customerID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list conversations")
	}
	return &ListResult{Items: conversations, Pagination: pagination.BuildMeta(params, total)}, nil
}

func (s *service) ListAll(ctx context.Context, params pagination.Params, status *enums.ConversationStatus) (*ListResult, error) {
	conversations, total, err := s.repo.ListAll(ctx, params, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list conversations")
	}
	return &ListResult{Items: conversations, Pagination: pagination.BuildMeta(params, total)}, nil
}

// Get loads a conversation with its messages. A customer asking for someone
// else's thread gets a not-found, never a hint that the id exists.
func (s *service) Get(ctx context.Context, caller Caller, conversationID uuid.UUID) (*models.Conversation, error) {
	if conversationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "conversation id required")
	}
	conversation, err := s.repo.FindByIDWithMessages(ctx, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "conversation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find conversation")
	}
	if !caller.Admin && conversation.CustomerID != caller.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "conversation not found")
	}
	return conversation, nil
}

// PostMessage appends a message and bumps the counterpart's unread counter in
// the same transaction. Posting into another customer's thread is forbidden.
func (s *service) PostMessage(ctx context.Context, caller Caller, conversationID uuid.UUID, req PostMessageRequest) (*models.ChatMessage, error) {
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message body is required")
	}
	if len(body) > maxMessageLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message body is too long")
	}

	conversation, err := s.authorize(ctx, caller, conversationID)
	if err != nil {
		return nil, err
	}
	// Admins may append a final note; customers have to open a new thread.
	if !caller.Admin && conversation.Status == enums.ConversationStatusClosed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "conversation is closed")
	}

	sender := caller.Sender()
	now := time.Now().UTC()
	message := &models.ChatMessage{
		ConversationID: conversation.ID,
		Sender:         sender,
		SenderID:       caller.UserID,
		Body:           body,
		CreatedAt:      now,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateMessage(ctx, message); err != nil {
			return err
		}
		if err := repo.BumpUnread(ctx, conversation.ID, sender.Counterpart(), now); err != nil {
			return err
		}
		if sender == enums.ChatSenderAdmin {
			return s.notifications.Notify(ctx, tx, notifications.NotifyInput{
				UserID:  conversation.CustomerID,
				Type:    enums.NotificationTypeSystem,
				Title:   "New reply from support",
				Message: "Support replied in \"" + conversation.Subject + "\"",
			})
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "post message")
	}
	return message, nil
}

// MarkRead flips the counterpart side's unread messages and zeroes the
// caller's unread counter. Both statements are idempotent.
func (s *service) MarkRead(ctx context.Context, caller Caller, conversationID uuid.UUID) error {
	conversation, err := s.authorize(ctx, caller, conversationID)
	if err != nil {
		return err
	}

	reader := caller.Sender()
	now := time.Now().UTC()
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.MarkMessagesRead(ctx, conversation.ID, reader.Counterpart(), now); err != nil {
			return err
		}
		return repo.ResetUnread(ctx, conversation.ID, reader)
	})
}

// Close ends the conversation. Only admins close threads; closing twice is a
// state conflict, as is losing the race to another admin.
func (s *service) Close(ctx context.Context, caller Caller, conversationID uuid.UUID) (*models.Conversation, error) {
	if !caller.Admin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only support staff can close conversations")
	}
	conversation, err := s.authorize(ctx, caller, conversationID)
	if err != nil {
		return nil, err
	}
	if conversation.Status == enums.ConversationStatusClosed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "conversation is already closed")
	}

	affected, err := s.repo.UpdateStatus(ctx, conversation.ID, enums.ConversationStatusOpen, enums.ConversationStatusClosed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close conversation")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "conversation is already closed")
	}
	conversation.Status = enums.ConversationStatusClosed
	return conversation, nil
}

// authorize loads the conversation and checks party membership. A known id
// held by a non-party customer is rejected outright.
func (s *service) authorize(ctx context.Context, caller Caller, conversationID uuid.UUID) (*models.Conversation, error) {
	if conversationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "conversation id required")
	}
	conversation, err := s.repo.FindByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "conversation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find conversation")
	}
	if !caller.Admin && conversation.CustomerID != caller.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a participant in this conversation")
	}
	return conversation, nil
}
