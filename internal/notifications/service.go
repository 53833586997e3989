package notifications

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ekomart/ekomart-backend/pkg/db/models"
	"github.com/ekomart/ekomart-backend/pkg/enums"
	pkgerrors "github.com/ekomart/ekomart-backend/pkg/errors"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// Service defines notification list/read operations.
type Service interface {
	List(ctx context.Context, params ListParams) (*ListResult, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, userID, notificationID uuid.UUID) error
	DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error)
	Notify(ctx context.Context, tx *gorm.DB, input NotifyInput) error
}

type service struct {
	repo Repository
}

// ListParams configures the notifications listing.
type ListParams struct {
	UserID     uuid.UUID
	Limit      int
	UnreadOnly bool
}

// ListResult wraps returned notifications plus the caller's full unread count.
type ListResult struct {
	Items       []models.Notification `json:"items"`
	UnreadCount int64                 `json:"unreadCount"`
}

// NotifyInput describes a notification to fan out to a user.
type NotifyInput struct {
	UserID  uuid.UUID
	Type    enums.NotificationType
	Title   string
	Message string
	Link    *string
}

// NewService wires notifications dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	rows, err := s.repo.List(ctx, listNotificationsParams{
		UserID:     params.UserID,
		Limit:      limit,
		UnreadOnly: params.UnreadOnly,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	// The unread count covers the whole unread set, not just the page.
	unread, err := s.repo.CountUnread(ctx, params.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread notifications")
	}

	return &ListResult{Items: rows, UnreadCount: unread}, nil
}

func (s *service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread notifications")
	}
	return count, nil
}

func (s *service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	result, err := s.repo.MarkRead(ctx, userID, notificationID, time.Now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !result.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	count, err := s.repo.MarkAllRead(ctx, userID, time.Now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return count, nil
}

func (s *service) Delete(ctx context.Context, userID, notificationID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	found, err := s.repo.Delete(ctx, userID, notificationID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete notification")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	count, err := s.repo.DeleteAll(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete notifications")
	}
	return count, nil
}

// Notify persists a notification, joining the caller's transaction when one is
// supplied so order and chat writes stay atomic with their fan-out.
func (s *service) Notify(ctx context.Context, tx *gorm.DB, input NotifyInput) error {
	if input.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if !input.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid notification type")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}

	repo := s.repo
	if tx != nil {
		repo = s.repo.WithTx(tx)
	}
	notification := &models.Notification{
		UserID:  input.UserID,
		Type:    input.Type,
		Title:   title,
		Message: strings.TrimSpace(input.Message),
		Link:    input.Link,
	}
	if err := repo.Create(ctx, notification); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notification")
	}
	return nil
}
