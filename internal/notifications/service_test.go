package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ekomart/ekomart-backend/pkg/db/models"
	"github.com/ekomart/ekomart-backend/pkg/enums"
	pkgerrors "github.com/ekomart/ekomart-backend/pkg/errors"
)

type fakeRepository struct {
	listFn        func(ctx context.Context, params listNotificationsParams) ([]models.Notification, error)
	countUnreadFn func(ctx context.Context, userID uuid.UUID) (int64, error)
	markReadFn    func(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error)
	markAllReadFn func(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)
	deleteFn      func(ctx context.Context, userID, notificationID uuid.UUID) (bool, error)
	created       []*models.Notification
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, notification *models.Notification) error {
	f.created = append(f.created, notification)
	return nil
}

func (f *fakeRepository) List(ctx context.Context, params listNotificationsParams) ([]models.Notification, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, nil
}

func (f *fakeRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	if f.countUnreadFn != nil {
		return f.countUnreadFn(ctx, userID)
	}
	return 0, nil
}

func (f *fakeRepository) MarkRead(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
	if f.markReadFn != nil {
		return f.markReadFn(ctx, userID, notificationID, now)
	}
	return notificationMarkResult{}, nil
}

func (f *fakeRepository) MarkAllRead(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	if f.markAllReadFn != nil {
		return f.markAllReadFn(ctx, userID, now)
	}
	return 0, nil
}

func (f *fakeRepository) Delete(ctx context.Context, userID, notificationID uuid.UUID) (bool, error) {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, userID, notificationID)
	}
	return false, nil
}

func (f *fakeRepository) DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func TestListClampsLimitAndCountsAllUnread(t *testing.T) {
	userID := uuid.New()
	var gotLimit int
	repo := &fakeRepository{
		listFn: func(ctx context.Context, params listNotificationsParams) ([]models.Notification, error) {
			gotLimit = params.Limit
			return []models.Notification{{ID: uuid.New(), UserID: userID}}, nil
		},
		countUnreadFn: func(ctx context.Context, id uuid.UUID) (int64, error) {
			if id != userID {
				t.Fatalf("count scoped to %s, want %s", id, userID)
			}
			return 7, nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	result, err := svc.List(context.Background(), ListParams{UserID: userID, Limit: 500})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotLimit != maxListLimit {
		t.Fatalf("limit = %d, want %d", gotLimit, maxListLimit)
	}
	if result.UnreadCount != 7 {
		t.Fatalf("unreadCount = %d, want 7", result.UnreadCount)
	}
}

func TestListDefaultsLimit(t *testing.T) {
	var gotLimit int
	repo := &fakeRepository{
		listFn: func(ctx context.Context, params listNotificationsParams) ([]models.Notification, error) {
			gotLimit = params.Limit
			return nil, nil
		},
	}
	svc, _ := NewService(repo)

	if _, err := svc.List(context.Background(), ListParams{UserID: uuid.New()}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotLimit != defaultListLimit {
		t.Fatalf("limit = %d, want %d", gotLimit, defaultListLimit)
	}
}

func TestMarkReadMissingOwnerIsNotFound(t *testing.T) {
	repo := &fakeRepository{
		markReadFn: func(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
			return notificationMarkResult{Found: false}, nil
		},
	}
	svc, _ := NewService(repo)

	err := svc.MarkRead(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestMarkReadAlreadyReadIsIdempotent(t *testing.T) {
	repo := &fakeRepository{
		markReadFn: func(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
			return notificationMarkResult{Found: true, Updated: false}, nil
		},
	}
	svc, _ := NewService(repo)

	if err := svc.MarkRead(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("already-read mark must succeed, got %v", err)
	}
}

func TestMarkAllReadReturnsAffected(t *testing.T) {
	calls := 0
	repo := &fakeRepository{
		markAllReadFn: func(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
			calls++
			if calls == 1 {
				return 4, nil
			}
			return 0, nil
		},
	}
	svc, _ := NewService(repo)

	count, err := svc.MarkAllRead(context.Background(), uuid.New())
	if err != nil || count != 4 {
		t.Fatalf("first call = (%d, %v), want (4, nil)", count, err)
	}

	// Second pass finds nothing unread and still succeeds.
	count, err = svc.MarkAllRead(context.Background(), uuid.New())
	if err != nil || count != 0 {
		t.Fatalf("second call = (%d, %v), want (0, nil)", count, err)
	}
}

func TestDeleteMissingIsNotFound(t *testing.T) {
	repo := &fakeRepository{
		deleteFn: func(ctx context.Context, userID, notificationID uuid.UUID) (bool, error) {
			return false, nil
		},
	}
	svc, _ := NewService(repo)

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestNotifyValidatesAndPersists(t *testing.T) {
	repo := &fakeRepository{}
	svc, _ := NewService(repo)

	err := svc.Notify(context.Background(), nil, NotifyInput{
		UserID:  uuid.New(),
		Type:    enums.NotificationTypeOrder,
		Title:   "Order confirmed",
		Message: "Your order EKM-1001 was confirmed.",
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("created = %d rows", len(repo.created))
	}

	err = svc.Notify(context.Background(), nil, NotifyInput{
		UserID: uuid.New(),
		Type:   enums.NotificationType("bogus"),
		Title:  "x",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want validation", err)
	}
}
