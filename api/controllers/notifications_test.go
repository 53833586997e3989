package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	notificationsvc "github.com/ekomart/ekomart-backend/internal/notifications"
	pkgerrors "github.com/ekomart/ekomart-backend/pkg/errors"
)

type stubNotificationService struct {
	unread     int64
	markReadFn func(userID, notificationID uuid.UUID) error
}

func (s stubNotificationService) List(ctx context.Context, params notificationsvc.ListParams) (*notificationsvc.ListResult, error) {
	return &notificationsvc.ListResult{UnreadCount: s.unread}, nil
}

func (s stubNotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.unread, nil
}

func (s stubNotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if s.markReadFn != nil {
		return s.markReadFn(userID, notificationID)
	}
	return nil
}

func (s stubNotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (s stubNotificationService) Delete(ctx context.Context, userID, notificationID uuid.UUID) error {
	return nil
}

func (s stubNotificationService) DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (s stubNotificationService) Notify(ctx context.Context, tx *gorm.DB, input notificationsvc.NotifyInput) error {
	return nil
}

func withNotificationID(req *http.Request, notificationID string) *http.Request {
	ctx := chi.NewRouteContext()
	ctx.URLParams.Add("notificationId", notificationID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, ctx))
}

func TestNotificationUnreadCount(t *testing.T) {
	handler := NotificationUnreadCount(stubNotificationService{unread: 7}, nil)

	req := withCustomer(httptest.NewRequest(http.MethodGet, "/api/v1/notifications/unread-count", nil), uuid.New())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data map[string]int64 `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["unreadCount"] != 7 {
		t.Fatalf("unexpected unread count: %d", envelope.Data["unreadCount"])
	}
}

func TestMarkNotificationReadScopesToCaller(t *testing.T) {
	userID := uuid.New()
	notificationID := uuid.New()
	var gotUser, gotNotification uuid.UUID

	handler := MarkNotificationRead(stubNotificationService{
		markReadFn: func(u, n uuid.UUID) error {
			gotUser, gotNotification = u, n
			return nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/notifications/"+notificationID.String()+"/read", nil)
	req = withCustomer(withNotificationID(req, notificationID.String()), userID)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotUser != userID {
		t.Fatalf("expected user %s got %s", userID, gotUser)
	}
	if gotNotification != notificationID {
		t.Fatalf("expected notification %s got %s", notificationID, gotNotification)
	}
}

func TestMarkNotificationReadInvalidID(t *testing.T) {
	handler := MarkNotificationRead(stubNotificationService{}, nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/notifications/not-a-uuid/read", nil)
	req = withCustomer(withNotificationID(req, "not-a-uuid"), uuid.New())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestMarkNotificationReadNotFound(t *testing.T) {
	handler := MarkNotificationRead(stubNotificationService{
		markReadFn: func(_, _ uuid.UUID) error {
			return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
		},
	}, nil)

	notificationID := uuid.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/notifications/"+notificationID.String()+"/read", nil)
	req = withCustomer(withNotificationID(req, notificationID.String()), uuid.New())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
