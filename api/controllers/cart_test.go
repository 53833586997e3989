package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ekomart/ekomart-backend/api/middleware"
	cartsvc "github.com/ekomart/ekomart-backend/internal/cart"
	"github.com/ekomart/ekomart-backend/pkg/enums"
	pkgerrors "github.com/ekomart/ekomart-backend/pkg/errors"
)

type stubCartService struct {
	view *cartsvc.CartView
	err  error
}

func (s stubCartService) Get(ctx context.Context, userID uuid.UUID) (*cartsvc.CartView, error) {
	return s.view, s.err
}

func (s stubCartService) AddItem(ctx context.Context, userID uuid.UUID, req cartsvc.AddItemRequest) (*cartsvc.CartView, error) {
	return s.view, s.err
}

func (s stubCartService) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, req cartsvc.UpdateItemRequest) (*cartsvc.CartView, error) {
	return s.view, s.err
}

func (s stubCartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*cartsvc.CartView, error) {
	return s.view, s.err
}

func (s stubCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.err
}

func withCustomer(req *http.Request, userID uuid.UUID) *http.Request {
	ctx := middleware.WithPrincipal(req.Context(), middleware.Principal{
		UserID: userID,
		Role:   enums.UserRoleCustomer,
	})
	return req.WithContext(ctx)
}

func TestGetCartSuccess(t *testing.T) {
	view := &cartsvc.CartView{
		ID:        uuid.New(),
		ItemCount: 2,
		Subtotal:  decimal.RequireFromString("19.98"),
	}
	handler := GetCart(stubCartService{view: view}, nil)

	req := withCustomer(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil), uuid.New())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartsvc.CartView `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != view.ID {
		t.Fatalf("unexpected cart id: %s", envelope.Data.ID)
	}
	if envelope.Data.ItemCount != 2 {
		t.Fatalf("unexpected item count: %d", envelope.Data.ItemCount)
	}
}

func TestAddCartItemRejectsUnknownProduct(t *testing.T) {
	handler := AddCartItem(stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}, nil)

	body := `{"product_id":"` + uuid.NewString() + `","quantity":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = withCustomer(req, uuid.New())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestAddCartItemRejectsInvalidBody(t *testing.T) {
	handler := AddCartItem(stubCartService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"quantity":0}`))
	req.Header.Set("Content-Type", "application/json")
	req = withCustomer(req, uuid.New())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestGetCartNilService(t *testing.T) {
	handler := GetCart(nil, nil)

	req := withCustomer(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil), uuid.New())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
