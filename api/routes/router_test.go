package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ekomart/ekomart-backend/internal/activity"
	"github.com/ekomart/ekomart-backend/internal/auth"
	"github.com/ekomart/ekomart-backend/internal/banners"
	"github.com/ekomart/ekomart-backend/internal/cart"
	"github.com/ekomart/ekomart-backend/internal/categories"
	"github.com/ekomart/ekomart-backend/internal/chat"
	"github.com/ekomart/ekomart-backend/internal/compare"
	"github.com/ekomart/ekomart-backend/internal/notifications"
	"github.com/ekomart/ekomart-backend/internal/orders"
	"github.com/ekomart/ekomart-backend/internal/products"
	"github.com/ekomart/ekomart-backend/internal/taxrates"
	"github.com/ekomart/ekomart-backend/internal/uploads"
	"github.com/ekomart/ekomart-backend/internal/wishlist"
	pkgAuth "github.com/ekomart/ekomart-backend/pkg/auth"
	"github.com/ekomart/ekomart-backend/pkg/auth/session"
	"github.com/ekomart/ekomart-backend/pkg/config"
	"github.com/ekomart/ekomart-backend/pkg/db/models"
	"github.com/ekomart/ekomart-backend/pkg/enums"
	"github.com/ekomart/ekomart-backend/pkg/logger"
	"github.com/ekomart/ekomart-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func (stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return "", "", nil
}

func (stubSessionManager) Revoke(ctx context.Context, accessID string) error { return nil }

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{}, nil
}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{}, nil
}

type stubProductsService struct{}

func (stubProductsService) PublicList(ctx context.Context, params pagination.Params, query string, categoryID *uuid.UUID) (*products.ListResult, error) {
	return &products.ListResult{}, nil
}

func (stubProductsService) PublicDetail(ctx context.Context, slug string) (*models.Product, error) {
	return &models.Product{}, nil
}

func (stubProductsService) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return &models.Product{}, nil
}

func (stubProductsService) AdminList(ctx context.Context, params pagination.Params, filters products.ListFilters) (*products.ListResult, error) {
	return &products.ListResult{}, nil
}

func (stubProductsService) Create(ctx context.Context, adminID uuid.UUID, req products.CreateRequest) (*models.Product, error) {
	return &models.Product{}, nil
}

func (stubProductsService) Update(ctx context.Context, adminID, productID uuid.UUID, req products.UpdateRequest) (*models.Product, error) {
	return &models.Product{}, nil
}

func (stubProductsService) Delete(ctx context.Context, adminID, productID uuid.UUID) error {
	return nil
}

type stubCategoriesService struct{}

func (stubCategoriesService) PublicList(ctx context.Context) ([]models.Category, error) {
	return nil, nil
}

func (stubCategoriesService) AdminList(ctx context.Context) ([]models.Category, error) {
	return nil, nil
}

func (stubCategoriesService) Create(ctx context.Context, adminID uuid.UUID, req categories.CreateRequest) (*models.Category, error) {
	return &models.Category{}, nil
}

func (stubCategoriesService) Update(ctx context.Context, adminID, categoryID uuid.UUID, req categories.UpdateRequest) (*models.Category, error) {
	return &models.Category{}, nil
}

func (stubCategoriesService) Delete(ctx context.Context, adminID, categoryID uuid.UUID) error {
	return nil
}

type stubBannersService struct{}

func (stubBannersService) PublicList(ctx context.Context, position *enums.BannerPosition) ([]models.Banner, error) {
	return nil, nil
}

func (stubBannersService) Click(ctx context.Context, bannerID uuid.UUID) error { return nil }

func (stubBannersService) AdminList(ctx context.Context) ([]models.Banner, error) { return nil, nil }

func (stubBannersService) Create(ctx context.Context, adminID uuid.UUID, req banners.CreateRequest) (*models.Banner, error) {
	return &models.Banner{}, nil
}

func (stubBannersService) Update(ctx context.Context, adminID, bannerID uuid.UUID, req banners.UpdateRequest) (*models.Banner, error) {
	return &models.Banner{}, nil
}

func (stubBannersService) Delete(ctx context.Context, adminID, bannerID uuid.UUID) error {
	return nil
}

type stubCartService struct{}

func (stubCartService) Get(ctx context.Context, userID uuid.UUID) (*cart.CartView, error) {
	return &cart.CartView{}, nil
}

func (stubCartService) AddItem(ctx context.Context, userID uuid.UUID, req cart.AddItemRequest) (*cart.CartView, error) {
	return &cart.CartView{}, nil
}

func (stubCartService) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, req cart.UpdateItemRequest) (*cart.CartView, error) {
	return &cart.CartView{}, nil
}

func (stubCartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*cart.CartView, error) {
	return &cart.CartView{}, nil
}

func (stubCartService) Clear(ctx context.Context, userID uuid.UUID) error { return nil }

type stubOrdersService struct {
	listFn func(ctx context.Context, userID uuid.UUID, params pagination.Params, filters orders.ListFilters) (*orders.ListResult, error)
}

func (s stubOrdersService) List(ctx context.Context, userID uuid.UUID, params pagination.Params, filters orders.ListFilters) (*orders.ListResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx, userID, params, filters)
	}
	return &orders.ListResult{}, nil
}

func (stubOrdersService) AdminList(ctx context.Context, params pagination.Params, filters orders.ListFilters) (*orders.ListResult, error) {
	return &orders.ListResult{}, nil
}

func (stubOrdersService) Detail(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	return &models.Order{}, nil
}

func (stubOrdersService) PublicDetail(ctx context.Context, orderID uuid.UUID) (*orders.PublicOrderView, error) {
	return &orders.PublicOrderView{}, nil
}

func (stubOrdersService) Stats(ctx context.Context, userID uuid.UUID) (*orders.Stats, error) {
	return &orders.Stats{}, nil
}

func (stubOrdersService) Checkout(ctx context.Context, userID uuid.UUID, req orders.CheckoutRequest) (*models.Order, error) {
	return &models.Order{}, nil
}

func (stubOrdersService) UpdateStatus(ctx context.Context, adminID, orderID uuid.UUID, req orders.StatusUpdateRequest) (*models.Order, error) {
	return &models.Order{}, nil
}

type stubWishlistService struct{}

func (stubWishlistService) Add(ctx context.Context, userID, productID uuid.UUID) error { return nil }

func (stubWishlistService) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	return nil
}

func (stubWishlistService) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*wishlist.ListResult, error) {
	return &wishlist.ListResult{}, nil
}

func (stubWishlistService) Contains(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	return false, nil
}

type stubCompareService struct{}

func (stubCompareService) Add(ctx context.Context, userID, productID uuid.UUID) (*compare.AddResult, error) {
	return &compare.AddResult{Added: true}, nil
}

func (stubCompareService) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	return nil
}

func (stubCompareService) List(ctx context.Context, userID uuid.UUID) ([]compare.ProductSummary, error) {
	return nil, nil
}

func (stubCompareService) Clear(ctx context.Context, userID uuid.UUID) error { return nil }

type stubChatService struct{}

func (stubChatService) Create(ctx context.Context, customerID uuid.UUID, req chat.CreateConversationRequest) (*models.Conversation, error) {
	return &models.Conversation{}, nil
}

func (stubChatService) ListMine(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*chat.ListResult, error) {
	return &chat.ListResult{}, nil
}

func (stubChatService) ListAll(ctx context.Context, params pagination.Params, status *enums.ConversationStatus) (*chat.ListResult, error) {
	return &chat.ListResult{}, nil
}

func (stubChatService) Get(ctx context.Context, caller chat.Caller, conversationID uuid.UUID) (*models.Conversation, error) {
	return &models.Conversation{}, nil
}

func (stubChatService) PostMessage(ctx context.Context, caller chat.Caller, conversationID uuid.UUID, req chat.PostMessageRequest) (*models.ChatMessage, error) {
	return &models.ChatMessage{}, nil
}

func (stubChatService) MarkRead(ctx context.Context, caller chat.Caller, conversationID uuid.UUID) error {
	return nil
}

func (stubChatService) Close(ctx context.Context, caller chat.Caller, conversationID uuid.UUID) (*models.Conversation, error) {
	return &models.Conversation{}, nil
}

type stubNotificationsService struct{}

func (stubNotificationsService) List(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
	return &notifications.ListResult{}, nil
}

func (stubNotificationsService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (stubNotificationsService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return nil
}

func (stubNotificationsService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (stubNotificationsService) Delete(ctx context.Context, userID, notificationID uuid.UUID) error {
	return nil
}

func (stubNotificationsService) DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (stubNotificationsService) Notify(ctx context.Context, tx *gorm.DB, input notifications.NotifyInput) error {
	return nil
}

type stubTaxRatesService struct{}

func (stubTaxRatesService) Create(ctx context.Context, req taxrates.CreateRequest) (*models.TaxRate, error) {
	return &models.TaxRate{}, nil
}

func (stubTaxRatesService) Get(ctx context.Context, id uuid.UUID) (*models.TaxRate, error) {
	return &models.TaxRate{}, nil
}

func (stubTaxRatesService) List(ctx context.Context, params pagination.Params) (*taxrates.ListResult, error) {
	return &taxrates.ListResult{}, nil
}

func (stubTaxRatesService) Update(ctx context.Context, id uuid.UUID, req taxrates.UpdateRequest) (*models.TaxRate, error) {
	return &models.TaxRate{}, nil
}

func (stubTaxRatesService) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (stubTaxRatesService) Resolve(ctx context.Context, country, state, zip string) (*models.TaxRate, error) {
	return &models.TaxRate{}, nil
}

func (stubTaxRatesService) ComputeTax(ctx context.Context, subtotal decimal.Decimal, country, state, zip string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type stubActivityService struct{}

func (stubActivityService) Append(ctx context.Context, tx *gorm.DB, input activity.AppendInput) error {
	return nil
}

func (stubActivityService) List(ctx context.Context, params pagination.Params, filters activity.ListFilters) (*activity.ListResult, error) {
	return &activity.ListResult{}, nil
}

type stubUploadsService struct{}

func (stubUploadsService) Save(ctx context.Context, originalName string, r io.Reader) (*uploads.Result, error) {
	return &uploads.Result{}, nil
}

func (stubUploadsService) MaxBytes() int64 { return 5 << 20 }

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config, ordersSvc orders.Service) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	if ordersSvc == nil {
		ordersSvc = stubOrdersService{}
	}
	return NewRouter(Deps{
		Config:         cfg,
		Logger:         logg,
		DB:             stubPinger{},
		Redis:          nil,
		SessionManager: stubSessionManager{},
		Auth:           stubAuthService{},
		Products:       stubProductsService{},
		Categories:     stubCategoriesService{},
		Banners:        stubBannersService{},
		Cart:           stubCartService{},
		Orders:         ordersSvc,
		Wishlist:       stubWishlistService{},
		Compare:        stubCompareService{},
		Chat:           stubChatService{},
		Notifications:  stubNotificationsService{},
		TaxRates:       stubTaxRatesService{},
		Activity:       stubActivityService{},
		Uploads:        stubUploadsService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestPublicRoutesNeedNoToken(t *testing.T) {
	router := newTestRouter(testConfig(), nil)

	for _, path := range []string{
		"/health/live",
		"/health/ready",
		"/api/v1/public/products",
		"/api/v1/public/categories",
		"/api/v1/public/banners",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", path, resp.Code)
		}
	}
}

func TestAuthenticatedGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestAuthenticatedGroupAcceptsValidJWT(t *testing.T) {
	cfg := testConfig()
	captured := uuid.Nil
	svc := stubOrdersService{
		listFn: func(ctx context.Context, userID uuid.UUID, params pagination.Params, filters orders.ListFilters) (*orders.ListResult, error) {
			captured = userID
			return &orders.ListResult{}, nil
		},
	}
	router := newTestRouter(cfg, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token got %d", resp.Code)
	}
	if captured == uuid.Nil {
		t.Fatal("expected principal user id to reach the orders service")
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, nil)

	customer := httptest.NewRequest(http.MethodGet, "/api/admin/v1/products", nil)
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, customer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/products", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestAdminGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig(), nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/admin/v1/orders/"+uuid.NewString()+"/status", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPublicOrderTrackingRoute(t *testing.T) {
	router := newTestRouter(testConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/orders/"+uuid.NewString(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public order tracking got %d", resp.Code)
	}
}
