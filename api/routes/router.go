package routes

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ekomart/ekomart-backend/api/controllers"
	"github.com/ekomart/ekomart-backend/api/middleware"
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
	"github.com/ekomart/ekomart-backend/pkg/auth/session"
	"github.com/ekomart/ekomart-backend/pkg/config"
	"github.com/ekomart/ekomart-backend/pkg/db"
	"github.com/ekomart/ekomart-backend/pkg/enums"
	"github.com/ekomart/ekomart-backend/pkg/logger"
	"github.com/ekomart/ekomart-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionManager sessionManager

	Auth          auth.Service
	Products      products.Service
	Categories    categories.Service
	Banners       banners.Service
	Cart          cart.Service
	Orders        orders.Service
	Wishlist      wishlist.Service
	Compare       compare.Service
	Chat          chat.Service
	Notifications notifications.Service
	TaxRates      taxrates.Service
	Activity      activity.Service
	Uploads       uploads.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	var cache redis.Pinger
	if deps.Redis != nil {
		cache = deps.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, cache))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.SessionManager, cfg.JWT, logg))
		r.Post("/logout", controllers.AuthLogout(deps.SessionManager, cfg.JWT, logg))
	})

	r.Route("/api/v1/public", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(deps.Products, logg))
		r.Get("/products/{slug}", controllers.ProductDetail(deps.Products, logg))
		r.Get("/categories", controllers.ListCategories(deps.Categories, logg))
		r.Get("/banners", controllers.ListBanners(deps.Banners, logg))
		r.Post("/banners/{bannerId}/click", controllers.BannerClick(deps.Banners, logg))
		r.Get("/orders/{orderId}", controllers.PublicOrderDetail(deps.Orders, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(deps.Orders, logg))
			r.Get("/stats", controllers.OrderStats(deps.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(deps.Orders, logg))
			r.Post("/checkout", controllers.Checkout(deps.Orders, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
			r.Get("/unread-count", controllers.NotificationUnreadCount(deps.Notifications, logg))
			r.Patch("/mark-all-read", controllers.MarkAllNotificationsRead(deps.Notifications, logg))
			r.Patch("/{notificationId}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
			r.Delete("/{notificationId}", controllers.DeleteNotification(deps.Notifications, logg))
			r.Delete("/", controllers.DeleteAllNotifications(deps.Notifications, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(deps.Cart, logg))
			r.Post("/items", controllers.AddCartItem(deps.Cart, logg))
			r.Patch("/items/{productId}", controllers.UpdateCartItem(deps.Cart, logg))
			r.Delete("/items/{productId}", controllers.RemoveCartItem(deps.Cart, logg))
			r.Delete("/", controllers.ClearCart(deps.Cart, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.ListWishlist(deps.Wishlist, logg))
			r.Post("/", controllers.AddWishlistItem(deps.Wishlist, logg))
			r.Delete("/{productId}", controllers.RemoveWishlistItem(deps.Wishlist, logg))
		})

		r.Route("/compare", func(r chi.Router) {
			r.Get("/", controllers.ListCompare(deps.Compare, logg))
			r.Post("/", controllers.AddCompareItem(deps.Compare, logg))
			r.Delete("/{productId}", controllers.RemoveCompareItem(deps.Compare, logg))
			r.Delete("/", controllers.ClearCompare(deps.Compare, logg))
		})

		r.Route("/chat/conversations", func(r chi.Router) {
			r.Post("/", controllers.CreateConversation(deps.Chat, logg))
			r.Get("/", controllers.ListConversations(deps.Chat, logg))
			r.Get("/{conversationId}", controllers.GetConversation(deps.Chat, logg))
			r.Post("/{conversationId}/messages", controllers.PostChatMessage(deps.Chat, logg))
			r.Post("/{conversationId}/mark-read", controllers.MarkConversationRead(deps.Chat, logg))
		})

		r.Post("/upload", controllers.Upload(deps.Uploads, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))
		r.Use(middleware.RequireRole(enums.UserRoleAdmin, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminListProducts(deps.Products, logg))
			r.Post("/", controllers.AdminCreateProduct(deps.Products, logg))
			r.Patch("/{productId}", controllers.AdminUpdateProduct(deps.Products, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(deps.Products, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.AdminListCategories(deps.Categories, logg))
			r.Post("/", controllers.AdminCreateCategory(deps.Categories, logg))
			r.Patch("/{categoryId}", controllers.AdminUpdateCategory(deps.Categories, logg))
			r.Delete("/{categoryId}", controllers.AdminDeleteCategory(deps.Categories, logg))
		})

		r.Route("/banners", func(r chi.Router) {
			r.Get("/", controllers.AdminListBanners(deps.Banners, logg))
			r.Post("/", controllers.AdminCreateBanner(deps.Banners, logg))
			r.Patch("/{bannerId}", controllers.AdminUpdateBanner(deps.Banners, logg))
			r.Delete("/{bannerId}", controllers.AdminDeleteBanner(deps.Banners, logg))
		})

		r.Route("/tax-rates", func(r chi.Router) {
			r.Get("/", controllers.AdminListTaxRates(deps.TaxRates, logg))
			r.Post("/", controllers.AdminCreateTaxRate(deps.TaxRates, logg))
			r.Get("/{taxRateId}", controllers.AdminGetTaxRate(deps.TaxRates, logg))
			r.Patch("/{taxRateId}", controllers.AdminUpdateTaxRate(deps.TaxRates, logg))
			r.Delete("/{taxRateId}", controllers.AdminDeleteTaxRate(deps.TaxRates, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(deps.Orders, logg))
			r.Patch("/{orderId}/status", controllers.AdminUpdateOrderStatus(deps.Orders, logg))
		})

		r.Route("/chat/conversations", func(r chi.Router) {
			r.Get("/", controllers.AdminListConversations(deps.Chat, logg))
			r.Get("/{conversationId}", controllers.GetConversation(deps.Chat, logg))
			r.Post("/{conversationId}/messages", controllers.PostChatMessage(deps.Chat, logg))
			r.Post("/{conversationId}/mark-read", controllers.MarkConversationRead(deps.Chat, logg))
			r.Post("/{conversationId}/close", controllers.CloseConversation(deps.Chat, logg))
		})

		r.Get("/activity-logs", controllers.AdminListActivityLogs(deps.Activity, logg))
	})

	if cfg.Uploads.Dir != "" {
		prefix := "/" + strings.Trim(cfg.Uploads.BaseURL, "/")
		fileServer := http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.Uploads.Dir)))
		r.Get(prefix+"/*", func(w http.ResponseWriter, req *http.Request) {
			fileServer.ServeHTTP(w, req)
		})
	}

	return r
}
