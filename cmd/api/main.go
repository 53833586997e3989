package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/ekomart/ekomart-backend/api/routes"
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
	"github.com/ekomart/ekomart-backend/internal/users"
	"github.com/ekomart/ekomart-backend/internal/wishlist"
	"github.com/ekomart/ekomart-backend/pkg/auth/session"
	"github.com/ekomart/ekomart-backend/pkg/config"
	"github.com/ekomart/ekomart-backend/pkg/db"
	"github.com/ekomart/ekomart-backend/pkg/logger"
	"github.com/ekomart/ekomart-backend/pkg/migrate"
	"github.com/ekomart/ekomart-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gdb := dbClient.DB()

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(gdb),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	exitOnErr(logg, "failed to create auth service", err)

	activityService, err := activity.NewService(activity.NewRepository(gdb))
	exitOnErr(logg, "failed to create activity service", err)

	notificationsService, err := notifications.NewService(notifications.NewRepository(gdb))
	exitOnErr(logg, "failed to create notifications service", err)

	productsService, err := products.NewService(products.ServiceParams{
		Repo:     products.NewRepository(gdb),
		Activity: activityService,
	})
	exitOnErr(logg, "failed to create products service", err)

	categoriesService, err := categories.NewService(categories.ServiceParams{
		Repo:     categories.NewRepository(gdb),
		Activity: activityService,
	})
	exitOnErr(logg, "failed to create categories service", err)

	bannersService, err := banners.NewService(banners.ServiceParams{
		Repo:     banners.NewRepository(gdb),
		Activity: activityService,
	})
	exitOnErr(logg, "failed to create banners service", err)

	taxRatesService, err := taxrates.NewService(taxrates.NewRepository(gdb))
	exitOnErr(logg, "failed to create tax rates service", err)

	cartRepo := cart.NewRepository(gdb)
	cartService, err := cart.NewService(cartRepo, productsService)
	exitOnErr(logg, "failed to create cart service", err)

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		Repo:     wishlist.NewRepository(gdb),
		Products: productsService,
	})
	exitOnErr(logg, "failed to create wishlist service", err)

	compareService, err := compare.NewService(compare.ServiceParams{
		Store:    redisClient,
		Keys:     redisClient,
		Products: productsService,
	})
	exitOnErr(logg, "failed to create compare service", err)

	chatService, err := chat.NewService(chat.ServiceParams{
		Repo:          chat.NewRepository(gdb),
		Notifications: notificationsService,
		Tx:            dbClient,
	})
	exitOnErr(logg, "failed to create chat service", err)

	shippingFee, err := decimal.NewFromString(cfg.Orders.ShippingFee)
	exitOnErr(logg, "invalid shipping fee configuration", err)

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:          orders.NewRepository(gdb),
		CartRepo:      cartRepo,
		Products:      productsService,
		Tax:           taxRatesService,
		Notifications: notificationsService,
		Activity:      activityService,
		Tx:            dbClient,
		ShippingFee:   shippingFee,
	})
	exitOnErr(logg, "failed to create orders service", err)

	uploadsService, err := uploads.NewService(cfg.Uploads)
	exitOnErr(logg, "failed to create uploads service", err)

	router := routes.NewRouter(routes.Deps{
		Config:         cfg,
		Logger:         logg,
		DB:             dbClient,
		Redis:          redisClient,
		SessionManager: sessionManager,
		Auth:           authService,
		Products:       productsService,
		Categories:     categoriesService,
		Banners:        bannersService,
		Cart:           cartService,
		Orders:         ordersService,
		Wishlist:       wishlistService,
		Compare:        compareService,
		Chat:           chatService,
		Notifications:  notificationsService,
		TaxRates:       taxRatesService,
		Activity:       activityService,
		Uploads:        uploadsService,
	})

	server := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "port": cfg.App.Port})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	logg.Info(ctx, "api server listening")

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "api server shutdown error", err)
		}
	}

	logg.Info(context.Background(), "api server shut down gracefully")
}

func exitOnErr(logg *logger.Logger, msg string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), msg, err)
	os.Exit(1)
}
