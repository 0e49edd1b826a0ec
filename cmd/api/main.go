package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/shopfront-backend/api/controllers"
	"github.com/angelmondragon/shopfront-backend/api/responses"
	"github.com/angelmondragon/shopfront-backend/api/routes"
	"github.com/angelmondragon/shopfront-backend/internal/address"
	"github.com/angelmondragon/shopfront-backend/internal/auth"
	"github.com/angelmondragon/shopfront-backend/internal/brands"
	"github.com/angelmondragon/shopfront-backend/internal/cart"
	"github.com/angelmondragon/shopfront-backend/internal/categories"
	"github.com/angelmondragon/shopfront-backend/internal/checkout"
	"github.com/angelmondragon/shopfront-backend/internal/coupons"
	"github.com/angelmondragon/shopfront-backend/internal/orders"
	product "github.com/angelmondragon/shopfront-backend/internal/products"
	"github.com/angelmondragon/shopfront-backend/internal/reviews"
	"github.com/angelmondragon/shopfront-backend/internal/subcategories"
	"github.com/angelmondragon/shopfront-backend/internal/users"
	stripewebhook "github.com/angelmondragon/shopfront-backend/internal/webhooks/stripe"
	"github.com/angelmondragon/shopfront-backend/internal/wishlist"
	"github.com/angelmondragon/shopfront-backend/pkg/config"
	"github.com/angelmondragon/shopfront-backend/pkg/db"
	"github.com/angelmondragon/shopfront-backend/pkg/env"
	"github.com/angelmondragon/shopfront-backend/pkg/logger"
	"github.com/angelmondragon/shopfront-backend/pkg/mail"
	"github.com/angelmondragon/shopfront-backend/pkg/metrics"
	"github.com/angelmondragon/shopfront-backend/pkg/migrate"
	"github.com/angelmondragon/shopfront-backend/pkg/redis"
	pkgstripe "github.com/angelmondragon/shopfront-backend/pkg/stripe"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})
	responses.ExposeStack(!cfg.App.IsProd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, db.Options{UseSQLite: cfg.FeatureFlags.UseSQLite}, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	requireResource(ctx, logg, "dev migrations", migrate.MaybeRunDev(ctx, cfg, logg, dbClient))

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	stripeClient, err := pkgstripe.NewClient(ctx, cfg.Stripe, logg)
	requireResource(ctx, logg, "stripe", err)

	mailer, err := mail.NewSendgridSender(cfg.Sendgrid, logg)
	requireResource(ctx, logg, "sendgrid", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	baseURL := cfg.App.PublicBaseURL()
	gormDB := dbClient.DB()

	userRepo := users.NewRepository(gormDB)
	productRepo := product.NewRepository(gormDB)
	cartRepo := cart.NewRepository(gormDB)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		Mailer:         mailer,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		ResetConfig:    cfg.PasswordReset,
		BaseURL:        baseURL,
	})
	requireResource(ctx, logg, "auth service", err)

	usersService, err := users.NewService(users.ServiceParams{
		Repo:           userRepo,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		BaseURL:        baseURL,
	})
	requireResource(ctx, logg, "users service", err)

	categoriesService, err := categories.NewService(categories.ServiceParams{
		Repo:    categories.NewRepository(gormDB),
		BaseURL: baseURL,
	})
	requireResource(ctx, logg, "categories service", err)

	subcategoriesService, err := subcategories.NewService(subcategories.ServiceParams{
		Repo:       subcategories.NewRepository(gormDB),
		Categories: categoriesService,
	})
	requireResource(ctx, logg, "subcategories service", err)

	brandsService, err := brands.NewService(brands.ServiceParams{
		Repo:    brands.NewRepository(gormDB),
		BaseURL: baseURL,
	})
	requireResource(ctx, logg, "brands service", err)

	productsService, err := product.NewService(product.ServiceParams{
		Repo:          productRepo,
		Categories:    categoriesService,
		Subcategories: subcategoriesService,
		Brands:        brandsService,
		BaseURL:       baseURL,
	})
	requireResource(ctx, logg, "products service", err)

	reviewsService, err := reviews.NewService(reviews.ServiceParams{
		Repo:     reviews.NewRepository(gormDB),
		Products: productRepo,
	})
	requireResource(ctx, logg, "reviews service", err)

	couponsService, err := coupons.NewService(coupons.ServiceParams{
		Repo: coupons.NewRepository(gormDB),
	})
	requireResource(ctx, logg, "coupons service", err)

	cartService, err := cart.NewService(cart.ServiceParams{
		Repo:     cartRepo,
		Tx:       dbClient,
		Locker:   redisClient,
		Products: productRepo,
		Coupons:  couponsService,
		LockTTL:  cfg.Cart.LockTTL,
	})
	requireResource(ctx, logg, "cart service", err)

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:      orders.NewRepository(gormDB),
		Tx:        dbClient,
		Carts:     cartRepo,
		Inventory: productRepo,
		Users:     userRepo,
		Metrics:   metrics.NewOrderMetrics(registry),
		Logger:    logg,
		BaseURL:   baseURL,
	})
	requireResource(ctx, logg, "orders service", err)

	checkoutDefaults := stripeClient.Checkout()
	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Carts:      cartRepo,
		Sessions:   pkgstripe.NewCheckoutSessionClient(stripeClient),
		Currency:   checkoutDefaults.Currency,
		SuccessURL: checkoutDefaults.SuccessURL,
		CancelURL:  checkoutDefaults.CancelURL,
		BaseURL:    baseURL,
	})
	requireResource(ctx, logg, "checkout service", err)

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		Repo:     wishlist.NewRepository(gormDB),
		Products: productRepo,
		BaseURL:  baseURL,
	})
	requireResource(ctx, logg, "wishlist service", err)

	addressService, err := address.NewService(address.NewRepository(gormDB))
	requireResource(ctx, logg, "address service", err)

	webhookService, err := stripewebhook.NewService(stripewebhook.ServiceParams{Orders: ordersService})
	requireResource(ctx, logg, "stripe webhook service", err)

	webhookGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, cfg.AuthRateLimit.WebhookIdempotency)
	requireResource(ctx, logg, "stripe webhook guard", err)

	handler := routes.NewRouter(cfg, logg, routes.Services{
		Auth:          authService,
		Users:         usersService,
		Categories:    categoriesService,
		Subcategories: subcategoriesService,
		Brands:        brandsService,
		Products:      productsService,
		Reviews:       reviewsService,
		Coupons:       couponsService,
		Cart:          cartService,
		Orders:        ordersService,
		Checkout:      checkoutService,
		Wishlist:      wishlistService,
		Address:       addressService,
		StripeWebhook: webhookService,
	}, routes.Infra{
		RateLimiter:      redisClient,
		IdempotencyStore: redisClient,
		StripeSigner:     stripeClient,
		WebhookGuard:     webhookGuard,
		HTTPMetrics:      metrics.NewHTTPMetrics(registry),
		Gatherer:         registry,
		Readiness: map[string]controllers.Pinger{
			"database": dbClient,
			"redis":    redisClient,
		},
	})

	addr := ":" + env.Get("PORT", cfg.App.Port)
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(serverCtx, "starting api server")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(serverCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(serverCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(serverCtx, "graceful shutdown failed", err)
		}
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "resource not working: "+resource, err)
	os.Exit(1)
}
