package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/shopfront-backend/api/controllers"
	webhookcontrollers "github.com/angelmondragon/shopfront-backend/api/controllers/webhooks"
	"github.com/angelmondragon/shopfront-backend/api/middleware"
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
	"github.com/angelmondragon/shopfront-backend/internal/wishlist"
	"github.com/angelmondragon/shopfront-backend/pkg/config"
	"github.com/angelmondragon/shopfront-backend/pkg/enums"
	"github.com/angelmondragon/shopfront-backend/pkg/logger"
	"github.com/angelmondragon/shopfront-backend/pkg/metrics"
	pkgredis "github.com/angelmondragon/shopfront-backend/pkg/redis"
)

// Services groups the domain services mounted by the router.
type Services struct {
	Auth          auth.Service
	Users         users.Service
	Categories    categories.Service
	Subcategories subcategories.Service
	Brands        brands.Service
	Products      product.Service
	Reviews       reviews.Service
	Coupons       coupons.Service
	Cart          cart.Service
	Orders        orders.Service
	Checkout      checkout.Service
	Wishlist      wishlist.Service
	Address       address.Service
	StripeWebhook webhookcontrollers.StripeWebhookService
}

// Infra groups the shared infrastructure the middleware chain relies on.
type Infra struct {
	RateLimiter      middleware.RateLimiter
	IdempotencyStore pkgredis.IdempotencyStore
	StripeSigner     webhookcontrollers.SigningSecretProvider
	WebhookGuard     webhookcontrollers.EventGuard
	HTTPMetrics      *metrics.HTTPMetrics
	Gatherer         prometheus.Gatherer
	Readiness        map[string]controllers.Pinger
}

func NewRouter(cfg *config.Config, logg *logger.Logger, svc Services, infra Infra) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.Logging(logg),
	)
	if infra.HTTPMetrics != nil {
		r.Use(middleware.Metrics(infra.HTTPMetrics))
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupEmailLimit,
	)
	resetPolicy := middleware.NewAuthRateLimitPolicy(
		"reset",
		cfg.AuthRateLimit.ResetWindow,
		cfg.AuthRateLimit.ResetIPLimit,
		cfg.AuthRateLimit.ResetEmailLimit,
	)

	authn := middleware.Authenticate(svc.Auth, logg)
	admin := middleware.RequireRoles(logg, enums.RoleAdmin)
	staff := middleware.RequireRoles(logg, enums.RoleAdmin, enums.RoleManager)
	customer := middleware.RequireRoles(logg, enums.RoleUser)
	anyone := middleware.RequireRoles(logg, enums.RoleAdmin, enums.RoleManager, enums.RoleUser)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, infra.Readiness, logg))
	})
	if infra.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(infra.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Post("/webhook-checkout", webhookcontrollers.StripeWebhook(svc.StripeWebhook, infra.StripeSigner, infra.WebhookGuard, logg))

	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(signupPolicy, infra.RateLimiter, logg)).Post("/signup", controllers.AuthSignup(svc.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, infra.RateLimiter, logg)).Post("/login", controllers.AuthLogin(svc.Auth, logg))
		r.With(middleware.AuthRateLimit(resetPolicy, infra.RateLimiter, logg)).Post("/forgetPassword", controllers.AuthForgetPassword(svc.Auth, logg))
		r.Post("/verifyPasswordResetCode", controllers.AuthVerifyResetCode(svc.Auth, logg))
		r.Put("/resetPassword", controllers.AuthResetPassword(svc.Auth, logg))
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(authn)
		r.Get("/getMe", controllers.UserGetMe(svc.Users, logg))
		r.Put("/updateMyPassword", controllers.UserUpdateMyPassword(svc.Users, logg))
		r.Put("/updateMe", controllers.UserUpdateMe(svc.Users, logg))
		r.Put("/deactivateMe", controllers.UserDeactivateMe(svc.Users, logg))

		r.Group(func(r chi.Router) {
			r.Use(staff)
			r.Get("/", controllers.UserList(svc.Users, logg))
			r.Post("/", controllers.UserCreate(svc.Users, logg))
			r.Put("/changePassword/{id}", controllers.UserChangePassword(svc.Users, logg))
			r.Get("/{id}", controllers.UserGet(svc.Users, logg))
			r.Put("/{id}", controllers.UserUpdate(svc.Users, logg))
			r.Delete("/{id}", controllers.UserDelete(svc.Users, logg))
		})
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", controllers.CategoryList(svc.Categories, logg))
		r.Get("/{id}", controllers.CategoryGet(svc.Categories, logg))
		r.Get("/{id}/subcategories", controllers.SubCategoryList(svc.Subcategories, "id", logg))
		r.With(authn, staff).Post("/", controllers.CategoryCreate(svc.Categories, logg))
		r.With(authn, staff).Put("/{id}", controllers.CategoryUpdate(svc.Categories, logg))
		r.With(authn, admin).Delete("/{id}", controllers.CategoryDelete(svc.Categories, logg))
		r.With(authn, staff).Post("/{id}/subcategories", controllers.SubCategoryCreate(svc.Subcategories, "id", logg))
	})

	r.Route("/subcategories", func(r chi.Router) {
		r.Get("/", controllers.SubCategoryList(svc.Subcategories, "", logg))
		r.Get("/{id}", controllers.SubCategoryGet(svc.Subcategories, logg))
		r.With(authn, staff).Post("/", controllers.SubCategoryCreate(svc.Subcategories, "", logg))
		r.With(authn, staff).Put("/{id}", controllers.SubCategoryUpdate(svc.Subcategories, logg))
		r.With(authn, admin).Delete("/{id}", controllers.SubCategoryDelete(svc.Subcategories, logg))
	})

	r.Route("/brands", func(r chi.Router) {
		r.Get("/", controllers.BrandList(svc.Brands, logg))
		r.Get("/{id}", controllers.BrandGet(svc.Brands, logg))
		r.With(authn, staff).Post("/", controllers.BrandCreate(svc.Brands, logg))
		r.With(authn, staff).Put("/{id}", controllers.BrandUpdate(svc.Brands, logg))
		r.With(authn, admin).Delete("/{id}", controllers.BrandDelete(svc.Brands, logg))
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(svc.Products, logg))
		r.Get("/{id}", controllers.ProductGet(svc.Products, logg))
		r.Get("/{id}/reviews", controllers.ReviewList(svc.Reviews, "id", logg))
		r.With(authn, staff).Post("/", controllers.ProductCreate(svc.Products, logg))
		r.With(authn, staff).Put("/{id}", controllers.ProductUpdate(svc.Products, logg))
		r.With(authn, admin).Delete("/{id}", controllers.ProductDelete(svc.Products, logg))
		r.With(authn, customer).Post("/{id}/reviews", controllers.ReviewCreate(svc.Reviews, "id", logg))
	})

	r.Route("/reviews", func(r chi.Router) {
		r.Get("/", controllers.ReviewList(svc.Reviews, "", logg))
		r.Get("/{id}", controllers.ReviewGet(svc.Reviews, logg))
		r.With(authn, customer).Post("/", controllers.ReviewCreate(svc.Reviews, "", logg))
		r.With(authn, customer).Put("/{id}", controllers.ReviewUpdate(svc.Reviews, logg))
		r.With(authn, anyone).Delete("/{id}", controllers.ReviewDelete(svc.Reviews, logg))
	})

	r.Route("/coupons", func(r chi.Router) {
		r.Use(authn, staff)
		r.Get("/", controllers.CouponList(svc.Coupons, logg))
		r.Post("/", controllers.CouponCreate(svc.Coupons, logg))
		r.Get("/{id}", controllers.CouponGet(svc.Coupons, logg))
		r.Put("/{id}", controllers.CouponUpdate(svc.Coupons, logg))
		r.Delete("/{id}", controllers.CouponDelete(svc.Coupons, logg))
	})

	r.Route("/carts", func(r chi.Router) {
		r.Use(authn)
		r.With(anyone).Get("/applyCoupon", controllers.CartApplyCoupon(svc.Cart, logg))
		r.With(staff).Get("/all", controllers.CartListAll(svc.Cart, logg))
		r.With(staff).Get("/{id}", controllers.CartGetByID(svc.Cart, logg))

		r.Group(func(r chi.Router) {
			r.Use(customer)
			r.Post("/", controllers.CartAddItem(svc.Cart, logg))
			r.Get("/", controllers.CartGetMine(svc.Cart, logg))
			r.Delete("/", controllers.CartClear(svc.Cart, logg))
			r.Put("/{id}", controllers.CartUpdateQuantity(svc.Cart, logg))
			r.Delete("/{id}", controllers.CartRemoveItem(svc.Cart, logg))
		})
	})

	r.Route("/orders", func(r chi.Router) {
		r.Use(authn)
		r.With(customer).Get("/checkout-session/{cartId}", controllers.OrderCheckoutSession(svc.Checkout, logg))
		r.With(customer).Get("/", controllers.OrderListMine(svc.Orders, logg))
		r.With(staff).Get("/all", controllers.OrderListAll(svc.Orders, logg))
		r.With(customer, middleware.Idempotency(infra.IdempotencyStore, logg)).Post("/{id}", controllers.OrderCreateCash(svc.Orders, logg))
		r.With(staff).Get("/{id}", controllers.OrderGet(svc.Orders, logg))
		r.With(anyone).Delete("/{id}", controllers.OrderDelete(svc.Orders, logg))
		r.With(staff).Put("/{id}/paid", controllers.OrderMarkPaid(svc.Orders, logg))
		r.With(staff).Put("/{id}/delivered", controllers.OrderMarkDelivered(svc.Orders, logg))
	})

	r.Route("/wishList", func(r chi.Router) {
		r.Use(authn, customer)
		r.Post("/", controllers.WishlistAdd(svc.Wishlist, logg))
		r.Get("/", controllers.WishlistList(svc.Wishlist, logg))
		r.Delete("/{productId}", controllers.WishlistRemove(svc.Wishlist, logg))
	})

	r.Route("/address", func(r chi.Router) {
		r.Use(authn, customer)
		r.Post("/", controllers.AddressAdd(svc.Address, logg))
		r.Get("/", controllers.AddressList(svc.Address, logg))
		r.Delete("/{addressId}", controllers.AddressRemove(svc.Address, logg))
	})

	return r
}
