package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vitrinelabs/vitrine-backend/api/controllers"
	"github.com/vitrinelabs/vitrine-backend/api/middleware"
	authsvc "github.com/vitrinelabs/vitrine-backend/internal/auth"
	"github.com/vitrinelabs/vitrine-backend/internal/cart"
	"github.com/vitrinelabs/vitrine-backend/internal/catalog"
	checkoutsvc "github.com/vitrinelabs/vitrine-backend/internal/checkout"
	"github.com/vitrinelabs/vitrine-backend/internal/kardex"
	"github.com/vitrinelabs/vitrine-backend/internal/media"
	ordersvc "github.com/vitrinelabs/vitrine-backend/internal/orders"
	"github.com/vitrinelabs/vitrine-backend/internal/profiles"
	"github.com/vitrinelabs/vitrine-backend/internal/reports"
	"github.com/vitrinelabs/vitrine-backend/internal/reviews"
	"github.com/vitrinelabs/vitrine-backend/pkg/auth/session"
	"github.com/vitrinelabs/vitrine-backend/pkg/config"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
	"github.com/vitrinelabs/vitrine-backend/pkg/metrics"
)

// Services bundles everything the router mounts.
type Services struct {
	Auth     authsvc.Service
	Catalog  catalog.Service
	Cart     cart.Service
	Checkout checkoutsvc.Service
	Orders   ordersvc.Service
	Profiles profiles.Service
	Reviews  reviews.Service
	Kardex   kardex.Service
	Reports  reports.Service
	Media    media.Service
}

// HealthPingers are the dependencies the readiness probe checks, keyed by the
// name reported on failure.
type HealthPingers map[string]controllers.HealthPinger

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	httpMetrics *metrics.HTTPMetrics,
	sessionChecker session.AccessSessionChecker,
	pingers HealthPingers,
	rateStore middleware.RateLimiterStore,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if httpMetrics != nil {
		r.Use(httpMetrics.Middleware())
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pingers))
	})

	if httpMetrics != nil {
		r.Handle("/metrics", httpMetrics.Handler())
	}

	authLimit := middleware.NewAuthRateLimitPolicy(
		"auth", cfg.RateLimit.AuthWindow, cfg.RateLimit.AuthIPLimit, cfg.RateLimit.AuthEmailLimit)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(middleware.AuthRateLimit(authLimit, rateStore, logg))
		r.Post("/register", controllers.Register(svcs.Auth, logg))
		r.Post("/login", controllers.Login(svcs.Auth, logg))
		r.Post("/refresh", controllers.Refresh(svcs.Auth, logg))
		r.Post("/logout", controllers.Logout(svcs.Auth, logg))
	})

	// Storefront catalog reads are public.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(svcs.Catalog, logg))
		r.Get("/{productID}", controllers.GetProduct(svcs.Catalog, logg))
		r.Get("/{productID}/rating", controllers.GetProductRating(svcs.Reviews, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
			r.Post("/{productID}/reviews", controllers.RateProduct(svcs.Reviews, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(svcs.Cart, logg))
			r.Post("/items", controllers.AddCartItem(svcs.Cart, logg))
			r.Delete("/items/{productID}", controllers.RemoveCartItem(svcs.Cart, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/quote", controllers.QuoteCheckout(svcs.Checkout, logg))
			r.Post("/", controllers.ConfirmCheckout(svcs.Checkout, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListMyOrders(svcs.Orders, logg))
			r.Get("/{orderID}", controllers.GetOrder(svcs.Orders, logg))
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", controllers.GetProfile(svcs.Profiles, logg))
			r.Patch("/", controllers.UpdateProfile(svcs.Profiles, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Use(middleware.RequireRole("admin", logg))

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateProduct(svcs.Catalog, logg))
			r.Patch("/{productID}", controllers.AdminUpdateProduct(svcs.Catalog, logg))
			r.Post("/{productID}/restock", controllers.AdminRestockProduct(svcs.Catalog, logg))
		})

		r.Post("/media/products", controllers.AdminUploadProductImages(svcs.Media, cfg.Media, logg))
		r.Delete("/media/products", controllers.AdminDeleteProductImage(svcs.Media, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(svcs.Orders, logg))
			r.Get("/{orderID}", controllers.GetOrder(svcs.Orders, logg))
			r.Patch("/{orderID}/status", controllers.AdminUpdateOrderStatus(svcs.Orders, logg))
			r.Delete("/{orderID}", controllers.AdminDeleteOrder(svcs.Orders, logg))
		})

		r.Get("/kardex", controllers.AdminListStockMovements(svcs.Kardex, logg))
		r.Get("/kardex/{productID}", controllers.AdminProductStockHistory(svcs.Kardex, logg))

		r.Route("/reports", func(r chi.Router) {
			r.Get("/sales", controllers.AdminSalesReport(svcs.Reports, logg))
			r.Get("/dashboard", controllers.AdminDashboard(svcs.Reports, logg))
			r.Get("/best-seller", controllers.AdminBestSeller(svcs.Reports, logg))
			r.Get("/inventory", controllers.AdminInventoryValuation(svcs.Reports, logg))
		})

		r.Get("/users", controllers.AdminListUsers(svcs.Profiles, logg))
	})

	return r
}
