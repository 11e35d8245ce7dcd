package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/vitrinelabs/vitrine-backend/api/routes"
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
	"github.com/vitrinelabs/vitrine-backend/internal/users"
	"github.com/vitrinelabs/vitrine-backend/pkg/auth/session"
	"github.com/vitrinelabs/vitrine-backend/pkg/config"
	"github.com/vitrinelabs/vitrine-backend/pkg/db"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
	"github.com/vitrinelabs/vitrine-backend/pkg/metrics"
	"github.com/vitrinelabs/vitrine-backend/pkg/migrate"
	"github.com/vitrinelabs/vitrine-backend/pkg/redis"
	"github.com/vitrinelabs/vitrine-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "vitrine-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "vitrine-api",
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

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap object storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing object storage", err)
		}
	}()

	gormDB := dbClient.DB()
	userRepo := users.NewRepository(gormDB)

	kardexService, err := kardex.NewService(kardex.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create kardex service", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(gormDB)
	settler, err := kardex.NewSettler(catalogRepo, kardexService)
	if err != nil {
		logg.Error(context.Background(), "failed to create stock settler", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalogRepo, settler)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.NewStore(), catalogService)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	profileService, err := profiles.NewService(userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create profile service", err)
		os.Exit(1)
	}

	orderRepo := ordersvc.NewRepository(gormDB)
	orderService, err := ordersvc.NewService(orderRepo, settler)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(cfg.Checkout, cartService, profileService, orderRepo, settler)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	reportService, err := reports.NewService(reports.NewRepository(gormDB), catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create report service", err)
		os.Exit(1)
	}

	reviewService, err := reviews.NewService(reviews.NewRepository(gormDB), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create review service", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	mediaService, err := media.NewService(gcsClient, cfg.Media, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create media service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics()

	router := routes.NewRouter(cfg, logg, httpMetrics, sessionManager, routes.HealthPingers{
		"database": dbClient,
		"redis":    redisClient,
		"storage":  gcsClient,
	}, redisClient, routes.Services{
		Auth:     authService,
		Catalog:  catalogService,
		Cart:     cartService,
		Checkout: checkoutService,
		Orders:   orderService,
		Profiles: profileService,
		Reviews:  reviewService,
		Kardex:   kardexService,
		Reports:  reportService,
		Media:    mediaService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
