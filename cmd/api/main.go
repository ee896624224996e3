// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/bazaar-api/internal/admin"
	"github.com/carterperez-dev/bazaar-api/internal/auth"
	"github.com/carterperez-dev/bazaar-api/internal/cache"
	"github.com/carterperez-dev/bazaar-api/internal/config"
	"github.com/carterperez-dev/bazaar-api/internal/contact"
	"github.com/carterperez-dev/bazaar-api/internal/core"
	"github.com/carterperez-dev/bazaar-api/internal/health"
	"github.com/carterperez-dev/bazaar-api/internal/layout"
	"github.com/carterperez-dev/bazaar-api/internal/mailer"
	"github.com/carterperez-dev/bazaar-api/internal/middleware"
	"github.com/carterperez-dev/bazaar-api/internal/notification"
	"github.com/carterperez-dev/bazaar-api/internal/product"
	"github.com/carterperez-dev/bazaar-api/internal/server"
	"github.com/carterperez-dev/bazaar-api/internal/storage"
	"github.com/carterperez-dev/bazaar-api/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	blobStore, err := storage.NewMinioStorage(cfg.Storage)
	if err != nil {
		return err
	}
	if err := blobStore.EnsureBucket(ctx); err != nil {
		return err
	}
	logger.Info("object storage ready",
		"endpoint", cfg.Storage.Endpoint,
		"bucket", cfg.Storage.Bucket,
	)

	mail, err := mailer.NewSMTPSender(cfg.SMTP)
	if err != nil {
		return err
	}

	appCache := cache.New(redis.Client)
	sessions := auth.NewSessionStore(appCache, cfg.JWT.RefreshTokenExpire)
	challenges := auth.NewChallengeManager(cfg.Challenge)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(
		userRepo,
		sessions,
		challenges,
		mail,
		blobStore,
		cfg.SMTP.StaffMailbox,
	)
	userHandler := user.NewHandler(userSvc)

	productRepo := product.NewRepository(db.DB)
	productSvc := product.NewService(
		productRepo,
		appCache,
		blobStore,
		mail,
		userSvc,
		cfg.SMTP.StaffMailbox,
	)
	productHandler := product.NewHandler(productSvc)

	userSvc.SetLoveCounter(productSvc)

	authSvc := auth.NewService(
		userSvc,
		jwtManager,
		challenges,
		sessions,
		mail,
		cfg.JWT,
	)
	authHandler := auth.NewHandler(authSvc, cfg.JWT)

	layoutRepo := layout.NewRepository(db.DB)
	layoutSvc := layout.NewService(layoutRepo, appCache, blobStore)
	layoutHandler := layout.NewHandler(layoutSvc)

	notificationRepo := notification.NewRepository(db.DB)
	notificationSvc := notification.NewService(notificationRepo)
	notificationHandler := notification.NewHandler(notificationSvc)

	sweeper := notification.NewSweeper(notificationRepo, cfg.Sweep, logger)
	sweeper.Start(ctx)

	contactSvc := contact.NewService(
		mail,
		notificationSvc,
		cfg.SMTP.StaffMailbox,
	)
	contactHandler := contact.NewHandler(contactSvc)

	healthHandler := health.NewHandler(db, redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.App.Environment == "production"))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	authenticator := middleware.Authenticator(jwtManager)
	staffOnly := middleware.RequireRole(user.RoleAdmin, user.RoleMaster)
	masterOnly := middleware.RequireRole(user.RoleMaster)

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterRoutes(r, authenticator)
		productHandler.RegisterRoutes(r, authenticator)
		layoutHandler.RegisterRoutes(r)
		contactHandler.RegisterRoutes(r)

		userHandler.RegisterAdminRoutes(r, authenticator, staffOnly, masterOnly)
		productHandler.RegisterAdminRoutes(r, authenticator, staffOnly)
		layoutHandler.RegisterAdminRoutes(r, authenticator, staffOnly, masterOnly)
		notificationHandler.RegisterAdminRoutes(r, authenticator, staffOnly)
		adminHandler.RegisterRoutes(r, authenticator, staffOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	sweeper.Wait()

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
