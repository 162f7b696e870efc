package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lumio/backend/internal/application/access"
	agencyapp "github.com/lumio/backend/internal/application/agency"
	billingapp "github.com/lumio/backend/internal/application/billing"
	editorapp "github.com/lumio/backend/internal/application/editor"
	funnelapp "github.com/lumio/backend/internal/application/funnel"
	identityapp "github.com/lumio/backend/internal/application/identity"
	notificationapp "github.com/lumio/backend/internal/application/notification"
	"github.com/lumio/backend/internal/infrastructure/auth"
	"github.com/lumio/backend/internal/infrastructure/billing"
	"github.com/lumio/backend/internal/infrastructure/cache"
	"github.com/lumio/backend/internal/infrastructure/config"
	"github.com/lumio/backend/internal/infrastructure/email"
	"github.com/lumio/backend/internal/infrastructure/event"
	"github.com/lumio/backend/internal/infrastructure/logger"
	"github.com/lumio/backend/internal/infrastructure/persistence"
	"github.com/lumio/backend/internal/infrastructure/scheduler"
	"github.com/lumio/backend/internal/infrastructure/schema"
	"github.com/lumio/backend/internal/infrastructure/storage"
	"github.com/lumio/backend/internal/infrastructure/telemetry"
	"github.com/lumio/backend/internal/interfaces/http/handler"
	"github.com/lumio/backend/internal/interfaces/http/middleware"
	"github.com/lumio/backend/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Lumio backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database, persistence.Options{
		Logger:   log,
		LogLevel: logger.GormLevel(cfg.Log.Level),
		Tracing:  cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
	})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Database.Driver == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	// Redis is optional; without it revocations and editor sessions live in
	// process memory
	var redisClient redis.UniversalClient
	if cfg.Redis.Host != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err), zap.String("addr", cfg.Redis.Addr()))
		}
		defer func() {
			if err := client.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		redisClient = client
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	var revoker auth.TokenRevoker
	if redisClient != nil {
		revoker = auth.NewRedisTokenRevoker(redisClient)
	} else {
		log.Warn("Redis not configured, token revocations are kept in memory")
		revoker = auth.NewInMemoryTokenRevoker()
	}
	sessionStore := cache.NewSessionStore(redisClient, log)

	stripeAdapter, err := billing.NewStripeAdapter(&billing.StripeConfig{
		SecretKey: cfg.Stripe.SecretKey,
		ClientID:  cfg.Stripe.ClientID,
		APIURL:    cfg.Stripe.APIURL,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize payment provider", zap.Error(err))
	}

	uploader := newUploader(ctx, cfg, log)
	sender := newSender(ctx, cfg, log)

	validator, err := schema.NewElementTreeValidator()
	if err != nil {
		log.Fatal("Failed to compile element schema", zap.Error(err))
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	permissionRepo := persistence.NewGormPermissionRepository(db.DB)
	invitationRepo := persistence.NewGormInvitationRepository(db.DB)
	agencyRepo := persistence.NewGormAgencyRepository(db.DB)
	subAccountRepo := persistence.NewGormSubAccountRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	funnelRepo := persistence.NewGormFunnelRepository(db.DB)
	pageRepo := persistence.NewGormPageRepository(db.DB)

	eventBus := event.NewAsyncEventBus(log)
	eventBus.Subscribe(event.NewLogHandler(log))
	eventBus.Subscribe(identityapp.NewInvitationMailer(agencyRepo, sender, cfg.App.BaseURL+"agency", log))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	// Application services
	activity := notificationapp.NewService(notificationRepo, userRepo, subAccountRepo, log)
	users := identityapp.NewUserService(identityapp.UserServiceDeps{
		Users:       userRepo,
		Permissions: permissionRepo,
		Agencies:    agencyRepo,
		SubAccounts: subAccountRepo,
		Activity:    activity,
		Revoker:     revoker,
		RevokeTTL:   cfg.JWT.RefreshTokenExpiration,
		Events:      eventBus,
	}, log)
	authService := identityapp.NewAuthService(userRepo, jwtService, revoker, eventBus, log)
	invitations := identityapp.NewInvitationService(invitationRepo, userRepo, activity, eventBus, cfg.Invitation.TTL, log)
	billingService := billingapp.NewService(stripeAdapter, cfg.Billing.ProductID, log)
	launchpad := billingapp.NewLaunchpadService(agencyRepo, subAccountRepo, userRepo, stripeAdapter,
		billingapp.LaunchpadConfig{ClientID: cfg.Stripe.ClientID, BaseURL: cfg.App.BaseURL}, eventBus, log)
	agencies := agencyapp.NewService(agencyapp.Deps{
		Agencies:    agencyRepo,
		SubAccounts: subAccountRepo,
		Users:       userRepo,
		Permissions: permissionRepo,
		Customers:   billingService,
		Owners:      users,
		Activity:    activity,
		Events:      eventBus,
	}, log)
	funnels := funnelapp.NewService(funnelRepo, pageRepo, validator, activity, log)
	sessions := editorapp.NewSessionService(funnels, sessionStore, validator,
		editorapp.SessionConfig{TTL: cfg.Editor.SessionTTL, HistoryLimit: cfg.Editor.HistoryLimit}, log)
	gate := access.NewSubAccountGate(invitations, userRepo, subAccountRepo, activity, log)

	jobs := scheduler.New(scheduler.DefaultConfig(), log)
	if cfg.Invitation.TTL > 0 && cfg.Invitation.ExpirySchedule != "" {
		err := jobs.Register("expire-invitations", cfg.Invitation.ExpirySchedule, func(ctx context.Context) error {
			n, err := invitations.ExpireStale(ctx)
			if n > 0 {
				log.Info("Expired stale invitations", zap.Int("count", n))
			}
			return err
		})
		if err != nil {
			log.Fatal("Failed to register invitation expiry job", zap.Error(err))
		}
	}
	if sweeper, ok := sessionStore.(cache.Sweeper); ok {
		if err := jobs.Register("sweep-editor-sessions", "@every 10m", cache.SweepJob(sweeper, log)); err != nil {
			log.Fatal("Failed to register editor session sweep job", zap.Error(err))
		}
	}
	jobs.Start()

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tp.IsEnabled(),
	}))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsConfig(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	guards := router.Guards{
		Auth: middleware.JWTAuthMiddleware(jwtService, authService, log),
		Gate: middleware.SubAccountGate(gate, log),
	}
	var limiters []*middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		general := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.IdleExpiry)
		credentials := middleware.NewRateLimiter(cfg.RateLimit.AuthRPS, cfg.RateLimit.AuthBurst, cfg.RateLimit.IdleExpiry)
		limiters = append(limiters, general, credentials)
		engine.Use(middleware.RateLimit(general))
		guards.AuthLimit = middleware.RateLimit(credentials)
	}

	router.Register(engine, router.Handlers{
		Auth:       handler.NewAuthHandler(authService, users),
		Agency:     handler.NewAgencyHandler(agencies, users, invitations, activity, launchpad),
		Team:       handler.NewTeamHandler(users, invitations),
		Billing:    handler.NewBillingHandler(billingService, launchpad, cfg.App.BaseURL),
		Upload:     handler.NewUploadHandler(agencyapp.NewUploadService(uploader, log)),
		SubAccount: handler.NewSubAccountHandler(agencies, launchpad),
		Funnel:     handler.NewFunnelHandler(funnels),
		Editor:     handler.NewEditorHandler(sessions),
		Site:       handler.NewSiteHandler(funnels),
		System:     handler.NewSystemHandler(version, healthChecks(db, redisClient)),
	}, guards)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	for _, l := range limiters {
		l.Stop()
	}
	if err := jobs.Stop(shutdownCtx); err != nil {
		log.Error("Scheduler did not stop cleanly", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Event bus did not drain", zap.Error(err))
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush traces", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newUploader presigns against S3 when a bucket is configured
func newUploader(ctx context.Context, cfg *config.Config, log *zap.Logger) storage.Uploader {
	if cfg.Storage.Bucket == "" {
		base := cfg.Storage.PublicBaseURL
		if base == "" {
			base = cfg.App.BaseURL + "uploads"
		}
		log.Warn("Storage bucket not configured, upload targets point at the local base URL", zap.String("base_url", base))
		return storage.NewLocalStorage(base, cfg.Storage.PresignExpiry)
	}
	s3, err := storage.NewS3Storage(ctx, &cfg.Storage,
		storage.WithLogger(log),
		storage.WithPresignExpiry(cfg.Storage.PresignExpiry),
	)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	return s3
}

func newSender(ctx context.Context, cfg *config.Config, log *zap.Logger) email.Sender {
	if !cfg.Email.Enabled {
		log.Warn("Email disabled, invitation mail is logged instead of sent")
		return email.NewLogSender(log)
	}
	sender, err := email.NewSESSender(ctx, cfg.Email, log)
	if err != nil {
		log.Fatal("Failed to initialize email sender", zap.Error(err))
	}
	return sender
}

func corsConfig(cfg config.HTTPConfig) middleware.CORSConfig {
	c := middleware.DefaultCORSConfig()
	c.AllowOrigins = cfg.CORSAllowOrigins
	if len(cfg.CORSAllowMethods) > 0 {
		c.AllowMethods = cfg.CORSAllowMethods
	}
	if len(cfg.CORSAllowHeaders) > 0 {
		c.AllowHeaders = cfg.CORSAllowHeaders
	}
	return c
}

func healthChecks(db *persistence.Database, client redis.UniversalClient) map[string]handler.HealthCheck {
	checks := map[string]handler.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if client != nil {
		checks["redis"] = func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}
	}
	return checks
}
