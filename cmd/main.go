package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/Payphone-Digital/hospital-registry/config"
	"github.com/Payphone-Digital/hospital-registry/internal/constants"
	"github.com/Payphone-Digital/hospital-registry/internal/handler"
	"github.com/Payphone-Digital/hospital-registry/internal/middleware"
	"github.com/Payphone-Digital/hospital-registry/internal/repository"
	"github.com/Payphone-Digital/hospital-registry/internal/router"
	"github.com/Payphone-Digital/hospital-registry/internal/service"
	"github.com/Payphone-Digital/hospital-registry/pkg/cache"
	"github.com/Payphone-Digital/hospital-registry/pkg/circuit"
	"github.com/Payphone-Digital/hospital-registry/pkg/database"
	"github.com/Payphone-Digital/hospital-registry/pkg/logger"
	"github.com/Payphone-Digital/hospital-registry/pkg/mailer"
	"github.com/Payphone-Digital/hospital-registry/pkg/metrics"
	"github.com/Payphone-Digital/hospital-registry/pkg/redis"
	"github.com/Payphone-Digital/hospital-registry/pkg/validation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize Zap logger
	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", constants.AppVersion),
	)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgresDB(config)
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	hasher := service.NewArgon2idHasher(config.Password)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	created, err := database.SeedAdmin(seedCtx, db, config.Seed, hasher.Hash)
	cancelSeed()
	switch {
	case errors.Is(err, database.ErrSeedNotConfigured):
		logger.GetLogger().Debug("Admin seed skipped, no credentials configured")
	case err != nil:
		// Don't fail - an admin can still be registered through the API
		logger.GetLogger().Error("Failed to seed admin", zap.Error(err))
	case created:
		logger.GetLogger().Info("Default admin seeded", zap.String("email", config.Seed.AdminEmail))
	}

	m := metrics.New()

	// Token revocation lives in Redis when enabled, in process memory otherwise
	var (
		redisClient *redis.Client
		revoker     service.Revoker
	)
	if config.Redis.Enabled {
		redisClient, err = redis.NewClient(config)
		if err != nil {
			logger.GetLogger().Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		revoker = redisClient
	} else {
		memory := cache.NewCache()
		defer memory.Close()
		revoker = memory
	}
	logger.GetLogger().Info("Token revocation store initialized",
		zap.Bool("redis", config.Redis.Enabled),
	)

	smtpBreaker := circuit.NewBreaker("smtp", circuit.DefaultConfig(), logger.GetLogger(),
		circuit.WithStateChange(func(name string, _, to circuit.State) {
			m.CircuitState(name, int(to))
		}),
	)
	sender := mailer.New(config.Mail, smtpBreaker)

	// Repositories
	adminRepo := repository.NewAdminRepository(db)
	hospitalRepo := repository.NewHospitalRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	notificationRepo := repository.NewEmailNotificationRepository(db)

	// Services
	notifications, err := service.NewNotificationService(notificationRepo, sender, service.NotificationOptions{
		AppName: config.App.Name,
		AppURL:  config.App.URL,
	}, m)
	if err != nil {
		logger.GetLogger().Fatal("Failed to initialize notifications", zap.Error(err))
	}

	jwtService, err := service.NewJWTService(config.JWT)
	if err != nil {
		logger.GetLogger().Fatal("Failed to initialize token service", zap.Error(err))
	}

	credentials := service.NewCredentialService(adminRepo, hospitalRepo, hasher, notifications, config.Database.QueryTimeout)
	approvals := service.NewApprovalService(hospitalRepo, auditRepo, notifications, m, config.Database.QueryTimeout)
	authorizer := service.NewAuthorizer(jwtService, revoker)
	authService := service.NewAuthService(credentials, jwtService, authorizer, m)
	statusService := service.NewStatusService(adminRepo, hospitalRepo)

	if err := validation.Register(); err != nil {
		logger.GetLogger().Fatal("Failed to register validators", zap.Error(err))
	}

	// Handlers
	adminHandler := handler.NewAdminHandler(credentials, authService, approvals)
	hospitalHandler := handler.NewHospitalHandler(credentials, authService, approvals)
	authHandler := handler.NewAuthHandler(authService)
	healthHandler := handler.NewHealthHandler(db, redisClient, smtpBreaker)
	statusHandler := handler.NewStatusHandler(statusService)

	r := router.NewRouter(
		adminHandler,
		hospitalHandler,
		authHandler,
		healthHandler,
		statusHandler,

		middleware.NewAuthMiddleware(authorizer),
		m,
		config,
	).SetupRoutes()

	srv := &http.Server{
		Addr:              ":" + config.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.GetLogger().Error("Server forced to shutdown", zap.Error(err))
	}

	// Emails queued by the last requests still get delivered
	if err := notifications.Wait(ctx); err != nil {
		logger.GetLogger().Warn("Pending notifications abandoned", zap.Error(err))
	}

	logger.GetLogger().Info("Server exited")
}
