package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"clubhub/internal/adapters/cache"
	"clubhub/internal/adapters/events"
	"clubhub/internal/adapters/http/middleware"
	"clubhub/internal/adapters/http/routes"
	"clubhub/internal/adapters/metrics"
	"clubhub/internal/adapters/persistence/models"
	"clubhub/internal/adapters/persistence/repositories"
	"clubhub/internal/config"
	"clubhub/internal/core/services"
	"clubhub/internal/pkg/jwt"
	"clubhub/internal/pkg/logger"
	"clubhub/internal/pkg/password"

	_ "clubhub/docs" // Swagger docs
)

// @title clubhub API
// @version 1.0
// @description Campus club recruitment: identity, authorization and workflow.

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}
	appLog := logger.Setup(os.Stdout, logger.ParseLevel(cfg.LogLevel))

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase(db)

	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	registry := metrics.NewRegistry()
	collector := metrics.NewCollector(registry)
	clock := services.SystemClock{}
	uow := repositories.NewUnitOfWork(db)

	var permCache services.PermissionCache
	redisClient := config.NewRedisClient(cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
		permCache = cache.NewPermissionCache(redisClient, "clubhub", cfg.Security.PermissionCacheTTL)
	}

	var publisher services.EventPublisher
	if cfg.AMQP.Enabled {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, appLog)
		if err != nil {
			log.Printf("⚠️ Warning: AMQP unavailable, events disabled: %v", err)
		} else {
			defer amqpPublisher.Close()
			publisher = amqpPublisher
			log.Printf("✅ AMQP publisher ready [exchange=%s]", cfg.AMQP.Exchange)
		}
	}

	issuer := jwt.NewIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, clock.Now)
	vault := password.NewVault(cfg.Security.BcryptCost)

	identity := services.NewIdentityService(uow, vault, issuer, clock, cfg.JWT.SessionTTL(), collector, appLog)
	permissions := services.NewPermissionService(uow, permCache, clock, collector, appLog)
	gate := services.NewAuthorizationGate(uow, issuer, permissions, appLog)
	clubs := services.NewClubService(uow, gate, clock, appLog)
	workflow := services.NewWorkflowService(uow, gate, clock, publisher, collector, appLog)
	dictionary := services.NewDictionaryService(uow, appLog)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	if err := config.NewSeeder(permissions, identity, cfg.Seed).Run(seedCtx); err != nil {
		log.Printf("⚠️ Warning: Failed to seed permission graph: %v", err)
	}
	cancelSeed()

	if cfg.Scheduler.Enabled {
		sweeper := services.NewRecruitmentSweeper(workflow, cfg.Scheduler.CloseExpiredSpec, appLog)
		if err := sweeper.Start(); err != nil {
			log.Fatalf("❌ Failed to start recruitment sweeper: %v", err)
		}
		defer sweeper.Stop()
	}

	app := fiber.New(fiber.Config{
		AppName:      "clubhub API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	middleware.Setup(app, cfg)

	routes.Setup(app, routes.Dependencies{
		Identity:     identity,
		Permissions:  permissions,
		Gate:         gate,
		Clubs:        clubs,
		Workflow:     workflow,
		Dictionary:   dictionary,
		Mode:         cfg.AppMode,
		DefaultRole:  config.RoleStudent,
		HealthChecks: healthChecks(db, redisClient),
		Metrics:      metrics.Handler(registry),
		AuthLimiter:  middleware.AuthRateLimiter(),
		Logger:       appLog,
	})

	go gracefulShutdown(app, appLog)

	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func healthChecks(db *gorm.DB, redisClient *redis.Client) map[string]func() error {
	checks := map[string]func() error{
		"database": func() error { return config.HealthCheck(db) },
		"redis":    nil,
	}
	if redisClient != nil {
		checks["redis"] = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			return redisClient.Ping(ctx).Err()
		}
	}
	return checks
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App, appLog *slog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("shutting down server", "event", "server_shutdown", "module", "main")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLog.Error("shutdown failed", "event", "server_shutdown_failed", "module", "main", "error", err)
	}
}
