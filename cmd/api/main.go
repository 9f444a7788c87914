package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/registre-medical/registry-api/internal/api/http"
	"github.com/registre-medical/registry-api/internal/api/http/handlers"
	"github.com/registre-medical/registry-api/internal/auth"
	"github.com/registre-medical/registry-api/internal/config"
	"github.com/registre-medical/registry-api/internal/events"
	"github.com/registre-medical/registry-api/internal/observability"
	"github.com/registre-medical/registry-api/internal/persistence"
	"github.com/registre-medical/registry-api/internal/repository"
	"github.com/registre-medical/registry-api/internal/service"
	"github.com/registre-medical/registry-api/internal/worker"
	"github.com/registre-medical/registry-api/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	dependencies := map[string]handlers.Pinger{}
	var userRepo repository.UserRepository
	if pg.Configured() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(cfg.Postgres.DSN, migrations.FS, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		userRepo = repository.NewUserRepository(pg.PoolHandle())
		dependencies["postgres"] = pg
	} else {
		userRepo = repository.NewMemoryUserRepository()
	}

	var revoker auth.Revoker
	switch cfg.Auth.RevocationStore {
	case config.RevocationStoreRedis:
		redis := persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		revoker = auth.NewRedisRevoker(redis.Client)
		dependencies["redis"] = redis
	case config.RevocationStoreMemory:
		revoker = auth.NewMemoryRevoker()
	}

	tokens, err := auth.NewTokenService(cfg.Auth.SigningKey, cfg.Auth.AccessTokenTTL())
	if err != nil {
		logger.Fatal("invalid token configuration", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	authService := service.NewAuthService(cfg.Auth.BcryptCost, service.AuthDependencies{
		UserRepo:   userRepo,
		Tokens:     tokens,
		Revoker:    revoker,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	userService := service.NewUserService(userRepo, dispatcher)

	guardOpts := []auth.GuardOption{
		auth.WithLogger(logger),
		auth.WithMetrics(metrics),
		auth.WithSkipPaths(cfg.Auth.PublicPaths...),
	}
	if revoker != nil {
		guardOpts = append(guardOpts, auth.WithRevoker(revoker))
	}
	guard := auth.NewGuard(tokens, userRepo, guardOpts...)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies),
		Auth:    handlers.NewAuthHandler(authService),
		Users:   handlers.NewUsersHandler(userService),
		Guard:   guard,
		Metrics: metrics,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("revocation_store", cfg.Auth.RevocationStore),
			zap.Duration("token_ttl", tokens.TTL()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
