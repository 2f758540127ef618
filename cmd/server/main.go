package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/form-service/internal/cache"
	"github.com/SAP-F-2025/form-service/internal/config"
	"github.com/SAP-F-2025/form-service/internal/handlers"
	"github.com/SAP-F-2025/form-service/internal/jobs"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/SAP-F-2025/form-service/internal/repositories/memory"
	mongorepo "github.com/SAP-F-2025/form-service/internal/repositories/mongo"
	"github.com/SAP-F-2025/form-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/form-service/internal/services"
	"github.com/SAP-F-2025/form-service/internal/utils"
	"github.com/SAP-F-2025/form-service/internal/validator"
	"github.com/SAP-F-2025/form-service/pkg"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := utils.NewLogger(cfg.Environment)
	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger utils.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slogger := logger.Slog()

	repo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer repo.Close(context.Background())

	cacheService, closeCache, err := openCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		return fmt.Errorf("failed to create event publisher: %w", err)
	}
	defer publisher.Close()

	v := validator.New()
	serviceManager := services.NewServiceManager(services.Dependencies{
		Repo:      repo,
		Cache:     cacheService,
		Publisher: publisher,
		Validator: v,
		Logger:    slogger,
		DraftTTL:  cfg.DraftTTL,
		SharedTTL: cfg.SharedFormCacheTTL,
	})

	var parse handlers.TokenParser
	if cfg.Auth.Enabled {
		a := cfg.Auth
		casdoorsdk.InitConfig(a.Endpoint, a.ClientID, a.ClientSecret, a.Certificate, a.OrganizationName, a.ApplicationName)
		parse = casdoorsdk.ParseJwtToken
		logger.Info("Casdoor authentication enabled", "endpoint", a.Endpoint)
	}

	scheduler := jobs.NewScheduler(slogger)
	if err := scheduler.Add("share-expiry", cfg.ShareExpirySchedule, jobs.NewShareExpiryJob(serviceManager.Form(), slogger)); err != nil {
		return fmt.Errorf("invalid share expiry schedule %q: %w", cfg.ShareExpirySchedule, err)
	}
	scheduler.Start()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.RequestIDMiddleware(), utils.ContextLogger(logger), utils.LoggerMiddleware(logger), gin.Recovery())
	handlers.NewHandlerManager(serviceManager, v, logger, parse).SetupRoutes(router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Form service listening", "port", cfg.Port, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	scheduler.Stop(shutdownCtx)
	return srv.Shutdown(shutdownCtx)
}

func openRepository(ctx context.Context, cfg *config.Config, logger utils.Logger) (repositories.Repository, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := pkg.InitDatabase(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := postgres.Migrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
		logger.Info("Connected to PostgreSQL")
		return postgres.NewRepository(db), nil

	case config.StoreMongo:
		client, db, err := pkg.InitMongo(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			return nil, fmt.Errorf("failed to create mongo indexes: %w", err)
		}
		logger.Info("Connected to MongoDB", "database", cfg.MongoDatabase)
		return mongorepo.NewRepository(client, db), nil

	case config.StoreMemory:
		logger.Warn("Using in-memory store; data is lost on restart")
		return memory.NewRepository(), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func openCache(ctx context.Context, cfg *config.Config, logger utils.Logger) (cache.CacheService, func(), error) {
	if cfg.RedisURL == "" {
		logger.Warn("REDIS_URL not set, drafts and shared forms are cached in process")
		return cache.NewMemoryCache(), func() {}, nil
	}

	client, err := pkg.NewRedisClient(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info("Connected to Redis")
	return cache.NewRedisCache(client, logger.Slog()), func() { client.Close() }, nil
}
