package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/FACorreiaa/loci-trip-planner/internal/domain/catalog"
	"github.com/FACorreiaa/loci-trip-planner/internal/domain/interests"
	"github.com/FACorreiaa/loci-trip-planner/internal/domain/itinerary"
	"github.com/FACorreiaa/loci-trip-planner/internal/domain/planner"
	"github.com/FACorreiaa/loci-trip-planner/pkg/config"
	"github.com/FACorreiaa/loci-trip-planner/pkg/db"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Redis  *redis.Client
	Logger *slog.Logger

	// Repositories
	CatalogRepo catalog.Repository

	// Services
	CatalogService   *catalog.Service
	Matcher          *interests.Matcher
	Planner          *planner.Planner
	ResultCache      itinerary.ResultCache
	ItineraryService itinerary.Service

	// Handlers
	ItineraryHandler *itinerary.Handler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if cfg.Catalog.File == "" {
		if err := deps.initDatabase(); err != nil {
			return nil, fmt.Errorf("failed to init database: %w", err)
		}
	}

	if err := deps.initCache(); err != nil {
		deps.Cleanup()
		return nil, fmt.Errorf("failed to init cache: %w", err)
	}

	if err := deps.initRepositories(); err != nil {
		deps.Cleanup()
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}

	deps.initServices()
	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")

	return deps, nil
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}

	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

// initCache picks the itinerary result cache: Redis when configured, in-process otherwise.
func (d *Dependencies) initCache() error {
	ttl := d.Config.Catalog.ResultCacheTTL
	if ttl <= 0 {
		d.Logger.Info("itinerary result cache disabled")
		return nil
	}

	if !d.Config.Redis.Enabled() {
		d.ResultCache = itinerary.NewMemoryResultCache(ttl)
		d.Logger.Info("using in-process itinerary cache", slog.Duration("ttl", ttl))
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     d.Config.Redis.Addr,
		Password: d.Config.Redis.Password,
		DB:       d.Config.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	d.Redis = client
	d.ResultCache = itinerary.NewRedisResultCache(client, ttl)
	d.Logger.Info("using redis itinerary cache", slog.String("addr", d.Config.Redis.Addr), slog.Duration("ttl", ttl))
	return nil
}

// initRepositories initializes all repository layer dependencies
func (d *Dependencies) initRepositories() error {
	if path := d.Config.Catalog.File; path != "" {
		repo, err := catalog.LoadFileRepository(path)
		if err != nil {
			return err
		}
		d.CatalogRepo = repo
		d.Logger.Info("catalog loaded from file", slog.String("path", path))
		return nil
	}

	d.CatalogRepo = catalog.NewPostgresRepository(d.DB.Pool, d.Logger)
	d.Logger.Info("repositories initialized")
	return nil
}

// initServices initializes all service layer dependencies
func (d *Dependencies) initServices() {
	d.CatalogService = catalog.NewService(d.CatalogRepo, d.Config.Catalog.CacheTTL, d.Logger)
	d.Matcher = interests.NewMatcher()
	d.Planner = planner.NewPlanner(d.Logger)
	d.ItineraryService = itinerary.NewService(d.CatalogService, d.Planner, d.ResultCache, d.Logger)

	d.Logger.Info("services initialized")
}

// initHandlers initializes all handler dependencies
func (d *Dependencies) initHandlers() {
	d.ItineraryHandler = itinerary.NewHandler(d.ItineraryService, d.Matcher, d.Logger)
	d.Logger.Info("handlers initialized")
}

// Cleanup releases connections held by the dependencies.
func (d *Dependencies) Cleanup() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error("failed to close redis client", slog.Any("error", err))
		}
	}
	if d.DB != nil {
		d.DB.Close()
	}
}
