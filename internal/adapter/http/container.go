package http

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"pricelist/internal/adapter/database"
	"pricelist/internal/adapter/database/memory"
	"pricelist/internal/adapter/database/postgres"
	"pricelist/internal/adapter/database/rediscache"
	"pricelist/internal/adapter/database/repository"
	"pricelist/internal/adapter/database/sqlite"
	"pricelist/internal/adapter/http/handler"
	"pricelist/internal/adapter/http/routes"
	"pricelist/internal/adapter/messaging/rabbitmq"
	"pricelist/internal/adapter/telemetry"
	"pricelist/internal/core/port"
	"pricelist/internal/core/service"
	"pricelist/pkg/auth"
	"pricelist/pkg/config"
)

type Container struct {
	Config    *config.AppConfig
	Logger    *otelzap.Logger
	DB        *database.DB
	Cache     port.CacheRepository
	Events    port.EventPublisher
	Telemetry *telemetry.Container
	JWT       *auth.JWT

	UserRepo    port.UserRepository
	CatalogRepo port.CatalogRepository
	ListingRepo port.ListingRepository

	AuthService    port.AuthService
	UserService    port.UserService
	CatalogService port.CatalogService
	ListingService port.ListingService

	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	CatalogHandler *handler.CatalogHandler
	ListingHandler *handler.ListingHandler
}

// NewContainer wires every adapter and service. Redis and RabbitMQ are used
// only when configured; otherwise the in-process cache and a no-op publisher
// take their place.
func NewContainer(ctx context.Context, cfg *config.AppConfig, logger *otelzap.Logger) (*Container, error) {
	tel, err := telemetry.NewContainer(ctx, telemetry.Config{
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: cfg.Telemetry.ServiceVersion,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
	})

	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	c := &Container{Config: cfg, Logger: logger, Telemetry: tel}

	if c.DB, err = OpenDatabase(ctx, cfg.DB, true); err != nil {
		c.Close(ctx)
		return nil, err
	}

	tel.PrometheusRegistry.MustRegister(collectors.NewDBStatsCollector(c.DB.DB, cfg.DB.Driver))

	if c.Cache, err = openCache(ctx, cfg.Redis, logger); err != nil {
		c.Close(ctx)
		return nil, err
	}

	if c.Events, err = openPublisher(cfg.AMQP, logger); err != nil {
		c.Close(ctx)
		return nil, err
	}

	c.JWT = auth.NewJWT(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)

	c.UserRepo = repository.NewUserRepository(c.DB)
	c.CatalogRepo = repository.NewCatalogRepository(c.DB)
	c.ListingRepo = repository.NewListingRepository(c.DB)

	probe := tel.AppMetrics

	c.AuthService = service.NewAuthService(c.UserRepo, c.JWT, probe, logger)
	c.UserService = service.NewUserService(c.UserRepo)
	c.CatalogService = service.NewCatalogService(c.CatalogRepo, c.Cache, c.Events, probe, logger)
	c.ListingService = service.NewListingService(c.ListingRepo, c.Cache, probe, logger, cfg.Redis.TTL)

	c.AuthHandler = handler.NewAuthHandler(c.AuthService, logger)
	c.UserHandler = handler.NewUserHandler(c.UserService, logger)
	c.CatalogHandler = handler.NewCatalogHandler(c.CatalogService, logger)
	c.ListingHandler = handler.NewListingHandler(c.ListingService, logger)

	return c, nil
}

func (c *Container) Router() *gin.Engine {
	if c.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	return routes.SetupRouter(routes.HandlersConfig{
		AuthHandler:    c.AuthHandler,
		UserHandler:    c.UserHandler,
		CatalogHandler: c.CatalogHandler,
		ListingHandler: c.ListingHandler,
	}, routes.RouterConfig{
		ServiceName:    c.Config.Telemetry.ServiceName,
		AllowedOrigins: c.Config.HTTP.AllowedOrigins,
		Verifier:       c.JWT,
		Probe:          c.Telemetry.AppMetrics,
		Logger:         c.Logger,
		Metrics:        c.Telemetry.AppMetrics,
		Registry:       c.Telemetry.PrometheusRegistry,
		Health:         c.DB.HealthCheck,
	})
}

// Close releases adapters in reverse order of construction.
func (c *Container) Close(ctx context.Context) error {
	var errs []error

	if c.Events != nil {
		errs = append(errs, c.Events.Close())
	}

	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}

	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}

	if c.Telemetry != nil {
		errs = append(errs, c.Telemetry.Shutdown(ctx))
	}

	return errors.Join(errs...)
}

// OpenDatabase connects to the configured driver. With migrate set, pending
// migrations under <migrations_path>/<driver> are applied first.
func OpenDatabase(ctx context.Context, cfg config.DBConfig, migrate bool) (*database.DB, error) {
	pool := database.PoolConfig{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}

	var migrations string

	if migrate {
		migrations = MigrationsPath(cfg)
	}

	switch cfg.Driver {
	case config.DriverPostgres:
		return postgres.Open(ctx, postgres.Options{
			URL:            cfg.DSN,
			Pool:           pool,
			MigrationsPath: migrations,
		})
	case config.DriverSQLite:
		return sqlite.Open(sqlite.Options{
			DSN:            cfg.DSN,
			Pool:           pool,
			LogQueries:     cfg.LogQueries,
			MigrationsPath: migrations,
		})
	}

	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

func MigrationsPath(cfg config.DBConfig) string {
	return filepath.Join(cfg.MigrationsPath, cfg.Driver)
}

func openCache(ctx context.Context, cfg config.RedisConfig, logger *otelzap.Logger) (port.CacheRepository, error) {
	if cfg.Addr == "" {
		logger.Info("listing cache: in-process")
		return memory.NewMemoryRepository(), nil
	}

	cache, err := rediscache.NewCacheRepository(ctx, rediscache.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	logger.Info("listing cache: redis", zap.String("addr", cfg.Addr))

	return cache, nil
}

func openPublisher(cfg config.AMQPConfig, logger *otelzap.Logger) (port.EventPublisher, error) {
	if cfg.URL == "" {
		return rabbitmq.NewNoopPublisher(), nil
	}

	publisher, err := rabbitmq.NewPublisher(rabbitmq.Options{URL: cfg.URL, Exchange: cfg.Exchange})

	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}

	logger.Info("catalog events: rabbitmq", zap.String("exchange", cfg.Exchange))

	return publisher, nil
}
