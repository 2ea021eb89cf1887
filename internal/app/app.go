package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/charlysdark22/store-search/internal/catalog"
	catalogmemory "github.com/charlysdark22/store-search/internal/catalog/memory"
	catalogpostgres "github.com/charlysdark22/store-search/internal/catalog/postgres"
	"github.com/charlysdark22/store-search/internal/config"
	"github.com/charlysdark22/store-search/internal/event"
	handler "github.com/charlysdark22/store-search/internal/handler/http"
	"github.com/charlysdark22/store-search/internal/history"
	"github.com/charlysdark22/store-search/internal/service"
	"github.com/charlysdark22/store-search/pkg/database"
	"github.com/charlysdark22/store-search/pkg/health"
	pkgkafka "github.com/charlysdark22/store-search/pkg/kafka"
	"github.com/charlysdark22/store-search/pkg/tracing"
)

// App wires together all dependencies and runs the search service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	consumers       []*pkgkafka.Consumer
	producer        *pkgkafka.Producer
	pool            *pgxpool.Pool
	redisClient     *redis.Client
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{cfg: cfg, logger: logger}

	tracingShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:  "search-service",
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SampleRate:   cfg.TracingSample,
		Enabled:      cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	app.tracingShutdown = tracingShutdown

	healthHandler := health.NewHandler()

	// Catalog backend selection.
	var accessor catalog.Accessor
	var writer catalog.Writer
	switch cfg.CatalogEngine {
	case config.EnginePostgres:
		pool, err := database.NewPostgresPool(ctx, database.DefaultPostgresConfig(cfg.PostgresDSN))
		if err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		app.pool = pool
		store := catalogpostgres.New(pool)
		accessor = store
		healthHandler.Register("postgres", store.Ping)
		logger.Info("postgres catalog backend initialized")
	default:
		store := catalogmemory.New()
		accessor = store
		writer = store
		logger.Info("in-memory catalog backend initialized")
	}

	historyStore := history.NewStore()

	// Optional Redis read-side cache.
	var opts []service.Option
	if cfg.RedisEnabled {
		client, err := database.NewRedisClient(ctx, database.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("init redis: %w", err)
		}
		app.redisClient = client
		opts = append(opts, service.WithCache(client, cfg.CacheTTL))
		healthHandler.Register("redis", func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
		logger.Info("redis cache initialized", slog.String("host", cfg.RedisHost))
	}

	// Optional search analytics producer.
	if cfg.AnalyticsEnabled {
		app.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		opts = append(opts, service.WithAnalytics(app.producer))
		logger.Info("search analytics producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	searchService := service.NewSearchService(accessor, historyStore, logger, opts...)

	// The sync surface (HTTP endpoints and product-event consumers) only
	// exists when the backend is writable.
	var catalogService *service.CatalogService
	if writer != nil {
		catalogService = service.NewCatalogService(writer, accessor, logger)

		if cfg.ConsumerEnabled {
			eventConsumer := event.NewConsumer(catalogService, logger)
			topics := []string{
				event.TopicProductCreated,
				event.TopicProductUpdated,
				event.TopicProductDeleted,
			}
			for _, topic := range topics {
				consumerCfg := pkgkafka.ConsumerConfig{
					Brokers:  cfg.KafkaBrokers,
					GroupID:  cfg.KafkaGroupID,
					Topic:    topic,
					MinBytes: 1,
					MaxBytes: 10e6, // 10 MB
				}
				app.consumers = append(app.consumers, pkgkafka.NewConsumer(consumerCfg, eventConsumer.Handle, logger))
			}
			healthHandler.Register("kafka", func(ctx context.Context) error {
				return pkgkafka.PingBrokers(ctx, cfg.KafkaBrokers)
			})
			logger.Info("kafka consumers initialized",
				slog.Any("brokers", cfg.KafkaBrokers),
				slog.Int("topic_count", len(topics)),
			)
		}
	}

	router := handler.NewRouter(handler.RouterConfig{
		SearchService:  searchService,
		CatalogService: catalogService,
		HealthHandler:  healthHandler,
		Logger:         logger,
		TracingEnabled: cfg.TracingEnabled,
	})

	app.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return app, nil
}

// Run starts the HTTP server and Kafka consumers, blocking until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1+len(a.consumers))

	for _, c := range a.consumers {
		c := c
		go func() {
			if err := c.Start(ctx); err != nil {
				errCh <- fmt.Errorf("kafka consumer: %w", err)
			}
		}()
	}

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	for _, c := range a.consumers {
		if err := c.Close(); err != nil {
			a.logger.Error("kafka consumer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.pool != nil {
		a.pool.Close()
	}

	if a.tracingShutdown != nil {
		if err := a.tracingShutdown(shutdownCtx); err != nil {
			a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
