package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/kobykotiv/printvisionbolt-sub000/internal/cache"
	"github.com/kobykotiv/printvisionbolt-sub000/internal/catalog"
	"github.com/kobykotiv/printvisionbolt-sub000/internal/config"
	"github.com/kobykotiv/printvisionbolt-sub000/internal/event"
	handler "github.com/kobykotiv/printvisionbolt-sub000/internal/handler/http"
	"github.com/kobykotiv/printvisionbolt-sub000/internal/provider"
	"github.com/kobykotiv/printvisionbolt-sub000/internal/provider/gelato"
	"github.com/kobykotiv/printvisionbolt-sub000/internal/provider/gooten"
	"github.com/kobykotiv/printvisionbolt-sub000/internal/provider/printful"
	"github.com/kobykotiv/printvisionbolt-sub000/internal/provider/printify"
	"github.com/kobykotiv/printvisionbolt-sub000/internal/repository/postgres"
	"github.com/kobykotiv/printvisionbolt-sub000/internal/service"
	"github.com/kobykotiv/printvisionbolt-sub000/migrations"
	"github.com/kobykotiv/printvisionbolt-sub000/pkg/database"
	"github.com/kobykotiv/printvisionbolt-sub000/pkg/health"
	pkgkafka "github.com/kobykotiv/printvisionbolt-sub000/pkg/kafka"
	"github.com/kobykotiv/printvisionbolt-sub000/pkg/tracing"
)

// App wires together all dependencies and runs the blueprint service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "blueprint",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize PostgreSQL connection pool.
	pgCfg := database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: time.Duration(cfg.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(cfg.DBMaxConnIdleTimeMins) * time.Minute,
	}

	pool, err := database.NewPostgresPool(ctx, &pgCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	database.RegisterPoolMetrics(pool, "blueprint")

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Configure slow query logging.
	if cfg.SlowQueryThresholdMs > 0 {
		database.SetSlowQueryLogging(time.Duration(cfg.SlowQueryThresholdMs)*time.Millisecond, logger)
	}

	// Initialize Redis client for the search result cache.
	rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("host", cfg.RedisHost),
		slog.Int("db", cfg.RedisDB),
	)

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Register provider adapters.
	registry := provider.NewRegistry()
	factories := map[string]provider.Factory{
		catalog.Printify: printify.New,
		catalog.Printful: printful.New,
		catalog.Gooten:   gooten.New,
		catalog.Gelato:   gelato.New,
	}
	for _, id := range catalog.IDs() {
		if f, ok := factories[id]; ok {
			if err := registry.Register(id, f); err != nil {
				pool.Close()
				return nil, fmt.Errorf("register provider %s: %w", id, err)
			}
		}
	}

	// Build the dependency graph.
	searchCache := cache.NewSearchCache(rdb, cfg.SearchCacheTTL, logger)
	blueprintService := service.NewBlueprintService(registry, cfg.ProviderConfigs(), searchCache, logger)
	if err := blueprintService.Initialize(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initialize blueprint service: %w", err)
	}

	repo := postgres.NewSelectionRepository(pool)
	eventProducer := event.NewProducer(producer, logger)
	selectionService := service.NewSelectionService(repo, blueprintService, service.NewValidationService(), eventProducer, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", producer.Ping)
	healthHandler.Register("providers", func(ctx context.Context) error {
		availability, err := blueprintService.CheckAvailability(ctx, "")
		if err != nil {
			return err
		}
		for _, up := range availability {
			if up {
				return nil
			}
		}
		return fmt.Errorf("no provider is reachable")
	})

	// HTTP router.
	router := handler.NewRouter(blueprintService, selectionService, healthHandler, logger, cfg.PprofAllowedCIDRs)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		rdb:            rdb,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

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

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(shutdownCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		}
	}

	// Close Kafka producer.
	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	// Close Redis client.
	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	// Close PostgreSQL pool.
	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return nil
}
