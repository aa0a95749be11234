package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"

	"github.com/courtline/odds-ingestion/external/oddsapi"
	"github.com/courtline/odds-ingestion/internal/config"
	"github.com/courtline/odds-ingestion/internal/infrastructure/repository/postgres"
	"github.com/courtline/odds-ingestion/internal/infrastructure/stream"
	"github.com/courtline/odds-ingestion/internal/interfaces/httpapi"
	"github.com/courtline/odds-ingestion/internal/platform/cache"
	"github.com/courtline/odds-ingestion/internal/platform/logging"
	"github.com/courtline/odds-ingestion/internal/platform/resilience"
	"github.com/courtline/odds-ingestion/internal/usecase"
)

const (
	dbConnectAttempts = 5
	dbConnectBackoff  = 2 * time.Second
)

// App holds the wired service: the ingestion loop, the health server,
// and the connections both need.
type App struct {
	Config     config.Config
	Logger     *logging.Logger
	DB         *sqlx.DB
	Redis      *redis.Client
	Sync       *usecase.OddsSyncService
	HTTPServer *http.Server
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := openDB(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
	}

	teamRepo := postgres.NewTeamRepository(db)
	gameRepo := postgres.NewGameRepository(db)
	oddsRepo := postgres.NewOddsRepository(db)
	publisher := stream.NewPublisher(redisClient, cfg.StreamName, logger)

	fetcher := oddsapi.NewClient(oddsapi.ClientConfig{
		BaseURL:           cfg.OddsAPIBaseURL,
		APIKey:            cfg.OddsAPIKey,
		SportKey:          cfg.SportKey,
		Timeout:           cfg.OddsAPITimeout,
		RequestsPerMinute: cfg.OddsAPIRatePerMinute,
		ListMaxRetries:    cfg.OddsAPIListMaxRetries,
		EventMaxRetries:   cfg.OddsAPIEventMaxRetries,
		Logger:            logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.OddsAPICircuitEnabled,
			FailureThreshold: cfg.OddsAPICircuitFailureCount,
			OpenTimeout:      cfg.OddsAPICircuitOpenTimeout,
			ProbeMaxReq:      cfg.OddsAPICircuitHalfOpenReq,
		},
	})

	resolver := usecase.NewResolverService(teamRepo, gameRepo, cfg.StrictResolution, logger)
	runState := usecase.NewRunState(0, 0)

	syncService := usecase.NewOddsSyncService(
		fetcher,
		resolver,
		usecase.NewSnapshotExtractor(logger),
		cache.NewIdentityCache(),
		cache.NewFreshnessTracker(cfg.FreshnessWindow),
		oddsRepo,
		publisher,
		runState,
		usecase.OddsSyncConfig{
			PollInterval:        cfg.PollInterval,
			FetchFullGame:       cfg.FetchFullGame,
			FetchFirstHalf:      cfg.FetchFirstHalf,
			FetchSecondHalf:     cfg.FetchSecondHalf,
			MaintenanceInterval: cfg.MaintenanceInterval,
			CacheEvictThreshold: cfg.CacheEvictThreshold,
			FreshnessMaxAge:     cfg.FreshnessMaxAge,
		},
		logger,
	)

	handler := httpapi.NewHandler(cfg.ServiceName, runState, logger)
	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, logger),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &App{
		Config:     cfg,
		Logger:     logger,
		DB:         db,
		Redis:      redisClient,
		Sync:       syncService,
		HTTPServer: server,
	}, nil
}

func (a *App) Close() error {
	var firstErr error
	if err := a.Redis.Close(); err != nil {
		firstErr = err
	}
	if err := a.DB.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// openDB connects with a short retry loop so the service survives a
// database that comes up after it does.
func openDB(ctx context.Context, cfg config.Config, logger *logging.Logger) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	var lastErr error
	for attempt := 1; attempt <= dbConnectAttempts; attempt++ {
		lastErr = db.PingContext(ctx)
		if lastErr == nil {
			return db, nil
		}
		logger.WarnContext(ctx, "database not ready",
			"attempt", attempt,
			"error", lastErr,
		)
		timer := time.NewTimer(dbConnectBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			_ = db.Close()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	_ = db.Close()
	return nil, fmt.Errorf("connect database: %w", lastErr)
}
