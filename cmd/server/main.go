package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	amqpAdapter "github.com/iho/goraffle/internal/adapter/amqp"
	"github.com/iho/goraffle/internal/adapter/entropy"
	httpAdapter "github.com/iho/goraffle/internal/adapter/http"
	"github.com/iho/goraffle/internal/adapter/http/handler"
	"github.com/iho/goraffle/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/goraffle/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/goraffle/internal/adapter/repository/redis"
	"github.com/iho/goraffle/internal/infrastructure/auth"
	"github.com/iho/goraffle/internal/infrastructure/config"
	"github.com/iho/goraffle/internal/infrastructure/eventpublisher"
	"github.com/iho/goraffle/internal/infrastructure/logger"
	"github.com/iho/goraffle/internal/infrastructure/logging"
	"github.com/iho/goraffle/internal/infrastructure/metrics"
	"github.com/iho/goraffle/internal/infrastructure/postgres"
	"github.com/iho/goraffle/internal/infrastructure/redis"
	"github.com/iho/goraffle/internal/infrastructure/scheduler"
	"github.com/iho/goraffle/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	workerLog := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewWithRegisterer(registry)

	// PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, workerLog.Component("migrator")); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Redis
	redisClient, err := redis.NewClient(ctx, redis.ClientConfig{
		URL:         cfg.RedisURL,
		PoolSize:    cfg.RedisPoolSize,
		DialTimeout: cfg.RedisDialTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Repositories
	txManager := postgresRepo.NewTxManager(pool).WithLockTimeout(cfg.DatabaseLockTimeout)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	transferRepo := postgresRepo.NewTransferRepository(pool)
	postingRepo := postgresRepo.NewPostingRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	assetRepo := postgresRepo.NewAssetRepository(pool)
	raffleRepo := postgresRepo.NewRaffleRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier().WithLogger(workerLog.Component("retrier"))

	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Entropy
	source, closeSource, err := newEntropySource(ctx, cfg, m, log)
	if err != nil {
		return err
	}
	defer closeSource()

	// Use cases
	clock := usecase.SystemClock{}
	tokens := usecase.NewTokenLedger(accountRepo, transferRepo, postingRepo, idGen)
	custody := usecase.NewAssetCustody(assetRepo)

	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, postingRepo, outboxRepo, tokens, idGen, clock, cfg.TokenSymbol, cfg.IssuerAccountID, m)
	assetUC := usecase.NewAssetUseCase(txManager, assetRepo, outboxRepo, idGen, clock, m)
	raffleUC := usecase.NewRaffleUseCase(txManager, raffleRepo, entryRepo, outboxRepo, tokens, custody, source, idGen, clock, cfg.TokenSymbol).
		WithRetrier(retrier).
		WithCache(cache, cfg.RaffleCacheTTL).
		WithMetrics(m)
	reconciliationUC := usecase.NewReconciliationUseCase(raffleRepo, entryRepo, accountRepo, transferRepo, assetRepo, ledgerRepo, clock)

	if _, err := accountUC.EnsureIssuer(ctx); err != nil {
		return fmt.Errorf("failed to ensure issuer account: %w", err)
	}

	// Outbox relay
	publisher, closePublisher, err := newOutboxPublisher(cfg, workerLog.Component("outbox"))
	if err != nil {
		return err
	}
	defer closePublisher()

	relay := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  publisher,
		Metrics:    m,
		Logger:     workerLog.Component("event-publisher"),
		Interval:   cfg.OutboxInterval,
		Retention:  cfg.OutboxRetention,
	})

	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	go func() {
		if err := relay.Start(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	// Deadline sweep
	sweeper, err := scheduler.New(scheduler.Config{
		Sweeper:   raffleUC,
		Metrics:   m,
		Logger:    log,
		Schedule:  cfg.SweepSchedule,
		BatchSize: cfg.SweepBatchSize,
	})
	if err != nil {
		return err
	}
	sweeper.Start()
	defer func() { <-sweeper.Stop().Done() }()

	// HTTP
	var verifier middleware.TokenVerifier
	if cfg.AuthEnabled {
		verifier = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	} else {
		log.Warn().Str("header", middleware.CallerIdentityHeader).Msg("authentication disabled, trusting caller identity header")
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithMetrics(m)
	rateLimiter.StartCleanup(workerCtx, 10*time.Minute)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		Logger:                log,
		RaffleHandler:         handler.NewRaffleHandler(raffleUC),
		AccountHandler:        handler.NewAccountHandler(accountUC),
		AssetHandler:          handler.NewAssetHandler(assetUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconciliationUC),
		HealthHandler:         handler.NewHealthHandler(pool, redisClient),
		AuthHandler:           handler.NewAuthHandler(),
		Auth:                  middleware.NewAuthMiddleware(verifier, m),
		Idempotency:           middleware.NewIdempotencyMiddleware(idempotencyStore, cfg.IdempotencyTTL),
		RateLimiter:           rateLimiter,
		Metrics:               m,
		MetricsGatherer:       registry,
		CORSAllowedOrigins:    cfg.CORSAllowedOrigins,
	})

	server := newHTTPServer(cfg, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           h,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}
}

// newEntropySource dials the configured chain, or falls back to local
// randomness when no RPC endpoint is set.
func newEntropySource(ctx context.Context, cfg *config.Config, m *metrics.Metrics, log zerolog.Logger) (usecase.EntropySource, func(), error) {
	if cfg.EntropyRPCURL == "" {
		log.Warn().Msg("ENTROPY_RPC_URL not set, draws use local randomness and cannot be verified")
		return entropy.NewRandomSource(), func() {}, nil
	}

	source, client, err := entropy.Dial(ctx, cfg.EntropyRPCURL, cfg.EntropyConfirmations)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to entropy chain: %w", err)
	}
	log.Info().
		Uint64("confirmations", cfg.EntropyConfirmations).
		Dur("clock_skew", cfg.EntropyClockSkew).
		Msg("connected to entropy chain")

	return source.WithClockSkew(cfg.EntropyClockSkew).WithMetrics(m), client.Close, nil
}

// newOutboxPublisher selects where outbox events are relayed.
func newOutboxPublisher(cfg *config.Config, logger *slog.Logger) (eventpublisher.Publisher, func(), error) {
	switch cfg.OutboxPublisher {
	case "amqp":
		p, err := amqpAdapter.Dial(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return nil, nil, err
		}
		return p, func() { _ = p.Close() }, nil
	case "log", "":
		return eventpublisher.NewLogPublisher(logger), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown outbox publisher %q", cfg.OutboxPublisher)
	}
}
