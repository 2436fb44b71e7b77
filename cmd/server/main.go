package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iho/marathon-wallet/internal/adapter/gateway/nowpayments"
	httpAdapter "github.com/iho/marathon-wallet/internal/adapter/http"
	"github.com/iho/marathon-wallet/internal/adapter/http/handler"
	"github.com/iho/marathon-wallet/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/marathon-wallet/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/marathon-wallet/internal/adapter/repository/redis"
	"github.com/iho/marathon-wallet/internal/infrastructure/auth"
	"github.com/iho/marathon-wallet/internal/infrastructure/config"
	"github.com/iho/marathon-wallet/internal/infrastructure/eventpublisher"
	"github.com/iho/marathon-wallet/internal/infrastructure/logger"
	"github.com/iho/marathon-wallet/internal/infrastructure/metrics"
	"github.com/iho/marathon-wallet/internal/infrastructure/postgres"
	"github.com/iho/marathon-wallet/internal/infrastructure/redis"
	"github.com/iho/marathon-wallet/internal/infrastructure/worker"
	"github.com/iho/marathon-wallet/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log.Logger); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}

	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	authenticate, err := buildAuthenticator(cfg, logger)
	if err != nil {
		return err
	}

	if cfg.MigrateOnStart {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return err
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	logger.Info().Msg("connected to postgres")

	// Redis is optional: without it balances are read from postgres and
	// Idempotency-Key headers are ignored.
	var (
		redisClient      *goredis.Client
		balanceCache     usecase.Cache
		idempotencyStore usecase.IdempotencyStore
		redisChecker     handler.Checker
	)
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()

		balanceCache = redisRepo.NewCache(redisClient)
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		redisChecker = redis.NewChecker(redisClient)
		logger.Info().Msg("connected to redis")
	} else {
		logger.Warn().Msg("redis disabled; balance cache and idempotency keys are off")
	}

	m := metrics.New()

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	paymentRepo := postgresRepo.NewPaymentRepository(pool)
	withdrawalRepo := postgresRepo.NewWithdrawalRepository(pool)
	marathonRepo := postgresRepo.NewMarathonRepository(pool)
	payoutWalletRepo := postgresRepo.NewPayoutWalletRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(m, logger)

	gateway := nowpayments.NewClient(nowpayments.Config{
		BaseURL:        cfg.GatewayBaseURL,
		APIKey:         cfg.GatewayAPIKey,
		IPNSecret:      cfg.GatewayIPNSecret,
		Timeout:        cfg.GatewayTimeout,
		MaxAttempts:    cfg.GatewayMaxAttempts,
		RetryBaseDelay: cfg.GatewayRetryBaseDelay,
	}, m, logger)

	notifier := eventpublisher.NewLogNotifier(logger)

	// Use cases
	walletUC := usecase.NewWalletUseCase(txManager, accountRepo, entryRepo, auditRepo, balanceCache, idGen, m, logger)
	walletUC.SetCacheTTL(cfg.BalanceCacheTTL)

	paymentUC := usecase.NewPaymentUseCase(usecase.PaymentUseCaseDeps{
		TxManager:    txManager,
		PaymentRepo:  paymentRepo,
		MarathonRepo: marathonRepo,
		OutboxRepo:   outboxRepo,
		AuditRepo:    auditRepo,
		Wallet:       walletUC,
		Gateway:      gateway,
		Assigner:     eventpublisher.NewLogAssigner(logger),
		Notifier:     notifier,
		IDGen:        idGen,
		Metrics:      m,
		Logger:       logger,
	}, usecase.PaymentConfig{
		Expiry:             cfg.PaymentExpiry,
		CallbackURL:        cfg.GatewayCallbackURL,
		DefaultPayCurrency: cfg.DefaultPayCurrency,
	})

	withdrawalUC := usecase.NewWithdrawalUseCase(
		txManager, withdrawalRepo, payoutWalletRepo, outboxRepo, auditRepo,
		walletUC, notifier, idGen, m, logger,
	)
	reconciliationUC := usecase.NewReconciliationUseCase(accountRepo, entryRepo, ledgerRepo)

	// HTTP
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		PaymentHandler:    handler.NewPaymentHandler(paymentUC, retrier, logger),
		WithdrawalHandler: handler.NewWithdrawalHandler(withdrawalUC, retrier),
		WalletHandler:     handler.NewWalletHandler(walletUC),
		LedgerHandler:     handler.NewLedgerHandler(reconciliationUC, auditRepo),
		HealthHandler:     handler.NewHealthHandler(pool, redisChecker),
		Authenticate:      authenticate,
		IdempotencyStore:  idempotencyStore,
		IdempotencyTTL:    cfg.IdempotencyTTL,
		RateLimiter:       rateLimiter,
		MetricsHandler:    promhttp.Handler(),
		Metrics:           m,
		Logger:            logger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Background workers
	publisher, closePublisher, err := buildPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	var wg sync.WaitGroup
	startWorker := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Str("worker", name).Msg("worker stopped")
			}
		}()
	}

	startWorker("outbox", eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  publisher,
		Metrics:    m,
		Logger:     logger,
		Interval:   cfg.OutboxPublishInterval,
	}).Start)
	startWorker("expiry", worker.NewExpirySweeper(paymentUC, cfg.ExpirySweepInterval, logger).Start)
	startWorker("ratelimit-cleanup", func(ctx context.Context) error {
		rateLimiter.Run(ctx, time.Minute)
		return nil
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info().Msg("shutting down server...")
	case err := <-serverErr:
		runErr = fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	stopWorkers()
	wg.Wait()

	return runErr
}

// buildAuthenticator returns bearer-token auth, or trusted identity headers
// when auth is delegated to an upstream proxy.
func buildAuthenticator(cfg *config.Config, logger zerolog.Logger) (func(http.Handler) http.Handler, error) {
	if !cfg.AuthEnabled {
		logger.Warn().Msg("bearer auth disabled; trusting X-User-Id headers")
		return middleware.HeaderAuth, nil
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required when AUTH_ENABLED=true")
	}

	return middleware.AuthMiddleware(auth.NewJWTManager(cfg.JWTSecret, 0)), nil
}

// buildPublisher picks the outbox sink. The returned close func is never nil.
func buildPublisher(cfg *config.Config, logger zerolog.Logger) (eventpublisher.Publisher, func(), error) {
	if !cfg.KafkaEnabled {
		return eventpublisher.NewLogPublisher(logger), func() {}, nil
	}

	kafka, err := eventpublisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaEscalationTopic)
	if err != nil {
		return nil, nil, err
	}

	logger.Info().
		Strs("brokers", cfg.KafkaBrokers).
		Str("topic", cfg.KafkaTopic).
		Str("escalation_topic", cfg.KafkaEscalationTopic).
		Msg("publishing outbox to kafka")

	return kafka, func() {
		if err := kafka.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close kafka producer")
		}
	}, nil
}
