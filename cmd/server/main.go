package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"minimart/internal/apiclient"
	"minimart/internal/authz"
	"minimart/internal/config"
	"minimart/internal/infra"
	"minimart/internal/live"
	"minimart/internal/repository"
	"minimart/internal/router"
	"minimart/internal/service"
	"minimart/internal/worker"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger: pretty in dev, JSON in production
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.IsProduction() {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Backend client ───────────────────────────────────────────────────────
	breaker := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{
		FailureThreshold: cfg.BreakerFailures,
		SuccessThreshold: infra.DefaultCBConfig().SuccessThreshold,
		OpenTimeout:      time.Duration(cfg.BreakerOpenSecs) * time.Second,
	})
	backend := apiclient.New(cfg.APIBaseURL,
		apiclient.WithTimeout(cfg.APITimeout()),
		apiclient.WithBreaker(breaker),
		apiclient.WithMemo(apiclient.NewMemo(cfg.CatalogCacheTTL(), "/products", "/categories", "/locations")),
	)

	deps := router.Deps{
		Backend: backend,
		Policy:  authz.Default(),
		Hub:     live.NewHub(),
	}
	go deps.Hub.Run(ctx)

	// ── Receipt journal ──────────────────────────────────────────────────────
	if cfg.DatabaseURL != "" {
		db, err := infra.NewDatabase(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		deps.DB = db
		deps.Receipts = repository.NewReceiptRepository(db)
	} else {
		log.Warn().Msg("DATABASE_URL not set, receipts are kept in memory")
		deps.Receipts = repository.NewMemoryReceiptRepository()
	}

	// ── Sessions and carts ───────────────────────────────────────────────────
	switch cfg.StoreDriver {
	case "memory":
		log.Warn().Msg("STORE_DRIVER=memory: sessions and carts do not survive a restart")
		deps.Sessions = repository.NewMemorySessionRepository()
		deps.Carts = repository.NewMemoryCartRepository(cfg.SessionTTL())
	case "redis":
		rdb, err := infra.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		deps.Redis = rdb
		deps.Sessions = repository.NewRedisSessionRepository(rdb)
		deps.Carts = repository.NewRedisCartRepository(rdb, cfg.SessionTTL())
	default:
		log.Fatal().Str("driver", cfg.StoreDriver).Msg("STORE_DRIVER must be redis or memory")
	}

	// ── Jobs and live events ─────────────────────────────────────────────────
	mailer := infra.NewMailer(cfg)
	handlers := worker.Handlers{
		worker.JobActivity:     worker.NewActivityWorker(worker.BackendActivityLogger(backend), deps.Sessions).Process,
		worker.JobReceiptEmail: worker.NewReceiptWorker(deps.Receipts, mailer, service.ReceiptLayout(cfg), cfg.PDFStoragePath).Process,
	}
	if deps.Redis != nil {
		deps.Jobs = worker.NewDispatcher(deps.Redis)
		worker.StartWorkerPool(ctx, deps.Redis, handlers, cfg.WorkerPoolSize)
		worker.StartRetryCron(ctx, worker.RetryCronConfig{RDB: deps.Redis, CB: breaker})

		relay := live.NewRedisRelay(deps.Redis, deps.Hub)
		go relay.Run(ctx)
		deps.Publisher = relay
	} else {
		deps.Jobs = worker.NewLocalDispatcher(ctx, handlers)
		deps.Publisher = deps.Hub
	}

	r := router.New(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("%s console listening on :%d (backend %s)", cfg.StoreName, cfg.Port, cfg.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	cancel()
	if d, ok := deps.Jobs.(*worker.LocalDispatcher); ok {
		d.Wait()
	}
	log.Info().Msg("server exited")
}
