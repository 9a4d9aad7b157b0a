package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sample-media-gateway/internal/config"
	"sample-media-gateway/internal/domain/ports/repository"
	"sample-media-gateway/internal/infra/backend"
	pg "sample-media-gateway/internal/infra/db/postgres"
	"sample-media-gateway/internal/infra/logging"
	"sample-media-gateway/internal/infra/metrics"
	red "sample-media-gateway/internal/infra/redis"
	"sample-media-gateway/internal/infra/tracker"
	"sample-media-gateway/internal/infra/web"
	"sample-media-gateway/internal/infra/worker"
	"sample-media-gateway/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	metrics.MustRegister()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	sampleCache := red.NewSampleCache(redisClient, cfg.Redis.TTL)
	submitGuard := red.NewSubmitGuard(red.NewRateLimiter(redisClient), cfg.Limits.SubmitPerMinute)

	// ---- Postgres (optional audit trail) ----
	var audit repository.TaskLogRepository
	if cfg.Database.URL != "" {
		pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer pool.Close()
		audit = pg.NewTaskLogRepo(pool)
	} else {
		logger.Warn().Msg("database.url not set; submission audit trail disabled")
	}

	// ---- Backend Job API ----
	backendClient := backend.NewClient(cfg.Backend, logger)

	// ---- Use cases ----
	sampleUC := usecase.NewSampleUseCase(backendClient, sampleCache, logger)
	planUC := usecase.NewPlanUseCase(cfg.Plans)

	store := tracker.NewStore()
	trackUC := usecase.NewTrackUseCase(store, backendClient, submitGuard, audit, logger)

	// ---- Tracker ----
	pool := worker.NewPool(cfg.Tracker.LookupWorkers, logger)
	pool.Start(ctx)
	defer pool.Stop()

	poller := tracker.NewPoller(store, backendClient, sampleUC, pool, audit, cfg.Tracker, logger)
	go func() {
		if err := poller.Run(ctx); err != nil && err != context.Canceled {
			logger.Error().Err(err).Msg("poller stopped")
		}
	}()

	// ---- HTTP ----
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		logger.Warn().Msg("auth.jwt_secret not set; using dev secret (INSECURE)")
		secret = "dev-session-secret-do-not-ship"
	}
	auth := web.NewAuthManager(secret, cfg.Auth.SessionTTL)
	if cfg.Runtime.Dev {
		if tok, err := auth.Mint("dev"); err == nil {
			logger.Info().Str("token", tok).Msg("dev session token")
		}
	}

	srv := web.NewServer(trackUC, sampleUC, planUC, auth, logger)
	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Routes(),
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("gateway listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()

	// ---- Shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info().Msg("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
