package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hamed0406/uptime/internal/audit"
	"github.com/hamed0406/uptime/internal/auth"
	"github.com/hamed0406/uptime/internal/config"
	"github.com/hamed0406/uptime/internal/domain"
	"github.com/hamed0406/uptime/internal/httpapi"
	"github.com/hamed0406/uptime/internal/logging"
	"github.com/hamed0406/uptime/internal/notify"
	"github.com/hamed0406/uptime/internal/probe"
	"github.com/hamed0406/uptime/internal/repo"
	"github.com/hamed0406/uptime/internal/scheduler"
	"github.com/hamed0406/uptime/internal/store"
)

func main() {
	_ = godotenv.Load() // optional .env for local runs

	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if cfg.HashSecret == "" {
		logger.Fatal("missing_hash_secret")
	}

	st, err := store.New(cfg.DataDir)
	if err != nil {
		logger.Fatal("store_init", zap.Error(err))
	}
	for _, coll := range []string{domain.CollUsers, domain.CollTokens, domain.CollChecks} {
		if err := st.EnsureCollection(coll); err != nil {
			logger.Fatal("collection_init", zap.String("collection", coll), zap.Error(err))
		}
	}

	hasher := auth.NewHMACHasher(cfg.HashSecret)
	authority := auth.New(st, hasher)
	repository := repo.New(st, authority, hasher, cfg.MaxChecks, logger)

	sink, err := audit.NewFileSink(filepath.Join(cfg.LogDir, "checks"))
	if err != nil {
		logger.Fatal("audit_init", zap.Error(err))
	}
	defer sink.Close()

	worker := scheduler.New(
		logger,
		st,
		probe.NewHTTPProber(),
		notify.Multi{notify.NewLogNotifier(logger)},
		sink,
		cfg.CheckInterval,
		cfg.MaxConcurrentChecks,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workerDone := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(workerDone)
	}()

	api := httpapi.NewServer(logger, repository, authority)
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: api.Router(cfg.PublicRPM, cfg.PublicBurst),
	}
	go func() {
		logger.Info("api_listen", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api_error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("api_shutdown", zap.Error(err))
	}
	<-workerDone
	logger.Info("stopped")
}
