package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hireme/internal/platform/config"
	"hireme/internal/platform/httpserver"
	"hireme/internal/platform/logger"
	"hireme/internal/platform/postgres"
	platformredis "hireme/internal/platform/redis"
	"hireme/pkg/platform/httputil"
)

// main loads config, connects the optional backing services and serves the
// API until SIGINT or SIGTERM.
func main() {
	// .env is optional
	_ = godotenv.Load()
	cfg := config.FromEnv()
	log := logger.New(cfg.IsDevelopment())
	httputil.ExposeInternalErrors(cfg.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		log.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Error("failed to apply schema", "error", err)
			os.Exit(1)
		}
		log.Info("using postgres stores")
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	rdb, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if rdb != nil {
		defer rdb.Close()
	} else {
		log.Warn("REDIS_URL not set, rate limit counters are per-process")
	}

	router := newRouter(cfg, log, infra{db: db, redis: rdb}, newTelemetry())
	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting hireme API", "addr", cfg.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		return
	}
	log.Info("server stopped")
}
