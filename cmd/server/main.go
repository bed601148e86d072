package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"userd/internal/events"
	"userd/internal/platform/config"
	"userd/internal/platform/httpserver"
	"userd/internal/platform/logger"
	"userd/internal/platform/metrics"
	"userd/internal/platform/postgres"
	"userd/internal/user/handler"
	"userd/internal/user/store"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal packages.
func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	users, cleanup, err := newStore(cfg)
	if err != nil {
		log.Error("storage init failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	h := handler.New(users, events.NewLogging(log), log, metrics.New())

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.Handler())
	h.Register(r)

	srv := httpserver.New(cfg.Addr, r)

	log.Info("starting userd", "addr", cfg.Addr, "store", cfg.DBImplementation)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// newStore selects the storage backend from configuration. The cleanup
// function closes any pool the backend opened.
func newStore(cfg config.Server) (store.Store, func(), error) {
	if cfg.DBImplementation == config.StoreMemory {
		return store.NewMemory(), func() {}, nil
	}

	db, err := postgres.Open(context.Background(), cfg.DBConnection)
	if err != nil {
		return nil, nil, err
	}
	return store.NewPostgres(db), func() { _ = db.Close() }, nil
}
