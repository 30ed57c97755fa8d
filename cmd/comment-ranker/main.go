package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/comment-ranker/internal/config"
	"github.com/pribylovaa/comment-ranker/internal/metrics"
	"github.com/pribylovaa/comment-ranker/internal/service"
	"github.com/pribylovaa/comment-ranker/internal/storage"
	"github.com/pribylovaa/comment-ranker/internal/storage/cache"
	crmongo "github.com/pribylovaa/comment-ranker/internal/storage/mongo"
	crhttp "github.com/pribylovaa/comment-ranker/internal/transport/http"
)

// Константы окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting comment-ranker", "env", cfg.Env)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	dbCtx, dbCancel := context.WithTimeout(rootCtx, 10*time.Second)
	mongoStore, err := crmongo.New(dbCtx, cfg)
	dbCancel()
	if err != nil {
		log.Error("mongo_connect_failed", slog.String("err", err.Error()))
		rootCancel()
		os.Exit(1)
	}
	log.Info("mongo_connected")

	var store storage.Storage = mongoStore
	if cfg.Redis.URL != "" {
		redisCtx, redisCancel := context.WithTimeout(rootCtx, 5*time.Second)
		rdb, err := cache.Dial(redisCtx, cfg.Redis.URL)
		redisCancel()
		if err != nil {
			log.Error("redis_connect_failed", slog.String("err", err.Error()))
			rootCancel()
			_ = mongoStore.Close(context.Background())
			os.Exit(1)
		}

		store = cache.New(mongoStore, rdb, cfg.Redis.TTL)
		log.Info("redis_connected", slog.Duration("ttl", cfg.Redis.TTL))
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	svc := service.New(store, *cfg, service.WithMetrics(m))
	log.Info("service_initialized")

	sessionsDone := make(chan struct{})
	go func() {
		defer close(sessionsDone)
		_ = svc.Run(rootCtx)
	}()

	// HTTP API + readiness/liveness/metrics
	var ready int32 // 0 — not ready; 1 — ready
	httpAddr := cfg.HTTP.Addr()

	mux := chi.NewRouter()
	mux.Get("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if atomic.LoadInt32(&ready) != 1 {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := mongoStore.Ping(ctx); err != nil {
			http.Error(w, "db unavailable", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.Mount("/", crhttp.NewRouter(svc, crhttp.Options{
		Logger:  log,
		Metrics: m,
		Timeout: cfg.Timeouts.Service,
	}))

	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErrCh := make(chan error, 1)
	go func() {
		log.Info("http_listen_start", "addr", httpAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	atomic.StoreInt32(&ready, 1)

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_force_stop", slog.String("err", err.Error()))
		_ = httpSrv.Close()
	}
	shutdownCancel()

	rootCancel()
	<-sessionsDone

	if err := store.Close(context.Background()); err != nil {
		log.Warn("store_close_failed", slog.String("err", err.Error()))
	}

	log.Info("service_stopped")
	os.Exit(0)
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
