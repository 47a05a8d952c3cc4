package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mohammed-shakir/healpix-geo/internal/cache/mocstore"
	"github.com/mohammed-shakir/healpix-geo/internal/cache/redisstore"
	"github.com/mohammed-shakir/healpix-geo/internal/core/config"
	"github.com/mohammed-shakir/healpix-geo/internal/core/health"
	"github.com/mohammed-shakir/healpix-geo/internal/core/router"
	"github.com/mohammed-shakir/healpix-geo/internal/core/server"
	"github.com/mohammed-shakir/healpix-geo/internal/dispatch"
	"github.com/mohammed-shakir/healpix-geo/internal/ellipsoid"
	"github.com/mohammed-shakir/healpix-geo/internal/logger"
	"github.com/mohammed-shakir/healpix-geo/internal/metrics"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	envFile := flag.String("env", ".env", "optional dotenv file")
	flag.Parse()

	// a missing file is fine; real environment variables always win
	_ = godotenv.Load(*envFile)

	cfg := config.FromEnv()

	zl := logger.Build(logger.Config{
		Level:     cfg.Log.Level,
		Console:   cfg.Log.Console,
		SampleN:   int(cfg.Log.SampleN),
		Service:   "healpixd",
		Component: "api",
	}, os.Stdout)
	appLog := logger.NewSlog(&zl)

	strategy, err := dispatch.ParseStrategy(cfg.Dispatch.Strategy)
	if err != nil {
		appLog.Error("invalid dispatch strategy", "err", err)
		return 1
	}
	dispatch.Configure(dispatch.New(
		dispatch.WithStrategy(strategy),
		dispatch.WithChunk(cfg.Dispatch.Chunk),
		dispatch.WithLogger(appLog),
	))

	if _, err := ellipsoid.Resolve(ellipsoid.Named(cfg.DefaultEllipsoid)); err != nil {
		appLog.Error("invalid default ellipsoid", "ellipsoid", cfg.DefaultEllipsoid, "err", err)
		return 1
	}

	appLog.Info("starting healpixd",
		"addr", cfg.Addr,
		"version", Version,
		"strategy", strategy.String(),
		"workers", dispatch.Workers(cfg.Dispatch.Workers),
		"ellipsoid", cfg.DefaultEllipsoid,
		"store", cfg.Store.Enabled)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := metrics.Init(metrics.Config{
		Strategy: strategy.String(),
		Workers:  dispatch.Workers(cfg.Dispatch.Workers),
		Build: metrics.BuildInfo{
			Version:   Version,
			Revision:  os.Getenv("BUILD_REVISION"),
			Branch:    os.Getenv("BUILD_BRANCH"),
			BuildDate: os.Getenv("BUILD_DATE"),
		},
	})
	if cfg.Metrics.Enabled {
		go serveMetrics(ctx, appLog, cfg.Metrics, p.Handler())
	}

	opts := router.Options{
		DefaultEllipsoid: ellipsoid.Named(cfg.DefaultEllipsoid),
		Workers:          cfg.Dispatch.Workers,
	}
	ready := map[string]health.Pinger{}
	if cfg.Store.Enabled {
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		cli, err := redisstore.New(dialCtx, cfg.Store.RedisAddr)
		cancel()
		if err != nil {
			appLog.Error("redis connect failed", "addr", cfg.Store.RedisAddr, "err", err)
			return 1
		}
		defer func() { _ = cli.Close() }()

		st, err := mocstore.New(cli, mocstore.Config{
			TTL:       cfg.Store.TTL,
			LRUSize:   cfg.Store.LRUSize,
			OpTimeout: cfg.Store.OpTimeout,
		}, appLog)
		if err != nil {
			appLog.Error("coverage store setup failed", "err", err)
			return 1
		}
		opts.Store = st
		ready["redis"] = cli
	}

	deps := server.Deps{API: router.New(appLog, opts), Ready: ready}
	if err := server.Run(ctx, cfg, appLog, deps); err != nil {
		appLog.Error("server exited with error", "err", err)
		return 1
	}
	appLog.Info("server stopped")
	return 0
}

func serveMetrics(ctx context.Context, log *slog.Logger, cfg config.MetricsCfg, h http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, h)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("metrics shutdown error", "err", err)
		}
	}()

	log.Info("metrics listen", "addr", cfg.Addr, "path", cfg.Path)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("metrics server exited", "err", err)
	}
}
