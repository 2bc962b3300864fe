package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	server "service_directory/internal/adapters/http_server"
	"service_directory/internal/adapters/observability"
	redisad "service_directory/internal/adapters/redis"
	"service_directory/internal/app"
	"service_directory/internal/domain"
	"service_directory/internal/shared"
	"service_directory/internal/storage/memory"
	"service_directory/internal/storage/sqlkv"
)

func main() {
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// storage
	durable, closeDurable, err := openDurable(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("durable storage open failed")
	}
	defer closeDurable()
	log.Info().Str("driver", cfg.Storage.Driver).Msg("durable storage ok")

	session, closeSession := openSession(cfg)
	defer closeSession()

	// deps
	store := app.NewListingStore(durable, observability.Component(log.Logger, "listing_store"))
	store.Subscribe(observability.ObserveListings)
	store.Initialize(ctx)
	gate := app.NewAdminGate(durable, session, observability.Component(log.Logger, "admin_gate"))

	// http
	srv := server.New(cfg.RequestTimeout, cfg.RateLimitRPS)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Store: store, Gate: gate})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	metricsSrv := observability.NewMetricsServer(cfg.MetricsAddr, reg)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		return listen(httpSrv)
	})
	if metricsSrv != nil {
		g.Go(func() error {
			log.Info().Str("addr", cfg.MetricsAddr).Msg("metrics server listening")
			return listen(metricsSrv)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := httpSrv.Shutdown(shutdownCtx)
		if metricsSrv != nil {
			err = errors.Join(err, metricsSrv.Shutdown(shutdownCtx))
		}
		return err
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("shutdown complete")
}

func listen(s *http.Server) error {
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func openDurable(ctx context.Context, cfg shared.Config) (domain.KeyValueStore, func(), error) {
	switch cfg.Storage.Driver {
	case "memory":
		log.Warn().Msg("memory storage: listings will not survive a restart")
		return memory.NewDurable(), func() {}, nil
	case "redis":
		rs := redisad.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix, 0)
		if err := rs.Ping(ctx); err != nil {
			return nil, nil, err
		}
		return rs, func() { _ = rs.Close() }, nil
	default:
		s, err := sqlkv.Open(ctx, cfg.Storage.Driver, cfg.Storage.DSN)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	}
}

func openSession(cfg shared.Config) (domain.KeyValueStore, func()) {
	if cfg.Session.Driver == "redis" {
		rs := redisad.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix+"session:", cfg.Session.TTL)
		return rs, func() { _ = rs.Close() }
	}
	return memory.NewSession(cfg.Session.TTL), func() {}
}
