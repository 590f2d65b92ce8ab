package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/aggregator"
	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/config"
	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/export"
	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/handler"
	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/logging"
	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/provider"
	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/provider/dexscreener"
	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/provider/jupiter"
	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/router"
	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/scheduler"
	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/service"
	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/store"
	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/ws"
)

const (
	providerRequestsPerSecond = 2
	shutdownTimeout           = 10 * time.Second
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Fatal("Redis connection failed")
	}
	logger.Info("Redis connected")

	cache := store.NewSnapshotCache()
	tokenStore := store.NewRedisStore(rdb, cache, cfg.CacheTTL, logger.WithField("component", "store"))

	dexClient := dexscreener.NewClient(provider.NewClient(
		cfg.ProviderTimeout, providerRequestsPerSecond, logger.WithField("provider", "dexscreener")))
	jupClient := jupiter.NewClient(provider.NewClient(
		cfg.ProviderTimeout, providerRequestsPerSecond, logger.WithField("provider", "jupiter")))

	agg := aggregator.New(
		dexClient, jupClient, tokenStore, cache,
		cfg.DexScreenerQuery, cfg.JupiterQuery,
		logger.WithField("component", "aggregator"))

	hub := ws.NewHub(agg, logger.WithField("component", "ws"))
	go hub.Run(ctx)

	if cfg.KafkaBroker != "" {
		publisher, err := export.NewKafkaPublisher(cfg.KafkaBroker, cfg.KafkaTopic, logger.WithField("component", "export"))
		if err != nil {
			logger.WithError(err).Fatal("Kafka producer init failed")
		}
		defer publisher.Close()

		snapshots, cancelSub := agg.Subscribe()
		defer cancelSub()
		go publisher.Run(ctx, snapshots)
	}

	// Seed the first generation before serving; a failure here is not fatal,
	// the scheduler keeps retrying on its interval.
	if err := agg.Refresh(ctx); err != nil {
		logger.WithError(err).Warn("Initial refresh failed")
	}

	go scheduler.New(cfg.RefreshInterval, agg, logger.WithField("component", "scheduler")).Run(ctx)

	tokenService := service.NewTokenService(tokenStore, service.NewCursorCodec(), cfg.MaxPageSize)
	tokenHandler := handler.NewTokenHandler(tokenService, cfg.MaxPageSize, logger.WithField("component", "handler"))

	srv := &http.Server{
		Addr: net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
		Handler: router.New(&router.Config{
			TokenHandler: tokenHandler,
			Hub:          hub,
		}),
	}

	go func() {
		logger.Infof("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("HTTP server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("HTTP server shutdown failed")
	}
}
