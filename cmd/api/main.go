package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/feral-file/ff-asset-aggregator/internal/adapter"
	"github.com/feral-file/ff-asset-aggregator/internal/aggregator"
	"github.com/feral-file/ff-asset-aggregator/internal/api/rest"
	"github.com/feral-file/ff-asset-aggregator/internal/api/server"
	"github.com/feral-file/ff-asset-aggregator/internal/cache"
	"github.com/feral-file/ff-asset-aggregator/internal/config"
	"github.com/feral-file/ff-asset-aggregator/internal/domain"
	"github.com/feral-file/ff-asset-aggregator/internal/logger"
	"github.com/feral-file/ff-asset-aggregator/internal/notification"
	"github.com/feral-file/ff-asset-aggregator/internal/providers/nftscan"
	"github.com/feral-file/ff-asset-aggregator/internal/providers/subgraph"
	"github.com/feral-file/ff-asset-aggregator/internal/ratelimit"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "asset-aggregator",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Feral File Asset Aggregator")

	// Initialize adapters
	clock := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()

	// Redis is optional; without it the cache and rate limiter run locally
	var redisClient adapter.RedisClient
	if cfg.Cache.RedisAddr != "" {
		redisClient = adapter.NewRedisClient(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("Failed to close redis client", zap.Error(err))
			}
		}()
		logger.InfoCtx(ctx, "Using redis-backed cache", zap.String("addr", cfg.Cache.RedisAddr))
	} else {
		logger.WarnCtx(ctx, "No redis configured, using in-memory cache")
	}

	// Rate limit proxy shared by all outbound NFTScan calls
	proxy, err := ratelimit.NewProxy(cfg.RateLimit, redisClient, clock)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create rate limit proxy", zap.Error(err))
	}
	defer func() {
		if err := proxy.Close(); err != nil {
			logger.Warn("Failed to close rate limit proxy", zap.Error(err))
		}
	}()

	// Provider clients
	nftscanHTTP := adapter.NewHTTPClient(cfg.NFTScan.HTTPTimeout)
	nftscanClient := nftscan.NewClient(
		nftscanHTTP,
		proxy,
		map[domain.Chain]string{
			domain.ChainEthereum: cfg.NFTScan.EthBaseURL,
			domain.ChainPolygon:  cfg.NFTScan.PolygonBaseURL,
		},
		cfg.NFTScan.APIKey,
		jsonAdapter,
	)

	subgraphHTTP := adapter.NewHTTPClient(cfg.Subgraph.HTTPTimeout)
	subgraphClient := subgraph.NewClient(
		subgraphHTTP,
		map[domain.Chain]string{
			domain.ChainEthereum: cfg.Subgraph.EthEndpoint,
			domain.ChainPolygon:  cfg.Subgraph.PolygonEndpoint,
		},
		jsonAdapter,
	)

	// Result cache
	var store cache.Store
	if redisClient != nil {
		store = cache.NewRedisStore(redisClient)
	} else {
		store = cache.NewMemoryStore(clock)
	}
	resultCache := cache.NewResultCache(store, jsonAdapter, cfg.Cache.TTL)

	// Notification pipeline
	accumulator := notification.NewAccumulator(nftscanClient)
	waiter := notification.NewWaiter(subgraphClient, clock, cfg.Notify.PollInterval)
	dispatcher := notification.NewWebhookDispatcher(
		adapter.NewHTTPClient(cfg.NFTScan.HTTPTimeout),
		cfg.Notify.ServerURL,
		cfg.Notify.DispatchPoolSize,
	)
	defer dispatcher.Close()

	pipeline := notification.NewPipeline(subgraphClient, waiter, resultCache, dispatcher)
	defer pipeline.Close()

	// Aggregation engine
	engine := aggregator.NewEngine(nftscanClient, subgraphClient, resultCache, accumulator)
	defer engine.Close()

	// REST handler and server
	handler := rest.NewHandler(engine, pipeline, resultCache)
	srv := server.New(server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}, handler)

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, "Server error", zap.Error(err))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	logger.InfoCtx(shutdownCtx, "Shutting down server...")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.FatalCtx(shutdownCtx, "Server forced to shutdown", zap.Error(err))
	}

	// Use non-context logger for final message since original ctx is canceled
	logger.Info("API server stopped")
}
