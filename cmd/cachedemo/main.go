package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kvgrid/rattlecache/internal/cache"
	"github.com/kvgrid/rattlecache/internal/config"
	"github.com/kvgrid/rattlecache/internal/memoize"
	"github.com/kvgrid/rattlecache/internal/metrics"
	"github.com/rs/zerolog"
)

func main() {
	cfg := config.GetConfig()
	logger := config.GetLogger()

	logger.Info().
		Int("memory_limit_mb", cfg.Cache.MemoryLimitMB).
		Str("mode", cfg.Cache.Mode).
		Int("serialize_limit_mb", cfg.Cache.SerializeLimitMB).
		Str("group", cfg.Cache.Group).
		Msg("Application started with configuration")

	c, err := cache.New(cache.Options{
		MemoryLimitMB:    cfg.Cache.MemoryLimitMB,
		Mode:             cache.Mode(cfg.Cache.Mode),
		SerializeLimitMB: cfg.Cache.SerializeLimitMB,
		Group:            cfg.Cache.Group,
		Logger:           &logger,
		ReportErrors:     cfg.Sentry.DSN != "",
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to construct cache")
	}
	defer c.Close()

	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewHTTPServer(cfg.Metrics.Address, cfg.Metrics.Port)
		go func() {
			logger.Info().Str("address", metricsServer.Addr).Msg("Starting Prometheus metrics HTTP server")
			if err := metricsServer.ListenAndServe(); err != nil && err.Error() != "http: Server closed" {
				logger.Fatal().Err(err).Msg("Failed to serve metrics")
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Error().Err(err).Msg("Failed to shutdown metrics server")
			}
		}()
	}

	runDemo(c, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	if cfg.Metrics.Enabled {
		sig := <-sigChan
		logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	}
	logger.Info().Msg("Server stopped gracefully")
}

// runDemo exercises the cache's core surface and the memoization adapter
// over a handful of calls, logging each step.
func runDemo(c *cache.Cache, logger zerolog.Logger) {
	if err := c.Put("greeting", "hello, cache"); err != nil {
		logger.Error().Err(err).Msg("put failed")
		return
	}
	v, err := c.Get("greeting")
	if err != nil {
		logger.Error().Err(err).Msg("get failed")
		return
	}
	logger.Info().Interface("value", v).Msg("demo: put/get round-trip")

	var calls int
	expensive := memoize.Args(c, "demo.expensive", func(args []any, kwargs map[string]any) (any, error) {
		calls++
		return fmt.Sprintf("computed-%d", calls), nil
	})

	first, _ := expensive([]any{42}, nil, false)
	second, _ := expensive([]any{42}, nil, false)
	logger.Info().
		Interface("first", first).
		Interface("second", second).
		Int("wrapped_function_calls", calls).
		Msg("demo: memoized argument-keyed call")
}
