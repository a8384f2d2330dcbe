package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/uhyunpark/dexbook/params"
	"github.com/uhyunpark/dexbook/pkg/api"
	"github.com/uhyunpark/dexbook/pkg/orders"
	"github.com/uhyunpark/dexbook/pkg/util"
)

func main() {
	// Load config from .env file and environment variables
	cfg := params.LoadFromEnv("") // "" means load from .env in current directory

	logger, err := util.NewLoggerWithFile(cfg.LogFile)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()
	sugar.Infow("logger_initialized", "log_file", cfg.LogFile)

	// ---- Order source ----
	var source orders.Source
	switch cfg.Proxy.Source {
	case "http":
		if cfg.Proxy.SourceURL == "" {
			sugar.Fatal("ORDER_SOURCE=http requires ORDER_SOURCE_URL")
		}
		source = orders.NewHTTPSource(cfg.Proxy.SourceURL, &http.Client{Timeout: cfg.Proxy.SourceTimeout})
		sugar.Infow("order_source", "kind", "http", "url", cfg.Proxy.SourceURL)
	case "file":
		source = &orders.FileSource{Dir: cfg.Proxy.FixturesDir}
		sugar.Infow("order_source", "kind", "file", "dir", cfg.Proxy.FixturesDir)
	default:
		sugar.Fatalw("unknown_order_source", "source", cfg.Proxy.Source)
	}

	// Optional response cache
	if cfg.Proxy.RedisAddr != "" {
		cache := orders.NewRedisCache(cfg.Proxy.RedisAddr)
		defer cache.Close()
		source = &orders.CachedSource{Source: source, Cache: cache, TTL: cfg.Proxy.CacheTTL, Logger: sugar}
		sugar.Infow("cache_enabled", "redis_addr", cfg.Proxy.RedisAddr, "ttl_ms", cfg.Proxy.CacheTTL.Milliseconds())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- API Server ----
	server := api.NewServer(source, sugar, api.Options{
		SourceTimeout:    cfg.Proxy.SourceTimeout,
		VerifySignatures: cfg.Proxy.VerifySignatures,
		AllowedOrigins:   cfg.Proxy.AllowedOrigins,
	})

	sugar.Infow("api_server_starting",
		"addr", cfg.Proxy.Addr,
		"verify_signatures", cfg.Proxy.VerifySignatures,
		"source_timeout_ms", cfg.Proxy.SourceTimeout.Milliseconds())

	if err := server.Start(ctx, cfg.Proxy.Addr); err != nil && err != http.ErrServerClosed {
		sugar.Fatalw("api_server_failed", "err", err)
	}
	sugar.Info("api_server_stopped")
}
