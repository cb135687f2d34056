package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"mealgate/internal/dispatch"
	dispatchsqlite "mealgate/internal/dispatch/dispatchlog/sqlite"
	"mealgate/internal/gateway/core/ports"
	"mealgate/internal/gateway/infra/adapters/service"
	"mealgate/internal/gateway/infra/adapters/store"
	"mealgate/internal/gateway/infra/adapters/upstream"
	"mealgate/internal/gateway/infra/httpx"
	"mealgate/internal/pkg/cache"
	"mealgate/internal/pkg/metrics"
	"mealgate/internal/pkg/telemetry"
)

const catalogTTL = 30 * time.Second

func main() {
	// Missing .env is fine; env vars win either way.
	_ = godotenv.Load()

	telemetry.InitLogger(getEnv("OTEL_SERVICE_NAME", "mealgate"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "mealgate"))
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	redisCache := cache.NewRedisCache(getEnv("REDIS_ADDR", "localhost:6379"), "mealgate")
	lastOrders := store.NewLastOrderStore(redisCache)
	carts := store.NewCartStore(redisCache)

	// Without an upstream the gateway runs against the local catalog and
	// order submission degrades to a recorded no-op.
	var source ports.MealSource
	var backend ports.OrderBackend
	if baseURL := os.Getenv("UPSTREAM_BASE_URL"); baseURL != "" {
		client := upstream.New(baseURL)
		source = client
		backend = client
	} else {
		slog.Warn("UPSTREAM_BASE_URL not set, using local catalog and skipping order submission")
		source = service.NewLocalCatalog(redisCache)
	}

	logPath := getEnv("DISPATCH_LOG_PATH", "data/dispatch.db")
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		slog.Error("failed to create dispatch log directory", "path", logPath, "error", err)
		os.Exit(1)
	}
	dispatchLog, err := dispatchsqlite.Open(logPath)
	if err != nil {
		slog.Error("failed to open dispatch log", "path", logPath, "error", err)
		os.Exit(1)
	}
	defer dispatchLog.Close()

	catalog := service.NewCatalogService(source, catalogTTL)
	cartService := service.NewCartService(carts, catalog)
	orderService := service.NewOrderService(catalog, backend, carts, lastOrders)
	dispatcher := dispatch.New(backend, dispatchLog)

	handler := httpx.NewHandler(catalog, cartService, orderService, dispatcher)
	router := httpx.NewRouter(handler, metrics.NewServerMetrics("gateway"))

	addr := ":" + getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           otelhttp.NewHandler(router, "mealgate"),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("gateway running", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
