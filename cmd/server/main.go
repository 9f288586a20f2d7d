package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/divvyhq/divvy/internal/handlers"
	"github.com/divvyhq/divvy/internal/metrics"
	"github.com/divvyhq/divvy/internal/service"
	"github.com/divvyhq/divvy/internal/storage"
	"github.com/divvyhq/divvy/internal/storage/memory"
	redisstore "github.com/divvyhq/divvy/internal/storage/redis"
	"github.com/divvyhq/divvy/internal/storage/sqlite"
	"github.com/divvyhq/divvy/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// newStore selects the storage backend from the STORE env var.
func newStore(ctx context.Context) (storage.Store, error) {
	backend := getEnv("STORE", "redis")
	switch backend {
	case "redis":
		addr := getEnv("REDIS_ADDR", "localhost:6379")
		slog.Info("using redis storage", "addr", addr)
		return redisstore.New(ctx, addr, os.Getenv("REDIS_PASSWORD"))
	case "sqlite":
		dbPath := getEnv("DB_PATH", "./data/divvy.db")
		slog.Info("using sqlite storage", "database", dbPath)
		return sqlite.New(dbPath)
	case "memory":
		slog.Warn("using in-memory storage, state is lost on restart")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown STORE backend %q", backend)
	}
}

func main() {
	logging.Setup()

	store, err := newStore(context.Background())
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	expenseSvc := service.NewExpenseService(store)
	userSvc := service.NewUserService(store)
	groupSvc := service.NewGroupService(store, store)

	app := fiber.New(fiber.Config{
		AppName:      "divvy",
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Use(cors.New())
	app.Use(handlers.RequestLogger())
	handlers.New(expenseSvc, userSvc, groupSvc).Register(app)

	// Metrics on a separate listener so the API surface stays clean.
	metricsAddr := getEnv("METRICS_ADDR", ":9090")
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		slog.Info("metrics server starting", "address", metricsAddr)
		if err := http.ListenAndServe(metricsAddr, mux); err != nil {
			slog.Error("metrics server failed", "error", err)
		}
	}()

	addr := fmt.Sprintf(":%s", getEnv("PORT", "3000"))
	slog.Info("server starting", "address", addr)
	if err := app.Listen(addr); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
