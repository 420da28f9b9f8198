package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"showerroom-status-backend/config"
	"showerroom-status-backend/internal/api"
	"showerroom-status-backend/internal/db"
	"showerroom-status-backend/internal/events"
	"showerroom-status-backend/internal/notification"
	"showerroom-status-backend/internal/occupancy"
	"showerroom-status-backend/internal/seed"
	"showerroom-status-backend/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "showerroom-backend ", log.LstdFlags)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Printf("failed to read .env: %v", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	var gormDB *gorm.DB
	if cfg.NeedsDatabase() {
		gormDB, err = db.Init(&cfg.Database)
		if err != nil {
			logger.Fatalf("failed to initialize database: %v", err)
		}
		logger.Printf("database initialized successfully (%s)", cfg.Database.Driver)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sections store.Store
	switch cfg.Storage.Backend {
	case config.BackendDatabase:
		sections = store.NewGormStore(gormDB)
	default:
		sections = store.NewMemoryStore()
	}
	logger.Printf("section store initialized (%s)", cfg.Storage.Backend)

	if cfg.Storage.SeedFile != "" {
		entries, err := seed.Load(cfg.Storage.SeedFile)
		if err != nil {
			logger.Fatalf("failed to load seed file: %v", err)
		}
		created, err := seed.Apply(ctx, sections, entries)
		if err != nil {
			logger.Fatalf("failed to seed sections: %v", err)
		}
		logger.Printf("seeded %d sections from %s", created, cfg.Storage.SeedFile)
	}

	hub := events.NewHub()
	service := occupancy.NewService(sections, hub)

	var webpushOptions *webpush.Options
	if cfg.Push.Enabled {
		if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
			logger.Fatalf("VAPID keys must be configured when push is enabled.")
		}
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}

		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, sections, webpushOptions)
		pool.Start(ctx)
		go notification.NewBridge(hub, pool).Run(ctx)
		logger.Printf("push notifications enabled with %d workers", cfg.WorkerPool.Size)
	}

	handler := api.NewHandler(service, hub, gormDB, webpushOptions)
	router := api.NewRouter(cfg.Server, handler)
	server := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:     router,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	// Open event streams only end when their request context does.
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
