package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/jupiter-solana/internal/config"
	"github.com/aman-zulfiqar/jupiter-solana/internal/flags"
	"github.com/aman-zulfiqar/jupiter-solana/internal/server"
	"github.com/aman-zulfiqar/jupiter-solana/internal/swapengine"
)

// env bootstrap function
func loadEnv(logger *logrus.Logger) {
	// Get the project root directory (where go.mod is)
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		logger.Warnf("no .env file found at %s, using system environment variables", envPath)
	} else {
		logger.Infof("loaded .env from %s", envPath)
	}
}

// main is the entry point for the API server
// It initializes all dependencies and starts the HTTP server with graceful shutdown
func main() {
	// Initialize structured logger with custom formatting
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	// load .env BEFORE anything reads os.Getenv
	loadEnv(logger)

	// Load and validate configuration from environment variables
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown (Ctrl+C, SIGTERM)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Redis is optional: it backs the execution journal and the switches
	var rclient *redis.Client
	var switches server.SwitchStore
	if cfg.RedisAddr != "" {
		rclient = redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   0, // Use default database for main application
		})
		if err := rclient.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Fatal("failed to connect to Redis")
		}

		store, err := flags.NewStore(rclient)
		if err != nil {
			logger.WithError(err).Fatal("failed to create switch store")
		}
		switches = store
	}

	// Build the engine; it takes ownership of the Redis client
	var shared redis.UniversalClient
	if rclient != nil {
		shared = rclient
	}
	engine, err := swapengine.Open(ctx, cfg, shared, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to create swap engine")
	}
	defer func() {
		if err := engine.Close(); err != nil {
			logger.WithError(err).Warn("engine close")
		}
	}()

	// Create handlers with all dependencies injected
	h := &server.Handlers{
		Engine:   engine,              // Quotes, execution and order queries
		Switches: switches,            // Execution switches (nil without Redis)
		Journal:  cfg.RedisAddr != "", // Recent executions are served from Redis
		DevMode:  cfg.DevMode,         // Enable detailed error responses in development
		Logger:   logger,              // Structured logger
	}

	// Create HTTP server with configuration and handlers
	srv, err := server.NewServer(server.ServerDeps{
		Handlers: h,
		Config: server.ServerConfig{
			Addr:    cfg.APIAddr, // Server bind address (e.g., ":8090")
			DevMode: cfg.DevMode, // Development mode flag
			APIKey:  cfg.APIKey,  // Optional API key for authentication
		},
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create http server")
	}

	// Setup graceful shutdown in a separate goroutine
	go func() {
		<-sigCh // Wait for shutdown signal
		logger.Info("shutting down")
		cancel()                               // Cancel context to stop ongoing operations
		_ = srv.Shutdown(context.Background()) // Gracefully shutdown HTTP server
	}()

	// Start the HTTP server
	logger.WithFields(logrus.Fields{
		"addr":     cfg.APIAddr,
		"can_sign": engine.CanSign(),
	}).Info("api server starting")
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("api server failed")
	}

	// Wait for server to be fully shut down
	if err := srv.WaitClosed(context.Background()); err != nil {
		logger.WithError(err).Warn("wait for shutdown")
	}
}
