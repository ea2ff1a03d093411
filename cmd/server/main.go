// Package main initializes and starts the to-do HTTP server, setting up
// configuration, logging, storage, services, handlers and rate limiting.
package main

import (
	"cmp"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/GophTodo/internal/config"
	"github.com/atinyakov/GophTodo/internal/db"
	"github.com/atinyakov/GophTodo/internal/logger"
	"github.com/atinyakov/GophTodo/internal/middleware"
	"github.com/atinyakov/GophTodo/internal/repository"
	"github.com/atinyakov/GophTodo/internal/server/handler/http"
	"github.com/atinyakov/GophTodo/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options, err := config.ParseServer(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Log.Sync() }()
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	secret := []byte(options.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			zapLogger.Fatal("cannot generate jwt secret", zap.Error(err))
		}
		zapLogger.Warn("no JWT secret configured, tokens will not survive a restart")
	}
	tokens := service.NewTokenManager(secret, options.TokenTTL)

	// Initialize repositories: PostgreSQL when a DSN is configured, memory otherwise.
	var (
		authRepo service.AuthRepository
		todoRepo service.TodoRepository
	)
	if options.DatabaseDSN != "" {
		postgresDB, err := db.InitPostgres(ctx, options.DatabaseDSN)
		if err != nil {
			zapLogger.Fatal("cannot init database", zap.Error(err))
		}
		defer postgresDB.Close()
		authRepo = repository.NewPostgresAuthRepository(postgresDB)
		todoRepo = repository.NewPostgresTodoRepository(postgresDB)
	} else {
		zapLogger.Warn("no database configured, data is kept in memory")
		mem := repository.NewMemoryRepository()
		authRepo, todoRepo = mem, mem
	}

	// Initialize business-logic services.
	authService := service.NewAuthService(authRepo, tokens)
	todoService := service.NewTodoService(todoRepo)

	// Create HTTP handlers for auth and todo endpoints.
	authHandler := &http.AuthHandler{AuthService: authService, Logger: zapLogger}
	todoHandler := &http.TodoHandler{TodoService: todoService, Logger: zapLogger}

	limiter := middleware.NewIPRateLimiter(options.LoginRPS, options.LoginBurst)
	limiter.StartSweeper(ctx, time.Minute)

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, todoHandler, tokens, limiter, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}
