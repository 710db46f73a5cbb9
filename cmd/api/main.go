package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"

	_ "github.com/sparkmeet/sparkmeet-backend/docs" // Swagger docs (generated)
	"github.com/sparkmeet/sparkmeet-backend/internal/auth"
	"github.com/sparkmeet/sparkmeet-backend/internal/config"
	"github.com/sparkmeet/sparkmeet-backend/internal/database"
	httpServer "github.com/sparkmeet/sparkmeet-backend/internal/http"
	"github.com/sparkmeet/sparkmeet-backend/internal/logging"
	"github.com/sparkmeet/sparkmeet-backend/internal/user"
)

// @title           SparkMeet API
// @version         1.0
// @description     Identity and session backend for the SparkMeet dating app: credential and Google sign-in, token rotation, and profile management.

// @contact.name   API Support
// @contact.email  support@sparkmeet.example

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"token_backend", cfg.Auth.TokenBackend,
	)

	// Initialize database connection
	db, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// Initialize token service for the configured backend
	tokenService, err := initTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	// Initialize the Google ID token verifier
	verifier, err := auth.NewGoogleVerifier(context.Background())
	if err != nil {
		return fmt.Errorf("failed to initialize google verifier: %w", err)
	}

	// Initialize repositories
	userRepo := user.NewRepository(db)

	// Initialize auth service
	authService := auth.NewService(
		userRepo,
		tokenService,
		verifier,
		logger,
		cfg.Google.ClientID,
		cfg.Auth.AccessTokenDuration,
		cfg.Auth.RefreshTokenDuration,
	)

	// Initialize HTTP handlers
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userRepo)

	// Initialize router
	router := httpServer.NewRouter(cfg, authHandler, userHandler, tokenService, logger)

	// Initialize HTTP server
	serverAddr := ":" + cfg.Server.Port
	server := httpServer.NewServer(
		serverAddr,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Printf("Received signal: %v", sig)

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// openDB opens and verifies the Postgres connection and returns the Bun DB
// for the accounts store.
func openDB(cfg config.DatabaseConfig) (*bun.DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return database.NewBunDB(sqlDB), nil
}

// initTokenService picks the token backend. Both backends sign with the
// same configured secret; switching backends invalidates outstanding tokens.
func initTokenService(cfg config.AuthConfig) (auth.TokenService, error) {
	switch cfg.TokenBackend {
	case config.TokenBackendPaseto:
		return auth.NewPasetoService(cfg.SecretKey)
	default:
		return auth.NewJWTService(cfg.SecretKey), nil
	}
}
