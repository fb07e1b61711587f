// Package server provides the HTTP server implementation for the Tastebook API.
// It handles routing, middleware configuration, and server lifecycle management.
//
// The server follows a structured initialization approach with dependency
// injection and proper lifecycle management, including graceful shutdown on
// SIGINT and SIGTERM.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/tastebook/tastebook/internal/auth"
	"github.com/tastebook/tastebook/internal/config"
	"github.com/tastebook/tastebook/internal/constants"
	"github.com/tastebook/tastebook/internal/database"
	"github.com/tastebook/tastebook/internal/handlers"
	"github.com/tastebook/tastebook/internal/repository"
	"github.com/tastebook/tastebook/internal/service"
	"github.com/tastebook/tastebook/internal/utils/ratelimit"
	"github.com/tastebook/tastebook/migrations"
)

// Handlers contains all HTTP handlers for the application.
// It centralizes handler management for consistent request processing
// and simplifies dependency injection throughout the application.
type Handlers struct {
	// AuthHandler manages registration, login, and account endpoints
	AuthHandler *handlers.AuthHandler

	// PasswordResetHandler manages the forgot/reset password flow
	PasswordResetHandler *handlers.PasswordResetHandler

	// RecipeHandler manages recipe CRUD and photo upload endpoints
	RecipeHandler *handlers.RecipeHandler

	// LikeHandler manages like, unlike, and like-listing endpoints
	LikeHandler *handlers.LikeHandler
}

// AuthProviders contains authentication dependencies shared between
// services and middleware.
type AuthProviders struct {
	// JWTService handles session token generation and validation
	JWTService *auth.JWTService

	// PasswordCfg contains password hashing configuration
	PasswordCfg *auth.PasswordConfig
}

// repositories holds all repositories used by the server.
type repositories struct {
	userRepo   repository.UserRepository
	recipeRepo repository.RecipeRepository
}

// services holds all business services used by the server.
type services struct {
	authService   *service.AuthService
	resetService  *service.PasswordResetService
	recipeService *service.RecipeService
}

// Server represents the Tastebook API server. It encapsulates all server
// components and handles the server lifecycle, including initialization,
// startup, and graceful shutdown.
type Server struct {
	// Config contains application configuration
	Config *config.AppConfig

	// Db provides database access
	Db *database.Pool

	// router handles HTTP routing
	router chi.Router

	// Handlers contains all HTTP request handlers
	Handlers *Handlers

	// authProviders contains authentication services
	authProviders *AuthProviders

	// repos contains the data access layer
	repos *repositories

	// svcs contains the business services
	svcs *services

	// limiterStore tracks per-client rate limiters for credential endpoints
	limiterStore *ratelimit.Store

	// httpServer is the underlying HTTP server
	httpServer *http.Server
}

// NewServer creates a new server instance with all required components.
//
// Initialization follows a specific order to ensure proper dependency
// management: database → auth providers → repositories → services →
// handlers → routes.
func NewServer(cfg *config.AppConfig) (*Server, error) {
	s := &Server{
		Config: cfg,
	}

	if err := s.setupDatabase(); err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	s.setupAuthProviders()
	s.setupRepositories()

	if err := s.setupServices(); err != nil {
		return nil, fmt.Errorf("failed to set up services: %w", err)
	}

	s.setupHandlers()
	s.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Server.ServerAddress(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  constants.DefaultIdleTimeout,
	}

	return s, nil
}

// setupDatabase initializes the database connection and runs migrations,
// so the schema is up to date before any request is served.
func (s *Server) setupDatabase() error {
	db, err := database.Connect(&s.Config.Database)
	if err != nil {
		return err
	}

	s.Db = db

	migrator := migrations.NewMigrator(db)
	if err := migrator.RunMigrations(context.Background()); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	return nil
}

// setupAuthProviders initializes the session token service and the
// password hashing configuration.
func (s *Server) setupAuthProviders() {
	s.authProviders = &AuthProviders{
		JWTService:  auth.NewJWTService(&s.Config.JWT),
		PasswordCfg: auth.ConfigFromAppConfig(s.Config),
	}
}

// setupRepositories initializes the data access layer.
func (s *Server) setupRepositories() {
	s.repos = &repositories{
		userRepo:   repository.NewUserRepository(s.Db),
		recipeRepo: repository.NewRecipeRepository(s.Db),
	}
}

// setupServices initializes all business services using the previously
// initialized repositories and auth providers.
func (s *Server) setupServices() error {
	if s.authProviders == nil || s.authProviders.JWTService == nil {
		return fmt.Errorf("JWT service not initialized")
	}
	if s.authProviders.PasswordCfg == nil {
		return fmt.Errorf("password config not initialized")
	}

	emailService, err := service.NewEmailService(&s.Config.Email)
	if err != nil {
		return fmt.Errorf("failed to set up email service: %w", err)
	}

	uploadDir := s.Config.Uploads.Dir
	if uploadDir == "" {
		uploadDir = constants.DefaultUploadDir
	}

	s.svcs = &services{
		authService: service.NewAuthService(
			s.repos.userRepo,
			s.authProviders.JWTService,
			s.authProviders.PasswordCfg,
		),
		resetService: service.NewPasswordResetService(
			s.repos.userRepo,
			emailService,
			s.authProviders.JWTService,
			s.authProviders.PasswordCfg,
			&s.Config.PasswordReset,
		),
		recipeService: service.NewRecipeService(
			s.repos.recipeRepo,
			uploadDir,
			s.Config.Uploads.MaxFileSize,
		),
	}

	return nil
}

// setupHandlers initializes all HTTP request handlers using the previously
// initialized services.
func (s *Server) setupHandlers() {
	tokenExpiry := s.authProviders.JWTService.Expiry()
	secureCookie := s.Config.App.IsProduction()

	s.Handlers = &Handlers{
		AuthHandler:          handlers.NewAuthHandler(s.svcs.authService, tokenExpiry, secureCookie),
		PasswordResetHandler: handlers.NewPasswordResetHandler(s.svcs.resetService, tokenExpiry, secureCookie),
		RecipeHandler:        handlers.NewRecipeHandler(s.svcs.recipeService),
		LikeHandler:          handlers.NewLikeHandler(s.svcs.recipeService),
	}
}

// Start starts the HTTP server and blocks until the server fails or a
// shutdown signal is received, in which case it shuts down gracefully.
func (s *Server) Start() error {
	serverErrors := make(chan error, 1)

	go func() {
		log.Info().
			Str("address", s.Config.Server.ServerAddress()).
			Msg("Starting server")

		serverErrors <- s.httpServer.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			if closeErr := s.httpServer.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete before releasing resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	log.Info().Msg("Server stopped gracefully")

	if s.limiterStore != nil {
		s.limiterStore.Close()
	}

	s.Db.Close()
	log.Info().Msg("Database connection closed")

	return nil
}

// GetRouter returns the configured router. It is primarily used for testing.
func (s *Server) GetRouter() chi.Router {
	return s.router
}
