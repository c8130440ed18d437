// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the composition root: handlers, services, repositories, and
// middleware are all wired together here, so each layer only receives the
// interfaces it programs against. main.go stays minimal — read config,
// call New, call Start.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/pastebin/internal/auth"
	"github.com/sakif/pastebin/internal/handler"
	"github.com/sakif/pastebin/internal/middleware"
	sqliteRepo "github.com/sakif/pastebin/internal/repository/sqlite"
	"github.com/sakif/pastebin/internal/service"
)

// Config holds server configuration, loaded from the environment in main.
type Config struct {
	Port        int
	TemplateDir string
	StaticDir   string
	DBPath      string

	// JWTSecret signs and verifies every issued token. Required.
	JWTSecret string

	// AdminPassword overrides the seeded admin account's password.
	// Empty means the documented weak default ("admin").
	AdminPassword string

	// GitHub OAuth is optional — routes register only when both
	// credentials are set.
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// Server owns the router and the database connection; the connection is
// closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New wires the full dependency chain and seeds the bootstrap admin account.
//
// Chain: sqlite.DB → services → handlers → routes. The admin seed runs here
// (not in a handler, not lazily) so it happens exactly once per process,
// before the server accepts a single request.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	snippetService := service.NewSnippetService(s.db, s.logger)

	// Idempotent bootstrap: creates admin/admin only when no admin exists.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := authService.EnsureAdminUser(ctx, s.config.AdminPassword); err != nil {
		return fmt.Errorf("seeding admin user: %w", err)
	}

	var github *auth.GitHubProvider
	if s.config.GitHubClientID != "" && s.config.GitHubClientSecret != "" {
		github = auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.GitHubCallbackURL,
		)
	}

	authHandler := handler.NewAuthHandler(authService, github, s.logger)
	snippetHandler := handler.NewSnippetHandler(snippetService, s.logger)
	adminHandler := handler.NewAdminHandler(authService, s.logger)

	// Global middleware — order matters: request ID and real IP first,
	// recoverer before anything that can panic, then logging and CORS.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.CORS)

	// Browser client.
	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	pagesHandler, err := handler.NewPagesHandler(s.config.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating pages handler: %w", err)
	}
	s.router.Get("/", pagesHandler.HandleIndex)

	if github != nil {
		s.router.Get("/auth/github/login", authHandler.HandleGitHubLogin)
		s.router.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
	} else {
		s.logger.Info("GitHub OAuth not configured — /auth/github routes disabled")
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)

		// Public read: anyone holding a snippet ID can fetch it.
		r.Get("/snippets/{id}", snippetHandler.HandleGetByID)
		r.Get("/admin/testOpen", adminHandler.HandleTestOpen)

		// Authenticated-only.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/me", authHandler.HandleMe)
			r.Post("/snippets", snippetHandler.HandleCreate)
			r.Get("/snippets", snippetHandler.HandleList)
			r.Delete("/snippets/{id}", snippetHandler.HandleDelete)
		})

		// Role-gated: valid token AND admin role.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Use(auth.RequireAdmin)

			r.Get("/admin/test", adminHandler.HandleTest)
			r.Get("/admin/accountInfo", adminHandler.HandleAccountInfo)
		})
	})

	return nil
}

// Router exposes the configured handler, mainly for tests that drive the
// full stack through httptest without binding a port.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests for up
// to 30 seconds, close the database (flushes the WAL, releases the lock).
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
