// Package server wires the dependency graph and runs the HTTP server.
// This is the composition root: repositories, services, handlers, and
// middleware are all assembled here.
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

	"github.com/chayanin/runtrack-backend/internal/auth"
	"github.com/chayanin/runtrack-backend/internal/handler"
	"github.com/chayanin/runtrack-backend/internal/middleware"
	"github.com/chayanin/runtrack-backend/internal/model"
	sqliteRepo "github.com/chayanin/runtrack-backend/internal/repository/sqlite"
	"github.com/chayanin/runtrack-backend/internal/service"
)

// Config holds server configuration, loaded from the environment in
// cmd/server.
type Config struct {
	Port               int
	DBPath             string
	JWTSecret          string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string
	DefaultRole        model.Role
	Production         bool
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency graph.
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
		return err
	}
	passwords := auth.NewPasswordService()
	google := auth.NewGoogleProvider(
		s.config.GoogleClientID,
		s.config.GoogleClientSecret,
		s.config.GoogleCallbackURL,
	)

	responder := handler.NewResponder(s.config.Production, s.logger)

	authSvc := service.NewAuthService(s.db, tokens, passwords, s.config.DefaultRole, s.logger)
	roleSvc := service.NewRoleService(s.db, s.logger)
	profileSvc := service.NewProfileService(s.db, s.logger)
	workoutSvc := service.NewWorkoutService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(google, authSvc, responder, s.logger)
	userHandler := handler.NewUserHandler(roleSvc, profileSvc, responder)
	workoutHandler := handler.NewWorkoutHandler(workoutSvc, responder)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(responder.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// Public routes.
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	s.router.Get("/auth/google/login", authHandler.HandleGoogleLogin)
	s.router.Get("/auth/google/callback", authHandler.HandleGoogleCallback)
	s.router.Post("/auth/login", authHandler.HandleLogin)
	s.router.Post("/auth/logout", authHandler.HandleLogout)

	// Authenticated API.
	s.router.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))
		r.Get("/me", authHandler.HandleMe)
		r.Get("/users/role", userHandler.HandleRole)
		r.Get("/users/profile", userHandler.HandleGetProfile)
		r.Put("/users/profile", userHandler.HandlePutProfile)
		r.Get("/workout-logs/history", workoutHandler.HandleHistory)
	})

	// Page routes behind the path gate. The UI itself is rendered by a
	// separate frontend; these endpoints exist so gating happens at the
	// edge of this server too.
	gate := auth.PathGate(tokens)
	for _, path := range []string{"/dashboard", "/training", "/admin", "/coach"} {
		p := path
		s.router.With(gate).Get(p, pagePlaceholder(p))
		s.router.With(gate).Get(p+"/*", pagePlaceholder(p))
	}

	return nil
}

func pagePlaceholder(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"page":%q}`, name)
	}
}

// Start runs the server until SIGINT/SIGTERM, then drains in-flight
// requests for up to 30 seconds and closes the database.
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
			slog.Bool("production", s.config.Production),
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
