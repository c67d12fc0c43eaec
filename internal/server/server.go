// Package server wires repositories, services, and handlers into a chi
// router and owns the HTTP listener lifecycle.
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

	"github.com/raicdev/frea/internal/auth"
	"github.com/raicdev/frea/internal/handler"
	"github.com/raicdev/frea/internal/middleware"
	firebaserepo "github.com/raicdev/frea/internal/repository/firebase"
	"github.com/raicdev/frea/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port            int
	ProjectID       string
	DatabaseURL     string
	CredentialsFile string

	// LocalAuthSecret switches token verification to locally signed HS256
	// tokens when non-empty. Meant for development and tests only.
	LocalAuthSecret string
}

// Server owns the router and the Firebase clients. The clients are closed
// during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	store  *firebaserepo.Store
}

// New assembles the full dependency chain: Firebase clients, then
// repositories, then services, then handlers, then routes.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Server, error) {
	store, err := firebaserepo.New(ctx, firebaserepo.Config{
		ProjectID:       cfg.ProjectID,
		DatabaseURL:     cfg.DatabaseURL,
		CredentialsFile: cfg.CredentialsFile,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to firebase: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}

	if err := s.setupRoutes(); err != nil {
		store.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) verifier() (auth.Verifier, error) {
	if s.config.LocalAuthSecret != "" {
		s.logger.Warn("using local token verification, do not use in production")
		return auth.NewLocalVerifier(s.config.LocalAuthSecret)
	}
	return auth.NewFirebaseVerifier(s.store.Auth), nil
}

func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	verifier, err := s.verifier()
	if err != nil {
		return fmt.Errorf("creating token verifier: %w", err)
	}

	messages := firebaserepo.NewMessageStore(s.store)
	profiles := firebaserepo.NewProfileStore(s.store)
	notifications := firebaserepo.NewNotificationStore(s.store)
	directory := firebaserepo.NewDirectory(s.store.Auth)

	notificationService := service.NewNotificationService(notifications, directory, s.logger)
	messageService := service.NewMessageService(messages, profiles, directory, notificationService, s.logger)
	profileService := service.NewProfileService(profiles, directory, s.logger)

	messageHandler := handler.NewMessageHandler(messageService, s.logger)
	profileHandler := handler.NewProfileHandler(profileService, s.logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, s.logger)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.RequireAuth(verifier, s.logger))

		r.Route("/messages", func(r chi.Router) {
			r.Get("/", messageHandler.HandleList)
			r.Post("/", messageHandler.HandleCreate)
			r.Get("/search", messageHandler.HandleSearch)
			r.Get("/{id}", messageHandler.HandleGet)
			r.Post("/{id}/delete", messageHandler.HandleDelete)
			r.Get("/{id}/like", messageHandler.HandleFavorites)
			r.Post("/{id}/like", messageHandler.HandleToggleLike)
			r.Get("/{id}/reply", messageHandler.HandleListReplies)
			r.Post("/{id}/reply", messageHandler.HandleCreateReply)
		})

		r.Route("/chat", func(r chi.Router) {
			r.Get("/profile", profileHandler.HandleGetOwnChat)
			r.Get("/profile/{uid}", profileHandler.HandleGetByRef)
			r.Get("/profile/{uid}/follow", profileHandler.HandleFollowing)
			r.Post("/profile/{uid}/follow", profileHandler.HandleToggleFollow)

			r.Get("/notifications", notificationHandler.HandleList)
			r.Get("/notifications/{id}", notificationHandler.HandleGet)
			r.Post("/notifications/{id}/read", notificationHandler.HandleMarkRead)
		})

		r.Get("/profile", profileHandler.HandleGetOwn)
		r.Post("/profile", profileHandler.HandleUpdate)
		r.Post("/profile/alias", profileHandler.HandleSetAlias)
	})

	return nil
}

// Start runs the HTTP server until a SIGINT/SIGTERM arrives, then drains
// in-flight requests and closes the Firebase clients.
func (s *Server) Start() error {
	defer s.store.Close()

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
			slog.String("project", s.config.ProjectID),
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
