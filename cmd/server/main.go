// Command server runs the chat backend HTTP server.
//
// Configuration comes from the environment:
//
//	PORT                     listen port (default 8080)
//	FIREBASE_PROJECT_ID      Google Cloud project ID (required)
//	FIREBASE_DATABASE_URL    Realtime Database URL (required)
//	GOOGLE_APPLICATION_CREDENTIALS  service account key file (optional,
//	                         falls back to application default credentials)
//	LOCAL_AUTH_SECRET        enables locally signed HS256 tokens instead
//	                         of Firebase ID token verification (dev only)
package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/raicdev/frea/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	projectID := os.Getenv("FIREBASE_PROJECT_ID")
	if projectID == "" {
		logger.Error("FIREBASE_PROJECT_ID is required")
		os.Exit(1)
	}

	databaseURL := os.Getenv("FIREBASE_DATABASE_URL")
	if databaseURL == "" {
		logger.Error("FIREBASE_DATABASE_URL is required")
		os.Exit(1)
	}

	cfg := server.Config{
		Port:            port,
		ProjectID:       projectID,
		DatabaseURL:     databaseURL,
		CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		LocalAuthSecret: os.Getenv("LOCAL_AUTH_SECRET"),
	}

	srv, err := server.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
