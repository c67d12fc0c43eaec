// Package firebase implements the repository interfaces on the managed
// backend: profiles and notifications in Firestore, the message feed in the
// Realtime Database, and user records in Firebase Auth.
package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/raicdev/frea/internal/apperror"
)

const (
	profileCollection      = "profiles"
	notificationCollection = "notifications"
	messagesPath           = "messages"
)

// Config locates the Firebase project.
type Config struct {
	ProjectID       string
	DatabaseURL     string
	CredentialsFile string // optional; falls back to ADC when empty
}

// Store owns the backend clients. One Store is created at startup and shared
// by all repositories; Close releases the Firestore connection.
type Store struct {
	Auth      *firebaseauth.Client
	firestore *firestore.Client
	database  *db.Client
}

func New(ctx context.Context, cfg Config) (*Store, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:   cfg.ProjectID,
		DatabaseURL: cfg.DatabaseURL,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating auth client: %w", err)
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	dbClient, err := app.Database(ctx)
	if err != nil {
		fsClient.Close()
		return nil, fmt.Errorf("creating database client: %w", err)
	}

	return &Store{
		Auth:      authClient,
		firestore: fsClient,
		database:  dbClient,
	}, nil
}

func (s *Store) Close() error {
	return s.firestore.Close()
}

// classify maps Firestore RPC failures onto the app taxonomy. NotFound is
// handled per call site (the resource name differs); this covers backend
// outage.
func classify(err error) error {
	if status.Code(err) == codes.Unavailable {
		return apperror.Unavailable("Auth server is currently unavailable")
	}
	return err
}
