package firebase

import (
	"context"
	"fmt"

	firebaseauth "firebase.google.com/go/v4/auth"

	"github.com/raicdev/frea/internal/apperror"
	"github.com/raicdev/frea/internal/model"
	"github.com/raicdev/frea/internal/repository"
)

var _ repository.UserDirectory = (*Directory)(nil)

// Directory reads and updates user records in the identity provider.
type Directory struct {
	client *firebaseauth.Client
}

func NewDirectory(client *firebaseauth.Client) *Directory {
	return &Directory{client: client}
}

func (d *Directory) GetUser(ctx context.Context, uid string) (*model.Account, error) {
	record, err := d.client.GetUser(ctx, uid)
	if err != nil {
		if firebaseauth.IsUserNotFound(err) {
			return nil, apperror.NotFound("User")
		}
		return nil, fmt.Errorf("fetching user %s: %w", uid, err)
	}

	return &model.Account{
		UID:           record.UID,
		DisplayName:   record.DisplayName,
		PhotoURL:      record.PhotoURL,
		EmailVerified: record.EmailVerified,
	}, nil
}

func (d *Directory) UpdateUser(ctx context.Context, uid, displayName, photoURL string) error {
	update := &firebaseauth.UserToUpdate{}
	if displayName != "" {
		update = update.DisplayName(displayName)
	}
	if photoURL != "" {
		update = update.PhotoURL(photoURL)
	}

	if _, err := d.client.UpdateUser(ctx, uid, update); err != nil {
		if firebaseauth.IsUserNotFound(err) {
			return apperror.NotFound("User")
		}
		return fmt.Errorf("updating user %s: %w", uid, err)
	}
	return nil
}
