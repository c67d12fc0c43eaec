// Package repository defines the storage interfaces the service layer
// depends on. The production implementation lives in repository/firebase;
// tests use in-memory mocks.
package repository

import (
	"context"

	"github.com/raicdev/frea/internal/model"
)

// MessageRepository is the flat message list in the realtime database.
//
// Favorites and replies are arrays embedded in the message record; the
// storage layer has no partial append, so SetFavorites/SetReplies overwrite
// the whole array (callers do read-modify-write).
type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	GetByID(ctx context.Context, id string) (*model.Message, error)
	// ListRecent returns up to limit of the most recent messages by
	// timestamp, in storage order (ascending).
	ListRecent(ctx context.Context, limit int) ([]model.Message, error)
	SetFavorites(ctx context.Context, id string, favorites []model.MessageFavorite) error
	SetReplies(ctx context.Context, id string, replies []model.ReplyMessage) error
	Delete(ctx context.Context, id string) error
}

// ProfileRepository is the per-uid profile document store.
type ProfileRepository interface {
	Get(ctx context.Context, uid string) (*model.Profile, error)
	// Merge writes the given fields into the profile document, leaving
	// absent fields untouched.
	Merge(ctx context.Context, uid string, fields map[string]any) error
	// FindByAlias resolves an exact alias match (without the "@" prefix).
	FindByAlias(ctx context.Context, alias string) (*model.Profile, error)
	// ToggleFollow atomically flips the actor→target follow edge across
	// both profile documents and returns the resulting following state.
	// Returns apperror.ErrNotFound if either profile is missing.
	ToggleFollow(ctx context.Context, actorUID, targetUID string) (bool, error)
}

// NotificationRepository is the notification document store.
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	GetByID(ctx context.Context, id string) (*model.Notification, error)
	// ListByUser returns uid's notifications ordered by createdAt descending.
	ListByUser(ctx context.Context, uid string, onlyUnread bool) ([]model.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

// UserDirectory is the identity provider's user-record surface: the source
// of truth for avatar URLs and the target of display-name pushes.
type UserDirectory interface {
	GetUser(ctx context.Context, uid string) (*model.Account, error)
	UpdateUser(ctx context.Context, uid, displayName, photoURL string) error
}
