package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/raicdev/frea/internal/apperror"
	"github.com/raicdev/frea/internal/model"
	"github.com/raicdev/frea/internal/repository"
)

var _ repository.NotificationRepository = (*NotificationStore)(nil)

// NotificationStore keeps notification documents in the "notifications"
// collection keyed by the generated notification id.
type NotificationStore struct {
	store *Store
}

func NewNotificationStore(store *Store) *NotificationStore {
	return &NotificationStore{store: store}
}

func (n *NotificationStore) Create(ctx context.Context, notification *model.Notification) error {
	ref := n.store.firestore.Collection(notificationCollection).Doc(notification.ID)
	if _, err := ref.Set(ctx, notification); err != nil {
		return classify(fmt.Errorf("writing notification %s: %w", notification.ID, err))
	}
	return nil
}

func (n *NotificationStore) GetByID(ctx context.Context, id string) (*model.Notification, error) {
	doc, err := n.store.firestore.Collection(notificationCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, apperror.NotFound("Notification")
		}
		return nil, classify(fmt.Errorf("reading notification %s: %w", id, err))
	}

	var notification model.Notification
	if err := doc.DataTo(&notification); err != nil {
		return nil, fmt.Errorf("decoding notification %s: %w", id, err)
	}
	notification.ID = doc.Ref.ID
	return &notification, nil
}

func (n *NotificationStore) ListByUser(ctx context.Context, uid string, onlyUnread bool) ([]model.Notification, error) {
	query := n.store.firestore.Collection(notificationCollection).Where("userId", "==", uid)
	if onlyUnread {
		query = query.Where("read", "==", false)
	}

	iter := query.OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var notifications []model.Notification
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, classify(fmt.Errorf("listing notifications for %s: %w", uid, err))
		}

		var notification model.Notification
		if err := doc.DataTo(&notification); err != nil {
			return nil, fmt.Errorf("decoding notification %s: %w", doc.Ref.ID, err)
		}
		notification.ID = doc.Ref.ID
		notifications = append(notifications, notification)
	}
	return notifications, nil
}

func (n *NotificationStore) MarkRead(ctx context.Context, id string) error {
	ref := n.store.firestore.Collection(notificationCollection).Doc(id)
	if _, err := ref.Update(ctx, []firestore.Update{{Path: "read", Value: true}}); err != nil {
		if status.Code(err) == codes.NotFound {
			return apperror.NotFound("Notification")
		}
		return classify(fmt.Errorf("marking notification %s read: %w", id, err))
	}
	return nil
}
