package firebase

import (
	"context"
	"fmt"

	"github.com/raicdev/frea/internal/apperror"
	"github.com/raicdev/frea/internal/model"
	"github.com/raicdev/frea/internal/repository"
)

var _ repository.MessageRepository = (*MessageStore)(nil)

// MessageStore keeps the flat message list in the Realtime Database under
// "messages/<id>", ordered by the numeric timestamp field.
type MessageStore struct {
	store *Store
}

func NewMessageStore(store *Store) *MessageStore {
	return &MessageStore{store: store}
}

func (m *MessageStore) Create(ctx context.Context, msg *model.Message) error {
	ref := m.store.database.NewRef(messagesPath).Child(msg.ID)
	if err := ref.Set(ctx, msg); err != nil {
		return fmt.Errorf("writing message %s: %w", msg.ID, err)
	}
	return nil
}

func (m *MessageStore) GetByID(ctx context.Context, id string) (*model.Message, error) {
	var msg model.Message
	ref := m.store.database.NewRef(messagesPath).Child(id)
	if err := ref.Get(ctx, &msg); err != nil {
		return nil, fmt.Errorf("reading message %s: %w", id, err)
	}
	// A missing node unmarshals to the zero value.
	if msg.ID == "" {
		return nil, apperror.NotFound("Message")
	}
	return &msg, nil
}

func (m *MessageStore) ListRecent(ctx context.Context, limit int) ([]model.Message, error) {
	ref := m.store.database.NewRef(messagesPath)
	nodes, err := ref.OrderByChild("timestamp").LimitToLast(limit).GetOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	messages := make([]model.Message, 0, len(nodes))
	for _, node := range nodes {
		var msg model.Message
		if err := node.Unmarshal(&msg); err != nil {
			return nil, fmt.Errorf("decoding message %s: %w", node.Key(), err)
		}
		msg.ID = node.Key()
		messages = append(messages, msg)
	}
	return messages, nil
}

func (m *MessageStore) SetFavorites(ctx context.Context, id string, favorites []model.MessageFavorite) error {
	ref := m.store.database.NewRef(messagesPath).Child(id)
	if err := ref.Update(ctx, map[string]any{"favorites": favorites}); err != nil {
		return fmt.Errorf("updating favorites on %s: %w", id, err)
	}
	return nil
}

func (m *MessageStore) SetReplies(ctx context.Context, id string, replies []model.ReplyMessage) error {
	ref := m.store.database.NewRef(messagesPath).Child(id)
	if err := ref.Update(ctx, map[string]any{"replies": replies}); err != nil {
		return fmt.Errorf("updating replies on %s: %w", id, err)
	}
	return nil
}

func (m *MessageStore) Delete(ctx context.Context, id string) error {
	ref := m.store.database.NewRef(messagesPath).Child(id)
	if err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("deleting message %s: %w", id, err)
	}
	return nil
}
