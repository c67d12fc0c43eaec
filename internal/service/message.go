package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/raicdev/frea/internal/apperror"
	"github.com/raicdev/frea/internal/model"
	"github.com/raicdev/frea/internal/repository"
)

const (
	// DefaultListLimit is how many messages the feed returns.
	DefaultListLimit = 25
	// MaxSearchLimit caps the requested search limit.
	MaxSearchLimit = 25
	// searchOverfetch compensates for post-filtering: the scan window is
	// limit×searchOverfetch recent messages. Matches older than that window
	// are missed; this is a documented limitation of the unindexed search.
	searchOverfetch = 5
)

// MessageService handles the global feed: create/list/search/delete, the
// like toggle, and the embedded reply threads.
type MessageService struct {
	repo      repository.MessageRepository
	profiles  repository.ProfileRepository
	directory repository.UserDirectory
	notifier  *NotificationService
	logger    *slog.Logger
}

func NewMessageService(
	repo repository.MessageRepository,
	profiles repository.ProfileRepository,
	directory repository.UserDirectory,
	notifier *NotificationService,
	logger *slog.Logger,
) *MessageService {
	return &MessageService{
		repo:      repo,
		profiles:  profiles,
		directory: directory,
		notifier:  notifier,
		logger:    logger,
	}
}

// SearchResult carries a filtered page plus the totals the client paginates
// with. TotalResults counts matches before truncation.
type SearchResult struct {
	Messages     []model.ClientMessage
	TotalResults int
	HasMore      bool
}

// Create validates and stores a new top-level message, returning its id.
func (s *MessageService) Create(ctx context.Context, authorUID, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", apperror.ValidationFailed("content", "Invalid message format")
	}

	msg := &model.Message{
		ID:        xid.New().String(),
		Content:   content,
		UID:       authorUID,
		Timestamp: time.Now().UnixMilli(),
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		s.logger.Error("failed to create message",
			slog.String("uid", authorUID),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("creating message: %w", err)
	}

	s.logger.Info("message created", slog.String("id", msg.ID), slog.String("uid", authorUID))
	return msg.ID, nil
}

// ListRecent returns the newest messages with author snapshots attached,
// sorted newest first. Storage returns them oldest first, so the sort is
// re-applied here.
func (s *MessageService) ListRecent(ctx context.Context) ([]model.ClientMessage, error) {
	messages, err := s.repo.ListRecent(ctx, DefaultListLimit)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	return s.hydrate(ctx, messages)
}

// Search scans a window of recent messages for a case-insensitive substring
// match on content. The requested limit is clamped to MaxSearchLimit; an
// empty query matches everything.
func (s *MessageService) Search(ctx context.Context, query string, limit int) (*SearchResult, error) {
	if limit <= 0 || limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	window, err := s.repo.ListRecent(ctx, limit*searchOverfetch)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	query = strings.ToLower(query)
	matched := window[:0]
	for _, msg := range window {
		if query == "" || strings.Contains(strings.ToLower(msg.Content), query) {
			matched = append(matched, msg)
		}
	}

	hydrated, err := s.hydrate(ctx, matched)
	if err != nil {
		return nil, err
	}

	total := len(hydrated)
	hasMore := total > limit
	if hasMore {
		hydrated = hydrated[:limit]
	}

	return &SearchResult{
		Messages:     hydrated,
		TotalResults: total,
		HasMore:      hasMore,
	}, nil
}

// GetByID returns one message with its author snapshot. Unlike the listing
// paths, an unresolvable sender is an error here, not a placeholder.
func (s *MessageService) GetByID(ctx context.Context, id string) (*model.ClientMessage, error) {
	msg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.Get(ctx, msg.UID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("Sender")
		}
		return nil, err
	}
	account, err := s.directory.GetUser(ctx, msg.UID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("Sender")
		}
		return nil, err
	}

	return &model.ClientMessage{
		Message: *msg,
		User: &model.UserSnapshot{
			DisplayName: profile.DisplayName,
			PhotoURL:    account.PhotoURL,
			Verified:    profile.Verified,
		},
	}, nil
}

// Delete removes a message. Only the author may delete; anyone else gets
// the generic Unauthorized. Embedded replies go with the record; external
// references to the id are not cleaned up.
func (s *MessageService) Delete(ctx context.Context, id, requesterUID string) error {
	msg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if msg.UID != requesterUID {
		return apperror.Unauthorized()
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting message: %w", err)
	}

	s.logger.Info("message deleted", slog.String("id", id), slog.String("uid", requesterUID))
	return nil
}

// ToggleLike flips uid's favorite on the message and returns the resulting
// state. A new like notifies the message author; removing one does not.
func (s *MessageService) ToggleLike(ctx context.Context, id, uid string) (bool, error) {
	msg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}

	already := slices.ContainsFunc(msg.Favorites, func(f model.MessageFavorite) bool {
		return f.UID == uid
	})

	if already {
		remaining := slices.DeleteFunc(slices.Clone(msg.Favorites), func(f model.MessageFavorite) bool {
			return f.UID == uid
		})
		if err := s.repo.SetFavorites(ctx, id, remaining); err != nil {
			return false, fmt.Errorf("removing favorite: %w", err)
		}
		return false, nil
	}

	favorites := append(slices.Clone(msg.Favorites), model.MessageFavorite{
		UID:       uid,
		Timestamp: time.Now().UnixMilli(),
	})
	if err := s.repo.SetFavorites(ctx, id, favorites); err != nil {
		return false, fmt.Errorf("adding favorite: %w", err)
	}

	s.notifier.Emit(ctx, model.NewLikeNotification(msg.UID, uid, msg.ID))
	return true, nil
}

// Favorites returns the message's like list.
func (s *MessageService) Favorites(ctx context.Context, id string) ([]model.MessageFavorite, error) {
	msg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg.Favorites == nil {
		return []model.MessageFavorite{}, nil
	}
	return msg.Favorites, nil
}

// ListReplies returns the parent's reply thread, newest first, with sender
// snapshots re-resolved through a per-call cache.
func (s *MessageService) ListReplies(ctx context.Context, parentID string) ([]model.ReplyMessage, error) {
	msg, err := s.repo.GetByID(ctx, parentID)
	if err != nil {
		return nil, err
	}

	replies := slices.Clone(msg.Replies)
	if len(replies) == 0 {
		return []model.ReplyMessage{}, nil
	}

	resolver := newSnapshotResolver(s.directory, s.profiles)
	uids := make([]string, 0, len(replies))
	for _, reply := range replies {
		uids = append(uids, reply.UID)
	}
	if err := resolver.Prefetch(ctx, uids); err != nil {
		return nil, fmt.Errorf("resolving reply senders: %w", err)
	}

	for i := range replies {
		snap, err := resolver.Resolve(ctx, replies[i].UID)
		if err != nil {
			return nil, err
		}
		replies[i].User = snap
	}

	sort.Slice(replies, func(i, j int) bool {
		return replies[i].Timestamp > replies[j].Timestamp
	})
	return replies, nil
}

// AddReply appends a reply under the parent message and notifies the
// parent's author (including on self-replies; not suppressed). The reply
// stores a snapshot captured now, though the read path re-resolves it.
func (s *MessageService) AddReply(ctx context.Context, authorUID, parentID, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", apperror.ValidationFailed("content", "Invalid Request")
	}
	if parentID == "" {
		return "", apperror.ValidationFailed("replyTo", "Invalid Request")
	}

	parent, err := s.repo.GetByID(ctx, parentID)
	if err != nil {
		return "", err
	}

	resolver := newSnapshotResolver(s.directory, s.profiles)
	snap, err := resolver.Resolve(ctx, authorUID)
	if err != nil {
		return "", fmt.Errorf("resolving reply author: %w", err)
	}

	reply := model.ReplyMessage{
		ID:        xid.New().String(),
		Content:   content,
		UID:       authorUID,
		Timestamp: time.Now().UnixMilli(),
		ReplyTo:   parentID,
		User:      snap,
	}

	// Whole-array read-modify-write: the storage layer has no partial append.
	replies := append(slices.Clone(parent.Replies), reply)
	if err := s.repo.SetReplies(ctx, parentID, replies); err != nil {
		return "", fmt.Errorf("appending reply: %w", err)
	}

	s.notifier.Emit(ctx, model.NewReplyNotification(parent.UID, authorUID, parent.ID))

	s.logger.Info("reply created",
		slog.String("id", reply.ID),
		slog.String("parent", parentID),
		slog.String("uid", authorUID),
	)
	return reply.ID, nil
}

// hydrate attaches author snapshots to a batch of messages and sorts them
// newest first. Distinct authors are resolved concurrently through one
// per-call cache.
func (s *MessageService) hydrate(ctx context.Context, messages []model.Message) ([]model.ClientMessage, error) {
	resolver := newSnapshotResolver(s.directory, s.profiles)

	uids := make([]string, 0, len(messages))
	for _, msg := range messages {
		uids = append(uids, msg.UID)
	}
	if err := resolver.Prefetch(ctx, uids); err != nil {
		return nil, fmt.Errorf("resolving authors: %w", err)
	}

	hydrated := make([]model.ClientMessage, 0, len(messages))
	for _, msg := range messages {
		snap, err := resolver.Resolve(ctx, msg.UID)
		if err != nil {
			return nil, err
		}
		hydrated = append(hydrated, model.ClientMessage{Message: msg, User: snap})
	}

	sort.Slice(hydrated, func(i, j int) bool {
		return hydrated[i].Timestamp > hydrated[j].Timestamp
	})
	return hydrated, nil
}
