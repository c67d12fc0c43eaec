package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rs/xid"

	"github.com/raicdev/frea/internal/apperror"
	"github.com/raicdev/frea/internal/model"
	"github.com/raicdev/frea/internal/repository"
)

// NotificationService writes typed notification records as side effects of
// social actions and serves the read paths.
type NotificationService struct {
	repo      repository.NotificationRepository
	directory repository.UserDirectory
	logger    *slog.Logger
}

func NewNotificationService(repo repository.NotificationRepository, directory repository.UserDirectory, logger *slog.Logger) *NotificationService {
	return &NotificationService{
		repo:      repo,
		directory: directory,
		logger:    logger,
	}
}

// Emit stores the notification and returns its id, or "" if the write
// failed. A failed notification write must never fail the like/reply that
// triggered it, so Emit swallows errors and only logs them.
func (s *NotificationService) Emit(ctx context.Context, draft model.NotificationDraft) string {
	notification := draft.Build(xid.New().String(), time.Now())

	if err := s.repo.Create(ctx, notification); err != nil {
		s.logger.Warn("failed to write notification",
			slog.String("recipient", draft.Recipient()),
			slog.String("error", err.Error()),
		)
		return ""
	}

	s.logger.Info("notification emitted",
		slog.String("id", notification.ID),
		slog.String("type", string(notification.Type)),
		slog.String("recipient", notification.UserID),
	)
	return notification.ID
}

// List returns uid's notifications, newest first. The bulk path does not
// synthesize display messages; only Get does.
func (s *NotificationService) List(ctx context.Context, uid string, onlyUnread bool) ([]model.Notification, error) {
	notifications, err := s.repo.ListByUser(ctx, uid, onlyUnread)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}
	return notifications, nil
}

// Get fetches one of the caller's notifications and fills its display
// message from the sender's current display name. A notification addressed
// to someone else reads as NotFound.
func (s *NotificationService) Get(ctx context.Context, uid, id string) (*model.Notification, error) {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notification.UserID != uid {
		return nil, apperror.NotFound("Notification")
	}

	notification.Message = s.displayMessage(ctx, notification)
	return notification, nil
}

// MarkRead flips the read flag on one of the caller's notifications.
// Ownership is checked first so one user cannot mark another's notification.
func (s *NotificationService) MarkRead(ctx context.Context, uid, id string) error {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if notification.UserID != uid {
		return apperror.NotFound("Notification")
	}

	if err := s.repo.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}

	s.logger.Info("notification read", slog.String("id", id), slog.String("uid", uid))
	return nil
}

func (s *NotificationService) displayMessage(ctx context.Context, n *model.Notification) string {
	var senderName string
	if n.Type.Social() && n.SenderID != "" {
		if account, err := s.directory.GetUser(ctx, n.SenderID); err == nil {
			senderName = account.DisplayName
		}
	}

	switch n.Type {
	case model.NotificationLike:
		return fmt.Sprintf("%s liked your message", senderName)
	case model.NotificationReply:
		return fmt.Sprintf("%s replied to your message", senderName)
	case model.NotificationFollow:
		return fmt.Sprintf("%s followed you", senderName)
	case model.NotificationMention:
		return fmt.Sprintf("%s mentioned you", senderName)
	case model.NotificationMessage:
		if n.Message != "" {
			return n.Message
		}
	}
	return "You have a new notification"
}
