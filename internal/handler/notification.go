package handler

import (
	"log/slog"
	"net/http"

	"github.com/raicdev/frea/internal/apperror"
	"github.com/raicdev/frea/internal/auth"
	"github.com/raicdev/frea/internal/model"
	"github.com/raicdev/frea/internal/service"
)

// NotificationHandler serves the caller's notification feed.
type NotificationHandler struct {
	notifications *service.NotificationService
	logger        *slog.Logger
}

func NewNotificationHandler(notifications *service.NotificationService, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, logger: logger}
}

// HandleList returns the caller's notifications, newest first. Display
// messages are not synthesized on this path.
//
// GET /api/v1/chat/notifications?unread=true → {success, notifications}
func (h *NotificationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized())
		return
	}

	onlyUnread := r.URL.Query().Get("unread") == "true"
	notifications, err := h.notifications.List(r.Context(), identity.UID, onlyUnread)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success       bool                 `json:"success"`
		Notifications []model.Notification `json:"notifications"`
	}{true, notifications})
}

// HandleGet fetches a single notification with its display message filled
// in from the sender's current display name.
//
// GET /api/v1/chat/notifications/{id} → {success, notifications}
func (h *NotificationHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized())
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, apperror.ValidationFailed("id", "Invalid Request"))
		return
	}

	notification, err := h.notifications.Get(r.Context(), identity.UID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	// The single-fetch path keeps the list-shaped response.
	writeJSON(w, http.StatusOK, struct {
		Success       bool                 `json:"success"`
		Notifications []model.Notification `json:"notifications"`
	}{true, []model.Notification{*notification}})
}

// HandleMarkRead flips the read flag on one of the caller's notifications.
//
// POST /api/v1/chat/notifications/{id}/read → {success, message}
func (h *NotificationHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized())
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, apperror.ValidationFailed("id", "Invalid Request"))
		return
	}

	if err := h.notifications.MarkRead(r.Context(), identity.UID, id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}{true, "Notification marked as read"})
}
