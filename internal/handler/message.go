package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/raicdev/frea/internal/apperror"
	"github.com/raicdev/frea/internal/auth"
	"github.com/raicdev/frea/internal/model"
	"github.com/raicdev/frea/internal/service"
)

// MessageHandler serves the feed endpoints: create, list, search, single
// fetch, delete, likes, and reply threads.
type MessageHandler struct {
	messages *service.MessageService
	logger   *slog.Logger
}

func NewMessageHandler(messages *service.MessageService, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, logger: logger}
}

// HandleCreate posts a new message to the global feed.
//
// POST /api/v1/messages {content} → 201 {success, messageId}
func (h *MessageHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized())
		return
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, apperror.ValidationFailed("content", "Invalid message format"))
		return
	}

	id, err := h.messages.Create(r.Context(), identity.UID, body.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Success   bool   `json:"success"`
		MessageID string `json:"messageId"`
	}{true, id})
}

// HandleList returns the latest messages, newest first.
//
// GET /api/v1/messages → {success, messages}
func (h *MessageHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	messages, err := h.messages.ListRecent(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success  bool                  `json:"success"`
		Messages []model.ClientMessage `json:"messages"`
	}{true, messages})
}

// HandleSearch filters recent messages by a case-insensitive substring.
//
// GET /api/v1/messages/search?query=&limit= →
// {success, messages, totalResults, hasMore}
func (h *MessageHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.messages.Search(r.Context(), query, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success      bool                  `json:"success"`
		Messages     []model.ClientMessage `json:"messages"`
		TotalResults int                   `json:"totalResults"`
		HasMore      bool                  `json:"hasMore"`
	}{true, result.Messages, result.TotalResults, result.HasMore})
}

// HandleGet fetches one message with its author snapshot.
//
// GET /api/v1/messages/{id} → {success, message}
func (h *MessageHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, apperror.ValidationFailed("id", "Invalid Request"))
		return
	}

	message, err := h.messages.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool                 `json:"success"`
		Message *model.ClientMessage `json:"message"`
	}{true, message})
}

// HandleDelete removes the caller's own message.
//
// POST /api/v1/messages/{id}/delete → {success}
func (h *MessageHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.messages.Delete(r.Context(), id, identity.UID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
	}{true})
}

// HandleFavorites lists who liked a message.
//
// GET /api/v1/messages/{id}/like → {success, favorites}
func (h *MessageHandler) HandleFavorites(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, apperror.ValidationFailed("id", "Invalid Request"))
		return
	}

	favorites, err := h.messages.Favorites(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success   bool                    `json:"success"`
		Favorites []model.MessageFavorite `json:"favorites"`
	}{true, favorites})
}

// HandleToggleLike flips the caller's like on a message.
//
// POST /api/v1/messages/{id}/like → {success, favorited}
func (h *MessageHandler) HandleToggleLike(w http.ResponseWriter, r *http.Request) {
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

	favorited, err := h.messages.ToggleLike(r.Context(), id, identity.UID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success   bool `json:"success"`
		Favorited bool `json:"favorited"`
	}{true, favorited})
}

// HandleListReplies returns a message's reply thread, newest first.
//
// GET /api/v1/messages/{id}/reply → {success, messages}
func (h *MessageHandler) HandleListReplies(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, apperror.ValidationFailed("id", "Invalid Request"))
		return
	}

	replies, err := h.messages.ListReplies(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success  bool                 `json:"success"`
		Messages []model.ReplyMessage `json:"messages"`
	}{true, replies})
}

// HandleCreateReply appends a reply under the message named by replyTo in
// the body (the path id is not consulted, matching the client contract).
//
// POST /api/v1/messages/{id}/reply {content, replyTo} → 201 {success, messageId}
func (h *MessageHandler) HandleCreateReply(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized())
		return
	}

	var body struct {
		Content string `json:"content"`
		ReplyTo string `json:"replyTo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, apperror.ValidationFailed("content", "Invalid Request"))
		return
	}

	id, err := h.messages.AddReply(r.Context(), identity.UID, body.ReplyTo, body.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Success   bool   `json:"success"`
		MessageID string `json:"messageId"`
	}{true, id})
}
