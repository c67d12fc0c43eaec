package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/raicdev/frea/internal/apperror"
	"github.com/raicdev/frea/internal/auth"
	"github.com/raicdev/frea/internal/model"
	"github.com/raicdev/frea/internal/service"
)

// aliasDataHeader opts the owner in to receiving the private
// __lastAliasChanged field on their own profile fetch.
const aliasDataHeader = "X-Alias-Data"

// ProfileHandler serves the profile editor endpoints and the public chat
// profile views, including follow.
type ProfileHandler struct {
	profiles *service.ProfileService
	logger   *slog.Logger
}

func NewProfileHandler(profiles *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

// HandleGetOwn returns the caller's own profile document, phone number
// included. A missing document is an empty object, not an error.
//
// GET /api/v1/profile → {success, data}
func (h *ProfileHandler) HandleGetOwn(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized())
		return
	}

	includeAliasData := r.Header.Get(aliasDataHeader) != ""
	profile, err := h.profiles.GetOwn(r.Context(), identity.UID, includeAliasData)
	if err != nil {
		writeError(w, err)
		return
	}
	if profile == nil {
		writeJSON(w, http.StatusOK, struct {
			Success bool     `json:"success"`
			Data    struct{} `json:"data"`
		}{Success: true})
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool           `json:"success"`
		Data    *model.Profile `json:"data"`
	}{true, profile})
}

// HandleUpdate merges the owner-editable fields into the profile.
//
// POST /api/v1/profile {displayName, bio, location, website, phoneNumber,
// embeds} → {success}
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized())
		return
	}

	var body struct {
		DisplayName string        `json:"displayName"`
		Bio         string        `json:"bio"`
		Location    string        `json:"location"`
		Website     string        `json:"website"`
		PhoneNumber string        `json:"phoneNumber"`
		Embeds      []model.Embed `json:"embeds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, apperror.ValidationFailed("body", "Invalid Request"))
		return
	}

	err := h.profiles.Update(r.Context(), identity.UID, service.UpdateProfileInput{
		DisplayName: body.DisplayName,
		Bio:         body.Bio,
		Location:    body.Location,
		Website:     body.Website,
		PhoneNumber: body.PhoneNumber,
		Embeds:      body.Embeds,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
	}{true})
}

// HandleSetAlias changes the caller's unique handle.
//
// POST /api/v1/profile/alias {alias} → {success} | 409 | 429
func (h *ProfileHandler) HandleSetAlias(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized())
		return
	}

	var body struct {
		Alias string `json:"alias"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, apperror.ValidationFailed("alias", "Alias is required"))
		return
	}

	if err := h.profiles.SetAlias(r.Context(), identity.UID, body.Alias); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
	}{true})
}

// HandleGetOwnChat returns the caller's public chat profile (private fields
// stripped, avatar from the identity provider).
//
// GET /api/v1/chat/profile → {success, profile}
func (h *ProfileHandler) HandleGetOwnChat(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized())
		return
	}
	h.writeChatProfile(w, r, identity.UID)
}

// HandleGetByRef returns the public chat profile for a uid or "@alias".
//
// GET /api/v1/chat/profile/{uid} → {success, profile}
func (h *ProfileHandler) HandleGetByRef(w http.ResponseWriter, r *http.Request) {
	ref := r.PathValue("uid")
	if ref == "" {
		writeError(w, apperror.ValidationFailed("uid", "Invalid Request"))
		return
	}
	h.writeChatProfile(w, r, ref)
}

func (h *ProfileHandler) writeChatProfile(w http.ResponseWriter, r *http.Request, ref string) {
	profile, err := h.profiles.GetChatProfile(r.Context(), ref)
	if err != nil {
		writeError(w, err)
		return
	}
	if profile == nil {
		writeJSON(w, http.StatusOK, struct {
			Success bool     `json:"success"`
			Data    struct{} `json:"data"`
		}{Success: true})
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool           `json:"success"`
		Profile *model.Profile `json:"profile"`
	}{true, profile})
}

// HandleFollowing lists who a user follows.
//
// GET /api/v1/chat/profile/{uid}/follow → {success, following}
func (h *ProfileHandler) HandleFollowing(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")
	if uid == "" {
		writeError(w, apperror.ValidationFailed("uid", "Invalid Request"))
		return
	}

	following, err := h.profiles.Following(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success   bool     `json:"success"`
		Following []string `json:"following"`
	}{true, following})
}

// HandleToggleFollow follows or unfollows the target user.
//
// POST /api/v1/chat/profile/{uid}/follow → {success, following}
func (h *ProfileHandler) HandleToggleFollow(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized())
		return
	}

	uid := r.PathValue("uid")
	if uid == "" {
		writeError(w, apperror.ValidationFailed("uid", "Invalid user ID format"))
		return
	}

	following, err := h.profiles.ToggleFollow(r.Context(), identity.UID, uid)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success   bool `json:"success"`
		Following bool `json:"following"`
	}{true, following})
}
