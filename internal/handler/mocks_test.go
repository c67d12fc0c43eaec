package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/raicdev/frea/internal/apperror"
	"github.com/raicdev/frea/internal/auth"
	"github.com/raicdev/frea/internal/model"
	"github.com/raicdev/frea/internal/repository"
	"github.com/raicdev/frea/internal/service"
)

// The handler tests run real services over in-memory repositories, so they
// exercise the full request path below the router.

type memMessageRepo struct {
	messages map[string]*model.Message
}

var _ repository.MessageRepository = (*memMessageRepo)(nil)

func (m *memMessageRepo) Create(_ context.Context, msg *model.Message) error {
	stored := *msg
	m.messages[msg.ID] = &stored
	return nil
}

func (m *memMessageRepo) GetByID(_ context.Context, id string) (*model.Message, error) {
	msg, ok := m.messages[id]
	if !ok {
		return nil, apperror.NotFound("Message")
	}
	out := *msg
	return &out, nil
}

func (m *memMessageRepo) ListRecent(_ context.Context, limit int) ([]model.Message, error) {
	all := make([]model.Message, 0, len(m.messages))
	for _, msg := range m.messages {
		all = append(all, *msg)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Timestamp < all[j].Timestamp })
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

func (m *memMessageRepo) SetFavorites(_ context.Context, id string, favorites []model.MessageFavorite) error {
	msg, ok := m.messages[id]
	if !ok {
		return apperror.NotFound("Message")
	}
	msg.Favorites = slices.Clone(favorites)
	return nil
}

func (m *memMessageRepo) SetReplies(_ context.Context, id string, replies []model.ReplyMessage) error {
	msg, ok := m.messages[id]
	if !ok {
		return apperror.NotFound("Message")
	}
	msg.Replies = slices.Clone(replies)
	return nil
}

func (m *memMessageRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.messages[id]; !ok {
		return apperror.NotFound("Message")
	}
	delete(m.messages, id)
	return nil
}

type memProfileRepo struct {
	profiles map[string]*model.Profile
}

var _ repository.ProfileRepository = (*memProfileRepo)(nil)

func (m *memProfileRepo) Get(_ context.Context, uid string) (*model.Profile, error) {
	p, ok := m.profiles[uid]
	if !ok {
		return nil, apperror.NotFound("Profile")
	}
	out := *p
	return &out, nil
}

func (m *memProfileRepo) Merge(_ context.Context, uid string, fields map[string]any) error {
	p, ok := m.profiles[uid]
	if !ok {
		p = &model.Profile{UID: uid}
		m.profiles[uid] = p
	}
	for key, value := range fields {
		switch key {
		case "alias":
			p.Alias = value.(string)
		case "displayName":
			p.DisplayName = value.(string)
		case "__lastAliasChanged":
			p.LastAliasChanged = value.(int64)
		case "verified":
			p.Verified = value.(bool)
		}
	}
	return nil
}

func (m *memProfileRepo) FindByAlias(_ context.Context, alias string) (*model.Profile, error) {
	for _, p := range m.profiles {
		if p.Alias == alias {
			out := *p
			return &out, nil
		}
	}
	return nil, apperror.NotFound("User")
}

func (m *memProfileRepo) ToggleFollow(_ context.Context, actorUID, targetUID string) (bool, error) {
	actor, ok := m.profiles[actorUID]
	if !ok {
		return false, apperror.NotFound("User")
	}
	target, ok := m.profiles[targetUID]
	if !ok {
		return false, apperror.NotFound("User")
	}

	if slices.Contains(actor.Following, targetUID) {
		actor.Following = slices.DeleteFunc(actor.Following, func(uid string) bool { return uid == targetUID })
		target.Followers = slices.DeleteFunc(target.Followers, func(uid string) bool { return uid == actorUID })
		return false, nil
	}
	actor.Following = append(actor.Following, targetUID)
	target.Followers = append(target.Followers, actorUID)
	return true, nil
}

type memNotificationRepo struct {
	notifications map[string]*model.Notification
}

var _ repository.NotificationRepository = (*memNotificationRepo)(nil)

func (m *memNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	stored := *n
	m.notifications[n.ID] = &stored
	return nil
}

func (m *memNotificationRepo) GetByID(_ context.Context, id string) (*model.Notification, error) {
	n, ok := m.notifications[id]
	if !ok {
		return nil, apperror.NotFound("Notification")
	}
	out := *n
	return &out, nil
}

func (m *memNotificationRepo) ListByUser(_ context.Context, uid string, onlyUnread bool) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range m.notifications {
		if n.UserID != uid {
			continue
		}
		if onlyUnread && n.Read {
			continue
		}
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memNotificationRepo) MarkRead(_ context.Context, id string) error {
	n, ok := m.notifications[id]
	if !ok {
		return apperror.NotFound("Notification")
	}
	n.Read = true
	return nil
}

type memDirectory struct {
	accounts map[string]*model.Account
}

var _ repository.UserDirectory = (*memDirectory)(nil)

func (m *memDirectory) GetUser(_ context.Context, uid string) (*model.Account, error) {
	a, ok := m.accounts[uid]
	if !ok {
		return nil, apperror.NotFound("User")
	}
	out := *a
	return &out, nil
}

func (m *memDirectory) UpdateUser(_ context.Context, uid, displayName, photoURL string) error {
	if a, ok := m.accounts[uid]; ok {
		if displayName != "" {
			a.DisplayName = displayName
		}
		if photoURL != "" {
			a.PhotoURL = photoURL
		}
	}
	return nil
}

// env is the full handler stack over in-memory storage.
type env struct {
	messages      *memMessageRepo
	profiles      *memProfileRepo
	notifications *memNotificationRepo
	directory     *memDirectory

	messageSvc      *service.MessageService
	profileSvc      *service.ProfileService
	notificationSvc *service.NotificationService

	messageHandler      *MessageHandler
	profileHandler      *ProfileHandler
	notificationHandler *NotificationHandler
}

func newEnv() *env {
	e := &env{
		messages:      &memMessageRepo{messages: make(map[string]*model.Message)},
		profiles:      &memProfileRepo{profiles: make(map[string]*model.Profile)},
		notifications: &memNotificationRepo{notifications: make(map[string]*model.Notification)},
		directory:     &memDirectory{accounts: make(map[string]*model.Account)},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	e.notificationSvc = service.NewNotificationService(e.notifications, e.directory, logger)
	e.messageSvc = service.NewMessageService(e.messages, e.profiles, e.directory, e.notificationSvc, logger)
	e.profileSvc = service.NewProfileService(e.profiles, e.directory, logger)

	e.messageHandler = NewMessageHandler(e.messageSvc, logger)
	e.profileHandler = NewProfileHandler(e.profileSvc, logger)
	e.notificationHandler = NewNotificationHandler(e.notificationSvc, logger)
	return e
}

func (e *env) addUser(uid, displayName string) {
	e.profiles.profiles[uid] = &model.Profile{UID: uid, DisplayName: displayName}
	e.directory.accounts[uid] = &model.Account{UID: uid, DisplayName: displayName, PhotoURL: "https://img.example/" + uid}
}

// request builds an authenticated request with optional JSON body and path
// values, runs it through fn, and returns the recorder.
func request(t *testing.T, fn http.HandlerFunc, method, target string, body any, uid string, pathValues map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, target, reader)
	if uid != "" {
		req = req.WithContext(auth.ContextWithIdentity(req.Context(), &auth.Identity{UID: uid}))
	}
	for key, value := range pathValues {
		req.SetPathValue(key, value)
	}

	rec := httptest.NewRecorder()
	fn(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}
