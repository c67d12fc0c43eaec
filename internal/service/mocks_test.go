package service

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sort"
	"sync"

	"github.com/raicdev/frea/internal/apperror"
	"github.com/raicdev/frea/internal/model"
	"github.com/raicdev/frea/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockMessageRepo is an in-memory MessageRepository.
type mockMessageRepo struct {
	mu       sync.Mutex
	messages map[string]*model.Message

	createErr error
}

var _ repository.MessageRepository = (*mockMessageRepo)(nil)

func newMockMessageRepo() *mockMessageRepo {
	return &mockMessageRepo{messages: make(map[string]*model.Message)}
}

func (m *mockMessageRepo) Create(_ context.Context, msg *model.Message) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *msg
	m.messages[msg.ID] = &stored
	return nil
}

func (m *mockMessageRepo) GetByID(_ context.Context, id string) (*model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[id]
	if !ok {
		return nil, apperror.NotFound("Message")
	}
	out := *msg
	out.Favorites = slices.Clone(msg.Favorites)
	out.Replies = slices.Clone(msg.Replies)
	return &out, nil
}

func (m *mockMessageRepo) ListRecent(_ context.Context, limit int) ([]model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
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

func (m *mockMessageRepo) SetFavorites(_ context.Context, id string, favorites []model.MessageFavorite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[id]
	if !ok {
		return apperror.NotFound("Message")
	}
	msg.Favorites = slices.Clone(favorites)
	return nil
}

func (m *mockMessageRepo) SetReplies(_ context.Context, id string, replies []model.ReplyMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[id]
	if !ok {
		return apperror.NotFound("Message")
	}
	msg.Replies = slices.Clone(replies)
	return nil
}

func (m *mockMessageRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.messages[id]; !ok {
		return apperror.NotFound("Message")
	}
	delete(m.messages, id)
	return nil
}

// mockProfileRepo is an in-memory ProfileRepository. Merge applies the
// fields the services actually write and records the raw map for assertions.
type mockProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*model.Profile

	lastMerge map[string]any
}

var _ repository.ProfileRepository = (*mockProfileRepo)(nil)

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: make(map[string]*model.Profile)}
}

func (m *mockProfileRepo) put(p *model.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *p
	m.profiles[p.UID] = &stored
}

func (m *mockProfileRepo) Get(_ context.Context, uid string) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[uid]
	if !ok {
		return nil, apperror.NotFound("Profile")
	}
	out := *p
	return &out, nil
}

func (m *mockProfileRepo) Merge(_ context.Context, uid string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastMerge = fields

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

func (m *mockProfileRepo) FindByAlias(_ context.Context, alias string) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if p.Alias == alias {
			out := *p
			return &out, nil
		}
	}
	return nil, apperror.NotFound("User")
}

func (m *mockProfileRepo) ToggleFollow(_ context.Context, actorUID, targetUID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
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

// mockNotificationRepo is an in-memory NotificationRepository.
type mockNotificationRepo struct {
	mu            sync.Mutex
	notifications map[string]*model.Notification

	createErr error
}

var _ repository.NotificationRepository = (*mockNotificationRepo)(nil)

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{notifications: make(map[string]*model.Notification)}
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *n
	m.notifications[n.ID] = &stored
	return nil
}

func (m *mockNotificationRepo) GetByID(_ context.Context, id string) (*model.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[id]
	if !ok {
		return nil, apperror.NotFound("Notification")
	}
	out := *n
	return &out, nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, uid string, onlyUnread bool) ([]model.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
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

func (m *mockNotificationRepo) MarkRead(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[id]
	if !ok {
		return apperror.NotFound("Notification")
	}
	n.Read = true
	return nil
}

// byUser returns uid's stored notifications regardless of read state.
func (m *mockNotificationRepo) byUser(uid string) []model.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Notification
	for _, n := range m.notifications {
		if n.UserID == uid {
			out = append(out, *n)
		}
	}
	return out
}

type directoryUpdate struct {
	uid         string
	displayName string
	photoURL    string
}

// mockDirectory is an in-memory UserDirectory.
type mockDirectory struct {
	mu       sync.Mutex
	accounts map[string]*model.Account
	updates  []directoryUpdate
}

var _ repository.UserDirectory = (*mockDirectory)(nil)

func newMockDirectory() *mockDirectory {
	return &mockDirectory{accounts: make(map[string]*model.Account)}
}

func (m *mockDirectory) put(a *model.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *a
	m.accounts[a.UID] = &stored
}

func (m *mockDirectory) GetUser(_ context.Context, uid string) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[uid]
	if !ok {
		return nil, apperror.NotFound("User")
	}
	out := *a
	return &out, nil
}

func (m *mockDirectory) UpdateUser(_ context.Context, uid, displayName, photoURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, directoryUpdate{uid: uid, displayName: displayName, photoURL: photoURL})
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
