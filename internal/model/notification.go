package model

import "time"

// NotificationType classifies a notification record.
type NotificationType string

const (
	NotificationMessage NotificationType = "message"
	NotificationLike    NotificationType = "like"
	NotificationReply   NotificationType = "reply"
	NotificationFollow  NotificationType = "follow"
	NotificationMention NotificationType = "mention"
	NotificationOther   NotificationType = "other"
)

// Social reports whether the type carries a sender (like/reply/follow/mention).
func (t NotificationType) Social() bool {
	switch t {
	case NotificationLike, NotificationReply, NotificationFollow, NotificationMention:
		return true
	}
	return false
}

// Notification is a stored notification document. SenderID and ExtraMessage
// are set only for social types; Message is free text for type "message" and
// is also synthesized at read time on the single-notification fetch path.
// Records are never deleted; the only mutation is flipping Read.
type Notification struct {
	ID           string           `json:"id" firestore:"id"`
	UserID       string           `json:"userId" firestore:"userId"`
	Type         NotificationType `json:"type" firestore:"type"`
	Read         bool             `json:"read" firestore:"read"`
	CreatedAt    time.Time        `json:"createdAt" firestore:"createdAt"`
	SenderID     string           `json:"senderId,omitempty" firestore:"senderId,omitempty"`
	ExtraMessage string           `json:"extraMessage,omitempty" firestore:"extraMessage,omitempty"`
	Message      string           `json:"message,omitempty" firestore:"message,omitempty"`
}

// NotificationDraft is a notification payload that can only be built through
// the constructors below, so a social notification always carries a sender
// and a "message" notification always carries its text. The fields are
// unexported on purpose: handler and service code cannot assemble an invalid
// type/field combination.
type NotificationDraft struct {
	userID       string
	typ          NotificationType
	senderID     string
	extraMessage string
	message      string
}

// NewLikeNotification notifies recipient that sender liked messageID.
func NewLikeNotification(recipient, sender, messageID string) NotificationDraft {
	return NotificationDraft{userID: recipient, typ: NotificationLike, senderID: sender, extraMessage: messageID}
}

// NewReplyNotification notifies recipient that sender replied to messageID.
func NewReplyNotification(recipient, sender, messageID string) NotificationDraft {
	return NotificationDraft{userID: recipient, typ: NotificationReply, senderID: sender, extraMessage: messageID}
}

// NewFollowNotification notifies recipient that sender followed them.
func NewFollowNotification(recipient, sender string) NotificationDraft {
	return NotificationDraft{userID: recipient, typ: NotificationFollow, senderID: sender}
}

// NewMentionNotification notifies recipient that sender mentioned them in
// messageID.
func NewMentionNotification(recipient, sender, messageID string) NotificationDraft {
	return NotificationDraft{userID: recipient, typ: NotificationMention, senderID: sender, extraMessage: messageID}
}

// NewMessageNotification carries free text with no sender.
func NewMessageNotification(recipient, text string) NotificationDraft {
	return NotificationDraft{userID: recipient, typ: NotificationMessage, message: text}
}

// Recipient returns the uid the notification is addressed to.
func (d NotificationDraft) Recipient() string { return d.userID }

// Build materializes the draft into a storable record.
func (d NotificationDraft) Build(id string, now time.Time) *Notification {
	return &Notification{
		ID:           id,
		UserID:       d.userID,
		Type:         d.typ,
		Read:         false,
		CreatedAt:    now,
		SenderID:     d.senderID,
		ExtraMessage: d.extraMessage,
		Message:      d.message,
	}
}
