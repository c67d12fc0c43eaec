// Package model defines the data structures shared across the application.
package model

// Message is a top-level message in the global feed, stored in the realtime
// database keyed by its generated id. Timestamps are epoch milliseconds and
// serve as the primary ordering key.
//
// Replies are embedded in the parent record rather than stored as independent
// records, so every reply write is a whole-array read-modify-write.
type Message struct {
	ID        string            `json:"id"`
	Content   string            `json:"content"`
	UID       string            `json:"uid"`
	Timestamp int64             `json:"timestamp"`
	Favorites []MessageFavorite `json:"favorites,omitempty"`
	Replies   []ReplyMessage    `json:"replies,omitempty"`
}

// MessageFavorite records one user's like on a message. The uid is unique
// within a message's favorites list; liking again removes the entry.
type MessageFavorite struct {
	UID       string `json:"uid"`
	Timestamp int64  `json:"timestamp"`
}

// UserSnapshot is the denormalized sender profile attached to messages and
// replies at read time. It is recomputed on every read and never persisted
// for top-level messages, so profile edits show up immediately.
type UserSnapshot struct {
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL,omitempty"`
	Verified    bool   `json:"verified"`
}

// ClientMessage is a Message enriched with the author's snapshot for API
// responses.
type ClientMessage struct {
	Message
	User *UserSnapshot `json:"user,omitempty"`
}

// ReplyMessage is a reply embedded under a parent message. Unlike top-level
// messages, the author snapshot is captured at creation time and stored with
// the reply; the read path re-resolves it anyway.
type ReplyMessage struct {
	ID        string        `json:"id"`
	Content   string        `json:"content"`
	UID       string        `json:"uid"`
	Timestamp int64         `json:"timestamp"`
	ReplyTo   string        `json:"replyTo"`
	User      *UserSnapshot `json:"user,omitempty"`
}
