package model

// EmbedType enumerates the kinds of rich preview cards a profile can carry.
type EmbedType string

const (
	EmbedLink    EmbedType = "link"
	EmbedSpotify EmbedType = "spotify"
	EmbedYouTube EmbedType = "youtube"
)

// Valid reports whether t is one of the known embed kinds.
func (t EmbedType) Valid() bool {
	switch t {
	case EmbedLink, EmbedSpotify, EmbedYouTube:
		return true
	}
	return false
}

// Embed is a profile-attached rich preview card.
type Embed struct {
	URL         string    `json:"url" firestore:"url"`
	Title       string    `json:"title" firestore:"title"`
	Description string    `json:"description" firestore:"description"`
	Image       string    `json:"image,omitempty" firestore:"image,omitempty"`
	Type        EmbedType `json:"type" firestore:"type"`
}

// Profile is the per-user document owned by this system, stored in the
// "profiles" collection keyed by uid.
//
// LastAliasChanged is internal bookkeeping for the 14-day alias cooldown and
// must never reach non-owner callers; PublicView strips it along with the
// phone number. PhotoURL is not authoritative here; the identity provider's
// current value overwrites it on every read.
type Profile struct {
	UID              string   `json:"uid" firestore:"uid"`
	Alias            string   `json:"alias,omitempty" firestore:"alias,omitempty"`
	DisplayName      string   `json:"displayName" firestore:"displayName"`
	Bio              string   `json:"bio,omitempty" firestore:"bio,omitempty"`
	Location         string   `json:"location,omitempty" firestore:"location,omitempty"`
	Website          string   `json:"website,omitempty" firestore:"website,omitempty"`
	PhoneNumber      string   `json:"phoneNumber,omitempty" firestore:"phoneNumber,omitempty"`
	PhotoURL         string   `json:"photoURL,omitempty" firestore:"photoURL,omitempty"`
	Embeds           []Embed  `json:"embeds,omitempty" firestore:"embeds,omitempty"`
	Followers        []string `json:"followers,omitempty" firestore:"followers,omitempty"`
	Following        []string `json:"following,omitempty" firestore:"following,omitempty"`
	Verified         bool     `json:"verified" firestore:"verified"`
	LastAliasChanged int64    `json:"__lastAliasChanged,omitempty" firestore:"__lastAliasChanged,omitempty"`
}

// PublicView returns a copy with owner-private fields removed. Every
// non-owner read path goes through this.
func (p Profile) PublicView() Profile {
	p.PhoneNumber = ""
	p.LastAliasChanged = 0
	return p
}

// Account is the identity provider's view of a user. This system reads it
// for display name and avatar and pushes display-name updates back; the
// provider stays the source of truth for the photo URL.
type Account struct {
	UID           string
	DisplayName   string
	PhotoURL      string
	EmailVerified bool
}
