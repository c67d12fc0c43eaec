// Package auth verifies bearer ID tokens and exposes the caller's identity
// to handlers through the request context.
//
// Verification happens independently on every protected endpoint; there is
// no session state shared across requests.
package auth

import "context"

// Identity is the verified caller extracted from an ID token.
type Identity struct {
	UID     string
	Name    string // display name claim, may be empty
	Picture string // avatar URL claim, may be empty
}

// Verifier checks a raw ID token and returns the identity it certifies.
//
// The production implementation delegates to the identity provider
// (FirebaseVerifier); LocalVerifier accepts HS256 tokens for development and
// tests. Any failure is returned as-is and must be mapped to a generic 401
// by the caller.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}
