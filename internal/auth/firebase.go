package auth

import (
	"context"
	"fmt"

	firebaseauth "firebase.google.com/go/v4/auth"
)

// FirebaseVerifier validates ID tokens against the identity provider.
//
// The auth client is created once at startup and reused; token verification
// itself is a local signature check against cached public keys, so this adds
// no per-request round trip in the common case.
type FirebaseVerifier struct {
	client *firebaseauth.Client
}

var _ Verifier = (*FirebaseVerifier)(nil)

func NewFirebaseVerifier(client *firebaseauth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("verifying ID token: %w", err)
	}

	id := &Identity{UID: decoded.UID}
	if name, ok := decoded.Claims["name"].(string); ok {
		id.Name = name
	}
	if picture, ok := decoded.Claims["picture"].(string); ok {
		id.Picture = picture
	}
	return id, nil
}
