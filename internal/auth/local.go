package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LocalVerifier accepts HS256 ID tokens signed with a shared secret. It
// exists so the server (and its tests) can run without Firebase credentials;
// tokens are minted by cmd/gentoken or by Mint directly.
type LocalVerifier struct {
	secret []byte
}

var _ Verifier = (*LocalVerifier)(nil)

// localClaims mirrors the identity-token claims the Firebase verifier reads.
type localClaims struct {
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

func NewLocalVerifier(secret string) (*LocalVerifier, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: local secret must be at least 16 characters")
	}
	return &LocalVerifier{secret: []byte(secret)}, nil
}

func (v *LocalVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	var claims localClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}

	return &Identity{
		UID:     claims.Subject,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}

// Mint signs a token for uid valid for ttl. Dev and test use only.
func (v *LocalVerifier) Mint(uid, name, picture string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := localClaims{
		Name:    name,
		Picture: picture,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
