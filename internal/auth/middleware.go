package auth

import (
	"context"
	"log/slog"
	"net/http"
)

// contextKey is unexported so only this package can read or write the
// identity stored in the request context.
type contextKey struct{}

var identityKey contextKey

// RequireAuth enforces bearer-token authentication on every route it wraps.
//
// On success the verified identity is stored in the request context for
// handlers to read via IdentityFromContext. On any failure the response is a
// generic 401; the reason (missing header, malformed token, verification
// failure) is logged server-side only.
func RequireAuth(verifier Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerTokenFromRequest(r)
			if err != nil {
				unauthorized(w)
				return
			}

			identity, err := verifier.Verify(r.Context(), token)
			if err != nil {
				logger.Warn("token verification failed",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
		})
	}
}

// ContextWithIdentity returns a context carrying id as the verified caller.
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext retrieves the verified caller set by RequireAuth.
// The second return is false only on routes not wrapped by the middleware.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	return id, ok && id != nil
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"success":false,"error":"Unauthorized"}`))
}
