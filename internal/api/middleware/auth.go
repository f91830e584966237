package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/lettergame/internal/api/apierr"
	"github.com/mcoot/lettergame/internal/middleware"
	"github.com/mcoot/lettergame/internal/services/auth"
)

type contextKey string

const (
	identityContextKey contextKey = "identity"
	tokenContextKey    contextKey = "token"
)

// ConnectionHeader carries the client's connection id
const ConnectionHeader = middleware.ConnectionHeader

// Auth creates authentication middleware accepting "Authorization: Bearer <token>"
func Auth(authService auth.ServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			identity, err := authService.Authenticate(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, identityContextKey, identity)
			ctx = context.WithValue(ctx, tokenContextKey, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken extracts the bearer token from the request.
// Browsers cannot set headers on EventSource or websocket requests, so a
// "token" query parameter is accepted as well.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// GetIdentity returns the authenticated identity from the request context
func GetIdentity(ctx context.Context) *auth.Identity {
	identity, _ := ctx.Value(identityContextKey).(*auth.Identity)
	return identity
}

// GetToken returns the bearer token from the request context
func GetToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}

// MustGetIdentity returns the authenticated identity or panics
func MustGetIdentity(ctx context.Context) *auth.Identity {
	identity := GetIdentity(ctx)
	if identity == nil {
		panic("no identity in context - auth middleware not applied?")
	}
	return identity
}

// ConnectionID identifies the calling connection: the X-Connection-ID header,
// then the "connection" query parameter, then the player id.
func ConnectionID(r *http.Request) string {
	if id := r.Header.Get(ConnectionHeader); id != "" {
		return id
	}
	if id := r.URL.Query().Get("connection"); id != "" {
		return id
	}
	if identity := GetIdentity(r.Context()); identity != nil {
		return identity.PlayerID.String()
	}
	return ""
}
