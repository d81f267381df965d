// Package middleware guards the run-history and account endpoints: requests
// must carry a bearer token that resolves to a known user before any
// per-user analysis data is touched.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a dedicated context key type so the user ID cannot collide
// with keys planted by other packages.
type ContextKey string

const userIDKey ContextKey = "userID"

// TokenValidator checks a bearer token and returns its claims. The server's
// JWT service satisfies this; tests substitute their own.
type TokenValidator interface {
	ValidateToken(tokenString string) (UserIDGetter, error)
}

// UserIDGetter yields the user a validated token belongs to.
type UserIDGetter interface {
	GetUserID() uuid.UUID
}

// AuthMiddleware rejects requests without a valid bearer token and stamps
// the authenticated user ID into the request context for handlers
// downstream. Every failure mode answers 401 with the same body; callers
// learn nothing about why a token was refused.
func AuthMiddleware(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				refuse(w)
				return
			}

			claims, err := tokens.ValidateToken(token)
			if err != nil {
				refuse(w)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.GetUserID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from an Authorization header. The scheme
// is matched case-insensitively; anything other than exactly two fields is
// malformed.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func refuse(w http.ResponseWriter) {
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}

// GetUserID returns the authenticated user stamped by AuthMiddleware.
// Handlers reached without the middleware get an error, not a zero UUID
// they might mistake for a real user.
func GetUserID(r *http.Request) (uuid.UUID, error) {
	userID, ok := r.Context().Value(userIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("user ID not found in request context")
	}
	return userID, nil
}
