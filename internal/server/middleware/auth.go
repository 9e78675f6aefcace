// Package middleware holds the HTTP middleware shared by the API server,
// starting with bearer-token authentication.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// UserIDGetter exposes the authenticated user ID carried by validated claims.
type UserIDGetter interface {
	GetUserID() uuid.UUID
}

// TokenValidator checks a raw bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (UserIDGetter, error)
}

// ctxKey keeps context values private to this package.
type ctxKey struct{}

// AuthMiddleware requires a valid bearer token on every request it wraps.
// On success the authenticated user ID is placed on the request context,
// where handlers read it back through GetUserID. Every failure mode
// answers with the same plain 401.
func AuthMiddleware(jwtService TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}

			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, claims.GetUserID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken pulls the credential out of the Authorization header.
// The scheme is matched case-insensitively per RFC 7235.
func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}

// GetUserID returns the user ID stored by AuthMiddleware, or an error when
// the request never passed through it.
func GetUserID(r *http.Request) (uuid.UUID, error) {
	userID, ok := r.Context().Value(ctxKey{}).(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("user ID not found in request context")
	}
	return userID, nil
}
