package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vaultpass/passgen-go/internal/crypto"
)

type contextKey string

const ownerKey contextKey = "owner"

// IsOwner reports whether the request may write to the history. Requests
// that never passed an auth middleware count as owner requests, which is
// the case when no passphrase is configured.
func IsOwner(ctx context.Context) bool {
	owner, ok := ctx.Value(ownerKey).(bool)
	return !ok || owner
}

// JWTAuth returns middleware that requires a valid owner Bearer token.
func JWTAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			if msg, ok := checkBearer(authHeader, secret); !ok {
				writeJSONError(w, http.StatusUnauthorized, msg)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ownerKey, true)))
		})
	}
}

// OptionalJWTAuth lets anonymous requests through as non-owners. A request
// that does send an Authorization header must carry a valid owner token.
func OptionalJWTAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ownerKey, false)))
				return
			}

			if msg, ok := checkBearer(authHeader, secret); !ok {
				writeJSONError(w, http.StatusUnauthorized, msg)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ownerKey, true)))
		})
	}
}

func checkBearer(authHeader, secret string) (string, bool) {
	token, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || token == "" {
		return "invalid authorization format", false
	}
	if _, err := crypto.ValidateToken(token, secret); err != nil {
		return "invalid or expired token", false
	}
	return "", true
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
