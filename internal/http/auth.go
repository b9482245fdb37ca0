package httpapi

import (
	"context"
	"net/http"
	"strings"

	"run2rejuvenate-backend-go/internal/services"
)

type contextKey string

const ctxIdentity contextKey = "identity"

// WithAuth verifies the bearer credential and stores the resolved identity
// in the request context. Requests without a valid credential are rejected;
// there is no anonymous fallback.
func WithAuth(tokens services.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				WriteError(w, http.StatusUnauthorized, "Authentication failed")
				return
			}
			ident, err := tokens.Authenticate(strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				WriteError(w, http.StatusUnauthorized, "Authentication failed")
				return
			}
			ctx := context.WithValue(r.Context(), ctxIdentity, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentIdentity returns the identity stored by WithAuth. The zero value
// means the route was not behind the middleware.
func CurrentIdentity(r *http.Request) services.Identity {
	if value, ok := r.Context().Value(ctxIdentity).(services.Identity); ok {
		return value
	}
	return services.Identity{}
}

// RequireAdmin gates a route on the admin flag carried in the credential.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !CurrentIdentity(r).IsAdmin {
			WriteError(w, http.StatusForbidden, "Not enough permissions")
			return
		}
		next.ServeHTTP(w, r)
	})
}
