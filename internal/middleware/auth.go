package middleware

import (
	"context"
	"net/http"
	"strings"

	ierr "go-firestore-portfolio/internal/errors"
	"go-firestore-portfolio/internal/handler/httpx"
	"go-firestore-portfolio/internal/session"
)

type contextKey string

const userKey contextKey = "user"

// RequireAuth verifies the bearer token of every request with provider and
// stores the user in the request context.
func RequireAuth(provider session.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httpx.WriteError(w, r, ierr.Unauthenticatedf("missing bearer token"))
				return
			}

			user, err := provider.Verify(r.Context(), token)
			if err != nil {
				httpx.WriteError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func WithUser(ctx context.Context, user *session.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the user set by RequireAuth.
func UserFromContext(ctx context.Context) (*session.User, bool) {
	user, ok := ctx.Value(userKey).(*session.User)
	return user, ok && user != nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
