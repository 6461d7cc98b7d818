package auth

import (
	"context"
	"net/http"
	"strings"

	logger "github.com/sirupsen/logrus"

	"tradejournal/src/model"
)

type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// Middleware resolves the X-User-ID header to a user and stores it in the
// request context. Missing or unknown ids are rejected with 401.
func Middleware(users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(HeaderUserID))
			if id == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			user, err := users.FindByID(r.Context(), id)
			if err != nil {
				logger.WithError(err).WithField("user_id", id).Error("failed to load user for request")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			if user == nil {
				logger.WithField("user_id", id).Warn("request with unknown user id")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin must run after Middleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUserFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if !user.IsAdmin {
			logger.WithField("user_id", user.ID).Warn("non-admin user tried an admin route")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
