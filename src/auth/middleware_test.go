package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tradejournal/src/model"
)

type mockUserFinder struct {
	users map[string]*model.User
	err   error
}

func (m *mockUserFinder) FindByID(_ context.Context, id string) (*model.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.users[id], nil
}

func TestMiddleware(t *testing.T) {
	finder := &mockUserFinder{users: map[string]*model.User{"u-1": {ID: "u-1", Login: "alice"}}}

	var seen *model.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetUserFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name     string
		header   string
		finder   UserFinder
		expected int
	}{
		{"missing header", "", finder, http.StatusUnauthorized},
		{"unknown user", "u-2", finder, http.StatusUnauthorized},
		{"lookup failure", "u-1", &mockUserFinder{err: errors.New("db down")}, http.StatusInternalServerError},
		{"known user", "u-1", finder, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/api/trades", nil)
			if tt.header != "" {
				req.Header.Set(HeaderUserID, tt.header)
			}
			rec := httptest.NewRecorder()

			Middleware(tt.finder)(next).ServeHTTP(rec, req)

			if rec.Code != tt.expected {
				t.Fatalf("expected status %d, got %d", tt.expected, rec.Code)
			}
			if tt.expected == http.StatusNoContent && (seen == nil || seen.ID != "u-1") {
				t.Fatalf("expected user in context, got %+v", seen)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name     string
		user     *model.User
		expected int
	}{
		{"no user", nil, http.StatusUnauthorized},
		{"regular user", &model.User{ID: "u-1"}, http.StatusForbidden},
		{"admin", &model.User{ID: "a-1", IsAdmin: true}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
			if tt.user != nil {
				req = req.WithContext(WithUser(req.Context(), tt.user))
			}
			rec := httptest.NewRecorder()

			RequireAdmin(next).ServeHTTP(rec, req)

			if rec.Code != tt.expected {
				t.Fatalf("expected status %d, got %d", tt.expected, rec.Code)
			}
		})
	}
}
