package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tradejournal/src/model"
	"tradejournal/src/security"
)

type mockAccountRepo struct {
	users     map[string]*model.User
	findErr   error
	createErr error
	updated   *model.User
}

func newMockAccountRepo(users ...*model.User) *mockAccountRepo {
	m := &mockAccountRepo{users: map[string]*model.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockAccountRepo) find(match func(*model.User) bool) (*model.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, u := range m.users {
		if match(u) {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockAccountRepo) FindByLogin(_ context.Context, login string) (*model.User, error) {
	return m.find(func(u *model.User) bool { return u.Login == login })
}

func (m *mockAccountRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return m.find(func(u *model.User) bool { return u.Email == email })
}

func (m *mockAccountRepo) FindByLoginOrEmail(_ context.Context, login, email string) (*model.User, error) {
	return m.find(func(u *model.User) bool { return u.Login == login || u.Email == email })
}

func (m *mockAccountRepo) Create(_ context.Context, user *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = "new-user"
	m.users[user.ID] = user
	return nil
}

func (m *mockAccountRepo) Update(_ context.Context, user *model.User) error {
	m.updated = user
	return nil
}

const testCost = 4

func existingUser(t *testing.T) *model.User {
	t.Helper()
	hash, err := security.HashPassword("old-pass", testCost)
	require.NoError(t, err)
	return &model.User{ID: "u-1", Login: "alice", Email: "alice@example.com", Password: hash, Name: "Alice", Surname: "A"}
}

func TestSignupHandler(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected int
	}{
		{"created", `{"login":"bob","password":"pw","name":"Bob","surname":"B","email":"bob@example.com"}`, http.StatusCreated},
		{"missing fields", `{"login":"bob","password":"pw"}`, http.StatusBadRequest},
		{"duplicate login", `{"login":"alice","password":"pw","name":"A","surname":"B","email":"new@example.com"}`, http.StatusConflict},
		{"duplicate email", `{"login":"carol","password":"pw","name":"A","surname":"B","email":"alice@example.com"}`, http.StatusConflict},
		{"malformed", `[`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockAccountRepo(existingUser(t))
			rr := serve(http.MethodPost, "/api/auth/signup", "/api/auth/signup", tt.body, nil, SignupHandler(repo, testCost))
			if rr.Code != tt.expected {
				t.Fatalf("expected status %d, got %d (%s)", tt.expected, rr.Code, rr.Body.String())
			}
		})
	}

	raced := newMockAccountRepo()
	raced.createErr = gorm.ErrDuplicatedKey
	rr := serve(http.MethodPost, "/api/auth/signup", "/api/auth/signup", tests[0].body, nil, SignupHandler(raced, testCost))
	assert.Equal(t, http.StatusConflict, rr.Code)

	repo := newMockAccountRepo()
	rr = serve(http.MethodPost, "/api/auth/signup", "/api/auth/signup", tests[0].body, nil, SignupHandler(repo, testCost))
	assert.NotContains(t, rr.Body.String(), "password")
	created := repo.users["new-user"]
	require.NotNil(t, created)
	assert.NoError(t, security.CheckPassword(created.Password, "pw"))
	assert.False(t, created.IsAdmin)
}

func TestLoginHandler(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		findErr  error
		expected int
	}{
		{"ok", `{"login":"alice","password":"old-pass"}`, nil, http.StatusOK},
		{"wrong password", `{"login":"alice","password":"nope"}`, nil, http.StatusUnauthorized},
		{"unknown login", `{"login":"zed","password":"old-pass"}`, nil, http.StatusUnauthorized},
		{"missing password", `{"login":"alice"}`, nil, http.StatusBadRequest},
		{"lookup failure", `{"login":"alice","password":"old-pass"}`, assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockAccountRepo(existingUser(t))
			repo.findErr = tt.findErr
			rr := serve(http.MethodPost, "/api/auth/login", "/api/auth/login", tt.body, nil, LoginHandler(repo))
			if rr.Code != tt.expected {
				t.Fatalf("expected status %d, got %d (%s)", tt.expected, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestUpdateProfileHandler(t *testing.T) {
	other := &model.User{ID: "u-2", Login: "bob", Email: "bob@example.com"}

	tests := []struct {
		name     string
		body     string
		expected int
	}{
		{"plain fields", `{"name":"Alicia","phone":"+1"}`, http.StatusOK},
		{"new password without current", `{"new_password":"next"}`, http.StatusBadRequest},
		{"wrong current password", `{"current_password":"bad","new_password":"next"}`, http.StatusUnauthorized},
		{"login taken", `{"login":"bob"}`, http.StatusConflict},
		{"email taken", `{"email":"bob@example.com"}`, http.StatusConflict},
		{"same login is fine", `{"login":"alice"}`, http.StatusOK},
		{"empty login", `{"login":"  "}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := existingUser(t)
			repo := newMockAccountRepo(user, other)
			rr := serve(http.MethodPut, "/api/auth/profile", "/api/auth/profile", tt.body, user, UpdateProfileHandler(repo, testCost))
			if rr.Code != tt.expected {
				t.Fatalf("expected status %d, got %d (%s)", tt.expected, rr.Code, rr.Body.String())
			}
			if tt.expected != http.StatusOK && repo.updated != nil {
				t.Fatalf("user must not be persisted on failure")
			}
		})
	}

	t.Run("password change", func(t *testing.T) {
		user := existingUser(t)
		repo := newMockAccountRepo(user)
		rr := serve(http.MethodPut, "/api/auth/profile", "/api/auth/profile", `{"current_password":"old-pass","new_password":"next"}`, user, UpdateProfileHandler(repo, testCost))
		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, repo.updated)
		assert.NoError(t, security.CheckPassword(repo.updated.Password, "next"))
	})

	t.Run("unauthorized", func(t *testing.T) {
		rr := serve(http.MethodPut, "/api/auth/profile", "/api/auth/profile", `{}`, nil, UpdateProfileHandler(newMockAccountRepo(), testCost))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
