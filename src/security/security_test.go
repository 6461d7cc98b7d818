package security

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradejournal/src/model"
)

type memoryStore struct {
	users     map[string]*model.User
	createErr error
	creates   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: map[string]*model.User{}}
}

func (m *memoryStore) FindByLogin(_ context.Context, login string) (*model.User, error) {
	return m.users[login], nil
}

func (m *memoryStore) Create(_ context.Context, user *model.User) error {
	m.creates++
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = "admin-id"
	m.users[user.Login] = user
	return nil
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.NoError(t, CheckPassword(hash, "s3cret"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong"), ErrPasswordMismatch)
	assert.Error(t, CheckPassword("not-a-hash", "s3cret"))
}

func TestHashPassword_InvalidCostFallsBack(t *testing.T) {
	hash, err := HashPassword("pw", 1)
	require.NoError(t, err)
	assert.NoError(t, CheckPassword(hash, "pw"))
}

func TestEnsureAdmin(t *testing.T) {
	cfg := Config{BcryptCost: 4, AdminLogin: "root", AdminPassword: "pw", AdminName: "Ad", AdminSurname: "Min", AdminEmail: "root@example.com"}

	t.Run("creates once", func(t *testing.T) {
		store := newMemoryStore()

		admin, created, err := EnsureAdmin(context.Background(), store, cfg)
		require.NoError(t, err)
		require.True(t, created)
		assert.True(t, admin.IsAdmin)
		assert.NoError(t, CheckPassword(admin.Password, "pw"))

		again, created, err := EnsureAdmin(context.Background(), store, cfg)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, admin.ID, again.ID)
		assert.Equal(t, 1, store.creates)
	})

	t.Run("requires password for new admin", func(t *testing.T) {
		noPw := cfg
		noPw.AdminPassword = ""
		_, _, err := EnsureAdmin(context.Background(), newMemoryStore(), noPw)
		assert.Error(t, err)
	})

	t.Run("requires login", func(t *testing.T) {
		noLogin := cfg
		noLogin.AdminLogin = "  "
		_, _, err := EnsureAdmin(context.Background(), newMemoryStore(), noLogin)
		assert.Error(t, err)
	})

	t.Run("create failure is wrapped", func(t *testing.T) {
		store := newMemoryStore()
		store.createErr = errors.New("unique violation")
		_, _, err := EnsureAdmin(context.Background(), store, cfg)
		assert.ErrorIs(t, err, store.createErr)
	})
}
