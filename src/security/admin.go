package security

import (
	"context"
	"errors"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"

	"tradejournal/src/model"
)

type AdminStore interface {
	FindByLogin(ctx context.Context, login string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
}

// EnsureAdmin creates the administrator described by config unless a user with
// that login already exists. It returns the existing or created user and
// whether it was created.
func EnsureAdmin(ctx context.Context, store AdminStore, config Config) (*model.User, bool, error) {
	login := strings.TrimSpace(config.AdminLogin)
	if login == "" {
		return nil, false, errors.New("ADMIN_LOGIN is required")
	}

	existing, err := store.FindByLogin(ctx, login)
	if err != nil {
		return nil, false, fmt.Errorf("lookup admin %q: %w", login, err)
	}
	if existing != nil {
		logger.WithFields(map[string]interface{}{
			"login":    login,
			"is_admin": existing.IsAdmin,
		}).Info("Admin user already exists, nothing to do")
		return existing, false, nil
	}

	if config.AdminPassword == "" {
		return nil, false, errors.New("ADMIN_PASSWORD is required")
	}

	hash, err := HashPassword(config.AdminPassword, config.BcryptCost)
	if err != nil {
		return nil, false, err
	}

	admin := &model.User{
		Login:    login,
		Password: hash,
		Name:     config.AdminName,
		Surname:  config.AdminSurname,
		Email:    strings.TrimSpace(config.AdminEmail),
		IsAdmin:  true,
	}
	if err := store.Create(ctx, admin); err != nil {
		return nil, false, fmt.Errorf("create admin %q: %w", login, err)
	}

	logger.WithFields(map[string]interface{}{
		"login":   login,
		"user_id": admin.ID,
	}).Info("Admin user created")

	return admin, true, nil
}
