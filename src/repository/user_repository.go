package repository

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tradejournal/src/model"
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *GormUserRepository {
	logger.WithField("component", "GormUserRepository").
		Info("Creating new GormUserRepository")

	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":  "UserRepository",
			"op":    "Create",
			"login": user.Login,
		}).WithError(err).Error("Failed to create user")

		return err
	}

	logger.WithFields(map[string]interface{}{
		"repo":    "UserRepository",
		"op":      "Create",
		"user_id": user.ID,
	}).Info("User created successfully")

	return nil
}

// FindByID returns (nil, nil) if the user does not exist.
func (r *GormUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, "FindByID", "id = ?", id)
}

// FindByLogin returns (nil, nil) if no user has that login.
func (r *GormUserRepository) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	return r.findOne(ctx, "FindByLogin", "login = ?", login)
}

// FindByEmail returns (nil, nil) if no user has that email.
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "FindByEmail", "email = ?", email)
}

// FindByLoginOrEmail returns the first user matching either value, or (nil, nil).
func (r *GormUserRepository) FindByLoginOrEmail(ctx context.Context, login, email string) (*model.User, error) {
	return r.findOne(ctx, "FindByLoginOrEmail", "login = ? OR email = ?", login, email)
}

func (r *GormUserRepository) findOne(
	ctx context.Context,
	op string,
	where string,
	args ...interface{},
) (*model.User, error) {

	var u model.User
	err := r.db.WithContext(ctx).
		Where(where, args...).
		First(&u).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		logger.WithFields(map[string]interface{}{
			"repo": "UserRepository",
			"op":   op,
		}).WithError(err).Error("Failed to fetch user")

		return nil, err
	}

	return &u, nil
}

func (r *GormUserRepository) Update(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":    "UserRepository",
			"op":      "Update",
			"user_id": user.ID,
		}).WithError(err).Error("Failed to update user")

		return err
	}
	return nil
}

// ListWithTrades returns every user, newest first, with their trades preloaded
// newest trade date first.
func (r *GormUserRepository) ListWithTrades(ctx context.Context) ([]model.User, error) {
	var users []model.User

	err := r.db.WithContext(ctx).
		Preload("Trades", func(db *gorm.DB) *gorm.DB {
			return db.Order("trade_date DESC, created_at DESC, id")
		}).
		Order("created_at DESC").
		Find(&users).Error

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "UserRepository",
			"op":   "ListWithTrades",
		}).WithError(err).Error("Failed to list users")

		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"repo":        "UserRepository",
		"op":          "ListWithTrades",
		"rows_return": len(users),
	}).Debug("Users listed")

	return users, nil
}
