package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tradejournal/src/auth"
	"tradejournal/src/model"
	"tradejournal/src/security"
)

type accountRepository interface {
	FindByLogin(ctx context.Context, login string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByLoginOrEmail(ctx context.Context, login, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
}

func SignupHandler(repo accountRepository, bcryptCost int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload model.SignupPayload
		if err := decodeJSON(r, &payload); err != nil {
			logger.WithError(err).Warn("invalid signup payload")
			writeError(w, http.StatusBadRequest, "Invalid payload")
			return
		}

		login := strings.TrimSpace(payload.Login)
		email := strings.TrimSpace(payload.Email)
		name := strings.TrimSpace(payload.Name)
		surname := strings.TrimSpace(payload.Surname)
		if login == "" || payload.Password == "" || name == "" || surname == "" || email == "" {
			writeError(w, http.StatusBadRequest, "Missing required fields")
			return
		}

		existing, err := repo.FindByLoginOrEmail(r.Context(), login, email)
		if err != nil {
			logger.WithError(err).Error("failed to check existing user on signup")
			writeError(w, http.StatusInternalServerError, "Failed to create user")
			return
		}
		if existing != nil {
			writeError(w, http.StatusConflict, "User with this login or email already exists")
			return
		}

		hash, err := security.HashPassword(payload.Password, bcryptCost)
		if err != nil {
			logger.WithError(err).Error("failed to hash password on signup")
			writeError(w, http.StatusInternalServerError, "Failed to create user")
			return
		}

		user := &model.User{
			Login:    login,
			Password: hash,
			Name:     name,
			Surname:  surname,
			Email:    email,
			Phone:    strings.TrimSpace(payload.Phone),
		}
		if err := repo.Create(r.Context(), user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				writeError(w, http.StatusConflict, "User with this login or email already exists")
				return
			}
			logger.WithError(err).Error("failed to create user")
			writeError(w, http.StatusInternalServerError, "Failed to create user")
			return
		}

		writeJSON(w, http.StatusCreated, user.ToResponse())
	}
}

func LoginHandler(repo accountRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload model.LoginPayload
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid payload")
			return
		}

		login := strings.TrimSpace(payload.Login)
		if login == "" || payload.Password == "" {
			writeError(w, http.StatusBadRequest, "Login and password are required")
			return
		}

		user, err := repo.FindByLogin(r.Context(), login)
		if err != nil {
			logger.WithError(err).Error("failed to load user on login")
			writeError(w, http.StatusInternalServerError, "Failed to login")
			return
		}
		if user == nil {
			writeError(w, http.StatusUnauthorized, "Invalid login or password")
			return
		}

		if err := security.CheckPassword(user.Password, payload.Password); err != nil {
			if !errors.Is(err, security.ErrPasswordMismatch) {
				logger.WithError(err).WithField("user_id", user.ID).Error("failed to verify password")
			}
			writeError(w, http.StatusUnauthorized, "Invalid login or password")
			return
		}

		logger.WithField("user_id", user.ID).Info("user logged in")
		writeJSON(w, http.StatusOK, user.ToResponse())
	}
}

// UpdateProfileHandler applies the provided profile fields to the caller. A new
// password is only accepted together with the correct current password.
func UpdateProfileHandler(repo accountRepository, bcryptCost int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok {
			logger.Warn("user not found in context during profile update")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var payload model.UpdateProfilePayload
		if err := decodeJSON(r, &payload); err != nil {
			logger.WithError(err).Warn("invalid profile update payload")
			writeError(w, http.StatusBadRequest, "Invalid payload")
			return
		}

		if payload.NewPassword != "" {
			if payload.CurrentPassword == "" {
				writeError(w, http.StatusBadRequest, "Current password required to change password")
				return
			}
			if err := security.CheckPassword(user.Password, payload.CurrentPassword); err != nil {
				logger.WithField("user_id", user.ID).Warn("current password mismatch")
				writeError(w, http.StatusUnauthorized, "Current password is incorrect")
				return
			}
		}

		if payload.Login != nil {
			login := strings.TrimSpace(*payload.Login)
			if login == "" {
				writeError(w, http.StatusBadRequest, "Login cannot be empty")
				return
			}
			if login != user.Login {
				taken, err := repo.FindByLogin(r.Context(), login)
				if err != nil {
					logger.WithError(err).Error("failed to check login availability")
					writeError(w, http.StatusInternalServerError, "Failed to update profile")
					return
				}
				if taken != nil && taken.ID != user.ID {
					writeError(w, http.StatusConflict, "Login already taken")
					return
				}
			}
			user.Login = login
		}

		if payload.Email != nil {
			email := strings.TrimSpace(*payload.Email)
			if email == "" {
				writeError(w, http.StatusBadRequest, "Email cannot be empty")
				return
			}
			if email != user.Email {
				taken, err := repo.FindByEmail(r.Context(), email)
				if err != nil {
					logger.WithError(err).Error("failed to check email availability")
					writeError(w, http.StatusInternalServerError, "Failed to update profile")
					return
				}
				if taken != nil && taken.ID != user.ID {
					writeError(w, http.StatusConflict, "Email already registered")
					return
				}
			}
			user.Email = email
		}

		if payload.Name != nil {
			user.Name = strings.TrimSpace(*payload.Name)
		}
		if payload.Surname != nil {
			user.Surname = strings.TrimSpace(*payload.Surname)
		}
		if payload.Phone != nil {
			user.Phone = strings.TrimSpace(*payload.Phone)
		}
		if payload.ProfileImage != nil {
			user.ProfileImage = strings.TrimSpace(*payload.ProfileImage)
		}

		if payload.NewPassword != "" {
			hash, err := security.HashPassword(payload.NewPassword, bcryptCost)
			if err != nil {
				logger.WithError(err).Error("failed to hash new password")
				writeError(w, http.StatusInternalServerError, "Failed to update profile")
				return
			}
			user.Password = hash
		}

		user.UpdatedAt = time.Now()

		if err := repo.Update(r.Context(), user); err != nil {
			logger.WithError(err).Error("failed to update user profile")
			writeError(w, http.StatusInternalServerError, "Failed to update profile")
			return
		}

		writeJSON(w, http.StatusOK, user.ToResponse())
	}
}
