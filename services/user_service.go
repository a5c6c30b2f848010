package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tierlist-restful/apperrors"
	"tierlist-restful/models"
	"tierlist-restful/repositories"
)

// The UserService interface defines the methods that user services need to implement
type UserService interface {
	ListUsers(ctx context.Context) ([]models.UserView, error)
	GetUser(ctx context.Context, id uint) (models.UserView, error)
	CreateUser(ctx context.Context, input *CreateUserInput) (models.UserView, error)
	UpdateUser(ctx context.Context, id uint, input *UpdateUserInput) (models.UserView, error)
	DeleteUser(ctx context.Context, id uint) error
}

type userService struct {
	store  *repositories.Store
	logger *zap.Logger
}

var _ UserService = (*userService)(nil)

func NewUserService(store *repositories.Store, logger *zap.Logger) UserService {
	return &userService{store: store, logger: logger.Named("users")}
}

func userNotFound(id uint) *apperrors.Error {
	return apperrors.NotFound("User %d not found", id)
}

func (s *userService) ListUsers(ctx context.Context) ([]models.UserView, error) {
	users, err := s.store.Users.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("Database error retrieving users", err)
	}
	views, err := s.store.Trees().Users(ctx, users)
	if err != nil {
		return nil, apperrors.Internal("Database error retrieving users", err)
	}
	return views, nil
}

func (s *userService) GetUser(ctx context.Context, id uint) (models.UserView, error) {
	user, err := s.store.Users.FindByID(ctx, id)
	if err != nil {
		return models.UserView{}, translate(err, userNotFound(id), "Database error retrieving user")
	}
	views, err := s.store.Trees().Users(ctx, []models.User{*user})
	if err != nil {
		return models.UserView{}, apperrors.Internal("Database error retrieving user", err)
	}
	return views[0], nil
}

// CreateUser inserts a user; emails are compared case-insensitively.
func (s *userService) CreateUser(ctx context.Context, input *CreateUserInput) (models.UserView, error) {
	user := models.User{
		Name:  strings.TrimSpace(input.Name),
		Email: normalizeEmail(input.Email),
	}

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := ensureEmailFree(ctx, tx, user.Email, 0); err != nil {
			return err
		}
		return tx.Users.Create(ctx, &user)
	})
	if err != nil {
		return models.UserView{}, translate(err, nil, "Failed to create user")
	}

	s.logger.Info("User created", zap.Uint("user_id", user.ID))
	return user.Serialize(nil), nil
}

func (s *userService) UpdateUser(ctx context.Context, id uint, input *UpdateUserInput) (models.UserView, error) {
	var user *models.User
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		var err error
		user, err = tx.Users.FindByID(ctx, id)
		if err != nil {
			return err
		}
		email := normalizeEmail(input.Email)
		if err := ensureEmailFree(ctx, tx, email, id); err != nil {
			return err
		}
		user.Name = strings.TrimSpace(input.Name)
		user.Email = email
		return tx.Users.Update(ctx, user)
	})
	if err != nil {
		return models.UserView{}, translate(err, userNotFound(id), "Failed to save user updates")
	}
	return s.GetUser(ctx, user.ID)
}

// DeleteUser removes a user that owns no tierlists. Users with tierlists
// are kept and a Conflict is returned.
func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		user, err := tx.Users.FindByID(ctx, id)
		if err != nil {
			return err
		}
		owned, err := tx.Tierlists.CountByCreator(ctx, id)
		if err != nil {
			return err
		}
		if owned > 0 {
			return apperrors.Conflict("User %d still owns %d tierlist(s); delete them first", id, owned)
		}
		return tx.Users.Delete(ctx, user)
	})
	if err != nil {
		return translate(err, userNotFound(id), "Failed to delete user")
	}
	s.logger.Info("User deleted", zap.Uint("user_id", id))
	return nil
}

// ensureEmailFree fails with Conflict when another user than exceptID
// already uses email.
func ensureEmailFree(ctx context.Context, tx *repositories.Store, email string, exceptID uint) error {
	existing, err := tx.Users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return apperrors.Internal("Database error checking email uniqueness", err)
	case existing.ID != exceptID:
		return apperrors.Conflict("Email address %s is already in use", email)
	default:
		return nil
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
