package service

import (
	"context"
	"errors"

	"pixelbook/internal/http-api/models"
	"pixelbook/internal/http-api/repository"
	"pixelbook/internal/middleware/auth"

	"gorm.io/gorm"
)

var ErrEmailInUse = errors.New("email already in use")

type UserService interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

// Create registers a user together with an empty bookshelf and shop cart.
// The plaintext password on the incoming model is replaced by its hash.
func (s *userService) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if existing, err := s.users.FindByEmail(ctx, user.Email); err == nil && existing != nil {
		return nil, ErrEmailInUse
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := auth.HashPassword(user.Password)
	if err != nil {
		return nil, err
	}
	user.Password = hashed

	if err := s.users.CreateWithCollections(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetAll(ctx context.Context) ([]models.User, error) {
	return s.users.GetAll(ctx)
}

func (s *userService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, user *models.User) (*models.User, error) {
	existing, err := s.users.FindByID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.Email != "" {
		existing.Email = user.Email
	}
	if user.Password != "" {
		hashed, err := auth.HashPassword(user.Password)
		if err != nil {
			return nil, err
		}
		existing.Password = hashed
	}
	if user.SkinID != nil {
		existing.SkinID = user.SkinID
	}

	if err := s.users.Update(ctx, existing); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}
	return existing, nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
