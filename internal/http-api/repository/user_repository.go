package repository

import (
	"context"
	"fmt"

	"pixelbook/internal/http-api/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// CreateWithCollections persists the user together with an empty bookshelf
	// and shop cart in one transaction. A user never exists without both.
	CreateWithCollections(ctx context.Context, user *models.User) error
	GetAll(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
}

// userRepository is the GORM implementation of UserRepository.
type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateWithCollections(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		if err := tx.Create(&models.Bookshelf{UserID: user.ID}).Error; err != nil {
			return fmt.Errorf("create bookshelf: %w", err)
		}
		if err := tx.Create(&models.ShopCart{UserID: user.ID}).Error; err != nil {
			return fmt.Errorf("create shop cart: %w", err)
		}
		return nil
	})
}

func (r *userRepository) GetAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	// return nil on miss so callers never see a zero-value user
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// Delete removes the user and, through a transaction, the bookshelf, cart and
// their association rows. Postgres-level cascade alone does not cover the
// join rows, so they go explicitly.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		// a missing user has to surface as a miss, not a no-op delete
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}
		var shelf models.Bookshelf
		if err := tx.Where("user_id = ?", id).First(&shelf).Error; err == nil {
			if err := tx.Where("bookshelf_id = ?", shelf.ID).Delete(&models.Content{}).Error; err != nil {
				return fmt.Errorf("delete contents: %w", err)
			}
			if err := tx.Delete(&shelf).Error; err != nil {
				return fmt.Errorf("delete bookshelf: %w", err)
			}
		}
		var cart models.ShopCart
		if err := tx.Where("user_id = ?", id).First(&cart).Error; err == nil {
			if err := tx.Where("shop_cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
				return fmt.Errorf("delete cart items: %w", err)
			}
			if err := tx.Delete(&cart).Error; err != nil {
				return fmt.Errorf("delete shop cart: %w", err)
			}
		}
		if err := tx.Delete(&user).Error; err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}
