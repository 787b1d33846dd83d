package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pixelbook/internal/http-api/models"

	"gorm.io/gorm"
)

type BookshelfRepo struct {
	db *gorm.DB
}

func NewBookshelfRepo(db *gorm.DB) *BookshelfRepo {
	return &BookshelfRepo{db: db}
}

func (r *BookshelfRepo) GetByID(ctx context.Context, id int64) (*models.Bookshelf, error) {
	var shelf models.Bookshelf
	if err := r.db.WithContext(ctx).First(&shelf, id).Error; err != nil {
		return nil, err
	}
	return &shelf, nil
}

// FindOrCreateByUserID resolves the user's bookshelf, creating one when it is
// somehow missing. With the user lifecycle creating shelves up front this is
// a read in practice.
func (r *BookshelfRepo) FindOrCreateByUserID(ctx context.Context, userID int64) (*models.Bookshelf, error) {
	var shelf models.Bookshelf
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&shelf).Error
	if err == nil {
		return &shelf, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	shelf = models.Bookshelf{UserID: userID}
	if err := r.db.WithContext(ctx).Create(&shelf).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost the race to a concurrent creator, take theirs
			return r.FindOrCreateByUserID(ctx, userID)
		}
		return nil, fmt.Errorf("create bookshelf: %w", err)
	}
	return &shelf, nil
}

// AddContent inserts the owned-volume row; a duplicate (bookshelf, volume)
// pair surfaces as ErrDuplicateItem.
func (r *BookshelfRepo) AddContent(ctx context.Context, bookshelfID, volumeID int64, addedAt time.Time) (*models.Content, error) {
	content := models.Content{
		BookshelfID: bookshelfID,
		VolumeID:    volumeID,
		AddedAt:     addedAt,
	}
	if err := r.db.WithContext(ctx).Create(&content).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateItem
		}
		return nil, fmt.Errorf("add content: %w", err)
	}
	return &content, nil
}

// RemoveContent deletes the owned-volume row; removing a pair that was never
// there surfaces as ErrItemNotFound.
func (r *BookshelfRepo) RemoveContent(ctx context.Context, bookshelfID, volumeID int64) error {
	res := r.db.WithContext(ctx).
		Where("bookshelf_id = ? AND volume_id = ?", bookshelfID, volumeID).
		Delete(&models.Content{})
	if res.Error != nil {
		return fmt.Errorf("remove content: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *BookshelfRepo) HasVolume(ctx context.Context, bookshelfID, volumeID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Content{}).
		Where("bookshelf_id = ? AND volume_id = ?", bookshelfID, volumeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *BookshelfRepo) ListContents(ctx context.Context, bookshelfID int64) ([]models.Content, error) {
	var contents []models.Content
	if err := r.db.WithContext(ctx).
		Preload("Volume").
		Where("bookshelf_id = ?", bookshelfID).
		Order("added_at DESC").
		Find(&contents).Error; err != nil {
		return nil, fmt.Errorf("list contents: %w", err)
	}
	return contents, nil
}
