package service

import (
	"context"
	"errors"
	"time"

	"pixelbook/internal/http-api/models"
	"pixelbook/internal/http-api/repository"

	"gorm.io/gorm"
)

var (
	ErrAlreadyOnShelf = errors.New("volume already in bookshelf")
	ErrNotOnShelf     = errors.New("volume not in bookshelf")
	ErrShelfNotFound  = errors.New("bookshelf not found")
)

// ContentStore is the bookshelf repository surface the service uses.
type ContentStore interface {
	ShelfStore
	GetByID(ctx context.Context, id int64) (*models.Bookshelf, error)
	AddContent(ctx context.Context, bookshelfID, volumeID int64, addedAt time.Time) (*models.Content, error)
	RemoveContent(ctx context.Context, bookshelfID, volumeID int64) error
	HasVolume(ctx context.Context, bookshelfID, volumeID int64) (bool, error)
	ListContents(ctx context.Context, bookshelfID int64) ([]models.Content, error)
}

type BookshelfService interface {
	AddVolume(ctx context.Context, userID, volumeID int64) (*models.Content, error)
	RemoveVolume(ctx context.Context, userID, volumeID int64) error
	GetByUser(ctx context.Context, userID int64) (*models.Bookshelf, []models.Content, error)
}

type bookshelfService struct {
	shelves ContentStore
	volumes VolumeGetter
	users   UserChecker
}

func NewBookshelfService(shelves ContentStore, volumes VolumeGetter, users UserChecker) BookshelfService {
	return &bookshelfService{
		shelves: shelves,
		volumes: volumes,
		users:   users,
	}
}

// AddVolume puts a volume on the user's shelf, creating the shelf if it is
// somehow missing. A pair already present is a Conflict.
func (s *bookshelfService) AddVolume(ctx context.Context, userID, volumeID int64) (*models.Content, error) {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	if _, err := s.volumes.GetByID(ctx, volumeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVolumeNotFound
		}
		return nil, err
	}

	shelf, err := s.shelves.FindOrCreateByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	present, err := s.shelves.HasVolume(ctx, shelf.ID, volumeID)
	if err != nil {
		return nil, err
	}
	if present {
		return nil, ErrAlreadyOnShelf
	}

	content, err := s.shelves.AddContent(ctx, shelf.ID, volumeID, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateItem) {
			return nil, ErrAlreadyOnShelf
		}
		return nil, err
	}
	return content, nil
}

// RemoveVolume takes a volume off the user's shelf. Removing a volume the
// shelf never held is a miss, not a no-op.
func (s *bookshelfService) RemoveVolume(ctx context.Context, userID, volumeID int64) error {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}

	shelf, err := s.shelves.FindOrCreateByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.shelves.RemoveContent(ctx, shelf.ID, volumeID); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return ErrNotOnShelf
		}
		return err
	}
	return nil
}

func (s *bookshelfService) GetByUser(ctx context.Context, userID int64) (*models.Bookshelf, []models.Content, error) {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if !exists {
		return nil, nil, ErrUserNotFound
	}

	shelf, err := s.shelves.FindOrCreateByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	contents, err := s.shelves.ListContents(ctx, shelf.ID)
	if err != nil {
		return nil, nil, err
	}
	return shelf, contents, nil
}
