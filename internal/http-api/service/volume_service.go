package service

import (
	"context"
	"errors"

	"pixelbook/internal/http-api/models"
	"pixelbook/internal/http-api/repository"

	"gorm.io/gorm"
)

type VolumeService interface {
	GetAll(ctx context.Context, page, pageSize int) ([]models.Volume, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Volume, error)
	ListByManga(ctx context.Context, mangaID int64) ([]models.Volume, error)
	Create(ctx context.Context, v *models.Volume) error
	Update(ctx context.Context, id int64, v *models.Volume) (*models.Volume, error)
	Delete(ctx context.Context, id int64) error
}

type volumeService struct {
	volumes *repository.VolumeRepo
	mangas  *repository.MangaRepo
}

func NewVolumeService(volumes *repository.VolumeRepo, mangas *repository.MangaRepo) VolumeService {
	return &volumeService{volumes: volumes, mangas: mangas}
}

func (s *volumeService) GetAll(ctx context.Context, page, pageSize int) ([]models.Volume, int64, error) {
	return s.volumes.GetAll(ctx, page, pageSize)
}

func (s *volumeService) GetByID(ctx context.Context, id int64) (*models.Volume, error) {
	v, err := s.volumes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVolumeNotFound
		}
		return nil, err
	}
	return v, nil
}

func (s *volumeService) ListByManga(ctx context.Context, mangaID int64) ([]models.Volume, error) {
	if _, err := s.mangas.GetByID(ctx, mangaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMangaNotFound
		}
		return nil, err
	}
	return s.volumes.ListByManga(ctx, mangaID)
}

// Create validates the parent manga before inserting. The unique
// (manga_id, number) index rejects duplicate volume numbers.
func (s *volumeService) Create(ctx context.Context, v *models.Volume) error {
	if _, err := s.mangas.GetByID(ctx, v.MangaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMangaNotFound
		}
		return err
	}
	return s.volumes.Create(ctx, v)
}

func (s *volumeService) Update(ctx context.Context, id int64, v *models.Volume) (*models.Volume, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.volumes.Update(ctx, id, v); err != nil {
		return nil, err
	}
	return s.volumes.GetByID(ctx, id)
}

func (s *volumeService) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.volumes.Delete(ctx, id)
}
