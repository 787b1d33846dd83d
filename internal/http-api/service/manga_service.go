package service

import (
	"context"
	"errors"

	"pixelbook/internal/http-api/models"
	"pixelbook/internal/http-api/repository"

	"gorm.io/gorm"
)

type MangaService interface {
	GetAll(ctx context.Context, page, pageSize int) ([]models.Manga, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Manga, error)
	Create(ctx context.Context, m *models.Manga) error
	Update(ctx context.Context, id int64, m *models.Manga) (*models.Manga, error)
	Delete(ctx context.Context, id int64) error
}

type mangaService struct {
	mangas *repository.MangaRepo
}

func NewMangaService(mangas *repository.MangaRepo) MangaService {
	return &mangaService{mangas: mangas}
}

func (s *mangaService) GetAll(ctx context.Context, page, pageSize int) ([]models.Manga, int64, error) {
	return s.mangas.GetAll(ctx, page, pageSize)
}

func (s *mangaService) GetByID(ctx context.Context, id int64) (*models.Manga, error) {
	m, err := s.mangas.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMangaNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *mangaService) Create(ctx context.Context, m *models.Manga) error {
	return s.mangas.Create(ctx, m)
}

func (s *mangaService) Update(ctx context.Context, id int64, m *models.Manga) (*models.Manga, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.mangas.Update(ctx, id, m); err != nil {
		return nil, err
	}
	return s.mangas.GetByID(ctx, id)
}

func (s *mangaService) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.mangas.Delete(ctx, id)
}
