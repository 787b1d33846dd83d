package repository

import (
	"context"
	"fmt"

	"pixelbook/internal/http-api/models"

	"gorm.io/gorm"
)

type MangaRepo struct {
	db *gorm.DB
}

func NewMangaRepo(db *gorm.DB) *MangaRepo {
	return &MangaRepo{db: db}
}

func (r *MangaRepo) GetAll(ctx context.Context, page, pageSize int) ([]models.Manga, int64, error) {
	var list []models.Manga
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Manga{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize

	if err := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *MangaRepo) GetByID(ctx context.Context, id int64) (*models.Manga, error) {
	var m models.Manga
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// FindByMalID resolves a manga by its external catalog id, the dedup key for
// imports.
func (r *MangaRepo) FindByMalID(ctx context.Context, malID int64) (*models.Manga, error) {
	var m models.Manga
	if err := r.db.WithContext(ctx).Where("mal_id = ?", malID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MangaRepo) Create(ctx context.Context, m *models.Manga) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create manga: %w", err)
	}
	return nil
}

func (r *MangaRepo) Update(ctx context.Context, id int64, m *models.Manga) error {
	m.ID = id
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return fmt.Errorf("update manga: %w", err)
	}
	return nil
}

// Delete removes the manga, its volumes and the rows referencing those
// volumes, in one transaction.
func (r *MangaRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var volumeIDs []int64
		if err := tx.Model(&models.Volume{}).Where("manga_id = ?", id).Pluck("id", &volumeIDs).Error; err != nil {
			return fmt.Errorf("list volumes: %w", err)
		}
		if len(volumeIDs) > 0 {
			if err := tx.Where("volume_id IN ?", volumeIDs).Delete(&models.Content{}).Error; err != nil {
				return fmt.Errorf("delete contents: %w", err)
			}
			if err := tx.Where("volume_id IN ?", volumeIDs).Delete(&models.CartItem{}).Error; err != nil {
				return fmt.Errorf("delete cart items: %w", err)
			}
			if err := tx.Where("manga_id = ?", id).Delete(&models.Volume{}).Error; err != nil {
				return fmt.Errorf("delete volumes: %w", err)
			}
		}
		if err := tx.Delete(&models.Manga{}, id).Error; err != nil {
			return fmt.Errorf("delete manga: %w", err)
		}
		return nil
	})
}
