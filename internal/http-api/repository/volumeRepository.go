package repository

import (
	"context"
	"fmt"

	"pixelbook/internal/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VolumeRepo struct {
	db *gorm.DB
}

func NewVolumeRepo(db *gorm.DB) *VolumeRepo {
	return &VolumeRepo{db: db}
}

func (r *VolumeRepo) GetAll(ctx context.Context, page, pageSize int) ([]models.Volume, int64, error) {
	var list []models.Volume
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Volume{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize

	if err := r.db.WithContext(ctx).
		Preload("Manga").
		Order("id").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *VolumeRepo) GetByID(ctx context.Context, id int64) (*models.Volume, error) {
	var v models.Volume
	if err := r.db.WithContext(ctx).Preload("Manga").First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// FindByMangaAndNumber looks a volume up by its natural key. Satisfies
// jikan.VolumeFinder so the catalog client can reuse local volumes instead of
// synthesizing duplicates.
func (r *VolumeRepo) FindByMangaAndNumber(ctx context.Context, mangaID int64, number int) (*models.Volume, error) {
	var v models.Volume
	if err := r.db.WithContext(ctx).
		Where("manga_id = ? AND number = ?", mangaID, number).
		First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VolumeRepo) Create(ctx context.Context, v *models.Volume) error {
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("create volume: %w", err)
	}
	return nil
}

// CreateIgnoringDuplicates inserts a volume, treating an (manga_id, number)
// collision as success. The row already in place wins the race; the stored
// volume is loaded back so the caller always ends up with the canonical one.
func (r *VolumeRepo) CreateIgnoringDuplicates(ctx context.Context, v *models.Volume) (*models.Volume, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "manga_id"}, {Name: "number"}},
			DoNothing: true,
		}).
		Create(v)
	if res.Error != nil {
		return nil, fmt.Errorf("create volume: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return r.FindByMangaAndNumber(ctx, v.MangaID, v.Number)
	}
	return v, nil
}

// SaveAll bulk-persists imported volumes. Rows whose natural key already
// exists are skipped at the storage layer, which is what makes a repeated
// import yield the same volume set.
func (r *VolumeRepo) SaveAll(ctx context.Context, volumes []models.Volume) error {
	newOnes := make([]models.Volume, 0, len(volumes))
	for _, v := range volumes {
		if v.ID == 0 {
			newOnes = append(newOnes, v)
		}
	}
	if len(newOnes) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "manga_id"}, {Name: "number"}},
			DoNothing: true,
		}).
		Create(&newOnes).Error; err != nil {
		return fmt.Errorf("save volumes: %w", err)
	}
	return nil
}

func (r *VolumeRepo) ListByManga(ctx context.Context, mangaID int64) ([]models.Volume, error) {
	var list []models.Volume
	if err := r.db.WithContext(ctx).
		Where("manga_id = ?", mangaID).
		Order("number").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list volumes: %w", err)
	}
	return list, nil
}

func (r *VolumeRepo) Update(ctx context.Context, id int64, v *models.Volume) error {
	v.ID = id
	if err := r.db.WithContext(ctx).Save(v).Error; err != nil {
		return fmt.Errorf("update volume: %w", err)
	}
	return nil
}

func (r *VolumeRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("volume_id = ?", id).Delete(&models.Content{}).Error; err != nil {
			return fmt.Errorf("delete contents: %w", err)
		}
		if err := tx.Where("volume_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("delete cart items: %w", err)
		}
		if err := tx.Delete(&models.Volume{}, id).Error; err != nil {
			return fmt.Errorf("delete volume: %w", err)
		}
		return nil
	})
}
