package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pixelbook/internal/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrDuplicateItem reports that a membership row already existed. The
	// composite primary key on the join table is the authoritative guard;
	// callers translate this to a Conflict.
	ErrDuplicateItem = errors.New("item already present")
	// ErrItemNotFound reports a removal of a row that was not there.
	ErrItemNotFound = errors.New("item not present")
	// ErrEmptyCart reports a checkout attempt on a cart with no volumes.
	ErrEmptyCart = errors.New("cart is empty")
)

// CheckoutResult is what a completed checkout reports back.
type CheckoutResult struct {
	Transferred int
	CartSize    int
}

type ShopCartRepo struct {
	db *gorm.DB
}

func NewShopCartRepo(db *gorm.DB) *ShopCartRepo {
	return &ShopCartRepo{db: db}
}

func (r *ShopCartRepo) GetByID(ctx context.Context, id int64) (*models.ShopCart, error) {
	var cart models.ShopCart
	if err := r.db.WithContext(ctx).First(&cart, id).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *ShopCartRepo) FindByUserID(ctx context.Context, userID int64) (*models.ShopCart, error) {
	var cart models.ShopCart
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem inserts the membership row. The in-service existence check is only
// an early exit; a lost race lands here as a duplicated-key error.
func (r *ShopCartRepo) AddItem(ctx context.Context, cartID, volumeID int64) error {
	item := models.CartItem{ShopCartID: cartID, VolumeID: volumeID}
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateItem
		}
		return fmt.Errorf("add cart item: %w", err)
	}
	return nil
}

func (r *ShopCartRepo) RemoveItem(ctx context.Context, cartID, volumeID int64) error {
	res := r.db.WithContext(ctx).
		Where("shop_cart_id = ? AND volume_id = ?", cartID, volumeID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return fmt.Errorf("remove cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *ShopCartRepo) HasItem(ctx context.Context, cartID, volumeID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("shop_cart_id = ? AND volume_id = ?", cartID, volumeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListVolumes returns the cart's volume set via the join table.
func (r *ShopCartRepo) ListVolumes(ctx context.Context, cartID int64) ([]models.Volume, error) {
	var volumes []models.Volume
	if err := r.db.WithContext(ctx).
		Joins("JOIN shop_cart_volumes ON shop_cart_volumes.volume_id = volumes.id").
		Where("shop_cart_volumes.shop_cart_id = ?", cartID).
		Order("volumes.id").
		Find(&volumes).Error; err != nil {
		return nil, fmt.Errorf("list cart volumes: %w", err)
	}
	return volumes, nil
}

// Checkout atomically moves every cart volume into the bookshelf and empties
// the cart. The read of the cart, the content inserts and the clear all run in
// one transaction: either the whole transfer commits or none of it does.
// Volumes the shelf already owns are skipped, so Transferred may be smaller
// than CartSize.
func (r *ShopCartRepo) Checkout(ctx context.Context, cartID, bookshelfID int64, now time.Time) (*CheckoutResult, error) {
	var result CheckoutResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var volumeIDs []int64
		if err := tx.Model(&models.CartItem{}).
			Where("shop_cart_id = ?", cartID).
			Order("volume_id").
			Pluck("volume_id", &volumeIDs).Error; err != nil {
			return fmt.Errorf("read cart: %w", err)
		}
		if len(volumeIDs) == 0 {
			return ErrEmptyCart
		}
		result.CartSize = len(volumeIDs)

		for _, volumeID := range volumeIDs {
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "bookshelf_id"}, {Name: "volume_id"}},
				DoNothing: true,
			}).Create(&models.Content{
				BookshelfID: bookshelfID,
				VolumeID:    volumeID,
				AddedAt:     now,
			})
			if res.Error != nil {
				return fmt.Errorf("add content: %w", res.Error)
			}
			result.Transferred += int(res.RowsAffected)
		}

		if err := tx.Where("shop_cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
