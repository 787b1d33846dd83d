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
	ErrUserNotFound   = errors.New("user not found")
	ErrCartNotFound   = errors.New("shop cart not found")
	ErrVolumeNotFound = errors.New("volume not found")
	ErrAlreadyInCart  = errors.New("volume already in cart")
	ErrNotInCart      = errors.New("volume not in cart")
	ErrEmptyCart      = errors.New("cart is empty")
)

// CartStore is the slice of the shop-cart repository the orchestrator uses.
type CartStore interface {
	GetByID(ctx context.Context, id int64) (*models.ShopCart, error)
	FindByUserID(ctx context.Context, userID int64) (*models.ShopCart, error)
	AddItem(ctx context.Context, cartID, volumeID int64) error
	RemoveItem(ctx context.Context, cartID, volumeID int64) error
	HasItem(ctx context.Context, cartID, volumeID int64) (bool, error)
	ListVolumes(ctx context.Context, cartID int64) ([]models.Volume, error)
	Checkout(ctx context.Context, cartID, bookshelfID int64, now time.Time) (*repository.CheckoutResult, error)
}

// ShelfStore is what checkout needs from the bookshelf repository.
type ShelfStore interface {
	FindOrCreateByUserID(ctx context.Context, userID int64) (*models.Bookshelf, error)
}

// VolumeGetter resolves volumes by primary key.
type VolumeGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Volume, error)
}

// UserChecker answers existence checks without loading the row.
type UserChecker interface {
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

type CartService interface {
	AddVolume(ctx context.Context, cartID, volumeID int64) error
	AddVolumeByExternal(ctx context.Context, cartID, malID int64, number int) (*models.Volume, error)
	RemoveVolume(ctx context.Context, cartID, volumeID int64) error
	GetCart(ctx context.Context, cartID int64) (*models.ShopCart, []models.Volume, error)
	GetCartByUser(ctx context.Context, userID int64) (*models.ShopCart, []models.Volume, error)
	Checkout(ctx context.Context, userID int64) (*repository.CheckoutResult, error)
}

type cartService struct {
	carts   CartStore
	shelves ShelfStore
	volumes VolumeGetter
	users   UserChecker
	catalog CatalogService
}

func NewCartService(carts CartStore, shelves ShelfStore, volumes VolumeGetter, users UserChecker, catalog CatalogService) CartService {
	return &cartService{
		carts:   carts,
		shelves: shelves,
		volumes: volumes,
		users:   users,
		catalog: catalog,
	}
}

// AddVolume inserts the cart membership. The HasItem probe is an early exit
// only; the join table's primary key decides races.
func (s *cartService) AddVolume(ctx context.Context, cartID, volumeID int64) error {
	if _, err := s.carts.GetByID(ctx, cartID); err != nil {
		return cartLookupErr(err)
	}
	if _, err := s.volumes.GetByID(ctx, volumeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVolumeNotFound
		}
		return err
	}

	present, err := s.carts.HasItem(ctx, cartID, volumeID)
	if err != nil {
		return err
	}
	if present {
		return ErrAlreadyInCart
	}

	if err := s.carts.AddItem(ctx, cartID, volumeID); err != nil {
		if errors.Is(err, repository.ErrDuplicateItem) {
			return ErrAlreadyInCart
		}
		return err
	}
	return nil
}

// AddVolumeByExternal resolves the volume through the catalog (import,
// upstream detail or placeholder) and then adds it like any local volume.
func (s *cartService) AddVolumeByExternal(ctx context.Context, cartID, malID int64, number int) (*models.Volume, error) {
	if _, err := s.carts.GetByID(ctx, cartID); err != nil {
		return nil, cartLookupErr(err)
	}

	volume, err := s.catalog.ResolveVolume(ctx, malID, number)
	if err != nil {
		return nil, err
	}

	if err := s.carts.AddItem(ctx, cartID, volume.ID); err != nil {
		if errors.Is(err, repository.ErrDuplicateItem) {
			return nil, ErrAlreadyInCart
		}
		return nil, err
	}
	return volume, nil
}

func (s *cartService) RemoveVolume(ctx context.Context, cartID, volumeID int64) error {
	if _, err := s.carts.GetByID(ctx, cartID); err != nil {
		return cartLookupErr(err)
	}
	if err := s.carts.RemoveItem(ctx, cartID, volumeID); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return ErrNotInCart
		}
		return err
	}
	return nil
}

func (s *cartService) GetCart(ctx context.Context, cartID int64) (*models.ShopCart, []models.Volume, error) {
	cart, err := s.carts.GetByID(ctx, cartID)
	if err != nil {
		return nil, nil, cartLookupErr(err)
	}
	volumes, err := s.carts.ListVolumes(ctx, cart.ID)
	if err != nil {
		return nil, nil, err
	}
	return cart, volumes, nil
}

func (s *cartService) GetCartByUser(ctx context.Context, userID int64) (*models.ShopCart, []models.Volume, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, nil, err
	}
	cart, err := s.carts.FindByUserID(ctx, userID)
	if err != nil {
		return nil, nil, cartLookupErr(err)
	}
	volumes, err := s.carts.ListVolumes(ctx, cart.ID)
	if err != nil {
		return nil, nil, err
	}
	return cart, volumes, nil
}

// Checkout transfers every cart volume into the user's bookshelf and empties
// the cart, all inside the repository's single transaction. An empty cart is a
// user-visible error, not a no-op.
func (s *cartService) Checkout(ctx context.Context, userID int64) (*repository.CheckoutResult, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	cart, err := s.carts.FindByUserID(ctx, userID)
	if err != nil {
		return nil, cartLookupErr(err)
	}

	shelf, err := s.shelves.FindOrCreateByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result, err := s.carts.Checkout(ctx, cart.ID, shelf.ID, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrEmptyCart) {
			return nil, ErrEmptyCart
		}
		return nil, err
	}
	return result, nil
}

func (s *cartService) requireUser(ctx context.Context, userID int64) error {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}

func cartLookupErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCartNotFound
	}
	return err
}
