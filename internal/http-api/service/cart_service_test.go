package service

import (
	"context"
	"testing"
	"time"

	"pixelbook/internal/http-api/models"
	"pixelbook/internal/http-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- MOCKS ---

type MockCartStore struct {
	mock.Mock
}

func (m *MockCartStore) GetByID(ctx context.Context, id int64) (*models.ShopCart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShopCart), args.Error(1)
}

func (m *MockCartStore) FindByUserID(ctx context.Context, userID int64) (*models.ShopCart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShopCart), args.Error(1)
}

func (m *MockCartStore) AddItem(ctx context.Context, cartID, volumeID int64) error {
	args := m.Called(ctx, cartID, volumeID)
	return args.Error(0)
}

func (m *MockCartStore) RemoveItem(ctx context.Context, cartID, volumeID int64) error {
	args := m.Called(ctx, cartID, volumeID)
	return args.Error(0)
}

func (m *MockCartStore) HasItem(ctx context.Context, cartID, volumeID int64) (bool, error) {
	args := m.Called(ctx, cartID, volumeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCartStore) ListVolumes(ctx context.Context, cartID int64) ([]models.Volume, error) {
	args := m.Called(ctx, cartID)
	return args.Get(0).([]models.Volume), args.Error(1)
}

func (m *MockCartStore) Checkout(ctx context.Context, cartID, bookshelfID int64, now time.Time) (*repository.CheckoutResult, error) {
	args := m.Called(ctx, cartID, bookshelfID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.CheckoutResult), args.Error(1)
}

type MockShelfStore struct {
	mock.Mock
}

func (m *MockShelfStore) FindOrCreateByUserID(ctx context.Context, userID int64) (*models.Bookshelf, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bookshelf), args.Error(1)
}

type MockVolumeGetter struct {
	mock.Mock
}

func (m *MockVolumeGetter) GetByID(ctx context.Context, id int64) (*models.Volume, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Volume), args.Error(1)
}

type MockUserChecker struct {
	mock.Mock
}

func (m *MockUserChecker) ExistsByID(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// --- FIXTURE ---

type cartFixture struct {
	carts   *MockCartStore
	shelves *MockShelfStore
	volumes *MockVolumeGetter
	users   *MockUserChecker
	svc     CartService
}

func newCartFixture() *cartFixture {
	f := &cartFixture{
		carts:   new(MockCartStore),
		shelves: new(MockShelfStore),
		volumes: new(MockVolumeGetter),
		users:   new(MockUserChecker),
	}
	f.svc = NewCartService(f.carts, f.shelves, f.volumes, f.users, nil)
	return f
}

// --- TESTS ---

func TestCartAddVolume(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newCartFixture()
		f.carts.On("GetByID", mock.Anything, int64(1)).Return(&models.ShopCart{ID: 1, UserID: 2}, nil).Once()
		f.volumes.On("GetByID", mock.Anything, int64(3)).Return(&models.Volume{ID: 3}, nil).Once()
		f.carts.On("HasItem", mock.Anything, int64(1), int64(3)).Return(false, nil).Once()
		f.carts.On("AddItem", mock.Anything, int64(1), int64(3)).Return(nil).Once()

		err := f.svc.AddVolume(ctx, 1, 3)
		assert.NoError(t, err)
		f.carts.AssertExpectations(t)
	})

	t.Run("DoubleAddIsConflict", func(t *testing.T) {
		f := newCartFixture()
		f.carts.On("GetByID", mock.Anything, int64(1)).Return(&models.ShopCart{ID: 1}, nil).Once()
		f.volumes.On("GetByID", mock.Anything, int64(3)).Return(&models.Volume{ID: 3}, nil).Once()
		f.carts.On("HasItem", mock.Anything, int64(1), int64(3)).Return(true, nil).Once()

		err := f.svc.AddVolume(ctx, 1, 3)
		assert.ErrorIs(t, err, ErrAlreadyInCart)
		f.carts.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("RacedDuplicateMapsToConflict", func(t *testing.T) {
		f := newCartFixture()
		f.carts.On("GetByID", mock.Anything, int64(1)).Return(&models.ShopCart{ID: 1}, nil).Once()
		f.volumes.On("GetByID", mock.Anything, int64(3)).Return(&models.Volume{ID: 3}, nil).Once()
		f.carts.On("HasItem", mock.Anything, int64(1), int64(3)).Return(false, nil).Once()
		f.carts.On("AddItem", mock.Anything, int64(1), int64(3)).Return(repository.ErrDuplicateItem).Once()

		err := f.svc.AddVolume(ctx, 1, 3)
		assert.ErrorIs(t, err, ErrAlreadyInCart)
	})

	t.Run("MissingCartIsNotFound", func(t *testing.T) {
		f := newCartFixture()
		f.carts.On("GetByID", mock.Anything, int64(1)).Return(nil, gorm.ErrRecordNotFound).Once()

		err := f.svc.AddVolume(ctx, 1, 3)
		assert.ErrorIs(t, err, ErrCartNotFound)
	})

	t.Run("MissingVolumeIsNotFound", func(t *testing.T) {
		f := newCartFixture()
		f.carts.On("GetByID", mock.Anything, int64(1)).Return(&models.ShopCart{ID: 1}, nil).Once()
		f.volumes.On("GetByID", mock.Anything, int64(3)).Return(nil, gorm.ErrRecordNotFound).Once()

		err := f.svc.AddVolume(ctx, 1, 3)
		assert.ErrorIs(t, err, ErrVolumeNotFound)
	})
}

func TestCartRemoveVolume(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newCartFixture()
		f.carts.On("GetByID", mock.Anything, int64(1)).Return(&models.ShopCart{ID: 1}, nil).Once()
		f.carts.On("RemoveItem", mock.Anything, int64(1), int64(3)).Return(nil).Once()

		assert.NoError(t, f.svc.RemoveVolume(ctx, 1, 3))
	})

	t.Run("AbsentMembershipIsNotInCart", func(t *testing.T) {
		f := newCartFixture()
		f.carts.On("GetByID", mock.Anything, int64(1)).Return(&models.ShopCart{ID: 1}, nil).Once()
		f.carts.On("RemoveItem", mock.Anything, int64(1), int64(3)).Return(repository.ErrItemNotFound).Once()

		assert.ErrorIs(t, f.svc.RemoveVolume(ctx, 1, 3), ErrNotInCart)
	})
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("TransfersAndReportsCount", func(t *testing.T) {
		f := newCartFixture()
		f.users.On("ExistsByID", mock.Anything, int64(2)).Return(true, nil).Once()
		f.carts.On("FindByUserID", mock.Anything, int64(2)).Return(&models.ShopCart{ID: 1, UserID: 2}, nil).Once()
		f.shelves.On("FindOrCreateByUserID", mock.Anything, int64(2)).Return(&models.Bookshelf{ID: 4, UserID: 2}, nil).Once()
		f.carts.On("Checkout", mock.Anything, int64(1), int64(4), mock.AnythingOfType("time.Time")).
			Return(&repository.CheckoutResult{Transferred: 2, CartSize: 3}, nil).Once()

		result, err := f.svc.Checkout(ctx, 2)
		require.NoError(t, err)
		// one of three was already owned, only two moved
		assert.Equal(t, 2, result.Transferred)
		assert.Equal(t, 3, result.CartSize)
		f.carts.AssertExpectations(t)
	})

	t.Run("EmptyCartIsRejected", func(t *testing.T) {
		f := newCartFixture()
		f.users.On("ExistsByID", mock.Anything, int64(2)).Return(true, nil).Once()
		f.carts.On("FindByUserID", mock.Anything, int64(2)).Return(&models.ShopCart{ID: 1, UserID: 2}, nil).Once()
		f.shelves.On("FindOrCreateByUserID", mock.Anything, int64(2)).Return(&models.Bookshelf{ID: 4, UserID: 2}, nil).Once()
		f.carts.On("Checkout", mock.Anything, int64(1), int64(4), mock.AnythingOfType("time.Time")).
			Return(nil, repository.ErrEmptyCart).Once()

		_, err := f.svc.Checkout(ctx, 2)
		assert.ErrorIs(t, err, ErrEmptyCart)
	})

	t.Run("UnknownUserIsNotFound", func(t *testing.T) {
		f := newCartFixture()
		f.users.On("ExistsByID", mock.Anything, int64(99)).Return(false, nil).Once()

		_, err := f.svc.Checkout(ctx, 99)
		assert.ErrorIs(t, err, ErrUserNotFound)
		f.carts.AssertNotCalled(t, "Checkout", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGetCartByUser(t *testing.T) {
	ctx := context.Background()

	t.Run("ReturnsCartWithVolumes", func(t *testing.T) {
		f := newCartFixture()
		f.users.On("ExistsByID", mock.Anything, int64(2)).Return(true, nil).Once()
		f.carts.On("FindByUserID", mock.Anything, int64(2)).Return(&models.ShopCart{ID: 1, UserID: 2}, nil).Once()
		f.carts.On("ListVolumes", mock.Anything, int64(1)).Return([]models.Volume{
			{ID: 3, Price: 9.99},
			{ID: 4, Price: 9.99},
		}, nil).Once()

		cart, volumes, err := f.svc.GetCartByUser(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(1), cart.ID)
		assert.Len(t, volumes, 2)
	})
}
