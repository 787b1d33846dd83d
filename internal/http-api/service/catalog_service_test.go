package service

import (
	"context"
	"testing"

	"pixelbook/internal/catalog/jikan"
	"pixelbook/internal/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- MOCKS ---

type MockCatalogClient struct {
	mock.Mock
}

func (m *MockCatalogClient) Search(ctx context.Context, query string) ([]jikan.MangaSummary, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]jikan.MangaSummary), args.Error(1)
}

func (m *MockCatalogClient) Popular(ctx context.Context, page, limit int) ([]jikan.VolumeSummary, error) {
	args := m.Called(ctx, page, limit)
	return args.Get(0).([]jikan.VolumeSummary), args.Error(1)
}

func (m *MockCatalogClient) MangaDetails(ctx context.Context, malID int64) (*models.Manga, error) {
	args := m.Called(ctx, malID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Manga), args.Error(1)
}

func (m *MockCatalogClient) Volumes(ctx context.Context, malID int64, manga *models.Manga, find jikan.VolumeFinder) ([]models.Volume, error) {
	args := m.Called(ctx, malID, manga, find)
	return args.Get(0).([]models.Volume), args.Error(1)
}

func (m *MockCatalogClient) VolumeDetail(ctx context.Context, malID int64, number int) (*models.Volume, error) {
	args := m.Called(ctx, malID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Volume), args.Error(1)
}

type MockMangaStore struct {
	mock.Mock
}

func (m *MockMangaStore) FindByMalID(ctx context.Context, malID int64) (*models.Manga, error) {
	args := m.Called(ctx, malID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Manga), args.Error(1)
}

func (m *MockMangaStore) Create(ctx context.Context, manga *models.Manga) error {
	args := m.Called(ctx, manga)
	return args.Error(0)
}

type MockVolumeStore struct {
	mock.Mock
}

func (m *MockVolumeStore) FindByMangaAndNumber(ctx context.Context, mangaID int64, number int) (*models.Volume, error) {
	args := m.Called(ctx, mangaID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Volume), args.Error(1)
}

func (m *MockVolumeStore) CreateIgnoringDuplicates(ctx context.Context, v *models.Volume) (*models.Volume, error) {
	args := m.Called(ctx, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Volume), args.Error(1)
}

func (m *MockVolumeStore) SaveAll(ctx context.Context, volumes []models.Volume) error {
	args := m.Called(ctx, volumes)
	return args.Error(0)
}

func (m *MockVolumeStore) ListByManga(ctx context.Context, mangaID int64) ([]models.Volume, error) {
	args := m.Called(ctx, mangaID)
	return args.Get(0).([]models.Volume), args.Error(1)
}

// --- TESTS ---

func int64Ptr(v int64) *int64 { return &v }

func TestImportManga(t *testing.T) {
	ctx := context.Background()

	t.Run("AlreadyImportedReturnsExistingWithoutFetch", func(t *testing.T) {
		client := new(MockCatalogClient)
		mangas := new(MockMangaStore)
		volumes := new(MockVolumeStore)
		svc := NewCatalogService(client, mangas, volumes)

		existing := &models.Manga{ID: 5, MalID: int64Ptr(11), Title: "Naruto"}
		mangas.On("FindByMalID", mock.Anything, int64(11)).Return(existing, nil).Once()

		got, err := svc.ImportManga(ctx, 11)
		require.NoError(t, err)
		assert.Equal(t, existing, got)

		// second call is just as cheap
		mangas.On("FindByMalID", mock.Anything, int64(11)).Return(existing, nil).Once()
		again, err := svc.ImportManga(ctx, 11)
		require.NoError(t, err)
		assert.Equal(t, existing, again)

		client.AssertNotCalled(t, "MangaDetails", mock.Anything, mock.Anything)
		mangas.AssertExpectations(t)
	})

	t.Run("FetchesAndPersistsOnFirstImport", func(t *testing.T) {
		client := new(MockCatalogClient)
		mangas := new(MockMangaStore)
		volumes := new(MockVolumeStore)
		svc := NewCatalogService(client, mangas, volumes)

		fetched := &models.Manga{MalID: int64Ptr(11), Title: "Naruto"}
		mangas.On("FindByMalID", mock.Anything, int64(11)).Return(nil, gorm.ErrRecordNotFound).Once()
		client.On("MangaDetails", mock.Anything, int64(11)).Return(fetched, nil).Once()
		mangas.On("Create", mock.Anything, fetched).Return(nil).Once()

		got, err := svc.ImportManga(ctx, 11)
		require.NoError(t, err)
		assert.Equal(t, "Naruto", got.Title)

		client.AssertExpectations(t)
		mangas.AssertExpectations(t)
	})

	t.Run("UnknownUpstreamMangaIsNotFound", func(t *testing.T) {
		client := new(MockCatalogClient)
		mangas := new(MockMangaStore)
		volumes := new(MockVolumeStore)
		svc := NewCatalogService(client, mangas, volumes)

		mangas.On("FindByMalID", mock.Anything, int64(999)).Return(nil, gorm.ErrRecordNotFound).Once()
		client.On("MangaDetails", mock.Anything, int64(999)).Return(nil, nil).Once()

		_, err := svc.ImportManga(ctx, 999)
		assert.ErrorIs(t, err, ErrMangaNotFound)
	})

	t.Run("ConcurrentImportLosesGracefully", func(t *testing.T) {
		client := new(MockCatalogClient)
		mangas := new(MockMangaStore)
		volumes := new(MockVolumeStore)
		svc := NewCatalogService(client, mangas, volumes)

		fetched := &models.Manga{MalID: int64Ptr(11), Title: "Naruto"}
		winner := &models.Manga{ID: 9, MalID: int64Ptr(11), Title: "Naruto"}

		mangas.On("FindByMalID", mock.Anything, int64(11)).Return(nil, gorm.ErrRecordNotFound).Once()
		client.On("MangaDetails", mock.Anything, int64(11)).Return(fetched, nil).Once()
		mangas.On("Create", mock.Anything, fetched).Return(gorm.ErrDuplicatedKey).Once()
		mangas.On("FindByMalID", mock.Anything, int64(11)).Return(winner, nil).Once()

		got, err := svc.ImportManga(ctx, 11)
		require.NoError(t, err)
		assert.Equal(t, int64(9), got.ID)
	})
}

func TestImportVolumes(t *testing.T) {
	ctx := context.Background()

	t.Run("PersistsFetchedRangeAndReturnsStoredRows", func(t *testing.T) {
		client := new(MockCatalogClient)
		mangas := new(MockMangaStore)
		volumes := new(MockVolumeStore)
		svc := NewCatalogService(client, mangas, volumes)

		manga := &models.Manga{ID: 5, MalID: int64Ptr(11), Title: "Naruto"}
		fetched := []models.Volume{
			{Number: 1, Title: "Naruto Volume 1"},
			{Number: 2, Title: "Naruto Volume 2"},
		}
		stored := []models.Volume{
			{ID: 1, MangaID: 5, Number: 1, Title: "Naruto Volume 1"},
			{ID: 2, MangaID: 5, Number: 2, Title: "Naruto Volume 2"},
		}

		mangas.On("FindByMalID", mock.Anything, int64(11)).Return(manga, nil).Once()
		client.On("Volumes", mock.Anything, int64(11), manga, volumes).Return(fetched, nil).Once()
		volumes.On("SaveAll", mock.Anything, mock.MatchedBy(func(vs []models.Volume) bool {
			for _, v := range vs {
				if v.MangaID != 5 {
					return false
				}
			}
			return len(vs) == 2
		})).Return(nil).Once()
		volumes.On("ListByManga", mock.Anything, int64(5)).Return(stored, nil).Once()

		got, err := svc.ImportVolumes(ctx, 11)
		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, int64(1), got[0].ID)

		volumes.AssertExpectations(t)
	})
}

func TestResolveVolume(t *testing.T) {
	ctx := context.Background()

	t.Run("LocalHitSkipsUpstream", func(t *testing.T) {
		client := new(MockCatalogClient)
		mangas := new(MockMangaStore)
		volumes := new(MockVolumeStore)
		svc := NewCatalogService(client, mangas, volumes)

		manga := &models.Manga{ID: 5, MalID: int64Ptr(11), Title: "Naruto"}
		local := &models.Volume{ID: 7, MangaID: 5, Number: 3}

		mangas.On("FindByMalID", mock.Anything, int64(11)).Return(manga, nil).Once()
		volumes.On("FindByMangaAndNumber", mock.Anything, int64(5), 3).Return(local, nil).Once()

		got, err := svc.ResolveVolume(ctx, 11, 3)
		require.NoError(t, err)
		assert.Equal(t, int64(7), got.ID)
		client.AssertNotCalled(t, "VolumeDetail", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UpstreamDetailIsPersisted", func(t *testing.T) {
		client := new(MockCatalogClient)
		mangas := new(MockMangaStore)
		volumes := new(MockVolumeStore)
		svc := NewCatalogService(client, mangas, volumes)

		manga := &models.Manga{ID: 5, MalID: int64Ptr(11), Title: "Naruto"}
		detail := &models.Volume{Number: 3, Title: "Naruto - Volume 3"}
		persisted := &models.Volume{ID: 8, MangaID: 5, Number: 3, Title: "Naruto - Volume 3"}

		mangas.On("FindByMalID", mock.Anything, int64(11)).Return(manga, nil).Once()
		volumes.On("FindByMangaAndNumber", mock.Anything, int64(5), 3).Return(nil, gorm.ErrRecordNotFound).Once()
		client.On("VolumeDetail", mock.Anything, int64(11), 3).Return(detail, nil).Once()
		volumes.On("CreateIgnoringDuplicates", mock.Anything, detail).Return(persisted, nil).Once()

		got, err := svc.ResolveVolume(ctx, 11, 3)
		require.NoError(t, err)
		assert.Equal(t, int64(8), got.ID)
		assert.Equal(t, int64(5), detail.MangaID)
	})

	t.Run("PlaceholderWhenUpstreamHasNothing", func(t *testing.T) {
		client := new(MockCatalogClient)
		mangas := new(MockMangaStore)
		volumes := new(MockVolumeStore)
		svc := NewCatalogService(client, mangas, volumes)

		cover := "https://cdn.example/naruto.jpg"
		manga := &models.Manga{ID: 5, MalID: int64Ptr(11), Title: "Naruto", CoverURL: &cover}

		mangas.On("FindByMalID", mock.Anything, int64(11)).Return(manga, nil).Once()
		volumes.On("FindByMangaAndNumber", mock.Anything, int64(5), 99).Return(nil, gorm.ErrRecordNotFound).Once()
		client.On("VolumeDetail", mock.Anything, int64(11), 99).Return(nil, nil).Once()
		volumes.On("CreateIgnoringDuplicates", mock.Anything, mock.MatchedBy(func(v *models.Volume) bool {
			return v.MangaID == 5 &&
				v.Number == 99 &&
				v.Title == "Naruto - Volume 99" &&
				v.Price == 9.99 &&
				v.CoverURL == &cover &&
				v.MalID == manga.MalID
		})).Return(&models.Volume{ID: 12, MangaID: 5, Number: 99}, nil).Once()

		got, err := svc.ResolveVolume(ctx, 11, 99)
		require.NoError(t, err)
		assert.Equal(t, int64(12), got.ID)
		volumes.AssertExpectations(t)
	})

	t.Run("UnknownMangaSurfacesNotFound", func(t *testing.T) {
		client := new(MockCatalogClient)
		mangas := new(MockMangaStore)
		volumes := new(MockVolumeStore)
		svc := NewCatalogService(client, mangas, volumes)

		mangas.On("FindByMalID", mock.Anything, int64(999)).Return(nil, gorm.ErrRecordNotFound).Once()
		client.On("MangaDetails", mock.Anything, int64(999)).Return(nil, nil).Once()

		_, err := svc.ResolveVolume(ctx, 999, 1)
		assert.ErrorIs(t, err, ErrMangaNotFound)
	})
}
