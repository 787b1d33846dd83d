package service

import (
	"context"
	"errors"
	"fmt"

	"pixelbook/internal/catalog/jikan"
	"pixelbook/internal/http-api/models"

	"gorm.io/gorm"
)

var (
	// ErrMangaNotFound means the upstream catalog has no record for the
	// external id. The client reports absence as nil, the service turns it
	// into a typed outcome for the handlers.
	ErrMangaNotFound = errors.New("manga not found in catalog")
)

// CatalogClient is the slice of the Jikan client the service consumes.
type CatalogClient interface {
	Search(ctx context.Context, query string) ([]jikan.MangaSummary, error)
	Popular(ctx context.Context, page, limit int) ([]jikan.VolumeSummary, error)
	MangaDetails(ctx context.Context, malID int64) (*models.Manga, error)
	Volumes(ctx context.Context, malID int64, manga *models.Manga, find jikan.VolumeFinder) ([]models.Volume, error)
	VolumeDetail(ctx context.Context, malID int64, number int) (*models.Volume, error)
}

// MangaStore is what the reconciliation flow needs from the manga repository.
type MangaStore interface {
	FindByMalID(ctx context.Context, malID int64) (*models.Manga, error)
	Create(ctx context.Context, m *models.Manga) error
}

// VolumeStore is what the reconciliation flow needs from the volume
// repository. It embeds the finder handed to the catalog client for dedup.
type VolumeStore interface {
	jikan.VolumeFinder
	CreateIgnoringDuplicates(ctx context.Context, v *models.Volume) (*models.Volume, error)
	SaveAll(ctx context.Context, volumes []models.Volume) error
	ListByManga(ctx context.Context, mangaID int64) ([]models.Volume, error)
}

type CatalogService interface {
	Search(ctx context.Context, query string) ([]jikan.MangaSummary, error)
	Popular(ctx context.Context, page, limit int) ([]jikan.VolumeSummary, error)
	MangaDetails(ctx context.Context, malID int64) (*models.Manga, error)
	FetchVolumes(ctx context.Context, malID int64) ([]models.Volume, error)
	VolumeDetail(ctx context.Context, malID int64, number int) (*models.Volume, error)

	ImportManga(ctx context.Context, malID int64) (*models.Manga, error)
	ImportVolumes(ctx context.Context, malID int64) ([]models.Volume, error)
	ResolveVolume(ctx context.Context, malID int64, number int) (*models.Volume, error)
}

type catalogService struct {
	client  CatalogClient
	mangas  MangaStore
	volumes VolumeStore
}

func NewCatalogService(client CatalogClient, mangas MangaStore, volumes VolumeStore) CatalogService {
	return &catalogService{
		client:  client,
		mangas:  mangas,
		volumes: volumes,
	}
}

func (s *catalogService) Search(ctx context.Context, query string) ([]jikan.MangaSummary, error) {
	return s.client.Search(ctx, query)
}

func (s *catalogService) Popular(ctx context.Context, page, limit int) ([]jikan.VolumeSummary, error) {
	return s.client.Popular(ctx, page, limit)
}

func (s *catalogService) MangaDetails(ctx context.Context, malID int64) (*models.Manga, error) {
	return s.client.MangaDetails(ctx, malID)
}

// ImportManga materializes the external manga locally, exactly once. A manga
// already imported is returned unchanged: import is create-once, not a sync.
func (s *catalogService) ImportManga(ctx context.Context, malID int64) (*models.Manga, error) {
	existing, err := s.mangas.FindByMalID(ctx, malID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup manga: %w", err)
	}

	// network first, storage second; no transaction spans the fetch
	manga, err := s.client.MangaDetails(ctx, malID)
	if err != nil {
		return nil, err
	}
	if manga == nil {
		return nil, ErrMangaNotFound
	}

	if err := s.mangas.Create(ctx, manga); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// concurrent import won; theirs is the record of truth
			return s.mangas.FindByMalID(ctx, malID)
		}
		return nil, err
	}
	return manga, nil
}

// ImportVolumes ensures the manga exists, fetches the full volume range and
// persists whatever is new. The storage-layer unique key on (manga, number)
// keeps a repeated or concurrent import from duplicating rows.
func (s *catalogService) ImportVolumes(ctx context.Context, malID int64) ([]models.Volume, error) {
	manga, err := s.ImportManga(ctx, malID)
	if err != nil {
		return nil, err
	}

	fetched, err := s.client.Volumes(ctx, malID, manga, s.volumes)
	if err != nil {
		return nil, err
	}
	for i := range fetched {
		fetched[i].MangaID = manga.ID
	}

	if err := s.volumes.SaveAll(ctx, fetched); err != nil {
		return nil, err
	}
	return s.volumes.ListByManga(ctx, manga.ID)
}

// FetchVolumes is the read-only variant: it still materializes the manga (the
// volume list is meaningless without it) but persists no volumes.
func (s *catalogService) FetchVolumes(ctx context.Context, malID int64) ([]models.Volume, error) {
	manga, err := s.ImportManga(ctx, malID)
	if err != nil {
		return nil, err
	}
	return s.client.Volumes(ctx, malID, manga, s.volumes)
}

func (s *catalogService) VolumeDetail(ctx context.Context, malID int64, number int) (*models.Volume, error) {
	return s.client.VolumeDetail(ctx, malID, number)
}

// ResolveVolume never fails to produce a volume once the manga is known:
// local lookup, then upstream detail, then a synthesized placeholder. Fidelity
// is traded for availability on the last tier.
func (s *catalogService) ResolveVolume(ctx context.Context, malID int64, number int) (*models.Volume, error) {
	manga, err := s.ImportManga(ctx, malID)
	if err != nil {
		return nil, err
	}

	existing, err := s.volumes.FindByMangaAndNumber(ctx, manga.ID, number)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup volume: %w", err)
	}

	detail, err := s.client.VolumeDetail(ctx, malID, number)
	if err != nil {
		return nil, err
	}
	if detail != nil {
		detail.MangaID = manga.ID
		return s.volumes.CreateIgnoringDuplicates(ctx, detail)
	}

	// upstream has nothing for this volume, synthesize the minimum
	placeholder := &models.Volume{
		MangaID:  manga.ID,
		Number:   number,
		Title:    fmt.Sprintf("%s - Volume %d", manga.Title, number),
		MalID:    manga.MalID,
		CoverURL: manga.CoverURL,
		Price:    9.99,
	}
	return s.volumes.CreateIgnoringDuplicates(ctx, placeholder)
}
