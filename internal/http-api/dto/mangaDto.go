package dto

import (
	"time"

	"pixelbook/internal/http-api/models"
)

// CreateMangaDTO used for POST /api/mangas
type CreateMangaDTO struct {
	Title    string  `json:"title" binding:"required"`
	MalID    *int64  `json:"mal_id,omitempty"`
	Author   *string `json:"author,omitempty"`
	Synopsis *string `json:"synopsis,omitempty"`
	CoverURL *string `json:"cover_url,omitempty"`
}

// UpdateMangaDTO used for PUT /api/mangas/:id (partial updates allowed)
type UpdateMangaDTO struct {
	Title    *string `json:"title,omitempty"`
	Author   *string `json:"author,omitempty"`
	Synopsis *string `json:"synopsis,omitempty"`
	CoverURL *string `json:"cover_url,omitempty"`
}

// MangaResponse DTO for responses
type MangaResponse struct {
	ID        int64      `json:"id"`
	MalID     *int64     `json:"mal_id,omitempty"`
	Title     string     `json:"title"`
	Author    *string    `json:"author,omitempty"`
	Synopsis  *string    `json:"synopsis,omitempty"`
	CoverURL  *string    `json:"cover_url,omitempty"`
	StartDate *string    `json:"start_date,omitempty"`
	EndDate   *string    `json:"end_date,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Converters
func (d CreateMangaDTO) ToModel() models.Manga {
	return models.Manga{
		Title:    d.Title,
		MalID:    d.MalID,
		Author:   d.Author,
		Synopsis: d.Synopsis,
		CoverURL: d.CoverURL,
	}
}

func (d UpdateMangaDTO) ApplyTo(m *models.Manga) {
	if d.Title != nil {
		m.Title = *d.Title
	}
	if d.Author != nil {
		m.Author = d.Author
	}
	if d.Synopsis != nil {
		m.Synopsis = d.Synopsis
	}
	if d.CoverURL != nil {
		m.CoverURL = d.CoverURL
	}
}

func FromModelToResponse(m models.Manga) MangaResponse {
	return MangaResponse{
		ID:        m.ID,
		MalID:     m.MalID,
		Title:     m.Title,
		Author:    m.Author,
		Synopsis:  m.Synopsis,
		CoverURL:  m.CoverURL,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		CreatedAt: m.CreatedAt,
	}
}
