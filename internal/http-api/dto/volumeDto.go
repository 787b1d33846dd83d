package dto

import "pixelbook/internal/http-api/models"

// CreateVolumeDTO used for POST /api/volumes
type CreateVolumeDTO struct {
	MangaID  int64   `json:"manga_id" binding:"required"`
	Number   int     `json:"number" binding:"required,min=1"`
	Title    string  `json:"title" binding:"required"`
	CoverURL *string `json:"cover_url,omitempty"`
	ISBN     *string `json:"isbn,omitempty"`
	Price    float64 `json:"price"`
}

// UpdateVolumeDTO used for PUT /api/volumes/:id (partial updates allowed)
type UpdateVolumeDTO struct {
	Title    *string  `json:"title,omitempty"`
	CoverURL *string  `json:"cover_url,omitempty"`
	ISBN     *string  `json:"isbn,omitempty"`
	Price    *float64 `json:"price,omitempty"`
}

// VolumeResponse DTO for responses
type VolumeResponse struct {
	ID          int64   `json:"id"`
	MangaID     int64   `json:"manga_id"`
	MalID       *int64  `json:"mal_id,omitempty"`
	Number      int     `json:"number"`
	Title       string  `json:"title"`
	CoverURL    *string `json:"cover_url,omitempty"`
	ISBN        *string `json:"isbn,omitempty"`
	PageCount   *int    `json:"page_count,omitempty"`
	Price       float64 `json:"price"`
	ReleaseDate *string `json:"release_date,omitempty"`
	MangaTitle  string  `json:"manga_title,omitempty"`
}

func (d CreateVolumeDTO) ToModel() models.Volume {
	return models.Volume{
		MangaID:  d.MangaID,
		Number:   d.Number,
		Title:    d.Title,
		CoverURL: d.CoverURL,
		ISBN:     d.ISBN,
		Price:    d.Price,
	}
}

func (d UpdateVolumeDTO) ApplyTo(v *models.Volume) {
	if d.Title != nil {
		v.Title = *d.Title
	}
	if d.CoverURL != nil {
		v.CoverURL = d.CoverURL
	}
	if d.ISBN != nil {
		v.ISBN = d.ISBN
	}
	if d.Price != nil {
		v.Price = *d.Price
	}
}

func FromModelToVolumeResponse(v models.Volume) VolumeResponse {
	resp := VolumeResponse{
		ID:          v.ID,
		MangaID:     v.MangaID,
		MalID:       v.MalID,
		Number:      v.Number,
		Title:       v.Title,
		CoverURL:    v.CoverURL,
		ISBN:        v.ISBN,
		PageCount:   v.PageCount,
		Price:       v.Price,
		ReleaseDate: v.ReleaseDate,
	}
	if v.Manga != nil {
		resp.MangaTitle = v.Manga.Title
	}
	return resp
}

func FromModelsToVolumeResponses(volumes []models.Volume) []VolumeResponse {
	responses := make([]VolumeResponse, 0, len(volumes))
	for _, v := range volumes {
		responses = append(responses, FromModelToVolumeResponse(v))
	}
	return responses
}
