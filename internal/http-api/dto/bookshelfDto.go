package dto

import (
	"time"

	"pixelbook/internal/http-api/models"
)

// AddShelfItemDTO used for POST /api/users/:user_id/bookshelf/volumes
type AddShelfItemDTO struct {
	VolumeID int64 `json:"volume_id" binding:"required"`
}

// ContentResponse is one owned volume on a bookshelf
type ContentResponse struct {
	ID      int64          `json:"id"`
	AddedAt time.Time      `json:"added_at"`
	Volume  VolumeResponse `json:"volume"`
}

// BookshelfResponse is the aggregate shelf view
type BookshelfResponse struct {
	ID         int64             `json:"id"`
	UserID     int64             `json:"user_id"`
	TotalItems int               `json:"total_items"`
	Contents   []ContentResponse `json:"contents"`
}

func FromModelToContentResponse(c models.Content) ContentResponse {
	resp := ContentResponse{
		ID:      c.ID,
		AddedAt: c.AddedAt,
	}
	if c.Volume != nil {
		resp.Volume = FromModelToVolumeResponse(*c.Volume)
	}
	return resp
}

func FromModelToBookshelfResponse(shelf models.Bookshelf, contents []models.Content) BookshelfResponse {
	responses := make([]ContentResponse, 0, len(contents))
	for _, c := range contents {
		responses = append(responses, FromModelToContentResponse(c))
	}
	return BookshelfResponse{
		ID:         shelf.ID,
		UserID:     shelf.UserID,
		TotalItems: len(responses),
		Contents:   responses,
	}
}
