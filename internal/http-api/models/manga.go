package models

import "time"

type Manga struct {
	ID        int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	MalID     *int64     `json:"mal_id,omitempty" gorm:"uniqueIndex"`
	Title     string     `json:"title" gorm:"not null"`
	Author    *string    `json:"author,omitempty"`
	Synopsis  *string    `json:"synopsis,omitempty" gorm:"type:text"`
	CoverURL  *string    `json:"cover_url,omitempty"`
	StartDate *string    `json:"start_date,omitempty"`
	EndDate   *string    `json:"end_date,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty" gorm:"autoCreateTime"`

	// association
	Volumes []Volume `json:"volumes,omitempty" gorm:"constraint:OnDelete:CASCADE;"`
}

func (Manga) TableName() string {
	return "mangas"
}
