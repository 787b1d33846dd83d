package models

// Volume belongs to exactly one manga. The (manga_id, number) pair is the
// natural key: imports deduplicate on it and the composite unique index is the
// authoritative guard against concurrent double-inserts.
type Volume struct {
	ID          int64    `json:"id" gorm:"primaryKey;autoIncrement"`
	MangaID     int64    `json:"manga_id" gorm:"not null;uniqueIndex:idx_volumes_manga_number"`
	Number      int      `json:"number" gorm:"not null;uniqueIndex:idx_volumes_manga_number"`
	Title       string   `json:"title"`
	CoverURL    *string  `json:"cover_url,omitempty"`
	MalID       *int64   `json:"mal_id,omitempty" gorm:"index"`
	ISBN        *string  `json:"isbn,omitempty"`
	PageCount   *int     `json:"page_count,omitempty"`
	Price       float64  `json:"price"`
	ReleaseDate *string  `json:"release_date,omitempty"`

	Manga *Manga `json:"manga,omitempty" gorm:"foreignKey:MangaID"`

	// contents go away with the volume
	Contents []Content `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
}

func (Volume) TableName() string {
	return "volumes"
}
