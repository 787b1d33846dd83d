package models

import "time"

// Content is the owned-volume record: one row per (bookshelf, volume) pair,
// stamped with the instant the volume entered the shelf.
type Content struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	BookshelfID int64     `json:"bookshelf_id" gorm:"not null;uniqueIndex:idx_contents_shelf_volume"`
	VolumeID    int64     `json:"volume_id" gorm:"not null;uniqueIndex:idx_contents_shelf_volume"`
	AddedAt     time.Time `json:"added_at"`

	Volume *Volume `json:"volume,omitempty" gorm:"foreignKey:VolumeID"`
}

func (Content) TableName() string {
	return "contents"
}
