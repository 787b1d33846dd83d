package models

type Bookshelf struct {
	ID     int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID int64 `json:"user_id" gorm:"uniqueIndex;not null"`

	Contents []Content `json:"contents,omitempty" gorm:"constraint:OnDelete:CASCADE;"`
}

func (Bookshelf) TableName() string {
	return "bookshelves"
}
