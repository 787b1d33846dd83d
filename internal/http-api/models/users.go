package models

import "time"

type User struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"column:password_hash;not null"`
	SkinID    *int64    `json:"skin_id,omitempty"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	// associations, created together with the user and removed with it
	Bookshelf *Bookshelf `json:"bookshelf,omitempty" gorm:"constraint:OnDelete:CASCADE;"`
	ShopCart  *ShopCart  `json:"shop_cart,omitempty" gorm:"constraint:OnDelete:CASCADE;"`
}

func (User) TableName() string {
	return "users"
}
