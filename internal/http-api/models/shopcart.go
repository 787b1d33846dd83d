package models

type ShopCart struct {
	ID     int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID int64 `json:"user_id" gorm:"uniqueIndex;not null"`
}

func (ShopCart) TableName() string {
	return "shop_carts"
}

// CartItem is the cart membership row. The composite primary key is what makes
// cart membership set-shaped: a lost add-race fails the insert instead of
// producing a duplicate.
type CartItem struct {
	ShopCartID int64 `json:"shop_cart_id" gorm:"primaryKey;autoIncrement:false"`
	VolumeID   int64 `json:"volume_id" gorm:"primaryKey;autoIncrement:false"`
}

func (CartItem) TableName() string {
	return "shop_cart_volumes"
}
