package dto

import "pixelbook/internal/http-api/models"

// AddCartItemDTO used for POST /api/users/:user_id/cart/volumes
type AddCartItemDTO struct {
	VolumeID int64 `json:"volume_id" binding:"required"`
}

// AddCartItemByExternalDTO adds a volume identified by its upstream catalog
// reference, importing it first when it is not stored locally.
type AddCartItemByExternalDTO struct {
	MalID  int64 `json:"mal_id" binding:"required"`
	Number int   `json:"number" binding:"required,min=1"`
}

// CartResponse is the aggregate cart view
type CartResponse struct {
	ID         int64            `json:"id"`
	UserID     int64            `json:"user_id"`
	Volumes    []VolumeResponse `json:"volumes"`
	TotalItems int              `json:"total_items"`
	TotalPrice float64          `json:"total_price"`
}

// CheckoutResponse reports how many cart volumes moved to the bookshelf.
// TransferredCount can be lower than the cart size when some volumes were
// already owned.
type CheckoutResponse struct {
	Message          string `json:"message"`
	TransferredCount int    `json:"transferred_count"`
}

func FromModelToCartResponse(cart models.ShopCart, volumes []models.Volume) CartResponse {
	var total float64
	for _, v := range volumes {
		total += v.Price
	}
	return CartResponse{
		ID:         cart.ID,
		UserID:     cart.UserID,
		Volumes:    FromModelsToVolumeResponses(volumes),
		TotalItems: len(volumes),
		TotalPrice: total,
	}
}
