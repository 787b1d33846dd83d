package dto

import (
	"time"

	"pixelbook/internal/http-api/models"
)

// CreateUserDTO used for POST /api/users
type CreateUserDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	SkinID   *int64 `json:"skin_id,omitempty"`
}

// UpdateUserDTO used for PUT /api/users/:id (partial updates allowed)
type UpdateUserDTO struct {
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
	Password *string `json:"password,omitempty" binding:"omitempty,min=8"`
	SkinID   *int64  `json:"skin_id,omitempty"`
}

// UserResponse DTO for responses, never carries the password hash
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	SkinID    *int64    `json:"skin_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (d CreateUserDTO) ToModel() models.User {
	return models.User{
		Email:    d.Email,
		Password: d.Password,
		SkinID:   d.SkinID,
	}
}

func (d UpdateUserDTO) ToModel(id int64) models.User {
	user := models.User{ID: id, SkinID: d.SkinID}
	if d.Email != nil {
		user.Email = *d.Email
	}
	if d.Password != nil {
		user.Password = *d.Password
	}
	return user
}

func FromModelToUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		SkinID:    u.SkinID,
		CreatedAt: u.CreatedAt,
	}
}
