package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"pixelbook/internal/http-api/dto"
	"pixelbook/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users   service.UserService
	carts   service.CartService
	shelves service.BookshelfService
}

func NewUserHandler(users service.UserService, carts service.CartService, shelves service.BookshelfService) *UserHandler {
	return &UserHandler{users: users, carts: carts, shelves: shelves}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.List)
	rg.POST("/", h.Create)
	rg.GET("/:user_id", h.Get)
	rg.PUT("/:user_id", h.Update)
	rg.DELETE("/:user_id", h.Delete)

	// collection views
	rg.GET("/:user_id/cart", h.GetCart)
	rg.GET("/:user_id/bookshelf", h.GetBookshelf)

	// cart mutations
	rg.POST("/:user_id/cart/volumes", h.AddCartVolume)
	rg.POST("/:user_id/cart/volumes/external", h.AddCartVolumeByExternal)
	rg.DELETE("/:user_id/cart/volumes/:volume_id", h.RemoveCartVolume)
	rg.POST("/:user_id/cart/checkout", h.Checkout)

	// bookshelf mutations
	rg.POST("/:user_id/bookshelf/volumes", h.AddShelfVolume)
	rg.DELETE("/:user_id/bookshelf/volumes/:volume_id", h.RemoveShelfVolume)
}

func (h *UserHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	users, err := h.users.GetAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, dto.FromModelToUserResponse(u))
	}
	c.JSON(http.StatusOK, resp)
}

// Create registers a user. The bookshelf and shop cart come into existence
// with the user row.
func (h *UserHandler) Create(c *gin.Context) {
	var in dto.CreateUserDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	model := in.ToModel()
	created, err := h.users.Create(ctx, &model)
	if err != nil {
		if errors.Is(err, service.ErrEmailInUse) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToUserResponse(*created))
}

func (h *UserHandler) Get(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToUserResponse(*user))
}

func (h *UserHandler) Update(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var in dto.UpdateUserDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	model := in.ToModel(userID)
	updated, err := h.users.Update(ctx, &model)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrEmailInUse):
			c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToUserResponse(*updated))
}

func (h *UserHandler) Delete(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

func (h *UserHandler) GetCart(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	cart, volumes, err := h.carts.GetCartByUser(ctx, userID)
	if err != nil {
		cartErrResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToCartResponse(*cart, volumes))
}

func (h *UserHandler) GetBookshelf(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	shelf, contents, err := h.shelves.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToBookshelfResponse(*shelf, contents))
}

func (h *UserHandler) AddCartVolume(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var in dto.AddCartItemDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	cart, _, err := h.carts.GetCartByUser(ctx, userID)
	if err != nil {
		cartErrResponse(c, err)
		return
	}

	if err := h.carts.AddVolume(ctx, cart.ID, in.VolumeID); err != nil {
		cartErrResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "volume added to cart"})
}

// AddCartVolumeByExternal imports the referenced volume when it is not yet
// stored locally, then adds it to the cart.
func (h *UserHandler) AddCartVolumeByExternal(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var in dto.AddCartItemByExternalDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	cart, _, err := h.carts.GetCartByUser(ctx, userID)
	if err != nil {
		cartErrResponse(c, err)
		return
	}

	volume, err := h.carts.AddVolumeByExternal(ctx, cart.ID, in.MalID, in.Number)
	if err != nil {
		if errors.Is(err, service.ErrMangaNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "manga not found"})
			return
		}
		cartErrResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "volume added to cart",
		"volume":  dto.FromModelToVolumeResponse(*volume),
	})
}

func (h *UserHandler) RemoveCartVolume(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	volumeID, err := strconv.ParseInt(c.Param("volume_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid volume id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	cart, _, err := h.carts.GetCartByUser(ctx, userID)
	if err != nil {
		cartErrResponse(c, err)
		return
	}

	if err := h.carts.RemoveVolume(ctx, cart.ID, volumeID); err != nil {
		cartErrResponse(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// Checkout moves every cart volume the user does not already own onto the
// bookshelf and empties the cart.
func (h *UserHandler) Checkout(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result, err := h.carts.Checkout(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
			return
		}
		cartErrResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CheckoutResponse{
		Message:          "checkout complete",
		TransferredCount: result.Transferred,
	})
}

func (h *UserHandler) AddShelfVolume(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var in dto.AddShelfItemDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	content, err := h.shelves.AddVolume(ctx, userID, in.VolumeID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrVolumeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "volume not found"})
		case errors.Is(err, service.ErrAlreadyOnShelf):
			c.JSON(http.StatusConflict, gin.H{"error": "volume already in bookshelf"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToContentResponse(*content))
}

func (h *UserHandler) RemoveShelfVolume(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	volumeID, err := strconv.ParseInt(c.Param("volume_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid volume id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.shelves.RemoveVolume(ctx, userID, volumeID); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrNotOnShelf):
			c.JSON(http.StatusNotFound, gin.H{"error": "volume not in bookshelf"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

func parseUserID(c *gin.Context) (int64, bool) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	return userID, true
}

func cartErrResponse(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, service.ErrCartNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
	case errors.Is(err, service.ErrVolumeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "volume not found"})
	case errors.Is(err, service.ErrAlreadyInCart):
		c.JSON(http.StatusConflict, gin.H{"error": "volume already in cart"})
	case errors.Is(err, service.ErrNotInCart):
		c.JSON(http.StatusNotFound, gin.H{"error": "volume not in cart"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
