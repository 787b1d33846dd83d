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

// CartHandler exposes carts addressed by their own id. The user-scoped
// routes in UserHandler cover the common path, these exist for clients
// that hold a cart id directly.
type CartHandler struct {
	svc service.CartService
}

func NewCartHandler(svc service.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:cart_id", h.Get)
	rg.POST("/:cart_id/volumes", h.AddVolume)
	rg.POST("/:cart_id/volumes/external", h.AddVolumeByExternal)
	rg.DELETE("/:cart_id/volumes/:volume_id", h.RemoveVolume)
}

func (h *CartHandler) Get(c *gin.Context) {
	cartID, ok := parseCartID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	cart, volumes, err := h.svc.GetCart(ctx, cartID)
	if err != nil {
		cartErrResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToCartResponse(*cart, volumes))
}

func (h *CartHandler) AddVolume(c *gin.Context) {
	cartID, ok := parseCartID(c)
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

	if err := h.svc.AddVolume(ctx, cartID, in.VolumeID); err != nil {
		cartErrResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "volume added to cart"})
}

func (h *CartHandler) AddVolumeByExternal(c *gin.Context) {
	cartID, ok := parseCartID(c)
	if !ok {
		return
	}

	var in dto.AddCartItemByExternalDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// the volume may need an upstream import first
	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	volume, err := h.svc.AddVolumeByExternal(ctx, cartID, in.MalID, in.Number)
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

func (h *CartHandler) RemoveVolume(c *gin.Context) {
	cartID, ok := parseCartID(c)
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

	if err := h.svc.RemoveVolume(ctx, cartID, volumeID); err != nil {
		cartErrResponse(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

func parseCartID(c *gin.Context) (int64, bool) {
	cartID, err := strconv.ParseInt(c.Param("cart_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cart id"})
		return 0, false
	}
	return cartID, true
}
