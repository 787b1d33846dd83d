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

type VolumeHandler struct {
	svc service.VolumeService
}

func NewVolumeHandler(svc service.VolumeService) *VolumeHandler {
	return &VolumeHandler{svc: svc}
}

func (h *VolumeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.List)
	rg.GET("/:volume_id", h.Get)
	rg.POST("/", h.Create)
	rg.PUT("/:volume_id", h.Update)
	rg.DELETE("/:volume_id", h.Delete)
}

func (h *VolumeHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	page := 1
	pageSize := 20

	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 && parsed <= 100 {
			pageSize = parsed
		}
	}

	list, total, err := h.svc.GetAll(ctx, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": dto.FromModelsToVolumeResponses(list),
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		},
	})
}

func (h *VolumeHandler) Get(c *gin.Context) {
	id, ok := parseVolumeID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	v, err := h.svc.GetByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "volume not found"})
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToVolumeResponse(*v))
}

func (h *VolumeHandler) Create(c *gin.Context) {
	var in dto.CreateVolumeDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	model := in.ToModel()
	if err := h.svc.Create(ctx, &model); err != nil {
		if errors.Is(err, service.ErrMangaNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "manga not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToVolumeResponse(model))
}

func (h *VolumeHandler) Update(c *gin.Context) {
	id, ok := parseVolumeID(c)
	if !ok {
		return
	}

	var in dto.UpdateVolumeDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	existing, err := h.svc.GetByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "volume not found"})
		return
	}

	in.ApplyTo(existing)
	updated, err := h.svc.Update(ctx, id, existing)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToVolumeResponse(*updated))
}

func (h *VolumeHandler) Delete(c *gin.Context) {
	id, ok := parseVolumeID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrVolumeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "volume not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

func parseVolumeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("volume_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
