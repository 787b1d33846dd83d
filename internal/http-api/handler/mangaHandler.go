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

type MangaHandler struct {
	mangas  service.MangaService
	volumes service.VolumeService
}

func NewMangaHandler(mangas service.MangaService, volumes service.VolumeService) *MangaHandler {
	return &MangaHandler{mangas: mangas, volumes: volumes}
}

func (h *MangaHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.List)
	rg.GET("/:manga_id", h.Get)
	rg.GET("/:manga_id/volumes", h.ListVolumes)
	rg.POST("/", h.Create)
	rg.PUT("/:manga_id", h.Update)
	rg.DELETE("/:manga_id", h.Delete)
}

func (h *MangaHandler) List(c *gin.Context) {
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

	list, total, err := h.mangas.GetAll(ctx, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.MangaResponse, 0, len(list))
	for _, m := range list {
		resp = append(resp, dto.FromModelToResponse(m))
	}

	c.JSON(http.StatusOK, gin.H{
		"data": resp,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		},
	})
}

func (h *MangaHandler) Get(c *gin.Context) {
	id, ok := parseMangaID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	m, err := h.mangas.GetByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "manga not found"})
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToResponse(*m))
}

func (h *MangaHandler) ListVolumes(c *gin.Context) {
	id, ok := parseMangaID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	volumes, err := h.volumes.ListByManga(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrMangaNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "manga not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromModelsToVolumeResponses(volumes))
}

func (h *MangaHandler) Create(c *gin.Context) {
	var in dto.CreateMangaDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	model := in.ToModel()
	if err := h.mangas.Create(ctx, &model); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToResponse(model))
}

func (h *MangaHandler) Update(c *gin.Context) {
	id, ok := parseMangaID(c)
	if !ok {
		return
	}

	var in dto.UpdateMangaDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	existing, err := h.mangas.GetByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "manga not found"})
		return
	}

	in.ApplyTo(existing)
	updated, err := h.mangas.Update(ctx, id, existing)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToResponse(*updated))
}

func (h *MangaHandler) Delete(c *gin.Context) {
	id, ok := parseMangaID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.mangas.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrMangaNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "manga not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

func parseMangaID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("manga_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
