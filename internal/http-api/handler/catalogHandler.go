package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"pixelbook/internal/cache"
	"pixelbook/internal/http-api/dto"
	"pixelbook/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

// upstream calls are slower than local queries, give them more headroom
const catalogTimeout = 15 * time.Second

type CatalogHandler struct {
	svc     service.CatalogService
	popular *cache.PopularFeed
}

func NewCatalogHandler(svc service.CatalogService, popular *cache.PopularFeed) *CatalogHandler {
	return &CatalogHandler{svc: svc, popular: popular}
}

func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.Search)
	rg.GET("/popular", h.Popular)
	rg.GET("/mangas/:mal_id", h.MangaDetails)
	rg.GET("/mangas/:mal_id/volumes", h.Volumes)
	rg.GET("/mangas/:mal_id/volumes/:number", h.VolumeDetail)
	rg.POST("/mangas/:mal_id/import", h.ImportManga)
	rg.POST("/mangas/:mal_id/volumes/import", h.ImportVolumes)
}

func (h *CatalogHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter q"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), catalogTimeout)
	defer cancel()

	results, err := h.svc.Search(ctx, query)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *CatalogHandler) Popular(c *gin.Context) {
	page := 1
	limit := 10

	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 25 {
			limit = parsed
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), catalogTimeout)
	defer cancel()

	if feed, err := h.popular.Get(ctx, page, limit); err == nil {
		c.JSON(http.StatusOK, feed)
		return
	}

	feed, err := h.svc.Popular(ctx, page, limit)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	// best effort, a failed cache write never fails the request
	h.popular.Set(ctx, page, limit, feed)

	c.JSON(http.StatusOK, feed)
}

func (h *CatalogHandler) MangaDetails(c *gin.Context) {
	malID, ok := parseMalID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), catalogTimeout)
	defer cancel()

	manga, err := h.svc.MangaDetails(ctx, malID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	// an absent upstream entry renders as a JSON null body
	if manga == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToResponse(*manga))
}

func (h *CatalogHandler) Volumes(c *gin.Context) {
	malID, ok := parseMalID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), catalogTimeout)
	defer cancel()

	volumes, err := h.svc.FetchVolumes(ctx, malID)
	if err != nil {
		if errors.Is(err, service.ErrMangaNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "manga not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromModelsToVolumeResponses(volumes))
}

func (h *CatalogHandler) VolumeDetail(c *gin.Context) {
	malID, ok := parseMalID(c)
	if !ok {
		return
	}
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid volume number"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), catalogTimeout)
	defer cancel()

	volume, err := h.svc.VolumeDetail(ctx, malID, number)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if volume == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToVolumeResponse(*volume))
}

func (h *CatalogHandler) ImportManga(c *gin.Context) {
	malID, ok := parseMalID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), catalogTimeout)
	defer cancel()

	manga, err := h.svc.ImportManga(ctx, malID)
	if err != nil {
		if errors.Is(err, service.ErrMangaNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "manga not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToResponse(*manga))
}

func (h *CatalogHandler) ImportVolumes(c *gin.Context) {
	malID, ok := parseMalID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), catalogTimeout)
	defer cancel()

	volumes, err := h.svc.ImportVolumes(ctx, malID)
	if err != nil {
		if errors.Is(err, service.ErrMangaNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "manga not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelsToVolumeResponses(volumes))
}

func parseMalID(c *gin.Context) (int64, bool) {
	malID, err := strconv.ParseInt(c.Param("mal_id"), 10, 64)
	if err != nil || malID < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mal_id"})
		return 0, false
	}
	return malID, true
}
