package importer

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gameshelf/pkg/models"
)

type Handler struct {
	Normalizer *Normalizer
}

func NewHandler(n *Normalizer) *Handler {
	return &Handler{Normalizer: n}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/external-games/search", h.search)
	rg.GET("/external-games/:source/:id", h.getByID)
}

func (h *Handler) search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q required"})
		return
	}

	filter := strings.TrimSpace(c.Query("source"))
	if filter == "" {
		filter = FilterAll
	}
	switch filter {
	case FilterAll, models.SourceSteam, models.SourceIGDB:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "source must be one of: steam, igdb, all"})
		return
	}

	result, err := h.Normalizer.SearchAll(c.Request.Context(), query, filter)
	if err != nil {
		if errors.Is(err, ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) getByID(c *gin.Context) {
	name := strings.TrimSpace(c.Param("source"))
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id required"})
		return
	}

	src := h.Normalizer.SourceByName(name)
	if src == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source must be one of: steam, igdb"})
		return
	}

	game, err := src.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "fetch from source failed"})
		return
	}
	if game == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}

	c.JSON(http.StatusOK, game)
}
