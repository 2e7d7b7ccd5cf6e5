package games

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gameshelf/internal/auth"
	"gameshelf/internal/importer"
	"gameshelf/internal/sources"
	"gameshelf/internal/stats"
	"gameshelf/internal/sync"
	"gameshelf/pkg/models"
)

type Handler struct {
	Repo *Repo
	Hub  *sync.Hub
}

func NewHandler(repo *Repo, hub *sync.Hub) *Handler {
	return &Handler{Repo: repo, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/games", h.list)
	rg.POST("/games", h.create)
	rg.POST("/games/import", h.importExternal)
	rg.GET("/games/:id", h.getOne)
	rg.PUT("/games/:id", h.update)
	rg.DELETE("/games/:id", h.remove)
	rg.GET("/stats", h.stats)
}

type createReq struct {
	Title       string   `json:"title"`
	CoverURL    string   `json:"cover_url"`
	Status      string   `json:"status"`
	HoursPlayed float64  `json:"hours_played"`
	Rating      *int     `json:"rating"`
	Genres      []string `json:"genres"`
	Platforms   []string `json:"platforms"`
	ReleaseDate string   `json:"release_date"`
	Description string   `json:"description"`
	Developer   string   `json:"developer"`
	Publisher   string   `json:"publisher"`
	Source      string   `json:"source"`
	ExternalID  string   `json:"external_id"`
}

func (h *Handler) create(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title required"})
		return
	}
	if req.CoverURL == "" {
		req.CoverURL = sources.PlaceholderCover
	}
	if req.Status == "" {
		req.Status = models.StatusBacklog
	}
	if !models.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of: playing, completed, backlog"})
		return
	}
	if req.HoursPlayed < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hours_played must be >= 0"})
		return
	}
	if req.Rating != nil && (*req.Rating < 0 || *req.Rating > 5) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 0 and 5"})
		return
	}
	source := req.Source
	if source == "" {
		source = models.SourceManual
	}
	switch source {
	case models.SourceManual, models.SourceSteam, models.SourceIGDB:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "source must be one of: steam, igdb, manual"})
		return
	}

	existing, err := h.Repo.ListByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	if importer.IsDuplicate(existing, req.Title, req.ExternalID) {
		c.JSON(http.StatusConflict, gin.H{"error": "game already in library"})
		return
	}

	now := time.Now().UTC()
	g := models.Game{
		ID:          uuid.NewString(),
		UserID:      claims.UserID,
		Title:       req.Title,
		CoverURL:    req.CoverURL,
		Status:      req.Status,
		HoursPlayed: req.HoursPlayed,
		Rating:      req.Rating,
		Genres:      req.Genres,
		Platforms:   req.Platforms,
		ReleaseDate: req.ReleaseDate,
		Description: req.Description,
		Developer:   req.Developer,
		Publisher:   req.Publisher,
		Source:      source,
		ExternalID:  req.ExternalID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Repo.Insert(c.Request.Context(), g); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	h.broadcast(sync.EventGameCreated, g)
	c.JSON(http.StatusCreated, g)
}

// importExternal creates a library entry from a selected external search
// result. New imports always land in the backlog with zero hours.
func (h *Handler) importExternal(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var ext models.ExternalGameData
	if err := c.ShouldBindJSON(&ext); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	ext.Title = strings.TrimSpace(ext.Title)
	if ext.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title required"})
		return
	}
	if ext.Source != models.SourceSteam && ext.Source != models.SourceIGDB {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source must be one of: steam, igdb"})
		return
	}
	if ext.CoverURL == "" {
		ext.CoverURL = sources.PlaceholderCover
	}

	existing, err := h.Repo.ListByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	if importer.IsDuplicate(existing, ext.Title, ext.ExternalID) {
		c.JSON(http.StatusConflict, gin.H{"error": "game already in library"})
		return
	}

	now := time.Now().UTC()
	g := models.Game{
		ID:          uuid.NewString(),
		UserID:      claims.UserID,
		Title:       ext.Title,
		CoverURL:    ext.CoverURL,
		Status:      models.StatusBacklog,
		HoursPlayed: 0,
		Genres:      ext.Genres,
		Platforms:   ext.Platforms,
		ReleaseDate: ext.ReleaseDate,
		Description: ext.Description,
		Developer:   ext.Developer,
		Publisher:   ext.Publisher,
		Source:      ext.Source,
		ExternalID:  ext.ExternalID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Repo.Insert(c.Request.Context(), g); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	h.broadcast(sync.EventGameCreated, g)
	c.JSON(http.StatusCreated, g)
}

func (h *Handler) list(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	items, err := h.Repo.ListByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	if items == nil {
		items = []models.Game{}
	}

	c.JSON(http.StatusOK, items)
}

func (h *Handler) getOne(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	g, err := h.Repo.GetByID(c.Request.Context(), claims.UserID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if g == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	c.JSON(http.StatusOK, g)
}

// updateReq uses pointers so absent fields are left untouched.
type updateReq struct {
	Title       *string   `json:"title"`
	CoverURL    *string   `json:"cover_url"`
	Status      *string   `json:"status"`
	HoursPlayed *float64  `json:"hours_played"`
	Rating      *int      `json:"rating"`
	Genres      *[]string `json:"genres"`
	Platforms   *[]string `json:"platforms"`
	ReleaseDate *string   `json:"release_date"`
	Description *string   `json:"description"`
	Developer   *string   `json:"developer"`
	Publisher   *string   `json:"publisher"`
}

func (h *Handler) update(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	g, err := h.Repo.GetByID(c.Request.Context(), claims.UserID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if g == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if req.Title != nil {
		t := strings.TrimSpace(*req.Title)
		if t == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title must not be empty"})
			return
		}
		g.Title = t
	}
	if req.CoverURL != nil {
		g.CoverURL = *req.CoverURL
	}
	if req.Status != nil {
		if !models.ValidStatus(*req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of: playing, completed, backlog"})
			return
		}
		g.Status = *req.Status
	}
	if req.HoursPlayed != nil {
		if *req.HoursPlayed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "hours_played must be >= 0"})
			return
		}
		g.HoursPlayed = *req.HoursPlayed
	}
	if req.Rating != nil {
		if *req.Rating < 0 || *req.Rating > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 0 and 5"})
			return
		}
		g.Rating = req.Rating
	}
	if req.Genres != nil {
		g.Genres = *req.Genres
	}
	if req.Platforms != nil {
		g.Platforms = *req.Platforms
	}
	if req.ReleaseDate != nil {
		g.ReleaseDate = *req.ReleaseDate
	}
	if req.Description != nil {
		g.Description = *req.Description
	}
	if req.Developer != nil {
		g.Developer = *req.Developer
	}
	if req.Publisher != nil {
		g.Publisher = *req.Publisher
	}

	g.UpdatedAt = time.Now().UTC()

	ok, err := h.Repo.Update(c.Request.Context(), *g)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	h.broadcast(sync.EventGameUpdated, *g)
	c.JSON(http.StatusOK, g)
}

func (h *Handler) remove(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	ok, err := h.Repo.Delete(c.Request.Context(), claims.UserID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if h.Hub != nil {
		ev := sync.CatalogEvent{
			Type:   sync.EventGameDeleted,
			UserID: claims.UserID,
			GameID: id,
			At:     time.Now().UTC(),
		}
		go h.Hub.BroadcastJSON(ev)
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// stats loads the user's full library, applies the optional created-at
// window, and hands the snapshot to the aggregator.
func (h *Handler) stats(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	items, err := h.Repo.ListByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	from, ok := parseTimeParam(c.Query("from"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
		return
	}
	to, ok := parseTimeParam(c.Query("to"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
		return
	}

	if !from.IsZero() || !to.IsZero() {
		filtered := items[:0]
		for _, g := range items {
			if !from.IsZero() && g.CreatedAt.Before(from) {
				continue
			}
			if !to.IsZero() && g.CreatedAt.After(to) {
				continue
			}
			filtered = append(filtered, g)
		}
		items = filtered
	}

	c.JSON(http.StatusOK, stats.Compute(items))
}

func (h *Handler) broadcast(eventType string, g models.Game) {
	if h.Hub == nil {
		return
	}
	ev := sync.CatalogEvent{
		Type:   eventType,
		UserID: g.UserID,
		GameID: g.ID,
		Title:  g.Title,
		Status: g.Status,
		At:     time.Now().UTC(),
	}
	go h.Hub.BroadcastJSON(ev)
}

// parseTimeParam accepts RFC3339 or a plain date; empty is fine.
func parseTimeParam(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
