package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"tunelink/internal/auth"
	"tunelink/internal/models"
	"tunelink/internal/repositories"
	"tunelink/internal/services"
)

// CreateLinkRequest represents the request to create a smart link. Either a
// platform URL or an artist/title pair must be provided.
type CreateLinkRequest struct {
	URL    string `json:"url,omitempty"`
	Artist string `json:"artist,omitempty"`
	Title  string `json:"title,omitempty"`
}

// UpdateLinkRequest represents the request to edit a link's display fields
type UpdateLinkRequest struct {
	Title  string `json:"title" binding:"required"`
	Artist string `json:"artist" binding:"required"`
	Slug   string `json:"slug" binding:"required"`
}

// LinkHandler handles smart-link CRUD requests
type LinkHandler struct {
	resolutionService *services.TrackResolutionService
	linkRepository    repositories.LinkRepository
}

// NewLinkHandler creates a new link handler
func NewLinkHandler(resolutionService *services.TrackResolutionService, linkRepository repositories.LinkRepository) *LinkHandler {
	return &LinkHandler{
		resolutionService: resolutionService,
		linkRepository:    linkRepository,
	}
}

// CreateLink handles POST /api/links
func (h *LinkHandler) CreateLink(c *gin.Context) {
	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	hasURL := req.URL != ""
	hasQuery := req.Artist != "" && req.Title != ""
	if !hasURL && !hasQuery {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide either a url or an artist and title"})
		return
	}

	var metadata *services.TrackMetadata
	var err error
	if hasURL {
		metadata, err = h.resolutionService.ResolveFromURL(c.Request.Context(), req.URL)
	} else {
		metadata, err = h.resolutionService.ResolveByQuery(c.Request.Context(), req.Artist, req.Title)
	}
	if err != nil {
		h.respondResolveError(c, err)
		return
	}

	slug := services.Slugify(metadata.Artist, metadata.Title)
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Track metadata yields an empty slug"})
		return
	}

	link := models.NewLink(auth.UserID(c), metadata.Title, metadata.Artist, slug)
	link.CoverArt = metadata.CoverArt
	link.ISRC = metadata.ISRC

	if err := h.linkRepository.Create(c.Request.Context(), link, metadata.Platforms); err != nil {
		switch {
		case errors.Is(err, repositories.ErrSlugTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "A link with this slug already exists"})
		case errors.Is(err, repositories.ErrNoPlatforms):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No platform links could be resolved"})
		default:
			slog.Error("Failed to create link", "slug", slug, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create link"})
		}
		return
	}

	c.JSON(http.StatusCreated, link)
}

// GetLink handles GET /api/links/:slug (public landing-page read)
func (h *LinkHandler) GetLink(c *gin.Context) {
	slug := c.Param("slug")

	link, err := h.linkRepository.FindBySlug(c.Request.Context(), slug)
	if err != nil {
		slog.Error("Failed to find link", "slug", slug, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load link"})
		return
	}
	if link == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
		return
	}

	c.JSON(http.StatusOK, link)
}

// ListLinks handles GET /api/links (owner's links, newest first)
func (h *LinkHandler) ListLinks(c *gin.Context) {
	userID := auth.UserID(c)

	links, err := h.linkRepository.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		slog.Error("Failed to list links", "owner_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list links"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"links": links,
		"count": len(links),
	})
}

// UpdateLink handles PUT /api/links/:id
func (h *LinkHandler) UpdateLink(c *gin.Context) {
	var req UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	id := c.Param("id")
	link, err := h.linkRepository.Update(c.Request.Context(), id, auth.UserID(c), req.Title, req.Artist, req.Slug)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrSlugTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "A link with this slug already exists"})
		case errors.Is(err, repositories.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
		default:
			slog.Error("Failed to update link", "id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update link"})
		}
		return
	}

	c.JSON(http.StatusOK, link)
}

// DeleteLink handles DELETE /api/links/:id
func (h *LinkHandler) DeleteLink(c *gin.Context) {
	id := c.Param("id")

	if err := h.linkRepository.Delete(c.Request.Context(), id, auth.UserID(c)); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
			return
		}
		slog.Error("Failed to delete link", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete link"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// respondResolveError maps resolution failures onto HTTP statuses
func (h *LinkHandler) respondResolveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnsupportedPlatform):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported platform URL"})
	case errors.Is(err, services.ErrInvalidURL):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not extract a track from URL"})
	case errors.Is(err, services.ErrTrackNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Track not found"})
	default:
		slog.Error("Failed to resolve track", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve track"})
	}
}
