package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tunelink/internal/cache"
	"tunelink/internal/models"
	"tunelink/internal/services"
)

// HealthHandler reports dependency health
type HealthHandler struct {
	db                *models.Database
	cache             cache.Cache
	resolutionService *services.TrackResolutionService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *models.Database, cache cache.Cache, resolutionService *services.TrackResolutionService) *HealthHandler {
	return &HealthHandler{
		db:                db,
		cache:             cache,
		resolutionService: resolutionService,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	status := http.StatusOK
	checks := gin.H{}

	if err := h.db.Health(ctx); err != nil {
		checks["mongodb"] = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		checks["mongodb"] = "ok"
	}

	if err := h.cache.Health(ctx); err != nil {
		checks["cache"] = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		checks["cache"] = "ok"
	}

	// Platform backends degrade the report but not the status; the service
	// still serves existing links without them.
	platforms := gin.H{}
	for name, err := range h.resolutionService.Health(ctx) {
		if err != nil {
			platforms[name] = err.Error()
		} else {
			platforms[name] = "ok"
		}
	}
	checks["platforms"] = platforms

	c.JSON(status, gin.H{
		"status": http.StatusText(status),
		"checks": checks,
	})
}
