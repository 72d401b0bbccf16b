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

// RecordClickRequest represents a landing-page click report
type RecordClickRequest struct {
	LinkID   string `json:"link_id" binding:"required"`
	Platform string `json:"platform" binding:"required"`
	Referrer string `json:"referrer,omitempty"`

	UTMSource   string `json:"utm_source,omitempty"`
	UTMMedium   string `json:"utm_medium,omitempty"`
	UTMCampaign string `json:"utm_campaign,omitempty"`
	UTMTerm     string `json:"utm_term,omitempty"`
	UTMContent  string `json:"utm_content,omitempty"`
}

// AnalyticsHandler handles click recording and summary requests
type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// RecordClick handles POST /api/analytics/click (public, called from the
// landing page before the visitor is sent to the platform)
func (h *AnalyticsHandler) RecordClick(c *gin.Context) {
	var req RecordClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	utm := models.UTMParams{
		Source:   req.UTMSource,
		Medium:   req.UTMMedium,
		Campaign: req.UTMCampaign,
		Term:     req.UTMTerm,
		Content:  req.UTMContent,
	}

	event, err := h.analyticsService.RecordClick(
		c.Request.Context(),
		req.LinkID,
		req.Platform,
		req.Referrer,
		utm,
		c.Request.UserAgent(),
		c.ClientIP(),
	)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
			return
		}
		slog.Error("Failed to record click", "link_id", req.LinkID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record click"})
		return
	}

	c.JSON(http.StatusCreated, event)
}

// GetSummary handles GET /api/analytics/:linkId (owner only)
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	linkID := c.Param("linkId")

	summary, err := h.analyticsService.Summarize(c.Request.Context(), linkID, auth.UserID(c))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
			return
		}
		slog.Error("Failed to build analytics summary", "link_id", linkID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analytics"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
