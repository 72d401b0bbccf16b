package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tunelink/internal/models"
	"tunelink/internal/services"
	"tunelink/internal/testutil"
)

func setupAnalyticsRouter(handler *AnalyticsHandler, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/analytics/click", handler.RecordClick)
	router.GET("/api/analytics/:linkId", setAuthenticatedUser(userID), handler.GetSummary)
	return router
}

func TestRecordClickEndpoint(t *testing.T) {
	link := testutil.NewLinkBuilder().Build()

	linkRepo := new(testutil.MockLinkRepository)
	clickRepo := new(testutil.MockClickRepository)
	linkRepo.On("FindByID", mock.Anything, link.ID.Hex()).Return(link, nil)
	clickRepo.On("Insert", mock.Anything, mock.AnythingOfType("*models.ClickEvent")).Return(nil)

	handler := NewAnalyticsHandler(services.NewAnalyticsService(linkRepo, clickRepo))
	router := setupAnalyticsRouter(handler, "")

	body, _ := json.Marshal(RecordClickRequest{
		LinkID:    link.ID.Hex(),
		Platform:  "spotify",
		Referrer:  "https://ref.example",
		UTMSource: "newsletter",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analytics/click", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var event models.ClickEvent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &event))
	assert.Equal(t, "spotify", event.Platform)
	assert.Equal(t, "newsletter", event.UTM.Source)

	clickRepo.AssertExpectations(t)
}

func TestRecordClickMissingLinkEndpoint(t *testing.T) {
	linkRepo := new(testutil.MockLinkRepository)
	clickRepo := new(testutil.MockClickRepository)
	linkRepo.On("FindByID", mock.Anything, mock.Anything).Return(nil, nil)

	handler := NewAnalyticsHandler(services.NewAnalyticsService(linkRepo, clickRepo))
	router := setupAnalyticsRouter(handler, "")

	body, _ := json.Marshal(RecordClickRequest{LinkID: "deadbeefdeadbeefdeadbeef", Platform: "spotify"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analytics/click", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecordClickValidatesBody(t *testing.T) {
	handler := NewAnalyticsHandler(services.NewAnalyticsService(
		new(testutil.MockLinkRepository), new(testutil.MockClickRepository)))
	router := setupAnalyticsRouter(handler, "")

	// Platform missing.
	body, _ := json.Marshal(map[string]string{"link_id": "deadbeefdeadbeefdeadbeef"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analytics/click", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSummaryEndpoint(t *testing.T) {
	link := testutil.NewLinkBuilder().WithOwner("owner-1").Build()

	linkRepo := new(testutil.MockLinkRepository)
	clickRepo := new(testutil.MockClickRepository)

	events := []*models.ClickEvent{
		testutil.NewTestClick(link.ID, "spotify", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		testutil.NewTestClick(link.ID, "spotify", time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)),
		testutil.NewTestClick(link.ID, "youtube", time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC)),
	}

	linkRepo.On("FindByID", mock.Anything, link.ID.Hex()).Return(link, nil)
	clickRepo.On("FindByLink", mock.Anything, link.ID).Return(events, nil)
	clickRepo.On("FindRecent", mock.Anything, link.ID, 10).Return(events, nil)

	handler := NewAnalyticsHandler(services.NewAnalyticsService(linkRepo, clickRepo))
	router := setupAnalyticsRouter(handler, "owner-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/analytics/"+link.ID.Hex(), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var summary services.AnalyticsSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 3, summary.TotalClicks)
	assert.Equal(t, map[string]int{"spotify": 2, "youtube": 1}, summary.ClicksByPlatform)
	assert.Equal(t, map[string]int{"2026-03-01": 1, "2026-03-02": 2}, summary.ClicksByDate)
	assert.Len(t, summary.RecentClicks, 3)
}

func TestGetSummaryNotOwner(t *testing.T) {
	link := testutil.NewLinkBuilder().WithOwner("owner-1").Build()

	linkRepo := new(testutil.MockLinkRepository)
	clickRepo := new(testutil.MockClickRepository)
	linkRepo.On("FindByID", mock.Anything, link.ID.Hex()).Return(link, nil)

	handler := NewAnalyticsHandler(services.NewAnalyticsService(linkRepo, clickRepo))
	router := setupAnalyticsRouter(handler, "someone-else")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/analytics/"+link.ID.Hex(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
