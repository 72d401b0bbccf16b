package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tunelink/internal/auth"
	"tunelink/internal/models"
	"tunelink/internal/repositories"
	"tunelink/internal/services"
	"tunelink/internal/testutil"
)

func setAuthenticatedUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(auth.UserIDKey, userID)
		c.Next()
	}
}

func setupLinkRouter(handler *LinkHandler, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/links/:slug", handler.GetLink)

	authed := router.Group("/api", setAuthenticatedUser(userID))
	authed.POST("/links", handler.CreateLink)
	authed.GET("/links", handler.ListLinks)
	authed.PUT("/links/:id", handler.UpdateLink)
	authed.DELETE("/links/:id", handler.DeleteLink)
	return router
}

func newTestResolver(platforms ...*testutil.MockPlatformService) *services.TrackResolutionService {
	resolver := services.NewTrackResolutionService()
	for _, p := range platforms {
		resolver.RegisterPlatform(p)
	}
	return resolver
}

func TestCreateLinkFromURL(t *testing.T) {
	spotify := testutil.NewMockPlatformService(services.PlatformSpotify)
	spotify.On("ParseURL", "https://open.spotify.com/track/abc").Return("abc", nil)
	spotify.On("GetTrackByID", mock.Anything, "abc").Return(&services.TrackInfo{
		Platform: services.PlatformSpotify,
		URL:      "https://open.spotify.com/track/abc",
		Title:    "One More Time",
		Artist:   "Daft Punk",
	}, nil)

	linkRepo := new(testutil.MockLinkRepository)
	linkRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Link"), map[string]string{
		services.PlatformSpotify: "https://open.spotify.com/track/abc",
	}).Return(nil)

	handler := NewLinkHandler(newTestResolver(spotify), linkRepo)
	router := setupLinkRouter(handler, "owner-1")

	body, _ := json.Marshal(CreateLinkRequest{URL: "https://open.spotify.com/track/abc"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/links", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Link
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "daft-punk-one-more-time", created.Slug)
	assert.Equal(t, "owner-1", created.OwnerID)

	linkRepo.AssertExpectations(t)
}

func TestCreateLinkRequiresURLOrQuery(t *testing.T) {
	handler := NewLinkHandler(newTestResolver(), new(testutil.MockLinkRepository))
	router := setupLinkRouter(handler, "owner-1")

	body, _ := json.Marshal(CreateLinkRequest{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/links", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateLinkUnsupportedURL(t *testing.T) {
	handler := NewLinkHandler(newTestResolver(), new(testutil.MockLinkRepository))
	router := setupLinkRouter(handler, "owner-1")

	body, _ := json.Marshal(CreateLinkRequest{URL: "https://soundcloud.com/x/y"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/links", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateLinkSlugConflict(t *testing.T) {
	spotify := testutil.NewMockPlatformService(services.PlatformSpotify)
	spotify.On("ParseURL", mock.Anything).Return("abc", nil)
	spotify.On("GetTrackByID", mock.Anything, "abc").Return(&services.TrackInfo{
		Platform: services.PlatformSpotify,
		URL:      "https://open.spotify.com/track/abc",
		Title:    "One More Time",
		Artist:   "Daft Punk",
	}, nil)

	linkRepo := new(testutil.MockLinkRepository)
	linkRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(repositories.ErrSlugTaken)

	handler := NewLinkHandler(newTestResolver(spotify), linkRepo)
	router := setupLinkRouter(handler, "owner-1")

	body, _ := json.Marshal(CreateLinkRequest{URL: "https://open.spotify.com/track/abc"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/links", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "slug")
}

func TestCreateLinkByQueryTrackNotFound(t *testing.T) {
	spotify := testutil.NewMockPlatformService(services.PlatformSpotify)
	spotify.On("SearchTrack", mock.Anything, "Nobody", "Nothing").Return(nil, &services.PlatformError{
		Platform:  services.PlatformSpotify,
		Operation: "search",
		Err:       services.ErrTrackNotFound,
	})

	handler := NewLinkHandler(newTestResolver(spotify), new(testutil.MockLinkRepository))
	router := setupLinkRouter(handler, "owner-1")

	body, _ := json.Marshal(CreateLinkRequest{Artist: "Nobody", Title: "Nothing"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/links", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetLinkBySlug(t *testing.T) {
	link := testutil.NewLinkBuilder().
		WithSlug("daft-punk-one-more-time").
		WithPlatform("spotify", "https://open.spotify.com/track/abc").
		Build()

	linkRepo := new(testutil.MockLinkRepository)
	linkRepo.On("FindBySlug", mock.Anything, "daft-punk-one-more-time").Return(link, nil)

	handler := NewLinkHandler(newTestResolver(), linkRepo)
	router := setupLinkRouter(handler, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/links/daft-punk-one-more-time", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got models.Link
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "https://open.spotify.com/track/abc", got.Platforms["spotify"])
}

func TestGetLinkNotFound(t *testing.T) {
	linkRepo := new(testutil.MockLinkRepository)
	linkRepo.On("FindBySlug", mock.Anything, "no-such-slug").Return(nil, nil)

	handler := NewLinkHandler(newTestResolver(), linkRepo)
	router := setupLinkRouter(handler, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/links/no-such-slug", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListLinks(t *testing.T) {
	links := []*models.Link{
		testutil.NewLinkBuilder().WithOwner("owner-1").WithSlug("b-slug").Build(),
		testutil.NewLinkBuilder().WithOwner("owner-1").WithSlug("a-slug").Build(),
	}

	linkRepo := new(testutil.MockLinkRepository)
	linkRepo.On("ListByOwner", mock.Anything, "owner-1").Return(links, nil)

	handler := NewLinkHandler(newTestResolver(), linkRepo)
	router := setupLinkRouter(handler, "owner-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/links", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":2`)
}

func TestUpdateLinkSlugConflict(t *testing.T) {
	linkRepo := new(testutil.MockLinkRepository)
	linkRepo.On("Update", mock.Anything, "abc123", "owner-1", "Title", "Artist", "taken-slug").
		Return(nil, repositories.ErrSlugTaken)

	handler := NewLinkHandler(newTestResolver(), linkRepo)
	router := setupLinkRouter(handler, "owner-1")

	body, _ := json.Marshal(UpdateLinkRequest{Title: "Title", Artist: "Artist", Slug: "taken-slug"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/links/abc123", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateLinkNotOwned(t *testing.T) {
	linkRepo := new(testutil.MockLinkRepository)
	linkRepo.On("Update", mock.Anything, "abc123", "owner-2", "Title", "Artist", "slug").
		Return(nil, repositories.ErrNotFound)

	handler := NewLinkHandler(newTestResolver(), linkRepo)
	router := setupLinkRouter(handler, "owner-2")

	body, _ := json.Marshal(UpdateLinkRequest{Title: "Title", Artist: "Artist", Slug: "slug"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/links/abc123", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteLink(t *testing.T) {
	linkRepo := new(testutil.MockLinkRepository)
	linkRepo.On("Delete", mock.Anything, "abc123", "owner-1").Return(nil)

	handler := NewLinkHandler(newTestResolver(), linkRepo)
	router := setupLinkRouter(handler, "owner-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/links/abc123", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	linkRepo.AssertExpectations(t)
}

func TestDeleteLinkNotFound(t *testing.T) {
	linkRepo := new(testutil.MockLinkRepository)
	linkRepo.On("Delete", mock.Anything, "missing", "owner-1").Return(repositories.ErrNotFound)

	handler := NewLinkHandler(newTestResolver(), linkRepo)
	router := setupLinkRouter(handler, "owner-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/links/missing", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
