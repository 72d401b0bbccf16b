package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2/clientcredentials"
)

// spotifyService implements PlatformService for Spotify
type spotifyService struct {
	client      *resty.Client
	tokenSource *clientcredentials.Config
	accessToken string
	tokenExpiry time.Time
	mu          sync.RWMutex
}

// Spotify API endpoints
const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyAPIURL   = "https://api.spotify.com/v1"
)

// spotifyTrackPattern captures the track ID from open.spotify.com URLs.
var spotifyTrackPattern = regexp.MustCompile(`(?:https?://)?(?:open\.|www\.)?spotify\.com/(?:intl-[a-z]{2}/)?track/([a-zA-Z0-9]+)`)

// NewSpotifyService creates a new Spotify service
func NewSpotifyService(clientID, clientSecret string) PlatformService {
	tokenSource := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyTokenURL,
	}

	client := resty.New().
		SetTimeout(10 * time.Second)

	return &spotifyService{
		client:      client,
		tokenSource: tokenSource,
	}
}

// GetPlatformName returns the platform name
func (s *spotifyService) GetPlatformName() string {
	return PlatformSpotify
}

// ParseURL extracts the track ID from a Spotify URL
func (s *spotifyService) ParseURL(url string) (string, error) {
	matches := spotifyTrackPattern.FindStringSubmatch(url)
	if len(matches) < 2 {
		return "", &PlatformError{
			Platform:  PlatformSpotify,
			Operation: "parse_url",
			Message:   "no track segment in URL",
			URL:       url,
			Err:       ErrInvalidURL,
		}
	}

	return matches[1], nil
}

// GetTrackByID fetches track details from the Spotify API
func (s *spotifyService) GetTrackByID(ctx context.Context, trackID string) (*TrackInfo, error) {
	token, err := s.ensureValidToken(ctx)
	if err != nil {
		return nil, err
	}

	var spotifyTrack spotifyTrack
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&spotifyTrack).
		Get(fmt.Sprintf("%s/tracks/%s", spotifyAPIURL, trackID))

	if err != nil {
		return nil, &PlatformError{
			Platform:  PlatformSpotify,
			Operation: "get_track",
			Message:   "request failed",
			Err:       err,
		}
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, &PlatformError{
			Platform:  PlatformSpotify,
			Operation: "get_track",
			Message:   "track " + trackID + " not found",
			Err:       ErrTrackNotFound,
		}
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &PlatformError{
			Platform:  PlatformSpotify,
			Operation: "get_track",
			Message:   fmt.Sprintf("API returned status %d", resp.StatusCode()),
		}
	}

	return s.convertTrack(&spotifyTrack), nil
}

// SearchTrack finds the best match for an artist/title pair
func (s *spotifyService) SearchTrack(ctx context.Context, artist, title string) (*TrackInfo, error) {
	token, err := s.ensureValidToken(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("track:%q artist:%q", title, artist)

	var searchResult spotifySearchResult
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParams(map[string]string{
			"q":     query,
			"type":  "track",
			"limit": "1",
		}).
		SetResult(&searchResult).
		Get(fmt.Sprintf("%s/search", spotifyAPIURL))

	if err != nil {
		return nil, &PlatformError{
			Platform:  PlatformSpotify,
			Operation: "search",
			Message:   "request failed",
			Err:       err,
		}
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &PlatformError{
			Platform:  PlatformSpotify,
			Operation: "search",
			Message:   fmt.Sprintf("API returned status %d", resp.StatusCode()),
		}
	}

	if len(searchResult.Tracks.Items) == 0 {
		return nil, &PlatformError{
			Platform:  PlatformSpotify,
			Operation: "search",
			Message:   fmt.Sprintf("no results for %s - %s", artist, title),
			Err:       ErrTrackNotFound,
		}
	}

	return s.convertTrack(&searchResult.Tracks.Items[0]), nil
}

// BuildURL constructs the canonical Spotify URL from a track ID
func (s *spotifyService) BuildURL(trackID string) string {
	return fmt.Sprintf("https://open.spotify.com/track/%s", trackID)
}

// Health checks Spotify API health by ensuring a token can be obtained
func (s *spotifyService) Health(ctx context.Context) error {
	_, err := s.ensureValidToken(ctx)
	return err
}

// ensureValidToken returns a cached access token or fetches a fresh one
func (s *spotifyService) ensureValidToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	if s.accessToken != "" && time.Now().Before(s.tokenExpiry) {
		token := s.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock
	if s.accessToken != "" && time.Now().Before(s.tokenExpiry) {
		return s.accessToken, nil
	}

	token, err := s.tokenSource.Token(ctx)
	if err != nil {
		return "", &PlatformError{
			Platform:  PlatformSpotify,
			Operation: "auth",
			Message:   "failed to get access token",
			Err:       err,
		}
	}

	s.accessToken = token.AccessToken
	s.tokenExpiry = token.Expiry

	slog.Info("Spotify access token refreshed", "expires_at", token.Expiry)

	return s.accessToken, nil
}

// convertTrack converts a Spotify API response to TrackInfo
func (s *spotifyService) convertTrack(track *spotifyTrack) *TrackInfo {
	artist := ""
	if len(track.Artists) > 0 {
		artist = track.Artists[0].Name
		for _, a := range track.Artists[1:] {
			artist += ", " + a.Name
		}
	}

	// Prefer a medium-sized cover, fall back to the first one.
	var coverArt string
	if len(track.Album.Images) > 0 {
		coverArt = track.Album.Images[0].URL
		for _, img := range track.Album.Images {
			if img.Width >= 300 && img.Width <= 640 {
				coverArt = img.URL
				break
			}
		}
	}

	return &TrackInfo{
		Platform:   PlatformSpotify,
		ExternalID: track.ID,
		URL:        s.BuildURL(track.ID),
		Title:      track.Name,
		Artist:     artist,
		CoverArt:   coverArt,
		ISRC:       track.ExternalIDs.ISRC,
	}
}

// Spotify API response structures
type spotifyTrack struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Artists     []spotifyArtist    `json:"artists"`
	Album       spotifyAlbum       `json:"album"`
	ExternalIDs spotifyExternalIDs `json:"external_ids"`
}

type spotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotifyAlbum struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []spotifyImage `json:"images"`
}

type spotifyImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type spotifyExternalIDs struct {
	ISRC string `json:"isrc"`
}

type spotifySearchResult struct {
	Tracks spotifyTracksPaging `json:"tracks"`
}

type spotifyTracksPaging struct {
	Items []spotifyTrack `json:"items"`
	Total int            `json:"total"`
}
