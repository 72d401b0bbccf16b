package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

// Platform names used across the service.
const (
	PlatformSpotify = "spotify"
	PlatformYoutube = "youtube"
)

// Resolution failure kinds. PlatformError wraps these so callers can
// classify with errors.Is without caring which backend failed.
var (
	// ErrUnsupportedPlatform means the URL's host belongs to no known
	// platform.
	ErrUnsupportedPlatform = errors.New("unsupported platform URL")

	// ErrInvalidURL means the host was recognized but no track identifier
	// could be extracted.
	ErrInvalidURL = errors.New("invalid platform URL")

	// ErrTrackNotFound means no backend could produce the track.
	ErrTrackNotFound = errors.New("track not found")
)

// PlatformService defines the interface for music platform integrations
type PlatformService interface {
	// GetPlatformName returns the name of this platform
	GetPlatformName() string

	// ParseURL extracts the platform-native track identifier from a URL
	ParseURL(url string) (string, error)

	// GetTrackByID fetches track information using the platform-specific ID
	GetTrackByID(ctx context.Context, trackID string) (*TrackInfo, error)

	// SearchTrack finds the best match for an artist/title pair
	SearchTrack(ctx context.Context, artist, title string) (*TrackInfo, error)

	// BuildURL constructs the canonical platform URL from a track ID
	BuildURL(trackID string) string

	// Health checks if the platform service is reachable
	Health(ctx context.Context) error
}

// TrackInfo represents track information from a single platform
type TrackInfo struct {
	Platform   string `json:"platform"`
	ExternalID string `json:"external_id"`
	URL        string `json:"url"`

	Title    string `json:"title"`
	Artist   string `json:"artist"`
	CoverArt string `json:"cover_art,omitempty"`
	ISRC     string `json:"isrc,omitempty"`
}

// TrackMetadata is the resolver's merged output: one track, any number of
// platform URLs. Platforms always carries at least one entry.
type TrackMetadata struct {
	Title     string            `json:"title"`
	Artist    string            `json:"artist"`
	CoverArt  string            `json:"cover_art,omitempty"`
	ISRC      string            `json:"isrc,omitempty"`
	Platforms map[string]string `json:"platforms"`
}

// DetectPlatform maps a URL's host to a platform name. Extraction of the
// track identifier is left to the platform service; a recognized host with
// a bad path fails later with ErrInvalidURL, not here.
func DetectPlatform(rawURL string) (string, error) {
	host := hostOf(rawURL)

	switch {
	case host == "spotify.com" || strings.HasSuffix(host, ".spotify.com"):
		return PlatformSpotify, nil
	case host == "youtube.com" || strings.HasSuffix(host, ".youtube.com") || host == "youtu.be":
		return PlatformYoutube, nil
	}

	return "", &PlatformError{
		Platform:  "unknown",
		Operation: "detect",
		Message:   "no platform matches host " + host,
		URL:       rawURL,
		Err:       ErrUnsupportedPlatform,
	}
}

// hostOf extracts the lower-cased host, tolerating scheme-less input.
func hostOf(rawURL string) string {
	candidate := rawURL
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}

	u, err := url.Parse(candidate)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// PlatformError represents an error from a platform service
type PlatformError struct {
	Platform  string
	Operation string
	Message   string
	URL       string
	Err       error
}

func (e *PlatformError) Error() string {
	msg := e.Platform + " " + e.Operation + " failed"
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.URL != "" {
		msg += " (URL: " + e.URL + ")"
	}
	if e.Err != nil {
		msg += " - " + e.Err.Error()
	}
	return msg
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}
