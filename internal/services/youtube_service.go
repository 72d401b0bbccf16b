package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// youtubeService implements PlatformService for YouTube
type youtubeService struct {
	client *resty.Client
	apiKey string
}

const youtubeAPIURL = "https://www.googleapis.com/youtube/v3"

// NewYoutubeService creates a new YouTube service
func NewYoutubeService(apiKey string) PlatformService {
	client := resty.New().
		SetTimeout(10 * time.Second)

	return &youtubeService{
		client: client,
		apiKey: apiKey,
	}
}

// GetPlatformName returns the platform name
func (s *youtubeService) GetPlatformName() string {
	return PlatformYoutube
}

// ParseURL extracts the video ID from watch, shorts and youtu.be URLs
func (s *youtubeService) ParseURL(rawURL string) (string, error) {
	candidate := rawURL
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}

	u, err := url.Parse(candidate)
	if err == nil {
		host := strings.ToLower(u.Hostname())

		switch {
		case host == "youtu.be":
			if id := strings.Trim(u.Path, "/"); id != "" {
				return id, nil
			}
		case host == "youtube.com" || strings.HasSuffix(host, ".youtube.com"):
			if id := u.Query().Get("v"); id != "" {
				return id, nil
			}
			// Shorts carry the ID in the path instead of a query param.
			if rest, ok := strings.CutPrefix(strings.Trim(u.Path, "/"), "shorts/"); ok && rest != "" {
				return rest, nil
			}
		}
	}

	return "", &PlatformError{
		Platform:  PlatformYoutube,
		Operation: "parse_url",
		Message:   "no video ID in URL",
		URL:       rawURL,
		Err:       ErrInvalidURL,
	}
}

// GetTrackByID fetches video details from the YouTube Data API
func (s *youtubeService) GetTrackByID(ctx context.Context, trackID string) (*TrackInfo, error) {
	var videoResult youtubeVideoResult
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"part": "snippet",
			"id":   trackID,
			"key":  s.apiKey,
		}).
		SetResult(&videoResult).
		Get(fmt.Sprintf("%s/videos", youtubeAPIURL))

	if err != nil {
		return nil, &PlatformError{
			Platform:  PlatformYoutube,
			Operation: "get_track",
			Message:   "request failed",
			Err:       err,
		}
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &PlatformError{
			Platform:  PlatformYoutube,
			Operation: "get_track",
			Message:   fmt.Sprintf("API returned status %d", resp.StatusCode()),
		}
	}

	if len(videoResult.Items) == 0 {
		return nil, &PlatformError{
			Platform:  PlatformYoutube,
			Operation: "get_track",
			Message:   "video " + trackID + " not found",
			Err:       ErrTrackNotFound,
		}
	}

	item := videoResult.Items[0]
	return s.convertVideo(item.ID, &item.Snippet), nil
}

// SearchTrack finds the best match for an artist/title pair
func (s *youtubeService) SearchTrack(ctx context.Context, artist, title string) (*TrackInfo, error) {
	var searchResult youtubeSearchResult
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"part":       "snippet",
			"q":          artist + " " + title,
			"type":       "video",
			"maxResults": "1",
			"key":        s.apiKey,
		}).
		SetResult(&searchResult).
		Get(fmt.Sprintf("%s/search", youtubeAPIURL))

	if err != nil {
		return nil, &PlatformError{
			Platform:  PlatformYoutube,
			Operation: "search",
			Message:   "request failed",
			Err:       err,
		}
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &PlatformError{
			Platform:  PlatformYoutube,
			Operation: "search",
			Message:   fmt.Sprintf("API returned status %d", resp.StatusCode()),
		}
	}

	if len(searchResult.Items) == 0 {
		return nil, &PlatformError{
			Platform:  PlatformYoutube,
			Operation: "search",
			Message:   fmt.Sprintf("no results for %s - %s", artist, title),
			Err:       ErrTrackNotFound,
		}
	}

	item := searchResult.Items[0]
	return s.convertVideo(item.ID.VideoID, &item.Snippet), nil
}

// BuildURL constructs the canonical YouTube URL from a video ID
func (s *youtubeService) BuildURL(trackID string) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", trackID)
}

// Health checks YouTube API reachability with a minimal search
func (s *youtubeService) Health(ctx context.Context) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"part":       "snippet",
			"q":          "test",
			"type":       "video",
			"maxResults": "1",
			"key":        s.apiKey,
		}).
		Get(fmt.Sprintf("%s/search", youtubeAPIURL))

	if err != nil {
		return &PlatformError{
			Platform:  PlatformYoutube,
			Operation: "health",
			Message:   "request failed",
			Err:       err,
		}
	}

	if resp.StatusCode() != http.StatusOK {
		return &PlatformError{
			Platform:  PlatformYoutube,
			Operation: "health",
			Message:   fmt.Sprintf("API returned status %d", resp.StatusCode()),
		}
	}

	return nil
}

// convertVideo converts a YouTube snippet to TrackInfo. Music videos are
// usually titled "Artist - Title"; when that shape is present, split it,
// otherwise treat the channel as the artist.
func (s *youtubeService) convertVideo(videoID string, snippet *youtubeSnippet) *TrackInfo {
	title := snippet.Title
	artist := snippet.ChannelTitle

	if before, after, found := strings.Cut(snippet.Title, " - "); found {
		artist = strings.TrimSpace(before)
		title = strings.TrimSpace(after)
	}

	var coverArt string
	switch {
	case snippet.Thumbnails.High.URL != "":
		coverArt = snippet.Thumbnails.High.URL
	case snippet.Thumbnails.Medium.URL != "":
		coverArt = snippet.Thumbnails.Medium.URL
	default:
		coverArt = snippet.Thumbnails.Default.URL
	}

	return &TrackInfo{
		Platform:   PlatformYoutube,
		ExternalID: videoID,
		URL:        s.BuildURL(videoID),
		Title:      title,
		Artist:     artist,
		CoverArt:   coverArt,
	}
}

// YouTube API response structures
type youtubeVideoResult struct {
	Items []youtubeVideoItem `json:"items"`
}

type youtubeVideoItem struct {
	ID      string         `json:"id"`
	Snippet youtubeSnippet `json:"snippet"`
}

type youtubeSearchResult struct {
	Items []youtubeSearchItem `json:"items"`
}

type youtubeSearchItem struct {
	ID      youtubeSearchID `json:"id"`
	Snippet youtubeSnippet  `json:"snippet"`
}

type youtubeSearchID struct {
	VideoID string `json:"videoId"`
}

type youtubeSnippet struct {
	Title        string            `json:"title"`
	ChannelTitle string            `json:"channelTitle"`
	Thumbnails   youtubeThumbnails `json:"thumbnails"`
}

type youtubeThumbnails struct {
	Default youtubeThumbnail `json:"default"`
	Medium  youtubeThumbnail `json:"medium"`
	High    youtubeThumbnail `json:"high"`
}

type youtubeThumbnail struct {
	URL string `json:"url"`
}
