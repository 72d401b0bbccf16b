package services

import (
	"context"
	"log/slog"
)

// TrackResolutionService resolves a user-submitted URL or artist/title pair
// into merged track metadata spanning every registered platform.
type TrackResolutionService struct {
	platformServices map[string]PlatformService
}

// NewTrackResolutionService creates a new track resolution service
func NewTrackResolutionService() *TrackResolutionService {
	return &TrackResolutionService{
		platformServices: make(map[string]PlatformService),
	}
}

// RegisterPlatform registers a platform service
func (s *TrackResolutionService) RegisterPlatform(service PlatformService) {
	s.platformServices[service.GetPlatformName()] = service
}

// GetPlatformService returns a specific platform service
func (s *TrackResolutionService) GetPlatformService(platform string) (PlatformService, bool) {
	service, exists := s.platformServices[platform]
	return service, exists
}

// ResolveFromURL resolves track metadata from a platform URL. The submitted
// URL's platform is authoritative for that platform's entry; the remaining
// platforms are filled in by searching with the resolved artist and title.
func (s *TrackResolutionService) ResolveFromURL(ctx context.Context, rawURL string) (*TrackMetadata, error) {
	platform, err := DetectPlatform(rawURL)
	if err != nil {
		return nil, err
	}

	service, exists := s.platformServices[platform]
	if !exists {
		return nil, &PlatformError{
			Platform:  platform,
			Operation: "resolve",
			Message:   "platform not configured",
			URL:       rawURL,
			Err:       ErrUnsupportedPlatform,
		}
	}

	trackID, err := service.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}

	track, err := service.GetTrackByID(ctx, trackID)
	if err != nil {
		return nil, err
	}

	metadata := &TrackMetadata{
		Title:    track.Title,
		Artist:   track.Artist,
		CoverArt: track.CoverArt,
		ISRC:     track.ISRC,
		Platforms: map[string]string{
			track.Platform: track.URL,
		},
	}

	// Cross-resolve the other platforms. Failures here only narrow the
	// platform map, never fail the resolution.
	for _, other := range s.searchAll(ctx, track.Artist, track.Title, platform) {
		metadata.Platforms[other.Platform] = other.URL
	}

	return metadata, nil
}

// ResolveByQuery resolves track metadata by searching every registered
// platform concurrently. Partial failure is tolerated; only when every
// platform fails does the resolution fail.
func (s *TrackResolutionService) ResolveByQuery(ctx context.Context, artist, title string) (*TrackMetadata, error) {
	results := s.searchAll(ctx, artist, title, "")
	if len(results) == 0 {
		return nil, &PlatformError{
			Platform:  "all",
			Operation: "resolve",
			Message:   "no platform returned a match for " + artist + " - " + title,
			Err:       ErrTrackNotFound,
		}
	}

	return mergeTrackResults(results), nil
}

// searchAll fans a search out to every registered platform except skip and
// collects the successful results. Order of the returned slice is not
// deterministic; mergeTrackResults imposes precedence.
func (s *TrackResolutionService) searchAll(ctx context.Context, artist, title, skip string) []*TrackInfo {
	type outcome struct {
		track *TrackInfo
		err   error
	}

	pending := 0
	outcomes := make(chan outcome, len(s.platformServices))
	for name, service := range s.platformServices {
		if name == skip {
			continue
		}
		pending++
		go func(service PlatformService) {
			track, err := service.SearchTrack(ctx, artist, title)
			outcomes <- outcome{track: track, err: err}
		}(service)
	}

	results := make([]*TrackInfo, 0, pending)
	for i := 0; i < pending; i++ {
		o := <-outcomes
		if o.err != nil {
			slog.Warn("Platform search failed",
				"artist", artist,
				"title", title,
				"error", o.err)
			continue
		}
		results = append(results, o.track)
	}

	return results
}

// mergeTrackResults folds per-platform results into one TrackMetadata.
// Spotify metadata wins when present since its catalog data is the most
// reliable; the platform URL map keeps every platform's own URL.
func mergeTrackResults(results []*TrackInfo) *TrackMetadata {
	metadata := &TrackMetadata{
		Platforms: make(map[string]string, len(results)),
	}

	var primary *TrackInfo
	for _, track := range results {
		metadata.Platforms[track.Platform] = track.URL

		if primary == nil || (primary.Platform != PlatformSpotify && track.Platform == PlatformSpotify) {
			primary = track
		}
	}

	if primary != nil {
		metadata.Title = primary.Title
		metadata.Artist = primary.Artist
		metadata.CoverArt = primary.CoverArt
		metadata.ISRC = primary.ISRC
	}

	return metadata
}

// Health reports per-platform health
func (s *TrackResolutionService) Health(ctx context.Context) map[string]error {
	health := make(map[string]error, len(s.platformServices))
	for name, service := range s.platformServices {
		health[name] = service.Health(ctx)
	}
	return health
}
