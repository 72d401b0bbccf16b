package repositories

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"tunelink/internal/cache"
	"tunelink/internal/models"
)

// cachedLinkRepository wraps a LinkRepository with caching on the hot
// landing-page lookup path (slug reads). Mutations invalidate eagerly.
type cachedLinkRepository struct {
	repository LinkRepository
	cache      cache.Cache
}

// NewCachedLinkRepository creates a new cached link repository
func NewCachedLinkRepository(repository LinkRepository, cache cache.Cache) LinkRepository {
	return &cachedLinkRepository{
		repository: repository,
		cache:      cache,
	}
}

func linkSlugKey(slug string) string { return "link:slug:" + slug }
func linkIDKey(id string) string     { return "link:id:" + id }

const (
	linkCacheTTL     = 10 * time.Minute
	negativeCacheTTL = 1 * time.Minute // For null results
)

// Create writes through and invalidates any negative entry for the slug
func (r *cachedLinkRepository) Create(ctx context.Context, link *models.Link, platforms map[string]string) error {
	if err := r.repository.Create(ctx, link, platforms); err != nil {
		return err
	}

	r.cache.Delete(ctx, linkSlugKey(link.Slug))
	return nil
}

// FindBySlug checks cache first, then repository
func (r *cachedLinkRepository) FindBySlug(ctx context.Context, slug string) (*models.Link, error) {
	cacheKey := linkSlugKey(slug)

	if cached, hit, err := r.getFromCache(ctx, cacheKey); err == nil && hit {
		return cached, nil
	}

	link, err := r.repository.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	// Cache the result, including misses (negative caching).
	r.cacheResult(ctx, cacheKey, link)

	return link, nil
}

// FindByID checks cache first, then repository
func (r *cachedLinkRepository) FindByID(ctx context.Context, id string) (*models.Link, error) {
	cacheKey := linkIDKey(id)

	if cached, hit, err := r.getFromCache(ctx, cacheKey); err == nil && hit {
		return cached, nil
	}

	link, err := r.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.cacheResult(ctx, cacheKey, link)

	return link, nil
}

// ListByOwner is not cached: it is a dashboard read and must reflect
// creations immediately.
func (r *cachedLinkRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Link, error) {
	return r.repository.ListByOwner(ctx, ownerID)
}

// Update invalidates both the old and the new slug entries
func (r *cachedLinkRepository) Update(ctx context.Context, id, ownerID, title, artist, slug string) (*models.Link, error) {
	old, _ := r.repository.FindByID(ctx, id)

	link, err := r.repository.Update(ctx, id, ownerID, title, artist, slug)
	if err != nil {
		return nil, err
	}

	if old != nil {
		r.cache.Delete(ctx, linkSlugKey(old.Slug))
	}
	r.cache.Delete(ctx, linkSlugKey(link.Slug))
	r.cache.Delete(ctx, linkIDKey(id))

	return link, nil
}

// Delete invalidates cache entries after the cascade
func (r *cachedLinkRepository) Delete(ctx context.Context, id, ownerID string) error {
	old, _ := r.repository.FindByID(ctx, id)

	if err := r.repository.Delete(ctx, id, ownerID); err != nil {
		return err
	}

	if old != nil {
		r.cache.Delete(ctx, linkSlugKey(old.Slug))
	}
	r.cache.Delete(ctx, linkIDKey(id))

	return nil
}

// getFromCache retrieves a link from cache. The second return value reports
// whether the key was present at all, so cached misses short-circuit too.
func (r *cachedLinkRepository) getFromCache(ctx context.Context, key string) (*models.Link, bool, error) {
	data, err := r.cache.Get(ctx, key)
	if err != nil || data == nil {
		return nil, false, err
	}

	// Negative cache marker.
	if string(data) == "null" {
		return nil, true, nil
	}

	var link models.Link
	if err := json.Unmarshal(data, &link); err != nil {
		slog.Error("Failed to unmarshal link from cache", "key", key, "error", err)
		r.cache.Delete(ctx, key)
		return nil, false, err
	}

	return &link, true, nil
}

// cacheResult caches a single link result
func (r *cachedLinkRepository) cacheResult(ctx context.Context, key string, link *models.Link) {
	var data []byte
	ttl := linkCacheTTL

	if link == nil {
		data = []byte("null")
		ttl = negativeCacheTTL
	} else {
		var err error
		data, err = json.Marshal(link)
		if err != nil {
			slog.Error("Failed to marshal link for cache", "key", key, "error", err)
			return
		}
	}

	if err := r.cache.Set(ctx, key, data, ttl); err != nil {
		slog.Error("Failed to cache link", "key", key, "error", err)
	}
}
