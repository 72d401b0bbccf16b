package repositories_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tunelink/internal/cache"
	"tunelink/internal/models"
	"tunelink/internal/repositories"
	"tunelink/internal/testutil"
)

func TestCachedFindBySlugCachesHits(t *testing.T) {
	ctx := context.Background()
	link := testutil.NewLinkBuilder().WithSlug("daft-punk-one-more-time").Build()

	inner := new(testutil.MockLinkRepository)
	inner.On("FindBySlug", mock.Anything, "daft-punk-one-more-time").Return(link, nil).Once()

	repo := repositories.NewCachedLinkRepository(inner, cache.NewMemoryCache(10))

	first, err := repo.FindBySlug(ctx, "daft-punk-one-more-time")
	require.NoError(t, err)
	assert.Equal(t, link.Slug, first.Slug)

	// Second read is served from cache; the inner repository is not hit again.
	second, err := repo.FindBySlug(ctx, "daft-punk-one-more-time")
	require.NoError(t, err)
	assert.Equal(t, link.Slug, second.Slug)

	inner.AssertExpectations(t)
}

func TestCachedFindBySlugCachesMisses(t *testing.T) {
	ctx := context.Background()

	inner := new(testutil.MockLinkRepository)
	inner.On("FindBySlug", mock.Anything, "no-such-slug").Return(nil, nil).Once()

	repo := repositories.NewCachedLinkRepository(inner, cache.NewMemoryCache(10))

	first, err := repo.FindBySlug(ctx, "no-such-slug")
	require.NoError(t, err)
	assert.Nil(t, first)

	// The negative entry short-circuits the second lookup too.
	second, err := repo.FindBySlug(ctx, "no-such-slug")
	require.NoError(t, err)
	assert.Nil(t, second)

	inner.AssertExpectations(t)
}

func TestCachedCreateInvalidatesNegativeEntry(t *testing.T) {
	ctx := context.Background()
	link := testutil.NewLinkBuilder().WithSlug("fresh-slug").Build()

	inner := new(testutil.MockLinkRepository)
	inner.On("FindBySlug", mock.Anything, "fresh-slug").Return(nil, nil).Once()
	inner.On("Create", mock.Anything, link, mock.Anything).Return(nil)

	repo := repositories.NewCachedLinkRepository(inner, cache.NewMemoryCache(10))

	// Miss gets negatively cached.
	_, err := repo.FindBySlug(ctx, "fresh-slug")
	require.NoError(t, err)

	// Create drops the negative entry so the next read reaches the store.
	require.NoError(t, repo.Create(ctx, link, map[string]string{"spotify": "https://open.spotify.com/track/x"}))

	inner.On("FindBySlug", mock.Anything, "fresh-slug").Return(link, nil).Once()
	found, err := repo.FindBySlug(ctx, "fresh-slug")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "fresh-slug", found.Slug)

	inner.AssertExpectations(t)
}

func TestCachedUpdateInvalidatesOldSlug(t *testing.T) {
	ctx := context.Background()
	link := testutil.NewLinkBuilder().WithSlug("old-slug").Build()

	inner := new(testutil.MockLinkRepository)
	inner.On("FindBySlug", mock.Anything, "old-slug").Return(link, nil).Once()

	memCache := cache.NewMemoryCache(10)
	repo := repositories.NewCachedLinkRepository(inner, memCache)

	// Warm the cache with the old slug.
	_, err := repo.FindBySlug(ctx, "old-slug")
	require.NoError(t, err)

	updated := testutil.NewLinkBuilder().WithID(link.ID.Hex()).WithSlug("new-slug").Build()
	inner.On("FindByID", mock.Anything, link.ID.Hex()).Return(link, nil)
	inner.On("Update", mock.Anything, link.ID.Hex(), link.OwnerID, "New Title", "New Artist", "new-slug").
		Return(updated, nil)

	_, err = repo.Update(ctx, link.ID.Hex(), link.OwnerID, "New Title", "New Artist", "new-slug")
	require.NoError(t, err)

	// Old slug entry is gone; the read goes back to the store.
	inner.On("FindBySlug", mock.Anything, "old-slug").Return(nil, nil).Once()
	found, err := repo.FindBySlug(ctx, "old-slug")
	require.NoError(t, err)
	assert.Nil(t, found)

	inner.AssertExpectations(t)
}

func TestCachedDeleteInvalidates(t *testing.T) {
	ctx := context.Background()
	link := testutil.NewLinkBuilder().WithSlug("doomed-slug").Build()

	inner := new(testutil.MockLinkRepository)
	inner.On("FindBySlug", mock.Anything, "doomed-slug").Return(link, nil).Once()

	repo := repositories.NewCachedLinkRepository(inner, cache.NewMemoryCache(10))

	_, err := repo.FindBySlug(ctx, "doomed-slug")
	require.NoError(t, err)

	inner.On("FindByID", mock.Anything, link.ID.Hex()).Return(link, nil)
	inner.On("Delete", mock.Anything, link.ID.Hex(), link.OwnerID).Return(nil)
	require.NoError(t, repo.Delete(ctx, link.ID.Hex(), link.OwnerID))

	inner.On("FindBySlug", mock.Anything, "doomed-slug").Return(nil, nil).Once()
	found, err := repo.FindBySlug(ctx, "doomed-slug")
	require.NoError(t, err)
	assert.Nil(t, found)

	inner.AssertExpectations(t)
}

func TestCachedListByOwnerPassesThrough(t *testing.T) {
	ctx := context.Background()
	link := testutil.NewLinkBuilder().WithOwner("owner-1").Build()

	inner := new(testutil.MockLinkRepository)
	inner.On("ListByOwner", mock.Anything, "owner-1").Return([]*models.Link{link}, nil).Twice()

	repo := repositories.NewCachedLinkRepository(inner, cache.NewMemoryCache(10))

	// Dashboard reads are never cached; both calls reach the store.
	for i := 0; i < 2; i++ {
		links, err := repo.ListByOwner(ctx, "owner-1")
		require.NoError(t, err)
		assert.Len(t, links, 1)
	}

	inner.AssertExpectations(t)
}
