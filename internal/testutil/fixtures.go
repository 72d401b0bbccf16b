package testutil

import (
	"time"

	"tunelink/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LinkBuilder provides a fluent interface for creating test links
type LinkBuilder struct {
	link *models.Link
}

// NewLinkBuilder creates a new link builder with default values
func NewLinkBuilder() *LinkBuilder {
	link := models.NewLink("owner-1", "Test Track", "Test Artist", "test-artist-test-track")
	link.ID = primitive.NewObjectID()
	return &LinkBuilder{link: link}
}

// WithID sets the link ID from a hex string
func (b *LinkBuilder) WithID(id string) *LinkBuilder {
	objID, _ := primitive.ObjectIDFromHex(id)
	b.link.ID = objID
	return b
}

// WithOwner sets the owner ID
func (b *LinkBuilder) WithOwner(ownerID string) *LinkBuilder {
	b.link.OwnerID = ownerID
	return b
}

// WithTitle sets the title
func (b *LinkBuilder) WithTitle(title string) *LinkBuilder {
	b.link.Title = title
	return b
}

// WithArtist sets the artist
func (b *LinkBuilder) WithArtist(artist string) *LinkBuilder {
	b.link.Artist = artist
	return b
}

// WithSlug sets the slug
func (b *LinkBuilder) WithSlug(slug string) *LinkBuilder {
	b.link.Slug = slug
	return b
}

// WithPlatform adds a platform URL
func (b *LinkBuilder) WithPlatform(platform, url string) *LinkBuilder {
	b.link.Platforms[platform] = url
	return b
}

// Build returns the constructed link
func (b *LinkBuilder) Build() *models.Link {
	return b.link
}

// NewTestClick creates a click event for a link at a given time
func NewTestClick(linkID primitive.ObjectID, platform string, at time.Time) *models.ClickEvent {
	return &models.ClickEvent{
		ID:        primitive.NewObjectID(),
		LinkID:    linkID,
		Platform:  platform,
		CreatedAt: at,
	}
}
