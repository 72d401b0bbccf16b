package repositories

import (
	"context"

	"tunelink/internal/models"
)

// LinkRepository defines the interface for link data operations. Find
// methods return (nil, nil) when no record matches; mutations return
// ErrNotFound so ownership mismatches read the same as absence.
type LinkRepository interface {
	// Create persists the link and then its platform rows. A duplicate slug
	// is reported as ErrSlugTaken; an empty platform map as ErrNoPlatforms.
	// A platform-row insert failure after the link insert is tolerated: the
	// link survives without platform rows.
	Create(ctx context.Context, link *models.Link, platforms map[string]string) error

	FindBySlug(ctx context.Context, slug string) (*models.Link, error)
	FindByID(ctx context.Context, id string) (*models.Link, error)

	// ListByOwner returns the owner's links newest first, platforms attached.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Link, error)

	// Update edits title/artist/slug. Slug uniqueness is checked against all
	// other links; conflicts return ErrSlugTaken and change nothing.
	Update(ctx context.Context, id, ownerID, title, artist, slug string) (*models.Link, error)

	// Delete removes the link and cascades to its platform rows and click
	// events.
	Delete(ctx context.Context, id, ownerID string) error
}
