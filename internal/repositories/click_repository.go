package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tunelink/internal/models"
)

// ClickRepository is the append-only store for click events. Events are
// never updated; they are removed only by the cascade when their link is
// deleted.
type ClickRepository interface {
	Insert(ctx context.Context, event *models.ClickEvent) error

	// FindByLink returns the full event history for a link.
	FindByLink(ctx context.Context, linkID primitive.ObjectID) ([]*models.ClickEvent, error)

	// FindRecent returns the newest events first, capped at limit.
	FindRecent(ctx context.Context, linkID primitive.ObjectID, limit int) ([]*models.ClickEvent, error)

	DeleteByLink(ctx context.Context, linkID primitive.ObjectID) error
}
