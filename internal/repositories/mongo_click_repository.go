package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tunelink/internal/models"
)

// mongoClickRepository implements ClickRepository using MongoDB
type mongoClickRepository struct {
	collection *mongo.Collection
}

// NewMongoClickRepository creates a new MongoDB-backed click repository
func NewMongoClickRepository(db *models.Database) ClickRepository {
	return &mongoClickRepository{
		collection: db.DB.Collection(models.ClickEventsCollection),
	}
}

// Insert appends one click event. No deduplication: every call is one row.
func (r *mongoClickRepository) Insert(ctx context.Context, event *models.ClickEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to insert click event: %w", err)
	}
	event.ID = result.InsertedID.(primitive.ObjectID)

	return nil
}

// FindByLink returns the full click history for a link
func (r *mongoClickRepository) FindByLink(ctx context.Context, linkID primitive.ObjectID) ([]*models.ClickEvent, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"link_id": linkID})
	if err != nil {
		return nil, fmt.Errorf("failed to find click events: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeClickEvents(ctx, cursor)
}

// FindRecent returns the newest events first, capped at limit
func (r *mongoClickRepository) FindRecent(ctx context.Context, linkID primitive.ObjectID, limit int) ([]*models.ClickEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"link_id": linkID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find recent click events: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeClickEvents(ctx, cursor)
}

// DeleteByLink removes all events for a link (cascade path)
func (r *mongoClickRepository) DeleteByLink(ctx context.Context, linkID primitive.ObjectID) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"link_id": linkID}); err != nil {
		return fmt.Errorf("failed to delete click events: %w", err)
	}
	return nil
}

func decodeClickEvents(ctx context.Context, cursor *mongo.Cursor) ([]*models.ClickEvent, error) {
	events := make([]*models.ClickEvent, 0)
	for cursor.Next(ctx) {
		var event models.ClickEvent
		if err := cursor.Decode(&event); err != nil {
			slog.Error("Failed to decode click event", "error", err)
			continue
		}
		events = append(events, &event)
	}
	return events, cursor.Err()
}
