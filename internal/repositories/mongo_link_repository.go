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

// mongoLinkRepository implements LinkRepository using MongoDB
type mongoLinkRepository struct {
	links     *mongo.Collection
	platforms *mongo.Collection
	clicks    *mongo.Collection
}

// NewMongoLinkRepository creates a new MongoDB-backed link repository
func NewMongoLinkRepository(db *models.Database) LinkRepository {
	return &mongoLinkRepository{
		links:     db.DB.Collection(models.LinksCollection),
		platforms: db.DB.Collection(models.PlatformLinksCollection),
		clicks:    db.DB.Collection(models.ClickEventsCollection),
	}
}

// Create inserts the link document first, then one platform row per entry.
// The two writes are not transactional: if the platform insert fails the
// link stays without platform rows, which readers must tolerate.
func (r *mongoLinkRepository) Create(ctx context.Context, link *models.Link, platforms map[string]string) error {
	if len(platforms) == 0 {
		return ErrNoPlatforms
	}

	now := time.Now()
	link.CreatedAt = now
	link.UpdatedAt = now

	result, err := r.links.InsertOne(ctx, link)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("failed to insert link: %w", err)
	}
	link.ID = result.InsertedID.(primitive.ObjectID)

	rows := make([]interface{}, 0, len(platforms))
	for platform, url := range platforms {
		rows = append(rows, models.PlatformLink{
			LinkID:   link.ID,
			Platform: platform,
			URL:      url,
		})
	}

	if _, err := r.platforms.InsertMany(ctx, rows); err != nil {
		// Tolerated partial failure: the link exists without platform rows.
		slog.Error("Failed to insert platform links, keeping link without platforms",
			"linkID", link.ID.Hex(),
			"slug", link.Slug,
			"error", err)
		link.Platforms = make(map[string]string)
		return nil
	}

	link.Platforms = platforms
	return nil
}

// FindBySlug finds a link by its slug, with platform rows attached
func (r *mongoLinkRepository) FindBySlug(ctx context.Context, slug string) (*models.Link, error) {
	var link models.Link
	err := r.links.FindOne(ctx, bson.M{"slug": slug}).Decode(&link)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find link by slug: %w", err)
	}

	if err := r.attachPlatforms(ctx, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// FindByID finds a link by its ObjectID hex, with platform rows attached
func (r *mongoLinkRepository) FindByID(ctx context.Context, id string) (*models.Link, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil // Malformed id cannot reference a link
	}

	var link models.Link
	err = r.links.FindOne(ctx, bson.M{"_id": objectID}).Decode(&link)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find link by ID: %w", err)
	}

	if err := r.attachPlatforms(ctx, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// ListByOwner returns the owner's links newest first
func (r *mongoLinkRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Link, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.links.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list links by owner: %w", err)
	}
	defer cursor.Close(ctx)

	links := make([]*models.Link, 0)
	ids := make([]primitive.ObjectID, 0)
	for cursor.Next(ctx) {
		var link models.Link
		if err := cursor.Decode(&link); err != nil {
			slog.Error("Failed to decode link", "error", err)
			continue
		}
		link.Platforms = make(map[string]string)
		links = append(links, &link)
		ids = append(ids, link.ID)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return links, nil
	}

	// One query for all platform rows, distributed to their links.
	platformCursor, err := r.platforms.Find(ctx, bson.M{"link_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to load platform links: %w", err)
	}
	defer platformCursor.Close(ctx)

	byLink := make(map[primitive.ObjectID][]models.PlatformLink)
	for platformCursor.Next(ctx) {
		var row models.PlatformLink
		if err := platformCursor.Decode(&row); err != nil {
			slog.Error("Failed to decode platform link", "error", err)
			continue
		}
		byLink[row.LinkID] = append(byLink[row.LinkID], row)
	}
	if err := platformCursor.Err(); err != nil {
		return nil, err
	}

	for _, link := range links {
		link.AttachPlatforms(byLink[link.ID])
	}

	return links, nil
}

// Update edits title, artist and slug under an ownership check. The unique
// slug index remains the authority: a concurrent writer that slips past the
// pre-check still surfaces as ErrSlugTaken via the duplicate-key error.
func (r *mongoLinkRepository) Update(ctx context.Context, id, ownerID, title, artist, slug string) (*models.Link, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	// Slug uniqueness pre-check, excluding the link being updated.
	count, err := r.links.CountDocuments(ctx, bson.M{
		"slug": slug,
		"_id":  bson.M{"$ne": objectID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check slug uniqueness: %w", err)
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}

	update := bson.M{"$set": bson.M{
		"title":      title,
		"artist":     artist,
		"slug":       slug,
		"updated_at": time.Now(),
	}}

	result, err := r.links.UpdateOne(ctx, bson.M{"_id": objectID, "owner_id": ownerID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to update link: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, ErrNotFound
	}

	return r.FindByID(ctx, id)
}

// Delete removes the link and cascades to platform rows and click events
func (r *mongoLinkRepository) Delete(ctx context.Context, id, ownerID string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := r.links.DeleteOne(ctx, bson.M{"_id": objectID, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	if _, err := r.platforms.DeleteMany(ctx, bson.M{"link_id": objectID}); err != nil {
		return fmt.Errorf("failed to delete platform links: %w", err)
	}
	if _, err := r.clicks.DeleteMany(ctx, bson.M{"link_id": objectID}); err != nil {
		return fmt.Errorf("failed to delete click events: %w", err)
	}

	return nil
}

// attachPlatforms loads the platform rows for a single link
func (r *mongoLinkRepository) attachPlatforms(ctx context.Context, link *models.Link) error {
	cursor, err := r.platforms.Find(ctx, bson.M{"link_id": link.ID})
	if err != nil {
		return fmt.Errorf("failed to load platform links: %w", err)
	}
	defer cursor.Close(ctx)

	link.Platforms = make(map[string]string)
	for cursor.Next(ctx) {
		var row models.PlatformLink
		if err := cursor.Decode(&row); err != nil {
			slog.Error("Failed to decode platform link", "error", err)
			continue
		}
		link.Platforms[row.Platform] = row.URL
	}

	return cursor.Err()
}
