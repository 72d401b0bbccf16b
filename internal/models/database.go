package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used across the repositories.
const (
	LinksCollection         = "links"
	PlatformLinksCollection = "platform_links"
	ClickEventsCollection   = "click_events"
	UsersCollection         = "users"
)

// Database represents the database connection
type Database struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// NewDatabase creates a new database connection
func NewDatabase(ctx context.Context, mongoURL, dbName string) (*Database, error) {
	clientOptions := options.Client().
		ApplyURI(mongoURL).
		SetMaxPoolSize(20).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(30 * time.Second).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Ping the database to verify connection
	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &Database{
		Client: client,
		DB:     client.Database(dbName),
	}, nil
}

// Close closes the database connection
func (d *Database) Close(ctx context.Context) error {
	return d.Client.Disconnect(ctx)
}

// Health verifies the connection is alive.
func (d *Database) Health(ctx context.Context) error {
	return d.Client.Ping(ctx, nil)
}

// CreateIndexes creates the indexes the invariants depend on. The unique
// indexes are the authority for slug and (link, platform) uniqueness;
// repository pre-checks only exist to give friendlier errors.
func (d *Database) CreateIndexes(ctx context.Context) error {
	linkIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
	}
	if _, err := d.DB.Collection(LinksCollection).Indexes().CreateMany(ctx, linkIndexes); err != nil {
		return err
	}

	platformIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "link_id", Value: 1}, {Key: "platform", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := d.DB.Collection(PlatformLinksCollection).Indexes().CreateMany(ctx, platformIndexes); err != nil {
		return err
	}

	clickIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "link_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
	}
	if _, err := d.DB.Collection(ClickEventsCollection).Indexes().CreateMany(ctx, clickIndexes); err != nil {
		return err
	}

	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := d.DB.Collection(UsersCollection).Indexes().CreateMany(ctx, userIndexes)
	return err
}
