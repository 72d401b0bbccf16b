package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Link is a shareable landing-page record mapping one track to its
// per-platform URLs, addressed by a unique slug.
type Link struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID  string             `bson:"owner_id" json:"owner_id"`
	Title    string             `bson:"title" json:"title"`
	Artist   string             `bson:"artist" json:"artist"`
	CoverArt string             `bson:"cover_art,omitempty" json:"cover_art,omitempty"`
	Slug     string             `bson:"slug" json:"slug"`
	ISRC     string             `bson:"isrc,omitempty" json:"isrc,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`

	// Populated from the platform_links collection on reads; never written
	// as part of the link document itself.
	Platforms map[string]string `bson:"-" json:"platforms"`
}

// PlatformLink is one platform's canonical URL for a link. Exactly one row
// per (link, platform) pair.
type PlatformLink struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LinkID   primitive.ObjectID `bson:"link_id" json:"link_id"`
	Platform string             `bson:"platform" json:"platform"`
	URL      string             `bson:"url" json:"url"`
}

// ClickEvent records a visitor choosing a platform from a link's landing
// page. Immutable once written; deleted only when its link is deleted.
type ClickEvent struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LinkID    primitive.ObjectID `bson:"link_id" json:"link_id"`
	Platform  string             `bson:"platform" json:"platform"`
	Referrer  string             `bson:"referrer,omitempty" json:"referrer,omitempty"`
	UTM       UTMParams          `bson:"utm,omitempty" json:"utm,omitempty"`
	UserAgent string             `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	IP        string             `bson:"ip,omitempty" json:"ip,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// UTMParams carries campaign attribution forwarded from the landing page.
type UTMParams struct {
	Source   string `bson:"source,omitempty" json:"utm_source,omitempty"`
	Medium   string `bson:"medium,omitempty" json:"utm_medium,omitempty"`
	Campaign string `bson:"campaign,omitempty" json:"utm_campaign,omitempty"`
	Term     string `bson:"term,omitempty" json:"utm_term,omitempty"`
	Content  string `bson:"content,omitempty" json:"utm_content,omitempty"`
}

// User owns zero or more links.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// NewLink creates a link with timestamps set and an empty platform map.
func NewLink(ownerID, title, artist, slug string) *Link {
	now := time.Now()
	return &Link{
		OwnerID:   ownerID,
		Title:     title,
		Artist:    artist,
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
		Platforms: make(map[string]string),
	}
}

// HasPlatform reports whether the link carries a URL for the given platform.
func (l *Link) HasPlatform(platform string) bool {
	_, ok := l.Platforms[platform]
	return ok
}

// AttachPlatforms populates the read-side platform map from platform rows.
func (l *Link) AttachPlatforms(rows []PlatformLink) {
	if l.Platforms == nil {
		l.Platforms = make(map[string]string, len(rows))
	}
	for _, row := range rows {
		if row.LinkID == l.ID {
			l.Platforms[row.Platform] = row.URL
		}
	}
}

// NewClickEvent creates an immutable click record stamped with the current
// time.
func NewClickEvent(linkID primitive.ObjectID, platform, referrer string, utm UTMParams, userAgent, ip string) *ClickEvent {
	return &ClickEvent{
		LinkID:    linkID,
		Platform:  platform,
		Referrer:  referrer,
		UTM:       utm,
		UserAgent: userAgent,
		IP:        ip,
		CreatedAt: time.Now(),
	}
}
