package repositories

import "errors"

// Sentinel errors surfaced to handlers. The unique indexes in Mongo are the
// authority for the uniqueness invariants; duplicate-key write failures are
// translated to these rather than trusting any pre-check.
var (
	// ErrNotFound covers both a missing record and an ownership mismatch,
	// so existence is never leaked to non-owners.
	ErrNotFound = errors.New("record not found")

	// ErrSlugTaken signals a slug uniqueness conflict on create or update.
	ErrSlugTaken = errors.New("slug already taken")

	// ErrNoPlatforms rejects creating a link with an empty platform map.
	ErrNoPlatforms = errors.New("link requires at least one platform URL")

	// ErrEmailTaken signals a duplicate registration email.
	ErrEmailTaken = errors.New("email already registered")
)
