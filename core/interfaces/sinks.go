// ABOUTME: Persistence sink contracts for tabular and image offer data
// ABOUTME: Implementations cover local files, sqlite and a remote object store

package interfaces

import (
	"context"

	"otodom-scraper/core/domain"
)

// TabularSink persists the typed record of one offer. Commit must be
// idempotent: committing the same listing identity twice overwrites
// deterministically and never duplicates.
type TabularSink interface {
	// Commit durably writes the typed record for the listing identity.
	Commit(ctx context.Context, urlExtension string, record domain.TypedRecord) error

	// Load returns the previously committed record for the listing
	// identity. Returns a NotFoundError when nothing was committed, or
	// another error when an artifact exists but cannot be read back.
	Load(ctx context.Context, urlExtension string) (domain.TypedRecord, error)

	// Remove deletes any committed artifact for the listing identity.
	// Removing a non-existent artifact is not an error.
	Remove(ctx context.Context, urlExtension string) error
}

// ImageSink persists the fetched offer images, keyed by the image URL
// they were fetched from. Commit must be idempotent per listing identity.
type ImageSink interface {
	// Commit durably writes all images for the listing identity.
	Commit(ctx context.Context, urlExtension string, images map[string][]byte) error

	// Exists reports whether at least one image was committed for the
	// listing identity.
	Exists(ctx context.Context, urlExtension string) (bool, error)

	// Remove deletes any committed images for the listing identity.
	// Removing a non-existent artifact is not an error.
	Remove(ctx context.Context, urlExtension string) error
}
