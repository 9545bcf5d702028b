package domain

import "context"

// RecordStore is the durable key-value table backing the library.
// Implementations guarantee that ReplaceAll and MigrateLegacy each run
// inside a single storage transaction.
type RecordStore interface {
	// MigrateLegacy performs the one-shot import of the pre-store flat
	// payload. No-op when no legacy data exists. Must run before the
	// first GetAll consumed by the application.
	MigrateLegacy() error

	// GetAll returns the full collection, order unspecified.
	GetAll() ([]Record, error)

	// Put upserts a record by ID.
	Put(rec Record) error

	// Delete removes a record if present. Absent IDs are not an error.
	Delete(id string) error

	// ReplaceAll clears the table and inserts every given record as one
	// logical operation.
	ReplaceAll(recs []Record) error

	Close() error
}

// SearchScope selects which catalog a search queries.
type SearchScope string

const (
	ScopeScreen SearchScope = "screen" // films and series
	ScopeBook   SearchScope = "book"
)

// SearchClient queries an external catalog for titles.
type SearchClient interface {
	Search(ctx context.Context, query string, scope SearchScope) ([]SearchResult, error)
}

// ProviderClient looks up where-to-watch availability for a screen
// catalog entry.
type ProviderClient interface {
	Providers(ctx context.Context, screenID int64, mediaType MediaType) (*ProviderAvailability, error)
}

// SeriesClient looks up season and episode listings for a series.
type SeriesClient interface {
	Seasons(ctx context.Context, screenID int64) ([]Season, error)
	Episodes(ctx context.Context, screenID int64, seasonNumber int) ([]Episode, error)
}
