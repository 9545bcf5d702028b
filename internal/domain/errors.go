package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrRecordNotFound indicates the requested library record does not exist
	ErrRecordNotFound = errors.New("library record not found")

	// ErrNotAnArray indicates an import payload that is not a JSON array
	ErrNotAnArray = errors.New("import payload is not an array")

	// ErrInvalidRating indicates a user rating outside the 0-10 range
	ErrInvalidRating = errors.New("rating must be between 0 and 10")

	// ErrInvalidStatus indicates an unknown lifecycle status
	ErrInvalidStatus = errors.New("unknown status")

	// ErrNotInBacklog indicates a planned date on a record that is not in the backlog
	ErrNotInBacklog = errors.New("planned date requires backlog status")

	// ErrEpisodeNotFound indicates a season/episode pair a series does not have
	ErrEpisodeNotFound = errors.New("episode not found")

	// ErrCatalogUnavailable indicates the external catalog is unreachable
	ErrCatalogUnavailable = errors.New("catalog is unreachable")
)
