package domain

import "fmt"

// MediaType distinguishes the kinds of tracked media.
type MediaType string

const (
	MediaTypeFilm   MediaType = "film"
	MediaTypeSeries MediaType = "series"
	MediaTypeBook   MediaType = "book"
)

// Category groups media types that share a "next up" queue.
type Category string

const (
	CategoryScreen Category = "screen" // films and series
	CategoryBook   Category = "book"
)

// Category returns the next-up grouping for the media type.
func (t MediaType) Category() Category {
	if t == MediaTypeBook {
		return CategoryBook
	}
	return CategoryScreen
}

// Status is the lifecycle state of a tracked record.
type Status string

const (
	StatusBacklog   Status = "backlog"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusBacklog, StatusCompleted, StatusAbandoned:
		return true
	}
	return false
}

// RefKind identifies which external catalog an ExternalRef points into.
type RefKind string

const (
	RefNone   RefKind = ""       // manual entry, no catalog reference
	RefScreen RefKind = "screen" // film/series catalog, numeric identifiers
	RefBook   RefKind = "book"   // book catalog, string identifiers
)

// ExternalRef is a tagged reference to an external catalog entry.
// It is the natural key for duplicate detection on the add-from-search path.
// A record holds at most one variant, assigned once at construction.
type ExternalRef struct {
	Kind     RefKind `json:"kind,omitempty"`
	ScreenID int64   `json:"screenId,omitempty"`
	BookID   string  `json:"bookId,omitempty"`
}

// ScreenRef returns a reference into the film/series catalog.
func ScreenRef(id int64) ExternalRef { return ExternalRef{Kind: RefScreen, ScreenID: id} }

// BookRef returns a reference into the book catalog.
func BookRef(id string) ExternalRef { return ExternalRef{Kind: RefBook, BookID: id} }

// IsZero reports whether the reference is absent (manual entry).
func (r ExternalRef) IsZero() bool { return r.Kind == RefNone }

// Equal reports variant-and-value equality. An absent reference
// never matches anything, including another absent reference.
func (r ExternalRef) Equal(o ExternalRef) bool {
	if r.Kind == RefNone || r.Kind != o.Kind {
		return false
	}
	switch r.Kind {
	case RefScreen:
		return r.ScreenID == o.ScreenID
	case RefBook:
		return r.BookID == o.BookID
	}
	return false
}

// String returns a short display form, e.g. "screen:603" or "book:OL27448W".
func (r ExternalRef) String() string {
	switch r.Kind {
	case RefScreen:
		return fmt.Sprintf("screen:%d", r.ScreenID)
	case RefBook:
		return "book:" + r.BookID
	}
	return "none"
}

// Provider is a single where-to-watch offering.
type Provider struct {
	Name     string `json:"name"`
	LogoPath string `json:"logoPath,omitempty"`
}

// ProviderAvailability is the cached where-to-watch data for a record.
// Fetched lazily once and persisted so it is never re-fetched.
type ProviderAvailability struct {
	Link   string     `json:"link,omitempty"`
	Stream []Provider `json:"stream,omitempty"`
	Rent   []Provider `json:"rent,omitempty"`
	Buy    []Provider `json:"buy,omitempty"`
}

// Episode is a single episode with the user's watched flag.
type Episode struct {
	Number  int    `json:"number"`
	Name    string `json:"name,omitempty"`
	Watched bool   `json:"watched"`
}

// Season summarizes one season of a series. Episodes is populated
// lazily on first expansion and persisted with the record.
type Season struct {
	Number       int       `json:"number"`
	Name         string    `json:"name,omitempty"`
	EpisodeCount int       `json:"episodeCount"`
	Episodes     []Episode `json:"episodes,omitempty"`
}

// Record is the persisted unit representing one tracked film, series or book.
type Record struct {
	ID          string      `json:"id"`
	Ref         ExternalRef `json:"ref,omitzero"`
	Title       string      `json:"title"`
	Year        string      `json:"year,omitempty"` // display string, not necessarily numeric
	Genres      []string    `json:"genres,omitempty"`
	Description string      `json:"description,omitempty"`
	Creator     string      `json:"creator,omitempty"` // director or author
	Type        MediaType   `json:"mediaType"`
	Status      Status      `json:"status"`

	Rating int    `json:"rating"` // 0-10, 0 means unrated
	Notes  string `json:"notes,omitempty"`

	// PosterRef is either an absolute image URL or a path relative to the
	// catalog's image base. When empty, a fallback image is derived from
	// PosterSeed, which is drawn once at creation and stable thereafter.
	PosterRef  string `json:"poster,omitempty"`
	PosterSeed int    `json:"posterSeed"`

	AddedAt       int64   `json:"addedAt"` // epoch milliseconds, immutable
	CatalogRating float64 `json:"catalogRating,omitempty"`
	PageCount     int     `json:"pageCount,omitempty"`   // books only
	PlannedDate   string  `json:"plannedDate,omitempty"` // YYYY-MM-DD, backlog only

	Providers *ProviderAvailability `json:"providers,omitempty"`
	Seasons   []Season              `json:"seasons,omitempty"` // series only
}

const (
	posterImageBase   = "https://image.tmdb.org/t/p/w500"
	posterFallbackFmt = "https://picsum.photos/seed/%d/400/600"
)

// PosterURL resolves the poster reference to a fetchable URL,
// falling back to a deterministic seeded image when no poster is set.
func (r Record) PosterURL() string {
	switch {
	case r.PosterRef == "":
		return fmt.Sprintf(posterFallbackFmt, r.PosterSeed)
	case len(r.PosterRef) >= 4 && r.PosterRef[:4] == "http":
		return r.PosterRef
	default:
		return posterImageBase + r.PosterRef
	}
}

// HasGenre reports whether the record carries the exact genre string.
func (r Record) HasGenre(genre string) bool {
	for _, g := range r.Genres {
		if g == genre {
			return true
		}
	}
	return false
}

// Rated reports whether the user has rated the record.
// A rating of 0 means unrated, not "rated zero".
func (r Record) Rated() bool { return r.Rating > 0 }

// SearchResult is the normalized output of a catalog search. It is
// ephemeral: never persisted directly, always turned into a Record on add.
type SearchResult struct {
	Ref           ExternalRef
	Title         string
	Year          string
	Genres        []string
	Description   string
	Creator       string
	Type          MediaType
	PosterRef     string
	CatalogRating float64
	PageCount     int
}
