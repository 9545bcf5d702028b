package library

import (
	"sort"

	"github.com/mmartin/mediashelf/internal/domain"
)

// View selects which slice of the collection a screen shows.
type View string

const (
	// ViewLibrary shows every record regardless of status.
	ViewLibrary View = "library"
	// ViewBacklog shows only backlog records.
	ViewBacklog View = "backlog"
)

// AllFilter is the wildcard value for the media-type and genre filters.
const AllFilter = "All"

// Filter is the active filter state a view is derived under.
type Filter struct {
	View  View
	Type  domain.MediaType // empty or "all" means all types
	Genre string           // empty or "All" means all genres
}

func (f Filter) wantsType(t domain.MediaType) bool {
	return f.Type == "" || string(f.Type) == "all" || f.Type == t
}

func (f Filter) wantsGenre(rec domain.Record) bool {
	return f.Genre == "" || f.Genre == AllFilter || rec.HasGenre(f.Genre)
}

func inView(rec domain.Record, v View) bool {
	return v != ViewBacklog || rec.Status == domain.StatusBacklog
}

// FilterRecords derives the visible subset for a filter state: narrowed
// by view, then media type, then genre, sorted most recently added
// first. Pure; the input is never mutated.
func FilterRecords(recs []domain.Record, f Filter) []domain.Record {
	out := make([]domain.Record, 0, len(recs))
	for _, rec := range recs {
		if inView(rec, f.View) && f.wantsType(rec.Type) && f.wantsGenre(rec) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AddedAt != out[j].AddedAt {
			return out[i].AddedAt > out[j].AddedAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// GenreOptions returns the distinct genres visible in a view, sorted
// ascending, with the wildcard option prepended.
func GenreOptions(recs []domain.Record, v View) []string {
	seen := make(map[string]bool)
	for _, rec := range recs {
		if !inView(rec, v) {
			continue
		}
		for _, g := range rec.Genres {
			seen[g] = true
		}
	}

	genres := make([]string, 0, len(seen)+1)
	for g := range seen {
		genres = append(genres, g)
	}
	sort.Strings(genres)
	return append([]string{AllFilter}, genres...)
}

// NextUp picks the single best backlog candidate in a category:
// the earliest planned date wins, a dated candidate outranks an undated
// one, and among undated candidates the oldest-added (FIFO) wins. The
// record ID is the final tiebreak so the pick is deterministic.
func NextUp(recs []domain.Record, category domain.Category) (domain.Record, bool) {
	var best domain.Record
	found := false
	for _, rec := range recs {
		if rec.Status != domain.StatusBacklog || rec.Type.Category() != category {
			continue
		}
		if !found || ranksAbove(rec, best) {
			best = rec
			found = true
		}
	}
	return best, found
}

// ranksAbove reports whether a should be surfaced before b. Planned
// dates are YYYY-MM-DD, so plain string comparison orders them.
func ranksAbove(a, b domain.Record) bool {
	switch {
	case a.PlannedDate != "" && b.PlannedDate != "":
		if a.PlannedDate != b.PlannedDate {
			return a.PlannedDate < b.PlannedDate
		}
	case a.PlannedDate != "":
		return true
	case b.PlannedDate != "":
		return false
	}
	if a.AddedAt != b.AddedAt {
		return a.AddedAt < b.AddedAt
	}
	return a.ID < b.ID
}
