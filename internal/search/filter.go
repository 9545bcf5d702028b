package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	sahilm "github.com/sahilm/fuzzy"

	"github.com/mmartin/mediashelf/internal/domain"
)

// Result is one matched library record with match metadata for
// highlighting.
type Result struct {
	Record         domain.Record
	MatchedIndexes []int // character positions in the lowercase title
	Score          int   // higher is better
}

// Index is a prebuilt lowercase title index over library records.
// It implements sahilm/fuzzy.Source so matching allocates nothing per
// query.
type Index struct {
	records     []domain.Record
	lowerTitles []string
}

// String returns the lowercase title at i (implements fuzzy.Source).
func (idx *Index) String(i int) string { return idx.lowerTitles[i] }

// Len returns the number of indexed records (implements fuzzy.Source).
func (idx *Index) Len() int { return len(idx.records) }

// NewIndex builds a filter index over the given records.
func NewIndex(recs []domain.Record) *Index {
	idx := &Index{
		records:     recs,
		lowerTitles: make([]string, len(recs)),
	}
	for i, rec := range recs {
		idx.lowerTitles[i] = strings.ToLower(rec.Title)
	}
	return idx
}

// Filter matches the query against the indexed titles. Subsequence
// matches rank first; when nothing matches that way, a Levenshtein
// ranking pass catches close misspellings.
func (idx *Index) Filter(query string) []Result {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || idx.Len() == 0 {
		return nil
	}

	matches := sahilm.FindFrom(query, idx)
	if len(matches) > 0 {
		results := make([]Result, len(matches))
		for i, m := range matches {
			results[i] = Result{
				Record:         idx.records[m.Index],
				MatchedIndexes: m.MatchedIndexes,
				Score:          m.Score,
			}
		}
		return results
	}

	return idx.rankedFallback(query)
}

// rankedFallback tolerates typos the subsequence matcher rejects.
func (idx *Index) rankedFallback(query string) []Result {
	ranks := fuzzy.RankFindFold(query, idx.lowerTitles)
	sort.Sort(ranks)

	var results []Result
	for _, r := range ranks {
		results = append(results, Result{
			Record: idx.records[r.OriginalIndex],
			Score:  -r.Distance,
		})
	}
	return results
}
