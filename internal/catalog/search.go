package catalog

import (
	"context"

	"github.com/mmartin/mediashelf/internal/domain"
)

// Searcher routes a search to the catalog matching the requested scope.
// It is itself a domain.SearchClient, so callers hold one client for
// every media type.
type Searcher struct {
	screen domain.SearchClient
	book   domain.SearchClient
}

// NewSearcher creates a search router over the two catalog clients.
func NewSearcher(screen, book domain.SearchClient) *Searcher {
	return &Searcher{screen: screen, book: book}
}

// Search dispatches on scope: book queries go to the book catalog,
// everything else to the film/series catalog.
func (s *Searcher) Search(ctx context.Context, query string, scope domain.SearchScope) ([]domain.SearchResult, error) {
	if scope == domain.ScopeBook {
		return s.book.Search(ctx, query, scope)
	}
	return s.screen.Search(ctx, query, scope)
}
