package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mmartin/mediashelf/internal/domain"
)

// Books are limited to a handful of subjects so a single result does
// not flood the genre filter.
const maxBookGenres = 4

// BookClient talks to the book catalog. Identifiers there are strings
// (work keys), which is what distinguishes book references from screen
// references in the library.
type BookClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewBookClient creates a new book catalog client.
func NewBookClient(baseURL string, logger *slog.Logger) *BookClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// Search queries the book catalog and normalizes each work into a
// SearchResult carrying a book reference.
func (c *BookClient) Search(ctx context.Context, query string, _ domain.SearchScope) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", "20")
	reqURL := fmt.Sprintf("%s/search.json?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("book catalog request failed", "error", err)
		return nil, domain.ErrCatalogUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("book catalog error: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var page bookSearchPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("parse book search: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(page.Docs))
	for _, doc := range page.Docs {
		results = append(results, c.toResult(doc))
	}

	c.logger.Debug("book search complete", "query", query, "results", len(results))
	return results, nil
}

func (c *BookClient) toResult(doc bookDoc) domain.SearchResult {
	id := strings.TrimPrefix(doc.Key, "/works/")

	year := ""
	if doc.FirstPublishYear > 0 {
		year = strconv.Itoa(doc.FirstPublishYear)
	}

	creator := ""
	if len(doc.AuthorName) > 0 {
		creator = doc.AuthorName[0]
	}

	genres := doc.Subject
	if len(genres) > maxBookGenres {
		genres = genres[:maxBookGenres]
	}

	poster := ""
	if doc.CoverID > 0 {
		poster = fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-M.jpg", doc.CoverID)
	}

	return domain.SearchResult{
		Ref:           domain.BookRef(id),
		Title:         doc.Title,
		Year:          year,
		Genres:        genres,
		Creator:       creator,
		Type:          domain.MediaTypeBook,
		PosterRef:     poster,
		CatalogRating: doc.RatingsAverage,
		PageCount:     doc.PageCount,
	}
}
