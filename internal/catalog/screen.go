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
	"time"

	"github.com/mmartin/mediashelf/internal/domain"
)

const (
	defaultTimeout = 15 * time.Second
	maxRetries     = 3
	baseRetryDelay = 500 * time.Millisecond

	// Provider availability is region-scoped; a single region keeps the
	// cached structure small.
	providerRegion = "US"
)

// ScreenClient talks to the film/series catalog. It implements
// domain.SearchClient (screen scope), domain.ProviderClient and
// domain.SeriesClient.
type ScreenClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewScreenClient creates a new film/series catalog client.
func NewScreenClient(baseURL, apiKey string, logger *slog.Logger) *ScreenClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScreenClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// doRequest performs an authenticated GET against the catalog API.
// Includes retry logic with exponential backoff for 5xx server errors.
func (c *ScreenClient) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt > 0 {
			delay := baseRetryDelay * time.Duration(1<<(attempt-1)) // 500ms, 1s, 2s
			c.logger.Debug("retrying catalog request", "attempt", attempt, "delay", delay, "path", path)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Error("catalog request failed", "path", path, "error", err)
			return nil, domain.ErrCatalogUnavailable
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode >= 500 && resp.StatusCode < 600 {
			lastErr = fmt.Errorf("catalog server error: %d", resp.StatusCode)
			c.logger.Warn("catalog server error, will retry",
				"status", resp.StatusCode, "attempt", attempt, "path", path)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("catalog error: %d - %s", resp.StatusCode, string(body))
		}

		return body, nil
	}

	return nil, lastErr
}

// Search queries films and series and merges both result pages into one
// normalized list. The scope argument is accepted for interface
// symmetry; a ScreenClient only ever searches the screen catalog.
func (c *ScreenClient) Search(ctx context.Context, query string, _ domain.SearchScope) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	q := url.Values{}
	q.Set("query", query)

	var results []domain.SearchResult

	movieBody, err := c.doRequest(ctx, "/search/movie", q)
	if err != nil {
		return nil, err
	}
	var movies screenSearchPage
	if err := json.Unmarshal(movieBody, &movies); err != nil {
		return nil, fmt.Errorf("parse movie search: %w", err)
	}
	for _, r := range movies.Results {
		results = append(results, r.toResult(domain.MediaTypeFilm))
	}

	q = url.Values{}
	q.Set("query", query)
	tvBody, err := c.doRequest(ctx, "/search/tv", q)
	if err != nil {
		return nil, err
	}
	var shows screenSearchPage
	if err := json.Unmarshal(tvBody, &shows); err != nil {
		return nil, fmt.Errorf("parse tv search: %w", err)
	}
	for _, r := range shows.Results {
		results = append(results, r.toResult(domain.MediaTypeSeries))
	}

	c.logger.Debug("screen search complete", "query", query, "results", len(results))
	return results, nil
}

// Providers returns where-to-watch availability for one catalog entry.
func (c *ScreenClient) Providers(ctx context.Context, screenID int64, mediaType domain.MediaType) (*domain.ProviderAvailability, error) {
	kind := "movie"
	if mediaType == domain.MediaTypeSeries {
		kind = "tv"
	}

	body, err := c.doRequest(ctx, fmt.Sprintf("/%s/%d/watch/providers", kind, screenID), nil)
	if err != nil {
		return nil, err
	}

	var page providerPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("parse providers: %w", err)
	}

	region, ok := page.Results[providerRegion]
	if !ok {
		return &domain.ProviderAvailability{}, nil
	}
	return &domain.ProviderAvailability{
		Link:   region.Link,
		Stream: mapProviders(region.Flatrate),
		Rent:   mapProviders(region.Rent),
		Buy:    mapProviders(region.Buy),
	}, nil
}

// Seasons returns the season summaries for a series.
func (c *ScreenClient) Seasons(ctx context.Context, screenID int64) ([]domain.Season, error) {
	body, err := c.doRequest(ctx, "/tv/"+strconv.FormatInt(screenID, 10), nil)
	if err != nil {
		return nil, err
	}

	var detail seriesDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("parse series detail: %w", err)
	}

	seasons := make([]domain.Season, 0, len(detail.Seasons))
	for _, s := range detail.Seasons {
		seasons = append(seasons, domain.Season{
			Number:       s.SeasonNumber,
			Name:         s.Name,
			EpisodeCount: s.EpisodeCount,
		})
	}
	return seasons, nil
}

// Episodes returns the episode listing for one season of a series.
func (c *ScreenClient) Episodes(ctx context.Context, screenID int64, seasonNumber int) ([]domain.Episode, error) {
	path := fmt.Sprintf("/tv/%d/season/%d", screenID, seasonNumber)
	body, err := c.doRequest(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var detail seasonDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("parse season detail: %w", err)
	}

	episodes := make([]domain.Episode, 0, len(detail.Episodes))
	for _, e := range detail.Episodes {
		episodes = append(episodes, domain.Episode{
			Number: e.EpisodeNumber,
			Name:   e.Name,
		})
	}
	return episodes, nil
}
