package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mmartin/mediashelf/internal/domain"
	"github.com/mmartin/mediashelf/internal/log"
)

func newScreenServer(t *testing.T, handlers map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		body, ok := handlers[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestScreenSearchNormalizesResults(t *testing.T) {
	srv := newScreenServer(t, map[string]string{
		"/search/movie": `{"results":[
			{"id":603,"title":"The Matrix","release_date":"1999-03-31","overview":"A hacker learns the truth.","poster_path":"/matrix.jpg","genre_ids":[28,878],"vote_average":8.2}
		]}`,
		"/search/tv": `{"results":[
			{"id":1396,"name":"Breaking Bad","first_air_date":"2008-01-20","genre_ids":[18],"vote_average":8.9}
		]}`,
	})

	c := NewScreenClient(srv.URL, "test-key", log.NullLogger())
	results, err := c.Search(context.Background(), "matrix", domain.ScopeScreen)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected merged movie+tv results, got %d", len(results))
	}

	movie := results[0]
	if !movie.Ref.Equal(domain.ScreenRef(603)) {
		t.Fatalf("movie ref: %+v", movie.Ref)
	}
	if movie.Type != domain.MediaTypeFilm || movie.Year != "1999" {
		t.Fatalf("movie normalization: %+v", movie)
	}
	if len(movie.Genres) != 2 || movie.Genres[0] != "Action" {
		t.Fatalf("genre mapping: %v", movie.Genres)
	}
	if movie.CatalogRating != 8.2 {
		t.Fatalf("catalog rating: %v", movie.CatalogRating)
	}

	show := results[1]
	if show.Type != domain.MediaTypeSeries || show.Title != "Breaking Bad" || show.Year != "2008" {
		t.Fatalf("series normalization: %+v", show)
	}
}

func TestScreenSearchEmptyQuery(t *testing.T) {
	c := NewScreenClient("http://unused.invalid", "test-key", log.NullLogger())
	results, err := c.Search(context.Background(), "   ", domain.ScopeScreen)
	if err != nil || results != nil {
		t.Fatalf("blank query should short-circuit, got %v %v", results, err)
	}
}

func TestProvidersRegionMapping(t *testing.T) {
	srv := newScreenServer(t, map[string]string{
		"/movie/603/watch/providers": `{"results":{
			"US":{"link":"https://watch.example/603","flatrate":[{"provider_name":"StreamCo","logo_path":"/s.png"}],"rent":[{"provider_name":"RentCo"}]},
			"DE":{"link":"https://watch.example/de/603"}
		}}`,
	})

	c := NewScreenClient(srv.URL, "test-key", log.NullLogger())
	avail, err := c.Providers(context.Background(), 603, domain.MediaTypeFilm)
	if err != nil {
		t.Fatalf("providers: %v", err)
	}
	if avail.Link != "https://watch.example/603" {
		t.Fatalf("link: %q", avail.Link)
	}
	if len(avail.Stream) != 1 || avail.Stream[0].Name != "StreamCo" {
		t.Fatalf("stream providers: %+v", avail.Stream)
	}
	if len(avail.Rent) != 1 || len(avail.Buy) != 0 {
		t.Fatalf("rent/buy providers: %+v", avail)
	}
}

func TestProvidersMissingRegion(t *testing.T) {
	srv := newScreenServer(t, map[string]string{
		"/tv/1396/watch/providers": `{"results":{}}`,
	})

	c := NewScreenClient(srv.URL, "test-key", log.NullLogger())
	avail, err := c.Providers(context.Background(), 1396, domain.MediaTypeSeries)
	if err != nil {
		t.Fatalf("providers: %v", err)
	}
	if avail == nil || len(avail.Stream) != 0 {
		t.Fatalf("missing region should yield empty availability, got %+v", avail)
	}
}

func TestSeasonsAndEpisodes(t *testing.T) {
	srv := newScreenServer(t, map[string]string{
		"/tv/1396":          `{"seasons":[{"season_number":0,"name":"Specials","episode_count":3},{"season_number":1,"name":"Season 1","episode_count":7}]}`,
		"/tv/1396/season/1": `{"episodes":[{"episode_number":1,"name":"Pilot"},{"episode_number":2,"name":"Cat's in the Bag..."}]}`,
	})

	c := NewScreenClient(srv.URL, "test-key", log.NullLogger())

	seasons, err := c.Seasons(context.Background(), 1396)
	if err != nil {
		t.Fatalf("seasons: %v", err)
	}
	if len(seasons) != 2 || seasons[1].EpisodeCount != 7 {
		t.Fatalf("seasons: %+v", seasons)
	}

	episodes, err := c.Episodes(context.Background(), 1396, 1)
	if err != nil {
		t.Fatalf("episodes: %v", err)
	}
	if len(episodes) != 2 || episodes[0].Name != "Pilot" || episodes[0].Watched {
		t.Fatalf("episodes: %+v", episodes)
	}
}

func TestRetriesOnServerError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	c := NewScreenClient(srv.URL, "test-key", log.NullLogger())
	if _, err := c.Providers(context.Background(), 603, domain.MediaTypeFilm); err != nil {
		t.Fatalf("expected recovery after retries: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}
