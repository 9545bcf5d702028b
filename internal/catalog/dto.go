package catalog

import "github.com/mmartin/mediashelf/internal/domain"

// Wire types for the screen catalog API.

type screenSearchPage struct {
	Results []screenSearchResult `json:"results"`
}

type screenSearchResult struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"` // movies
	Name         string  `json:"name"`  // series
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	GenreIDs     []int   `json:"genre_ids"`
	VoteAverage  float64 `json:"vote_average"`
}

func (r screenSearchResult) toResult(mediaType domain.MediaType) domain.SearchResult {
	title := r.Title
	date := r.ReleaseDate
	if mediaType == domain.MediaTypeSeries {
		title = r.Name
		date = r.FirstAirDate
	}

	year := ""
	if len(date) >= 4 {
		year = date[:4]
	}

	return domain.SearchResult{
		Ref:           domain.ScreenRef(r.ID),
		Title:         title,
		Year:          year,
		Genres:        genreNames(r.GenreIDs),
		Description:   r.Overview,
		Type:          mediaType,
		PosterRef:     r.PosterPath,
		CatalogRating: r.VoteAverage,
	}
}

// screenGenres maps the catalog's stable genre identifiers to display
// names. Search responses carry only the identifiers.
var screenGenres = map[int]string{
	28:    "Action",
	12:    "Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	14:    "Fantasy",
	36:    "History",
	27:    "Horror",
	10402: "Music",
	9648:  "Mystery",
	10749: "Romance",
	878:   "Science Fiction",
	10770: "TV Movie",
	53:    "Thriller",
	10752: "War",
	37:    "Western",
	10759: "Action & Adventure",
	10762: "Kids",
	10763: "News",
	10764: "Reality",
	10765: "Sci-Fi & Fantasy",
	10766: "Soap",
	10767: "Talk",
	10768: "War & Politics",
}

func genreNames(ids []int) []string {
	var names []string
	for _, id := range ids {
		if name, ok := screenGenres[id]; ok {
			names = append(names, name)
		}
	}
	return names
}

type providerPage struct {
	Results map[string]regionProviders `json:"results"`
}

type regionProviders struct {
	Link     string         `json:"link"`
	Flatrate []providerInfo `json:"flatrate"`
	Rent     []providerInfo `json:"rent"`
	Buy      []providerInfo `json:"buy"`
}

type providerInfo struct {
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path"`
}

func mapProviders(infos []providerInfo) []domain.Provider {
	providers := make([]domain.Provider, 0, len(infos))
	for _, p := range infos {
		providers = append(providers, domain.Provider{
			Name:     p.ProviderName,
			LogoPath: p.LogoPath,
		})
	}
	return providers
}

type seriesDetail struct {
	Seasons []struct {
		SeasonNumber int    `json:"season_number"`
		Name         string `json:"name"`
		EpisodeCount int    `json:"episode_count"`
	} `json:"seasons"`
}

type seasonDetail struct {
	Episodes []struct {
		EpisodeNumber int    `json:"episode_number"`
		Name          string `json:"name"`
	} `json:"episodes"`
}

// Wire types for the book catalog API.

type bookSearchPage struct {
	Docs []bookDoc `json:"docs"`
}

type bookDoc struct {
	Key              string   `json:"key"` // e.g. "/works/OL27448W"
	Title            string   `json:"title"`
	FirstPublishYear int      `json:"first_publish_year"`
	AuthorName       []string `json:"author_name"`
	Subject          []string `json:"subject"`
	CoverID          int64    `json:"cover_i"`
	PageCount        int      `json:"number_of_pages_median"`
	RatingsAverage   float64  `json:"ratings_average"`
}
